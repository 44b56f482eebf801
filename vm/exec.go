package vm

import (
	"github.com/sirupsen/logrus"

	"go.creack.net/mars94/op"
)

// operand is one fully-resolved operand: the A/B values read through
// the addressing mode, the read and write addresses the mode landed
// on, and a copy of the pointed-at instruction for .I semantics.
type operand struct {
	a, b  int
	read  int
	write int
	instr op.Instruction
}

// fold reduces an address under a read or write limit: the offset
// from the current cell, taken through a full core revolution, wraps
// within the limit and then maps back to a real core address. A zero
// limit means the whole core. The coreSize term matters whenever the
// limit does not divide the core size.
func fold(addr, pc, coreSize, limit int) int {
	if limit == 0 {
		return op.Normalize(addr, coreSize)
	}
	r := op.Normalize(addr+coreSize-pc, limit)
	if r > limit/2 {
		r += coreSize - limit
	}
	return op.AddMod(op.Normalize(r, coreSize), pc, coreSize)
}

// resolve evaluates one side of the current instruction. ir is the
// in-register copy: resolution mutates its field values so the other
// side sees the post-resolution state, which is what makes immediate
// operands self-referential.
func (m *Mars) resolve(w *Warrior, pc int, ir *op.Instruction, aSide bool) operand {
	coreSize := m.cfg.CoreSize
	mode, field := ir.BMode, ir.BValue
	if aSide {
		mode, field = ir.AMode, ir.AValue
	}

	switch mode {
	case op.Immediate:
		res := operand{a: ir.AValue, b: ir.BValue, read: pc, write: pc, instr: *ir}
		if aSide {
			// An immediate A-field reads as the instruction itself:
			// the register copy collapses onto the B-field.
			ir.AValue = ir.BValue
			res.instr = *ir
		}
		return res

	case op.Direct:
		raddr := fold(pc+field, pc, coreSize, m.cfg.ReadLimit)
		waddr := fold(pc+field, pc, coreSize, m.cfg.WriteLimit)
		cell := m.core.Get(raddr)
		m.record(w.ID, raddr, AccessRead)
		if aSide {
			ir.AValue = cell.BValue
		} else {
			ir.BValue = cell.BValue
		}
		return operand{a: cell.AValue, b: cell.BValue, read: raddr, write: waddr, instr: cell}

	default:
		return m.resolveIndirect(w, pc, ir, aSide, mode, field)
	}
}

// resolveIndirect handles the five indirect modes, including the
// pre-decrement and post-increment side effects on the pointer cell.
func (m *Mars) resolveIndirect(w *Warrior, pc int, ir *op.Instruction, aSide bool, mode op.Mode, field int) operand {
	coreSize := m.cfg.CoreSize

	// The pointer cell itself obeys the write limit for modes that
	// mutate it, the read limit otherwise.
	var base int
	switch mode {
	case op.BPredecr, op.BPostinc, op.APredecr, op.APostinc:
		base = fold(pc+field, pc, coreSize, m.cfg.WriteLimit)
	default:
		base = fold(pc+field, pc, coreSize, m.cfg.ReadLimit)
		m.record(w.ID, base, AccessRead)
	}

	ptrCell := m.core.Get(base)
	usesAField := mode == op.AIndirect || mode == op.APredecr || mode == op.APostinc

	if mode == op.BPredecr || mode == op.APredecr {
		if usesAField {
			ptrCell.AValue = op.SubMod(ptrCell.AValue, 1, coreSize)
		} else {
			ptrCell.BValue = op.SubMod(ptrCell.BValue, 1, coreSize)
		}
		m.core.Set(base, ptrCell)
		m.record(w.ID, base, AccessWrite)
	}

	ptr := ptrCell.BValue
	if usesAField {
		ptr = ptrCell.AValue
	}

	raddr := fold(base+ptr, pc, coreSize, m.cfg.ReadLimit)
	waddr := fold(base+ptr, pc, coreSize, m.cfg.WriteLimit)
	cell := m.core.Get(raddr)
	m.record(w.ID, raddr, AccessRead)
	if aSide {
		ir.AValue = cell.BValue
	} else {
		ir.BValue = cell.BValue
	}

	if mode == op.BPostinc || mode == op.APostinc {
		// The increment lands after the read, on the cell as it now
		// stands: re-fetch so a self-pointing decrement still shows.
		cur := m.core.Get(base)
		if usesAField {
			cur.AValue = op.AddMod(cur.AValue, 1, coreSize)
		} else {
			cur.BValue = op.AddMod(cur.BValue, 1, coreSize)
		}
		m.core.Set(base, cur)
		m.record(w.ID, base, AccessWrite)
	}

	return operand{a: cell.AValue, b: cell.BValue, read: raddr, write: waddr, instr: cell}
}

// executeCycle pops and runs one task of w. It reports whether the
// warrior died this cycle.
func (m *Mars) executeCycle(w *Warrior) bool {
	pc, ok := w.queue.Pop()
	if !ok {
		m.kill(w)
		m.flush(w)
		return true
	}
	m.record(w.ID, pc, AccessExecute)

	ir := m.core.Get(pc)
	if m.tracer != nil {
		m.tracer.WithFields(logrus.Fields{
			"warrior": w.ID,
			"pc":      pc,
			"instr":   ir.String(),
			"cycle":   m.CycleNum(),
		}).Debug("execute")
	}

	opA := m.resolve(w, pc, &ir, true)
	opB := m.resolve(w, pc, &ir, false)

	coreSize := m.cfg.CoreSize
	next := op.AddMod(pc, 1, coreSize)
	died := false
	pushNext := true

	switch oc, mod := ir.Op.Code(), ir.Op.Modifier(); oc {
	case op.DAT:
		died = true
	case op.MOV:
		m.execMov(w, mod, opA, opB)
	case op.ADD:
		m.execArith(w, mod, opA, opB, op.AddMod)
	case op.SUB:
		m.execArith(w, mod, opA, opB, op.SubMod)
	case op.MUL:
		m.execArith(w, mod, opA, opB, op.MulMod)
	case op.DIV:
		died = !m.execDivMod(w, mod, opA, opB, true)
	case op.MOD:
		died = !m.execDivMod(w, mod, opA, opB, false)
	case op.JMP:
		next = opA.read
	case op.JMZ:
		if testZero(mod, opB) {
			next = opA.read
		}
	case op.JMN:
		if !testZero(mod, opB) {
			next = opA.read
		}
	case op.DJN:
		if m.execDjn(w, mod, opA, opB) {
			next = opA.read
		}
	case op.SEQ:
		if cmpEqual(mod, opA, opB) {
			next = op.AddMod(next, 1, coreSize)
		}
	case op.SNE:
		if !cmpEqual(mod, opA, opB) {
			next = op.AddMod(next, 1, coreSize)
		}
	case op.SLT:
		if sltLess(mod, opA, opB) {
			next = op.AddMod(next, 1, coreSize)
		}
	case op.SPL:
		if w.Tasks < m.cfg.MaxProcesses {
			w.queue.Push(next)
			w.Tasks++
			next = opA.read
		}
	case op.NOP:
	case op.LDP:
		m.execLdp(w, mod, opA, opB)
	case op.STP:
		m.execStp(w, mod, opA, opB)
	default:
		died = true
	}

	if died {
		pushNext = false
		w.Tasks--
	}
	killed := false
	if w.Tasks <= 0 {
		m.kill(w)
		killed = true
	} else if pushNext {
		w.queue.Push(next)
	}

	m.flush(w)
	return killed
}

// execMov copies A into B. .I moves the whole resolved instruction.
func (m *Mars) execMov(w *Warrior, mod op.Modifier, a, b operand) {
	dst := m.core.Get(b.write)
	switch mod {
	case op.ModA:
		dst.AValue = a.a
	case op.ModB:
		dst.BValue = a.b
	case op.ModAB:
		dst.BValue = a.a
	case op.ModBA:
		dst.AValue = a.b
	case op.ModF:
		dst.AValue, dst.BValue = a.a, a.b
	case op.ModX:
		dst.AValue, dst.BValue = a.b, a.a
	case op.ModI:
		dst = a.instr
		dst.AValue, dst.BValue = a.a, a.b
	}
	m.core.Set(b.write, dst)
	m.record(w.ID, b.write, AccessWrite)
}

// execArith applies f(B-operand, A-operand) into the B target.
func (m *Mars) execArith(w *Warrior, mod op.Modifier, a, b operand, f func(a, b, m int) int) {
	cs := m.cfg.CoreSize
	dst := m.core.Get(b.write)
	switch mod {
	case op.ModA:
		dst.AValue = f(b.a, a.a, cs)
	case op.ModB:
		dst.BValue = f(b.b, a.b, cs)
	case op.ModAB:
		dst.BValue = f(b.b, a.a, cs)
	case op.ModBA:
		dst.AValue = f(b.a, a.b, cs)
	case op.ModF, op.ModI:
		dst.AValue = f(b.a, a.a, cs)
		dst.BValue = f(b.b, a.b, cs)
	case op.ModX:
		dst.AValue = f(b.a, a.b, cs)
		dst.BValue = f(b.b, a.a, cs)
	}
	m.core.Set(b.write, dst)
	m.record(w.ID, b.write, AccessWrite)
}

// execDivMod divides or reduces the B target by the A operand. Every
// half with a non-zero divisor still writes; any zero divisor kills
// the task afterwards. ok is false on death.
func (m *Mars) execDivMod(w *Warrior, mod op.Modifier, a, b operand, div bool) bool {
	f := func(x, y int) int {
		if div {
			return x / y
		}
		return x % y
	}
	dst := m.core.Get(b.write)
	ok := true

	doA := func(x, y int) {
		if y == 0 {
			ok = false
			return
		}
		dst.AValue = f(x, y)
	}
	doB := func(x, y int) {
		if y == 0 {
			ok = false
			return
		}
		dst.BValue = f(x, y)
	}

	switch mod {
	case op.ModA:
		doA(b.a, a.a)
	case op.ModB:
		doB(b.b, a.b)
	case op.ModAB:
		doB(b.b, a.a)
	case op.ModBA:
		doA(b.a, a.b)
	case op.ModF, op.ModI:
		doA(b.a, a.a)
		doB(b.b, a.b)
	case op.ModX:
		doA(b.a, a.b)
		doB(b.b, a.a)
	}
	m.core.Set(b.write, dst)
	m.record(w.ID, b.write, AccessWrite)
	return ok
}

// testZero checks the B operand fields selected by the modifier;
// the combined modifiers require every field to be zero.
func testZero(mod op.Modifier, b operand) bool {
	switch mod {
	case op.ModA, op.ModBA:
		return b.a == 0
	case op.ModB, op.ModAB:
		return b.b == 0
	default: // .F, .X, .I
		return b.a == 0 && b.b == 0
	}
}

// execDjn decrements the B target in core, then reports whether the
// post-decrement value says to jump.
func (m *Mars) execDjn(w *Warrior, mod op.Modifier, a, b operand) bool {
	cs := m.cfg.CoreSize
	dst := m.core.Get(b.write)
	jump := false
	switch mod {
	case op.ModA, op.ModBA:
		dst.AValue = op.SubMod(dst.AValue, 1, cs)
		jump = dst.AValue != 0
	case op.ModB, op.ModAB:
		dst.BValue = op.SubMod(dst.BValue, 1, cs)
		jump = dst.BValue != 0
	default: // .F, .X, .I
		dst.AValue = op.SubMod(dst.AValue, 1, cs)
		dst.BValue = op.SubMod(dst.BValue, 1, cs)
		jump = dst.AValue != 0 || dst.BValue != 0
	}
	m.core.Set(b.write, dst)
	m.record(w.ID, b.write, AccessWrite)
	return jump
}

// cmpEqual compares the operand pair under the modifier. .I compares
// the full instructions including opcode and modes.
func cmpEqual(mod op.Modifier, a, b operand) bool {
	switch mod {
	case op.ModA:
		return a.a == b.a
	case op.ModB:
		return a.b == b.b
	case op.ModAB:
		return a.a == b.b
	case op.ModBA:
		return a.b == b.a
	case op.ModF:
		return a.a == b.a && a.b == b.b
	case op.ModX:
		return a.a == b.b && a.b == b.a
	case op.ModI:
		ai, bi := a.instr, b.instr
		ai.AValue, ai.BValue = a.a, a.b
		bi.AValue, bi.BValue = b.a, b.b
		return ai == bi
	}
	return false
}

// sltLess tests A strictly below B field-wise; .I falls back to .F.
func sltLess(mod op.Modifier, a, b operand) bool {
	switch mod {
	case op.ModA:
		return a.a < b.a
	case op.ModB:
		return a.b < b.b
	case op.ModAB:
		return a.a < b.b
	case op.ModBA:
		return a.b < b.a
	case op.ModX:
		return a.a < b.b && a.b < b.a
	default: // .F, .I
		return a.a < b.a && a.b < b.b
	}
}

// execLdp loads a private-storage cell into the B target in core.
func (m *Mars) execLdp(w *Warrior, mod op.Modifier, a, b operand) {
	dst := m.core.Get(b.write)
	switch mod {
	case op.ModA:
		dst.AValue = m.pget(w, a.a)
	case op.ModAB:
		dst.BValue = m.pget(w, a.a)
	case op.ModBA:
		dst.AValue = m.pget(w, a.b)
	default: // .B, .F, .X, .I
		dst.BValue = m.pget(w, a.b)
	}
	m.core.Set(b.write, dst)
	m.record(w.ID, b.write, AccessWrite)
}

// execStp stores the A operand into a private-storage cell addressed
// by the B operand.
func (m *Mars) execStp(w *Warrior, mod op.Modifier, a, b operand) {
	switch mod {
	case op.ModA:
		m.pset(w, b.a, a.a)
	case op.ModAB:
		m.pset(w, b.b, a.a)
	case op.ModBA:
		m.pset(w, b.a, a.b)
	default: // .B, .F, .X, .I
		m.pset(w, b.b, a.b)
	}
}

// pget reads private storage. Cell 0 aliases the warrior's own last
// round result, not the (possibly shared) storage's.
func (m *Mars) pget(w *Warrior, i int) int {
	ps := m.pspaces[w.pSpaceIndex]
	if op.Normalize(i, ps.Size()) == 0 {
		return w.LastResult
	}
	return ps.Get(i)
}

func (m *Mars) pset(w *Warrior, i, v int) {
	ps := m.pspaces[w.pSpaceIndex]
	if op.Normalize(i, ps.Size()) == 0 {
		w.LastResult = v
		return
	}
	ps.Set(i, v)
}

// record buffers one core access for the listener. Skipped entirely
// when nobody is watching.
func (m *Mars) record(warrior, addr int, kind AccessKind) {
	if m.listener == nil {
		return
	}
	m.accessBuf = append(m.accessBuf, CoreAccess{Warrior: warrior, Address: addr, Kind: kind})
}

// flush delivers the buffered accesses and the task count after one
// executed cycle.
func (m *Mars) flush(w *Warrior) {
	if m.listener == nil {
		return
	}
	if len(m.accessBuf) > 0 {
		m.listener.OnCoreAccess(m.accessBuf)
		m.accessBuf = m.accessBuf[:0]
	}
	m.listener.OnTaskCount(TaskCount{Warrior: w.ID, Tasks: w.Tasks})
}
