package vm

import (
	"testing"

	"go.creack.net/mars94/op"
)

func ins(oc op.Opcode, mod op.Modifier, am op.Mode, av int, bm op.Mode, bv int) op.Instruction {
	return op.Instruction{Op: op.MakeOp(oc, mod), AMode: am, AValue: av, BMode: bm, BValue: bv}
}

// jmp0 loops in place forever, a harmless sparring partner.
var jmp0 = []op.Instruction{ins(op.JMP, op.ModB, op.Direct, 0, op.Direct, 0)}

// testMars loads the given raw programs at fixed positions 0 and 4000
// and primes round 1, so warrior 0 executes on the first Step.
func testMars(t *testing.T, cfg op.Config, progs ...[]op.Instruction) *Mars {
	t.Helper()
	data := make([]*op.WarriorData, len(progs))
	for i, p := range progs {
		data[i] = &op.WarriorData{Instructions: p, Pin: op.NoPin}
	}
	m := NewMars(cfg)
	if err := m.LoadWarriors(data); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := m.SetupRound(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return m
}

func pairConfig() op.Config {
	cfg := op.DefaultConfig()
	cfg.Seed = 1
	cfg.FixedPosition = 4000
	return cfg
}

// step advances n instructions, failing if the round ends early.
func step(t *testing.T, m *Mars, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		res, err := m.Step()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if res != nil {
			t.Fatalf("step %d: round ended early (%v)", i, *res)
		}
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		name                      string
		addr, pc, coreSize, limit int
		want                      int
	}{
		{"no limit wraps core", 8005, 0, 8000, 0, 5},
		{"within limit", 1000, 0, 8000, 4000, 1000},
		{"beyond half limit maps behind", 3000, 0, 8000, 4000, 7000},
		{"relative to pc", 120, 100, 8000, 4000, 120},
		{"negative", -1, 0, 8000, 4000, 7999},
		// 8000 mod 3000 != 0: the full-revolution term shifts the
		// residue, so these differ from a plain field mod limit.
		{"non-dividing limit behind", 100, 0, 8000, 3000, 7100},
		{"non-dividing limit ahead", 1100, 0, 8000, 3000, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fold(tt.addr, tt.pc, tt.coreSize, tt.limit); got != tt.want {
				t.Fatalf("fold(%d, %d, %d, %d): got %d, want %d",
					tt.addr, tt.pc, tt.coreSize, tt.limit, got, tt.want)
			}
		})
	}
}

func TestIndirectBaseUsesReadLimit(t *testing.T) {
	// With split limits, a plain B-indirect chains both final
	// addresses off the read-folded pointer base; only the mutating
	// modes start from the write-folded one.
	cfg := pairConfig()
	cfg.ReadLimit = 8000
	cfg.WriteLimit = 3000
	m := testMars(t, cfg, jmp0, jmp0)

	m.Core().Set(3000, ins(op.DAT, op.ModF, op.Immediate, 0, op.Immediate, 1))
	ir := ins(op.MOV, op.ModAB, op.Immediate, 9, op.BIndirect, 3000)
	got := m.resolve(m.Warriors()[0], 0, &ir, false)
	if got.read != 3001 {
		t.Fatalf("read address: got %d, want 3001", got.read)
	}
	if got.write != 7001 {
		t.Fatalf("write address: got %d, want 7001", got.write)
	}
}

func TestMovICopiesWholeCell(t *testing.T) {
	imp := []op.Instruction{ins(op.MOV, op.ModI, op.Direct, 0, op.Direct, 1)}
	m := testMars(t, pairConfig(), imp, jmp0)

	step(t, m, 1)
	if got := m.Core().Get(1); got != imp[0] {
		t.Fatalf("cell 1: got %v, want %v", got, imp[0])
	}
	if got := m.Warriors()[0].Queue().Snapshot(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("queue: got %v, want [1]", got)
	}
}

func TestAddF(t *testing.T) {
	prog := []op.Instruction{
		ins(op.ADD, op.ModF, op.Direct, 1, op.Direct, 2),
		ins(op.DAT, op.ModF, op.Immediate, 10, op.Immediate, 20),
		ins(op.DAT, op.ModF, op.Immediate, 3, op.Immediate, 4),
	}
	m := testMars(t, pairConfig(), prog, jmp0)

	step(t, m, 1)
	got := m.Core().Get(2)
	if got.AValue != 13 || got.BValue != 24 {
		t.Fatalf("cell 2: got %d,%d, want 13,24", got.AValue, got.BValue)
	}
}

func TestResolvedFieldFeedsImmediateOperand(t *testing.T) {
	// Resolving the direct A-operand rewrites the in-register A-field,
	// so the immediate B-operand reads 7, not the source's 1.
	prog := []op.Instruction{
		ins(op.ADD, op.ModA, op.Direct, 1, op.Immediate, 0),
		ins(op.DAT, op.ModF, op.Immediate, 5, op.Immediate, 7),
	}
	m := testMars(t, pairConfig(), prog, jmp0)

	step(t, m, 1)
	if got := m.Core().Get(0).AValue; got != 12 {
		t.Fatalf("self A-field: got %d, want 12 (7+5)", got)
	}
}

func TestDivPartialWriteThenDeath(t *testing.T) {
	prog := []op.Instruction{
		ins(op.DIV, op.ModF, op.Direct, 1, op.Direct, 2),
		ins(op.DAT, op.ModF, op.Immediate, 4, op.Immediate, 0),
		ins(op.DAT, op.ModF, op.Immediate, 9, op.Immediate, 8),
	}
	m := testMars(t, pairConfig(), prog, jmp0)

	res, err := m.Step()
	if err != nil || res != nil {
		t.Fatalf("step: res=%v err=%v", res, err)
	}
	// The A half (divisor 4) still writes; the zero B divisor kills.
	got := m.Core().Get(2)
	if got.AValue != 2 || got.BValue != 8 {
		t.Fatalf("cell 2: got %d,%d, want 2,8", got.AValue, got.BValue)
	}
	if w := m.Warriors()[0]; w.Alive {
		t.Fatal("warrior survived division by zero")
	}
	res, err = m.Step()
	if err != nil || res == nil || res.Winner != 1 {
		t.Fatalf("round end: res=%v err=%v", res, err)
	}
}

func TestSeqSkips(t *testing.T) {
	prog := []op.Instruction{
		ins(op.SEQ, op.ModB, op.Direct, 1, op.Direct, 2),
		ins(op.DAT, op.ModF, op.Immediate, 0, op.Immediate, 7),
		ins(op.DAT, op.ModF, op.Immediate, 0, op.Immediate, 7),
	}
	m := testMars(t, pairConfig(), prog, jmp0)

	step(t, m, 1)
	if got := m.Warriors()[0].Queue().Snapshot(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("queue after skip: got %v, want [2]", got)
	}
}

func TestDjnDecrementsAndJumps(t *testing.T) {
	prog := []op.Instruction{
		ins(op.DJN, op.ModB, op.Direct, 2, op.Direct, 1),
		ins(op.DAT, op.ModF, op.Immediate, 0, op.Immediate, 2),
		ins(op.JMP, op.ModB, op.Direct, 0, op.Direct, 0),
	}
	m := testMars(t, pairConfig(), prog, jmp0)

	step(t, m, 1)
	if got := m.Core().Get(1).BValue; got != 1 {
		t.Fatalf("counter: got %d, want 1", got)
	}
	if got := m.Warriors()[0].Queue().Snapshot(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("queue after jump: got %v, want [2]", got)
	}
}

func TestJmzTestsBothFields(t *testing.T) {
	prog := []op.Instruction{
		ins(op.JMZ, op.ModF, op.Direct, 2, op.Direct, 1),
		ins(op.DAT, op.ModF, op.Immediate, 0, op.Immediate, 5),
		ins(op.JMP, op.ModB, op.Direct, 0, op.Direct, 0),
	}
	m := testMars(t, pairConfig(), prog, jmp0)

	// B-field is non-zero: .F requires both, so no jump.
	step(t, m, 1)
	if got := m.Warriors()[0].Queue().Snapshot(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("queue: got %v, want [1]", got)
	}
}

func TestPredecrement(t *testing.T) {
	prog := []op.Instruction{
		ins(op.MOV, op.ModAB, op.Immediate, 9, op.BPredecr, 1),
		ins(op.DAT, op.ModF, op.Immediate, 0, op.Immediate, 5),
	}
	m := testMars(t, pairConfig(), prog, jmp0)

	step(t, m, 1)
	if got := m.Core().Get(1).BValue; got != 4 {
		t.Fatalf("pointer after decrement: got %d, want 4", got)
	}
	if got := m.Core().Get(5).BValue; got != 9 {
		t.Fatalf("target: got %d, want 9", got)
	}
}

func TestPostIncrementPointerCell(t *testing.T) {
	prog := []op.Instruction{
		ins(op.MOV, op.ModAB, op.Immediate, 7, op.BPostinc, 1),
		ins(op.DAT, op.ModF, op.Immediate, 0, op.Immediate, 2),
		ins(op.DAT, op.ModF, op.Immediate, 0, op.Immediate, 0),
		ins(op.DAT, op.ModF, op.Immediate, 0, op.Immediate, 0),
	}
	m := testMars(t, pairConfig(), prog, jmp0)

	step(t, m, 1)
	// The increment lands on the pointer cell, the store on its target.
	if got := m.Core().Get(1).BValue; got != 3 {
		t.Fatalf("pointer after increment: got %d, want 3", got)
	}
	if got := m.Core().Get(3).BValue; got != 7 {
		t.Fatalf("target: got %d, want 7", got)
	}
}

func TestPostIncrementSelfPointer(t *testing.T) {
	// Pointer targets itself: the store overwrites the increment.
	prog := []op.Instruction{
		ins(op.MOV, op.ModAB, op.Immediate, 7, op.BPostinc, 1),
		ins(op.DAT, op.ModF, op.Immediate, 3, op.Immediate, 0),
	}
	m := testMars(t, pairConfig(), prog, jmp0)

	step(t, m, 1)
	got := m.Core().Get(1)
	if got.AValue != 3 || got.BValue != 7 {
		t.Fatalf("cell 1: got %d,%d, want 3,7", got.AValue, got.BValue)
	}
}

func TestSplitRespectsProcessLimit(t *testing.T) {
	cfg := pairConfig()
	cfg.MaxProcesses = 2
	prog := []op.Instruction{
		ins(op.SPL, op.ModB, op.Direct, 0, op.Direct, 0),
		ins(op.MOV, op.ModI, op.Direct, 0, op.Direct, 1),
	}
	m := testMars(t, cfg, prog, jmp0)

	res, err := m.Step()
	if res != nil || err != nil {
		t.Fatalf("step: res=%v err=%v", res, err)
	}
	w := m.Warriors()[0]
	if w.Tasks != 2 {
		t.Fatalf("tasks after split: got %d, want 2", w.Tasks)
	}
	// Continuation first, then the split target.
	if got := w.Queue().Snapshot(); len(got) != 2 || got[0] != 1 || got[1] != 0 {
		t.Fatalf("queue: got %v, want [1 0]", got)
	}

	// Every further SPL at the limit degrades to a plain fallthrough.
	step(t, m, 4)
	if w.Tasks != 2 {
		t.Fatalf("tasks at limit: got %d, want 2", w.Tasks)
	}
}

func TestLdpStp(t *testing.T) {
	prog := []op.Instruction{
		ins(op.STP, op.ModAB, op.Immediate, 42, op.Immediate, 3),
		ins(op.LDP, op.ModAB, op.Immediate, 3, op.Direct, 1),
		ins(op.DAT, op.ModF, op.Immediate, 0, op.Immediate, 0),
	}
	m := testMars(t, pairConfig(), prog, jmp0)

	step(t, m, 3) // STP, partner, LDP.
	if got := m.Core().Get(2).BValue; got != 42 {
		t.Fatalf("loaded value: got %d, want 42", got)
	}
}

func TestStpCellZeroSetsLastResult(t *testing.T) {
	prog := []op.Instruction{
		ins(op.STP, op.ModAB, op.Immediate, 9, op.Immediate, 0),
	}
	m := testMars(t, pairConfig(), prog, jmp0)

	step(t, m, 1)
	if got := m.Warriors()[0].LastResult; got != 9 {
		t.Fatalf("last result: got %d, want 9", got)
	}
}

func TestLdpCellZeroReadsLastResult(t *testing.T) {
	prog := []op.Instruction{
		ins(op.LDP, op.ModAB, op.Immediate, 0, op.Direct, 1),
		ins(op.DAT, op.ModF, op.Immediate, 0, op.Immediate, 0),
	}
	m := testMars(t, pairConfig(), prog, jmp0)

	step(t, m, 1)
	// No round fought yet: the initial result reads coreSize-1.
	if got := m.Core().Get(1).BValue; got != 7999 {
		t.Fatalf("loaded initial result: got %d, want 7999", got)
	}
}

func TestDatKillsAndShortensRound(t *testing.T) {
	m := testMars(t, pairConfig(), []op.Instruction{op.Initial}, jmp0)

	total := m.CycleNum() // 0 elapsed.
	if total != 0 {
		t.Fatalf("elapsed before start: %d", total)
	}
	res, err := m.Step()
	if res != nil || err != nil {
		t.Fatalf("step: res=%v err=%v", res, err)
	}
	if m.Warriors()[0].Alive {
		t.Fatal("warrior survived DAT")
	}
	res, err = m.Step()
	if err != nil || res == nil {
		t.Fatalf("expected round end, got res=%v err=%v", res, err)
	}
	if res.Outcome != Win || res.Winner != 1 {
		t.Fatalf("result: %+v", *res)
	}
}
