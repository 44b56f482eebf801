package parser

import (
	"strings"

	"github.com/pkg/errors"

	"go.creack.net/mars94/asm/eval"
	"go.creack.net/mars94/op"
)

// assembleLine is pass 2 for one buffered instruction line: resolve
// the opcode and modifier, split and expand the operands, default
// what the source left out and evaluate both fields.
func (p *Parser) assembleLine(i int, ln instrLine) (op.Instruction, bool) {
	opName, modName, hasMod := strings.Cut(ln.opText, ".")
	oc, ok := op.OpcodeFromName(opName)
	if !ok {
		p.errorf(ln.num, "Unknown opcode '%s'", opName)
		return op.Instruction{}, false
	}
	var mod op.Modifier
	if hasMod {
		if mod, ok = op.ModifierFromName(modName); !ok {
			p.errorf(ln.num, "Unknown modifier '.%s' on %s", modName, opName)
			return op.Instruction{}, false
		}
	}

	operands := splitOperands(ln.operands)
	var aText, bText string
	switch len(operands) {
	case 1:
		// DAT's lone operand is its B-field; jumps default B to $0.
		switch oc {
		case op.DAT:
			aText, bText = "#0", operands[0]
		case op.JMP, op.SPL, op.NOP:
			aText, bText = operands[0], "$0"
		default:
			p.errorf(ln.num, "Missing operand for %s", strings.ToUpper(opName))
			return op.Instruction{}, false
		}
	case 2:
		aText, bText = operands[0], operands[1]
	case 0:
		p.errorf(ln.num, "Missing operand for %s", strings.ToUpper(opName))
		return op.Instruction{}, false
	default:
		p.errorf(ln.num, "Too many operands for %s", strings.ToUpper(opName))
		return op.Instruction{}, false
	}

	aMode, aExpr := p.operand(i, ln.num, aText)
	bMode, bExpr := p.operand(i, ln.num, bText)
	if !hasMod {
		mod = op.DefaultModifier(oc, aMode, bMode)
	}

	aVal, okA := p.evalField(ln.num, aExpr)
	bVal, okB := p.evalField(ln.num, bExpr)
	if !okA || !okB {
		return op.Instruction{}, false
	}

	return op.Instruction{
		Op:     op.MakeOp(oc, mod),
		AMode:  aMode,
		BMode:  bMode,
		AValue: op.Normalize(aVal, p.cfg.CoreSize),
		BValue: op.Normalize(bVal, p.cfg.CoreSize),
	}, true
}

// operand expands symbols in one operand and strips the addressing
// mode prefix. Expansion comes first so an EQU body can contribute
// the mode character.
func (p *Parser) operand(curline, num int, text string) (op.Mode, string) {
	expanded := strings.TrimSpace(p.expandExpr(text, curline, false, num))
	if expanded != "" {
		if m, ok := op.ModeFromChar(expanded[0]); ok {
			return m, expanded[1:]
		}
	}
	return op.Direct, expanded
}

func (p *Parser) evalField(num int, expr string) (int, bool) {
	v, overflow, err := p.ev.Eval(expr)
	if err != nil {
		if errors.Is(err, eval.ErrDivZero) {
			p.errorf(num, "Division by zero in expression '%s'", expr)
		} else {
			p.errorf(num, "Bad expression '%s': %s", expr, err)
		}
		return 0, false
	}
	if overflow {
		p.warnf(num, "Arithmetic overflow in expression '%s'", expr)
	}
	return v, true
}
