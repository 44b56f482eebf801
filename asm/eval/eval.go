// Package eval implements the Redcode operand expression evaluator: a
// recursive-descent parser over signed 32-bit integers with C-like
// precedence and twenty-six single-letter registers that persist for
// the lifetime of one assembly unit.
package eval

import "github.com/pkg/errors"

var (
	// ErrBadExpr covers syntax errors, unknown identifiers and
	// exceeded recursion depth.
	ErrBadExpr = errors.New("bad expression")
	// ErrDivZero is division or modulo by zero.
	ErrDivZero = errors.New("division by zero")
)

// maxDepth bounds parser recursion through parentheses, assignments
// and unary chains.
const maxDepth = 256

// Evaluator holds the register file. One instance per assembly unit;
// registers carry values from one expression to the next.
type Evaluator struct {
	registers [26]int32
}

func New() *Evaluator { return &Evaluator{} }

// ResetRegisters zeroes A through Z.
func (e *Evaluator) ResetRegisters() {
	e.registers = [26]int32{}
}

// Register reads a register by letter, for inspection.
func (e *Evaluator) Register(c byte) int32 {
	if idx, ok := registerIndex(c); ok {
		return e.registers[idx]
	}
	return 0
}

// Eval parses and evaluates one expression. overflow reports that some
// intermediate left the signed 32-bit range; the wrapped value is
// still returned and usable after normalization.
func (e *Evaluator) Eval(expr string) (value int, overflow bool, err error) {
	p := &parser{ev: e, input: expr}
	v, err := p.parseOr()
	if err != nil {
		return 0, false, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return 0, false, errors.Wrapf(ErrBadExpr, "trailing %q", p.input[p.pos:])
	}
	return int(v), p.overflow, nil
}

type parser struct {
	ev       *Evaluator
	input    string
	pos      int
	depth    int
	overflow bool
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return errors.Wrap(ErrBadExpr, "expression too deep")
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

// parseOr handles ||, the lowest precedence.
func (p *parser) parseOr() (int32, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	left, err := p.parseAnd()
	if err != nil {
		return 0, err
	}
	for p.acceptOp("||") {
		right, err := p.parseAnd()
		if err != nil {
			return 0, err
		}
		left = boolVal(left != 0 || right != 0)
	}
	return left, nil
}

func (p *parser) parseAnd() (int32, error) {
	left, err := p.parseRelational()
	if err != nil {
		return 0, err
	}
	for p.acceptOp("&&") {
		right, err := p.parseRelational()
		if err != nil {
			return 0, err
		}
		left = boolVal(left != 0 && right != 0)
	}
	return left, nil
}

func (p *parser) parseRelational() (int32, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return 0, err
	}
	for {
		var op string
		switch {
		case p.acceptOp("<="):
			op = "<="
		case p.acceptOp(">="):
			op = ">="
		case p.acceptOp("=="):
			op = "=="
		case p.acceptOp("!="):
			op = "!="
		case p.acceptOp("<"):
			op = "<"
		case p.acceptOp(">"):
			op = ">"
		default:
			return left, nil
		}
		right, err := p.parseAdditive()
		if err != nil {
			return 0, err
		}
		switch op {
		case "<":
			left = boolVal(left < right)
		case ">":
			left = boolVal(left > right)
		case "<=":
			left = boolVal(left <= right)
		case ">=":
			left = boolVal(left >= right)
		case "==":
			left = boolVal(left == right)
		case "!=":
			left = boolVal(left != right)
		}
	}
}

func (p *parser) parseAdditive() (int32, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.acceptOp("+"):
			right, err := p.parseMultiplicative()
			if err != nil {
				return 0, err
			}
			left = p.wrap(int64(left) + int64(right))
		case p.acceptOp("-"):
			right, err := p.parseMultiplicative()
			if err != nil {
				return 0, err
			}
			left = p.wrap(int64(left) - int64(right))
		default:
			return left, nil
		}
	}
}

func (p *parser) parseMultiplicative() (int32, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.acceptOp("*"):
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left = p.wrap(int64(left) * int64(right))
		case p.acceptOp("/"):
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, ErrDivZero
			}
			left = p.wrap(int64(left) / int64(right))
		case p.acceptOp("%"):
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, ErrDivZero
			}
			left = p.wrap(int64(left) % int64(right))
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (int32, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	switch {
	case p.acceptOp("+"):
		return p.parseUnary()
	case p.acceptOp("-"):
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return p.wrap(-int64(v)), nil
	case p.acceptOp("!"):
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return boolVal(v == 0), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (int32, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0, errors.Wrap(ErrBadExpr, "unexpected end of expression")
	}

	switch c := p.input[p.pos]; {
	case c == '(':
		p.pos++
		v, err := p.parseOr()
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return 0, errors.Wrap(ErrBadExpr, "missing ')'")
		}
		p.pos++
		return v, nil

	case c >= '0' && c <= '9':
		start := p.pos
		for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
			p.pos++
		}
		var v int64
		for _, d := range p.input[start:p.pos] {
			v = v*10 + int64(d-'0')
			if v > 1<<31-1 {
				p.overflow = true
				v %= 1 << 32 // Keep the low 32 bits, like the wrap below.
			}
		}
		return int32(v), nil

	case isIdentStart(c):
		start := p.pos
		for p.pos < len(p.input) && isIdentChar(p.input[p.pos]) {
			p.pos++
		}
		name := p.input[start:p.pos]
		idx, ok := registerIndex(name[0])
		if !ok || len(name) > 1 {
			return 0, errors.Wrapf(ErrBadExpr, "unknown identifier %q", name)
		}
		// Assignment, careful not to eat '=='.
		p.skipSpace()
		if p.pos < len(p.input) && p.input[p.pos] == '=' &&
			(p.pos+1 >= len(p.input) || p.input[p.pos+1] != '=') {
			p.pos++
			v, err := p.parseOr()
			if err != nil {
				return 0, err
			}
			p.ev.registers[idx] = v
			return v, nil
		}
		return p.ev.registers[idx], nil
	}

	return 0, errors.Wrapf(ErrBadExpr, "unexpected %q", p.input[p.pos:])
}

// wrap folds an int64 intermediate into int32, flagging overflow.
func (p *parser) wrap(v int64) int32 {
	if v > 1<<31-1 || v < -(1<<31) {
		p.overflow = true
	}
	return int32(v)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

// acceptOp consumes op if it is next, skipping leading blanks. Single
// '<' or '>' is not consumed when part of a two-character operator.
func (p *parser) acceptOp(op string) bool {
	p.skipSpace()
	if !hasPrefix(p.input[p.pos:], op) {
		return false
	}
	if len(op) == 1 {
		rest := p.input[p.pos+1:]
		switch op {
		case "<", ">":
			if hasPrefix(rest, "=") {
				return false
			}
		case "+", "-", "*", "%", "!":
			// No two-character forms to protect besides '!='.
			if op == "!" && hasPrefix(rest, "=") {
				return false
			}
		}
	}
	p.pos += len(op)
	return true
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func boolVal(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func registerIndex(c byte) (int, bool) {
	switch {
	case c >= 'A' && c <= 'Z':
		return int(c - 'A'), true
	case c >= 'a' && c <= 'z':
		return int(c - 'a'), true
	}
	return 0, false
}
