// Package parser implements the two-pass Redcode assembler: pass 1
// walks the reconstructed source collecting labels, EQU macros and
// FOR/ROF expansions; pass 2 assembles each buffered instruction line
// into a packed op.Instruction. Diagnostics accumulate as Messages,
// never as Go errors.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"go.creack.net/mars94/asm/eval"
	"go.creack.net/mars94/op"
)

const versionValue = op.Version

// maxLineLabels is the most labels a single line prefix may carry.
const maxLineLabels = 7

// maxMacroDepth bounds line-level macro expansion so a macro that
// expands to itself cannot recurse forever.
const maxMacroDepth = 32

// instrLine is one instruction buffered by pass 1: the opcode token
// (possibly with a '.modifier' suffix) and the raw operand text.
type instrLine struct {
	num      int
	opText   string
	operands string
}

// pendingExpr is an expression whose labels may not be defined yet;
// ORG, END, PIN and ;assert arguments evaluate after pass 1.
type pendingExpr struct {
	expr string
	line int
}

// Parser holds the state of one assembly unit.
type Parser struct {
	cfg  op.Config
	ev   *eval.Evaluator
	msgs Messages

	symbols  map[string]*symbol
	counters []forCounter

	lines []instrLine

	pendingLabels []string
	lastEquLabel  string
	macroDepth    int

	name     string
	author   string
	strategy strings.Builder

	sawRedcode bool
	sawAssert  bool
	halted     bool

	asserts []pendingExpr
	org     *pendingExpr
	end     *pendingExpr
	pin     *pendingExpr
}

// Parse assembles Redcode source into a warrior image. The warrior is
// nil whenever any Error-severity message was emitted.
func Parse(source string, cfg op.Config) (*op.WarriorData, Messages) {
	p := &Parser{
		cfg:     cfg,
		ev:      eval.New(),
		symbols: map[string]*symbol{},
	}
	p.process(reconstruct(source))
	w := p.finalize()
	return w, p.msgs
}

func (p *Parser) errorf(line int, format string, args ...any) {
	p.msgs = append(p.msgs, Message{Severity: Error, Line: line, Text: fmt.Sprintf(format, args...)})
}

func (p *Parser) warnf(line int, format string, args ...any) {
	p.msgs = append(p.msgs, Message{Severity: Warning, Line: line, Text: fmt.Sprintf(format, args...)})
}

func (p *Parser) infof(line int, format string, args ...any) {
	p.msgs = append(p.msgs, Message{Severity: Info, Line: line, Text: fmt.Sprintf(format, args...)})
}

// process runs pass 1 over a block of logical lines. It recurses for
// FOR bodies and multi-line macro references.
func (p *Parser) process(lines []sourceLine) {
	for i := 0; i < len(lines); i++ {
		if p.halted {
			return
		}
		line := lines[i]
		text := p.substConcat(line.text)

		if trimmed := strings.TrimSpace(text); strings.HasPrefix(trimmed, ";") {
			p.directive(line.num, trimmed)
			continue
		}

		code := codePart(text)
		items := lexItems(code)
		if len(items) == 0 {
			continue
		}

		// A lone reference to a macro expands in place; this is how
		// multi-line EQU blocks get emitted.
		if len(items) == 1 && items[0].typ == itemIdent {
			if sym, ok := p.lookup(items[0].val); ok && sym.kind == macroSym {
				p.expandMacroLines(line.num, items[0].val, sym)
				continue
			}
		}

		labels, rest := takeLabels(items)
		if len(rest) == 0 {
			// Labels alone on a line bind to the next instruction.
			p.pendingLabels = append(p.pendingLabels, labels...)
			continue
		}
		labels = append(p.pendingLabels, labels...)
		p.pendingLabels = nil

		head := rest[0]
		if head.typ != itemIdent {
			p.errorf(line.num, "Expected opcode, got %q", head.val)
			p.lastEquLabel = ""
			continue
		}
		remainder := strings.TrimSpace(code[int(head.pos)+len(head.val):])

		switch strings.ToUpper(head.val) {
		case "EQU":
			p.defineEqu(line.num, labels, remainder)
		case "FOR":
			body, closed := collectForBody(lines[i+1:])
			if !closed {
				p.warnf(line.num, "FOR without matching ROF")
			}
			i += len(body)
			if closed {
				i++ // Skip the ROF line itself.
			}
			p.expandFor(line.num, labels, remainder, body)
			p.lastEquLabel = ""
		case "ROF":
			p.warnf(line.num, "ROF without matching FOR")
			p.lastEquLabel = ""
		case "ORG":
			p.org = &pendingExpr{expr: remainder, line: line.num}
			p.lastEquLabel = ""
		case "END":
			if remainder != "" {
				p.end = &pendingExpr{expr: remainder, line: line.num}
			}
			p.halted = true
		case "PIN":
			p.pin = &pendingExpr{expr: remainder, line: line.num}
			p.lastEquLabel = ""
		default:
			idx := len(p.lines)
			for _, l := range labels {
				p.defineAddress(l, idx)
			}
			p.lines = append(p.lines, instrLine{num: line.num, opText: head.val, operands: remainder})
			p.lastEquLabel = ""
		}
	}
}

// defineEqu registers an EQU body. A body with no label continues the
// previous EQU's multi-line list.
func (p *Parser) defineEqu(num int, labels []string, body string) {
	if len(labels) == 0 {
		if p.lastEquLabel != "" {
			if sym, ok := p.lookup(p.lastEquLabel); ok {
				sym.lines = append(sym.lines, body)
				return
			}
		}
		p.errorf(num, "EQU without label")
		return
	}
	for _, l := range labels {
		p.defineMacro(l, body)
	}
	p.lastEquLabel = strings.ToLower(labels[len(labels)-1])
}

// expandFor evaluates the loop count and emits the body count times,
// with the loop labels bound to the 1-based iteration number.
func (p *Parser) expandFor(num int, labels []string, countExpr string, body []sourceLine) {
	expanded := p.expandExpr(countExpr, 0, true, num)
	v, _, err := p.ev.Eval(expanded)
	if err != nil {
		p.errorf(num, "Bad FOR count '%s': %s", countExpr, err)
		return
	}
	count := int(uint16(int32(v))) // Counts are 16-bit, like pMARS.

	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, strings.ToLower(l))
	}
	p.counters = append(p.counters, forCounter{names: names})
	ci := len(p.counters) - 1
	for iter := 1; iter <= count; iter++ {
		p.counters[ci].value = iter
		for _, l := range labels {
			p.defineMacro(l, strconv.Itoa(iter))
		}
		p.process(body)
	}
	p.counters = p.counters[:ci]
}

// expandMacroLines re-processes a macro's body lines in place of a
// bare reference to it.
func (p *Parser) expandMacroLines(num int, name string, sym *symbol) {
	if p.macroDepth >= maxMacroDepth {
		p.errorf(num, "Recursive macro expansion of '%s'", name)
		return
	}
	p.macroDepth++
	block := make([]sourceLine, 0, len(sym.lines))
	for _, l := range sym.lines {
		block = append(block, sourceLine{num: num, text: l})
	}
	p.process(block)
	p.macroDepth--
}

// collectForBody returns the lines up to the matching ROF, tracking
// FOR/ROF nesting. closed is false when the input runs out first.
func collectForBody(lines []sourceLine) (body []sourceLine, closed bool) {
	depth := 0
	for i, line := range lines {
		switch {
		case isKeywordLine(line.text, "FOR"):
			depth++
		case isKeywordLine(line.text, "ROF"):
			if depth == 0 {
				return lines[:i], true
			}
			depth--
		}
	}
	return lines, false
}

func isKeywordLine(text, keyword string) bool {
	_, rest := takeLabels(lexItems(codePart(text)))
	return len(rest) > 0 && rest[0].typ == itemIdent && strings.EqualFold(rest[0].val, keyword)
}

// reset discards everything accumulated so far; triggered by the
// first ;redcode directive.
func (p *Parser) reset() {
	p.symbols = map[string]*symbol{}
	p.lines = nil
	p.pendingLabels = nil
	p.lastEquLabel = ""
	p.name, p.author = "", ""
	p.strategy.Reset()
	p.sawAssert = false
	p.asserts = nil
	p.org, p.end, p.pin = nil, nil, nil
	p.ev.ResetRegisters()
}

// finalize evaluates the deferred directives and runs pass 2.
func (p *Parser) finalize() *op.WarriorData {
	if !p.sawAssert {
		p.warnf(0, "Missing ASSERT")
	}
	for _, a := range p.asserts {
		expanded := p.expandExpr(a.expr, 0, true, a.line)
		v, _, err := p.ev.Eval(expanded)
		switch {
		case err != nil:
			p.errorf(a.line, "Bad ASSERT expression '%s': %s", a.expr, err)
		case v == 0:
			p.errorf(a.line, "Assertion failed")
		}
	}

	if len(p.lines) == 0 {
		p.errorf(0, "No instructions")
	} else if len(p.lines) > p.cfg.MaxLength {
		p.errorf(0, "Warrior has %d instructions, maximum is %d", len(p.lines), p.cfg.MaxLength)
	}

	start := p.startOffset()
	pin := op.NoPin
	if p.pin != nil {
		if v, ok := p.deferredValue(p.pin); ok {
			pin = v
		}
	}

	instrs := make([]op.Instruction, 0, len(p.lines))
	for i, ln := range p.lines {
		if in, ok := p.assembleLine(i, ln); ok {
			instrs = append(instrs, in)
		}
	}

	if p.msgs.HasErrors() {
		return nil
	}
	return &op.WarriorData{
		Instructions: instrs,
		StartOffset:  start,
		Name:         p.name,
		Author:       p.author,
		Strategy:     strings.TrimSuffix(p.strategy.String(), "\n"),
		Pin:          pin,
		Warnings:     p.msgs.Warnings(),
	}
}

// startOffset resolves ORG against END, ORG winning when both are set.
func (p *Parser) startOffset() int {
	start := 0
	endVal := 0
	if p.end != nil {
		if v, ok := p.deferredValue(p.end); ok {
			endVal = v
		}
	}
	switch {
	case p.org != nil:
		if v, ok := p.deferredValue(p.org); ok {
			start = v
		}
		if p.end != nil && endVal != 0 {
			p.warnf(p.end.line, "END offset ignored, ORG takes precedence")
		}
	case p.end != nil:
		start = endVal
	}
	if len(p.lines) > 0 && (start < 0 || start >= len(p.lines)) {
		p.warnf(0, "ORG %d outside program range", start)
		start = op.Normalize(start, p.cfg.CoreSize)
	}
	return start
}

// deferredValue evaluates an ORG/END/PIN argument with absolute label
// semantics.
func (p *Parser) deferredValue(pe *pendingExpr) (int, bool) {
	expanded := p.expandExpr(pe.expr, 0, true, pe.line)
	v, _, err := p.ev.Eval(expanded)
	if err != nil {
		p.errorf(pe.line, "Bad expression '%s': %s", pe.expr, err)
		return 0, false
	}
	return v, true
}
