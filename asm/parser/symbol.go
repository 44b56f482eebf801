package parser

import (
	"fmt"
	"strconv"
	"strings"
)

type symbolKind int

const (
	addressSym symbolKind = iota // 0-based instruction index.
	macroSym                     // Textual EQU body, one or more lines.
)

// symbol table entry. Names are stored lowercased; lookups fold case.
type symbol struct {
	kind  symbolKind
	value int      // addressSym only.
	lines []string // macroSym only; len > 1 for multi-line EQUs.
}

func (p *Parser) defineAddress(name string, idx int) {
	p.symbols[strings.ToLower(name)] = &symbol{kind: addressSym, value: idx}
}

func (p *Parser) defineMacro(name, body string) {
	p.symbols[strings.ToLower(name)] = &symbol{kind: macroSym, lines: []string{body}}
}

func (p *Parser) lookup(name string) (*symbol, bool) {
	s, ok := p.symbols[strings.ToLower(name)]
	return s, ok
}

// predefined resolves the option-derived identifiers. User symbols
// shadow these.
func (p *Parser) predefined(key string, curline int) (int, bool) {
	switch key {
	case "coresize":
		return p.cfg.CoreSize, true
	case "maxprocesses":
		return p.cfg.MaxProcesses, true
	case "maxcycles":
		return p.cfg.MaxCycles, true
	case "maxlength":
		return p.cfg.MaxLength, true
	case "mindistance":
		return p.cfg.MinSeparation, true
	case "version":
		return versionValue, true
	case "warriors":
		return p.cfg.Warriors, true
	case "rounds":
		return p.cfg.Rounds, true
	case "pspacesize":
		return p.cfg.EffectivePSpaceSize(), true
	case "readlimit":
		return p.cfg.ReadLimit, true
	case "writelimit":
		return p.cfg.WriteLimit, true
	case "curline":
		return curline, true
	}
	return 0, false
}

// expandExpr substitutes macros, labels and predefined identifiers
// into an expression, textually and recursively. Address labels
// contribute their index relative to curline, or the absolute index
// for ORG/END/PIN style contexts. A macro revisited within one
// expansion chain is a cycle: warn once and substitute 0.
func (p *Parser) expandExpr(text string, curline int, absolute bool, lineNum int) string {
	warned := false
	return p.expand(text, curline, absolute, lineNum, map[string]bool{}, &warned)
}

func (p *Parser) expand(text string, curline int, absolute bool, lineNum int, visiting map[string]bool, cycleWarned *bool) string {
	var b strings.Builder
	for i := 0; i < len(text); {
		c := text[i]
		if !isIdentStart(rune(c)) {
			b.WriteByte(c)
			i++
			continue
		}
		j := i
		for j < len(text) && strings.IndexByte(identChars, text[j]) >= 0 {
			j++
		}
		word := text[i:j]
		i = j
		key := strings.ToLower(word)

		if sym, ok := p.symbols[key]; ok {
			if sym.kind == addressSym {
				v := sym.value
				if !absolute {
					v -= curline
				}
				b.WriteString(strconv.Itoa(v))
				continue
			}
			if visiting[key] {
				if !*cycleWarned {
					p.warnf(lineNum, "Recursive EQU cycle through '%s'", word)
					*cycleWarned = true
				}
				b.WriteString("0")
				continue
			}
			visiting[key] = true
			b.WriteString(p.expand(sym.lines[0], curline, absolute, lineNum, visiting, cycleWarned))
			delete(visiting, key)
			continue
		}

		if v, ok := p.predefined(key, curline); ok {
			b.WriteString(strconv.Itoa(v))
			continue
		}

		if len(word) == 1 {
			// Single letters fall through to the evaluator's registers.
			b.WriteString(word)
			continue
		}
		p.warnf(lineNum, "Undefined symbol '%s'", word)
		b.WriteString("0")
	}
	return b.String()
}

// forCounter is one active FOR loop; its labels are eligible for
// &-concatenation while the body expands.
type forCounter struct {
	names []string
	value int
}

// substConcat replaces &name occurrences with the named FOR counter's
// value, zero-padded to two digits when it fits. Names that match no
// active counter keep their text, which also leaves '&&' alone.
func (p *Parser) substConcat(text string) string {
	if len(p.counters) == 0 || !strings.Contains(text, "&") {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); {
		if text[i] != '&' {
			b.WriteByte(text[i])
			i++
			continue
		}
		j := i + 1
		for j < len(text) && strings.IndexByte(identChars, text[j]) >= 0 {
			j++
		}
		v, ok := p.counterValue(strings.ToLower(text[i+1 : j]))
		if !ok {
			b.WriteByte('&')
			i++
			continue
		}
		if v >= 1 && v <= 99 {
			fmt.Fprintf(&b, "%02d", v)
		} else {
			fmt.Fprintf(&b, "%d", v)
		}
		i = j
	}
	return b.String()
}

// counterValue finds the innermost active FOR counter with this name.
func (p *Parser) counterValue(name string) (int, bool) {
	for k := len(p.counters) - 1; k >= 0; k-- {
		for _, n := range p.counters[k].names {
			if n == name {
				return p.counters[k].value, true
			}
		}
	}
	return 0, false
}
