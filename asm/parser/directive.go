package parser

import "strings"

// directive handles a full-line comment. Recognized directive words
// set warrior metadata or control processing; anything else is a
// plain comment and leaves the multi-line EQU chain intact.
func (p *Parser) directive(num int, line string) {
	body := strings.TrimSpace(strings.TrimPrefix(line, ";"))
	word, rest, _ := strings.Cut(body, " ")
	rest = strings.TrimSpace(rest)

	switch lower := strings.ToLower(word); {
	case strings.HasPrefix(lower, "redcode"):
		// A second ;redcode marks the start of the next warrior in an
		// embedded multi-warrior file: stop here.
		if p.sawRedcode {
			p.halted = true
			return
		}
		p.sawRedcode = true
		p.reset()
	case lower == "name":
		p.name = rest
	case lower == "author":
		p.author = rest
	case lower == "strategy":
		p.strategy.WriteString(rest)
		p.strategy.WriteByte('\n')
	case lower == "assert":
		p.sawAssert = true
		p.asserts = append(p.asserts, pendingExpr{expr: rest, line: num})
	}
}
