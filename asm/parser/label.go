package parser

import (
	"strings"

	"go.creack.net/mars94/op"
)

// isMnemonic reports whether an identifier must be read as an opcode
// or pseudo-op rather than a label. A '.modifier' suffix always means
// opcode position.
func isMnemonic(s string) bool {
	if strings.ContainsRune(s, '.') {
		return true
	}
	switch strings.ToUpper(s) {
	case "EQU", "FOR", "ROF", "ORG", "END", "PIN":
		return true
	}
	_, ok := op.OpcodeFromName(s)
	return ok
}

// takeLabels splits the leading label prefix off a lexed line: colon
// labels always count, bare identifiers count unless they read as a
// mnemonic. At most maxLineLabels are taken.
func takeLabels(items []item) (labels []string, rest []item) {
	i := 0
	for i < len(items) && len(labels) < maxLineLabels {
		it := items[i]
		if it.typ == itemLabelDecl || (it.typ == itemIdent && !isMnemonic(it.val)) {
			labels = append(labels, it.val)
			i++
			continue
		}
		break
	}
	return labels, items[i:]
}
