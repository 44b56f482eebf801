// Package disasm renders warrior images back into loadable Redcode.
package disasm

import (
	"fmt"
	"strings"

	"go.creack.net/mars94/op"
)

// Instruction formats one cell as canonical source, e.g. "MOV.I $0, $1".
func Instruction(in op.Instruction) string {
	return fmt.Sprintf("%s.%s %c%d, %c%d",
		in.Op.Code(), in.Op.Modifier(),
		in.AMode.Prefix(), in.AValue,
		in.BMode.Prefix(), in.BValue)
}

// Warrior renders a full warrior as Redcode source that reassembles to
// the same image: metadata comments, ORG, body, END.
func Warrior(w *op.WarriorData) string {
	var b strings.Builder
	b.WriteString(";redcode-94\n")
	if w.Name != "" {
		fmt.Fprintf(&b, ";name %s\n", w.Name)
	}
	if w.Author != "" {
		fmt.Fprintf(&b, ";author %s\n", w.Author)
	}
	for _, line := range strings.Split(w.Strategy, "\n") {
		if line != "" {
			fmt.Fprintf(&b, ";strategy %s\n", line)
		}
	}
	b.WriteString(";assert 1\n")
	if w.Pin != op.NoPin {
		fmt.Fprintf(&b, "PIN %d\n", w.Pin)
	}
	fmt.Fprintf(&b, "ORG %d\n", w.StartOffset)
	for _, in := range w.Instructions {
		b.WriteString(Instruction(in))
		b.WriteByte('\n')
	}
	b.WriteString("END\n")
	return b.String()
}
