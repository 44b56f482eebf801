package parser

import "strings"

// sourceLine is one logical line after continuation joining, tagged
// with the 1-based number of its first physical line.
type sourceLine struct {
	num  int
	text string
}

// codePart returns everything before the first ';'.
func codePart(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return s[:i]
	}
	return s
}

// continues reports whether the line's code part ends in a backslash,
// and returns it without the backslash.
func continues(s string) (string, bool) {
	code := strings.TrimRight(codePart(s), " \t\r")
	if strings.HasSuffix(code, `\`) {
		return code[:len(code)-1], true
	}
	return s, false
}

// reconstruct splits source text into logical lines, joining any line
// whose code part ends in '\' with the following physical line. The
// comment trailing a continued fragment is dropped, otherwise the next
// fragment would land inside it.
func reconstruct(source string) []sourceLine {
	physical := strings.Split(source, "\n")
	lines := make([]sourceLine, 0, len(physical))

	for i := 0; i < len(physical); i++ {
		num := i + 1
		text, more := continues(strings.TrimSuffix(physical[i], "\r"))
		for more && i+1 < len(physical) {
			i++
			var next string
			next, more = continues(strings.TrimSuffix(physical[i], "\r"))
			text += next
		}
		lines = append(lines, sourceLine{num: num, text: text})
	}
	return lines
}
