package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type stateFn func(*lexer) stateFn

const eof = -1

type itemType int

const (
	itemError itemType = iota // Error occurred; value is text of error.
	itemIdent                 // Identifier, possibly with a '.modifier' suffix.
	itemLabelDecl             // Identifier terminated by ':' (colon stripped).
	itemNumber                // Run of decimal digits.
	itemComma
	itemSymbol // Any other single character: modes, operators, parens.
	itemEOL    // End of the line.
)

func (it itemType) String() string {
	switch it {
	case itemError:
		return "<error>"
	case itemIdent:
		return "<identifier>"
	case itemLabelDecl:
		return "<label>"
	case itemNumber:
		return "<number>"
	case itemComma:
		return "<comma>"
	case itemSymbol:
		return "<symbol>"
	case itemEOL:
		return "<eol>"
	default:
		return fmt.Sprintf("<unknown token %d>", it)
	}
}

type Pos int

type item struct {
	typ itemType // The type of this item.
	pos Pos      // The start position, in bytes, of this item in the line.
	val string   // The value of this item.
}

func (i item) String() string {
	switch i.typ {
	case itemEOL:
		return "EOL"
	case itemError:
		return i.val
	}
	return fmt.Sprintf("%s %q", i.typ, i.val)
}

// identChars covers labels, opcodes and predefined names. Case folding
// happens in the symbol table, not here.
const identChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_"

func isIdentStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// lexer holds the state of the scanner for one logical line.
type lexer struct {
	input string // The string being scanned.
	pos   Pos    // Current position in the input.
	start Pos    // Start position of this item.
	atEOF bool   // We have hit the end of input and returned eof.
	item  item   // Item to return to the parser.
}

// next returns the next rune in the input.
func (l *lexer) next() rune {
	if int(l.pos) >= len(l.input) {
		l.atEOF = true
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += Pos(w)
	return r
}

// peek returns but does not consume the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune.
func (l *lexer) backup() {
	if !l.atEOF && l.pos > 0 {
		_, w := utf8.DecodeLastRuneInString(l.input[:l.pos])
		l.pos -= Pos(w)
	}
}

// thisItem returns the item at the current input point with the
// specified type and advances the input.
func (l *lexer) thisItem(t itemType) item {
	i := item{t, l.start, l.input[l.start:l.pos]}
	l.start = l.pos
	return i
}

// emit passes the trailing text as an item back to the parser.
func (l *lexer) emit(t itemType) stateFn {
	return l.emitItem(l.thisItem(t))
}

// emitItem passes the specified item to the parser.
func (l *lexer) emitItem(i item) stateFn {
	l.item = i
	return nil
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.start = l.pos
}

// acceptRun consumes a run of runes from the valid set.
func (l *lexer) acceptRun(valid string) bool {
	accepted := false
	for strings.ContainsRune(valid, l.next()) {
		accepted = true
	}
	l.backup()
	return accepted
}

func lexLine(l *lexer) stateFn {
	l.acceptRun(" \t\r\n")
	if l.atEOF {
		return l.emit(itemEOL)
	}
	l.ignore() // Drop leading whitespace.
	switch r := l.peek(); {
	case r == ';':
		// Comments are stripped before lexing; a stray one ends the line.
		l.pos = Pos(len(l.input))
		l.ignore()
		return l.emit(itemEOL)
	case r == ',':
		l.pos++
		return l.emit(itemComma)
	case '0' <= r && r <= '9':
		l.acceptRun("0123456789")
		return l.emit(itemNumber)
	case isIdentStart(r):
		return lexIdentifier
	default:
		l.next()
		return l.emit(itemSymbol)
	}
}

// lexIdentifier scans an identifier, folding a '.modifier' suffix into
// the same item (MOV.I is one token) and recognizing a terminating
// label colon.
func lexIdentifier(l *lexer) stateFn {
	l.acceptRun(identChars)
	if l.peek() == '.' {
		l.next()
		l.acceptRun(identChars)
	}
	if l.peek() == ':' {
		i := l.thisItem(itemLabelDecl)
		l.next() // Swallow the colon.
		l.ignore()
		return l.emitItem(i)
	}
	return l.emit(itemIdent)
}

// nextItem returns the next item from the input.
func (l *lexer) nextItem() item {
	l.item = item{itemEOL, l.pos, ""}
	state := lexLine
	for state != nil {
		state = state(l)
	}
	return l.item
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

// lexItems scans a whole comment-stripped line into items, excluding
// the final EOL.
func lexItems(input string) []item {
	l := newLexer(input)
	var items []item
	for {
		i := l.nextItem()
		if i.typ == itemEOL {
			return items
		}
		items = append(items, i)
	}
}
