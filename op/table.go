package op

import "strings"

var opcodeNames = [...]string{
	DAT: "DAT",
	SPL: "SPL",
	MOV: "MOV",
	DJN: "DJN",
	ADD: "ADD",
	JMZ: "JMZ",
	SUB: "SUB",
	SEQ: "SEQ",
	SNE: "SNE",
	SLT: "SLT",
	JMN: "JMN",
	JMP: "JMP",
	NOP: "NOP",
	MUL: "MUL",
	MOD: "MOD",
	DIV: "DIV",
	LDP: "LDP",
	STP: "STP",
}

var modifierNames = [...]string{
	ModA:  "A",
	ModB:  "B",
	ModAB: "AB",
	ModBA: "BA",
	ModF:  "F",
	ModX:  "X",
	ModI:  "I",
}

// modeChars is indexed by Mode.
var modeChars = [...]byte{'#', '$', '@', '<', '>', '*', '{', '}'}

// OpcodeFromName resolves a mnemonic, case-insensitively. CMP is the
// '88 alias for SEQ.
func OpcodeFromName(name string) (Opcode, bool) {
	name = strings.ToUpper(name)
	if name == "CMP" {
		return SEQ, true
	}
	for oc, n := range opcodeNames {
		if n == name {
			return Opcode(oc), true
		}
	}
	return 0, false
}

func ModifierFromName(name string) (Modifier, bool) {
	name = strings.ToUpper(name)
	for m, n := range modifierNames {
		if n == name {
			return Modifier(m), true
		}
	}
	return 0, false
}

func ModeFromChar(c byte) (Mode, bool) {
	for m, mc := range modeChars {
		if mc == c {
			return Mode(m), true
		}
	}
	return 0, false
}

// DefaultModifier picks the ICWS'94 default modifier for an opcode
// whose source line carried none, from the opcode family and the two
// addressing modes.
func DefaultModifier(oc Opcode, amode, bmode Mode) Modifier {
	switch oc {
	case DAT, NOP:
		return ModF
	case MOV, SEQ, SNE:
		switch {
		case amode == Immediate:
			return ModAB
		case bmode == Immediate:
			return ModB
		default:
			return ModI
		}
	case ADD, SUB, MUL, DIV, MOD:
		switch {
		case amode == Immediate:
			return ModAB
		case bmode == Immediate:
			return ModB
		default:
			return ModF
		}
	case SLT, LDP, STP:
		if amode == Immediate {
			return ModAB
		}
		return ModB
	default: // JMP, JMZ, JMN, DJN, SPL.
		return ModB
	}
}
