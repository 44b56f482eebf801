// Package op defines the Redcode instruction model shared by the
// assembler, the simulator and the display tools: opcodes, modifiers,
// addressing modes, the packed instruction record and the arithmetic
// helpers everything else builds on. ICWS'94 draft semantics with the
// usual '88 compatibility extensions.
package op

import "fmt"

// Opcode enum type. Values follow the classic pMARS numbering.
type Opcode uint8

const (
	DAT Opcode = iota // Terminate task.
	SPL               // Split a new task.
	MOV               // Copy fields or whole instructions.
	DJN               // Decrement and jump if non-zero.
	ADD               // Addition, modular on core size.
	JMZ               // Jump if zero.
	SUB               // Subtraction, modular on core size.
	SEQ               // Skip if equal (alias CMP).
	SNE               // Skip if not equal.
	SLT               // Skip if less than.
	JMN               // Jump if non-zero.
	JMP               // Unconditional jump.
	NOP               // No operation.
	MUL               // Multiplication, modular on core size.
	MOD               // Remainder; zero divisor kills the task.
	DIV               // Division; zero divisor kills the task.
	LDP               // Load from P-space.
	STP               // Store to P-space.

	opcodeCount
)

// Modifier selects which operand fields an opcode manipulates.
type Modifier uint8

const (
	ModA  Modifier = iota // A-field to A-field.
	ModB                  // B-field to B-field.
	ModAB                 // A-field to B-field.
	ModBA                 // B-field to A-field.
	ModF                  // Both fields, straight.
	ModX                  // Both fields, crossed.
	ModI                  // Whole instruction.

	modifierCount
)

// Mode is an operand addressing mode, written as a single-character
// prefix in source.
type Mode uint8

const (
	Immediate Mode = iota // '#' operand value used directly.
	Direct                // '$' relative address (default).
	BIndirect             // '@' pointer in target's B-field.
	BPredecr              // '<' B-field pointer, decremented first.
	BPostinc              // '>' B-field pointer, incremented after.
	AIndirect             // '*' pointer in target's A-field.
	APredecr              // '{' A-field pointer, decremented first.
	APostinc              // '}' A-field pointer, incremented after.

	modeCount
)

// Op packs an opcode and its modifier into one small integer, modifier
// in the low 3 bits. This is the form stored in core and checksummed.
type Op uint8

func MakeOp(oc Opcode, m Modifier) Op { return Op(oc)<<3 | Op(m) }

func (o Op) Code() Opcode       { return Opcode(o >> 3) }
func (o Op) Modifier() Modifier { return Modifier(o & 0b111) }
func (o Op) Is(oc Opcode) bool  { return o.Code() == oc }
func (o Op) With(m Modifier) Op { return MakeOp(o.Code(), m) }
func (o Op) String() string     { return o.Code().String() + "." + o.Modifier().String() }

// Instruction is the five-field MARS cell: packed opcode+modifier, two
// addressing modes and two values. Values are kept normalized in
// [0, coreSize) by whoever stores them.
type Instruction struct {
	Op     Op
	AMode  Mode
	BMode  Mode
	AValue int
	BValue int
}

// Initial is the cell every core address holds before warriors are
// loaded: DAT.F $0, $0.
var Initial = Instruction{Op: MakeOp(DAT, ModF), AMode: Direct, BMode: Direct}

func (in Instruction) String() string {
	return fmt.Sprintf("%s %c%d, %c%d",
		in.Op, in.AMode.Prefix(), in.AValue, in.BMode.Prefix(), in.BValue)
}

func (oc Opcode) String() string {
	if int(oc) < len(opcodeNames) {
		return opcodeNames[oc]
	}
	return fmt.Sprintf("Opcode(%d)", uint8(oc))
}

func (m Modifier) String() string {
	if int(m) < len(modifierNames) {
		return modifierNames[m]
	}
	return fmt.Sprintf("Modifier(%d)", uint8(m))
}

func (m Mode) String() string {
	switch m {
	case Immediate:
		return "immediate"
	case Direct:
		return "direct"
	case BIndirect:
		return "b-indirect"
	case BPredecr:
		return "b-predecrement"
	case BPostinc:
		return "b-postincrement"
	case AIndirect:
		return "a-indirect"
	case APredecr:
		return "a-predecrement"
	case APostinc:
		return "a-postincrement"
	default:
		return "unknown mode"
	}
}

// Prefix returns the single-character source form of the mode.
func (m Mode) Prefix() byte {
	if int(m) < len(modeChars) {
		return modeChars[m]
	}
	return '?'
}
