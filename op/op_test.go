package op

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpPacking(t *testing.T) {
	assert := assert.New(t)

	o := MakeOp(MOV, ModI)
	assert.Equal(MOV, o.Code())
	assert.Equal(ModI, o.Modifier())
	assert.Equal("MOV.I", o.String())

	o = o.With(ModAB)
	assert.Equal(MOV, o.Code())
	assert.Equal(ModAB, o.Modifier())

	// The packed form keeps the modifier in the low 3 bits.
	assert.Equal(Op(DIV)<<3|Op(ModX), MakeOp(DIV, ModX))
	assert.True(MakeOp(DAT, ModF).Is(DAT))
}

func TestOpcodeFromName(t *testing.T) {
	assert := assert.New(t)

	for oc, name := range opcodeNames {
		got, ok := OpcodeFromName(name)
		assert.True(ok, name)
		assert.Equal(Opcode(oc), got)
	}

	// Case-insensitive, plus the '88 CMP alias.
	got, ok := OpcodeFromName("mov")
	assert.True(ok)
	assert.Equal(MOV, got)
	got, ok = OpcodeFromName("cmp")
	assert.True(ok)
	assert.Equal(SEQ, got)

	_, ok = OpcodeFromName("XYZ")
	assert.False(ok)
}

func TestModeFromChar(t *testing.T) {
	for m, c := range modeChars {
		got, ok := ModeFromChar(c)
		if !ok || got != Mode(m) {
			t.Fatalf("ModeFromChar(%c) = %v, %v", c, got, ok)
		}
		if got.Prefix() != c {
			t.Fatalf("Mode(%d).Prefix() = %c, want %c", m, got.Prefix(), c)
		}
	}
	if _, ok := ModeFromChar('!'); ok {
		t.Fatal("'!' should not be an addressing mode")
	}
}

func TestDefaultModifier(t *testing.T) {
	tests := []struct {
		op     Opcode
		amode  Mode
		bmode  Mode
		expect Modifier
	}{
		{DAT, Immediate, Immediate, ModF},
		{DAT, Direct, Direct, ModF},
		{NOP, Direct, Immediate, ModF},

		{MOV, Immediate, Direct, ModAB},
		{MOV, Direct, Immediate, ModB},
		{MOV, Direct, Direct, ModI},
		{SEQ, BIndirect, APostinc, ModI},
		{SNE, Immediate, Immediate, ModAB},

		{ADD, Immediate, Direct, ModAB},
		{ADD, Direct, Immediate, ModB},
		{ADD, Direct, Direct, ModF},
		{DIV, BPredecr, AIndirect, ModF},

		{SLT, Immediate, Direct, ModAB},
		{SLT, Direct, Direct, ModB},
		{LDP, Immediate, Immediate, ModAB},
		{STP, Direct, Immediate, ModB},

		{JMP, Immediate, Direct, ModB},
		{JMZ, Direct, Direct, ModB},
		{DJN, BPostinc, BPredecr, ModB},
		{SPL, Immediate, Immediate, ModB},
	}
	for _, tt := range tests {
		if got := DefaultModifier(tt.op, tt.amode, tt.bmode); got != tt.expect {
			t.Errorf("DefaultModifier(%v, %v, %v) = %v, want %v",
				tt.op, tt.amode, tt.bmode, got, tt.expect)
		}
	}
}

func TestInstructionString(t *testing.T) {
	in := Instruction{Op: MakeOp(MOV, ModI), AMode: Direct, BMode: Direct, AValue: 0, BValue: 1}
	assert.Equal(t, "MOV.I $0, $1", in.String())
	assert.Equal(t, "DAT.F $0, $0", Initial.String())
}
