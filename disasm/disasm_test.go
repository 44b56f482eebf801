package disasm

import (
	"strings"
	"testing"

	"go.creack.net/mars94/asm"
	"go.creack.net/mars94/assets"
	"go.creack.net/mars94/op"
)

func TestInstruction(t *testing.T) {
	tests := []struct {
		in   op.Instruction
		want string
	}{
		{op.Instruction{Op: op.MakeOp(op.MOV, op.ModI), AMode: op.Direct, AValue: 0, BMode: op.Direct, BValue: 1}, "MOV.I $0, $1"},
		{op.Instruction{Op: op.MakeOp(op.ADD, op.ModAB), AMode: op.Immediate, AValue: 4, BMode: op.Direct, BValue: 3}, "ADD.AB #4, $3"},
		{op.Instruction{Op: op.MakeOp(op.SPL, op.ModB), AMode: op.BIndirect, AValue: 2, BMode: op.APostinc, BValue: 7}, "SPL.B @2, }7"},
		{op.Initial, "DAT.F $0, $0"},
	}
	for _, tt := range tests {
		if got := Instruction(tt.in); got != tt.want {
			t.Fatalf("got %q, want %q", got, tt.want)
		}
	}
}

// The rendered source must reassemble into the identical image.
func TestWarriorRoundTrip(t *testing.T) {
	cfg := op.DefaultConfig()
	for name, source := range map[string]string{
		"imp":   assets.Imp,
		"dwarf": assets.Dwarf,
		"mice":  assets.Mice,
	} {
		t.Run(name, func(t *testing.T) {
			orig, err := asm.Compile(name, source, cfg)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			rendered := Warrior(orig)
			back, err := asm.Compile(name, rendered, cfg)
			if err != nil {
				t.Fatalf("recompile: %v\n%s", err, rendered)
			}
			if back.StartOffset != orig.StartOffset {
				t.Fatalf("start offset: got %d, want %d", back.StartOffset, orig.StartOffset)
			}
			if len(back.Instructions) != len(orig.Instructions) {
				t.Fatalf("length: got %d, want %d", len(back.Instructions), len(orig.Instructions))
			}
			for i := range orig.Instructions {
				if back.Instructions[i] != orig.Instructions[i] {
					t.Fatalf("cell %d: got %v, want %v", i, back.Instructions[i], orig.Instructions[i])
				}
			}
			if back.Name != orig.Name {
				t.Fatalf("name: got %q, want %q", back.Name, orig.Name)
			}
		})
	}
}

func TestWarriorHeader(t *testing.T) {
	w := &op.WarriorData{
		Instructions: []op.Instruction{op.Initial},
		Name:         "Test",
		Author:       "Someone",
		Strategy:     "line one\nline two",
		Pin:          3,
	}
	out := Warrior(w)
	for _, want := range []string{
		";redcode-94\n",
		";name Test\n",
		";author Someone\n",
		";strategy line one\n",
		";strategy line two\n",
		"PIN 3\n",
		"ORG 0\n",
		"END\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
