package vm

import (
	"testing"

	"go.creack.net/mars94/op"
)

func TestCoreWrap(t *testing.T) {
	c := NewCore(100)
	if got := c.Wrap(100); got != 0 {
		t.Fatalf("Wrap(100): got %d, want 0", got)
	}
	if got := c.Wrap(-1); got != 99 {
		t.Fatalf("Wrap(-1): got %d, want 99", got)
	}
	if got := c.Wrap(250); got != 50 {
		t.Fatalf("Wrap(250): got %d, want 50", got)
	}
}

func TestCoreGetSet(t *testing.T) {
	c := NewCore(10)
	in := op.Instruction{Op: op.MakeOp(op.MOV, op.ModI), AMode: op.Direct, BMode: op.Direct, BValue: 1}
	c.Set(13, in) // Wraps to 3.
	if got := c.Get(3); got != in {
		t.Fatalf("Get(3): got %v, want %v", got, in)
	}
	if got := c.Get(-7); got != in {
		t.Fatalf("Get(-7): got %v, want %v", got, in)
	}
	c.CopyFrom(3, 5)
	if got := c.Get(5); got != in {
		t.Fatalf("CopyFrom: got %v, want %v", got, in)
	}
}

func TestCoreClear(t *testing.T) {
	c := NewCore(8)
	c.Set(2, op.Instruction{Op: op.MakeOp(op.SPL, op.ModB)})
	c.Clear()
	for i := 0; i < c.Size(); i++ {
		if got := c.Get(i); got != op.Initial {
			t.Fatalf("cell %d after clear: got %v", i, got)
		}
	}
}

func TestCoreLoadWraps(t *testing.T) {
	c := NewCore(10)
	ins := []op.Instruction{
		{Op: op.MakeOp(op.MOV, op.ModI), BValue: 1},
		{Op: op.MakeOp(op.JMP, op.ModB)},
	}
	c.LoadInstructions(ins, 9)
	if got := c.Get(9); got != ins[0] {
		t.Fatalf("cell 9: got %v", got)
	}
	if got := c.Get(0); got != ins[1] {
		t.Fatalf("cell 0: got %v", got)
	}
}
