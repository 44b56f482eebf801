package vm

import "testing"

func TestPSpaceInitialResult(t *testing.T) {
	p := NewPSpace(500, 8000)
	// Before any round the last result reads as coreSize-1.
	if got := p.LastResult(); got != 7999 {
		t.Fatalf("initial last result: got %d, want 7999", got)
	}
	if got := p.Get(0); got != 7999 {
		t.Fatalf("Get(0): got %d, want 7999", got)
	}
}

func TestPSpaceCellZeroAliasesResult(t *testing.T) {
	p := NewPSpace(16, 8000)
	p.Set(0, 42)
	if got := p.LastResult(); got != 42 {
		t.Fatalf("last result after Set(0): got %d, want 42", got)
	}
	p.SetLastResult(7)
	if got := p.Get(0); got != 7 {
		t.Fatalf("Get(0) after SetLastResult: got %d, want 7", got)
	}
}

func TestPSpaceIndexReduction(t *testing.T) {
	p := NewPSpace(16, 8000)
	p.Set(3, 99)
	if got := p.Get(16 + 3); got != 99 {
		t.Fatalf("Get(19): got %d, want 99", got)
	}
	p.Set(-1, 5) // Reduces to 15.
	if got := p.Get(15); got != 5 {
		t.Fatalf("Get(15): got %d, want 5", got)
	}
	// Index 16 reduces to 0, the aliased cell.
	p.Set(16, 11)
	if got := p.LastResult(); got != 11 {
		t.Fatalf("last result via index 16: got %d, want 11", got)
	}
}

func TestPSpaceClear(t *testing.T) {
	p := NewPSpace(8, 100)
	p.Set(2, 9)
	p.SetLastResult(3)

	p.ClearKeepResult()
	if got := p.Get(2); got != 0 {
		t.Fatalf("cell 2 after ClearKeepResult: got %d", got)
	}
	if got := p.LastResult(); got != 3 {
		t.Fatalf("result after ClearKeepResult: got %d, want 3", got)
	}

	p.Clear()
	if got := p.LastResult(); got != 0 {
		t.Fatalf("result after Clear: got %d, want 0", got)
	}
}
