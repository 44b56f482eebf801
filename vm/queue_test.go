package vm

import "testing"

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(4)
	if !q.Empty() {
		t.Fatal("new queue not empty")
	}
	for _, pc := range []int{10, 20, 30} {
		if !q.Push(pc) {
			t.Fatalf("push %d rejected", pc)
		}
	}
	if got := q.Len(); got != 3 {
		t.Fatalf("len: got %d, want 3", got)
	}
	if pc, _ := q.Peek(); pc != 10 {
		t.Fatalf("peek: got %d, want 10", pc)
	}
	for _, want := range []int{10, 20, 30} {
		pc, ok := q.Pop()
		if !ok || pc != want {
			t.Fatalf("pop: got %d/%v, want %d", pc, ok, want)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("pop on empty queue succeeded")
	}
}

func TestQueueCapacity(t *testing.T) {
	q := NewQueue(2)
	q.Push(1)
	q.Push(2)
	if q.Push(3) {
		t.Fatal("push past capacity accepted")
	}
	if got := q.Snapshot(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("snapshot: got %v", got)
	}
}

func TestQueueWrapAround(t *testing.T) {
	q := NewQueue(3)
	q.Push(1)
	q.Push(2)
	q.Pop()
	q.Pop()
	// Head has advanced; pushes must wrap within the backing slice.
	for _, pc := range []int{3, 4, 5} {
		if !q.Push(pc) {
			t.Fatalf("push %d rejected", pc)
		}
	}
	if got := q.Snapshot(); len(got) != 3 || got[0] != 3 || got[2] != 5 {
		t.Fatalf("snapshot: got %v", got)
	}
	q.Clear()
	if !q.Empty() {
		t.Fatal("clear left entries")
	}
}
