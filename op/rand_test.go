package op

import (
	"math"
	"testing"
)

// The minimal standard sequence from seed 1 is published: checking the
// first values and the classic 10000th-draw constant pins the
// generator bit-for-bit.
func TestRandSequence(t *testing.T) {
	want := []int32{16807, 282475249, 1622650073, 984943658, 1144108930}
	s := int32(1)
	for i, w := range want {
		s = Rand(s)
		if s != w {
			t.Fatalf("step %d: got %d, want %d", i+1, s, w)
		}
	}

	s = 1
	for i := 0; i < 10000; i++ {
		s = Rand(s)
	}
	if s != 1043618065 {
		t.Fatalf("10000th draw: got %d, want 1043618065", s)
	}
}

func TestRandRange(t *testing.T) {
	s := int32(42)
	for i := 0; i < 100000; i++ {
		s = Rand(s)
		if s < 1 || s > math.MaxInt32-1 {
			t.Fatalf("draw %d out of range: %d", i, s)
		}
	}
}

func TestSeedFromWarriors(t *testing.T) {
	imp := &WarriorData{Instructions: []Instruction{
		{Op: MakeOp(MOV, ModI), AMode: Direct, BMode: Direct, AValue: 0, BValue: 1},
	}}
	dat := &WarriorData{Instructions: []Instruction{
		{Op: MakeOp(DAT, ModF), AMode: Immediate, BMode: Immediate},
	}}

	s1 := SeedFromWarriors([]*WarriorData{imp, dat})
	s2 := SeedFromWarriors([]*WarriorData{imp, dat})
	if s1 != s2 {
		t.Fatalf("checksum seed not deterministic: %d vs %d", s1, s2)
	}
	if s1 < 1 || s1 > math.MaxInt32-1 {
		t.Fatalf("checksum seed out of range: %d", s1)
	}

	// Order matters: the shuffle counter ties fields to positions.
	if s3 := SeedFromWarriors([]*WarriorData{dat, imp}); s3 == s1 {
		t.Fatalf("warrior order should change the derived seed")
	}

	// Even empty input stays on the generator's cycle.
	if s := SeedFromWarriors(nil); s < 1 || s > math.MaxInt32-1 {
		t.Fatalf("empty checksum seed out of range: %d", s)
	}
}

func TestComputePSpaceSize(t *testing.T) {
	tests := []struct {
		coreSize, expect int
	}{
		{8000, 500},   // 8000/16.
		{8192, 512},   // 8192/16.
		{55440, 3465}, // 55440/16.
		{17, 17},      // Prime: nothing in 2..16 divides it.
		{30, 2},       // Largest divisor <= 16 is 15.
	}
	for _, tt := range tests {
		if got := ComputePSpaceSize(tt.coreSize); got != tt.expect {
			t.Errorf("ComputePSpaceSize(%d) = %d, want %d", tt.coreSize, got, tt.expect)
		}
	}
}
