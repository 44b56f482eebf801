package op

// NoPin marks a warrior that did not declare a PIN and therefore never
// shares its P-space.
const NoPin = -1

// WarriorData is an assembled warrior image: what the assembler
// produces and the simulator loads. Immutable once built.
type WarriorData struct {
	Instructions []Instruction
	StartOffset  int // First PC, relative to load position.

	Name     string
	Author   string
	Strategy string

	Pin      int // P-space sharing key, NoPin when absent.
	Warnings []string
}

// Length is the instruction count, the warrior's footprint in core.
func (w *WarriorData) Length() int { return len(w.Instructions) }
