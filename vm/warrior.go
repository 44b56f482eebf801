package vm

import "go.creack.net/mars94/op"

// Warrior is one loaded program's battle state. It persists across
// rounds: scores and the last round result accumulate, while position
// and the task queue reset each round.
type Warrior struct {
	ID     int
	Name   string
	Author string

	data  *op.WarriorData
	queue *Queue

	Position    int
	StartOffset int
	Tasks       int

	// Scores is indexed by how many warriors were left when the event
	// happened; see the score bookkeeping in Mars.
	Scores     []int
	LastResult int

	pSpaceIndex int
	pin         int

	Alive bool
}

// Data returns the warrior's assembled image.
func (w *Warrior) Data() *op.WarriorData { return w.data }

// Length returns the instruction count of the loaded image.
func (w *Warrior) Length() int { return w.data.Length() }

// Queue exposes the warrior's task queue, mainly for viewers.
func (w *Warrior) Queue() *Queue { return w.queue }

// Wins returns the times this warrior outlived everyone.
func (w *Warrior) Wins() int { return w.Scores[0] }
