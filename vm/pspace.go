package vm

import "go.creack.net/mars94/op"

// PSpace is a warrior's private storage surviving between rounds.
// Cell 0 is special: it aliases the warrior's last round result, so it
// lives apart from the backing array.
type PSpace struct {
	cells      []int
	lastResult int
}

// NewPSpace returns private storage of the given size. The initial
// last-result reads as coreSize-1, i.e. "no round fought yet".
func NewPSpace(size, coreSize int) *PSpace {
	return &PSpace{cells: make([]int, size), lastResult: coreSize - 1}
}

func (p *PSpace) Size() int { return len(p.cells) }

// Get reads the cell at index i, reduced modulo the size.
func (p *PSpace) Get(i int) int {
	i = op.Normalize(i, len(p.cells))
	if i == 0 {
		return p.lastResult
	}
	return p.cells[i]
}

// Set writes the cell at index i, reduced modulo the size.
func (p *PSpace) Set(i, v int) {
	i = op.Normalize(i, len(p.cells))
	if i == 0 {
		p.lastResult = v
		return
	}
	p.cells[i] = v
}

func (p *PSpace) LastResult() int     { return p.lastResult }
func (p *PSpace) SetLastResult(v int) { p.lastResult = v }

// Clear zeroes everything including the last result.
func (p *PSpace) Clear() {
	for i := range p.cells {
		p.cells[i] = 0
	}
	p.lastResult = 0
}

// ClearKeepResult zeroes the cells but keeps the last round result.
func (p *PSpace) ClearKeepResult() {
	for i := range p.cells {
		p.cells[i] = 0
	}
}
