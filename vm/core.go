package vm

import "go.creack.net/mars94/op"

// Core is the circular instruction memory every warrior shares.
type Core struct {
	cells []op.Instruction
}

// NewCore returns a core of the given size with every cell set to the
// initial instruction.
func NewCore(size int) *Core {
	c := &Core{cells: make([]op.Instruction, size)}
	c.Clear()
	return c
}

func (c *Core) Size() int { return len(c.cells) }

// Wrap reduces an address into core range.
func (c *Core) Wrap(addr int) int { return op.Normalize(addr, len(c.cells)) }

// Get returns a copy of the cell at addr.
func (c *Core) Get(addr int) op.Instruction { return c.cells[c.Wrap(addr)] }

// Set overwrites the cell at addr.
func (c *Core) Set(addr int, in op.Instruction) { c.cells[c.Wrap(addr)] = in }

// CopyFrom copies the cell at src over the cell at dst.
func (c *Core) CopyFrom(src, dst int) { c.cells[c.Wrap(dst)] = c.cells[c.Wrap(src)] }

// LoadInstructions writes a warrior image starting at start.
func (c *Core) LoadInstructions(ins []op.Instruction, start int) {
	for i, in := range ins {
		c.Set(start+i, in)
	}
}

// Clear resets every cell to the initial instruction.
func (c *Core) Clear() {
	for i := range c.cells {
		c.cells[i] = op.Initial
	}
}
