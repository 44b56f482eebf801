package op

// Limits fixed by the dialect rather than by configuration.
const (
	MaxWarriors = 36 // Hard cap on warriors in one core.
	Version     = 96 // Reported through the VERSION predefined.
)

// Config carries every tunable shared by the assembler and the
// simulator. The zero value is not usable; start from DefaultConfig.
type Config struct {
	CoreSize      int   // Cells in core.
	MaxCycles     int   // Cycles per warrior per round.
	MaxLength     int   // Max instructions per warrior.
	MaxProcesses  int   // Max live tasks per warrior.
	MinSeparation int   // Minimum circular distance between warriors.
	ReadLimit     int   // 0 = unlimited, else read folding radius.
	WriteLimit    int   // 0 = unlimited, else write folding radius.
	Rounds        int   // Rounds per Run().
	PSpaceSize    int   // 0 = derive from CoreSize.
	Warriors      int   // Expected warrior count (WARRIORS predefined).
	Seed          int32 // 0 = derive from warrior checksum.
	FixedSeries   bool  // Re-derive the checksum seed every round.
	FixedPosition int   // 0 = unset; forces the second warrior's position.
}

// DefaultConfig returns the standard '94 hill settings.
func DefaultConfig() Config {
	return Config{
		CoreSize:      8000,
		MaxCycles:     80000,
		MaxLength:     100,
		MaxProcesses:  8000,
		MinSeparation: 100,
		Rounds:        1,
		Warriors:      2,
	}
}

// ComputePSpaceSize derives the default P-space size: coreSize divided
// by the largest d in 1..16 that divides it evenly.
func ComputePSpaceSize(coreSize int) int {
	for d := 16; d > 1; d-- {
		if coreSize%d == 0 {
			return coreSize / d
		}
	}
	return coreSize
}

// EffectivePSpaceSize resolves the configured or derived size.
func (c Config) EffectivePSpaceSize() int {
	if c.PSpaceSize > 0 {
		return c.PSpaceSize
	}
	return ComputePSpaceSize(c.CoreSize)
}
