package hill

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/mars94/asm"
	"go.creack.net/mars94/assets"
	"go.creack.net/mars94/op"
)

func TestRunScores(t *testing.T) {
	cfg := op.DefaultConfig()
	cfg.FixedPosition = 4000
	cfg.Rounds = 2

	imp, err := asm.Compile("imp", assets.Imp, cfg)
	require.NoError(t, err)
	bomb, err := asm.Compile("bomb", ";assert 1\ndat #0, #0\nend\n", cfg)
	require.NoError(t, err)

	st, err := Run(cfg, []*op.WarriorData{imp, bomb}, nil, nil)
	require.NoError(t, err)
	require.Len(t, st.Entries, 2)

	// The bomb self-destructs whichever warrior starts the round.
	assert.Equal(t, Entry{ID: 0, Name: "Imp", Author: "A. K. Dewdney", Wins: 2, Score: 6}, st.Entries[0])
	assert.Equal(t, 0, st.Entries[1].Wins)
	assert.Equal(t, 2, st.Entries[1].Losses)
	assert.Equal(t, 0, st.Entries[1].Score)
}

func TestDefaultFormula(t *testing.T) {
	assert.Equal(t, 10, DefaultFormula(3, 1, 6, 10))
	assert.Equal(t, 0, DefaultFormula(0, 0, 5, 5))
}

func TestStandingsTable(t *testing.T) {
	st := &Standings{
		Rounds: 3,
		Entries: []Entry{
			{Name: "alpha", Wins: 1, Ties: 1, Losses: 1, Score: 4},
			{Name: "beta", Wins: 2, Ties: 0, Losses: 1, Score: 6},
		},
	}
	table := st.Table(context.Background())
	assert.Contains(t, table, "alpha")
	assert.Contains(t, table, "beta")
	// Sorted by score, beta first.
	assert.Less(t, strings.Index(table, "beta"), strings.Index(table, "alpha"))
}
