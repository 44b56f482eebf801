// Package hill runs multi-round tournaments and scores the results
// the way KotH hills do.
package hill

import (
	"context"

	"github.com/rocketlaunchr/dataframe-go"
	"github.com/sirupsen/logrus"

	"go.creack.net/mars94/op"
	"go.creack.net/mars94/vm"
)

// Formula turns a warrior's round tallies into a hill score.
type Formula func(wins, ties, losses, rounds int) int

// DefaultFormula is the usual 3*W + T hill scoring.
var DefaultFormula Formula = func(wins, ties, losses, rounds int) int {
	return 3*wins + ties
}

// Entry is one warrior's tournament record.
type Entry struct {
	ID     int
	Name   string
	Author string
	Wins   int
	Ties   int
	Losses int
	Score  int
}

// Standings is the scored outcome of a tournament.
type Standings struct {
	Rounds  int
	Entries []Entry
}

// Run fights the configured number of rounds and scores every warrior.
// logger may be nil to run quietly.
func Run(cfg op.Config, warriors []*op.WarriorData, formula Formula, logger logrus.FieldLogger) (*Standings, error) {
	if formula == nil {
		formula = DefaultFormula
	}
	m := vm.NewMars(cfg)
	if err := m.LoadWarriors(warriors); err != nil {
		return nil, err
	}

	rounds := cfg.Rounds
	results, err := m.Run(rounds)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		for i, res := range results {
			logger.WithFields(logrus.Fields{
				"round":   i + 1,
				"winner":  res.Winner,
				"outcome": res.Outcome.String(),
			}).Debug("round result")
		}
	}

	n := len(warriors)
	st := &Standings{Rounds: rounds, Entries: make([]Entry, n)}
	for i, w := range m.Warriors() {
		wins := w.Scores[0]
		ties := 0
		for k := 1; k < n; k++ {
			ties += w.Scores[k]
		}
		losses := rounds - wins - ties
		st.Entries[i] = Entry{
			ID:     w.ID,
			Name:   w.Name,
			Author: w.Author,
			Wins:   wins,
			Ties:   ties,
			Losses: losses,
			Score:  formula(wins, ties, losses, rounds),
		}
	}
	if logger != nil {
		for _, e := range st.Entries {
			logger.WithFields(logrus.Fields{
				"warrior": e.Name,
				"wins":    e.Wins,
				"ties":    e.Ties,
				"losses":  e.Losses,
				"score":   e.Score,
			}).Info("standings")
		}
	}
	return st, nil
}

// Frame builds a dataframe of the standings, sorted by score.
func (s *Standings) Frame(ctx context.Context) *dataframe.DataFrame {
	n := len(s.Entries)
	names := make([]interface{}, n)
	wins := make([]interface{}, n)
	ties := make([]interface{}, n)
	losses := make([]interface{}, n)
	scores := make([]interface{}, n)
	for i, e := range s.Entries {
		names[i] = e.Name
		wins[i] = int64(e.Wins)
		ties[i] = int64(e.Ties)
		losses[i] = int64(e.Losses)
		scores[i] = int64(e.Score)
	}
	df := dataframe.NewDataFrame(
		dataframe.NewSeriesString("warrior", nil, names...),
		dataframe.NewSeriesInt64("wins", nil, wins...),
		dataframe.NewSeriesInt64("ties", nil, ties...),
		dataframe.NewSeriesInt64("losses", nil, losses...),
		dataframe.NewSeriesInt64("score", nil, scores...),
	)
	df.Sort(ctx, []dataframe.SortKey{{Key: "score", Desc: true}})
	return df
}

// Table renders the standings as a text table.
func (s *Standings) Table(ctx context.Context) string {
	return s.Frame(ctx).Table()
}
