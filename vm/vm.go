// Package vm implements the ICWS'94 MARS: the shared core, the
// round-robin scheduler and the per-opcode execution semantics.
package vm

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"go.creack.net/mars94/op"
)

// Outcome classifies how a round ended.
type Outcome int

const (
	Win Outcome = iota
	Tie
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Tie:
		return "tie"
	default:
		return "unknown"
	}
}

// RoundResult is the outcome of one finished round.
type RoundResult struct {
	Winner  int // Warrior ID, or NoWinner on a tie.
	Outcome Outcome
}

// Mars simulates battles between loaded warriors. Load once, then
// SetupRound/Step (or Run) as many rounds as wanted.
type Mars struct {
	cfg op.Config

	data     []*op.WarriorData
	warriors []*Warrior
	core     *Core
	pspaces  []*PSpace

	seed       int32
	seedChosen bool

	roundNum    int
	cycle       int
	totalCycles int

	curWarrior   int
	warriorsLeft int
	nextW, prevW []int

	roundOver bool
	lastRes   RoundResult

	listener  Listener
	tracer    logrus.FieldLogger
	accessBuf []CoreAccess
}

// NewMars returns a simulator for the given settings. Warriors load
// separately via LoadWarriors.
func NewMars(cfg op.Config) *Mars {
	return &Mars{
		cfg:  cfg,
		core: NewCore(cfg.CoreSize),
	}
}

// LoadWarriors validates and registers the warrior images. Warriors
// sharing a PIN also share a single private storage.
func (m *Mars) LoadWarriors(data []*op.WarriorData) error {
	if len(data) == 0 {
		return errors.New("no warriors to load")
	}
	if len(data) > op.MaxWarriors {
		return errors.Errorf("%d warriors, maximum is %d", len(data), op.MaxWarriors)
	}
	if m.cfg.MinSeparation < m.cfg.MaxLength {
		m.cfg.MinSeparation = m.cfg.MaxLength
	}
	if n := len(data); m.cfg.MinSeparation > m.cfg.CoreSize/n {
		m.cfg.MinSeparation = m.cfg.CoreSize / n
	}
	if m.cfg.FixedSeries && m.cfg.FixedPosition != 0 {
		return errors.New("fixed series and fixed position are mutually exclusive")
	}
	if m.cfg.FixedPosition != 0 && m.cfg.FixedPosition < m.cfg.MinSeparation {
		return errors.Errorf("fixed position %d below minimum separation %d",
			m.cfg.FixedPosition, m.cfg.MinSeparation)
	}
	for _, d := range data {
		if d.Length() > m.cfg.MaxLength {
			return errors.Errorf("warrior %q has %d instructions, maximum is %d",
				d.Name, d.Length(), m.cfg.MaxLength)
		}
	}

	psize := m.cfg.EffectivePSpaceSize()
	m.data = data
	m.warriors = make([]*Warrior, len(data))
	m.pspaces = m.pspaces[:0]
	for i, d := range data {
		w := &Warrior{
			ID:          i,
			Name:        d.Name,
			Author:      d.Author,
			data:        d,
			queue:       NewQueue(m.cfg.MaxProcesses + 1),
			StartOffset: d.StartOffset,
			Scores:      make([]int, 2*len(data)-1),
			LastResult:  m.cfg.CoreSize - 1,
			pin:         d.Pin,
			pSpaceIndex: -1,
		}
		// A matching PIN aliases the first holder's storage.
		if d.Pin != op.NoPin {
			for j := 0; j < i; j++ {
				if m.warriors[j].pin == d.Pin {
					w.pSpaceIndex = m.warriors[j].pSpaceIndex
					break
				}
			}
		}
		if w.pSpaceIndex < 0 {
			w.pSpaceIndex = len(m.pspaces)
			m.pspaces = append(m.pspaces, NewPSpace(psize, m.cfg.CoreSize))
		}
		m.warriors[i] = w
	}
	m.roundNum = 0
	m.seedChosen = false
	return nil
}

// SetupRound clears the core, places the warriors and primes their
// task queues for a new round.
func (m *Mars) SetupRound() error {
	if len(m.warriors) == 0 {
		return errors.New("no warriors loaded")
	}
	m.core.Clear()
	m.roundNum++
	m.roundOver = false

	if !m.seedChosen || m.cfg.FixedSeries {
		if m.cfg.Seed != 0 {
			m.seed = m.cfg.Seed
		} else {
			m.seed = op.SeedFromWarriors(m.data)
		}
		m.seedChosen = true
	}

	n := len(m.warriors)
	var positions []int
	if m.cfg.FixedPosition != 0 && n == 2 {
		positions = []int{0, m.cfg.FixedPosition}
	} else {
		positions, m.seed = place(n, m.cfg.CoreSize, m.cfg.MinSeparation, m.seed)
	}

	for i, w := range m.warriors {
		w.Position = positions[i]
		m.core.LoadInstructions(w.data.Instructions, w.Position)
		w.queue.Clear()
		w.queue.Push(m.core.Wrap(w.Position + w.StartOffset))
		w.Tasks = 1
		w.Alive = true
	}

	// Starting warrior rotates each round.
	m.curWarrior = (m.roundNum - 1) % n
	m.warriorsLeft = n
	m.cycle = n * m.cfg.MaxCycles
	m.totalCycles = m.cycle

	if m.nextW == nil || len(m.nextW) != n {
		m.nextW = make([]int, n)
		m.prevW = make([]int, n)
	}
	for i := range m.warriors {
		m.nextW[i] = (i + 1) % n
		m.prevW[i] = (i - 1 + n) % n
	}
	return nil
}

// Step executes one instruction of the current warrior. It returns a
// RoundResult once the round is over, nil while it continues.
func (m *Mars) Step() (*RoundResult, error) {
	if m.roundNum == 0 {
		return nil, errors.New("round not set up")
	}
	if m.roundOver {
		res := m.lastRes
		return &res, nil
	}
	if m.cycle <= 0 || m.warriorsLeft < 2 {
		res := m.endRound()
		m.roundOver = true
		m.lastRes = *res
		return res, nil
	}
	cur := m.curWarrior
	killed := m.executeCycle(m.warriors[cur])
	if !killed {
		m.cycle--
	}
	m.curWarrior = m.nextW[cur]
	return nil, nil
}

// Run fights the given number of rounds to completion.
func (m *Mars) Run(rounds int) ([]RoundResult, error) {
	results := make([]RoundResult, 0, rounds)
	for r := 0; r < rounds; r++ {
		if err := m.SetupRound(); err != nil {
			return results, err
		}
		for {
			res, err := m.Step()
			if err != nil {
				return results, err
			}
			if res != nil {
				results = append(results, *res)
				break
			}
		}
	}
	return results, nil
}

// endRound settles the scores: survivors split the survival bucket,
// everyone records how many were left as their round result.
func (m *Mars) endRound() *RoundResult {
	winner := NoWinner
	for _, w := range m.warriors {
		if w.Alive {
			w.Scores[m.warriorsLeft-1]++
			w.LastResult = m.warriorsLeft
			m.pspaces[w.pSpaceIndex].SetLastResult(m.warriorsLeft)
			winner = w.ID
		} else {
			w.LastResult = 0
		}
	}
	res := &RoundResult{Winner: NoWinner, Outcome: Tie}
	if m.warriorsLeft == 1 {
		res.Winner = winner
		res.Outcome = Win
	}
	if m.listener != nil {
		m.listener.OnRoundEnd(RoundEnd{Winner: res.Winner})
	}
	if m.tracer != nil {
		m.tracer.WithFields(logrus.Fields{
			"round":   m.roundNum,
			"winner":  res.Winner,
			"outcome": res.Outcome.String(),
		}).Info("round over")
	}
	return res
}

// kill removes a warrior whose last task just died. The remaining
// cycle budget shrinks so the round cannot outlast the survivors'
// fair share.
func (m *Mars) kill(w *Warrior) {
	w.Alive = false
	w.Scores[m.warriorsLeft+len(m.warriors)-2]++
	m.cycle = m.cycle - 1 - (m.cycle-1)/m.warriorsLeft
	m.warriorsLeft--
	id := w.ID
	m.nextW[m.prevW[id]] = m.nextW[id]
	m.prevW[m.nextW[id]] = m.prevW[id]
}

func (m *Mars) Core() *Core          { return m.core }
func (m *Mars) Warriors() []*Warrior { return m.warriors }
func (m *Mars) RoundNum() int        { return m.roundNum }

// CycleNum returns how many cycles of the round have elapsed.
func (m *Mars) CycleNum() int { return m.totalCycles - m.cycle }

// SetListener registers an event sink. Pass nil to detach.
func (m *Mars) SetListener(l Listener) { m.listener = l }

// SetTracer enables per-instruction debug logging. Pass nil to detach.
func (m *Mars) SetTracer(t logrus.FieldLogger) { m.tracer = t }
