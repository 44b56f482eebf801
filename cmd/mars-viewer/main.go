// Command mars-viewer shows a battle live in the terminal: the core
// as a colored grid, one color per warrior, plus logs and standings.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"go.creack.net/mars94/cli"
	"go.creack.net/mars94/vm"
)

const gridWidth = 80

var warriorColors = []tcell.Color{
	tcell.ColorRed,
	tcell.ColorLightGreen,
	tcell.ColorLightBlue,
	tcell.ColorYellow,
	tcell.ColorFuchsia,
	tcell.ColorAqua,
}

func warriorColor(id int) tcell.Color {
	return warriorColors[id%len(warriorColors)]
}

// cellState is the viewer's memory of what last touched a core cell.
type cellState struct {
	owner int // Warrior ID, -1 untouched.
	kind  vm.AccessKind
}

type Game struct {
	app *tview.Application

	coreView     *tview.Table
	logsView     *tview.TextView
	warriorsView *tview.Table
	stateView    *tview.TextView

	m     *vm.Mars
	cells []cellState

	mu       sync.Mutex
	paused   bool
	nextStep bool
	done     bool
}

func NewGame(m *vm.Mars) *Game {
	coreView := tview.NewTable().SetBorders(false)

	logsView := tview.NewTextView().SetDynamicColors(true)
	logsView.SetTitle("Logs").SetBorder(true)
	logsView.ScrollToEnd()

	warriorsView := tview.NewTable().SetBorders(false)
	warriorsView.SetTitle("Warriors").SetBorder(true)

	stateView := tview.NewTextView()
	stateView.SetTitle("State").SetBorder(true)

	corePane := tview.NewFlex()
	corePane.SetBorder(true)
	corePane.SetTitle("Core")
	corePane.AddItem(coreView, 0, 1, false)

	rightPane := tview.NewFlex().SetDirection(tview.FlexRow)
	rightPane.
		AddItem(stateView, 0, 1, false).
		AddItem(warriorsView, 0, 1, false).
		AddItem(logsView, 0, 2, false)

	flex := tview.NewFlex().
		AddItem(corePane, 0, 3, true).
		AddItem(rightPane, 0, 1, false)

	cells := make([]cellState, m.Core().Size())
	for i := range cells {
		cells[i].owner = -1
	}

	g := &Game{
		app:          tview.NewApplication().SetRoot(flex, true),
		coreView:     coreView,
		logsView:     logsView,
		warriorsView: warriorsView,
		stateView:    stateView,
		m:            m,
		cells:        cells,
		paused:       true,
	}
	m.SetListener(vm.ListenerFuncs{
		CoreAccess: g.onCoreAccess,
		RoundEnd:   g.onRoundEnd,
	})
	return g
}

func (g *Game) onCoreAccess(as []vm.CoreAccess) {
	for _, a := range as {
		g.cells[a.Address] = cellState{owner: a.Warrior, kind: a.Kind}
	}
}

func (g *Game) onRoundEnd(re vm.RoundEnd) {
	g.mu.Lock()
	g.done = true
	g.mu.Unlock()
	if re.Winner == vm.NoWinner {
		fmt.Fprintf(g.logsView, "Round %d: tie\n", g.m.RoundNum())
		return
	}
	w := g.m.Warriors()[re.Winner]
	fmt.Fprintf(g.logsView, "Round %d: %s wins\n", g.m.RoundNum(), w.Name)
}

func (g *Game) Init() {
	g.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			g.app.Stop()
			return nil
		}
		switch event.Rune() {
		case ' ':
			g.mu.Lock()
			g.paused = !g.paused
			g.mu.Unlock()
			return nil
		case 'n':
			g.mu.Lock()
			g.nextStep = true
			g.mu.Unlock()
			return nil
		case 'q':
			g.app.Stop()
			return nil
		}
		return event
	})

	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if !g.Update() {
				return
			}
		}
	}()
}

// Update advances the battle unless paused and queues a redraw. It
// reports whether the loop should keep going.
func (g *Game) Update() bool {
	g.mu.Lock()
	run := !g.paused || g.nextStep
	g.nextStep = false
	over := g.done
	g.mu.Unlock()

	if over || !run {
		return true
	}
	// A batch per tick, one instruction per warrior.
	for i := 0; i < len(g.m.Warriors()); i++ {
		res, err := g.m.Step()
		if err != nil {
			fmt.Fprintf(g.logsView, "error: %s\n", err)
			return false
		}
		if res != nil {
			break
		}
	}
	g.app.QueueUpdateDraw(g.Draw)
	return true
}

func (g *Game) drawCore() {
	pcs := map[int]int{}
	for _, w := range g.m.Warriors() {
		if !w.Alive {
			continue
		}
		for _, pc := range w.Queue().Snapshot() {
			pcs[pc] = w.ID
		}
	}
	for i, c := range g.cells {
		cell := tview.NewTableCell(".")
		if c.owner >= 0 {
			txt := "r"
			switch c.kind {
			case vm.AccessWrite:
				txt = "x"
			case vm.AccessExecute:
				txt = "o"
			}
			cell.SetText(txt).SetTextColor(warriorColor(c.owner))
		} else {
			cell.SetTextColor(tcell.ColorDimGray)
		}
		if id, ok := pcs[i]; ok {
			cell.SetAttributes(tcell.AttrReverse).SetTextColor(warriorColor(id))
		}
		g.coreView.SetCell(i/gridWidth, i%gridWidth, cell)
	}
}

func (g *Game) drawWarriors() {
	g.warriorsView.Clear()
	for i, name := range []string{"warrior", "tasks", "wins"} {
		g.warriorsView.SetCell(0, i, tview.NewTableCell(name).SetAttributes(tcell.AttrBold))
	}
	for i, w := range g.m.Warriors() {
		status := w.Name
		if !w.Alive {
			status += " (dead)"
		}
		for j, content := range []any{status, w.Tasks, w.Wins()} {
			cell := tview.NewTableCell(fmt.Sprint(content)).SetTextColor(warriorColor(w.ID))
			g.warriorsView.SetCell(i+1, j, cell)
		}
	}
}

func (g *Game) drawState() {
	g.stateView.Clear()
	fmt.Fprintf(g.stateView, "Round: %d\n", g.m.RoundNum())
	fmt.Fprintf(g.stateView, "Cycle: %d\n", g.m.CycleNum())
	fmt.Fprintf(g.stateView, "Core size: %d\n", g.m.Core().Size())
	g.mu.Lock()
	paused := g.paused
	g.mu.Unlock()
	state := "running"
	if paused {
		state = "paused"
	}
	fmt.Fprintf(g.stateView, "State: %s\n", state)
	fmt.Fprint(g.stateView, strings.Join([]string{"", "space: pause", "n: step", "q: quit"}, "\n"))
}

func (g *Game) Draw() {
	g.drawCore()
	g.drawWarriors()
	g.drawState()
}

func main() {
	log.SetFlags(0)

	opts, err := cli.Parse(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to parse command line: %s.", err)
	}
	warriors, err := opts.LoadWarriors()
	if err != nil {
		log.Fatalf("Failed to load warriors: %s.", err)
	}

	m := vm.NewMars(opts.Config)
	if err := m.LoadWarriors(warriors); err != nil {
		log.Fatalf("Failed to load core: %s.", err)
	}
	if err := m.SetupRound(); err != nil {
		log.Fatalf("Failed to set up round: %s.", err)
	}

	g := NewGame(m)
	g.Init()
	g.Draw()
	if err := g.app.Run(); err != nil {
		log.Fatalf("Failed to run viewer: %s.", err)
	}
}
