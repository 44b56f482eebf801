package vm

// AccessKind is the kind of core access reported to a Listener.
type AccessKind int

const (
	AccessRead AccessKind = iota
	AccessWrite
	AccessExecute
)

func (k AccessKind) String() string {
	switch k {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessExecute:
		return "execute"
	default:
		return "unknown"
	}
}

// CoreAccess is one touched core cell during an executed instruction.
type CoreAccess struct {
	Warrior int
	Address int
	Kind    AccessKind
}

// TaskCount reports a warrior's task total after a cycle.
type TaskCount struct {
	Warrior int
	Tasks   int
}

// NoWinner is the RoundEnd winner when the round ties.
const NoWinner = -1

// RoundEnd reports the end of a round.
type RoundEnd struct {
	Winner int
}

// Listener receives simulation events, typically to drive a display.
// Callbacks run on the simulation goroutine; keep them short.
type Listener interface {
	OnCoreAccess(accesses []CoreAccess)
	OnTaskCount(tc TaskCount)
	OnRoundEnd(re RoundEnd)
}

// ListenerFuncs adapts plain functions to the Listener interface.
// Nil fields are skipped.
type ListenerFuncs struct {
	CoreAccess func([]CoreAccess)
	TaskCount  func(TaskCount)
	RoundEnd   func(RoundEnd)
}

func (l ListenerFuncs) OnCoreAccess(as []CoreAccess) {
	if l.CoreAccess != nil {
		l.CoreAccess(as)
	}
}

func (l ListenerFuncs) OnTaskCount(tc TaskCount) {
	if l.TaskCount != nil {
		l.TaskCount(tc)
	}
}

func (l ListenerFuncs) OnRoundEnd(re RoundEnd) {
	if l.RoundEnd != nil {
		l.RoundEnd(re)
	}
}
