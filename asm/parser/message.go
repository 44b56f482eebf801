package parser

import "fmt"

// Severity of an assembler diagnostic.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Message is one assembler diagnostic, tied to a 1-based source line.
// Warnings never fail an assembly; a single Error does.
type Message struct {
	Severity Severity
	Line     int
	Text     string
}

func (m Message) String() string {
	if m.Line > 0 {
		return fmt.Sprintf("%s line %d: %s", m.Severity, m.Line, m.Text)
	}
	return fmt.Sprintf("%s: %s", m.Severity, m.Text)
}

// Messages accumulates diagnostics in emission order.
type Messages []Message

func (ms Messages) HasErrors() bool {
	for _, m := range ms {
		if m.Severity == Error {
			return true
		}
	}
	return false
}

// Warnings returns the warning texts, for WarriorData.
func (ms Messages) Warnings() []string {
	var out []string
	for _, m := range ms {
		if m.Severity == Warning {
			out = append(out, m.Text)
		}
	}
	return out
}
