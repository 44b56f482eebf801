// Package asm assembles ICWS'94 Redcode source into warrior images
// ready to load into a core.
package asm

import (
	"strings"

	"github.com/pkg/errors"

	"go.creack.net/mars94/asm/parser"
	"go.creack.net/mars94/op"
)

// Result is the outcome of one assembly: the warrior image when
// assembly succeeded, plus every diagnostic emitted along the way.
type Result struct {
	Warrior  *op.WarriorData
	Messages parser.Messages
}

// Succeeded reports whether a loadable warrior was produced.
func (r *Result) Succeeded() bool { return r.Warrior != nil }

// Assemble runs the two-pass assembler over source. name is only used
// as a fallback when the source has no ;name directive.
func Assemble(name, source string, cfg op.Config) *Result {
	w, msgs := parser.Parse(source, cfg)
	if w != nil && w.Name == "" {
		w.Name = name
	}
	return &Result{Warrior: w, Messages: msgs}
}

// Compile is the error-returning form of Assemble: diagnostics of
// Error severity are flattened into a single error.
func Compile(name, source string, cfg op.Config) (*op.WarriorData, error) {
	res := Assemble(name, source, cfg)
	if res.Succeeded() {
		return res.Warrior, nil
	}
	var lines []string
	for _, m := range res.Messages {
		if m.Severity == parser.Error {
			lines = append(lines, m.String())
		}
	}
	return nil, errors.Errorf("assemble %s: %s", name, strings.Join(lines, "; "))
}
