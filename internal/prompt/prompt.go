// Package prompt is the interactive confirmation collaborator. Every
// mutating decision in a run goes through a Confirmer; forced mode swaps
// in an implementation that answers yes without touching stdio.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirmer asks a yes/no question and reports the answer.
type Confirmer interface {
	Confirm(question string) bool
}

// Interactive reads answers from an input stream, defaulting to no.
type Interactive struct {
	in  *bufio.Reader
	out io.Writer
}

// NewInteractive constructs a prompter referencing stdio. Nil arguments
// fall back to os.Stdin and os.Stdout.
func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Interactive{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm prints the question and reads a y/yes answer. Any read error
// (including EOF on a closed stdin) counts as a decline, never a retry.
func (p *Interactive) Confirm(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}

// Forced answers yes to everything without any I/O.
type Forced struct{}

// Confirm always returns true.
func (Forced) Confirm(string) bool {
	return true
}
