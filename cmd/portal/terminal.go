package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/okian/recruitportal/internal/app/ui"
)

// terminal renders notices on the command output and reads answers from input.
type terminal struct {
	mu     sync.Mutex
	in     *bufio.Reader
	out    io.Writer
	assume bool
	dest   string
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	return &terminal{in: bufio.NewReader(in), out: out}
}

var levelPrefix = map[ui.Level]string{
	ui.LevelInfo:    "i",
	ui.LevelSuccess: "✓",
	ui.LevelError:   "✗",
}

// Notify implements ui.Notifier.
func (t *terminal) Notify(_ context.Context, n ui.Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s %s\n", levelPrefix[n.Level], n.Message)
}

// Navigate implements ui.Navigator. The CLI has no pages, so it reports where
// a browser would go next.
func (t *terminal) Navigate(_ context.Context, destination string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dest = destination
	fmt.Fprintf(t.out, "→ %s\n", destination)
}

// Confirm implements ui.Confirmer. --yes answers every question.
func (t *terminal) Confirm(_ context.Context, question string) bool {
	if t.assume {
		return true
	}
	answer, err := t.prompt(question + " [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

func (t *terminal) prompt(label string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, label)
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *terminal) destination() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dest
}
