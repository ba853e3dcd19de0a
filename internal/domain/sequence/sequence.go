// Package sequence tags in-flight requests so that completions arriving out of
// order can be recognized and discarded.
package sequence

import "sync"

// Token identifies one issued request of a logical operation.
type Token struct {
	Op  string
	Seq uint64
}

// Tracker issues monotonically increasing tokens per logical operation.
type Tracker interface {
	// Issue returns a new token for op; it supersedes every earlier token for op.
	Issue(op string) Token
	// Latest reports whether tok is still the newest token for its operation.
	// A false result is counted as a stale completion.
	Latest(tok Token) bool
	// Invalidate supersedes all outstanding tokens for op without issuing a new one.
	Invalidate(op string)
}

type tracker struct {
	mu      sync.Mutex
	latest  map[string]uint64
	onStale func(op string)
}

// New creates a Tracker.
func New(opts ...Option) Tracker {
	t := &tracker{
		latest:  make(map[string]uint64),
		onStale: func(string) {},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *tracker) Issue(op string) Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest[op]++
	return Token{Op: op, Seq: t.latest[op]}
}

func (t *tracker) Latest(tok Token) bool {
	t.mu.Lock()
	ok := tok.Seq != 0 && t.latest[tok.Op] == tok.Seq
	t.mu.Unlock()
	if !ok {
		t.onStale(tok.Op)
	}
	return ok
}

func (t *tracker) Invalidate(op string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest[op]++
}
