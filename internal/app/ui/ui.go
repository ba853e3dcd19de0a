// Package ui declares the presentation collaborators the controllers report to.
// Rendering itself lives in the front-end; controllers only emit notices,
// navigation requests and confirmation prompts.
package ui

import (
	"context"
	"sync"
)

// Level classifies a notice.
type Level string

// Notice levels.
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a transient user-facing message.
type Notice struct {
	Level   Level
	Message string
}

// Notifier displays notices.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Navigator moves the user to another view.
type Navigator interface {
	Navigate(ctx context.Context, destination string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, destination string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(ctx context.Context, destination string) { f(ctx, destination) }

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, question string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, question string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, question string) bool { return f(ctx, question) }

// Discard drops every notice and navigation.
type Discard struct{}

// Notify implements Notifier.
func (Discard) Notify(context.Context, Notice) {}

// Navigate implements Navigator.
func (Discard) Navigate(context.Context, string) {}

// Recorder keeps notices and destinations in memory. Front-ends that render
// after the fact, and tests, read them back.
type Recorder struct {
	mu           sync.Mutex
	notices      []Notice
	destinations []string
}

// Notify implements Notifier.
func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Navigate implements Navigator.
func (r *Recorder) Navigate(_ context.Context, destination string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destinations = append(r.destinations, destination)
}

// Notices returns a copy of the recorded notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice, or the zero Notice.
func (r *Recorder) Last() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

// Destinations returns a copy of the recorded navigations.
func (r *Recorder) Destinations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.destinations...)
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = nil
	r.destinations = nil
}
