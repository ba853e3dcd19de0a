package sequence

// Option applies a configuration option to the tracker.
type Option func(*tracker)

// WithStaleHook registers a callback invoked whenever a completion is discarded.
// Used to feed the stale_responses_total metric.
func WithStaleHook(fn func(op string)) Option {
	return func(t *tracker) {
		if fn != nil {
			t.onStale = fn
		}
	}
}
