package portalapi

// Result is the tagged outcome of a backend call: either a value or an error.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Ok wraps a successful payload.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Fail wraps an error.
func Fail[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Of builds a Result from a conventional (value, error) pair.
func Of[T any](v T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(v)
}

// IsOk reports whether the call succeeded.
func (r Result[T]) IsOk() bool { return r.ok }

// Err returns the failure, or nil.
func (r Result[T]) Err() error { return r.err }

// Value returns the payload, or the zero value on failure.
func (r Result[T]) Value() T { return r.value }

// Unwrap returns the conventional pair.
func (r Result[T]) Unwrap() (T, error) { return r.value, r.err }
