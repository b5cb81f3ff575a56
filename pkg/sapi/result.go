package sapi

// Result holds the outcome of a fallible operation: exactly one of a
// success value or an error. Results are immutable once constructed and
// carry no implicit unwrap; callers branch on IsSuccess or Value.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Success wraps a value in a successful Result.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Failure wraps an error in a failed Result.
func Failure[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsSuccess reports whether the Result carries a value.
func (r Result[T]) IsSuccess() bool {
	return r.ok
}

// Value returns the success value. The second return is false when the
// Result is a failure.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.ok
}

// Err returns the error for a failed Result, or nil on success.
func (r Result[T]) Err() error {
	if r.ok {
		return nil
	}

	return r.err
}

// Recover collapses the Result to a plain value, applying fallback only
// when the Result is a failure.
func (r Result[T]) Recover(fallback func(error) T) T {
	if r.ok {
		return r.value
	}

	return fallback(r.err)
}

// MapResult transforms the success value of a Result, passing a failure
// through unchanged.
func MapResult[T, U any](r Result[T], transform func(T) U) Result[U] {
	if !r.ok {
		return Failure[U](r.err)
	}

	return Success(transform(r.value))
}
