package hotstream

import (
	"fmt"
)

type (
	// EventKind enumerates the kinds of stream events.
	EventKind uint8

	// Event is a single message within a stream: a next value, a
	// failure, or completion. Events are immutable values with no
	// identity beyond their payload.
	//
	// The zero Event is a next event carrying T's zero value.
	Event[T any] struct {
		err   error
		value T
		kind  EventKind
	}
)

const (
	// KindNext identifies a non-terminating event carrying a value.
	KindNext EventKind = iota
	// KindFailed identifies a terminating event carrying an error.
	KindFailed
	// KindCompleted identifies successful termination.
	KindCompleted
)

// Next returns an event carrying value.
func Next[T any](value T) Event[T] {
	return Event[T]{value: value}
}

// Failed returns a terminating event carrying err, which is typically
// non-nil, though that is not enforced.
func Failed[T any](err error) Event[T] {
	return Event[T]{kind: KindFailed, err: err}
}

// Completed returns the terminating event indicating successful
// completion.
func Completed[T any]() Event[T] {
	return Event[T]{kind: KindCompleted}
}

// Kind returns the kind of the event.
func (x Event[T]) Kind() EventKind { return x.kind }

// Terminating indicates whether the event ends a stream, true for
// [KindFailed] and [KindCompleted] events.
func (x Event[T]) Terminating() bool { return x.kind != KindNext }

// Value returns the payload of a [KindNext] event, or T's zero value
// and false for terminating events.
func (x Event[T]) Value() (T, bool) {
	if x.kind != KindNext {
		var zero T
		return zero, false
	}
	return x.value, true
}

// Err returns the error of a [KindFailed] event, and nil otherwise.
func (x Event[T]) Err() error {
	if x.kind != KindFailed {
		return nil
	}
	return x.err
}

// String implements [fmt.Stringer].
func (x Event[T]) String() string {
	switch x.kind {
	case KindFailed:
		return fmt.Sprintf(`Failed(%v)`, x.err)
	case KindCompleted:
		return `Completed`
	default:
		return fmt.Sprintf(`Next(%v)`, x.value)
	}
}

// String implements [fmt.Stringer].
func (x EventKind) String() string {
	switch x {
	case KindFailed:
		return `failed`
	case KindCompleted:
		return `completed`
	default:
		return `next`
	}
}
