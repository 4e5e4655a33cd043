package hotstream

import (
	"fmt"
)

// Map derives a stream whose next values are transformed by fn;
// terminating events pass through unchanged. A nil fn panics.
func Map[T, U any](source *Stream[T], fn func(T) U) *Stream[U] {
	if fn == nil {
		panic(`hotstream: map: nil transform`)
	}
	return New(func(sink Sink[U]) Disposable {
		return source.Observe(func(event Event[T]) {
			switch event.Kind() {
			case KindNext:
				value, _ := event.Value()
				sink.SendNext(fn(value))
			case KindFailed:
				sink.SendFailed(event.Err())
			default:
				sink.SendCompleted()
			}
		})
	})
}

// Filter derives a stream forwarding only the next values satisfying
// pred; terminating events pass through unconditionally. A nil pred
// panics.
func Filter[T any](source *Stream[T], pred func(T) bool) *Stream[T] {
	if pred == nil {
		panic(`hotstream: filter: nil predicate`)
	}
	return New(func(sink Sink[T]) Disposable {
		return source.Observe(func(event Event[T]) {
			if value, ok := event.Value(); ok {
				if pred(value) {
					sink.SendNext(value)
				}
				return
			}
			sink.Send(event)
		})
	})
}

// Take derives a stream forwarding the first n next events; the
// (n+1)-th next event is replaced with completion. Terminating events
// within the first n pass through unchanged. Panics if n is negative.
//
// The count-exhausted transition eagerly disposes the subscription to
// source, guaranteeing at most one terminal event downstream and
// stopping upstream delivery. WARNING: the historical behavior this
// hardens, re-signalling completion on every post-exhaustion next
// event, remains implemented by the counter; the engine's
// exactly-once-termination contract renders those re-signals
// unobservable, and nothing should come to depend on them.
func Take[T any](source *Stream[T], n int) *Stream[T] {
	if n < 0 {
		panic(fmt.Errorf(`hotstream: take: negative count: %d`, n))
	}
	return takeStream(source, n, true)
}

// takeStream implements [Take]. With harden unset, the source
// subscription is left to the derived stream's own teardown,
// preserving the re-signalling behavior noted on Take.
func takeStream[T any](source *Stream[T], n int, harden bool) *Stream[T] {
	return New(func(sink Sink[T]) Disposable {
		var (
			remaining    Atomic[int]
			subscription Atomic[Disposable]
		)
		remaining.Store(n)
		d := source.Observe(func(event Event[T]) {
			if _, ok := event.Value(); !ok {
				sink.Send(event)
				return
			}
			if remaining.Modify(func(old int) int {
				if old > 0 {
					return old - 1
				}
				return old
			}) > 0 {
				sink.Send(event)
				return
			}
			// count exhausted: complete instead of forwarding
			if harden {
				if d := subscription.Load(); d != nil {
					d.Dispose()
				}
			}
			sink.SendCompleted()
		})
		// an event delivered before the store leaves the eager dispose
		// to the derived stream's own teardown
		subscription.Store(d)
		return d
	})
}

// Skip derives a stream dropping the first n next events and
// forwarding every event after; terminating events always pass
// through. Skip with n == 0 returns source itself, allocating nothing.
// Panics if n is negative.
func Skip[T any](source *Stream[T], n int) *Stream[T] {
	if n < 0 {
		panic(fmt.Errorf(`hotstream: skip: negative count: %d`, n))
	}
	if n == 0 {
		return source
	}
	return New(func(sink Sink[T]) Disposable {
		var remaining Atomic[int]
		remaining.Store(n)
		return source.Observe(func(event Event[T]) {
			if _, ok := event.Value(); !ok {
				sink.Send(event)
				return
			}
			if remaining.Modify(func(old int) int {
				if old > 0 {
					return old - 1
				}
				return old
			}) > 0 {
				return
			}
			sink.Send(event)
		})
	})
}

// Scan derives a stream of running accumulations: for each next value
// the accumulator is replaced with fn(accumulator, value), and the new
// accumulator is emitted. The initial accumulator itself is not
// emitted. Terminating events pass through. A nil fn panics.
func Scan[T, U any](source *Stream[T], initial U, fn func(acc U, value T) U) *Stream[U] {
	if fn == nil {
		panic(`hotstream: scan: nil accumulator`)
	}
	return New(func(sink Sink[U]) Disposable {
		acc := NewAtomic(initial)
		return source.Observe(func(event Event[T]) {
			switch event.Kind() {
			case KindNext:
				value, _ := event.Value()
				var next U
				acc.Modify(func(old U) U {
					next = fn(old, value)
					return next
				})
				sink.SendNext(next)
			case KindFailed:
				sink.SendFailed(event.Err())
			default:
				sink.SendCompleted()
			}
		})
	})
}

// SkipRepeats derives a stream dropping each next value equal to the
// immediately preceding next value.
func SkipRepeats[T comparable](source *Stream[T]) *Stream[T] {
	return SkipRepeatsFunc(source, func(a, b T) bool { return a == b })
}

// SkipRepeatsFunc is [SkipRepeats] for types without built-in
// equality: a next value is dropped when eq(previous, value) holds. A
// nil eq panics.
func SkipRepeatsFunc[T any](source *Stream[T], eq func(a, b T) bool) *Stream[T] {
	if eq == nil {
		panic(`hotstream: skip repeats: nil equality`)
	}
	return New(func(sink Sink[T]) Disposable {
		type previous struct {
			value T
			seen  bool
		}
		var cell Atomic[previous]
		return source.Observe(func(event Event[T]) {
			value, ok := event.Value()
			if !ok {
				sink.Send(event)
				return
			}
			var repeat bool
			cell.Modify(func(old previous) previous {
				repeat = old.seen && eq(old.value, value)
				return previous{value: value, seen: true}
			})
			if !repeat {
				sink.SendNext(value)
			}
		})
	})
}
