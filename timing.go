package hotstream

import (
	"fmt"
	"time"
)

// ObserveOn derives a stream delivering every event via scheduler,
// rather than on the pushing goroutine. Relative order is preserved
// when the scheduler executes tasks FIFO; nothing is guaranteed across
// independently scheduled events from different sources. Pending tasks
// are cancelled when the derived stream terminates or is disposed. A
// nil scheduler panics.
func ObserveOn[T any](source *Stream[T], scheduler Scheduler) *Stream[T] {
	if scheduler == nil {
		panic(`hotstream: observe on: nil scheduler`)
	}
	return New(func(sink Sink[T]) Disposable {
		lifecycle := NewComposite()
		lifecycle.Add(source.Observe(func(event Event[T]) {
			lifecycle.Add(scheduler.Schedule(func() {
				sink.Send(event)
			}))
		}))
		return lifecycle
	})
}

// Delay derives a stream delivering next and completion events at
// scheduler.Now() plus interval, computed independently as each event
// arrives, not relative to stream start; a non-monotonic scheduler
// clock can therefore reorder delivery. Failure events are delivered
// immediately, without scheduling. Pending deliveries are cancelled
// when the derived stream terminates or is disposed. Panics if
// interval is negative, or scheduler is nil.
func Delay[T any](source *Stream[T], interval time.Duration, scheduler DateScheduler) *Stream[T] {
	if interval < 0 {
		panic(fmt.Errorf(`hotstream: delay: negative interval: %s`, interval))
	}
	if scheduler == nil {
		panic(`hotstream: delay: nil scheduler`)
	}
	return New(func(sink Sink[T]) Disposable {
		lifecycle := NewComposite()
		lifecycle.Add(source.Observe(func(event Event[T]) {
			if event.Kind() == KindFailed {
				sink.Send(event)
				return
			}
			at := scheduler.Now().Add(interval)
			lifecycle.Add(scheduler.ScheduleAt(at, func() {
				sink.Send(event)
			}))
		}))
		return lifecycle
	})
}
