package hotstream

import (
	"time"
)

type (
	// Scheduler is the minimal deferred-execution capability consumed
	// by [ObserveOn]: run a task on the scheduler's execution context.
	// Callers must not assume tasks run synchronously, nor that the
	// scheduler is FIFO, although a FIFO scheduler preserves the
	// relative order of events re-dispatched from a single stream.
	//
	// Schedule returns a disposable cancelling the pending task; once
	// the task has started, disposing it has no effect.
	Scheduler interface {
		Schedule(task func()) Disposable
	}

	// DateScheduler extends [Scheduler] with a clock, consumed by
	// [Delay]. Now is the scheduler's own notion of the current time,
	// which need not be monotonic nor related to the wall clock;
	// ScheduleAt runs task once that clock reaches at.
	DateScheduler interface {
		Scheduler
		Now() time.Time
		ScheduleAt(at time.Time, task func()) Disposable
	}
)
