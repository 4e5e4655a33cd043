package hotstream

import (
	"sync"
	"time"
)

type (
	// recorder collects delivered events for assertions, safe under
	// concurrent delivery.
	recorder[T any] struct {
		events []Event[T]
		mu     sync.Mutex
	}

	// manualScheduler is a deterministic virtual-time scheduler for
	// tests: tasks accumulate until run explicitly, and the clock
	// moves only via advance.
	manualScheduler struct {
		tasks []*manualTask
		now   time.Time
		mu    sync.Mutex
	}

	manualTask struct {
		fn        func()
		at        time.Time
		timed     bool
		cancelled bool
		done      bool
	}
)

func (x *recorder[T]) observer() Observer[T] {
	return func(event Event[T]) {
		x.mu.Lock()
		x.events = append(x.events, event)
		x.mu.Unlock()
	}
}

// snapshot returns a copy of the recorded events.
func (x *recorder[T]) snapshot() []Event[T] {
	x.mu.Lock()
	defer x.mu.Unlock()
	cp := make([]Event[T], len(x.events))
	copy(cp, x.events)
	return cp
}

// strings renders the recorded events via Event.String, in recorded
// order.
func (x *recorder[T]) strings() []string {
	events := x.snapshot()
	out := make([]string, len(events))
	for i, event := range events {
		out[i] = event.String()
	}
	return out
}

func newManualScheduler() *manualScheduler {
	// an arbitrary fixed epoch, so tests are deterministic
	return &manualScheduler{now: time.Unix(1_000_000, 0).UTC()}
}

func (x *manualScheduler) Schedule(task func()) Disposable {
	return x.add(&manualTask{fn: task})
}

func (x *manualScheduler) Now() time.Time {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.now
}

func (x *manualScheduler) ScheduleAt(at time.Time, task func()) Disposable {
	return x.add(&manualTask{fn: task, at: at, timed: true})
}

func (x *manualScheduler) add(task *manualTask) Disposable {
	x.mu.Lock()
	x.tasks = append(x.tasks, task)
	x.mu.Unlock()
	return NewDisposable(func() {
		x.mu.Lock()
		task.cancelled = true
		x.mu.Unlock()
	})
}

// runAll executes every runnable task in FIFO order, including tasks
// scheduled by the tasks themselves, returning the count run. Untimed
// tasks are always runnable; timed tasks become runnable once the
// clock reaches their time.
func (x *manualScheduler) runAll() int {
	var ran int
	for {
		task := x.next()
		if task == nil {
			return ran
		}
		task.fn()
		ran++
	}
}

func (x *manualScheduler) next() *manualTask {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, task := range x.tasks {
		if task.done || task.cancelled {
			continue
		}
		if task.timed && task.at.After(x.now) {
			continue
		}
		task.done = true
		return task
	}
	return nil
}

// advance moves the clock forward then runs everything runnable.
func (x *manualScheduler) advance(d time.Duration) int {
	x.mu.Lock()
	x.now = x.now.Add(d)
	x.mu.Unlock()
	return x.runAll()
}

// pending counts tasks neither run nor cancelled.
func (x *manualScheduler) pending() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	var n int
	for _, task := range x.tasks {
		if !task.done && !task.cancelled {
			n++
		}
	}
	return n
}

// mustPanic asserts fn panics, returning the recovered value.
func mustPanic(fn func()) (value any) {
	defer func() { value = recover() }()
	fn()
	return nil
}
