package hotstream

import (
	"sync"
)

type (
	// Observer is the unified subscriber callback form, invoked once
	// per delivered event.
	Observer[T any] func(Event[T])

	// Callbacks is the discrete subscriber callback form, accepted by
	// [Stream.ObserveWith]. Each nil field defaults to a no-op.
	Callbacks[T any] struct {
		// OnNext receives the payload of each next event.
		OnNext func(value T)
		// OnFailed receives the error of a failure event.
		OnFailed func(err error)
		// OnCompleted is invoked on successful completion.
		OnCompleted func()
	}

	// Stream is a hot, multicast, push-driven stream of events.
	//
	// A stream owns a registry of observers, a pending-event queue, and
	// a lifecycle [CompositeDisposable]. Events pushed into its [Sink]
	// are delivered to every observer registered at delivery time, in
	// one total order observed identically by all. The first
	// terminating event clears the registry (a one-way transition),
	// delivers to the final observer snapshot, and then disposes the
	// lifecycle disposable, tearing down generator resources, upstream
	// subscriptions, and scheduled tasks.
	//
	// Streams are self-owning: from construction until termination the
	// package retains the stream, so it remains alive with no external
	// references (such as a generator goroutine's sink, or nothing at
	// all in the case of [Never]). A stream that will never terminate
	// must be disposed to release it.
	//
	// Thread Safety:
	//   - All methods are safe for concurrent use from any goroutine.
	//   - Observer callbacks run outside the stream's lock; a callback
	//     may push more events, observe, or dispose, on this or any
	//     other stream, without deadlocking. Reentrant pushes are
	//     queued and delivered by the in-progress delivery, preserving
	//     push order.
	Stream[T any] struct {
		// registry holds the observers; nil once terminated, and the
		// transition to nil is one-way.
		registry *Bag[Observer[T]]
		// queue holds pushed events not yet delivered by the drainer.
		queue     []Event[T]
		lifecycle *CompositeDisposable
		id        uint64
		// draining marks that some goroutine is delivering the queue.
		draining bool
		mu       sync.Mutex
	}

	// Sink is the entry point through which events are pushed into a
	// stream. Sinks are small values, safe to copy and safe for
	// concurrent use from any goroutine. The zero Sink is inert.
	Sink[T any] struct {
		stream *Stream[T]
	}
)

// New constructs a stream by invoking generator synchronously with the
// stream's own sink. If generator returns a non-nil disposable, it
// joins the lifecycle disposable, so termination or [Stream.Dispose]
// tears the generator's resources down too. A nil generator panics.
func New[T any](generator func(sink Sink[T]) Disposable) *Stream[T] {
	if generator == nil {
		panic(`hotstream: nil generator`)
	}
	x := newStream[T]()
	if d := generator(Sink[T]{stream: x}); d != nil {
		x.lifecycle.Add(d)
	}
	return x
}

// Never returns a stream that never emits. It stays alive, holding its
// observers, until disposed.
func Never[T any]() *Stream[T] {
	return newStream[T]()
}

// Empty returns a stream that completed during construction, before
// any observer could attach; observers registered on it receive
// nothing.
func Empty[T any]() *Stream[T] {
	x := newStream[T]()
	Sink[T]{stream: x}.SendCompleted()
	return x
}

// Pipe returns a stream paired with its sink, for pushing events from
// caller-controlled code rather than from a generator.
func Pipe[T any]() (*Stream[T], Sink[T]) {
	x := newStream[T]()
	return x, Sink[T]{stream: x}
}

func newStream[T any]() *Stream[T] {
	x := &Stream[T]{
		registry:  new(Bag[Observer[T]]),
		lifecycle: NewComposite(),
	}
	x.id = live.add(x)
	// first member: external disposal silently closes the registry
	x.lifecycle.Add(NewDisposable(x.closeRegistry))
	logger().Debug().
		Uint64(`stream`, x.id).
		Log(`stream created`)
	return x
}

// Observe registers fn to receive every event delivered after
// registration. The returned disposable removes the registration,
// affecting no other observer. On a terminated stream fn will never be
// invoked, and the returned disposable is already spent. A nil fn
// panics.
func (x *Stream[T]) Observe(fn Observer[T]) Disposable {
	if fn == nil {
		panic(`hotstream: nil observer`)
	}
	x.mu.Lock()
	if x.registry == nil {
		x.mu.Unlock()
		return spentDisposable{}
	}
	token := x.registry.Insert(fn)
	x.mu.Unlock()
	logger().Trace().
		Uint64(`stream`, x.id).
		Log(`observer registered`)
	return NewDisposable(func() {
		x.mu.Lock()
		removed := x.registry != nil && x.registry.Remove(token)
		x.mu.Unlock()
		if removed {
			logger().Trace().
				Uint64(`stream`, x.id).
				Log(`observer removed`)
		}
	})
}

// ObserveWith is [Stream.Observe] sugar accepting discrete callbacks,
// each optional.
func (x *Stream[T]) ObserveWith(callbacks Callbacks[T]) Disposable {
	return x.Observe(callbacks.Observer())
}

// Dispose cancels the stream without delivering any further events:
// the registry transitions to absent, queued events are dropped, and
// every member of the lifecycle disposable is disposed exactly once.
// Safe to call repeatedly, and concurrently with in-flight delivery.
func (x *Stream[T]) Dispose() {
	x.lifecycle.Dispose()
}

// Terminated indicates whether the stream has delivered a terminating
// event, or been disposed. Once true, it never becomes false.
func (x *Stream[T]) Terminated() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.registry == nil
}

// Observer returns the unified callback form, substituting a no-op for
// each nil field.
func (x Callbacks[T]) Observer() Observer[T] {
	return func(event Event[T]) {
		switch event.Kind() {
		case KindNext:
			if x.OnNext != nil {
				value, _ := event.Value()
				x.OnNext(value)
			}
		case KindFailed:
			if x.OnFailed != nil {
				x.OnFailed(event.Err())
			}
		default:
			if x.OnCompleted != nil {
				x.OnCompleted()
			}
		}
	}
}

// Send pushes event into the sink's stream. On a terminated stream it
// is a no-op. Events pushed concurrently are delivered in a single
// total order, observed identically by every observer.
func (x Sink[T]) Send(event Event[T]) {
	if x.stream != nil {
		x.stream.push(event)
	}
}

// SendNext pushes a next event carrying value.
func (x Sink[T]) SendNext(value T) { x.Send(Next(value)) }

// SendFailed pushes a terminating failure event carrying err.
func (x Sink[T]) SendFailed(err error) { x.Send(Failed[T](err)) }

// SendCompleted pushes the terminating completion event.
func (x Sink[T]) SendCompleted() { x.Send(Completed[T]()) }

// push enqueues event and, unless a drain is already in progress,
// becomes the drainer. Reentrant pushes from observer callbacks (the
// drainer is upstack) enqueue and return, converting recursion into
// iteration; concurrent pushers likewise hand their events to the
// current drainer.
func (x *Stream[T]) push(event Event[T]) {
	x.mu.Lock()
	if x.registry == nil {
		x.mu.Unlock()
		return
	}
	x.queue = append(x.queue, event)
	if x.draining {
		x.mu.Unlock()
		return
	}
	x.draining = true
	x.drain()
}

// drain delivers queued events until none remain or the stream
// terminates. Entered with x.mu held and x.draining set; x.mu is
// released on return. Observer callbacks run outside the lock, against
// a per-event registry snapshot.
func (x *Stream[T]) drain() {
	var snapshot []Observer[T]
	for {
		if x.registry == nil || len(x.queue) == 0 {
			x.queue = nil
			x.draining = false
			x.mu.Unlock()
			return
		}
		event := x.queue[0]
		x.queue = x.queue[1:]
		snapshot = x.registry.Values(snapshot[:0])
		terminal := event.Terminating()
		if terminal {
			// one-way transition: nothing is delivered past this
			// event, including to observers racing registration
			x.registry = nil
			x.queue = nil
		}
		x.mu.Unlock()
		for _, observer := range snapshot {
			observer(event)
		}
		if terminal {
			live.remove(x.id)
			logger().Debug().
				Uint64(`stream`, x.id).
				Str(`event`, event.Kind().String()).
				Log(`stream terminated`)
			x.lifecycle.Dispose()
			x.mu.Lock()
			x.draining = false
			x.mu.Unlock()
			return
		}
		x.mu.Lock()
	}
}

// closeRegistry performs the registry-absent transition without
// delivering an event, dropping any queued events. It is invoked via
// the lifecycle disposable on external disposal; termination via a
// pushed terminating event takes the drain path instead.
func (x *Stream[T]) closeRegistry() {
	x.mu.Lock()
	open := x.registry != nil
	x.registry = nil
	x.queue = nil
	x.mu.Unlock()
	if open {
		live.remove(x.id)
		logger().Debug().
			Uint64(`stream`, x.id).
			Log(`stream disposed`)
	}
}
