package hotstream

type (
	// Pair carries one value from each input of [CombineLatest].
	Pair[A, B any] struct {
		First  A
		Second B
	}

	combineState[A, B any] struct {
		latestA A
		latestB B
		hasA    bool
		hasB    bool
		doneA   bool
		doneB   bool
	}

	sampleState[T any] struct {
		latest      T
		hasValue    bool
		doneSource  bool
		doneSampler bool
	}
)

// CombineLatest derives a stream pairing the latest values of a and b.
// Nothing is emitted until both inputs have produced a value; from
// then on, every next value from either input emits a pair combining
// it with the other input's latest. The first failure from either
// input propagates immediately, and completion requires both inputs to
// complete.
func CombineLatest[A, B any](a *Stream[A], b *Stream[B]) *Stream[Pair[A, B]] {
	return New(func(sink Sink[Pair[A, B]]) Disposable {
		// one cell shared by both subscriptions, so updates from the
		// two sides never interleave partially
		var cell Atomic[combineState[A, B]]
		subA := a.Observe(func(event Event[A]) {
			switch event.Kind() {
			case KindNext:
				value, _ := event.Value()
				var pair Pair[A, B]
				var ready bool
				cell.Modify(func(old combineState[A, B]) combineState[A, B] {
					old.latestA = value
					old.hasA = true
					ready = old.hasB
					pair = Pair[A, B]{First: value, Second: old.latestB}
					return old
				})
				if ready {
					sink.SendNext(pair)
				}
			case KindFailed:
				sink.SendFailed(event.Err())
			default:
				var finished bool
				cell.Modify(func(old combineState[A, B]) combineState[A, B] {
					old.doneA = true
					finished = old.doneB
					return old
				})
				if finished {
					sink.SendCompleted()
				}
			}
		})
		subB := b.Observe(func(event Event[B]) {
			switch event.Kind() {
			case KindNext:
				value, _ := event.Value()
				var pair Pair[A, B]
				var ready bool
				cell.Modify(func(old combineState[A, B]) combineState[A, B] {
					old.latestB = value
					old.hasB = true
					ready = old.hasA
					pair = Pair[A, B]{First: old.latestA, Second: value}
					return old
				})
				if ready {
					sink.SendNext(pair)
				}
			case KindFailed:
				sink.SendFailed(event.Err())
			default:
				var finished bool
				cell.Modify(func(old combineState[A, B]) combineState[A, B] {
					old.doneB = true
					finished = old.doneA
					return old
				})
				if finished {
					sink.SendCompleted()
				}
			}
		})
		return NewComposite(subA, subB)
	})
}

// SampleOn derives a stream re-emitting source's latest next value
// each time sampler emits a next value; samples taken before source
// has produced anything are silently dropped, and repeated samples of
// an unchanged latest value re-emit it. Failures from either input
// propagate immediately, and completion requires both inputs to
// complete.
func SampleOn[T, S any](source *Stream[T], sampler *Stream[S]) *Stream[T] {
	return New(func(sink Sink[T]) Disposable {
		var cell Atomic[sampleState[T]]
		subSource := source.Observe(func(event Event[T]) {
			switch event.Kind() {
			case KindNext:
				value, _ := event.Value()
				cell.Modify(func(old sampleState[T]) sampleState[T] {
					old.latest = value
					old.hasValue = true
					return old
				})
			case KindFailed:
				sink.SendFailed(event.Err())
			default:
				var finished bool
				cell.Modify(func(old sampleState[T]) sampleState[T] {
					old.doneSource = true
					finished = old.doneSampler
					return old
				})
				if finished {
					sink.SendCompleted()
				}
			}
		})
		subSampler := sampler.Observe(func(event Event[S]) {
			switch event.Kind() {
			case KindNext:
				var value T
				var ready bool
				cell.Modify(func(old sampleState[T]) sampleState[T] {
					value = old.latest
					ready = old.hasValue
					return old
				})
				if ready {
					sink.SendNext(value)
				}
			case KindFailed:
				sink.SendFailed(event.Err())
			default:
				var finished bool
				cell.Modify(func(old sampleState[T]) sampleState[T] {
					old.doneSampler = true
					finished = old.doneSource
					return old
				})
				if finished {
					sink.SendCompleted()
				}
			}
		})
		return NewComposite(subSource, subSampler)
	})
}

// TakeUntil derives a stream forwarding every source event until
// trigger emits a next value or completes, at which point the derived
// stream completes, disposing both subscriptions and stopping further
// delivery from either input. Failures from trigger are ignored.
func TakeUntil[T, S any](source *Stream[T], trigger *Stream[S]) *Stream[T] {
	return New(func(sink Sink[T]) Disposable {
		subSource := source.Observe(sink.Send)
		subTrigger := trigger.Observe(func(event Event[S]) {
			if event.Kind() != KindFailed {
				sink.SendCompleted()
			}
		})
		return NewComposite(subSource, subTrigger)
	})
}

// Merge derives a stream interleaving the events of a and b: next
// values forward as they arrive, the first failure from either input
// propagates immediately, and completion requires both inputs to
// complete.
func Merge[T any](a, b *Stream[T]) *Stream[T] {
	return New(func(sink Sink[T]) Disposable {
		var remaining Atomic[int]
		remaining.Store(2)
		observer := func(event Event[T]) {
			if event.Kind() == KindCompleted {
				if remaining.Modify(func(old int) int { return old - 1 }) == 1 {
					sink.SendCompleted()
				}
				return
			}
			sink.Send(event)
		}
		return NewComposite(a.Observe(observer), b.Observe(observer))
	})
}
