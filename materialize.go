package hotstream

// Materialize derives a stream reifying every source event, the
// terminating ones included, as a next value of type [Event]; after
// carrying a terminating source event as a value, the derived stream
// completes.
func Materialize[T any](source *Stream[T]) *Stream[Event[T]] {
	return New(func(sink Sink[Event[T]]) Disposable {
		return source.Observe(func(event Event[T]) {
			sink.SendNext(event)
			if event.Terminating() {
				sink.SendCompleted()
			}
		})
	})
}

// Dematerialize derives a stream unwrapping a stream of reified
// events: each carried [Event] is re-emitted as the corresponding real
// event. Terminating events of the outer stream itself pass through as
// themselves.
func Dematerialize[T any](source *Stream[Event[T]]) *Stream[T] {
	return New(func(sink Sink[T]) Disposable {
		return source.Observe(func(outer Event[Event[T]]) {
			switch outer.Kind() {
			case KindNext:
				inner, _ := outer.Value()
				sink.Send(inner)
			case KindFailed:
				sink.SendFailed(outer.Err())
			default:
				sink.SendCompleted()
			}
		})
	})
}
