// Package hotstream implements a push-driven, multicast event-stream
// engine, comprising hot streams of typed events with terminal
// failure/completion semantics, an idempotent composable disposal model,
// and a library of stream-deriving combinators.
//
// Streams are hot: events reach the observers registered at delivery
// time, with no replay and no buffering, on whatever goroutine pushes
// into the [Sink]. Delivery is multicast with a single total order, so
// every observer sees the identical event sequence. A terminating event
// tears the stream down exactly once, after which nothing further is
// delivered, including to observers racing with termination.
//
// Cancellation and external resource management are expressed uniformly
// via [Disposable]. Deferred execution is consumed via the [Scheduler]
// and [DateScheduler] contracts, and is deliberately not implemented by
// this package.
package hotstream
