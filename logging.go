package hotstream

import (
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// pkgLogger applies to all streams; logging is configured once per
// process, as combinator-derived streams expose no construction surface
// to thread a logger through.
var pkgLogger atomic.Pointer[logiface.Logger[logiface.Event]]

// SetLogger configures the package-level logger, used for stream
// lifecycle diagnostics: construction and termination at debug level,
// observer registration and removal at trace level. Individual event
// deliveries are never logged.
//
// A nil logger, the default, disables logging. Safe to call at any
// time, concurrently with any other operation.
//
// Example, using the stumpy backend:
//
//	logger := stumpy.L.New(
//		stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
//		stumpy.L.WithLevel(logiface.LevelTrace),
//	)
//	hotstream.SetLogger(logger.Logger())
func SetLogger(logger *logiface.Logger[logiface.Event]) {
	pkgLogger.Store(logger)
}

// logger returns the configured package logger, possibly nil. A nil
// *logiface.Logger discards all writes, so call sites need no guards.
func logger() *logiface.Logger[logiface.Event] {
	return pkgLogger.Load()
}
