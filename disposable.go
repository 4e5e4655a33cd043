package hotstream

import (
	"sync"
)

type (
	// Disposable is one unit of cancellable work or cleanup. Dispose is
	// idempotent: the first call performs the cleanup, and every later
	// call is a no-op. Implementations are safe for concurrent use.
	Disposable interface {
		// Dispose performs the cleanup, if it has not been performed.
		Dispose()
		// Disposed indicates whether Dispose has been called, or the
		// disposable was created spent.
		Disposed() bool
	}

	actionDisposable struct {
		fn       func()
		mu       sync.Mutex
		disposed bool
	}

	spentDisposable struct{}

	// CompositeDisposable aggregates member disposables so they tear
	// down as one unit: disposing it disposes every member exactly
	// once, and adding to an already-disposed composite disposes the
	// new member immediately, rather than storing it, preventing leaks
	// on late registration.
	//
	// The zero CompositeDisposable is ready for use.
	CompositeDisposable struct {
		bag      Bag[Disposable]
		mu       sync.Mutex
		disposed bool
		pending  int
	}
)

// compactEvery bounds how many adds may accumulate before a composite
// sweeps out members that report themselves disposed, keeping
// long-lived composites that accumulate one-shot members (e.g.
// scheduled tasks) from growing without bound.
const compactEvery = 64

// NewDisposable returns a [Disposable] invoking fn exactly once, on the
// first call to Dispose. A nil fn yields a disposable that only tracks
// its disposed state.
func NewDisposable(fn func()) Disposable {
	return &actionDisposable{fn: fn}
}

func (x *actionDisposable) Dispose() {
	x.mu.Lock()
	fn := x.fn
	x.fn = nil
	x.disposed = true
	x.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (x *actionDisposable) Disposed() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.disposed
}

func (spentDisposable) Dispose() {}

func (spentDisposable) Disposed() bool { return true }

// NewComposite returns a [CompositeDisposable] seeded with the given
// members. Nil members are skipped.
func NewComposite(members ...Disposable) *CompositeDisposable {
	x := &CompositeDisposable{}
	for _, d := range members {
		if d != nil {
			x.bag.Insert(d)
		}
	}
	return x
}

// Add stores d as a member, returning a token accepted by
// [CompositeDisposable.Remove]. If the composite is already disposed, d
// is disposed immediately and the zero [Token] is returned. A nil d is
// a no-op, also returning the zero Token.
func (x *CompositeDisposable) Add(d Disposable) Token {
	if d == nil {
		return Token{}
	}
	x.mu.Lock()
	if x.disposed {
		x.mu.Unlock()
		d.Dispose()
		return Token{}
	}
	x.pending++
	if x.pending >= compactEvery {
		x.pending = 0
		x.compactLocked()
	}
	token := x.bag.Insert(d)
	x.mu.Unlock()
	return token
}

// Remove detaches the member identified by token without disposing it.
// Stale, unknown, and zero tokens are no-ops.
func (x *CompositeDisposable) Remove(token Token) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.bag.Remove(token)
}

// Dispose disposes every member exactly once and marks the composite
// disposed. Members added concurrently are disposed exactly once,
// either here or immediately within their own Add.
func (x *CompositeDisposable) Dispose() {
	x.mu.Lock()
	if x.disposed {
		x.mu.Unlock()
		return
	}
	x.disposed = true
	members := x.bag.Values(nil)
	x.bag = Bag[Disposable]{}
	x.mu.Unlock()
	for _, d := range members {
		d.Dispose()
	}
}

func (x *CompositeDisposable) Disposed() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.disposed
}

// Len returns the current member count.
func (x *CompositeDisposable) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.bag.Len()
}

func (x *CompositeDisposable) compactLocked() {
	x.bag.Range(func(token Token, member Disposable) bool {
		if member.Disposed() {
			x.bag.Remove(token)
		}
		return true
	})
}
