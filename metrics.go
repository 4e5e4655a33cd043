package hotstream

import (
	"sync"
)

type (
	// Stats is a point-in-time snapshot of package-wide stream
	// counters, from [Metrics].
	Stats struct {
		// LiveStreams is the number of streams currently alive, i.e.
		// constructed and not yet terminated or disposed.
		LiveStreams int
		// CreatedStreams counts every stream ever constructed.
		CreatedStreams uint64
		// TerminatedStreams counts streams that have reached their
		// terminal state.
		TerminatedStreams uint64
	}

	// liveArena holds a strong reference to every live stream, keyed by
	// id, realizing the self-owning lifetime model: a stream remains
	// reachable with no external holder until its registry-absent
	// transition removes it, exactly once.
	liveArena struct {
		streams    map[uint64]any
		nextID     uint64
		created    uint64
		terminated uint64
		mu         sync.Mutex
	}
)

var live liveArena

// add registers stream, returning its id. Ids start at 1, reserving 0
// as a null marker.
func (x *liveArena) add(stream any) uint64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.streams == nil {
		x.streams = make(map[uint64]any)
	}
	x.nextID++
	id := x.nextID
	x.streams[id] = stream
	x.created++
	return id
}

func (x *liveArena) remove(id uint64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.streams[id]; ok {
		delete(x.streams, id)
		x.terminated++
	}
}

func (x *liveArena) stats() Stats {
	x.mu.Lock()
	defer x.mu.Unlock()
	return Stats{
		LiveStreams:       len(x.streams),
		CreatedStreams:    x.created,
		TerminatedStreams: x.terminated,
	}
}

// Metrics returns a snapshot of package-wide stream counters, primarily
// as a leak diagnostic: a steadily growing LiveStreams indicates
// streams that neither terminate nor get disposed.
func Metrics() Stats {
	return live.stats()
}
