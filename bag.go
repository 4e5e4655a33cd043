package hotstream

type (
	// Token is an opaque handle identifying one element within a [Bag].
	// The zero Token is never issued, and every operation given a stale,
	// unknown, or zero token is a no-op.
	Token struct {
		index uint32
		gen   uint32
	}

	bagSlot[E any] struct {
		elem E
		gen  uint32
		used bool
	}

	// Bag is an unordered container supporting O(1) insertion and O(1)
	// removal by opaque [Token], implemented as a generation-indexed
	// slot arena: a slot's index is reused only after its generation is
	// bumped, so a token can never remove any element other than the
	// one it was issued for.
	//
	// Bag is not synchronized. Callers requiring concurrent access must
	// guard it with their own mutex, snapshotting via [Bag.Values]
	// before iterating outside the lock.
	//
	// The zero Bag is ready for use.
	Bag[E any] struct {
		slots []bagSlot[E]
		free  []uint32
		size  int
	}
)

// Valid indicates whether the token was issued by an insert. It does
// not indicate liveness; removal may have spent it already.
func (x Token) Valid() bool { return x.gen != 0 }

// Insert adds elem, returning its removal token.
func (x *Bag[E]) Insert(elem E) Token {
	x.size++
	if n := len(x.free); n != 0 {
		i := x.free[n-1]
		x.free = x.free[:n-1]
		s := &x.slots[i]
		s.elem = elem
		s.used = true
		return Token{index: i, gen: s.gen}
	}
	x.slots = append(x.slots, bagSlot[E]{elem: elem, gen: 1, used: true})
	return Token{index: uint32(len(x.slots) - 1), gen: 1}
}

// Remove deletes the element identified by token, returning false
// without effect if the token is stale, unknown, or zero.
func (x *Bag[E]) Remove(token Token) bool {
	if token.gen == 0 || uint64(token.index) >= uint64(len(x.slots)) {
		return false
	}
	s := &x.slots[token.index]
	if !s.used || s.gen != token.gen {
		return false
	}
	var zero E
	s.elem = zero
	s.used = false
	s.gen++
	x.size--
	x.free = append(x.free, token.index)
	return true
}

// Len returns the number of elements.
func (x *Bag[E]) Len() int { return x.size }

// Values appends every element to dst, returning the result, in
// unspecified order.
func (x *Bag[E]) Values(dst []E) []E {
	for i := range x.slots {
		if x.slots[i].used {
			dst = append(dst, x.slots[i].elem)
		}
	}
	return dst
}

// Range invokes fn for each element until fn returns false. The bag
// must not be inserted into during iteration; removal of the yielded
// token is permitted.
func (x *Bag[E]) Range(fn func(token Token, elem E) bool) {
	for i := range x.slots {
		if s := &x.slots[i]; s.used {
			if !fn(Token{index: uint32(i), gen: s.gen}, s.elem) {
				return
			}
		}
	}
}
