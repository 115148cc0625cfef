// Package arena provides a caller-owned bump allocator for decoded values.
//
// A decoder never frees memory itself: every byte range duplicated out of
// an input buffer (in "copy" mode) is carved out of the caller's Arena
// instead, and the caller discards the whole arena in one step — by calling
// Reset, or simply letting it become unreachable — rather than freeing
// decoded values one at a time. This gives a decode failure deterministic
// cleanup: dropping (or resetting) the Arena discards every partial
// allocation a failed decode made along the way.
package arena

// slabSize is the size of each backing slab. Most BER/PER messages fit
// comfortably in one slab; a message with many long strings simply chains
// additional slabs.
const slabSize = 4096

// Arena is a region allocator: a chain of byte slabs with a bump pointer.
// Arena is not safe for concurrent use — callers own it exclusively for
// the duration of one decode.
type Arena struct {
	slabs   [][]byte
	cur     int // index into slabs of the active slab
	off     int // bump offset into slabs[cur]
	minSlab int
}

// New returns an empty Arena. minSlab, if positive, overrides the default
// slab size for callers who know they'll decode unusually large payloads.
func New(minSlab int) *Arena {
	if minSlab <= 0 {
		minSlab = slabSize
	}

	return &Arena{minSlab: minSlab}
}

// Alloc returns a zeroed byte slice of length n, carved out of the arena's
// current slab (growing the slab chain if the current one is exhausted).
// The returned slice is valid until the Arena is Reset.
func (a *Arena) Alloc(n int) []byte {
	if n == 0 {
		return nil
	}

	if len(a.slabs) == 0 || a.off+n > len(a.slabs[a.cur]) {
		a.growFor(n)
	}

	b := a.slabs[a.cur][a.off : a.off+n : a.off+n]
	a.off += n
	clear(b)

	return b
}

// CopyBytes duplicates data into arena-owned storage and returns the copy.
// Used by the decoder's "copy" mode so that output values stay valid after
// the input buffer is reused or discarded.
func (a *Arena) CopyBytes(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}

	dst := a.Alloc(len(data))
	copy(dst, data)

	return dst
}

func (a *Arena) growFor(n int) {
	// Reuse a slab retained from a prior Reset cycle if one is large enough
	// before allocating a new one.
	for next := a.cur + 1; next < len(a.slabs); next++ {
		if len(a.slabs[next]) >= n {
			a.cur = next
			a.off = 0

			return
		}
	}

	size := a.minSlab
	if n > size {
		size = n
	}

	a.slabs = append(a.slabs, make([]byte, size))
	a.cur = len(a.slabs) - 1
	a.off = 0
}

// Reset discards every allocation made so far. Slabs are retained and
// reused by subsequent Alloc/CopyBytes calls, amortizing allocation cost
// across repeated decodes of the same Arena.
func (a *Arena) Reset() {
	a.cur = 0
	a.off = 0
}
