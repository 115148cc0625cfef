package ber

// SizeStack is the growable vector of precomputed node sizes spec.md §4.3.1
// calls for: the size-computation pass reserves a slot for every composite
// node before descending into its children, fills that slot once the
// recursion returns with the children's total, and the serialization pass
// re-walks the same descriptor/value tree in identical order, reading each
// slot exactly when it needs that node's size for a length header —
// avoiding a second recursive size computation and avoiding back-patching.
type SizeStack struct {
	sizes []int32
}

// NewSizeStack returns an empty SizeStack.
func NewSizeStack() *SizeStack {
	return &SizeStack{}
}

// Reserve appends a placeholder slot and returns its index.
func (s *SizeStack) Reserve() int {
	idx := len(s.sizes)
	s.sizes = append(s.sizes, 0)

	return idx
}

// Fill sets the value at idx, previously returned by Reserve.
func (s *SizeStack) Fill(idx, size int) {
	s.sizes[idx] = int32(size) //nolint:gosec // BER content sizes fit well within int32 in practice
}

// Get reads the value at idx.
func (s *SizeStack) Get(idx int) int {
	return int(s.sizes[idx])
}

// Len returns the number of slots reserved so far.
func (s *SizeStack) Len() int {
	return len(s.sizes)
}

// Reset discards all slots, retaining the backing array for reuse.
func (s *SizeStack) Reset() {
	s.sizes = s.sizes[:0]
}
