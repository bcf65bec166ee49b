// Package sharedbuffer implements a best-fit free-range allocator over a
// single shared byte range, coalescing adjacent free ranges as they are
// relinquished. It is a lighter-weight collaborator than the buddy
// allocator: ranges need not be power-of-two sized, at the cost of
// a scan of every free range to find neighbors instead of the buddy's
// XOR rule for computing a block's one possible merge partner.
package sharedbuffer

import "sort"

// Range is a contiguous span [Offset, Offset+Size) within the shared
// buffer.
type Range struct {
	Offset uint64
	Size   uint64
}

func (r Range) end() uint64 { return r.Offset + r.Size }

// Allocator tracks the free ranges of a buffer of a fixed total size.
// The zero value is not usable; construct with New.
type Allocator struct {
	total uint64
	free  []Range // sorted ascending by Size
}

// New constructs an Allocator over a single free range of size bytes.
func New(size uint64) *Allocator {
	a := &Allocator{total: size}
	if size > 0 {
		a.free = []Range{{Offset: 0, Size: size}}
	}
	return a
}

// TotalSize returns the size of the buffer the Allocator was constructed
// with.
func (a *Allocator) TotalSize() uint64 { return a.total }

// AvailableSize returns the sum of every currently free range.
func (a *Allocator) AvailableSize() uint64 {
	var total uint64
	for _, r := range a.free {
		total += r.Size
	}
	return total
}

// AvailableRange reports the smallest free range able to hold size
// bytes, without claiming it.
func (a *Allocator) AvailableRange(size uint64) (Range, bool) {
	i := a.bestFitIndex(size)
	if i < 0 {
		return Range{}, false
	}
	return a.free[i], true
}

// bestFitIndex returns the index of the smallest free range with
// Size >= size, or -1 if none qualifies. The free list is sorted
// ascending by size, so the first qualifying entry is the best fit.
func (a *Allocator) bestFitIndex(size uint64) int {
	i := sort.Search(len(a.free), func(i int) bool { return a.free[i].Size >= size })
	if i == len(a.free) {
		return -1
	}
	return i
}

// Claim reserves size bytes from the smallest free range able to hold
// it, returning the offset of the reserved span. Any leftover space in
// the chosen range is reinserted as a smaller free range.
func (a *Allocator) Claim(size uint64) (offset uint64, ok bool) {
	i := a.bestFitIndex(size)
	if i < 0 {
		return 0, false
	}
	r := a.free[i]
	a.free = append(a.free[:i], a.free[i+1:]...)
	if remainder := r.Size - size; remainder > 0 {
		a.insert(Range{Offset: r.Offset + size, Size: remainder})
	}
	return r.Offset, true
}

// Relinquish returns [offset, offset+size) to the free list, coalescing
// with an adjacent free range on either side if one exists.
func (a *Allocator) Relinquish(offset, size uint64) {
	r := Range{Offset: offset, Size: size}
	for {
		merged := false
		for i, f := range a.free {
			switch {
			case f.end() == r.Offset:
				r = Range{Offset: f.Offset, Size: f.Size + r.Size}
			case r.end() == f.Offset:
				r = Range{Offset: r.Offset, Size: r.Size + f.Size}
			default:
				continue
			}
			a.free = append(a.free[:i], a.free[i+1:]...)
			merged = true
			break
		}
		if !merged {
			break
		}
	}
	a.insert(r)
}

// insert places r into the free list, keeping it sorted ascending by
// Size so bestFitIndex can binary-search it.
func (a *Allocator) insert(r Range) {
	i := sort.Search(len(a.free), func(i int) bool { return a.free[i].Size >= r.Size })
	a.free = append(a.free, Range{})
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = r
}
