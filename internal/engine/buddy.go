package engine

import "sort"

// rootRegion is one of the independent power-of-two sub-regions produced
// by partition. Buddy merging never crosses a root boundary: two
// differently sized roots are never buddies of each other, even when
// they happen to sit next to each other in address space.
type rootRegion struct {
	offset uint64
	size   uint64
}

// Buddy manages a fixed-size region as a set of power-of-two blocks,
// splitting and merging blocks on allocation and deallocation. It never
// owns or moves the underlying bytes — offsets are relative to a base
// address supplied at construction, used only for alignment arithmetic.
type Buddy struct {
	base         uint64
	totalSize    uint64
	minBlockSize uint64
	free         BucketSet
	roots        []rootRegion // sorted ascending by offset
}

// New constructs a Buddy managing [base, base+regionSize). minBlockSize is
// the smallest unit the allocator will ever hand out or track; it must be a
// power of two. If regionSize is not itself a power of two, the region is
// peeled into independent power-of-two sub-regions (the largest power of
// two not exceeding the remaining span, repeated until what remains is
// smaller than minBlockSize); any final remainder below minBlockSize is
// unusable and excluded from TotalSize.
func New(base, regionSize, minBlockSize uint64) (*Buddy, error) {
	if minBlockSize == 0 || !IsPowerOfTwo(minBlockSize) {
		return nil, ErrInvalidArgument
	}
	if regionSize < minBlockSize {
		return nil, ErrInvalidArgument
	}
	bd := &Buddy{base: base, minBlockSize: minBlockSize}
	bd.partition(regionSize)
	return bd, nil
}

// partition peels regionSize into power-of-two blocks and assigns them
// addresses smallest-first, mirroring the two-pass address assignment of
// the original implementation this allocator is ported from: blocks are
// discovered largest-first (the largest power of two not exceeding what
// remains, repeated), then addresses are handed out in ascending size
// order starting at offset 0. This keeps small blocks at low offsets, so
// in a mixed-width region they land in the narrowest bit-width bucket
// instead of being pushed into the widest one.
func (bd *Buddy) partition(regionSize uint64) {
	var sizes []uint64
	remaining := regionSize
	for remaining >= bd.minBlockSize {
		blockSize := Lower2(remaining)
		sizes = append(sizes, blockSize)
		remaining -= blockSize
	}
	var offset uint64
	for i := len(sizes) - 1; i >= 0; i-- {
		blockSize := sizes[i]
		bd.free.Insert(offset, blockSize)
		bd.roots = append(bd.roots, rootRegion{offset: offset, size: blockSize})
		bd.totalSize += blockSize
		offset += blockSize
	}
}

// rootFor returns the root region containing offset.
func (bd *Buddy) rootFor(offset uint64) rootRegion {
	i := sort.Search(len(bd.roots), func(i int) bool { return bd.roots[i].offset > offset }) - 1
	return bd.roots[i]
}

// MinRegionFor returns the smallest region size that could ever satisfy a
// single allocation of size bytes at the given alignment, starting from
// base, given blocks no smaller than minBlockSize.
func MinRegionFor(base, alignment, size, minBlockSize uint64) uint64 {
	if alignment == 0 {
		alignment = 1
	}
	need := Upper2(AlignedSize(base, alignment, size))
	if need < minBlockSize {
		need = minBlockSize
	}
	return need
}

// TotalSize returns the sum of every block peeled during construction,
// i.e. the usable span after any sub-minBlockSize remainder is clipped.
func (bd *Buddy) TotalSize() uint64 { return bd.totalSize }

// AvailableSize returns the sum of every currently free block.
func (bd *Buddy) AvailableSize() uint64 { return bd.free.TotalFree() }

// alignDelta is the constant padding every allocation in this region pays
// to align its absolute address, assuming alignment never exceeds
// minBlockSize (the ordinary case: every block offset is then a multiple
// of minBlockSize regardless of which root it falls in, so only the
// base's own residue mod alignment matters).
func (bd *Buddy) alignDelta(alignment uint64) uint64 {
	return Align(bd.base, alignment) - bd.base
}

// Allocate reserves a block able to hold size bytes at the given
// alignment (an alignment of 0 is treated as 1) and returns the aligned
// offset, relative to base, at which the caller may write. It returns
// ErrOutOfMemory if no free block is large enough once alignment padding
// is accounted for, and ErrInvalidArgument if alignment is not a power of
// two.
func (bd *Buddy) Allocate(size, alignment uint64) (uint64, error) {
	if alignment == 0 {
		alignment = 1
	}
	if !IsPowerOfTwo(alignment) {
		return 0, ErrInvalidArgument
	}
	need := func(blockOffset uint64) uint64 {
		return AlignedSize(bd.base+blockOffset, alignment, size)
	}
	blockOffset, blockSize, ok := bd.free.FindFirst(func(offset, size uint64) bool {
		return size >= need(offset)
	})
	if !ok {
		return 0, ErrOutOfMemory
	}
	offset, _ := bd.splitDown(blockOffset, blockSize, need)
	return Align(bd.base+offset, alignment) - bd.base, nil
}

// splitDown repeatedly halves a free block, always keeping the lower half
// (whose offset never changes) and reinserting the upper half (its buddy)
// as free, until halving again would either violate minBlockSize or no
// longer fit the requested, alignment-padded size.
func (bd *Buddy) splitDown(offset, size uint64, need func(offset uint64) uint64) (uint64, uint64) {
	for {
		half := size / 2
		if half < bd.minBlockSize || half < need(offset) {
			return offset, size
		}
		buddyOffset := offset + half
		bd.free.Insert(buddyOffset, half)
		size = half
	}
}

// Deallocate returns a previously allocated block to the free list,
// merging with its buddy as long as the buddy is itself free. offset and
// size must be exactly the values used to allocate the block; alignment
// must match the alignment passed to Allocate. Deallocate has no way to
// detect a mismatched or already-freed block — per contract, that is a
// caller precondition, not a recoverable error.
func (bd *Buddy) Deallocate(offset, size, alignment uint64) {
	if alignment == 0 {
		alignment = 1
	}
	delta := bd.alignDelta(alignment)
	blockOffset := offset - delta
	blockSize := Upper2(size + delta)
	if blockSize < bd.minBlockSize {
		blockSize = bd.minBlockSize
	}
	bd.mergeBuddies(blockOffset, blockSize)
}

// mergeBuddies repeatedly looks up the buddy of (offset, size) within its
// root region via the local-offset-XOR-size rule, coalescing while the
// buddy is itself free, then reinserts the resulting block. Merging never
// grows past the bounds of the root region the block was peeled from:
// root regions of different sizes are never buddies of one another, even
// when adjacent in address space.
func (bd *Buddy) mergeBuddies(offset, size uint64) {
	root := bd.rootFor(offset)
	for size < root.size {
		local := offset - root.offset
		buddyOffset := root.offset + (local ^ size)
		if !bd.free.RemoveExact(buddyOffset, size) {
			break
		}
		if buddyOffset < offset {
			offset = buddyOffset
		}
		size *= 2
	}
	bd.free.Insert(offset, size)
}
