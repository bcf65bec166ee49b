package buddy

import "github.com/calibandmem/buddy/internal/engine"

// DefaultAlignment is used by AllocateDefault and DeallocateDefault when
// a caller has no particular alignment requirement.
const DefaultAlignment = 8

// noCopy marks a type as move-only. Go has no compiler-enforced move
// semantics; embedding noCopy gives `go vet -copylocks` something to
// flag if an Allocator is ever copied by value after its first use.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Allocator is a buddy allocator over a fixed region [base, base+size).
// It holds no reference to the region's actual bytes — it only tracks
// which offsets are free. The zero value is not usable; construct with
// New.
type Allocator struct {
	_    noCopy
	core *engine.Buddy
}

// New constructs an Allocator managing [base, base+regionSize) in blocks
// no smaller than minBlockSize, which must be a power of two. If
// regionSize is not itself a power of two, the region is split into
// independent power-of-two sub-regions, laid out smallest first from
// offset 0; any remainder smaller than minBlockSize is clipped and never
// handed out.
func New(base, regionSize, minBlockSize uint64) (*Allocator, error) {
	if minBlockSize == 0 || !engine.IsPowerOfTwo(minBlockSize) {
		return nil, NewValidationErrorf("New", "minBlockSize %d must be a power of two", minBlockSize)
	}
	if regionSize < minBlockSize {
		return nil, NewValidationErrorf("New", "regionSize %d is smaller than minBlockSize %d", regionSize, minBlockSize)
	}
	core, err := engine.New(base, regionSize, minBlockSize)
	if err != nil {
		return nil, err
	}
	return &Allocator{core: core}, nil
}

// Allocate reserves size bytes aligned to alignment (a power of two) and
// returns the offset, relative to base, at which the caller may operate.
// It returns ErrOutOfMemory if no free block is large enough, and
// ErrInvalidArgument if alignment is not a power of two.
func (a *Allocator) Allocate(size, alignment uint64) (uint64, error) {
	if alignment != 0 && !engine.IsPowerOfTwo(alignment) {
		return 0, NewValidationErrorf("Allocate", "alignment %d must be zero or a power of two", alignment)
	}
	return a.core.Allocate(size, alignment)
}

// AllocateDefault allocates size bytes at DefaultAlignment.
func (a *Allocator) AllocateDefault(size uint64) (uint64, error) {
	return a.Allocate(size, DefaultAlignment)
}

// AllocateOrNone is Allocate without an error return, for callers that
// treat exhaustion as an ordinary "try the next region" signal rather
// than a failure worth reporting.
func (a *Allocator) AllocateOrNone(size, alignment uint64) (offset uint64, ok bool) {
	offset, err := a.Allocate(size, alignment)
	return offset, err == nil
}

// Deallocate returns a block to the free list, coalescing with its
// buddy where possible. offset, size, and alignment must be exactly the
// values used in the matching Allocate call — Deallocate cannot verify
// this and will corrupt the free list if they are wrong.
func (a *Allocator) Deallocate(offset, size, alignment uint64) {
	a.core.Deallocate(offset, size, alignment)
}

// DeallocateDefault returns a block allocated via AllocateDefault.
func (a *Allocator) DeallocateDefault(offset, size uint64) {
	a.Deallocate(offset, size, DefaultAlignment)
}

// TotalSize returns the usable span managed by the allocator: the sum of
// every power-of-two sub-region peeled out at construction, excluding
// any remainder below minBlockSize.
func (a *Allocator) TotalSize() uint64 {
	return a.core.TotalSize()
}

// AvailableSize returns the sum of every currently free block.
func (a *Allocator) AvailableSize() uint64 {
	return a.core.AvailableSize()
}

// MinRegionFor returns the smallest region size that could ever satisfy a
// single allocation of size bytes at the given alignment, for a region
// starting at base with blocks no smaller than minBlockSize. Callers can
// use it to size a region before constructing an Allocator.
func MinRegionFor(base, alignment, size, minBlockSize uint64) uint64 {
	return engine.MinRegionFor(base, alignment, size, minBlockSize)
}
