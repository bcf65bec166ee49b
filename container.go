package buddy

import "unsafe"

// ElementAllocator adapts an Allocator to a count-based, element-typed
// contract: allocate n contiguous Ts, deallocate them later by the same
// count. It plays the role an STL allocator plays for a container —
// Go has no allocator-aware standard containers to plug it into, so it
// is exposed directly rather than through a container-library seam.
type ElementAllocator[T any] struct {
	a    *Allocator
	base unsafe.Pointer
}

// NewElementAllocator builds an ElementAllocator backed by a, with base
// the real address a's offsets are relative to.
func NewElementAllocator[T any](a *Allocator, base unsafe.Pointer) *ElementAllocator[T] {
	return &ElementAllocator[T]{a: a, base: base}
}

// Allocate reserves space for n contiguous elements and returns a slice
// over that space alongside the offset needed to later call Deallocate.
func (e *ElementAllocator[T]) Allocate(n int) (elems []T, offset uint64, err error) {
	var zero T
	elemSize := uint64(unsafe.Sizeof(zero))
	align := uint64(unsafe.Alignof(zero))
	offset, err = e.a.Allocate(elemSize*uint64(n), align)
	if err != nil {
		return nil, 0, err
	}
	ptr := (*T)(unsafe.Add(e.base, offset))
	return unsafe.Slice(ptr, n), offset, nil
}

// Deallocate returns the block backing n elements allocated at offset.
func (e *ElementAllocator[T]) Deallocate(offset uint64, n int) {
	var zero T
	elemSize := uint64(unsafe.Sizeof(zero))
	align := uint64(unsafe.Alignof(zero))
	e.a.Deallocate(offset, elemSize*uint64(n), align)
}

// Equal reports whether e and other are backed by the same Allocator,
// matching the STL-allocator convention of comparing by the referenced
// allocator's identity rather than by value.
func (e *ElementAllocator[T]) Equal(other *ElementAllocator[T]) bool {
	return e.a == other.a
}
