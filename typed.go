package buddy

import "unsafe"

// AllocatePointer reserves space sized and aligned for a single T within
// base (the real address the Allocator's offsets are relative to) and
// returns a typed pointer into that space alongside the raw offset
// needed to later call DeallocatePointer. An alignment that is not a
// power of two would be rejected by Allocate with an error, but that
// cannot happen for any type the Go compiler itself lays out.
func AllocatePointer[T any](a *Allocator, base unsafe.Pointer) (ptr *T, offset uint64, err error) {
	var zero T
	size := uint64(unsafe.Sizeof(zero))
	align := uint64(unsafe.Alignof(zero))
	offset, err = a.Allocate(size, align)
	if err != nil {
		return nil, 0, err
	}
	return (*T)(unsafe.Add(base, offset)), offset, nil
}

// AllocatePointerOrNone is AllocatePointer without an error return.
func AllocatePointerOrNone[T any](a *Allocator, base unsafe.Pointer) (ptr *T, offset uint64, ok bool) {
	ptr, offset, err := AllocatePointer[T](a, base)
	return ptr, offset, err == nil
}

// DeallocatePointer returns the block backing a T allocated via
// AllocatePointer. offset must be the value AllocatePointer returned.
func DeallocatePointer[T any](a *Allocator, offset uint64) {
	var zero T
	a.Deallocate(offset, uint64(unsafe.Sizeof(zero)), uint64(unsafe.Alignof(zero)))
}
