//go:build unix

package hostmem

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MappedRegion is an anonymous, memory-mapped byte range usable as a
// buddy allocator's backing region — the "memory-mapped region"
// substrate a fixed-region allocator is meant to be agnostic to.
type MappedRegion struct {
	data []byte
}

// NewMappedRegion maps an anonymous, private region of size bytes. The
// caller must call Close when done to release the mapping.
func NewMappedRegion(size int) (*MappedRegion, error) {
	if size <= 0 {
		return nil, fmt.Errorf("hostmem: size must be positive, got %d", size)
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("hostmem: mmap: %w", err)
	}
	return &MappedRegion{data: data}, nil
}

// Bytes returns the mapped byte slice.
func (r *MappedRegion) Bytes() []byte { return r.data }

// BaseAddress returns an unsafe.Pointer to the first byte of the
// mapping.
func (r *MappedRegion) BaseAddress() unsafe.Pointer {
	if len(r.data) == 0 {
		return nil
	}
	return unsafe.Pointer(&r.data[0])
}

// Len returns the size of the mapping in bytes.
func (r *MappedRegion) Len() int { return len(r.data) }

// Close unmaps the region. The MappedRegion must not be used afterward.
func (r *MappedRegion) Close() error {
	if r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	return err
}
