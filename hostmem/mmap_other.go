//go:build !unix

package hostmem

import (
	"errors"
	"unsafe"
)

// ErrUnsupported is returned by NewMappedRegion on platforms without an
// anonymous-mmap equivalent wired up.
var ErrUnsupported = errors.New("hostmem: memory-mapped regions are not supported on this platform")

// MappedRegion is the non-unix stub; NewMappedRegion always fails.
type MappedRegion struct{}

// NewMappedRegion always returns ErrUnsupported on this platform.
func NewMappedRegion(size int) (*MappedRegion, error) {
	return nil, ErrUnsupported
}

func (r *MappedRegion) Bytes() []byte               { return nil }
func (r *MappedRegion) BaseAddress() unsafe.Pointer { return nil }
func (r *MappedRegion) Len() int                    { return 0 }
func (r *MappedRegion) Close() error                { return nil }
