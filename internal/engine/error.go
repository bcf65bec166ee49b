package engine

import "errors"

// ErrOutOfMemory indicates the region has no free block large enough to
// satisfy a request, after alignment padding is accounted for.
var ErrOutOfMemory = errors.New("engine: out of memory")

// ErrInvalidArgument indicates a malformed request: a non-power-of-two
// alignment, or a region smaller than the minimum block size.
var ErrInvalidArgument = errors.New("engine: invalid argument")
