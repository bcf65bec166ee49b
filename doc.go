// Package buddy manages a fixed, caller-supplied range of addresses
// [base, base+size) as a set of power-of-two blocks, answering
// allocation and deallocation requests with aligned offsets into that
// range. It never acquires memory itself: base may be an offset into host
// RAM, a device memory arena, a memory-mapped region, or a purely virtual
// bookkeeping space with no backing bytes at all. See the hostmem package
// for helpers that produce a real address range to hand it.
//
// # Quick Start
//
//	a, err := buddy.New(0, 1<<20, 64) // manage a 1 MiB region in 64-byte blocks
//	if err != nil {
//	    log.Fatal(err)
//	}
//	off, err := a.Allocate(200, 16) // 200 bytes, 16-byte aligned
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a.Deallocate(off, 200, 16)
//
// # Allocation Lifetime
//
// Deallocate requires the exact size and alignment passed to the
// matching Allocate call; it has no way to validate that contract, so a
// mismatched or repeated Deallocate call is a caller precondition
// violation, not a recoverable error — see Allocator.Deallocate.
//
// # Thread Safety
//
// An Allocator is not safe for concurrent use. Callers needing concurrent
// access must serialize calls themselves.
package buddy
