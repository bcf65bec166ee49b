package engine

import (
	"errors"
	"testing"
)

func TestNewSingleBlock(t *testing.T) {
	bd, err := New(0, 1024, 64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if bd.TotalSize() != 1024 {
		t.Errorf("TotalSize() = %d, want 1024", bd.TotalSize())
	}
	if bd.AvailableSize() != 1024 {
		t.Errorf("AvailableSize() = %d, want 1024", bd.AvailableSize())
	}
	if bd.free.Count() != 1 {
		t.Errorf("expected exactly one free block, got %d", bd.free.Count())
	}
}

func TestNewMixedWidthPartitionWithClipping(t *testing.T) {
	// 3100 = 2048 + 1024 + 28 (28 < minBlockSize, clipped away).
	bd, err := New(0, 3100, 64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if bd.TotalSize() != 3072 {
		t.Errorf("TotalSize() = %d, want 3072", bd.TotalSize())
	}
	if bd.free.Count() != 2 {
		t.Errorf("expected two peeled sub-regions, got %d", bd.free.Count())
	}
}

func TestNewPartitionAssignsSmallestBlockToLowestOffset(t *testing.T) {
	const (
		KiB = 1 << 10
		MiB = 1 << 20
		GiB = 1 << 30
	)
	regionSize := uint64(2*GiB + 512*MiB + 10*KiB)
	bd, err := New(0, regionSize, 8*KiB)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if bd.TotalSize() != uint64(2*GiB+512*MiB+8*KiB) {
		t.Fatalf("TotalSize() = %d, want %d", bd.TotalSize(), uint64(2*GiB+512*MiB+8*KiB))
	}

	wantRoots := []rootRegion{
		{offset: 0, size: 8 * KiB},
		{offset: 8 * KiB, size: 512 * MiB},
		{offset: 512*MiB + 8*KiB, size: 2 * GiB},
	}
	if len(bd.roots) != len(wantRoots) {
		t.Fatalf("got %d roots, want %d", len(bd.roots), len(wantRoots))
	}
	for i, want := range wantRoots {
		if bd.roots[i] != want {
			t.Errorf("roots[%d] = %+v, want %+v", i, bd.roots[i], want)
		}
	}

	// The 8KiB block's offset (0) and size (8192) both fit in 16 bits but
	// not 8, so it belongs in the 16-bit bucket; the two larger blocks
	// need 32 bits.
	if bd.free.b16.count() != 1 {
		t.Errorf("b16 bucket count = %d, want 1 (the 8KiB block)", bd.free.b16.count())
	}
	if bd.free.b32.count() != 2 {
		t.Errorf("b32 bucket count = %d, want 2 (the 512MiB and 2GiB blocks)", bd.free.b32.count())
	}
	if bd.free.b8.count() != 0 || bd.free.b64.count() != 0 {
		t.Errorf("expected no records in the 8-bit or 64-bit buckets, got b8=%d b64=%d",
			bd.free.b8.count(), bd.free.b64.count())
	}
}

func TestMergeBuddiesDoesNotCrossRootBoundary(t *testing.T) {
	// Two adjacent roots of different sizes: a 64-byte root at offset 0
	// and a 128-byte root at offset 64. Freeing the small root must never
	// attempt to merge with the unrelated larger neighbor.
	bd, err := New(0, 64+128, 64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(bd.roots) != 2 {
		t.Fatalf("expected two roots, got %d", len(bd.roots))
	}
	off, err := bd.Allocate(64, 1)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if off != 0 {
		t.Fatalf("offset = %d, want 0 (the smaller root)", off)
	}
	bd.Deallocate(off, 64, 1)
	if bd.free.Count() != 2 {
		t.Errorf("expected the two roots to remain distinct free blocks, got %d", bd.free.Count())
	}
}

func TestNewRejectsNonPowerOfTwoMinBlockSize(t *testing.T) {
	if _, err := New(0, 1024, 48); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("New with minBlockSize=48: got %v, want ErrInvalidArgument", err)
	}
}

func TestNewRejectsRegionSmallerThanMinBlockSize(t *testing.T) {
	if _, err := New(0, 32, 64); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("New with regionSize<minBlockSize: got %v, want ErrInvalidArgument", err)
	}
}

func TestAllocateSplitDeallocateMergeRoundTrip(t *testing.T) {
	bd, err := New(0, 1024, 32)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	offset, err := bd.Allocate(100, 8)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if offset%8 != 0 {
		t.Errorf("offset %d not aligned to 8", offset)
	}
	if bd.AvailableSize() != 1024-128 {
		t.Errorf("AvailableSize() = %d, want %d", bd.AvailableSize(), 1024-128)
	}
	bd.Deallocate(offset, 100, 8)
	if bd.AvailableSize() != 1024 {
		t.Errorf("AvailableSize() after deallocate = %d, want 1024 (full merge)", bd.AvailableSize())
	}
	if bd.free.Count() != 1 {
		t.Errorf("expected single merged free block, got %d", bd.free.Count())
	}
}

func TestAllocateBaseCarriesAlignmentDebt(t *testing.T) {
	const base = 3
	bd, err := New(base, 1024, 64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	offset, err := bd.Allocate(10, 8)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if (base+offset)%8 != 0 {
		t.Errorf("absolute address %d not aligned to 8", base+offset)
	}
	bd.Deallocate(offset, 10, 8)
	if bd.AvailableSize() != bd.TotalSize() {
		t.Errorf("AvailableSize() = %d, want %d after full round trip", bd.AvailableSize(), bd.TotalSize())
	}
}

func TestAllocateNonPowerOfTwoSize(t *testing.T) {
	bd, err := New(0, 1024, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	offset, err := bd.Allocate(100, 4)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	bd.Deallocate(offset, 100, 4)
	if bd.AvailableSize() != bd.TotalSize() {
		t.Errorf("AvailableSize() = %d, want %d", bd.AvailableSize(), bd.TotalSize())
	}
}

func TestAllocateOutOfMemory(t *testing.T) {
	bd, err := New(0, 128, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := bd.Allocate(1, 1); err != nil {
		t.Fatalf("first Allocate: %v", err)
	}
	if _, err := bd.Allocate(1000, 1); !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("second Allocate: got %v, want ErrOutOfMemory", err)
	}
}

func TestAllocateRejectsNonPowerOfTwoAlignment(t *testing.T) {
	bd, err := New(0, 1024, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := bd.Allocate(10, 3); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Allocate with alignment=3: got %v, want ErrInvalidArgument", err)
	}
}

func TestSplitDownKeepsLowerHalfOffset(t *testing.T) {
	bd, err := New(0, 1024, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	offset, err := bd.Allocate(10, 1)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if offset != 0 {
		t.Errorf("first small allocation offset = %d, want 0 (split always keeps the lower half)", offset)
	}
}

func TestMergeBuddiesRestoresSingleFreeBlockAfterFullCycle(t *testing.T) {
	bd, err := New(0, 256, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var offsets []uint64
	for i := 0; i < 16; i++ {
		off, err := bd.Allocate(16, 16)
		if err != nil {
			t.Fatalf("Allocate #%d: %v", i, err)
		}
		offsets = append(offsets, off)
	}
	if bd.AvailableSize() != 0 {
		t.Fatalf("AvailableSize() = %d, want 0 once fully allocated", bd.AvailableSize())
	}
	for _, off := range offsets {
		bd.Deallocate(off, 16, 16)
	}
	if bd.AvailableSize() != 256 {
		t.Errorf("AvailableSize() = %d, want 256 after freeing everything", bd.AvailableSize())
	}
	if bd.free.Count() != 1 {
		t.Errorf("expected full recursive merge back to one block, got %d free blocks", bd.free.Count())
	}
}

func TestMinRegionFor(t *testing.T) {
	got := MinRegionFor(0, 8, 100, 16)
	if got != 128 {
		t.Errorf("MinRegionFor(0,8,100,16) = %d, want 128", got)
	}
	// A tiny request still needs at least minBlockSize.
	if got := MinRegionFor(0, 1, 1, 64); got != 64 {
		t.Errorf("MinRegionFor(0,1,1,64) = %d, want 64", got)
	}
}
