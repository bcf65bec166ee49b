package buddy

import (
	"testing"
	"unsafe"
)

func TestElementAllocatorRoundTrip(t *testing.T) {
	region := make([]byte, 4096)
	base := unsafe.Pointer(&region[0])
	a, err := New(0, uint64(len(region)), 64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ea := NewElementAllocator[uint32](a, base)

	elems, offset, err := ea.Allocate(10)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(elems) != 10 {
		t.Fatalf("len(elems) = %d, want 10", len(elems))
	}
	for i := range elems {
		elems[i] = uint32(i * i)
	}
	for i, v := range elems {
		if v != uint32(i*i) {
			t.Errorf("elems[%d] = %d, want %d", i, v, i*i)
		}
	}

	ea.Deallocate(offset, 10)
	if a.AvailableSize() != a.TotalSize() {
		t.Errorf("AvailableSize() = %d, want %d", a.AvailableSize(), a.TotalSize())
	}
}

func TestElementAllocatorEqual(t *testing.T) {
	region := make([]byte, 4096)
	base := unsafe.Pointer(&region[0])
	a1, _ := New(0, uint64(len(region)), 64)
	a2, _ := New(0, uint64(len(region)), 64)

	ea1 := NewElementAllocator[uint32](a1, base)
	ea1Again := NewElementAllocator[uint32](a1, base)
	ea2 := NewElementAllocator[uint32](a2, base)

	if !ea1.Equal(ea1Again) {
		t.Error("expected allocators over the same Allocator to compare equal")
	}
	if ea1.Equal(ea2) {
		t.Error("expected allocators over different Allocators to compare unequal")
	}
}
