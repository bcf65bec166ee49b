package engine

import "sort"

// bucketWidth constrains the integer types used to compactly represent a
// free block's offset and size within a single bucket. A record is placed
// in the narrowest bucket whose width can represent both fields.
type bucketWidth interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// record is a free block entry: an offset into the managed region and the
// block's size, both representable in T.
type record[T bucketWidth] struct {
	offset T
	size   T
}

// bucket holds records sorted ascending by size, enabling a first-fit scan
// to return the smallest block matching a predicate.
type bucket[T bucketWidth] struct {
	records []record[T]
}

func (b *bucket[T]) insert(offset, size T) {
	i := sort.Search(len(b.records), func(i int) bool { return b.records[i].size >= size })
	b.records = append(b.records, record[T]{})
	copy(b.records[i+1:], b.records[i:])
	b.records[i] = record[T]{offset: offset, size: size}
}

// findFirst returns the first record, in ascending size order, for which
// match reports true, removing it from the bucket.
func (b *bucket[T]) findFirst(match func(offset, size uint64) bool) (offset, size uint64, ok bool) {
	for i, r := range b.records {
		if match(uint64(r.offset), uint64(r.size)) {
			offset, size = uint64(r.offset), uint64(r.size)
			b.records = append(b.records[:i], b.records[i+1:]...)
			return offset, size, true
		}
	}
	return 0, 0, false
}

func (b *bucket[T]) removeExact(offset, size uint64) bool {
	_, _, ok := b.findFirst(func(o, s uint64) bool { return o == offset && s == size })
	return ok
}

func (b *bucket[T]) totalSize() uint64 {
	var total uint64
	for _, r := range b.records {
		total += uint64(r.size)
	}
	return total
}

func (b *bucket[T]) count() int { return len(b.records) }

// BucketSet is the four bit-width-bucketed free lists (8/16/32/64-bit) that
// back the buddy allocator's bookkeeping. A record lands in the narrowest
// bucket that can represent both its offset and its size.
type BucketSet struct {
	b8  bucket[uint8]
	b16 bucket[uint16]
	b32 bucket[uint32]
	b64 bucket[uint64]
}

// widthFor returns the bit width of the narrowest bucket able to represent
// both offset and size.
func widthFor(offset, size uint64) int {
	w := BitsNeededFor(offset)
	if ws := BitsNeededFor(size); ws > w {
		w = ws
	}
	switch {
	case w <= 8:
		return 8
	case w <= 16:
		return 16
	case w <= 32:
		return 32
	default:
		return 64
	}
}

// Insert places a free block into its narrowest-fitting bucket.
func (s *BucketSet) Insert(offset, size uint64) {
	switch widthFor(offset, size) {
	case 8:
		s.b8.insert(uint8(offset), uint8(size))
	case 16:
		s.b16.insert(uint16(offset), uint16(size))
	case 32:
		s.b32.insert(uint32(offset), uint32(size))
	default:
		s.b64.insert(offset, size)
	}
}

// FindFirst scans the buckets narrowest-first, and within each bucket in
// ascending size order, returning the first free block for which match
// reports true. The matching block is removed.
func (s *BucketSet) FindFirst(match func(offset, size uint64) bool) (offset, size uint64, ok bool) {
	if offset, size, ok = s.b8.findFirst(match); ok {
		return
	}
	if offset, size, ok = s.b16.findFirst(match); ok {
		return
	}
	if offset, size, ok = s.b32.findFirst(match); ok {
		return
	}
	return s.b64.findFirst(match)
}

// RemoveExact removes the record matching offset and size exactly. Because
// Insert always places a record in the single bucket determined by
// widthFor, only that bucket needs checking.
func (s *BucketSet) RemoveExact(offset, size uint64) bool {
	switch widthFor(offset, size) {
	case 8:
		return s.b8.removeExact(offset, size)
	case 16:
		return s.b16.removeExact(offset, size)
	case 32:
		return s.b32.removeExact(offset, size)
	default:
		return s.b64.removeExact(offset, size)
	}
}

// TotalFree returns the sum of every free block's size across all buckets.
func (s *BucketSet) TotalFree() uint64 {
	return s.b8.totalSize() + s.b16.totalSize() + s.b32.totalSize() + s.b64.totalSize()
}

// Count returns the number of free blocks tracked across all buckets.
func (s *BucketSet) Count() int {
	return s.b8.count() + s.b16.count() + s.b32.count() + s.b64.count()
}
