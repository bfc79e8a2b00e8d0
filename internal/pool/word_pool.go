package pool

import "sync"

// Word slice pools used as scratch space by transforms that must not mutate
// caller input.
var (
	int32SlicePool = sync.Pool{
		New: func() any { return &[]int32{} },
	}
	int64SlicePool = sync.Pool{
		New: func() any { return &[]int64{} },
	}
)

// GetInt32Slice retrieves and resizes an int32 slice from the pool.
//
// The returned slice has length size; its contents are unspecified.
// The caller must call the returned cleanup function to return the slice to the pool.
//
// Example:
//
//	scratch, cleanup := pool.GetInt32Slice(128)
//	defer cleanup()
func GetInt32Slice(size int) ([]int32, func()) {
	ptr, _ := int32SlicePool.Get().(*[]int32)
	slice := *ptr
	if cap(slice) < size {
		slice = make([]int32, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { int32SlicePool.Put(ptr) }
}

// GetInt64Slice retrieves and resizes an int64 slice from the pool.
//
// The returned slice has length size; its contents are unspecified.
// The caller must call the returned cleanup function to return the slice to the pool.
func GetInt64Slice(size int) ([]int64, func()) {
	ptr, _ := int64SlicePool.Get().(*[]int64)
	slice := *ptr
	if cap(slice) < size {
		slice = make([]int64, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { int64SlicePool.Put(ptr) }
}

// GetWords retrieves a pooled slice for the word type T, dispatching to the
// int32 or int64 pool. Named types with other underlying types fall back to a
// plain allocation.
func GetWords[T ~int32 | ~int64](size int) ([]T, func()) {
	var zero T
	switch any(zero).(type) {
	case int32:
		s, cleanup := GetInt32Slice(size)
		return any(s).([]T), cleanup
	case int64:
		s, cleanup := GetInt64Slice(size)
		return any(s).([]T), cleanup
	default:
		return make([]T, size), func() {}
	}
}
