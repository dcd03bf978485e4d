package alloc

// Stats holds cumulative allocator counters for testing and instrumentation.
type Stats struct {
	AllocCalls       int   // Allocate() calls, including rejected ones
	FailedAllocs     int   // Allocate() calls that returned ErrOutOfMemory
	FreeCalls        int   // Free() calls, including rejected ones
	ResetCalls       int   // Reset() calls
	LiveAllocations  int   // Allocations not yet freed (cleared by Reset)
	BytesAllocated   int64 // Total span handed out (headers and padding included)
	BytesFreed       int64 // Total span returned by Free
	Splits           int   // Allocations that split their block
	WholeBlocks      int   // Allocations that consumed their whole block
	CoalesceBackward int   // Frees merged into the preceding free block
	CoalesceForward  int   // Frees that absorbed the following free block
	ScanSteps        int   // Free-list nodes visited by searches and inserts
}

// Fragmentation summarizes the current shape of the free list.
type Fragmentation struct {
	FreeBlocks  int     // Number of free blocks
	FreeBytes   int     // Sum of free block spans
	LargestFree int     // Largest single free block
	Ratio       float64 // 1 - LargestFree/FreeBytes; 0 when nothing or one block is free
}
