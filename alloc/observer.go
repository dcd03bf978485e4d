package alloc

import (
	"context"
	"log/slog"
	"os"
)

// Runtime allocation logging - controlled by the FREELIST_LOG_ALLOC env var.
// Only consulted when a Config carries no Observer of its own.
var logAlloc = os.Getenv("FREELIST_LOG_ALLOC") != ""

// Op identifies the mutation an Event describes.
type Op uint8

const (
	OpAllocate Op = iota + 1
	OpAllocateFailed
	OpFree
	OpReset
)

func (o Op) String() string {
	switch o {
	case OpAllocate:
		return "allocate"
	case OpAllocateFailed:
		return "allocate-failed"
	case OpFree:
		return "free"
	case OpReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event describes one allocator operation after it completed.
type Event struct {
	Op        Op
	Ptr       Ptr   // Payload pointer (allocate, free)
	Block     Block // Block taken from or returned to the free list
	Size      int   // Requested payload size (allocate)
	Alignment int   // Requested alignment (allocate)
	Split     bool  // Allocation split its block
	Backward  bool  // Free merged with the preceding free block
	Forward   bool  // Free merged with the following free block
	Used      int   // Arena bytes in use afterwards
	FreeCount int   // Free blocks afterwards
	Err       error // Failure cause (allocate-failed)
}

// Observer receives events after each mutation. Observers must not call
// back into the allocator; they have no effect on its state.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

// LogObserver returns an Observer that writes each event to logger.
// Successful operations log at debug level, failures at warn level.
func LogObserver(logger *slog.Logger) Observer {
	return ObserverFunc(func(e Event) {
		level := slog.LevelDebug
		attrs := []slog.Attr{
			slog.String("op", e.Op.String()),
			slog.Int("used", e.Used),
			slog.Int("free_blocks", e.FreeCount),
		}
		switch e.Op {
		case OpAllocate:
			attrs = append(attrs,
				slog.Int("ptr", int(e.Ptr)),
				slog.Int("size", e.Size),
				slog.Int("align", e.Alignment),
				slog.String("block", e.Block.String()),
				slog.Bool("split", e.Split),
			)
		case OpAllocateFailed:
			level = slog.LevelWarn
			attrs = append(attrs,
				slog.Int("size", e.Size),
				slog.Int("align", e.Alignment),
				slog.Any("err", e.Err),
			)
		case OpFree:
			attrs = append(attrs,
				slog.Int("ptr", int(e.Ptr)),
				slog.String("block", e.Block.String()),
				slog.Bool("coalesce_backward", e.Backward),
				slog.Bool("coalesce_forward", e.Forward),
			)
		}
		logger.LogAttrs(context.Background(), level, "alloc", attrs...)
	})
}

// defaultLogObserver logs every event to stderr.
func defaultLogObserver() Observer {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return LogObserver(slog.New(handler))
}
