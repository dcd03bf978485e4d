// Package report renders allocator statistics and free-list layouts as
// human-readable text. Numbers are grouped per locale through
// golang.org/x/text/message, so 1048576 prints as "1,048,576" in English.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/freelist/alloc"
)

// maxListedBlocks caps the free-list listing in WriteFreeList.
const maxListedBlocks = 32

// Snapshot is a point-in-time view of one allocator, suitable for text or
// JSON output.
type Snapshot struct {
	Policy        string              `json:"policy"`
	ArenaSize     int                 `json:"arena_size"`
	Used          int                 `json:"used"`
	Stats         alloc.Stats         `json:"stats"`
	Fragmentation alloc.Fragmentation `json:"fragmentation"`
	FreeBlocks    []alloc.Block       `json:"free_blocks,omitempty"`
}

// Capture snapshots fa. Free blocks are included only when withBlocks is set.
func Capture(fa *alloc.FreeListAllocator, withBlocks bool) Snapshot {
	s := Snapshot{
		Policy:        fa.Policy().String(),
		ArenaSize:     fa.Size(),
		Used:          fa.Used(),
		Stats:         fa.Stats(),
		Fragmentation: fa.Fragmentation(),
	}
	if withBlocks {
		s.FreeBlocks = slices.Collect(fa.FreeBlocks())
	}
	return s
}

// Printer formats snapshots for one locale.
type Printer struct {
	p *message.Printer
}

// New returns a Printer for tag. Use language.English for the default
// grouping.
func New(tag language.Tag) *Printer {
	return &Printer{p: message.NewPrinter(tag)}
}

// Number formats n with locale digit grouping.
func (pr *Printer) Number(n int64) string {
	return pr.p.Sprintf("%d", n)
}

// Bytes formats n as a binary-prefixed size ("1.5 KiB") followed by the
// exact grouped count.
func (pr *Printer) Bytes(n int64) string {
	const unit = 1024
	if n < unit {
		return pr.p.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return pr.p.Sprintf("%.1f %ciB (%d bytes)", float64(n)/float64(div), rune("KMGTPE"[exp]), n)
}

// WriteSummary writes the usage, counters and fragmentation of s.
func (pr *Printer) WriteSummary(w io.Writer, s Snapshot) error {
	var b strings.Builder
	usedPct := 0.0
	if s.ArenaSize > 0 {
		usedPct = 100 * float64(s.Used) / float64(s.ArenaSize)
	}

	fmt.Fprintf(&b, "Allocator (%s)\n", s.Policy)
	fmt.Fprintf(&b, "%s\n", strings.Repeat("=", 40))
	fmt.Fprintf(&b, "  Arena: %s\n", pr.Bytes(int64(s.ArenaSize)))
	fmt.Fprintf(&b, "  Used:  %s, %.1f%%\n\n", pr.Bytes(int64(s.Used)), usedPct)

	st := s.Stats
	fmt.Fprintf(&b, "Operations:\n")
	fmt.Fprintf(&b, "  Allocations: %s (%s failed)\n", pr.Number(int64(st.AllocCalls)), pr.Number(int64(st.FailedAllocs)))
	fmt.Fprintf(&b, "  Frees:       %s\n", pr.Number(int64(st.FreeCalls)))
	fmt.Fprintf(&b, "  Resets:      %s\n", pr.Number(int64(st.ResetCalls)))
	fmt.Fprintf(&b, "  Live:        %s\n", pr.Number(int64(st.LiveAllocations)))
	fmt.Fprintf(&b, "  Splits:      %s (whole blocks %s)\n", pr.Number(int64(st.Splits)), pr.Number(int64(st.WholeBlocks)))
	fmt.Fprintf(&b, "  Coalesces:   %s backward, %s forward\n",
		pr.Number(int64(st.CoalesceBackward)), pr.Number(int64(st.CoalesceForward)))
	fmt.Fprintf(&b, "  Scan steps:  %s\n\n", pr.Number(int64(st.ScanSteps)))

	f := s.Fragmentation
	fmt.Fprintf(&b, "Free space:\n")
	fmt.Fprintf(&b, "  Blocks:        %s\n", pr.Number(int64(f.FreeBlocks)))
	fmt.Fprintf(&b, "  Bytes:         %s\n", pr.Bytes(int64(f.FreeBytes)))
	fmt.Fprintf(&b, "  Largest block: %s\n", pr.Bytes(int64(f.LargestFree)))
	fmt.Fprintf(&b, "  Fragmentation: %.1f%%\n", 100*f.Ratio)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFreeList writes one line per free block, in address order. Long
// lists are truncated with a trailing count.
func (pr *Printer) WriteFreeList(w io.Writer, blocks []alloc.Block) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Free list (%s blocks):\n", pr.Number(int64(len(blocks))))
	for i, blk := range blocks {
		if i == maxListedBlocks {
			fmt.Fprintf(&b, "  ... (%s more)\n", pr.Number(int64(len(blocks)-maxListedBlocks)))
			break
		}
		fmt.Fprintf(&b, "  %12s  %12s bytes\n", pr.Number(int64(blk.Offset)), pr.Number(int64(blk.Size)))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteComparison writes snapshots side by side, one column per policy.
func (pr *Printer) WriteComparison(w io.Writer, snaps []Snapshot) error {
	var b strings.Builder
	row := func(label string, value func(Snapshot) string) {
		fmt.Fprintf(&b, "%-16s", label)
		for _, s := range snaps {
			fmt.Fprintf(&b, "%18s", value(s))
		}
		b.WriteByte('\n')
	}

	row("", func(s Snapshot) string { return s.Policy })
	row("used bytes", func(s Snapshot) string { return pr.Number(int64(s.Used)) })
	row("failed allocs", func(s Snapshot) string { return pr.Number(int64(s.Stats.FailedAllocs)) })
	row("free blocks", func(s Snapshot) string { return pr.Number(int64(s.Fragmentation.FreeBlocks)) })
	row("largest free", func(s Snapshot) string { return pr.Number(int64(s.Fragmentation.LargestFree)) })
	row("fragmentation", func(s Snapshot) string { return fmt.Sprintf("%.1f%%", 100*s.Fragmentation.Ratio) })
	row("scan steps", func(s Snapshot) string { return pr.Number(int64(s.Stats.ScanSteps)) })

	_, err := io.WriteString(w, b.String())
	return err
}
