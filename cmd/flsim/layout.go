package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/freelist/alloc"
)

const (
	mapWidth = 64
	mapRows  = 8
)

var (
	usedColor   = lipgloss.Color("#7D56F4")
	freeColor   = lipgloss.Color("#04B575")
	borderColor = lipgloss.Color("#383838")

	usedCellStyle = lipgloss.NewStyle().Foreground(usedColor)
	freeCellStyle = lipgloss.NewStyle().Foreground(freeColor)
	mapStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
	legendStyle = lipgloss.NewStyle().Faint(true)
)

const (
	usedCell = "█"
	freeCell = "░"
)

// cellBytes returns how many arena bytes one map cell stands for.
func cellBytes(size, width, rows int) int {
	cells := width * rows
	return max(1, (size+cells-1)/cells)
}

// occupancy returns, per cell, whether at least half of its bytes are free.
// blocks must be in address order.
func occupancy(blocks []alloc.Block, size, width, rows int) []bool {
	per := cellBytes(size, width, rows)
	n := (size + per - 1) / per
	freeBytes := make([]int, n)
	for _, b := range blocks {
		for off := b.Offset; off < b.End(); {
			cell := off / per
			end := min(b.End(), (cell+1)*per)
			freeBytes[cell] += end - off
			off = end
		}
	}
	free := make([]bool, n)
	for i, fb := range freeBytes {
		cellSize := min(per, size-i*per)
		free[i] = 2*fb >= cellSize
	}
	return free
}

// renderMap draws the arena as a grid of cells, used cells in one color and
// free cells in another.
func renderMap(blocks []alloc.Block, size, width, rows int) string {
	used, free := usedCellStyle, freeCellStyle
	if noColor {
		used, free = lipgloss.NewStyle(), lipgloss.NewStyle()
	}

	cells := occupancy(blocks, size, width, rows)
	var b strings.Builder
	for i, isFree := range cells {
		if i > 0 && i%width == 0 {
			b.WriteByte('\n')
		}
		if isFree {
			b.WriteString(free.Render(freeCell))
		} else {
			b.WriteString(used.Render(usedCell))
		}
	}

	legend := legendStyle.Render(fmt.Sprintf("%s used  %s free  (1 cell = %d bytes)",
		usedCell, freeCell, cellBytes(size, width, rows)))
	return lipgloss.JoinVertical(lipgloss.Left, mapStyle.Render(b.String()), legend)
}
