package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// fitWidth cuts every line of s to width columns (ANSI-aware), marking cut lines with "…".
func fitWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		if xansi.StringWidth(ln) <= width {
			continue
		}
		if width == 1 {
			lines[i] = xansi.Cut(ln, 0, 1)
			continue
		}
		lines[i] = xansi.Cut(ln, 0, width-1) + "…"
	}
	return strings.Join(lines, "\n")
}

// scrollBlocks joins blocks and returns at most height lines, scrolled so the block at selected is
// fully visible when it fits.
func scrollBlocks(blocks []string, selected, height int) string {
	var lines []string
	start, end := 0, 0
	for i, b := range blocks {
		if i == selected {
			start = len(lines)
		}
		lines = append(lines, strings.Split(b, "\n")...)
		if i == selected {
			end = len(lines)
		}
	}
	if height <= 0 || len(lines) <= height {
		return strings.Join(lines, "\n")
	}
	offset := 0
	if end > height {
		offset = end - height
	}
	if start < offset {
		offset = start
	}
	if offset+height > len(lines) {
		offset = len(lines) - height
	}
	return strings.Join(lines[offset:offset+height], "\n")
}
