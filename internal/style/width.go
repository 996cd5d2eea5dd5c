package style

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Width returns the number of terminal cells a string occupies. The input
// must be display text without ANSI sequences; styles are applied after
// layout, never before.
func Width(s string) int {
	if s == "" {
		return 0
	}
	total := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		total += graphemeWidth(g.Runes())
	}
	return total
}

func graphemeWidth(runes []rune) int {
	if len(runes) == 0 {
		return 0
	}
	// Emoji variation selector forces the presentation to wide.
	for _, r := range runes[1:] {
		if r == 0xFE0F {
			return 2
		}
	}
	w := runewidth.RuneWidth(runes[0])
	if w == 0 && len(runes) == 1 {
		return 0
	}
	// ZWJ sequences render as a single wide glyph.
	for _, r := range runes {
		if r == 0x200D {
			return 2
		}
	}
	return w
}

// Truncate cuts display text to at most max cells, appending tail when
// anything was removed. Grapheme boundaries are never split.
func Truncate(s string, max int, tail string) string {
	if max <= 0 {
		return ""
	}
	if Width(s) <= max {
		return s
	}
	tailWidth := Width(tail)
	if tailWidth >= max {
		return tail
	}
	budget := max - tailWidth
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := graphemeWidth(g.Runes())
		if used+w > budget {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	return b.String() + tail
}

// Pad right-pads display text with spaces to exactly w cells, truncating
// first when the text is too wide.
func Pad(s string, w int) string {
	if w <= 0 {
		return ""
	}
	current := Width(s)
	if current > w {
		s = Truncate(s, w, "…")
		current = Width(s)
	}
	if current < w {
		s += strings.Repeat(" ", w-current)
	}
	return s
}

// PadLeft left-pads display text with spaces to exactly w cells.
func PadLeft(s string, w int) string {
	current := Width(s)
	if current >= w {
		return s
	}
	return strings.Repeat(" ", w-current) + s
}
