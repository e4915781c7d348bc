package richtext

import (
	"html"
	"strconv"
	"strings"
)

// ListMode selects the marker Renumber assigns.
type ListMode int

const (
	ModeBullet ListMode = iota
	ModeNumbered
)

// String returns the mode name.
func (m ListMode) String() string {
	if m == ModeNumbered {
		return "numbered"
	}
	return "bullet"
}

// NumberStack holds one counter per open indentation level. Entry d is the
// last value assigned at depth d.
type NumberStack []int

// NewNumberStack returns a stack seeded with a single zero counter.
func NewNumberStack() NumberStack {
	return NumberStack{0}
}

// Advance increments the counter at level, growing the stack as needed, and
// zeroes every deeper level. It returns the new counter value.
func (s *NumberStack) Advance(level int) int {
	if level < 0 {
		level = 0
	}
	for len(*s) <= level {
		*s = append(*s, 0)
	}
	(*s)[level]++
	for i := level + 1; i < len(*s); i++ {
		(*s)[i] = 0
	}
	return (*s)[level]
}

// Renumber converts lines into a single consistent list in the given mode.
// Nesting comes from leading whitespace (IndentWidth spaces per level);
// numbering restarts for each nested run. Lines without visible payload are
// returned unchanged and do not consume a number.
func Renumber(lines []string, mode ListMode) []string {
	stack := NewNumberStack()
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		c := Classify(line)
		if c.Empty() {
			out = append(out, line)
			continue
		}
		level := indentDepth(c.Indent, IndentWidth)
		n := stack.Advance(level)
		if mode == ModeNumbered {
			out = append(out, c.Render(strconv.Itoa(n)+"."))
		} else {
			out = append(out, c.Render(string(BulletGlyph)))
		}
	}
	return out
}

// ListMarkup escapes each line and joins them with line-break markup, ready
// for Host.InsertMarkup.
func ListMarkup(lines []string) string {
	escaped := make([]string, len(lines))
	for i, line := range lines {
		escaped[i] = html.EscapeString(line)
	}
	return strings.Join(escaped, "<br>")
}
