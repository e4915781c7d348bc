package richtext

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// IndentWidth is the number of spaces that make up one indentation level
// for list lines.
const IndentWidth = 4

// probeWidth is the quantization unit of DepthProbe.
const probeWidth = 2

// BulletGlyph is the canonical bullet marker.
const BulletGlyph = '•'

// Kind classifies a single line.
type Kind int

const (
	KindPlain Kind = iota
	KindBullet
	KindNumbered
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBullet:
		return "bullet"
	case KindNumbered:
		return "numbered"
	default:
		return "plain"
	}
}

var (
	numberedLine = regexp.MustCompile(`^(\s*)(\d+)\.\s+(.*)$`)
	bulletLine   = regexp.MustCompile(`^(\s*)([•*])\s+(.*)$`)
	indentPrefix = regexp.MustCompile(`^\s*`)
)

// ClassifiedLine is a line split into indentation, list marker and payload.
type ClassifiedLine struct {
	Indent      string // leading whitespace, verbatim
	IndentDepth int    // len(Indent) / IndentWidth
	Kind        Kind
	Ordinal     int  // KindNumbered only
	Glyph       rune // KindBullet only
	Payload     string
}

// Empty reports whether the payload holds no visible text. Callers must not
// emit a list marker for an empty line.
func (c ClassifiedLine) Empty() bool {
	return strings.TrimSpace(c.Payload) == ""
}

// Classify determines whether line is a numbered item, a bullet item or
// plain text. Anything that does not parse cleanly is Plain.
func Classify(line string) ClassifiedLine {
	if m := numberedLine.FindStringSubmatch(line); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil {
			return ClassifiedLine{
				Indent:      m[1],
				IndentDepth: indentDepth(m[1], IndentWidth),
				Kind:        KindNumbered,
				Ordinal:     n,
				Payload:     m[3],
			}
		}
	}
	if m := bulletLine.FindStringSubmatch(line); m != nil {
		glyph, _ := utf8.DecodeRuneInString(m[2])
		return ClassifiedLine{
			Indent:      m[1],
			IndentDepth: indentDepth(m[1], IndentWidth),
			Kind:        KindBullet,
			Glyph:       glyph,
			Payload:     m[3],
		}
	}
	indent := indentPrefix.FindString(line)
	return ClassifiedLine{
		Indent:      indent,
		IndentDepth: indentDepth(indent, IndentWidth),
		Kind:        KindPlain,
		Payload:     line[len(indent):],
	}
}

// DepthProbe returns the nesting depth of line using a 2-space unit. It is
// only used for display (the toolbar indent indicator); list logic uses
// IndentWidth.
func DepthProbe(line string) int {
	return indentDepth(indentPrefix.FindString(line), probeWidth)
}

func indentDepth(indent string, unit int) int {
	return utf8.RuneCountInString(indent) / unit
}

// Render formats the line back to text with the given marker, keeping its
// indentation. An empty marker renders a plain line.
func (c ClassifiedLine) Render(marker string) string {
	if marker == "" {
		return c.Indent + c.Payload
	}
	return c.Indent + marker + " " + c.Payload
}

// Marker returns the line's own marker ("3." or "•"), or "" for plain lines.
func (c ClassifiedLine) Marker() string {
	switch c.Kind {
	case KindNumbered:
		return strconv.Itoa(c.Ordinal) + "."
	case KindBullet:
		return string(c.Glyph)
	default:
		return ""
	}
}
