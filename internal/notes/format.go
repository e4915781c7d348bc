package notes

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/marcus/sidenotes/internal/richtext"
)

// previewLength is the number of runes shown in a sidebar preview.
const previewLength = 60

var (
	stripAll       = bluemonday.StrictPolicy()
	markdownPunct  = regexp.MustCompile("[#*`~_\\[\\]]")
	quotePrefix    = regexp.MustCompile(`(?m)^>\s*`)
	bulletPrefix   = regexp.MustCompile(`(?m)^\s*[-*+•]\s+`)
	numberedPrefix = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// PlainText returns the text of serialized note content, one line per
// rendered line. Unparseable content falls back to tag stripping.
func PlainText(content string) string {
	doc, err := richtext.Parse(content)
	if err != nil {
		return html.UnescapeString(stripAll.Sanitize(content))
	}
	return doc.PlainText()
}

// Preview returns a one-line summary of note content: markup and list or
// markdown punctuation removed, whitespace collapsed, cut to 60 runes.
func Preview(content string) string {
	text := PlainText(content)
	text = markdownPunct.ReplaceAllString(text, "")
	text = quotePrefix.ReplaceAllString(text, "")
	text = bulletPrefix.ReplaceAllString(text, "")
	text = numberedPrefix.ReplaceAllString(text, "")
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))

	runes := []rune(text)
	if len(runes) > previewLength {
		return string(runes[:previewLength]) + "..."
	}
	return text
}

// Filter returns the notes whose title or text contains query,
// case-insensitively. An empty query returns notes unchanged.
func Filter(notes []Note, query string) []Note {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return notes
	}
	var out []Note
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Title), query) ||
			strings.Contains(strings.ToLower(PlainText(n.Content)), query) {
			out = append(out, n)
		}
	}
	return out
}

// FormatListDate formats an update time for the sidebar: clock time within
// a day, weekday within a week, otherwise month and day.
func FormatListDate(t, now time.Time) string {
	t = t.In(now.Location())
	switch age := now.Sub(t); {
	case age < 24*time.Hour:
		return t.Format("15:04")
	case age < 7*24*time.Hour:
		return t.Format("Mon")
	default:
		return t.Format("Jan 2")
	}
}

// FormatLastSaved describes when a note was last saved.
func FormatLastSaved(t, now time.Time) string {
	age := now.Sub(t)
	switch {
	case age < time.Minute:
		return "Saved just now"
	case age < time.Hour:
		return fmt.Sprintf("Saved %dm ago", int(age/time.Minute))
	default:
		return "Saved at " + t.In(now.Location()).Format("15:04")
	}
}
