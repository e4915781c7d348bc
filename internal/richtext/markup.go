package richtext

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// sanitizer keeps the elements the document model understands and drops
// every other tag (text content survives).
var sanitizer = bluemonday.NewPolicy().AllowElements(
	"p", "div", "h1", "h2", "h3",
	"b", "strong", "i", "em", "u", "s", "strike", "del", "span",
	"br",
)

var bodyContext = &nethtml.Node{Type: nethtml.ElementNode, Data: "body", DataAtom: atom.Body}

// Parse builds a document from serialized markup. Text outside any block
// element becomes a paragraph; non-breaking spaces become plain spaces.
// Empty markup yields a single empty paragraph.
func Parse(markup string) (*Document, error) {
	d := &Document{}
	blocks, err := parseBlocks(markup, false)
	if err != nil {
		return nil, err
	}
	for _, pb := range blocks {
		b := d.appendBlock(pb.style)
		b.text = pb.text
		b.marks = pb.marks
	}
	if len(d.blocks) == 0 {
		d.appendBlock(Paragraph)
	}
	return d, nil
}

type parsedBlock struct {
	style BlockStyle
	text  []rune
	marks []Mark
}

type markupParser struct {
	blocks   []*parsedBlock
	cur      *parsedBlock
	fragment bool // keep trailing breaks
}

func parseBlocks(markup string, fragment bool) ([]*parsedBlock, error) {
	clean := sanitizer.Sanitize(markup)
	nodes, err := nethtml.ParseFragment(strings.NewReader(clean), bodyContext)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	p := &markupParser{fragment: fragment}
	for _, n := range nodes {
		p.walk(n, 0)
	}
	p.closeBlock()
	return p.blocks, nil
}

func (p *markupParser) open(style BlockStyle) {
	if p.cur != nil && len(p.cur.text) == 0 {
		p.cur.style = style
		return
	}
	p.closeBlock()
	p.cur = &parsedBlock{style: style}
	p.blocks = append(p.blocks, p.cur)
}

// closeBlock drops the placeholder break that keeps a trailing empty line
// visible in rendered markup.
func (p *markupParser) closeBlock() {
	if p.cur == nil {
		return
	}
	if n := len(p.cur.text); !p.fragment && n > 0 && p.cur.text[n-1] == '\n' {
		p.cur.text = p.cur.text[:n-1]
		p.cur.marks = p.cur.marks[:n-1]
	}
	p.cur = nil
}

func (p *markupParser) write(s string, marks Mark) {
	if p.cur == nil {
		if strings.TrimSpace(s) == "" && strings.Contains(s, "\n") {
			return
		}
		p.open(Paragraph)
	}
	for _, r := range s {
		if r == '\u00a0' {
			r = ' '
		}
		p.cur.text = append(p.cur.text, r)
		p.cur.marks = append(p.cur.marks, marks)
	}
}

func (p *markupParser) walk(n *nethtml.Node, marks Mark) {
	switch n.Type {
	case nethtml.TextNode:
		p.write(n.Data, marks)
		return
	case nethtml.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3:
		p.open(styleForAtom(n.DataAtom))
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.walk(c, marks)
		}
		p.closeBlock()
		return
	case atom.Br:
		if p.cur == nil {
			p.open(Paragraph)
		}
		p.write("\n", marks)
		return
	case atom.B, atom.Strong:
		marks |= Bold
	case atom.I, atom.Em:
		marks |= Italic
	case atom.U:
		marks |= Underline
	case atom.S, atom.Strike, atom.Del:
		marks |= Strikethrough
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, marks)
	}
}

func styleForAtom(a atom.Atom) BlockStyle {
	switch a {
	case atom.H1:
		return Heading1
	case atom.H2:
		return Heading2
	case atom.H3:
		return Heading3
	default:
		return Paragraph
	}
}

// parseInline flattens a markup fragment into runes and marks. Block
// boundaries inside the fragment become line breaks.
func parseInline(markup string) ([]rune, []Mark, error) {
	blocks, err := parseBlocks(markup, true)
	if err != nil {
		return nil, nil, err
	}
	var (
		text  []rune
		marks []Mark
	)
	for i, b := range blocks {
		if i > 0 {
			text = append(text, '\n')
			marks = append(marks, 0)
		}
		text = append(text, b.text...)
		marks = append(marks, b.marks...)
	}
	return text, marks, nil
}

var markTags = []struct {
	mark Mark
	tag  string
}{
	{Bold, "b"},
	{Italic, "i"},
	{Underline, "u"},
	{Strikethrough, "s"},
}

// Markup serializes the document. Line breaks become <br>; a trailing line
// break gets a second <br> so the empty last line survives rendering.
func (d *Document) Markup() string {
	var out strings.Builder
	for _, b := range d.blocks {
		tag := b.Style.Tag()
		out.WriteString("<" + tag + ">")
		for _, run := range b.Runs() {
			for _, mt := range markTags {
				if run.Marks.Has(mt.mark) {
					out.WriteString("<" + mt.tag + ">")
				}
			}
			parts := strings.Split(run.Text, "\n")
			for i, part := range parts {
				if i > 0 {
					out.WriteString("<br>")
				}
				out.WriteString(html.EscapeString(part))
			}
			for i := len(markTags) - 1; i >= 0; i-- {
				if run.Marks.Has(markTags[i].mark) {
					out.WriteString("</" + markTags[i].tag + ">")
				}
			}
		}
		if n := b.Len(); n > 0 && b.text[n-1] == '\n' {
			out.WriteString("<br>")
		}
		out.WriteString("</" + tag + ">")
	}
	return out.String()
}

// Markdown renders the document for the read-only preview. Underline has no
// markdown form and is dropped.
func (d *Document) Markdown() string {
	var out strings.Builder
	for i, b := range d.blocks {
		if i > 0 {
			out.WriteString("\n\n")
		}
		switch b.Style {
		case Heading1:
			out.WriteString("# ")
		case Heading2:
			out.WriteString("## ")
		case Heading3:
			out.WriteString("### ")
		}
		for _, run := range b.Runs() {
			open, closing := markdownDelims(run.Marks)
			lines := strings.Split(run.Text, "\n")
			for j, line := range lines {
				if j > 0 {
					out.WriteString("  \n")
				}
				if strings.TrimSpace(line) == "" {
					out.WriteString(line)
					continue
				}
				out.WriteString(open + line + closing)
			}
		}
	}
	return out.String()
}

func markdownDelims(m Mark) (string, string) {
	var open string
	if m.Has(Bold) {
		open += "**"
	}
	if m.Has(Italic) {
		open += "_"
	}
	if m.Has(Strikethrough) {
		open += "~~"
	}
	closing := []rune(open)
	for i, j := 0, len(closing)-1; i < j; i, j = i+1, j-1 {
		closing[i], closing[j] = closing[j], closing[i]
	}
	return open, string(closing)
}
