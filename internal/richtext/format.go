package richtext

import (
	"fmt"
	"strings"
)

// CommandKind tags a Command.
type CommandKind int

const (
	CmdInline CommandKind = iota
	CmdBlock
	CmdBulletList
	CmdNumberedList
)

// Command is a formatting intent: an inline mark toggle, a block style, or
// a list insertion. The zero value is not a valid command.
type Command struct {
	Kind  CommandKind
	Mark  Mark       // CmdInline
	Style BlockStyle // CmdBlock
}

// Constructors for the supported commands.
var (
	CmdBold          = Command{Kind: CmdInline, Mark: Bold}
	CmdItalic        = Command{Kind: CmdInline, Mark: Italic}
	CmdUnderline     = Command{Kind: CmdInline, Mark: Underline}
	CmdStrikethrough = Command{Kind: CmdInline, Mark: Strikethrough}
	CmdParagraph     = Command{Kind: CmdBlock, Style: Paragraph}
	CmdBullets       = Command{Kind: CmdBulletList}
	CmdNumbers       = Command{Kind: CmdNumberedList}
)

// Heading returns the command setting a heading level 1..3; level 0 is a
// paragraph.
func Heading(level int) (Command, error) {
	style, ok := HeadingStyle(level)
	if !ok {
		return Command{}, fmt.Errorf("heading level %d out of range", level)
	}
	return Command{Kind: CmdBlock, Style: style}, nil
}

// Deferral is how long a command waits before restoring the selection.
type Deferral int

const (
	// NextFrame waits one render frame. Used for style toggles.
	NextFrame Deferral = iota
	// Settle waits for a larger structural rewrite to settle.
	Settle
)

// Deferral returns the restore timing class of the command.
func (c Command) Deferral() Deferral {
	switch c.Kind {
	case CmdBulletList, CmdNumberedList:
		return Settle
	default:
		return NextFrame
	}
}

// String returns the command name as ParseCommand accepts it.
func (c Command) String() string {
	switch c.Kind {
	case CmdInline:
		return c.Mark.String()
	case CmdBlock:
		return c.Style.String()
	case CmdBulletList:
		return "bullets"
	case CmdNumberedList:
		return "numbers"
	}
	return "unknown"
}

// ParseCommand maps a command name ("bold", "h2", "numbers", ...) to a Command.
func ParseCommand(name string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bold":
		return CmdBold, nil
	case "italic":
		return CmdItalic, nil
	case "underline":
		return CmdUnderline, nil
	case "strikethrough", "strike":
		return CmdStrikethrough, nil
	case "paragraph", "p":
		return CmdParagraph, nil
	case "h1":
		return Heading(1)
	case "h2":
		return Heading(2)
	case "h3":
		return Heading(3)
	case "bullets", "bullet":
		return CmdBullets, nil
	case "numbers", "numbered":
		return CmdNumbers, nil
	}
	return Command{}, fmt.Errorf("unknown format command %q", name)
}
