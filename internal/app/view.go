package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/sidenotes/internal/keymap"
	"github.com/marcus/sidenotes/internal/plugin"
	"github.com/marcus/sidenotes/internal/styles"
	"github.com/marcus/sidenotes/internal/ui"
)

const (
	footerHeight = 1
	minWidth     = 40
	minHeight    = 10
)

// contentHeight is the height left for the plugin.
func (m Model) contentHeight() int {
	h := m.height
	if m.showFooter {
		h -= footerHeight
	}
	return max(h, 0)
}

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show warning if terminal is too small
	if m.width < minWidth || m.height < minHeight {
		warning := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(styles.Warning).Render(warning))
	}

	var b strings.Builder
	b.WriteString(m.renderContent(m.width, m.contentHeight()))
	if m.showFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	bg := b.String()
	switch m.activeModal() {
	case ModalHelp:
		return m.renderHelpOverlay(bg)
	case ModalDiagnostics:
		return m.renderDiagnosticsOverlay(bg)
	}
	return bg
}

// renderContent renders the main content area.
func (m Model) renderContent(width, height int) string {
	if height == 0 {
		return ""
	}
	content := m.plugin.View(width, height)
	// MaxHeight truncates content taller than the allotted space.
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

// renderFooter renders the bottom bar with key hints and status.
func (m Model) renderFooter() string {
	var status string
	if m.statusMsg != "" {
		toastStyle := styles.ToastSuccess
		if m.statusIsError {
			toastStyle = styles.ToastError
		}
		status = toastStyle.Render(m.statusMsg)
	}

	statusWidth := lipgloss.Width(status)
	availableForHints := m.width - statusWidth - 2
	hintsStr := renderHintLineTruncated(m.footerHints(), availableForHints)

	spacing := max(m.width-lipgloss.Width(hintsStr)-statusWidth, 0)
	footer := hintsStr + strings.Repeat(" ", spacing) + status

	// MaxWidth keeps the footer on a single line
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(footer)
}

type footerHint struct {
	keys  string
	label string
}

func (m Model) footerHints() []footerHint {
	// Plugin hints first, they are more contextually relevant
	hints := m.pluginFooterHints(m.plugin, m.activeContext)
	return append(hints, m.globalFooterHints()...)
}

func (m Model) globalFooterHints() []footerHint {
	keysByCmd := bindingKeysByCommand(m.keymap.BindingsForContext("global"))

	specs := []struct {
		id    string
		label string
	}{
		{id: keymap.CmdHelp, label: "help"},
		{id: keymap.CmdQuit, label: "quit"},
	}

	var hints []footerHint
	for _, spec := range specs {
		keys := keysByCmd[spec.id]
		if len(keys) == 0 {
			continue
		}
		hints = append(hints, footerHint{keys: keys[0], label: spec.label})
	}
	return hints
}

func (m Model) pluginFooterHints(p plugin.Plugin, context string) []footerHint {
	if context == "" || context == "global" {
		return nil
	}

	type cmdWithPriority struct {
		cmd      plugin.Command
		keys     []string
		priority int
	}

	var cmds []cmdWithPriority
	for _, cmd := range p.Commands() {
		if cmd.Context != context {
			continue
		}
		keys := m.keymap.KeysFor(cmd.ID, context)
		if len(keys) == 0 {
			continue
		}
		priority := cmd.Priority
		if priority == 0 {
			priority = 99 // Default to low priority
		}
		cmds = append(cmds, cmdWithPriority{cmd, keys, priority})
	}

	// Lower priority value = shown first
	sort.SliceStable(cmds, func(i, j int) bool {
		return cmds[i].priority < cmds[j].priority
	})

	hints := make([]footerHint, 0, len(cmds))
	for _, c := range cmds {
		hints = append(hints, footerHint{
			keys:  formatBindingKeys(c.keys),
			label: c.cmd.Name,
		})
	}
	return hints
}

func bindingKeysByCommand(bindings []keymap.Binding) map[string][]string {
	keysByCmd := make(map[string][]string, len(bindings))
	for _, b := range bindings {
		keysByCmd[b.Command] = append(keysByCmd[b.Command], b.Key)
	}
	return keysByCmd
}

// renderHintLineTruncated renders hints but stops adding when maxWidth is exceeded.
func renderHintLineTruncated(hints []footerHint, maxWidth int) string {
	if len(hints) == 0 || maxWidth <= 0 {
		return ""
	}
	var result string
	separator := "  "
	for _, hint := range hints {
		if hint.keys == "" || hint.label == "" {
			continue
		}
		part := fmt.Sprintf("%s %s", styles.KeyHint.Render(hint.keys), hint.label)
		candidate := part
		if result != "" {
			candidate = result + separator + part
		}
		if lipgloss.Width(candidate) > maxWidth {
			break
		}
		result = candidate
	}
	return result
}

// renderHelpOverlay renders the help modal over content.
func (m Model) renderHelpOverlay(content string) string {
	modal := styles.ModalBox.Render(m.buildHelpContent())
	return ui.OverlayModal(content, modal, m.width, m.height)
}

// buildHelpContent lists the global bindings and those of the plugin's
// current context.
func (m Model) buildHelpContent() string {
	var b strings.Builder

	b.WriteString(styles.ModalTitle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(styles.Title.Render("Global"))
	b.WriteString("\n")
	m.renderBindingSection(&b, "global")
	b.WriteString("\n")

	ctx := m.plugin.FocusContext()
	if bindings := m.keymap.BindingsForContext(ctx); len(bindings) > 0 {
		b.WriteString(styles.Title.Render(m.plugin.Name()))
		b.WriteString("\n")
		m.renderBindingSection(&b, ctx)
		b.WriteString("\n")
	}

	b.WriteString(styles.Muted.Render("Press ? or esc to close"))
	return b.String()
}

// renderBindingSection renders bindings for a context, one line per command.
func (m Model) renderBindingSection(b *strings.Builder, context string) {
	bindings := m.keymap.BindingsForContext(context)
	keysByCmd := bindingKeysByCommand(bindings)

	seen := make(map[string]bool)
	for _, binding := range bindings {
		if seen[binding.Command] {
			continue
		}
		seen[binding.Command] = true

		padded := fmt.Sprintf("%-11s", formatBindingKeys(keysByCmd[binding.Command]))
		fmt.Fprintf(b, "  %s %s\n", styles.Muted.Render(padded), formatCommandName(binding.Command))
	}
}

// formatBindingKeys formats multiple keys into a display string.
func formatBindingKeys(keys []string) string {
	if len(keys) > 2 {
		keys = keys[:2]
	}
	return strings.Join(keys, ", ")
}

// formatCommandName converts a command ID to a display name.
func formatCommandName(cmd string) string {
	cmd = strings.TrimPrefix(cmd, keymap.FormatPrefix)
	return strings.ReplaceAll(cmd, "-", " ")
}

// renderDiagnosticsOverlay renders the diagnostics modal.
func (m Model) renderDiagnosticsOverlay(content string) string {
	modal := styles.ModalBox.Render(m.buildDiagnosticsContent())
	return ui.OverlayModal(content, modal, m.width, m.height)
}

// backgroundDiagnostic names the variant and its text contrast, flagging
// variants that are hard to read.
func backgroundDiagnostic(name string) string {
	theme := styles.GetTheme(name)
	out := fmt.Sprintf("%s (contrast %.1f:1)", theme.Name, styles.TextContrast(theme))
	if !theme.Readable() {
		out += " " + lipgloss.NewStyle().Foreground(styles.Warning).Render("low contrast")
	}
	return out
}

// buildDiagnosticsContent shows version, paths and plugin health.
func (m Model) buildDiagnosticsContent() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render("Diagnostics"))
	b.WriteString("\n\n")

	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "  %s %s\n", styles.Muted.Render(fmt.Sprintf("%-10s", label)), value)
	}
	row("version", m.opts.Version)
	row("config", m.opts.ConfigPath)
	row("database", m.cfg.DBPath(m.opts.ConfigPath))
	row("log", m.opts.LogPath)
	row("driver", m.cfg.Storage.Driver)
	row("background", backgroundDiagnostic(styles.GetCurrentThemeName()))

	if dp, ok := m.plugin.(plugin.DiagnosticProvider); ok {
		b.WriteString("\n")
		b.WriteString(styles.Title.Render(m.plugin.Name()))
		b.WriteString("\n")
		for _, d := range dp.Diagnostics() {
			status := lipgloss.NewStyle().Foreground(styles.Success).Render(d.Status)
			if d.Status != "ok" {
				status = lipgloss.NewStyle().Foreground(styles.Error).Render(d.Status)
			}
			fmt.Fprintf(&b, "  %-10s %s %s\n", d.ID, status, styles.Muted.Render(d.Detail))
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("Press ! or esc to close"))
	return b.String()
}
