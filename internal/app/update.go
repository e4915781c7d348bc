package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/sidenotes/internal/keymap"
	"github.com/marcus/sidenotes/internal/msg"
	"github.com/marcus/sidenotes/internal/plugin"
)

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		cmd := m.forward(tea.WindowSizeMsg{Width: message.Width, Height: m.contentHeight()})
		return m, cmd

	case TickMsg:
		m.ClearToast()
		return m, tickCmd()

	case msg.ToastMsg:
		m.ShowToast(message.Message, message.Duration, message.IsError)
		return m, nil

	case ConfigFileMsg:
		next := waitForReload(m.opts.Reloads)
		if message.Reload.Err != nil {
			m.logger.Warn("config reload failed", "err", message.Reload.Err)
			m.ShowToast("Config error: "+message.Reload.Err.Error(), 2*msg.DefaultToastDuration, true)
			return m, next
		}
		cmd := m.applyConfig(message.Reload.Config)
		m.ShowToast("Config reloaded", msg.DefaultToastDuration, false)
		return m, tea.Batch(cmd, next)
	}

	cmd := m.forward(message)
	return m, cmd
}

// forward passes a message to the plugin and refreshes the focus context.
func (m *Model) forward(message tea.Msg) tea.Cmd {
	next, cmd := m.plugin.Update(message)
	m.plugin = next
	if !m.hasModal() {
		m.updateContext()
	}
	return cmd
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	command, _ := m.keymap.Lookup(k.String(), "global")

	// ctrl+c quits from anywhere, modals included
	if command == keymap.CmdQuit {
		return m, tea.Quit
	}

	if m.hasModal() {
		switch {
		case k.Type == tea.KeyEsc, k.String() == "q":
			m.showHelp = false
			m.showDiagnostics = false
			m.updateContext()
		case command == keymap.CmdHelp && m.showHelp:
			m.showHelp = false
			m.updateContext()
		case command == keymap.CmdDiagnostics && m.showDiagnostics:
			m.showDiagnostics = false
			m.updateContext()
		}
		return m, nil
	}

	switch command {
	case keymap.CmdToggleFooter:
		m.showFooter = !m.showFooter
		cmd := m.forward(tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()})
		return m, cmd
	case keymap.CmdHelp:
		if !m.consumesText() {
			m.showHelp = true
			m.activeContext = "help"
			return m, nil
		}
	case keymap.CmdDiagnostics:
		if !m.consumesText() {
			m.showDiagnostics = true
			m.activeContext = "diagnostics"
			return m, nil
		}
	}

	cmd := m.forward(k)
	return m, cmd
}

// consumesText reports whether printable keys belong to a focused input.
func (m Model) consumesText() bool {
	if c, ok := m.plugin.(plugin.TextInputConsumer); ok {
		return c.ConsumesTextInput()
	}
	return false
}

// updateContext sets activeContext based on current state.
func (m *Model) updateContext() {
	m.activeContext = m.plugin.FocusContext()
}
