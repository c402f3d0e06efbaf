package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/guyeu9/Interactive-story-game-editor/internal/story"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
	layerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("205"))
	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// option is one selectable line: a play or a command of the current layer.
type option struct {
	id      string
	label   string
	command bool
}

type playModel struct {
	walk     *story.Walkthrough
	options  []option
	cursor   int
	selected map[int]bool
	err      error
	quitting bool
}

func newPlayModel(w *story.Walkthrough) playModel {
	m := playModel{walk: w}
	m.load()
	return m
}

// load rebuilds the option list from the walkthrough's current layer.
func (m *playModel) load() {
	c := m.walk.Candidates()
	m.options = nil
	for _, p := range c.Plays {
		m.options = append(m.options, option{id: p.ID, label: fmt.Sprintf("%s: %s", p.Name, p.Description)})
	}
	for _, cmd := range c.Commands {
		m.options = append(m.options, option{
			id:      cmd.ID,
			label:   fmt.Sprintf("[指令] %s (%s): %s", cmd.Name, cmd.ScopeType, cmd.Description),
			command: true,
		})
	}
	m.cursor = 0
	m.selected = map[int]bool{}
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case " ", "x":
		if len(m.options) > 0 {
			m.selected[m.cursor] = !m.selected[m.cursor]
		}
	case "enter":
		return m.confirm()
	}
	return m, nil
}

// confirm submits the selection, or the option under the cursor when nothing
// is toggled.
func (m playModel) confirm() (tea.Model, tea.Cmd) {
	var plays, commands []string
	pick := func(o option) {
		if o.command {
			commands = append(commands, o.id)
		} else {
			plays = append(plays, o.id)
		}
	}
	for i, o := range m.options {
		if m.selected[i] {
			pick(o)
		}
	}
	if len(plays) == 0 && len(commands) == 0 && len(m.options) > 0 {
		pick(m.options[m.cursor])
	}

	if err := m.walk.Choose(plays, commands); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	if m.walk.Done() {
		return m, tea.Quit
	}
	m.load()
	return m, nil
}

func (m playModel) View() string {
	if m.quitting || m.walk.Done() {
		return ""
	}
	var b strings.Builder
	st := m.walk.Story()
	cur, total := m.walk.Progress()
	c := m.walk.Candidates()

	b.WriteString(titleStyle.Render(st.SceneName))
	b.WriteString("\n")
	b.WriteString(layerStyle.Render(fmt.Sprintf("%s (%d/%d)", c.Layer.Name, cur, total)))
	b.WriteString("\n\n")

	if len(m.options) == 0 {
		b.WriteString(helpStyle.Render("本层没有可选内容，按 Enter 继续"))
		b.WriteString("\n")
	}
	for i, o := range m.options {
		mark := "[ ]"
		if m.selected[i] {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, o.label)
		switch {
		case i == m.cursor:
			line = cursorStyle.Render(line)
		case o.command:
			line = commandStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move · space toggle · enter confirm · q quit"))
	return panelStyle.Render(b.String())
}
