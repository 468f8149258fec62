package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	podcodec "github.com/wippyai/pod-codec"
	"github.com/wippyai/pod-codec/schema"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	result   string
	types    []typeInfo
	input    textinput.Model
	selected int
	order    podcodec.Endian
	state    modelState
}

type typeInfo struct {
	name   string
	codec  podcodec.Codec[any]
	kind   podcodec.Kind
	layout []podcodec.FieldInfo
}

type modelState int

const (
	stateSelectType modelState = iota
	stateInputHex
	stateShowResult
)

func newInteractiveModel(s *schema.Schema, order podcodec.Endian) (*interactiveModel, error) {
	m := &interactiveModel{
		order: order,
		state: stateSelectType,
	}
	for _, name := range s.Types() {
		codec, err := s.Codec(name)
		if err != nil {
			return nil, err
		}
		layout, err := s.Layout(name)
		if err != nil {
			return nil, err
		}
		m.types = append(m.types, typeInfo{name: name, codec: codec, kind: podcodec.KindOf(codec), layout: layout})
	}
	return m, nil
}

type decodedMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputHex {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectType && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectType && m.selected < len(m.types)-1 {
				m.selected++
			}

		case "z":
			if m.state == stateSelectType && len(m.types) > 0 {
				return m, m.showZero
			}

		case "enter":
			switch m.state {
			case stateSelectType:
				if len(m.types) == 0 {
					return m, nil
				}
				m.prepareInput()
				m.state = stateInputHex
				return m, textinput.Blink

			case stateInputHex:
				return m, m.decode

			case stateShowResult:
				m.state = stateSelectType
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputHex {
				if m.order == podcodec.LittleEndian {
					m.order = podcodec.BigEndian
				} else {
					m.order = podcodec.LittleEndian
				}
			}

		case "esc":
			switch m.state {
			case stateInputHex:
				m.state = stateSelectType
			case stateShowResult:
				m.state = stateSelectType
				m.result = ""
				m.err = nil
			}
		}

	case decodedMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputHex {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) prepareInput() {
	t := m.types[m.selected]
	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("%d bytes of hex", t.codec.Size())
	ti.Prompt = t.name + ": "
	ti.Width = 60
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) decode() tea.Msg {
	t := m.types[m.selected]
	b, err := parseHex(m.input.Value())
	if err != nil {
		return decodedMsg{err: err}
	}
	v, err := t.codec.Decode(b, m.order)
	if err != nil {
		return decodedMsg{err: err}
	}
	return decodedMsg{result: formatValue(v, true)}
}

func (m *interactiveModel) showZero() tea.Msg {
	t := m.types[m.selected]
	zero := t.codec.Zero()
	b, err := podcodec.Marshal(t.codec, zero, m.order)
	if err != nil {
		return decodedMsg{err: err}
	}
	return decodedMsg{result: formatValue(zero, true) + "\n" + dimStyle.Render(formatHex(b))}
}

func (m *interactiveModel) View() string {
	if len(m.types) == 0 {
		return errorStyle.Render("The schema declares no types.\n\nPress q to quit.")
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("podview"))
	b.WriteString(" ")
	b.WriteString(dimStyle.Render(m.order.String()))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectType:
		b.WriteString("Select a type:\n\n")
		for i, t := range m.types {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + m.formatType(t)))
			} else {
				b.WriteString(cursor + m.formatType(t))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter decode • z zero value • q quit"))

	case stateInputHex:
		t := m.types[m.selected]
		b.WriteString(fmt.Sprintf("Decoding %s\n\n", nameStyle.Render(t.name)))
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if len(t.layout) > 0 {
			b.WriteString("\n")
			b.WriteString(formatLayout(t.layout))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab byte order • enter decode • esc back"))

	case stateShowResult:
		t := m.types[m.selected]
		b.WriteString(fmt.Sprintf("%s:\n\n", nameStyle.Render(t.name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(m.result)
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatType(t typeInfo) string {
	return nameStyle.Render(t.name) + " " + typeStyle.Render(t.kind.String()) + " " + dimStyle.Render(fmt.Sprintf("%dB", t.codec.Size()))
}

func runInteractive(s *schema.Schema, order podcodec.Endian) error {
	m, err := newInteractiveModel(s, order)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
