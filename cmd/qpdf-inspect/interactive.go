package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	qpdf "github.com/wippyai/qpdf-go"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxPreview bounds how much of a value is rendered on one line.
const maxPreview = 60

type entry struct {
	obj   *qpdf.Object
	label string
}

// frame is one level of the browsing path.
type frame struct {
	title    string
	entries  []entry
	selected int
}

type browserState int

const (
	stateBrowse browserState = iota
	stateJump
	stateShowValue
)

type browserModel struct {
	err   error
	doc   *qpdf.Document
	jump  textinput.Model
	value string
	stack []*frame
	state browserState
}

func newBrowserModel(doc *qpdf.Document) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "id gen"
	ti.Prompt = "object: "
	ti.Width = 20
	return &browserModel{doc: doc, jump: ti, state: stateBrowse}
}

type openedMsg struct {
	err   error
	frame *frame
}

func (m *browserModel) Init() tea.Cmd {
	return m.openTrailer
}

func (m *browserModel) openTrailer() tea.Msg {
	trailer, ok := m.doc.Trailer()
	if !ok {
		return openedMsg{err: fmt.Errorf("document has no trailer")}
	}
	f, err := expand("trailer", trailer.Object())
	return openedMsg{frame: f, err: err}
}

// expand lists the children of a container. Streams list their dictionary.
func expand(title string, obj *qpdf.Object) (*frame, error) {
	f := &frame{title: title}
	switch obj.Type() {
	case qpdf.TypeDictionary:
		dict, err := obj.AsDictionary()
		if err != nil {
			return nil, err
		}
		return f, appendEntries(f, dict)
	case qpdf.TypeStream:
		s, err := obj.AsStream()
		if err != nil {
			return nil, err
		}
		dict, err := s.Dictionary()
		if err != nil {
			return nil, err
		}
		return f, appendEntries(f, dict)
	case qpdf.TypeArray:
		arr, err := obj.AsArray()
		if err != nil {
			return nil, err
		}
		for i, v := range arr.All() {
			f.entries = append(f.entries, entry{label: "[" + strconv.Itoa(i) + "]", obj: v})
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%s is not a container", obj.Type())
	}
}

func appendEntries(f *frame, dict *qpdf.Dictionary) error {
	keys, err := dict.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if v, ok := dict.Get(k); ok {
			f.entries = append(f.entries, entry{label: k, obj: v})
		}
	}
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateJump {
			return m.updateJump(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if f := m.top(); f != nil && m.state == stateBrowse && f.selected > 0 {
				f.selected--
			}

		case "down", "j":
			if f := m.top(); f != nil && m.state == stateBrowse && f.selected < len(f.entries)-1 {
				f.selected++
			}

		case "enter", "right", "l":
			if m.state == stateShowValue {
				m.state = stateBrowse
				m.value = ""
				m.err = nil
				break
			}
			m.descend()

		case "backspace", "left", "h", "esc":
			switch {
			case m.state == stateShowValue:
				m.state = stateBrowse
				m.value = ""
				m.err = nil
			case len(m.stack) > 1:
				m.pop()
			}

		case "/", "g":
			if m.state == stateBrowse {
				m.state = stateJump
				m.jump.SetValue("")
				m.jump.Focus()
				return m, textinput.Blink
			}
		}

	case openedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.stack = append(m.stack, msg.frame)
	}

	return m, nil
}

func (m *browserModel) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = stateBrowse
		m.jump.Blur()
		return m, nil
	case "enter":
		m.jump.Blur()
		m.state = stateBrowse
		m.openRef(m.jump.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m *browserModel) openRef(ref string) {
	id, gen, err := parseRef(ref)
	if err != nil {
		m.showValue("", err)
		return
	}
	obj, ok := m.doc.ObjectByID(id, gen)
	if !ok {
		m.showValue("", fmt.Errorf("object %d %d not found", id, gen))
		return
	}
	m.open(fmt.Sprintf("%d %d R", id, gen), obj)
}

func (m *browserModel) descend() {
	f := m.top()
	if f == nil || len(f.entries) == 0 {
		return
	}
	e := f.entries[f.selected]
	m.open(e.label, e.obj)
}

// open pushes a container, or shows a scalar's full value.
func (m *browserModel) open(label string, obj *qpdf.Object) {
	switch obj.Type() {
	case qpdf.TypeDictionary, qpdf.TypeArray, qpdf.TypeStream:
		f, err := expand(label, obj)
		if err != nil {
			m.showValue("", err)
			return
		}
		m.stack = append(m.stack, f)
	default:
		text, err := obj.UnparseResolved()
		m.showValue(text, err)
	}
}

func (m *browserModel) showValue(v string, err error) {
	m.value = v
	m.err = err
	m.state = stateShowValue
}

func (m *browserModel) top() *frame {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

func (m *browserModel) pop() {
	f := m.top()
	for _, e := range f.entries {
		e.obj.Release()
	}
	m.stack = m.stack[:len(m.stack)-1]
}

func (m *browserModel) View() string {
	if m.err != nil && m.state != stateShowValue {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	f := m.top()
	if f == nil {
		return "Loading document..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("PDF Browser"))
	b.WriteString(" ")
	b.WriteString(m.doc.Description())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.path()))
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse, stateJump:
		if len(f.entries) == 0 {
			b.WriteString(helpStyle.Render("(empty)"))
			b.WriteString("\n")
		}
		for i, e := range f.entries {
			line := m.formatEntry(e)
			if i == f.selected {
				b.WriteString(selectedStyle.Render("> " + e.label))
				b.WriteString(line)
			} else {
				b.WriteString("  " + keyStyle.Render(e.label) + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.state == stateJump {
			b.WriteString(m.jump.View())
			b.WriteString("\n")
			b.WriteString(helpStyle.Render("enter open • esc cancel"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ select • enter open • backspace back • / jump to object • q quit"))
		}

	case stateShowValue:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(valueStyle.Render(m.value))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *browserModel) path() string {
	parts := make([]string, len(m.stack))
	for i, f := range m.stack {
		parts[i] = f.title
	}
	return strings.Join(parts, " › ")
}

func (m *browserModel) formatEntry(e entry) string {
	kind := e.obj.Type().String()
	preview := e.obj.String()
	if e.obj.IsIndirect() {
		preview = fmt.Sprintf("%d %d R", e.obj.ID(), e.obj.Generation())
	}
	if len(preview) > maxPreview {
		preview = preview[:maxPreview] + "…"
	}
	return "  " + typeStyle.Render(kind) + "  " + valueStyle.Render(preview)
}

func runInteractive(doc *qpdf.Document) error {
	p := tea.NewProgram(newBrowserModel(doc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
