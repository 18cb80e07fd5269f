package form

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/UnknownOlympus/proteus/internal/field"
	"github.com/UnknownOlympus/proteus/internal/ui"
)

// ErrNoFields is returned when a form is constructed without any fields.
var ErrNoFields = errors.New("form requires at least one field")

// Config assembles a form: the shared state its fields bind to, the
// validation schema, and the fields themselves in display order.
type Config struct {
	Title     string
	State     *State
	Schema    Schema
	Fields    []field.Input
	Validator *Validator // nil means a fresh default validator
	Styles    *ui.Styles // nil means auto-detected theme
}

// Model is the bubbletea program driving a set of fields against one shared
// state. Key messages are routed to the focused field only; every other
// message is broadcast, and the async messages fields emit carry the name
// of the field they belong to, so broadcasting is safe.
type Model struct {
	title     string
	state     *State
	schema    Schema
	validator *Validator
	fields    []field.Input
	styles    ui.Styles

	focus     int
	submitted bool
	quitting  bool
}

// New builds a form model from the given configuration.
func New(cfg Config) (*Model, error) {
	if len(cfg.Fields) == 0 {
		return nil, ErrNoFields
	}
	if cfg.State == nil {
		cfg.State = NewState()
	}
	if cfg.Validator == nil {
		cfg.Validator = NewValidator()
	}

	styles := ui.DefaultStyles()
	if cfg.Styles != nil {
		styles = *cfg.Styles
	}

	return &Model{
		title:     cfg.Title,
		state:     cfg.State,
		schema:    cfg.Schema,
		validator: cfg.Validator,
		fields:    cfg.Fields,
		styles:    styles,
	}, nil
}

// Submitted reports whether the form was completed, as opposed to aborted.
func (m *Model) Submitted() bool {
	return m.submitted
}

// State returns the form state the fields are bound to.
func (m *Model) State() *State {
	return m.state
}

func (m *Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.fields)+1)
	for _, f := range m.fields {
		cmds = append(cmds, f.Init())
	}
	cmds = append(cmds, m.fields[m.focus].Focus())
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			return m, m.moveFocus(1)
		case "shift+tab":
			return m, m.moveFocus(-1)
		case "ctrl+s":
			return m, m.submit()
		}

		// Remaining keys belong to the focused field alone.
		var cmd tea.Cmd
		m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
		return m, cmd
	}

	// Everything else is broadcast: spinners, debounce timers, and async
	// results find their owner by field name.
	cmds := make([]tea.Cmd, 0, len(m.fields))
	for i, f := range m.fields {
		updated, cmd := f.Update(msg)
		m.fields[i] = updated
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// moveFocus blurs the focused field and focuses its neighbor, wrapping
// around both ends.
func (m *Model) moveFocus(direction int) tea.Cmd {
	m.fields[m.focus].Blur()
	m.focus = (m.focus + direction + len(m.fields)) % len(m.fields)
	return m.fields[m.focus].Focus()
}

// submit validates the state against the schema. A clean run finishes the
// form; violations move focus to the first offending field.
func (m *Model) submit() tea.Cmd {
	violations := m.validator.Validate(m.state, m.schema)
	if len(violations) == 0 {
		m.submitted = true
		m.quitting = true
		return tea.Quit
	}

	for i, f := range m.fields {
		if m.state.ErrorFor(f.Name()) == "" {
			continue
		}
		if i != m.focus {
			m.fields[m.focus].Blur()
			m.focus = i
			return m.fields[i].Focus()
		}
		break
	}
	return nil
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(m.styles.Title.Render(m.title))
		b.WriteString("\n\n")
	}

	for i, f := range m.fields {
		b.WriteString(f.View())
		if i < len(m.fields)-1 {
			b.WriteString("\n\n")
		}
	}

	if m.state.HasErrors() {
		b.WriteString("\n\n")
		b.WriteString(m.styles.ErrorText.Render("Please fix the highlighted fields."))
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render("tab next · shift+tab back · ctrl+s submit · ctrl+c quit"))

	return b.String()
}
