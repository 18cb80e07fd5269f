package field

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/UnknownOlympus/proteus/internal/models"
)

// Choose is the single-select list behind the select kind. Typing narrows
// the options, arrows move the cursor, enter commits the highlighted value.
type Choose struct {
	cfg      Config
	cursor   int
	selected int // index into cfg.Options, -1 until a choice is made
	filter   string
	focused  bool
}

func newChoose(cfg Config) *Choose {
	c := &Choose{cfg: cfg, selected: -1}
	if value, ok := cfg.Binding.Value(); ok {
		if s, ok := value.(string); ok {
			for i, opt := range cfg.Options {
				if opt.Value == s {
					c.selected = i
					c.cursor = i
					break
				}
			}
		}
	}
	return c
}

func (c *Choose) Init() tea.Cmd { return nil }

func (c *Choose) Update(msg tea.Msg) (Input, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !c.focused {
		return c, nil
	}

	visible := filterOptions(c.cfg.Options, c.filter)

	switch key.String() {
	case "up", "ctrl+k":
		if c.cursor > 0 {
			c.cursor--
		}
	case "down", "ctrl+j":
		if c.cursor < len(visible)-1 {
			c.cursor++
		}
	case "enter":
		if c.cursor < len(visible) {
			c.selected = visible[c.cursor]
			c.cfg.Binding.OnChange(c.cfg.Options[c.selected].Value)
		}
	case "backspace":
		if c.filter != "" {
			c.filter = c.filter[:len(c.filter)-1]
			c.cursor = 0
		}
	case "esc":
		c.filter = ""
		c.cursor = 0
	default:
		if key.Type == tea.KeyRunes {
			c.filter += string(key.Runes)
			c.cursor = 0
		}
	}

	return c, nil
}

func (c *Choose) View() string {
	st := c.cfg.Styles
	visible := filterOptions(c.cfg.Options, c.filter)

	var b strings.Builder
	for row, idx := range visible {
		opt := c.cfg.Options[idx]
		line := "  " + opt.Label
		if c.focused && row == c.cursor {
			line = st.Cursor.Render("> ") + st.SelectedOption.Render(opt.Label)
		} else if idx == c.selected {
			line = "  " + st.SelectedOption.Render(opt.Label)
		} else {
			line = "  " + st.Option.Render(opt.Label)
		}
		b.WriteString(line)
		if row < len(visible)-1 {
			b.WriteByte('\n')
		}
	}
	if len(visible) == 0 {
		b.WriteString(st.Muted.Render("no matches"))
	}

	status := ""
	if c.filter != "" {
		status = "filter: " + c.filter
	}
	return render(c.cfg, c.focused, b.String(), status)
}

func (c *Choose) Focus() tea.Cmd {
	c.focused = true
	return nil
}

func (c *Choose) Blur() {
	c.focused = false
	c.filter = ""
	c.cursor = 0
}

func (c *Choose) Name() string { return c.cfg.Binding.Name() }

// MultiChoose is the multiselect variant: space toggles the highlighted
// option and the committed value is the slice of checked option values.
type MultiChoose struct {
	cfg     Config
	cursor  int
	checked map[int]bool
	filter  string
	focused bool
}

func newMultiChoose(cfg Config) *MultiChoose {
	m := &MultiChoose{cfg: cfg, checked: make(map[int]bool)}
	if value, ok := cfg.Binding.Value(); ok {
		if picked, ok := value.([]string); ok {
			for _, v := range picked {
				for i, opt := range cfg.Options {
					if opt.Value == v {
						m.checked[i] = true
					}
				}
			}
		}
	}
	return m
}

func (m *MultiChoose) Init() tea.Cmd { return nil }

func (m *MultiChoose) Update(msg tea.Msg) (Input, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	visible := filterOptions(m.cfg.Options, m.filter)

	switch key.String() {
	case "up", "ctrl+k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "ctrl+j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case " ", "enter":
		if m.cursor < len(visible) {
			idx := visible[m.cursor]
			m.checked[idx] = !m.checked[idx]
			m.commit()
		}
	case "backspace":
		if m.filter != "" {
			m.filter = m.filter[:len(m.filter)-1]
			m.cursor = 0
		}
	case "esc":
		m.filter = ""
		m.cursor = 0
	default:
		if key.Type == tea.KeyRunes {
			m.filter += string(key.Runes)
			m.cursor = 0
		}
	}

	return m, nil
}

// commit writes the checked values in declaration order, or nil when the
// set is empty so required validation treats it as unanswered.
func (m *MultiChoose) commit() {
	var picked []string
	for i, opt := range m.cfg.Options {
		if m.checked[i] {
			picked = append(picked, opt.Value)
		}
	}
	m.cfg.Binding.OnChange(picked)
}

func (m *MultiChoose) View() string {
	st := m.cfg.Styles
	visible := filterOptions(m.cfg.Options, m.filter)

	var b strings.Builder
	for row, idx := range visible {
		opt := m.cfg.Options[idx]
		box := "[ ] "
		if m.checked[idx] {
			box = "[x] "
		}
		label := st.Option.Render(opt.Label)
		if m.checked[idx] {
			label = st.SelectedOption.Render(opt.Label)
		}
		prefix := "  "
		if m.focused && row == m.cursor {
			prefix = st.Cursor.Render("> ")
		}
		b.WriteString(prefix + box + label)
		if row < len(visible)-1 {
			b.WriteByte('\n')
		}
	}
	if len(visible) == 0 {
		b.WriteString(st.Muted.Render("no matches"))
	}

	status := ""
	if m.filter != "" {
		status = "filter: " + m.filter
	}
	return render(m.cfg, m.focused, b.String(), status)
}

func (m *MultiChoose) Focus() tea.Cmd {
	m.focused = true
	return nil
}

func (m *MultiChoose) Blur() {
	m.focused = false
	m.filter = ""
	m.cursor = 0
}

func (m *MultiChoose) Name() string { return m.cfg.Binding.Name() }

// filterOptions returns the indexes of options whose label contains the
// filter, case-insensitively. An empty filter keeps every option.
func filterOptions(options []models.Option, filter string) []int {
	visible := make([]int, 0, len(options))
	needle := strings.ToLower(filter)
	for i, opt := range options {
		if needle == "" || strings.Contains(strings.ToLower(opt.Label), needle) {
			visible = append(visible, i)
		}
	}
	return visible
}
