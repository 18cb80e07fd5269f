package field

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// TextArea is the multiline input behind the textarea kind.
type TextArea struct {
	cfg     Config
	input   textarea.Model
	focused bool
}

func newTextArea(cfg Config) *TextArea {
	return &TextArea{cfg: cfg, input: newTextAreaModel(cfg)}
}

// newTextAreaModel builds the bubbles textarea shared with the assisted kind.
func newTextAreaModel(cfg Config) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = cfg.Placeholder
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	if cfg.CharLimit > 0 {
		ta.CharLimit = cfg.CharLimit
	}

	if value, ok := cfg.Binding.Value(); ok {
		if s, ok := value.(string); ok {
			ta.SetValue(s)
		}
	}

	return ta
}

func (t *TextArea) Init() tea.Cmd {
	return textarea.Blink
}

func (t *TextArea) Update(msg tea.Msg) (Input, tea.Cmd) {
	before := t.input.Value()
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	if after := t.input.Value(); after != before {
		t.cfg.Binding.OnChange(after)
	}

	return t, cmd
}

func (t *TextArea) View() string {
	return render(t.cfg, t.focused, t.input.View(), "")
}

func (t *TextArea) Focus() tea.Cmd {
	t.focused = true
	return t.input.Focus()
}

func (t *TextArea) Blur() {
	t.focused = false
	t.input.Blur()
}

func (t *TextArea) Name() string {
	return t.cfg.Binding.Name()
}
