package field

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Date is the input behind the date and time kinds: a layout-masked text
// entry where up/down steps the parsed value.
type Date struct {
	cfg     Config
	input   textinput.Model
	layout  string
	accepts func(rune) bool
	focused bool
}

func newDate(cfg Config) *Date {
	layout := cfg.Layout
	if layout == "" {
		if cfg.Kind == KindTime {
			layout = DefaultTimeLayout
		} else {
			layout = DefaultDateLayout
		}
	}

	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	if ti.Placeholder == "" {
		ti.Placeholder = layout
	}
	ti.CharLimit = len(layout)
	ti.PromptStyle = cfg.Styles.Prompt
	ti.PlaceholderStyle = cfg.Styles.Placeholder
	ti.Cursor.Style = cfg.Styles.Cursor

	if value, ok := cfg.Binding.Value(); ok {
		if s, ok := value.(string); ok {
			ti.SetValue(s)
		}
	}

	return &Date{
		cfg:     cfg,
		input:   ti,
		layout:  layout,
		accepts: layoutFilter(layout),
	}
}

func (d *Date) Init() tea.Cmd {
	return textinput.Blink
}

func (d *Date) Update(msg tea.Msg) (Input, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up":
			return d.step(1)
		case "down":
			return d.step(-1)
		}
		if (key.Type == tea.KeyRunes || key.Type == tea.KeySpace) && !d.acceptsRunes(key.Runes) {
			return d, nil
		}
	}

	before := d.input.Value()
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	if after := d.input.Value(); after != before {
		d.cfg.Binding.OnChange(after)
	}

	return d, cmd
}

// step moves the value one unit: a day for dates, a minute for times.
// An empty field starts from the current moment; unparseable text is left
// alone.
func (d *Date) step(direction int) (Input, tea.Cmd) {
	current := time.Now()
	if text := d.input.Value(); text != "" {
		parsed, err := time.Parse(d.layout, text)
		if err != nil {
			return d, nil
		}
		current = parsed
	}

	unit := 24 * time.Hour
	if d.cfg.Kind == KindTime {
		unit = time.Minute
	}

	next := current.Add(time.Duration(direction) * unit)
	d.input.SetValue(next.Format(d.layout))
	d.cfg.Binding.OnChange(d.input.Value())

	return d, nil
}

func (d *Date) View() string {
	return render(d.cfg, d.focused, d.input.View(), "")
}

func (d *Date) Focus() tea.Cmd {
	d.focused = true
	return d.input.Focus()
}

func (d *Date) Blur() {
	d.focused = false
	d.input.Blur()
}

func (d *Date) Name() string {
	return d.cfg.Binding.Name()
}

func (d *Date) acceptsRunes(runes []rune) bool {
	for _, r := range runes {
		if !d.accepts(r) {
			return false
		}
	}
	return true
}

// layoutFilter accepts digits plus every separator rune the layout uses.
func layoutFilter(layout string) func(rune) bool {
	seps := make(map[rune]bool)
	for _, r := range layout {
		if r < '0' || r > '9' {
			seps[r] = true
		}
	}
	return func(r rune) bool {
		return (r >= '0' && r <= '9') || seps[r]
	}
}
