package field

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Toggle is the boolean input behind the checkbox and confirm kinds.
// A checkbox renders as a single box, a confirm as a yes/no pair; both
// commit a bool to the binding.
type Toggle struct {
	cfg     Config
	value   bool
	focused bool
}

func newToggle(cfg Config) *Toggle {
	t := &Toggle{cfg: cfg}
	if value, ok := cfg.Binding.Value(); ok {
		if b, ok := value.(bool); ok {
			t.value = b
		}
	}
	return t
}

func (t *Toggle) Init() tea.Cmd { return nil }

func (t *Toggle) Update(msg tea.Msg) (Input, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !t.focused {
		return t, nil
	}

	if t.cfg.Kind == KindConfirm {
		switch key.String() {
		case "left", "right", "h", "l", "tab":
			t.set(!t.value)
		case "y", "Y":
			t.set(true)
		case "n", "N":
			t.set(false)
		case " ", "enter":
			t.cfg.Binding.OnChange(t.value)
		}
		return t, nil
	}

	switch key.String() {
	case " ", "enter", "x":
		t.set(!t.value)
	}
	return t, nil
}

func (t *Toggle) set(v bool) {
	t.value = v
	t.cfg.Binding.OnChange(v)
}

func (t *Toggle) View() string {
	st := t.cfg.Styles

	if t.cfg.Kind == KindConfirm {
		yes, no := st.Option.Render("Yes"), st.Option.Render("No")
		if t.value {
			yes = st.SelectedOption.Render("[ Yes ]")
		} else {
			no = st.SelectedOption.Render("[ No ]")
		}
		return render(t.cfg, t.focused, yes+"  "+no, "")
	}

	box := "[ ]"
	if t.value {
		box = "[x]"
	}
	label := t.cfg.Placeholder
	if label != "" {
		label = " " + st.Option.Render(label)
	}
	return render(t.cfg, t.focused, box+label, "")
}

func (t *Toggle) Focus() tea.Cmd {
	t.focused = true
	return nil
}

func (t *Toggle) Blur() {
	t.focused = false
}

func (t *Toggle) Name() string { return t.cfg.Binding.Name() }
