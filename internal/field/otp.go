package field

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// OTP is the one-time-code input: a fixed row of digit slots filled left
// to right. The committed value is the digits typed so far as a string.
type OTP struct {
	cfg     Config
	digits  int
	code    string
	focused bool
}

func newOTP(cfg Config) *OTP {
	o := &OTP{cfg: cfg, digits: cfg.Digits}
	if o.digits <= 0 {
		o.digits = DefaultOTPDigits
	}
	if value, ok := cfg.Binding.Value(); ok {
		if s, ok := value.(string); ok && len(s) <= o.digits {
			o.code = s
		}
	}
	return o
}

func (o *OTP) Init() tea.Cmd { return nil }

func (o *OTP) Update(msg tea.Msg) (Input, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !o.focused {
		return o, nil
	}

	switch key.String() {
	case "backspace":
		if o.code != "" {
			o.code = o.code[:len(o.code)-1]
			o.cfg.Binding.OnChange(o.code)
		}
	case "esc", "ctrl+u":
		if o.code != "" {
			o.code = ""
			o.cfg.Binding.OnChange(o.code)
		}
	default:
		if key.Type != tea.KeyRunes {
			return o, nil
		}
		for _, r := range key.Runes {
			if r < '0' || r > '9' || len(o.code) >= o.digits {
				continue
			}
			o.code += string(r)
		}
		o.cfg.Binding.OnChange(o.code)
	}

	return o, nil
}

func (o *OTP) View() string {
	st := o.cfg.Styles

	cells := make([]string, 0, o.digits)
	for i := range o.digits {
		switch {
		case i < len(o.code):
			cells = append(cells, st.SelectedOption.Render("["+string(o.code[i])+"]"))
		case i == len(o.code) && o.focused:
			cells = append(cells, st.Cursor.Render("[_]"))
		default:
			cells = append(cells, st.Muted.Render("[ ]"))
		}
	}

	return render(o.cfg, o.focused, strings.Join(cells, " "), "")
}

func (o *OTP) Focus() tea.Cmd {
	o.focused = true
	return nil
}

func (o *OTP) Blur() {
	o.focused = false
}

func (o *OTP) Name() string { return o.cfg.Binding.Name() }
