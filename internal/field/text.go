package field

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nyaruka/phonenumbers"
)

// Text is the single-line input behind the text-style kinds. The kinds
// differ in echo mode, accepted characters, and in how the typed text is
// committed to form state.
type Text struct {
	cfg     Config
	input   textinput.Model
	focused bool
}

func newText(cfg Config) *Text {
	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	ti.CharLimit = cfg.CharLimit
	ti.PromptStyle = cfg.Styles.Prompt
	ti.PlaceholderStyle = cfg.Styles.Placeholder
	ti.Cursor.Style = cfg.Styles.Cursor

	if cfg.Kind == KindPassword {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}

	if value, ok := cfg.Binding.Value(); ok {
		if s, ok := value.(string); ok {
			ti.SetValue(s)
		}
	}

	return &Text{cfg: cfg, input: ti}
}

func (t *Text) Init() tea.Cmd {
	return textinput.Blink
}

func (t *Text) Update(msg tea.Msg) (Input, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !t.accepts(key) {
		return t, nil
	}

	before := t.input.Value()
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	if after := t.input.Value(); after != before {
		t.commit(after)
	}

	return t, cmd
}

func (t *Text) View() string {
	return render(t.cfg, t.focused, t.input.View(), "")
}

func (t *Text) Focus() tea.Cmd {
	t.focused = true
	return t.input.Focus()
}

func (t *Text) Blur() {
	t.focused = false
	t.input.Blur()

	// Phone numbers are normalized once typing is done rather than while
	// the user is mid-number.
	if t.cfg.Kind == KindPhone {
		normalized := normalizeE164(t.input.Value(), t.region())
		if normalized != t.input.Value() {
			t.input.SetValue(normalized)
		}
		t.commit(normalized)
	}
}

func (t *Text) Name() string {
	return t.cfg.Binding.Name()
}

// accepts filters rune keys for the kinds restricted to a character set.
func (t *Text) accepts(key tea.KeyMsg) bool {
	if key.Type != tea.KeyRunes && key.Type != tea.KeySpace {
		return true
	}
	filter := runeFilter(t.cfg.Kind)
	if filter == nil {
		return true
	}
	for _, r := range key.Runes {
		if !filter(r) {
			return false
		}
	}
	return true
}

// commit writes the typed text to form state in the shape the kind owes:
// plain string, parsed number, token list, or normalized phone number.
func (t *Text) commit(raw string) {
	switch t.cfg.Kind {
	case KindInteger:
		if raw == "" || raw == "-" {
			t.cfg.Binding.OnChange(nil)
			return
		}
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			t.cfg.Binding.OnChange(n)
			return
		}
		t.cfg.Binding.OnChange(raw)
	case KindNumber:
		if raw == "" || raw == "-" || raw == "." {
			t.cfg.Binding.OnChange(nil)
			return
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			t.cfg.Binding.OnChange(f)
			return
		}
		t.cfg.Binding.OnChange(raw)
	case KindTags:
		tags := splitTags(raw)
		if len(tags) == 0 {
			t.cfg.Binding.OnChange(nil)
			return
		}
		t.cfg.Binding.OnChange(tags)
	default:
		t.cfg.Binding.OnChange(raw)
	}
}

func (t *Text) region() string {
	if t.cfg.Region != "" {
		return t.cfg.Region
	}
	return DefaultPhoneRegion
}

// runeFilter returns the accepted-character predicate for restricted kinds,
// nil when every rune is fine.
func runeFilter(kind Kind) func(rune) bool {
	switch kind {
	case KindInteger:
		return func(r rune) bool {
			return (r >= '0' && r <= '9') || r == '-'
		}
	case KindNumber:
		return func(r rune) bool {
			return (r >= '0' && r <= '9') || r == '-' || r == '.'
		}
	case KindColor:
		return func(r rune) bool {
			return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') || r == '#'
		}
	case KindPhone:
		return func(r rune) bool {
			return (r >= '0' && r <= '9') || r == '+' || r == ' ' || r == '-' || r == '(' || r == ')'
		}
	default:
		return nil
	}
}

// splitTags tokenizes comma-separated input, dropping blanks.
func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// normalizeE164 formats a phone number to E.164. If parsing fails, it
// returns the trimmed input.
func normalizeE164(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, region)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}
