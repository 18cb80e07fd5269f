package field

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Rating is the star picker behind the rating kind. Arrows adjust the
// score, digit keys jump to it, zero clears. The committed value is an int.
type Rating struct {
	cfg     Config
	stars   int
	value   int // 0 means unanswered
	focused bool
}

func newRating(cfg Config) *Rating {
	r := &Rating{cfg: cfg, stars: cfg.MaxStars}
	if r.stars <= 0 {
		r.stars = DefaultMaxStars
	}
	if value, ok := cfg.Binding.Value(); ok {
		if v, ok := value.(int); ok && v >= 0 && v <= r.stars {
			r.value = v
		}
	}
	return r
}

func (r *Rating) Init() tea.Cmd { return nil }

func (r *Rating) Update(msg tea.Msg) (Input, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !r.focused {
		return r, nil
	}

	switch s := key.String(); s {
	case "left", "h", "down":
		if r.value > 0 {
			r.set(r.value - 1)
		}
	case "right", "l", "up":
		if r.value < r.stars {
			r.set(r.value + 1)
		}
	case "0", "backspace":
		r.set(0)
	default:
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if v := int(s[0] - '0'); v <= r.stars {
				r.set(v)
			}
		}
	}
	return r, nil
}

// set commits the score, or nil when cleared so the path reads as unanswered.
func (r *Rating) set(v int) {
	if v == r.value {
		return
	}
	r.value = v
	if v == 0 {
		r.cfg.Binding.OnChange(nil)
		return
	}
	r.cfg.Binding.OnChange(v)
}

func (r *Rating) View() string {
	st := r.cfg.Styles

	var b strings.Builder
	for i := 1; i <= r.stars; i++ {
		if i <= r.value {
			b.WriteString(st.Warning.Render("★ "))
		} else {
			b.WriteString(st.Muted.Render("☆ "))
		}
	}
	if r.value > 0 {
		b.WriteString(st.Option.Render(fmt.Sprintf(" %d/%d", r.value, r.stars)))
	}

	return render(r.cfg, r.focused, b.String(), "")
}

func (r *Rating) Focus() tea.Cmd {
	r.focused = true
	return nil
}

func (r *Rating) Blur() {
	r.focused = false
}

func (r *Rating) Name() string { return r.cfg.Binding.Name() }
