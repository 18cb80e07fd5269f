package field

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const sliderWidth = 20

// Slider is the bounded numeric input behind the slider kind. Arrow keys
// move the value by Step inside [Min, Max]; the committed value is a float64.
type Slider struct {
	cfg     Config
	min     float64
	max     float64
	step    float64
	value   float64
	focused bool
}

func newSlider(cfg Config) *Slider {
	s := &Slider{cfg: cfg, min: cfg.Min, max: cfg.Max, step: cfg.Step}
	if s.max <= s.min {
		s.max = s.min + 100
	}
	if s.step <= 0 {
		s.step = 1
	}
	s.value = s.min

	if value, ok := cfg.Binding.Value(); ok {
		switch v := value.(type) {
		case float64:
			s.value = s.clamp(v)
		case int:
			s.value = s.clamp(float64(v))
		case int64:
			s.value = s.clamp(float64(v))
		}
	}
	return s
}

func (s *Slider) Init() tea.Cmd { return nil }

func (s *Slider) Update(msg tea.Msg) (Input, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !s.focused {
		return s, nil
	}

	switch key.String() {
	case "left", "h", "down":
		s.set(s.value - s.step)
	case "right", "l", "up":
		s.set(s.value + s.step)
	case "home":
		s.set(s.min)
	case "end":
		s.set(s.max)
	}
	return s, nil
}

func (s *Slider) set(v float64) {
	v = s.clamp(v)
	if v == s.value {
		return
	}
	s.value = v
	s.cfg.Binding.OnChange(v)
}

func (s *Slider) clamp(v float64) float64 {
	return math.Min(s.max, math.Max(s.min, v))
}

func (s *Slider) View() string {
	st := s.cfg.Styles

	ratio := (s.value - s.min) / (s.max - s.min)
	knob := int(math.Round(ratio * float64(sliderWidth-1)))

	var b strings.Builder
	for i := range sliderWidth {
		if i == knob {
			b.WriteString(st.SelectedOption.Render("●"))
		} else {
			b.WriteString(st.Muted.Render("─"))
		}
	}
	b.WriteString("  " + st.Option.Render(fmt.Sprintf("%g", s.value)))

	return render(s.cfg, s.focused, b.String(), "")
}

func (s *Slider) Focus() tea.Cmd {
	s.focused = true
	return nil
}

func (s *Slider) Blur() {
	s.focused = false
}

func (s *Slider) Name() string { return s.cfg.Binding.Name() }
