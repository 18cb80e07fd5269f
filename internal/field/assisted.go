package field

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// Assisted is a textarea with an LLM rewrite action on ctrl+g. The draft is
// sent to the assist client in the background; a successful rewrite replaces
// the draft, a failed one leaves it untouched and only flips the status line.
type Assisted struct {
	cfg     Config
	input   textarea.Model
	spin    spinner.Model
	seq     int // request counter, stale rewrites are dropped
	busy    bool
	status  string
	focused bool
}

// rewriteMsg delivers an assist result back to the field that asked for it.
type rewriteMsg struct {
	name string
	seq  int
	text string
	err  error
}

func newAssisted(cfg Config) *Assisted {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cfg.Styles.Spinner

	return &Assisted{cfg: cfg, input: newTextAreaModel(cfg), spin: sp}
}

func (a *Assisted) Init() tea.Cmd {
	return textarea.Blink
}

func (a *Assisted) Update(msg tea.Msg) (Input, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+g" {
			if a.busy || a.input.Value() == "" {
				return a, nil
			}
			a.busy = true
			a.seq++
			a.status = ""
			return a, tea.Batch(a.spin.Tick, a.rewrite(a.seq, a.input.Value()))
		}

	case rewriteMsg:
		if msg.name != a.Name() || msg.seq != a.seq {
			return a, nil
		}
		a.busy = false
		if msg.err != nil {
			a.status = "assistant unavailable"
			return a, nil
		}
		a.input.SetValue(msg.text)
		a.cfg.Binding.OnChange(msg.text)
		a.status = "rewritten"
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if after := a.input.Value(); after != before {
		a.status = ""
		a.cfg.Binding.OnChange(after)
	}

	return a, cmd
}

// rewrite runs the assist call off the update loop.
func (a *Assisted) rewrite(seq int, draft string) tea.Cmd {
	ctx := a.cfg.Context
	client := a.cfg.Assist
	prompt := a.cfg.AssistPrompt
	name := a.Name()

	return func() tea.Msg {
		text, err := client.Rewrite(ctx, prompt, draft)
		return rewriteMsg{name: name, seq: seq, text: text, err: err}
	}
}

func (a *Assisted) View() string {
	status := a.status
	switch {
	case a.busy:
		status = a.spin.View() + "rewriting..."
	case a.focused && status == "":
		status = "ctrl+g: improve writing"
	}
	return render(a.cfg, a.focused, a.input.View(), status)
}

func (a *Assisted) Focus() tea.Cmd {
	a.focused = true
	return a.input.Focus()
}

func (a *Assisted) Blur() {
	a.focused = false
	a.input.Blur()
}

func (a *Assisted) Name() string { return a.cfg.Binding.Name() }
