package field

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/UnknownOlympus/proteus/internal/geolocate"
	"github.com/UnknownOlympus/proteus/internal/models"
)

// locationResetDelay is how long a failed geolocation attempt keeps its
// terminal state before the field silently returns to idle.
const locationResetDelay = time.Second

// Address is the autocomplete input behind the address kind. Keystrokes are
// debounced into suggestion queries, a picked suggestion is resolved to a
// full address value, and ctrl+l runs the one-shot geolocation flow. When
// the provider fails, the field degrades to plain manual entry for the rest
// of the session and every keystroke commits the raw text.
type Address struct {
	cfg      Config
	input    textinput.Model
	spin     spinner.Model
	resolver AddressResolver

	seq         int // bumped per keystroke; stale async results are dropped
	suggestions []models.Suggestion
	cursor      int
	open        bool

	manual    bool // latched on the first provider failure
	resolving bool

	locState models.LocationState
	located  bool // AutoLocate has fired once

	focused bool
}

// The async messages of the flow all carry the field name so that a form
// broadcasting them to every field only ever lands on the one that asked.
type (
	debounceMsg struct {
		name string
		seq  int
	}

	suggestionsMsg struct {
		name        string
		seq         int
		suggestions []models.Suggestion
		err         error
	}

	resolvedMsg struct {
		name  string
		seq   int
		value models.AddressValue
	}

	positionMsg struct {
		name   string
		coords models.Coordinates
		err    error
	}

	locatedMsg struct {
		name  string
		value models.AddressValue
		sug   models.Suggestion
		err   error
	}

	locationResetMsg struct {
		name string
	}
)

func newAddress(cfg Config) *Address {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.MinQueryLen <= 0 {
		cfg.MinQueryLen = DefaultMinQueryLen
	}

	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	ti.PromptStyle = cfg.Styles.Prompt
	ti.PlaceholderStyle = cfg.Styles.Placeholder
	ti.Cursor.Style = cfg.Styles.Cursor
	if cfg.CharLimit > 0 {
		ti.CharLimit = cfg.CharLimit
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cfg.Styles.Spinner

	ad := &Address{
		cfg:      cfg,
		input:    ti,
		spin:     sp,
		resolver: cfg.Resolver,
		locState: models.LocationIdle,
	}

	if value, ok := cfg.Binding.Value(); ok {
		if v, ok := value.(models.AddressValue); ok && v.IsSet() {
			ad.input.SetValue(v.AddressText())
		}
	}

	return ad
}

func (ad *Address) Init() tea.Cmd {
	return textinput.Blink
}

func (ad *Address) Update(msg tea.Msg) (Input, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !ad.focused {
			return ad, nil
		}
		return ad.handleKey(msg)

	case debounceMsg:
		if msg.name != ad.Name() || msg.seq != ad.seq {
			return ad, nil
		}
		return ad, ad.suggest(msg.seq, ad.input.Value())

	case suggestionsMsg:
		if msg.name != ad.Name() || msg.seq != ad.seq {
			return ad, nil
		}
		return ad.handleSuggestions(msg)

	case resolvedMsg:
		if msg.name != ad.Name() {
			return ad, nil
		}
		ad.resolving = false
		if msg.seq != ad.seq {
			return ad, nil
		}
		ad.input.SetValue(msg.value.AddressText())
		ad.cfg.Binding.OnChange(msg.value)
		return ad, nil

	case positionMsg:
		if msg.name != ad.Name() {
			return ad, nil
		}
		return ad.handlePosition(msg)

	case locatedMsg:
		if msg.name != ad.Name() {
			return ad, nil
		}
		return ad.handleLocated(msg)

	case locationResetMsg:
		if msg.name != ad.Name() {
			return ad, nil
		}
		if ad.locState == models.LocationDenied || ad.locState == models.LocationError {
			ad.locState = models.LocationIdle
		}
		return ad, nil

	case spinner.TickMsg:
		if !ad.busy() {
			return ad, nil
		}
		var cmd tea.Cmd
		ad.spin, cmd = ad.spin.Update(msg)
		return ad, cmd
	}

	var cmd tea.Cmd
	ad.input, cmd = ad.input.Update(msg)
	return ad, cmd
}

// handleKey routes a keystroke. The consent prompt is modal: while it is
// shown, only yes/no answers are accepted.
func (ad *Address) handleKey(msg tea.KeyMsg) (Input, tea.Cmd) {
	if ad.locState == models.LocationRequesting {
		switch msg.String() {
		case "y", "Y", "enter":
			ad.locState = models.LocationDetecting
			return ad, tea.Batch(ad.spin.Tick, ad.position())
		case "n", "N", "esc":
			ad.locState = models.LocationDenied
			return ad, ad.resetLocation()
		}
		return ad, nil
	}

	switch msg.String() {
	case "ctrl+l":
		if ad.locating() {
			return ad, nil
		}
		ad.locState = models.LocationRequesting
		return ad, nil

	case "up", "ctrl+k":
		if ad.open && ad.cursor > 0 {
			ad.cursor--
		}
		return ad, nil

	case "down", "ctrl+j":
		if ad.open && ad.cursor < len(ad.suggestions)-1 {
			ad.cursor++
		}
		return ad, nil

	case "enter":
		if !ad.open || ad.cursor >= len(ad.suggestions) {
			return ad, nil
		}
		picked := ad.suggestions[ad.cursor]
		ad.open = false
		ad.resolving = true
		ad.input.SetValue(picked.Description)
		return ad, tea.Batch(ad.spin.Tick, ad.resolve(ad.seq, picked))

	case "esc":
		ad.open = false
		return ad, nil
	}

	before := ad.input.Value()
	var cmd tea.Cmd
	ad.input, cmd = ad.input.Update(msg)
	after := ad.input.Value()
	if after == before {
		return ad, cmd
	}

	return ad, tea.Batch(cmd, ad.typed(after))
}

// typed reacts to an edited draft: manual mode commits it directly, an
// emptied input clears the bound value, and a long enough query arms the
// debounce timer.
func (ad *Address) typed(text string) tea.Cmd {
	ad.seq++
	if ad.locState == models.LocationSuccess {
		ad.locState = models.LocationIdle
	}

	if ad.manual {
		ad.commitManual(text)
		return nil
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		ad.open = false
		ad.suggestions = nil
		ad.cfg.Binding.OnChange(models.ClearedAddressValue())
		return nil
	}
	if len([]rune(trimmed)) < ad.cfg.MinQueryLen {
		ad.open = false
		return nil
	}

	seq := ad.seq
	name := ad.Name()
	return tea.Tick(ad.cfg.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{name: name, seq: seq}
	})
}

// commitManual writes the raw draft with an undefined position.
func (ad *Address) commitManual(text string) {
	if strings.TrimSpace(text) == "" {
		ad.cfg.Binding.OnChange(models.ClearedAddressValue())
		return
	}
	ad.cfg.Binding.OnChange(models.NewAddressValue(text, models.Coordinates{}))
}

func (ad *Address) handleSuggestions(msg suggestionsMsg) (Input, tea.Cmd) {
	if msg.err != nil {
		// One failed query disables autocomplete for the whole session;
		// the draft the user already typed becomes the value as-is.
		ad.manual = true
		ad.open = false
		ad.suggestions = nil
		ad.commitManual(ad.input.Value())
		return ad, nil
	}

	ad.suggestions = msg.suggestions
	ad.cursor = 0
	ad.open = len(msg.suggestions) > 0
	return ad, nil
}

func (ad *Address) handlePosition(msg positionMsg) (Input, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, geolocate.ErrPermissionDenied) {
			ad.locState = models.LocationDenied
		} else {
			ad.locState = models.LocationError
		}
		return ad, ad.resetLocation()
	}

	ad.locState = models.LocationGeocoding
	return ad, tea.Batch(ad.spin.Tick, ad.addressAt(msg.coords))
}

func (ad *Address) handleLocated(msg locatedMsg) (Input, tea.Cmd) {
	if msg.err != nil {
		ad.locState = models.LocationError
		return ad, ad.resetLocation()
	}

	ad.locState = models.LocationSuccess
	ad.input.SetValue(msg.value.AddressText())
	ad.cfg.Binding.OnChange(msg.value)
	ad.suggestions = []models.Suggestion{msg.sug}
	ad.cursor = 0
	ad.open = false
	return ad, nil
}

// suggest queries the provider off the update loop.
func (ad *Address) suggest(seq int, query string) tea.Cmd {
	ctx := ad.cfg.Context
	resolver := ad.resolver
	name := ad.Name()

	return func() tea.Msg {
		suggestions, err := resolver.Suggest(ctx, query)
		return suggestionsMsg{name: name, seq: seq, suggestions: suggestions, err: err}
	}
}

// resolve fetches place details of the picked suggestion off the update loop.
func (ad *Address) resolve(seq int, sug models.Suggestion) tea.Cmd {
	ctx := ad.cfg.Context
	resolver := ad.resolver
	name := ad.Name()

	return func() tea.Msg {
		return resolvedMsg{name: name, seq: seq, value: resolver.Resolve(ctx, sug)}
	}
}

// position acquires a device fix off the update loop.
func (ad *Address) position() tea.Cmd {
	ctx := ad.cfg.Context
	resolver := ad.resolver
	name := ad.Name()

	return func() tea.Msg {
		coords, err := resolver.Position(ctx)
		return positionMsg{name: name, coords: coords, err: err}
	}
}

// addressAt reverse geocodes a fix off the update loop.
func (ad *Address) addressAt(coords models.Coordinates) tea.Cmd {
	ctx := ad.cfg.Context
	resolver := ad.resolver
	name := ad.Name()

	return func() tea.Msg {
		value, sug, err := resolver.AddressAt(ctx, coords)
		return locatedMsg{name: name, value: value, sug: sug, err: err}
	}
}

// resetLocation schedules the silent return to idle after a failed attempt.
func (ad *Address) resetLocation() tea.Cmd {
	name := ad.Name()
	return tea.Tick(locationResetDelay, func(time.Time) tea.Msg {
		return locationResetMsg{name: name}
	})
}

func (ad *Address) busy() bool {
	return ad.resolving || ad.locState == models.LocationDetecting || ad.locState == models.LocationGeocoding
}

func (ad *Address) locating() bool {
	switch ad.locState {
	case models.LocationRequesting, models.LocationDetecting, models.LocationGeocoding:
		return true
	default:
		return false
	}
}

func (ad *Address) View() string {
	st := ad.cfg.Styles

	var b strings.Builder
	b.WriteString(ad.input.View())

	if ad.locState == models.LocationRequesting {
		b.WriteByte('\n')
		b.WriteString(st.Prompt.Render("use current location? (y/n)"))
	}

	if ad.open {
		for row, sug := range ad.suggestions {
			b.WriteByte('\n')
			if ad.focused && row == ad.cursor {
				b.WriteString(st.Cursor.Render("> ") + st.SelectedOption.Render(sug.Description))
			} else {
				b.WriteString("  " + st.Option.Render(sug.Description))
			}
		}
	}

	status := ""
	switch {
	case ad.locState == models.LocationDetecting:
		status = ad.spin.View() + "locating..."
	case ad.locState == models.LocationGeocoding:
		status = ad.spin.View() + "finding address..."
	case ad.resolving:
		status = ad.spin.View() + "resolving address..."
	case ad.focused && !ad.manual && ad.locState == models.LocationIdle:
		status = "ctrl+l: use current location"
	}

	return render(ad.cfg, ad.focused, b.String(), status)
}

func (ad *Address) Focus() tea.Cmd {
	ad.focused = true
	cmds := []tea.Cmd{ad.input.Focus()}

	if ad.cfg.AutoLocate && !ad.located {
		ad.located = true
		ad.locState = models.LocationRequesting
	}

	return tea.Batch(cmds...)
}

func (ad *Address) Blur() {
	ad.focused = false
	ad.open = false
	ad.input.Blur()
}

func (ad *Address) Name() string { return ad.cfg.Binding.Name() }
