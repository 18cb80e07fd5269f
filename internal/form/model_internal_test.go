package form

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnknownOlympus/proteus/internal/field"
)

// recordingField is a minimal field.Input that remembers what reached it.
type recordingField struct {
	name    string
	msgs    []tea.Msg
	focused bool
}

func (f *recordingField) Init() tea.Cmd { return nil }

func (f *recordingField) Update(msg tea.Msg) (field.Input, tea.Cmd) {
	f.msgs = append(f.msgs, msg)
	return f, nil
}

func (f *recordingField) View() string { return f.name }

func (f *recordingField) Focus() tea.Cmd {
	f.focused = true
	return nil
}

func (f *recordingField) Blur() { f.focused = false }

func (f *recordingField) Name() string { return f.name }

func newRecordingForm(t *testing.T, names ...string) (*Model, []*recordingField) {
	t.Helper()

	fields := make([]*recordingField, 0, len(names))
	inputs := make([]field.Input, 0, len(names))
	for _, name := range names {
		f := &recordingField{name: name}
		fields = append(fields, f)
		inputs = append(inputs, f)
	}

	m, err := New(Config{State: NewState(), Fields: inputs})
	require.NoError(t, err)
	m.Init()

	return m, fields
}

func textField(t *testing.T, state *State, name string) field.Input {
	t.Helper()

	in, err := field.New(field.Config{Kind: field.KindText, Binding: state.Bind(name)})
	require.NoError(t, err)
	return in
}

func TestModel_Routing(t *testing.T) {
	t.Run("requires at least one field", func(t *testing.T) {
		_, err := New(Config{State: NewState()})

		require.ErrorIs(t, err, ErrNoFields)
	})

	t.Run("focuses the first field on init", func(t *testing.T) {
		_, fields := newRecordingForm(t, "first", "second")

		assert.True(t, fields[0].focused)
		assert.False(t, fields[1].focused)
	})

	t.Run("routes keys to the focused field only", func(t *testing.T) {
		m, fields := newRecordingForm(t, "first", "second")

		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})

		assert.Len(t, fields[0].msgs, 1)
		assert.Empty(t, fields[1].msgs)
	})

	t.Run("broadcasts other messages to every field", func(t *testing.T) {
		m, fields := newRecordingForm(t, "first", "second")

		type asyncResult struct{}
		m.Update(asyncResult{})

		assert.Len(t, fields[0].msgs, 1)
		assert.Len(t, fields[1].msgs, 1)
	})

	t.Run("tab cycles focus and wraps around", func(t *testing.T) {
		m, fields := newRecordingForm(t, "a", "b", "c")

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		assert.False(t, fields[0].focused)
		assert.True(t, fields[1].focused)

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		assert.True(t, fields[0].focused)

		m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
		assert.True(t, fields[2].focused)
	})

	t.Run("ctrl+c aborts without submitting", func(t *testing.T) {
		m, _ := newRecordingForm(t, "only")

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.False(t, m.Submitted())
	})
}

func TestModel_Submit(t *testing.T) {
	t.Run("a clean state submits and quits", func(t *testing.T) {
		state := NewState()
		m, err := New(Config{
			State:  state,
			Schema: Schema{"name": "required"},
			Fields: []field.Input{textField(t, state, "name")},
		})
		require.NoError(t, err)
		m.Init()

		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Jane")})
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.True(t, m.Submitted())

		value, ok := state.Get("name")
		require.True(t, ok)
		assert.Equal(t, "Jane", value)
	})

	t.Run("violations keep the form open and focus the offender", func(t *testing.T) {
		state := NewState()
		m, err := New(Config{
			State: state,
			Schema: Schema{
				"name":  "required",
				"email": "required,email",
			},
			Fields: []field.Input{
				textField(t, state, "name"),
				textField(t, state, "email"),
			},
		})
		require.NoError(t, err)
		m.Init()

		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Jane")})
		m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

		assert.False(t, m.Submitted())
		assert.Equal(t, 1, m.focus)
		assert.Equal(t, "This field is required", state.ErrorFor("email"))
		assert.Empty(t, state.ErrorFor("name"))
		assert.Contains(t, m.View(), "Please fix the highlighted fields.")
	})

	t.Run("a later clean submit clears old errors", func(t *testing.T) {
		state := NewState()
		m, err := New(Config{
			State:  state,
			Schema: Schema{"email": "required,email"},
			Fields: []field.Input{textField(t, state, "email")},
		})
		require.NoError(t, err)
		m.Init()

		m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
		require.True(t, state.HasErrors())

		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("jane@example.com")})
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

		require.NotNil(t, cmd)
		assert.True(t, m.Submitted())
		assert.False(t, state.HasErrors())
	})
}
