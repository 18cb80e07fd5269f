package field

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestOTP(t *testing.T) {
	t.Run("fills digit slots left to right", func(t *testing.T) {
		in, binding := newTestField(t, Config{Kind: KindOTP})

		typeText(t, in, "123")

		assert.Equal(t, "123", binding.value)
	})

	t.Run("ignores non-digits", func(t *testing.T) {
		in, binding := newTestField(t, Config{Kind: KindOTP})

		typeText(t, in, "a1b2")

		assert.Equal(t, "12", binding.value)
	})

	t.Run("stops at the slot count", func(t *testing.T) {
		in, binding := newTestField(t, Config{Kind: KindOTP, Digits: 4})

		typeText(t, in, "123456")

		assert.Equal(t, "1234", binding.value)
	})

	t.Run("backspace deletes the last digit", func(t *testing.T) {
		in, binding := newTestField(t, Config{Kind: KindOTP})

		typeText(t, in, "1234")
		pressKey(in, tea.KeyBackspace)

		assert.Equal(t, "123", binding.value)
	})

	t.Run("escape clears the code", func(t *testing.T) {
		in, binding := newTestField(t, Config{Kind: KindOTP})

		typeText(t, in, "99")
		pressKey(in, tea.KeyEsc)

		assert.Equal(t, "", binding.value)
	})

	t.Run("renders one cell per slot", func(t *testing.T) {
		in, _ := newTestField(t, Config{Kind: KindOTP, Digits: 4})

		typeText(t, in, "7")

		view := in.View()
		assert.Contains(t, view, "[7]")
		assert.Contains(t, view, "[_]")
		assert.Contains(t, view, "[ ]")
	})
}
