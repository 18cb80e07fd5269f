package field

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestRating(t *testing.T) {
	t.Run("digits jump straight to a score", func(t *testing.T) {
		in, binding := newTestField(t, Config{Kind: KindRating})

		pressString(in, "4")

		assert.Equal(t, 4, binding.value)
	})

	t.Run("arrows adjust the score", func(t *testing.T) {
		in, binding := newTestField(t, Config{Kind: KindRating})

		pressString(in, "3")
		pressKey(in, tea.KeyRight)
		assert.Equal(t, 4, binding.value)

		pressKey(in, tea.KeyLeft)
		assert.Equal(t, 3, binding.value)
	})

	t.Run("zero clears to unanswered", func(t *testing.T) {
		in, binding := newTestField(t, Config{Kind: KindRating})

		pressString(in, "2")
		pressString(in, "0")

		assert.True(t, binding.set)
		assert.Nil(t, binding.value)
	})

	t.Run("ignores scores above the maximum", func(t *testing.T) {
		in, binding := newTestField(t, Config{Kind: KindRating, MaxStars: 3})

		pressString(in, "5")

		assert.False(t, binding.set)
	})

	t.Run("renders filled and empty stars", func(t *testing.T) {
		in, _ := newTestField(t, Config{Kind: KindRating})

		pressString(in, "2")

		view := in.View()
		assert.Contains(t, view, "★")
		assert.Contains(t, view, "☆")
		assert.Contains(t, view, "2/5")
	})
}
