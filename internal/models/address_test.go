package models_test

import (
	"testing"

	"github.com/UnknownOlympus/proteus/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCoordinatesResolved(t *testing.T) {
	t.Run("zero value is the unset sentinel", func(t *testing.T) {
		assert.False(t, models.Coordinates{}.Resolved())
	})

	t.Run("any non-zero component counts as resolved", func(t *testing.T) {
		assert.True(t, models.Coordinates{Latitude: 50.45}.Resolved())
		assert.True(t, models.Coordinates{Longitude: 30.52}.Resolved())
		assert.True(t, models.Coordinates{Latitude: 50.45, Longitude: 30.52}.Resolved())
	})
}

func TestAddressValue(t *testing.T) {
	t.Run("zero value means no selection was made", func(t *testing.T) {
		var v models.AddressValue

		assert.False(t, v.IsSet())
		assert.Empty(t, v.AddressText())
		assert.False(t, v.Position.Resolved())
	})

	t.Run("cleared value holds an empty address, not an unset one", func(t *testing.T) {
		v := models.ClearedAddressValue()

		assert.True(t, v.IsSet())
		assert.Empty(t, v.AddressText())
		assert.False(t, v.Position.Resolved())
	})

	t.Run("resolved value carries address and position", func(t *testing.T) {
		v := models.NewAddressValue("Khreshchatyk St, 1, Kyiv", models.Coordinates{Latitude: 50.45, Longitude: 30.52})

		assert.True(t, v.IsSet())
		assert.Equal(t, "Khreshchatyk St, 1, Kyiv", v.AddressText())
		assert.True(t, v.Position.Resolved())
	})
}
