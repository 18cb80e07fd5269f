package models

// Coordinates represents a geographical point defined by its latitude and longitude.
// The zero value {0,0} is a sentinel meaning "no resolved location" and must be
// treated as unset by consumers, never as a point in the Gulf of Guinea.
type Coordinates struct {
	Latitude  float64 // Latitude of the geographical point.
	Longitude float64 // Longitude of the geographical point.
}

// Resolved reports whether the coordinates hold an actual resolved location
// rather than the {0,0} sentinel.
func (c Coordinates) Resolved() bool {
	return c.Latitude != 0 || c.Longitude != 0
}
