package models

// Suggestion is a single autocomplete candidate for an address query. Suggestions
// are ephemeral: they are fetched from the places provider per debounced keystroke
// and replaced wholesale by the next query.
type Suggestion struct {
	PlaceID     string // PlaceID is the provider-specific opaque token identifying the place.
	Description string // Description is the human-readable suggestion line.
}
