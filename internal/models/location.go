package models

// LocationState tracks the one-shot geolocation flow of an address field.
// The state is transient and component-local: it is reset whenever the field
// is constructed and never persisted.
type LocationState string

const (
	// LocationIdle means no geolocation attempt is in progress.
	LocationIdle LocationState = "idle"
	// LocationRequesting means consent is being checked before any fix is read.
	LocationRequesting LocationState = "requesting"
	// LocationDetecting means a position fix is being read.
	LocationDetecting LocationState = "detecting"
	// LocationGeocoding means the fix is being reverse-geocoded to an address.
	LocationGeocoding LocationState = "geocoding"
	// LocationSuccess means the flow completed and the field value was populated.
	LocationSuccess LocationState = "success"
	// LocationError means some stage failed; the field silently returns to idle.
	LocationError LocationState = "error"
	// LocationDenied means consent was not granted for reading a position fix.
	LocationDenied LocationState = "denied"
)
