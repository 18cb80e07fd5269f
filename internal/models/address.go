package models

// Place is a resolved place: the provider-formatted address line and its location.
type Place struct {
	FormattedAddress string      // FormattedAddress is the human-readable address returned by the provider.
	Location         Coordinates // Location is the geographical position of the place.
}

// AddressValue is the value an address field commits to form state. It is produced
// by suggestion selection, by geolocation, or by manual entry, and lives only in
// form state for the lifetime of the form.
//
// Address is nil while no selection has been made and points to the empty string
// after the field was cleared. Position holds the {0,0} sentinel whenever no
// coordinate was resolved for the address.
type AddressValue struct {
	Address  *string     // Address is the formatted address, nil when unset.
	Position Coordinates // Position is the resolved location, sentinel when unknown.
}

// NewAddressValue builds a value holding the given address text and position.
func NewAddressValue(address string, position Coordinates) AddressValue {
	return AddressValue{Address: &address, Position: position}
}

// ClearedAddressValue is the value committed when the field is emptied:
// an empty address with the sentinel position.
func ClearedAddressValue() AddressValue {
	empty := ""
	return AddressValue{Address: &empty}
}

// AddressText returns the address line, or the empty string when unset.
func (v AddressValue) AddressText() string {
	if v.Address == nil {
		return ""
	}
	return *v.Address
}

// IsSet reports whether any selection, location fix, or manual entry was made.
func (v AddressValue) IsSet() bool {
	return v.Address != nil
}
