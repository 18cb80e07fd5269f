package models

// Option is a single choice offered by select-style fields.
type Option struct {
	Label string // Label is the text shown to the user.
	Value string // Value is committed to form state when the option is chosen.
}

// OptionsFrom builds options whose label and value are the same string.
func OptionsFrom(values ...string) []Option {
	opts := make([]Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, Option{Label: v, Value: v})
	}
	return opts
}
