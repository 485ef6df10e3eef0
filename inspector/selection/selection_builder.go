package selection

import "github.com/Carmen-Shannon/oxy-loupe/inspector/skin"

// SelectorBuilderOption is a functional option for configuring a Selector via NewSelector.
type SelectorBuilderOption func(*selector)

// WithValidator sets the validator used for skin reports.
//
// Parameters:
//   - v: the skin validator; nil keeps the default
//
// Returns:
//   - SelectorBuilderOption: a function that applies the validator option to a selector
func WithValidator(v skin.Validator) SelectorBuilderOption {
	return func(s *selector) {
		if v != nil {
			s.validator = v
		}
	}
}
