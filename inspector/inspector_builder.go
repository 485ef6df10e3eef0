package inspector

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-loupe/inspector/loader"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/selection"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/skin"
)

// InspectorBuilderOption is a functional option for configuring an Inspector.
type InspectorBuilderOption func(*inspector)

// WithLoader sets the Loader used by Open.
//
// Parameters:
//   - l: the loader; the default is loader.NewLoader with the inspector's logger
//
// Returns:
//   - InspectorBuilderOption: option function to apply
func WithLoader(l loader.Loader) InspectorBuilderOption {
	return func(in *inspector) {
		in.loader = l
	}
}

// WithValidator sets the skin validator used by SkinReport and by the default selector.
//
// Parameters:
//   - v: the validator
//
// Returns:
//   - InspectorBuilderOption: option function to apply
func WithValidator(v skin.Validator) InspectorBuilderOption {
	return func(in *inspector) {
		if v != nil {
			in.validator = v
		}
	}
}

// WithSelector sets the Selector used by Select.
func WithSelector(s selection.Selector) InspectorBuilderOption {
	return func(in *inspector) {
		in.selector = s
	}
}

// WithLogger sets the logger for open and failure events.
func WithLogger(l *slog.Logger) InspectorBuilderOption {
	return func(in *inspector) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithOnChange registers a callback invoked after each successful swap with the
// replaced document (nil on the first open) and the new one.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - InspectorBuilderOption: option function to apply
func WithOnChange(fn func(prev, next *loader.Document)) InspectorBuilderOption {
	return func(in *inspector) {
		in.onChange = fn
	}
}
