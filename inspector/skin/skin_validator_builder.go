package skin

// ValidatorBuilderOption configures a Validator.
type ValidatorBuilderOption func(*validator)

// WithTolerance sets the per-axis tolerance. Non-positive values keep the default.
//
// Parameters:
//   - eps: the largest accepted |M.a + W.a|
//
// Returns:
//   - ValidatorBuilderOption: option to apply to the validator
func WithTolerance(eps float32) ValidatorBuilderOption {
	return func(v *validator) {
		if eps > 0 {
			v.tolerance = eps
		}
	}
}
