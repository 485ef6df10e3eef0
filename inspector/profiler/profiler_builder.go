package profiler

import "log/slog"

// ProfilerBuilderOption is a functional option for configuring a Profiler via NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithLogger sets the logger the profiler writes to.
//
// Parameters:
//   - l: the logger; nil keeps the default
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the logger option to a profiler
func WithLogger(l *slog.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithLevel sets the level results are logged at.
func WithLevel(level slog.Level) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.level = level
	}
}
