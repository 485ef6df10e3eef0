package loader

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-loupe/inspector/glb"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/profiler"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithReaderOptions sets the options of the GLB container reader.
//
// Parameters:
//   - options: the container reader options, e.g. chunk policies
//
// Returns:
//   - LoaderBuilderOption: a function that applies the reader options to a loader
func WithReaderOptions(options ...glb.ReaderBuilderOption) LoaderBuilderOption {
	return func(l *loader) {
		l.readerOptions = append(l.readerOptions, options...)
	}
}

// WithLogger sets the logger for load events.
//
// Parameters:
//   - logger: the logger; nil keeps slog.Default()
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithProfiler enables load profiling.
func WithProfiler(p *profiler.Profiler) LoaderBuilderOption {
	return func(l *loader) {
		l.profiler = p
	}
}
