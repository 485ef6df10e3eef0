package profiler

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// Profiler measures wall time, allocation churn and GC activity of document loads.
// Results are written to the configured logger at debug level unless the profiler
// was created with WithLevel.
type Profiler struct {
	logger *slog.Logger
	level  slog.Level
}

// Span is one measurement started by Profiler.Start.
type Span struct {
	p          *Profiler
	label      string
	start      time.Time
	totalAlloc uint64
	gcCount    uint32
}

// Stats is the outcome of a finished Span.
type Stats struct {
	Label      string
	Elapsed    time.Duration
	AllocBytes uint64
	HeapBytes  uint64
	GCCount    uint32
	MaxPauseUs uint64
}

// NewProfiler creates a Profiler that logs to slog.Default().
//
// Parameters:
//   - options: builder options applied over the defaults
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		logger: slog.Default(),
		level:  slog.LevelDebug,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Start begins a measurement. A nil Profiler returns a Span whose End is a no-op,
// so callers do not need to check whether profiling is enabled.
//
// Parameters:
//   - label: the name logged with the result, usually the file being loaded
//
// Returns:
//   - *Span: the running measurement
func (p *Profiler) Start(label string) *Span {
	s := &Span{p: p, label: label, start: time.Now()}
	if p == nil {
		return s
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.totalAlloc = ms.TotalAlloc
	s.gcCount = ms.NumGC
	return s
}

// End finishes the measurement and logs it together with attrs.
//
// Parameters:
//   - attrs: extra slog attributes logged with the result
//
// Returns:
//   - Stats: the collected statistics, zero valued for a nil Profiler
func (s *Span) End(attrs ...any) Stats {
	if s == nil || s.p == nil {
		return Stats{}
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	st := Stats{
		Label:      s.label,
		Elapsed:    time.Since(s.start),
		AllocBytes: ms.TotalAlloc - s.totalAlloc,
		HeapBytes:  ms.Alloc,
		GCCount:    ms.NumGC - s.gcCount,
	}

	// PauseNs is a circular buffer of the last 256 pauses.
	first := s.gcCount
	if ms.NumGC-first > 256 {
		first = ms.NumGC - 256
	}
	for i := first; i < ms.NumGC; i++ {
		if pause := ms.PauseNs[i%256] / 1000; pause > st.MaxPauseUs {
			st.MaxPauseUs = pause
		}
	}

	args := append([]any{
		"label", st.Label,
		"elapsed", st.Elapsed,
		"alloc_mb", float64(st.AllocBytes) / 1024 / 1024,
		"heap_mb", float64(st.HeapBytes) / 1024 / 1024,
		"gc", st.GCCount,
		"max_pause_us", st.MaxPauseUs,
	}, attrs...)
	s.p.logger.Log(context.Background(), s.p.level, "profile", args...)
	return st
}
