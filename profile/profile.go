package profile

import "slices"

// Tag is the build tag required to enable profiling.
const Tag = `pprof`

// Stopper stops a running profiler.
type Stopper interface{ Stop() }

// Profiler describes one profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string
	// Path is the output directory. If empty, a temporary directory is used.
	Path string
	// Quiet suppresses the profiler's own log messages.
	Quiet bool
}

// Enabled reports whether Start would actually profile.
func (p Profiler) Enabled() bool {
	return slices.Contains(Modes(), p.Mode)
}

// Start begins profiling. The returned Stopper must be called to flush the
// profile; it is always safe to call, even when profiling is disabled.
func (p Profiler) Start() Stopper {
	if !p.Enabled() {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
