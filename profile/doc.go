// Package profile provides optional runtime profiling.
//
// Profiling is compiled in only with the "pprof" build tag ([Tag]), which
// wires [github.com/pkg/profile] and registers the [net/http/pprof]
// handlers. Without the tag every [Profiler] is a no-op and [Modes] is
// empty.
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/grand"}
//	defer p.Start().Stop()
//
// Profiles are written to Path with the mode as file name, e.g.
// cpu.pprof, and analyzed with:
//
//	go tool pprof -http=: /tmp/grand/cpu.pprof
package profile
