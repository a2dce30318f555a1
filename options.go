package popsect

import (
	"os"
	"strconv"
)

// Option configures a single Intersect/IntersectSparse call. The zero value
// of every option field selects spec.md's documented default, so
// Intersect(bundle) with no options is always well-defined.
type Option func(*config)

type config struct {
	blockSize   int  // 0 means "compute the adaptive default"
	debugChecks bool
	forceLevel  forceLevel
}

type forceLevel int

const (
	forceAuto forceLevel = iota
	forceScalar
	forceSSE4
	forceAVX2
	forceAVX512
)

// WithBlockSize overrides the cache-blocked driver's tile size B. Passing 0
// or a negative value is equivalent to not supplying the option: the
// adaptive default applies.
func WithBlockSize(b int) Option {
	return func(c *config) { c.blockSize = b }
}

// WithDebugChecks enables the precondition assertions described in
// spec.md §7 (alignment, nil pointers, dimension mismatches). Off by
// default, matching the spec's "contract, not runtime error" stance for
// the hot path; tests and development builds turn it on explicitly, or via
// the POPSECT_DEBUG_CHECKS environment variable.
func WithDebugChecks(enabled bool) Option {
	return func(c *config) { c.debugChecks = enabled }
}

// WithForcedScalar forces the scalar kernel regardless of detected CPU
// features. Used by the oracle-equivalence tests in spec.md §8.
func WithForcedScalar() Option {
	return func(c *config) { c.forceLevel = forceScalar }
}

// WithForcedLevel forces a specific SIMD kernel width by name
// ("sse4", "avx2", "avx512"); an unrecognized name is ignored (auto
// dispatch applies). Used by tests to exercise a width the current host
// may not itself support in hardware (the kernels are portable Go, so
// they run correctly even when "forced" above the host's real capability;
// only real production dispatch should never do this).
func WithForcedLevel(name string) Option {
	return func(c *config) {
		switch name {
		case "scalar":
			c.forceLevel = forceScalar
		case "sse4":
			c.forceLevel = forceSSE4
		case "avx2":
			c.forceLevel = forceAVX2
		case "avx512":
			c.forceLevel = forceAVX512
		}
	}
}

func newConfig(opts []Option) config {
	c := config{debugChecks: debugChecksEnv()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func debugChecksEnv() bool {
	val := os.Getenv("POPSECT_DEBUG_CHECKS")
	if val == "" {
		return false
	}
	b, err := strconv.ParseBool(val)
	return err == nil && b
}
