// Package cpufeature caches the CPU-feature bitmask used by the dispatch
// façade to pick the widest Harley-Seal kernel a host supports.
//
// Detection happens once per process and is published with a
// compare-and-swap, mirroring the "racing callers compute the same
// idempotent value" pattern used by go-highway's dispatch_*.go init
// functions, generalized here to lazy first-use instead of package init so
// tests can force re-detection via Reset after changing POPSECT_NO_SIMD.
package cpufeature

import (
	"os"
	"strconv"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Level orders the kernel widths from narrowest to widest.
type Level int

const (
	// LevelScalar means no wide kernel is usable; fall back to 64-bit words.
	LevelScalar Level = iota
	// LevelSSE4 selects the 128-bit (SSE4.1) Harley-Seal kernel.
	LevelSSE4
	// LevelAVX2 selects the 256-bit (AVX2) Harley-Seal kernel.
	LevelAVX2
	// LevelAVX512 selects the 512-bit (AVX512BW) Harley-Seal kernel.
	LevelAVX512
)

func (l Level) String() string {
	switch l {
	case LevelSSE4:
		return "sse4"
	case LevelAVX2:
		return "avx2"
	case LevelAVX512:
		return "avx512"
	default:
		return "scalar"
	}
}

// Width returns the lane width in bits for the level.
func (l Level) Width() int {
	switch l {
	case LevelSSE4:
		return 128
	case LevelAVX2:
		return 256
	case LevelAVX512:
		return 512
	default:
		return 64
	}
}

// Features is the detected, immutable snapshot of host capability.
type Features struct {
	HasPOPCNT   bool
	HasSSE41    bool
	HasSSE42    bool
	HasAVX2     bool
	HasAVX512BW bool
}

// Widest returns the widest kernel Level this host supports.
func (f Features) Widest() Level {
	switch {
	case f.HasAVX512BW:
		return LevelAVX512
	case f.HasAVX2:
		return LevelAVX2
	case f.HasSSE41:
		return LevelSSE4
	default:
		return LevelScalar
	}
}

// Alignment returns the byte alignment associated with the widest kernel:
// 64 for AVX512BW, 32 for AVX2, 16 for SSE4.1, 8 otherwise. This mirrors
// original_source's get_alignment() cascade exactly.
func (f Features) Alignment() uint32 {
	switch {
	case f.HasAVX512BW:
		return 64
	case f.HasAVX2:
		return 32
	case f.HasSSE41:
		return 16
	default:
		return 8
	}
}

// sentinel marks "not yet computed" in the cached bitmask. Bit 31 can never
// be set by a real feature combination (we only use the low 5 bits), so it
// is free to use as the not-computed flag.
const sentinel uint32 = 1 << 31

var cached atomic.Uint32

func init() {
	cached.Store(sentinel)
}

const (
	bitPOPCNT = 1 << iota
	bitSSE41
	bitSSE42
	bitAVX2
	bitAVX512BW
)

func detect() Features {
	if noSIMDEnv() {
		return Features{}
	}
	f := Features{
		HasPOPCNT: cpu.X86.HasPOPCNT,
		HasSSE41:  cpu.X86.HasSSE41,
		HasSSE42:  cpu.X86.HasSSE42,
		// cpu.X86.HasAVX2 and cpu.X86.HasAVX512BW already fold in the
		// OSXSAVE / XCR0 (XMM|YMM, XMM|YMM|opmask|ZMM-hi|ZMM) checks that
		// spec.md's CPU feature collaborator requires; see the package
		// comment in golang.org/x/sys/cpu: "HasAVX and HasAVX2 are only
		// set if the OS supports XMM and YMM state".
		HasAVX2:     cpu.X86.HasAVX2,
		HasAVX512BW: cpu.X86.HasAVX512BW,
	}
	return f
}

func pack(f Features) uint32 {
	var v uint32
	if f.HasPOPCNT {
		v |= bitPOPCNT
	}
	if f.HasSSE41 {
		v |= bitSSE41
	}
	if f.HasSSE42 {
		v |= bitSSE42
	}
	if f.HasAVX2 {
		v |= bitAVX2
	}
	if f.HasAVX512BW {
		v |= bitAVX512BW
	}
	return v
}

func unpack(v uint32) Features {
	return Features{
		HasPOPCNT:   v&bitPOPCNT != 0,
		HasSSE41:    v&bitSSE41 != 0,
		HasSSE42:    v&bitSSE42 != 0,
		HasAVX2:     v&bitAVX2 != 0,
		HasAVX512BW: v&bitAVX512BW != 0,
	}
}

// Detect returns the process-wide cached feature set, computing it on first
// use. Concurrent first callers each compute the same (deterministic, pure)
// value and race to publish it with a CAS; all observe either the sentinel
// (and compute) or the final value, never a torn intermediate, since the
// cache is a single machine word.
func Detect() Features {
	if v := cached.Load(); v != sentinel {
		return unpack(v)
	}
	f := detect()
	packed := pack(f)
	cached.CompareAndSwap(sentinel, packed)
	return f
}

// Reset clears the cache so the next Detect call re-evaluates the
// environment. Exposed for tests that toggle POPSECT_NO_SIMD mid-run.
func Reset() {
	cached.Store(sentinel)
}

func noSIMDEnv() bool {
	val := os.Getenv("POPSECT_NO_SIMD")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
