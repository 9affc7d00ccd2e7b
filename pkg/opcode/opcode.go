// Package opcode defines the static opcode descriptors that instructions
// reference, and the minimal emulation table used by pkg/interp when no
// compiled rule is available.
//
// The real project generates this table from an opcode-definition DSL
// ("orcc -impl") with several hundred entries covering every pixel and
// audio format it supports. That generator is out of scope here; this
// package carries by hand the handful of opcodes the rest of the module
// exercises (copy, arithmetic, accumulate, scalar multiply).
package opcode

const (
	// NSrc is the maximum number of source slots a single instruction may use.
	NSrc = 4
	// NDest is the maximum number of destination slots a single instruction may use.
	NDest = 2
)

// Flags describes static properties of an opcode that the validator and
// allocator consult without looking at any particular instruction.
type Flags int

const (
	// FlagAccumulator marks an opcode whose destination persists across
	// loop iterations instead of being written fresh each time.
	FlagAccumulator Flags = 1 << iota
	// FlagScalar marks an opcode whose non-first source slots must be
	// Const or Param (a per-element operand broadcast from a scalar),
	// never a varying Src.
	FlagScalar
)

// ExecutorValues holds the per-iteration scalar inputs and outputs an
// Emulate callback operates on. It is intentionally small and
// allocation-free so the interpreter can reuse one per instruction.
type ExecutorValues struct {
	Src  [NSrc]int
	Dest [NDest]int
}

// EmulateFunc computes one iteration of an opcode purely in terms of
// scalar ints, given whatever fixed data the opcode needs (e.g. the
// immediate value for a "const" multiply).
type EmulateFunc func(ex *ExecutorValues, user any)

// StaticOpcode is the immutable descriptor every Instruction points at.
// DestSize/SrcSize slots that are 0 are unused by that opcode; a non-zero
// entry is the exact element byte size the validator requires (except
// for Const/Param sources, whose size is a property of the broadcast,
// not the storage — see pkg/compiler's validator).
type StaticOpcode struct {
	Name string

	DestSize [NDest]int
	SrcSize  [NSrc]int

	Flags Flags

	Emulate     EmulateFunc
	EmulateUser any
}

// IsAccumulator reports whether the opcode only ever writes an
// Accumulator-kind destination.
func (o *StaticOpcode) IsAccumulator() bool { return o.Flags&FlagAccumulator != 0 }

// IsScalar reports whether source slots beyond the first must be
// Const/Param.
func (o *StaticOpcode) IsScalar() bool { return o.Flags&FlagScalar != 0 }
