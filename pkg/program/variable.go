// Package program implements the program-construction API and the
// shared Variable/Instruction data model: the public surface a caller
// uses to describe a kernel, and the table compiler.Context makes a
// working copy of when it starts a compilation.
//
// Variable slot indices are a public ABI: once a Program is built, the
// slot a name resolves to never changes for the lifetime of that
// Program, and a compiled Rule may be handed a raw slot index instead
// of a name.
package program

import "fmt"

// Kind classifies what role a variable plays in a kernel.
type Kind int

const (
	// KindTemp is a scratch variable local to the instruction sequence.
	// Writing a Temp more than once causes the renaming pass to split it
	// into multiple single-assignment variables (see pkg/compiler).
	KindTemp Kind = iota
	// KindSrc is a varying source array, one element consumed per loop
	// iteration.
	KindSrc
	// KindDest is a varying destination array, one element produced per
	// loop iteration.
	KindDest
	// KindConst is a compile-time-known scalar, broadcast to every lane.
	KindConst
	// KindParam is a caller-supplied scalar, broadcast to every lane,
	// fixed for the duration of one execution.
	KindParam
	// KindAccumulator is a scalar that persists across loop iterations
	// and is written only by Accumulator-flagged opcodes.
	KindAccumulator
)

func (k Kind) String() string {
	switch k {
	case KindTemp:
		return "temp"
	case KindSrc:
		return "src"
	case KindDest:
		return "dest"
	case KindConst:
		return "const"
	case KindParam:
		return "param"
	case KindAccumulator:
		return "accumulator"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Fixed slot layout, mirroring the original's D1..D4/S1..S8/C1..C8/
// P1..P8/T1..T8 table. Slot indices are part of the public ABI: a Rule
// may be handed one directly.
const (
	VarD1 = 0
	VarD2 = 1
	VarD3 = 2
	VarD4 = 3
	VarS1 = 4
	VarS2 = 5
	VarS3 = 6
	VarS4 = 7
	VarS5 = 8
	VarS6 = 9
	VarS7 = 10
	VarS8 = 11
	VarC1 = 12
	VarC2 = 13
	VarC3 = 14
	VarC4 = 15
	VarC5 = 16
	VarC6 = 17
	VarC7 = 18
	VarC8 = 19
	VarP1 = 20
	VarP2 = 21
	VarP3 = 22
	VarP4 = 23
	VarP5 = 24
	VarP6 = 25
	VarP7 = 26
	VarP8 = 27
	VarT1 = 28
	VarT2 = 29
	VarT3 = 30
	VarT4 = 31
	VarT5 = 32
	VarT6 = 33
	VarT7 = 34
	VarT8 = 35

	// NVar is the fixed capacity of a Program's variable table.
	NVar = 36

	maxDest  = 4
	maxSrc   = 8
	maxConst = 8
	maxParam = 8
	maxTemp  = 8
)

// sentinelUnused marks a use-index that has never been set by an
// instruction.
const sentinelUnused = -1

// Variable is one slot of a Program's (or Context's) variable table.
// Usage tracking (Used/FirstUse/LastUse), rename links
// (Replaced/Replacement), and allocation results (Alloc and the
// Src/Dest auxiliary registers) are filled in by pkg/compiler during
// compilation; a freshly constructed Program has all of those at their
// zero/sentinel values.
type Variable struct {
	Name string
	Size int
	Kind Kind

	Used        bool
	FirstUse    int
	LastUse     int
	Replaced    bool
	Replacement int

	// LoadDest is set by the liveness pass whenever a Dest variable is
	// read as a source — a backend must emit a load from the
	// destination pointer before using it.
	LoadDest bool

	Alloc int

	// Value holds the compile-time-known immediate for a Const variable.
	// It is meaningless for any other Kind.
	Value int

	// PtrRegister, PtrOffset, MaskAlloc, and AlignedData are populated
	// only for Src/Dest kinds — the register bundle a backend needs to
	// address a varying array, optionally with masked-load support.
	PtrRegister int
	PtrOffset   int
	MaskAlloc   int
	AlignedData int
}

func newVariable(name string, size int, kind Kind) Variable {
	return Variable{
		Name:        name,
		Size:        size,
		Kind:        kind,
		FirstUse:    sentinelUnused,
		LastUse:     sentinelUnused,
		Replacement: sentinelUnused,
	}
}
