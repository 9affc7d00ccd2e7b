package compiler

import (
	"github.com/orcjit/orc/pkg/opcode"
	"github.com/orcjit/orc/pkg/program"
)

const (
	// GPRegBase is the first general-purpose register number.
	GPRegBase = 32
	// VecRegBase is the first vector register number.
	VecRegBase = 64
	// NReg is the size of each per-register state vector. Two
	// 32-register windows (GP, vector) plus headroom matches the
	// original's ORC_N_REGS (32*4).
	NReg = 128

	// NLabels bounds the label allocator, mirroring ORC_N_LABELS. A
	// backend exceeding it is a backend bug, not a core-compiler one.
	NLabels = 20
	// NFixups bounds the fixup table.
	NFixups = 20
)

// Instruction is the Context's working copy of a program.Instruction:
// same operand slots, but with Rule resolved to a concrete *Rule once
// the rule-binder pass has run.
type Instruction struct {
	Opcode *opcode.StaticOpcode

	DestArgs [opcode.NDest]int
	SrcArgs  [opcode.NSrc]int

	Rule *Rule
}

// ConstantEntry is one entry of the constant pool keyed by canonical
// value (see GetConstant).
type ConstantEntry struct {
	Value    int
	AllocReg int
	UseCount int
}

// Fixup records a forward reference a target needs to patch once a
// label's final address is known.
type Fixup struct {
	Offset int
	Kind   int
	Label  int
}

// Context is the scratch state for one compilation: working copies of
// the program's instructions and variables, register-pool state, the
// emitted-assembly buffer, and the error/result latch. A Context is
// created fresh per compilation (see Compile/CompileFull) and never
// shared across goroutines.
type Context struct {
	Program     *program.Program
	Target      *Target
	TargetFlags uint32

	Insns []Instruction
	Vars  [program.NVar]program.Variable

	NTempVars int
	NDupVars  int

	ValidRegs [NReg]bool
	SaveRegs  [NReg]bool
	UsedRegs  [NReg]bool
	AllocRegs [NReg]int

	AsmCode string

	Fixups       []Fixup
	Labels       map[int]int
	labelCounter int

	LoopCounter int

	Error  bool
	Result Result

	TmpReg         int
	NeedMaskRegs   bool
	AllocLoopCounter bool

	Constants []ConstantEntry

	// Code accumulates whatever bytes AllocateCodemem/Compile choose to
	// write. The default allocator (see asmbuf.go) is a plain growable
	// slice; this module's one backend emits text, never raw machine
	// bytes, so nothing here ever gets mapped executable.
	Code []byte
}

// newContext allocates a zeroed Context. Every register is marked
// valid by default; the target's CompilerInit then prunes the
// valid/save sets for the actual ISA.
func newContext(p *program.Program, t *Target, flags uint32) *Context {
	ctx := &Context{
		Program:     p,
		Target:      t,
		TargetFlags: flags,
		Labels:      map[int]int{},
	}
	for i := 0; i < NReg; i++ {
		ctx.ValidRegs[i] = true
	}
	return ctx
}
