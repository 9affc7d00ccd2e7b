package program

import "github.com/orcjit/orc/pkg/opcode"

// Instruction is one opcode invocation over variable-table slots. The
// slot arrays are fixed-size to match opcode.NSrc/opcode.NDest and keep
// an Instruction copyable by value, the same way pkg/compiler's
// Context.Insns is a plain slice of Instruction rather than a slice of
// pointers.
type Instruction struct {
	Opcode *opcode.StaticOpcode

	DestArgs [opcode.NDest]int
	SrcArgs  [opcode.NSrc]int

	// Rule is bound by the rule-binder pass (pkg/compiler.assignRules)
	// and is nil until then. It is opaque to pkg/program on purpose: the
	// concrete Rule type lives in pkg/compiler, and pkg/program must not
	// import it (pkg/compiler depends on pkg/program, not the other way
	// around).
	Rule any
}
