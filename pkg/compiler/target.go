package compiler

import (
	"fmt"
	"sync"

	"github.com/orcjit/orc/pkg/opcode"
)

// RuleEmitFunc emits code for one instruction against the given
// Context, once every variable insn touches has a register
// assignment.
type RuleEmitFunc func(ctx *Context, user any, insn *Instruction)

// Rule is a target-specific callback bound to an opcode.
type Rule struct {
	Emit RuleEmitFunc
	User any
}

// RuleSet maps opcode identity to the Rule that handles it for one
// target. Opcodes are looked up by pointer identity,
// not by name: two distinct *opcode.StaticOpcode values that happen to
// share a Name are different opcodes as far as a RuleSet is concerned.
type RuleSet struct {
	rules map[*opcode.StaticOpcode]*Rule
}

// NewRuleSet creates an empty RuleSet.
func NewRuleSet() *RuleSet {
	return &RuleSet{rules: make(map[*opcode.StaticOpcode]*Rule)}
}

// Register binds a Rule to an opcode within this RuleSet.
func (rs *RuleSet) Register(op *opcode.StaticOpcode, emit RuleEmitFunc, user any) {
	rs.rules[op] = &Rule{Emit: emit, User: user}
}

// Get returns the Rule bound to op, or nil if none.
func (rs *RuleSet) Get(op *opcode.StaticOpcode) *Rule {
	return rs.rules[op]
}

// Target is the narrow interface the compiler core hands off to once
// validation, rule binding, and register allocation are done.
type Target struct {
	Name string

	// DataRegisterOffset is the base register number of this target's
	// vector register pool (ORC_VEC_REG_BASE in the original — 64 by
	// convention, clear of the GP pool's base of 32).
	DataRegisterOffset int

	// CompilerInit prunes ctx's valid/save register sets down to what
	// this ISA actually has, sets ctx.TmpReg, and declares
	// ctx.NeedMaskRegs / ctx.AllocLoopCounter.
	CompilerInit func(ctx *Context)

	// Compile emits the final code for every instruction in ctx, now
	// that every variable has a register assignment.
	Compile func(ctx *Context) error

	// LoadConstant emits code loading value (already canonicalized to
	// size, see GetConstant) into register reg.
	LoadConstant func(ctx *Context, reg int, size int, value int)

	// AllocateCodemem installs ctx's output buffer. The default here is
	// a plain growable byte slice; a target whose Compile emits real
	// machine code would replace it with one that maps executable pages.
	AllocateCodemem func(ctx *Context)

	// Rules is a single merged rule set for this target. The original
	// keeps an array of up to ORC_N_RULE_SETS OrcRuleSet entries (one
	// per opcode family, e.g. "sse-2.0" vs "sse-3.0") so a target can
	// register alternate rules selected by target flags; this module's
	// one backend does not need that axis, so GetRule below ignores
	// flags rather than threading an unused second RuleSet lookup.
	Rules *RuleSet
}

// GetRule looks up the Rule this target uses for op under the given
// target flags.
func (t *Target) GetRule(op *opcode.StaticOpcode, _ uint32) *Rule {
	if t.Rules == nil {
		return nil
	}
	return t.Rules.Get(op)
}

var (
	registryMu    sync.RWMutex
	registry      = map[string]*Target{}
	defaultTarget *Target
)

// Register adds t to the process-wide registry under t.Name. The first
// target registered becomes the default (GetDefault). Register is
// meant to be called during process initialization, before any
// compilation starts; the registry is read-only in steady state.
func Register(t *Target) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t.Name] = t
	if defaultTarget == nil {
		defaultTarget = t
	}
}

// GetByName returns the registered target named name.
func GetByName(name string) (*Target, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("compiler: no target registered as %q", name)
	}
	return t, nil
}

// GetDefault returns the first target that was registered, or nil.
func GetDefault() *Target {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return defaultTarget
}
