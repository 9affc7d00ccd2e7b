package compiler

import "github.com/orcjit/orc/pkg/program"

// newTestContext mirrors the copy CompileFull makes from a Program
// into a fresh Context, without running any pass — tests drive the
// passes themselves so a failure points at one pass instead of the
// whole pipeline.
func newTestContext(p *program.Program, t *Target) *Context {
	ctx := newContext(p, t, 0)
	ctx.Vars = p.Vars
	ctx.NTempVars = p.NTempVars
	ctx.Insns = make([]Instruction, len(p.Insns))
	for i, insn := range p.Insns {
		ctx.Insns[i] = Instruction{
			Opcode:   insn.Opcode,
			DestArgs: insn.DestArgs,
			SrcArgs:  insn.SrcArgs,
		}
	}
	return ctx
}

// fakeTarget is a minimal Target good enough to exercise assignRules
// and the allocator without depending on pkg/cbackend.
func fakeTarget(rs *RuleSet) *Target {
	return &Target{
		Name:  "fake",
		Rules: rs,
	}
}
