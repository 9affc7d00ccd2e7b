package compiler

// assignRules is the rule binder: for each instruction,
// look up the target's rule for its opcode under the current target
// flags and store it on the instruction. A missing or empty rule is a
// recoverable failure — the interpreter can still run the program —
// so this aborts with ResultUnknownCompile, not a parse error.
func (ctx *Context) assignRules() {
	for i := range ctx.Insns {
		insn := &ctx.Insns[i]

		rule := ctx.Target.GetRule(insn.Opcode, ctx.TargetFlags)
		if rule == nil || rule.Emit == nil {
			ctx.Errorf("no rule for: %s on target %s", insn.Opcode.Name, ctx.Target.Name)
			ctx.Result = ResultUnknownCompile
			return
		}
		insn.Rule = rule
	}
}
