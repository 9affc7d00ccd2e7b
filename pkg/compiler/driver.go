package compiler

import (
	"fmt"

	"tlog.app/go/errors"

	"github.com/orcjit/orc/pkg/interp"
	"github.com/orcjit/orc/pkg/program"
)

// Compile runs the full pipeline against the process's default target,
// using the flags already parsed from ORC_CODE.
func Compile(p *program.Program) Result {
	return CompileFull(p, GetDefault(), ProcessFlags())
}

// CompileForTarget runs the full pipeline against a named target.
func CompileForTarget(p *program.Program, targetName string) (Result, error) {
	t, err := GetByName(targetName)
	if err != nil {
		return ResultUnknownCompile, err
	}
	return CompileFull(p, t, ProcessFlags()), nil
}

// CompileFull is the driver: it runs every pass in
// order against a fresh Context and leaves p runnable either way —
// p.Code always ends up pointing at something a caller can invoke,
// even when compilation itself fails.
func CompileFull(p *program.Program, t *Target, flags Flags) Result {
	// Step 1: default the entry point to the backup function if the
	// program carries one, or the interpreter otherwise. Both are
	// always safe to run, so this happens before any compilation is
	// attempted; an entry point the caller already installed is kept.
	if p.Code == nil {
		if p.BackupFunc != nil {
			p.Code = p.BackupFunc
		} else {
			p.Code = interp.Run
		}
	}

	// Step 2: ORC_CODE=backup means "never compile if a backup exists".
	if flags.Backup && p.BackupFunc != nil {
		logInfo("compilation disabled by ORC_CODE=backup, using backup for %q", p.Name)
		return ResultUnknownCompile
	}

	// Step 3: a target is mandatory — there is nothing to compile for
	// otherwise, and the caller still has the backup/interpreter entry
	// point from step 1.
	if t == nil {
		logWarning("no target available to compile %q, using backup/interpreter", p.Name)
		return ResultUnknownCompile
	}

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

	if flags.Debug {
		logInfo("compiling %q for target %q (%d insns, %d vars)",
			p.Name, t.Name, len(ctx.Insns), p.NTempVars)
	}

	if t.CompilerInit != nil {
		t.CompilerInit(ctx)
	}

	type pass struct {
		name string
		run  func()
	}
	passes := []pass{
		{"check_sizes", ctx.checkSizes},
		{"assign_rules", ctx.assignRules},
		{"rewrite_vars", ctx.rewriteVars},
		{"global_reg_alloc", ctx.globalRegAlloc},
		{"rewrite_vars2", ctx.rewriteVars2},
	}
	for _, ps := range passes {
		ps.run()
		if ctx.Error {
			if flags.Debug {
				logInfo("compile of %q aborted in pass %q", p.Name, ps.name)
			}
			return finishFailed(ctx)
		}
	}

	if t.AllocateCodemem != nil {
		t.AllocateCodemem(ctx)
	} else {
		defaultAllocateCodemem(ctx)
	}
	if ctx.Error {
		return finishFailed(ctx)
	}

	if t.Compile == nil {
		ctx.Errorf("target %q declares no Compile hook", t.Name)
		return finishFailed(ctx)
	}
	if err := t.Compile(ctx); err != nil {
		wrapped := errors.Wrap(err, "target %q", t.Name)
		ctx.Errorf("%v", wrapped)
		return finishFailed(ctx)
	}
	if ctx.Error {
		return finishFailed(ctx)
	}

	p.AsmCode = ctx.AsmCode
	p.CodeSize = len(ctx.AsmCode)
	p.Vars = ctx.Vars

	if flags.Debug {
		logInfo("compiled %q for target %q: %d bytes of assembly", p.Name, t.Name, p.CodeSize)
	}

	return ResultOK
}

// finishFailed promotes an unset Result to ResultUnknownCompile — a
// step that latches ctx.Error without itself choosing a Result (the
// missing-Compile-hook and Compile-error paths above do this) still
// produces a well-formed failure rather than a misleading ResultOK.
func finishFailed(ctx *Context) Result {
	if ctx.Result == ResultOK {
		ctx.Result = ResultUnknownCompile
	}
	return ctx.Result
}

// mustTarget looks a target up by name and panics if none is
// registered, treating "not found" as a programmer error rather than a
// runtime condition. It is unexported, so only code inside this
// package can call it.
func mustTarget(name string) *Target {
	t, err := GetByName(name)
	if err != nil {
		panic(fmt.Sprintf("compiler: %v", err))
	}
	return t
}
