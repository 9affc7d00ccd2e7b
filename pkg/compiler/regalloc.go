package compiler

import "github.com/orcjit/orc/pkg/program"

// allocateRegister is the pool allocator.
// It scans the 32-register window for the chosen pool twice: first
// preferring scratch registers (not callee-saved, refcount 0), then
// falling back to any free register regardless of save status — a
// callee-saved register is only spent once nothing else is left, so
// the backend ends up saving/restoring it.
func (ctx *Context) allocateRegister(isData bool) int {
	offset := GPRegBase
	if isData {
		offset = VecRegBase
	}

	for i := 0; i < 32; i++ {
		reg := offset + i
		if ctx.ValidRegs[reg] && !ctx.SaveRegs[reg] && ctx.AllocRegs[reg] == 0 {
			ctx.AllocRegs[reg]++
			ctx.UsedRegs[reg] = true
			return reg
		}
	}
	for i := 0; i < 32; i++ {
		reg := offset + i
		if ctx.ValidRegs[reg] && ctx.AllocRegs[reg] == 0 {
			ctx.AllocRegs[reg]++
			ctx.UsedRegs[reg] = true
			return reg
		}
	}

	poolName := "gp"
	if isData {
		poolName = "vector"
	}
	ctx.Errorf("register overflow for %s reg", poolName)
	ctx.Result = ResultUnknownCompile
	return 0
}

// forgiveLoopCounterExhaustion clears a register-overflow error raised
// by allocating the loop counter. This is the "massive hack" from the
// original: at least one backend tolerates running without an
// explicit loop counter register, so exhausting the pool on that one
// allocation should not fail the whole compile. No other allocation
// site gets this treatment.
func forgiveLoopCounterExhaustion(ctx *Context) {
	ctx.Error = false
	ctx.Result = ResultOK
}

// globalRegAlloc is the global allocation pass: it assigns fixed
// registers to every variable whose lifetime
// spans the whole program (Const, Param, Accumulator) or who needs a
// pointer register regardless of lifetime (Src, Dest).
func (ctx *Context) globalRegAlloc() {
	for i := range ctx.Vars {
		v := &ctx.Vars[i]
		if v.Size == 0 {
			continue
		}

		switch v.Kind {
		case program.KindConst:
			v.FirstUse = -1
			v.LastUse = -1
			v.Alloc = ctx.allocateRegister(true)
		case program.KindParam:
			v.FirstUse = -1
			v.LastUse = -1
			v.Alloc = ctx.allocateRegister(true)
		case program.KindAccumulator:
			v.FirstUse = -1
			v.LastUse = -1
			v.Alloc = ctx.allocateRegister(true)
		case program.KindSrc:
			v.PtrRegister = ctx.allocateRegister(false)
			if ctx.NeedMaskRegs {
				v.MaskAlloc = ctx.allocateRegister(true)
				v.PtrOffset = ctx.allocateRegister(false)
				v.AlignedData = ctx.allocateRegister(true)
			}
		case program.KindDest:
			v.PtrRegister = ctx.allocateRegister(false)
		case program.KindTemp:
			// Allocated per-instruction by the local pass below.
		default:
			ctx.Errorf("bad vartype")
			ctx.Result = ResultUnknownParse
		}

		if ctx.Error {
			break
		}
	}

	if ctx.AllocLoopCounter && !ctx.Error {
		ctx.LoopCounter = ctx.allocateRegister(false)
		if ctx.LoopCounter == 0 {
			forgiveLoopCounterExhaustion(ctx)
		}
	}
}

// rewriteVars2 is the local allocation pass: per-instruction register
// assignment for temporaries, with
// the chaining optimization that lets a dying source's register be
// reused for its instruction's destination.
func (ctx *Context) rewriteVars2() {
	for j := range ctx.Insns {
		insn := &ctx.Insns[j]
		op := insn.Opcode

		// Chaining: valid only for a single-destination, non-accumulator
		// opcode whose first source dies exactly here.
		if !op.IsAccumulator() && op.DestSize[1] == 0 {
			src1 := insn.SrcArgs[0]
			dest := insn.DestArgs[0]

			if ctx.Vars[src1].LastUse == j {
				if ctx.Vars[src1].FirstUse == j {
					ctx.Vars[src1].Alloc = ctx.allocateRegister(true)
				}
				ctx.AllocRegs[ctx.Vars[src1].Alloc]++
				ctx.Vars[dest].Alloc = ctx.Vars[src1].Alloc
			}
		}

		// A sentinel of 1 in an upstream pass means "this is an inline
		// immediate, don't load it into a register" — clear it here so
		// later passes don't mistake it for a real allocation.
		src2 := insn.SrcArgs[1]
		if ctx.Vars[src2].Alloc == 1 {
			ctx.Vars[src2].Alloc = 0
		}

		for i := range ctx.Vars {
			if ctx.Vars[i].Size == 0 {
				continue
			}
			if ctx.Vars[i].FirstUse == j {
				if ctx.Vars[i].Alloc != 0 {
					continue
				}
				ctx.Vars[i].Alloc = ctx.allocateRegister(true)
			}
		}
		for i := range ctx.Vars {
			if ctx.Vars[i].Size == 0 {
				continue
			}
			if ctx.Vars[i].LastUse == j {
				ctx.AllocRegs[ctx.Vars[i].Alloc]--
			}
		}
	}
}
