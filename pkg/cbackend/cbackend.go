// Package cbackend implements the one concrete compiler.Target this
// module ships: a portable C emitter. It stands in for the
// x86/PowerPC/ARM/AltiVec backends the original project carries —
// its job is to exercise the core pipeline end to end (validation,
// rule binding, liveness, register allocation, the constant pool),
// not to generate fast code.
package cbackend

import (
	"fmt"

	"github.com/orcjit/orc/pkg/compiler"
	"github.com/orcjit/orc/pkg/opcode"
	"github.com/orcjit/orc/pkg/program"
)

// Name is the target name a caller passes to compiler.GetByName or the
// --target flag of cmd/orcc.
const Name = "c"

func init() {
	compiler.Register(target)
}

var target = &compiler.Target{
	Name:               Name,
	DataRegisterOffset: compiler.VecRegBase,
	CompilerInit:       compilerInit,
	Compile:            compile,
	LoadConstant:       loadConstant,
	Rules:              rules(),
}

// compilerInit prunes the register windows down to a small symbolic
// set — a C compiler has no real register pressure, so eight GP and
// eight vector slots are enough to give the allocator something to
// do — reserves one GP slot outside the pool as the constant scratch
// register, and emits the saturation helpers every emitted kernel
// calls into.
func compilerInit(ctx *compiler.Context) {
	for i := 0; i < compiler.NReg; i++ {
		ctx.ValidRegs[i] = false
	}
	for i := 0; i < 8; i++ {
		ctx.ValidRegs[compiler.GPRegBase+i] = true
		ctx.ValidRegs[compiler.VecRegBase+i] = true
	}
	ctx.TmpReg = compiler.GPRegBase + 8
	ctx.NeedMaskRegs = false
	ctx.AllocLoopCounter = true

	ctx.AppendCode("#include <stdint.h>\n\n")
	ctx.AppendCode("static int16_t orc_clamp16(int v) {\n")
	ctx.AppendCode("\tif (v > 32767) return 32767;\n")
	ctx.AppendCode("\tif (v < -32768) return -32768;\n")
	ctx.AppendCode("\treturn (int16_t)v;\n}\n\n")
	ctx.AppendCode("static int8_t orc_clamp8(int v) {\n")
	ctx.AppendCode("\tif (v > 127) return 127;\n")
	ctx.AppendCode("\tif (v < -128) return -128;\n")
	ctx.AppendCode("\treturn (int8_t)v;\n}\n\n")
}

// loadConstant is the Target.LoadConstant hook: it declares a local
// holding value and hands GetConstant back a register number whose
// regName is that local's identifier.
func loadConstant(ctx *compiler.Context, reg int, _ int, value int) {
	ctx.AppendCode("\tint %s = %d;\n", regName(reg), value)
}

func regName(reg int) string {
	return fmt.Sprintf("__r%d", reg)
}

// compile emits one C function per Program: a parameter list derived
// from the Src/Dest/Param/Accumulator variables in slot order, a
// scalar loop over n, and one statement per instruction via its bound
// Rule.
func compile(ctx *compiler.Context) error {
	name := ctx.Program.Name
	if name == "" {
		name = "orc_kernel"
	}

	ctx.AppendCode("void %s(int n", sanitizeName(name))
	for i := range ctx.Vars {
		v := &ctx.Vars[i]
		if v.Size == 0 {
			continue
		}
		switch v.Kind {
		case program.KindSrc:
			ctx.AppendCode(", const int *%s", v.Name)
		case program.KindDest:
			ctx.AppendCode(", int *%s", v.Name)
		case program.KindAccumulator:
			ctx.AppendCode(", int *%s", v.Name)
		case program.KindParam:
			ctx.AppendCode(", int %s", v.Name)
		}
	}
	ctx.AppendCode(")\n{\n")

	for i := range ctx.Vars {
		v := &ctx.Vars[i]
		if v.Kind == program.KindAccumulator && v.Size > 0 {
			ctx.AppendCode("\tint __acc_%s = *%s;\n", v.Name, v.Name)
		}
	}

	ctx.AppendCode("\tfor (int i = 0; i < n; i++) {\n")

	for i := range ctx.Insns {
		insn := &ctx.Insns[i]
		if insn.Rule == nil || insn.Rule.Emit == nil {
			return fmt.Errorf("instruction %d (%s) has no bound rule", i, insn.Opcode.Name)
		}
		insn.Rule.Emit(ctx, insn.Rule.User, insn)
	}

	ctx.AppendCode("\t}\n")

	for i := range ctx.Vars {
		v := &ctx.Vars[i]
		if v.Kind == program.KindAccumulator && v.Size > 0 {
			ctx.AppendCode("\t*%s = __acc_%s;\n", v.Name, v.Name)
		}
	}

	ctx.AppendCode("}\n")
	return nil
}

// sanitizeName keeps a Program name usable as a C identifier without
// pulling in a full C-identifier grammar — programs built by this
// module's own pkg/program API only ever get alphanumeric names in
// practice, so a single pass catching the obvious offenders suffices.
func sanitizeName(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out[i] = c
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

// operand renders the C expression a Rule should read or write for
// one instruction slot: an indexed array access for Src/Dest, the
// running accumulator local for Accumulator, the parameter identifier
// for Param, or a freshly materialized constant register for Const.
func operand(ctx *compiler.Context, slot int) string {
	v := &ctx.Vars[slot]
	switch v.Kind {
	case program.KindSrc, program.KindDest:
		return fmt.Sprintf("%s[i]", v.Name)
	case program.KindAccumulator:
		return fmt.Sprintf("__acc_%s", v.Name)
	case program.KindParam:
		return v.Name
	case program.KindConst:
		return regName(ctx.GetConstant(v.Size, v.Value))
	default:
		return v.Name
	}
}

func rules() *compiler.RuleSet {
	rs := compiler.NewRuleSet()

	copyLike := func(ctx *compiler.Context, _ any, insn *compiler.Instruction) {
		ctx.AppendCode("\t\t%s = %s;\n", operand(ctx, insn.DestArgs[0]), operand(ctx, insn.SrcArgs[0]))
	}
	rs.Register(opcode.Find("copyw"), copyLike, nil)
	rs.Register(opcode.Find("copyb"), copyLike, nil)
	rs.Register(opcode.Find("copyl"), copyLike, nil)

	rs.Register(opcode.Find("addw"), func(ctx *compiler.Context, _ any, insn *compiler.Instruction) {
		ctx.AppendCode("\t\t%s = orc_clamp16((int)%s + (int)%s);\n",
			operand(ctx, insn.DestArgs[0]), operand(ctx, insn.SrcArgs[0]), operand(ctx, insn.SrcArgs[1]))
	}, nil)

	rs.Register(opcode.Find("subw"), func(ctx *compiler.Context, _ any, insn *compiler.Instruction) {
		ctx.AppendCode("\t\t%s = orc_clamp16((int)%s - (int)%s);\n",
			operand(ctx, insn.DestArgs[0]), operand(ctx, insn.SrcArgs[0]), operand(ctx, insn.SrcArgs[1]))
	}, nil)

	rs.Register(opcode.Find("mulw"), func(ctx *compiler.Context, _ any, insn *compiler.Instruction) {
		ctx.AppendCode("\t\t%s = orc_clamp16((int)%s * (int)%s);\n",
			operand(ctx, insn.DestArgs[0]), operand(ctx, insn.SrcArgs[0]), operand(ctx, insn.SrcArgs[1]))
	}, nil)

	rs.Register(opcode.Find("avgw"), func(ctx *compiler.Context, _ any, insn *compiler.Instruction) {
		ctx.AppendCode("\t\t%s = ((int)%s + (int)%s + 1) / 2;\n",
			operand(ctx, insn.DestArgs[0]), operand(ctx, insn.SrcArgs[0]), operand(ctx, insn.SrcArgs[1]))
	}, nil)

	rs.Register(opcode.Find("accw"), func(ctx *compiler.Context, _ any, insn *compiler.Instruction) {
		dest := operand(ctx, insn.DestArgs[0])
		ctx.AppendCode("\t\t%s = orc_clamp16((int)%s + (int)%s);\n",
			dest, dest, operand(ctx, insn.SrcArgs[0]))
	}, nil)

	rs.Register(opcode.Find("convwb"), func(ctx *compiler.Context, _ any, insn *compiler.Instruction) {
		ctx.AppendCode("\t\t%s = orc_clamp8((int)%s);\n",
			operand(ctx, insn.DestArgs[0]), operand(ctx, insn.SrcArgs[0]))
	}, nil)

	rs.Register(opcode.Find("convbw"), func(ctx *compiler.Context, _ any, insn *compiler.Instruction) {
		ctx.AppendCode("\t\t%s = (int)%s;\n",
			operand(ctx, insn.DestArgs[0]), operand(ctx, insn.SrcArgs[0]))
	}, nil)

	return rs
}
