package compiler

import "github.com/orcjit/orc/pkg/program"

// checkSizes is the validator: for every instruction
// and every opcode slot with a non-zero declared size, the referenced
// variable's size must match — except Const/Param sources, whose size
// is a property of the broadcast rather than the storage. Scalar
// opcodes additionally require every source slot past the first to be
// Const or Param. The validator aborts on the first error.
func (ctx *Context) checkSizes() {
	for i := range ctx.Insns {
		insn := &ctx.Insns[i]
		op := insn.Opcode

		for slot := 0; slot < len(op.DestSize); slot++ {
			if op.DestSize[slot] == 0 {
				continue
			}
			v := &ctx.Vars[insn.DestArgs[slot]]
			if op.DestSize[slot] != v.Size {
				ctx.Errorf("size mismatch, opcode %s dest[%d] is %d should be %d",
					op.Name, slot, v.Size, op.DestSize[slot])
				ctx.Result = ResultUnknownParse
				return
			}
		}

		for slot := 0; slot < len(op.SrcSize); slot++ {
			if op.SrcSize[slot] == 0 {
				continue
			}
			v := &ctx.Vars[insn.SrcArgs[slot]]
			isBroadcast := v.Kind == program.KindConst || v.Kind == program.KindParam

			if op.SrcSize[slot] != v.Size && !isBroadcast {
				ctx.Errorf("size mismatch, opcode %s src[%d] is %d should be %d",
					op.Name, slot, v.Size, op.SrcSize[slot])
				ctx.Result = ResultUnknownParse
				return
			}

			if op.IsScalar() && slot >= 1 && !isBroadcast {
				ctx.Errorf("opcode %s requires const or param source", op.Name)
				ctx.Result = ResultUnknownParse
				return
			}
		}
	}
}
