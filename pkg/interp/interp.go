// Package interp is a pure-Go emulator for a Program: it walks the
// instruction list and executes each opcode directly against an
// Executor's bindings, so a Program is always runnable even when no
// target rule exists for one of its opcodes. The driver defaults a
// program's entry point to its backup function, or to this package's
// Run, before it attempts anything else.
package interp

import (
	"github.com/orcjit/orc/pkg/opcode"
	"github.com/orcjit/orc/pkg/program"
)

// Run executes ex.Program directly via each instruction's
// opcode.Emulate callback, one scalar iteration at a time, for ex.N
// iterations. It never looks at compiled code or rules — it is the
// original's orc_executor_emulate.
func Run(ex *program.Executor) {
	p := ex.Program

	// vals holds the current scalar value of every global-lifetime
	// variable (Const/Param/Accumulator) and of every Temp as last
	// written; Src/Dest go through ex's bound arrays instead.
	vals := make([]int, len(p.Vars))
	for i := range p.Vars {
		switch p.Vars[i].Kind {
		case program.KindConst:
			vals[i] = p.Vars[i].Value
		case program.KindParam, program.KindAccumulator:
			vals[i] = ex.Parameter(i)
		}
	}

	var ev opcode.ExecutorValues

	for iter := 0; iter < ex.N; iter++ {
		ex.Counter1 = iter
		for insnIdx := range p.Insns {
			insn := &p.Insns[insnIdx]
			op := insn.Opcode

			for k, slot := range insn.SrcArgs {
				if op.SrcSize[k] == 0 {
					continue
				}
				switch p.Vars[slot].Kind {
				case program.KindSrc, program.KindDest:
					ev.Src[k] = ex.Array(slot)[iter]
				default:
					ev.Src[k] = vals[slot]
				}
			}
			for k, slot := range insn.DestArgs {
				if op.DestSize[k] == 0 {
					continue
				}
				if p.Vars[slot].Kind == program.KindAccumulator {
					ev.Dest[k] = vals[slot]
				}
			}

			op.Emulate(&ev, op.EmulateUser)

			for k, slot := range insn.DestArgs {
				if op.DestSize[k] == 0 {
					continue
				}
				switch p.Vars[slot].Kind {
				case program.KindDest:
					ex.Array(slot)[iter] = ev.Dest[k]
				case program.KindAccumulator, program.KindTemp:
					vals[slot] = ev.Dest[k]
				}
			}
		}
	}

	// Publish final accumulator values back into the executor's
	// parameter bindings so a caller can read them after Run returns.
	for i := range p.Vars {
		if p.Vars[i].Kind == program.KindAccumulator {
			ex.SetParameter(i, vals[i])
		}
	}
}
