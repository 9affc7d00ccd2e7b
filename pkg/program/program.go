package program

import (
	"fmt"

	"github.com/orcjit/orc/pkg/opcode"
)

// maxInsns bounds how many instructions a Program may hold, mirroring
// the original's fixed ORC_N_INSNS array. A straight-line kernel
// program of this size is already large for the domain Orc targets.
const maxInsns = 100

// Program is the validated input a compilation starts from: an ordered
// instruction sequence plus the variable table those instructions
// index into. Programs are built once via the Add*/Append* API below
// and then handed to pkg/compiler, which runs its passes on a private
// copy. The compiler writes back only Code (before compiling) and, on a
// successful compile, AsmCode, CodeSize and the annotated Vars table.
type Program struct {
	Name string

	Insns []Instruction

	Vars [NVar]Variable

	NSrcVars   int
	NDestVars  int
	NParamVars int
	NConstVars int
	NTempVars  int

	// BackupFunc, if set, is a pre-built native fallback invoked instead
	// of compiling (see pkg/compiler's driver, step 1, and the
	// ORC_CODE=backup flag).
	BackupFunc func(*Executor)

	// Code is the entry point a caller should invoke to run the
	// program. The driver sets it to BackupFunc (if present) or the
	// interpreter before attempting compilation, and leaves it there:
	// this module's one backend emits text, not a callable native
	// function, so there is nothing to swap Code to even on success.
	Code func(*Executor)

	// AsmCode and CodeSize are populated on a successful compile (see
	// pkg/compiler's driver, step 7). They are informational output:
	// CodeSize is len(AsmCode) for the one backend this module ships.
	AsmCode  string
	CodeSize int
}

// New creates an empty, unnamed Program with its destination/source/
// const/param/temp variable slots pre-labelled (D1.., S1.., etc.) but
// unused (Size == 0, which the validator treats as "this slot does not
// exist yet").
func New() *Program {
	p := &Program{}
	for i := 0; i < maxDest; i++ {
		p.Vars[VarD1+i] = newVariable(fmt.Sprintf("d%d", i+1), 0, KindDest)
	}
	for i := 0; i < maxSrc; i++ {
		p.Vars[VarS1+i] = newVariable(fmt.Sprintf("s%d", i+1), 0, KindSrc)
	}
	for i := 0; i < maxConst; i++ {
		p.Vars[VarC1+i] = newVariable(fmt.Sprintf("c%d", i+1), 0, KindConst)
	}
	for i := 0; i < maxParam; i++ {
		p.Vars[VarP1+i] = newVariable(fmt.Sprintf("p%d", i+1), 0, KindParam)
	}
	for i := 0; i < maxTemp; i++ {
		p.Vars[VarT1+i] = newVariable(fmt.Sprintf("t%d", i+1), 0, KindTemp)
	}
	return p
}

// SetName sets the program's diagnostic name.
func (p *Program) SetName(name string) { p.Name = name }

// AddDestination allocates the next unused destination slot with the
// given element size and name, and returns its slot index.
func (p *Program) AddDestination(size int, name string) (int, error) {
	if p.NDestVars >= maxDest {
		return 0, fmt.Errorf("program: too many destination variables (max %d)", maxDest)
	}
	slot := VarD1 + p.NDestVars
	p.Vars[slot] = newVariable(name, size, KindDest)
	p.NDestVars++
	return slot, nil
}

// AddSource allocates the next unused source slot.
func (p *Program) AddSource(size int, name string) (int, error) {
	if p.NSrcVars >= maxSrc {
		return 0, fmt.Errorf("program: too many source variables (max %d)", maxSrc)
	}
	slot := VarS1 + p.NSrcVars
	p.Vars[slot] = newVariable(name, size, KindSrc)
	p.NSrcVars++
	return slot, nil
}

// AddConstant allocates the next unused const slot with an immediate
// value baked in at construction time.
func (p *Program) AddConstant(size int, value int, name string) (int, error) {
	if p.NConstVars >= maxConst {
		return 0, fmt.Errorf("program: too many constant variables (max %d)", maxConst)
	}
	slot := VarC1 + p.NConstVars
	v := newVariable(name, size, KindConst)
	v.Value = value
	p.Vars[slot] = v
	p.NConstVars++
	return slot, nil
}

// AddParameter allocates the next unused param slot.
func (p *Program) AddParameter(size int, name string) (int, error) {
	if p.NParamVars >= maxParam {
		return 0, fmt.Errorf("program: too many parameter variables (max %d)", maxParam)
	}
	slot := VarP1 + p.NParamVars
	p.Vars[slot] = newVariable(name, size, KindParam)
	p.NParamVars++
	return slot, nil
}

// AddTemporary allocates the next unused temp slot.
func (p *Program) AddTemporary(size int, name string) (int, error) {
	if p.NTempVars >= maxTemp {
		return 0, fmt.Errorf("program: too many temporary variables (max %d)", maxTemp)
	}
	slot := VarT1 + p.NTempVars
	p.Vars[slot] = newVariable(name, size, KindTemp)
	p.NTempVars++
	return slot, nil
}

// AddAccumulator allocates a Dest-numbered slot as an Accumulator.
// Accumulators share the destination slot range, matching the
// original where ORC_VAR_TYPE_ACCUMULATOR variables are simply
// destinations the allocator treats specially — but since this module
// tracks Accumulator as its own Kind, callers add them explicitly
// rather than relying on an opcode flag to reinterpret a Dest.
func (p *Program) AddAccumulator(size int, name string) (int, error) {
	slot, err := p.AddDestination(size, name)
	if err != nil {
		return 0, err
	}
	p.Vars[slot].Kind = KindAccumulator
	return slot, nil
}

// FindVarByName returns the slot index of the variable named name.
func (p *Program) FindVarByName(name string) (int, error) {
	for i := range p.Vars {
		if p.Vars[i].Name == name && p.Vars[i].Size > 0 {
			return i, nil
		}
	}
	return 0, fmt.Errorf("program: no variable named %q", name)
}

// Append adds an instruction invoking the named opcode over the given
// destination and source slots, in opcode.NDest, opcode.NSrc order
// (trailing unused slots may be omitted).
func (p *Program) Append(opcodeName string, dest []int, src []int) error {
	op := opcode.Find(opcodeName)
	if op == nil {
		return fmt.Errorf("program: unknown opcode %q", opcodeName)
	}
	if len(p.Insns) >= maxInsns {
		return fmt.Errorf("program: too many instructions (max %d)", maxInsns)
	}
	var insn Instruction
	insn.Opcode = op
	copy(insn.DestArgs[:], dest)
	copy(insn.SrcArgs[:], src)
	p.Insns = append(p.Insns, insn)
	return nil
}

// AppendStr is the name-based convenience form of Append.
func (p *Program) AppendStr(opcodeName string, dest []string, src []string) error {
	destSlots := make([]int, len(dest))
	for i, n := range dest {
		slot, err := p.FindVarByName(n)
		if err != nil {
			return err
		}
		destSlots[i] = slot
	}
	srcSlots := make([]int, len(src))
	for i, n := range src {
		slot, err := p.FindVarByName(n)
		if err != nil {
			return err
		}
		srcSlots[i] = slot
	}
	return p.Append(opcodeName, destSlots, srcSlots)
}

// MaxVarSize returns the largest element size declared by any
// in-use variable, a quantity backends use to decide inner-loop
// unrolling.
func (p *Program) MaxVarSize() int {
	max := 0
	for i := range p.Vars {
		if p.Vars[i].Size > max {
			max = p.Vars[i].Size
		}
	}
	return max
}

// Run invokes the program's current entry point (BackupFunc or the
// interpreter — see the Code field) against ex.
func (p *Program) Run(ex *Executor) error {
	if p.Code == nil {
		return fmt.Errorf("program %q: no runnable entry point (never compiled)", p.Name)
	}
	p.Code(ex)
	return nil
}
