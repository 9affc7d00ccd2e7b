package compiler

import "fmt"

// maxAppendChunk bounds a single AppendCode call the way the
// original's internal 200-byte stack buffer does: one formatted chunk
// this long, never a whole program's worth of text in one call.
const maxAppendChunk = 199

// AppendCode is the assembly buffer: it formats args
// into fmt and appends the result to ctx.AsmCode. It is used by every
// Rule and by a target's Compile/LoadConstant hooks — this is the
// ORC_ASM_CODE() macro's destination.
func (ctx *Context) AppendCode(format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	if len(s) > maxAppendChunk {
		s = s[:maxAppendChunk]
	}
	ctx.AsmCode += s
}

// LabelNew is the label allocator: an integer counter
// that hands out the next label and post-increments. The number of
// labels a backend may allocate is bounded by NLabels; detecting an
// overrun is a backend responsibility, not the core's.
func (ctx *Context) LabelNew() int {
	n := ctx.labelCounter
	ctx.labelCounter++
	return n
}

// LoadConstant delegates to the target's LoadConstant hook.
func (ctx *Context) LoadConstant(reg int, size int, value int) {
	ctx.Target.LoadConstant(ctx, reg, size, value)
}

// GetConstant is the constant pool. It canonicalizes
// value by splatting narrower sizes up to a full 32 bits, so that e.g.
// a byte constant and its 32-bit splat hit the same pool entry. If the
// entry already has an AllocReg it returns that register; otherwise it
// loads the canonical value into ctx.TmpReg via the target's
// LoadConstant hook and returns ctx.TmpReg.
func (ctx *Context) GetConstant(size int, value int) int {
	if size < 4 {
		if size < 2 {
			value &= 0xff
			value |= value << 8
		}
		value &= 0xffff
		value |= value << 16
	}

	idx := -1
	for i := range ctx.Constants {
		if ctx.Constants[i].Value == value {
			idx = i
			break
		}
	}
	if idx == -1 {
		ctx.Constants = append(ctx.Constants, ConstantEntry{Value: value})
		idx = len(ctx.Constants) - 1
	}

	ctx.Constants[idx].UseCount++

	if ctx.Constants[idx].AllocReg != 0 {
		return ctx.Constants[idx].AllocReg
	}
	ctx.LoadConstant(ctx.TmpReg, size, value)
	return ctx.TmpReg
}

// defaultAllocateCodemem installs a plain growable output buffer. It
// stands in for the original's mmap'd executable page: this module's
// one backend emits text through AppendCode, never raw machine bytes,
// so there is nothing here that needs to be executable.
func defaultAllocateCodemem(ctx *Context) {
	ctx.Code = make([]byte, 0, 256)
}
