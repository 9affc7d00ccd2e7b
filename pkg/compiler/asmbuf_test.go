package compiler

import (
	"strings"
	"testing"

	"github.com/orcjit/orc/pkg/program"
)

func TestAppendCodeFormatsAndAccumulates(t *testing.T) {
	ctx := newTestContext(program.New(), fakeTarget(NewRuleSet()))
	ctx.AppendCode("a=%d;\n", 1)
	ctx.AppendCode("b=%d;\n", 2)
	want := "a=1;\nb=2;\n"
	if ctx.AsmCode != want {
		t.Errorf("AsmCode = %q, want %q", ctx.AsmCode, want)
	}
}

func TestAppendCodeTruncatesOverlongChunk(t *testing.T) {
	ctx := newTestContext(program.New(), fakeTarget(NewRuleSet()))
	long := strings.Repeat("x", 500)
	ctx.AppendCode("%s", long)
	if len(ctx.AsmCode) != maxAppendChunk {
		t.Errorf("len(AsmCode) = %d, want %d", len(ctx.AsmCode), maxAppendChunk)
	}
}

func TestLabelNewIncrements(t *testing.T) {
	ctx := newTestContext(program.New(), fakeTarget(NewRuleSet()))
	a := ctx.LabelNew()
	b := ctx.LabelNew()
	c := ctx.LabelNew()
	if a != 0 || b != 1 || c != 2 {
		t.Errorf("LabelNew() sequence = %d, %d, %d, want 0, 1, 2", a, b, c)
	}
}

func TestGetConstantCanonicalizesNarrowSizes(t *testing.T) {
	ctx := newTestContext(program.New(), fakeTarget(NewRuleSet()))
	var loaded []int
	ctx.Target = &Target{
		Name: "fake",
		LoadConstant: func(ctx *Context, reg, size, value int) {
			loaded = append(loaded, value)
		},
	}
	ctx.TmpReg = 99

	// A byte value of 1 splatted across 4 bytes should canonicalize the
	// same way regardless of the declared size, as long as the byte
	// pattern matches.
	ctx.GetConstant(1, 0x01)
	if len(loaded) != 1 {
		t.Fatalf("LoadConstant called %d times, want 1", len(loaded))
	}
	if loaded[0] != 0x01010101 {
		t.Errorf("canonicalized value = %#x, want %#x", loaded[0], 0x01010101)
	}
}

func TestGetConstantDedupsPoolEntries(t *testing.T) {
	ctx := newTestContext(program.New(), fakeTarget(NewRuleSet()))
	calls := 0
	ctx.Target = &Target{
		Name: "fake",
		LoadConstant: func(ctx *Context, reg, size, value int) {
			calls++
			ctx.Constants[len(ctx.Constants)-1].AllocReg = 7
		},
	}
	ctx.TmpReg = 99

	first := ctx.GetConstant(4, 42)
	second := ctx.GetConstant(4, 42)

	if calls != 1 {
		t.Errorf("LoadConstant called %d times for the same value, want 1", calls)
	}
	if first != 99 {
		t.Errorf("first GetConstant() = %d, want ctx.TmpReg (99) before a register is assigned", first)
	}
	if second != 7 {
		t.Errorf("second GetConstant() = %d, want the pooled AllocReg (7)", second)
	}
	if len(ctx.Constants) != 1 {
		t.Errorf("len(Constants) = %d, want 1 (second lookup should hit the same entry)", len(ctx.Constants))
	}
	if ctx.Constants[0].UseCount != 2 {
		t.Errorf("Constants[0].UseCount = %d, want 2", ctx.Constants[0].UseCount)
	}
}
