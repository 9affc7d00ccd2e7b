package compiler

import "testing"

import "github.com/orcjit/orc/pkg/program"

func TestCheckSizesAccepts(t *testing.T) {
	p := program.New()
	p.AddSource(2, "s1")
	p.AddSource(2, "s2")
	p.AddDestination(2, "d1")
	p.AppendStr("addw", []string{"d1"}, []string{"s1", "s2"})

	ctx := newTestContext(p, fakeTarget(NewRuleSet()))
	ctx.checkSizes()

	if ctx.Error {
		t.Fatalf("checkSizes() latched an error on a well-typed program")
	}
}

func TestCheckSizesRejectsDestSizeMismatch(t *testing.T) {
	p := program.New()
	p.AddSource(2, "s1")
	p.AddSource(2, "s2")
	p.AddDestination(4, "d1") // wrong size: addw wants a 2-byte dest
	p.AppendStr("addw", []string{"d1"}, []string{"s1", "s2"})

	ctx := newTestContext(p, fakeTarget(NewRuleSet()))
	ctx.checkSizes()

	if !ctx.Error {
		t.Fatalf("checkSizes() did not flag a dest size mismatch")
	}
	if ctx.Result != ResultUnknownParse {
		t.Errorf("Result = %v, want ResultUnknownParse", ctx.Result)
	}
}

func TestCheckSizesAllowsConstBroadcastSizeMismatch(t *testing.T) {
	p := program.New()
	p.AddSource(2, "s1")
	p.AddConstant(4, 3, "c1") // c1 is declared 4 bytes but mulw wants a 2-byte src
	p.AddDestination(2, "d1")
	p.AppendStr("mulw", []string{"d1"}, []string{"s1", "c1"})

	ctx := newTestContext(p, fakeTarget(NewRuleSet()))
	ctx.checkSizes()

	if ctx.Error {
		t.Fatalf("checkSizes() flagged a const broadcast, which should be size-exempt")
	}
}

func TestCheckSizesRejectsScalarOpcodeWithVaryingSecondSource(t *testing.T) {
	p := program.New()
	p.AddSource(2, "s1")
	p.AddSource(2, "s2") // mulw requires src[1] to be Const/Param, not a varying Src
	p.AddDestination(2, "d1")
	p.AppendStr("mulw", []string{"d1"}, []string{"s1", "s2"})

	ctx := newTestContext(p, fakeTarget(NewRuleSet()))
	ctx.checkSizes()

	if !ctx.Error {
		t.Fatalf("checkSizes() did not flag a scalar opcode fed a varying second source")
	}
}
