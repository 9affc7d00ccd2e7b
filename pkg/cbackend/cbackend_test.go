package cbackend

import (
	"strings"
	"testing"

	"github.com/orcjit/orc/pkg/compiler"
	"github.com/orcjit/orc/pkg/program"
)

func TestCompileEmitsAddKernel(t *testing.T) {
	p := program.New()
	p.SetName("add_s16")
	p.AddSource(2, "s1")
	p.AddSource(2, "s2")
	p.AddDestination(2, "d1")
	if err := p.AppendStr("addw", []string{"d1"}, []string{"s1", "s2"}); err != nil {
		t.Fatalf("AppendStr: %v", err)
	}

	result := compiler.CompileFull(p, target, compiler.Flags{})
	if result != compiler.ResultOK {
		t.Fatalf("CompileFull() = %v, want ResultOK", result)
	}

	asm := p.AsmCode
	for _, want := range []string{
		"void add_s16(int n, int *d1, const int *s1, const int *s2)",
		"for (int i = 0; i < n; i++)",
		"d1[i] = orc_clamp16((int)s1[i] + (int)s2[i]);",
		"orc_clamp16",
	} {
		if !strings.Contains(asm, want) {
			t.Errorf("AsmCode missing %q; got:\n%s", want, asm)
		}
	}
	if p.CodeSize != len(asm) {
		t.Errorf("CodeSize = %d, want %d", p.CodeSize, len(asm))
	}
}

func TestCompileEmitsAccumulatorPersistence(t *testing.T) {
	p := program.New()
	p.SetName("accumulate")
	p.AddSource(2, "s1")
	p.AddAccumulator(2, "a1")
	if err := p.AppendStr("accw", []string{"a1"}, []string{"s1"}); err != nil {
		t.Fatalf("AppendStr: %v", err)
	}

	result := compiler.CompileFull(p, target, compiler.Flags{})
	if result != compiler.ResultOK {
		t.Fatalf("CompileFull() = %v, want ResultOK", result)
	}

	asm := p.AsmCode
	for _, want := range []string{
		"int __acc_a1 = *a1;",
		"__acc_a1 = orc_clamp16((int)__acc_a1 + (int)s1[i]);",
		"*a1 = __acc_a1;",
	} {
		if !strings.Contains(asm, want) {
			t.Errorf("AsmCode missing %q; got:\n%s", want, asm)
		}
	}
}

func TestCompileEmitsConstantLoad(t *testing.T) {
	p := program.New()
	p.SetName("mul_by_const")
	p.AddSource(2, "s1")
	p.AddConstant(2, 3, "c1")
	p.AddDestination(2, "d1")
	if err := p.AppendStr("mulw", []string{"d1"}, []string{"s1", "c1"}); err != nil {
		t.Fatalf("AppendStr: %v", err)
	}

	result := compiler.CompileFull(p, target, compiler.Flags{})
	if result != compiler.ResultOK {
		t.Fatalf("CompileFull() = %v, want ResultOK", result)
	}
	if !strings.Contains(p.AsmCode, "int __r") {
		t.Errorf("AsmCode does not declare a constant scratch register; got:\n%s", p.AsmCode)
	}
}

func TestTargetIsRegistered(t *testing.T) {
	got, err := compiler.GetByName(Name)
	if err != nil {
		t.Fatalf("GetByName(%q): %v", Name, err)
	}
	if got != target {
		t.Errorf("GetByName(%q) returned a different *Target than this package registered", Name)
	}
}
