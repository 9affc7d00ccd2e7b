package compiler

import (
	"testing"

	"github.com/orcjit/orc/pkg/opcode"
)

func TestRuleSetRegisterAndGet(t *testing.T) {
	rs := NewRuleSet()
	op := opcode.Find("addw")
	emit := func(ctx *Context, user any, insn *Instruction) {}
	rs.Register(op, emit, "payload")

	got := rs.Get(op)
	if got == nil || got.Emit == nil {
		t.Fatalf("Get(addw) = %v, want a bound rule", got)
	}
	if got.User != "payload" {
		t.Errorf("Get(addw).User = %v, want %q", got.User, "payload")
	}

	other := opcode.Find("subw")
	if rs.Get(other) != nil {
		t.Errorf("Get(subw) on an unregistered opcode returned non-nil")
	}
}

func TestRegisterAndGetByName(t *testing.T) {
	tgt := &Target{Name: "test-target-registry-1", Rules: NewRuleSet()}
	Register(tgt)

	got, err := GetByName("test-target-registry-1")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got != tgt {
		t.Errorf("GetByName returned a different *Target than was registered")
	}
}

func TestGetByNameUnknown(t *testing.T) {
	if _, err := GetByName("no-such-target-ever-registered"); err == nil {
		t.Errorf("GetByName on an unregistered name succeeded, want error")
	}
}

func TestGetRuleNilRuleSet(t *testing.T) {
	tgt := &Target{Name: "no-rules"}
	if got := tgt.GetRule(opcode.Find("addw"), 0); got != nil {
		t.Errorf("GetRule with a nil RuleSet returned %v, want nil", got)
	}
}
