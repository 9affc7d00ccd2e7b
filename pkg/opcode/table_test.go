package opcode

import "testing"

func TestFindKnownOpcodes(t *testing.T) {
	names := []string{"copyw", "copyb", "copyl", "addw", "subw", "mulw", "avgw", "accw", "convwb", "convbw"}
	for _, name := range names {
		if op := Find(name); op == nil {
			t.Errorf("Find(%q) = nil, want a registered opcode", name)
		}
	}
}

func TestFindUnknown(t *testing.T) {
	if op := Find("nope"); op != nil {
		t.Errorf("Find(%q) = %v, want nil", "nope", op)
	}
}

func TestAllContainsEveryRegisteredOpcode(t *testing.T) {
	all := All()
	if len(all) < 10 {
		t.Fatalf("All() returned %d opcodes, want at least 10", len(all))
	}
	seen := map[string]bool{}
	for _, op := range all {
		seen[op.Name] = true
	}
	if !seen["addw"] || !seen["accw"] {
		t.Errorf("All() = %v, missing expected opcodes", seen)
	}
}

func TestAddwSaturates(t *testing.T) {
	op := Find("addw")
	var ev ExecutorValues
	ev.Src[0], ev.Src[1] = 30000, 10000
	op.Emulate(&ev, op.EmulateUser)
	if ev.Dest[0] != 32767 {
		t.Errorf("addw(30000, 10000) = %d, want 32767 (saturated)", ev.Dest[0])
	}
}

func TestSubwSaturatesNegative(t *testing.T) {
	op := Find("subw")
	var ev ExecutorValues
	ev.Src[0], ev.Src[1] = -30000, 10000
	op.Emulate(&ev, op.EmulateUser)
	if ev.Dest[0] != -32768 {
		t.Errorf("subw(-30000, 10000) = %d, want -32768 (saturated)", ev.Dest[0])
	}
}

func TestMulwIsScalar(t *testing.T) {
	op := Find("mulw")
	if !op.IsScalar() {
		t.Errorf("mulw.IsScalar() = false, want true")
	}
	if op.IsAccumulator() {
		t.Errorf("mulw.IsAccumulator() = true, want false")
	}
}

func TestAccwIsAccumulator(t *testing.T) {
	op := Find("accw")
	if !op.IsAccumulator() {
		t.Errorf("accw.IsAccumulator() = false, want true")
	}

	var ev ExecutorValues
	ev.Dest[0] = 100
	ev.Src[0] = 50
	op.Emulate(&ev, op.EmulateUser)
	if ev.Dest[0] != 150 {
		t.Errorf("accw accumulate 100+50 = %d, want 150", ev.Dest[0])
	}
}

func TestConvwbClamps(t *testing.T) {
	op := Find("convwb")
	var ev ExecutorValues
	ev.Src[0] = 500
	op.Emulate(&ev, op.EmulateUser)
	if ev.Dest[0] != 127 {
		t.Errorf("convwb(500) = %d, want 127 (saturated to int8 range)", ev.Dest[0])
	}
}

func TestAvgwRoundsUp(t *testing.T) {
	op := Find("avgw")
	var ev ExecutorValues
	ev.Src[0], ev.Src[1] = 3, 4
	op.Emulate(&ev, op.EmulateUser)
	if ev.Dest[0] != 4 {
		t.Errorf("avgw(3, 4) = %d, want 4", ev.Dest[0])
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("register() of a duplicate name did not panic")
		}
	}()
	register(&StaticOpcode{Name: "addw"})
}
