package opcode

import "fmt"

// table holds every opcode this module knows about, keyed by name.
// Entries are registered once by init() and never mutated afterward;
// the *StaticOpcode pointers handed out by Find are the same pointers
// instructions store and rules are looked up by (identity, not name —
// see pkg/compiler's RuleSet).
var table = map[string]*StaticOpcode{}

func register(o *StaticOpcode) {
	if _, dup := table[o.Name]; dup {
		panic(fmt.Sprintf("opcode: duplicate registration of %q", o.Name))
	}
	table[o.Name] = o
}

// Find looks up a static opcode by name. It returns nil if no such
// opcode has been registered.
func Find(name string) *StaticOpcode {
	return table[name]
}

// All returns every registered opcode, in registration order is not
// guaranteed (map iteration order).
func All() []*StaticOpcode {
	out := make([]*StaticOpcode, 0, len(table))
	for _, o := range table {
		out = append(out, o)
	}
	return out
}

func init() {
	register(&StaticOpcode{
		Name:     "copyw",
		DestSize: [NDest]int{2, 0},
		SrcSize:  [NSrc]int{2, 0, 0, 0},
		Emulate: func(ex *ExecutorValues, _ any) {
			ex.Dest[0] = ex.Src[0]
		},
	})
	register(&StaticOpcode{
		Name:     "copyb",
		DestSize: [NDest]int{1, 0},
		SrcSize:  [NSrc]int{1, 0, 0, 0},
		Emulate: func(ex *ExecutorValues, _ any) {
			ex.Dest[0] = ex.Src[0]
		},
	})
	register(&StaticOpcode{
		Name:     "copyl",
		DestSize: [NDest]int{4, 0},
		SrcSize:  [NSrc]int{4, 0, 0, 0},
		Emulate: func(ex *ExecutorValues, _ any) {
			ex.Dest[0] = ex.Src[0]
		},
	})
	register(&StaticOpcode{
		Name:     "addw",
		DestSize: [NDest]int{2, 0},
		SrcSize:  [NSrc]int{2, 2, 0, 0},
		Emulate: func(ex *ExecutorValues, _ any) {
			ex.Dest[0] = clampS16(ex.Src[0] + ex.Src[1])
		},
	})
	register(&StaticOpcode{
		Name:     "subw",
		DestSize: [NDest]int{2, 0},
		SrcSize:  [NSrc]int{2, 2, 0, 0},
		Emulate: func(ex *ExecutorValues, _ any) {
			ex.Dest[0] = clampS16(ex.Src[0] - ex.Src[1])
		},
	})
	register(&StaticOpcode{
		// mulw multiplies a varying source by a scalar const/param.
		Name:     "mulw",
		DestSize: [NDest]int{2, 0},
		SrcSize:  [NSrc]int{2, 2, 0, 0},
		Flags:    FlagScalar,
		Emulate: func(ex *ExecutorValues, _ any) {
			ex.Dest[0] = clampS16(ex.Src[0] * ex.Src[1])
		},
	})
	register(&StaticOpcode{
		Name:     "avgw",
		DestSize: [NDest]int{2, 0},
		SrcSize:  [NSrc]int{2, 2, 0, 0},
		Emulate: func(ex *ExecutorValues, _ any) {
			ex.Dest[0] = (ex.Src[0] + ex.Src[1] + 1) / 2
		},
	})
	register(&StaticOpcode{
		// accw accumulates a varying source into a persistent accumulator.
		Name:     "accw",
		DestSize: [NDest]int{2, 0},
		SrcSize:  [NSrc]int{2, 0, 0, 0},
		Flags:    FlagAccumulator,
		Emulate: func(ex *ExecutorValues, _ any) {
			ex.Dest[0] = clampS16(ex.Dest[0] + ex.Src[0])
		},
	})
	register(&StaticOpcode{
		Name:     "convwb",
		DestSize: [NDest]int{1, 0},
		SrcSize:  [NSrc]int{2, 0, 0, 0},
		Emulate: func(ex *ExecutorValues, _ any) {
			ex.Dest[0] = clampS8(ex.Src[0])
		},
	})
	register(&StaticOpcode{
		Name:     "convbw",
		DestSize: [NDest]int{2, 0},
		SrcSize:  [NSrc]int{1, 0, 0, 0},
		Emulate: func(ex *ExecutorValues, _ any) {
			ex.Dest[0] = ex.Src[0]
		},
	})
}

func clampS16(v int) int {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}

func clampS8(v int) int {
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return v
}
