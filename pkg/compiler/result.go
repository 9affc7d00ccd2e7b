package compiler

// Result is the outcome of a compilation attempt, with a totally
// ordered severity: higher values are worse. Two predicates matter to
// callers — Successful (executable code was produced) and Fatal (the
// program itself is malformed, not just uncompilable).
type Result int

const (
	// ResultOK means code was generated and the program's Code entry
	// point now runs it.
	ResultOK Result = iota
	// ResultEmulateOnly means the program is runnable only via its
	// backup or the interpreter. The driver in this package never
	// returns it: a missing rule is reported as ResultUnknownCompile
	// (see assignRules).
	ResultEmulateOnly
	// ResultUnknownCompile is a recoverable compile failure (no rule for
	// an opcode, register exhaustion, missing target, compilation
	// disabled with a backup present): the program is well-formed but
	// this target/attempt could not produce code.
	ResultUnknownCompile
	// ResultUnknownParse is a fatal failure: the program itself is
	// malformed (size mismatch, illegal operand kind, use-before-def).
	ResultUnknownParse
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultEmulateOnly:
		return "emulate-only"
	case ResultUnknownCompile:
		return "unknown-compile"
	case ResultUnknownParse:
		return "unknown-parse"
	default:
		return "result(?)"
	}
}

// Successful reports whether executable code was generated.
func (r Result) Successful() bool {
	return r == ResultOK
}

// Fatal reports whether the program itself is invalid. pkg/interp does
// not validate programs and runs such a program without reporting an
// error.
func (r Result) Fatal() bool {
	return r == ResultUnknownParse
}
