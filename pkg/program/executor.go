package program

// Executor binds a Program to concrete input/output arrays and
// parameter values for one run. It mirrors the original's
// OrcExecutor: per-call bindings plus three free-running counters that
// Accumulator-flagged opcodes may use.
//
// Arrays hold element values as plain ints rather than raw bytes —
// this module never executes real machine code, so there is no need
// to model byte layout precisely; an interpreter operating on ints is
// sufficient to demonstrate and test the pipeline end to end.
type Executor struct {
	Program *Program

	N int

	Counter1 int
	Counter2 int
	Counter3 int

	arrays []([]int)
	params []int
}

// NewExecutor creates an Executor bound to p, with N defaulted to 0.
func NewExecutor(p *Program) *Executor {
	return &Executor{
		Program: p,
		arrays:  make([]([]int), NVar),
		params:  make([]int, NVar),
	}
}

// SetArray binds variable slot to the backing element slice. slot must
// be a Src or Dest variable.
func (ex *Executor) SetArray(slot int, data []int) {
	ex.arrays[slot] = data
}

// SetArrayByName is the name-based convenience form of SetArray.
func (ex *Executor) SetArrayByName(name string, data []int) error {
	slot, err := ex.Program.FindVarByName(name)
	if err != nil {
		return err
	}
	ex.SetArray(slot, data)
	return nil
}

// Array returns the element slice bound to slot.
func (ex *Executor) Array(slot int) []int {
	return ex.arrays[slot]
}

// SetParameter binds variable slot to a scalar Param or Accumulator
// value. A Const's value comes from the Program itself (Variable.Value),
// not from here.
func (ex *Executor) SetParameter(slot int, value int) {
	ex.params[slot] = value
}

// SetParameterByName is the name-based convenience form of SetParameter.
func (ex *Executor) SetParameterByName(name string, value int) error {
	slot, err := ex.Program.FindVarByName(name)
	if err != nil {
		return err
	}
	ex.SetParameter(slot, value)
	return nil
}

// Parameter returns the scalar bound to slot.
func (ex *Executor) Parameter(slot int) int {
	return ex.params[slot]
}

// SetN sets the number of loop iterations this run executes.
func (ex *Executor) SetN(n int) {
	ex.N = n
}
