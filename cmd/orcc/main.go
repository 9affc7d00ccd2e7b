package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/orcjit/orc/pkg/compiler"
	"github.com/orcjit/orc/pkg/interp"
	"github.com/orcjit/orc/pkg/program"

	_ "github.com/orcjit/orc/pkg/cbackend"
)

var version = "0.1.0"

var (
	targetName string
	orcCode    string
	demoName   string
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "orcc",
		Short:         "orcc drives the Orc kernel compiler pipeline",
		Long:          `orcc builds a small demo kernel program and runs it through validation, rule binding, register allocation, and a backend, for exercising the pipeline without a real frontend.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentFlags().StringVar(&demoName, "demo", "add", "demo kernel to build (add, accumulate, avg)")

	rootCmd.AddCommand(newCompileCmd(out, errOut))
	rootCmd.AddCommand(newRunCmd(out, errOut))
	rootCmd.AddCommand(newTargetsCmd(out, errOut))

	return rootCmd
}

func newCompileCmd(out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "compile the demo kernel for a target and print the emitted assembly",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildDemo(demoName)
			if err != nil {
				return err
			}

			t, err := compiler.GetByName(targetName)
			if err != nil {
				return err
			}

			flags := compiler.ParseFlags(orcCode)
			result := compiler.CompileFull(p, t, flags)

			fmt.Fprintf(out, "result: %s (successful=%v fatal=%v)\n", result, result.Successful(), result.Fatal())
			if result.Successful() {
				fmt.Fprintf(out, "\n%s\n", p.AsmCode)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&targetName, "target", "c", "backend target to compile for")
	cmd.Flags().StringVar(&orcCode, "code", "", "value for ORC_CODE (comma-separated flags, e.g. \"debug\")")
	return cmd
}

func newRunCmd(out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run the demo kernel through the interpreter and print its output",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildDemo(demoName)
			if err != nil {
				return err
			}

			ex, n := bindDemoExecutor(p, demoName)
			interp.Run(ex)

			for i := 0; i < n; i++ {
				fmt.Fprintf(out, "%d: %v\n", i, dumpDestinations(p, ex, i))
			}
			return nil
		},
	}
	return cmd
}

func newTargetsCmd(out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "print the default backend target (the first one registered); other registered targets are not listed",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := compiler.GetDefault()
			if t == nil {
				fmt.Fprintln(out, "(no targets registered)")
				return nil
			}
			fmt.Fprintf(out, "default: %s\n", t.Name)
			return nil
		},
	}
}

// buildDemo constructs one of a handful of small kernels using only
// the public program-construction API, standing in for a real
// frontend (there isn't one in this module — programs are built
// directly against the variable table and instruction list).
func buildDemo(name string) (*program.Program, error) {
	switch name {
	case "add":
		p := program.New()
		p.SetName("orc_add_s16")
		if _, err := p.AddSource(2, "s1"); err != nil {
			return nil, err
		}
		if _, err := p.AddSource(2, "s2"); err != nil {
			return nil, err
		}
		if _, err := p.AddDestination(2, "d1"); err != nil {
			return nil, err
		}
		if err := p.AppendStr("addw", []string{"d1"}, []string{"s1", "s2"}); err != nil {
			return nil, err
		}
		return p, nil

	case "avg":
		p := program.New()
		p.SetName("orc_avg_s16")
		if _, err := p.AddSource(2, "s1"); err != nil {
			return nil, err
		}
		if _, err := p.AddSource(2, "s2"); err != nil {
			return nil, err
		}
		if _, err := p.AddDestination(2, "d1"); err != nil {
			return nil, err
		}
		if err := p.AppendStr("avgw", []string{"d1"}, []string{"s1", "s2"}); err != nil {
			return nil, err
		}
		return p, nil

	case "accumulate":
		p := program.New()
		p.SetName("orc_accumulate_s16")
		if _, err := p.AddSource(2, "s1"); err != nil {
			return nil, err
		}
		if _, err := p.AddAccumulator(2, "a1"); err != nil {
			return nil, err
		}
		if err := p.AppendStr("accw", []string{"a1"}, []string{"s1"}); err != nil {
			return nil, err
		}
		return p, nil

	default:
		return nil, fmt.Errorf("orcc: unknown demo %q (want add, avg, or accumulate)", name)
	}
}

// bindDemoExecutor binds sample input data to whichever demo program
// buildDemo produced, returning the bound Executor and the iteration
// count it should run for.
func bindDemoExecutor(p *program.Program, name string) (*program.Executor, int) {
	const n = 8
	ex := program.NewExecutor(p)
	ex.SetN(n)

	s1 := make([]int, n)
	s2 := make([]int, n)
	for i := 0; i < n; i++ {
		s1[i] = i * 100
		s2[i] = i * 10
	}
	ex.SetArrayByName("s1", s1)

	switch name {
	case "add", "avg":
		ex.SetArrayByName("s2", s2)
		ex.SetArrayByName("d1", make([]int, n))
	case "accumulate":
		ex.SetParameterByName("a1", 0)
	}
	return ex, n
}

func dumpDestinations(p *program.Program, ex *program.Executor, i int) int {
	for slot := range p.Vars {
		if p.Vars[slot].Kind == program.KindDest && p.Vars[slot].Size > 0 {
			return ex.Array(slot)[i]
		}
	}
	if slot, err := p.FindVarByName("a1"); err == nil {
		return ex.Parameter(slot)
	}
	return 0
}
