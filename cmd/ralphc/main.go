// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ralph-lang/ralphc/internal/codegen"
	"github.com/ralph-lang/ralphc/internal/errors"
	"github.com/ralph-lang/ralphc/internal/project"
	"github.com/ralph-lang/ralphc/internal/syntax"
)

var (
	jsonOut  bool
	yamlOut  bool
	noColor  bool
	maxDepth int
)

func main() {
	root := &cobra.Command{
		Use:   "ralphc",
		Short: "Ralph smart-contract compiler",
	}
	root.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit JSON instead of text")
	root.PersistentFlags().BoolVar(&yamlOut, "yaml", false, "emit YAML instead of text")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
	root.PersistentFlags().IntVar(&maxDepth, "depth", 128, "recursion/nesting depth limit (spec §5)")

	root.AddCommand(buildCmd(), checkCmd(), dumpIRCmd(), fmtCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <files...>",
		Short: "Type-check and compile to bytecode",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := true
			for _, path := range args {
				if !runBuild(path) {
					ok = false
				}
			}
			if !ok {
				os.Exit(1)
			}
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <files...>",
		Short: "Type-check and lint without generating bytecode",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := true
			for _, path := range args {
				if !runCheck(path) {
					ok = false
				}
			}
			if !ok {
				os.Exit(1)
			}
			return nil
		},
	}
}

func dumpIRCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump-ir <files...>",
		Short: "Print the compiled instruction stream for every contract and script",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := true
			for _, path := range args {
				if !runDumpIR(path) {
					ok = false
				}
			}
			if !ok {
				os.Exit(1)
			}
			return nil
		},
	}
}

func fmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt <files...>",
		Short: "Pretty-print Ralph source in canonical form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := true
			for _, path := range args {
				if !runFmt(path) {
					ok = false
				}
			}
			if !ok {
				os.Exit(1)
			}
			return nil
		},
	}
}

func runFmt(path string) bool {
	src, ok := readSource(path)
	if !ok {
		return false
	}
	formatted, err := syntax.Format(path, src)
	if err != nil {
		color.Red("%s: %s", path, err)
		return false
	}
	fmt.Print(formatted)
	return true
}

func readSource(path string) (string, bool) {
	src, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		return "", false
	}
	return string(src), true
}

func runCheck(path string) bool {
	src, ok := readSource(path)
	if !ok {
		return false
	}
	u := project.LoadWithDepth(path, src, maxDepth)
	reportDiagnostics(path, src, u.Errors, u.Warnings)
	return len(u.Errors) == 0
}

func runBuild(path string) bool {
	src, ok := readSource(path)
	if !ok {
		return false
	}
	u, out := project.BuildWithDepth(path, src, maxDepth)
	reportDiagnostics(path, src, u.Errors, u.Warnings)
	if out == nil {
		return false
	}

	switch {
	case jsonOut:
		data, err := project.EncodeJSON(out)
		if err != nil {
			color.Red("encode error: %s", err)
			return false
		}
		fmt.Println(string(data))
	case yamlOut:
		data, err := project.EncodeYAML(out)
		if err != nil {
			color.Red("encode error: %s", err)
			return false
		}
		fmt.Println(string(data))
	default:
		for _, c := range out.Contracts {
			color.Green("compiled contract %s (%d methods)", c.Name, len(c.Methods))
		}
		for _, s := range out.Scripts {
			color.Green("compiled script %s (%d methods)", s.Name, len(s.Methods))
		}
	}
	return true
}

func runDumpIR(path string) bool {
	src, ok := readSource(path)
	if !ok {
		return false
	}
	u, out := project.BuildWithDepth(path, src, maxDepth)
	reportDiagnostics(path, src, u.Errors, u.Warnings)
	if out == nil {
		return false
	}
	for _, c := range out.Contracts {
		fmt.Printf("contract %s {\n", c.Name)
		for _, m := range c.Methods {
			dumpMethod(m.Name, m.Code)
		}
		fmt.Println("}")
	}
	for _, s := range out.Scripts {
		fmt.Printf("script %s {\n", s.Name)
		for _, m := range s.Methods {
			dumpMethod(m.Name, m.Code)
		}
		fmt.Println("}")
	}
	return true
}

func dumpMethod(name string, code []codegen.Instr) {
	fmt.Printf("  fn %s:\n", name)
	for i, instr := range code {
		fmt.Printf("    %4d  %s\n", i, instr.String())
	}
}

func reportDiagnostics(path, src string, errs []*errors.CompilerError, warns []errors.Warning) {
	colorize := !noColor
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, errors.Render(path, src, e, colorize))
	}
	for _, w := range warns {
		fmt.Fprintln(os.Stderr, errors.RenderWarning(w, colorize))
	}
}
