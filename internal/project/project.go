// Package project is the compiler's top-level driver (spec.md §4.6):
// it strings parser -> internal/inherit -> internal/sema -> internal/codegen
// together over one source unit, enforces the one cross-component rule
// none of those packages can enforce alone (every top-level declaration
// name is unique across the whole unit, not just within its own kind),
// and assembles the final StatefulContract/StatefulScript output set.
package project

import (
	"fmt"
	"sort"

	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/codegen"
	"github.com/ralph-lang/ralphc/internal/errors"
	"github.com/ralph-lang/ralphc/internal/inherit"
	"github.com/ralph-lang/ralphc/internal/parser"
	"github.com/ralph-lang/ralphc/internal/sema"
	"github.com/ralph-lang/ralphc/internal/symbols"
)

// Unit holds one parsed, resolved, checked source file, ready for
// codegen or for a `ralphc check`-style early exit.
type Unit struct {
	Filename string
	Source   string

	SourceUnit *ast.SourceUnit
	Universe   *sema.Universe
	Resolved   []*inherit.ResolvedContract
	Scopes     map[string]*symbols.ContractScope // by contract name

	Errors   []*errors.CompilerError
	Warnings []errors.Warning
}

// Output is the final assembled artifact set (spec.md §6.3).
type Output struct {
	Contracts []*codegen.ContractBytecode
	Scripts   []*codegen.Script
}

// Load parses, resolves, and type-checks one source file, stopping
// before code generation. This is `ralphc check`'s entry point as well
// as Build's first phase. It uses parser.DefaultMaxDepth; use
// LoadWithDepth to override (the `ralphc --depth` flag).
func Load(filename, source string) *Unit {
	return LoadWithDepth(filename, source, parser.DefaultMaxDepth)
}

// LoadWithDepth is Load with a caller-supplied recursion depth limit
// (spec.md §5).
func LoadWithDepth(filename, source string, maxDepth int) *Unit {
	u := &Unit{Filename: filename, Source: source}

	su, perrs := parser.ParseSourceWithDepth(filename, source, maxDepth)
	u.Errors = append(u.Errors, perrs...)
	if su == nil {
		return u
	}
	u.SourceUnit = su

	if dup := findDuplicateNames(su.Decls); dup != "" {
		u.Errors = append(u.Errors, errors.New(errors.Name, "duplicate top-level declaration name %q", dup))
	}

	registry := inherit.NewRegistry(su.Decls)
	resolved, ierrs := registry.ResolveAll()
	u.Errors = append(u.Errors, ierrs...)
	u.Resolved = resolved

	interfaces := map[string]*ast.Interface{}
	for _, d := range su.Decls {
		if iface, ok := d.(*ast.Interface); ok {
			interfaces[iface.Name.Value] = iface
		}
	}
	u.Universe = sema.NewUniverse(resolved, interfaces)

	checker := sema.NewChecker(u.Universe)
	u.Scopes = make(map[string]*symbols.ContractScope, len(resolved))
	for _, rc := range sortedByChainDepth(resolved) {
		u.Scopes[rc.Name] = checker.CheckContract(rc)
	}
	for _, d := range su.Decls {
		switch s := d.(type) {
		case *ast.TxScript:
			checker.CheckTxScript(s)
		case *ast.AssetScript:
			checker.CheckAssetScript(s)
		}
	}

	u.Errors = append(u.Errors, checker.Errors()...)
	u.Warnings = checker.Warnings()
	return u
}

// Build runs Load and, if it found no fatal errors, lowers every
// concrete (non-abstract) contract and every TxScript/AssetScript to
// bytecode (spec.md §4.5/§4.6). Abstract contracts are silently
// excluded from Output, not an error — they only become an error if
// requested individually via BuildNamed.
func Build(filename, source string) (*Unit, *Output) {
	return BuildWithDepth(filename, source, parser.DefaultMaxDepth)
}

// BuildWithDepth is Build with a caller-supplied recursion depth limit
// (spec.md §5).
func BuildWithDepth(filename, source string, maxDepth int) (*Unit, *Output) {
	u := LoadWithDepth(filename, source, maxDepth)
	if len(u.Errors) > 0 {
		return u, nil
	}

	out := &Output{}
	for _, rc := range sortedByChainDepth(u.Resolved) {
		if rc.IsAbstract {
			continue
		}
		cb, err := codegen.BuildContract(u.Universe, u.Scopes[rc.Name], rc)
		if err != nil {
			u.Errors = append(u.Errors, errors.New(errors.Internal, "%s", err))
			continue
		}
		out.Contracts = append(out.Contracts, cb)
	}
	for _, d := range u.SourceUnit.Decls {
		switch s := d.(type) {
		case *ast.TxScript:
			out.Scripts = append(out.Scripts, codegen.BuildScript(u.Universe, s))
		case *ast.AssetScript:
			out.Scripts = append(out.Scripts, codegen.BuildAssetScript(u.Universe, s))
		}
	}
	if len(u.Errors) > 0 {
		return u, nil
	}
	return u, out
}

// BuildNamed lowers exactly one contract by name, surfacing spec.md
// §4.6's exact abstract-contract rejection message rather than silently
// excluding it the way a whole-unit Build does.
func BuildNamed(u *Unit, name string) (*codegen.ContractBytecode, error) {
	for _, rc := range u.Resolved {
		if rc.Name != name {
			continue
		}
		return codegen.BuildContract(u.Universe, u.Scopes[name], rc)
	}
	return nil, fmt.Errorf("unknown contract %q", name)
}

// sortedByChainDepth orders resolved contracts parent-before-child
// (spec.md §4.6 wants deterministic, dependency-respecting emission
// order); ResolveAll itself returns declaration order, which doesn't
// guarantee that. A stable sort on ancestor-chain length is sufficient
// since spec.md §4.3 only allows single-parent `extends` chains.
func sortedByChainDepth(resolved []*inherit.ResolvedContract) []*inherit.ResolvedContract {
	out := make([]*inherit.ResolvedContract, len(resolved))
	copy(out, resolved)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].Chain) < len(out[j].Chain) })
	return out
}

// findDuplicateNames enforces spec.md §4.6: contract, interface, and
// script names share one flat namespace at the top level, not one
// namespace per declaration kind.
func findDuplicateNames(decls []ast.Decl) string {
	seen := map[string]bool{}
	for _, d := range decls {
		name := topLevelName(d)
		if name == "" {
			continue
		}
		if seen[name] {
			return name
		}
		seen[name] = true
	}
	return ""
}

func topLevelName(d ast.Decl) string {
	switch v := d.(type) {
	case *ast.Contract:
		return v.Name.Value
	case *ast.AbstractContract:
		return v.Name.Value
	case *ast.Interface:
		return v.Name.Value
	case *ast.TxScript:
		return v.Name.Value
	case *ast.AssetScript:
		return v.Name.Value
	default:
		return ""
	}
}
