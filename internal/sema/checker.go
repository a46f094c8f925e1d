package sema

import (
	"strings"

	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/errors"
	"github.com/ralph-lang/ralphc/internal/inherit"
	"github.com/ralph-lang/ralphc/internal/symbols"
	"github.com/ralph-lang/ralphc/internal/types"
)

// Checker is the entry point for spec.md §2 item 3 ("semantic analysis"):
// one Checker processes every declaration in a SourceUnit against a
// shared Universe, accumulating fatal errors and warnings.
type Checker struct {
	u        *Universe
	errs     []*errors.CompilerError
	warnings []errors.Warning

	currentEventsUsed map[string]bool
}

// NewChecker builds a Checker over a whole-unit Universe (spec.md §4.6:
// cross-contract external calls need every contract's signatures
// available up front, not just the one being checked).
func NewChecker(u *Universe) *Checker {
	return &Checker{u: u}
}

func (c *Checker) errf(err *errors.CompilerError) {
	c.errs = append(c.errs, err)
}

// Errors and Warnings return everything accumulated so far.
func (c *Checker) Errors() []*errors.CompilerError { return c.errs }
func (c *Checker) Warnings() []errors.Warning       { return c.warnings }

// CheckContract type-checks one inheritance-resolved contract, returning
// its populated ContractScope for internal/codegen to consume.
func (c *Checker) CheckContract(rc *inherit.ResolvedContract) *symbols.ContractScope {
	cs := symbols.NewContractScope(rc.Name, rc.Decl.Fields(), c.u.ResolveType)
	c.currentEventsUsed = map[string]bool{}

	for _, ev := range rc.Decl.Events() {
		if len(ev.FieldTypes) > 8 {
			c.errf(errors.At(errors.Type, ev.Position, "event %q has %d fields, at most 8 are allowed", ev.Name.Value, len(ev.FieldTypes)))
		}
		cs.Events[ev.Name.Value] = ev
	}

	c.checkConsts(cs, rc.Decl.Consts())
	c.checkEnums(cs, rc.Decl.Enums())

	for _, fn := range rc.Decl.Functions() {
		cs.DefineFunction(fn)
	}
	for _, fn := range rc.Decl.Functions() {
		c.checkFunction(cs, rc.Name, fn)
	}

	c.checkUnusedContractMembers(cs, rc)
	return cs
}

func (c *Checker) checkConsts(cs *symbols.ContractScope, decls []*ast.ConstantDecl) {
	// A bare top-level funcCtx with no enclosing function and an empty
	// local scope: names resolve through the contract scope, so literals,
	// earlier consts and contract fields are accepted; calls to the
	// contract's own functions fail as undefined because functions are
	// defined only after consts and enums.
	ctx := &funcCtx{u: c.u, contract: cs, self: cs.Name, fn: &ast.Function{}, scope: symbols.NewScope(nil)}
	for _, d := range decls {
		t := c.exprType(ctx, d.Value)
		sym := cs.DefineConst(d.Name.Value, t, d.Position)
		sym.ConstExpr = d.Value
		if n, ok := c.foldConstIndex(ctx, d.Value); ok {
			sym.Folded, sym.FoldedValue = true, n
		}
	}
}

func (c *Checker) checkEnums(cs *symbols.ContractScope, decls []*ast.EnumDecl) {
	ctx := &funcCtx{u: c.u, contract: cs, self: cs.Name, fn: &ast.Function{}, scope: symbols.NewScope(nil)}
	for _, e := range decls {
		if len(e.Variants) == 0 {
			c.errf(errors.At(errors.Type, e.Position, "enum %q has no variants", e.Name.Value))
			continue
		}
		var enumType *types.Type
		for i, v := range e.Variants {
			t := c.exprType(ctx, v.Value)
			if i == 0 {
				enumType = t
			} else if !t.Equal(enumType) && t.Kind != types.KindInvalid {
				c.errf(errors.At(errors.Type, v.Position, "enum %q variant %q has type %s, expected %s", e.Name.Value, v.Name.Value, t, enumType))
			}
			vs := cs.DefineEnumVariant(e.Name.Value, v.Name.Value, t, v.Position)
			vs.ConstExpr = v.Value
		}
	}
}

func (c *Checker) checkFunction(cs *symbols.ContractScope, contractName string, fn *ast.Function) {
	if fn.Body == nil {
		return
	}
	top := symbols.NewScope(nil)
	for _, p := range fn.Params {
		top.Define(&symbols.Symbol{
			Name: p.Name.Value, Kind: symbols.KindParam,
			VarType: c.u.ResolveType(p.VarType), Mut: p.Mut, Unused: p.Unused,
			Position: p.Position, Assigned: true,
		})
	}
	ctx := &funcCtx{u: c.u, contract: cs, self: contractName, fn: fn, scope: top}
	terminates := c.checkBlock(ctx, fn.Body)

	if fn.ReturnType != nil && !terminates {
		c.errf(errors.At(errors.Return, fn.EndPos, "Expected return statement for function %q", fn.Name.Value))
	}
	c.checkAssetAnnotationOverclaim(ctx)

	for _, p := range top.Locals() {
		if !p.Unused && !p.Used && p.Name != "_" {
			c.warnings = append(c.warnings, errors.WarnAt(contractName+"."+fn.Name.Value, p.Position, "unused parameter %q", p.Name))
		}
	}
}

// checkAssetAnnotationOverclaim is the converse of call.go's under-claim
// checks (spec.md §4.4: "conversely an annotation without matching use is
// an error"): a function whose @using flags claim preapproved or
// contract-asset usage but whose body never actually exercises a matching
// builtin or approval clause is rejected the same way an under-claim is.
func (c *Checker) checkAssetAnnotationOverclaim(ctx *funcCtx) {
	fn := ctx.fn
	if fn.Using.PreapprovedAssetsSet && fn.Using.PreapprovedAssets && !ctx.usedPreapproved {
		c.errf(errors.At(errors.Assets, fn.Position, "function %q is @using(preapprovedAssets = true) but never uses a preapproved-asset builtin or approval clause", fn.Name.Value))
	}
	if fn.Using.AssetsInContractSet && fn.Using.AssetsInContract && !ctx.usedContractAsset {
		c.errf(errors.At(errors.Assets, fn.Position, "function %q is @using(assetsInContract = true) but never touches contract assets", fn.Name.Value))
	}
}

func (c *Checker) checkUnusedContractMembers(cs *symbols.ContractScope, rc *inherit.ResolvedContract) {
	warnField := func(f *symbols.Symbol) {
		if !f.Unused && !f.Used {
			c.warnings = append(c.warnings, errors.WarnAt(cs.Name, f.Position, "unused field %q", f.Name))
		}
	}
	for _, f := range cs.ImmutableFields {
		warnField(f)
	}
	var unassigned []string
	for _, f := range cs.MutableFields {
		warnField(f)
		if f.Mut && !f.Assigned {
			unassigned = append(unassigned, f.Name)
		}
	}
	if len(unassigned) > 0 {
		c.errf(errors.At(errors.Mutability, rc.Decl.Pos(), "There are unassigned mutable fields in contract %s: %s", cs.Name, strings.Join(unassigned, ", ")))
	}
	for _, sym := range cs.Consts {
		if !sym.Used {
			c.warnings = append(c.warnings, errors.WarnAt(cs.Name, sym.Position, "unused constant %q", sym.Name))
		}
	}
	for key, sym := range cs.EnumVariant {
		if !sym.Used {
			c.warnings = append(c.warnings, errors.WarnAt(cs.Name, sym.Position, "unused enum variant %q", key))
		}
	}
	for name := range cs.Events {
		if !c.currentEventsUsed[name] {
			c.warnings = append(c.warnings, errors.Warn(cs.Name, "event %q is never emitted", name))
		}
	}
}

// CheckTxScript type-checks a TxScript's template parameters, top-level
// statements, and any helper functions (spec.md §4.1, S2).
func (c *Checker) CheckTxScript(s *ast.TxScript) *symbols.Scope {
	top := symbols.NewScope(nil)
	for _, p := range s.Params {
		top.Define(&symbols.Symbol{Name: p.Name.Value, Kind: symbols.KindParam, VarType: c.u.ResolveType(p.VarType), Mut: p.Mut, Unused: p.Unused, Position: p.Position, Assigned: true})
	}
	mainFn := &ast.Function{Name: &ast.Ident{Value: s.Name.Value}, Using: ast.UsingAnnotation{PreapprovedAssets: true, PreapprovedAssetsSet: true, AssetsInContract: true, AssetsInContractSet: true}}
	ctx := &funcCtx{u: c.u, contract: nil, self: "", fn: mainFn, scope: top}
	block := &ast.FunctionBlock{Stmts: s.MainStmts, Position: s.Position, EndPos: s.EndPos}
	c.checkBlock(ctx, block)

	for _, fn := range s.Functions {
		c.checkScriptFunction(top, s.Name.Value, fn)
	}
	return top
}

// CheckAssetScript type-checks an AssetScript's functions (spec.md S1:
// "body is one or more functions", no top-level statements).
func (c *Checker) CheckAssetScript(s *ast.AssetScript) {
	top := symbols.NewScope(nil)
	for _, fn := range s.Functions {
		c.checkScriptFunction(top, s.Name.Value, fn)
	}
}

func (c *Checker) checkScriptFunction(outer *symbols.Scope, scriptName string, fn *ast.Function) {
	if fn.Body == nil {
		return
	}
	top := symbols.NewScope(outer)
	for _, p := range fn.Params {
		top.Define(&symbols.Symbol{Name: p.Name.Value, Kind: symbols.KindParam, VarType: c.u.ResolveType(p.VarType), Mut: p.Mut, Unused: p.Unused, Position: p.Position, Assigned: true})
	}
	ctx := &funcCtx{u: c.u, contract: nil, self: "", fn: fn, scope: top}
	terminates := c.checkBlock(ctx, fn.Body)
	if fn.ReturnType != nil && !terminates {
		c.errf(errors.At(errors.Return, fn.EndPos, "Expected return statement for function %q", fn.Name.Value))
	}
	c.checkAssetAnnotationOverclaim(ctx)
}
