// Package inherit resolves `extends`/`implements` chains (spec.md §4.3):
// DFS linearization with cycle detection, field-list propagation, single-
// chain interface inheritance, signature matching against implemented
// interfaces, enum/constant merging, and @std synthetic field injection.
//
// It runs once per SourceUnit, after parsing and before type checking —
// internal/sema consumes its ResolvedContract values rather than
// walking ast.Contract/ast.AbstractContract directly.
package inherit

import (
	"strings"

	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/errors"
)

// contractLike is the method set ast.Contract and ast.AbstractContract
// both satisfy; it lets the resolver treat concrete and abstract
// contracts identically until the project driver rejects abstract
// emission (spec.md §4.6).
type contractLike interface {
	ast.Decl
	Fields() []*ast.Field
	Extends() (*ast.Ident, []ast.Expr)
	Implements() []*ast.Ident
	Std() ast.StdAnnotation
	Consts() []*ast.ConstantDecl
	Enums() []*ast.EnumDecl
	Events() []*ast.Event
	Functions() []*ast.Function
	SetFields([]*ast.Field)
	SetConsts([]*ast.ConstantDecl)
	SetEnums([]*ast.EnumDecl)
	SetEvents([]*ast.Event)
	SetFunctions([]*ast.Function)
}

// ResolvedContract is the linearized view of one Contract/AbstractContract:
// its own declarations plus everything merged in from its extends/implements
// chain, ready for internal/sema to type-check.
type ResolvedContract struct {
	Decl        contractLike
	Name        string
	IsAbstract  bool
	Chain       []string // ancestor names, root-first, ending with Name
	Implements  []string // flattened interface names across all chains
	StdField    *ast.Field
}

// Registry indexes every top-level decl that participates in inheritance.
type Registry struct {
	contracts  map[string]contractLike
	interfaces map[string]*ast.Interface
	order      []string
}

// NewRegistry indexes the Contract/AbstractContract/Interface decls of a
// SourceUnit. TxScript/AssetScript never participate in inheritance and
// are ignored.
func NewRegistry(decls []ast.Decl) *Registry {
	r := &Registry{
		contracts:  map[string]contractLike{},
		interfaces: map[string]*ast.Interface{},
	}
	for _, d := range decls {
		switch v := d.(type) {
		case *ast.Contract:
			r.contracts[v.Name.Value] = v
			r.order = append(r.order, v.Name.Value)
		case *ast.AbstractContract:
			r.contracts[v.Name.Value] = v
			r.order = append(r.order, v.Name.Value)
		case *ast.Interface:
			r.interfaces[v.Name.Value] = v
		}
	}
	return r
}

// ResolveAll linearizes every registered contract/abstract contract in
// declaration order and returns one ResolvedContract per success, plus
// every fatal error encountered (spec.md §7: a single error aborts the
// declaration it belongs to, independent declarations may still resolve).
func (r *Registry) ResolveAll() ([]*ResolvedContract, []*errors.CompilerError) {
	var resolved []*ResolvedContract
	var errs []*errors.CompilerError
	for _, name := range r.order {
		rc, cerrs := r.Resolve(name)
		errs = append(errs, cerrs...)
		if rc != nil {
			resolved = append(resolved, rc)
		}
	}
	return resolved, errs
}

// Resolve linearizes a single contract/abstract contract by name.
func (r *Registry) Resolve(name string) (*ResolvedContract, []*errors.CompilerError) {
	color := map[string]int{} // 0 white, 1 gray, 2 black
	var chain []contractLike
	if err := r.linearize(name, name, color, &chain); err != nil {
		return nil, []*errors.CompilerError{err}
	}

	var errs []*errors.CompilerError
	errs = append(errs, checkFieldForwarding(chain)...)

	fields, ferrs := mergeFields(chain)
	errs = append(errs, ferrs...)

	consts, cerrs := mergeConsts(chain)
	errs = append(errs, cerrs...)

	enums, eerrs := mergeEnums(chain)
	errs = append(errs, eerrs...)

	events, eventErrs := mergeEvents(chain)
	errs = append(errs, eventErrs...)

	fns, fnErrs := mergeFunctions(chain)
	errs = append(errs, fnErrs...)

	self := chain[len(chain)-1]

	implNames, implErrs := r.linearizeImplements(self)
	errs = append(errs, implErrs...)

	var stdField *ast.Field
	if len(implErrs) == 0 {
		sf, stdErrs := r.resolveStdField(self, implNames)
		errs = append(errs, stdErrs...)
		stdField = sf
		if stdField != nil {
			fields = append(fields, stdField)
		}
	}

	sigErrs := r.checkImplementedSignatures(self, implNames, fns)
	errs = append(errs, sigErrs...)

	if len(errs) > 0 {
		return nil, errs
	}

	self.SetFields(fields)
	self.SetConsts(consts)
	self.SetEnums(enums)
	self.SetEvents(events)
	self.SetFunctions(fns)

	chainNames := make([]string, len(chain))
	for i, c := range chain {
		chainNames[i] = declName(c)
	}

	_, isAbstract := self.(*ast.AbstractContract)

	return &ResolvedContract{
		Decl:       self,
		Name:       name,
		IsAbstract: isAbstract,
		Chain:      chainNames,
		Implements: implNames,
		StdField:   stdField,
	}, nil
}

func declName(c contractLike) string {
	type named interface{ String() string }
	if n, ok := c.(named); ok {
		s := n.String()
		if i := strings.LastIndex(s, " "); i >= 0 {
			return s[i+1:]
		}
		return s
	}
	return ""
}

// linearize walks the single-parent `extends` chain with a classic
// three-color DFS (spec.md §9). entryName is the contract Resolve was
// originally called for, since the cyclic-inheritance diagnostic always
// names the entry point (spec.md S7), not the node where the cycle was
// detected.
func (r *Registry) linearize(entryName, name string, color map[string]int, chain *[]contractLike) *errors.CompilerError {
	switch color[name] {
	case 2:
		return nil
	case 1:
		return errors.New(errors.Inheritance, "Cyclic inheritance detected for contract %s", entryName)
	}
	color[name] = 1

	c, ok := r.contracts[name]
	if !ok {
		return errors.New(errors.Inheritance, "unknown parent contract or declaration %q", name)
	}

	parent, _ := c.Extends()
	if parent != nil {
		if err := r.linearize(entryName, parent.Value, color, chain); err != nil {
			return err
		}
	}

	*chain = append(*chain, c)
	color[name] = 2
	return nil
}

// checkFieldForwarding validates that `extends Parent(arg0, arg1, ...)`
// supplies exactly as many arguments as Parent declares fields, and that
// any forwarded argument naming one of the child's own fields carries
// the same `mut`-ness as the parent field it's bound to (spec.md §4.3:
// "the shape (name, mut) of each forwarded field must match the
// parent's declaration exactly").
func checkFieldForwarding(chain []contractLike) []*errors.CompilerError {
	var errs []*errors.CompilerError
	for i := 1; i < len(chain); i++ {
		child, parent := chain[i], chain[i-1]
		_, args := child.Extends()
		parentFields := parent.Fields()
		if len(args) != len(parentFields) {
			errs = append(errs, errors.New(errors.Inheritance,
				"contract %s forwards %d argument(s) to %s but it declares %d field(s)",
				declName(child), len(args), declName(parent), len(parentFields)))
			continue
		}
		ownFieldMut := map[string]bool{}
		for _, f := range child.Fields() {
			ownFieldMut[f.Name.Value] = f.Mut
		}
		for idx, arg := range args {
			id, ok := arg.(*ast.IdentExpr)
			if !ok {
				continue // non-identifier forwarding (literal/expr) carries no mut shape to check
			}
			mut, known := ownFieldMut[id.Name]
			if !known {
				continue
			}
			if mut != parentFields[idx].Mut {
				errs = append(errs, errors.New(errors.Inheritance,
					"field %q forwarded from %s to %s.%s has mismatched mutability",
					id.Name, declName(child), declName(parent), parentFields[idx].Name.Value))
			}
		}
	}
	return errs
}

// mergeFields concatenates each ancestor's own declared fields, root
// first, erroring on a name collision.
func mergeFields(chain []contractLike) ([]*ast.Field, []*errors.CompilerError) {
	var out []*ast.Field
	var errs []*errors.CompilerError
	seen := map[string]string{}
	for _, c := range chain {
		for _, f := range c.Fields() {
			if owner, dup := seen[f.Name.Value]; dup {
				errs = append(errs, errors.New(errors.Inheritance,
					"field %q declared in both %s and %s", f.Name.Value, owner, declName(c)))
				continue
			}
			seen[f.Name.Value] = declName(c)
			out = append(out, f)
		}
	}
	return out, errs
}

// mergeConsts requires globally-unique names post-inheritance (spec.md §3).
func mergeConsts(chain []contractLike) ([]*ast.ConstantDecl, []*errors.CompilerError) {
	var out []*ast.ConstantDecl
	var errs []*errors.CompilerError
	seen := map[string]bool{}
	for _, c := range chain {
		for _, k := range c.Consts() {
			if seen[k.Name.Value] {
				errs = append(errs, errors.New(errors.Inheritance, "duplicate const %q across inheritance chain", k.Name.Value))
				continue
			}
			seen[k.Name.Value] = true
			out = append(out, k)
		}
	}
	return out, errs
}

// mergeEvents requires globally-unique names post-inheritance (spec.md §3).
func mergeEvents(chain []contractLike) ([]*ast.Event, []*errors.CompilerError) {
	var out []*ast.Event
	var errs []*errors.CompilerError
	seen := map[string]bool{}
	for _, c := range chain {
		for _, e := range c.Events() {
			if seen[e.Name.Value] {
				errs = append(errs, errors.New(errors.Inheritance, "duplicate event %q across inheritance chain", e.Name.Value))
				continue
			}
			seen[e.Name.Value] = true
			out = append(out, e)
		}
	}
	return out, errs
}

// mergeEnums unions variant sets by enum name across the chain; the same
// variant name appearing twice, or a mismatched variant-literal type
// within one enum, is an error (spec.md §4.3).
func mergeEnums(chain []contractLike) ([]*ast.EnumDecl, []*errors.CompilerError) {
	var errs []*errors.CompilerError
	order := []string{}
	byName := map[string]*ast.EnumDecl{}
	variantKind := map[string]map[string]ast.LiteralKind{}

	for _, c := range chain {
		for _, e := range c.Enums() {
			existing, ok := byName[e.Name.Value]
			if !ok {
				merged := &ast.EnumDecl{Name: e.Name, Position: e.Position, EndPos: e.EndPos}
				byName[e.Name.Value] = merged
				variantKind[e.Name.Value] = map[string]ast.LiteralKind{}
				existing = merged
				order = append(order, e.Name.Value)
			}
			for _, v := range e.Variants {
				kinds := variantKind[e.Name.Value]
				lit, isLit := v.Value.(*ast.LiteralExpr)
				var kind ast.LiteralKind
				if isLit {
					kind = lit.Kind
				}
				if prior, dup := kinds[v.Name.Value]; dup {
					if isLit && prior != kind {
						errs = append(errs, errors.New(errors.Inheritance,
							"enum %s variant %q redeclared with a different underlying type", e.Name.Value, v.Name.Value))
					} else {
						errs = append(errs, errors.New(errors.Inheritance,
							"enum %s variant %q declared twice across inheritance chain", e.Name.Value, v.Name.Value))
					}
					continue
				}
				kinds[v.Name.Value] = kind
				existing.Variants = append(existing.Variants, v)
			}
		}
	}

	out := make([]*ast.EnumDecl, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out, errs
}

// mergeFunctions collects every function across the chain; a name
// collision (two distinct definitions of the same function name) is an
// error, but a function redeclared identically down the chain (an
// override) keeps the most-derived definition.
func mergeFunctions(chain []contractLike) ([]*ast.Function, []*errors.CompilerError) {
	var errs []*errors.CompilerError
	order := []string{}
	byName := map[string]*ast.Function{}
	definedAt := map[string]string{}

	for _, c := range chain {
		for _, fn := range c.Functions() {
			if prior, ok := byName[fn.Name.Value]; ok {
				if !sameSignature(prior, fn) {
					errs = append(errs, errors.New(errors.Inheritance,
						"function %q redefined with a different signature between %s and %s",
						fn.Name.Value, definedAt[fn.Name.Value], declName(c)))
				}
			} else {
				order = append(order, fn.Name.Value)
			}
			byName[fn.Name.Value] = fn // most-derived wins
			definedAt[fn.Name.Value] = declName(c)
		}
	}

	out := make([]*ast.Function, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out, errs
}

func sameSignature(a, b *ast.Function) bool {
	if a.Public != b.Public || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i].VarType.String() != b.Params[i].VarType.String() {
			return false
		}
	}
	return typeExprString(a.ReturnType) == typeExprString(b.ReturnType)
}

func typeExprString(t *ast.TypeExpr) string {
	if t == nil {
		return "()"
	}
	return t.String()
}

// linearizeImplements walks every `implements` interface of a contract,
// following each interface's single-parent chain, and rejects a contract
// whose interfaces do not all form one chain per spec.md §4.3: "Multiple
// inheritance is allowed only via a single chain of interfaces".
func (r *Registry) linearizeImplements(c contractLike) ([]string, []*errors.CompilerError) {
	names := c.Implements()
	if len(names) == 0 {
		return nil, nil
	}

	var errs []*errors.CompilerError
	chains := make(map[string][]string) // interface name -> its own root-to-self chain
	for _, id := range names {
		chain, err := r.interfaceChain(id.Value, map[string]int{})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		chains[id.Value] = chain
	}
	if len(errs) > 0 {
		return nil, errs
	}

	// All declared interfaces must lie on one common chain: the longest
	// chain must contain every other declared interface as a prefix.
	// Walked in declaration order (not map iteration order) so the tie-
	// break between same-length chains stays deterministic across runs
	// (spec.md §8: "compiling the same source twice yields identical
	// bytecode and identical warning list order").
	var longest []string
	for _, id := range names {
		ch := chains[id.Value]
		if len(ch) > len(longest) {
			longest = ch
		}
	}
	longestSet := map[string]int{}
	for i, n := range longest {
		longestSet[n] = i
	}
	for _, id := range names {
		ch := chains[id.Value]
		for i, n := range ch {
			if pos, ok := longestSet[n]; !ok || pos != i {
				errs = append(errs, errors.New(errors.Inheritance,
					"Only single inheritance is allowed. Interface %s does not inherit from %s", id.Value, longest[len(longest)-1]))
				break
			}
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return longest, nil
}

func (r *Registry) interfaceChain(name string, color map[string]int) ([]string, *errors.CompilerError) {
	var chain []string
	var walk func(n string) *errors.CompilerError
	walk = func(n string) *errors.CompilerError {
		switch color[n] {
		case 2:
			return nil
		case 1:
			return errors.New(errors.Inheritance, "Cyclic inheritance detected for contract %s", name)
		}
		color[n] = 1
		iface, ok := r.interfaces[n]
		if !ok {
			return errors.New(errors.Inheritance, "unknown interface %q", n)
		}
		if iface.Extends != nil {
			if err := walk(iface.Extends.Value); err != nil {
				return err
			}
		}
		chain = append(chain, n)
		color[n] = 2
		return nil
	}
	if err := walk(name); err != nil {
		return nil, err
	}
	return chain, nil
}

// resolveStdField injects one synthetic immutable ByteVec field
// (`__std_id`) when any interface in the chain carries an @std id, unless
// the contract itself opts out with @std(enabled=false) (spec.md §4.3).
// The field carries only its type; the id bytes are not recorded on it.
// A child interface's @std id must begin with its parent's std id bytes.
func (r *Registry) resolveStdField(c contractLike, implChain []string) (*ast.Field, []*errors.CompilerError) {
	var errs []*errors.CompilerError
	var ids []string // root to most-derived, only those with an id
	for _, name := range implChain {
		iface := r.interfaces[name]
		if iface.Std.HasID {
			ids = append(ids, iface.Std.ID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	for i := 1; i < len(ids); i++ {
		if !strings.HasPrefix(ids[i], ids[i-1]) {
			errs = append(errs, errors.New(errors.Inheritance,
				"@std id %q does not begin with its parent interface's std id %q", ids[i], ids[i-1]))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	std := c.Std()
	if std.EnabledSet && !std.Enabled {
		return nil, nil
	}

	name := &ast.Ident{Value: "__std_id"}
	return &ast.Field{
		Name:      name,
		VarType:   &ast.TypeExpr{Name: "ByteVec"},
		Mut:       false,
		Synthetic: true,
	}, nil
}

// checkImplementedSignatures enforces spec.md §4.3's per-function rule:
// visibility and argument types must match exactly; `preapprovedAssets`
// must equal the interface declaration; `assetsInContract`,
// `checkExternalCaller`, `updateFields` may only be more restrictive
// (false on the interface permits either value on the impl; true on the
// interface requires true on the impl).
func (r *Registry) checkImplementedSignatures(c contractLike, implChain []string, fns []*ast.Function) []*errors.CompilerError {
	var errs []*errors.CompilerError
	byName := map[string]*ast.Function{}
	for _, fn := range fns {
		byName[fn.Name.Value] = fn
	}
	for _, ifaceName := range implChain {
		iface := r.interfaces[ifaceName]
		for _, sig := range iface.Functions {
			impl, ok := byName[sig.Name.Value]
			if !ok {
				errs = append(errs, errors.New(errors.Inheritance,
					"%s does not implement %s.%s", declName(c), ifaceName, sig.Name.Value))
				continue
			}
			if impl.Public != sig.Public {
				errs = append(errs, errors.New(errors.Inheritance,
					"%s.%s visibility does not match interface %s.%s", declName(c), impl.Name.Value, ifaceName, sig.Name.Value))
			}
			if len(impl.Params) != len(sig.Params) {
				errs = append(errs, errors.New(errors.Inheritance,
					"%s.%s has %d parameter(s), interface %s.%s declares %d",
					declName(c), impl.Name.Value, len(impl.Params), ifaceName, sig.Name.Value, len(sig.Params)))
			} else {
				for i := range impl.Params {
					if typeExprString(impl.Params[i].VarType) != typeExprString(sig.Params[i].VarType) {
						errs = append(errs, errors.New(errors.Inheritance,
							"%s.%s parameter %d type does not match interface %s.%s",
							declName(c), impl.Name.Value, i, ifaceName, sig.Name.Value))
					}
				}
			}
			if typeExprString(impl.ReturnType) != typeExprString(sig.ReturnType) {
				errs = append(errs, errors.New(errors.Inheritance,
					"%s.%s return type does not match interface %s.%s", declName(c), impl.Name.Value, ifaceName, sig.Name.Value))
			}
			if sig.Using.PreapprovedAssetsSet && impl.Using.PreapprovedAssets != sig.Using.PreapprovedAssets {
				errs = append(errs, errors.New(errors.Inheritance,
					"%s.%s preapprovedAssets must equal interface %s.%s", declName(c), impl.Name.Value, ifaceName, sig.Name.Value))
			}
			checkRestrictiveFlag(&errs, c, impl, ifaceName, sig, "assetsInContract", sig.Using.AssetsInContractSet, sig.Using.AssetsInContract, impl.Using.AssetsInContract)
			checkRestrictiveFlag(&errs, c, impl, ifaceName, sig, "checkExternalCaller", sig.Using.CheckExternalCallerSet, sig.Using.CheckExternalCaller, impl.Using.CheckExternalCaller)
			checkRestrictiveFlag(&errs, c, impl, ifaceName, sig, "updateFields", sig.Using.UpdateFieldsSet, sig.Using.UpdateFields, impl.Using.UpdateFields)
		}
	}
	return errs
}

func checkRestrictiveFlag(errs *[]*errors.CompilerError, c contractLike, impl *ast.Function, ifaceName string, sig *ast.Function, flagName string, ifaceSet, ifaceVal, implVal bool) {
	if ifaceSet && ifaceVal && !implVal {
		*errs = append(*errs, errors.New(errors.Inheritance,
			"%s.%s must set %s=true to match interface %s.%s", declName(c), impl.Name.Value, flagName, ifaceName, sig.Name.Value))
	}
}
