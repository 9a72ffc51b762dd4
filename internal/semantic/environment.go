package semantic

import (
	"fmt"
	"sort"

	"flint/internal/ast"
	"flint/internal/normaliser"
)

type TypeKind int

const (
	TypeContract TypeKind = iota
	TypeStruct
	TypeEnum
	TypeExternalTrait
	TypeTrait
)

// PropertyInfo is a contract or struct property.
type PropertyInfo struct {
	Declaration *ast.VariableDeclaration
	Owner       string
}

func (p *PropertyInfo) Name() string    { return p.Declaration.Identifier.Name }
func (p *PropertyInfo) Type() *ast.Type { return p.Declaration.Type }

// FunctionInfo is a function or initialiser together with the behaviour block that
// declares it. Behaviour is nil for struct, trait and external trait members.
type FunctionInfo struct {
	Declaration *ast.FunctionDeclaration
	Owner       string
	Behaviour   *ast.ContractBehaviourDeclaration

	// Trait names the trait that requires or provides the function.
	Trait string
	// TraitMutates is the mutates clause of the trait requirement the function
	// implements.
	TraitMutates []ast.Ident

	// Mutates is the declared mutates clause extended with the properties of every
	// struct the function constructs and all nested struct properties.
	Mutates []MutatedProperty
}

func (f *FunctionInfo) Name() string                { return f.Declaration.Name() }
func (f *FunctionInfo) IsInit() bool                { return f.Declaration.IsInit() }
func (f *FunctionInfo) ParameterTypes() []*ast.Type { return f.Declaration.ParameterTypes() }

// NormalisedName is the mangled procedure name of the function.
func (f *FunctionInfo) NormalisedName() string {
	return normaliser.FunctionName(f.Name(), f.ParameterTypes(), f.Owner)
}

func (f *FunctionInfo) TypeStates() []ast.Ident {
	if f.Behaviour == nil {
		return nil
	}
	return f.Behaviour.States
}

func (f *FunctionInfo) CallerProtections() []ast.Ident {
	if f.Behaviour == nil {
		return nil
	}
	return f.Behaviour.CallerProtections
}

func (f *FunctionInfo) CallerBinding() *ast.Ident {
	if f.Behaviour == nil {
		return nil
	}
	return f.Behaviour.CallerBinding
}

// MutatedProperty is one entry of an expanded mutates clause.
type MutatedProperty struct {
	Name     string
	Owner    string
	Type     *ast.Type
	Position ast.Position
}

// TypeInfo is everything the environment knows about a declared type.
type TypeInfo struct {
	Name         string
	Kind         TypeKind
	Declaration  ast.TopLevelDeclaration
	Properties   []*PropertyInfo
	Functions    []*FunctionInfo
	Initializers []*FunctionInfo
	Invariants   []ast.Expr
	Holistic     []*ast.HolisticSpec
	States       []string
	Cases        []string

	// Conformances are the traits a contract or struct conforms to.
	Conformances []ast.Ident
	// Requirements are the signatures a trait requires of conforming types.
	Requirements []*FunctionInfo
}

func (t *TypeInfo) Property(name string) *PropertyInfo {
	for _, p := range t.Properties {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

func (t *TypeInfo) FunctionsNamed(name string) []*FunctionInfo {
	var out []*FunctionInfo
	for _, f := range t.Functions {
		if f.Name() == name {
			out = append(out, f)
		}
	}
	return out
}

// StateIndex returns the encoding of a type state, -1 when undeclared.
func (t *TypeInfo) StateIndex(state string) int {
	for i, s := range t.States {
		if s == state {
			return i
		}
	}
	return -1
}

func (t *TypeInfo) HasCase(name string) bool {
	for _, c := range t.Cases {
		if c == name {
			return true
		}
	}
	return false
}

// Environment answers type, overload and call graph queries about a module.
type Environment struct {
	types     map[string]*TypeInfo
	order     []string
	functions map[string]*FunctionInfo

	callGraph          map[string][]string
	calledConstructors map[string][]string
}

// NewEnvironment registers every declaration of module and runs the call graph,
// called-constructor and mutates expansion passes.
func NewEnvironment(module *ast.Module) (*Environment, error) {
	env := &Environment{
		types:              make(map[string]*TypeInfo),
		functions:          make(map[string]*FunctionInfo),
		callGraph:          make(map[string][]string),
		calledConstructors: make(map[string][]string),
	}

	if err := env.register(module); err != nil {
		return nil, err
	}
	env.buildCallGraph()
	env.expandMutates()
	return env, nil
}

func (env *Environment) addType(info *TypeInfo) error {
	if _, exists := env.types[info.Name]; exists {
		return fmt.Errorf("%s: type %s is declared twice", info.Declaration.NodePos(), info.Name)
	}
	env.types[info.Name] = info
	env.order = append(env.order, info.Name)
	return nil
}

func (env *Environment) register(module *ast.Module) error {
	for _, decl := range module.Declarations {
		var err error
		switch d := decl.(type) {
		case *ast.ContractDeclaration:
			info := &TypeInfo{Name: d.Identifier.Name, Kind: TypeContract, Declaration: d,
				Invariants: d.Invariants, Holistic: d.Holistic, Conformances: d.Conformances}
			for _, v := range d.Variables {
				info.Properties = append(info.Properties, &PropertyInfo{Declaration: v, Owner: info.Name})
			}
			for _, s := range d.States {
				info.States = append(info.States, s.Name)
			}
			err = env.addType(info)
		case *ast.StructDeclaration:
			info := &TypeInfo{Name: d.Identifier.Name, Kind: TypeStruct, Declaration: d,
				Invariants: d.Invariants, Conformances: d.Conformances}
			for _, v := range d.Variables {
				info.Properties = append(info.Properties, &PropertyInfo{Declaration: v, Owner: info.Name})
			}
			for _, f := range d.Functions {
				info.Functions = append(info.Functions, &FunctionInfo{Declaration: f, Owner: info.Name})
			}
			for _, f := range d.Initializers {
				info.Initializers = append(info.Initializers, &FunctionInfo{Declaration: f, Owner: info.Name})
			}
			err = env.addType(info)
		case *ast.EnumDeclaration:
			info := &TypeInfo{Name: d.Identifier.Name, Kind: TypeEnum, Declaration: d}
			for _, c := range d.Cases {
				info.Cases = append(info.Cases, c.Identifier.Name)
			}
			err = env.addType(info)
		case *ast.TraitDeclaration:
			info := &TypeInfo{Name: d.Identifier.Name, Kind: TypeTrait, Declaration: d}
			for _, f := range d.Requirements {
				info.Requirements = append(info.Requirements, &FunctionInfo{Declaration: f, Owner: info.Name, Trait: info.Name})
			}
			for _, f := range d.Functions {
				info.Functions = append(info.Functions, &FunctionInfo{Declaration: f, Owner: info.Name, Trait: info.Name})
			}
			err = env.addType(info)
		case *ast.ExternalTraitDeclaration:
			info := &TypeInfo{Name: d.Identifier.Name, Kind: TypeExternalTrait, Declaration: d}
			for _, f := range d.Functions {
				info.Functions = append(info.Functions, &FunctionInfo{Declaration: f, Owner: info.Name})
			}
			err = env.addType(info)
		}
		if err != nil {
			return err
		}
	}

	for _, decl := range module.Declarations {
		behaviour, ok := decl.(*ast.ContractBehaviourDeclaration)
		if !ok {
			continue
		}
		contract := env.types[behaviour.ContractName.Name]
		if contract == nil || contract.Kind != TypeContract {
			return fmt.Errorf("%s: behaviour declared for unknown contract %s",
				behaviour.Pos, behaviour.ContractName.Name)
		}
		for _, f := range behaviour.Members {
			info := &FunctionInfo{Declaration: f, Owner: contract.Name, Behaviour: behaviour}
			if f.IsInit() {
				contract.Initializers = append(contract.Initializers, info)
			} else {
				contract.Functions = append(contract.Functions, info)
			}
		}
	}

	for _, name := range env.order {
		if err := env.conform(env.types[name]); err != nil {
			return err
		}
	}

	for _, name := range env.order {
		info := env.types[name]
		if info.Kind == TypeTrait {
			continue
		}
		for _, f := range append(append([]*FunctionInfo{}, info.Initializers...), info.Functions...) {
			env.functions[f.NormalisedName()] = f
		}
	}
	return nil
}

// conform checks that info implements the requirements of its traits and copies in
// the default implementations it does not override. An implementation takes on the
// mutates clause of the requirement it satisfies.
func (env *Environment) conform(info *TypeInfo) error {
	for _, conformance := range info.Conformances {
		trait := env.types[conformance.Name]
		if trait == nil || trait.Kind != TypeTrait {
			return fmt.Errorf("%s: %s conforms to unknown trait %s", conformance.Pos, info.Name, conformance.Name)
		}
		kind := trait.Declaration.(*ast.TraitDeclaration).Kind
		if (kind == ast.ContractTrait) != (info.Kind == TypeContract) {
			return fmt.Errorf("%s: %s cannot conform to trait %s", conformance.Pos, info.Name, trait.Name)
		}

		for _, req := range trait.Requirements {
			impl := info.implementation(req.Declaration)
			if impl == nil {
				return fmt.Errorf("%s: %s does not implement %s required by trait %s",
					conformance.Pos, info.Name, req.Name(), trait.Name)
			}
			impl.Trait = trait.Name
			impl.TraitMutates = append(impl.TraitMutates, req.Declaration.Mutates...)
		}
		for _, def := range trait.Functions {
			if info.implementation(def.Declaration) != nil {
				continue
			}
			f := &FunctionInfo{Declaration: def.Declaration, Owner: info.Name, Trait: trait.Name}
			if f.IsInit() {
				info.Initializers = append(info.Initializers, f)
			} else {
				info.Functions = append(info.Functions, f)
			}
		}
	}
	return nil
}

// implementation finds the member of t with the signature of decl.
func (t *TypeInfo) implementation(decl *ast.FunctionDeclaration) *FunctionInfo {
	candidates := t.FunctionsNamed(decl.Name())
	if decl.IsInit() {
		candidates = t.Initializers
	}
	want := decl.ParameterTypes()
	for _, f := range candidates {
		have := f.ParameterTypes()
		if len(have) != len(want) {
			continue
		}
		same := true
		for i := range have {
			if !have[i].Equal(want[i]) {
				same = false
				break
			}
		}
		if same {
			return f
		}
	}
	return nil
}

func (env *Environment) Type(name string) *TypeInfo {
	return env.types[name]
}

func (env *Environment) isKind(name string, kind TypeKind) bool {
	info := env.types[name]
	return info != nil && info.Kind == kind
}

func (env *Environment) IsContract(name string) bool      { return env.isKind(name, TypeContract) }
func (env *Environment) IsStruct(name string) bool        { return env.isKind(name, TypeStruct) }
func (env *Environment) IsEnum(name string) bool          { return env.isKind(name, TypeEnum) }
func (env *Environment) IsExternalTrait(name string) bool { return env.isKind(name, TypeExternalTrait) }
func (env *Environment) IsTrait(name string) bool         { return env.isKind(name, TypeTrait) }

// TypesOfKind returns the declared types of kind in declaration order.
func (env *Environment) TypesOfKind(kind TypeKind) []*TypeInfo {
	var out []*TypeInfo
	for _, name := range env.order {
		if info := env.types[name]; info.Kind == kind {
			out = append(out, info)
		}
	}
	return out
}

// Function looks up a function by its normalised name.
func (env *Environment) Function(normalisedName string) *FunctionInfo {
	return env.functions[normalisedName]
}

// FunctionFor returns the registered information for a declaration.
func (env *Environment) FunctionFor(decl *ast.FunctionDeclaration, owner string) *FunctionInfo {
	info := env.functions[normaliser.FunctionName(decl.Name(), decl.ParameterTypes(), owner)]
	if info == nil || info.Declaration != decl {
		return &FunctionInfo{Declaration: decl, Owner: owner}
	}
	return info
}

// PropertyType returns the type of a property of owner, nil if there is none.
func (env *Environment) PropertyType(owner, name string) *ast.Type {
	info := env.types[owner]
	if info == nil {
		return nil
	}
	if p := info.Property(name); p != nil {
		return p.Type()
	}
	return nil
}

// CallerCapabilityType resolves a caller protection to the property or predicate
// function it names.
func (env *Environment) CallerCapabilityType(name, contract string) *ast.Type {
	if t := env.PropertyType(contract, name); t != nil {
		return t
	}
	if info := env.types[contract]; info != nil {
		if fns := info.FunctionsNamed(name); len(fns) > 0 {
			return ast.FunctionType(fns[0].ParameterTypes(), fns[0].Declaration.Result())
		}
	}
	return nil
}

// CallGraph maps a normalised function name to the sorted normalised names it calls.
func (env *Environment) CallGraph() map[string][]string {
	return env.callGraph
}

// CalledConstructors returns the structs fn constructs directly.
func (env *Environment) CalledConstructors(fn string) []string {
	return env.calledConstructors[fn]
}

// Reachable returns every function transitively called by fn, sorted, excluding fn
// unless it is recursive.
func (env *Environment) Reachable(fn string) []string {
	seen := make(map[string]bool)
	queue := append([]string{}, env.callGraph[fn]...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		queue = append(queue, env.callGraph[next]...)
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
