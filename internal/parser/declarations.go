package parser

import (
	"strconv"

	"flint/grammar"
	"flint/internal/ast"
)

func (l *lowerer) file(f *grammar.File) *ast.Module {
	module := &ast.Module{Pos: toPos(f.Pos), EndPos: toPos(f.EndPos)}
	for _, d := range f.Declarations {
		switch {
		case d.Contract != nil:
			module.Declarations = append(module.Declarations, l.contract(d.Contract))
		case d.Behaviour != nil:
			module.Declarations = append(module.Declarations, l.behaviour(d.Behaviour))
		case d.Struct != nil:
			module.Declarations = append(module.Declarations, l.structDecl(d.Struct))
		case d.Enum != nil:
			module.Declarations = append(module.Declarations, l.enum(d.Enum))
		case d.Trait != nil:
			module.Declarations = append(module.Declarations, l.trait(d.Trait))
		case d.External != nil:
			module.Declarations = append(module.Declarations, l.externalTrait(d.External))
		}
	}
	return module
}

func (l *lowerer) contract(c *grammar.Contract) *ast.ContractDeclaration {
	decl := &ast.ContractDeclaration{
		Pos:          toPos(c.Pos),
		EndPos:       toPos(c.EndPos),
		Identifier:   ident(c.Name),
		Conformances: idents(c.Conformance),
		States:       idents(c.States),
	}
	for _, m := range c.Members {
		switch {
		case m.Variable != nil:
			decl.Variables = append(decl.Variables, l.variable(m.Variable))
		case m.Invariant != nil:
			decl.Invariants = append(decl.Invariants, l.expr(m.Invariant.Expr))
		case m.Will != nil:
			decl.Holistic = append(decl.Holistic, &ast.HolisticSpec{
				Pos:    toPos(m.Will.Pos),
				EndPos: toPos(m.Will.EndPos),
				Expr:   l.expr(m.Will.Expr),
			})
		case m.Event != nil:
			decl.Events = append(decl.Events, &ast.EventDeclaration{
				Pos:        toPos(m.Event.Pos),
				EndPos:     toPos(m.Event.EndPos),
				Identifier: ident(m.Event.Name),
				Parameters: l.params(m.Event.Params),
			})
		}
	}
	return decl
}

func (l *lowerer) behaviour(b *grammar.Behaviour) *ast.ContractBehaviourDeclaration {
	decl := &ast.ContractBehaviourDeclaration{
		Pos:               toPos(b.Pos),
		EndPos:            toPos(b.EndPos),
		ContractName:      ident(b.Name),
		States:            idents(b.States),
		CallerProtections: idents(b.Callers),
	}
	if b.Binding != nil {
		binding := ident(b.Binding)
		decl.CallerBinding = &binding
	}
	for _, f := range b.Members {
		decl.Members = append(decl.Members, l.function(f))
	}
	return decl
}

func (l *lowerer) structDecl(s *grammar.Struct) *ast.StructDeclaration {
	decl := &ast.StructDeclaration{
		Pos:          toPos(s.Pos),
		EndPos:       toPos(s.EndPos),
		Identifier:   ident(s.Name),
		Conformances: idents(s.Conformance),
	}
	for _, m := range s.Members {
		switch {
		case m.Variable != nil:
			decl.Variables = append(decl.Variables, l.variable(m.Variable))
		case m.Invariant != nil:
			decl.Invariants = append(decl.Invariants, l.expr(m.Invariant.Expr))
		case m.Function != nil:
			fn := l.function(m.Function)
			if fn.IsInit() {
				decl.Initializers = append(decl.Initializers, fn)
			} else {
				decl.Functions = append(decl.Functions, fn)
			}
		}
	}
	return decl
}

func (l *lowerer) enum(e *grammar.Enum) *ast.EnumDeclaration {
	decl := &ast.EnumDeclaration{
		Pos:        toPos(e.Pos),
		EndPos:     toPos(e.EndPos),
		Identifier: ident(e.Name),
	}
	if e.RawType != nil {
		decl.RawType = l.typ(e.RawType)
	}
	for _, c := range e.Cases {
		enumCase := &ast.EnumCase{
			Pos:        toPos(c.Pos),
			EndPos:     toPos(c.EndPos),
			Identifier: ident(c.Name),
		}
		if c.Value != nil {
			enumCase.Value = l.expr(c.Value)
		}
		decl.Cases = append(decl.Cases, enumCase)
	}
	return decl
}

func (l *lowerer) trait(t *grammar.Trait) *ast.TraitDeclaration {
	decl := &ast.TraitDeclaration{
		Pos:        toPos(t.Pos),
		EndPos:     toPos(t.EndPos),
		Identifier: ident(t.Name),
	}
	if t.Kind == "contract" {
		decl.Kind = ast.ContractTrait
	}
	for _, m := range t.Members {
		fn := l.function(&grammar.Function{
			Pos:        m.Pos,
			EndPos:     m.EndPos,
			Public:     m.Public,
			Mutating:   m.Mutating,
			Head:       m.Head,
			Params:     m.Params,
			Result:     m.Result,
			Mutates:    m.Mutates,
			Conditions: m.Conditions,
			Body:       m.Body,
		})
		if m.Body == nil {
			decl.Requirements = append(decl.Requirements, fn)
		} else {
			decl.Functions = append(decl.Functions, fn)
		}
	}
	return decl
}

func (l *lowerer) externalTrait(t *grammar.ExternalTrait) *ast.ExternalTraitDeclaration {
	decl := &ast.ExternalTraitDeclaration{
		Pos:        toPos(t.Pos),
		EndPos:     toPos(t.EndPos),
		Identifier: ident(t.Name),
	}
	for _, sig := range t.Functions {
		fn := &ast.FunctionDeclaration{
			Pos:        toPos(sig.Pos),
			EndPos:     toPos(sig.EndPos),
			Kind:       ast.FunctionKindFunc,
			Identifier: ident(sig.Name),
			IsPublic:   true,
			Parameters: l.params(sig.Params),
		}
		if sig.Result != nil {
			fn.ResultType = l.typ(sig.Result)
		}
		decl.Functions = append(decl.Functions, fn)
	}
	return decl
}

func (l *lowerer) function(f *grammar.Function) *ast.FunctionDeclaration {
	fn := &ast.FunctionDeclaration{
		Pos:        toPos(f.Pos),
		EndPos:     toPos(f.EndPos),
		IsPublic:   f.Public,
		IsMutating: f.Mutating,
		Parameters: l.params(f.Params),
		Mutates:    idents(f.Mutates),
	}
	if f.Head.Init {
		fn.Kind = ast.FunctionKindInit
		fn.Identifier = ast.Ident{Pos: toPos(f.Head.Pos), EndPos: toPos(f.Head.EndPos), Name: "init"}
	} else {
		fn.Kind = ast.FunctionKindFunc
		fn.Identifier = ident(f.Head.Name)
	}
	if f.Result != nil {
		fn.ResultType = l.typ(f.Result)
	}
	for _, c := range f.Conditions {
		if c.Pre != nil {
			fn.Pre = append(fn.Pre, l.expr(c.Pre))
		} else {
			fn.Post = append(fn.Post, l.expr(c.Post))
		}
	}
	fn.Body = l.block(f.Body)
	return fn
}

func (l *lowerer) params(params []*grammar.Param) []*ast.Parameter {
	out := make([]*ast.Parameter, 0, len(params))
	for _, p := range params {
		typ := l.typ(p.Type)
		if p.Inout {
			typ = ast.InoutType(typ)
			typ.Pos, typ.EndPos = toPos(p.Type.Pos), toPos(p.Type.EndPos)
		}
		out = append(out, &ast.Parameter{
			Pos:        toPos(p.Pos),
			EndPos:     toPos(p.EndPos),
			Identifier: ident(p.Name),
			Type:       typ,
			IsImplicit: p.Implicit,
		})
	}
	return out
}

func (l *lowerer) variable(v *grammar.VariableDecl) *ast.VariableDeclaration {
	decl := &ast.VariableDeclaration{
		Pos:        toPos(v.Pos),
		EndPos:     toPos(v.EndPos),
		Identifier: ident(v.Name),
		Type:       l.typ(v.Type),
		IsConstant: v.Keyword == "let",
	}
	if v.Value != nil {
		decl.Assigned = l.expr(v.Value)
	}
	return decl
}

func (l *lowerer) typ(t *grammar.Type) *ast.Type {
	var out *ast.Type
	switch {
	case t.Bracketed != nil:
		if t.Bracketed.Value != nil {
			out = ast.DictionaryType(l.typ(t.Bracketed.Elem), l.typ(t.Bracketed.Value))
		} else {
			out = ast.ArrayType(l.typ(t.Bracketed.Elem))
		}
	default:
		switch name := t.Name.Value; name {
		case ast.AddressName, ast.IntName, ast.BoolName, ast.StringName, ast.VoidName:
			out = ast.BasicType(name)
		default:
			out = ast.UserDefinedType(name)
		}
		if t.FixedSize != nil {
			size, err := strconv.Atoi(*t.FixedSize)
			if err != nil || size <= 0 {
				l.errorAt(t.Pos, "invalid fixed array size %q", *t.FixedSize)
				size = 1
			}
			out = ast.FixedArrayType(out, size)
		}
	}
	out.Pos, out.EndPos = toPos(t.Pos), toPos(t.EndPos)
	return out
}
