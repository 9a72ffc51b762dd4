package ast

import (
	"fmt"
	"strings"
)

func (m *Module) String() string {
	var b strings.Builder
	for i, d := range m.Declarations {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(d.String())
	}
	return b.String()
}

func (c *ContractDeclaration) String() string {
	var b strings.Builder
	b.WriteString("contract " + c.Identifier.Name)
	if len(c.Conformances) > 0 {
		b.WriteString(": " + joinIdents(c.Conformances))
	}
	if len(c.States) > 0 {
		b.WriteString(" (" + joinIdents(c.States) + ")")
	}
	b.WriteString(" {\n")
	for _, v := range c.Variables {
		b.WriteString("  " + v.String() + "\n")
	}
	for _, inv := range c.Invariants {
		b.WriteString("  invariant (" + inv.String() + ")\n")
	}
	for _, h := range c.Holistic {
		b.WriteString("  " + h.String() + "\n")
	}
	for _, e := range c.Events {
		b.WriteString("  " + e.String() + "\n")
	}
	b.WriteString("}")
	return b.String()
}

func (h *HolisticSpec) String() string {
	return "will (" + h.Expr.String() + ")"
}

func (e *EventDeclaration) String() string {
	return "event " + e.Identifier.Name + "(" + joinParams(e.Parameters) + ")"
}

func (c *ContractBehaviourDeclaration) String() string {
	var b strings.Builder
	b.WriteString(c.ContractName.Name)
	if len(c.States) > 0 {
		b.WriteString(" @(" + joinIdents(c.States) + ")")
	}
	b.WriteString(" :: ")
	if c.CallerBinding != nil {
		b.WriteString(c.CallerBinding.Name + " <- ")
	}
	b.WriteString("(" + joinIdents(c.CallerProtections) + ") {\n")
	for _, m := range c.Members {
		b.WriteString(indent(m.String()) + "\n")
	}
	b.WriteString("}")
	return b.String()
}

func (s *StructDeclaration) String() string {
	var b strings.Builder
	b.WriteString("struct " + s.Identifier.Name)
	if len(s.Conformances) > 0 {
		b.WriteString(": " + joinIdents(s.Conformances))
	}
	b.WriteString(" {\n")
	for _, v := range s.Variables {
		b.WriteString("  " + v.String() + "\n")
	}
	for _, inv := range s.Invariants {
		b.WriteString("  invariant (" + inv.String() + ")\n")
	}
	for _, f := range s.Initializers {
		b.WriteString(indent(f.String()) + "\n")
	}
	for _, f := range s.Functions {
		b.WriteString(indent(f.String()) + "\n")
	}
	b.WriteString("}")
	return b.String()
}

func (e *EnumDeclaration) String() string {
	var b strings.Builder
	b.WriteString("enum " + e.Identifier.Name)
	if e.RawType != nil {
		b.WriteString(": " + e.RawType.String())
	}
	b.WriteString(" {\n")
	for _, c := range e.Cases {
		b.WriteString("  " + c.String() + "\n")
	}
	b.WriteString("}")
	return b.String()
}

func (c *EnumCase) String() string {
	if c.Value != nil {
		return "case " + c.Identifier.Name + " = " + c.Value.String()
	}
	return "case " + c.Identifier.Name
}

func (t *TraitDeclaration) String() string {
	var b strings.Builder
	kind := "struct"
	if t.Kind == ContractTrait {
		kind = "contract"
	}
	b.WriteString(kind + " trait " + t.Identifier.Name + " {\n")
	for _, f := range t.Requirements {
		b.WriteString("  " + f.signature() + "\n")
	}
	for _, f := range t.Functions {
		b.WriteString(indent(f.String()) + "\n")
	}
	b.WriteString("}")
	return b.String()
}

func (t *ExternalTraitDeclaration) String() string {
	var b strings.Builder
	b.WriteString("external trait " + t.Identifier.Name + " {\n")
	for _, f := range t.Functions {
		b.WriteString("  " + f.signature() + "\n")
	}
	b.WriteString("}")
	return b.String()
}

func (f *FunctionDeclaration) signature() string {
	var b strings.Builder
	if f.IsPublic {
		b.WriteString("public ")
	}
	if f.IsMutating {
		b.WriteString("mutating ")
	}
	if f.IsInit() {
		b.WriteString("init(")
	} else {
		b.WriteString("func " + f.Identifier.Name + "(")
	}
	b.WriteString(joinParams(f.Parameters) + ")")
	if f.ResultType != nil {
		b.WriteString(" -> " + f.ResultType.String())
	}
	if len(f.Mutates) > 0 {
		b.WriteString(" mutates (" + joinIdents(f.Mutates) + ")")
	}
	for _, p := range f.Pre {
		b.WriteString(" pre (" + p.String() + ")")
	}
	for _, p := range f.Post {
		b.WriteString(" post (" + p.String() + ")")
	}
	return b.String()
}

func (f *FunctionDeclaration) String() string {
	return f.signature() + " " + block(f.Body)
}

func (p *Parameter) String() string {
	s := p.Identifier.Name + ": " + typeSource(p.Type)
	if p.IsImplicit {
		return "implicit " + s
	}
	return s
}

func (s *ExprStmt) String() string { return s.Expr.String() }

func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}

func (b *BecomeStmt) String() string { return "become " + b.State.Name }

func (e *EmitStmt) String() string { return "emit " + e.Call.String() }

func (i *IfStmt) String() string {
	s := "if " + i.Condition.String() + " " + block(i.Body)
	if len(i.Else) > 0 {
		s += " else " + block(i.Else)
	}
	return s
}

func (f *ForStmt) String() string {
	return fmt.Sprintf("for let %s: %s in %s %s",
		f.Variable.Identifier.Name, typeSource(f.Variable.Type), f.Iterable.String(), block(f.Body))
}

func (d *DoCatchStmt) String() string {
	return "do " + block(d.Do) + " catch is Error " + block(d.Catch)
}

func (i *Identifier) String() string { return i.Name }

func (b *BinaryExpr) String() string {
	if b.Op == OpDot {
		return b.Lhs.String() + "." + b.Rhs.String()
	}
	return b.Lhs.String() + " " + string(b.Op) + " " + b.Rhs.String()
}

func (u *UnaryExpr) String() string { return string(u.Op) + u.Operand.String() }

func (f *FunctionCall) String() string {
	args := make([]string, len(f.Arguments))
	for i, a := range f.Arguments {
		args[i] = a.String()
	}
	return f.Identifier.Name + "(" + strings.Join(args, ", ") + ")"
}

func (a *CallArgument) String() string {
	if a.Label != nil {
		return a.Label.Name + ": " + a.Expr.String()
	}
	return a.Expr.String()
}

func (e *ExternalCall) String() string {
	switch e.Mode {
	case ExternalCallOptional:
		return "call? " + e.Call.String()
	case ExternalCallForced:
		return "call! " + e.Call.String()
	}
	return "call " + e.Call.String()
}

func (s *SubscriptExpr) String() string {
	return s.Base.String() + "[" + s.Index.String() + "]"
}

func (l *LiteralExpr) String() string {
	if l.Kind == LiteralString {
		return fmt.Sprintf("%q", l.Value)
	}
	return l.Value
}

func (a *ArrayLiteral) String() string {
	elems := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		elems[i] = e.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

func (d *DictionaryLiteral) String() string {
	if len(d.Entries) == 0 {
		return "[:]"
	}
	entries := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		entries[i] = e.Key.String() + ": " + e.Value.String()
	}
	return "[" + strings.Join(entries, ", ") + "]"
}

func (r *RangeExpr) String() string {
	op := "..<"
	if r.Inclusive {
		op = "..."
	}
	return "(" + r.Start.String() + op + r.End.String() + ")"
}

func (*SelfExpr) String() string { return "self" }

func (i *InoutExpr) String() string { return "&" + i.Expr.String() }

func (v *VariableDeclaration) String() string {
	keyword := "var"
	if v.IsConstant {
		keyword = "let"
	}
	s := keyword + " " + v.Identifier.Name + ": " + typeSource(v.Type)
	if v.Assigned != nil {
		s += " = " + v.Assigned.String()
	}
	return s
}

// typeSource renders a type as it is written in Flint source.
func typeSource(t *Type) string {
	if t == nil {
		return VoidName
	}
	switch t.Kind {
	case KindArray:
		return "[" + typeSource(t.Elem) + "]"
	case KindDictionary:
		return "[" + typeSource(t.Key) + ": " + typeSource(t.Value) + "]"
	case KindInout:
		return "inout " + typeSource(t.Elem)
	case KindFixedArray:
		return fmt.Sprintf("%s[%d]", typeSource(t.Elem), t.Size)
	}
	return t.String()
}

func block(stmts []Statement) string {
	if len(stmts) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{\n")
	for _, s := range stmts {
		b.WriteString(indent(s.String()) + "\n")
	}
	b.WriteString("}")
	return b.String()
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

func joinIdents(ids []Ident) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name
	}
	return strings.Join(names, ", ")
}

func joinParams(params []*Parameter) string {
	ps := make([]string, len(params))
	for i, p := range params {
		ps[i] = p.String()
	}
	return strings.Join(ps, ", ")
}
