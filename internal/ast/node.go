package ast

// Node is implemented by every syntax tree node.
type Node interface {
	NodePos() Position
	NodeEndPos() Position
	NodeType() NodeType
	String() string
}

func (m *Module) NodePos() Position    { return m.Pos }
func (m *Module) NodeEndPos() Position { return m.EndPos }
func (*Module) NodeType() NodeType     { return MODULE }

func (c *ContractDeclaration) NodePos() Position    { return c.Pos }
func (c *ContractDeclaration) NodeEndPos() Position { return c.EndPos }
func (*ContractDeclaration) NodeType() NodeType     { return CONTRACT_DECLARATION }

func (hs *HolisticSpec) NodePos() Position    { return hs.Pos }
func (hs *HolisticSpec) NodeEndPos() Position { return hs.EndPos }
func (*HolisticSpec) NodeType() NodeType      { return HOLISTIC_SPEC }

func (e *EventDeclaration) NodePos() Position    { return e.Pos }
func (e *EventDeclaration) NodeEndPos() Position { return e.EndPos }
func (*EventDeclaration) NodeType() NodeType     { return EVENT_DECLARATION }

func (b *ContractBehaviourDeclaration) NodePos() Position    { return b.Pos }
func (b *ContractBehaviourDeclaration) NodeEndPos() Position { return b.EndPos }
func (*ContractBehaviourDeclaration) NodeType() NodeType     { return CONTRACT_BEHAVIOUR_DECLARATION }

func (s *StructDeclaration) NodePos() Position    { return s.Pos }
func (s *StructDeclaration) NodeEndPos() Position { return s.EndPos }
func (*StructDeclaration) NodeType() NodeType     { return STRUCT_DECLARATION }

func (e *EnumDeclaration) NodePos() Position    { return e.Pos }
func (e *EnumDeclaration) NodeEndPos() Position { return e.EndPos }
func (*EnumDeclaration) NodeType() NodeType     { return ENUM_DECLARATION }

func (ec *EnumCase) NodePos() Position    { return ec.Pos }
func (ec *EnumCase) NodeEndPos() Position { return ec.EndPos }
func (*EnumCase) NodeType() NodeType      { return ENUM_CASE }

func (et *ExternalTraitDeclaration) NodePos() Position    { return et.Pos }
func (et *ExternalTraitDeclaration) NodeEndPos() Position { return et.EndPos }
func (*ExternalTraitDeclaration) NodeType() NodeType      { return EXTERNAL_TRAIT_DECLARATION }

func (t *TraitDeclaration) NodePos() Position    { return t.Pos }
func (t *TraitDeclaration) NodeEndPos() Position { return t.EndPos }
func (*TraitDeclaration) NodeType() NodeType     { return TRAIT_DECLARATION }

func (f *FunctionDeclaration) NodePos() Position    { return f.Pos }
func (f *FunctionDeclaration) NodeEndPos() Position { return f.EndPos }
func (*FunctionDeclaration) NodeType() NodeType     { return FUNCTION_DECLARATION }

func (p *Parameter) NodePos() Position    { return p.Pos }
func (p *Parameter) NodeEndPos() Position { return p.EndPos }
func (*Parameter) NodeType() NodeType     { return PARAMETER }

func (t *Type) NodePos() Position    { return t.Pos }
func (t *Type) NodeEndPos() Position { return t.EndPos }
func (*Type) NodeType() NodeType     { return TYPE }

func (es *ExprStmt) NodePos() Position    { return es.Pos }
func (es *ExprStmt) NodeEndPos() Position { return es.EndPos }
func (*ExprStmt) NodeType() NodeType      { return EXPR_STMT }

func (r *ReturnStmt) NodePos() Position    { return r.Pos }
func (r *ReturnStmt) NodeEndPos() Position { return r.EndPos }
func (*ReturnStmt) NodeType() NodeType     { return RETURN_STMT }

func (b *BecomeStmt) NodePos() Position    { return b.Pos }
func (b *BecomeStmt) NodeEndPos() Position { return b.EndPos }
func (*BecomeStmt) NodeType() NodeType     { return BECOME_STMT }

func (e *EmitStmt) NodePos() Position    { return e.Pos }
func (e *EmitStmt) NodeEndPos() Position { return e.EndPos }
func (*EmitStmt) NodeType() NodeType     { return EMIT_STMT }

func (i *IfStmt) NodePos() Position    { return i.Pos }
func (i *IfStmt) NodeEndPos() Position { return i.EndPos }
func (*IfStmt) NodeType() NodeType     { return IF_STMT }

func (f *ForStmt) NodePos() Position    { return f.Pos }
func (f *ForStmt) NodeEndPos() Position { return f.EndPos }
func (*ForStmt) NodeType() NodeType     { return FOR_STMT }

func (d *DoCatchStmt) NodePos() Position    { return d.Pos }
func (d *DoCatchStmt) NodeEndPos() Position { return d.EndPos }
func (*DoCatchStmt) NodeType() NodeType     { return DO_CATCH_STMT }

func (i *Identifier) NodePos() Position    { return i.Pos }
func (i *Identifier) NodeEndPos() Position { return i.EndPos }
func (*Identifier) NodeType() NodeType     { return IDENTIFIER }

func (b *BinaryExpr) NodePos() Position    { return b.Pos }
func (b *BinaryExpr) NodeEndPos() Position { return b.EndPos }
func (*BinaryExpr) NodeType() NodeType     { return BINARY_EXPR }

func (u *UnaryExpr) NodePos() Position    { return u.Pos }
func (u *UnaryExpr) NodeEndPos() Position { return u.EndPos }
func (*UnaryExpr) NodeType() NodeType     { return UNARY_EXPR }

func (fc *FunctionCall) NodePos() Position    { return fc.Pos }
func (fc *FunctionCall) NodeEndPos() Position { return fc.EndPos }
func (*FunctionCall) NodeType() NodeType      { return FUNCTION_CALL }

func (ca *CallArgument) NodePos() Position    { return ca.Pos }
func (ca *CallArgument) NodeEndPos() Position { return ca.EndPos }
func (*CallArgument) NodeType() NodeType      { return CALL_ARGUMENT }

func (ec *ExternalCall) NodePos() Position    { return ec.Pos }
func (ec *ExternalCall) NodeEndPos() Position { return ec.EndPos }
func (*ExternalCall) NodeType() NodeType      { return EXTERNAL_CALL }

func (s *SubscriptExpr) NodePos() Position    { return s.Pos }
func (s *SubscriptExpr) NodeEndPos() Position { return s.EndPos }
func (*SubscriptExpr) NodeType() NodeType     { return SUBSCRIPT_EXPR }

func (l *LiteralExpr) NodePos() Position    { return l.Pos }
func (l *LiteralExpr) NodeEndPos() Position { return l.EndPos }
func (*LiteralExpr) NodeType() NodeType     { return LITERAL_EXPR }

func (a *ArrayLiteral) NodePos() Position    { return a.Pos }
func (a *ArrayLiteral) NodeEndPos() Position { return a.EndPos }
func (*ArrayLiteral) NodeType() NodeType     { return ARRAY_LITERAL }

func (d *DictionaryLiteral) NodePos() Position    { return d.Pos }
func (d *DictionaryLiteral) NodeEndPos() Position { return d.EndPos }
func (*DictionaryLiteral) NodeType() NodeType     { return DICTIONARY_LITERAL }

func (r *RangeExpr) NodePos() Position    { return r.Pos }
func (r *RangeExpr) NodeEndPos() Position { return r.EndPos }
func (*RangeExpr) NodeType() NodeType     { return RANGE_EXPR }

func (s *SelfExpr) NodePos() Position    { return s.Pos }
func (s *SelfExpr) NodeEndPos() Position { return s.EndPos }
func (*SelfExpr) NodeType() NodeType     { return SELF_EXPR }

func (i *InoutExpr) NodePos() Position    { return i.Pos }
func (i *InoutExpr) NodeEndPos() Position { return i.EndPos }
func (*InoutExpr) NodeType() NodeType     { return INOUT_EXPR }

func (v *VariableDeclaration) NodePos() Position    { return v.Pos }
func (v *VariableDeclaration) NodeEndPos() Position { return v.EndPos }
func (*VariableDeclaration) NodeType() NodeType     { return VARIABLE_DECLARATION }
