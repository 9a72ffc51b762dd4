package grammar

import "github.com/alecthomas/participle/v2/lexer"

type File struct {
	Pos          lexer.Position
	EndPos       lexer.Position
	Declarations []*TopLevel `@@*`
}

type TopLevel struct {
	Trait     *Trait         `  @@`
	Contract  *Contract      `| @@`
	Struct    *Struct        `| @@`
	Enum      *Enum          `| @@`
	External  *ExternalTrait `| @@`
	Behaviour *Behaviour     `| @@`
}

type Name struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  string `@Ident`
}

type Contract struct {
	Pos         lexer.Position
	EndPos      lexer.Position
	Name        *Name             `"contract" @@`
	Conformance []*Name           `[ ":" @@ { "," @@ } ]`
	States      []*Name           `[ "(" [ @@ { "," @@ } ] ")" ]`
	Members     []*ContractMember `"{" @@* "}"`
}

type ContractMember struct {
	Variable  *VariableDecl `  @@`
	Invariant *Invariant    `| @@`
	Will      *Will         `| @@`
	Event     *Event        `| @@`
}

type VariableDecl struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Keyword string `@("var" | "let")`
	Name    *Name  `@@ ":"`
	Type    *Type  `@@`
	Value   *Expr  `[ "=" @@ ]`
}

type Invariant struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Expr   *Expr `"invariant" "(" @@ ")"`
}

type Will struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Expr   *Expr `"will" "(" @@ ")"`
}

type Event struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   *Name    `"event" @@`
	Params []*Param `"(" [ @@ { "," @@ } ] ")"`
}

type Behaviour struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Name    *Name       `@@`
	States  []*Name     `[ "@" "(" @@ { "," @@ } ")" ]`
	Binding *Name       `"::" [ @@ "<-" ]`
	Callers []*Name     `"(" @@ { "," @@ } ")"`
	Members []*Function `"{" @@* "}"`
}

type Struct struct {
	Pos         lexer.Position
	EndPos      lexer.Position
	Name        *Name           `"struct" @@`
	Conformance []*Name         `[ ":" @@ { "," @@ } ]`
	Members     []*StructMember `"{" @@* "}"`
}

type StructMember struct {
	Variable  *VariableDecl `  @@`
	Invariant *Invariant    `| @@`
	Function  *Function     `| @@`
}

type Enum struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Name    *Name       `"enum" @@`
	RawType *Type       `[ ":" @@ ]`
	Cases   []*EnumCase `"{" @@* "}"`
}

type EnumCase struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   *Name `"case" @@`
	Value  *Expr `[ "=" @@ ]`
}

// Trait declares functions shared by the structs or contracts conforming to it.
// Members without a body are requirements; members with one are default
// implementations.
type Trait struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Kind    string           `@("struct" | "contract") "trait"`
	Name    *Name            `@@`
	Members []*TraitFunction `"{" @@* "}"`
}

type TraitFunction struct {
	Pos        lexer.Position
	EndPos     lexer.Position
	Public     bool         `@"public"?`
	Mutating   bool         `@"mutating"?`
	Head       *FuncHead    `@@`
	Params     []*Param     `"(" [ @@ { "," @@ } ] ")"`
	Result     *Type        `[ "->" @@ ]`
	Mutates    []*Name      `[ "mutates" "(" [ @@ { "," @@ } ] ")" ]`
	Conditions []*Condition `@@*`
	Body       *Block       `[ @@ ]`
}

type ExternalTrait struct {
	Pos       lexer.Position
	EndPos    lexer.Position
	Name      *Name        `"external" "trait" @@`
	Functions []*Signature `"{" @@* "}"`
}

type Signature struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   *Name    `"func" @@`
	Params []*Param `"(" [ @@ { "," @@ } ] ")"`
	Result *Type    `[ "->" @@ ]`
}

type Function struct {
	Pos        lexer.Position
	EndPos     lexer.Position
	Public     bool         `@"public"?`
	Mutating   bool         `@"mutating"?`
	Head       *FuncHead    `@@`
	Params     []*Param     `"(" [ @@ { "," @@ } ] ")"`
	Result     *Type        `[ "->" @@ ]`
	Mutates    []*Name      `[ "mutates" "(" [ @@ { "," @@ } ] ")" ]`
	Conditions []*Condition `@@*`
	Body       *Block       `@@`
}

type FuncHead struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Init   bool  `  @"init"`
	Name   *Name `| "func" @@`
}

type Condition struct {
	Pre  *Expr `  "pre" "(" @@ ")"`
	Post *Expr `| "post" "(" @@ ")"`
}

type Param struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Implicit bool  `@"implicit"?`
	Name     *Name `@@ ":"`
	Inout    bool  `@"inout"?`
	Type     *Type `@@`
}

type Type struct {
	Pos       lexer.Position
	EndPos    lexer.Position
	Bracketed *BracketType `  "[" @@ "]"`
	Name      *Name        `| @@`
	FixedSize *string      `  [ "[" @Int "]" ]`
}

type BracketType struct {
	Elem  *Type `@@`
	Value *Type `[ ":" @@ ]`
}

type Block struct {
	Pos        lexer.Position
	EndPos     lexer.Position
	Statements []*Statement `"{" @@* "}"`
}

type Statement struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Return  *Return       `  @@`
	Become  *Become       `| @@`
	Emit    *Emit         `| @@`
	If      *If           `| @@`
	For     *For          `| @@`
	DoCatch *DoCatch      `| @@`
	VarDecl *VariableDecl `| @@`
	Expr    *Expr         `| @@`
}

type Return struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  *Expr `"return" @@?`
}

type Become struct {
	Pos    lexer.Position
	EndPos lexer.Position
	State  *Name `"become" @@`
}

type Emit struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   *Name  `"emit" @@`
	Args   []*Arg `"(" [ @@ { "," @@ } ] ")"`
}

type If struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *Expr  `"if" @@`
	Body   *Block `@@`
	ElseIf *If    `[ "else" ( @@`
	Else   *Block `          | @@ ) ]`
}

type For struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Var      *Name  `"for" ( "let" | "var" ) @@ ":"`
	Type     *Type  `@@ "in"`
	Iterable *Expr  `@@`
	Body     *Block `@@`
}

type DoCatch struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Do     *Block `"do" @@`
	Catch  *Block `"catch" [ "is" Ident ] @@`
}

// Expr is a flat operator chain; precedence is resolved when lowering to the AST.
type Expr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *Unary   `@@`
	Ops    []*BinOp `@@*`
}

type BinOp struct {
	Pos      lexer.Position
	Operator string `@("=" | "+=" | "-=" | "*=" | "/=" | "==>" | "||" | "&&" | "==" | "!=" | "<=" | ">=" | "<" | ">" | "+" | "-" | "**" | "*" | "/" | "%" | "&+" | "&-" | "&*")`
	Right    *Unary `@@`
}

type Unary struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Operator *string  `@("!" | "-" | "&")?`
	Value    *Postfix `@@`
}

type Postfix struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Primary  *Primary  `@@`
	Suffixes []*Suffix `@@*`
}

type Suffix struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Member *Reference `  "." @@`
	Index  *Expr      `| "[" @@ "]"`
}

type Primary struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	External *External  `  @@`
	Self     bool       `| @"self"`
	Bool     *string    `| @("true" | "false")`
	Address  *string    `| @Address`
	Int      *string    `| @Int`
	String   *string    `| @String`
	Bracket  *Bracket   `| @@`
	Paren    *Paren     `| @@`
	Ref      *Reference `| @@`
}

type External struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Mode   string   `"call" @("?" | "!")?`
	Call   *Postfix `@@`
}

// Reference is an identifier, optionally applied to arguments.
type Reference struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   *Name     `@@`
	Call   *CallArgs `@@?`
}

type CallArgs struct {
	Args []*Arg `"(" [ @@ { "," @@ } ] ")"`
}

type Arg struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Label  *Name `[ @@ ":" ]`
	Value  *Expr `@@`
}

// Paren is a parenthesised expression or a range.
type Paren struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Inner   *Expr  `"(" @@`
	RangeOp string `[ @("..<" | "...")`
	End     *Expr  `  @@ ] ")"`
}

// Bracket is an array or dictionary literal; "[:]" is the empty dictionary.
type Bracket struct {
	Pos       lexer.Position
	EndPos    lexer.Position
	EmptyDict bool            `"[" ( @":" "]"`
	Elements  []*BracketEntry `    | [ @@ { "," @@ } ] "]" )`
}

type BracketEntry struct {
	Key   *Expr `@@`
	Value *Expr `[ ":" @@ ]`
}
