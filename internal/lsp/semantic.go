package lsp

import (
	"slices"

	"flint/internal/ast"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into SemanticTokenTypes
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

const declaration = 1

func collectSemanticTokens(module *ast.Module) []SemanticToken {
	var tokens []SemanticToken
	if module == nil {
		return tokens
	}

	for _, decl := range module.Declarations {
		tokens = append(tokens, walkDeclaration(decl)...)
	}

	slices.SortFunc(tokens, func(a, b SemanticToken) int {
		if a.Line != b.Line {
			return int(a.Line) - int(b.Line)
		}
		return int(a.StartChar) - int(b.StartChar)
	})
	return tokens
}

func walkDeclaration(decl ast.TopLevelDeclaration) []SemanticToken {
	var tokens []SemanticToken

	switch v := decl.(type) {
	case *ast.ContractDeclaration:
		tokens = append(tokens, identToken(v.Identifier, "type", declaration)...)
		for _, trait := range v.Conformances {
			tokens = append(tokens, identToken(trait, "interface", 0)...)
		}
		for _, state := range v.States {
			tokens = append(tokens, identToken(state, "enumMember", declaration)...)
		}
		for _, variable := range v.Variables {
			tokens = append(tokens, walkProperty(variable)...)
		}
		for _, inv := range v.Invariants {
			tokens = append(tokens, walkExpr(inv)...)
		}
		for _, spec := range v.Holistic {
			tokens = append(tokens, walkExpr(spec.Expr)...)
		}
		for _, event := range v.Events {
			tokens = append(tokens, identToken(event.Identifier, "event", declaration)...)
			for _, p := range event.Parameters {
				tokens = append(tokens, walkParameter(p)...)
			}
		}
	case *ast.ContractBehaviourDeclaration:
		tokens = append(tokens, walkBehaviour(v)...)
	case *ast.StructDeclaration:
		tokens = append(tokens, identToken(v.Identifier, "type", declaration)...)
		for _, trait := range v.Conformances {
			tokens = append(tokens, identToken(trait, "interface", 0)...)
		}
		for _, variable := range v.Variables {
			tokens = append(tokens, walkProperty(variable)...)
		}
		for _, inv := range v.Invariants {
			tokens = append(tokens, walkExpr(inv)...)
		}
		for _, fn := range v.Initializers {
			tokens = append(tokens, walkFunction(fn)...)
		}
		for _, fn := range v.Functions {
			tokens = append(tokens, walkFunction(fn)...)
		}
	case *ast.EnumDeclaration:
		tokens = append(tokens, identToken(v.Identifier, "type", declaration)...)
		tokens = append(tokens, typeTokens(v.RawType)...)
		for _, c := range v.Cases {
			tokens = append(tokens, identToken(c.Identifier, "enumMember", declaration)...)
			tokens = append(tokens, walkExpr(c.Value)...)
		}
	case *ast.TraitDeclaration:
		tokens = append(tokens, identToken(v.Identifier, "interface", declaration)...)
		for _, fn := range v.Requirements {
			tokens = append(tokens, walkFunction(fn)...)
		}
		for _, fn := range v.Functions {
			tokens = append(tokens, walkFunction(fn)...)
		}
	case *ast.ExternalTraitDeclaration:
		tokens = append(tokens, identToken(v.Identifier, "interface", declaration)...)
		for _, fn := range v.Functions {
			tokens = append(tokens, walkFunction(fn)...)
		}
	}

	return tokens
}

func walkBehaviour(b *ast.ContractBehaviourDeclaration) []SemanticToken {
	tokens := identToken(b.ContractName, "type", 0)

	for _, state := range b.States {
		tokens = append(tokens, protectionToken(state, "enumMember")...)
	}
	if b.CallerBinding != nil {
		tokens = append(tokens, identToken(*b.CallerBinding, "variable", declaration)...)
	}
	for _, caller := range b.CallerProtections {
		tokens = append(tokens, protectionToken(caller, "property")...)
	}
	for _, fn := range b.Members {
		tokens = append(tokens, walkFunction(fn)...)
	}

	return tokens
}

// protectionToken marks the wildcard "any" as a keyword.
func protectionToken(id ast.Ident, tokenType string) []SemanticToken {
	if id.IsAny() {
		return identToken(id, "keyword", 0)
	}
	return identToken(id, tokenType, 0)
}

func walkProperty(v *ast.VariableDeclaration) []SemanticToken {
	tokens := identToken(v.Identifier, "property", declaration)
	tokens = append(tokens, typeTokens(v.Type)...)
	return append(tokens, walkExpr(v.Assigned)...)
}

func walkFunction(fn *ast.FunctionDeclaration) []SemanticToken {
	var tokens []SemanticToken

	// Initialisers are named by their keyword.
	if !fn.IsInit() {
		tokens = append(tokens, identToken(fn.Identifier, "function", declaration)...)
	}
	for _, p := range fn.Parameters {
		tokens = append(tokens, walkParameter(p)...)
	}
	tokens = append(tokens, typeTokens(fn.ResultType)...)
	for _, m := range fn.Mutates {
		tokens = append(tokens, identToken(m, "property", 0)...)
	}
	for _, e := range fn.Pre {
		tokens = append(tokens, walkExpr(e)...)
	}
	for _, e := range fn.Post {
		tokens = append(tokens, walkExpr(e)...)
	}

	return append(tokens, walkStatements(fn.Body)...)
}

func walkParameter(p *ast.Parameter) []SemanticToken {
	tokens := identToken(p.Identifier, "parameter", declaration)
	return append(tokens, typeTokens(p.Type)...)
}

func walkStatements(stmts []ast.Statement) []SemanticToken {
	var tokens []SemanticToken

	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ExprStmt:
			tokens = append(tokens, walkExpr(s.Expr)...)
		case *ast.ReturnStmt:
			tokens = append(tokens, walkExpr(s.Value)...)
		case *ast.BecomeStmt:
			tokens = append(tokens, identToken(s.State, "enumMember", 0)...)
		case *ast.EmitStmt:
			if s.Call != nil {
				tokens = append(tokens, identToken(s.Call.Identifier, "event", 0)...)
				for _, arg := range s.Call.Arguments {
					tokens = append(tokens, walkExpr(arg.Expr)...)
				}
			}
		case *ast.IfStmt:
			tokens = append(tokens, walkExpr(s.Condition)...)
			tokens = append(tokens, walkStatements(s.Body)...)
			tokens = append(tokens, walkStatements(s.Else)...)
		case *ast.ForStmt:
			if s.Variable != nil {
				tokens = append(tokens, walkLocal(s.Variable)...)
			}
			tokens = append(tokens, walkExpr(s.Iterable)...)
			tokens = append(tokens, walkStatements(s.Body)...)
		case *ast.DoCatchStmt:
			tokens = append(tokens, walkStatements(s.Do)...)
			tokens = append(tokens, walkStatements(s.Catch)...)
		}
	}

	return tokens
}

func walkLocal(v *ast.VariableDeclaration) []SemanticToken {
	modifiers := declaration
	if v.IsConstant {
		modifiers |= 1 << indexOf("readonly", SemanticTokenModifiers)
	}
	tokens := identToken(v.Identifier, "variable", modifiers)
	tokens = append(tokens, typeTokens(v.Type)...)
	return append(tokens, walkExpr(v.Assigned)...)
}

func walkExpr(expr ast.Expr) []SemanticToken {
	var tokens []SemanticToken

	switch e := expr.(type) {
	case nil:
		return tokens
	case *ast.Identifier:
		tokens = append(tokens, makeToken(e.Pos, e.Name, "variable", 0)...)
	case *ast.LiteralExpr:
		switch e.Kind {
		case ast.LiteralInt, ast.LiteralAddress:
			tokens = append(tokens, makeToken(e.Pos, e.Value, "number", 0)...)
		case ast.LiteralBool:
			tokens = append(tokens, makeToken(e.Pos, e.Value, "keyword", 0)...)
		}
	case *ast.BinaryExpr:
		tokens = append(tokens, walkExpr(e.Lhs)...)
		if rhs, ok := e.Rhs.(*ast.Identifier); ok && e.Op == ast.OpDot {
			tokens = append(tokens, makeToken(rhs.Pos, rhs.Name, "property", 0)...)
		} else {
			tokens = append(tokens, walkExpr(e.Rhs)...)
		}
	case *ast.UnaryExpr:
		tokens = append(tokens, walkExpr(e.Operand)...)
	case *ast.FunctionCall:
		tokens = append(tokens, identToken(e.Identifier, "function", 0)...)
		for _, arg := range e.Arguments {
			tokens = append(tokens, walkExpr(arg.Expr)...)
		}
	case *ast.ExternalCall:
		if e.Call != nil {
			tokens = append(tokens, walkExpr(e.Call)...)
		}
	case *ast.SubscriptExpr:
		tokens = append(tokens, walkExpr(e.Base)...)
		tokens = append(tokens, walkExpr(e.Index)...)
	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			tokens = append(tokens, walkExpr(el)...)
		}
	case *ast.DictionaryLiteral:
		for _, entry := range e.Entries {
			tokens = append(tokens, walkExpr(entry.Key)...)
			tokens = append(tokens, walkExpr(entry.Value)...)
		}
	case *ast.RangeExpr:
		tokens = append(tokens, walkExpr(e.Start)...)
		tokens = append(tokens, walkExpr(e.End)...)
	case *ast.InoutExpr:
		tokens = append(tokens, walkExpr(e.Expr)...)
	case *ast.VariableDeclaration:
		tokens = append(tokens, walkLocal(e)...)
	}

	return tokens
}

// typeTokens marks the named types inside a type annotation.
func typeTokens(t *ast.Type) []SemanticToken {
	if t == nil {
		return nil
	}

	switch t.Kind {
	case ast.KindBasic, ast.KindUserDefined:
		return makeToken(t.Pos, t.Name, "type", 0)
	case ast.KindFixedArray:
		// The element shares the position of the whole annotation.
		if t.Elem != nil && !t.Elem.Pos.IsValid() {
			return makeToken(t.Pos, t.Elem.Name, "type", 0)
		}
		return typeTokens(t.Elem)
	case ast.KindArray, ast.KindInout:
		return typeTokens(t.Elem)
	case ast.KindDictionary:
		return append(typeTokens(t.Key), typeTokens(t.Value)...)
	}
	return nil
}

func identToken(id ast.Ident, tokenType string, modifiers int) []SemanticToken {
	return makeToken(id.Pos, id.Name, tokenType, modifiers)
}

func makeToken(pos ast.Position, value, tokenType string, modifiers int) []SemanticToken {
	if value == "" || !pos.IsValid() {
		return nil
	}

	return []SemanticToken{{
		Line:           uint32(pos.Line - 1),   // LSP uses 0-based line numbers
		StartChar:      uint32(pos.Column - 1), // LSP uses 0-based column numbers
		Length:         uint32(len(value)),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: modifiers,
	}}
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}

// encodeSemanticTokens packs tokens into the LSP wire format of relative positions.
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	var data []uint32
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return data
}
