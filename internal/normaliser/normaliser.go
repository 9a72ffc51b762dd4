// Package normaliser maps Flint names onto flat, collision-free verification identifiers.
package normaliser

import (
	"fmt"
	"strings"

	"flint/internal/ast"
)

// GlobalName scopes name to its owning contract or struct.
func GlobalName(name, owner string) string {
	return name + "_" + owner
}

// FunctionName mangles a function together with its parameter types so overloads
// never collide.
func FunctionName(name string, parameterTypes []*ast.Type, owner string) string {
	return GlobalName(name+FlattenTypes(parameterTypes), owner)
}

// FlattenTypes encodes a parameter type list. Arrays become $elem$, fixed arrays
// $elem$size, dictionaries @key@$@value@, every other type contributes its
// display name.
func FlattenTypes(types []*ast.Type) string {
	var b strings.Builder
	for _, t := range types {
		flattenType(&b, t)
	}
	return b.String()
}

func flattenType(b *strings.Builder, t *ast.Type) {
	switch t.Kind {
	case ast.KindArray:
		b.WriteString("$")
		flattenType(b, t.Elem)
		b.WriteString("$")
	case ast.KindFixedArray:
		b.WriteString("$")
		flattenType(b, t.Elem)
		fmt.Fprintf(b, "$%d", t.Size)
	case ast.KindDictionary:
		b.WriteString("@")
		flattenType(b, t.Key)
		b.WriteString("@$@")
		flattenType(b, t.Value)
		b.WriteString("@")
	default:
		b.WriteString(t.String())
	}
}

// LocalName scopes a parameter or local variable to its (already mangled) function.
func LocalName(name, function string) string {
	return name + "_" + function
}

func ShadowSizePrefix(depth int) string {
	return fmt.Sprintf("size_%d_", depth)
}

func ShadowKeysPrefix(depth int) string {
	return fmt.Sprintf("keys_%d_", depth)
}

// StateVariableName is the global holding the current type state of a contract.
func StateVariableName(contract string) string {
	return GlobalName("stateVariable", contract)
}

// StructInstanceVariableName is the allocation counter of a struct type.
func StructInstanceVariableName(structName string) string {
	return GlobalName("nextInstance", structName)
}

// CallerVariableName is the global holding the address of the current caller.
func CallerVariableName(contract string) string {
	return GlobalName("caller", contract)
}
