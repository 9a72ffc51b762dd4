package ast

import (
	"fmt"
	"strings"
)

// TypeKind classifies a Flint type.
type TypeKind int

const (
	KindBasic TypeKind = iota
	KindUserDefined
	KindArray
	KindFixedArray
	KindDictionary
	KindInout
	KindFunction
	KindAny
	KindError
)

// Basic type names.
const (
	AddressName = "Address"
	IntName     = "Int"
	BoolName    = "Bool"
	StringName  = "String"
	VoidName    = "Void"
)

// Type represents a Flint type as written in source or computed by the environment.
// Example: "Int", "[Address]", "Int[4]", "[Address: Int]", "inout Wei"
type Type struct {
	Pos    Position
	EndPos Position
	Kind   TypeKind
	Name   string
	Elem   *Type
	Key    *Type
	Value  *Type
	Size   int
	Params []*Type
	Result *Type
}

func BasicType(name string) *Type { return &Type{Kind: KindBasic, Name: name} }
func IntType() *Type              { return BasicType(IntName) }
func BoolType() *Type             { return BasicType(BoolName) }
func AddressType() *Type          { return BasicType(AddressName) }
func StringType() *Type           { return BasicType(StringName) }
func VoidType() *Type             { return BasicType(VoidName) }
func AnyType() *Type              { return &Type{Kind: KindAny, Name: "Any"} }
func ErrorType() *Type            { return &Type{Kind: KindError, Name: "<error>"} }

func UserDefinedType(name string) *Type {
	return &Type{Kind: KindUserDefined, Name: name}
}

func ArrayType(elem *Type) *Type {
	return &Type{Kind: KindArray, Elem: elem}
}

func FixedArrayType(elem *Type, size int) *Type {
	return &Type{Kind: KindFixedArray, Elem: elem, Size: size}
}

func DictionaryType(key, value *Type) *Type {
	return &Type{Kind: KindDictionary, Key: key, Value: value}
}

func InoutType(inner *Type) *Type {
	return &Type{Kind: KindInout, Elem: inner}
}

func FunctionType(params []*Type, result *Type) *Type {
	return &Type{Kind: KindFunction, Params: params, Result: result}
}

// String renders the type the way it is mangled into verification identifiers.
func (t *Type) String() string {
	if t == nil {
		return VoidName
	}
	switch t.Kind {
	case KindArray:
		return "[" + t.Elem.String() + "]"
	case KindFixedArray:
		return fmt.Sprintf("%s[%d]", t.Elem.String(), t.Size)
	case KindDictionary:
		return "[" + t.Key.String() + ": " + t.Value.String() + "]"
	case KindInout:
		return "$inout" + t.Elem.String()
	case KindFunction:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.String()
		}
		return "(" + strings.Join(params, ", ") + ") -> " + t.Result.String()
	default:
		return t.Name
	}
}

// Equal reports structural equality, ignoring positions.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindBasic, KindUserDefined, KindAny, KindError:
		return t.Name == o.Name
	case KindArray, KindInout:
		return t.Elem.Equal(o.Elem)
	case KindFixedArray:
		return t.Size == o.Size && t.Elem.Equal(o.Elem)
	case KindDictionary:
		return t.Key.Equal(o.Key) && t.Value.Equal(o.Value)
	case KindFunction:
		if len(t.Params) != len(o.Params) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
		return t.Result.Equal(o.Result)
	}
	return false
}

// IsBasic reports whether t is the named basic type.
func (t *Type) IsBasic(name string) bool {
	return t != nil && t.Kind == KindBasic && t.Name == name
}

// IsUserDefined reports whether t names a struct, contract, enum or trait.
func (t *Type) IsUserDefined() bool {
	return t != nil && t.Kind == KindUserDefined
}

// IsInout reports whether t is passed by reference.
func (t *Type) IsInout() bool {
	return t != nil && t.Kind == KindInout
}

// Underlying strips any inout wrapper.
func (t *Type) Underlying() *Type {
	for t != nil && t.Kind == KindInout {
		t = t.Elem
	}
	return t
}

// IsArrayLike reports whether t is a dynamic or fixed size array.
func (t *Type) IsArrayLike() bool {
	return t != nil && (t.Kind == KindArray || t.Kind == KindFixedArray)
}

// IsIterable reports whether t carries size shadow state.
func (t *Type) IsIterable() bool {
	return t.IsArrayLike() || (t != nil && t.Kind == KindDictionary)
}

// ElementType returns the value type stored by an iterable.
func (t *Type) ElementType() *Type {
	switch t.Kind {
	case KindArray, KindFixedArray:
		return t.Elem
	case KindDictionary:
		return t.Value
	}
	return t
}

// IterableDepth returns how many iterable layers wrap the innermost element type.
func (t *Type) IterableDepth() int {
	depth := 0
	for t.IsIterable() {
		t = t.ElementType()
		depth++
	}
	return depth
}
