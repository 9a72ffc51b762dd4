package boogie

// TypeKind distinguishes the verification language types.
type TypeKind int

const (
	KindInt TypeKind = iota
	KindReal
	KindBool
	KindUserDefined
	KindMap
)

// Type is a verification language type. Maps are curried: [K]V.
type Type struct {
	Kind  TypeKind
	Name  string
	Key   *Type
	Value *Type
}

func IntType() *Type                    { return &Type{Kind: KindInt} }
func RealType() *Type                   { return &Type{Kind: KindReal} }
func BoolType() *Type                   { return &Type{Kind: KindBool} }
func UserDefinedType(name string) *Type { return &Type{Kind: KindUserDefined, Name: name} }
func MapType(key, value *Type) *Type    { return &Type{Kind: KindMap, Key: key, Value: value} }

func (t *Type) String() string {
	switch t.Kind {
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindBool:
		return "bool"
	case KindMap:
		return "[" + t.Key.String() + "]" + t.Value.String()
	}
	return t.Name
}

// NameSafe renders the type so that it can be embedded in an identifier.
func (t *Type) NameSafe() string {
	if t.Kind == KindMap {
		return t.Key.NameSafe() + "_" + t.Value.NameSafe()
	}
	return t.String()
}

func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind == KindMap {
		return t.Key.Equal(o.Key) && t.Value.Equal(o.Value)
	}
	return t.Name == o.Name
}
