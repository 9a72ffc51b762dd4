package stdlib

import (
	"strings"

	"flint/internal/ast"
)

// PreludeFilename is the pseudo path of the embedded prelude. Diagnostics located in
// files under "stdlib/" belong to the standard library rather than the user program.
const PreludeFilename = "stdlib/Wei.flint"

// AccountingFilename locates the Wei accounting invariant, which has no Flint source.
const AccountingFilename = "stdlib/WeiAccounting.inv"

// Prelude is merged in front of every user module.
const Prelude = `struct Wei {
  var rawValue: Int = 0

  init(unsafeRawValue: Int) {
    self.rawValue = unsafeRawValue
  }

  init(source: inout Wei, amount: Int)
    pre (amount >= 0)
    pre (source.rawValue >= amount)
  {
    source.rawValue -= amount
    self.rawValue = amount
  }

  func getRawValue() -> Int {
    return rawValue
  }

  mutating func transfer(source: inout Wei, amount: Int)
    mutates (rawValue)
    pre (amount >= 0)
    pre (source.rawValue >= amount)
  {
    source.rawValue -= amount
    rawValue += amount
  }

  mutating func transfer(source: inout Wei) mutates (rawValue) {
    transfer(source: &source, amount: source.getRawValue())
  }
}
`

// IsStdlibPosition reports whether pos points into the standard library.
func IsStdlibPosition(pos ast.Position) bool {
	return strings.HasPrefix(pos.Filename, "stdlib/")
}

// FunctionDefinition defines a built-in function with no Flint source
type FunctionDefinition struct {
	Name       string                // Function name (e.g., "assert", "send")
	Parameters []ParameterDefinition // Function parameters
	ReturnType *ast.Type             // Return type (nil if void)
	IsGeneric  bool                  // Result follows the first argument, arguments are unchecked
}

// ParameterDefinition defines a function parameter
type ParameterDefinition struct {
	Name string    // Parameter name
	Type *ast.Type // Parameter type, nil when any type is accepted
}

// Helper function for creating function definitions
func NewFunction(name string, returnType *ast.Type, params ...ParameterDefinition) FunctionDefinition {
	return FunctionDefinition{
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
	}
}

func NewGenericFunction(name string, returnType *ast.Type, params ...ParameterDefinition) FunctionDefinition {
	return FunctionDefinition{
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
		IsGeneric:  true,
	}
}

// Helper function for creating parameters
func NewParam(name string, typ *ast.Type) ParameterDefinition {
	return ParameterDefinition{Name: name, Type: typ}
}

// GlobalFunctions returns the built-in functions callable from any function body or
// specification clause.
func GlobalFunctions() map[string]FunctionDefinition {
	return map[string]FunctionDefinition{
		"assert":     NewFunction("assert", nil, NewParam("condition", ast.BoolType())),
		"fatalError": NewFunction("fatalError", nil),
		"send": NewFunction("send", nil,
			NewParam("address", ast.AddressType()),
			NewParam("value", ast.InoutType(ast.UserDefinedType("Wei")))),

		// Specification helpers
		"prev":          NewGenericFunction("prev", nil, NewParam("value", nil)),
		"returning":     NewGenericFunction("returning", ast.BoolType(), NewParam("value", nil), NewParam("property", ast.BoolType())),
		"arrayContains": NewGenericFunction("arrayContains", ast.BoolType(), NewParam("array", nil), NewParam("value", nil)),
		"dictContains":  NewGenericFunction("dictContains", ast.BoolType(), NewParam("dictionary", nil), NewParam("key", nil)),
		"arrayEach":     NewGenericFunction("arrayEach", ast.BoolType(), NewParam("element", nil), NewParam("array", nil), NewParam("property", ast.BoolType())),
		"forall":        NewGenericFunction("forall", ast.BoolType(), NewParam("variable", nil), NewParam("type", nil), NewParam("property", ast.BoolType())),
		"exists":        NewGenericFunction("exists", ast.BoolType(), NewParam("variable", nil), NewParam("type", nil), NewParam("property", ast.BoolType())),
		"STATE":         NewGenericFunction("STATE", ast.BoolType(), NewParam("state", nil)),
	}
}

var globalFunctions = GlobalFunctions()

// LookupGlobal returns the built-in function with the given name.
func LookupGlobal(name string) (FunctionDefinition, bool) {
	fn, ok := globalFunctions[name]
	return fn, ok
}
