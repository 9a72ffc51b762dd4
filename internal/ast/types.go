package ast

type NodeType int

const (
	ILLEGAL NodeType = iota

	// Declarations
	MODULE
	CONTRACT_DECLARATION
	HOLISTIC_SPEC
	EVENT_DECLARATION
	CONTRACT_BEHAVIOUR_DECLARATION
	STRUCT_DECLARATION
	ENUM_DECLARATION
	ENUM_CASE
	EXTERNAL_TRAIT_DECLARATION
	TRAIT_DECLARATION
	FUNCTION_DECLARATION
	PARAMETER
	TYPE

	// Statements
	EXPR_STMT
	RETURN_STMT
	BECOME_STMT
	EMIT_STMT
	IF_STMT
	FOR_STMT
	DO_CATCH_STMT

	// Expressions
	IDENTIFIER
	BINARY_EXPR
	UNARY_EXPR
	FUNCTION_CALL
	CALL_ARGUMENT
	EXTERNAL_CALL
	SUBSCRIPT_EXPR
	LITERAL_EXPR
	ARRAY_LITERAL
	DICTIONARY_LITERAL
	RANGE_EXPR
	SELF_EXPR
	INOUT_EXPR
	VARIABLE_DECLARATION
)
