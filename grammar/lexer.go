package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var FlintLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},

		{"String", `"(\\.|[^"\\])*"`, nil},

		// Addresses before integers so the 0x prefix wins
		{"Address", `0x[0-9a-fA-F]+`, nil},
		{"Int", `[0-9]+`, nil},

		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Longest operators first
		{"Operator", `(\.\.<|\.\.\.|==>|<-|->|\*\*|&\+|&-|&\*|==|!=|<=|>=|&&|\|\||\+=|-=|\*=|/=|::|[-+*/%<>=!&])`, nil},

		{"Punctuation", `[{}\[\]():,.@?]`, nil},

		{"Semicolon", `;`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
