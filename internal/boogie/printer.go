package boogie

import (
	"fmt"
	"sort"
	"strings"
)

// Printer renders a verification program and remembers which line each assertable
// construct was written to.
type Printer struct {
	indent int
	line   int
	output strings.Builder
	lines  LineMap
}

// NewPrinter creates a new printer
func NewPrinter() *Printer {
	return &Printer{lines: make(LineMap)}
}

// Print renders decls. The returned map resolves line numbers reported by the
// verifier to the construct written on that line.
func Print(decls []Declaration) (string, LineMap) {
	p := NewPrinter()
	for i, d := range decls {
		if i > 0 {
			p.writeLine("")
		}
		p.printDeclaration(d)
	}
	return p.output.String(), p.lines
}

// Helper methods

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	if format != "" {
		p.writeIndent()
		p.output.WriteString(fmt.Sprintf(format, args...))
	}
	p.output.WriteString("\n")
	p.line++
}

// writeMarked writes a marker comment followed by a line mapped to ti. Lines without
// information are written unmarked.
func (p *Printer) writeMarked(ti *TranslationInformation, format string, args ...interface{}) {
	if ti != nil {
		p.writeLine("%s", ti.Marker())
		p.lines[p.line+1] = ti
	}
	p.writeLine(format, args...)
}

func (p *Printer) printDeclaration(d Declaration) {
	switch d := d.(type) {
	case *FunctionDeclaration:
		if d.ReturnType == nil {
			p.writeLine("function %s(%s);", d.Name, joinParameters(d.Parameters))
		} else {
			p.writeLine("function %s(%s) returns (%s: %s);", d.Name, joinParameters(d.Parameters), d.ReturnName, d.ReturnType)
		}
	case *AxiomDeclaration:
		p.writeLine("axiom %s;", d.Proposition)
	case *VariableDeclaration:
		p.writeLine("var %s: %s;", d.Name, d.Type)
	case *ConstDeclaration:
		if d.Unique {
			p.writeLine("const unique %s: %s;", d.Name, d.Type)
		} else {
			p.writeLine("const %s: %s;", d.Name, d.Type)
		}
	case *TypeDeclaration:
		if d.Alias == nil {
			p.writeLine("type %s;", d.Name)
		} else {
			p.writeLine("type %s = %s;", d.Name, d.Alias)
		}
	case *ResolvedProcedure:
		p.printProcedure(d)
	case *Procedure:
		panic("boogie: procedure " + d.Name + " printed before modifies resolution")
	}
}

func (p *Printer) printProcedure(proc *ResolvedProcedure) {
	attributes := ""
	if proc.Inline {
		attributes = "{:inline 1} "
	}
	returns := ""
	if len(proc.ReturnTypes) > 0 {
		results := make([]string, len(proc.ReturnTypes))
		for i, t := range proc.ReturnTypes {
			results[i] = proc.ReturnNames[i] + ": " + t.String()
		}
		returns = " returns (" + strings.Join(results, ", ") + ")"
	}
	p.writeMarked(proc.TI, "procedure %s%s(%s)%s", attributes, proc.Name, joinParameters(proc.Parameters), returns)

	p.indent++
	for _, pre := range proc.Pre {
		p.writeMarked(pre.TI, "requires (%s);", pre.Expr)
	}
	for _, post := range proc.Post {
		p.writeMarked(post.TI, "ensures (%s);", post.Expr)
	}
	modifies := append([]string{}, proc.Modifies...)
	sort.Strings(modifies)
	for _, m := range modifies {
		p.writeLine("modifies %s;", m)
	}
	p.indent--

	p.writeLine("{")
	p.indent++
	variables := uniqueVariables(proc.Variables)
	for _, v := range variables {
		p.writeLine("var %s: %s;", v.Name, v.Type)
	}
	if len(variables) > 0 {
		p.writeLine("")
	}
	p.printStatements(proc.Statements)
	p.indent--
	p.writeMarked(proc.TI, "}")
}

func (p *Printer) printStatements(stmts []Statement) {
	for _, s := range stmts {
		p.printStatement(s)
	}
}

func (p *Printer) printStatement(s Statement) {
	switch s := s.(type) {
	case *ExpressionStatement:
		p.writeLine("%s", s.Expr)
	case *IfStatement:
		p.writeMarked(s.TI, "if (%s) {", s.Condition)
		p.block(s.Then)
		if len(s.Else) > 0 {
			p.writeLine("} else {")
			p.block(s.Else)
		}
		p.writeLine("}")
	case *WhileStatement:
		p.writeMarked(s.TI, "while (%s)", s.Condition)
		p.indent++
		for _, inv := range s.Invariants {
			p.writeMarked(inv.TI, "invariant (%s);", inv.Expr)
		}
		p.indent--
		p.writeLine("{")
		p.block(s.Body)
		p.writeLine("}")
	case *AssertStatement:
		p.writeMarked(s.TI, "assert (%s);", s.Expr)
	case *AssumeStatement:
		p.writeMarked(s.TI, "assume (%s);", s.Expr)
	case *HavocStatement:
		p.writeLine("havoc %s;", s.Name)
	case *AssignmentStatement:
		p.writeLine("%s := %s;", s.Lhs, s.Rhs)
	case *CallStatement:
		if len(s.Returns) > 0 {
			p.writeMarked(s.TI, "call %s := %s(%s);", strings.Join(s.Returns, ", "), s.Name, joinExprs(s.Arguments))
		} else {
			p.writeMarked(s.TI, "call %s(%s);", s.Name, joinExprs(s.Arguments))
		}
	case *BreakStatement:
		p.writeLine("break;")
	case *ReturnStatement:
		p.writeMarked(s.TI, "return;")
	case *CommentStatement:
		p.writeLine("// %s", s.Text)
	}
}

func (p *Printer) block(stmts []Statement) {
	p.indent++
	p.printStatements(stmts)
	p.indent--
}

func joinParameters(params []*Parameter) string {
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = param.String()
	}
	return strings.Join(parts, ", ")
}
