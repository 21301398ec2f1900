package codegen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

const indentUnit = "    "

// implicitImports are packages Kotlin imports by default.
var implicitImports = map[string]bool{
	"kotlin":             true,
	"kotlin.collections": true,
}

// Print renders a file. Imports are deduplicated and sorted, and imports of
// the file's own package or of implicitly imported packages are dropped, so
// equal files always print to equal bytes.
func Print(f *File) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package %s\n", f.Package)

	if imports := normalizeImports(f.Package, f.Imports); len(imports) > 0 {
		buf.WriteString("\n")
		for _, imp := range imports {
			fmt.Fprintf(&buf, "import %s\n", imp)
		}
	}

	for _, d := range f.Decls {
		buf.WriteString("\n")
		buf.WriteString(formatDecl(d))
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

func normalizeImports(pkg string, imports []string) []string {
	seen := make(map[string]bool, len(imports))
	var out []string
	for _, imp := range imports {
		if imp == "" || seen[imp] {
			continue
		}
		seen[imp] = true
		p := ""
		if i := strings.LastIndexByte(imp, '.'); i >= 0 {
			p = imp[:i]
		}
		if p == pkg || implicitImports[p] {
			continue
		}
		out = append(out, imp)
	}
	sort.Strings(out)
	return out
}

// indent prefixes every non-empty line of s with one indentation unit.
func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = indentUnit + l
		}
	}
	return strings.Join(lines, "\n")
}

func annotations(as []string) string {
	var b strings.Builder
	for _, a := range as {
		b.WriteString("@" + a + "\n")
	}
	return b.String()
}

func modifiers(ms []string) string {
	if len(ms) == 0 {
		return ""
	}
	return strings.Join(ms, " ") + " "
}

// =============================================================================
// Declarations
// =============================================================================

func formatDecl(d Decl) string {
	switch d := d.(type) {
	case Object:
		head := annotations(d.Annotations) + "object " + d.Name
		if len(d.Supertypes) > 0 {
			head += " : " + strings.Join(d.Supertypes, ", ")
		}
		return head + formatMembers(d.Members)
	case DataClass:
		return "data class " + d.Name + formatParams(d.Params)
	case Fun:
		return formatFun(d)
	case Property:
		return formatProperty(d)
	}
	panic(fmt.Sprintf("codegen: unknown declaration %T", d))
}

func formatMembers(members []Decl) string {
	if len(members) == 0 {
		return ""
	}
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = indent(formatDecl(m))
	}
	return " {\n" + strings.Join(parts, "\n\n") + "\n}"
}

func formatParams(ps []Param) string {
	if len(ps) == 0 {
		return "()"
	}
	if len(ps) == 1 && ps[0].Default == nil && !ps[0].Val {
		return "(" + formatParam(ps[0]) + ")"
	}
	lines := make([]string, len(ps))
	for i, p := range ps {
		lines[i] = indent(formatParam(p) + ",")
	}
	return "(\n" + strings.Join(lines, "\n") + "\n)"
}

func formatParam(p Param) string {
	s := p.Name + ": " + p.Type
	if p.Val {
		s = "val " + s
	}
	if p.Default != nil {
		s += " = " + formatExpr(p.Default)
	}
	return s
}

func formatFun(f Fun) string {
	s := modifiers(f.Modifiers) + "fun " + f.Name + formatParams(f.Params)
	if f.Returns != "" {
		s += ": " + f.Returns
	}
	if f.Expr != nil {
		return s + " = " + formatExpr(f.Expr)
	}
	return s + formatBlock(f.Body)
}

func formatProperty(p Property) string {
	kw := "val "
	if p.Var {
		kw = "var "
	}
	s := annotations(p.Annotations) + modifiers(p.Modifiers) + kw + p.Name
	if p.Type != "" {
		s += ": " + p.Type
	}
	if p.Init != nil {
		s += " = " + formatExpr(p.Init)
	}
	if p.Getter != nil {
		s += " get() = " + formatExpr(p.Getter)
	}
	if p.Set != nil {
		s += "\n" + indent("set(value)"+formatBlock(p.Set))
	}
	if p.Get != nil {
		s += "\n" + indent("get()"+formatBlock(p.Get))
	}
	return s
}

// =============================================================================
// Statements
// =============================================================================

func formatBlock(stmts []Stmt) string {
	if len(stmts) == 0 {
		return " {}"
	}
	lines := make([]string, len(stmts))
	for i, st := range stmts {
		lines[i] = indent(formatStmt(st))
	}
	return " {\n" + strings.Join(lines, "\n") + "\n}"
}

func formatStmt(st Stmt) string {
	switch st := st.(type) {
	case Return:
		return "return " + formatExpr(st.Value)
	case Assign:
		return st.Target + " = " + formatExpr(st.Value)
	case ExprStmt:
		return formatExpr(st.Expr)
	case If:
		return "if (" + formatExpr(st.Cond) + ")" + formatBlock(st.Then)
	}
	panic(fmt.Sprintf("codegen: unknown statement %T", st))
}

// =============================================================================
// Expressions
// =============================================================================

func formatExpr(e Expr) string {
	switch e := e.(type) {
	case Code:
		return string(e)
	case Str:
		return `"` + escape(string(e)) + `"`
	case Template:
		var b strings.Builder
		b.WriteByte('"')
		for _, p := range e {
			switch {
			case p.Expr != nil:
				b.WriteString("${" + formatExpr(p.Expr) + "}")
			case p.Ref != "":
				b.WriteString("$" + p.Ref)
			default:
				b.WriteString(escape(p.Text))
			}
		}
		b.WriteByte('"')
		return b.String()
	case Call:
		return formatCall(e)
	case Concat:
		parts := make([]string, len(e))
		for i, p := range e {
			parts[i] = formatExpr(p)
			if i > 0 {
				parts[i] = indent(parts[i])
			}
		}
		return strings.Join(parts, " +\n")
	case Elvis:
		return formatExpr(e.Left) + " ?: " + formatExpr(e.Right)
	case ObjectExpr:
		return "object : " + e.Supertype + formatMembers(e.Members)
	}
	panic(fmt.Sprintf("codegen: unknown expression %T", e))
}

func formatCall(c Call) string {
	s := c.Fun
	switch {
	case c.Multiline && len(c.Args) > 0:
		lines := make([]string, len(c.Args))
		for i, a := range c.Args {
			lines[i] = indent(formatArg(a) + ",")
		}
		s += "(\n" + strings.Join(lines, "\n") + "\n)"
	case len(c.Args) > 0 || c.Lambda == nil:
		args := make([]string, len(c.Args))
		for i, a := range c.Args {
			args[i] = formatArg(a)
		}
		s += "(" + strings.Join(args, ", ") + ")"
	}
	if c.Lambda != nil {
		s += formatBlock(c.Lambda)
	}
	return s
}

func formatArg(a Arg) string {
	if a.Name != "" {
		return a.Name + " = " + formatExpr(a.Value)
	}
	return formatExpr(a.Value)
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "\n", `\n`)
	return r.Replace(s)
}
