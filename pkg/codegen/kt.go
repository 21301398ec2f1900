package codegen

// =============================================================================
// Files and declarations
// =============================================================================

// File is one generated Kotlin source file.
type File struct {
	Package string
	Imports []string
	Decls   []Decl
}

// Decl is a top-level or member declaration.
type Decl interface{ decl() }

// Object is an object declaration.
type Object struct {
	Annotations []string
	Name        string
	Supertypes  []string
	Members     []Decl
}

// DataClass is a data class with a primary constructor of vals.
type DataClass struct {
	Name   string
	Params []Param
}

// Fun is a function with either a block Body or an expression body Expr.
type Fun struct {
	Modifiers []string
	Name      string
	Params    []Param
	Returns   string
	Body      []Stmt
	Expr      Expr
}

// Property is a val or var. Getter renders as `get() = expr`; Get and Set
// render as accessor blocks below the declaration.
type Property struct {
	Annotations []string
	Modifiers   []string
	Var         bool
	Name        string
	Type        string
	Init        Expr
	Getter      Expr
	Get         []Stmt
	Set         []Stmt
}

// Param is a function or constructor parameter.
type Param struct {
	Val     bool
	Name    string
	Type    string
	Default Expr
}

func (Object) decl()    {}
func (DataClass) decl() {}
func (Fun) decl()       {}
func (Property) decl()  {}

// =============================================================================
// Statements
// =============================================================================

// Stmt is a statement inside a function or lambda body.
type Stmt interface{ stmt() }

// Return is a return statement.
type Return struct{ Value Expr }

// Assign assigns Value to Target.
type Assign struct {
	Target string
	Value  Expr
}

// ExprStmt evaluates an expression.
type ExprStmt struct{ Expr Expr }

// If runs Then when Cond holds.
type If struct {
	Cond Expr
	Then []Stmt
}

func (Return) stmt()   {}
func (Assign) stmt()   {}
func (ExprStmt) stmt() {}
func (If) stmt()       {}

// =============================================================================
// Expressions
// =============================================================================

// Expr is an expression.
type Expr interface{ expr() }

// Code is an expression taken verbatim.
type Code string

// Str is a string literal.
type Str string

// Template is a string template made of literal text, $name references and
// ${expr} substitutions.
type Template []Part

// Part is one piece of a Template. Exactly one field is set.
type Part struct {
	Text string
	Ref  string
	Expr Expr
}

// Call is a function call. Lambda is a trailing lambda; it is rendered
// whenever it is non-nil, even if empty. Multiline puts one argument per line.
type Call struct {
	Fun       string
	Args      []Arg
	Lambda    []Stmt
	Multiline bool
}

// Arg is a call argument, named when Name is set.
type Arg struct {
	Name  string
	Value Expr
}

// Concat joins expressions with + across lines.
type Concat []Expr

// Elvis is `Left ?: Right`.
type Elvis struct {
	Left, Right Expr
}

// ObjectExpr is an anonymous object expression.
type ObjectExpr struct {
	Supertype string
	Members   []Decl
}

func (Code) expr()       {}
func (Str) expr()        {}
func (Template) expr()   {}
func (Call) expr()       {}
func (Concat) expr()     {}
func (Elvis) expr()      {}
func (ObjectExpr) expr() {}

// Args builds positional arguments from expressions.
func Args(values ...Expr) []Arg {
	out := make([]Arg, len(values))
	for i, v := range values {
		out[i] = Arg{Value: v}
	}
	return out
}
