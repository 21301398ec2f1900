package types

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/feed"
	"github.com/matzehuels/navgen/pkg/model"
)

func testUniverse() []feed.TypeDecl {
	return []feed.TypeDecl{
		{QualifiedName: "com.example.UserId", Kind: feed.KindAlias, Target: &feed.TypeRef{Name: "com.example.RawId"}},
		{QualifiedName: "com.example.RawId", Kind: feed.KindAlias, Target: &feed.TypeRef{Name: "kotlin.Long", Nullable: true}},
		{QualifiedName: "com.example.Loop", Kind: feed.KindAlias, Target: &feed.TypeRef{Name: "com.example.Loop"}},
		{QualifiedName: "com.example.Filter", Kind: feed.KindEnum, Entries: []string{"ALL", "NEW"}},
		{QualifiedName: "com.example.Item", Kind: feed.KindClass, Supertypes: []string{Parcelable}, OptIns: []string{"com.example.Beta"}},
		{QualifiedName: "com.example.Point", Kind: feed.KindClass, KtxSerializable: true},
		{QualifiedName: "com.example.Plain", Kind: feed.KindClass},
		{QualifiedName: "com.example.Args", Kind: feed.KindClass, Fields: []feed.ParamDecl{
			{Name: "id", Type: feed.TypeRef{Name: "kotlin.Int"}},
			{Name: "q", Type: feed.TypeRef{Name: "kotlin.String", Nullable: true}, HasDefault: true, Default: &feed.DefaultDecl{Code: "null"}},
		}},
	}
}

func newTestResolver(t *testing.T, reader LineReader) *Resolver {
	t.Helper()
	u := NewUniverse(testUniverse())
	reg, err := NewRegistry(u, []feed.Serializer{{Type: "com.example.Point", Serializer: "com.example.PointSerializer"}})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return NewResolver(u, reg, reader)
}

func TestResolveClassification(t *testing.T) {
	r := newTestResolver(t, nil)

	tests := []struct {
		name       string
		ref        feed.TypeRef
		class      string
		nullable   bool
		enum       bool
		complex    bool
		serializer bool
		primitive  model.Primitive
	}{
		{"primitive", feed.TypeRef{Name: "kotlin.Int"}, "kotlin.Int", false, false, false, false, model.PrimitiveInt},
		{"nullable string", feed.TypeRef{Name: "kotlin.String", Nullable: true}, "kotlin.String", true, false, false, false, model.PrimitiveString},
		{"alias chain", feed.TypeRef{Name: "com.example.UserId"}, "kotlin.Long", true, false, false, false, model.PrimitiveLong},
		{"enum", feed.TypeRef{Name: "com.example.Filter"}, "com.example.Filter", false, true, false, false, model.NotPrimitive},
		{"parcelable supertype", feed.TypeRef{Name: "com.example.Item"}, "com.example.Item", false, false, true, false, model.NotPrimitive},
		{"custom serializer", feed.TypeRef{Name: "com.example.Point"}, "com.example.Point", false, false, true, true, model.NotPrimitive},
		{"plain class", feed.TypeRef{Name: "com.example.Plain"}, "com.example.Plain", false, false, false, false, model.NotPrimitive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.ref)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.Class.QualifiedName != tt.class {
				t.Errorf("Class = %s, want %s", got.Class, tt.class)
			}
			if got.Nullable != tt.nullable {
				t.Errorf("Nullable = %v, want %v", got.Nullable, tt.nullable)
			}
			if got.IsEnum != tt.enum {
				t.Errorf("IsEnum = %v, want %v", got.IsEnum, tt.enum)
			}
			if got.IsComplex() != tt.complex {
				t.Errorf("IsComplex() = %v, want %v", got.IsComplex(), tt.complex)
			}
			if got.HasCustomSerializer != tt.serializer {
				t.Errorf("HasCustomSerializer = %v, want %v", got.HasCustomSerializer, tt.serializer)
			}
			if got.Primitive() != tt.primitive {
				t.Errorf("Primitive() = %v, want %v", got.Primitive(), tt.primitive)
			}
		})
	}
}

func TestResolveUnknownTopLevel(t *testing.T) {
	r := newTestResolver(t, nil)

	_, err := r.Resolve(feed.TypeRef{Name: "com.example.Missing"})
	if !errs.Is(err, errs.ErrCodeUnresolvedType) {
		t.Errorf("Resolve() error = %v, want UNRESOLVED_PARAMETER_TYPE", err)
	}

	_, err = r.Resolve(feed.TypeRef{Name: "com.example.Loop"})
	if !errs.Is(err, errs.ErrCodeUnresolvedType) {
		t.Errorf("Resolve(alias cycle) error = %v, want UNRESOLVED_PARAMETER_TYPE", err)
	}
}

func TestResolveGenericArgs(t *testing.T) {
	var reads atomic.Int32
	reader := func(pos errs.Position) (string, error) {
		reads.Add(1)
		return "val items: List<Missing>", nil
	}
	r := newTestResolver(t, reader)

	got, err := r.Resolve(feed.TypeRef{
		Name: "kotlin.collections.Map",
		Args: []feed.TypeArg{
			{Star: true},
			{Type: &feed.TypeRef{Name: "com.example.Item"}, Variance: "out"},
			{Error: "Missing", Source: &errs.Position{File: "Screen.kt", Line: 4}},
			{Type: &feed.TypeRef{Name: "com.example.NotThere"}},
		},
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got.Args) != 4 {
		t.Fatalf("Args = %d, want 4", len(got.Args))
	}

	if _, ok := got.Args[0].(model.StarArg); !ok {
		t.Errorf("Args[0] = %T, want StarArg", got.Args[0])
	}
	typed, ok := got.Args[1].(model.TypedArg)
	if !ok || typed.Variance != model.Covariant || typed.Type.Class.SimpleName != "Item" {
		t.Errorf("Args[1] = %+v, want out Item", got.Args[1])
	}
	if _, ok := got.Args[3].(model.ErrorArg); !ok {
		t.Errorf("Args[3] = %T, want ErrorArg for unknown nested type", got.Args[3])
	}

	if reads.Load() != 0 {
		t.Fatal("source line must not be read before it is needed")
	}
	e := got.Args[2].(model.ErrorArg)
	line, err := e.Line.Get()
	if err != nil || line != "val items: List<Missing>" {
		t.Errorf("Line.Get() = %q, %v", line, err)
	}
	if reads.Load() != 1 {
		t.Errorf("reads = %d, want 1", reads.Load())
	}

	optIns := got.RecursiveOptIns()
	if len(optIns) != 1 || optIns[0].QualifiedName != "com.example.Beta" {
		t.Errorf("RecursiveOptIns() = %v, want [com.example.Beta]", optIns)
	}
}

func TestParameterLazyDefault(t *testing.T) {
	r := newTestResolver(t, nil)

	p, err := r.Parameter(feed.ParamDecl{Name: "x", Type: feed.TypeRef{Name: "kotlin.Int"}, HasDefault: true})
	if err != nil {
		t.Fatalf("Parameter() error = %v (unresolved defaults must not fail eagerly)", err)
	}
	if _, err := p.Default.Get(); !errs.Is(err, errs.ErrCodeUnresolvedDefault) {
		t.Errorf("Default.Get() error = %v, want UNRESOLVED_DEFAULT_VALUE", err)
	}

	p, err = r.Parameter(feed.ParamDecl{
		Name:       "f",
		Type:       feed.TypeRef{Name: "com.example.Filter"},
		HasDefault: true,
		Default:    &feed.DefaultDecl{Code: "Filter.ALL", Imports: []string{"com.example.Filter"}},
	})
	if err != nil {
		t.Fatalf("Parameter() error = %v", err)
	}
	v, err := p.Default.Get()
	if err != nil || v.Code != "Filter.ALL" {
		t.Errorf("Default.Get() = %+v, %v", v, err)
	}

	if _, err := r.Parameter(feed.ParamDecl{Name: "bad-name", Type: feed.TypeRef{Name: "kotlin.Int"}}); err == nil {
		t.Error("Parameter() should reject invalid identifiers")
	}
}

func TestDelegate(t *testing.T) {
	r := newTestResolver(t, nil)

	d, err := r.Delegate("com.example.Args")
	if err != nil {
		t.Fatalf("Delegate() error = %v", err)
	}
	if d.Class.SimpleName != "Args" || len(d.Fields) != 2 {
		t.Errorf("Delegate() = %+v", d)
	}
	if d.Fields[0].Name != "id" || !d.Fields[0].IsMandatory() {
		t.Errorf("Fields[0] = %+v, want mandatory id", d.Fields[0])
	}

	if _, err := r.Delegate("com.example.Filter"); !errs.Is(err, errs.ErrCodeDelegateConflict) {
		t.Errorf("Delegate(enum) error = %v, want DELEGATE_CONFLICT", err)
	}
	if _, err := r.Delegate("com.example.Nope"); !errs.Is(err, errs.ErrCodeUnresolvedType) {
		t.Errorf("Delegate(unknown) error = %v, want UNRESOLVED_PARAMETER_TYPE", err)
	}
}

func TestRegistry(t *testing.T) {
	u := NewUniverse(testUniverse())
	reg, err := NewRegistry(u, []feed.Serializer{{Type: "com.example.Point", Serializer: "com.example.PointSerializer"}})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	item, ok := reg.Lookup(model.ClassTypeOf("com.example.Item"))
	if !ok || item.Name != "itemNavType" || !item.Serializer.IsZero() {
		t.Errorf("Lookup(Item) = %+v, %v", item, ok)
	}
	if !reg.HasSerializer(model.ClassTypeOf("com.example.Point")) {
		t.Error("Point should have a registered serializer")
	}
	if _, ok := reg.Lookup(model.ClassTypeOf("com.example.Plain")); ok {
		t.Error("Plain is not structured and should not be registered")
	}
	if _, ok := reg.Lookup(model.ClassTypeOf("kotlin.String")); ok {
		t.Error("primitives should not be registered")
	}

	if _, err := NewRegistry(u, []feed.Serializer{{Type: "com.example.Nope", Serializer: "x.S"}}); !errs.Is(err, errs.ErrCodeInvalidFeed) {
		t.Errorf("NewRegistry(unknown type) error = %v, want INVALID_FEED", err)
	}
}

func TestUniverseGraphsAndAssignability(t *testing.T) {
	u := NewUniverse([]feed.TypeDecl{
		{QualifiedName: "x.SettingsGraph", Kind: feed.KindAnnotation, NavGraph: &feed.NavGraphDecl{Route: "settings", Start: true}},
		{QualifiedName: "x.FadeStyle", Kind: feed.KindObject, Supertypes: []string{"x.BaseAnim"}},
		{QualifiedName: "x.BaseAnim", Kind: feed.KindInterface, Supertypes: []string{DestinationStyleAnimated}},
	})

	graphs := u.Graphs()
	if len(graphs) != 2 {
		t.Fatalf("Graphs() = %d, want 2 (root + settings)", len(graphs))
	}
	g, ok := u.Graph("x.SettingsGraph")
	if !ok || g.Route != "settings" || !g.Start || !g.Parent.IsZero() {
		t.Errorf("Graph(settings) = %+v", g)
	}

	if !u.IsAssignable("x.FadeStyle", DestinationStyle) {
		t.Error("FadeStyle should be assignable to DestinationStyle transitively")
	}
	if u.IsAssignable("x.FadeStyle", DestinationStyleDialog) {
		t.Error("FadeStyle should not be assignable to Dialog")
	}
}

func TestReadSourceLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Screen.kt")
	if err := os.WriteFile(path, []byte("package x\n\nfun Screen(a: Foo<Bar>) {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	line, err := ReadSourceLine(errs.Position{File: path, Line: 3})
	if err != nil || line != "fun Screen(a: Foo<Bar>) {}" {
		t.Errorf("ReadSourceLine() = %q, %v", line, err)
	}
	if _, err := ReadSourceLine(errs.Position{File: path, Line: 10}); err == nil {
		t.Error("ReadSourceLine() past EOF should fail")
	}
}
