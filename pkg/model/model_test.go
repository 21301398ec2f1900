package model

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestClassTypeOf(t *testing.T) {
	tests := []struct {
		in         string
		simple     string
		pkg        string
		shouldZero bool
	}{
		{"com.example.Profile", "Profile", "com.example", false},
		{"Profile", "Profile", "", false},
		{"", "", "", true},
	}

	for _, tt := range tests {
		c := ClassTypeOf(tt.in)
		if c.SimpleName != tt.simple {
			t.Errorf("ClassTypeOf(%q).SimpleName = %q, want %q", tt.in, c.SimpleName, tt.simple)
		}
		if c.Package() != tt.pkg {
			t.Errorf("ClassTypeOf(%q).Package() = %q, want %q", tt.in, c.Package(), tt.pkg)
		}
		if c.IsZero() != tt.shouldZero {
			t.Errorf("ClassTypeOf(%q).IsZero() = %v, want %v", tt.in, c.IsZero(), tt.shouldZero)
		}
	}
}

func TestLazyEvaluatesOnce(t *testing.T) {
	var calls atomic.Int32
	l := NewLazy(func() (string, error) {
		calls.Add(1)
		return "value", nil
	})

	if calls.Load() != 0 {
		t.Fatal("NewLazy should not evaluate eagerly")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, err := l.Get(); err != nil || v != "value" {
				t.Errorf("Get() = %q, %v", v, err)
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("computation ran %d times, want 1", calls.Load())
	}
}

func TestLazyKeepsError(t *testing.T) {
	boom := errors.New("boom")
	l := NewLazy(func() (int, error) { return 0, boom })

	for i := 0; i < 2; i++ {
		if _, err := l.Get(); !errors.Is(err, boom) {
			t.Errorf("Get() error = %v, want %v", err, boom)
		}
	}
}

func TestLazyNil(t *testing.T) {
	var l *Lazy[*DefaultValue]
	v, err := l.Get()
	if v != nil || err != nil {
		t.Errorf("nil Lazy Get() = %v, %v, want nil, nil", v, err)
	}
}

func TestParameterIsMandatory(t *testing.T) {
	str := Type{Class: ClassTypeOf("kotlin.String")}
	nullable := str
	nullable.Nullable = true

	tests := []struct {
		name string
		p    Parameter
		want bool
	}{
		{"plain", Parameter{Name: "a", Type: str}, true},
		{"nullable", Parameter{Name: "a", Type: nullable}, false},
		{"default", Parameter{Name: "a", Type: str, HasDefault: true}, false},
	}

	for _, tt := range tests {
		if got := tt.p.IsMandatory(); got != tt.want {
			t.Errorf("%s: IsMandatory() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRecursiveOptIns(t *testing.T) {
	a := ClassTypeOf("x.A")
	b := ClassTypeOf("x.B")

	inner := Type{Class: ClassTypeOf("x.Inner"), OptIns: []ClassType{b, a}}
	outer := Type{
		Class:  ClassTypeOf("x.Outer"),
		OptIns: []ClassType{a},
		Args: []GenericArg{
			StarArg{},
			TypedArg{Type: inner, Variance: Covariant},
		},
	}

	got := outer.RecursiveOptIns()
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("RecursiveOptIns() = %v, want [x.A x.B]", got)
	}
}

func TestFirstError(t *testing.T) {
	leaf := Type{
		Class: ClassTypeOf("x.Box"),
		Args:  []GenericArg{ErrorArg{Name: "Missing"}},
	}
	outer := Type{
		Class: ClassTypeOf("kotlin.collections.List"),
		Args:  []GenericArg{TypedArg{Type: leaf}},
	}

	e, ok := outer.FirstError()
	if !ok || e.Name != "Missing" {
		t.Errorf("FirstError() = %v, %v, want Missing, true", e, ok)
	}

	if _, ok := leaf.Args[0].(ErrorArg); !ok {
		t.Error("error marker should be preserved in Args")
	}

	if _, ok := (Type{Class: ClassTypeOf("kotlin.Int")}).FirstError(); ok {
		t.Error("FirstError() on a plain type should report false")
	}
}

func TestRequiredOptIns(t *testing.T) {
	s := &ResolvedScreen{
		RawScreen: &RawScreen{},
		OptIns: []OptIn{
			{Marker: ClassTypeOf("x.A"), OptedIn: true},
			{Marker: ClassTypeOf("x.B")},
		},
	}
	got := s.RequiredOptIns()
	if len(got) != 1 || got[0].QualifiedName != "x.B" {
		t.Errorf("RequiredOptIns() = %v, want [x.B]", got)
	}
}
