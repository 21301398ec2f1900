package model

import (
	"strings"
)

// ClassType identifies a declared type by its simple and fully-qualified name.
// The qualified name is the identity key for every lookup (serializer
// registry, opt-in deduplication, style matching).
type ClassType struct {
	SimpleName    string `json:"simpleName"`
	QualifiedName string `json:"qualifiedName"`
}

// ClassTypeOf builds a ClassType from a qualified name, taking the last
// dot-separated segment as the simple name.
func ClassTypeOf(qualifiedName string) ClassType {
	simple := qualifiedName
	if i := strings.LastIndexByte(qualifiedName, '.'); i >= 0 {
		simple = qualifiedName[i+1:]
	}
	return ClassType{SimpleName: simple, QualifiedName: qualifiedName}
}

// IsZero reports whether c names no type.
func (c ClassType) IsZero() bool { return c.QualifiedName == "" }

// Package returns the package part of the qualified name.
func (c ClassType) Package() string {
	if i := strings.LastIndexByte(c.QualifiedName, '.'); i >= 0 {
		return c.QualifiedName[:i]
	}
	return ""
}

func (c ClassType) String() string { return c.QualifiedName }

// Variance is the use-site variance of a generic type argument.
type Variance string

const (
	Invariant     Variance = ""
	Covariant     Variance = "out"
	Contravariant Variance = "in"
)

// GenericArg is one type argument of a generic type.
// Variants: [TypedArg], [StarArg], [ErrorArg].
type GenericArg interface {
	genericArg()
}

// TypedArg is a resolved type argument.
type TypedArg struct {
	Type     Type
	Variance Variance
}

// StarArg is a star projection (`*`).
type StarArg struct{}

// ErrorArg marks a type argument that could not be resolved.
// Line lazily reads the offending source line for diagnostics.
type ErrorArg struct {
	Name string
	Line *Lazy[string]
}

func (TypedArg) genericArg() {}
func (StarArg) genericArg()  {}
func (ErrorArg) genericArg() {}

// Primitive classifies the built-in kinds that have a fixed route codec.
type Primitive int

const (
	NotPrimitive Primitive = iota
	PrimitiveString
	PrimitiveInt
	PrimitiveLong
	PrimitiveFloat
	PrimitiveBoolean
)

var primitives = map[string]Primitive{
	"kotlin.String":  PrimitiveString,
	"kotlin.Int":     PrimitiveInt,
	"kotlin.Long":    PrimitiveLong,
	"kotlin.Float":   PrimitiveFloat,
	"kotlin.Boolean": PrimitiveBoolean,
}

// PrimitiveOf returns the primitive kind of a qualified type name.
func PrimitiveOf(qualifiedName string) Primitive {
	return primitives[qualifiedName]
}

func (p Primitive) String() string {
	switch p {
	case PrimitiveString:
		return "String"
	case PrimitiveInt:
		return "Int"
	case PrimitiveLong:
		return "Long"
	case PrimitiveFloat:
		return "Float"
	case PrimitiveBoolean:
		return "Boolean"
	}
	return ""
}

// Type is the semantic descriptor of a parameter or field type.
type Type struct {
	Class    ClassType
	Nullable bool
	Args     []GenericArg

	IsEnum      bool
	EnumEntries []string

	// HasCustomSerializer is set when the serializer registry has an entry
	// for Class.
	HasCustomSerializer bool

	// Structured value capabilities declared by the type.
	Parcelable      bool
	Serializable    bool
	KtxSerializable bool

	// OptIns are the opt-in markers the type's own declaration requires.
	OptIns []ClassType
}

// Primitive returns the primitive kind of the type, if any.
func (t Type) Primitive() Primitive {
	return PrimitiveOf(t.Class.QualifiedName)
}

// IsComplex reports whether the type exposes a structured encoding.
func (t Type) IsComplex() bool {
	return t.Parcelable || t.Serializable || t.KtxSerializable
}

// RecursiveOptIns returns the opt-in markers required by the type and all of
// its typed generic arguments, deduplicated by identity in first-seen order.
func (t Type) RecursiveOptIns() []ClassType {
	var out []ClassType
	seen := make(map[string]bool)
	var walk func(Type)
	walk = func(t Type) {
		for _, m := range t.OptIns {
			if !seen[m.QualifiedName] {
				seen[m.QualifiedName] = true
				out = append(out, m)
			}
		}
		for _, a := range t.Args {
			if ta, ok := a.(TypedArg); ok {
				walk(ta.Type)
			}
		}
	}
	walk(t)
	return out
}

// FirstError returns the first unresolved type argument found depth-first.
func (t Type) FirstError() (ErrorArg, bool) {
	for _, a := range t.Args {
		switch a := a.(type) {
		case ErrorArg:
			return a, true
		case TypedArg:
			if e, ok := a.Type.FirstError(); ok {
				return e, true
			}
		}
	}
	return ErrorArg{}, false
}
