package feed

import (
	errs "github.com/matzehuels/navgen/pkg/errors"
)

// AutoRoute is the route value that asks for a route id derived from the
// declaration name. An empty route means the same.
const AutoRoute = "@auto@"

// Type kinds of a [TypeDecl].
const (
	KindClass      = "class"
	KindEnum       = "enum"
	KindAlias      = "alias"
	KindObject     = "object"
	KindInterface  = "interface"
	KindAnnotation = "annotation"
)

// Feed is one decoded declaration feed: the closed type universe, the
// serializer registry and the annotated declarations.
type Feed struct {
	Types        []TypeDecl    `json:"types,omitempty" toml:"types"`
	Serializers  []Serializer  `json:"serializers,omitempty" toml:"serializers"`
	Declarations []Declaration `json:"declarations" toml:"declarations"`
}

// TypeDecl declares one type of the universe.
type TypeDecl struct {
	QualifiedName string `json:"qualifiedName" toml:"qualified_name"`
	Kind          string `json:"kind,omitempty" toml:"kind"`

	// Target is the aliased type of an alias.
	Target *TypeRef `json:"target,omitempty" toml:"target"`

	// Entries are the constants of an enum.
	Entries []string `json:"entries,omitempty" toml:"entries"`

	Parcelable      bool `json:"parcelable,omitempty" toml:"parcelable"`
	Serializable    bool `json:"serializable,omitempty" toml:"serializable"`
	KtxSerializable bool `json:"ktxSerializable,omitempty" toml:"ktx_serializable"`

	Supertypes []string `json:"supertypes,omitempty" toml:"supertypes"`
	OptIns     []string `json:"optIns,omitempty" toml:"opt_ins"`

	// Fields are the primary-constructor parameters of a class, used when
	// the class serves as a nav-args delegate.
	Fields []ParamDecl `json:"fields,omitempty" toml:"fields"`

	// NavGraph is set on annotation types that declare a navigation graph.
	NavGraph *NavGraphDecl `json:"navGraph,omitempty" toml:"nav_graph"`

	Source *errs.Position `json:"source,omitempty" toml:"source"`
}

// NavGraphDecl describes a nav-graph annotation type.
type NavGraphDecl struct {
	Route string `json:"route" toml:"route"`

	// Parent is the qualified name of the enclosing graph annotation type.
	// Empty means the root graph.
	Parent string `json:"parent,omitempty" toml:"parent"`

	// Start marks the graph as its parent's start destination.
	Start bool `json:"start,omitempty" toml:"start"`
}

// Serializer registers a custom serializer for a structured type.
type Serializer struct {
	Type       string `json:"type" toml:"type"`
	Serializer string `json:"serializer" toml:"serializer"`

	// Name overrides the generated nav type name.
	Name string `json:"name,omitempty" toml:"name"`
}

// Declaration is one annotated screen declaration.
type Declaration struct {
	Name          string        `json:"name" toml:"name"`
	QualifiedName string        `json:"qualifiedName" toml:"qualified_name"`
	Source        errs.Position `json:"source" toml:"source"`

	// Receiver is the qualified name of the rendering receiver, if any.
	Receiver string `json:"receiver,omitempty" toml:"receiver"`

	Parameters  []ParamDecl     `json:"parameters,omitempty" toml:"parameters"`
	Destination Destination     `json:"destination" toml:"destination"`
	Annotations []AnnotationRef `json:"annotations,omitempty" toml:"annotations"`
	OptIns      []string        `json:"optIns,omitempty" toml:"opt_ins"`
}

// Destination holds the resolved arguments of the destination annotation.
type Destination struct {
	Route string `json:"route,omitempty" toml:"route"`

	// Start and NavGraph are the legacy graph-membership arguments.
	Start    *bool   `json:"start,omitempty" toml:"start"`
	NavGraph *string `json:"navGraph,omitempty" toml:"nav_graph"`

	Style           string         `json:"style,omitempty" toml:"style"`
	NavArgsDelegate string         `json:"navArgsDelegate,omitempty" toml:"nav_args_delegate"`
	DeepLinks       []DeepLinkDecl `json:"deepLinks,omitempty" toml:"deep_links"`
}

// AnnotationRef is a further annotation applied to the declaration.
type AnnotationRef struct {
	Type  string `json:"type" toml:"type"`
	Start bool   `json:"start,omitempty" toml:"start"`
}

// DeepLinkDecl is one deep-link entry.
type DeepLinkDecl struct {
	Action     string `json:"action,omitempty" toml:"action"`
	MimeType   string `json:"mimeType,omitempty" toml:"mime_type"`
	URIPattern string `json:"uriPattern,omitempty" toml:"uri_pattern"`
}

// ParamDecl is a declared parameter or field.
type ParamDecl struct {
	Name       string  `json:"name" toml:"name"`
	Type       TypeRef `json:"type" toml:"type"`
	HasDefault bool    `json:"hasDefault,omitempty" toml:"has_default"`

	// Default is the default expression; nil with HasDefault set means the
	// expression could not be resolved by the front-end.
	Default *DefaultDecl `json:"default,omitempty" toml:"default"`
}

// DefaultDecl is a default-value expression.
type DefaultDecl struct {
	Code    string   `json:"code" toml:"code"`
	Imports []string `json:"imports,omitempty" toml:"imports"`
}

// TypeRef is a language-level type reference.
type TypeRef struct {
	Name     string    `json:"name" toml:"name"`
	Nullable bool      `json:"nullable,omitempty" toml:"nullable"`
	Args     []TypeArg `json:"args,omitempty" toml:"args"`
}

// TypeArg is a type argument: a star projection, a type or an unresolved name.
type TypeArg struct {
	Star     bool     `json:"star,omitempty" toml:"star"`
	Type     *TypeRef `json:"type,omitempty" toml:"type"`
	Variance string   `json:"variance,omitempty" toml:"variance"`

	// Error is the unresolved name written in source; Source points at it.
	Error  string         `json:"error,omitempty" toml:"error"`
	Source *errs.Position `json:"source,omitempty" toml:"source"`
}
