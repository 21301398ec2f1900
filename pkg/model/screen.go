package model

import (
	errs "github.com/matzehuels/navgen/pkg/errors"
)

// DefaultValue is the source expression of a parameter default together
// with the imports the expression needs.
type DefaultValue struct {
	Code    string
	Imports []string
}

// IsNull reports whether the default is the null literal.
func (d *DefaultValue) IsNull() bool { return d != nil && d.Code == "null" }

// Parameter is a declared parameter or delegate field.
type Parameter struct {
	Name       string
	Type       Type
	HasDefault bool

	// Default is evaluated on first use only. It is nil when HasDefault is false.
	Default *Lazy[*DefaultValue]
}

// IsMandatory reports whether callers must always supply the argument.
func (p Parameter) IsMandatory() bool {
	return !p.HasDefault && !p.Type.Nullable
}

// DeepLink is one deep-link entry of a destination annotation.
type DeepLink struct {
	Action     string `json:"action,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	URIPattern string `json:"uriPattern,omitempty"`
}

// FullRoutePlaceholder inside a deep-link URI pattern expands to the
// destination's full route. It may only appear as a suffix.
const FullRoutePlaceholder = "FULL_ROUTE_PLACEHOLDER"

// =============================================================================
// Destination style
// =============================================================================

// StyleKind names a [DestinationStyle] variant.
type StyleKind string

const (
	StyleDefault     StyleKind = "default"
	StyleBottomSheet StyleKind = "bottom-sheet"
	StyleDialog      StyleKind = "dialog"
	StyleAnimated    StyleKind = "animated"
	StyleRuntime     StyleKind = "runtime"
)

// DestinationStyle is the resolved presentation style of a destination.
type DestinationStyle interface {
	Kind() StyleKind
}

// DefaultStyle presents the destination as a regular screen.
type DefaultStyle struct{}

// BottomSheetStyle presents the destination in a modal bottom sheet.
type BottomSheetStyle struct{}

// DialogStyle presents the destination as a dialog configured by Type.
type DialogStyle struct {
	Type ClassType
}

// AnimatedStyle animates the destination's transitions using Type.
// OptIns are the markers the style type requires.
type AnimatedStyle struct {
	Type   ClassType
	OptIns []ClassType
}

// RuntimeStyle defers the style choice to application start.
type RuntimeStyle struct{}

func (DefaultStyle) Kind() StyleKind     { return StyleDefault }
func (BottomSheetStyle) Kind() StyleKind { return StyleBottomSheet }
func (DialogStyle) Kind() StyleKind      { return StyleDialog }
func (AnimatedStyle) Kind() StyleKind    { return StyleAnimated }
func (RuntimeStyle) Kind() StyleKind     { return StyleRuntime }

// =============================================================================
// Graph membership
// =============================================================================

// RootGraphRoute is the route of the implicit top-level graph.
const RootGraphRoute = "root"

// NavGraphInfo describes how a destination declares its graph membership.
type NavGraphInfo interface {
	IsStart() bool
}

// LegacyGraph membership comes from the destination annotation's own
// start and navGraph arguments.
type LegacyGraph struct {
	Start         bool
	NavGraphRoute string
}

// AnnotatedGraph membership comes from a nav-graph annotation type applied
// to the destination.
type AnnotatedGraph struct {
	Start     bool
	GraphType ClassType
}

func (g LegacyGraph) IsStart() bool    { return g.Start }
func (g AnnotatedGraph) IsStart() bool { return g.Start }

// GraphDecl is a nav-graph annotation type declared in the type universe.
type GraphDecl struct {
	Type  ClassType
	Route string

	// Parent is the enclosing graph annotation type; zero means the root graph.
	Parent ClassType

	// Start marks this graph as the start destination of its parent.
	Start bool
}

// =============================================================================
// Screens
// =============================================================================

// NavArgsDelegate is a class whose primary-constructor fields replace the
// destination's inline navigation arguments.
type NavArgsDelegate struct {
	Class    ClassType
	Fields   []Parameter
	Position errs.Position
}

// RawScreen is the per-declaration IR produced by the extractor.
type RawScreen struct {
	// Name is the generated destination name.
	Name           string
	ComposableName string
	QualifiedName  string
	RouteID        string

	Parameters []Parameter
	DeepLinks  []DeepLink

	// StyleType is the declared style reference; zero means the default style.
	StyleType ClassType

	NavGraph NavGraphInfo
	Delegate *NavArgsDelegate

	// OptIns are the opt-in markers declared directly on the declaration.
	OptIns []ClassType

	// Receiver is the rendering receiver type, if any.
	Receiver ClassType

	Position errs.Position

	// SourceIDs are the source files that contributed to this screen.
	SourceIDs []string
}

// Errorf creates a setup error attributed to the screen.
func (s *RawScreen) Errorf(code errs.Code, format string, args ...any) *errs.Error {
	return errs.New(code, format, args...).At(s.QualifiedName, s.Position)
}

// CodecKind selects the route codec strategy of an argument.
type CodecKind string

const (
	CodecPrimitive CodecKind = "primitive"
	CodecEnum      CodecKind = "enum"
	CodecCustom    CodecKind = "custom"
	CodecFallback  CodecKind = "fallback"
)

// Codec holds the rendered encode and decode expressions of one argument.
// Decode expressions evaluate to a nullable value.
type Codec struct {
	Kind CodecKind

	// NavType is the runtime nav type used in the argument declaration.
	NavType ClassType

	// Serialize renders the argument value into its route segment.
	Serialize string

	// DecodeEntry and DecodeSaved read the argument back from a back-stack
	// entry and from a saved-state handle respectively.
	DecodeEntry string
	DecodeSaved string

	Imports []string
}

// CustomNavType is the registry entry of a structured argument type.
type CustomNavType struct {
	// Name is the generated nav type value name.
	Name string

	// Serializer is the user-registered serializer, zero if none.
	Serializer ClassType
}

// OptIn is a gathered opt-in marker. OptedIn markers are re-declared with an
// opt-in annotation; the others are propagated as requirements to callers.
type OptIn struct {
	Marker  ClassType
	OptedIn bool
}

// ResolvedScreen is a RawScreen plus everything derived from it.
type ResolvedScreen struct {
	*RawScreen

	NavArgs []Parameter
	Route   string
	Codecs  []Codec

	// DeepLinks have their full-route placeholders expanded.
	DeepLinks []DeepLink

	Style  DestinationStyle
	OptIns []OptIn
}

// RequiredOptIns returns the markers callers of the destination must opt into.
func (s *ResolvedScreen) RequiredOptIns() []ClassType {
	var out []ClassType
	for _, o := range s.OptIns {
		if !o.OptedIn {
			out = append(out, o.Marker)
		}
	}
	return out
}

// HasMandatoryArgs reports whether any navigation argument is mandatory.
func (s *ResolvedScreen) HasMandatoryArgs() bool {
	for _, a := range s.NavArgs {
		if a.IsMandatory() {
			return true
		}
	}
	return false
}
