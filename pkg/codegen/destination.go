package codegen

import (
	"errors"
	"strings"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/model"
)

// Runtime types referenced by generated destinations.
const (
	specPackage = "com.ramcosta.composedestinations.spec"

	direction            = specPackage + ".Direction"
	directionDestination = specPackage + ".DirectionDestination"
	typedDestination     = specPackage + ".TypedDestination"
	destinationStyle     = specPackage + ".DestinationStyle"
	navGraph             = specPackage + ".NavGraph"

	navArgument       = "androidx.navigation.navArgument"
	navDeepLink       = "androidx.navigation.navDeepLink"
	navBackStackEntry = "androidx.navigation.NavBackStackEntry"
	savedStateHandle  = "androidx.lifecycle.SavedStateHandle"
)

// DestinationsPackage returns the package of generated destinations.
func DestinationsPackage(basePackage string) string {
	return basePackage + ".destinations"
}

// destinationWriter builds the file of one destination.
type destinationWriter struct {
	s       *model.ResolvedScreen
	imports importSet
}

// Destination builds the syntax tree of a resolved screen's artifact.
func (e *Emitter) Destination(s *model.ResolvedScreen) (*File, error) {
	w := &destinationWriter{s: s}
	obj, err := w.object()
	if err != nil {
		return nil, w.attribute(err)
	}
	return &File{
		Package: DestinationsPackage(e.BasePackage),
		Imports: w.imports,
		Decls:   []Decl{obj},
	}, nil
}

func (w *destinationWriter) attribute(err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		e.At(w.s.QualifiedName, w.s.Position)
		return err
	}
	return errs.Wrap(errs.ErrCodeEmitFailed, err, "emit %s", w.s.Name).At(w.s.QualifiedName, w.s.Position)
}

// argsType is the type carrying the navigation arguments.
func (w *destinationWriter) argsType() string {
	if w.s.Delegate != nil {
		w.imports.add(w.s.Delegate.Class.QualifiedName)
		return w.s.Delegate.Class.SimpleName
	}
	return "NavArgs"
}

func (w *destinationWriter) object() (Object, error) {
	obj := Object{
		Name:        w.s.Name,
		Annotations: w.optInAnnotations(),
	}

	if len(w.s.NavArgs) == 0 {
		w.imports.add(directionDestination)
		obj.Supertypes = []string{"DirectionDestination"}
		obj.Members = append(obj.Members, Fun{
			Modifiers: []string{"operator"},
			Name:      "invoke",
			Expr:      Code("this"),
		})
	} else {
		w.imports.add(typedDestination, direction)
		argsType := w.argsType()
		if w.s.Delegate == nil {
			argsType = w.s.Name + ".NavArgs"
		}
		obj.Supertypes = []string{"TypedDestination<" + argsType + ">"}

		invoke, err := w.invokeFunctions()
		if err != nil {
			return obj, err
		}
		obj.Members = append(obj.Members, invoke...)
	}

	obj.Members = append(obj.Members,
		Property{Modifiers: []string{"override"}, Name: "routeId", Init: Str(w.s.RouteID)},
		Property{Modifiers: []string{"override"}, Name: "route", Init: w.routePattern()},
	)

	if len(w.s.NavArgs) > 0 {
		args, err := w.arguments()
		if err != nil {
			return obj, err
		}
		obj.Members = append(obj.Members, args)
	}
	if len(w.s.DeepLinks) > 0 {
		obj.Members = append(obj.Members, w.deepLinks())
	}
	obj.Members = append(obj.Members, w.style()...)

	if len(w.s.NavArgs) > 0 {
		argsFrom, err := w.argsFromFunctions()
		if err != nil {
			return obj, err
		}
		obj.Members = append(obj.Members, argsFrom...)

		if w.s.Delegate == nil {
			params, err := w.params(true)
			if err != nil {
				return obj, err
			}
			obj.Members = append(obj.Members, DataClass{Name: "NavArgs", Params: params})
		}
	}
	return obj, nil
}

func (w *destinationWriter) optInAnnotations() []string {
	var required, optedIn []string
	for _, o := range w.s.OptIns {
		w.imports.add(o.Marker.QualifiedName)
		if o.OptedIn {
			optedIn = append(optedIn, o.Marker.SimpleName+"::class")
		} else {
			required = append(required, o.Marker.SimpleName)
		}
	}
	if len(optedIn) > 0 {
		required = append(required, "OptIn("+strings.Join(optedIn, ", ")+")")
	}
	return required
}

// =============================================================================
// Route construction
// =============================================================================

func (w *destinationWriter) routePattern() Expr {
	if len(w.s.NavArgs) == 0 {
		return Code("routeId")
	}
	rest := strings.TrimPrefix(w.s.Route, w.s.RouteID)
	return Template{{Ref: "routeId"}, {Text: rest}}
}

func (w *destinationWriter) invokeFunctions() ([]Decl, error) {
	names := make([]string, len(w.s.NavArgs))
	for i, a := range w.s.NavArgs {
		names[i] = a.Name
	}
	withArgs := Fun{
		Modifiers: []string{"override"},
		Name:      "invoke",
		Params:    []Param{{Name: "navArgs", Type: w.argsType()}},
		Returns:   "Direction",
		Expr: Call{
			Fun:    "with",
			Args:   Args(Code("navArgs")),
			Lambda: []Stmt{ExprStmt{Code("invoke(" + strings.Join(names, ", ") + ")")}},
		},
	}

	params, err := w.params(false)
	if err != nil {
		return nil, err
	}
	direct := Fun{
		Modifiers: []string{"operator"},
		Name:      "invoke",
		Params:    params,
		Returns:   "Direction",
		Body: []Stmt{Return{ObjectExpr{
			Supertype: "Direction",
			Members: []Decl{Property{
				Modifiers: []string{"override"},
				Name:      "route",
				Init:      w.concreteRoute(),
			}},
		}}},
	}
	return []Decl{withArgs, direct}, nil
}

// concreteRoute splits the route into the route id, one piece per path
// segment and one piece per query parameter, substituting serialized values.
func (w *destinationWriter) concreteRoute() Expr {
	route := Concat{Template{{Ref: "routeId"}}}
	var query Concat
	for i, a := range w.s.NavArgs {
		value := Part{Expr: Code(w.s.Codecs[i].Serialize)}
		if a.IsMandatory() {
			route = append(route, Template{{Text: "/"}, value})
		} else {
			query = append(query, Template{{Text: "?" + a.Name + "="}, value})
		}
	}
	return append(route, query...)
}

func (w *destinationWriter) defaultOf(a model.Parameter) (*model.DefaultValue, error) {
	if !a.HasDefault {
		return nil, nil
	}
	d, err := a.Default.Get()
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, errs.New(errs.ErrCodeUnresolvedDefault, "default value of %q could not be resolved", a.Name)
	}
	w.imports.add(d.Imports...)
	return d, nil
}

// params renders the navigation arguments as parameters with their
// defaults; nullable arguments without a default default to null.
func (w *destinationWriter) params(val bool) ([]Param, error) {
	out := make([]Param, len(w.s.NavArgs))
	for i, a := range w.s.NavArgs {
		typ, err := typeCode(a.Type, &w.imports)
		if err != nil {
			return nil, err
		}
		p := Param{Val: val, Name: a.Name, Type: typ}
		d, err := w.defaultOf(a)
		switch {
		case err != nil:
			return nil, err
		case d != nil:
			p.Default = Code(d.Code)
		case a.Type.Nullable:
			p.Default = Code("null")
		}
		out[i] = p
	}
	return out, nil
}

// =============================================================================
// Arguments, deep links and style
// =============================================================================

func (w *destinationWriter) arguments() (Decl, error) {
	w.imports.add(navArgument)
	items := make([]Arg, len(w.s.NavArgs))
	for i, a := range w.s.NavArgs {
		c := w.s.Codecs[i]
		if c.NavType.IsZero() {
			return nil, errs.New(errs.ErrCodeUnknownNavType, "unknown type %s for argument %q", a.Type.Class.QualifiedName, a.Name)
		}
		w.imports.add(c.Imports...)

		body := []Stmt{Assign{"type", Code(c.NavType.SimpleName)}}
		if a.Type.Nullable {
			body = append(body, Assign{"nullable", Code("true")})
		}
		d, err := w.defaultOf(a)
		if err != nil {
			return nil, err
		}
		if d != nil {
			switch {
			case d.IsNull():
				body = append(body, Assign{"defaultValue", Code("null")})
			case a.Type.IsEnum:
				body = append(body, Assign{"defaultValue", Code(d.Code + ".toString()")})
			default:
				body = append(body, Assign{"defaultValue", Code(d.Code)})
			}
		}
		items[i] = Arg{Value: Call{Fun: "navArgument", Args: Args(Str(a.Name)), Lambda: body}}
	}
	return Property{
		Modifiers: []string{"override"},
		Name:      "arguments",
		Getter:    Call{Fun: "listOf", Args: items, Multiline: true},
	}, nil
}

func (w *destinationWriter) deepLinks() Decl {
	w.imports.add(navDeepLink)
	items := make([]Arg, len(w.s.DeepLinks))
	for i, l := range w.s.DeepLinks {
		body := []Stmt{}
		if l.Action != "" {
			body = append(body, Assign{"action", Str(l.Action)})
		}
		if l.MimeType != "" {
			body = append(body, Assign{"mimeType", Str(l.MimeType)})
		}
		if l.URIPattern != "" {
			body = append(body, Assign{"uriPattern", Str(l.URIPattern)})
		}
		items[i] = Arg{Value: Call{Fun: "navDeepLink", Lambda: body}}
	}
	return Property{
		Modifiers: []string{"override"},
		Name:      "deepLinks",
		Getter:    Call{Fun: "listOf", Args: items, Multiline: true},
	}
}

func (w *destinationWriter) style() []Decl {
	override := func(value string) []Decl {
		return []Decl{Property{Modifiers: []string{"override"}, Name: "style", Init: Code(value)}}
	}

	switch st := w.s.Style.(type) {
	case model.BottomSheetStyle:
		w.imports.add(destinationStyle)
		return override("DestinationStyle.BottomSheet")
	case model.DialogStyle:
		w.imports.add(st.Type.QualifiedName)
		return override(st.Type.SimpleName)
	case model.AnimatedStyle:
		w.imports.add(st.Type.QualifiedName)
		return override(st.Type.SimpleName)
	case model.RuntimeStyle:
		w.imports.add(destinationStyle)
		return []Decl{
			Property{
				Modifiers: []string{"private"},
				Var:       true,
				Name:      "_style",
				Type:      "DestinationStyle?",
				Init:      Code("null"),
			},
			Property{
				Modifiers: []string{"override"},
				Var:       true,
				Name:      "style",
				Type:      "DestinationStyle",
				Set: []Stmt{
					If{
						Cond: Code("value is DestinationStyle.Runtime"),
						Then: []Stmt{ExprStmt{Call{Fun: "error", Args: Args(
							Str("DestinationStyle.Runtime can only be used in the destination annotation's style parameter"),
						)}}},
					},
					Assign{"_style", Code("value")},
				},
				Get: []Stmt{Return{Elvis{
					Left: Code("_style"),
					Right: Call{Fun: "error", Args: Args(
						Str("Destinations with DestinationStyle.Runtime need their style set before the nav host is composed"),
					)},
				}}},
			},
		}
	}
	return nil
}

// =============================================================================
// Argument extraction
// =============================================================================

func (w *destinationWriter) argsFromFunctions() ([]Decl, error) {
	w.imports.add(navBackStackEntry, savedStateHandle)
	argsType := w.argsType()

	build := func(source, sourceType string, decode func(model.Codec) string) (Decl, error) {
		args := make([]Arg, len(w.s.NavArgs))
		for i, a := range w.s.NavArgs {
			value, err := w.orElse(a, Code(decode(w.s.Codecs[i])))
			if err != nil {
				return nil, err
			}
			args[i] = Arg{Name: a.Name, Value: value}
		}
		return Fun{
			Modifiers: []string{"override"},
			Name:      "argsFrom",
			Params:    []Param{{Name: source, Type: sourceType}},
			Returns:   argsType,
			Body:      []Stmt{Return{Call{Fun: argsType, Args: args, Multiline: true}}},
		}, nil
	}

	entry, err := build("navBackStackEntry", "NavBackStackEntry", func(c model.Codec) string { return c.DecodeEntry })
	if err != nil {
		return nil, err
	}
	saved, err := build("savedStateHandle", "SavedStateHandle", func(c model.Codec) string { return c.DecodeSaved })
	if err != nil {
		return nil, err
	}
	return []Decl{entry, saved}, nil
}

// orElse completes a nullable decode for arguments that cannot be null.
func (w *destinationWriter) orElse(a model.Parameter, decoded Expr) (Expr, error) {
	if a.Type.Nullable {
		return decoded, nil
	}
	d, err := w.defaultOf(a)
	if err != nil {
		return nil, err
	}
	if d != nil {
		return Elvis{decoded, Code(d.Code)}, nil
	}
	return Elvis{decoded, Code(`throw RuntimeException("'` + a.Name + `' argument is mandatory, but was not present!")`)}, nil
}
