package types

import (
	"bufio"
	"fmt"
	"os"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/feed"
	"github.com/matzehuels/navgen/pkg/model"
)

// LineReader returns the source line at pos, used for diagnostics only.
type LineReader func(pos errs.Position) (string, error)

// Resolver turns feed type references into semantic types.
// It only reads the universe and registry, so one Resolver serves all
// screens of a run concurrently.
type Resolver struct {
	universe *Universe
	registry *Registry
	readLine LineReader
}

// NewResolver creates a resolver. A nil readLine reads lines from disk.
func NewResolver(u *Universe, reg *Registry, readLine LineReader) *Resolver {
	if readLine == nil {
		readLine = ReadSourceLine
	}
	return &Resolver{universe: u, registry: reg, readLine: readLine}
}

// Universe returns the universe the resolver reads.
func (r *Resolver) Universe() *Universe { return r.universe }

// Registry returns the serializer registry the resolver reads.
func (r *Resolver) Registry() *Registry { return r.registry }

// Resolve converts a type reference into a Type, following aliases
// transitively. Only the top-level type must resolve: unresolvable type
// arguments are kept as [model.ErrorArg] markers.
func (r *Resolver) Resolve(ref feed.TypeRef) (model.Type, error) {
	return r.resolve(ref, nil)
}

func (r *Resolver) resolve(ref feed.TypeRef, aliases []string) (model.Type, error) {
	decl, ok := r.universe.Lookup(ref.Name)
	if !ok {
		return model.Type{}, errs.New(errs.ErrCodeUnresolvedType, "type %q is not part of the type universe", ref.Name)
	}

	if decl.Kind == feed.KindAlias {
		for _, seen := range aliases {
			if seen == decl.QualifiedName {
				return model.Type{}, errs.New(errs.ErrCodeUnresolvedType, "type alias cycle through %s", decl.QualifiedName)
			}
		}
		target := *decl.Target
		target.Nullable = target.Nullable || ref.Nullable
		if len(target.Args) == 0 {
			target.Args = ref.Args
		}
		return r.resolve(target, append(aliases, decl.QualifiedName))
	}

	class := model.ClassTypeOf(decl.QualifiedName)
	t := model.Type{
		Class:               class,
		Nullable:            ref.Nullable,
		IsEnum:              decl.Kind == feed.KindEnum,
		EnumEntries:         decl.Entries,
		HasCustomSerializer: r.registry.HasSerializer(class),
		Parcelable:          decl.Parcelable || (decl.QualifiedName != Parcelable && r.universe.IsAssignable(decl.QualifiedName, Parcelable)),
		Serializable:        decl.Serializable || (decl.QualifiedName != Serializable && r.universe.IsAssignable(decl.QualifiedName, Serializable)),
		KtxSerializable:     decl.KtxSerializable,
		OptIns:              classTypes(decl.OptIns),
	}
	// Primitives are serializable on the JVM but have their own codec.
	if t.Primitive() != model.NotPrimitive {
		t.Parcelable, t.Serializable = false, false
	}

	for _, a := range ref.Args {
		t.Args = append(t.Args, r.resolveArg(a, aliases))
	}
	return t, nil
}

func (r *Resolver) resolveArg(a feed.TypeArg, aliases []string) model.GenericArg {
	switch {
	case a.Star:
		return model.StarArg{}
	case a.Error != "":
		return model.ErrorArg{Name: a.Error, Line: r.lazyLine(a.Source)}
	case a.Type == nil:
		return model.ErrorArg{Name: "<missing>", Line: r.lazyLine(a.Source)}
	}

	t, err := r.resolve(*a.Type, aliases)
	if err != nil {
		return model.ErrorArg{Name: a.Type.Name, Line: r.lazyLine(a.Source)}
	}
	return model.TypedArg{Type: t, Variance: model.Variance(a.Variance)}
}

func (r *Resolver) lazyLine(pos *errs.Position) *model.Lazy[string] {
	if pos == nil {
		return model.Eager("")
	}
	p := *pos
	return model.NewLazy(func() (string, error) { return r.readLine(p) })
}

// Parameter resolves a declared parameter. The default expression stays
// unevaluated until first use; an unresolvable default only fails then.
func (r *Resolver) Parameter(p feed.ParamDecl) (model.Parameter, error) {
	if err := errs.ValidateIdentifier("parameter", p.Name); err != nil {
		return model.Parameter{}, err
	}
	t, err := r.Resolve(p.Type)
	if err != nil {
		return model.Parameter{}, fmt.Errorf("parameter %s: %w", p.Name, err)
	}

	param := model.Parameter{Name: p.Name, Type: t, HasDefault: p.HasDefault}
	if p.HasDefault {
		decl, name := p.Default, p.Name
		param.Default = model.NewLazy(func() (*model.DefaultValue, error) {
			if decl == nil || decl.Code == "" {
				return nil, errs.New(errs.ErrCodeUnresolvedDefault, "default value of %q could not be resolved", name)
			}
			return &model.DefaultValue{Code: decl.Code, Imports: decl.Imports}, nil
		})
	}
	return param, nil
}

// Parameters resolves a parameter list in order.
func (r *Resolver) Parameters(ps []feed.ParamDecl) ([]model.Parameter, error) {
	out := make([]model.Parameter, 0, len(ps))
	for _, p := range ps {
		param, err := r.Parameter(p)
		if err != nil {
			return nil, err
		}
		out = append(out, param)
	}
	return out, nil
}

// Delegate resolves a nav-args delegate class and its constructor fields.
func (r *Resolver) Delegate(qualifiedName string) (*model.NavArgsDelegate, error) {
	decl, ok := r.universe.Lookup(qualifiedName)
	if !ok {
		return nil, errs.New(errs.ErrCodeUnresolvedType, "nav args delegate %q is not part of the type universe", qualifiedName)
	}
	if decl.Kind != feed.KindClass && decl.Kind != "" {
		return nil, errs.New(errs.ErrCodeDelegateConflict, "nav args delegate %s must be a class with a primary constructor", qualifiedName)
	}

	fields, err := r.Parameters(decl.Fields)
	if err != nil {
		return nil, fmt.Errorf("nav args delegate %s: %w", qualifiedName, err)
	}

	d := &model.NavArgsDelegate{Class: model.ClassTypeOf(qualifiedName), Fields: fields}
	if decl.Source != nil {
		d.Position = *decl.Source
	}
	return d, nil
}

// ReadSourceLine reads one line (1-based) from a source file.
func ReadSourceLine(pos errs.Position) (string, error) {
	if pos.File == "" || pos.Line <= 0 {
		return "", nil
	}
	f, err := os.Open(pos.File)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		if n == pos.Line {
			return sc.Text(), nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%s has fewer than %d lines", pos.File, pos.Line)
}
