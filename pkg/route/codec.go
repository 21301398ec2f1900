package route

import (
	"fmt"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/model"
)

// PrimitivesPackage holds the runtime's built-in nav types.
const PrimitivesPackage = "com.ramcosta.composedestinations.navargs.primitives"

// PrimitiveNavType returns the runtime nav type of a primitive kind.
func PrimitiveNavType(p model.Primitive) model.ClassType {
	return model.ClassTypeOf(PrimitivesPackage + ".Destinations" + p.String() + "NavType")
}

// StringNavType is the nav type used for strings and enums.
var StringNavType = PrimitiveNavType(model.PrimitiveString)

// Codec selects the codec of one navigation argument and renders its
// encode and decode expressions. Primitives and enums take precedence over
// parcelable or serializable markers.
func (b *Builder) Codec(s *model.RawScreen, a model.Parameter) (model.Codec, error) {
	t := a.Type
	switch {
	case t.Primitive() != model.NotPrimitive:
		navType := PrimitiveNavType(t.Primitive())
		serialize := fmt.Sprintf("%s.serializeValue(%s)", navType.SimpleName, a.Name)
		if t.Primitive() == model.PrimitiveString {
			serialize = fmt.Sprintf("%s.serializeValue(%q, %s)", navType.SimpleName, a.Name, a.Name)
		}
		return model.Codec{
			Kind:        model.CodecPrimitive,
			NavType:     navType,
			Serialize:   serialize,
			DecodeEntry: decode(navType.SimpleName, "navBackStackEntry", a),
			DecodeSaved: decode(navType.SimpleName, "savedStateHandle", a),
			Imports:     []string{navType.QualifiedName},
		}, nil

	case t.IsEnum:
		entry := fmt.Sprintf("%s.get(navBackStackEntry, %q)?.let { %s.valueOf(it) }", StringNavType.SimpleName, a.Name, t.Class.SimpleName)
		saved := fmt.Sprintf("%s.get(savedStateHandle, %q)?.let { %s.valueOf(it) }", StringNavType.SimpleName, a.Name, t.Class.SimpleName)
		return model.Codec{
			Kind:        model.CodecEnum,
			NavType:     StringNavType,
			Serialize:   stringify(a),
			DecodeEntry: entry,
			DecodeSaved: saved,
			Imports:     []string{StringNavType.QualifiedName, t.Class.QualifiedName},
		}, nil

	case t.IsComplex() || t.HasCustomSerializer:
		nt, ok := b.registry.Lookup(t.Class)
		if !ok {
			return model.Codec{}, s.Errorf(errs.ErrCodeUnknownNavType,
				"argument %q: no nav type registered for %s", a.Name, t.Class.QualifiedName)
		}
		navType := model.ClassTypeOf(b.navTypePackage + "." + nt.Name)
		return model.Codec{
			Kind:        model.CodecCustom,
			NavType:     navType,
			Serialize:   fmt.Sprintf("%s.serializeValue(%s)", nt.Name, a.Name),
			DecodeEntry: decode(nt.Name, "navBackStackEntry", a),
			DecodeSaved: decode(nt.Name, "savedStateHandle", a),
			Imports:     []string{navType.QualifiedName},
		}, nil
	}

	// No runtime nav type exists; declaring the argument fails at emission.
	return model.Codec{
		Kind:      model.CodecFallback,
		Serialize: stringify(a),
	}, nil
}

// decode reads an argument through a nav type. The result is nullable;
// callers supply the default or the mandatory-argument failure.
func decode(navType, source string, a model.Parameter) string {
	return fmt.Sprintf("%s.get(%s, %q)", navType, source, a.Name)
}

// stringify is the generic string conversion, with the {name} placeholder
// standing in for null values.
func stringify(a model.Parameter) string {
	if a.Type.Nullable {
		return fmt.Sprintf("%s?.toString() ?: \"{%s}\"", a.Name, a.Name)
	}
	return a.Name + ".toString()"
}
