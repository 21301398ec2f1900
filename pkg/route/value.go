package route

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/model"
)

// Reserved encodings shared with the runtime nav types.
const (
	EncodedNull        = "%@null@"
	EncodedEmptyString = "%02%03"
)

// ValueCodec encodes and decodes concrete argument values into route
// segments, mirroring what the generated code does at runtime.
//
// Values are Go values by kind: string for strings and enums, int32 for Int,
// int64 for Long, float32 for Float, bool for Boolean, and any JSON value for
// structured types. nil is the null value.
type ValueCodec struct {
	Name      string
	Kind      model.CodecKind
	Primitive model.Primitive
	Nullable  bool
	Entries   []string
}

// NewValueCodec creates the value codec of a navigation argument.
func NewValueCodec(a model.Parameter, c model.Codec) ValueCodec {
	return ValueCodec{
		Name:      a.Name,
		Kind:      c.Kind,
		Primitive: a.Type.Primitive(),
		Nullable:  a.Type.Nullable,
		Entries:   a.Type.EnumEntries,
	}
}

func (c ValueCodec) placeholder() string { return "{" + c.Name + "}" }

// Encode renders v as a route segment.
func (c ValueCodec) Encode(v any) (string, error) {
	if v == nil {
		if !c.Nullable {
			return "", c.errorf("null value for non-nullable argument")
		}
		if c.Kind == model.CodecFallback || c.Kind == model.CodecEnum {
			return c.placeholder(), nil
		}
		return EncodedNull, nil
	}

	switch c.Kind {
	case model.CodecPrimitive:
		return c.encodePrimitive(v)
	case model.CodecEnum:
		s, ok := v.(string)
		if !ok || !slices.Contains(c.Entries, s) {
			return "", c.errorf("%v is not one of %v", v, c.Entries)
		}
		return s, nil
	case model.CodecCustom:
		b, err := json.Marshal(v)
		if err != nil {
			return "", errs.Wrap(errs.ErrCodeInvalidRouteArguments, err, "argument %q: encode", c.Name)
		}
		return base64.RawURLEncoding.EncodeToString(b), nil
	}
	return url.PathEscape(fmt.Sprint(v)), nil
}

func (c ValueCodec) encodePrimitive(v any) (string, error) {
	switch c.Primitive {
	case model.PrimitiveString:
		s, ok := v.(string)
		if !ok {
			break
		}
		if s == "" {
			return EncodedEmptyString, nil
		}
		return url.PathEscape(s), nil
	case model.PrimitiveInt:
		if n, ok := v.(int32); ok {
			return strconv.FormatInt(int64(n), 10), nil
		}
	case model.PrimitiveLong:
		if n, ok := v.(int64); ok {
			return strconv.FormatInt(n, 10), nil
		}
	case model.PrimitiveFloat:
		if f, ok := v.(float32); ok {
			return strconv.FormatFloat(float64(f), 'g', -1, 32), nil
		}
	case model.PrimitiveBoolean:
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b), nil
		}
	}
	return "", c.errorf("%T is not a %s value", v, c.Primitive)
}

// Decode parses a route segment produced by Encode.
func (c ValueCodec) Decode(seg string) (any, error) {
	if c.Nullable && (seg == EncodedNull || seg == c.placeholder()) {
		return nil, nil
	}

	switch c.Kind {
	case model.CodecPrimitive:
		return c.decodePrimitive(seg)
	case model.CodecEnum:
		if !slices.Contains(c.Entries, seg) {
			return nil, c.errorf("%q is not one of %v", seg, c.Entries)
		}
		return seg, nil
	case model.CodecCustom:
		b, err := base64.RawURLEncoding.DecodeString(seg)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidRouteArguments, err, "argument %q: decode", c.Name)
		}
		var v any
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidRouteArguments, err, "argument %q: decode", c.Name)
		}
		return v, nil
	}
	return url.PathUnescape(seg)
}

func (c ValueCodec) decodePrimitive(seg string) (any, error) {
	var (
		v   any
		err error
	)
	switch c.Primitive {
	case model.PrimitiveString:
		if seg == EncodedEmptyString {
			return "", nil
		}
		return url.PathUnescape(seg)
	case model.PrimitiveInt:
		var n int64
		n, err = strconv.ParseInt(seg, 10, 32)
		v = int32(n)
	case model.PrimitiveLong:
		v, err = strconv.ParseInt(seg, 10, 64)
	case model.PrimitiveFloat:
		var f float64
		f, err = strconv.ParseFloat(seg, 32)
		v = float32(f)
	case model.PrimitiveBoolean:
		v, err = strconv.ParseBool(seg)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidRouteArguments, err, "argument %q", c.Name)
	}
	return v, nil
}

// Parse converts user-supplied text into a value of the argument's kind.
// "null" is the null value for nullable arguments; structured values are JSON.
func (c ValueCodec) Parse(text string) (any, error) {
	if c.Nullable && text == "null" {
		return nil, nil
	}
	switch c.Kind {
	case model.CodecCustom:
		var v any
		if err := json.Unmarshal([]byte(text), &v); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidRouteArguments, err, "argument %q: invalid JSON", c.Name)
		}
		return v, nil
	case model.CodecPrimitive:
		if c.Primitive == model.PrimitiveString {
			return text, nil
		}
		return c.decodePrimitive(text)
	}
	return c.Decode(text)
}

func (c ValueCodec) errorf(format string, args ...any) *errs.Error {
	return errs.New(errs.ErrCodeInvalidRouteArguments, "argument %q: %s", c.Name, fmt.Sprintf(format, args...))
}

// =============================================================================
// Concrete routes
// =============================================================================

// Codecs returns the value codecs of a resolved screen's navigation arguments.
func Codecs(s *model.ResolvedScreen) []ValueCodec {
	out := make([]ValueCodec, len(s.NavArgs))
	for i, a := range s.NavArgs {
		out[i] = NewValueCodec(a, s.Codecs[i])
	}
	return out
}

// Build renders a concrete route from argument values. Optional arguments
// without a value are left out so the destination's defaults apply.
func Build(s *model.ResolvedScreen, values map[string]any) (string, error) {
	for name := range values {
		if !slices.ContainsFunc(s.NavArgs, func(p model.Parameter) bool { return p.Name == name }) {
			return "", errs.New(errs.ErrCodeInvalidRouteArguments, "%s has no argument %q", s.Name, name)
		}
	}

	var path, query strings.Builder
	path.WriteString(s.RouteID)
	for i, c := range Codecs(s) {
		a := s.NavArgs[i]
		v, ok := values[a.Name]
		if !ok {
			if a.IsMandatory() {
				return "", errs.New(errs.ErrCodeInvalidRouteArguments, "%s: missing mandatory argument %q", s.Name, a.Name)
			}
			continue
		}
		seg, err := c.Encode(v)
		if err != nil {
			return "", err
		}
		if a.IsMandatory() {
			path.WriteString("/" + seg)
		} else {
			query.WriteString("?" + a.Name + "=" + seg)
		}
	}
	return path.String() + query.String(), nil
}

// Match decodes a concrete route of the screen back into argument values.
func Match(s *model.ResolvedScreen, concrete string) (map[string]any, error) {
	rest, ok := strings.CutPrefix(concrete, s.RouteID)
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != '?') {
		return nil, errs.New(errs.ErrCodeInvalidRouteArguments, "route %q does not belong to %s", concrete, s.Name)
	}

	pathPart, queryPart, _ := strings.Cut(rest, "?")
	var segments []string
	if pathPart != "" {
		segments = strings.Split(pathPart[1:], "/")
	}
	params := make(map[string]string)
	if queryPart != "" {
		for _, kv := range strings.Split(queryPart, "?") {
			k, v, _ := strings.Cut(kv, "=")
			params[k] = v
		}
	}

	values := make(map[string]any)
	codecs := Codecs(s)
	next := 0
	for i, a := range s.NavArgs {
		var seg string
		if a.IsMandatory() {
			if next >= len(segments) {
				return nil, errs.New(errs.ErrCodeInvalidRouteArguments, "route %q: missing segment for %q", concrete, a.Name)
			}
			seg = segments[next]
			next++
		} else {
			v, ok := params[a.Name]
			if !ok {
				continue
			}
			delete(params, a.Name)
			seg = v
		}
		v, err := codecs[i].Decode(seg)
		if err != nil {
			return nil, err
		}
		values[a.Name] = v
	}

	if next != len(segments) || len(params) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidRouteArguments, "route %q has unexpected segments or parameters", concrete)
	}
	return values, nil
}
