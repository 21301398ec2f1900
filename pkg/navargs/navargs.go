// Package navargs decides which parameters of a screen travel through its
// route as navigation arguments.
//
// Without a nav-args delegate, the navigation arguments are the eligible
// parameters in declaration order; ineligible ones are left out silently.
// With a delegate, the delegate's constructor fields are the arguments, and
// two setups are rejected with DELEGATE_CONFLICT: a delegate field that is
// not eligible, and a screen that also declares eligible inline parameters.
package navargs

import (
	"strings"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/model"
)

// IsNavArg reports whether a value of type t can be carried by a route:
// enums, structured types, types with a registered serializer and primitives.
func IsNavArg(t model.Type) bool {
	switch {
	case t.IsEnum:
		return true
	case t.IsComplex():
		return true
	case t.HasCustomSerializer:
		return true
	}
	return t.Primitive() != model.NotPrimitive
}

// Resolve returns the ordered navigation arguments of a screen.
func Resolve(s *model.RawScreen) ([]model.Parameter, error) {
	if s.Delegate == nil {
		var args []model.Parameter
		for _, p := range s.Parameters {
			if IsNavArg(p.Type) {
				args = append(args, p)
			}
		}
		return args, nil
	}

	for _, f := range s.Delegate.Fields {
		if !IsNavArg(f.Type) {
			return nil, s.Errorf(errs.ErrCodeDelegateConflict,
				"nav args delegate %s has field %q of type %s, which is not a navigation argument type",
				s.Delegate.Class.SimpleName, f.Name, f.Type.Class.QualifiedName)
		}
	}

	var inline []string
	for _, p := range s.Parameters {
		if IsNavArg(p.Type) {
			inline = append(inline, p.Name)
		}
	}
	if len(inline) > 0 {
		return nil, s.Errorf(errs.ErrCodeDelegateConflict,
			"cannot declare navigation argument parameters (%s) when using nav args delegate %s",
			strings.Join(inline, ", "), s.Delegate.Class.SimpleName)
	}

	return s.Delegate.Fields, nil
}

// CheckStart rejects a start destination with mandatory navigation arguments.
func CheckStart(s *model.RawScreen, args []model.Parameter) error {
	if s.NavGraph == nil || !s.NavGraph.IsStart() {
		return nil
	}
	var mandatory []string
	for _, a := range args {
		if a.IsMandatory() {
			mandatory = append(mandatory, a.Name)
		}
	}
	if len(mandatory) > 0 {
		return s.Errorf(errs.ErrCodeStartDestinationArgs,
			"start destinations cannot have mandatory navigation arguments (%s)", strings.Join(mandatory, ", "))
	}
	return nil
}
