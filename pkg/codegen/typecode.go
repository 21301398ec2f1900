package codegen

import (
	"strings"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/model"
)

// importSet collects the imports of one file.
type importSet []string

func (s *importSet) add(qualifiedNames ...string) {
	*s = append(*s, qualifiedNames...)
}

// typeCode renders t with simple names and records the imports it needs.
// Unresolved type arguments fail with the offending source line attached.
func typeCode(t model.Type, imports *importSet) (string, error) {
	imports.add(t.Class.QualifiedName)

	var b strings.Builder
	b.WriteString(t.Class.SimpleName)
	if len(t.Args) > 0 {
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			switch a := a.(type) {
			case model.StarArg:
				args[i] = "*"
			case model.TypedArg:
				code, err := typeCode(a.Type, imports)
				if err != nil {
					return "", err
				}
				if a.Variance != model.Invariant {
					code = string(a.Variance) + " " + code
				}
				args[i] = code
			case model.ErrorArg:
				e := errs.New(errs.ErrCodeUnresolvedType, "type argument %s of %s could not be resolved", a.Name, t.Class.SimpleName)
				if line, err := a.Line.Get(); err == nil && line != "" {
					e = e.WithSourceLine(line)
				}
				return "", e
			}
		}
		b.WriteString("<" + strings.Join(args, ", ") + ">")
	}
	if t.Nullable {
		b.WriteByte('?')
	}
	return b.String(), nil
}
