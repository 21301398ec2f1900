// Package style resolves destination presentation styles and the opt-in
// markers each generated destination must declare or re-expose.
package style

import (
	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/model"
	"github.com/matzehuels/navgen/pkg/types"
)

// Optional runtime modules that some styles depend on.
const (
	ModuleAnimations  = "animations"
	ModuleBottomSheet = "bottom-sheet"
)

// Context is the run-scoped reference data for style resolution. It is
// built once per run and shared read-only between screens.
type Context struct {
	universe *types.Universe
	modules  map[string]bool

	defaultStyle model.ClassType
	bottomSheet  model.ClassType
	dialog       model.ClassType
	runtime      model.ClassType

	animationScope  model.ClassType
	experimentalAPI model.ClassType
}

// NewContext creates the context for a universe and the set of optional
// modules present in the build.
func NewContext(u *types.Universe, modules []string) *Context {
	c := &Context{
		universe:        u,
		modules:         make(map[string]bool, len(modules)),
		defaultStyle:    model.ClassTypeOf(types.DestinationStyleDefault),
		bottomSheet:     model.ClassTypeOf(types.DestinationStyleBottomSheet),
		dialog:          model.ClassTypeOf(types.DestinationStyleDialog),
		runtime:         model.ClassTypeOf(types.DestinationStyleRuntime),
		animationScope:  model.ClassTypeOf(types.AnimatedVisibilityScope),
		experimentalAPI: model.ClassTypeOf(types.ExperimentalAnimationAPI),
	}
	for _, m := range modules {
		c.modules[m] = true
	}
	return c
}

// HasModule reports whether an optional module is present.
func (c *Context) HasModule(name string) bool { return c.modules[name] }

// ExperimentalAnimationAPI is the implicit animation opt-in marker.
func (c *Context) ExperimentalAnimationAPI() model.ClassType { return c.experimentalAPI }

func (c *Context) is(t, ref model.ClassType) bool {
	return c.universe.IsAssignable(t.QualifiedName, ref.QualifiedName)
}

// Resolve matches a screen's declared style type against the known variants.
// Types matching none of them resolve to an animated style.
func (c *Context) Resolve(s *model.RawScreen) (model.DestinationStyle, error) {
	t := s.StyleType
	switch {
	case t.IsZero() || c.is(t, c.defaultStyle):
		return model.DefaultStyle{}, nil
	case c.is(t, c.bottomSheet):
		if !c.HasModule(ModuleBottomSheet) {
			return nil, s.Errorf(errs.ErrCodeMissingModule,
				"the %s module is required to use the bottom sheet style", ModuleBottomSheet)
		}
		return model.BottomSheetStyle{}, nil
	case c.is(t, c.dialog):
		return model.DialogStyle{Type: t}, nil
	case c.is(t, c.runtime):
		return model.RuntimeStyle{}, nil
	}
	// Anything else is an animated style, whether or not it extends the
	// animated base directly.
	if !c.HasModule(ModuleAnimations) {
		return nil, s.Errorf(errs.ErrCodeMissingModule,
			"the %s module is required to use animated style %s", ModuleAnimations, t.SimpleName)
	}
	return model.AnimatedStyle{Type: t, OptIns: c.universe.OptIns(t.QualifiedName)}, nil
}

// Apply resolves the style and the opt-in markers of a resolved screen in place.
func (c *Context) Apply(rs *model.ResolvedScreen) error {
	st, err := c.Resolve(rs.RawScreen)
	if err != nil {
		return err
	}
	rs.Style = st
	rs.OptIns = c.OptIns(rs.RawScreen, st)
	return nil
}
