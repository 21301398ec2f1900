package style

import (
	"slices"

	"github.com/matzehuels/navgen/pkg/model"
)

// optIns is an insertion-ordered marker set. Setting an existing marker
// updates its flag and keeps its position.
type optIns struct {
	order []string
	byQN  map[string]*model.OptIn
}

func newOptIns() *optIns {
	return &optIns{byQN: make(map[string]*model.OptIn)}
}

func (o *optIns) set(marker model.ClassType, optedIn bool) {
	if cur, ok := o.byQN[marker.QualifiedName]; ok {
		cur.OptedIn = optedIn
		return
	}
	o.order = append(o.order, marker.QualifiedName)
	o.byQN[marker.QualifiedName] = &model.OptIn{Marker: marker, OptedIn: optedIn}
}

func (o *optIns) list() []model.OptIn {
	if len(o.order) == 0 {
		return nil
	}
	out := make([]model.OptIn, len(o.order))
	for i, qn := range o.order {
		out[i] = *o.byQN[qn]
	}
	return out
}

// OptIns gathers the opt-in markers of a screen in this order: markers on
// the declaration, markers required by parameter and delegate field types,
// markers of an animated style, and the animation API marker when the
// receiver or the style needs it.
//
// A marker the declaration carries itself must be required of callers. A
// marker that only a type needs was already opted into by the declaration,
// so the generated code re-exposes it with an opt-in.
func (c *Context) OptIns(s *model.RawScreen, st model.DestinationStyle) []model.OptIn {
	declared := func(m model.ClassType) bool {
		return slices.ContainsFunc(s.OptIns, func(d model.ClassType) bool {
			return d.QualifiedName == m.QualifiedName
		})
	}

	set := newOptIns()
	for _, m := range s.OptIns {
		set.set(m, false)
	}

	params := s.Parameters
	if s.Delegate != nil {
		params = append(slices.Clone(params), s.Delegate.Fields...)
	}
	for _, p := range params {
		for _, m := range p.Type.RecursiveOptIns() {
			set.set(m, !declared(m))
		}
	}

	animated, isAnimated := st.(model.AnimatedStyle)
	if isAnimated {
		for _, m := range animated.OptIns {
			set.set(m, false)
		}
	}

	receiverNeedsAPI := s.Receiver.SimpleName == c.animationScope.SimpleName && !declared(c.experimentalAPI)
	styleNeedsAPI := isAnimated && !slices.ContainsFunc(animated.OptIns, func(m model.ClassType) bool {
		return m.QualifiedName == c.experimentalAPI.QualifiedName
	})
	if receiverNeedsAPI || styleNeedsAPI {
		set.set(c.experimentalAPI, true)
	}

	return set.list()
}
