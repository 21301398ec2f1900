package navgraph

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/navgen/pkg/model"
)

type graphJSON struct {
	Route            string            `json:"route"`
	Type             string            `json:"type,omitempty"`
	StartRoute       string            `json:"startRoute"`
	StartDestination string            `json:"startDestination,omitempty"`
	Destinations     []destinationJSON `json:"destinations"`
	Nested           []graphJSON       `json:"nested,omitempty"`
}

type destinationJSON struct {
	Name      string           `json:"name"`
	RouteID   string           `json:"routeId"`
	Route     string           `json:"route"`
	Arguments []argumentJSON   `json:"arguments,omitempty"`
	Style     model.StyleKind  `json:"style"`
	DeepLinks []model.DeepLink `json:"deepLinks,omitempty"`
	OptIns    []string         `json:"requiredOptIns,omitempty"`
	Start     bool             `json:"start,omitempty"`
}

type argumentJSON struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable,omitempty"`
	Optional bool   `json:"optional,omitempty"`
}

// WriteJSON encodes the tree as indented JSON and writes it to w. Nested
// graphs and destinations appear in route order, so identical trees always
// encode to identical bytes.
func WriteJSON(root *Node, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toJSON(root)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func toJSON(n *Node) graphJSON {
	out := graphJSON{
		Route:        n.Route,
		Type:         n.Type.QualifiedName,
		StartRoute:   n.StartRoute(),
		Destinations: []destinationJSON{},
	}
	if d := n.StartDestination(); d != nil {
		out.StartDestination = d.Route
	}
	for _, d := range n.SortedDestinations() {
		dj := destinationJSON{
			Name:      d.Name,
			RouteID:   d.RouteID,
			Route:     d.Route,
			DeepLinks: d.DeepLinks,
			Start:     n.Start == d,
		}
		if d.Style != nil {
			dj.Style = d.Style.Kind()
		}
		for _, a := range d.NavArgs {
			dj.Arguments = append(dj.Arguments, argumentJSON{
				Name:     a.Name,
				Type:     a.Type.Class.QualifiedName,
				Nullable: a.Type.Nullable,
				Optional: !a.IsMandatory(),
			})
		}
		for _, m := range d.RequiredOptIns() {
			dj.OptIns = append(dj.OptIns, m.QualifiedName)
		}
		out.Destinations = append(out.Destinations, dj)
	}
	for _, c := range n.Nested {
		out.Nested = append(out.Nested, toJSON(c))
	}
	return out
}
