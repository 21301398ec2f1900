// Package navgraph assembles resolved destinations into the navigation
// graph tree.
//
// Every destination belongs to exactly one graph. Graphs named only through
// a destination's navGraph argument nest directly under the root graph;
// graphs declared by a nav-graph annotation type nest under the parent that
// annotation names. [Assemble] validates the result:
//
//   - every graph has exactly one start, either a destination or a nested
//     graph flagged as its parent's start
//   - route ids are unique across the whole tree, graph routes included
//   - graph parents do not form a cycle
//
// Violations are reported as setup errors that also wrap one of the
// package's sentinel errors, so both errs.Is and errors.Is work:
//
//	root, err := navgraph.Assemble(screens, universe.Graphs())
//	if errors.Is(err, navgraph.ErrStartCount) {
//	    ...
//	}
//
// [Node.AllDestinations] flattens the tree with each destination appearing
// once, and [Node.FindDestination] looks one up by route.
package navgraph
