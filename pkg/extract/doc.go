// Package extract turns annotated declarations into raw screen models.
//
// The [Frontend] interface is the only place that knows where declarations
// come from; everything downstream consumes [model.RawScreen] values.
// [FeedFrontend] implements it over a decoded [feed.Feed]:
//
//	fe := extract.NewFeedFrontend(f, resolver)
//	for i := 0; i < fe.Len(); i++ {
//	    screen, err := fe.Extract(i)
//	    ...
//	}
//
// Extraction derives the generated destination name and the route id
// (snake_case of the declaration name when the route is left to auto-naming),
// resolves parameter and delegate types, and decides graph membership: a
// nav-graph annotation on the declaration yields [model.AnnotatedGraph],
// otherwise the destination's own start/navGraph arguments yield
// [model.LegacyGraph]. Combining both, or applying two graph annotations, is
// an AMBIGUOUS_OR_MISSING_GRAPH_MEMBERSHIP setup error.
//
// Every extracted screen records its contributing source files in the
// front-end's [SourceIndex].
package extract
