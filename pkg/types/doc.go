// Package types resolves feed type references against the closed type
// universe of a run.
//
// A [Universe] indexes the feed's type declarations on top of a small set of
// builtins (Kotlin primitives and collections, the runtime's style types and
// the root nav-graph annotation). A [Registry] maps every structured type
// (parcelable, serializable or ktx-serializable) to the nav type that carries
// it through a route, and records user-registered serializers. A [Resolver]
// combines both to produce [model.Type] descriptors:
//
//	u := types.NewUniverse(f.Types)
//	reg, err := types.NewRegistry(u, f.Serializers)
//	r := types.NewResolver(u, reg, nil)
//	t, err := r.Resolve(feed.TypeRef{Name: "com.example.UserId"})
//
// Aliases resolve transitively, with nullability accumulated along the way.
// An unresolvable type argument never fails resolution: it becomes a
// [model.ErrorArg] whose offending source line is read only if a later stage
// needs to report it.
package types
