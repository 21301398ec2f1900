// Package codegen emits the Kotlin sources of generated destinations and of
// the nav graphs object.
//
// Emission builds an explicit syntax tree ([File], [Object], [Fun],
// [Property], [Call], ...) and renders it with [Print], the only place that
// produces text. The printer sorts and deduplicates imports and lays out
// every construct one fixed way, so identical models always yield identical
// bytes.
//
// A destination artifact contains:
//
//   - opt-in requirements and opt-in re-declarations as annotations
//   - invoke functions building a Direction from argument values
//   - routeId, the route pattern, the argument declarations and deep links
//   - the style override, when the style is not the default one
//   - argsFrom functions reading the arguments back from a back-stack entry
//     or a saved-state handle
//   - a NavArgs data class, unless a nav-args delegate class is used
//
// Failures are setup errors attributed to the screen: an argument whose type
// has no runtime nav type, an unresolved type argument (reported with its
// source line) and a default value that cannot be resolved. Defaults are
// only evaluated for arguments that are actually emitted.
package codegen
