// Package model defines the intermediate representation shared by every
// navgen stage.
//
// # Overview
//
// A generation run turns a feed of annotated declarations into one
// [RawScreen] per declaration, derives a [ResolvedScreen] from each, and
// finally hands the resolved screens to the graph assembler. All values in
// this package are constructed once per run and never mutated afterwards,
// which is what lets the per-screen stages run in parallel without locks.
//
// # Tagged unions
//
// Three concepts have a closed set of shapes and are modelled as sealed
// interfaces with one struct per variant:
//
//   - [DestinationStyle]: [DefaultStyle], [BottomSheetStyle], [DialogStyle],
//     [AnimatedStyle], [RuntimeStyle]
//   - [NavGraphInfo]: [LegacyGraph], [AnnotatedGraph]
//   - [GenericArg]: [TypedArg], [StarArg], [ErrorArg]
//
// Consumers switch over the concrete types and treat an unknown variant as a
// programming error.
//
// # Lazy values
//
// Default-value expressions and diagnostic source lines may need extra work
// (or fail) and are only needed by some consumers. [Lazy] wraps such a
// computation so it runs at most once, on first use, and remembers both the
// value and the error.
package model
