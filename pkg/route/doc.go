// Package route builds route patterns, argument codecs and deep links.
//
// # Route patterns
//
// A screen without navigation arguments routes to its route id verbatim.
// Otherwise mandatory arguments append /{name} path segments and the other
// arguments trail as ?name={name} query parameters, each group in declaration
// order:
//
//	profile/{id}?filter={filter}
//
// # Codecs
//
// [Builder.Codec] picks the strategy of each argument and renders the
// expressions the generated code uses to put it into a route and to read it
// back: primitives use the runtime's built-in nav types, enums travel as
// their entry name, structured types use their registered nav type, and
// anything else falls back to a plain string conversion.
//
// [ValueCodec] is the Go counterpart of those expressions. [Build] and
// [Match] use it to construct concrete routes and parse them back, which is
// what the navgen route command does.
//
// # Deep links
//
// A deep-link URI pattern ending in FULL_ROUTE_PLACEHOLDER is expanded to
// the route pattern. Optional structured arguments without a serializer are
// left out of the expansion; mandatory ones are a setup error.
package route
