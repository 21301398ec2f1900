// Package feed defines the declaration-feed wire format consumed by navgen.
//
// # Overview
//
// Symbol discovery is not navgen's job: an annotation processor, a compiler
// plugin or a hand-written fixture produces a feed describing every annotated
// screen declaration together with the closed universe of types those
// declarations reference. This package only decodes and structurally
// validates that feed; interpretation happens in the extract and types
// packages.
//
// # Formats
//
// Feeds are accepted as JSON (camelCase keys) or TOML (snake_case keys):
//
//	{
//	  "types": [
//	    {"qualifiedName": "com.example.Filter", "kind": "enum", "entries": ["ALL", "NEW"]}
//	  ],
//	  "declarations": [{
//	    "name": "Profile",
//	    "qualifiedName": "com.example.Profile",
//	    "source": {"file": "Profile.kt", "line": 12},
//	    "parameters": [
//	      {"name": "id", "type": {"name": "kotlin.Int"}},
//	      {"name": "filter", "type": {"name": "kotlin.String", "nullable": true}}
//	    ],
//	    "destination": {"route": "profile"}
//	  }]
//	}
//
// Use [Load] for files (format chosen by extension) or [ReadJSON] and
// [ReadTOML] for arbitrary readers. Unknown keys are rejected in both formats.
package feed
