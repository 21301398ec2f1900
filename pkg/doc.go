// Package pkg provides the core libraries of navgen, a build-time generator
// of type-safe navigation destinations.
//
// # Overview
//
// navgen reads a feed of annotated screen declarations together with the
// closed type universe they reference, and emits one destination source per
// screen plus a nav graphs object wiring them into a tree. The pkg directory
// is organized into three areas:
//
//  1. Compiler core: [model], [feed], [extract], [types], [navargs], [route],
//     [style], [codegen] and [navgraph]
//  2. Infrastructure: [cache], [observability], [errors] and [buildinfo]
//  3. Orchestration and output: [pipeline] and [render/nodelink]
//
// # Architecture
//
// The data flow of one run:
//
//	Declaration feed (JSON or TOML)
//	         ↓
//	    [extract] package (raw screens, via [types] for parameter types)
//	         ↓
//	    [navargs] package (navigation arguments, delegate expansion)
//	         ↓
//	    [route] package (route pattern, codecs, deep links)
//	         ↓
//	    [style] package (presentation style, opt-in markers)
//	         ↓
//	    [codegen] package (destination artifacts)
//	         ↓
//	    [navgraph] package (graph tree) → [codegen] (nav graphs object)
//
// Screens are independent until graph assembly, so [pipeline] processes them
// in parallel and joins them before assembling the tree.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/navgen/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//	res, err := runner.Execute(context.Background(), pipeline.Options{
//	    FeedPath:    "feed.json",
//	    BasePackage: "com.example.app",
//	    Output:      "build/generated/navgen",
//	})
//
// # Errors
//
// Every failure caused by the declarations is a setup error from [errors],
// carrying a code and the offending declaration. By default the first one
// aborts the run; with [pipeline.Options].KeepGoing all of them are
// collected and the healthy screens are still generated.
package pkg
