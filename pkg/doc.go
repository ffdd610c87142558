// Package pkg provides the core libraries for neurite morphology processing.
//
// # Overview
//
// Neurite reads neuron skeleton reconstructions, repairs their topology,
// refines their geometry at configurable spacings, and generates tube
// surface meshes. The pkg directory is organized into four main areas:
//
//  1. Morphology model and codecs ([swc], [ugx])
//  2. Geometry processing ([trunk], [resample], [mesh])
//  3. Orchestration ([pipeline], [cache], [store])
//  4. Presentation and configuration ([render], [config], [errors])
//
// # Architecture
//
// The typical data flow through neurite:
//
//	SWC/UGX file
//	     ↓
//	[swc] package (parse + topology repair)
//	     ↓
//	[trunk] package (decompose into unbranched paths)
//	     ↓
//	[resample] package (linear or cubic-spline refinement)
//	     ↓
//	[trunk] package (reassemble into one tree)
//	     ↓
//	SWC levels, or [mesh] → UGX tube surface
//
// # Quick Start
//
// Refine a morphology through the pipeline:
//
//	import (
//	    "context"
//	    "github.com/neurite-tools/neurite/pkg/pipeline"
//	    "github.com/neurite-tools/neurite/pkg/swc"
//	)
//
//	ns, warns, _ := swc.ReadFile("neuron.swc")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Refine(context.Background(), ns, pipeline.Options{
//	    Delta:  2.0,
//	    Levels: 3,
//	})
//	finest := result.Levels[len(result.Levels)-1]
//
// # Main Packages
//
// [swc] - The node set model and the text codec, plus topology
// validation and repair: topological sorting, cycle detection, soma
// consolidation, and edge splitting.
//
// [ugx] - The XML grid codec used for both morphology exchange and tube
// meshes, with conversions between grids and node sets.
//
// [trunk] - Decomposition into maximal unbranched paths, the trunk
// hierarchy, and the two reassembly modes.
//
// [resample] - Per-trunk geometry refinement by piecewise linear
// interpolation or natural cubic splines over arc length.
//
// [mesh] - Parallel-transport-frame tube meshing of node paths.
//
// [pipeline] - The preprocess → decompose → resample → assemble runner
// shared by CLI and API, with result caching.
//
// [cache] - File, Redis, and null cache backends keyed by input hash
// and pipeline options.
//
// [store] - Optional MongoDB persistence of run metadata for server
// deployments.
//
// [render] - Graphviz node-link diagrams of morphologies and trunk
// decompositions, rendered to DOT, SVG, or PNG.
//
// [config] - TOML configuration with defaults for pipeline, cache,
// server, and storage settings.
//
// [errors] - Structured errors with machine-readable codes and the
// warning type used for repair diagnostics.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/trunk/...    # Specific package
//
// [swc]: https://pkg.go.dev/github.com/neurite-tools/neurite/pkg/swc
// [ugx]: https://pkg.go.dev/github.com/neurite-tools/neurite/pkg/ugx
// [trunk]: https://pkg.go.dev/github.com/neurite-tools/neurite/pkg/trunk
// [resample]: https://pkg.go.dev/github.com/neurite-tools/neurite/pkg/resample
// [mesh]: https://pkg.go.dev/github.com/neurite-tools/neurite/pkg/mesh
// [pipeline]: https://pkg.go.dev/github.com/neurite-tools/neurite/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/neurite-tools/neurite/pkg/cache
// [store]: https://pkg.go.dev/github.com/neurite-tools/neurite/pkg/store
// [render]: https://pkg.go.dev/github.com/neurite-tools/neurite/pkg/render
// [config]: https://pkg.go.dev/github.com/neurite-tools/neurite/pkg/config
// [errors]: https://pkg.go.dev/github.com/neurite-tools/neurite/pkg/errors
package pkg
