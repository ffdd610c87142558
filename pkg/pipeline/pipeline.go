// Package pipeline provides the core refinement pipeline for neurite.
//
// This package implements the complete preprocess → decompose →
// resample → assemble pipeline that can be used by CLI and API
// components. By centralizing this logic, we ensure consistent
// behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// One refinement run consists of:
//
//  1. Preprocess: validate and repair the input topology
//  2. Decompose: split the tree into maximal unbranched trunks
//  3. Resample: rebuild each trunk's geometry at the target spacing
//  4. Assemble: stitch the trunks back into a consistent tree
//
// Steps 3 and 4 repeat once per refinement level with the spacing
// halving between levels. Decomposition runs once; the trunk parent
// map is reused across levels.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Delta:  2.0,
//	    Levels: 3,
//	    Method: resample.MethodCubic,
//	}
//	result, err := runner.Refine(ctx, nodes, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	finest := result.Levels[len(result.Levels)-1]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/neurite-tools/neurite/pkg/errors"
	"github.com/neurite-tools/neurite/pkg/mesh"
	"github.com/neurite-tools/neurite/pkg/resample"
	"github.com/neurite-tools/neurite/pkg/swc"
)

// Defaults shared by CLI, API, and config.
const (
	// DefaultDelta is the initial target node spacing.
	DefaultDelta = 1.0

	// DefaultLevels is the number of refinement levels.
	DefaultLevels = 1

	// DefaultMethod is the resampling method.
	DefaultMethod = resample.MethodLinear

	// DefaultSegments is the tube mesh ring resolution.
	DefaultSegments = mesh.DefaultSegments
)

// Options contains all configuration for a refinement run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Delta is the target node spacing for the first level; each
	// subsequent level halves it.
	Delta float64 `json:"delta,omitempty"`

	// Levels is the number of refinement levels to generate.
	Levels int `json:"levels,omitempty"`

	// Method selects the resampler, "linear" or "cubic".
	Method string `json:"method,omitempty"`

	// Segments is the ring resolution used by Mesh.
	Segments int `json:"segments,omitempty"`

	// Refresh bypasses the cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Delta == 0 {
		o.Delta = DefaultDelta
	}
	if o.Delta < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "delta must be positive, got %g", o.Delta)
	}
	if o.Levels == 0 {
		o.Levels = DefaultLevels
	}
	if o.Levels < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "levels must be at least 1, got %d", o.Levels)
	}
	if o.Method == "" {
		o.Method = DefaultMethod
	}
	if err := resample.ValidateMethod(o.Method); err != nil {
		return err
	}
	if o.Segments == 0 {
		o.Segments = DefaultSegments
	}
	if o.Segments < 3 {
		return errors.New(errors.ErrCodeInvalidInput, "segments must be at least 3, got %d", o.Segments)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a refinement run.
type Result struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id"`

	// InputHash is the content hash of the input morphology.
	InputHash string `json:"input_hash"`

	// Levels holds one refined tree per refinement level, coarsest
	// first.
	Levels []swc.NodeSet `json:"-"`

	// Warnings collects repair and assembly diagnostics.
	Warnings []errors.Warning `json:"warnings,omitempty"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheHit reports whether the whole run came from cache.
	CacheHit bool `json:"cache_hit"`
}

// Stats contains pipeline execution statistics. Resample and assemble
// times accumulate across levels.
type Stats struct {
	NodeCount      int           `json:"node_count"`
	TrunkCount     int           `json:"trunk_count"`
	PreprocessTime time.Duration `json:"preprocess_time"`
	DecomposeTime  time.Duration `json:"decompose_time"`
	ResampleTime   time.Duration `json:"resample_time"`
	AssembleTime   time.Duration `json:"assemble_time"`
	TotalTime      time.Duration `json:"total_time"`
}
