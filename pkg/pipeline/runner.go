package pipeline

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/neurite-tools/neurite/pkg/cache"
	"github.com/neurite-tools/neurite/pkg/errors"
	"github.com/neurite-tools/neurite/pkg/mesh"
	"github.com/neurite-tools/neurite/pkg/observability"
	"github.com/neurite-tools/neurite/pkg/resample"
	"github.com/neurite-tools/neurite/pkg/swc"
	"github.com/neurite-tools/neurite/pkg/trunk"
	"github.com/neurite-tools/neurite/pkg/ugx"
)

// Cache TTLs per product type. Refinement output is deterministic for
// a given input and options, so the TTLs only bound disk usage.
const (
	TTLRefine = 7 * 24 * time.Hour
	TTLMesh   = 7 * 24 * time.Hour
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Refine runs the complete refinement pipeline over ns with caching.
// It preprocesses and decomposes once, then produces opts.Levels
// refined trees, halving the spacing between levels.
func (r *Runner) Refine(ctx context.Context, ns swc.NodeSet, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.applyLogger(opts)

	result := &Result{
		RunID:     uuid.NewString(),
		InputHash: hashNodes(ns),
	}
	result.Stats.NodeCount = len(ns)

	cacheKey := r.Keyer.RefineKey(result.InputHash, cache.RefineKeyOpts{
		Delta:  opts.Delta,
		Levels: opts.Levels,
		Method: opts.Method,
	})

	if !opts.Refresh {
		if levels, ok := r.cachedLevels(ctx, cacheKey); ok {
			observability.Cache().OnCacheHit(ctx, "refine")
			result.Levels = levels
			result.CacheHit = true
			logger.Info("refinement loaded from cache", "levels", len(levels))
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, "refine")
	}

	runStart := time.Now()
	observability.Pipeline().OnRunStart(ctx, result.RunID, len(ns), opts.Levels)

	// Stage 1: Preprocess
	stageStart := time.Now()
	observability.Pipeline().OnStageStart(ctx, "preprocess")
	repaired, warns, err := swc.Preprocess(ns)
	result.Stats.PreprocessTime = time.Since(stageStart)
	observability.Pipeline().OnStageComplete(ctx, "preprocess", len(repaired), result.Stats.PreprocessTime, err)
	if err != nil {
		observability.Pipeline().OnRunComplete(ctx, result.RunID, time.Since(runStart), err)
		return nil, err
	}
	result.Warnings = append(result.Warnings, warns...)

	logger.Info("preprocessed morphology",
		"nodes", len(repaired),
		"repairs", len(warns),
		"duration", result.Stats.PreprocessTime)

	// Stage 2: Decompose (once; the trunk layout is spacing-independent)
	stageStart = time.Now()
	observability.Pipeline().OnStageStart(ctx, "decompose")
	trunks := trunk.Decompose(repaired, false)
	parents := trunk.ParentMap(repaired, trunks)
	result.Stats.DecomposeTime = time.Since(stageStart)
	result.Stats.TrunkCount = len(trunks)
	observability.Pipeline().OnStageComplete(ctx, "decompose", len(trunks), result.Stats.DecomposeTime, nil)

	logger.Info("decomposed into trunks",
		"trunks", len(trunks),
		"duration", result.Stats.DecomposeTime)

	// Stages 3+4: Resample and assemble per level
	delta := opts.Delta
	for level := 0; level < opts.Levels; level++ {
		stageStart = time.Now()
		observability.Pipeline().OnStageStart(ctx, "resample")
		refined := resample.ByMethod(opts.Method, trunks, delta)
		resampleTime := time.Since(stageStart)
		result.Stats.ResampleTime += resampleTime
		observability.Pipeline().OnStageComplete(ctx, "resample", len(refined), resampleTime, nil)

		stageStart = time.Now()
		observability.Pipeline().OnStageStart(ctx, "assemble")
		assembled, assembleWarns, err := trunk.AssembleWithParents(refined, parents)
		assembleTime := time.Since(stageStart)
		observability.Pipeline().OnStageComplete(ctx, "assemble", len(assembled), assembleTime, err)
		if err != nil {
			observability.Pipeline().OnRunComplete(ctx, result.RunID, time.Since(runStart), err)
			return nil, err
		}
		result.Stats.AssembleTime += assembleTime
		result.Warnings = append(result.Warnings, assembleWarns...)
		result.Levels = append(result.Levels, assembled)

		logger.Info("generated refinement level",
			"level", level,
			"delta", delta,
			"nodes", len(assembled),
			"duration", resampleTime+assembleTime)

		delta /= 2
	}

	result.Stats.TotalTime = time.Since(runStart)
	observability.Pipeline().OnRunComplete(ctx, result.RunID, result.Stats.TotalTime, nil)

	r.storeLevels(ctx, cacheKey, result.Levels)

	return result, nil
}

// Mesh builds one tube mesh covering the whole morphology: the tree is
// decomposed into trunks and each trunk contributes a tube, merged
// into a single geometry. Trunks too short to carry a tube (fewer than
// two nodes) are skipped.
func (r *Runner) Mesh(ctx context.Context, ns swc.NodeSet, opts Options) (*ugx.Geometry, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.applyLogger(opts)

	repaired, _, err := swc.Preprocess(ns)
	if err != nil {
		return nil, err
	}

	trunks := trunk.Decompose(repaired, true)
	if len(trunks) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyGeometry, "morphology has no unbranched paths to mesh")
	}

	g := ugx.NewGeometry()
	meshed := 0
	for _, tid := range slices.Sorted(maps.Keys(trunks)) {
		if len(trunks[tid]) < 2 {
			continue
		}
		tube, err := mesh.TubeFromPath(trunks[tid], opts.Segments)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "mesh trunk %d", tid)
		}
		g.Append(tube)
		meshed++
	}
	if meshed == 0 {
		return nil, errors.New(errors.ErrCodeEmptyGeometry, "no trunk has enough nodes to mesh")
	}

	logger.Info("generated tube mesh",
		"trunks", meshed,
		"vertices", len(g.Points),
		"faces", len(g.Faces))

	return g, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger prefers the per-run logger when one is set.
func (r *Runner) applyLogger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// hashNodes fingerprints a morphology through its text serialization,
// which is order-normalized and so stable across map iteration.
func hashNodes(ns swc.NodeSet) string {
	var buf bytes.Buffer
	_ = swc.Write(ns, &buf)
	return cache.Hash(buf.Bytes())
}

// cachedLevels loads and decodes a cached refinement run.
func (r *Runner) cachedLevels(ctx context.Context, key string) ([]swc.NodeSet, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	levels, err := decodeLevels(data)
	if err != nil {
		return nil, false
	}
	return levels, true
}

// storeLevels encodes and caches a refinement run. Cache write
// failures are not fatal; the result is still returned.
func (r *Runner) storeLevels(ctx context.Context, key string, levels []swc.NodeSet) {
	data, err := encodeLevels(levels)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, TTLRefine); err == nil {
		observability.Cache().OnCacheSet(ctx, "refine", len(data))
	}
}
