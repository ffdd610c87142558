package resample

import (
	"maps"
	"slices"

	"github.com/neurite-tools/neurite/pkg/errors"
	"github.com/neurite-tools/neurite/pkg/trunk"
)

// AllLinear applies Linear independently to every trunk, returning a map
// of the same shape.
func AllLinear(trunks trunk.Map, delta float64) trunk.Map {
	out := make(trunk.Map, len(trunks))
	for _, tid := range slices.Sorted(maps.Keys(trunks)) {
		out[tid] = Linear(trunks[tid], delta)
	}
	return out
}

// AllCubic applies Cubic independently to every trunk, returning a map
// of the same shape.
func AllCubic(trunks trunk.Map, delta float64) trunk.Map {
	out := make(trunk.Map, len(trunks))
	for _, tid := range slices.Sorted(maps.Keys(trunks)) {
		out[tid] = Cubic(trunks[tid], delta)
	}
	return out
}

// ByMethod dispatches on a method name. Unrecognized names fall back to
// linear, matching the permissive behavior the refinement pipeline
// promises.
func ByMethod(method string, trunks trunk.Map, delta float64) trunk.Map {
	if method == MethodCubic {
		return AllCubic(trunks, delta)
	}
	return AllLinear(trunks, delta)
}

// ValidateMethod rejects method names other than "linear" and "cubic".
// Surfaces that want strict validation (CLI flags, API parameters) call
// this before handing the name to ByMethod.
func ValidateMethod(method string) error {
	switch method {
	case MethodLinear, MethodCubic:
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidMethod,
			"unknown resampling method %q (want %q or %q)", method, MethodLinear, MethodCubic)
	}
}
