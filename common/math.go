package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

func Lerp(a, b, t float64) float64 {
	return cp.Lerp(a, b, cp.Clamp01(t))
}

// MoveTowards moves current toward target by at most maxDelta without overshooting.
func MoveTowards(current, target, maxDelta float64) float64 {
	if maxDelta <= 0 {
		return current
	}
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	return current + Sign(target-current)*maxDelta
}

// MoveTowardsVector is MoveTowards for points: the step is taken along the
// straight line to target and snaps onto it when within maxDelta.
func MoveTowardsVector(current, target cp.Vector, maxDelta float64) cp.Vector {
	toTarget := target.Sub(current)
	dist := toTarget.Length()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return current.Add(toTarget.Mult(maxDelta / dist))
}

func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func Clamp(v, lo, hi float64) float64 {
	return cp.Clamp(v, lo, hi)
}
