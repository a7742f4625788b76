package main

import "math"

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Distance returns the distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// CircleOverlapsRect checks if a circle overlaps an axis-aligned rectangle.
// Touching counts as overlap.
func CircleOverlapsRect(cx, cy, r, rx, ry, rw, rh float64) bool {
	nx := Clamp(cx, rx, rx+rw)
	ny := Clamp(cy, ry, ry+rh)
	dx := cx - nx
	dy := cy - ny
	return dx*dx+dy*dy <= r*r
}

// slideIters is fixed so a slide costs the same every tick regardless of
// how deep the attempted move went.
const slideIters = 6

// slideTo bisects between a known-legal from and a blocked to, returning
// the farthest point that still passes the blocked probe. from must be
// legal on entry or the result is meaningless.
func slideTo(from, to float64, blocked func(float64) bool) float64 {
	lo, hi := from, to
	for i := 0; i < slideIters; i++ {
		mid := (lo + hi) / 2
		if blocked(mid) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}
