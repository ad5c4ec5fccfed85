// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"math"
)

// =============================================================================
// PLACEMENT CONSTANTS
// =============================================================================

const (
	// MinSeparation is the default minimum distance between item centers.
	MinSeparation = 130.0

	// spiralIterations bounds the open-spot search. The search trades
	// optimality for a bounded worst case; canvases hold tens of items,
	// not thousands.
	spiralIterations = 64

	// spiralAngleStep advances the candidate bearing each iteration
	// (roughly 25.7 degrees, an irrational-ish fraction of a turn so
	// candidates do not revisit the same bearings).
	spiralAngleStep = 0.4488

	// spiralRadiusStep grows the candidate radius each iteration.
	spiralRadiusStep = 18.0

	// initialRadius is the distance from the viewport center at which the
	// first batch of items is laid out.
	initialRadius = 260.0

	// childBaseDistance and childDistanceStep set how far children fan out
	// from their parent, growing per sibling index so siblings do not race
	// for the same spot.
	childBaseDistance = 220.0
	childDistanceStep = 45.0

	// childSpread is the angular fan between sibling children.
	childSpread = 0.5
)

// initialAngles are the fixed angular offsets of the bootstrap triangle,
// measured from the viewport center.
var initialAngles = [3]float64{-math.Pi / 2, math.Pi / 6, 5 * math.Pi / 6}

// childOffsets fan sibling children around the outward bearing.
var childOffsets = [3]float64{-childSpread, 0, childSpread}

// =============================================================================
// OPEN SPOT SEARCH
// =============================================================================

// FindOpenSpot returns a point at or near target that is at least minDist
// from every obstacle. It spirals outward from the target, testing up to
// spiralIterations candidates; if none is clear it returns the farthest
// candidate tried on the last bearing rather than failing.
func FindOpenSpot(target Point, minDist float64, obstacles []Point) Point {
	radius := 0.0
	angle := 0.0
	candidate := target
	for i := 0; i < spiralIterations; i++ {
		candidate = Point{
			X: target.X + radius*math.Cos(angle),
			Y: target.Y + radius*math.Sin(angle),
		}
		if clearOf(candidate, minDist, obstacles) {
			return candidate
		}
		angle += spiralAngleStep
		radius += spiralRadiusStep
	}
	// Budget exhausted: last resort, farthest point tried on this bearing.
	return candidate
}

func clearOf(p Point, minDist float64, obstacles []Point) bool {
	for _, o := range obstacles {
		if p.Dist(o) < minDist {
			return false
		}
	}
	return true
}

// =============================================================================
// LAYOUT HEURISTICS
// =============================================================================

// InitialLayout places n items in a triangle pattern around center, each
// resolved individually through the open-spot search. Used when a canvas
// bootstraps from zero items.
func InitialLayout(center Point, n int, minDist float64, obstacles []Point) []Point {
	placed := make([]Point, 0, n)
	all := append([]Point(nil), obstacles...)
	for i := 0; i < n; i++ {
		angle := initialAngles[i%len(initialAngles)]
		target := Point{
			X: center.X + initialRadius*math.Cos(angle),
			Y: center.Y + initialRadius*math.Sin(angle),
		}
		spot := FindOpenSpot(target, minDist, all)
		placed = append(placed, spot)
		all = append(all, spot)
	}
	return placed
}

// ChildLayout places n children fanned outward from parent. The fan is
// centered on the bearing from the world origin through the parent so new
// children grow away from the trunk, with increasing distance per sibling.
func ChildLayout(parent Point, n int, minDist float64, obstacles []Point) []Point {
	bearing := parent.Bearing()
	placed := make([]Point, 0, n)
	all := append([]Point(nil), obstacles...)
	for i := 0; i < n; i++ {
		angle := bearing + childOffsets[i%len(childOffsets)]
		dist := childBaseDistance + childDistanceStep*float64(i)
		target := Point{
			X: parent.X + dist*math.Cos(angle),
			Y: parent.Y + dist*math.Sin(angle),
		}
		spot := FindOpenSpot(target, minDist, all)
		placed = append(placed, spot)
		all = append(all, spot)
	}
	return placed
}
