// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"math"
	"math/rand"
	"testing"
)

func assertMinSeparation(t *testing.T, p Point, obstacles []Point, minDist float64) {
	t.Helper()
	for _, o := range obstacles {
		if d := p.Dist(o); d < minDist {
			t.Fatalf("point %+v is %.2f from obstacle %+v, want >= %v", p, d, o, minDist)
		}
	}
}

// TestFindOpenSpot_RespectsMinDistance checks the minimum-separation
// guarantee against scattered obstacle fields well under the iteration
// budget.
func TestFindOpenSpot_RespectsMinDistance(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for trial := 0; trial < 200; trial++ {
		var obstacles []Point
		n := rng.Intn(30)
		for i := 0; i < n; i++ {
			obstacles = append(obstacles, Point{
				X: rng.Float64()*1200 - 600,
				Y: rng.Float64()*1200 - 600,
			})
		}
		target := Point{X: rng.Float64()*800 - 400, Y: rng.Float64()*800 - 400}

		spot := FindOpenSpot(target, MinSeparation, obstacles)
		assertMinSeparation(t, spot, obstacles, MinSeparation)
	}
}

// TestFindOpenSpot_EmptyCanvasReturnsTarget checks that with no obstacles
// the target itself is the open spot.
func TestFindOpenSpot_EmptyCanvasReturnsTarget(t *testing.T) {
	target := Point{X: 120, Y: -45}
	spot := FindOpenSpot(target, MinSeparation, nil)
	if spot != target {
		t.Fatalf("spot = %+v, want target %+v", spot, target)
	}
}

// TestFindOpenSpot_NeverFails checks the last-resort path: a deliberately
// saturated neighborhood still yields a point rather than an error.
func TestFindOpenSpot_NeverFails(t *testing.T) {
	target := Point{}
	var obstacles []Point
	// Blanket the whole spiral reach in obstacles spaced under minDist.
	reach := spiralRadiusStep * spiralIterations
	for x := -reach; x <= reach; x += MinSeparation / 2 {
		for y := -reach; y <= reach; y += MinSeparation / 2 {
			obstacles = append(obstacles, Point{X: x, Y: y})
		}
	}

	spot := FindOpenSpot(target, MinSeparation, obstacles)
	if math.IsNaN(spot.X) || math.IsNaN(spot.Y) {
		t.Fatalf("spot = %+v", spot)
	}
	// The fallback is the farthest candidate tried on the final bearing.
	if spot.Dist(target) == 0 {
		t.Fatal("expected the fallback to move off the saturated target")
	}
}

// TestInitialLayout_TrianglePattern checks the bootstrap layout: three
// mutually separated points around the center, each a valid open spot.
func TestInitialLayout_TrianglePattern(t *testing.T) {
	center := Point{X: 50, Y: -20}
	obstacles := []Point{{}} // trunk origin

	spots := InitialLayout(center, 3, MinSeparation, obstacles)
	if len(spots) != 3 {
		t.Fatalf("got %d spots, want 3", len(spots))
	}
	for i, s := range spots {
		assertMinSeparation(t, s, obstacles, MinSeparation)
		for j := 0; j < i; j++ {
			if d := s.Dist(spots[j]); d < MinSeparation {
				t.Fatalf("spots %d and %d are %.2f apart, want >= %v", i, j, d, MinSeparation)
			}
		}
		// The triangle should sit near the requested radius.
		if d := s.Dist(center); d < initialRadius/2 || d > initialRadius*3 {
			t.Fatalf("spot %d is %.2f from center, want near %v", i, d, initialRadius)
		}
	}
}

// TestChildLayout_FansOutward checks that children land farther from the
// origin than their parent and spread rather than stack.
func TestChildLayout_FansOutward(t *testing.T) {
	parent := Point{X: 300, Y: 100}
	obstacles := []Point{{}, parent}

	spots := ChildLayout(parent, 3, MinSeparation, obstacles)
	if len(spots) != 3 {
		t.Fatalf("got %d spots, want 3", len(spots))
	}
	parentDist := parent.Dist(Point{})
	for i, s := range spots {
		assertMinSeparation(t, s, obstacles, MinSeparation)
		if s.Dist(Point{}) <= parentDist {
			t.Errorf("child %d at %+v is not outward of parent", i, s)
		}
		for j := 0; j < i; j++ {
			if d := s.Dist(spots[j]); d < MinSeparation {
				t.Fatalf("children %d and %d are %.2f apart, want >= %v", i, j, d, MinSeparation)
			}
		}
	}
}

// TestChildLayout_GrowingDistance checks that sibling base distance grows
// with index so later siblings search farther out.
func TestChildLayout_GrowingDistance(t *testing.T) {
	parent := Point{X: 1000, Y: 0}
	spots := ChildLayout(parent, 3, MinSeparation, []Point{{}, parent})

	first := spots[0].Dist(parent)
	last := spots[2].Dist(parent)
	if last <= first {
		t.Fatalf("sibling distances did not grow: first %.2f last %.2f", first, last)
	}
}
