package game

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestReverseDir_Axes(t *testing.T) {
	cases := []struct {
		dx, dz float64
		want   float64
	}{
		{Factor, 0, math.Pi / 2},
		{0, Factor, 0},
		{-Factor, 0, 3 * math.Pi / 2},
		{0, -Factor, math.Pi},
		{1, 0, math.Pi / 2},
		{0, 1, 0},
		{-1, 0, 3 * math.Pi / 2},
		{0, -1, math.Pi},
		{0.3, 0.3, math.Pi / 4},
	}
	for _, c := range cases {
		if got := ReverseDir(c.dx, c.dz); !near(got, c.want) {
			t.Fatalf("ReverseDir(%v,%v) = %v, want %v", c.dx, c.dz, got, c.want)
		}
	}
}

func TestReverseDir_MatchesAtan2(t *testing.T) {
	for _, d := range [][2]float64{
		{3 * Factor, 2 * Factor},
		{-3 * Factor, 2 * Factor},
		{-Factor, -5 * Factor},
		{4 * Factor, -Factor},
	} {
		want := math.Atan2(d[0], d[1])
		if want < 0 {
			want += FullCircle
		}
		got := ReverseDir(d[0], d[1])
		if !near(got, want) {
			t.Fatalf("ReverseDir(%v,%v) = %v, want %v", d[0], d[1], got, want)
		}
		if got < 0 || got >= FullCircle {
			t.Fatalf("direction %v out of [0,2π)", got)
		}
	}
}

func TestRocketBook_AddReplaceRemove(t *testing.T) {
	b := NewRocketBook()
	b.Add(1, &RocketRecord{X: 1})
	b.Add(2, &RocketRecord{X: 2})
	b.Add(1, &RocketRecord{X: 3})
	recs := b.Records()
	if len(recs) != 2 || recs[0].X != 2 || recs[1].X != 3 {
		t.Fatalf("records = %+v", recs)
	}
	b.Remove(2)
	b.Remove(2)
	if b.Len() != 1 {
		t.Fatalf("len = %d", b.Len())
	}
}

func TestRocketBook_SyncDropsFreedSlots(t *testing.T) {
	tbl := NewEntityTable()
	b := NewRocketBook()
	for _, s := range []int{0, 1} {
		e := tbl.At(s)
		e.Shape = ShapeRocket
		e.Speed = rocketSpeed
		e.X = float64(s+1) * Factor
		b.Add(s, &RocketRecord{})
	}
	tbl.Free(0)
	b.sync(tbl)
	if b.Len() != 1 {
		t.Fatalf("len = %d, want 1", b.Len())
	}
	r, ok := b.Get(1)
	if !ok || r.X != float32(2*Factor) {
		t.Fatalf("slot 1 record = %+v, %v", r, ok)
	}
	for _, s := range b.Slots() {
		if tbl.At(s).Shape != ShapeRocket {
			t.Fatalf("slot %d has a record but no rocket", s)
		}
	}
}

func TestImpact_CrossingVerticalWall(t *testing.T) {
	imp, ok := ComputeImpactFromTrajectoryBipoint(0, 0, 10, 10, 5, -20, 5, 20, -1, 0)
	if !ok {
		t.Fatal("expected an impact")
	}
	if imp.X != 5 || imp.Z != 5 {
		t.Fatalf("impact at (%v,%v), want (5,5)", imp.X, imp.Z)
	}
	if imp.NX != -1 || imp.NZ != 0 {
		t.Fatalf("normal = (%v,%v)", imp.NX, imp.NZ)
	}
	if imp.X < 0 || imp.X > 10 || imp.Z < 0 || imp.Z > 10 {
		t.Fatal("impact outside the trajectory box")
	}
	if imp.Z < -20 || imp.Z > 20 {
		t.Fatal("impact off the wall segment")
	}
}

func TestImpact_CrossingHorizontalWall(t *testing.T) {
	imp, ok := ComputeImpactFromTrajectoryBipoint(0, 0, 8, 4, -10, 2, 10, 2, 0, -1)
	if !ok {
		t.Fatal("expected an impact")
	}
	if imp.Z != 2 || imp.X != 4 {
		t.Fatalf("impact at (%v,%v), want (4,2)", imp.X, imp.Z)
	}
	if imp.X < 0 || imp.X > 8 || imp.Z < 0 || imp.Z > 4 {
		t.Fatal("impact outside the trajectory box")
	}
}

func TestImpact_MissesShortSegment(t *testing.T) {
	if _, ok := ComputeImpactFromTrajectoryBipoint(0, 0, 10, 10, 5, 20, 5, 30, -1, 0); ok {
		t.Fatal("trajectory passes below the segment")
	}
}

func TestImpact_VerticalTrajectory(t *testing.T) {
	imp, ok := ComputeImpactFromTrajectoryBipoint(3, 0, 3, 10, 0, 6, 8, 6, 0, -1)
	if !ok || imp.X != 3 || imp.Z != 6 {
		t.Fatalf("impact = %+v,%v, want (3,6)", imp, ok)
	}
}

func TestWallImpacts_OnlySolidEdges(t *testing.T) {
	// rocket enters tile (5,5) from the left; only the left edge is solid
	x1, z1 := float64(4*Factor+Factor/2), float64(5*Factor+Factor/2)
	x2, z2 := float64(5*Factor+Factor/4), z1
	out := wallImpacts(CellWallLeft, 5, 5, x1, z1, x2, z2)
	if len(out) != 1 {
		t.Fatalf("impacts = %+v", out)
	}
	if out[0].X != float32(5*Factor) || out[0].NX != -1 {
		t.Fatalf("impact = %+v", out[0])
	}
	if got := wallImpacts(CellSolid, 5, 5, x1, z1, x2, z2); got != nil {
		t.Fatalf("solid block has no exposed edge, got %+v", got)
	}
}
