package game

// Impact is a rocket decal on a wall: a point and the wall normal.
type Impact struct {
	X, Y, Z    float32
	NX, NY, NZ float32
}

// ComputeImpactFromTrajectoryBipoint intersects the trajectory (x1,z1)->(x2,z2)
// with the wall segment (wx1,wz1)-(wx2,wz2) whose normal is (wnx,wnz). A
// non-zero wnz means the wall runs along x. It returns false when the
// trajectory misses the segment.
func ComputeImpactFromTrajectoryBipoint(x1, z1, x2, z2, wx1, wz1, wx2, wz2, wnx, wnz float32) (Impact, bool) {
	horizontal := wnz != 0
	hit := func(x, z float32) (Impact, bool) {
		return Impact{X: x, Z: z, NX: wnx, NZ: wnz}, true
	}
	if x1 == x2 {
		if !horizontal {
			// travelling parallel to a vertical wall: only a grazing hit counts
			if x1 != wx1 {
				return Impact{}, false
			}
			lo, hi := wz1, wz2
			if wz1 > wz2 {
				lo, hi = wz2, wz1
			}
			if z2 < lo || z2 > hi {
				return Impact{}, false
			}
			if (z1 > z2) == (wz1 > wz2) {
				return hit(wx1, wz1)
			}
			return hit(wx1, wz2)
		}
		if !within(x1, wx1, wx2) {
			return Impact{}, false
		}
		if !within(wz1, z1, z2) {
			return Impact{}, false
		}
		return hit(x1, wz1)
	}

	a := (z2 - z1) / (x2 - x1)
	b := z1 - a*x1
	if !horizontal {
		impz := a*wx1 + b
		if !within(impz, wz1, wz2) {
			return Impact{}, false
		}
		return hit(wx1, impz)
	}
	if a != 0 {
		impx := (wz1 - b) / a
		if !within(impx, wx1, wx2) {
			return Impact{}, false
		}
		return hit(impx, wz1)
	}
	// travelling parallel to a horizontal wall
	if z1 != wz1 || !within(x2, wx1, wx2) {
		return Impact{}, false
	}
	if (x1 > x2) == (wx1 > wx2) {
		return hit(wx1, wz1)
	}
	return hit(wx2, wz1)
}

// within reports whether v lies in the closed range spanned by a and b.
func within(v, a, b float32) bool {
	if a > b {
		a, b = b, a
	}
	return a <= v && v <= b
}

// wallImpacts returns the decals a rocket moving (x1,z1)->(x2,z2) leaves on
// the solid edges of wall tile (tx,tz). Edges are tried in up, down, left,
// right order.
func wallImpacts(k CellKind, tx, tz int, x1, z1, x2, z2 float64) []Impact {
	edges := wallEdges(k)
	if edges == 0 {
		return nil
	}
	l := float32(tx * Factor)
	r := float32((tx + 1) * Factor)
	t := float32(tz * Factor)
	b := float32((tz + 1) * Factor)
	fx1, fz1, fx2, fz2 := float32(x1), float32(z1), float32(x2), float32(z2)

	var out []Impact
	add := func(wx1, wz1, wx2, wz2, nx, nz float32) {
		if imp, ok := ComputeImpactFromTrajectoryBipoint(fx1, fz1, fx2, fz2, wx1, wz1, wx2, wz2, nx, nz); ok {
			out = append(out, imp)
		}
	}
	if edges&EdgeUp != 0 {
		add(l, t, r, t, 0, -1)
	}
	if edges&EdgeDown != 0 {
		add(l, b, r, b, 0, 1)
	}
	if edges&EdgeLeft != 0 {
		add(l, t, l, b, -1, 0)
	}
	if edges&EdgeRight != 0 {
		add(r, t, r, b, 1, 0)
	}
	return out
}
