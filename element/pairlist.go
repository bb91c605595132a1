package element

// A VerletList is a naive all-pairs neighbor list with a distance cutoff.
// Rebuilding is quadratic in the particle count; it stands in for the real
// cell-based search, which lives outside the scheduler.
type VerletList struct {
	Cutoff float64

	pairs [][2]int
}

// RebuildPairList recomputes all pairs within the cutoff.
func (l *VerletList) RebuildPairList(pos []Vec3) error {
	cutoff2 := l.Cutoff * l.Cutoff
	l.pairs = l.pairs[:0]

	for i := 0; i < len(pos); i++ {
		for j := i + 1; j < len(pos); j++ {
			d2 := 0.0
			for k := 0; k < 3; k++ {
				d := pos[i][k] - pos[j][k]
				d2 += d * d
			}

			if d2 < cutoff2 {
				l.pairs = append(l.pairs, [2]int{i, j})
			}
		}
	}

	return nil
}

// Pairs returns the pairs found by the last rebuild.
func (l *VerletList) Pairs() [][2]int {
	return l.pairs
}
