package history

// BuildTrend orders runs oldest first and computes deltas against the
// preceding run.
func BuildTrend(runs []RunSummary) []TrendPoint {
	points := make([]TrendPoint, 0, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		point := TrendPoint{RunSummary: runs[i]}
		if n := len(points); n > 0 {
			prev := points[n-1]
			point.DeltaFields = point.Fields - prev.Fields
			point.DeltaUnused = point.Unused - prev.Unused
			point.DeltaSelections = point.Selections - prev.Selections
		}
		points = append(points, point)
	}
	return points
}
