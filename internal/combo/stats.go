package combo

// Stats summarizes a user's collection for the dashboard.
type Stats struct {
	TotalCombos     int `json:"totalCombos"`
	LongestSequence int `json:"longestSequence"`
	TotalMoves      int `json:"totalMoves"`
}

// ComputeStats aggregates the step lists of a collection. LongestSequence is the
// largest move count of a single combo.
func ComputeStats(collection [][]Step) Stats {
	st := Stats{TotalCombos: len(collection)}
	for _, steps := range collection {
		n := CountMoves(steps)
		st.TotalMoves += n
		if n > st.LongestSequence {
			st.LongestSequence = n
		}
	}
	return st
}
