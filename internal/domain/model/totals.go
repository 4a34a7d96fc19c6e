package model

// SubjectTotal is the canonical per-player season total: a count plus the
// known distances in admission order.
type SubjectTotal struct {
	HomeRuns  int       `json:"homeRuns"`
	Distances []float64 `json:"distances"`
}

// Snapshot is the frozen record of one logical day.
type Snapshot struct {
	Date         string                  `json:"date"`
	PlayerTotals map[string]SubjectTotal `json:"playerTotals"`
	TeamTotals   map[string]int          `json:"teamTotals"`
	HomeRuns     []Record                `json:"homeRuns"`
}

// CloneSubjectTotals deep-copies m.
func CloneSubjectTotals(m map[string]SubjectTotal) map[string]SubjectTotal {
	out := make(map[string]SubjectTotal, len(m))
	for k, v := range m {
		out[k] = SubjectTotal{
			HomeRuns:  v.HomeRuns,
			Distances: append([]float64(nil), v.Distances...),
		}
	}
	return out
}

// CloneGroupTotals copies m.
func CloneGroupTotals(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// CloneRecords copies rs. A nil input yields an empty, non-nil slice so it
// serializes as [].
func CloneRecords(rs []Record) []Record {
	return append(make([]Record, 0, len(rs)), rs...)
}
