// Package types contains read shapes shared by the HTTP API and reports.
package types

// Standing is one fantasy team's row in the standings.
type Standing struct {
	Rank  string `json:"rank"`
	Team  string `json:"team"`
	Total int    `json:"total"`
}

// PlayerLine is one followed player's season line.
type PlayerLine struct {
	Player    string    `json:"player"`
	Team      string    `json:"team"`
	HomeRuns  int       `json:"homeRuns"`
	Distances []float64 `json:"distances,omitempty"`
}
