// Package standings accumulates per-driver and per-constructor point totals
// across the rounds of a season and ranks them.
package standings

import "sort"

// Row is one ranked entity: a driver code or a constructor name.
type Row struct {
	Position int     `json:"position"`
	Entity   string  `json:"entity"`
	Name     string  `json:"name,omitempty"`
	Team     string  `json:"team,omitempty"`
	Points   float64 `json:"points"`
	Wins     int     `json:"wins"`
}

// Result is a ranked standings table. SkippedRounds lists the rounds that
// failed to load and therefore contributed nothing, so callers can tell a
// complete answer from a degraded one.
type Result struct {
	Year          int   `json:"year"`
	ThroughRound  int   `json:"throughRound"`
	Rows          []Row `json:"rows"`
	SkippedRounds []int `json:"skippedRounds,omitempty"`
}

// Degraded reports whether any round was skipped.
func (r *Result) Degraded() bool {
	return len(r.SkippedRounds) > 0
}

// accumulator keeps entities in first-seen order so that ties rank
// deterministically.
type accumulator struct {
	index map[string]int
	rows  []Row
}

func newAccumulator() *accumulator {
	return &accumulator{index: make(map[string]int)}
}

func (a *accumulator) add(entity, name, team string, points float64, win bool) {
	i, ok := a.index[entity]
	if !ok {
		i = len(a.rows)
		a.index[entity] = i
		a.rows = append(a.rows, Row{Entity: entity, Name: name, Team: team})
	}
	a.rows[i].Points += points
	if win {
		a.rows[i].Wins++
	}
}

// ranked returns the rows sorted by descending points. Equal totals keep
// first-seen order; the stable sort over the insertion order provides that.
func (a *accumulator) ranked() []Row {
	out := make([]Row, len(a.rows))
	copy(out, a.rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}
