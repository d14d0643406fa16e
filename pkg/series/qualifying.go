package series

import (
	"sort"

	"github.com/kumaabi/F1DataViz/pkg/helper"
	"github.com/kumaabi/F1DataViz/pkg/sessions"
)

// QualiRow is one row of a qualifying classification. Best is the quickest
// of Q3, Q2, Q1 in that order, or the fastest lap when the row was derived
// from lap data.
type QualiRow struct {
	Position    int     `json:"position"`
	Driver      string  `json:"driver"`
	DriverName  string  `json:"driverName,omitempty"`
	Team        string  `json:"team,omitempty"`
	Q1          float64 `json:"q1,omitempty"`
	Q2          float64 `json:"q2,omitempty"`
	Q3          float64 `json:"q3,omitempty"`
	Best        float64 `json:"best,omitempty"`
	BestDisplay string  `json:"bestDisplay,omitempty"`
	Compound    string  `json:"compound,omitempty"`
	FromLaps    bool    `json:"fromLaps,omitempty"`
}

// QualifyingClassification prefers the official results table and falls back
// to ranking each driver's fastest lap when the provider sent none.
func QualifyingClassification(s *sessions.Session) []QualiRow {
	if results := s.Results(); len(results) > 0 {
		rows := make([]QualiRow, 0, len(results))
		for _, r := range results {
			best := r.Q3
			if best == 0 {
				best = r.Q2
			}
			if best == 0 {
				best = r.Q1
			}
			rows = append(rows, QualiRow{
				Position:    r.Position,
				Driver:      r.Driver,
				DriverName:  r.DriverName,
				Team:        r.Team,
				Q1:          r.Q1,
				Q2:          r.Q2,
				Q3:          r.Q3,
				Best:        best,
				BestDisplay: helper.FormatLapTime(best),
			})
		}
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
		return rows
	}

	teams := driverTeams(s)
	var rows []QualiRow
	for _, driver := range selectDrivers(s, nil) {
		var best QualiRow
		for _, l := range s.Laps() {
			if l.Driver != driver || l.Time <= 0 {
				continue
			}
			if best.Best == 0 || l.Time < best.Best {
				best = QualiRow{
					Driver:      driver,
					Team:        teams[driver],
					Best:        l.Time,
					BestDisplay: helper.FormatLapTime(l.Time),
					Compound:    l.Compound,
					FromLaps:    true,
				}
			}
		}
		if best.Best > 0 {
			rows = append(rows, best)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Best < rows[j].Best })
	for i := range rows {
		rows[i].Position = i + 1
	}
	return rows
}
