package series

import (
	"sort"

	"github.com/kumaabi/F1DataViz/pkg/sessions"
)

// SectorBest is the session-wide best of one sector, or the fastest lap
// overall.
type SectorBest struct {
	Driver  string  `json:"driver"`
	Seconds float64 `json:"seconds"`
	Lap     int     `json:"lap"`
}

// DriverSectors is one driver's fastest lap and best individual sectors,
// each with the lap it was set on, plus the gaps to the session bests.
type DriverSectors struct {
	Driver           string  `json:"driver"`
	Team             string  `json:"team,omitempty"`
	FastestLap       float64 `json:"fastestLap"`
	FastestLapNumber int     `json:"fastestLapNumber"`
	S1               float64 `json:"s1"`
	S1Lap            int     `json:"s1Lap"`
	S1Delta          float64 `json:"s1Delta"`
	S2               float64 `json:"s2"`
	S2Lap            int     `json:"s2Lap"`
	S2Delta          float64 `json:"s2Delta"`
	S3               float64 `json:"s3"`
	S3Lap            int     `json:"s3Lap"`
	S3Delta          float64 `json:"s3Delta"`
}

// SectorAnalysis is the full sector comparison of a session.
type SectorAnalysis struct {
	Rows            []DriverSectors `json:"rows"`
	S1Best          SectorBest      `json:"s1Best"`
	S2Best          SectorBest      `json:"s2Best"`
	S3Best          SectorBest      `json:"s3Best"`
	FastestOverall  SectorBest      `json:"fastestOverall"`
	TheoreticalBest float64         `json:"theoreticalBest"`
}

// SectorBests compares every driver's best sectors. Only laps carrying a
// complete set of lap and sector times count. Rows come back ordered by
// fastest lap; nil when the session has no usable laps.
func SectorBests(s *sessions.Session) *SectorAnalysis {
	teams := driverTeams(s)
	analysis := &SectorAnalysis{}
	byDriver := make(map[string]*DriverSectors)
	var order []string

	for _, l := range s.Laps() {
		if l.Time <= 0 || l.S1 <= 0 || l.S2 <= 0 || l.S3 <= 0 {
			continue
		}
		d, ok := byDriver[l.Driver]
		if !ok {
			d = &DriverSectors{Driver: l.Driver, Team: teams[l.Driver]}
			byDriver[l.Driver] = d
			order = append(order, l.Driver)
		}
		if d.FastestLap == 0 || l.Time < d.FastestLap {
			d.FastestLap, d.FastestLapNumber = l.Time, l.Lap
		}
		if d.S1 == 0 || l.S1 < d.S1 {
			d.S1, d.S1Lap = l.S1, l.Lap
		}
		if d.S2 == 0 || l.S2 < d.S2 {
			d.S2, d.S2Lap = l.S2, l.Lap
		}
		if d.S3 == 0 || l.S3 < d.S3 {
			d.S3, d.S3Lap = l.S3, l.Lap
		}
		if analysis.FastestOverall.Seconds == 0 || l.Time < analysis.FastestOverall.Seconds {
			analysis.FastestOverall = SectorBest{Driver: l.Driver, Seconds: l.Time, Lap: l.Lap}
		}
		if analysis.S1Best.Seconds == 0 || l.S1 < analysis.S1Best.Seconds {
			analysis.S1Best = SectorBest{Driver: l.Driver, Seconds: l.S1, Lap: l.Lap}
		}
		if analysis.S2Best.Seconds == 0 || l.S2 < analysis.S2Best.Seconds {
			analysis.S2Best = SectorBest{Driver: l.Driver, Seconds: l.S2, Lap: l.Lap}
		}
		if analysis.S3Best.Seconds == 0 || l.S3 < analysis.S3Best.Seconds {
			analysis.S3Best = SectorBest{Driver: l.Driver, Seconds: l.S3, Lap: l.Lap}
		}
	}
	if len(order) == 0 {
		return nil
	}

	for _, driver := range order {
		d := byDriver[driver]
		d.S1Delta = d.S1 - analysis.S1Best.Seconds
		d.S2Delta = d.S2 - analysis.S2Best.Seconds
		d.S3Delta = d.S3 - analysis.S3Best.Seconds
		analysis.Rows = append(analysis.Rows, *d)
	}
	sort.SliceStable(analysis.Rows, func(i, j int) bool {
		return analysis.Rows[i].FastestLap < analysis.Rows[j].FastestLap
	})
	analysis.TheoreticalBest = analysis.S1Best.Seconds + analysis.S2Best.Seconds + analysis.S3Best.Seconds
	return analysis
}
