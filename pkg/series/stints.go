package series

import (
	"sort"

	"github.com/kumaabi/F1DataViz/pkg/sessions"
)

// Stint is one run on a single tyre set.
type Stint struct {
	Number        int    `json:"number"`
	Compound      string `json:"compound"`
	StartLap      int    `json:"startLap"`
	EndLap        int    `json:"endLap"`
	Length        int    `json:"length"`
	StartTyreLife int    `json:"startTyreLife"`
	EndTyreLife   int    `json:"endTyreLife"`
}

type DriverStints struct {
	Driver string  `json:"driver"`
	Team   string  `json:"team,omitempty"`
	Stints []Stint `json:"stints"`
}

// Stints groups each driver's laps by stint number: compound, lap range,
// length and tyre-life range. Laps without stint data are ignored; drivers
// without any stint are dropped.
func Stints(s *sessions.Session, drivers ...string) []DriverStints {
	teams := driverTeams(s)
	var out []DriverStints
	for _, driver := range selectDrivers(s, drivers) {
		byNumber := make(map[int]*Stint)
		var numbers []int
		for _, l := range s.Laps() {
			if l.Driver != driver || l.Stint <= 0 {
				continue
			}
			st, ok := byNumber[l.Stint]
			if !ok {
				byNumber[l.Stint] = &Stint{
					Number:        l.Stint,
					Compound:      l.Compound,
					StartLap:      l.Lap,
					EndLap:        l.Lap,
					StartTyreLife: l.TyreLife,
					EndTyreLife:   l.TyreLife,
				}
				numbers = append(numbers, l.Stint)
				continue
			}
			if l.Lap < st.StartLap {
				st.StartLap = l.Lap
			}
			if l.Lap > st.EndLap {
				st.EndLap = l.Lap
			}
			if l.TyreLife < st.StartTyreLife {
				st.StartTyreLife = l.TyreLife
			}
			if l.TyreLife > st.EndTyreLife {
				st.EndTyreLife = l.TyreLife
			}
		}
		if len(numbers) == 0 {
			continue
		}
		sort.Ints(numbers)
		ds := DriverStints{Driver: driver, Team: teams[driver]}
		for _, n := range numbers {
			st := byNumber[n]
			st.Length = st.EndLap - st.StartLap + 1
			ds.Stints = append(ds.Stints, *st)
		}
		out = append(out, ds)
	}
	return out
}
