// Package series turns loaded sessions into chart-ready value series.
package series

import (
	"context"

	"github.com/kumaabi/F1DataViz/pkg/colors"
	"github.com/kumaabi/F1DataViz/pkg/f1api"
	"github.com/kumaabi/F1DataViz/pkg/sessions"
)

// Laps slower than this are traffic, in-laps or red-flag laps and never make
// it onto a chart.
const maxChartLapSeconds = 120

// LapPoint is one plotted lap.
type LapPoint struct {
	Lap      int     `json:"lap"`
	Seconds  float64 `json:"seconds"`
	Compound string  `json:"compound,omitempty"`
}

// DriverSeries is one driver's line on a lap chart.
type DriverSeries struct {
	Driver string     `json:"driver"`
	Team   string     `json:"team,omitempty"`
	Color  string     `json:"color"`
	Points []LapPoint `json:"points"`
}

// LapTimes returns each driver's accurate laps under the chart ceiling.
// Passing no drivers selects every driver of the session in first-seen
// order; drivers without a single chartable lap are dropped.
func LapTimes(s *sessions.Session, drivers ...string) []DriverSeries {
	teams := driverTeams(s)
	var out []DriverSeries
	for _, driver := range selectDrivers(s, drivers) {
		series := DriverSeries{Driver: driver, Team: teams[driver], Color: colors.ColorFor(driver, teams[driver])}
		for _, l := range s.Laps() {
			if l.Driver != driver || !chartable(l) {
				continue
			}
			series.Points = append(series.Points, LapPoint{Lap: l.Lap, Seconds: l.Time, Compound: l.Compound})
		}
		if len(series.Points) > 0 {
			out = append(out, series)
		}
	}
	return out
}

// DeltaPoint is one lap's gap to the reference driver, positive when slower.
type DeltaPoint struct {
	Lap   int     `json:"lap"`
	Delta float64 `json:"delta"`
}

type DeltaSeries struct {
	Driver string       `json:"driver"`
	Color  string       `json:"color"`
	Points []DeltaPoint `json:"points"`
}

// LapDeltas compares drivers lap by lap against a reference driver, using
// only laps where both sides have a chartable time. An unknown reference
// yields nothing.
func LapDeltas(s *sessions.Session, reference string, drivers ...string) []DeltaSeries {
	ref := make(map[int]float64)
	for _, l := range s.Laps() {
		if l.Driver == reference && chartable(l) {
			ref[l.Lap] = l.Time
		}
	}
	if len(ref) == 0 {
		return nil
	}
	teams := driverTeams(s)
	var out []DeltaSeries
	for _, driver := range selectDrivers(s, drivers) {
		if driver == reference {
			continue
		}
		series := DeltaSeries{Driver: driver, Color: colors.ColorFor(driver, teams[driver])}
		for _, l := range s.Laps() {
			if l.Driver != driver || !chartable(l) {
				continue
			}
			refTime, ok := ref[l.Lap]
			if !ok {
				continue
			}
			series.Points = append(series.Points, DeltaPoint{Lap: l.Lap, Delta: l.Time - refTime})
		}
		if len(series.Points) > 0 {
			out = append(out, series)
		}
	}
	return out
}

// PositionPoint is one lap's running position.
type PositionPoint struct {
	Lap      int `json:"lap"`
	Position int `json:"position"`
}

type PositionSeries struct {
	Driver string          `json:"driver"`
	Color  string          `json:"color"`
	Points []PositionPoint `json:"points"`
}

// Positions returns each driver's position lap by lap. Laps the provider has
// no position for are dropped.
func Positions(s *sessions.Session, drivers ...string) []PositionSeries {
	teams := driverTeams(s)
	var out []PositionSeries
	for _, driver := range selectDrivers(s, drivers) {
		series := PositionSeries{Driver: driver, Color: colors.ColorFor(driver, teams[driver])}
		for _, l := range s.Laps() {
			if l.Driver != driver || l.Position <= 0 {
				continue
			}
			series.Points = append(series.Points, PositionPoint{Lap: l.Lap, Position: l.Position})
		}
		if len(series.Points) > 0 {
			out = append(out, series)
		}
	}
	return out
}

// Weather returns the session's weather samples.
func Weather(s *sessions.Session) []f1api.WeatherSample {
	return s.Weather()
}

// TelemetrySeries is one driver's fastest-lap telemetry channels.
type TelemetrySeries struct {
	Driver  string                  `json:"driver"`
	Color   string                  `json:"color"`
	Samples []f1api.TelemetrySample `json:"samples"`
}

// Telemetry fetches the fastest-lap telemetry of one driver, lazily.
func Telemetry(ctx context.Context, s *sessions.Session, driver string) (TelemetrySeries, error) {
	samples, err := s.Telemetry(ctx, driver)
	if err != nil {
		return TelemetrySeries{}, err
	}
	return TelemetrySeries{
		Driver:  driver,
		Color:   colors.ColorFor(driver, driverTeams(s)[driver]),
		Samples: samples,
	}, nil
}

func chartable(l f1api.Lap) bool {
	return l.Accurate && l.Time > 0 && l.Time < maxChartLapSeconds
}

// selectDrivers returns the requested drivers, or every driver of the
// session in first-seen order when none are given.
func selectDrivers(s *sessions.Session, drivers []string) []string {
	if len(drivers) > 0 {
		return drivers
	}
	seen := make(map[string]bool)
	var out []string
	for _, l := range s.Laps() {
		if !seen[l.Driver] {
			seen[l.Driver] = true
			out = append(out, l.Driver)
		}
	}
	return out
}

func driverTeams(s *sessions.Session) map[string]string {
	teams := make(map[string]string)
	for _, r := range s.Results() {
		teams[r.Driver] = r.Team
	}
	return teams
}
