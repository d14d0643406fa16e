package standings

import (
	"context"
	"log"

	"github.com/kumaabi/F1DataViz/pkg/f1api"
)

// Seasons before this one have their final tables precomputed by the results
// API; later seasons are accumulated round by round so mid-season queries
// and partially published seasons still work.
const providerStandingsSeason = 2018

// Aggregator builds championship tables from per-round race results.
type Aggregator struct {
	client *f1api.Client
}

func NewAggregator(client *f1api.Client) *Aggregator {
	return &Aggregator{client: client}
}

// DriverStandings accumulates driver points over rounds 1..throughRound.
// A round that fails to load is logged, recorded in SkippedRounds and
// contributes nothing.
func (a *Aggregator) DriverStandings(ctx context.Context, year, throughRound int) *Result {
	if year < providerStandingsSeason {
		return a.providerDrivers(ctx, year, throughRound)
	}
	res := &Result{Year: year, ThroughRound: throughRound}
	acc := newAccumulator()
	for round := 1; round <= throughRound; round++ {
		rows, err := a.client.RaceResults(ctx, year, round)
		if err != nil {
			log.Printf("Error loading race results for %d round %d: %s\n", year, round, err.Error())
			res.SkippedRounds = append(res.SkippedRounds, round)
			continue
		}
		for _, r := range rows {
			acc.add(entityCode(r), r.DriverName, r.Team, r.Points, r.Position == 1)
		}
	}
	res.Rows = acc.ranked()
	return res
}

// ConstructorStandings accumulates constructor points over rounds
// 1..throughRound, with the same skip-and-record behavior as
// DriverStandings.
func (a *Aggregator) ConstructorStandings(ctx context.Context, year, throughRound int) *Result {
	if year < providerStandingsSeason {
		return a.providerConstructors(ctx, year, throughRound)
	}
	res := &Result{Year: year, ThroughRound: throughRound}
	acc := newAccumulator()
	for round := 1; round <= throughRound; round++ {
		rows, err := a.client.RaceResults(ctx, year, round)
		if err != nil {
			log.Printf("Error loading race results for %d round %d: %s\n", year, round, err.Error())
			res.SkippedRounds = append(res.SkippedRounds, round)
			continue
		}
		for _, r := range rows {
			acc.add(r.Team, "", "", r.Points, r.Position == 1)
		}
	}
	res.Rows = acc.ranked()
	return res
}

func (a *Aggregator) providerDrivers(ctx context.Context, year, round int) *Result {
	res := &Result{Year: year, ThroughRound: round}
	rows, err := a.client.DriverStandings(ctx, year, round)
	if err != nil {
		log.Printf("Error loading driver standings for %d: %s\n", year, err.Error())
		return res
	}
	for _, r := range rows {
		entity := r.Driver
		if entity == "" {
			entity = r.DriverID
		}
		res.Rows = append(res.Rows, Row{
			Position: r.Position,
			Entity:   entity,
			Team:     r.Team,
			Points:   r.Points,
			Wins:     r.Wins,
		})
	}
	return res
}

func (a *Aggregator) providerConstructors(ctx context.Context, year, round int) *Result {
	res := &Result{Year: year, ThroughRound: round}
	rows, err := a.client.ConstructorStandings(ctx, year, round)
	if err != nil {
		log.Printf("Error loading constructor standings for %d: %s\n", year, err.Error())
		return res
	}
	for _, r := range rows {
		res.Rows = append(res.Rows, Row{
			Position: r.Position,
			Entity:   r.Team,
			Points:   r.Points,
			Wins:     r.Wins,
		})
	}
	return res
}

// entityCode keys a driver by abbreviation, falling back to the provider id
// for drivers that never raced with one.
func entityCode(r f1api.RaceResult) string {
	if r.Driver != "" {
		return r.Driver
	}
	return r.DriverID
}
