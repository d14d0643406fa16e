package standings

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/kumaabi/F1DataViz/pkg/f1api"
	"github.com/kumaabi/F1DataViz/pkg/schedule"
)

// Championship points by finishing position, current regulations.
var (
	racePoints   = map[int]float64{1: 25, 2: 18, 3: 15, 4: 12, 5: 10, 6: 8, 7: 6, 8: 4, 9: 2, 10: 1}
	sprintPoints = map[int]float64{1: 8, 2: 7, 3: 6, 4: 5, 5: 4, 6: 3, 7: 2, 8: 1}
)

// teamNames folds the timing feed's short team names into the official
// entry-list names so both feeds land on the same constructor row.
var teamNames = map[string]string{
	"Red Bull":         "Red Bull Racing Honda RBPT",
	"RB":               "Racing Bulls Honda RBPT",
	"Visa Cash App RB": "Racing Bulls Honda RBPT",
	"AlphaTauri":       "RB Honda RBPT",
	"Alpine":           "Alpine Renault",
	"Aston Martin":     "Aston Martin Aramco Mercedes",
	"Alfa Romeo":       "Stake F1 Team Kick Sauber",
	"Williams":         "Williams Mercedes",
	"Haas":             "Haas Ferrari",
	"McLaren":          "McLaren Mercedes",
}

// NormalizeTeam maps a short team name to its official entry-list name.
// Unknown names pass through unchanged.
func NormalizeTeam(name string) string {
	if mapped, ok := teamNames[name]; ok {
		return mapped
	}
	return name
}

// Calculator scores the current season straight from session classification
// tables, without waiting for the results API to publish totals.
type Calculator struct {
	client   *f1api.Client
	schedule *schedule.Manager
}

func NewCalculator(client *f1api.Client, schedule *schedule.Manager) *Calculator {
	return &Calculator{client: client, schedule: schedule}
}

// SeasonStandings walks the completed rounds of a season and scores the race
// and sprint classifications with the static points tables. Points come from
// the finishing position, never from the provider's point column, plus the
// fastest-lap bonus for a top-ten finisher. Rounds whose race document fails
// to load are logged and recorded in SkippedRounds on both tables.
func (c *Calculator) SeasonStandings(ctx context.Context, year int) (*Result, *Result) {
	drivers := &Result{Year: year}
	constructors := &Result{Year: year}

	completed, err := c.schedule.CompletedRounds(ctx, year, time.Now())
	if err != nil {
		log.Printf("Error determining completed rounds for %d: %s\n", year, err.Error())
		return drivers, constructors
	}
	drivers.ThroughRound = completed
	constructors.ThroughRound = completed

	driverAcc := newAccumulator()
	teamAcc := newAccumulator()
	for round := 1; round <= completed; round++ {
		event, ok := c.schedule.EventByRound(ctx, year, round)
		if !ok {
			log.Printf("Error resolving round %d of %d: not on the calendar\n", round, year)
			drivers.SkippedRounds = append(drivers.SkippedRounds, round)
			constructors.SkippedRounds = append(constructors.SkippedRounds, round)
			continue
		}

		race, err := c.client.Session(ctx, year, event.Name, "R")
		if err != nil {
			log.Printf("Error loading race session for %d round %d: %s\n", year, round, err.Error())
			drivers.SkippedRounds = append(drivers.SkippedRounds, round)
			constructors.SkippedRounds = append(constructors.SkippedRounds, round)
			continue
		}
		scoreRace(driverAcc, teamAcc, race.Results)

		sprint, err := c.client.Session(ctx, year, event.Name, "S")
		if err != nil {
			// Most rounds have no sprint.
			if !errors.Is(err, f1api.ErrNotFound) {
				log.Printf("Error loading sprint session for %d round %d: %s\n", year, round, err.Error())
			}
			continue
		}
		scoreSprint(driverAcc, teamAcc, sprint.Results)
	}

	drivers.Rows = driverAcc.ranked()
	constructors.Rows = teamAcc.ranked()
	return drivers, constructors
}

func scoreRace(drivers, teams *accumulator, results []f1api.SessionResult) {
	for _, r := range results {
		points := racePoints[r.Position]
		if r.FastestLapRank == 1 && r.Position >= 1 && r.Position <= 10 {
			points++
		}
		team := NormalizeTeam(r.Team)
		win := r.Position == 1
		drivers.add(r.Driver, r.DriverName, team, points, win)
		teams.add(team, "", "", points, win)
	}
}

func scoreSprint(drivers, teams *accumulator, results []f1api.SessionResult) {
	for _, r := range results {
		points := sprintPoints[r.Position]
		team := NormalizeTeam(r.Team)
		drivers.add(r.Driver, r.DriverName, team, points, false)
		teams.add(team, "", "", points, false)
	}
}
