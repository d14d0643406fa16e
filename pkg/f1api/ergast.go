package f1api

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Clean, numeric views of the Ergast-compatible responses. The wire format
// carries every numeric as a string; decoding casts them here.

type Race struct {
	Season   int    `json:"season"`
	Round    int    `json:"round"`
	Name     string `json:"name"`
	Circuit  string `json:"circuit"`
	Locality string `json:"locality"`
	Country  string `json:"country"`
	Date     string `json:"date"`
}

type RaceResult struct {
	Position       int     `json:"position"`
	Driver         string  `json:"driver"`
	DriverID       string  `json:"driverId"`
	DriverName     string  `json:"driverName"`
	Team           string  `json:"team"`
	Points         float64 `json:"points"`
	Grid           int     `json:"grid"`
	Laps           int     `json:"laps"`
	Status         string  `json:"status"`
	FastestLapRank int     `json:"fastestLapRank"`
}

type QualifyingResult struct {
	Position int    `json:"position"`
	Driver   string `json:"driver"`
	Team     string `json:"team"`
	Q1       string `json:"q1"`
	Q2       string `json:"q2"`
	Q3       string `json:"q3"`
}

type StandingRow struct {
	Position int     `json:"position"`
	Driver   string  `json:"driver"`
	DriverID string  `json:"driverId"`
	Team     string  `json:"team"`
	Points   float64 `json:"points"`
	Wins     int     `json:"wins"`
}

type LapTiming struct {
	Lap      int     `json:"lap"`
	Driver   string  `json:"driver"`
	Position int     `json:"position"`
	Seconds  float64 `json:"seconds"`
}

// wire envelope

type mrData struct {
	MRData struct {
		Total     string `json:"total"`
		RaceTable struct {
			Races []wireRace `json:"Races"`
		} `json:"RaceTable"`
		StandingsTable struct {
			StandingsLists []struct {
				DriverStandings []struct {
					Position string `json:"position"`
					Points   string `json:"points"`
					Wins     string `json:"wins"`
					Driver   wireDriver
					Constructors []struct {
						Name string `json:"name"`
					} `json:"Constructors"`
				} `json:"DriverStandings"`
				ConstructorStandings []struct {
					Position    string `json:"position"`
					Points      string `json:"points"`
					Wins        string `json:"wins"`
					Constructor struct {
						Name string `json:"name"`
					} `json:"Constructor"`
				} `json:"ConstructorStandings"`
			} `json:"StandingsLists"`
		} `json:"StandingsTable"`
	} `json:"MRData"`
}

type wireDriver struct {
	DriverID   string `json:"driverId"`
	Code       string `json:"code"`
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
}

type wireRace struct {
	Season   string `json:"season"`
	Round    string `json:"round"`
	RaceName string `json:"raceName"`
	Date     string `json:"date"`
	Circuit  struct {
		CircuitName string `json:"circuitName"`
		Location    struct {
			Locality string `json:"locality"`
			Country  string `json:"country"`
		} `json:"Location"`
	} `json:"Circuit"`
	Results           []wireResult `json:"Results"`
	SprintResults     []wireResult `json:"SprintResults"`
	QualifyingResults []struct {
		Position    string `json:"position"`
		Driver      wireDriver
		Constructor struct {
			Name string `json:"name"`
		} `json:"Constructor"`
		Q1 string `json:"Q1"`
		Q2 string `json:"Q2"`
		Q3 string `json:"Q3"`
	} `json:"QualifyingResults"`
	Laps []struct {
		Number  string `json:"number"`
		Timings []struct {
			DriverID string `json:"driverId"`
			Position string `json:"position"`
			Time     string `json:"time"`
		} `json:"Timings"`
	} `json:"Laps"`
}

type wireResult struct {
	Position string `json:"position"`
	Points   string `json:"points"`
	Grid     string `json:"grid"`
	Laps     string `json:"laps"`
	Status   string `json:"status"`
	Driver   wireDriver
	Constructor struct {
		Name string `json:"name"`
	} `json:"Constructor"`
	FastestLap struct {
		Rank string `json:"rank"`
	} `json:"FastestLap"`
}

// Schedule returns the season calendar.
func (c *Client) Schedule(ctx context.Context, year int) ([]Race, error) {
	data, err := c.ergast(ctx, fmt.Sprintf("%d.json?limit=100", year))
	if err != nil {
		return nil, err
	}
	races := make([]Race, 0, len(data.MRData.RaceTable.Races))
	for _, w := range data.MRData.RaceTable.Races {
		races = append(races, Race{
			Season:   atoi(w.Season),
			Round:    atoi(w.Round),
			Name:     w.RaceName,
			Circuit:  w.Circuit.CircuitName,
			Locality: w.Circuit.Location.Locality,
			Country:  w.Circuit.Location.Country,
			Date:     w.Date,
		})
	}
	return races, nil
}

// RaceResults returns the classified race results of one round.
func (c *Client) RaceResults(ctx context.Context, year, round int) ([]RaceResult, error) {
	data, err := c.ergast(ctx, fmt.Sprintf("%d/%d/results.json?limit=100", year, round))
	if err != nil {
		return nil, err
	}
	if len(data.MRData.RaceTable.Races) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "results %d round %d", year, round)
	}
	return castResults(data.MRData.RaceTable.Races[0].Results), nil
}

// SprintResults returns the sprint-race results of one round, ErrNotFound
// when the round has no sprint.
func (c *Client) SprintResults(ctx context.Context, year, round int) ([]RaceResult, error) {
	data, err := c.ergast(ctx, fmt.Sprintf("%d/%d/sprint.json?limit=100", year, round))
	if err != nil {
		return nil, err
	}
	races := data.MRData.RaceTable.Races
	if len(races) == 0 || len(races[0].SprintResults) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "sprint %d round %d", year, round)
	}
	return castResults(races[0].SprintResults), nil
}

// QualifyingResults returns the qualifying classification of one round.
func (c *Client) QualifyingResults(ctx context.Context, year, round int) ([]QualifyingResult, error) {
	data, err := c.ergast(ctx, fmt.Sprintf("%d/%d/qualifying.json?limit=100", year, round))
	if err != nil {
		return nil, err
	}
	races := data.MRData.RaceTable.Races
	if len(races) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "qualifying %d round %d", year, round)
	}
	out := make([]QualifyingResult, 0, len(races[0].QualifyingResults))
	for _, w := range races[0].QualifyingResults {
		out = append(out, QualifyingResult{
			Position: atoi(w.Position),
			Driver:   w.Driver.Code,
			Team:     w.Constructor.Name,
			Q1:       w.Q1,
			Q2:       w.Q2,
			Q3:       w.Q3,
		})
	}
	return out, nil
}

// DriverStandings returns the provider-computed driver standings after the
// given round.
func (c *Client) DriverStandings(ctx context.Context, year, round int) ([]StandingRow, error) {
	data, err := c.ergast(ctx, fmt.Sprintf("%d/%d/driverStandings.json?limit=100", year, round))
	if err != nil {
		return nil, err
	}
	lists := data.MRData.StandingsTable.StandingsLists
	if len(lists) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "driver standings %d round %d", year, round)
	}
	rows := make([]StandingRow, 0, len(lists[0].DriverStandings))
	for _, w := range lists[0].DriverStandings {
		team := ""
		if len(w.Constructors) > 0 {
			team = w.Constructors[len(w.Constructors)-1].Name
		}
		rows = append(rows, StandingRow{
			Position: atoi(w.Position),
			Driver:   w.Driver.Code,
			DriverID: w.Driver.DriverID,
			Team:     team,
			Points:   atof(w.Points),
			Wins:     atoi(w.Wins),
		})
	}
	return rows, nil
}

// ConstructorStandings returns the provider-computed constructor standings
// after the given round.
func (c *Client) ConstructorStandings(ctx context.Context, year, round int) ([]StandingRow, error) {
	data, err := c.ergast(ctx, fmt.Sprintf("%d/%d/constructorStandings.json?limit=100", year, round))
	if err != nil {
		return nil, err
	}
	lists := data.MRData.StandingsTable.StandingsLists
	if len(lists) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "constructor standings %d round %d", year, round)
	}
	rows := make([]StandingRow, 0, len(lists[0].ConstructorStandings))
	for _, w := range lists[0].ConstructorStandings {
		rows = append(rows, StandingRow{
			Position: atoi(w.Position),
			Team:     w.Constructor.Name,
			Points:   atof(w.Points),
			Wins:     atoi(w.Wins),
		})
	}
	return rows, nil
}

// LapTimings returns every lap timing of one round, following the provider's
// limit/offset paging until the reported total is collected.
func (c *Client) LapTimings(ctx context.Context, year, round int) ([]LapTiming, error) {
	const pageSize = 1000
	byLap := make(map[int][]LapTiming)
	for offset := 0; ; offset += pageSize {
		data, err := c.ergast(ctx, fmt.Sprintf("%d/%d/laps.json?limit=%d&offset=%d", year, round, pageSize, offset))
		if err != nil {
			return nil, err
		}
		races := data.MRData.RaceTable.Races
		count := 0
		if len(races) > 0 {
			for _, lap := range races[0].Laps {
				n := atoi(lap.Number)
				for _, t := range lap.Timings {
					byLap[n] = append(byLap[n], LapTiming{
						Lap:      n,
						Driver:   t.DriverID,
						Position: atoi(t.Position),
						Seconds:  ParseLapTime(t.Time),
					})
					count++
				}
			}
		}
		total := atoi(data.MRData.Total)
		if offset+count >= total || count == 0 {
			break
		}
	}

	laps := make([]int, 0, len(byLap))
	for n := range byLap {
		laps = append(laps, n)
	}
	sort.Ints(laps)
	var out []LapTiming
	for _, n := range laps {
		out = append(out, byLap[n]...)
	}
	return out, nil
}

func (c *Client) ergast(ctx context.Context, path string) (*mrData, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/%s", c.ergastBase, path))
	if err != nil {
		return nil, err
	}
	var data mrData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return &data, nil
}

func castResults(results []wireResult) []RaceResult {
	out := make([]RaceResult, 0, len(results))
	for _, w := range results {
		out = append(out, RaceResult{
			Position:       atoi(w.Position),
			Driver:         w.Driver.Code,
			DriverID:       w.Driver.DriverID,
			DriverName:     strings.TrimSpace(w.Driver.GivenName + " " + w.Driver.FamilyName),
			Team:           w.Constructor.Name,
			Points:         atof(w.Points),
			Grid:           atoi(w.Grid),
			Laps:           atoi(w.Laps),
			Status:         w.Status,
			FastestLapRank: atoi(w.FastestLap.Rank),
		})
	}
	return out
}

// ParseLapTime converts "M:SS.mmm" (or "SS.mmm") to seconds, 0 when empty or
// malformed.
func ParseLapTime(s string) float64 {
	if s == "" {
		return 0
	}
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		return atof(parts[0])
	case 2:
		return float64(atoi(parts[0]))*60 + atof(parts[1])
	case 3:
		return float64(atoi(parts[0]))*3600 + float64(atoi(parts[1]))*60 + atof(parts[2])
	}
	return 0
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
