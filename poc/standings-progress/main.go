package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

var (
	base = flag.String("base", "http://localhost:8080", "f1dataviz base url")
	year = flag.Int("year", time.Now().Year(), "season")
)

type standingsDoc struct {
	Year         int `json:"year"`
	ThroughRound int `json:"throughRound"`
	Rows         []struct {
		Position int     `json:"position"`
		Entity   string  `json:"entity"`
		Name     string  `json:"name"`
		Points   float64 `json:"points"`
	} `json:"rows"`
}

func main() {
	flag.Parse()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/standings/%d/drivers", *base, *year))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	var doc standingsDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		panic(err)
	}
	if len(doc.Rows) == 0 {
		fmt.Printf("no standings for %d\n", *year)
		return
	}

	pw := progress.NewWriter()
	pw.SetAutoStop(false)
	pw.SetTrackerLength(34)
	pw.SetMessageWidth(10)
	pw.SetNumTrackersExpected(len(doc.Rows))
	pw.SetSortBy(progress.SortByMessage)
	pw.SetStyle(progress.StyleDefault)
	pw.SetTrackerPosition(progress.PositionRight)
	pw.SetUpdateFrequency(time.Millisecond * 100)
	pw.Style().Colors = progress.StyleColorsDefault
	pw.Style().Options.Separator = ""
	pw.Style().Visibility.ETA = false
	pw.Style().Visibility.ETAOverall = false
	pw.Style().Visibility.Percentage = false
	pw.Style().Visibility.Speed = false
	pw.Style().Visibility.SpeedOverall = false
	pw.Style().Visibility.Time = false
	pw.Style().Visibility.TrackerOverall = false
	pw.Style().Visibility.Value = true
	pw.Style().Visibility.Pinned = false
	pw.Style().Chars.BoxLeft = "|"
	pw.Style().Chars.BoxRight = "🏁"
	pw.Style().Chars.Finished = "-"
	pw.Style().Chars.Finished25 = "-"
	pw.Style().Chars.Finished50 = "-"
	pw.Style().Chars.Finished75 = "-"
	pw.Style().Chars.Unfinished = " "

	go pw.Render()

	// Bars scale against the leader.
	leader := doc.Rows[0].Points
	if leader == 0 {
		leader = 1
	}
	for _, row := range doc.Rows {
		tracker := progress.Tracker{
			Message: fmt.Sprintf("%02d %s", row.Position, row.Entity),
			Total:   int64(leader),
			Units:   progress.UnitsDefault,
		}
		tracker.SetValue(int64(row.Points))
		pw.AppendTracker(&tracker)
	}

	time.Sleep(2 * time.Second)
	pw.Stop()
	fmt.Printf("\n%d drivers' standings through round %d\n", doc.Year, doc.ThroughRound)
}
