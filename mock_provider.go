package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/kumaabi/F1DataViz/pkg/f1api"
	"github.com/kumaabi/F1DataViz/pkg/helper"
	"github.com/kumaabi/F1DataViz/pkg/schedule"
)

// mockProvider is an in-process stand-in for the session and results APIs,
// built from the projected calendar and grid. Enable it with F1VIZ_MOCK=1 to
// run the whole service without network access.
type mockProvider struct {
	season  int
	events  []schedule.Event
	drivers []schedule.Driver
	ln      net.Listener
	srv     *http.Server
}

var (
	mockRacePoints   = []float64{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}
	mockSprintPoints = []float64{8, 7, 6, 5, 4, 3, 2, 1}
)

func startMockProvider(season int) (*mockProvider, error) {
	p := &mockProvider{
		season:  season,
		events:  schedule.ProjectedCalendar(),
		drivers: schedule.ProjectedDrivers(),
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/capabilities", p.capabilitiesHandler)
	r.HandleFunc("/api/v1/seasons/{year:[0-9]+}/events", p.eventsHandler)
	r.HandleFunc("/api/v1/seasons/{year:[0-9]+}/events/{event}", p.eventHandler)
	r.HandleFunc("/api/v1/seasons/{year:[0-9]+}/events/{event}/sessions/{code}", p.sessionHandler)
	r.HandleFunc("/api/v1/seasons/{year:[0-9]+}/events/{event}/sessions/{code}/telemetry/{driver}", p.telemetryHandler)
	r.HandleFunc("/api/v1/archive/{year:[0-9]+}/events/{event}/sessions/{code}", p.sessionHandler)
	r.HandleFunc("/{year:[0-9]+}.json", p.scheduleHandler)
	r.HandleFunc("/{year:[0-9]+}/{round:[0-9]+}/results.json", p.resultsHandler)
	r.HandleFunc("/{year:[0-9]+}/{round:[0-9]+}/sprint.json", p.sprintHandler)
	r.HandleFunc("/{year:[0-9]+}/{round:[0-9]+}/qualifying.json", p.qualifyingHandler)
	r.HandleFunc("/{year:[0-9]+}/{round:[0-9]+}/driverStandings.json", p.driverStandingsHandler)
	r.HandleFunc("/{year:[0-9]+}/{round:[0-9]+}/constructorStandings.json", p.constructorStandingsHandler)
	r.HandleFunc("/{year:[0-9]+}/{round:[0-9]+}/laps.json", p.lapsHandler)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	p.ln = ln
	p.srv = &http.Server{Handler: r}
	go func() {
		if err := p.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("Error serving mock provider: %s\n", err.Error())
		}
	}()
	return p, nil
}

func (p *mockProvider) URL() string {
	return "http://" + p.ln.Addr().String()
}

func (p *mockProvider) Close() {
	p.srv.Close()
}

func (p *mockProvider) capabilitiesHandler(w http.ResponseWriter, r *http.Request) {
	writeDoc(w, map[string]bool{"archive": true})
}

func (p *mockProvider) eventsHandler(w http.ResponseWriter, r *http.Request) {
	year := atoiVar(r, "year")
	metas := make([]f1api.EventMeta, 0, len(p.events))
	for _, ev := range p.events {
		metas = append(metas, p.eventMeta(year, ev))
	}
	writeDoc(w, metas)
}

func (p *mockProvider) eventHandler(w http.ResponseWriter, r *http.Request) {
	year := atoiVar(r, "year")
	ev, ok := p.eventByName(mux.Vars(r)["event"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeDoc(w, p.eventMeta(year, ev))
}

func (p *mockProvider) sessionHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year := atoiVar(r, "year")
	ev, ok := p.eventByName(vars["event"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	code := vars["code"]
	if !p.hasSession(ev.Round, code) {
		http.NotFound(w, r)
		return
	}
	writeDoc(w, p.sessionDoc(year, ev, code))
}

func (p *mockProvider) telemetryHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ev, ok := p.eventByName(vars["event"])
	if !ok || !p.hasSession(ev.Round, vars["code"]) {
		http.NotFound(w, r)
		return
	}
	if _, ok := p.driverByCode(vars["driver"]); !ok {
		http.NotFound(w, r)
		return
	}
	samples := make([]f1api.TelemetrySample, 0, 40)
	for k := 0; k < 40; k++ {
		speed := 90 + float64((k*23)%240)
		gear := 1 + int(speed/45)
		if gear > 8 {
			gear = 8
		}
		accelerating := k%8 < 5
		throttle := 0.0
		drs := 8
		if accelerating {
			throttle = 100
			if k%8 == 4 {
				drs = 12
			}
		}
		samples = append(samples, f1api.TelemetrySample{
			Distance: float64(k) * 130,
			Speed:    speed,
			RPM:      6000 + speed*20,
			Throttle: throttle,
			Brake:    !accelerating,
			Gear:     gear,
			DRS:      drs,
		})
	}
	writeDoc(w, samples)
}

func (p *mockProvider) scheduleHandler(w http.ResponseWriter, r *http.Request) {
	year := atoiVar(r, "year")
	races := make([]map[string]any, 0, len(p.events))
	for _, ev := range p.events {
		races = append(races, map[string]any{
			"season":   strconv.Itoa(year),
			"round":    strconv.Itoa(ev.Round),
			"raceName": ev.Name,
			"date":     p.eventDate(year, ev).Format("2006-01-02"),
			"Circuit": map[string]any{
				"circuitName": ev.Circuit,
				"Location": map[string]any{
					"locality": ev.Locality,
					"country":  ev.Country,
				},
			},
		})
	}
	writeDoc(w, wrapRaces(len(races), races...))
}

func (p *mockProvider) resultsHandler(w http.ResponseWriter, r *http.Request) {
	round := atoiVar(r, "round")
	if round < 1 || round > len(p.events) {
		http.NotFound(w, r)
		return
	}
	order := p.finishingOrder(round)
	rows := make([]map[string]any, 0, len(order))
	for pos, d := range order {
		rank := strconv.Itoa(pos + 1)
		rows = append(rows, map[string]any{
			"position":    strconv.Itoa(pos + 1),
			"points":      fmt.Sprintf("%g", pointsFor(mockRacePoints, pos)),
			"grid":        strconv.Itoa(pos + 1),
			"laps":        "57",
			"status":      "Finished",
			"Driver":      wireDriverDoc(d),
			"Constructor": map[string]any{"name": d.Team},
			"FastestLap":  map[string]any{"rank": rank},
		})
	}
	writeDoc(w, wrapRaces(len(rows), map[string]any{"Results": rows}))
}

func (p *mockProvider) sprintHandler(w http.ResponseWriter, r *http.Request) {
	round := atoiVar(r, "round")
	if round < 1 || round > len(p.events) || !isSprintRound(round) {
		http.NotFound(w, r)
		return
	}
	order := p.finishingOrder(round + 1)
	rows := make([]map[string]any, 0, len(order))
	for pos, d := range order {
		rows = append(rows, map[string]any{
			"position":    strconv.Itoa(pos + 1),
			"points":      fmt.Sprintf("%g", pointsFor(mockSprintPoints, pos)),
			"grid":        strconv.Itoa(pos + 1),
			"laps":        "19",
			"status":      "Finished",
			"Driver":      wireDriverDoc(d),
			"Constructor": map[string]any{"name": d.Team},
		})
	}
	writeDoc(w, wrapRaces(len(rows), map[string]any{"SprintResults": rows}))
}

func (p *mockProvider) qualifyingHandler(w http.ResponseWriter, r *http.Request) {
	round := atoiVar(r, "round")
	if round < 1 || round > len(p.events) {
		http.NotFound(w, r)
		return
	}
	order := p.finishingOrder(round)
	rows := make([]map[string]any, 0, len(order))
	for pos, d := range order {
		base := 87.2 + float64(pos)*0.18
		row := map[string]any{
			"position":    strconv.Itoa(pos + 1),
			"Driver":      wireDriverDoc(d),
			"Constructor": map[string]any{"name": d.Team},
			"Q1":          helper.FormatLapTime(base + 0.9),
		}
		if pos < 15 {
			row["Q2"] = helper.FormatLapTime(base + 0.4)
		}
		if pos < 10 {
			row["Q3"] = helper.FormatLapTime(base)
		}
		rows = append(rows, row)
	}
	writeDoc(w, wrapRaces(len(rows), map[string]any{"QualifyingResults": rows}))
}

func (p *mockProvider) driverStandingsHandler(w http.ResponseWriter, r *http.Request) {
	round := atoiVar(r, "round")
	if round < 1 {
		http.NotFound(w, r)
		return
	}
	if round > len(p.events) {
		round = len(p.events)
	}
	totals, wins := p.cumulativePoints(round)
	order := sortedByPoints(totals)
	rows := make([]map[string]any, 0, len(order))
	for pos, i := range order {
		d := p.drivers[i]
		rows = append(rows, map[string]any{
			"position":     strconv.Itoa(pos + 1),
			"points":       fmt.Sprintf("%g", totals[i]),
			"wins":         strconv.Itoa(wins[i]),
			"Driver":       wireDriverDoc(d),
			"Constructors": []map[string]any{{"name": d.Team}},
		})
	}
	writeDoc(w, wrapStandings(map[string]any{"DriverStandings": rows}))
}

func (p *mockProvider) constructorStandingsHandler(w http.ResponseWriter, r *http.Request) {
	round := atoiVar(r, "round")
	if round < 1 {
		http.NotFound(w, r)
		return
	}
	if round > len(p.events) {
		round = len(p.events)
	}
	totals, wins := p.cumulativePoints(round)

	teamPoints := map[string]float64{}
	teamWins := map[string]int{}
	teams := make([]string, 0)
	for i, d := range p.drivers {
		if _, seen := teamPoints[d.Team]; !seen {
			teams = append(teams, d.Team)
		}
		teamPoints[d.Team] += totals[i]
		teamWins[d.Team] += wins[i]
	}
	for i := range teams {
		for j := i + 1; j < len(teams); j++ {
			if teamPoints[teams[j]] > teamPoints[teams[i]] {
				teams[i], teams[j] = teams[j], teams[i]
			}
		}
	}
	rows := make([]map[string]any, 0, len(teams))
	for pos, team := range teams {
		rows = append(rows, map[string]any{
			"position":    strconv.Itoa(pos + 1),
			"points":      fmt.Sprintf("%g", teamPoints[team]),
			"wins":        strconv.Itoa(teamWins[team]),
			"Constructor": map[string]any{"name": team},
		})
	}
	writeDoc(w, wrapStandings(map[string]any{"ConstructorStandings": rows}))
}

func (p *mockProvider) lapsHandler(w http.ResponseWriter, r *http.Request) {
	round := atoiVar(r, "round")
	if round < 1 || round > len(p.events) {
		http.NotFound(w, r)
		return
	}
	order := p.finishingOrder(round)
	const nLaps = 24
	laps := make([]map[string]any, 0, nLaps)
	for lap := 1; lap <= nLaps; lap++ {
		timings := make([]map[string]any, 0, len(order))
		for pos, d := range order {
			t := 88.0 + float64(pos)*0.22 + 0.07*float64((lap*13+pos*7)%11)
			timings = append(timings, map[string]any{
				"driverId": d.ID,
				"position": strconv.Itoa(pos + 1),
				"time":     helper.FormatLapTime(t),
			})
		}
		laps = append(laps, map[string]any{
			"number":  strconv.Itoa(lap),
			"Timings": timings,
		})
	}
	writeDoc(w, wrapRaces(nLaps*len(order), map[string]any{"Laps": laps}))
}

// eventMeta advertises the weekend's sessions. Every fourth round runs the
// sprint format.
func (p *mockProvider) eventMeta(year int, ev schedule.Event) f1api.EventMeta {
	date := p.eventDate(year, ev)
	day := func(offset int) string {
		return date.AddDate(0, 0, offset).Format("2006-01-02")
	}
	meta := f1api.EventMeta{
		Season:   year,
		Round:    ev.Round,
		Name:     ev.Name,
		Country:  ev.Country,
		Locality: ev.Locality,
		Date:     day(0),
		Format:   "conventional",
		Sessions: map[string]string{
			"FP1": day(-2),
			"Q":   day(-1),
			"R":   day(0),
		},
	}
	if isSprintRound(ev.Round) {
		meta.Format = "sprint_qualifying"
		meta.Sessions["S"] = day(-1)
	} else {
		meta.Sessions["FP2"] = day(-2)
		meta.Sessions["FP3"] = day(-1)
	}
	return meta
}

func (p *mockProvider) sessionDoc(year int, ev schedule.Event, code string) f1api.SessionData {
	doc := f1api.SessionData{
		Season: year,
		Event:  ev.Name,
		Code:   code,
		Name:   sessionName(code),
	}

	order := p.drivers
	nLaps := 14
	compounds := []string{"MEDIUM"}
	switch {
	case code == "R":
		order = p.finishingOrder(ev.Round)
		nLaps = 24
		compounds = []string{"SOFT", "MEDIUM"}
	case strings.HasPrefix(code, "S"):
		order = p.finishingOrder(ev.Round + 1)
		nLaps = 10
		compounds = []string{"SOFT"}
	case strings.HasPrefix(code, "Q"):
		order = p.finishingOrder(ev.Round)
		nLaps = 8
		compounds = []string{"SOFT"}
	}

	stintLen := nLaps
	if len(compounds) > 1 {
		stintLen = nLaps / len(compounds)
	}
	for pos, d := range order {
		base := 88.0 + float64(pos)*0.22 + float64(ev.Round%5)*0.1
		for lap := 1; lap <= nLaps; lap++ {
			stint := (lap-1)/stintLen + 1
			if stint > len(compounds) {
				stint = len(compounds)
			}
			t := base + 0.07*float64((lap*13+pos*7)%11)
			outLap := stint > 1 && (lap-1)%stintLen == 0
			if outLap {
				t += 22 // pit lane pass-through
			}
			s1 := t * 0.29
			s2 := t * 0.36
			doc.Laps = append(doc.Laps, f1api.Lap{
				Driver:   d.Code,
				Lap:      lap,
				Time:     t,
				S1:       s1,
				S2:       s2,
				S3:       t - s1 - s2,
				Compound: compounds[stint-1],
				Stint:    stint,
				TyreLife: (lap-1)%stintLen + 1,
				Position: pos + 1,
				Accurate: !outLap,
			})
		}
	}

	doc.Results = p.sessionResults(code, order)
	for k := 0; k < 10; k++ {
		doc.Weather = append(doc.Weather, f1api.WeatherSample{
			Time:      float64(k) * 600,
			AirTemp:   22 + 0.4*float64(k%5),
			TrackTemp: 33.5 + 0.4*float64(k%5),
			Humidity:  38 + float64(k),
			Rainfall:  false,
			WindSpeed: 1.5 + 0.2*float64(k),
		})
	}
	return doc
}

func (p *mockProvider) sessionResults(code string, order []schedule.Driver) []f1api.SessionResult {
	if strings.HasPrefix(code, "FP") {
		return nil
	}
	results := make([]f1api.SessionResult, 0, len(order))
	for pos, d := range order {
		res := f1api.SessionResult{
			Position:   pos + 1,
			Driver:     d.Code,
			DriverName: d.Name,
			Team:       d.Team,
			Grid:       pos + 1,
			Status:     "Finished",
		}
		switch {
		case code == "R":
			res.Points = pointsFor(mockRacePoints, pos)
			res.FastestLapRank = pos + 1
		case strings.HasPrefix(code, "S"):
			res.Points = pointsFor(mockSprintPoints, pos)
		default:
			base := 87.2 + float64(pos)*0.18
			res.Q1 = base + 0.9
			if pos < 15 {
				res.Q2 = base + 0.4
			}
			if pos < 10 {
				res.Q3 = base
			}
		}
		results = append(results, res)
	}
	return results
}

// cumulativePoints totals race and sprint points per driver index through the
// given round, fastest lap bonus included.
func (p *mockProvider) cumulativePoints(round int) (map[int]float64, map[int]int) {
	totals := map[int]float64{}
	wins := map[int]int{}
	for i := range p.drivers {
		totals[i] = 0
	}
	byIndex := map[string]int{}
	for i, d := range p.drivers {
		byIndex[d.Code] = i
	}
	for rd := 1; rd <= round; rd++ {
		for pos, d := range p.finishingOrder(rd) {
			i := byIndex[d.Code]
			totals[i] += pointsFor(mockRacePoints, pos)
			if pos == 0 {
				totals[i]++ // fastest lap
				wins[i]++
			}
		}
		if !isSprintRound(rd) {
			continue
		}
		for pos, d := range p.finishingOrder(rd + 1) {
			totals[byIndex[d.Code]] += pointsFor(mockSprintPoints, pos)
		}
	}
	return totals, wins
}

// finishingOrder rotates the grid by the round number so the winner varies.
func (p *mockProvider) finishingOrder(round int) []schedule.Driver {
	n := len(p.drivers)
	order := make([]schedule.Driver, n)
	for j := 0; j < n; j++ {
		order[j] = p.drivers[(j+round-1)%n]
	}
	return order
}

func (p *mockProvider) eventByName(name string) (schedule.Event, bool) {
	for _, ev := range p.events {
		if ev.Name == name {
			return ev, true
		}
	}
	return schedule.Event{}, false
}

func (p *mockProvider) driverByCode(code string) (schedule.Driver, bool) {
	for _, d := range p.drivers {
		if d.Code == code {
			return d, true
		}
	}
	return schedule.Driver{}, false
}

func (p *mockProvider) hasSession(round int, code string) bool {
	switch code {
	case "R", "Q", "Q1", "Q2", "Q3", "FP1":
		return true
	case "S", "SQ1", "SQ2", "SQ3":
		return isSprintRound(round)
	case "FP2", "FP3":
		return !isSprintRound(round)
	}
	return false
}

// eventDate shifts the projected date into the requested year so recency
// checks behave.
func (p *mockProvider) eventDate(year int, ev schedule.Event) time.Time {
	d := ev.Date
	return time.Date(year, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func isSprintRound(round int) bool {
	return round%4 == 2
}

func sessionName(code string) string {
	switch code {
	case "R":
		return "Race"
	case "S", "SQ1", "SQ2", "SQ3":
		return "Sprint"
	case "Q", "Q1", "Q2", "Q3":
		return "Qualifying"
	case "FP1":
		return "Practice 1"
	case "FP2":
		return "Practice 2"
	case "FP3":
		return "Practice 3"
	}
	return code
}

func pointsFor(table []float64, pos int) float64 {
	if pos < len(table) {
		return table[pos]
	}
	return 0
}

// sortedByPoints returns driver indexes ordered by points, highest first.
func sortedByPoints(totals map[int]float64) []int {
	order := make([]int, 0, len(totals))
	for i := range totals {
		order = append(order, i)
	}
	sort.Slice(order, func(a, b int) bool {
		if totals[order[a]] != totals[order[b]] {
			return totals[order[a]] > totals[order[b]]
		}
		return order[a] < order[b]
	})
	return order
}

func wireDriverDoc(d schedule.Driver) map[string]any {
	given, family, _ := strings.Cut(d.Name, " ")
	return map[string]any{
		"driverId":   d.ID,
		"code":       d.Code,
		"givenName":  given,
		"familyName": family,
	}
}

func wrapRaces(total int, races ...map[string]any) map[string]any {
	return map[string]any{
		"MRData": map[string]any{
			"total": strconv.Itoa(total),
			"RaceTable": map[string]any{
				"Races": races,
			},
		},
	}
}

func wrapStandings(list map[string]any) map[string]any {
	return map[string]any{
		"MRData": map[string]any{
			"total": "1",
			"StandingsTable": map[string]any{
				"StandingsLists": []map[string]any{list},
			},
		},
	}
}

func atoiVar(r *http.Request, name string) int {
	n, _ := strconv.Atoi(mux.Vars(r)[name])
	return n
}

func writeDoc(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding mock document: %s\n", err.Error())
	}
}
