package f1api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"

	"github.com/kumaabi/F1DataViz/pkg/cache"
)

// rawProvider serves pre-encoded bodies keyed by path and counts requests.
type rawProvider struct {
	raw  map[string]string
	hits map[string]int
}

func newRawProvider() *rawProvider {
	return &rawProvider{raw: make(map[string]string), hits: make(map[string]int)}
}

func (f *rawProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits[r.URL.Path]++
	if body, ok := f.raw[r.URL.Path]; ok {
		w.Write([]byte(body))
		return
	}
	http.NotFound(w, r)
}

func newRawClient(t *testing.T, f http.Handler, store *cache.Cache) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.URL, store)
}

func TestSessionNotFoundMapsToSentinel(t *testing.T) {
	c := newRawClient(t, newRawProvider(), nil)

	_, err := c.Session(context.Background(), 2024, "Monaco Grand Prix", "R")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSessionHandlesEscapedEventNames(t *testing.T) {
	f := newRawProvider()
	doc := SessionData{Season: 2024, Event: "São Paulo Grand Prix", Code: "R", Laps: []Lap{{Driver: "VER", Lap: 1, Time: 90.1, Accurate: true}}}
	body, _ := json.Marshal(doc)
	// the server sees the decoded path
	f.raw["/api/v1/seasons/2024/events/São Paulo Grand Prix/sessions/R"] = string(body)
	c := newRawClient(t, f, nil)

	got, err := c.Session(context.Background(), 2024, "São Paulo Grand Prix", "R")
	if err != nil {
		t.Fatalf("Session: %s", err)
	}
	if len(got.Laps) != 1 || got.Laps[0].Driver != "VER" {
		t.Errorf("unexpected document: %+v", got)
	}
}

func TestArchiveUnsupportedWithoutCapability(t *testing.T) {
	f := newRawProvider()
	f.raw["/api/v1/capabilities"] = `{"archive": false}`
	c := newRawClient(t, f, nil)

	_, err := c.ArchiveSession(context.Background(), 2023, "Monaco Grand Prix", "R")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}

	// probe again, the capability answer is cached
	c.SupportsArchive(context.Background())
	if f.hits["/api/v1/capabilities"] != 1 {
		t.Errorf("capabilities probed %d times, want 1", f.hits["/api/v1/capabilities"])
	}
}

func TestSecondFetchServedFromCache(t *testing.T) {
	f := newRawProvider()
	f.raw["/2023/1/results.json"] = `{"MRData": {"total": "1", "RaceTable": {"Races": [{"Results": [
		{"position": "1", "points": "25", "grid": "1", "laps": "57", "status": "Finished",
		 "Driver": {"driverId": "max_verstappen", "code": "VER", "givenName": "Max", "familyName": "Verstappen"},
		 "Constructor": {"name": "Red Bull"},
		 "FastestLap": {"rank": "1"}}
	]}]}}}`

	store, err := cache.Enable(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("cache.Enable: %s", err)
	}
	defer store.Close()
	c := newRawClient(t, f, store)

	for i := 0; i < 2; i++ {
		results, err := c.RaceResults(context.Background(), 2023, 1)
		if err != nil {
			t.Fatalf("RaceResults #%d: %s", i+1, err)
		}
		if len(results) != 1 {
			t.Fatalf("RaceResults #%d returned %d rows", i+1, len(results))
		}
	}
	if f.hits["/2023/1/results.json"] != 1 {
		t.Errorf("provider hit %d times, want 1", f.hits["/2023/1/results.json"])
	}
}

func TestRaceResultsDecodeProviderDocument(t *testing.T) {
	f := newRawProvider()
	f.raw["/2023/4/results.json"] = `{"MRData": {"total": "2", "RaceTable": {"Races": [{"Results": [
		{"position": "1", "points": "26", "grid": "2", "laps": "51", "status": "Finished",
		 "Driver": {"driverId": "perez", "code": "PER", "givenName": "Sergio", "familyName": "Perez"},
		 "Constructor": {"name": "Red Bull"},
		 "FastestLap": {"rank": "2"}},
		{"position": "2", "points": "19", "grid": "1", "laps": "51", "status": "Finished",
		 "Driver": {"driverId": "max_verstappen", "code": "VER", "givenName": "Max", "familyName": "Verstappen"},
		 "Constructor": {"name": "Red Bull"},
		 "FastestLap": {"rank": "1"}}
	]}]}}}`
	c := newRawClient(t, f, nil)

	results, err := c.RaceResults(context.Background(), 2023, 4)
	if err != nil {
		t.Fatalf("RaceResults: %s", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d rows, want 2", len(results))
	}
	winner := results[0]
	if winner.Driver != "PER" || winner.DriverID != "perez" || winner.DriverName != "Sergio Perez" {
		t.Errorf("winner identity wrong: %+v", winner)
	}
	if winner.Points != 26 || winner.Grid != 2 || winner.Laps != 51 {
		t.Errorf("winner numbers wrong: %+v", winner)
	}
	if results[1].FastestLapRank != 1 {
		t.Errorf("FastestLapRank = %d, want 1", results[1].FastestLapRank)
	}
}

func TestSprintAbsentForConventionalRound(t *testing.T) {
	f := newRawProvider()
	f.raw["/2023/1/sprint.json"] = `{"MRData": {"total": "0", "RaceTable": {"Races": []}}}`
	c := newRawClient(t, f, nil)

	_, err := c.SprintResults(context.Background(), 2023, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDriverStandingsUseLatestConstructor(t *testing.T) {
	f := newRawProvider()
	f.raw["/2016/21/driverStandings.json"] = `{"MRData": {"total": "1", "StandingsTable": {"StandingsLists": [
		{"DriverStandings": [
			{"position": "1", "points": "212", "wins": "1",
			 "Driver": {"driverId": "verstappen", "code": "VER", "givenName": "Max", "familyName": "Verstappen"},
			 "Constructors": [{"name": "Toro Rosso"}, {"name": "Red Bull"}]}
		]}
	]}}}`
	c := newRawClient(t, f, nil)

	rows, err := c.DriverStandings(context.Background(), 2016, 21)
	if err != nil {
		t.Fatalf("DriverStandings: %s", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Team != "Red Bull" {
		t.Errorf("Team = %q, want the latest constructor", rows[0].Team)
	}
	if rows[0].Points != 212 || rows[0].Wins != 1 {
		t.Errorf("row numbers wrong: %+v", rows[0])
	}
}

func TestLapTimingsFollowPaging(t *testing.T) {
	pageOne := `{"MRData": {"total": "4", "RaceTable": {"Races": [{"Laps": [
		{"number": "1", "Timings": [
			{"driverId": "max_verstappen", "position": "1", "time": "1:31.1"},
			{"driverId": "hamilton", "position": "2", "time": "1:31.4"}
		]}
	]}]}}}`
	pageTwo := `{"MRData": {"total": "4", "RaceTable": {"Races": [{"Laps": [
		{"number": "2", "Timings": [
			{"driverId": "max_verstappen", "position": "1", "time": "1:30.5"},
			{"driverId": "hamilton", "position": "2", "time": "1:31.0"}
		]}
	]}]}}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "0" {
			w.Write([]byte(pageOne))
			return
		}
		w.Write([]byte(pageTwo))
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, srv.URL, nil)

	timings, err := c.LapTimings(context.Background(), 2023, 1)
	if err != nil {
		t.Fatalf("LapTimings: %s", err)
	}
	if len(timings) != 4 {
		t.Fatalf("got %d timings, want 4 across both pages", len(timings))
	}
	if timings[0].Lap != 1 || timings[2].Lap != 2 {
		t.Errorf("timings out of lap order: %+v", timings)
	}
	if timings[2].Seconds != 90.5 {
		t.Errorf("Seconds = %v, want parsed 1:30.5", timings[2].Seconds)
	}
}

func TestParseLapTime(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"88.456", 88.456},
		{"1:28.5", 88.5},
		{"1:02:03.5", 3723.5},
		{"garbage", 0},
	}
	for _, tc := range cases {
		if got := ParseLapTime(tc.in); got != tc.want {
			t.Errorf("ParseLapTime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
