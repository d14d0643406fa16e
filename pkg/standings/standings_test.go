package standings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kumaabi/F1DataViz/pkg/f1api"
	"github.com/kumaabi/F1DataViz/pkg/model"
	"github.com/kumaabi/F1DataViz/pkg/pubsub"
	"github.com/kumaabi/F1DataViz/pkg/schedule"
)

// fakeAPI serves canned results-API payloads and session documents, counting
// every request by path.
type fakeAPI struct {
	raw  map[string]string
	docs map[string]f1api.SessionData
	hits map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		raw:  make(map[string]string),
		docs: make(map[string]f1api.SessionData),
		hits: make(map[string]int),
	}
}

func (f *fakeAPI) addSession(year int, event, code string, doc f1api.SessionData) {
	f.docs[fmt.Sprintf("/api/v1/seasons/%d/events/%s/sessions/%s", year, event, code)] = doc
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits[r.URL.Path]++
	if body, ok := f.raw[r.URL.Path]; ok {
		fmt.Fprint(w, body)
		return
	}
	if doc, ok := f.docs[r.URL.Path]; ok {
		json.NewEncoder(w).Encode(doc)
		return
	}
	http.NotFound(w, r)
}

func newTestClient(t *testing.T, f *fakeAPI) *f1api.Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f1api.NewClient(srv.URL, srv.URL, nil)
}

func resultsDoc(rows ...string) string {
	return fmt.Sprintf(`{"MRData":{"total":"%d","RaceTable":{"Races":[{"Results":[%s]}]}}}`,
		len(rows), strings.Join(rows, ","))
}

func resultRow(pos int, code, team string, points float64) string {
	return fmt.Sprintf(`{"position":"%d","points":"%g","Driver":{"driverId":"%s","code":"%s"},"Constructor":{"name":"%s"}}`,
		pos, points, strings.ToLower(code), code, team)
}

func TestDriverStandingsAccumulateAndRank(t *testing.T) {
	f := newFakeAPI()
	f.raw["/2025/1/results.json"] = resultsDoc(
		resultRow(1, "AAA", "Apex", 25),
		resultRow(2, "BBB", "Base", 18),
	)
	f.raw["/2025/2/results.json"] = resultsDoc(
		resultRow(1, "BBB", "Base", 25),
		resultRow(2, "AAA", "Apex", 18),
	)
	f.raw["/2025/3/results.json"] = resultsDoc(
		resultRow(1, "AAA", "Apex", 25),
		resultRow(14, "BBB", "Base", 0),
	)

	a := NewAggregator(newTestClient(t, f))
	res := a.DriverStandings(context.Background(), 2025, 3)

	if res.Degraded() {
		t.Fatalf("unexpected skipped rounds: %v", res.SkippedRounds)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	first, second := res.Rows[0], res.Rows[1]
	if first.Entity != "AAA" || first.Points != 68 || first.Position != 1 || first.Wins != 2 {
		t.Errorf("unexpected leader row: %+v", first)
	}
	if second.Entity != "BBB" || second.Points != 43 || second.Position != 2 || second.Wins != 1 {
		t.Errorf("unexpected runner-up row: %+v", second)
	}
}

func TestDriverStandingsSkipFailedRounds(t *testing.T) {
	f := newFakeAPI()
	f.raw["/2025/1/results.json"] = resultsDoc(
		resultRow(1, "AAA", "Apex", 25),
		resultRow(2, "BBB", "Base", 18),
	)
	// round 2 missing on purpose
	f.raw["/2025/3/results.json"] = resultsDoc(
		resultRow(1, "AAA", "Apex", 25),
		resultRow(15, "BBB", "Base", 0),
	)

	a := NewAggregator(newTestClient(t, f))
	res := a.DriverStandings(context.Background(), 2025, 3)

	if !res.Degraded() || len(res.SkippedRounds) != 1 || res.SkippedRounds[0] != 2 {
		t.Fatalf("expected round 2 skipped, got %v", res.SkippedRounds)
	}
	if res.Rows[0].Entity != "AAA" || res.Rows[0].Points != 50 {
		t.Errorf("unexpected leader row: %+v", res.Rows[0])
	}
	if res.Rows[1].Entity != "BBB" || res.Rows[1].Points != 18 {
		t.Errorf("unexpected runner-up row: %+v", res.Rows[1])
	}
}

func TestStandingsTieKeepsFirstSeenOrder(t *testing.T) {
	f := newFakeAPI()
	f.raw["/2025/1/results.json"] = resultsDoc(
		resultRow(3, "CCC", "Casa", 15),
		resultRow(4, "DDD", "Dome", 15),
	)

	a := NewAggregator(newTestClient(t, f))
	res := a.DriverStandings(context.Background(), 2025, 1)

	if res.Rows[0].Entity != "CCC" || res.Rows[1].Entity != "DDD" {
		t.Errorf("tie broke first-seen order: %+v", res.Rows)
	}
	if res.Rows[0].Position != 1 || res.Rows[1].Position != 2 {
		t.Errorf("positions not assigned in order: %+v", res.Rows)
	}
}

func TestConstructorStandingsSumBothCars(t *testing.T) {
	f := newFakeAPI()
	f.raw["/2025/1/results.json"] = resultsDoc(
		resultRow(1, "AAA", "Apex", 25),
		resultRow(5, "BBB", "Apex", 10),
		resultRow(2, "CCC", "Base", 18),
	)

	a := NewAggregator(newTestClient(t, f))
	res := a.ConstructorStandings(context.Background(), 2025, 1)

	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 constructor rows, got %d", len(res.Rows))
	}
	if res.Rows[0].Entity != "Apex" || res.Rows[0].Points != 35 || res.Rows[0].Wins != 1 {
		t.Errorf("unexpected constructor row: %+v", res.Rows[0])
	}
}

func TestHistoricalSeasonUsesProviderStandings(t *testing.T) {
	f := newFakeAPI()
	f.raw["/2015/19/driverStandings.json"] = `{"MRData":{"StandingsTable":{"StandingsLists":[{"DriverStandings":[
		{"position":"1","points":"381","wins":"10","Driver":{"driverId":"hamilton","code":"HAM"},"Constructors":[{"name":"Mercedes"}]},
		{"position":"2","points":"322","wins":"3","Driver":{"driverId":"rosberg","code":"ROS"},"Constructors":[{"name":"Mercedes"}]}
	]}]}}}`

	a := NewAggregator(newTestClient(t, f))
	res := a.DriverStandings(context.Background(), 2015, 19)

	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	if res.Rows[0].Entity != "HAM" || res.Rows[0].Points != 381 || res.Rows[0].Wins != 10 {
		t.Errorf("unexpected leader row: %+v", res.Rows[0])
	}
	if f.hits["/2015/1/results.json"] != 0 {
		t.Error("historical season walked the round loop")
	}
}

func scheduleDoc(year int, names ...string) string {
	races := make([]string, 0, len(names))
	for i, name := range names {
		races = append(races, fmt.Sprintf(`{"season":"%d","round":"%d","raceName":"%s","date":"%d-03-%02d"}`,
			year, i+1, name, year, i+1))
	}
	return fmt.Sprintf(`{"MRData":{"RaceTable":{"Races":[%s]}}}`, strings.Join(races, ","))
}

func classifiedDoc(results ...f1api.SessionResult) f1api.SessionData {
	return f1api.SessionData{Results: results}
}

func newTestCalculator(t *testing.T, f *fakeAPI) *Calculator {
	t.Helper()
	client := newTestClient(t, f)
	return NewCalculator(client, schedule.NewManager(client, pubsub.NewPubSub[string]()))
}

func TestSeasonStandingsScoreSprintAndFastestLap(t *testing.T) {
	f := newFakeAPI()
	f.raw["/2024.json"] = scheduleDoc(2024, "Alpha Grand Prix", "Beta Grand Prix")
	f.addSession(2024, "Alpha Grand Prix", "R", classifiedDoc(
		f1api.SessionResult{Position: 1, Driver: "VER", DriverName: "Max Verstappen", Team: "Red Bull", FastestLapRank: 1},
		f1api.SessionResult{Position: 2, Driver: "HAM", DriverName: "Lewis Hamilton", Team: "Mercedes"},
	))
	f.addSession(2024, "Beta Grand Prix", "R", classifiedDoc(
		f1api.SessionResult{Position: 1, Driver: "HAM", DriverName: "Lewis Hamilton", Team: "Mercedes"},
		f1api.SessionResult{Position: 2, Driver: "VER", DriverName: "Max Verstappen", Team: "Red Bull", FastestLapRank: 1},
	))
	f.addSession(2024, "Beta Grand Prix", "S", classifiedDoc(
		f1api.SessionResult{Position: 1, Driver: "VER", DriverName: "Max Verstappen", Team: "Red Bull"},
		f1api.SessionResult{Position: 2, Driver: "HAM", DriverName: "Lewis Hamilton", Team: "Mercedes"},
	))

	c := newTestCalculator(t, f)
	drivers, constructors := c.SeasonStandings(context.Background(), 2024)

	if drivers.Degraded() {
		t.Fatalf("unexpected skipped rounds: %v", drivers.SkippedRounds)
	}
	// VER: 25+1 race, 18+1 race, 8 sprint. HAM: 18, 25, 7.
	if drivers.Rows[0].Entity != "VER" || drivers.Rows[0].Points != 53 || drivers.Rows[0].Wins != 1 {
		t.Errorf("unexpected leader row: %+v", drivers.Rows[0])
	}
	if drivers.Rows[1].Entity != "HAM" || drivers.Rows[1].Points != 50 || drivers.Rows[1].Wins != 1 {
		t.Errorf("unexpected runner-up row: %+v", drivers.Rows[1])
	}
	if constructors.Rows[0].Entity != "Red Bull Racing Honda RBPT" || constructors.Rows[0].Points != 53 {
		t.Errorf("unexpected constructor leader: %+v", constructors.Rows[0])
	}
}

func TestSeasonStandingsFoldTeamSynonyms(t *testing.T) {
	f := newFakeAPI()
	f.raw["/2024.json"] = scheduleDoc(2024, "Alpha Grand Prix")
	f.addSession(2024, "Alpha Grand Prix", "R", classifiedDoc(
		f1api.SessionResult{Position: 3, Driver: "TSU", Team: "RB"},
		f1api.SessionResult{Position: 4, Driver: "LAW", Team: "Visa Cash App RB"},
	))

	c := newTestCalculator(t, f)
	_, constructors := c.SeasonStandings(context.Background(), 2024)

	if len(constructors.Rows) != 1 {
		t.Fatalf("synonyms not folded: %+v", constructors.Rows)
	}
	row := constructors.Rows[0]
	if row.Entity != "Racing Bulls Honda RBPT" || row.Points != 27 {
		t.Errorf("unexpected folded row: %+v", row)
	}
}

func TestSeasonStandingsSkipFailedRounds(t *testing.T) {
	f := newFakeAPI()
	f.raw["/2024.json"] = scheduleDoc(2024, "Alpha Grand Prix", "Beta Grand Prix")
	f.addSession(2024, "Alpha Grand Prix", "R", classifiedDoc(
		f1api.SessionResult{Position: 1, Driver: "VER", Team: "Red Bull"},
	))
	// Beta round race document missing on purpose.

	c := newTestCalculator(t, f)
	drivers, constructors := c.SeasonStandings(context.Background(), 2024)

	if len(drivers.SkippedRounds) != 1 || drivers.SkippedRounds[0] != 2 {
		t.Fatalf("expected round 2 skipped, got %v", drivers.SkippedRounds)
	}
	if len(constructors.SkippedRounds) != 1 || constructors.SkippedRounds[0] != 2 {
		t.Fatalf("constructor table missed the skip: %v", constructors.SkippedRounds)
	}
	if drivers.Rows[0].Points != 25 {
		t.Errorf("unexpected points after skip: %+v", drivers.Rows[0])
	}
}

func TestManagerPublishesOnlyOnChange(t *testing.T) {
	f := newFakeAPI()
	f.raw["/2024.json"] = scheduleDoc(2024, "Alpha Grand Prix")
	f.addSession(2024, "Alpha Grand Prix", "R", classifiedDoc(
		f1api.SessionResult{Position: 1, Driver: "VER", DriverName: "Max Verstappen", Team: "Red Bull"},
	))

	ps := pubsub.NewPubSub[string]()
	updates := ps.Subscribe(model.StandingsTopic)
	client := newTestClient(t, f)
	calc := NewCalculator(client, schedule.NewManager(client, pubsub.NewPubSub[string]()))
	m := NewManager(calc, 2024, ps)

	m.doSync(context.Background(), time.Now())
	select {
	case payload := <-updates:
		var update model.StandingsUpdate
		if err := json.Unmarshal([]byte(payload), &update); err != nil {
			t.Fatalf("bad payload: %s", err)
		}
		if update.Year != 2024 || len(update.Drivers) != 1 {
			t.Errorf("unexpected update: %+v", update)
		}
	default:
		t.Fatal("first sync published nothing")
	}

	m.doSync(context.Background(), time.Now())
	select {
	case <-updates:
		t.Fatal("unchanged standings were republished")
	default:
	}

	if m.Drivers() == nil || m.Constructors() == nil {
		t.Error("latest tables not retained")
	}
}
