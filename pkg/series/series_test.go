package series

import (
	"strings"
	"testing"

	"github.com/kumaabi/F1DataViz/pkg/f1api"
	"github.com/kumaabi/F1DataViz/pkg/sessions"
)

func sessionWith(data f1api.SessionData) *sessions.Session {
	return &sessions.Session{Year: data.Season, Event: data.Event, Code: data.Code, Data: &data}
}

func TestLapTimesDropInaccurateAndSlowLaps(t *testing.T) {
	s := sessionWith(f1api.SessionData{
		Laps: []f1api.Lap{
			{Driver: "VER", Lap: 1, Time: 92.1, Compound: "SOFT", Accurate: true},
			{Driver: "VER", Lap: 2, Time: 91.8, Compound: "SOFT", Accurate: false},
			{Driver: "VER", Lap: 3, Time: 131.4, Compound: "SOFT", Accurate: true},
			{Driver: "VER", Lap: 4, Time: 91.2, Compound: "MEDIUM", Accurate: true},
			{Driver: "HAM", Lap: 1, Time: 93.0, Compound: "SOFT", Accurate: true},
		},
		Results: []f1api.SessionResult{
			{Driver: "VER", Team: "Red Bull Racing"},
			{Driver: "HAM", Team: "Mercedes"},
		},
	})

	all := LapTimes(s)
	if len(all) != 2 {
		t.Fatalf("expected both drivers, got %d series", len(all))
	}
	ver := all[0]
	if ver.Driver != "VER" || len(ver.Points) != 2 {
		t.Fatalf("unexpected VER series: %+v", ver)
	}
	if ver.Points[0].Lap != 1 || ver.Points[1].Lap != 4 {
		t.Errorf("filter kept wrong laps: %+v", ver.Points)
	}
	if ver.Points[1].Compound != "MEDIUM" {
		t.Errorf("compound not carried: %+v", ver.Points[1])
	}
	if !strings.HasPrefix(ver.Color, "#") {
		t.Errorf("series without a color: %q", ver.Color)
	}

	only := LapTimes(s, "HAM")
	if len(only) != 1 || only[0].Driver != "HAM" {
		t.Errorf("driver selection ignored: %+v", only)
	}
}

func TestLapDeltasAgainstReference(t *testing.T) {
	s := sessionWith(f1api.SessionData{
		Laps: []f1api.Lap{
			{Driver: "VER", Lap: 1, Time: 90.0, Accurate: true},
			{Driver: "VER", Lap: 2, Time: 90.5, Accurate: true},
			{Driver: "HAM", Lap: 1, Time: 90.4, Accurate: true},
			{Driver: "HAM", Lap: 2, Time: 90.1, Accurate: true},
			{Driver: "HAM", Lap: 3, Time: 89.9, Accurate: true}, // VER has no lap 3
		},
	})

	deltas := LapDeltas(s, "VER")
	if len(deltas) != 1 || deltas[0].Driver != "HAM" {
		t.Fatalf("unexpected delta series: %+v", deltas)
	}
	points := deltas[0].Points
	if len(points) != 2 {
		t.Fatalf("expected laps 1 and 2 only, got %+v", points)
	}
	if points[0].Delta < 0.399 || points[0].Delta > 0.401 {
		t.Errorf("lap 1 delta = %f, want 0.4", points[0].Delta)
	}
	if points[1].Delta > -0.399 || points[1].Delta < -0.401 {
		t.Errorf("lap 2 delta = %f, want -0.4", points[1].Delta)
	}

	if got := LapDeltas(s, "XXX"); got != nil {
		t.Errorf("unknown reference produced series: %+v", got)
	}
}

func TestSectorBestsComparesDrivers(t *testing.T) {
	s := sessionWith(f1api.SessionData{
		Laps: []f1api.Lap{
			{Driver: "LEC", Lap: 10, Time: 90.0, S1: 28.0, S2: 31.0, S3: 31.0},
			{Driver: "LEC", Lap: 12, Time: 90.6, S1: 27.8, S2: 31.4, S3: 31.4},
			{Driver: "SAI", Lap: 11, Time: 90.4, S1: 28.2, S2: 30.8, S3: 31.4},
			{Driver: "SAI", Lap: 13, Time: 0, S1: 28.0, S2: 30.5, S3: 31.0}, // no lap time, ignored
		},
	})

	a := SectorBests(s)
	if a == nil {
		t.Fatal("expected an analysis")
	}
	if a.FastestOverall.Driver != "LEC" || a.FastestOverall.Lap != 10 {
		t.Errorf("unexpected fastest overall: %+v", a.FastestOverall)
	}
	if a.S1Best.Driver != "LEC" || a.S1Best.Seconds != 27.8 {
		t.Errorf("unexpected S1 best: %+v", a.S1Best)
	}
	if a.S2Best.Driver != "SAI" || a.S2Best.Seconds != 30.8 {
		t.Errorf("unexpected S2 best: %+v", a.S2Best)
	}

	if len(a.Rows) != 2 || a.Rows[0].Driver != "LEC" {
		t.Fatalf("rows not ordered by fastest lap: %+v", a.Rows)
	}
	lec := a.Rows[0]
	if lec.S1 != 27.8 || lec.S1Lap != 12 || lec.S1Delta != 0 {
		t.Errorf("unexpected LEC S1: %+v", lec)
	}
	sai := a.Rows[1]
	if sai.S2Delta != 0 {
		t.Errorf("S2 best holder has nonzero delta: %+v", sai)
	}
	if sai.S1Delta < 0.399 || sai.S1Delta > 0.401 {
		t.Errorf("SAI S1 delta = %f, want 0.4", sai.S1Delta)
	}

	want := 27.8 + 30.8 + 31.0
	if a.TheoreticalBest < want-0.001 || a.TheoreticalBest > want+0.001 {
		t.Errorf("theoretical best = %f, want %f", a.TheoreticalBest, want)
	}
}

func TestStintsGroupLapsByStintNumber(t *testing.T) {
	s := sessionWith(f1api.SessionData{
		Laps: []f1api.Lap{
			{Driver: "NOR", Lap: 1, Stint: 1, Compound: "MEDIUM", TyreLife: 1},
			{Driver: "NOR", Lap: 2, Stint: 1, Compound: "MEDIUM", TyreLife: 2},
			{Driver: "NOR", Lap: 3, Stint: 1, Compound: "MEDIUM", TyreLife: 3},
			{Driver: "NOR", Lap: 4, Stint: 2, Compound: "HARD", TyreLife: 1},
			{Driver: "NOR", Lap: 5, Stint: 2, Compound: "HARD", TyreLife: 2},
			{Driver: "NOR", Lap: 6, Stint: 0, Compound: "", TyreLife: 0}, // no stint data
		},
		Results: []f1api.SessionResult{{Driver: "NOR", Team: "McLaren"}},
	})

	stints := Stints(s)
	if len(stints) != 1 {
		t.Fatalf("expected one driver, got %d", len(stints))
	}
	ds := stints[0]
	if ds.Driver != "NOR" || ds.Team != "McLaren" || len(ds.Stints) != 2 {
		t.Fatalf("unexpected driver stints: %+v", ds)
	}
	first := ds.Stints[0]
	if first.Number != 1 || first.Compound != "MEDIUM" || first.StartLap != 1 || first.EndLap != 3 || first.Length != 3 {
		t.Errorf("unexpected first stint: %+v", first)
	}
	if first.StartTyreLife != 1 || first.EndTyreLife != 3 {
		t.Errorf("unexpected tyre life range: %+v", first)
	}
	second := ds.Stints[1]
	if second.Number != 2 || second.Compound != "HARD" || second.Length != 2 {
		t.Errorf("unexpected second stint: %+v", second)
	}
}

func TestQualifyingClassificationPrefersResults(t *testing.T) {
	s := sessionWith(f1api.SessionData{
		Results: []f1api.SessionResult{
			{Position: 2, Driver: "PIA", Team: "McLaren", Q1: 91.0, Q2: 90.5, Q3: 90.2},
			{Position: 1, Driver: "NOR", Team: "McLaren", Q1: 90.9, Q2: 90.3, Q3: 89.9},
			{Position: 3, Driver: "ALO", Team: "Aston Martin", Q1: 91.2, Q2: 90.8},
		},
		Laps: []f1api.Lap{
			{Driver: "ZZZ", Lap: 1, Time: 80.0, Accurate: true}, // must not win via laps
		},
	})

	rows := QualifyingClassification(s)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Driver != "NOR" || rows[0].Position != 1 {
		t.Errorf("rows not sorted by position: %+v", rows[0])
	}
	if rows[0].Best != 89.9 {
		t.Errorf("best must prefer Q3: %+v", rows[0])
	}
	if rows[2].Driver != "ALO" || rows[2].Best != 90.8 {
		t.Errorf("Q2 fallback not applied: %+v", rows[2])
	}
	if rows[0].FromLaps {
		t.Error("results-backed rows flagged as lap-derived")
	}
}

func TestQualifyingClassificationFallsBackToLaps(t *testing.T) {
	s := sessionWith(f1api.SessionData{
		Laps: []f1api.Lap{
			{Driver: "HAM", Lap: 5, Time: 90.8, Compound: "SOFT"},
			{Driver: "HAM", Lap: 8, Time: 90.2, Compound: "SOFT"},
			{Driver: "RUS", Lap: 6, Time: 90.0, Compound: "SOFT"},
		},
	})

	rows := QualifyingClassification(s)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Driver != "RUS" || rows[0].Position != 1 || !rows[0].FromLaps {
		t.Errorf("unexpected provisional pole: %+v", rows[0])
	}
	if rows[1].Driver != "HAM" || rows[1].Best != 90.2 {
		t.Errorf("fastest lap not picked: %+v", rows[1])
	}
	if rows[0].BestDisplay == "" {
		t.Error("display time missing")
	}
}

func TestPositionsSkipLapsWithoutData(t *testing.T) {
	s := sessionWith(f1api.SessionData{
		Laps: []f1api.Lap{
			{Driver: "VER", Lap: 1, Position: 2},
			{Driver: "VER", Lap: 2, Position: 0},
			{Driver: "VER", Lap: 3, Position: 1},
		},
	})

	positions := Positions(s)
	if len(positions) != 1 || len(positions[0].Points) != 2 {
		t.Fatalf("unexpected position series: %+v", positions)
	}
	if positions[0].Points[1].Lap != 3 || positions[0].Points[1].Position != 1 {
		t.Errorf("unexpected point: %+v", positions[0].Points[1])
	}
}

func TestSeriesToleratesEmptySession(t *testing.T) {
	s := &sessions.Session{}
	if got := LapTimes(s); len(got) != 0 {
		t.Errorf("LapTimes on empty session: %+v", got)
	}
	if got := SectorBests(s); got != nil {
		t.Errorf("SectorBests on empty session: %+v", got)
	}
	if got := Stints(s); len(got) != 0 {
		t.Errorf("Stints on empty session: %+v", got)
	}
	if got := QualifyingClassification(s); len(got) != 0 {
		t.Errorf("QualifyingClassification on empty session: %+v", got)
	}
	if got := Weather(s); len(got) != 0 {
		t.Errorf("Weather on empty session: %+v", got)
	}
}
