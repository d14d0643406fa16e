package sessions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/kumaabi/F1DataViz/pkg/f1api"
)

func TestAvailableKindsFutureIsStatic(t *testing.T) {
	// unreachable provider: the static list must come back anyway
	r := NewResolver(f1api.NewClient("http://127.0.0.1:1", "http://127.0.0.1:1", nil), 2025)

	got := r.AvailableKinds(context.Background(), 2026, "Monaco Grand Prix")
	want := []Kind{Race, Qualifying, Sprint, Practice3, Practice2, Practice1}
	if !reflect.DeepEqual(got.Kinds, want) {
		t.Errorf("kinds = %v, want %v", got.Kinds, want)
	}
	if got.Source != SourceStaticFuture {
		t.Errorf("source = %s, want static", got.Source)
	}
}

func TestAvailableKindsProbesEventMetadata(t *testing.T) {
	meta := f1api.EventMeta{
		Season: 2023,
		Round:  10,
		Name:   "British Grand Prix",
		Sessions: map[string]string{
			"FP1": "2023-07-07T11:30:00Z",
			"Q":   "2023-07-08T14:00:00Z",
			"R":   "2023-07-09T14:00:00Z",
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(meta)
	}))
	defer srv.Close()
	r := NewResolver(f1api.NewClient(srv.URL, srv.URL, nil), 2025)

	got := r.AvailableKinds(context.Background(), 2023, "British Grand Prix")
	want := []Kind{Race, Qualifying, Practice1}
	if !reflect.DeepEqual(got.Kinds, want) {
		t.Errorf("kinds = %v, want %v", got.Kinds, want)
	}
	if got.Source != SourceProbed {
		t.Errorf("source = %s, want probed", got.Source)
	}
}

func TestAvailableKindsFallsBackOnProbeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	r := NewResolver(f1api.NewClient(srv.URL, srv.URL, nil), 2025)

	got := r.AvailableKinds(context.Background(), 2023, "British Grand Prix")
	want := []Kind{Race, Qualifying, Practice1}
	if !reflect.DeepEqual(got.Kinds, want) {
		t.Errorf("kinds = %v, want %v", got.Kinds, want)
	}
	if got.Source != SourceDefaultFallback {
		t.Errorf("source = %s, want default", got.Source)
	}
}

func TestAvailableKindsFallsBackOnEmptyProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f1api.EventMeta{Name: "Testing Day"})
	}))
	defer srv.Close()
	r := NewResolver(f1api.NewClient(srv.URL, srv.URL, nil), 2025)

	got := r.AvailableKinds(context.Background(), 2023, "Testing Day")
	if got.Source != SourceDefaultFallback {
		t.Errorf("source = %s, want default", got.Source)
	}
}

func TestAvailableDriversFirstOccurrenceOrder(t *testing.T) {
	s := &Session{Data: &f1api.SessionData{Laps: []f1api.Lap{
		{Driver: "VER", Lap: 1},
		{Driver: "ALO", Lap: 1},
		{Driver: "VER", Lap: 2},
		{Driver: "LEC", Lap: 1},
		{Driver: "ALO", Lap: 2},
	}}}

	got := AvailableDrivers(s)
	want := []string{"VER", "ALO", "LEC"}
	if !reflect.DeepEqual(got.Codes, want) {
		t.Errorf("codes = %v, want %v", got.Codes, want)
	}
	if got.Placeholder {
		t.Error("real lap data must not be flagged as placeholder")
	}
}

func TestAvailableDriversEmptyLapTable(t *testing.T) {
	s := &Session{Data: &f1api.SessionData{}}
	got := AvailableDrivers(s)
	if len(got.Codes) != 0 {
		t.Errorf("codes = %v, want empty", got.Codes)
	}
	if got.Placeholder {
		t.Error("an empty lap table is a real answer, not a placeholder")
	}
}

func TestAvailableDriversPlaceholderOnMissingSession(t *testing.T) {
	got := AvailableDrivers(nil)
	want := []string{"VER", "HAM", "LEC"}
	if !reflect.DeepEqual(got.Codes, want) {
		t.Errorf("codes = %v, want %v", got.Codes, want)
	}
	if !got.Placeholder {
		t.Error("placeholder answer must be flagged")
	}
}
