package sessions

import (
	"context"
	"log"

	"github.com/pkg/errors"

	"github.com/kumaabi/F1DataViz/pkg/f1api"
)

const (
	// modernFormatSeason is the first season whose weekend format the static
	// availability list describes.
	modernFormatSeason = 2025
	// referenceFloorSeason is the oldest season the reference-data walk
	// visits when a future session has no data yet.
	referenceFloorSeason = 2023

	fallbackReferenceYear  = 2023
	fallbackReferenceEvent = "British Grand Prix"
)

// Status says how a resolve attempt ended.
type Status int

const (
	// StatusAbsent means no session: unmapped descriptor or provider failure.
	StatusAbsent Status = iota
	// StatusLoaded means the requested session was fetched as asked.
	StatusLoaded
	// StatusReference means the session was substituted with reference data
	// from a completed season.
	StatusReference
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusReference:
		return "reference"
	}
	return "absent"
}

// Result is what a resolve attempt returns. Degradation is part of the
// value: a substituted session carries StatusReference and the year the data
// really came from, and an absent result carries a user-facing reason.
type Result struct {
	Session       *Session
	Status        Status
	ReferenceYear int
	Reason        string
}

func (r Result) Absent() bool {
	return r.Status == StatusAbsent
}

// Resolver turns descriptors into loaded sessions. It holds no global state;
// the response cache lives inside the injected client.
type Resolver struct {
	client        *f1api.Client
	currentSeason int
}

func NewResolver(client *f1api.Client, currentSeason int) *Resolver {
	return &Resolver{
		client:        client,
		currentSeason: currentSeason,
	}
}

// Resolve maps the descriptor to a provider code and fetches the session.
// Completed seasons go through the archive path first, falling back to the
// direct path when the provider has no archive. The current and future
// seasons use the direct path; when that has no data yet the resolver walks
// recent completed seasons for the same event and session and returns the
// first hit as reference data. Failures never escape as errors, they come
// back as an absent result with a reason.
func (r *Resolver) Resolve(ctx context.Context, desc Descriptor) Result {
	code, ok := desc.Code()
	if !ok {
		return Result{Status: StatusAbsent, Reason: "unknown session selection"}
	}

	if desc.Year < r.currentSeason {
		data, err := r.archiveOrDirect(ctx, desc.Year, desc.Event, code)
		if err != nil {
			log.Printf("Error loading %s: %s\n", desc, err)
			return Result{Status: StatusAbsent, Reason: "no data available for " + desc.String()}
		}
		return Result{Status: StatusLoaded, Session: r.session(desc, desc.Year, desc.Event, code, data)}
	}

	data, err := r.client.Session(ctx, desc.Year, desc.Event, code)
	if err == nil {
		return Result{Status: StatusLoaded, Session: r.session(desc, desc.Year, desc.Event, code, data)}
	}
	if !errors.Is(err, f1api.ErrNotFound) {
		log.Printf("Error loading %s: %s\n", desc, err)
		return Result{Status: StatusAbsent, Reason: "no data available for " + desc.String()}
	}

	// nothing recorded yet, borrow the same session from a recent season
	for year := r.currentSeason - 1; year >= referenceFloorSeason; year-- {
		data, err := r.archiveOrDirect(ctx, year, desc.Event, code)
		if err != nil {
			continue
		}
		log.Printf("Using %d reference data for %s\n", year, desc)
		return Result{
			Status:        StatusReference,
			ReferenceYear: year,
			Session:       r.session(desc, year, desc.Event, code, data),
		}
	}
	data, err = r.archiveOrDirect(ctx, fallbackReferenceYear, fallbackReferenceEvent, code)
	if err == nil {
		log.Printf("Using %d %s reference data for %s\n", fallbackReferenceYear, fallbackReferenceEvent, desc)
		return Result{
			Status:        StatusReference,
			ReferenceYear: fallbackReferenceYear,
			Session:       r.session(desc, fallbackReferenceYear, fallbackReferenceEvent, code, data),
		}
	}

	log.Printf("No reference data found for %s\n", desc)
	return Result{Status: StatusAbsent, Reason: "no data available for " + desc.String()}
}

func (r *Resolver) archiveOrDirect(ctx context.Context, year int, event, code string) (*f1api.SessionData, error) {
	data, err := r.client.ArchiveSession(ctx, year, event, code)
	if errors.Is(err, f1api.ErrUnsupported) {
		return r.client.Session(ctx, year, event, code)
	}
	return data, err
}

func (r *Resolver) session(desc Descriptor, year int, event, code string, data *f1api.SessionData) *Session {
	return &Session{
		Year:   year,
		Event:  event,
		Code:   code,
		Kind:   desc.Kind,
		Data:   data,
		client: r.client,
	}
}
