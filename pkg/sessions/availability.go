package sessions

import (
	"context"
	"log"
)

// Source says where an availability answer came from.
type Source int

const (
	// SourceProbed means the event's metadata confirmed each kind.
	SourceProbed Source = iota
	// SourceStaticFuture means the static modern-format list was returned
	// without contacting the provider.
	SourceStaticFuture
	// SourceDefaultFallback means introspection failed and the fixed default
	// set was returned.
	SourceDefaultFallback
)

func (s Source) String() string {
	switch s {
	case SourceStaticFuture:
		return "static"
	case SourceDefaultFallback:
		return "default"
	}
	return "probed"
}

// KindList is an ordered list of available session kinds plus where the
// answer came from, so degraded answers are recognizable.
type KindList struct {
	Kinds  []Kind
	Source Source
}

// DriverList carries the drivers a session has lap data for. Placeholder is
// set when the real list could not be read and the fixed stand-in drivers
// were returned instead.
type DriverList struct {
	Codes       []string
	Placeholder bool
}

// probe order, most important kind first
var kindOrder = []Kind{Race, Qualifying, Sprint, Practice3, Practice2, Practice1}

// the fixed default when probing fails
var fallbackKinds = []Kind{Race, Qualifying, Practice1}

var placeholderDrivers = []string{"VER", "HAM", "LEC"}

// AvailableKinds lists the session kinds an event offers. Seasons at or past
// the modern-format boundary get the full static list without a provider
// call. Older seasons probe the event metadata; a failed or empty probe
// degrades to the fixed default set.
func (r *Resolver) AvailableKinds(ctx context.Context, year int, event string) KindList {
	if year >= modernFormatSeason {
		return KindList{
			Kinds:  []Kind{Race, Qualifying, Sprint, Practice3, Practice2, Practice1},
			Source: SourceStaticFuture,
		}
	}

	meta, err := r.client.Event(ctx, year, event)
	if err != nil {
		log.Printf("Error probing sessions for %s %d: %s\n", event, year, err)
		return KindList{Kinds: fallbackKinds, Source: SourceDefaultFallback}
	}

	kinds := make([]Kind, 0, len(kindOrder))
	for _, kind := range kindOrder {
		code, ok := Descriptor{Kind: kind}.Code()
		if !ok {
			continue
		}
		if meta.HasSession(code) {
			kinds = append(kinds, kind)
		}
	}
	if len(kinds) == 0 {
		return KindList{Kinds: fallbackKinds, Source: SourceDefaultFallback}
	}
	return KindList{Kinds: kinds, Source: SourceProbed}
}

// AvailableDrivers reads the unique driver codes from the session's lap
// table in first-occurrence order. A session without a lap table yields an
// empty list; a session that could not be loaded at all yields the
// placeholder drivers, flagged as such.
func AvailableDrivers(s *Session) DriverList {
	if s == nil || s.Data == nil {
		return DriverList{Codes: placeholderDrivers, Placeholder: true}
	}
	laps := s.Data.Laps
	if len(laps) == 0 {
		return DriverList{Codes: []string{}}
	}
	seen := make(map[string]bool, 24)
	codes := make([]string, 0, 24)
	for _, lap := range laps {
		if lap.Driver == "" || seen[lap.Driver] {
			continue
		}
		seen[lap.Driver] = true
		codes = append(codes, lap.Driver)
	}
	return DriverList{Codes: codes}
}
