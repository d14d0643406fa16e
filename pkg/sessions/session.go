// Package sessions resolves session descriptors against the data provider
// and introspects what a loaded session actually contains.
package sessions

import (
	"context"
	"fmt"

	"github.com/kumaabi/F1DataViz/pkg/f1api"
)

// Descriptor identifies one session of one event. Immutable, built per
// request.
type Descriptor struct {
	Year        int
	Event       string
	Kind        Kind
	QualiStage  QualiStage
	SprintStage SprintStage
}

// Code maps the descriptor to the provider's session code. The stage
// selectors only apply to their own kind. Unknown combinations return
// ("", false) and must not reach the provider.
func (d Descriptor) Code() (string, bool) {
	switch d.Kind {
	case Race:
		return "R", true
	case Qualifying:
		return d.QualiStage.code()
	case Sprint:
		return d.SprintStage.code()
	case Practice1:
		return "FP1", true
	case Practice2:
		return "FP2", true
	case Practice3:
		return "FP3", true
	}
	return "", false
}

func (d Descriptor) String() string {
	code, ok := d.Code()
	if !ok {
		code = "?"
	}
	return fmt.Sprintf("%s (%s) at %s %d", d.Kind, code, d.Event, d.Year)
}

// Session is a loaded session handle: the descriptor the caller asked for
// plus the provider document actually fetched. Year and Event are the
// effective coordinates, which differ from the descriptor when the session
// was substituted with reference data.
type Session struct {
	Year   int
	Event  string
	Code   string
	Kind   Kind
	Data   *f1api.SessionData
	client *f1api.Client
}

func (s *Session) Laps() []f1api.Lap {
	if s == nil || s.Data == nil {
		return nil
	}
	return s.Data.Laps
}

func (s *Session) Results() []f1api.SessionResult {
	if s == nil || s.Data == nil {
		return nil
	}
	return s.Data.Results
}

func (s *Session) Weather() []f1api.WeatherSample {
	if s == nil || s.Data == nil {
		return nil
	}
	return s.Data.Weather
}

// Telemetry fetches the fastest-lap telemetry channels for one driver of
// this session, lazily.
func (s *Session) Telemetry(ctx context.Context, driver string) ([]f1api.TelemetrySample, error) {
	return s.client.Telemetry(ctx, s.Year, s.Event, s.Code, driver)
}
