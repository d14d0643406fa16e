package f1api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/pkg/errors"
)

// EventMeta describes one event of a season as the session API reports it.
// The Sessions map carries the scheduled start per session code; the presence
// of a code is what availability probing checks.
type EventMeta struct {
	Season   int               `json:"season"`
	Round    int               `json:"round"`
	Name     string            `json:"name"`
	Country  string            `json:"country"`
	Locality string            `json:"locality"`
	Date     string            `json:"date"`
	Format   string            `json:"format"`
	Sessions map[string]string `json:"sessions"`
}

// HasSession reports whether the event carries the session code.
func (e EventMeta) HasSession(code string) bool {
	_, ok := e.Sessions[code]
	return ok
}

// Lap is one row of a session's lap table: one driver, one lap.
type Lap struct {
	Driver   string  `json:"driver"`
	Lap      int     `json:"lap"`
	Time     float64 `json:"time"`
	S1       float64 `json:"s1"`
	S2       float64 `json:"s2"`
	S3       float64 `json:"s3"`
	Compound string  `json:"compound"`
	Stint    int     `json:"stint"`
	TyreLife int     `json:"tyreLife"`
	Position int     `json:"position"`
	Accurate bool    `json:"accurate"`
}

// SessionResult is one row of a session's results table.
type SessionResult struct {
	Position       int     `json:"position"`
	Driver         string  `json:"driver"`
	DriverName     string  `json:"driverName"`
	Team           string  `json:"team"`
	Points         float64 `json:"points"`
	Grid           int     `json:"grid"`
	Status         string  `json:"status"`
	Q1             float64 `json:"q1"`
	Q2             float64 `json:"q2"`
	Q3             float64 `json:"q3"`
	FastestLapRank int     `json:"fastestLapRank"`
}

type WeatherSample struct {
	Time      float64 `json:"time"`
	AirTemp   float64 `json:"airTemp"`
	TrackTemp float64 `json:"trackTemp"`
	Humidity  float64 `json:"humidity"`
	Rainfall  bool    `json:"rainfall"`
	WindSpeed float64 `json:"windSpeed"`
}

type TelemetrySample struct {
	Distance float64 `json:"distance"`
	Speed    float64 `json:"speed"`
	RPM      float64 `json:"rpm"`
	Throttle float64 `json:"throttle"`
	Brake    bool    `json:"brake"`
	Gear     int     `json:"gear"`
	DRS      int     `json:"drs"`
}

// SessionData is the full session document: descriptor plus the lap, result
// and weather tables.
type SessionData struct {
	Season  int             `json:"season"`
	Event   string          `json:"event"`
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Laps    []Lap           `json:"laps"`
	Results []SessionResult `json:"results"`
	Weather []WeatherSample `json:"weather"`
}

// Events lists the events of a season known to the session API.
func (c *Client) Events(ctx context.Context, year int) ([]EventMeta, error) {
	u := fmt.Sprintf("%s/api/v1/seasons/%d/events", c.sessionBase, year)
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	var events []EventMeta
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, errors.Wrapf(err, "decoding events for %d", year)
	}
	return events, nil
}

// Event fetches the metadata of a single event by name.
func (c *Client) Event(ctx context.Context, year int, event string) (EventMeta, error) {
	var meta EventMeta
	u := fmt.Sprintf("%s/api/v1/seasons/%d/events/%s", c.sessionBase, year, url.PathEscape(event))
	body, err := c.get(ctx, u)
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(body, &meta); err != nil {
		return meta, errors.Wrapf(err, "decoding event %s %d", event, year)
	}
	return meta, nil
}

// Session fetches a session document over the direct path.
func (c *Client) Session(ctx context.Context, year int, event, code string) (*SessionData, error) {
	u := fmt.Sprintf("%s/api/v1/seasons/%d/events/%s/sessions/%s", c.sessionBase, year, url.PathEscape(event), code)
	return c.sessionDocument(ctx, u, event, code)
}

// ArchiveSession fetches a session document from the provider's consolidated
// archive, which only covers completed seasons. Returns ErrUnsupported when
// the provider has no archive at all.
func (c *Client) ArchiveSession(ctx context.Context, year int, event, code string) (*SessionData, error) {
	if !c.SupportsArchive(ctx) {
		return nil, errors.Wrap(ErrUnsupported, "archive")
	}
	u := fmt.Sprintf("%s/api/v1/archive/%d/events/%s/sessions/%s", c.sessionBase, year, url.PathEscape(event), code)
	return c.sessionDocument(ctx, u, event, code)
}

// Telemetry fetches the fastest-lap telemetry channels for one driver.
func (c *Client) Telemetry(ctx context.Context, year int, event, code, driver string) ([]TelemetrySample, error) {
	u := fmt.Sprintf("%s/api/v1/seasons/%d/events/%s/sessions/%s/telemetry/%s",
		c.sessionBase, year, url.PathEscape(event), code, url.PathEscape(driver))
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	var samples []TelemetrySample
	if err := json.Unmarshal(body, &samples); err != nil {
		return nil, errors.Wrapf(err, "decoding telemetry for %s", driver)
	}
	return samples, nil
}

// SupportsArchive probes the provider's capabilities endpoint once and caches
// the answer. A failed probe counts as "no archive".
func (c *Client) SupportsArchive(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.archive != nil {
		return *c.archive
	}
	supported := false
	body, err := c.get(ctx, c.sessionBase+"/api/v1/capabilities")
	if err == nil {
		var caps struct {
			Archive bool `json:"archive"`
		}
		if err := json.Unmarshal(body, &caps); err == nil {
			supported = caps.Archive
		}
	}
	c.archive = &supported
	return supported
}

func (c *Client) sessionDocument(ctx context.Context, u, event, code string) (*SessionData, error) {
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	var data SessionData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, errors.Wrapf(err, "decoding session %s of %s", code, event)
	}
	return &data, nil
}
