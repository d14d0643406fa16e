// Package model defines the payloads published on the pubsub bus and
// streamed to websocket clients, together with the topics they travel on.
package model

import "time"

const (
	StandingsTopic = "standings"
	SessionsTopic  = "sessions"
	ScheduleTopic  = "schedule"
)

// StandingRow is one ranked championship row as pushed to clients.
type StandingRow struct {
	Position int     `json:"position"`
	Entity   string  `json:"entity"`
	Name     string  `json:"name,omitempty"`
	Team     string  `json:"team,omitempty"`
	Points   float64 `json:"points"`
	Wins     int     `json:"wins"`
}

// StandingsUpdate announces recomputed championship tables.
type StandingsUpdate struct {
	Year          int           `json:"year"`
	ThroughRound  int           `json:"throughRound"`
	Drivers       []StandingRow `json:"drivers"`
	Constructors  []StandingRow `json:"constructors"`
	SkippedRounds []int         `json:"skippedRounds,omitempty"`
}

// SessionLoaded announces that a session was resolved, including whether the
// data came from the requested event or from a reference substitute.
type SessionLoaded struct {
	Year          int    `json:"year"`
	Event         string `json:"event"`
	Code          string `json:"code"`
	Status        string `json:"status"`
	ReferenceYear int    `json:"referenceYear,omitempty"`
}

// ScheduleRefreshed announces that the cached calendars were dropped.
type ScheduleRefreshed struct {
	At      time.Time `json:"at"`
	Seasons []int     `json:"seasons,omitempty"`
}
