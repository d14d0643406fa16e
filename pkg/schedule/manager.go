// Package schedule serves season calendars and driver lineups, caching per
// season and falling back to the projected calendar when the provider has no
// data for a season yet.
package schedule

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kumaabi/F1DataViz/pkg/caster"
	"github.com/kumaabi/F1DataViz/pkg/f1api"
	"github.com/kumaabi/F1DataViz/pkg/model"
	"github.com/kumaabi/F1DataViz/pkg/pubsub"
)

// Event is one round of a season. Projected marks entries served from the
// static projected calendar instead of provider data.
type Event struct {
	Season    int       `json:"season"`
	Round     int       `json:"round"`
	Name      string    `json:"name"`
	Circuit   string    `json:"circuit"`
	Locality  string    `json:"locality"`
	Country   string    `json:"country"`
	Date      time.Time `json:"date"`
	Projected bool      `json:"projected,omitempty"`
}

// Driver is one entry of a season lineup.
type Driver struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Number    string `json:"number"`
	Name      string `json:"name"`
	Team      string `json:"team"`
	Projected bool   `json:"projected,omitempty"`
}

type Manager struct {
	client        *f1api.Client
	mu            sync.Mutex
	seasons       map[int][]Event
	pubsubMgr     *pubsub.PubSub[string]
	refreshCaster caster.ChannelCaster[model.ScheduleRefreshed]
}

func NewManager(client *f1api.Client, pubsubMgr *pubsub.PubSub[string]) *Manager {
	return &Manager{
		client:        client,
		seasons:       make(map[int][]Event),
		pubsubMgr:     pubsubMgr,
		refreshCaster: caster.JSONChannelCaster[model.ScheduleRefreshed]{},
	}
}

// Sync clears the cached seasons on every tick so calendar changes are
// picked up, and announces the drop on the schedule topic.
func (m *Manager) Sync(ctx context.Context, ticker *time.Ticker, exitChan chan bool) {
	go func() {
		for {
			select {
			case <-exitChan:
				return
			case t := <-ticker.C:
				m.doSync(t)
			}
		}
	}()
}

func (m *Manager) doSync(t time.Time) {
	fmt.Println("Resetting cached schedules at: ", t)
	m.mu.Lock()
	seasons := make([]int, 0, len(m.seasons))
	for year := range m.seasons {
		seasons = append(seasons, year)
	}
	m.seasons = make(map[int][]Event)
	m.mu.Unlock()
	sort.Ints(seasons)

	payload, err := m.refreshCaster.To(model.ScheduleRefreshed{At: t, Seasons: seasons})
	if err != nil {
		log.Printf("Error casting schedule refresh to json: %s\n", err.Error())
		return
	}
	m.pubsubMgr.Publish(model.ScheduleTopic, payload)
}

// Events returns the calendar of a season. When the provider has nothing for
// a projected season the static calendar is returned instead, flagged as
// projected.
func (m *Manager) Events(ctx context.Context, year int) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if events, ok := m.seasons[year]; ok {
		return events, nil
	}

	races, err := m.client.Schedule(ctx, year)
	if err != nil || len(races) == 0 {
		if year >= projectedSeason {
			events := ProjectedCalendar()
			m.seasons[year] = events
			return events, nil
		}
		if err == nil {
			err = fmt.Errorf("empty schedule for %d", year)
		}
		return nil, err
	}

	events := make([]Event, 0, len(races))
	for _, r := range races {
		events = append(events, Event{
			Season:   r.Season,
			Round:    r.Round,
			Name:     r.Name,
			Circuit:  r.Circuit,
			Locality: r.Locality,
			Country:  r.Country,
			Date:     parseDate(r.Date),
		})
	}
	m.seasons[year] = events
	return events, nil
}

// EventByRound finds one round of a season.
func (m *Manager) EventByRound(ctx context.Context, year, round int) (Event, bool) {
	events, err := m.Events(ctx, year)
	if err != nil {
		return Event{}, false
	}
	for _, e := range events {
		if e.Round == round {
			return e, true
		}
	}
	return Event{}, false
}

// EventByName finds an event by name, case-insensitively.
func (m *Manager) EventByName(ctx context.Context, year int, name string) (Event, bool) {
	events, err := m.Events(ctx, year)
	if err != nil {
		return Event{}, false
	}
	for _, e := range events {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Event{}, false
}

// CompletedRounds counts the rounds of a season whose date has passed.
func (m *Manager) CompletedRounds(ctx context.Context, year int, now time.Time) (int, error) {
	events, err := m.Events(ctx, year)
	if err != nil {
		return 0, err
	}
	completed := 0
	for _, e := range events {
		if !e.Date.IsZero() && e.Date.Before(now) {
			completed++
		}
	}
	return completed, nil
}

func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
