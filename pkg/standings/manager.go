package standings

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"sync"
	"time"

	"github.com/kumaabi/F1DataViz/pkg/caster"
	"github.com/kumaabi/F1DataViz/pkg/model"
	"github.com/kumaabi/F1DataViz/pkg/pubsub"
)

// Manager keeps the current season's championship tables fresh and announces
// every change on the standings topic.
type Manager struct {
	mu           sync.Mutex
	calculator   *Calculator
	season       int
	drivers      *Result
	constructors *Result
	pubsubMgr    *pubsub.PubSub[string]
	updateCaster caster.ChannelCaster[model.StandingsUpdate]
}

func NewManager(calculator *Calculator, season int, pubsubMgr *pubsub.PubSub[string]) *Manager {
	return &Manager{
		calculator:   calculator,
		season:       season,
		pubsubMgr:    pubsubMgr,
		updateCaster: caster.JSONChannelCaster[model.StandingsUpdate]{},
	}
}

func (m *Manager) Sync(ctx context.Context, ticker *time.Ticker, exitChan chan bool) {
	m.doSync(ctx, time.Now())
	go func() {
		for {
			select {
			case <-exitChan:
				return
			case t := <-ticker.C:
				m.doSync(ctx, t)
			}
		}
	}()
}

func (m *Manager) doSync(ctx context.Context, t time.Time) {
	fmt.Println("Refreshing standings at: ", t)
	drivers, constructors := m.calculator.SeasonStandings(ctx, m.season)

	m.mu.Lock()
	changed := !reflect.DeepEqual(drivers, m.drivers) || !reflect.DeepEqual(constructors, m.constructors)
	m.drivers = drivers
	m.constructors = constructors
	m.mu.Unlock()

	if !changed {
		return
	}
	update := model.StandingsUpdate{
		Year:          drivers.Year,
		ThroughRound:  drivers.ThroughRound,
		Drivers:       toModelRows(drivers.Rows),
		Constructors:  toModelRows(constructors.Rows),
		SkippedRounds: drivers.SkippedRounds,
	}
	payload, err := m.updateCaster.To(update)
	if err != nil {
		log.Printf("Error casting standings update to json: %s\n", err.Error())
		return
	}
	m.pubsubMgr.Publish(model.StandingsTopic, payload)
}

// Drivers returns the last computed driver table, nil before the first sync.
func (m *Manager) Drivers() *Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drivers
}

// Constructors returns the last computed constructor table, nil before the
// first sync.
func (m *Manager) Constructors() *Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.constructors
}

func toModelRows(rows []Row) []model.StandingRow {
	out := make([]model.StandingRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.StandingRow{
			Position: r.Position,
			Entity:   r.Entity,
			Name:     r.Name,
			Team:     r.Team,
			Points:   r.Points,
			Wins:     r.Wins,
		})
	}
	return out
}
