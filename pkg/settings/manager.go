// Package settings stores per-user alert subscriptions in sqlite.
package settings

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

const (
	Race       = "Race"
	Qualifying = "Qualifying"
	Sprint     = "Sprint"
	Practice   = "Practice"
	Standings  = "Standings"
)

// Subscriber is one registered alert recipient.
type Subscriber struct {
	ID     string
	Name   string
	ChatID string
}

type Alerts map[string]bool

func AllEnabled() Alerts {
	return Alerts{
		Race:       true,
		Qualifying: true,
		Sprint:     true,
		Practice:   true,
		Standings:  true,
	}
}

func AllDisabled() Alerts {
	return Alerts{
		Race:       false,
		Qualifying: false,
		Sprint:     false,
		Practice:   false,
		Standings:  false,
	}
}

func (a Alerts) enabledInt(alert string) int {
	if a[alert] {
		return 1
	}
	return 0
}

func (a Alerts) String() string {
	status := []string{}
	for _, alert := range []string{Race, Qualifying, Sprint, Practice, Standings} {
		status = append(status, fmt.Sprintf("%s %q alerts", symbolStatus(a[alert]), alert))
	}
	return strings.Join(status, "\n")
}

func symbolStatus(enabled bool) string {
	if enabled {
		return "🔔"
	}
	return "🔕"
}

func (a *Alerts) setAlertEnabledFlag(alert string, enabled bool) {
	(*a)[alert] = enabled
}

type Manager struct {
	db *sql.DB
	mu sync.Mutex
}

func NewManager(dbPath string) (*Manager, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Printf("error opening database: %s\n", err)
		return nil, err
	}

	initTableStmt := buildCreateSubscriptionsTable()

	_, err = db.Exec(initTableStmt)
	if err != nil {
		log.Printf("error init database: %s\n", err)
		return nil, err
	}

	return &Manager{
		db: db,
		mu: sync.Mutex{},
	}, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.db.Close()
}

// ToggleAlert flips one alert for a user, creating the subscription row on
// first use.
func (m *Manager) ToggleAlert(userID, name, chatID, alert string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.listAlerts(userID)
	if err != nil {
		return err
	}

	a.setAlertEnabledFlag(alert, !a[alert])
	_, err = m.db.Exec(buildUpsertUserCommand(userID, name, chatID, a))
	if err != nil {
		log.Printf("error updating database: %s\n", err)
		return err
	}
	return nil
}

// SetAlerts replaces a user's whole subscription row.
func (m *Manager) SetAlerts(userID, name, chatID string, a Alerts) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.db.Exec(buildUpsertUserCommand(userID, name, chatID, a))
	if err != nil {
		log.Printf("error updating database: %s\n", err)
		return err
	}
	return nil
}

func (m *Manager) ListAlerts(userID string) (Alerts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.listAlerts(userID)
}

// ListSubscribers returns every user with the given alert enabled.
func (m *Manager) ListSubscribers(alert string) ([]Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := []Subscriber{}
	stmt, read, err := buildSelectSubscribersCommand(alert)
	if err != nil {
		return users, err
	}
	rows, err := m.db.Query(stmt)
	if err != nil {
		return users, err
	}
	return read(rows)
}

func (m *Manager) listAlerts(userID string) (Alerts, error) {
	a := AllDisabled()

	stmt, read := buildSelectUserCommand(userID)
	rows, err := m.db.Query(stmt)
	if err != nil {
		return a, err
	}
	return read(rows)
}
