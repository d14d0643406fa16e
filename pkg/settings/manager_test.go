package settings

import (
	"path/filepath"
	"testing"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("NewManager: %s", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestAlertsDefaultDisabled(t *testing.T) {
	m := newTestManager(t)

	a, err := m.ListAlerts("u1")
	if err != nil {
		t.Fatalf("ListAlerts: %s", err)
	}
	for alert, enabled := range a {
		if enabled {
			t.Errorf("alert %s enabled for an unknown user", alert)
		}
	}
}

func TestToggleAlertRoundTrip(t *testing.T) {
	m := newTestManager(t)

	if err := m.ToggleAlert("u1", "User One", "chat-1", Race); err != nil {
		t.Fatalf("ToggleAlert: %s", err)
	}
	a, err := m.ListAlerts("u1")
	if err != nil {
		t.Fatalf("ListAlerts: %s", err)
	}
	if !a[Race] {
		t.Error("race alert not enabled after toggle")
	}
	if a[Qualifying] || a[Sprint] || a[Practice] || a[Standings] {
		t.Errorf("other alerts flipped: %v", a)
	}

	if err := m.ToggleAlert("u1", "User One", "chat-1", Race); err != nil {
		t.Fatalf("second ToggleAlert: %s", err)
	}
	a, err = m.ListAlerts("u1")
	if err != nil {
		t.Fatalf("ListAlerts: %s", err)
	}
	if a[Race] {
		t.Error("race alert still enabled after second toggle")
	}
}

func TestListSubscribersFiltersByAlert(t *testing.T) {
	m := newTestManager(t)

	standingsOnly := AllDisabled()
	standingsOnly[Standings] = true
	if err := m.SetAlerts("u1", "User One", "chat-1", standingsOnly); err != nil {
		t.Fatalf("SetAlerts: %s", err)
	}
	if err := m.SetAlerts("u2", "User Two", "chat-2", AllEnabled()); err != nil {
		t.Fatalf("SetAlerts: %s", err)
	}

	subs, err := m.ListSubscribers(Standings)
	if err != nil {
		t.Fatalf("ListSubscribers: %s", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 standings subscribers, got %d", len(subs))
	}

	subs, err = m.ListSubscribers(Race)
	if err != nil {
		t.Fatalf("ListSubscribers: %s", err)
	}
	if len(subs) != 1 || subs[0].ID != "u2" || subs[0].ChatID != "chat-2" {
		t.Errorf("unexpected race subscribers: %+v", subs)
	}

	if _, err := m.ListSubscribers("Nonsense"); err == nil {
		t.Error("expected an error for an unknown alert")
	}
}

func TestSetAlertsReplacesRow(t *testing.T) {
	m := newTestManager(t)

	if err := m.SetAlerts("u1", "User One", "chat-1", AllEnabled()); err != nil {
		t.Fatalf("SetAlerts: %s", err)
	}
	if err := m.SetAlerts("u1", "User One", "chat-9", AllDisabled()); err != nil {
		t.Fatalf("second SetAlerts: %s", err)
	}

	a, err := m.ListAlerts("u1")
	if err != nil {
		t.Fatalf("ListAlerts: %s", err)
	}
	for alert, enabled := range a {
		if enabled {
			t.Errorf("alert %s survived the replace", alert)
		}
	}
}

func TestQuotedIdentifiersSurviveRoundTrip(t *testing.T) {
	m := newTestManager(t)

	if err := m.ToggleAlert("o'brien", "O'Brien", "chat-1", Sprint); err != nil {
		t.Fatalf("ToggleAlert: %s", err)
	}
	a, err := m.ListAlerts("o'brien")
	if err != nil {
		t.Fatalf("ListAlerts: %s", err)
	}
	if !a[Sprint] {
		t.Error("quoted user id did not round-trip")
	}
}
