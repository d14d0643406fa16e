// Package notification pushes standings and session alerts to subscribed
// Telegram chats.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nikoksr/notify"

	"github.com/kumaabi/F1DataViz/pkg/caster"
	"github.com/kumaabi/F1DataViz/pkg/model"
	"github.com/kumaabi/F1DataViz/pkg/pubsub"
	"github.com/kumaabi/F1DataViz/pkg/settings"
)

// Standings messages show this many rows.
const topRows = 10

type Lister interface {
	ListSubscribers(alert string) ([]settings.Subscriber, error)
}

type Manager struct {
	ctx           context.Context
	lister        Lister
	bot           *tgbotapi.BotAPI
	pubsubMgr     *pubsub.PubSub[string]
	updateCaster  caster.ChannelCaster[model.StandingsUpdate]
	sessionCaster caster.ChannelCaster[model.SessionLoaded]
}

func NewManager(ctx context.Context, bot *tgbotapi.BotAPI, lister Lister, pubsubMgr *pubsub.PubSub[string]) *Manager {
	return &Manager{
		ctx:           ctx,
		bot:           bot,
		lister:        lister,
		pubsubMgr:     pubsubMgr,
		updateCaster:  caster.JSONChannelCaster[model.StandingsUpdate]{},
		sessionCaster: caster.JSONChannelCaster[model.SessionLoaded]{},
	}
}

func (m *Manager) Start(exitChan <-chan bool) {
	standingsChan := m.pubsubMgr.Subscribe(model.StandingsTopic)
	sessionsChan := m.pubsubMgr.Subscribe(model.SessionsTopic)
	defer func() {
		m.pubsubMgr.Unsubscribe(model.StandingsTopic, standingsChan)
		m.pubsubMgr.Unsubscribe(model.SessionsTopic, sessionsChan)
	}()
	for {
		select {
		case <-exitChan:
			return
		case payload := <-standingsChan:
			update, err := m.updateCaster.From(payload)
			if err != nil {
				log.Printf("Error casting standings update from json: %s\n", err.Error())
				continue
			}
			m.handleStandingsUpdate(update)
		case payload := <-sessionsChan:
			loaded, err := m.sessionCaster.From(payload)
			if err != nil {
				log.Printf("Error casting session event from json: %s\n", err.Error())
				continue
			}
			m.handleSessionLoaded(loaded)
		}
	}
}

func (m *Manager) handleStandingsUpdate(update model.StandingsUpdate) {
	recipients, err := m.lister.ListSubscribers(settings.Standings)
	if err != nil {
		log.Printf("Error listing standings subscribers: %s", err.Error())
		return
	}
	log.Printf("Sending standings update for %d round %d to %d telegram users\n", update.Year, update.ThroughRound, len(recipients))
	subject := fmt.Sprintf("Standings update, %d:", update.Year)
	err = m.sendNotification(recipients, subject, renderStandingsTable(update))
	if err != nil {
		log.Printf("Error notifying users: %s", err.Error())
	}
}

func (m *Manager) handleSessionLoaded(loaded model.SessionLoaded) {
	alert, ok := alertForCode(loaded.Code)
	if !ok {
		return
	}
	recipients, err := m.lister.ListSubscribers(alert)
	if err != nil {
		log.Printf("Error listing %s subscribers: %s", alert, err.Error())
		return
	}
	log.Printf("Sending %s alert for %s %d to %d telegram users\n", alert, loaded.Event, loaded.Year, len(recipients))
	message := fmt.Sprintf("%s %s of %d is loaded", loaded.Event, loaded.Code, loaded.Year)
	if loaded.ReferenceYear != 0 {
		message = fmt.Sprintf("%s, showing %d reference data", message, loaded.ReferenceYear)
	}
	err = m.sendNotification(recipients, "New session data:", message)
	if err != nil {
		log.Printf("Error notifying users: %s", err.Error())
	}
}

func (m *Manager) sendNotification(subscribers []settings.Subscriber, subject, message string) error {
	if len(subscribers) == 0 {
		return nil
	}
	if m.bot == nil {
		log.Println("No telegram bot configured, dropping notification")
		return nil
	}

	tg := Telegram{}
	tg.SetClient(m.bot)

	for _, subscriber := range subscribers {
		chatId, _ := strconv.ParseInt(subscriber.ChatID, 0, 64)
		tg.AddReceivers(chatId)
	}

	n := notify.NewWithServices(tg)
	err := n.Send(m.ctx, subject, message)
	if err != nil {
		return err
	}
	return nil
}

// renderStandingsTable formats the top of the driver table for a mono-spaced
// chat message.
func renderStandingsTable(update model.StandingsUpdate) string {
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendSeparator()
	t.AppendHeader(table.Row{"P", "Driver", "Points", "Wins"})

	rows := update.Drivers
	if len(rows) > topRows {
		rows = rows[:topRows]
	}
	for _, row := range rows {
		t.AppendRow([]interface{}{row.Position, row.Entity, row.Points, row.Wins})
	}
	t.Render()

	header := fmt.Sprintf("Driver standings after round %d", update.ThroughRound)
	if len(update.SkippedRounds) > 0 {
		header = fmt.Sprintf("%s (missing rounds %v)", header, update.SkippedRounds)
	}
	return fmt.Sprintf("```\n%s\n\n%s```", header, b.String())
}

// alertForCode maps a session code to the alert column it belongs to.
func alertForCode(code string) (string, bool) {
	switch {
	case code == "R":
		return settings.Race, true
	case code == "S" || strings.HasPrefix(code, "SQ"):
		return settings.Sprint, true
	case strings.HasPrefix(code, "Q"):
		return settings.Qualifying, true
	case strings.HasPrefix(code, "FP"):
		return settings.Practice, true
	}
	return "", false
}
