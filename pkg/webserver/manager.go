// Package webserver exposes the schedule, availability, session, series,
// standings, colors and subscription operations as a JSON API, plus a
// websocket stream of the pubsub topics.
package webserver

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/kumaabi/F1DataViz/pkg/caster"
	"github.com/kumaabi/F1DataViz/pkg/model"
	"github.com/kumaabi/F1DataViz/pkg/pubsub"
	"github.com/kumaabi/F1DataViz/pkg/queues"
	"github.com/kumaabi/F1DataViz/pkg/schedule"
	"github.com/kumaabi/F1DataViz/pkg/sessions"
	"github.com/kumaabi/F1DataViz/pkg/settings"
	"github.com/kumaabi/F1DataViz/pkg/standings"
)

var upgrader = websocket.Upgrader{} // use default options

// recentEvents bounds the replay buffer served to new websocket clients.
const recentEvents = 64

type Manager struct {
	r             *mux.Router
	addr          string
	season        int
	resolver      *sessions.Resolver
	schedule      *schedule.Manager
	aggregator    *standings.Aggregator
	standingsMgr  *standings.Manager
	settings      *settings.Manager
	pubsubMgr     *pubsub.PubSub[string]
	sessionCaster caster.ChannelCaster[model.SessionLoaded]

	mu     sync.Mutex
	recent *queues.Queue[string]
}

func NewManager(addr string, season int, resolver *sessions.Resolver, scheduleMgr *schedule.Manager, aggregator *standings.Aggregator, standingsMgr *standings.Manager, settingsMgr *settings.Manager, pubsubMgr *pubsub.PubSub[string]) *Manager {
	m := &Manager{
		r:             mux.NewRouter(),
		addr:          addr,
		season:        season,
		resolver:      resolver,
		schedule:      scheduleMgr,
		aggregator:    aggregator,
		standingsMgr:  standingsMgr,
		settings:      settingsMgr,
		pubsubMgr:     pubsubMgr,
		sessionCaster: caster.JSONChannelCaster[model.SessionLoaded]{},
		recent:        queues.NewBounded[string](recentEvents),
	}

	m.apiHandlers()
	return m
}

func (m *Manager) router() *mux.Router {
	return m.r
}

func (m *Manager) apiHandlers() {
	api := m.r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/schedule/{year:[0-9]+}", m.scheduleHandler).Methods(http.MethodGet)
	api.HandleFunc("/availability/{year:[0-9]+}/{event}", m.availabilityHandler).Methods(http.MethodGet)
	api.HandleFunc("/session/{year:[0-9]+}/{event}/{code}", m.sessionHandler).Methods(http.MethodGet)
	api.HandleFunc("/series/{kind}/{year:[0-9]+}/{event}/{code}", m.seriesHandler).Methods(http.MethodGet)
	api.HandleFunc("/standings/{year:[0-9]+}/{table:drivers|constructors}", m.standingsHandler).Methods(http.MethodGet)
	api.HandleFunc("/colors", m.colorsHandler).Methods(http.MethodGet)
	api.HandleFunc("/subscriptions", m.subscriptionsHandler).Methods(http.MethodPost)

	m.r.HandleFunc("/ws", m.websocketHandler)
}

func (m *Manager) Debug() {
	_ = m.router().Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err == nil {
			fmt.Println("ROUTE:", pathTemplate)
		}
		pathRegexp, err := route.GetPathRegexp()
		if err == nil {
			fmt.Println("Path regexp:", pathRegexp)
		}
		queriesTemplates, err := route.GetQueriesTemplates()
		if err == nil {
			fmt.Println("Queries templates:", strings.Join(queriesTemplates, ","))
		}
		queriesRegexps, err := route.GetQueriesRegexp()
		if err == nil {
			fmt.Println("Queries regexps:", strings.Join(queriesRegexps, ","))
		}
		methods, err := route.GetMethods()
		if err == nil {
			fmt.Println("Methods:", strings.Join(methods, ","))
		}
		fmt.Println()
		return nil
	})
}

func (m *Manager) Serve() {
	srv := &http.Server{
		Addr: m.addr,
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      m.router(), // Pass our instance of gorilla/mux in.
	}

	// Run our server in a goroutine so that it doesn't block.
	go func() {
		log.Printf("webserver listening on %s\n", m.addr)
		if err := srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	c := make(chan os.Signal, 1)
	// We'll accept graceful shutdowns when quit via SIGINT (Ctrl+C) or
	// SIGTERM. SIGKILL and SIGQUIT will not be caught.
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Block until we receive our signal.
	<-c

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Doesn't block if no connections, but will otherwise wait
	// until the timeout deadline.
	srv.Shutdown(ctx)
	// Optionally, you could run srv.Shutdown in a goroutine and block on
	// <-ctx.Done() if your application should wait for other services
	// to finalize based on context cancellation.
	log.Println("webserver shutting down")
}
