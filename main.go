package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kumaabi/F1DataViz/pkg/cache"
	"github.com/kumaabi/F1DataViz/pkg/f1api"
	"github.com/kumaabi/F1DataViz/pkg/notification"
	"github.com/kumaabi/F1DataViz/pkg/pubsub"
	"github.com/kumaabi/F1DataViz/pkg/schedule"
	"github.com/kumaabi/F1DataViz/pkg/sessions"
	"github.com/kumaabi/F1DataViz/pkg/settings"
	"github.com/kumaabi/F1DataViz/pkg/standings"
	"github.com/kumaabi/F1DataViz/pkg/webserver"
)

const (
	defaultHTTPAddr   = ":8080"
	defaultCacheDir   = "./cache"
	defaultDBPath     = "./f1viz.db"
	defaultSessionAPI = "https://api.f1dataviz.net"
	defaultErgastAPI  = "https://ergast.com/api/f1"

	refreshInterval = 60 * time.Minute
	cacheMaxAge     = time.Hour
)

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func main() {
	httpAddr := envOr("F1VIZ_HTTP_ADDR", defaultHTTPAddr)
	cacheDir := envOr("F1VIZ_CACHE_DIR", defaultCacheDir)
	dbPath := envOr("F1VIZ_DB_PATH", defaultDBPath)
	sessionAPI := envOr("F1VIZ_SESSION_API", defaultSessionAPI)
	ergastAPI := envOr("F1VIZ_ERGAST_API", defaultErgastAPI)

	season := time.Now().Year()
	if v := os.Getenv("F1VIZ_SEASON"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("Error parsing F1VIZ_SEASON: %s\n", err.Error())
		}
		season = s
	}

	var mock *mockProvider
	if os.Getenv("F1VIZ_MOCK") == "1" {
		var err error
		mock, err = startMockProvider(season)
		if err != nil {
			log.Fatalf("Error starting mock provider: %s\n", err.Error())
		}
		defer mock.Close()
		sessionAPI = mock.URL()
		ergastAPI = mock.URL()
		log.Printf("Mock provider serving season %d at %s\n", season, mock.URL())
	}

	var bot *tgbotapi.BotAPI
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("No TELEGRAM_BOT_TOKEN set, notifications disabled")
	} else {
		b, err := tgbotapi.NewBotAPI(token)
		if err != nil {
			log.Printf("Error creating telegram bot, notifications disabled: %s\n", err.Error())
		} else {
			b.Debug = false
			bot = b
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	store, err := cache.Enable(cacheDir, cacheMaxAge)
	if err != nil {
		log.Printf("Warning: response cache disabled: %s\n", err.Error())
		store = nil
	} else {
		defer store.Close()
	}

	client := f1api.NewClient(sessionAPI, ergastAPI, store)
	pubsubMgr := pubsub.NewPubSub[string]()

	resolver := sessions.NewResolver(client, season)
	scheduleMgr := schedule.NewManager(client, pubsubMgr)
	aggregator := standings.NewAggregator(client)
	calculator := standings.NewCalculator(client, scheduleMgr)
	standingsMgr := standings.NewManager(calculator, season, pubsubMgr)

	settingsMgr, err := settings.NewManager(dbPath)
	if err != nil {
		log.Fatalf("Error opening settings store: %s\n", err.Error())
	}
	defer settingsMgr.Close()

	notificationMgr := notification.NewManager(ctx, bot, settingsMgr, pubsubMgr)

	exitChan := make(chan bool)

	// Consumers subscribe first so the initial standings compute is not
	// published into the void.
	go notificationMgr.Start(exitChan)
	webserverMgr := webserver.NewManager(httpAddr, season, resolver, scheduleMgr, aggregator, standingsMgr, settingsMgr, pubsubMgr)
	go webserverMgr.Record(exitChan)

	scheduleTicker := time.NewTicker(refreshInterval)
	scheduleMgr.Sync(ctx, scheduleTicker, exitChan)

	standingsTicker := time.NewTicker(refreshInterval)
	standingsMgr.Sync(ctx, standingsTicker, exitChan)

	if mock != nil {
		webserverMgr.Debug()
	}

	// Blocks until SIGINT or SIGTERM.
	webserverMgr.Serve()

	scheduleTicker.Stop()
	standingsTicker.Stop()
	close(exitChan)
	cancel()
	log.Println("f1dataviz shut down")
}
