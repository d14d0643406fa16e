package webserver

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/kumaabi/F1DataViz/pkg/colors"
	"github.com/kumaabi/F1DataViz/pkg/model"
	"github.com/kumaabi/F1DataViz/pkg/series"
	"github.com/kumaabi/F1DataViz/pkg/sessions"
	"github.com/kumaabi/F1DataViz/pkg/settings"
	"github.com/kumaabi/F1DataViz/pkg/standings"
)

type errorResponse struct {
	Error string `json:"error"`
}

type availabilityResponse struct {
	Year        int      `json:"year"`
	Event       string   `json:"event"`
	Kinds       []string `json:"kinds"`
	Source      string   `json:"source"`
	Drivers     []string `json:"drivers"`
	Placeholder bool     `json:"placeholder,omitempty"`
}

type sessionResponse struct {
	Year           int      `json:"year"`
	Event          string   `json:"event"`
	Code           string   `json:"code"`
	Kind           string   `json:"kind"`
	Name           string   `json:"name,omitempty"`
	Status         string   `json:"status"`
	ReferenceYear  int      `json:"referenceYear,omitempty"`
	Laps           int      `json:"laps"`
	Results        int      `json:"results"`
	WeatherSamples int      `json:"weatherSamples"`
	Drivers        []string `json:"drivers"`
}

// seriesResponse wraps chart data with the coordinates the caller asked for,
// so a reference-substituted answer stays recognizable.
type seriesResponse struct {
	Kind          string `json:"kind"`
	Year          int    `json:"year"`
	Event         string `json:"event"`
	Code          string `json:"code"`
	Status        string `json:"status"`
	ReferenceYear int    `json:"referenceYear,omitempty"`
	Data          any    `json:"data"`
}

type colorResponse struct {
	Driver        string `json:"driver,omitempty"`
	Team          string `json:"team,omitempty"`
	Color         string `json:"color,omitempty"`
	Compound      string `json:"compound,omitempty"`
	CompoundColor string `json:"compoundColor,omitempty"`
}

type subscriptionRequest struct {
	UserID string          `json:"userId"`
	Name   string          `json:"name"`
	ChatID string          `json:"chatId"`
	Alerts map[string]bool `json:"alerts"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %s\n", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func yearVar(r *http.Request) int {
	year, _ := strconv.Atoi(mux.Vars(r)["year"])
	return year
}

// driversParam splits the optional comma-separated drivers filter.
func driversParam(r *http.Request) []string {
	raw := r.URL.Query().Get("drivers")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	drivers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			drivers = append(drivers, p)
		}
	}
	return drivers
}

func (m *Manager) scheduleHandler(w http.ResponseWriter, r *http.Request) {
	year := yearVar(r)
	events, err := m.schedule.Events(r.Context(), year)
	if err != nil {
		log.Printf("Error loading schedule for %d: %s\n", year, err.Error())
		writeError(w, http.StatusBadGateway, "no schedule available for "+strconv.Itoa(year))
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (m *Manager) availabilityHandler(w http.ResponseWriter, r *http.Request) {
	year := yearVar(r)
	event := mux.Vars(r)["event"]

	code := r.URL.Query().Get("code")
	if code == "" {
		code = "R"
	}
	desc, ok := sessions.ParseCode(code)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown session code "+code)
		return
	}
	desc.Year = year
	desc.Event = event

	kinds := m.resolver.AvailableKinds(r.Context(), year, event)
	names := make([]string, 0, len(kinds.Kinds))
	for _, k := range kinds.Kinds {
		names = append(names, k.String())
	}

	res := m.resolver.Resolve(r.Context(), desc)
	drivers := sessions.AvailableDrivers(res.Session)

	writeJSON(w, http.StatusOK, availabilityResponse{
		Year:        year,
		Event:       event,
		Kinds:       names,
		Source:      kinds.Source.String(),
		Drivers:     drivers.Codes,
		Placeholder: drivers.Placeholder,
	})
}

func (m *Manager) sessionHandler(w http.ResponseWriter, r *http.Request) {
	desc, code, ok := descriptorVars(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown session code "+mux.Vars(r)["code"])
		return
	}

	res := m.resolver.Resolve(r.Context(), desc)
	if res.Absent() {
		writeError(w, http.StatusNotFound, res.Reason)
		return
	}
	m.announceSession(desc, code, res)

	drivers := sessions.AvailableDrivers(res.Session)
	writeJSON(w, http.StatusOK, sessionResponse{
		Year:           desc.Year,
		Event:          desc.Event,
		Code:           code,
		Kind:           desc.Kind.String(),
		Name:           res.Session.Data.Name,
		Status:         res.Status.String(),
		ReferenceYear:  res.ReferenceYear,
		Laps:           len(res.Session.Laps()),
		Results:        len(res.Session.Results()),
		WeatherSamples: len(res.Session.Weather()),
		Drivers:        drivers.Codes,
	})
}

// the series kinds the endpoint serves
var seriesKinds = map[string]bool{
	"laps":       true,
	"deltas":     true,
	"sectors":    true,
	"stints":     true,
	"telemetry":  true,
	"positions":  true,
	"weather":    true,
	"qualifying": true,
}

func (m *Manager) seriesHandler(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	if !seriesKinds[kind] {
		writeError(w, http.StatusBadRequest, "unknown series kind "+kind)
		return
	}
	desc, code, ok := descriptorVars(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown session code "+mux.Vars(r)["code"])
		return
	}

	res := m.resolver.Resolve(r.Context(), desc)
	if res.Absent() {
		writeError(w, http.StatusNotFound, res.Reason)
		return
	}
	s := res.Session
	drivers := driversParam(r)

	var data any
	switch kind {
	case "laps":
		data = series.LapTimes(s, drivers...)
	case "deltas":
		reference := r.URL.Query().Get("reference")
		if reference == "" {
			writeError(w, http.StatusBadRequest, "missing reference driver")
			return
		}
		deltas := series.LapDeltas(s, reference, drivers...)
		if deltas == nil {
			writeError(w, http.StatusNotFound, "no laps for reference driver "+reference)
			return
		}
		data = deltas
	case "sectors":
		analysis := series.SectorBests(s)
		if analysis == nil {
			writeError(w, http.StatusNotFound, "no timed laps in "+desc.String())
			return
		}
		data = analysis
	case "stints":
		data = series.Stints(s, drivers...)
	case "telemetry":
		driver := r.URL.Query().Get("driver")
		if driver == "" {
			writeError(w, http.StatusBadRequest, "missing driver")
			return
		}
		telemetry, err := series.Telemetry(r.Context(), s, driver)
		if err != nil {
			log.Printf("Error loading telemetry for %s: %s\n", driver, err.Error())
			writeError(w, http.StatusBadGateway, "no telemetry available for "+driver)
			return
		}
		data = telemetry
	case "positions":
		data = series.Positions(s, drivers...)
	case "weather":
		data = series.Weather(s)
	case "qualifying":
		data = series.QualifyingClassification(s)
	}

	writeJSON(w, http.StatusOK, seriesResponse{
		Kind:          kind,
		Year:          desc.Year,
		Event:         desc.Event,
		Code:          code,
		Status:        res.Status.String(),
		ReferenceYear: res.ReferenceYear,
		Data:          data,
	})
}

func (m *Manager) standingsHandler(w http.ResponseWriter, r *http.Request) {
	year := yearVar(r)
	table := mux.Vars(r)["table"]

	round := 0
	if raw := r.URL.Query().Get("round"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid round "+raw)
			return
		}
		round = n
	} else {
		// no explicit round: the current season is served from the tables the
		// standings manager keeps fresh
		if cached := m.cachedStandings(year, table); cached != nil {
			writeJSON(w, http.StatusOK, cached)
			return
		}
		n, err := m.defaultRound(r.Context(), year)
		if err != nil {
			log.Printf("Error resolving rounds for %d: %s\n", year, err.Error())
			writeError(w, http.StatusBadGateway, "no schedule available for "+strconv.Itoa(year))
			return
		}
		round = n
	}

	var result *standings.Result
	if table == "drivers" {
		result = m.aggregator.DriverStandings(r.Context(), year, round)
	} else {
		result = m.aggregator.ConstructorStandings(r.Context(), year, round)
	}
	writeJSON(w, http.StatusOK, result)
}

func (m *Manager) cachedStandings(year int, table string) *standings.Result {
	if year != m.season || m.standingsMgr == nil {
		return nil
	}
	if table == "drivers" {
		return m.standingsMgr.Drivers()
	}
	return m.standingsMgr.Constructors()
}

func (m *Manager) defaultRound(ctx context.Context, year int) (int, error) {
	if year >= m.season {
		return m.schedule.CompletedRounds(ctx, year, time.Now())
	}
	events, err := m.schedule.Events(ctx, year)
	if err != nil {
		return 0, err
	}
	return len(events), nil
}

func (m *Manager) colorsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	driver, team, compound := q.Get("driver"), q.Get("team"), q.Get("compound")
	if driver == "" && team == "" && compound == "" {
		writeError(w, http.StatusBadRequest, "driver, team or compound required")
		return
	}

	resp := colorResponse{Driver: driver, Team: team}
	if driver != "" || team != "" {
		resp.Color = colors.ColorFor(driver, team)
	}
	if compound != "" {
		resp.Compound = compound
		resp.CompoundColor = colors.CompoundColor(compound)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (m *Manager) subscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid subscription body")
		return
	}
	if req.UserID == "" || req.ChatID == "" {
		writeError(w, http.StatusBadRequest, "userId and chatId are required")
		return
	}

	alerts := settings.AllDisabled()
	for name, enabled := range req.Alerts {
		canonical, ok := parseAlert(name)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown alert "+name)
			return
		}
		alerts[canonical] = enabled
	}

	if err := m.settings.SetAlerts(req.UserID, req.Name, req.ChatID, alerts); err != nil {
		log.Printf("Error storing subscription for %s: %s\n", req.UserID, err.Error())
		writeError(w, http.StatusInternalServerError, "could not store subscription")
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// descriptorVars builds the session descriptor from the year/event/code path
// variables.
func descriptorVars(r *http.Request) (sessions.Descriptor, string, bool) {
	vars := mux.Vars(r)
	desc, ok := sessions.ParseCode(vars["code"])
	if !ok {
		return sessions.Descriptor{}, "", false
	}
	desc.Year = yearVar(r)
	desc.Event = vars["event"]
	code, _ := desc.Code()
	return desc, code, true
}

func (m *Manager) announceSession(desc sessions.Descriptor, code string, res sessions.Result) {
	payload, err := m.sessionCaster.To(model.SessionLoaded{
		Year:          desc.Year,
		Event:         desc.Event,
		Code:          code,
		Status:        res.Status.String(),
		ReferenceYear: res.ReferenceYear,
	})
	if err != nil {
		log.Printf("Error casting session announcement to json: %s\n", err.Error())
		return
	}
	m.pubsubMgr.Publish(model.SessionsTopic, payload)
}

func parseAlert(name string) (string, bool) {
	switch strings.ToLower(name) {
	case "race":
		return settings.Race, true
	case "qualifying":
		return settings.Qualifying, true
	case "sprint":
		return settings.Sprint, true
	case "practice":
		return settings.Practice, true
	case "standings":
		return settings.Standings, true
	}
	return "", false
}
