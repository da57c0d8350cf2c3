package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"heinzbottle/leaderboard"
	"heinzbottle/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the read-only status API
type Handler struct {
	leaderboards service.LeaderboardService
	db           Pinger
}

// NewHandler creates a status API handler. db may be nil.
func NewHandler(leaderboards service.LeaderboardService, db Pinger) *Handler {
	return &Handler{leaderboards: leaderboards, db: db}
}

// Routes builds the router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/leaderboards", func(r chi.Router) {
		r.Get("/", h.ListLeaderboards)
		r.Get("/{title}", h.GetLeaderboard)
	})
	r.Get("/players/{name}/rankings", h.GetPlayerRankings)
	return r
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("Error encoding API response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready reports whether the database is reachable and rankings are loaded
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]bool{
		"database": h.db == nil || h.db.Ping(r.Context()) == nil,
		"rankings": h.leaderboards.Snapshot() != nil,
	}

	status := http.StatusOK
	ready := checks["database"]
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]interface{}{
		"ready":  ready,
		"checks": checks,
	})
}

type boardSummary struct {
	Title   string `json:"title"`
	Stat    string `json:"stat,omitempty"`
	Name    string `json:"name"`
	Entries int    `json:"entries"`
	Resets  bool   `json:"resets,omitempty"`
}

// ListLeaderboards lists every board and how many players it holds
func (h *Handler) ListLeaderboards(w http.ResponseWriter, r *http.Request) {
	snapshot := h.leaderboards.Snapshot()

	boards := make([]boardSummary, 0)
	for _, def := range h.leaderboards.Definitions() {
		summary := boardSummary{Title: def.Title, Stat: def.Stat, Name: def.Name(), Resets: def.Resets}
		if snapshot != nil && snapshot.Recovered {
			summary.Entries = len(snapshot.Positions(def.Title, def.Stat))
		} else if board, ok := snapshot.Board(def.Title, def.Stat); ok {
			summary.Entries = board.Len()
		}
		boards = append(boards, summary)
	}

	body := map[string]interface{}{"boards": boards}
	if snapshot != nil {
		body["generatedAt"] = snapshot.GeneratedAt
		body["recovered"] = snapshot.Recovered
		body["players"] = snapshot.Players()
	}
	writeJSON(w, http.StatusOK, body)
}

type boardEntry struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Score    int64  `json:"score"`
	Display  string `json:"display"`
}

// GetLeaderboard returns one board's entries. The stat label is passed as ?stat=.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	stat := r.URL.Query().Get("stat")

	snapshot := h.leaderboards.Snapshot()
	board, ok := snapshot.Board(title, stat)
	if !ok {
		writeError(w, http.StatusNotFound, "leaderboard not found")
		return
	}

	def := board.Definition()
	if snapshot.Recovered {
		writeRecoveredLeaderboard(w, snapshot, def)
		return
	}

	entries := make([]boardEntry, 0, board.Len())
	rankings := board.GenerateRankings()
	for _, entry := range board.Board() {
		entries = append(entries, boardEntry{
			Position: rankings[leaderboard.Key(entry.Name)].Position,
			Name:     entry.Name,
			Score:    entry.Score,
			Display:  def.FormatScore(entry.Score),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"title":   def.Title,
		"stat":    def.Stat,
		"entries": entries,
	})
}

type positionEntry struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
}

// writeRecoveredLeaderboard serves a board from recovered rankings, which carry positions but no scores
func writeRecoveredLeaderboard(w http.ResponseWriter, snapshot *service.Snapshot, def leaderboard.Definition) {
	positions := snapshot.Positions(def.Title, def.Stat)
	entries := make([]positionEntry, 0, len(positions))
	for _, p := range positions {
		entries = append(entries, positionEntry{Position: p.Position, Name: p.Name})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"title":     def.Title,
		"stat":      def.Stat,
		"recovered": true,
		"entries":   entries,
	})
}

type rankingView struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Stat     string `json:"stat,omitempty"`
}

// GetPlayerRankings returns a player's positions across every board
func (h *Handler) GetPlayerRankings(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	snapshot := h.leaderboards.Snapshot()

	rankings := snapshot.Rankings(name)
	if len(rankings) == 0 {
		writeError(w, http.StatusNotFound, "player is not ranked")
		return
	}
	views := make([]rankingView, len(rankings))
	for i, ranking := range rankings {
		views[i] = rankingView{Position: ranking.Position, Title: ranking.Title, Stat: ranking.Stat}
	}

	body := map[string]interface{}{
		"name":     name,
		"rankings": views,
	}
	if best, ok := snapshot.BestPosition(name); ok {
		body["bestPosition"] = best
	}
	writeJSON(w, http.StatusOK, body)
}

// Server runs the status API
type Server struct {
	http *http.Server
}

// NewServer creates a server for handler on addr
func NewServer(addr string, handler *Handler) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler.Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start serves in the background until Shutdown
func (s *Server) Start() {
	go func() {
		log.WithField("addr", s.http.Addr).Info("Status API listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Status API stopped: %v", err)
		}
	}()
}

// Shutdown stops the server, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
