// Package api exposes the portfolio registry and relationship graph over
// HTTP/JSON. The core stores are single-writer structures; the server
// serializes access with one lock, making each request a transaction
// against the shared state.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"expvar"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/projectchronos/chronos/internal/graph"
	"github.com/projectchronos/chronos/internal/lifecycle"
	"github.com/projectchronos/chronos/internal/metrics"
	"github.com/projectchronos/chronos/internal/models"
	"github.com/projectchronos/chronos/internal/portfolio"
	"github.com/projectchronos/chronos/internal/sources"
)

// Server is the HTTP API over the entity registry and ownership graph.
type Server struct {
	mu        sync.RWMutex
	registry  portfolio.Registry
	graph     *graph.Graph
	source    sources.Source // optional upstream lookup, may be nil
	logger    *slog.Logger
	authToken string // empty = no auth required
}

// NewServer creates a new Server with the given dependencies.
func NewServer(reg portfolio.Registry, g *graph.Graph, src sources.Source, logger *slog.Logger, authToken string) *Server {
	return &Server{
		registry:  reg,
		graph:     g,
		source:    src,
		logger:    logger,
		authToken: authToken,
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check and metrics — no auth required.
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /debug/vars", expvar.Handler())

	mux.HandleFunc("POST /v1/entities", s.auth(s.handleCreateEntity))
	mux.HandleFunc("GET /v1/entities/{slug}", s.auth(s.handleGetEntity))
	mux.HandleFunc("PUT /v1/entities/{slug}/status", s.auth(s.handleAdvanceStatus))
	mux.HandleFunc("GET /v1/status", s.auth(s.handleStatusSnapshot))
	mux.HandleFunc("GET /v1/search", s.auth(s.handleSearch))
	mux.HandleFunc("POST /v1/relationships", s.auth(s.handleLink))
	mux.HandleFunc("GET /v1/relationships", s.auth(s.handleRelationships))
	mux.HandleFunc("POST /v1/relationships/clear", s.auth(s.handleClearRelationships))
	mux.HandleFunc("GET /v1/shell-detection", s.auth(s.handleShellDetection))
	mux.HandleFunc("GET /v1/proxies", s.auth(s.handleProxies))

	return s.requestID(mux)
}

// --- middleware ---

// requestID tags every request with a correlation ID and logs it.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		s.logger.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// auth wraps a handler with Bearer token authentication when authToken is set.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

// --- handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createEntityRequest is the body accepted by POST /v1/entities.
type createEntityRequest struct {
	Name         string   `json:"name"`
	Jurisdiction string   `json:"jurisdiction"`
	Formed       string   `json:"formed"` // ISO date
	Officers     []string `json:"officers"`
	Status       string   `json:"status"`
	Notes        string   `json:"notes"`
}

func (s *Server) handleCreateEntity(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var req createEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var formed time.Time
	if req.Formed != "" {
		parsed, err := time.Parse("2006-01-02", req.Formed)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "formed must be an ISO date (YYYY-MM-DD)")
			return
		}
		formed = parsed
	}

	e, err := models.NewEntity(req.Name, req.Jurisdiction, formed)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e.Officers = req.Officers
	e.Notes = req.Notes
	if req.Status != "" {
		st, err := models.ParseStatus(req.Status)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		e.Status = st
	}

	s.mu.Lock()
	err = s.registry.Add(e)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("failed to store entity", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to store entity")
		return
	}

	metrics.Inc(metrics.EntitiesAdded)
	s.writeJSON(w, http.StatusCreated, map[string]string{"slug": e.Slug()})
}

// entityResponse is the wire form of a CorporateEntity.
type entityResponse struct {
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Jurisdiction string   `json:"jurisdiction"`
	Formed       string   `json:"formed,omitempty"`
	Officers     []string `json:"officers,omitempty"`
	Status       string   `json:"status"`
	Notes        string   `json:"notes,omitempty"`
}

func toEntityResponse(e *models.CorporateEntity) entityResponse {
	return entityResponse{
		Slug:         e.Slug(),
		Name:         e.Name,
		Jurisdiction: e.Jurisdiction,
		Formed:       e.FormedISO(),
		Officers:     e.Officers,
		Status:       string(e.Status),
		Notes:        e.Notes,
	}
}

func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	s.mu.RLock()
	e, err := s.registry.Get(slug)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "entity not found")
			return
		}
		s.logger.Error("failed to get entity", "slug", slug, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get entity")
		return
	}

	s.writeJSON(w, http.StatusOK, toEntityResponse(e))
}

// advanceStatusRequest is the body accepted by PUT /v1/entities/{slug}/status.
type advanceStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleAdvanceStatus(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req advanceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	target, err := models.ParseStatus(req.Status)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.registry.Get(slug)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "entity not found")
			return
		}
		s.logger.Error("failed to load entity", "slug", slug, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load entity")
		return
	}

	if err := lifecycle.Advance(e, target); err != nil {
		var terr *models.IllegalTransitionError
		if errors.As(err, &terr) {
			s.writeError(w, http.StatusConflict, terr.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to advance status")
		return
	}

	if err := s.registry.Add(e); err != nil {
		s.logger.Error("failed to persist transition", "slug", slug, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to persist transition")
		return
	}

	metrics.Inc(metrics.Transitions)
	s.writeJSON(w, http.StatusOK, toEntityResponse(e))
}

func (s *Server) handleStatusSnapshot(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	all, err := s.registry.All()
	s.mu.RUnlock()
	if err != nil {
		s.logger.Error("failed to list entities", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list entities")
		return
	}

	counts := make(map[string]int, len(models.ValidStatuses))
	for _, st := range models.ValidStatuses {
		counts[string(st)] = 0
	}
	for _, e := range all {
		counts[string(e.Status)]++
	}

	s.writeJSON(w, http.StatusOK, counts)
}

// businessSummary is the slim projection returned by GET /v1/search.
type businessSummary struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Jurisdiction string `json:"jurisdiction"`
	Status       string `json:"status"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if len(q) < 2 {
		s.writeError(w, http.StatusBadRequest, "q must be at least 2 characters")
		return
	}
	state := r.URL.Query().Get("state")

	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := s.searchRegistry(q, state)
	if err != nil {
		s.logger.Error("registry search failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	// Fall through to the upstream source, persisting every hit so later
	// searches and status snapshots include it.
	if len(matches) == 0 && s.source != nil {
		metrics.Inc(metrics.SourceSearches)
		hits, err := s.source.Search(r.Context(), q, state)
		if err != nil {
			metrics.Inc(metrics.SourceSearchErrs)
			s.logger.Error("upstream search failed", "query", q, "error", err)
		}
		for _, e := range hits {
			if err := s.registry.Add(e); err != nil {
				s.logger.Error("failed to store upstream hit", "slug", e.Slug(), "error", err)
				continue
			}
			matches = append(matches, e)
		}
	}

	if len(matches) == 0 {
		s.writeError(w, http.StatusNotFound, "no matching entities found")
		return
	}

	summaries := make([]businessSummary, 0, len(matches))
	for _, e := range matches {
		summaries = append(summaries, businessSummary{
			Slug:         e.Slug(),
			Name:         e.Name,
			Jurisdiction: e.Jurisdiction,
			Status:       string(e.Status),
		})
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

// searchRegistry matches by case-insensitive name substring with an
// optional jurisdiction filter. Caller holds the lock.
func (s *Server) searchRegistry(q, state string) ([]*models.CorporateEntity, error) {
	all, err := s.registry.All()
	if err != nil {
		return nil, err
	}
	qLower := strings.ToLower(q)
	var matches []*models.CorporateEntity
	for _, e := range all {
		if !strings.Contains(strings.ToLower(e.Name), qLower) {
			continue
		}
		if state != "" && !strings.EqualFold(e.Jurisdiction, state) {
			continue
		}
		matches = append(matches, e)
	}
	return matches, nil
}

// linkRequest is the body accepted by POST /v1/relationships.
type linkRequest struct {
	ParentSlug          string  `json:"parent_slug"`
	ChildSlug           string  `json:"child_slug"`
	OwnershipPercentage float64 `json:"ownership_percentage"`
}

func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ParentSlug == "" || req.ChildSlug == "" {
		s.writeError(w, http.StatusBadRequest, "parent_slug and child_slug are required")
		return
	}

	s.mu.Lock()
	err := s.graph.LinkParent(req.ParentSlug, req.ChildSlug, req.OwnershipPercentage)
	edges := s.graph.EdgeCount()
	s.mu.Unlock()
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			s.writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		s.logger.Error("failed to link entities", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to link entities")
		return
	}

	metrics.Inc(metrics.LinksCreated)
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"parent_slug": req.ParentSlug,
		"child_slug":  req.ChildSlug,
		"pct":         req.OwnershipPercentage,
		"total_edges": edges,
	})
}

func (s *Server) handleRelationships(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.syncGraphLocked(); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to sync graph metadata")
		return
	}

	metrics.Inc(metrics.GraphExports)
	s.writeJSON(w, http.StatusOK, s.graph.Export())
}

func (s *Server) handleClearRelationships(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := map[string]int{
		"nodes": len(s.graph.Nodes()),
		"edges": s.graph.EdgeCount(),
	}

	// Clearing removes edges and metadata only; the registry is a separate
	// store and keeps every entity. Nodes are reconnected bare-of-edges
	// from the registry snapshot.
	s.graph.Clear()
	if err := s.syncGraphLocked(); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to resync graph metadata")
		return
	}

	metrics.Inc(metrics.GraphClears)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "cleared",
		"before": before,
		"after": map[string]int{
			"nodes": len(s.graph.Nodes()),
			"edges": s.graph.EdgeCount(),
		},
	})
}

func (s *Server) handleShellDetection(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.syncGraphLocked(); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to sync graph metadata")
		return
	}

	metrics.Inc(metrics.ShellScans)
	flags := s.graph.IdentifyShellCompanies()
	if flags == nil {
		flags = []graph.ShellFlag{}
	}
	s.writeJSON(w, http.StatusOK, flags)
}

func (s *Server) handleProxies(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	proxies := s.graph.IdentifyProxies()
	s.mu.RUnlock()

	if proxies == nil {
		proxies = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"proxies": proxies})
}

// syncGraphLocked refreshes every metadata snapshot from the registry.
// Caller holds the write lock. Re-sync is idempotent and cheap enough to
// repeat on each read.
func (s *Server) syncGraphLocked() error {
	all, err := s.registry.All()
	if err != nil {
		s.logger.Error("failed to load registry for graph sync", "error", err)
		return err
	}
	s.graph.SyncRegistry(all)
	return nil
}

// --- helpers ---

// writeJSON encodes v as JSON and writes it to w with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(v); encErr != nil {
		s.logger.Error("failed to encode response", "error", encErr)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// Shutdown gracefully shuts down an http.Server with the given timeout.
// This is a convenience helper used by the serve command.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
