// Package httpapi maps the query engine onto the JSON/HTTP surface. Handlers
// parse and hand off; every decision about what a request may reference is
// made behind the usecase boundary.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/immunekb/cytokb/internal/domain"
	"github.com/immunekb/cytokb/internal/domain/schema"
	"github.com/immunekb/cytokb/internal/usecase/health"
	"github.com/immunekb/cytokb/internal/usecase/interaction"
	"github.com/immunekb/cytokb/internal/usecase/stats"
	"github.com/immunekb/cytokb/internal/version"
)

// Error codes returned in JSON error bodies.
const (
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeStoreUnavailable = "store_unavailable"
	codeInternalError    = "internal_error"
)

// Reserved query keys on /api/interactions; every other key is treated as a
// column filter and validated against the registry.
var reservedKeys = map[string]bool{
	"page":   true,
	"limit":  true,
	"fields": true,
	"search": true,
}

// InteractionLister lists one page of interaction records.
type InteractionLister interface {
	List(ctx context.Context, params interaction.ListParams) (interaction.ListResult, error)
}

// OptionLister returns distinct values for one column.
type OptionLister interface {
	Distinct(ctx context.Context, column string, limit int) ([]string, error)
}

// StatsReader computes the aggregate snapshot.
type StatsReader interface {
	Get(ctx context.Context) (stats.Snapshot, error)
}

// HealthChecker reports dependency health.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

// Server holds the handlers for the API surface.
type Server struct {
	interactions InteractionLister
	options      OptionLister
	stats        StatsReader
	health       HealthChecker
	reg          *schema.Registry
	logger       *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(
	interactions InteractionLister,
	options OptionLister,
	statsReader StatsReader,
	healthChecker HealthChecker,
	reg *schema.Registry,
	logger *zap.Logger,
) *Server {
	return &Server{
		interactions: interactions,
		options:      options,
		stats:        statsReader,
		health:       healthChecker,
		reg:          reg,
		logger:       logger,
	}
}

// Mount attaches all routes to the router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/interactions", s.handleInteractions)
		r.Get("/filters/{column}", s.handleFilterOptions)
		r.Get("/columns", s.handleColumns)
		r.Get("/stats", s.handleStats)
	})
}

type paginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type listResponse struct {
	Data       []map[string]any  `json:"data"`
	Pagination paginationMeta    `json:"pagination"`
	Filters    map[string]string `json:"filters"`
}

// handleInteractions handles GET /api/interactions.
func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := interaction.ListParams{Filters: map[string]string{}}

	for key, vals := range q {
		value := ""
		if len(vals) > 0 {
			value = vals[0]
		}
		if !reservedKeys[key] {
			params.Filters[key] = value
			continue
		}
		switch key {
		case "page":
			n, err := parsePositive(value)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeValidationFailed, "page: "+err.Error())
				return
			}
			params.Page = n
		case "limit":
			n, err := parsePositive(value)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeValidationFailed, "limit: "+err.Error())
				return
			}
			params.Limit = n
		case "fields":
			for _, f := range strings.Split(value, ",") {
				if f = strings.TrimSpace(f); f != "" {
					params.Fields = append(params.Fields, f)
				}
			}
		case "search":
			params.Search = value
		}
	}

	res, err := s.interactions.List(r.Context(), params)
	if err != nil {
		s.respondError(w, err)
		return
	}

	// Echo the predicates that were actually applied, as the UI expects.
	applied := make(map[string]string)
	for k, v := range params.Filters {
		if strings.TrimSpace(v) != "" {
			applied[k] = v
		}
	}
	if strings.TrimSpace(params.Search) != "" {
		applied["search"] = params.Search
	}

	if res.Rows == nil {
		res.Rows = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Data: res.Rows,
		Pagination: paginationMeta{
			Page:       res.Page,
			Limit:      res.Limit,
			Total:      res.Total,
			TotalPages: res.TotalPages,
		},
		Filters: applied,
	})
}

// handleFilterOptions handles GET /api/filters/{column}.
func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := parsePositive(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit: "+err.Error())
			return
		}
		limit = n
	}

	values, err := s.options.Distinct(r.Context(), column, limit)
	if err != nil {
		// An unknown or unfilterable column is a missing resource on this
		// route, not a malformed request.
		if domain.IsValidation(err) {
			writeError(w, http.StatusNotFound, codeNotFound, "unknown column: "+column)
			return
		}
		s.respondError(w, err)
		return
	}

	if values == nil {
		values = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"column": column,
		"values": values,
	})
}

// handleStats handles GET /api/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := s.stats.Get(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleColumns handles GET /api/columns.
func (s *Server) handleColumns(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"columns": s.reg.Names()})
}

// handleRoot handles GET /.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Cytokine Knowledgebase API",
		"version": version.Version,
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == health.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// respondError maps domain errors onto the HTTP taxonomy: validation → 400
// naming the field, store loss → 503, everything else → 500 with details
// kept in the log.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, codeValidationFailed, validationMessage(err))
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.logger.Warn("store unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, codeStoreUnavailable, "store unavailable")
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

// validationMessage keeps the offending field visible to the client without
// leaking anything but the validation failure itself.
func validationMessage(err error) string {
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return err.Error()
}

func parsePositive(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("must be an integer")
	}
	if n < 1 {
		return 0, errors.New("must be >= 1")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}
