// Package handlers provides HTTP handlers for the screening API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/aristath/esgscreen/internal/domain"
	"github.com/aristath/esgscreen/internal/modules/screening"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

const contentTypeMsgpack = "application/msgpack"

// Purger clears persisted provider responses.
type Purger interface {
	Purge() (int64, error)
}

// Handlers provides HTTP handlers for the screening module
type Handlers struct {
	pipeline *screening.Pipeline
	purger   Purger
	defaults domain.FilterCriteria
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandlers creates a new screening handlers instance.
// purger may be nil when the persistent cache is disabled.
func NewHandlers(pipeline *screening.Pipeline, purger Purger, defaults domain.FilterCriteria, log zerolog.Logger) *Handlers {
	return &Handlers{
		pipeline: pipeline,
		purger:   purger,
		defaults: defaults,
		validate: newValidator(),
		log:      log.With().Str("module", "screening_handlers").Logger(),
	}
}

// newValidator reports field errors by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ShortlistResponse is the formatted summary table.
type ShortlistResponse struct {
	Rows     []screening.ShortlistRow `json:"rows" msgpack:"rows"`
	Criteria domain.FilterCriteria    `json:"criteria" msgpack:"criteria"`
}

// HandleGetView handles GET /api/screening/view
func (h *Handlers) HandleGetView(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.parseCriteria(r)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respond(w, r, h.pipeline.Run(criteria))
}

// HandleGetShortlist handles GET /api/screening/shortlist
func (h *Handlers) HandleGetShortlist(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.parseCriteria(r)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := h.pipeline.Run(criteria)
	h.respond(w, r, ShortlistResponse{
		Rows:     screening.FormatShortlist(view.Shortlist),
		Criteria: criteria,
	})
}

// HandleGetESG handles GET /api/screening/esg
func (h *Handlers) HandleGetESG(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, map[string]interface{}{
		"records": h.pipeline.Table().LookupAll(),
	})
}

// HandleInvalidateCache handles POST /api/screening/cache/invalidate
// Clears the memo cache and any persisted provider responses.
func (h *Handlers) HandleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	purged, err := h.clearCaches()
	if err != nil {
		h.writeError(w, "Failed to purge persisted cache", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"purged": purged,
	})
}

// clearCaches makes the next run hit the provider for every ticker.
func (h *Handlers) clearCaches() (int64, error) {
	h.pipeline.Refresh()

	if h.purger == nil {
		return 0, nil
	}
	purged, err := h.purger.Purge()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to purge persisted financial data")
		return 0, err
	}
	h.log.Info().Int64("purged", purged).Msg("Persisted financial data purged")
	return purged, nil
}

// parseCriteria reads criteria from the query string, falling back to defaults.
func (h *Handlers) parseCriteria(r *http.Request) (domain.FilterCriteria, error) {
	criteria := h.defaults
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("min_esg_score")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return criteria, fmt.Errorf("min_esg_score must be an integer")
		}
		criteria.MinESGScore = v
	}

	if raw := strings.TrimSpace(query.Get("max_pe_ratio")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return criteria, fmt.Errorf("max_pe_ratio must be a number")
		}
		criteria.MaxPERatio = v
	}

	if err := h.validateCriteria(criteria); err != nil {
		return criteria, err
	}
	return criteria, nil
}

func (h *Handlers) validateCriteria(c domain.FilterCriteria) error {
	err := h.validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s must be between 0 and 100", fe.Field()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// respond writes data as msgpack when the client asks for it, JSON otherwise.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, data interface{}) {
	if strings.Contains(r.Header.Get("Accept"), contentTypeMsgpack) {
		body, err := msgpack.Marshal(data)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to encode msgpack response")
			h.writeError(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentTypeMsgpack)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	h.writeJSON(w, http.StatusOK, data)
}

// writeJSON writes a JSON response with status code
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handlers) writeError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
