package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/atvirokodosprendimai/travelapi/internal/adapters/metrics"
	"github.com/atvirokodosprendimai/travelapi/internal/core/domain"
	"github.com/atvirokodosprendimai/travelapi/internal/core/schema"
	"github.com/atvirokodosprendimai/travelapi/internal/core/usecase"
)

const maxJSONBodySize = 1 << 20

type Handler struct {
	travel      *usecase.TravelService
	diagnostics *usecase.Diagnostics
	catalog     *schema.Catalog
	metrics     *metrics.Metrics
	log         zerolog.Logger
}

func NewHandler(travel *usecase.TravelService, diagnostics *usecase.Diagnostics, catalog *schema.Catalog, m *metrics.Metrics, log zerolog.Logger) *Handler {
	return &Handler{travel: travel, diagnostics: diagnostics, catalog: catalog, metrics: m, log: log}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(h.log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	// Browser clients on any origin call this API. The method list is every
	// method the router serves.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	r.Use(h.observe)

	r.Get("/", h.root)
	r.Get("/test", h.test)
	r.Get("/openapi.json", h.openapi)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/destinations", h.listDestinations)
		ar.Post("/subscribe", h.subscribe)
		ar.Post("/contact", h.contact)
		ar.Post("/itineraries", h.createItinerary)
		ar.Get("/itineraries", h.listItineraries)
		ar.Get("/schemas/{entity}", h.schemaDocument)
	})

	return r
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"message": "Travel API running"})
}

func (h *Handler) test(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.diagnostics.Report(r.Context()))
}

func (h *Handler) listDestinations(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r, usecase.DefaultDestinationLimit)
	if !ok {
		return
	}

	destinations, err := h.travel.ListDestinations(r.Context(), limit)
	if err != nil {
		h.handleError(w, r, schema.Destination.Collection(), "read", err)
		return
	}
	writeJSON(w, r, http.StatusOK, destinations)
}

func (h *Handler) listItineraries(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r, usecase.DefaultItineraryLimit)
	if !ok {
		return
	}

	itineraries, err := h.travel.ListItineraries(r.Context(), r.URL.Query().Get("owner_email"), limit)
	if err != nil {
		h.handleError(w, r, schema.Itinerary.Collection(), "read", err)
		return
	}
	writeJSON(w, r, http.StatusOK, itineraries)
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, schema.Subscriber.Collection(), h.travel.Subscribe)
}

func (h *Handler) contact(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, schema.Message.Collection(), h.travel.Contact)
}

func (h *Handler) createItinerary(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, schema.Itinerary.Collection(), h.travel.CreateItinerary)
}

type createFunc func(ctx context.Context, in schema.Input) (string, error)

func (h *Handler) create(w http.ResponseWriter, r *http.Request, collection string, fn createFunc) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	id, err := fn(r.Context(), in)
	if err != nil {
		h.handleError(w, r, collection, "create", err)
		return
	}

	h.metrics.IncrementCreated(collection)
	hlog.FromRequest(r).Debug().Str("collection", collection).Str("document_id", id).Msg("document created")
	writeJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) schemaDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.catalog.Document(chi.URLParam(r, "entity"))
	if !ok {
		writeError(w, r, http.StatusNotFound, domain.ErrNotFound.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, doc)
}

func (h *Handler) openapi(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, openapiSpec())
}

func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.metrics.ObserveRequest(r.Method, route, strconv.Itoa(status), start)
	})
}

type validationErrorResponse struct {
	Error    string `json:"error"`
	Field    string `json:"field"`
	Kind     string `json:"kind"`
	Expected string `json:"expected,omitempty"`
}

// handleError maps service errors to responses. Store internals never reach
// the caller beyond the truncated write detail.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, collection, op string, err error) {
	var ve *schema.ValidationError
	var we *domain.StoreWriteError
	switch {
	case errors.As(err, &ve):
		h.metrics.IncrementValidationFailure(collection, string(ve.Kind))
		hlog.FromRequest(r).Debug().Str("collection", collection).Str("field", ve.Field).Str("kind", string(ve.Kind)).Msg("payload rejected")
		writeJSON(w, r, http.StatusUnprocessableEntity, validationErrorResponse{
			Error:    ve.Error(),
			Field:    ve.Field,
			Kind:     string(ve.Kind),
			Expected: ve.Expected,
		})
	case errors.Is(err, domain.ErrInvalidFilter):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		h.metrics.IncrementStoreError(op)
		hlog.FromRequest(r).Warn().Str("collection", collection).Str("op", op).Msg("store unavailable")
		writeError(w, r, http.StatusInternalServerError, domain.ErrStoreUnavailable.Error())
	case errors.As(err, &we):
		h.metrics.IncrementStoreError(op)
		hlog.FromRequest(r).Error().Err(err).Str("collection", collection).Msg("store write failed")
		writeJSON(w, r, http.StatusInternalServerError, map[string]string{
			"error":  "store write failed",
			"detail": we.Detail,
		})
	default:
		h.metrics.IncrementStoreError(op)
		hlog.FromRequest(r).Error().Err(err).Str("collection", collection).Str("op", op).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func decodeInput(w http.ResponseWriter, r *http.Request) (schema.Input, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	var body any
	if err := decoder.Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return nil, false
	}
	if err := ensureEOF(decoder); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return nil, false
	}

	obj, ok := body.(map[string]any)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "json body must be an object")
		return nil, false
	}
	return schema.Input(obj), true
}

func parseLimit(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "limit must be integer")
		return 0, false
	}
	if limit < 1 {
		writeError(w, r, http.StatusBadRequest, "limit must be positive")
		return 0, false
	}
	return limit, true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("encode json response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, map[string]any{"error": message})
}

func ensureEOF(decoder *json.Decoder) error {
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return errors.New("extra json tokens")
}

func openapiSpec() map[string]any {
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "Travel App API",
			"version": "1.0.0",
		},
		"paths": map[string]any{
			"/":     map[string]any{"get": map[string]any{"summary": "Liveness"}},
			"/test": map[string]any{"get": map[string]any{"summary": "Backend and store diagnostics"}},
			"/api/destinations": map[string]any{
				"get": map[string]any{"summary": "List destinations"},
			},
			"/api/subscribe": map[string]any{
				"post": map[string]any{"summary": "Subscribe to the newsletter"},
			},
			"/api/contact": map[string]any{
				"post": map[string]any{"summary": "Send a contact message"},
			},
			"/api/itineraries": map[string]any{
				"get":  map[string]any{"summary": "List itineraries"},
				"post": map[string]any{"summary": "Create itinerary"},
			},
			"/api/schemas/{entity}": map[string]any{
				"get": map[string]any{"summary": "JSON Schema of an entity"},
			},
		},
	}
}
