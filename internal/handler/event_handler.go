package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/suar-net/usage-pricing-be/internal/logging"
	"github.com/suar-net/usage-pricing-be/internal/metrics"
	"github.com/suar-net/usage-pricing-be/internal/model"
	"github.com/suar-net/usage-pricing-be/internal/service"
)

const maxEventBodySize = 64 * 1024

type EventHandler struct {
	usageService service.IUsageService
	metrics      *metrics.Metrics
	logger       logrus.FieldLogger
}

func NewEventHandler(s service.IUsageService, m *metrics.Metrics, l logrus.FieldLogger) *EventHandler {
	return &EventHandler{
		usageService: s,
		metrics:      m,
		logger:       l,
	}
}

// Create records one usage event for the authenticated caller. The JSON body
// is optional; without it the event describes this very call.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := GetIdentityFromContext(r.Context())
	if !ok {
		respondUnauthorized(w, "Not authenticated")
		return
	}

	var dto model.DTOEventRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxEventBodySize)).Decode(&dto)
	if err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if err := validate.Struct(&dto); err != nil {
		respondWithError(w, http.StatusBadRequest, ValidationError(err))
		return
	}

	usage := usageFromRequest(r, &dto)
	event, err := h.usageService.Record(r.Context(), identity, usage)
	if err != nil {
		if errors.Is(err, service.ErrInvalidUsage) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondServerError(w, r, h.logger, "Failed to record event", err)
		return
	}

	h.metrics.RecordEvent()
	logging.WithUserID(h.logger, identity.UserID).
		WithField("event_id", event.ID).
		Debug("Usage event recorded")

	respondWithJson(w, http.StatusOK, event)
}

// List returns the caller's recent events; ?limit= bounds the page size.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := GetIdentityFromContext(r.Context())
	if !ok {
		respondUnauthorized(w, "Not authenticated")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'limit' must be a non-negative integer")
			return
		}
		limit = n
	}

	events, err := h.usageService.List(r.Context(), identity, limit)
	if err != nil {
		respondServerError(w, r, h.logger, "Failed to list events", err)
		return
	}

	respondWithJson(w, http.StatusOK, events)
}

func usageFromRequest(r *http.Request, dto *model.DTOEventRequest) model.UsageInput {
	usage := model.UsageInput{
		Endpoint:   r.URL.Path,
		DurationMs: int(time.Since(requestStartFromContext(r.Context())).Milliseconds()),
		StatusCode: http.StatusOK,
	}

	if dto.Endpoint != "" {
		usage.Endpoint = dto.Endpoint
	}
	if dto.DurationMs != nil {
		usage.DurationMs = *dto.DurationMs
	}
	if dto.ResponseSizeBytes != nil {
		usage.ResponseSizeBytes = *dto.ResponseSizeBytes
	}
	if dto.StatusCode != nil {
		usage.StatusCode = *dto.StatusCode
	}

	return usage
}
