package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dropgate-systems/dropgate/internal/logging"
	"github.com/dropgate-systems/dropgate/internal/models"
	"github.com/dropgate-systems/dropgate/internal/relay"
)

// RelayService is the handler's view of the relay core.
type RelayService interface {
	Process(ctx context.Context, n *models.Notification) (*relay.Result, error)
}

// Readiness reports whether the queue connection is up.
type Readiness interface {
	IsConnected() bool
}

// EventResult reports the outcome of one notification in the response body.
type EventResult struct {
	ID      string `json:"id"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

// EventsResponse is the webhook response for a delivery batch.
type EventsResponse struct {
	Results []EventResult `json:"results"`
}

// EventHandler terminates the event-notification webhook.
type EventHandler struct {
	service RelayService
	logger  *logging.Logger
	ready   Readiness
}

// NewEventHandler constructs the webhook handler.
func NewEventHandler(service RelayService, logger *logging.Logger) *EventHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

// HandleEvents accepts an Event Grid delivery: either a single event or a
// batch array. Subscription validation handshakes are answered inline.
//
// Benign outcomes (lease held, blob missing, dead-lettered) acknowledge
// the delivery with 200 so the source does not redeliver. A transient
// failure that could not be captured returns 503, asking the source to
// redeliver the batch.
func (h *EventHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if len(body) == 0 {
		http.Error(w, "empty body", http.StatusBadRequest)
		return
	}

	notifications, err := parseNotifications(body)
	if err != nil {
		h.logger.WarnContext(r.Context(), "malformed event payload", logging.Error(err))
		http.Error(w, "malformed event payload", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// The handshake is answered only for a lone validation event; its
	// response body would displace the batch results otherwise. The
	// platform delivers validation events alone.
	if len(notifications) == 1 && notifications[0].EventType == models.EventTypeSubscriptionValidation {
		h.completeValidation(ctx, w, notifications[0])
		return
	}

	results := make([]EventResult, 0, len(notifications))

	for _, n := range notifications {
		if n.EventType == models.EventTypeSubscriptionValidation {
			results = append(results, EventResult{ID: n.ID, Outcome: "validation_skipped"})
			continue
		}

		result, err := h.service.Process(ctx, n)
		switch {
		case errors.Is(err, relay.ErrInvalidNotification):
			h.logger.WarnContext(ctx, "rejecting invalid notification",
				logging.EventID(n.ID),
				logging.Error(err),
			)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return

		case err != nil:
			// Transient and uncaptured: ask the source to redeliver.
			http.Error(w, "relay failed, retry delivery", http.StatusServiceUnavailable)
			return
		}

		results = append(results, EventResult{
			ID:      n.ID,
			Outcome: string(result.Outcome),
		})
	}

	writeJSON(w, http.StatusOK, EventsResponse{Results: results})
}

// completeValidation answers the webhook subscription handshake.
func (h *EventHandler) completeValidation(ctx context.Context, w http.ResponseWriter, n *models.Notification) {
	data, err := n.ValidationData()
	if err != nil || data.ValidationCode == "" {
		http.Error(w, "malformed validation event", http.StatusBadRequest)
		return
	}

	h.logger.InfoContext(ctx, "completing subscription validation handshake",
		logging.EventID(n.ID),
	)
	writeJSON(w, http.StatusOK, models.SubscriptionValidationResponse{
		ValidationResponse: data.ValidationCode,
	})
}

// SetReadiness wires the queue connection into the readiness endpoint.
func (h *EventHandler) SetReadiness(r Readiness) {
	h.ready = r
}

// Health reports liveness.
func (h *EventHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready reports readiness. Not ready while the queue connection is down:
// accepted notifications could not be relayed or dead-lettered.
func (h *EventHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil && !h.ready.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "queue disconnected",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// parseNotifications decodes a single event or a batch array. A JSON null,
// standalone or inside the batch, is malformed: it would otherwise decode
// to a nil notification.
func parseNotifications(body []byte) ([]*models.Notification, error) {
	var batch []*models.Notification
	if err := json.Unmarshal(body, &batch); err == nil {
		if batch == nil {
			return nil, errors.New("null event payload")
		}
		for _, n := range batch {
			if n == nil {
				return nil, errors.New("null event in batch")
			}
		}
		return batch, nil
	}

	var single models.Notification
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, err
	}
	return []*models.Notification{&single}, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
