package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"skool-sync/internal/domain"
	"skool-sync/internal/middleware"
	"skool-sync/internal/service"
	apperrors "skool-sync/pkg/errors"
	"skool-sync/pkg/logger"
)

var (
	errNullBody     = errors.New("request body is null")
	errTrailingData = errors.New("unexpected data after JSON body")
)

const (
	msgMemberSynced     = "Member successfully synced with Firebase"
	msgMethodNotAllowed = "Method not allowed. Use POST."
)

// WebhookHandler receives Skool member-join deliveries
type WebhookHandler struct {
	syncer service.MemberSyncer
	logger *logger.Logger
	now    func() time.Time
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(syncer service.MemberSyncer, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		syncer: syncer,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SyncResponse is returned when a member was mirrored into both stores
type SyncResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	UserID     string `json:"userId"`
	AuthUserID string `json:"authUserId"`
	Action     string `json:"action"`
}

// FailureResponse is returned when a delivery could not be processed
type FailureResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// ValidationFailureResponse echoes the payload back when no email was found
type ValidationFailureResponse struct {
	Success         bool               `json:"success"`
	Error           string             `json:"error"`
	ReceivedData    domain.MemberEvent `json:"received_data"`
	AvailableFields []string           `json:"available_fields"`
	Timestamp       string             `json:"timestamp"`
}

// MethodNotAllowedResponse is returned for any verb other than POST and OPTIONS
type MethodNotAllowedResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// Handle dispatches on method. It is mounted on every path.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodPost:
		h.Sync(w, r)
	default:
		h.writeJSON(w, http.StatusMethodNotAllowed, MethodNotAllowedResponse{
			Error:     msgMethodNotAllowed,
			Timestamp: h.timestamp(),
		})
	}
}

// Sync handles POST deliveries
func (h *WebhookHandler) Sync(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFrom(r.Context(), h.logger)

	event, err := decodeEvent(r.Body)
	if err != nil {
		appErr := apperrors.NewMalformedInputError(err)
		log.WithError(appErr).Error("Failed to decode webhook body")
		h.writeFailure(w, appErr.StatusCode, "Internal server error: "+appErr.Message)
		return
	}

	log.WithField("available_fields", event.Keys()).Info("Received Skool webhook")

	member, err := service.ExtractMember(event)
	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			appErr = apperrors.NewMalformedInputError(err)
		}
		log.WithError(appErr).Warn("Webhook rejected")
		h.writeJSON(w, appErr.StatusCode, ValidationFailureResponse{
			Success:         false,
			Error:           appErr.Message,
			ReceivedData:    event,
			AvailableFields: event.Keys(),
			Timestamp:       h.timestamp(),
		})
		return
	}

	log.WithField("email", member.Email).Info("Processing Skool member")

	// A sync runs to completion even if the sender hangs up
	result := h.syncer.Reconcile(context.WithoutCancel(r.Context()), member)
	if !result.Success {
		appErr := apperrors.NewUpstreamError("Firebase sync failed: "+result.Error, nil)
		h.writeFailure(w, appErr.StatusCode, appErr.Message)
		return
	}

	h.writeJSON(w, http.StatusOK, SyncResponse{
		Success:    true,
		Message:    msgMemberSynced,
		Timestamp:  h.timestamp(),
		UserID:     result.ProfileID,
		AuthUserID: result.IdentityID,
		Action:     result.Action,
	})
}

// decodeEvent reads the body as exactly one JSON object. An empty body is an
// empty event; a null body or anything after the object is malformed.
// Numbers are kept as json.Number so large ids survive.
func decodeEvent(body io.Reader) (domain.MemberEvent, error) {
	event := domain.MemberEvent{}
	if body == nil {
		return event, nil
	}

	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&event); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.MemberEvent{}, nil
		}
		return nil, err
	}
	if event == nil {
		return nil, errNullBody
	}

	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return event, nil
}

func (h *WebhookHandler) writeFailure(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, FailureResponse{
		Success:   false,
		Error:     message,
		Timestamp: h.timestamp(),
	})
}

func (h *WebhookHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

func (h *WebhookHandler) timestamp() string {
	return h.now().Format(time.RFC3339Nano)
}
