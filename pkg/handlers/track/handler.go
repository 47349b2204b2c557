// Package track exposes the engagement-event ingestion endpoints: a
// pixel-style GET for embedding in outbound email, and an explicit POST.
package track

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/finboard/finboard/pkg/models/api"
	"github.com/finboard/finboard/pkg/models/store"
	"github.com/finboard/finboard/pkg/store/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// A 1x1 transparent GIF, served to email clients on every tracked open.
var pixel = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

type Handler struct {
	events events.Store
}

func NewHandler(events events.Store) *Handler {
	return &Handler{events: events}
}

// TrackPixel records an event from a GET request. The recipient is
// unknown on this path; sender IP and user agent are captured instead.
func (h *Handler) TrackPixel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	subjectID := r.URL.Query().Get("subject_id")
	eventType := r.URL.Query().Get("event_type")
	if subjectID == "" || eventType == "" {
		http.Error(w, "subject_id and event_type are required", http.StatusBadRequest)
		return
	}

	err := h.events.Add(ctx, store.Event{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		EventType: eventType,
		Recipient: "unknown",
		SenderIP:  clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		logger.Error().Err(err).Str("subject_id", subjectID).Msg("failed to record tracking event")
		http.Error(w, "failed to record event", http.StatusInternalServerError)
		return
	}

	writePixel(w)
}

type trackRequest struct {
	SubjectID string `json:"subject_id"`
	EventType string `json:"event_type"`
	Recipient string `json:"recipient"`
}

// TrackEvent records an event from an explicit POST with a JSON body.
func (h *Handler) TrackEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, api.Error{Error: "invalid request body"})
		return
	}
	if req.SubjectID == "" || req.EventType == "" {
		writeJSON(w, http.StatusBadRequest, api.Error{Error: "subject_id and event_type are required"})
		return
	}

	event := store.Event{
		ID:        uuid.NewString(),
		SubjectID: req.SubjectID,
		EventType: req.EventType,
		Recipient: req.Recipient,
		SenderIP:  clientIP(r),
		UserAgent: r.UserAgent(),
	}
	if err := h.events.Add(ctx, event); err != nil {
		logger.Error().Err(err).Str("subject_id", req.SubjectID).Msg("failed to record tracking event")
		writeJSON(w, http.StatusInternalServerError, api.Error{Error: "failed to record event"})
		return
	}

	writeJSON(w, http.StatusOK, api.TrackAck{Status: "ok", ID: event.ID})
}

func writePixel(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pixel)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if i := strings.IndexByte(forwarded, ','); i >= 0 {
			return strings.TrimSpace(forwarded[:i])
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
