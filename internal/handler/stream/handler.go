package stream

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	sessionService "github.com/zhouzirui/sleep-trainer/backend/internal/service/session"
	"github.com/zhouzirui/sleep-trainer/backend/pkg/utils"
)

// Handler streams session events via Server-Sent Events
type Handler struct {
	sessions  *sessionService.Service
	heartbeat time.Duration
}

// New creates a new stream handler
func New(sessions *sessionService.Service) *Handler {
	return &Handler{
		sessions:  sessions,
		heartbeat: 15 * time.Second,
	}
}

// RegisterRoutes registers the SSE route
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{sessionID}/events", h.handleEvents)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	c, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	events, cancel := c.Subscribe()
	defer cancel()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	log.Printf("[sse] opening event stream for session=%s", sessionID)
	if err := utils.SendSSEEvent(w, flusher, sessionService.EventState, c.Snapshot()); err != nil {
		log.Printf("[sse] initial write failed for session=%s: %v", sessionID, err)
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[sse] closing event stream for session=%s", sessionID)
			return
		case evt, ok := <-events:
			if !ok {
				log.Printf("[sse] session=%s closed", sessionID)
				return
			}
			if err := utils.SendSSEEvent(w, flusher, evt.Type, evt.Snapshot); err != nil {
				log.Printf("[sse] write failed for session=%s: %v", sessionID, err)
				return
			}
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "heartbeat"); err != nil {
				return
			}
		}
	}
}
