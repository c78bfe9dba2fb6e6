package session

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/sleep-trainer/backend/internal/model/timer"
	sessionService "github.com/zhouzirui/sleep-trainer/backend/internal/service/session"
	"github.com/zhouzirui/sleep-trainer/backend/pkg/utils"
)

// Handler 计时会话的HTTP处理器
type Handler struct {
	sessions *sessionService.Service
}

// New 创建会话处理器
func New(sessions *sessionService.Service) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes 注册会话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreate)
	r.Get("/sessions/{sessionID}", h.handleGet)
	r.Delete("/sessions/{sessionID}", h.handleDelete)
	r.Post("/sessions/{sessionID}/actions", h.handleAction)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	c := h.sessions.Create(r.Context())
	utils.RespondJSON(w, http.StatusCreated, c.Snapshot())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, c.Snapshot())
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Action string `json:"action"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	action, err := timer.ParseAction(payload.Action)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	c, err := h.sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	snap, err := c.Do(action)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, snap)
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sessionService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, timer.ErrUnknownAction):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
