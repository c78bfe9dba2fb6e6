package message

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/sleep-trainer/backend/internal/model/timer"
	"github.com/zhouzirui/sleep-trainer/backend/pkg/utils"
)

// Generator is the text-generation backend used by the endpoint.
type Generator interface {
	Generate(ctx context.Context, req timer.Request) (string, error)
}

// Handler 文本生成接口的HTTP处理器
type Handler struct {
	generator Generator
}

// New 创建处理器。generator 为 nil 表示未配置密钥，接口返回 503。
func New(generator Generator) *Handler {
	return &Handler{generator: generator}
}

// RegisterRoutes 注册文本生成路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/openai", h.handleGenerate)
	r.Post("/messages", h.handleGenerate)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "OpenAI API key is not configured")
		return
	}

	var payload struct {
		Action    string `json:"action"`
		Time      int    `json:"time"`
		IsRunning bool   `json:"isRunning"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Time < 0 {
		utils.RespondError(w, http.StatusBadRequest, "time must be non-negative")
		return
	}

	// Unrecognised actions fall through to the running/idle descriptions.
	action, err := timer.ParseAction(payload.Action)
	if err != nil {
		action = timer.Action(payload.Action)
	}

	message, err := h.generator.Generate(r.Context(), timer.Request{
		Action:    action,
		Time:      payload.Time,
		IsRunning: payload.IsRunning,
	})
	if err != nil {
		log.Printf("[message] generation failed for action=%s: %v", payload.Action, err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate message")
		return
	}

	utils.RespondJSON(w, http.StatusOK, timer.Response{Message: message})
}
