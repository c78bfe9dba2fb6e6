package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/sleep-trainer/backend/internal/handler/message"
	"github.com/zhouzirui/sleep-trainer/backend/internal/handler/session"
	"github.com/zhouzirui/sleep-trainer/backend/internal/handler/stream"
	"github.com/zhouzirui/sleep-trainer/backend/internal/handler/ws"
	middlewarePkg "github.com/zhouzirui/sleep-trainer/backend/internal/middleware"
	sessionService "github.com/zhouzirui/sleep-trainer/backend/internal/service/session"
	"github.com/zhouzirui/sleep-trainer/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. generator is nil when the
// provider secret is missing; the message endpoint then answers 503.
func NewRouter(generator message.Generator, sessions *sessionService.Service, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"ai":       generator != nil,
			"sessions": sessions.Count(),
		})
	})

	r.Route("/api", func(api chi.Router) {
		message.New(generator).RegisterRoutes(api)
		session.New(sessions).RegisterRoutes(api)
		stream.New(sessions).RegisterRoutes(api)
		ws.New(sessions).RegisterRoutes(api)
	})

	return r
}
