package routes

import (
	"github.com/go-chi/chi/v5"

	"skymark/internal/webview/deps"
	"skymark/internal/webview/handlers"
)

func init() { Register(registerHealthz) }

func registerHealthz(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
}
