package routes

import (
	"github.com/go-chi/chi/v5"

	"skymark/internal/webview/deps"
	"skymark/internal/webview/handlers"
)

func init() { Register(registerList) }

func registerList(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.List(d))
}
