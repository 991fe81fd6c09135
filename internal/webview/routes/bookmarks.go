package routes

import (
	"github.com/go-chi/chi/v5"

	"skymark/internal/webview/deps"
	"skymark/internal/webview/handlers"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Get("/api/bookmarks", handlers.BookmarksJSON(d))
	r.Post("/bookmarks/delete", handlers.DeleteBookmark(d))
	r.Post("/bookmarks/clear", handlers.ClearBookmarks(d))
}
