package handlers

import (
	"encoding/json"
	"net/http"

	"skymark/internal/domain"
	"skymark/internal/logger"
	"skymark/internal/webview/deps"
)

// BookmarksJSON returns the raw persisted set.
func BookmarksJSON(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set, err := d.Store.GetBookmarks(r.Context())
		if err != nil {
			d.Logger.Error("failed to load bookmarks", logger.Error(err))
			http.Error(w, "failed to load bookmarks", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(set)
	}
}

// DeleteBookmark removes one key via read-modify-write and redirects back
// to the listing. Deleting an already-absent key still succeeds; the
// toggle may have raced us and won.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.FormValue("key")
		if key == "" {
			http.Error(w, "missing key", http.StatusBadRequest)
			return
		}
		set, err := d.Store.GetBookmarks(r.Context())
		if err != nil {
			d.Logger.Error("failed to load bookmarks", logger.Error(err))
			http.Error(w, "failed to load bookmarks", http.StatusInternalServerError)
			return
		}
		delete(set, key)
		if err := d.Store.SetBookmarks(r.Context(), set); err != nil {
			d.Logger.Error("failed to persist removal", logger.String("key", key), logger.Error(err))
			http.Error(w, "failed to save bookmarks", http.StatusInternalServerError)
			return
		}
		d.Logger.Info("bookmark removed from listing", logger.String("key", key))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// ClearBookmarks wipes the whole set.
func ClearBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.SetBookmarks(r.Context(), domain.Set{}); err != nil {
			d.Logger.Error("failed to clear bookmarks", logger.Error(err))
			http.Error(w, "failed to save bookmarks", http.StatusInternalServerError)
			return
		}
		d.Logger.Info("bookmarks cleared")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
