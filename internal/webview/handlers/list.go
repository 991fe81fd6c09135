package handlers

import (
	"html/template"
	"net/http"
	"sort"
	"time"

	"skymark/internal/domain"
	"skymark/internal/logger"
	"skymark/internal/webview/deps"
	"skymark/internal/webview/embed"
)

type listItem struct {
	Key     string
	SavedAt time.Time

	// Exactly one rendering mode applies, checked in template order:
	// a sized iframe, a structured card, or the raw markup as-is.
	FrameID  string
	FrameSrc string

	Content   string
	Author    string
	Handle    string
	AvatarURL string
	URL       string

	Raw template.HTML
}

type listPage struct {
	Items []listItem
	Sort  string
	Count int
}

// List renders the bookmark listing. Records whose markup carries an AT
// URI become live embed iframes; structured payloads render as cards; the
// rest fall back to their stored markup.
func List(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set, err := d.Store.GetBookmarks(r.Context())
		if err != nil {
			d.Logger.Error("failed to load bookmarks", logger.Error(err))
			http.Error(w, "failed to load bookmarks", http.StatusInternalServerError)
			return
		}

		records := make([]domain.Record, 0, len(set))
		for _, rec := range set {
			records = append(records, rec)
		}

		sortParam := r.URL.Query().Get("sort")
		sort.Slice(records, func(i, j int) bool {
			if records[i].SavedAt.Equal(records[j].SavedAt) {
				return records[i].Key < records[j].Key
			}
			if sortParam == "oldest" {
				return records[i].SavedAt.Before(records[j].SavedAt)
			}
			return records[i].SavedAt.After(records[j].SavedAt)
		})

		// A fresh render invalidates every previously announced frame id.
		d.Dispatcher.Reset()

		items := make([]listItem, 0, len(records))
		for i, rec := range records {
			item := listItem{
				Key:       rec.Key,
				SavedAt:   rec.SavedAt,
				Content:   rec.Payload.Content,
				Author:    rec.Payload.Author,
				Handle:    rec.Payload.Handle,
				AvatarURL: rec.Payload.AvatarURL,
				URL:       rec.Payload.URL,
			}
			if uri, ok := embed.ExtractURI(rec.Payload.RawEmbedMarkup); ok {
				id := embed.FrameID(i)
				item.FrameID = id
				item.FrameSrc = embed.IframeSrc(d.EmbedHost, uri, id, d.BaseURL)
				d.Dispatcher.Register(id)
			} else if !rec.Payload.Structured() {
				item.Raw = template.HTML(rec.Payload.RawEmbedMarkup)
			}
			items = append(items, item)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := listTmpl.Execute(w, listPage{Items: items, Sort: sortParam, Count: len(items)}); err != nil {
			d.Logger.Error("failed to render listing", logger.Error(err))
		}
	}
}
