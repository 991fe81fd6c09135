package handlers

import "html/template"

var listTmpl = template.Must(template.New("list").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Bookmarks</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
         margin: 0; padding: 20px; background-color: #f5f8fa; color: #14171a; }
  .header { max-width: 600px; margin: 0 auto 16px; display: flex;
            justify-content: space-between; align-items: center; }
  .header h1 { font-size: 20px; margin: 0; }
  .header .count { color: #657786; font-size: 14px; }
  .sort a { color: #208bfe; text-decoration: none; font-size: 14px; margin-left: 10px; }
  .bookmark-item { max-width: 600px; margin: 0 auto 16px; background: white;
                   border: 1px solid #e1e8ed; border-radius: 12px; padding: 12px; }
  .bluesky-embed { max-width: 600px; width: 100%; margin-top: 10px;
                   margin-bottom: 10px; display: flex; }
  .bluesky-embed iframe { width: 100%; border: none; display: block; flex-grow: 1; }
  .card .author { font-weight: 600; }
  .card .handle { color: #657786; }
  .card .content { margin: 8px 0; white-space: pre-wrap; }
  .card img.avatar { width: 40px; height: 40px; border-radius: 50%; float: left; margin-right: 8px; }
  .bookmark-actions { display: flex; justify-content: space-between;
                      align-items: center; margin-top: 8px; }
  .saved-at { color: #657786; font-size: 12px; }
  .unbookmark-btn { display: inline-flex; align-items: center; gap: 6px;
                    background: none; border: 1px solid #e1e8ed; border-radius: 999px;
                    padding: 6px 12px; color: #208bfe; cursor: pointer; }
  .unbookmark-btn:hover { background-color: #f0f7ff; }
  .empty { text-align: center; color: #657786; margin-top: 40px; }
</style>
</head>
<body>
<div class="header">
  <h1>Bookmarks</h1>
  <div>
    <span class="count">{{.Count}} saved</span>
    <span class="sort">
      {{if eq .Sort "oldest"}}<a href="/">newest first</a>{{else}}<a href="/?sort=oldest">oldest first</a>{{end}}
    </span>
  </div>
</div>
{{if not .Items}}
<p class="empty">No bookmarks yet.</p>
{{end}}
{{range .Items}}
<div class="bookmark-item">
  {{if .FrameID}}
  <div class="bluesky-embed">
    <iframe data-bluesky-id="{{.FrameID}}" src="{{.FrameSrc}}" frameborder="0" scrolling="no"></iframe>
  </div>
  {{else if .Raw}}
  <div class="embed-container">{{.Raw}}</div>
  {{else}}
  <div class="card">
    {{if .AvatarURL}}<img class="avatar" src="{{.AvatarURL}}" alt="">{{end}}
    <span class="author">{{.Author}}</span>
    {{if .Handle}}<span class="handle">@{{.Handle}}</span>{{end}}
    <p class="content">{{.Content}}</p>
    {{if .URL}}<a href="{{.URL}}">View post</a>{{end}}
  </div>
  {{end}}
  <div class="bookmark-actions">
    <span class="saved-at">{{.SavedAt.Format "Jan 2, 2006 15:04"}}</span>
    <form method="post" action="/bookmarks/delete">
      <input type="hidden" name="key" value="{{.Key}}">
      <button class="unbookmark-btn" type="submit">
        <svg fill="none" width="22" viewBox="0 0 24 24" height="22">
          <path fill="currentColor" d="M5 5a2 2 0 012-2h10a2 2 0 012 2v16l-7-3.5L5 21V5z"/>
        </svg>
        Unbookmark
      </button>
    </form>
  </div>
</div>
{{end}}
</body>
</html>
`))
