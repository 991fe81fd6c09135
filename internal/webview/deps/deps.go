package deps

import (
	"time"

	"skymark/internal/engine"
	"skymark/internal/logger"
	"skymark/internal/webview/embed"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Store      engine.Store      // external bookmark set
	EmbedHost  string            // origin serving embed widgets
	BaseURL    string            // external URL of this view, rides along as ref_url
	Dispatcher *embed.Dispatcher // sizing-message validator for rendered frames
}
