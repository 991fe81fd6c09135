// Package browser runs the engine against a real Chrome page over the
// DevTools protocol. It either attaches to an already-running browser via
// its debugger URL or launches a managed instance, then exposes the host
// page through the dom abstraction.
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"skymark/internal/logger"
)

// Options configures the browser connection.
type Options struct {
	// DebuggerURL attaches to an existing Chrome. Empty means launch one.
	DebuggerURL string
	// ChromeBin overrides the launcher's binary auto-detection.
	ChromeBin string
	// Headless applies to launched instances only.
	Headless bool
	// NavTimeout bounds page navigation.
	NavTimeout time.Duration
}

// Session owns one browser connection and the host page under automation.
type Session struct {
	opts Options
	log  logger.Logger

	mu         sync.Mutex
	browser    *rod.Browser
	page       *rod.Page
	controlURL string
}

// NewSession creates an unconnected session.
func NewSession(opts Options, log logger.Logger) *Session {
	return &Session{opts: opts, log: log}
}

// Connect establishes the CDP connection, reusing a still-healthy one.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		if _, err := s.browser.Version(); err == nil {
			return nil
		}
		s.log.Warn("stale browser connection, reconnecting")
		_ = s.browser.Close()
		s.browser = nil
		s.page = nil
	}

	controlURL := s.opts.DebuggerURL
	if controlURL == "" {
		l := launcher.New().Headless(s.opts.Headless)
		if s.opts.ChromeBin != "" {
			l = l.Bin(s.opts.ChromeBin)
		}
		url, err := l.Launch()
		if err != nil {
			return fmt.Errorf("failed to launch chrome: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("failed to connect to chrome: %w", err)
	}

	s.browser = browser
	s.controlURL = controlURL
	s.log.Info("browser connected", logger.Bool("attached", s.opts.DebuggerURL != ""))
	return nil
}

// Healthy reports whether the CDP connection still answers.
func (s *Session) Healthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		return false
	}
	_, err := s.browser.Version()
	return err == nil
}

// ControlURL returns the DevTools websocket URL in use.
func (s *Session) ControlURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controlURL
}

// AttachPage binds to the tab already showing pageURL, or opens and
// navigates a new one. The returned page is also remembered as the
// session's automation target.
func (s *Session) AttachPage(ctx context.Context, pageURL string) (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		return nil, fmt.Errorf("browser not connected")
	}

	pages, err := s.browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	for _, p := range pages {
		info, err := p.Info()
		if err != nil {
			continue
		}
		if strings.HasPrefix(info.URL, pageURL) {
			s.page = p.Context(ctx)
			s.log.Info("attached to existing tab", logger.String("url", info.URL))
			return s.page, nil
		}
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	page = page.Context(ctx)
	if err := page.Timeout(s.opts.NavTimeout).Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", pageURL, err)
	}
	s.page = page
	s.log.Info("opened host page", logger.String("url", pageURL))
	return page, nil
}

// OpenTab opens an untracked tab, used for the listing view.
func (s *Session) OpenTab(url string) (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		return nil, fmt.Errorf("browser not connected")
	}
	page, err := s.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	return page, nil
}

// Close tears the connection down. Attached browsers keep running; only
// launched ones die with the connection.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	s.browser = nil
	s.page = nil
	s.controlURL = ""
	return err
}
