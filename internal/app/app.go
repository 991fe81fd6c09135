package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"skymark/internal/browser"
	"skymark/internal/config"
	"skymark/internal/domain"
	"skymark/internal/engine"
	"skymark/internal/logger"
	"skymark/internal/profile"
	"skymark/internal/redis"
	"skymark/internal/scheduler"
	redisstore "skymark/internal/store/redis"
	"skymark/internal/version"
	"skymark/internal/webview"
	"skymark/internal/webview/deps"
	"skymark/internal/webview/embed"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *webview.Server
	redisClient *goredis.Client
	store       *redisstore.Store
	cache       *engine.Cache
	prof        profile.Profile
	scheme      domain.KeyScheme
	dispatcher  *embed.Dispatcher
	session     *browser.Session
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)
	cache := engine.NewCache(store)

	prof, err := profile.NewLoader(cfg.ProfileFile).Load()
	if err != nil {
		loggerClient.Errorf("Failed to load page profile: %v", err)
		os.Exit(1)
	}

	scheme, err := domain.ParseKeyScheme(cfg.KeyScheme)
	if err != nil {
		loggerClient.Errorf("Invalid key scheme: %v", err)
		os.Exit(1)
	}

	dispatcher := embed.NewDispatcher(prof.EmbedHost)

	d := deps.Deps{
		Logger:     loggerClient,
		StartTime:  time.Now(),
		Version:    version.Version,
		Commit:     version.Commit,
		BuildDate:  version.BuildDate,
		GoVersion:  version.GoVersion,
		TimeNow:    time.Now,
		Store:      store,
		EmbedHost:  prof.EmbedHost,
		BaseURL:    "http://" + cfg.ListenAddr + "/",
		Dispatcher: dispatcher,
	}

	server := webview.New(cfg.ListenAddr, loggerClient, d)

	session := browser.NewSession(browser.Options{
		DebuggerURL: cfg.DebuggerURL,
		ChromeBin:   cfg.ChromeBin,
		Headless:    cfg.Headless,
		NavTimeout:  cfg.NavTimeout,
	}, loggerClient)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		store:       store,
		cache:       cache,
		prof:        prof,
		scheme:      scheme,
		dispatcher:  dispatcher,
		session:     session,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting skymark v%s against %s", version.Version, a.cfg.PageURL)
	a.logger.Infof("skymark %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("listing view error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		return a.server.Stop(shutdownCtx)
	})

	g.Go(func() error {
		return a.automate(gctx)
	})

	err := g.Wait()

	if cerr := a.session.Close(); cerr != nil {
		a.logger.Warnf("failed to close browser: %v", cerr)
	}
	if a.redisClient != nil {
		if cerr := a.redisClient.Close(); cerr != nil {
			a.logger.Warnf("failed to close redis: %v", cerr)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	if err != nil && ctx.Err() == nil {
		return err
	}
	a.logger.Info("✅ skymark stopped cleanly")
	return nil
}

// automate runs the engine against the host page, re-initializing the
// browser connection with a fixed backoff whenever the page or the CDP
// transport dies. The persisted set is external, so a crashed page costs
// decorations only, never bookmarks.
func (a *App) automate(ctx context.Context) error {
	for {
		if err := a.runOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			a.logger.Error("automation stopped, re-initializing",
				logger.Error(err),
				logger.Duration("backoff", a.cfg.ReinitBackoff))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(a.cfg.ReinitBackoff):
		}
	}
}

func (a *App) runOnce(ctx context.Context) error {
	if err := a.session.Connect(ctx); err != nil {
		return err
	}
	rodPage, err := a.session.AttachPage(ctx, a.cfg.PageURL)
	if err != nil {
		return err
	}

	page := browser.NewPage(rodPage, engine.ClickTargets, a.logger)
	notifier := browser.NewToast(rodPage, a.prof.ToastDuration(), a.logger)
	opener := browser.NewListView(ctx, a.session,
		"http://"+a.cfg.ListenAddr+"/", a.dispatcher, a.logger)

	resolver := engine.NewResolver(a.scheme, a.prof)
	aff := engine.NewAffordance(a.prof, resolver, a.cache, a.logger)
	pipeline := engine.NewPipeline(page, a.prof, a.logger)
	coordinator := engine.NewCoordinator(a.store, a.cache, pipeline, aff, resolver, notifier, a.logger)
	watcher := engine.NewWatcher(page, page, aff, coordinator, opener, a.prof, a.logger)

	refresher := scheduler.NewCacheRefresher(a.cache, watcher, a.logger, a.cfg.CacheRefreshInterval, nil)
	if err := refresher.Start(ctx); err != nil {
		return err
	}
	defer refresher.Stop()
	a.logger.Info("engine attached",
		logger.String("url", a.cfg.PageURL),
		logger.Duration("refresh", a.cfg.CacheRefreshInterval))

	return watcher.Run(ctx)
}
