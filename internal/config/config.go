package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr      string        // listing view listen address, ex: "127.0.0.1:8473"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Host page
	PageURL     string // page to attach to (ex: https://bsky.app)
	ProfileFile string // optional selectors profile yaml (empty = built-in defaults)
	KeyScheme   string // "handle-rkey" | "url" - one scheme per deployment

	// Browser
	DebuggerURL   string        // existing Chrome DevTools websocket URL (empty = launch)
	ChromeBin     string        // chrome binary for the launcher (empty = auto-detect)
	Headless      bool          // launch headless (attach mode ignores this)
	NavTimeout    time.Duration // page navigation timeout
	ReinitBackoff time.Duration // wait between browser re-initialization attempts

	// Engine
	CacheRefreshInterval time.Duration // periodic bookmark cache refresh

	// Redis (external bookmark store)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int           // connection pool size
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries (grows exponentially)
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt
	RedisWarnThreshold  int           // warn after this many attempts
}

func Load() *Config {
	cfg := &Config{
		// Listing view
		ListenAddr:      getenv("SKYMARK_LISTEN_ADDR", "127.0.0.1:8473"),
		ShutdownTimeout: mustDuration("SKYMARK_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SKYMARK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SKYMARK_PRETTY_LOG", true),

		// Host page
		PageURL:     getenv("SKYMARK_PAGE_URL", "https://bsky.app"),
		ProfileFile: getenv("SKYMARK_PROFILE_FILE", ""),
		KeyScheme:   getenv("SKYMARK_KEY_SCHEME", "handle-rkey"),

		// Browser
		DebuggerURL:   getenv("SKYMARK_DEBUGGER_URL", ""),
		ChromeBin:     getenv("SKYMARK_CHROME_BIN", ""),
		Headless:      mustBool("SKYMARK_HEADLESS", false),
		NavTimeout:    mustDuration("SKYMARK_NAV_TIMEOUT", 30*time.Second),
		ReinitBackoff: mustDuration("SKYMARK_REINIT_BACKOFF", 1*time.Second),

		// Engine
		CacheRefreshInterval: mustDuration("SKYMARK_CACHE_REFRESH_INTERVAL", 30*time.Second),

		// Redis settings
		RedisAddr:           getenv("SKYMARK_REDIS_ADDR", "localhost:6379"),
		RedisUser:           getenv("SKYMARK_REDIS_USERNAME", ""),
		RedisPassword:       getenv("SKYMARK_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("SKYMARK_REDIS_DB", 0),
		RedisDT:             mustDuration("SKYMARK_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("SKYMARK_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("SKYMARK_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("SKYMARK_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("SKYMARK_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("SKYMARK_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("SKYMARK_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("SKYMARK_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnThreshold:  getenvInt("SKYMARK_REDIS_WARN_THRESHOLD", 3),
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
