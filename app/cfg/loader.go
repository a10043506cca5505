package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/monitor.db" description:"Path to the SQLite database file"`

	// Application configuration
	WatchlistPath       string `long:"watchlist" env:"WATCHLIST_PATH" default:"./watchlist.yml" description:"Path to the watchlist configuration file"`
	Port                string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl             string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://robots.example.com)"`
	WorkerCount         int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for collection and digest tasks"`
	SchedulerInterval   int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"1800" description:"Scheduler interval in seconds"`
	SimilarityThreshold int    `long:"similarity-threshold" env:"SIMILARITY_THRESHOLD" default:"92" description:"Title similarity score (0-100) at which near-duplicates collapse"`
	LookbackHours       int    `long:"lookback-hours" env:"LOOKBACK_HOURS" default:"48" description:"How far back collectors accept feed entries"`
	APIAccessKey        string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Humanoid Robots Monitor/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:              raw.DBPath,
		WatchlistPath:       raw.WatchlistPath,
		Port:                raw.Port,
		BaseUrl:             raw.BaseUrl,
		WorkerCount:         raw.WorkerCount,
		SchedulerInterval:   raw.SchedulerInterval,
		SimilarityThreshold: raw.SimilarityThreshold,
		LookbackHours:       raw.LookbackHours,
		APIAccessKey:        raw.APIAccessKey,
		UserAgent:           raw.UserAgent,
		Timezone:            raw.Timezone,
		Debug:               raw.Debug,
		Version:             GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration. Intended for tests.
func Set(c *Cfg) {
	globalCfg = c
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
