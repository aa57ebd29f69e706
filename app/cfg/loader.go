package cfg

import (
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	if Version == "" {
		return "unknown"
	}
	return Version
}

type rawCfg struct {
	// Application configuration
	PodcastsDir string `long:"podcasts-dir" env:"PODCASTS_DIR" default:"./podcasts" description:"Directory containing podcast definition files"`
	StatePath   string `long:"state" env:"STATE_PATH" default:"./state.json" description:"Path of the JSON snapshot state file"`
	WorkerCount int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of parallel podcast updates"`
	Timeout     int    `long:"timeout" env:"TIMEOUT" default:"30" description:"Remote fetch timeout in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Podcast Server/1.0" description:"User agent string for HTTP requests"`
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
		PodcastsDir: raw.PodcastsDir,
		StatePath:   raw.StatePath,
		WorkerCount: raw.WorkerCount,
		Timeout:     raw.Timeout,
		UserAgent:   raw.UserAgent,
		Debug:       raw.Debug,
		Version:     GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		return &Cfg{Version: GetVersion()}
	}
	return globalCfg
}
