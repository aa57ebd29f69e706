package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tejuri/podcast-server/app/cfg"
	"github.com/tejuri/podcast-server/app/config"
	"github.com/tejuri/podcast-server/app/cover"
	"github.com/tejuri/podcast-server/app/state"
	"github.com/tejuri/podcast-server/app/tasks"
	"github.com/tejuri/podcast-server/app/updater"
	"github.com/tejuri/podcast-server/app/web"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if c == nil {
		// Help was shown, exit gracefully
		return
	}

	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting update pass", "version", c.Version)

	client := web.NewClient(time.Duration(c.Timeout)*time.Second, c.UserAgent)
	covers := cover.NewService(client)

	// The one place the updater set is built; the selector receives it and
	// nothing else ever constructs updaters.
	selector := updater.NewSelector(
		updater.NewTF1ReplayUpdater(client, covers),
		updater.NewGulliUpdater(client, covers),
		updater.NewRSSUpdater(client, covers),
		updater.UploadUpdater{},
	)

	for _, t := range selector.Types() {
		slog.Debug("Registered source type", "key", t.Key, "label", t.Label)
	}

	definitions, err := config.NewLoader(c.PodcastsDir).LoadAll()
	if err != nil {
		slog.Error("Failed to load podcast definitions", "dir", c.PodcastsDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Podcast definitions loaded", "dir", c.PodcastsDir, "count", len(definitions))

	store, err := state.Open(c.StatePath)
	if err != nil {
		slog.Error("Failed to open state", "path", c.StatePath, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	taskList := make([]tasks.Task, 0, len(definitions))
	for _, definition := range definitions {
		taskList = append(taskList, tasks.NewUpdateTask(definition, selector, store))
	}

	tasks.NewRunner(c.WorkerCount).Run(ctx, taskList)

	if err := store.Save(); err != nil {
		slog.Error("Failed to save state", "path", c.StatePath, "error", err)
		os.Exit(1)
	}

	slog.Info("Update pass complete", "podcasts", len(taskList), "state", c.StatePath)
}
