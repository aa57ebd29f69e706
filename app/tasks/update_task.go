package tasks

import (
	"context"
	"log/slog"

	"github.com/tejuri/podcast-server/app/config"
	"github.com/tejuri/podcast-server/app/state"
	"github.com/tejuri/podcast-server/app/updater"
)

// Router is the slice of the selector the update task needs.
type Router interface {
	Of(url string) updater.Updater
	OfType(key string) updater.Updater
}

// UpdateTask runs the incremental update for one podcast and applies the
// resulting diff to the store.
type UpdateTask struct {
	base
	definition *config.Podcast
	router     Router
	store      *state.Store
}

func NewUpdateTask(definition *config.Podcast, router Router, store *state.Store) *UpdateTask {
	return &UpdateTask{
		base:       base{name: definition.Name},
		definition: definition,
		router:     router,
		store:      store,
	}
}

func (t *UpdateTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.definition.Enabled {
		slog.Debug("Podcast disabled, skipping", "podcast", t.definition.Name)
		return nil
	}

	snapshot := t.store.Podcast(t.definition)

	u := t.router.Of(snapshot.URL)
	if t.definition.Type != "" {
		u = t.router.OfType(t.definition.Type)
	}

	result := u.Update(ctx, snapshot)
	if result.Unmodified() {
		slog.Info("Task completed",
			"type", "UpdatePodcast",
			"podcast", t.definition.Name,
			"updater", u.Type().Key,
			"duration", t.duration(),
			"modified", false)
		return nil
	}

	added, removed := t.store.Apply(t.definition.Name, u.Type().Key, result)
	slog.Info("Task completed",
		"type", "UpdatePodcast",
		"podcast", t.definition.Name,
		"updater", u.Type().Key,
		"duration", t.duration(),
		"modified", true,
		"new", added,
		"removed", removed)
	return nil
}
