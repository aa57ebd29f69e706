package updater

import (
	"context"

	"github.com/tejuri/podcast-server/app/podcast"
)

// NoOpUpdater is the selector's safe fallback when no registered updater can
// handle a URL. It behaves as a source that is permanently unchanged and
// never lists anything. It is not part of the registered set.
type NoOpUpdater struct{}

func (NoOpUpdater) Update(ctx context.Context, p podcast.Podcast) Result {
	return NoModification()
}

func (NoOpUpdater) Items(ctx context.Context, p podcast.Podcast) []podcast.Item {
	return nil
}

func (NoOpUpdater) SignatureOf(ctx context.Context, p podcast.Podcast) string {
	return ""
}

func (NoOpUpdater) NotIn(p podcast.Podcast) func(podcast.Item) bool {
	return DefaultNotIn(p)
}

func (NoOpUpdater) Type() Type {
	return Type{Key: "noop", Label: "NoOp"}
}

func (NoOpUpdater) Compatibility(url string) int {
	return Incompatible
}
