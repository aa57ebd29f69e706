package updater

import (
	"context"

	"github.com/tejuri/podcast-server/app/podcast"
)

// UploadType identifies manually uploaded podcasts. Upload podcasts are
// pinned to this type in their definition; no URL routes to them.
var UploadType = Type{Key: "upload", Label: "Upload"}

// UploadUpdater handles podcasts whose items are uploaded by hand. There is
// no remote listing to diff against, so the current item set is the known
// set, the signature is always empty and nothing is ever new or obsolete.
type UploadUpdater struct{}

func (u UploadUpdater) Update(ctx context.Context, p podcast.Podcast) Result {
	return Run(ctx, u, p)
}

func (UploadUpdater) Items(ctx context.Context, p podcast.Podcast) []podcast.Item {
	return p.Items
}

func (UploadUpdater) SignatureOf(ctx context.Context, p podcast.Podcast) string {
	return ""
}

// NotIn is constant false: an upload podcast has no authoritative remote
// state, so a known item must never be dropped and a listed item is never
// admitted as new.
func (UploadUpdater) NotIn(p podcast.Podcast) func(podcast.Item) bool {
	return func(podcast.Item) bool {
		return false
	}
}

func (UploadUpdater) Type() Type {
	return UploadType
}

func (UploadUpdater) Compatibility(url string) int {
	return Incompatible
}
