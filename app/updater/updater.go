// Package updater implements the incremental-update pipeline: one Updater per
// external source family, a Selector routing origin URLs to the best-matching
// Updater, and the shared orchestration that turns a podcast snapshot into an
// update result.
package updater

import (
	"context"
	"log/slog"
	"math"

	"github.com/tejuri/podcast-server/app/podcast"
)

// Incompatible is the reserved compatibility score meaning "cannot handle
// this URL at all". Lower scores are better matches.
const Incompatible = math.MaxInt32

// Type identifies the source family an updater handles.
type Type struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Updater is implemented once per external source family.
//
// Items and SignatureOf degrade to empty results on any fetch or parse
// failure: a temporarily unreachable source behaves like a source that
// published nothing this cycle, and the comparison against already-known
// items is left to the caller. Compatibility must be deterministic for a
// given URL.
type Updater interface {
	Update(ctx context.Context, p podcast.Podcast) Result
	Items(ctx context.Context, p podcast.Podcast) []podcast.Item
	SignatureOf(ctx context.Context, p podcast.Podcast) string
	NotIn(p podcast.Podcast) func(podcast.Item) bool
	Type() Type
	Compatibility(url string) int
}

// Result describes one update pass. NewItems holds the genuinely new items,
// deduplicated by identity. NotIn is the membership predicate the updater
// used: applied to an item it reports whether that item should be treated as
// absent from the podcast's known set. The caller may also apply it to
// existing items to decide pruning, per the updater's deletion semantics.
//
// The zero Result is the "no modification" sentinel.
type Result struct {
	Podcast  podcast.Podcast
	NewItems []podcast.Item
	NotIn    func(podcast.Item) bool
}

// NoModification is returned when the remote listing is unchanged since the
// last check.
func NoModification() Result {
	return Result{}
}

// Unmodified reports whether the result is the "no modification" sentinel.
func (r Result) Unmodified() bool {
	return r.NotIn == nil
}

// Run is the orchestration template shared by every updater's Update method.
// It computes the listing signature first and short-circuits when it matches
// the stored one, skipping item parsing entirely. Otherwise it fetches the
// current item set and keeps the items the updater's NotIn predicate accepts.
// The returned podcast carries the freshly computed signature so the caller
// can persist it alongside the new items.
func Run(ctx context.Context, u Updater, p podcast.Podcast) Result {
	signature := u.SignatureOf(ctx, p)
	if signature == p.Signature {
		slog.Debug("Listing unchanged", "podcast", p.Title, "type", u.Type().Key)
		return NoModification()
	}

	notIn := u.NotIn(p)
	seen := make(map[string]bool)
	var fresh []podcast.Item
	for _, item := range u.Items(ctx, p) {
		key := item.Key()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if notIn(item) {
			fresh = append(fresh, item)
		}
	}

	p.Signature = signature
	return Result{Podcast: p, NewItems: fresh, NotIn: notIn}
}

// DefaultNotIn reports items absent from the podcast's known set. Updaters
// whose source has no authoritative remote listing override this with a
// constant-false predicate so known items are never treated as new or pruned.
func DefaultNotIn(p podcast.Podcast) func(podcast.Item) bool {
	return func(item podcast.Item) bool {
		return !p.Contains(item)
	}
}
