// Package downloader resolves listed items into their final downloadable
// URLs. Most sources list the media URL directly; some only expose it inside
// the episode page, so resolution is deferred until first use and memoized.
package downloader

import (
	"context"
	"errors"
	"strings"

	"github.com/tejuri/podcast-server/app/podcast"
	"github.com/tejuri/podcast-server/app/updater"
)

// ErrURLNotFound is reported when deferred resolution cannot produce a media
// URL for an item. Listing never fails for this reason; the error surfaces
// only at the point of actual use.
var ErrURLNotFound = errors.New("item url not found")

// Resolver produces the final downloadable URL for an item. Compatibility
// scoring mirrors the updater side: lower wins, the sentinel means "cannot
// handle".
type Resolver interface {
	ItemURL(ctx context.Context, item podcast.Item) (string, error)
	Compatibility(url string) int
}

// DirectResolver passes the listed URL through unchanged. It is the broad
// fallback for sources whose listings already carry the media URL.
type DirectResolver struct{}

func (DirectResolver) ItemURL(ctx context.Context, item podcast.Item) (string, error) {
	if item.URL == "" {
		return "", ErrURLNotFound
	}
	return item.URL, nil
}

func (DirectResolver) Compatibility(url string) int {
	if strings.HasPrefix(url, "http") {
		return updater.Incompatible - 1
	}
	return updater.Incompatible
}

// Selector routes an item URL to the resolver with the best compatibility
// score, falling back to DirectResolver.
type Selector struct {
	resolvers []Resolver
}

func NewSelector(resolvers ...Resolver) Selector {
	return Selector{resolvers: resolvers}
}

func (s Selector) Of(url string) Resolver {
	best := Resolver(DirectResolver{})
	bestScore := DirectResolver{}.Compatibility(url)
	for _, r := range s.resolvers {
		if score := r.Compatibility(url); score < bestScore {
			best, bestScore = r, score
		}
	}
	return best
}
