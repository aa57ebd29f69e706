package updater

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"github.com/tejuri/podcast-server/app/cover"
	"github.com/tejuri/podcast-server/app/podcast"
	"github.com/tejuri/podcast-server/app/web"
)

// RSSUpdater is the broad fallback for sources publishing a regular RSS or
// Atom feed. It claims any http(s) URL with a deliberately weak score so
// that narrowly scoped updaters always win when they match.
type RSSUpdater struct {
	client *web.Client
	covers *cover.Service
	parser *gofeed.Parser
}

func NewRSSUpdater(client *web.Client, covers *cover.Service) *RSSUpdater {
	return &RSSUpdater{
		client: client,
		covers: covers,
		parser: gofeed.NewParser(),
	}
}

func (u *RSSUpdater) Update(ctx context.Context, p podcast.Podcast) Result {
	return Run(ctx, u, p)
}

func (u *RSSUpdater) Items(ctx context.Context, p podcast.Podcast) []podcast.Item {
	data, err := u.client.Get(ctx, p.URL)
	if err != nil {
		slog.Warn("Feed fetch failed", "podcast", p.Title, "url", p.URL, "error", err)
		return nil
	}

	feed, err := u.parser.Parse(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Feed parse failed", "podcast", p.Title, "url", p.URL, "error", err)
		return nil
	}

	items := make([]podcast.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}
		items = append(items, u.item(ctx, entry))
	}
	return items
}

func (u *RSSUpdater) item(ctx context.Context, entry *gofeed.Item) podcast.Item {
	item := podcast.Item{
		Title:       entry.Title,
		Description: entry.Description,
		URL:         entry.Link,
		PubDate:     entryDate(entry),
	}

	// The enclosure is the canonical media URL when present; the entry link
	// is only a landing page.
	if len(entry.Enclosures) > 0 && entry.Enclosures[0] != nil && entry.Enclosures[0].URL != "" {
		item.URL = entry.Enclosures[0].URL
	}

	if entry.Image != nil && entry.Image.URL != "" {
		item.Cover = u.covers.FromURL(ctx, entry.Image.URL)
	}

	return item
}

func entryDate(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.Published != "" {
		if parsed, err := dateparse.ParseAny(entry.Published); err == nil {
			return parsed
		}
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	return time.Now()
}

func (u *RSSUpdater) SignatureOf(ctx context.Context, p podcast.Podcast) string {
	data, err := u.client.Get(ctx, p.URL)
	if err != nil {
		slog.Debug("Feed signature fetch failed", "podcast", p.Title, "url", p.URL, "error", err)
		return ""
	}
	return web.Digest(string(data))
}

func (u *RSSUpdater) NotIn(p podcast.Podcast) func(podcast.Item) bool {
	return DefaultNotIn(p)
}

func (*RSSUpdater) Type() Type {
	return Type{Key: "RSS", Label: "RSS"}
}

func (*RSSUpdater) Compatibility(url string) int {
	if strings.HasPrefix(url, "http") {
		return Incompatible - 1
	}
	return Incompatible
}
