package updater

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"github.com/tejuri/podcast-server/app/cover"
	"github.com/tejuri/podcast-server/app/podcast"
	"github.com/tejuri/podcast-server/app/web"
)

const gulliDomain = "https://replay.gulli.fr"

// GulliUpdater lists Gulli replay shows from the plain HTML listing page.
// Item URLs point at the episode page; the playable media URL is resolved
// lazily by the downloader side, since it requires a second fetch of the
// episode page.
type GulliUpdater struct {
	client *web.Client
	covers *cover.Service
}

func NewGulliUpdater(client *web.Client, covers *cover.Service) *GulliUpdater {
	return &GulliUpdater{client: client, covers: covers}
}

func (u *GulliUpdater) Update(ctx context.Context, p podcast.Podcast) Result {
	return Run(ctx, u, p)
}

func (u *GulliUpdater) Items(ctx context.Context, p podcast.Podcast) []podcast.Item {
	episodes, err := u.listing(ctx, p.URL)
	if err != nil {
		slog.Warn("Gulli listing failed", "podcast", p.Title, "url", p.URL, "error", err)
		return nil
	}

	items := make([]podcast.Item, 0, episodes.Length())
	episodes.Each(func(_ int, episode *goquery.Selection) {
		if item := u.item(ctx, episode); item.URL != "" {
			items = append(items, item)
		}
	})
	return items
}

func (u *GulliUpdater) item(ctx context.Context, episode *goquery.Selection) podcast.Item {
	link := episode.Find("a").First().AttrOr("href", "")
	if strings.HasPrefix(link, "/") {
		link = gulliDomain + link
	}

	item := podcast.Item{
		Title:       strings.TrimSpace(episode.Find(".titre").Text()),
		Description: strings.TrimSpace(episode.Find(".soustitre").Text()),
		URL:         link,
		PubDate:     gulliDate(episode),
	}

	if src := episode.Find("img").First().AttrOr("src", ""); src != "" {
		if strings.HasPrefix(src, "/") {
			src = gulliDomain + src
		}
		item.Cover = u.covers.FromURL(ctx, src)
	}

	return item
}

func gulliDate(episode *goquery.Selection) time.Time {
	if raw := strings.TrimSpace(episode.Find(".date").Text()); raw != "" {
		if parsed, err := dateparse.ParseAny(raw); err == nil {
			return parsed
		}
	}
	return time.Now()
}

func (u *GulliUpdater) SignatureOf(ctx context.Context, p podcast.Podcast) string {
	episodes, err := u.listing(ctx, p.URL)
	if err != nil {
		slog.Debug("Gulli signature fetch failed", "podcast", p.Title, "url", p.URL, "error", err)
		return ""
	}

	var content strings.Builder
	episodes.Each(func(_ int, episode *goquery.Selection) {
		if html, err := goquery.OuterHtml(episode); err == nil {
			content.WriteString(html)
		}
	})
	return web.Digest(content.String())
}

func (u *GulliUpdater) listing(ctx context.Context, url string) (*goquery.Selection, error) {
	doc, err := u.client.GetDocument(ctx, url)
	if err != nil {
		return nil, err
	}
	return doc.Find("div.bloc_video"), nil
}

func (*GulliUpdater) NotIn(p podcast.Podcast) func(podcast.Item) bool {
	return DefaultNotIn(p)
}

func (*GulliUpdater) Type() Type {
	return Type{Key: "Gulli", Label: "Gulli"}
}

func (*GulliUpdater) Compatibility(url string) int {
	if strings.Contains(url, "replay.gulli.fr") {
		return 1
	}
	return Incompatible
}
