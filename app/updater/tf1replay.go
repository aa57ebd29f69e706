package updater

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"github.com/tejuri/podcast-server/app/cover"
	"github.com/tejuri/podcast-server/app/extract"
	"github.com/tejuri/podcast-server/app/podcast"
	"github.com/tejuri/podcast-server/app/web"
)

// Origin URL:  http://www.tf1.fr/tf1/19h-live/videos
// Listing URL: http://www.tf1.fr/ajax/tf1/19h-live/videos?filter=replay
var tf1ChannelProgram = extract.MustCompile(`[^:]+://www\.tf1\.fr/([^/]+)/([^/]+)/videos.*`)

const (
	tf1AjaxFormat     = "http://www.tf1.fr/ajax/%s/%s/videos?filter=%s"
	tf1Domain         = "https://www.tf1.fr"
	tf1SchemeDefault  = "https:"
	tf1ReplayCategory = "replay"
	tf1AllCategory    = "all"
)

// TF1ReplayUpdater lists TF1 replay programs. The public program page is
// rendered client-side, so the listing is replayed through the site's AJAX
// endpoint, which answers with an HTML fragment wrapped in JSON.
type TF1ReplayUpdater struct {
	client *web.Client
	covers *cover.Service

	// overridable in tests
	ajaxFormat string
	domain     string
}

func NewTF1ReplayUpdater(client *web.Client, covers *cover.Service) *TF1ReplayUpdater {
	return &TF1ReplayUpdater{
		client:     client,
		covers:     covers,
		ajaxFormat: tf1AjaxFormat,
		domain:     tf1Domain,
	}
}

func (u *TF1ReplayUpdater) Update(ctx context.Context, p podcast.Podcast) Result {
	return Run(ctx, u, p)
}

func (u *TF1ReplayUpdater) Items(ctx context.Context, p podcast.Podcast) []podcast.Item {
	videos, err := u.listing(ctx, p.URL)
	if err != nil {
		slog.Warn("TF1 listing failed", "podcast", p.Title, "url", p.URL, "error", err)
		return nil
	}

	items := make([]podcast.Item, 0, videos.Length())
	videos.Each(func(_ int, video *goquery.Selection) {
		items = append(items, u.item(ctx, video))
	})
	return items
}

func (u *TF1ReplayUpdater) item(ctx context.Context, video *goquery.Selection) podcast.Item {
	link := video.Find(".videoLink").AttrOr("href", "")
	url := link
	if strings.HasPrefix(link, "/") {
		url = u.domain + link
	}

	return podcast.Item{
		Title:       tf1Title(video),
		Description: video.Find("p.stitle").Text(),
		URL:         url,
		PubDate:     u.pubDate(ctx, url),
		Cover:       u.coverOf(ctx, video),
	}
}

// Program pages title as "Program name - Episode"; only the episode part is
// meaningful inside a single podcast.
func tf1Title(video *goquery.Selection) string {
	text := video.Find("p.title").Text()
	if _, after, found := strings.Cut(text, " - "); found {
		return strings.TrimSpace(after)
	}
	return text
}

func (u *TF1ReplayUpdater) coverOf(ctx context.Context, video *goquery.Selection) podcast.Cover {
	srcset, ok := video.Find("source").First().Attr("data-srcset")
	if !ok || srcset == "" {
		return podcast.Cover{}
	}

	// data-srcset lists "url width" pairs; the last one is the largest.
	candidates := strings.Split(srcset, ",")
	fields := strings.Fields(strings.TrimSpace(candidates[len(candidates)-1]))
	if len(fields) == 0 {
		return podcast.Cover{}
	}
	return u.covers.FromURL(ctx, tf1SchemeDefault+fields[0])
}

// pubDate reads the upload date from the ld+json block of the episode page.
func (u *TF1ReplayUpdater) pubDate(ctx context.Context, url string) time.Time {
	doc, err := u.client.GetDocument(ctx, url)
	if err != nil {
		return time.Now()
	}

	raw := doc.Find(`script[type="application/ld+json"]`).First().Text()
	if raw == "" {
		return time.Now()
	}

	var page struct {
		UploadDate string `json:"uploadDate"`
	}
	if err := web.ParseJSON([]byte(raw), &page); err != nil {
		return time.Now()
	}
	if parsed, err := dateparse.ParseAny(page.UploadDate); err == nil {
		return parsed
	}
	return time.Now()
}

func (u *TF1ReplayUpdater) SignatureOf(ctx context.Context, p podcast.Podcast) string {
	videos, err := u.listing(ctx, p.URL)
	if err != nil {
		slog.Debug("TF1 signature fetch failed", "podcast", p.Title, "url", p.URL, "error", err)
		return ""
	}

	var content strings.Builder
	videos.Each(func(_ int, video *goquery.Selection) {
		if html, err := goquery.OuterHtml(video); err == nil {
			content.WriteString(html)
		}
	})
	return web.Digest(content.String())
}

// listing prefers the replay category and falls back to the full catalog
// when a program has no replays, only extracts.
func (u *TF1ReplayUpdater) listing(ctx context.Context, url string) (*goquery.Selection, error) {
	replays, err := u.fragment(ctx, url, tf1ReplayCategory)
	if err == nil && replays.Length() > 0 {
		return replays, nil
	}
	return u.fragment(ctx, url, tf1AllCategory)
}

func (u *TF1ReplayUpdater) fragment(ctx context.Context, url, category string) (*goquery.Selection, error) {
	groups, ok := tf1ChannelProgram.On(url).Groups()
	if !ok {
		return nil, fmt.Errorf("unrecognized TF1 url %q", url)
	}

	var response struct {
		HTML string `json:"html"`
	}
	ajaxURL := fmt.Sprintf(u.ajaxFormat, groups[0], groups[1], category)
	if err := u.client.GetJSON(ctx, ajaxURL, &response); err != nil {
		return nil, err
	}

	doc, err := web.ParseDocument([]byte(response.HTML))
	if err != nil {
		return nil, err
	}

	return doc.Find(".video").FilterFunction(func(_ int, video *goquery.Selection) bool {
		if video.AttrOr("data-id", "") == "" {
			return false
		}
		return tf1IsReplayOrVideo(video)
	}), nil
}

func tf1IsReplayOrVideo(video *goquery.Selection) bool {
	switch strings.ToLower(strings.TrimSpace(video.Find(".uptitle strong").Text())) {
	case "replay", "vidéo", "":
		return true
	}
	return false
}

func (*TF1ReplayUpdater) NotIn(p podcast.Podcast) func(podcast.Item) bool {
	return DefaultNotIn(p)
}

func (*TF1ReplayUpdater) Type() Type {
	return Type{Key: "TF1Replay", Label: "TF1 Replay"}
}

func (*TF1ReplayUpdater) Compatibility(url string) int {
	if strings.Contains(url, "www.tf1.fr") {
		return 1
	}
	return Incompatible
}
