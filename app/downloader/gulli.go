package downloader

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/tejuri/podcast-server/app/extract"
	"github.com/tejuri/podcast-server/app/podcast"
	"github.com/tejuri/podcast-server/app/updater"
	"github.com/tejuri/podcast-server/app/web"
)

var (
	gulliPlaylistIndex = extract.MustCompile(`playlistItem\(([^)]*)\);`)
	gulliPlaylist      = extract.MustCompile(`(?s)playlist:\s*(.*?)\s*events:`)
)

const gulliMediaExtension = "mp4"

// GulliResolver resolves a Gulli episode page into its mp4 source. The page
// embeds a JSON playlist inside a script block, keyed by an index extracted
// from a sibling player expression. The secondary fetch is expensive and its
// result stable, so resolution runs at most once per item; later calls for
// the same item return the cached outcome, including a failed one.
type GulliResolver struct {
	client *web.Client

	mu    sync.Mutex
	cache map[string]*lazyURL
}

// lazyURL is a one-shot cache cell: the thunk runs under the Once, the
// result lives for the item's lifetime.
type lazyURL struct {
	once sync.Once
	url  string
	err  error
}

func NewGulliResolver(client *web.Client) *GulliResolver {
	return &GulliResolver{
		client: client,
		cache:  make(map[string]*lazyURL),
	}
}

func (r *GulliResolver) ItemURL(ctx context.Context, item podcast.Item) (string, error) {
	if item.URL == "" {
		return "", ErrURLNotFound
	}

	r.mu.Lock()
	cell, ok := r.cache[item.Key()]
	if !ok {
		cell = &lazyURL{}
		r.cache[item.Key()] = cell
	}
	r.mu.Unlock()

	cell.once.Do(func() {
		cell.url, cell.err = r.resolve(ctx, item)
	})
	return cell.url, cell.err
}

func (r *GulliResolver) resolve(ctx context.Context, item podcast.Item) (string, error) {
	doc, err := r.client.GetDocument(ctx, item.URL)
	if err != nil {
		return "", fmt.Errorf("%w for %s: %v", ErrURLNotFound, item.URL, err)
	}

	script := playerScript(doc)
	if script == "" {
		return "", fmt.Errorf("%w for %s: no playlist script", ErrURLNotFound, item.URL)
	}

	rawIndex, ok := gulliPlaylistIndex.On(script).Group(1)
	if !ok {
		return "", fmt.Errorf("%w for %s: no playlist index", ErrURLNotFound, item.URL)
	}
	index, err := strconv.Atoi(strings.TrimSpace(rawIndex))
	if err != nil {
		return "", fmt.Errorf("%w for %s: bad playlist index %q", ErrURLNotFound, item.URL, rawIndex)
	}

	rawPlaylist, ok := gulliPlaylist.On(script).Group(1)
	if !ok {
		return "", fmt.Errorf("%w for %s: no playlist", ErrURLNotFound, item.URL)
	}

	var playlist []struct {
		Sources []struct {
			File string `json:"file"`
		} `json:"sources"`
	}
	if err := web.ParseJSON([]byte(strings.TrimSuffix(strings.TrimSpace(rawPlaylist), ",")), &playlist); err != nil {
		return "", fmt.Errorf("%w for %s: %v", ErrURLNotFound, item.URL, err)
	}

	if index < 0 || index >= len(playlist) {
		return "", fmt.Errorf("%w for %s: playlist index %d out of range", ErrURLNotFound, item.URL, index)
	}

	for _, source := range playlist[index].Sources {
		if strings.Contains(source.File, gulliMediaExtension) {
			return source.File, nil
		}
	}
	return "", fmt.Errorf("%w for %s: no %s source", ErrURLNotFound, item.URL, gulliMediaExtension)
}

func playerScript(doc *goquery.Document) string {
	var script string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), "playlist:") {
			script = s.Text()
			return false
		}
		return true
	})
	return script
}

func (*GulliResolver) Compatibility(url string) int {
	if strings.Contains(url, "replay.gulli.fr") {
		return 1
	}
	return updater.Incompatible
}
