package downloader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tejuri/podcast-server/app/podcast"
	"github.com/tejuri/podcast-server/app/web"
)

const gulliEpisodePage = `<html><head>
<script>var unrelated = true;</script>
<script>
  jwplayer("player").setup({
    playlist: [
      {"sources": [{"file": "http://cdn.gulli.fr/ep0.mp4"}]},
      {"sources": [{"file": "http://cdn.gulli.fr/ep1.mp4"}]},
      {"sources": [
        {"file": "http://cdn.gulli.fr/ep2.m3u8"},
        {"file": "http://cdn.gulli.fr/ep2.mp4"}
      ]}
    ],
    events: {}
  });
  jwplayer("player").playlistItem(2);
</script>
</head></html>`

func newTestResolver() *GulliResolver {
	return NewGulliResolver(web.NewClient(5*time.Second, "test"))
}

func TestGulliResolver_ItemURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(gulliEpisodePage))
	}))
	defer server.Close()

	item := podcast.Item{URL: server.URL + "/episode-2"}
	url, err := newTestResolver().ItemURL(context.Background(), item)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if url != "http://cdn.gulli.fr/ep2.mp4" {
		t.Errorf("Expected the mp4 source at playlist index 2, got %q", url)
	}
}

func TestGulliResolver_Memoization(t *testing.T) {
	var fetches int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fetches, 1)
		w.Write([]byte(gulliEpisodePage))
	}))
	defer server.Close()

	resolver := newTestResolver()
	item := podcast.Item{URL: server.URL + "/episode-2"}

	first, err := resolver.ItemURL(context.Background(), item)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := resolver.ItemURL(context.Background(), item)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("Cached resolution should return the same URL, got %q then %q", first, second)
	}
	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Errorf("Expected exactly one secondary fetch, got %d", got)
	}
}

func TestGulliResolver_NoMatchingExtension(t *testing.T) {
	page := `<html><script>
    playlist: [{"sources": [{"file": "http://cdn.gulli.fr/ep0.m3u8"}]}],
    events: {};
    playlistItem(0);
  </script></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	_, err := newTestResolver().ItemURL(context.Background(), podcast.Item{URL: server.URL + "/episode"})
	if !errors.Is(err, ErrURLNotFound) {
		t.Errorf("Expected ErrURLNotFound, got %v", err)
	}
}

func TestGulliResolver_IndexOutOfRange(t *testing.T) {
	page := `<html><script>
    playlist: [{"sources": [{"file": "http://cdn.gulli.fr/ep0.mp4"}]}],
    events: {};
    playlistItem(5);
  </script></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	_, err := newTestResolver().ItemURL(context.Background(), podcast.Item{URL: server.URL + "/episode"})
	if !errors.Is(err, ErrURLNotFound) {
		t.Errorf("Expected ErrURLNotFound, got %v", err)
	}
}

func TestGulliResolver_NoPlaylistScript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><script>var nothing = true;</script></html>`))
	}))
	defer server.Close()

	_, err := newTestResolver().ItemURL(context.Background(), podcast.Item{URL: server.URL + "/episode"})
	if !errors.Is(err, ErrURLNotFound) {
		t.Errorf("Expected ErrURLNotFound, got %v", err)
	}
}

func TestGulliResolver_FailureIsCached(t *testing.T) {
	var fetches int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fetches, 1)
		w.Write([]byte(`<html></html>`))
	}))
	defer server.Close()

	resolver := newTestResolver()
	item := podcast.Item{URL: server.URL + "/episode"}

	if _, err := resolver.ItemURL(context.Background(), item); !errors.Is(err, ErrURLNotFound) {
		t.Fatalf("Expected ErrURLNotFound, got %v", err)
	}
	if _, err := resolver.ItemURL(context.Background(), item); !errors.Is(err, ErrURLNotFound) {
		t.Fatalf("Expected cached ErrURLNotFound, got %v", err)
	}
	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Errorf("Failed resolution should also be cached, got %d fetches", got)
	}
}

func TestGulliResolver_EmptyItemURL(t *testing.T) {
	if _, err := newTestResolver().ItemURL(context.Background(), podcast.Item{}); !errors.Is(err, ErrURLNotFound) {
		t.Errorf("Expected ErrURLNotFound for empty item URL, got %v", err)
	}
}
