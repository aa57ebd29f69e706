// Package cover resolves artwork URLs into Cover values carrying the image
// dimensions, when they can be determined.
package cover

import (
	"bytes"
	"context"
	"image"
	"log/slog"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/tejuri/podcast-server/app/podcast"
	"github.com/tejuri/podcast-server/app/web"
)

type Service struct {
	client *web.Client
}

func NewService(client *web.Client) *Service {
	return &Service{client: client}
}

// FromURL fetches the image at url and reads its dimensions. Fetch or decode
// failures degrade to a Cover holding only the URL; artwork is never a reason
// to fail an update pass.
func (s *Service) FromURL(ctx context.Context, url string) podcast.Cover {
	if url == "" {
		return podcast.Cover{}
	}

	data, err := s.client.Get(ctx, url)
	if err != nil {
		slog.Debug("Cover fetch failed", "url", url, "error", err)
		return podcast.Cover{URL: url}
	}

	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		slog.Debug("Cover decode failed", "url", url, "error", err)
		return podcast.Cover{URL: url}
	}

	return podcast.Cover{URL: url, Width: config.Width, Height: config.Height}
}
