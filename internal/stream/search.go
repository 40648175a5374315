package stream

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ppalone/ytsearch"

	"github.com/zavork/zavork/internal/player"
)

// Searcher finds YouTube videos by text query. It is much cheaper than a
// yt-dlp extraction and is what autocomplete and plain-text play requests go
// through.
type Searcher struct {
	client *ytsearch.Client
}

func NewSearcher() *Searcher {
	return &Searcher{client: ytsearch.NewClient(nil)}
}

func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]player.SearchResult, error) {
	res, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]player.SearchResult, 0, limit)
	for _, v := range res.Results {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, player.SearchResult{
			URL:      "https://www.youtube.com/watch?v=" + v.VideoID,
			Title:    v.Title,
			Duration: int(parseDurationColon(v.Duration).Seconds()),
		})
	}
	return out, nil
}

// parseDurationColon parses duration strings like "3:20" or "1:05:20".
func parseDurationColon(s string) time.Duration {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}
	var total int
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second
}
