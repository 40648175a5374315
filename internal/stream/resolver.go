package stream

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zavork/zavork/internal/player"
	"github.com/zavork/zavork/internal/spotify"
)

// Spotify resources resolve into at most this many YouTube lookups.
const spotifyTrackLimit = 50

// Resolver turns play-command input into queueable songs and, at playback
// time, song URLs into raw stream URLs. Spotify support is optional; without
// credentials Spotify links are rejected.
type Resolver struct {
	searcher *Searcher
	spotify  *spotify.Client
}

func NewResolver(searcher *Searcher, sp *spotify.Client) *Resolver {
	return &Resolver{searcher: searcher, spotify: sp}
}

func (r *Resolver) Search(ctx context.Context, query string, limit int) ([]player.SearchResult, error) {
	return r.searcher.Search(ctx, query, limit)
}

// ResolveStream extracts the playable audio URL for a song.
func (r *Resolver) ResolveStream(ctx context.Context, url string) (string, error) {
	info, err := GetInfo(ctx, url)
	if err != nil {
		return "", err
	}
	streamURL := info.AudioURL()
	if streamURL == "" {
		return "", fmt.Errorf("no playable audio format for %s", url)
	}
	return streamURL, nil
}

// Resolve maps user input to songs: a Spotify link becomes YouTube re-finds
// of its tracks, a direct URL is extracted (playlists expand to every entry),
// and anything else is treated as a text search taking the top hit.
func (r *Resolver) Resolve(ctx context.Context, input string) ([]player.SearchResult, error) {
	input = strings.TrimSpace(input)
	switch {
	case spotify.IsSpotifyInput(input):
		return r.resolveSpotify(ctx, input)
	case strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://"):
		return r.resolveURL(ctx, input)
	default:
		results, err := r.searcher.Search(ctx, input, 1)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, fmt.Errorf("%w: %s", player.ErrSearchNotFound, input)
		}
		return results[:1], nil
	}
}

func (r *Resolver) resolveSpotify(ctx context.Context, input string) ([]player.SearchResult, error) {
	if r.spotify == nil {
		return nil, fmt.Errorf("spotify links need SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET")
	}
	tracks, err := r.spotify.Tracks(ctx, input, spotifyTrackLimit)
	if err != nil {
		return nil, err
	}
	out := make([]player.SearchResult, 0, len(tracks))
	for _, t := range tracks {
		hits, err := r.searcher.Search(ctx, t.Query(), 1)
		if err != nil || len(hits) == 0 {
			slog.Warn("no youtube match for spotify track", "track", t.Query(), "err", err)
			continue
		}
		out = append(out, hits[0])
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", player.ErrSearchNotFound, input)
	}
	return out, nil
}

func (r *Resolver) resolveURL(ctx context.Context, url string) ([]player.SearchResult, error) {
	info, err := GetInfo(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(info.Entries) > 0 {
		out := make([]player.SearchResult, 0, len(info.Entries))
		for _, e := range info.Entries {
			out = append(out, toResult(&e))
		}
		return out, nil
	}
	return []player.SearchResult{toResult(info)}, nil
}

func toResult(i *Info) player.SearchResult {
	url := i.WebpageURL
	if url == "" && i.ID != "" {
		url = "https://www.youtube.com/watch?v=" + i.ID
	}
	return player.SearchResult{URL: url, Title: i.Title, Duration: int(i.Duration)}
}
