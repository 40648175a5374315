package autocomplete

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bwmarrin/discordgo"

	"github.com/zavork/zavork/internal/spotify"
)

// YouTubeSuggestions queries the public suggest endpoint used by the YouTube
// search box.
func YouTubeSuggestions(ctx context.Context, query string) ([]string, error) {
	u, _ := url.Parse("https://suggestqueries.google.com/complete/search")
	q := u.Query()
	q.Set("client", "firefox")
	q.Set("ds", "yt")
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Response shape: [query, [suggestion, ...], ...]
	var parsed []any
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed) < 2 {
		return nil, nil
	}
	arr, ok := parsed[1].([]any)
	if !ok {
		return nil, nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Suggestions builds play-command choices from YouTube suggestions plus, when
// Spotify is configured, matching Spotify tracks. Track choices resolve
// through a text search, so their value is the "artist name" query.
func Suggestions(ctx context.Context, query string, sp *spotify.Client, limit int) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	if limit <= 0 {
		limit = 10
	}
	yt, _ := YouTubeSuggestions(ctx, query)

	var tracks []spotify.Track
	if sp != nil && limit/2 > 0 {
		if ts, err := sp.SearchTracks(ctx, query, limit/2); err == nil {
			tracks = ts
		}
	}
	return mergeChoices(yt, tracks, limit), nil
}

// mergeChoices fills up to limit choices with YouTube suggestions, trimming
// them back to make room for the Spotify tracks.
func mergeChoices(yt []string, tracks []spotify.Track, limit int) []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, limit)
	for _, s := range yt {
		if len(out) >= limit {
			break
		}
		out = append(out, &discordgo.ApplicationCommandOptionChoice{
			Name:  "YouTube: " + s,
			Value: s,
		})
	}

	if len(tracks) > 0 {
		keep := limit - len(tracks)
		if keep < 0 {
			keep = 0
		}
		if len(out) > keep {
			out = out[:keep]
		}
		for _, t := range tracks {
			out = append(out, &discordgo.ApplicationCommandOptionChoice{
				Name:  fmt.Sprintf("Spotify: 🎵 %s - %s", t.Name, t.Artist),
				Value: t.Query(),
			})
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
