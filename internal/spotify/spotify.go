// Package spotify resolves Spotify links into plain track metadata. The bot
// cannot stream from Spotify; tracks are re-found on YouTube by name.
package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

type Track struct {
	Name   string
	Artist string
}

// Query builds the YouTube search string for a track.
func (t Track) Query() string {
	if t.Artist == "" {
		return t.Name
	}
	return t.Artist + " " + t.Name
}

type Client struct {
	raw *spotify.Client
}

func NewClientCredentials(clientID, clientSecret string) (*Client, error) {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	httpClient := cfg.Client(context.Background())
	return &Client{raw: spotify.New(httpClient, spotify.WithRetry(true))}, nil
}

// IsSpotifyInput reports whether raw looks like a Spotify URL or URI.
func IsSpotifyInput(raw string) bool {
	return strings.HasPrefix(raw, "spotify:") || strings.Contains(raw, "open.spotify.com")
}

// ParseID extracts the resource type and ID from a Spotify URL or URI.
func ParseID(raw string) (typ string, id spotify.ID, err error) {
	if strings.HasPrefix(raw, "spotify:") {
		parts := strings.Split(raw, ":")
		if len(parts) == 3 {
			return parts[1], spotify.ID(parts[2]), nil
		}
		return "", "", fmt.Errorf("invalid spotify URI")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if !strings.HasSuffix(u.Host, "open.spotify.com") {
		return "", "", fmt.Errorf("not a spotify URL")
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid spotify URL path")
	}
	switch parts[0] {
	case "album", "playlist", "track", "artist":
		return parts[0], spotify.ID(parts[1]), nil
	}
	return "", "", fmt.Errorf("unsupported spotify type %q", parts[0])
}

// Tracks resolves any supported Spotify input into its track list. Albums and
// playlists are paged up to limit; limit 0 means no cap.
func (c *Client) Tracks(ctx context.Context, raw string, limit int) ([]Track, error) {
	typ, id, err := ParseID(raw)
	if err != nil {
		return nil, err
	}
	switch typ {
	case "track":
		t, err := c.track(ctx, id)
		if err != nil {
			return nil, err
		}
		return []Track{t}, nil
	case "album":
		return c.albumTracks(ctx, id, limit)
	case "playlist":
		return c.playlistTracks(ctx, id, limit)
	case "artist":
		return c.artistTop(ctx, id, limit)
	}
	return nil, fmt.Errorf("unsupported spotify type %q", typ)
}

func (c *Client) track(ctx context.Context, id spotify.ID) (Track, error) {
	t, err := c.raw.GetTrack(ctx, id)
	if err != nil {
		return Track{}, err
	}
	return Track{Name: t.Name, Artist: firstArtist(t.Artists)}, nil
}

func (c *Client) albumTracks(ctx context.Context, id spotify.ID, limit int) ([]Track, error) {
	page, err := c.raw.GetAlbumTracks(ctx, id)
	if err != nil {
		return nil, err
	}
	var out []Track
	for {
		for _, t := range page.Tracks {
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
			out = append(out, Track{Name: t.Name, Artist: firstArtist(t.Artists)})
		}
		if page.Next == "" {
			return out, nil
		}
		if err := c.raw.NextPage(ctx, page); err != nil {
			return out, nil
		}
	}
}

func (c *Client) playlistTracks(ctx context.Context, id spotify.ID, limit int) ([]Track, error) {
	page, err := c.raw.GetPlaylistItems(ctx, id)
	if err != nil {
		return nil, err
	}
	var out []Track
	for {
		for _, it := range page.Items {
			if it.Track.Track == nil {
				continue // episodes and removed tracks
			}
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
			t := it.Track.Track
			out = append(out, Track{Name: t.Name, Artist: firstArtist(t.Artists)})
		}
		if page.Next == "" {
			return out, nil
		}
		if err := c.raw.NextPage(ctx, page); err != nil {
			return out, nil
		}
	}
}

func (c *Client) artistTop(ctx context.Context, id spotify.ID, limit int) ([]Track, error) {
	full, err := c.raw.GetArtistsTopTracks(ctx, id, "US")
	if err != nil {
		return nil, err
	}
	out := make([]Track, 0, len(full))
	for _, t := range full {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, Track{Name: t.Name, Artist: firstArtist(t.Artists)})
	}
	return out, nil
}

// SearchTracks backs slash-command autocomplete.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	if limit <= 0 {
		limit = 10
	}
	res, err := c.raw.Search(ctx, query, spotify.SearchTypeTrack)
	if err != nil {
		return nil, err
	}
	tracks := res.Tracks.Tracks
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	out := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, Track{Name: t.Name, Artist: firstArtist(t.Artists)})
	}
	return out, nil
}

func firstArtist(artists []spotify.SimpleArtist) string {
	if len(artists) == 0 {
		return ""
	}
	return artists[0].Name
}
