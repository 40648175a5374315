package stream

import (
	"context"
	"fmt"
	"strings"
	"sync"

	ytdlp "github.com/lrstanley/go-ytdlp"
)

// Info is the subset of yt-dlp extraction output the player needs. For
// playlist URLs Entries carries every item and the top-level fields mirror
// the first one.
type Info struct {
	ID         string
	Title      string
	Duration   float64
	IsLive     bool
	WebpageURL string
	URL        string
	FormatURLs []string

	Entries []Info
}

var installOnce sync.Once

// GetInfo runs yt-dlp in dump-json mode against a single URL, preferring
// opus audio formats.
func GetInfo(ctx context.Context, url string) (*Info, error) {
	installOnce.Do(func() {
		// Download a managed yt-dlp binary when none is on PATH. Run
		// surfaces availability problems either way.
		ytdlp.MustInstall(ctx, nil)
	})

	cmd := ytdlp.New().
		Format("ba[acodec^=opus]/ba[ext=m4a]/bestaudio/best").
		NoCheckCertificates().
		DumpJSON()

	res, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp run: %w", err)
	}

	infos, err := res.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("parse yt-dlp json: %w", err)
	}
	if len(infos) == 0 || infos[0] == nil {
		return nil, fmt.Errorf("parse yt-dlp json: no info returned")
	}
	ext := infos[0]

	out := fromExtracted(ext)
	for _, e := range ext.Entries {
		if e == nil {
			continue
		}
		out.Entries = append(out.Entries, *fromExtracted(e))
	}
	if len(out.Entries) > 0 {
		// Mirror the first entry to the top level so single-item callers
		// work the same on playlist containers.
		first := out.Entries[0]
		first.Entries = out.Entries
		*out = first
	}
	return out, nil
}

func fromExtracted(e *ytdlp.ExtractedInfo) *Info {
	out := &Info{
		ID:         e.ID,
		Title:      deref(e.Title),
		Duration:   derefF(e.Duration),
		IsLive:     derefB(e.IsLive),
		WebpageURL: deref(e.WebpageURL),
		URL:        deref(e.URL),
	}
	for _, f := range e.RequestedFormats {
		if f != nil {
			out.FormatURLs = append(out.FormatURLs, f.URL)
		}
	}
	for _, f := range e.Formats {
		if f != nil {
			out.FormatURLs = append(out.FormatURLs, f.URL)
		}
	}
	return out
}

// AudioURL picks the playable stream URL out of an extraction, preferring
// the format yt-dlp selected.
func (i *Info) AudioURL() string {
	if strings.HasPrefix(i.URL, "http") {
		return i.URL
	}
	for _, u := range i.FormatURLs {
		if strings.HasPrefix(u, "http") {
			return u
		}
	}
	return ""
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefF(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefB(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}
