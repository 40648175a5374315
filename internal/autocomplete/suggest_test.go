package autocomplete

import (
	"testing"

	"github.com/zavork/zavork/internal/spotify"
)

func TestMergeChoices(t *testing.T) {
	yt := []string{"a", "b", "c"}
	tracks := []spotify.Track{
		{Name: "Song", Artist: "Artist"},
		{Name: "Tune", Artist: "Band"},
	}

	got := mergeChoices(yt, tracks, 4)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[0].Value != "a" || got[1].Value != "b" {
		t.Fatalf("youtube choices = %q, %q", got[0].Value, got[1].Value)
	}
	if got[2].Value != "Artist Song" || got[3].Value != "Band Tune" {
		t.Fatalf("spotify choices = %q, %q", got[2].Value, got[3].Value)
	}
}

func TestMergeChoicesMoreTracksThanLimit(t *testing.T) {
	yt := []string{"a"}
	tracks := []spotify.Track{
		{Name: "One", Artist: "X"},
		{Name: "Two", Artist: "Y"},
		{Name: "Three", Artist: "Z"},
	}

	// Tracks alone exceed the limit; the YouTube slice must be trimmed to
	// zero, not a negative length, and the result capped at limit.
	got := mergeChoices(yt, tracks, 1)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Value != "X One" {
		t.Fatalf("choice = %q, want first track", got[0].Value)
	}
}

func TestMergeChoicesNoTracks(t *testing.T) {
	got := mergeChoices([]string{"a", "b"}, nil, 10)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}
