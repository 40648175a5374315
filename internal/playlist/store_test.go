package playlist

import (
	"path/filepath"
	"reflect"
	"testing"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "playlists.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestCreateDuplicate(t *testing.T) {
	s := newStore(t)
	if !s.Create("u1", "mix", "Alice") {
		t.Fatal("first Create = false, want true")
	}
	if !s.AddSong("u1", "mix", Song{URL: "u", Title: "t", Duration: 1}) {
		t.Fatal("AddSong = false, want true")
	}
	if s.Create("u1", "mix", "Alice") {
		t.Fatal("duplicate Create = true, want false")
	}
	// Original must be untouched by the failed create.
	pl := s.Get("u1", "mix")
	if pl == nil || len(pl.Songs) != 1 {
		t.Fatalf("playlist clobbered by duplicate create: %+v", pl)
	}
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	s.Create("u1", "mix", "Alice")
	if !s.Delete("u1", "mix") {
		t.Fatal("Delete = false, want true")
	}
	if s.Delete("u1", "mix") {
		t.Fatal("second Delete = true, want false")
	}
	if s.Delete("u2", "mix") {
		t.Fatal("Delete for unknown owner = true, want false")
	}
}

func TestAddSongUnknownPlaylist(t *testing.T) {
	s := newStore(t)
	if s.AddSong("u1", "nope", Song{URL: "u", Title: "t"}) {
		t.Fatal("AddSong to missing playlist = true, want false")
	}
}

func TestRemoveSongBounds(t *testing.T) {
	s := newStore(t)
	s.Create("u1", "mix", "Alice")
	s.AddSong("u1", "mix", Song{URL: "a", Title: "a", Duration: 1})
	s.AddSong("u1", "mix", Song{URL: "b", Title: "b", Duration: 2})

	if s.RemoveSong("u1", "mix", 2) {
		t.Fatal("RemoveSong(len) = true, want false")
	}
	if s.RemoveSong("u1", "mix", -1) {
		t.Fatal("RemoveSong(-1) = true, want false")
	}
	if !s.RemoveSong("u1", "mix", 1) {
		t.Fatal("RemoveSong(len-1) = false, want true")
	}
	pl := s.Get("u1", "mix")
	if len(pl.Songs) != 1 || pl.Songs[0].Title != "a" {
		t.Fatalf("songs after remove = %+v, want [a]", pl.Songs)
	}
}

func TestListNames(t *testing.T) {
	s := newStore(t)
	s.Create("u1", "zebra", "Alice")
	s.Create("u1", "alpha", "Alice")
	s.Create("u2", "other", "Bob")

	got := s.ListNames("u1")
	want := []string{"alpha", "zebra"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ListNames = %v, want %v", got, want)
	}
	if names := s.ListNames("unknown"); len(names) != 0 {
		t.Fatalf("ListNames for unknown owner = %v, want empty", names)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := newStore(t)
	s.Create("u1", "mix", "Alice")
	s.AddSong("u1", "mix", Song{URL: "a", Title: "a"})

	pl := s.Get("u1", "mix")
	pl.Songs[0].Title = "mutated"
	if s.Get("u1", "mix").Songs[0].Title != "a" {
		t.Fatal("Get exposed internal state")
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlists.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Create("u1", "mix", "Alice")
	s.AddSong("u1", "mix", Song{URL: "https://yt/a", Title: "first", Duration: 180})
	s.AddSong("u1", "mix", Song{URL: "https://yt/b", Title: "second", Duration: 200})
	s.Create("u2", "road trip", "Bob")

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := reloaded.Get("u1", "mix")
	want := &Playlist{Name: "mix", Owner: "Alice", Songs: []Song{
		{URL: "https://yt/a", Title: "first", Duration: 180},
		{URL: "https://yt/b", Title: "second", Duration: 200},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round-trip mismatch:\n got %+v\nwant %+v", got, want)
	}
	if reloaded.Get("u2", "road trip") == nil {
		t.Fatal("second owner lost in round-trip")
	}
}
