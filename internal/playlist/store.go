package playlist

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Store keeps every user's playlists in memory and rewrites the backing JSON
// document after each mutation. The in-memory map is the source of truth
// between flushes; a failed flush is logged and not rolled back, so at most
// one mutation can be lost on crash.
//
// Playlists may be touched from any guild, so the whole mapping is guarded by
// one mutex: persistence rewrites the entire document, per-user locking would
// not be enough.
type Store struct {
	mu        sync.Mutex
	path      string
	playlists map[string]map[string]*Playlist // ownerID -> name -> playlist
}

// Open loads the playlist document at path, creating the parent directory if
// needed. A missing file is an empty store, not an error.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	s := &Store{
		path:      path,
		playlists: make(map[string]map[string]*Playlist),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &s.playlists); err != nil {
		return nil, err
	}

	users := len(s.playlists)
	slog.Info("playlists loaded", "path", path, "users", users)
	return s, nil
}

// Create adds an empty playlist. Returns false without mutating anything if
// the owner already has a playlist with that name.
func (s *Store) Create(ownerID, name, ownerName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	byName, ok := s.playlists[ownerID]
	if !ok {
		byName = make(map[string]*Playlist)
		s.playlists[ownerID] = byName
	}
	if _, exists := byName[name]; exists {
		return false
	}
	byName[name] = &Playlist{Name: name, Owner: ownerName, Songs: []Song{}}
	s.saveLocked()
	return true
}

// Delete removes a playlist. Returns false if it does not exist.
func (s *Store) Delete(ownerID, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	byName, ok := s.playlists[ownerID]
	if !ok {
		return false
	}
	if _, exists := byName[name]; !exists {
		return false
	}
	delete(byName, name)
	s.saveLocked()
	return true
}

// AddSong appends a song to the named playlist. Returns false if the
// playlist does not exist.
func (s *Store) AddSong(ownerID, name string, song Song) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pl := s.findLocked(ownerID, name)
	if pl == nil {
		return false
	}
	pl.Songs = append(pl.Songs, song)
	s.saveLocked()
	return true
}

// RemoveSong removes the song at the 0-indexed position. Returns false if the
// playlist does not exist or the index is out of range.
func (s *Store) RemoveSong(ownerID, name string, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pl := s.findLocked(ownerID, name)
	if pl == nil {
		return false
	}
	if index < 0 || index >= len(pl.Songs) {
		return false
	}
	pl.Songs = append(pl.Songs[:index], pl.Songs[index+1:]...)
	s.saveLocked()
	return true
}

// Get returns a copy of the named playlist, or nil if it does not exist.
func (s *Store) Get(ownerID, name string) *Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()

	pl := s.findLocked(ownerID, name)
	if pl == nil {
		return nil
	}
	out := &Playlist{Name: pl.Name, Owner: pl.Owner, Songs: make([]Song, len(pl.Songs))}
	copy(out.Songs, pl.Songs)
	return out
}

// ListNames returns the owner's playlist names, sorted.
func (s *Store) ListNames(ownerID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	byName := s.playlists[ownerID]
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) findLocked(ownerID, name string) *Playlist {
	byName, ok := s.playlists[ownerID]
	if !ok {
		return nil
	}
	return byName[name]
}

// saveLocked rewrites the whole document. Write failures leave the in-memory
// state ahead of disk until the next successful flush.
func (s *Store) saveLocked() {
	data, err := json.MarshalIndent(s.playlists, "", "  ")
	if err != nil {
		slog.Error("marshal playlists failed", "path", s.path, "err", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		slog.Error("flush playlists failed", "path", s.path, "err", err)
	}
}
