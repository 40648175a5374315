package player

import "context"

// Status is the session controller state machine.
type Status int

const (
	// StatusIdle: no voice connection.
	StatusIdle Status = iota
	// StatusConnected: connected, nothing playing.
	StatusConnected
	StatusPlaying
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusConnected:
		return "connected"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	}
	return "unknown"
}

// SearchResult is one resolved track candidate.
type SearchResult struct {
	URL      string
	Title    string
	Duration int // seconds
}

// Resolver translates a query or URL into playable track metadata and a
// streamable audio URL. Search returns an empty slice for "not found";
// ResolveStream returns an error when no usable stream exists.
type Resolver interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
	ResolveStream(ctx context.Context, url string) (string, error)
}

// Transport opens voice connections. One Conn per guild at most.
type Transport interface {
	Connect(guildID, channelID string) (Conn, error)
}

// Conn is an established voice connection. Play starts streaming the given
// audio URL and invokes onEnd exactly once from a foreign goroutine when the
// stream finishes, fails, or is stopped; onEnd implementations must re-enter
// shared state through their own locking. Volume is always settable,
// regardless of the underlying source's capabilities.
type Conn interface {
	ChannelID() string
	Play(streamURL string, volume float64, onEnd func(error)) error
	Pause() error
	Resume() error
	Stop()
	SetVolume(v float64)
	IsPlaying() bool
	IsPaused() bool
	Disconnect() error
}
