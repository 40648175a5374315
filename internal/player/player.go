package player

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zavork/zavork/internal/playlist"
	"github.com/zavork/zavork/internal/queue"
	"github.com/zavork/zavork/internal/repository"
	"github.com/zavork/zavork/internal/votes"
)

const DefaultVolume = 1.0 // 100%

// Player is the playback session controller for one guild. All state is
// guarded by mu; commands from the gateway and end-of-track callbacks from
// the audio goroutine both serialize through it. Network work (resolving,
// connecting, disconnecting) happens outside the lock, with a generation
// counter to discard callbacks from superseded playback sessions.
type Player struct {
	guildID   string
	resolver  Resolver
	transport Transport
	repo      *repository.Repo

	// Listeners reports non-bot members in a voice channel; set by the
	// command layer, which owns channel-membership data.
	Listeners func(channelID string) int

	mu      sync.Mutex
	conn    Conn
	status  Status
	queue   *queue.Queue
	ballot  *votes.Ballot
	volume  float64
	playGen uint64
	connGen uint64
	// advancing is true while an advance-and-play transition is in flight,
	// including the resolver call outside the lock. Only one such transition
	// runs at a time; StartIfIdle bails while one is pending.
	advancing bool
}

func NewPlayer(resolver Resolver, transport Transport, repo *repository.Repo, guildID string) *Player {
	return &Player{
		guildID:   guildID,
		resolver:  resolver,
		transport: transport,
		repo:      repo,
		status:    StatusIdle,
		queue:     queue.New(),
		ballot:    votes.NewBallot(),
		volume:    DefaultVolume,
	}
}

// Connect joins the given voice channel. Connecting while already connected
// to a different channel tears the old connection down first; at most one
// connection per guild exists at any time.
func (p *Player) Connect(ctx context.Context, channelID string) error {
	p.mu.Lock()
	if p.conn != nil && p.conn.ChannelID() == channelID {
		p.mu.Unlock()
		return nil
	}
	p.connGen++
	gen := p.connGen
	old := p.conn
	p.conn = nil
	if old != nil {
		// Invalidate the old session's end callback before teardown.
		p.playGen++
		p.queue.ResetCurrent()
		p.ballot.Clear()
	}
	p.mu.Unlock()

	if old != nil {
		old.Stop()
		if err := old.Disconnect(); err != nil {
			slog.Warn("disconnect before channel switch failed", "guildID", p.guildID, "err", err)
		}
	}

	conn, err := p.transport.Connect(p.guildID, channelID)
	if err != nil {
		p.mu.Lock()
		if p.connGen == gen {
			p.status = StatusIdle
		}
		p.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrTransportConnect, err)
	}

	vol := p.defaultVolume(ctx)

	p.mu.Lock()
	if p.connGen != gen {
		// A later connect or disconnect superseded this one while the
		// transport call was in flight. Its state stands; discard ours.
		p.mu.Unlock()
		if derr := conn.Disconnect(); derr != nil {
			slog.Warn("discarding superseded connection failed", "guildID", p.guildID, "err", derr)
		}
		return nil
	}
	p.conn = conn
	p.status = StatusConnected
	p.volume = vol
	p.mu.Unlock()
	return nil
}

// defaultVolume loads the guild's configured default, falling back to 100%.
func (p *Player) defaultVolume(ctx context.Context) float64 {
	if p.repo == nil {
		return DefaultVolume
	}
	set, err := p.repo.GetSettings(ctx, p.guildID)
	if err != nil || set == nil {
		return DefaultVolume
	}
	return float64(set.DefaultVolume) / 100
}

// Disconnect leaves voice from any state: the connection is dropped, the
// current song is cleared (pending and history survive), votes are cleared.
func (p *Player) Disconnect() {
	p.mu.Lock()
	p.playGen++
	p.connGen++
	conn := p.conn
	p.conn = nil
	p.status = StatusIdle
	p.queue.ResetCurrent()
	p.ballot.Clear()
	p.mu.Unlock()

	if conn != nil {
		conn.Stop()
		if err := conn.Disconnect(); err != nil {
			slog.Warn("voice disconnect failed", "guildID", p.guildID, "err", err)
		}
	}
}

// HandleExternalDisconnect resets session state after the transport reported
// the connection gone (bot kicked, channel deleted). No transport calls are
// made; the connection no longer exists.
func (p *Player) HandleExternalDisconnect() {
	p.mu.Lock()
	p.playGen++
	p.connGen++
	p.conn = nil
	p.status = StatusIdle
	p.queue.ResetCurrent()
	p.ballot.Clear()
	p.mu.Unlock()
	slog.Info("voice connection lost, session reset", "guildID", p.guildID)
}

// CheckAutoLeave disconnects when the bot is the sole remaining member of
// its channel.
func (p *Player) CheckAutoLeave() {
	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()
	if conn == nil || p.Listeners == nil {
		return
	}
	if p.Listeners(conn.ChannelID()) == 0 {
		slog.Info("alone in voice channel, leaving", "guildID", p.guildID)
		p.Disconnect()
	}
}

// Enqueue appends a song, returning its 1-indexed queue position.
func (p *Player) Enqueue(s queue.Song) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Enqueue(s)
}

// LoadPlaylist enqueues every playlist song in stored order, tagged with the
// invoking user as requester. Returns the number of songs added.
func (p *Player) LoadPlaylist(pl *playlist.Playlist, requester string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range pl.Songs {
		p.queue.Enqueue(queue.Song{
			URL:         s.URL,
			Title:       s.Title,
			Duration:    s.Duration,
			RequestedBy: requester,
		})
	}
	return len(pl.Songs)
}

// StartIfIdle begins playback when connected and not already playing. A
// pending advance counts as playing: the queue must only be popped by the
// one transition in flight.
func (p *Player) StartIfIdle(ctx context.Context) error {
	p.mu.Lock()
	start := p.status == StatusConnected && !p.queue.IsEmpty() && !p.advancing
	p.mu.Unlock()
	if !start {
		return nil
	}
	return p.playNext(ctx)
}

// playNext advances the queue and starts streaming the new current song.
// At most one advance runs at a time; the advancing flag covers the whole
// pop-resolve-play transition, not just its locked sections. Resolution
// failure aborts the transition: the state stays Connected, the failed song
// stays current, and no retry or skip happens automatically.
func (p *Player) playNext(ctx context.Context) error {
	p.mu.Lock()
	if p.conn == nil {
		p.mu.Unlock()
		return ErrNotConnected
	}
	if p.advancing {
		p.mu.Unlock()
		return nil
	}
	p.advancing = true
	song := p.queue.Advance()
	if song == nil {
		p.advancing = false
		p.status = StatusConnected
		p.ballot.Clear()
		p.mu.Unlock()
		return nil
	}
	conn := p.conn
	p.mu.Unlock()

	streamURL, err := p.resolver.ResolveStream(ctx, song.URL)
	if err != nil {
		slog.Error("stream resolution failed", "guildID", p.guildID, "title", song.Title, "url", song.URL, "err", err)
		p.mu.Lock()
		p.advancing = false
		p.status = StatusConnected
		p.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrStreamResolution, song.Title)
	}

	p.mu.Lock()
	if p.conn != conn {
		// Disconnected or switched channels while resolving.
		p.advancing = false
		p.mu.Unlock()
		return ErrNotConnected
	}
	p.advancing = false
	p.playGen++
	gen := p.playGen
	vol := p.volume
	p.status = StatusPlaying

	listeners := 0
	if p.Listeners != nil {
		listeners = p.Listeners(conn.ChannelID())
	}
	needed := votes.Threshold(listeners)
	p.ballot.Reset(needed)
	p.mu.Unlock()

	onEnd := func(err error) { p.onTrackEnd(gen, err) }
	if err := conn.Play(streamURL, vol, onEnd); err != nil {
		slog.Error("playback start failed", "guildID", p.guildID, "title", song.Title, "err", err)
		p.mu.Lock()
		if p.playGen == gen {
			p.status = StatusConnected
		}
		p.mu.Unlock()
		return err
	}

	slog.Info("playing", "guildID", p.guildID, "title", song.Title, "requestedBy", song.RequestedBy, "votesNeeded", needed)
	return nil
}

// onTrackEnd runs on the audio goroutine when a stream finishes, errors out,
// or is stopped. It only re-enters shared state under the session lock and
// ignores callbacks from superseded sessions. A mid-song stream error is
// logged and playback advances instead of halting.
func (p *Player) onTrackEnd(gen uint64, streamErr error) {
	p.mu.Lock()
	if gen != p.playGen || p.conn == nil {
		p.mu.Unlock()
		return
	}
	if streamErr != nil {
		slog.Error("stream ended in error", "guildID", p.guildID, "err", streamErr)
	}
	p.status = StatusConnected
	p.ballot.Clear()
	p.mu.Unlock()

	if err := p.playNext(context.Background()); err != nil {
		slog.Warn("advance after track end failed", "guildID", p.guildID, "err", err)
	}
}

// Pause pauses an in-progress stream.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != StatusPlaying {
		return ErrNothingPlaying
	}
	if err := p.conn.Pause(); err != nil {
		return err
	}
	p.status = StatusPaused
	return nil
}

// Resume continues a paused stream.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != StatusPaused {
		return ErrNotPaused
	}
	if err := p.conn.Resume(); err != nil {
		return err
	}
	p.status = StatusPlaying
	return nil
}

// Skip registers one user's skip vote. inSameChannel is enforced by the
// caller, which owns channel-membership data. Reaching the threshold stops
// the stream; the natural track-ended path advances the queue.
func (p *Player) Skip(voterID string, inSameChannel bool) (votes.Outcome, error) {
	p.mu.Lock()
	if p.status != StatusPlaying && p.status != StatusPaused {
		p.mu.Unlock()
		return votes.Outcome{}, ErrNothingPlaying
	}
	if !inSameChannel {
		p.mu.Unlock()
		return votes.Outcome{}, ErrNotInSameVoiceChannel
	}
	outcome := p.ballot.Register(voterID)
	conn := p.conn
	p.mu.Unlock()

	switch outcome.Result {
	case votes.AlreadyVoted:
		return outcome, ErrDuplicateVote
	case votes.ThresholdReached:
		slog.Info("skip threshold reached", "guildID", p.guildID, "votes", outcome.Count, "needed", outcome.Needed)
		conn.Stop()
	}
	return outcome, nil
}

// ForceSkip bypasses voting entirely.
func (p *Player) ForceSkip() error {
	p.mu.Lock()
	if p.status != StatusPlaying && p.status != StatusPaused {
		p.mu.Unlock()
		return ErrNothingPlaying
	}
	p.ballot.Clear()
	conn := p.conn
	p.mu.Unlock()

	conn.Stop()
	return nil
}

// Stop halts playback and clears the whole queue. The connection stays up.
func (p *Player) Stop() {
	p.mu.Lock()
	p.queue.Clear()
	p.ballot.Clear()
	conn := p.conn
	playing := p.status == StatusPlaying || p.status == StatusPaused
	if !playing && conn != nil {
		p.status = StatusConnected
	}
	p.mu.Unlock()

	if playing && conn != nil {
		// The stream's end callback finds the queue empty and settles the
		// session in Connected.
		conn.Stop()
	}
}

// SetVolume accepts a user-facing 0-200 percentage, stored as a [0,2]
// multiplier. Applied live when a stream is active, otherwise it takes
// effect on the next track.
func (p *Player) SetVolume(level int) error {
	if level < 0 || level > 200 {
		return ErrVolumeOutOfRange
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = float64(level) / 100
	if p.conn != nil && (p.status == StatusPlaying || p.status == StatusPaused) {
		p.conn.SetVolume(p.volume)
	}
	return nil
}

// Volume returns the user-facing volume percentage.
func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int(p.volume * 100)
}

// View is a read-only snapshot of the queue for display.
type View struct {
	Current    *queue.Song
	Pending    []queue.Song // first 10
	TotalCount int
	Hours      int
	Minutes    int
	Seconds    int
}

func (p *Player) QueueView() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	pending := p.queue.Pending()
	total := len(pending)
	if len(pending) > 10 {
		pending = pending[:10]
	}
	h, m, s := p.queue.TotalDuration()
	return View{
		Current:    p.queue.Current(),
		Pending:    pending,
		TotalCount: total,
		Hours:      h,
		Minutes:    m,
		Seconds:    s,
	}
}

// NowPlaying returns the current song, or nil.
func (p *Player) NowPlaying() *queue.Song {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != StatusPlaying && p.status != StatusPaused {
		return nil
	}
	return p.queue.Current()
}

// State returns the controller state.
func (p *Player) State() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// ChannelID returns the connected voice channel, or "".
func (p *Player) ChannelID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return ""
	}
	return p.conn.ChannelID()
}

// Shuffle randomizes the pending queue.
func (p *Player) Shuffle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue.Shuffle()
}

// RemoveAt removes the pending song at the 0-indexed position.
func (p *Player) RemoveAt(index int) *queue.Song {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.RemoveAt(index)
}

// ToggleLoopCurrent flips looping of the current song and returns the new
// setting.
func (p *Player) ToggleLoopCurrent() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue.LoopCurrent = !p.queue.LoopCurrent
	if p.queue.LoopCurrent {
		p.queue.LoopQueue = false
	}
	return p.queue.LoopCurrent
}

// LoopModes reports the loop flags for display.
func (p *Player) LoopModes() (current, whole bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.LoopCurrent, p.queue.LoopQueue
}

// ToggleLoopQueue flips queue looping and returns the new setting.
func (p *Player) ToggleLoopQueue() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue.LoopQueue = !p.queue.LoopQueue
	if p.queue.LoopQueue {
		p.queue.LoopCurrent = false
	}
	return p.queue.LoopQueue
}
