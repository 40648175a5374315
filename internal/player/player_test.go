package player

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/zavork/zavork/internal/playlist"
	"github.com/zavork/zavork/internal/queue"
	"github.com/zavork/zavork/internal/votes"
)

type fakeResolver struct {
	failURLs map[string]bool

	// When blockURL matches, ResolveStream signals resolveEntered and parks
	// until resolveRelease closes, letting tests hold a resolution open.
	blockURL       string
	resolveEntered chan struct{}
	resolveRelease chan struct{}
}

func (r *fakeResolver) Search(_ context.Context, query string, limit int) ([]SearchResult, error) {
	return []SearchResult{{URL: "https://yt/" + query, Title: query, Duration: 180}}, nil
}

func (r *fakeResolver) ResolveStream(_ context.Context, url string) (string, error) {
	if r.blockURL != "" && url == r.blockURL {
		r.resolveEntered <- struct{}{}
		<-r.resolveRelease
	}
	if r.failURLs[url] {
		return "", errors.New("extractor said no")
	}
	return url + "?stream", nil
}

type fakeConn struct {
	channelID string

	mu      sync.Mutex
	playing bool
	paused  bool
	volume  float64
	onEnd   func(error)
	played  []string
	closed  bool
}

func (c *fakeConn) ChannelID() string { return c.channelID }

func (c *fakeConn) Play(streamURL string, volume float64, onEnd func(error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = true
	c.paused = false
	c.volume = volume
	c.onEnd = onEnd
	c.played = append(c.played, streamURL)
	return nil
}

// finish simulates the stream ending, as the audio goroutine would report it.
func (c *fakeConn) finish(err error) {
	c.mu.Lock()
	end := c.onEnd
	c.onEnd = nil
	c.playing = false
	c.mu.Unlock()
	if end != nil {
		end(err)
	}
}

func (c *fakeConn) Stop() { c.finish(nil) }

func (c *fakeConn) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
	return nil
}

func (c *fakeConn) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
	return nil
}

func (c *fakeConn) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = v
}

func (c *fakeConn) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing && !c.paused
}

func (c *fakeConn) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

func (c *fakeConn) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

type fakeTransport struct {
	mu       sync.Mutex
	conns    []*fakeConn
	failNext bool

	// Optional gate: Connect signals connectEntered and parks until
	// connectRelease closes.
	connectEntered chan struct{}
	connectRelease chan struct{}
}

func (t *fakeTransport) Connect(guildID, channelID string) (Conn, error) {
	t.mu.Lock()
	entered, release := t.connectEntered, t.connectRelease
	t.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
		<-release
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failNext {
		t.failNext = false
		return nil, errors.New("gateway refused")
	}
	c := &fakeConn{channelID: channelID}
	t.conns = append(t.conns, c)
	return c, nil
}

func (t *fakeTransport) last() *fakeConn {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.conns) == 0 {
		return nil
	}
	return t.conns[len(t.conns)-1]
}

func newTestPlayer(t *testing.T) (*Player, *fakeResolver, *fakeTransport) {
	t.Helper()
	r := &fakeResolver{failURLs: map[string]bool{}}
	tr := &fakeTransport{}
	p := NewPlayer(r, tr, nil, "guild-1")
	return p, r, tr
}

func song(title string, dur int) queue.Song {
	return queue.Song{URL: "https://yt/" + title, Title: title, Duration: dur, RequestedBy: "tester"}
}

func TestPlayTransitionsAndQueueView(t *testing.T) {
	p, _, tr := newTestPlayer(t)
	ctx := context.Background()

	p.Enqueue(song("A", 180))
	p.Enqueue(song("B", 200))
	if p.State() != StatusIdle {
		t.Fatalf("state before connect = %v, want idle", p.State())
	}

	if err := p.Connect(ctx, "vc-1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if p.State() != StatusConnected {
		t.Fatalf("state after connect = %v, want connected", p.State())
	}

	if err := p.StartIfIdle(ctx); err != nil {
		t.Fatalf("StartIfIdle: %v", err)
	}
	if p.State() != StatusPlaying {
		t.Fatalf("state after start = %v, want playing", p.State())
	}

	v := p.QueueView()
	if v.Current == nil || v.Current.Title != "A" {
		t.Fatalf("current = %v, want A", v.Current)
	}
	if len(v.Pending) != 1 || v.Pending[0].Title != "B" {
		t.Fatalf("pending = %v, want [B]", v.Pending)
	}
	if v.Hours != 0 || v.Minutes != 3 || v.Seconds != 20 {
		t.Fatalf("total duration = (%d,%d,%d), want (0,3,20)", v.Hours, v.Minutes, v.Seconds)
	}

	conn := tr.last()
	if len(conn.played) != 1 || conn.played[0] != "https://yt/A?stream" {
		t.Fatalf("played = %v", conn.played)
	}
}

func TestConnectFailure(t *testing.T) {
	p, _, tr := newTestPlayer(t)
	tr.failNext = true
	err := p.Connect(context.Background(), "vc-1")
	if !errors.Is(err, ErrTransportConnect) {
		t.Fatalf("err = %v, want ErrTransportConnect", err)
	}
	if p.State() != StatusIdle {
		t.Fatalf("state = %v, want idle", p.State())
	}
}

func TestTrackEndAdvances(t *testing.T) {
	p, _, tr := newTestPlayer(t)
	ctx := context.Background()
	p.Enqueue(song("A", 180))
	p.Enqueue(song("B", 200))
	if err := p.Connect(ctx, "vc-1"); err != nil {
		t.Fatal(err)
	}
	if err := p.StartIfIdle(ctx); err != nil {
		t.Fatal(err)
	}
	conn := tr.last()

	conn.finish(nil)
	if p.State() != StatusPlaying {
		t.Fatalf("state after first end = %v, want playing", p.State())
	}
	if cur := p.NowPlaying(); cur == nil || cur.Title != "B" {
		t.Fatalf("now playing = %v, want B", cur)
	}

	conn.finish(nil)
	if p.State() != StatusConnected {
		t.Fatalf("state after queue drained = %v, want connected", p.State())
	}
	if p.NowPlaying() != nil {
		t.Fatal("now playing should be nil after queue drained")
	}
}

func TestStreamErrorAdvancesInsteadOfHalting(t *testing.T) {
	p, _, tr := newTestPlayer(t)
	ctx := context.Background()
	p.Enqueue(song("A", 180))
	p.Enqueue(song("B", 200))
	if err := p.Connect(ctx, "vc-1"); err != nil {
		t.Fatal(err)
	}
	if err := p.StartIfIdle(ctx); err != nil {
		t.Fatal(err)
	}

	tr.last().finish(errors.New("connection reset mid-song"))
	if p.State() != StatusPlaying {
		t.Fatalf("state after mid-song error = %v, want playing", p.State())
	}
	if cur := p.NowPlaying(); cur == nil || cur.Title != "B" {
		t.Fatalf("now playing = %v, want B", cur)
	}
}

func TestResolutionFailureAbortsWithoutSkip(t *testing.T) {
	p, r, tr := newTestPlayer(t)
	ctx := context.Background()
	r.failURLs["https://yt/B"] = true
	p.Enqueue(song("A", 180))
	p.Enqueue(song("B", 200))
	if err := p.Connect(ctx, "vc-1"); err != nil {
		t.Fatal(err)
	}
	if err := p.StartIfIdle(ctx); err != nil {
		t.Fatal(err)
	}

	// A ends; B fails to resolve. No automatic retry or skip.
	tr.last().finish(nil)
	if p.State() != StatusConnected {
		t.Fatalf("state = %v, want connected", p.State())
	}
	if got := len(tr.last().played); got != 1 {
		t.Fatalf("played %d streams, want 1", got)
	}
}

func TestSkipVoting(t *testing.T) {
	p, _, tr := newTestPlayer(t)
	ctx := context.Background()
	p.Listeners = func(string) int { return 5 } // threshold 3
	p.Enqueue(song("A", 180))
	p.Enqueue(song("B", 200))
	if err := p.Connect(ctx, "vc-1"); err != nil {
		t.Fatal(err)
	}
	if err := p.StartIfIdle(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := p.Skip("u1", false); !errors.Is(err, ErrNotInSameVoiceChannel) {
		t.Fatalf("vote from elsewhere: err = %v", err)
	}

	o, err := p.Skip("u1", true)
	if err != nil || o.Result != votes.Accepted || o.Count != 1 || o.Needed != 3 {
		t.Fatalf("first vote = %+v, %v", o, err)
	}
	if _, err := p.Skip("u1", true); !errors.Is(err, ErrDuplicateVote) {
		t.Fatalf("duplicate vote: err = %v", err)
	}
	if o, err = p.Skip("u2", true); err != nil || o.Result != votes.Accepted || o.Count != 2 {
		t.Fatalf("second vote = %+v, %v", o, err)
	}
	o, err = p.Skip("u3", true)
	if err != nil || o.Result != votes.ThresholdReached || o.Count != 3 {
		t.Fatalf("third vote = %+v, %v", o, err)
	}

	// Threshold stopped the stream; the end callback advanced to B.
	if cur := p.NowPlaying(); cur == nil || cur.Title != "B" {
		t.Fatalf("now playing after skip = %v, want B", cur)
	}
	if len(tr.last().played) != 2 {
		t.Fatalf("played = %v, want 2 streams", tr.last().played)
	}
}

func TestForceSkip(t *testing.T) {
	p, _, tr := newTestPlayer(t)
	ctx := context.Background()

	if err := p.ForceSkip(); !errors.Is(err, ErrNothingPlaying) {
		t.Fatalf("force skip while idle: err = %v", err)
	}

	p.Enqueue(song("A", 180))
	p.Enqueue(song("B", 200))
	if err := p.Connect(ctx, "vc-1"); err != nil {
		t.Fatal(err)
	}
	if err := p.StartIfIdle(ctx); err != nil {
		t.Fatal(err)
	}
	if err := p.ForceSkip(); err != nil {
		t.Fatalf("ForceSkip: %v", err)
	}
	if cur := p.NowPlaying(); cur == nil || cur.Title != "B" {
		t.Fatalf("now playing after force skip = %v, want B", cur)
	}
	if len(tr.last().played) != 2 {
		t.Fatalf("played = %v, want 2 streams", tr.last().played)
	}
}

func TestStartDuringAdvanceDoesNotDropSongs(t *testing.T) {
	p, r, tr := newTestPlayer(t)
	ctx := context.Background()
	p.Enqueue(song("A", 180))
	p.Enqueue(song("B", 200))
	if err := p.Connect(ctx, "vc-1"); err != nil {
		t.Fatal(err)
	}
	if err := p.StartIfIdle(ctx); err != nil {
		t.Fatal(err)
	}
	conn := tr.last()

	// A ends; the advance to B parks inside the resolver.
	r.blockURL = "https://yt/B"
	r.resolveEntered = make(chan struct{})
	r.resolveRelease = make(chan struct{})
	advanced := make(chan struct{})
	go func() {
		conn.finish(nil)
		close(advanced)
	}()
	<-r.resolveEntered

	// A command enqueues C and tries to start playback while the advance
	// is still in flight. It must not pop the queue a second time.
	p.Enqueue(song("C", 100))
	if err := p.StartIfIdle(ctx); err != nil {
		t.Fatalf("StartIfIdle during advance: %v", err)
	}

	close(r.resolveRelease)
	<-advanced

	if cur := p.NowPlaying(); cur == nil || cur.Title != "B" {
		t.Fatalf("now playing = %v, want B", cur)
	}
	v := p.QueueView()
	if v.TotalCount != 1 || v.Pending[0].Title != "C" {
		t.Fatalf("pending = %+v, want [C]", v.Pending)
	}
	if got := conn.played; len(got) != 2 || got[1] != "https://yt/B?stream" {
		t.Fatalf("played = %v, want [A B] streams", got)
	}
}

func TestDisconnectSupersedesInFlightConnect(t *testing.T) {
	p, _, tr := newTestPlayer(t)
	tr.connectEntered = make(chan struct{})
	tr.connectRelease = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- p.Connect(context.Background(), "vc-1") }()
	<-tr.connectEntered

	// Leave is issued while the join is still in flight; the late
	// connection must be discarded, not committed.
	p.Disconnect()
	close(tr.connectRelease)
	if err := <-done; err != nil {
		t.Fatalf("superseded Connect: %v", err)
	}

	if p.State() != StatusIdle {
		t.Fatalf("state = %v, want idle", p.State())
	}
	if p.ChannelID() != "" {
		t.Fatalf("channel = %q, want none", p.ChannelID())
	}
	if !tr.last().closed {
		t.Fatal("superseded connection left open")
	}
}

func TestStopClearsQueueKeepsConnection(t *testing.T) {
	p, _, tr := newTestPlayer(t)
	ctx := context.Background()
	p.Enqueue(song("A", 180))
	p.Enqueue(song("B", 200))
	if err := p.Connect(ctx, "vc-1"); err != nil {
		t.Fatal(err)
	}
	if err := p.StartIfIdle(ctx); err != nil {
		t.Fatal(err)
	}

	p.Stop()
	if p.State() != StatusConnected {
		t.Fatalf("state after stop = %v, want connected", p.State())
	}
	v := p.QueueView()
	if v.Current != nil || v.TotalCount != 0 {
		t.Fatalf("queue after stop = %+v, want empty", v)
	}
	if tr.last().closed {
		t.Fatal("stop must not disconnect")
	}
}

func TestDisconnectClearsCurrentKeepsPending(t *testing.T) {
	p, _, tr := newTestPlayer(t)
	ctx := context.Background()
	p.Enqueue(song("A", 180))
	p.Enqueue(song("B", 200))
	if err := p.Connect(ctx, "vc-1"); err != nil {
		t.Fatal(err)
	}
	if err := p.StartIfIdle(ctx); err != nil {
		t.Fatal(err)
	}

	p.Disconnect()
	if p.State() != StatusIdle {
		t.Fatalf("state after disconnect = %v, want idle", p.State())
	}
	if !tr.last().closed {
		t.Fatal("transport connection not closed")
	}
	v := p.QueueView()
	if v.Current != nil {
		t.Fatalf("current after disconnect = %v, want nil", v.Current)
	}
	if v.TotalCount != 1 || v.Pending[0].Title != "B" {
		t.Fatalf("pending after disconnect = %+v, want [B]", v.Pending)
	}
}

func TestPauseResume(t *testing.T) {
	p, _, _ := newTestPlayer(t)
	ctx := context.Background()

	if err := p.Pause(); !errors.Is(err, ErrNothingPlaying) {
		t.Fatalf("pause while idle: err = %v", err)
	}

	p.Enqueue(song("A", 180))
	if err := p.Connect(ctx, "vc-1"); err != nil {
		t.Fatal(err)
	}
	if err := p.StartIfIdle(ctx); err != nil {
		t.Fatal(err)
	}
	if err := p.Resume(); !errors.Is(err, ErrNotPaused) {
		t.Fatalf("resume while playing: err = %v", err)
	}

	if err := p.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if p.State() != StatusPaused {
		t.Fatalf("state = %v, want paused", p.State())
	}
	if err := p.Pause(); !errors.Is(err, ErrNothingPlaying) {
		t.Fatalf("double pause: err = %v", err)
	}
	if err := p.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if p.State() != StatusPlaying {
		t.Fatalf("state = %v, want playing", p.State())
	}
}

func TestVolumeValidation(t *testing.T) {
	p, _, tr := newTestPlayer(t)
	ctx := context.Background()

	if err := p.SetVolume(50); err != nil {
		t.Fatalf("SetVolume(50): %v", err)
	}
	if err := p.SetVolume(250); !errors.Is(err, ErrVolumeOutOfRange) {
		t.Fatalf("SetVolume(250): err = %v", err)
	}
	if err := p.SetVolume(-1); !errors.Is(err, ErrVolumeOutOfRange) {
		t.Fatalf("SetVolume(-1): err = %v", err)
	}
	if got := p.Volume(); got != 50 {
		t.Fatalf("volume after rejected set = %d, want 50", got)
	}

	// Applied live to an active stream.
	p.Enqueue(song("A", 180))
	if err := p.Connect(ctx, "vc-1"); err != nil {
		t.Fatal(err)
	}
	if err := p.StartIfIdle(ctx); err != nil {
		t.Fatal(err)
	}
	if err := p.SetVolume(150); err != nil {
		t.Fatal(err)
	}
	if v := tr.last().volume; v != 1.5 {
		t.Fatalf("live volume = %v, want 1.5", v)
	}
}

func TestConnectSwitchesChannels(t *testing.T) {
	p, _, tr := newTestPlayer(t)
	ctx := context.Background()
	if err := p.Connect(ctx, "vc-1"); err != nil {
		t.Fatal(err)
	}
	first := tr.last()
	if err := p.Connect(ctx, "vc-2"); err != nil {
		t.Fatal(err)
	}
	if !first.closed {
		t.Fatal("old connection not torn down on channel switch")
	}
	if p.ChannelID() != "vc-2" {
		t.Fatalf("channel = %q, want vc-2", p.ChannelID())
	}
	// Reconnecting to the same channel is a no-op.
	if err := p.Connect(ctx, "vc-2"); err != nil {
		t.Fatal(err)
	}
	if n := len(tr.conns); n != 2 {
		t.Fatalf("connections made = %d, want 2", n)
	}
}

func TestLoadPlaylistTagsRequester(t *testing.T) {
	p, _, _ := newTestPlayer(t)
	pl := &playlist.Playlist{Name: "mix", Owner: "Alice", Songs: []playlist.Song{
		{URL: "https://yt/A", Title: "A", Duration: 100},
		{URL: "https://yt/B", Title: "B", Duration: 200},
	}}
	if n := p.LoadPlaylist(pl, "carol"); n != 2 {
		t.Fatalf("LoadPlaylist = %d, want 2", n)
	}
	v := p.QueueView()
	if v.TotalCount != 2 {
		t.Fatalf("queued = %d, want 2", v.TotalCount)
	}
	for _, s := range v.Pending {
		if s.RequestedBy != "carol" {
			t.Fatalf("requester = %q, want carol", s.RequestedBy)
		}
	}
}

func TestCheckAutoLeave(t *testing.T) {
	p, _, tr := newTestPlayer(t)
	ctx := context.Background()
	listeners := 2
	p.Listeners = func(string) int { return listeners }
	if err := p.Connect(ctx, "vc-1"); err != nil {
		t.Fatal(err)
	}

	p.CheckAutoLeave()
	if p.State() != StatusConnected {
		t.Fatal("left channel while listeners remain")
	}

	listeners = 0
	p.CheckAutoLeave()
	if p.State() != StatusIdle {
		t.Fatalf("state = %v, want idle after auto-leave", p.State())
	}
	if !tr.last().closed {
		t.Fatal("connection not closed on auto-leave")
	}
}

func TestManagerOnePlayerPerGuild(t *testing.T) {
	m := NewManager(&fakeResolver{}, &fakeTransport{}, nil, nil)
	a := m.Get("g1")
	if a == nil || m.Get("g1") != a {
		t.Fatal("Get must return the same player per guild")
	}
	if m.Get("g2") == a {
		t.Fatal("distinct guilds must get distinct players")
	}
	if m.Peek("g3") != nil {
		t.Fatal("Peek must not create players")
	}
}
