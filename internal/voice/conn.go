package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	sampleRate = 48000
	channels   = 2
	frameSize  = 960 // samples per channel, 20ms at 48k
	frameBytes = frameSize * channels * 2
)

// Conn is one live voice connection. At most one stream plays at a time; a
// new Play preempts the old one, whose end callback is suppressed.
type Conn struct {
	vc         *discordgo.VoiceConnection
	channelID  string
	ffmpegPath string

	volume atomic.Uint64 // math.Float64bits
	paused atomic.Bool

	mu  sync.Mutex
	cur *playback
}

func newConn(vc *discordgo.VoiceConnection, channelID, ffmpegPath string) *Conn {
	c := &Conn{vc: vc, channelID: channelID, ffmpegPath: ffmpegPath}
	c.volume.Store(math.Float64bits(1.0))
	return c
}

func (c *Conn) ChannelID() string { return c.channelID }

// Play starts streaming the URL, invoking onEnd exactly once when the stream
// finishes, fails, or is stopped.
func (c *Conn) Play(streamURL string, volume float64, onEnd func(error)) error {
	c.SetVolume(volume)
	c.paused.Store(false)

	ctx, cancel := context.WithCancel(context.Background())
	pcm, err := startPCM(ctx, c.ffmpegPath, streamURL)
	if err != nil {
		cancel()
		return err
	}
	enc, err := newEncoder()
	if err != nil {
		pcm.Close()
		cancel()
		return err
	}

	pb := &playback{conn: c, pcm: pcm, enc: enc, ctx: ctx, cancel: cancel, onEnd: onEnd}

	c.mu.Lock()
	old := c.cur
	c.cur = pb
	c.mu.Unlock()
	if old != nil {
		old.stop()
	}

	go pb.run()
	return nil
}

func (c *Conn) Pause() error {
	c.paused.Store(true)
	return nil
}

func (c *Conn) Resume() error {
	c.paused.Store(false)
	return nil
}

// Stop ends the current stream, if any. The stream goroutine fires onEnd.
func (c *Conn) Stop() {
	c.mu.Lock()
	pb := c.cur
	c.mu.Unlock()
	if pb != nil {
		pb.stop()
	}
}

func (c *Conn) SetVolume(v float64) {
	c.volume.Store(math.Float64bits(v))
}

func (c *Conn) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur != nil && !c.paused.Load()
}

func (c *Conn) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur != nil && c.paused.Load()
}

func (c *Conn) Disconnect() error {
	c.Stop()
	return c.vc.Disconnect()
}

// playback is one stream run. stop is idempotent; finish fires onEnd once.
type playback struct {
	conn   *Conn
	pcm    *pcmStream
	enc    *encoder
	ctx    context.Context
	cancel context.CancelFunc
	onEnd  func(error)
	done   sync.Once
}

func (pb *playback) stop() { pb.cancel() }

func (pb *playback) finish(err error) {
	pb.done.Do(func() {
		pb.cancel()
		pb.pcm.Close()

		c := pb.conn
		c.mu.Lock()
		if c.cur == pb {
			c.cur = nil
		}
		c.mu.Unlock()

		if pb.onEnd != nil {
			pb.onEnd(err)
		}
	})
}

// run decodes, encodes, and sends frames until the stream ends or the
// playback is stopped.
func (pb *playback) run() {
	vc := pb.conn.vc
	if err := waitReady(pb.ctx, vc, 5*time.Second); err != nil {
		pb.finish(err)
		return
	}

	_ = vc.Speaking(true)
	defer vc.Speaking(false)

	speaking := true
	buf := make([]byte, frameBytes)
	samples := make([]int16, frameSize*channels)

	for {
		if pb.ctx.Err() != nil {
			pb.finish(nil)
			return
		}

		if pb.conn.paused.Load() {
			if speaking {
				speaking = false
				_ = vc.Speaking(false)
			}
			select {
			case <-pb.ctx.Done():
				pb.finish(nil)
				return
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}
		if !speaking {
			speaking = true
			_ = vc.Speaking(true)
		}

		if err := pb.pcm.ReadFrame(buf); err != nil {
			if errors.Is(err, io.EOF) {
				pb.finish(nil)
			} else {
				pb.finish(err)
			}
			return
		}

		vol := math.Float64frombits(pb.conn.volume.Load())
		decodeAndScale(buf, samples, vol)

		pkt, err := pb.enc.Encode(samples)
		if err != nil {
			pb.finish(fmt.Errorf("opus encode: %w", err))
			return
		}

		select {
		case <-pb.ctx.Done():
			pb.finish(nil)
			return
		case vc.OpusSend <- pkt:
		case <-time.After(time.Second):
			// Gateway stalled; give up rather than block forever.
			pb.finish(fmt.Errorf("voice send timed out"))
			return
		}
	}
}

// decodeAndScale converts little-endian s16 PCM to samples, applying the
// volume multiplier with clipping.
func decodeAndScale(buf []byte, samples []int16, vol float64) {
	for i := range samples {
		j := i * 2
		s := float64(int16(buf[j]) | int16(int8(buf[j+1]))<<8)
		if vol != 1.0 {
			s *= vol
			if s > math.MaxInt16 {
				s = math.MaxInt16
			} else if s < math.MinInt16 {
				s = math.MinInt16
			}
		}
		samples[i] = int16(s)
	}
}

func waitReady(ctx context.Context, vc *discordgo.VoiceConnection, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if vc != nil && vc.Ready && vc.OpusSend != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return fmt.Errorf("voice connection not ready")
}
