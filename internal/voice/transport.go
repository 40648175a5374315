// Package voice moves audio into Discord: ffmpeg decodes a stream URL to raw
// PCM, gopus encodes 20ms frames, and packets go out over a discordgo voice
// connection paced in real time.
package voice

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/zavork/zavork/internal/player"
)

type Transport struct {
	session    *discordgo.Session
	ffmpegPath string
}

func NewTransport(session *discordgo.Session, ffmpegPath string) *Transport {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Transport{session: session, ffmpegPath: ffmpegPath}
}

func (t *Transport) Connect(guildID, channelID string) (player.Conn, error) {
	vc, err := t.session.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, fmt.Errorf("voice join: %w", err)
	}
	return newConn(vc, channelID, t.ffmpegPath), nil
}
