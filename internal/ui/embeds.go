package ui

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/zavork/zavork/internal/player"
	"github.com/zavork/zavork/internal/playlist"
	"github.com/zavork/zavork/internal/queue"
	"github.com/zavork/zavork/internal/utils"
)

func songLink(s queue.Song) string {
	return fmt.Sprintf("[%s](%s)", utils.EscapeMd(s.Title), s.URL)
}

// BuildPlayingEmbed renders the now-playing card.
func BuildPlayingEmbed(cur *queue.Song, paused bool, volume int) *discordgo.MessageEmbed {
	if cur == nil {
		return &discordgo.MessageEmbed{
			Title:       "Nothing Playing",
			Description: "No playing song found",
			Color:       0x992222,
		}
	}

	title := "Now Playing"
	color := 0x006400
	button := "⏹️"
	if paused {
		title = "Paused"
		color = 0x8B0000
		button = "▶️"
	}

	desc := fmt.Sprintf("**%s**\nRequested by: <@%s>\n\n%s `[ %s ]` 🔊 %d%%",
		songLink(*cur),
		cur.RequestedBy,
		button, utils.PrettyTime(cur.Duration), volume,
	)

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: desc,
		Color:       color,
	}
}

// BuildQueueEmbed renders the current song plus the first pending songs and
// the total remaining runtime.
func BuildQueueEmbed(v player.View, loopCurrent, loopQueue bool) *discordgo.MessageEmbed {
	if v.Current == nil && v.TotalCount == 0 {
		return &discordgo.MessageEmbed{
			Title:       "Queue",
			Description: "The queue is empty.",
			Color:       0x992222,
		}
	}

	var b strings.Builder
	if v.Current != nil {
		fmt.Fprintf(&b, "**Now:** %s `[ %s ]`\n\n", songLink(*v.Current), utils.PrettyTime(v.Current.Duration))
	}
	for i, s := range v.Pending {
		fmt.Fprintf(&b, "`%d.` %s `[ %s ]`\n", i+1, songLink(s), utils.PrettyTime(s.Duration))
	}
	if rest := v.TotalCount - len(v.Pending); rest > 0 {
		fmt.Fprintf(&b, "\n...and %d more", rest)
	}

	loop := ""
	if loopCurrent {
		loop = " 🔂"
	} else if loopQueue {
		loop = " 🔁"
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Queue (%d)%s", v.TotalCount, loop),
		Description: b.String(),
		Color:       0x006400,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Remaining: %d:%02d:%02d", v.Hours, v.Minutes, v.Seconds),
		},
	}
}

// BuildPlaylistEmbed renders a saved playlist's contents.
func BuildPlaylistEmbed(pl *playlist.Playlist) *discordgo.MessageEmbed {
	var b strings.Builder
	total := 0
	for i, s := range pl.Songs {
		if i < 25 {
			fmt.Fprintf(&b, "`%d.` [%s](%s) `[ %s ]`\n", i+1, utils.EscapeMd(s.Title), s.URL, utils.PrettyTime(s.Duration))
		}
		total += s.Duration
	}
	if len(pl.Songs) > 25 {
		fmt.Fprintf(&b, "\n...and %d more", len(pl.Songs)-25)
	}
	if len(pl.Songs) == 0 {
		b.WriteString("This playlist is empty.")
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s (%d songs)", utils.EscapeMd(pl.Name), len(pl.Songs)),
		Description: b.String(),
		Color:       0x006400,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Total length: %s | Owner: %s", utils.PrettyTime(total), pl.Owner),
		},
	}
}
