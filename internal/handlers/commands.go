package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/zavork/zavork/internal/autocomplete"
	"github.com/zavork/zavork/internal/player"
	"github.com/zavork/zavork/internal/playlist"
	"github.com/zavork/zavork/internal/queue"
	"github.com/zavork/zavork/internal/repository"
	"github.com/zavork/zavork/internal/spotify"
	"github.com/zavork/zavork/internal/stream"
	"github.com/zavork/zavork/internal/ui"
	"github.com/zavork/zavork/internal/utils"
	"github.com/zavork/zavork/internal/votes"
)

type CommandHandler struct {
	repo     *repository.Repo
	store    *playlist.Store
	pm       *player.Manager
	resolver *stream.Resolver
	spClient *spotify.Client
}

func NewCommandHandler(repo *repository.Repo, store *playlist.Store, pm *player.Manager, resolver *stream.Resolver, spClient *spotify.Client) *CommandHandler {
	return &CommandHandler{repo: repo, store: store, pm: pm, resolver: resolver, spClient: spClient}
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)
	return []*discordgo.ApplicationCommand{
		{
			Name:        "play",
			Description: "Play a song (URL, Spotify link, or search)",
			Options: []*discordgo.ApplicationCommandOption{
				{Name: "query", Description: "query or URL", Type: discordgo.ApplicationCommandOptionString, Required: true, Autocomplete: true},
			},
		},
		{Name: "pause", Description: "Pause the current song"},
		{Name: "resume", Description: "Resume playback"},
		{Name: "skip", Description: "Vote to skip the current song"},
		{Name: "forceskip", Description: "Skip the current song without a vote", DefaultMemberPermissions: &adminOnly},
		{Name: "stop", Description: "Stop playback and clear the queue"},
		{Name: "leave", Description: "Disconnect from the voice channel"},
		{Name: "queue", Description: "Show the current queue"},
		{Name: "now-playing", Description: "Show the currently playing song"},
		{
			Name:        "volume",
			Description: "Set the playback volume",
			Options: []*discordgo.ApplicationCommandOption{
				{Name: "level", Description: "0-200 percent", Type: discordgo.ApplicationCommandOptionInteger, Required: true},
			},
		},
		{Name: "shuffle", Description: "Shuffle the pending queue"},
		{
			Name:        "remove",
			Description: "Remove a song from the queue",
			Options: []*discordgo.ApplicationCommandOption{
				{Name: "position", Description: "queue position (1 = next)", Type: discordgo.ApplicationCommandOptionInteger, Required: true},
			},
		},
		{Name: "loop", Description: "Toggle looping the current song"},
		{Name: "loop-queue", Description: "Toggle looping the entire queue"},
		{
			Name:        "playlist",
			Description: "Manage saved playlists",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "create", Description: "create a playlist", Options: []*discordgo.ApplicationCommandOption{
					{Name: "name", Description: "playlist name", Type: discordgo.ApplicationCommandOptionString, Required: true},
				}},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "delete", Description: "delete a playlist", Options: []*discordgo.ApplicationCommandOption{
					{Name: "name", Description: "playlist name", Type: discordgo.ApplicationCommandOptionString, Required: true},
				}},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "add", Description: "add a song to a playlist", Options: []*discordgo.ApplicationCommandOption{
					{Name: "name", Description: "playlist name", Type: discordgo.ApplicationCommandOptionString, Required: true},
					{Name: "query", Description: "query or URL", Type: discordgo.ApplicationCommandOptionString, Required: true},
				}},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "remove-song", Description: "remove a song from a playlist", Options: []*discordgo.ApplicationCommandOption{
					{Name: "name", Description: "playlist name", Type: discordgo.ApplicationCommandOptionString, Required: true},
					{Name: "position", Description: "song position (1-indexed)", Type: discordgo.ApplicationCommandOptionInteger, Required: true},
				}},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "list your playlists"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "show", Description: "show a playlist's songs", Options: []*discordgo.ApplicationCommandOption{
					{Name: "name", Description: "playlist name", Type: discordgo.ApplicationCommandOptionString, Required: true},
				}},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "load", Description: "queue every song in a playlist", Options: []*discordgo.ApplicationCommandOption{
					{Name: "name", Description: "playlist name", Type: discordgo.ApplicationCommandOptionString, Required: true},
				}},
			},
		},
		{
			Name:        "config",
			Description: "Configure bot settings",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "get", Description: "show settings"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "set-default-volume", Description: "volume applied on connect", Options: []*discordgo.ApplicationCommandOption{
					{Name: "level", Description: "0-200 percent", Type: discordgo.ApplicationCommandOptionInteger, Required: true},
				}},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "set-leave-when-alone", Description: "leave when nobody is listening", Options: []*discordgo.ApplicationCommandOption{
					{Name: "value", Description: "true/false", Type: discordgo.ApplicationCommandOptionBoolean, Required: true},
				}},
			},
		},
	}
}

func (h *CommandHandler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleChatCommand(s, i)
	case discordgo.InteractionApplicationCommandAutocomplete:
		h.handleAutocomplete(s, i)
	default:
		slog.Debug("interaction: ignored type", "type", i.Type, "guildID", i.GuildID)
	}
}

func (h *CommandHandler) handleChatCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	slog.Debug("interaction: application command", "guildID", i.GuildID, "userID", userIDOf(i), "command", data.Name)
	switch data.Name {
	case "play":
		h.cmdPlay(s, i)
	case "pause":
		h.cmdPause(s, i)
	case "resume":
		h.cmdResume(s, i)
	case "skip":
		h.cmdSkip(s, i)
	case "forceskip":
		h.cmdForceSkip(s, i)
	case "stop":
		h.cmdStop(s, i)
	case "leave":
		h.cmdLeave(s, i)
	case "queue":
		h.cmdQueue(s, i)
	case "now-playing":
		h.cmdNowPlaying(s, i)
	case "volume":
		h.cmdVolume(s, i)
	case "shuffle":
		h.cmdShuffle(s, i)
	case "remove":
		h.cmdRemove(s, i)
	case "loop":
		h.cmdLoop(s, i)
	case "loop-queue":
		h.cmdLoopQueue(s, i)
	case "playlist":
		h.cmdPlaylist(s, i)
	case "config":
		h.cmdConfig(s, i)
	default:
		slog.Debug("unknown command", "name", data.Name, "guildID", i.GuildID)
	}
}

func (h *CommandHandler) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name != "play" {
		return
	}
	var query string
	for _, opt := range data.Options {
		if opt.Focused || opt.Name == "query" {
			query = opt.StringValue()
			if opt.Focused {
				break
			}
		}
	}
	var choices []*discordgo.ApplicationCommandOptionChoice
	if strings.TrimSpace(query) != "" {
		var err error
		choices, err = autocomplete.Suggestions(context.Background(), query, h.spClient, 10)
		if err != nil {
			slog.Warn("autocomplete suggestions error", "guildID", i.GuildID, "err", err)
		}
	}
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}

func (h *CommandHandler) cmdPlay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var query string
	for _, o := range i.ApplicationCommandData().Options {
		if o.Name == "query" {
			query = o.StringValue()
		}
	}
	guildID := i.GuildID
	memberID := userIDOf(i)

	chID, ok := userInVoice(s, guildID, memberID)
	if !ok {
		h.reply(s, i, "gotta be in a voice channel", true)
		return
	}

	ctx := context.Background()
	if _, err := h.repo.UpsertSettings(ctx, guildID); err != nil {
		slog.Warn("upsert settings failed", "guildID", guildID, "err", err)
	}

	h.deferReply(s, i, false)

	p := h.pm.Get(guildID)
	if err := p.Connect(ctx, chID); err != nil {
		slog.Warn("voice connect failed", "guildID", guildID, "channelID", chID, "err", err)
		h.editReply(s, i, "couldn't connect to the voice channel")
		return
	}

	results, err := h.resolver.Resolve(ctx, query)
	if err != nil {
		slog.Debug("resolve query failed", "guildID", guildID, "query", query, "err", err)
		if errors.Is(err, player.ErrSearchNotFound) {
			h.editReply(s, i, "no songs found")
		} else {
			h.editReply(s, i, "couldn't resolve that: "+err.Error())
		}
		return
	}

	var pos int
	for _, r := range results {
		pos = p.Enqueue(queue.Song{URL: r.URL, Title: r.Title, Duration: r.Duration, RequestedBy: memberID})
	}

	if err := p.StartIfIdle(ctx); err != nil {
		slog.Warn("playback start failed", "guildID", guildID, "err", err)
		h.editReply(s, i, "couldn't start playback: "+err.Error())
		return
	}

	if len(results) == 1 {
		h.editReply(s, i, fmt.Sprintf("**%s** added to the queue (position %d)", utils.EscapeMd(results[0].Title), pos))
	} else {
		h.editReply(s, i, fmt.Sprintf("added **%d** songs to the queue", len(results)))
	}
}

func (h *CommandHandler) cmdPause(s *discordgo.Session, i *discordgo.InteractionCreate) {
	p := h.pm.Peek(i.GuildID)
	if p == nil {
		h.reply(s, i, "nothing is playing", true)
		return
	}
	if err := p.Pause(); err != nil {
		h.reply(s, i, replyForError(err), true)
		return
	}
	h.reply(s, i, "paused ⏸️", false)
}

func (h *CommandHandler) cmdResume(s *discordgo.Session, i *discordgo.InteractionCreate) {
	p := h.pm.Peek(i.GuildID)
	if p == nil {
		h.reply(s, i, "nothing is paused", true)
		return
	}
	if err := p.Resume(); err != nil {
		h.reply(s, i, replyForError(err), true)
		return
	}
	h.reply(s, i, "resumed ▶️", false)
}

func (h *CommandHandler) cmdSkip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	p := h.pm.Peek(i.GuildID)
	if p == nil {
		h.reply(s, i, "nothing is playing", true)
		return
	}
	memberID := userIDOf(i)
	chID, ok := userInVoice(s, i.GuildID, memberID)
	inSame := ok && chID == p.ChannelID()

	outcome, err := p.Skip(memberID, inSame)
	if err != nil {
		h.reply(s, i, replyForError(err), true)
		return
	}
	if outcome.Result == votes.ThresholdReached {
		h.reply(s, i, fmt.Sprintf("skip vote passed (%d/%d), skipping ⏭️", outcome.Count, outcome.Needed), false)
		return
	}
	h.reply(s, i, fmt.Sprintf("skip vote registered (%d/%d)", outcome.Count, outcome.Needed), false)
}

func (h *CommandHandler) cmdForceSkip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	p := h.pm.Peek(i.GuildID)
	if p == nil {
		h.reply(s, i, "nothing is playing", true)
		return
	}
	if err := p.ForceSkip(); err != nil {
		h.reply(s, i, replyForError(err), true)
		return
	}
	h.reply(s, i, "skipped ⏭️", false)
}

func (h *CommandHandler) cmdStop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	p := h.pm.Peek(i.GuildID)
	if p == nil || p.State() == player.StatusIdle {
		h.reply(s, i, "not connected", true)
		return
	}
	p.Stop()
	h.reply(s, i, "stopped playback and cleared the queue ⏹️", false)
}

func (h *CommandHandler) cmdLeave(s *discordgo.Session, i *discordgo.InteractionCreate) {
	p := h.pm.Peek(i.GuildID)
	if p == nil || p.State() == player.StatusIdle {
		h.reply(s, i, "not connected", true)
		return
	}
	p.Disconnect()
	h.reply(s, i, "bye 👋", false)
}

func (h *CommandHandler) cmdQueue(s *discordgo.Session, i *discordgo.InteractionCreate) {
	p := h.pm.Peek(i.GuildID)
	if p == nil {
		h.reply(s, i, "the queue is empty", true)
		return
	}
	loopCur, loopQ := p.LoopModes()
	h.replyEmbed(s, i, ui.BuildQueueEmbed(p.QueueView(), loopCur, loopQ))
}

func (h *CommandHandler) cmdNowPlaying(s *discordgo.Session, i *discordgo.InteractionCreate) {
	p := h.pm.Peek(i.GuildID)
	if p == nil {
		h.replyEmbed(s, i, ui.BuildPlayingEmbed(nil, false, 0))
		return
	}
	h.replyEmbed(s, i, ui.BuildPlayingEmbed(p.NowPlaying(), p.State() == player.StatusPaused, p.Volume()))
}

func (h *CommandHandler) cmdVolume(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var level int
	for _, o := range i.ApplicationCommandData().Options {
		if o.Name == "level" {
			level = int(o.IntValue())
		}
	}
	p := h.pm.Get(i.GuildID)
	if err := p.SetVolume(level); err != nil {
		h.reply(s, i, replyForError(err), true)
		return
	}
	h.reply(s, i, fmt.Sprintf("volume set to %d%% 🔊", level), false)
}

func (h *CommandHandler) cmdShuffle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	p := h.pm.Peek(i.GuildID)
	if p == nil || p.QueueView().TotalCount == 0 {
		h.reply(s, i, "nothing to shuffle", true)
		return
	}
	p.Shuffle()
	h.reply(s, i, "shuffled 🔀", false)
}

func (h *CommandHandler) cmdRemove(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var position int
	for _, o := range i.ApplicationCommandData().Options {
		if o.Name == "position" {
			position = int(o.IntValue())
		}
	}
	p := h.pm.Peek(i.GuildID)
	if p == nil {
		h.reply(s, i, "the queue is empty", true)
		return
	}
	removed := p.RemoveAt(position - 1)
	if removed == nil {
		h.reply(s, i, "no song at that position", true)
		return
	}
	h.reply(s, i, fmt.Sprintf("removed **%s**", utils.EscapeMd(removed.Title)), false)
}

func (h *CommandHandler) cmdLoop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	p := h.pm.Get(i.GuildID)
	if p.ToggleLoopCurrent() {
		h.reply(s, i, "looping the current song 🔂", false)
	} else {
		h.reply(s, i, "stopped looping the current song", false)
	}
}

func (h *CommandHandler) cmdLoopQueue(s *discordgo.Session, i *discordgo.InteractionCreate) {
	p := h.pm.Get(i.GuildID)
	if p.ToggleLoopQueue() {
		h.reply(s, i, "looping the queue 🔁", false)
	} else {
		h.reply(s, i, "stopped looping the queue", false)
	}
}

func (h *CommandHandler) cmdPlaylist(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	memberID := userIDOf(i)

	opt := func(name string) *discordgo.ApplicationCommandInteractionDataOption {
		for _, o := range sub.Options {
			if o.Name == name {
				return o
			}
		}
		return nil
	}
	name := ""
	if o := opt("name"); o != nil {
		name = strings.TrimSpace(o.StringValue())
	}

	switch sub.Name {
	case "create":
		if !h.store.Create(memberID, name, userNameOf(i)) {
			h.reply(s, i, fmt.Sprintf("you already have a playlist named **%s**", utils.EscapeMd(name)), true)
			return
		}
		h.reply(s, i, fmt.Sprintf("created playlist **%s**", utils.EscapeMd(name)), false)

	case "delete":
		if !h.store.Delete(memberID, name) {
			h.reply(s, i, "no such playlist", true)
			return
		}
		h.reply(s, i, fmt.Sprintf("deleted playlist **%s**", utils.EscapeMd(name)), false)

	case "add":
		query := opt("query").StringValue()
		h.deferReply(s, i, false)
		results, err := h.resolver.Resolve(context.Background(), query)
		if err != nil || len(results) == 0 {
			h.editReply(s, i, "no songs found")
			return
		}
		added := 0
		for _, r := range results {
			if h.store.AddSong(memberID, name, playlist.Song{URL: r.URL, Title: r.Title, Duration: r.Duration}) {
				added++
			}
		}
		if added == 0 {
			h.editReply(s, i, "no such playlist")
			return
		}
		if added == 1 {
			h.editReply(s, i, fmt.Sprintf("added **%s** to **%s**", utils.EscapeMd(results[0].Title), utils.EscapeMd(name)))
		} else {
			h.editReply(s, i, fmt.Sprintf("added **%d** songs to **%s**", added, utils.EscapeMd(name)))
		}

	case "remove-song":
		position := int(opt("position").IntValue())
		if !h.store.RemoveSong(memberID, name, position-1) {
			h.reply(s, i, "no such playlist or song", true)
			return
		}
		h.reply(s, i, fmt.Sprintf("removed song %d from **%s**", position, utils.EscapeMd(name)), false)

	case "list":
		names := h.store.ListNames(memberID)
		if len(names) == 0 {
			h.reply(s, i, "you have no playlists", true)
			return
		}
		var b strings.Builder
		for n, pl := range names {
			fmt.Fprintf(&b, "`%d.` %s\n", n+1, utils.EscapeMd(pl))
		}
		h.reply(s, i, b.String(), false)

	case "show":
		pl := h.store.Get(memberID, name)
		if pl == nil {
			h.reply(s, i, "no such playlist", true)
			return
		}
		h.replyEmbed(s, i, ui.BuildPlaylistEmbed(pl))

	case "load":
		pl := h.store.Get(memberID, name)
		if pl == nil {
			h.reply(s, i, "no such playlist", true)
			return
		}
		if len(pl.Songs) == 0 {
			h.reply(s, i, "that playlist is empty", true)
			return
		}
		chID, ok := userInVoice(s, i.GuildID, memberID)
		if !ok {
			h.reply(s, i, "gotta be in a voice channel", true)
			return
		}
		h.deferReply(s, i, false)
		ctx := context.Background()
		p := h.pm.Get(i.GuildID)
		if err := p.Connect(ctx, chID); err != nil {
			h.editReply(s, i, "couldn't connect to the voice channel")
			return
		}
		n := p.LoadPlaylist(pl, memberID)
		if err := p.StartIfIdle(ctx); err != nil {
			slog.Warn("playback start failed", "guildID", i.GuildID, "err", err)
		}
		h.editReply(s, i, fmt.Sprintf("queued **%d** songs from **%s**", n, utils.EscapeMd(pl.Name)))
	}
}

func (h *CommandHandler) cmdConfig(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	ctx := context.Background()

	set, err := h.repo.UpsertSettings(ctx, i.GuildID)
	if err != nil {
		slog.Error("load settings failed", "guildID", i.GuildID, "err", err)
		h.reply(s, i, "internal error", true)
		return
	}

	switch sub.Name {
	case "get":
		h.reply(s, i, fmt.Sprintf("default volume: **%d%%**\nleave when alone: **%t**", set.DefaultVolume, set.LeaveWhenAlone), true)

	case "set-default-volume":
		level := int(sub.Options[0].IntValue())
		if level < 0 || level > 200 {
			h.reply(s, i, "volume must be between 0 and 200", true)
			return
		}
		set.DefaultVolume = level
		if err := h.repo.UpdateSettings(ctx, set); err != nil {
			slog.Error("update settings failed", "guildID", i.GuildID, "err", err)
			h.reply(s, i, "internal error", true)
			return
		}
		h.reply(s, i, fmt.Sprintf("default volume set to %d%%", level), false)

	case "set-leave-when-alone":
		set.LeaveWhenAlone = sub.Options[0].BoolValue()
		if err := h.repo.UpdateSettings(ctx, set); err != nil {
			slog.Error("update settings failed", "guildID", i.GuildID, "err", err)
			h.reply(s, i, "internal error", true)
			return
		}
		h.reply(s, i, fmt.Sprintf("leave when alone set to %t", set.LeaveWhenAlone), false)
	}
}

// replyForError maps controller errors to user-facing messages.
func replyForError(err error) string {
	switch {
	case errors.Is(err, player.ErrNothingPlaying):
		return "nothing is playing"
	case errors.Is(err, player.ErrNotPaused):
		return "playback isn't paused"
	case errors.Is(err, player.ErrDuplicateVote):
		return "you already voted to skip this song"
	case errors.Is(err, player.ErrNotInSameVoiceChannel):
		return "you need to be listening to vote"
	case errors.Is(err, player.ErrVolumeOutOfRange):
		return "volume must be between 0 and 200"
	case errors.Is(err, player.ErrNotConnected):
		return "not connected to a voice channel"
	default:
		return "something went wrong: " + err.Error()
	}
}

func (h *CommandHandler) reply(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	flags := uint64(0)
	if ephemeral {
		flags = 1 << 6
	}
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlags(flags),
		},
	}); err != nil {
		slog.Warn("reply failed", "guildID", i.GuildID, "err", err)
	}
}

func (h *CommandHandler) replyEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	}); err != nil {
		slog.Warn("reply failed", "guildID", i.GuildID, "err", err)
	}
}

func (h *CommandHandler) deferReply(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) {
	flags := uint64(0)
	if ephemeral {
		flags = 1 << 6
	}
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlags(flags),
		},
	}); err != nil {
		slog.Warn("defer reply failed", "guildID", i.GuildID, "err", err)
	}
}

func (h *CommandHandler) editReply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	}); err != nil {
		slog.Warn("edit reply failed", "guildID", i.GuildID, "err", err)
	}
}

func userIDOf(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func userNameOf(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.Username
	}
	if i.User != nil {
		return i.User.Username
	}
	return ""
}

func userInVoice(s *discordgo.Session, guildID, userID string) (channelID string, ok bool) {
	g, _ := s.State.Guild(guildID)
	if g == nil {
		g, _ = s.Guild(guildID)
	}
	if g == nil {
		return "", false
	}
	for _, vs := range g.VoiceStates {
		if vs.UserID == userID && vs.ChannelID != "" {
			return vs.ChannelID, true
		}
	}
	return "", false
}
