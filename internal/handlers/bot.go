package handlers

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/zavork/zavork/internal/config"
	"github.com/zavork/zavork/internal/player"
	"github.com/zavork/zavork/internal/playlist"
	"github.com/zavork/zavork/internal/repository"
	"github.com/zavork/zavork/internal/spotify"
	"github.com/zavork/zavork/internal/stream"
	"github.com/zavork/zavork/internal/voice"
)

type Bot struct {
	cfg      *config.Config
	repo     *repository.Repo
	store    *playlist.Store
	resolver *stream.Resolver
	spClient *spotify.Client
}

func NewBot(cfg *config.Config, repo *repository.Repo, store *playlist.Store) *Bot {
	var spClient *spotify.Client
	if cfg.SpotifyClientID != "" && cfg.SpotifyClientSecret != "" {
		client, err := spotify.NewClientCredentials(cfg.SpotifyClientID, cfg.SpotifyClientSecret)
		if err != nil {
			slog.Warn("spotify client init failed", "err", err)
		} else {
			spClient = client
		}
	}
	resolver := stream.NewResolver(stream.NewSearcher(), spClient)
	return &Bot{cfg: cfg, repo: repo, store: store, resolver: resolver, spClient: spClient}
}

// Run connects to the gateway and blocks until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates

	transport := voice.NewTransport(dg, b.cfg.FFmpegPath)
	pm := player.NewManager(b.resolver, transport, b.repo, func(guildID, channelID string) int {
		return getNonBotSize(dg, guildID, channelID)
	})
	cmd := NewCommandHandler(b.repo, b.store, pm, b.resolver, b.spClient)

	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("connected", "user", s.State.User.Username)
		if err := s.UpdateStatusComplex(presenceData(b.cfg)); err != nil {
			slog.Warn("set presence failed", "err", err)
		}
		appID := s.State.User.ID
		if _, err := s.ApplicationCommandBulkOverwrite(appID, "", commandDefinitions()); err != nil {
			slog.Error("register global commands", "err", err)
		} else {
			slog.Info("registered global application commands")
		}
	})

	dg.AddHandler(cmd.HandleInteraction)

	dg.AddHandler(func(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
		p := pm.Peek(vs.GuildID)
		if p == nil {
			return
		}
		// The bot itself leaving or being moved out means the transport
		// connection is already gone.
		if vs.UserID == s.State.User.ID {
			if vs.ChannelID == "" && p.State() != player.StatusIdle {
				p.HandleExternalDisconnect()
			}
			return
		}
		if p.ChannelID() == "" {
			return
		}
		set, err := b.repo.GetSettings(context.Background(), vs.GuildID)
		if err != nil || set == nil || !set.LeaveWhenAlone {
			return
		}
		p.CheckAutoLeave()
	})

	if err := dg.Open(); err != nil {
		return err
	}
	defer dg.Close()

	<-ctx.Done()
	return nil
}

// presenceData builds the gateway presence from the configured status
// ("online", "idle", "dnd", "invisible") and listening activity.
func presenceData(cfg *config.Config) discordgo.UpdateStatusData {
	d := discordgo.UpdateStatusData{Status: cfg.BotStatus}
	if cfg.BotActivity != "" {
		d.Activities = []*discordgo.Activity{{
			Name: cfg.BotActivity,
			Type: discordgo.ActivityTypeListening,
		}}
	}
	return d
}

// getNonBotSize counts non-bot members currently in a voice channel.
func getNonBotSize(s *discordgo.Session, guildID, channelID string) int {
	g, _ := s.State.Guild(guildID)
	if g == nil {
		return 0
	}
	n := 0
	for _, vs := range g.VoiceStates {
		if vs.ChannelID == channelID {
			m, _ := s.State.Member(guildID, vs.UserID)
			if m != nil && m.User != nil && !m.User.Bot {
				n++
			}
		}
	}
	return n
}
