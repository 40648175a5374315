package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"github.com/zavork/zavork/internal/config"
	"github.com/zavork/zavork/internal/monitor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.SheetCSVURL == "" || cfg.NotifyChannelID == "" {
		log.Fatal("SHEET_CSV_URL and DISCORD_CHANNEL_ID must be set")
	}

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatal(err)
	}

	m := monitor.New(
		monitor.NewCSVFetcher(cfg.SheetCSVURL),
		monitor.NewDiscordNotifier(dg, cfg.NotifyChannelID),
		cfg.SnapshotPath(),
		cfg.WatchedStatuses,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := m.Run(ctx, cfg.PollInterval); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}
