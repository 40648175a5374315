package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/mattn/go-sqlite3"

	"github.com/zavork/zavork/internal/config"
	"github.com/zavork/zavork/internal/handlers"
	"github.com/zavork/zavork/internal/playlist"
	"github.com/zavork/zavork/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	db, err := repository.OpenDB(cfg)
	if err != nil {
		log.Fatal(err)
	}
	repo := repository.NewRepo(db)
	store, err := playlist.Open(cfg.PlaylistPath())
	if err != nil {
		log.Fatal(err)
	}
	bot := handlers.NewBot(cfg, repo, store)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := bot.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
