package config

import "time"

type Config struct {
	DiscordToken        string `env:"DISCORD_TOKEN,required"`
	DataDir             string `env:"DATA_DIR" envDefault:"./data"`
	FFmpegPath          string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	SpotifyClientID     string `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`
	BotStatus           string `env:"BOT_STATUS" envDefault:"online"`
	BotActivity         string `env:"BOT_ACTIVITY" envDefault:"music"`

	// Sheet monitor (cmd/sheetwatch).
	SheetCSVURL     string        `env:"SHEET_CSV_URL"`
	NotifyChannelID string        `env:"DISCORD_CHANNEL_ID"`
	PollInterval    time.Duration `env:"POLL_INTERVAL" envDefault:"1m"`
	WatchedStatuses []string      `env:"WATCHED_STATUSES" envSeparator:"," envDefault:"INATIVO,BAIXA,DEVOLVIDA,SUSPENSA"`
}
