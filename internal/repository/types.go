package repository

import "database/sql"

type Repo struct {
	db *sql.DB
}

type Settings struct {
	GuildID        string
	DefaultVolume  int // 0-200 percentage applied on connect
	LeaveWhenAlone bool
}
