package repository

import (
	"context"
	"database/sql"
	"errors"
)

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

// UpsertSettings creates the guild's settings row with defaults if it does
// not exist yet, then returns it.
func (r *Repo) UpsertSettings(ctx context.Context, guild string) (*Settings, error) {
	_, _ = r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings(guild_id) VALUES (?)`, guild,
	)
	return r.GetSettings(ctx, guild)
}

func (r *Repo) GetSettings(ctx context.Context, guild string) (*Settings, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT guild_id, default_volume, leave_when_alone
	FROM settings WHERE guild_id = ?`, guild)

	var s Settings
	var leave int
	if err := row.Scan(&s.GuildID, &s.DefaultVolume, &leave); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	s.LeaveWhenAlone = leave != 0
	return &s, nil
}

func (r *Repo) UpdateSettings(ctx context.Context, s *Settings) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE settings SET
		  default_volume=?,
		  leave_when_alone=?
		WHERE guild_id=?`,
		s.DefaultVolume, boolToInt(s.LeaveWhenAlone), s.GuildID,
	)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
