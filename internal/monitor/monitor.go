// Package monitor polls a spreadsheet of companies and announces status
// changes to a Discord channel. State is a code-to-status snapshot persisted
// between runs so restarts do not re-announce old changes.
package monitor

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Record is one company row: code, display name, and normalized status.
type Record struct {
	Code   string
	Name   string
	Status string
}

// Fetcher retrieves the current sheet contents.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// Notifier delivers announcements.
type Notifier interface {
	StatusChanged(ctx context.Context, rec Record, previous string) error
	NewCompany(ctx context.Context, rec Record) error
}

type Monitor struct {
	fetcher      Fetcher
	notifier     Notifier
	snapshotPath string
	watched      map[string]struct{}

	state map[string]string // code -> last seen status
}

func New(fetcher Fetcher, notifier Notifier, snapshotPath string, watched []string) *Monitor {
	w := make(map[string]struct{}, len(watched))
	for _, s := range watched {
		w[strings.ToUpper(strings.TrimSpace(s))] = struct{}{}
	}
	return &Monitor{
		fetcher:      fetcher,
		notifier:     notifier,
		snapshotPath: snapshotPath,
		watched:      w,
	}
}

// Watched reports whether a status is in the announce set.
func (m *Monitor) Watched(status string) bool {
	_, ok := m.watched[status]
	return ok
}

// Run polls until ctx is canceled. A failed poll is logged and retried on the
// next tick.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	m.state = m.loadSnapshot()
	slog.Info("monitoring sheet", "knownRecords", len(m.state), "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := m.Check(ctx); err != nil {
			slog.Error("sheet check failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Check runs one fetch-diff-notify cycle.
func (m *Monitor) Check(ctx context.Context) error {
	records, err := m.fetcher.Fetch(ctx)
	if err != nil {
		return err
	}
	slog.Debug("sheet fetched", "rows", len(records))

	next := make(map[string]string, len(records))
	for _, rec := range records {
		next[rec.Code] = rec.Status

		previous, known := m.state[rec.Code]
		switch {
		case !known:
			slog.Info("new company", "code", rec.Code, "name", rec.Name, "status", rec.Status)
			if err := m.notifier.NewCompany(ctx, rec); err != nil {
				slog.Error("new company notification failed", "code", rec.Code, "err", err)
			}
		case previous != rec.Status:
			slog.Info("status changed", "code", rec.Code, "name", rec.Name, "from", previous, "to", rec.Status)
			if m.Watched(rec.Status) {
				if err := m.notifier.StatusChanged(ctx, rec, previous); err != nil {
					slog.Error("status notification failed", "code", rec.Code, "err", err)
				}
			}
		}
	}

	m.state = next
	m.saveSnapshot(next)
	return nil
}

type snapshot struct {
	LastChecked string            `json:"lastChecked"`
	Records     map[string]string `json:"records"`
}

func (m *Monitor) loadSnapshot() map[string]string {
	data, err := os.ReadFile(m.snapshotPath)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("snapshot load failed", "path", m.snapshotPath, "err", err)
		}
		return map[string]string{}
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("snapshot parse failed", "path", m.snapshotPath, "err", err)
		return map[string]string{}
	}
	if snap.Records == nil {
		snap.Records = map[string]string{}
	}
	slog.Info("snapshot loaded", "records", len(snap.Records), "lastChecked", snap.LastChecked)
	return snap.Records
}

func (m *Monitor) saveSnapshot(records map[string]string) {
	snap := snapshot{
		LastChecked: time.Now().Format(time.RFC3339),
		Records:     records,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		slog.Error("snapshot encode failed", "err", err)
		return
	}
	if err := os.WriteFile(m.snapshotPath, data, 0o644); err != nil {
		slog.Error("snapshot save failed", "path", m.snapshotPath, "err", err)
	}
}
