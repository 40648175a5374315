package monitor

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
)

// CSVFetcher reads the sheet through its published CSV export URL. Column
// layout is positional: code, name, status.
type CSVFetcher struct {
	URL    string
	Client *http.Client
}

func NewCSVFetcher(url string) *CSVFetcher {
	return &CSVFetcher{URL: url, Client: http.DefaultClient}
}

func (f *CSVFetcher) Fetch(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sheet: unexpected status %s", resp.Status)
	}

	r := csv.NewReader(resp.Body)
	r.FieldsPerRecord = -1 // rows vary in width
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sheet csv: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	out := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] { // skip header
		rec, ok := parseRow(row)
		if !ok {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// parseRow normalizes one sheet row, rejecting rows with missing fields.
func parseRow(row []string) (Record, bool) {
	if len(row) < 3 {
		return Record{}, false
	}
	code := strings.TrimSpace(row[0])
	name := strings.TrimSpace(row[1])
	status := strings.ToUpper(strings.TrimSpace(row[2]))
	if code == "" || name == "" || status == "" {
		return Record{}, false
	}
	return Record{Code: code, Name: name, Status: status}, true
}
