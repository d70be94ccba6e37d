// Package sheets reads the list from a Google spreadsheet. The first
// worksheet holds item names in column A and a default marker in column B;
// the second worksheet holds authorized user ids in column A.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/m3rciful/buylist/core/logger"
	"github.com/m3rciful/buylist/internal/shoplist"
)

// Config selects the spreadsheet and how to reach it.
type Config struct {
	SpreadsheetID   string
	CredentialsFile string
	HeaderRows      int
	Endpoint        string
}

// Reader is a shoplist.Source backed by the Sheets API v4.
type Reader struct {
	svc        *sheetsapi.Service
	id         string
	headerRows int
}

// New builds a read-only Sheets client. Extra client options are appended
// after the ones derived from cfg.
func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Reader, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is required")
	}
	base := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope)}
	if cfg.CredentialsFile != "" {
		base = append(base, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		base = append(base, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := sheetsapi.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("sheets: new service: %w", err)
	}
	return &Reader{svc: svc, id: cfg.SpreadsheetID, headerRows: max(cfg.HeaderRows, 0)}, nil
}

// Read fetches both worksheets in one batch request.
func (r *Reader) Read(ctx context.Context) (shoplist.Snapshot, error) {
	start := time.Now()
	meta, err := r.svc.Spreadsheets.Get(r.id).Fields("sheets.properties(title,index)").Context(ctx).Do()
	if err != nil {
		return shoplist.Snapshot{}, fmt.Errorf("sheets: get spreadsheet: %w", err)
	}
	if len(meta.Sheets) < 2 {
		return shoplist.Snapshot{}, fmt.Errorf("sheets: spreadsheet needs an items and a users worksheet, got %d", len(meta.Sheets))
	}

	itemsRange := a1Range(meta.Sheets[0].Properties.Title, "A:B")
	usersRange := a1Range(meta.Sheets[1].Properties.Title, "A:A")
	resp, err := r.svc.Spreadsheets.Values.BatchGet(r.id).
		Ranges(itemsRange, usersRange).
		MajorDimension("COLUMNS").
		Context(ctx).
		Do()
	if err != nil {
		return shoplist.Snapshot{}, fmt.Errorf("sheets: batch get: %w", err)
	}
	if len(resp.ValueRanges) != 2 {
		return shoplist.Snapshot{}, fmt.Errorf("sheets: expected 2 value ranges, got %d", len(resp.ValueRanges))
	}

	items := parseItems(resp.ValueRanges[0].Values, r.headerRows)
	users, err := parseUsers(resp.ValueRanges[1].Values, r.headerRows)
	if err != nil {
		return shoplist.Snapshot{}, err
	}
	logger.LogEvent(ctx, logger.SRC, slog.LevelDebug, "source.read",
		slog.String("status", "ok"),
		slog.String("source", "sheets"),
		slog.Int("items_total", len(items)),
		slog.Int("users_total", len(users)),
		slog.Duration("duration", time.Since(start)),
	)
	return shoplist.Snapshot{Items: items, Users: users}, nil
}

// parseItems pairs column A with column B. An item is active by default
// when the B cell on the same row is non-empty; blank names are skipped.
func parseItems(cols [][]any, skip int) []shoplist.Entry {
	names := column(cols, 0, skip)
	defaults := column(cols, 1, skip)
	var out []shoplist.Entry
	for i, name := range names {
		if name == "" {
			continue
		}
		out = append(out, shoplist.Entry{Name: name, Default: i < len(defaults) && defaults[i] != ""})
	}
	return out
}

func parseUsers(cols [][]any, skip int) ([]int64, error) {
	var users []int64
	for i, v := range column(cols, 0, skip) {
		if v == "" {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("sheets: users row %d: invalid user id %q", i+skip+1, v)
		}
		users = append(users, id)
	}
	return users, nil
}

func column(cols [][]any, idx, skip int) []string {
	if idx >= len(cols) {
		return nil
	}
	cells := cols[idx]
	if skip >= len(cells) {
		return nil
	}
	out := make([]string, 0, len(cells)-skip)
	for _, c := range cells[skip:] {
		out = append(out, strings.TrimSpace(fmt.Sprint(c)))
	}
	return out
}

func a1Range(title, cells string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'!" + cells
}
