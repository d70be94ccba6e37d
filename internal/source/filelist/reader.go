package filelist

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/m3rciful/buylist/core/logger"
	"github.com/m3rciful/buylist/internal/shoplist"
)

// Reader is a shoplist.Source backed by two local files.
type Reader struct {
	ItemsPath string
	UsersPath string
}

// New returns a Reader for the given paths.
func New(itemsPath, usersPath string) *Reader {
	return &Reader{ItemsPath: itemsPath, UsersPath: usersPath}
}

// Read parses both files on every call.
func (r *Reader) Read(ctx context.Context) (shoplist.Snapshot, error) {
	start := time.Now()
	items, err := readFile(r.ItemsPath, ParseItems)
	if err != nil {
		return shoplist.Snapshot{}, err
	}
	users, err := readFile(r.UsersPath, ParseUsers)
	if err != nil {
		return shoplist.Snapshot{}, err
	}
	logger.LogEvent(ctx, logger.SRC, slog.LevelDebug, "source.read",
		slog.String("status", "ok"),
		slog.String("source", "file"),
		slog.Int("items_total", len(items)),
		slog.Int("users_total", len(users)),
		slog.Duration("duration", time.Since(start)),
	)
	return shoplist.Snapshot{Items: items, Users: users}, nil
}

func readFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("filelist: %w", err)
	}
	defer f.Close()
	v, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("filelist: %s: %w", path, err)
	}
	return v, nil
}
