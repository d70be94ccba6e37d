// Package sqlstore keeps the list in two relational tables: items ordered by
// position and the authorized user ids.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/buylist/core/logger"
	"github.com/m3rciful/buylist/internal/shoplist"
)

type itemRow struct {
	Position      int    `db:"position"`
	Name          string `db:"name"`
	DefaultActive bool   `db:"default_active"`
}

// Store is a shoplist.Source backed by sqlx.
type Store struct {
	db *sqlx.DB
}

// New wraps an open connection. The schema comes from the migrations directory.
func New(db *sqlx.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlstore: nil db")
	}
	return &Store{db: db}, nil
}

// Read loads items in position order and the user allow-list.
func (s *Store) Read(ctx context.Context) (shoplist.Snapshot, error) {
	start := time.Now()
	var rows []itemRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT position, name, default_active FROM items ORDER BY position`); err != nil {
		return shoplist.Snapshot{}, fmt.Errorf("sqlstore: select items: %w", err)
	}
	var users []int64
	if err := s.db.SelectContext(ctx, &users,
		`SELECT user_id FROM authorized_users ORDER BY user_id`); err != nil {
		return shoplist.Snapshot{}, fmt.Errorf("sqlstore: select users: %w", err)
	}

	snap := shoplist.Snapshot{Items: make([]shoplist.Entry, 0, len(rows)), Users: users}
	for _, r := range rows {
		snap.Items = append(snap.Items, shoplist.Entry{Name: r.Name, Default: r.DefaultActive})
	}
	logger.LogEvent(ctx, logger.SRC, slog.LevelDebug, "source.read",
		slog.String("status", "ok"),
		slog.String("source", "db"),
		slog.Int("items_total", len(snap.Items)),
		slog.Int("users_total", len(users)),
		slog.Duration("duration", time.Since(start)),
	)
	return snap, nil
}

// Seed replaces both tables with snap in one transaction. Blank and
// duplicate names are skipped so the unique constraint holds.
func Seed(ctx context.Context, db *sqlx.DB, snap shoplist.Snapshot) error {
	start := time.Now()
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("sqlstore: clear items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM authorized_users`); err != nil {
		return fmt.Errorf("sqlstore: clear users: %w", err)
	}

	insertItem := tx.Rebind(`INSERT INTO items (position, name, default_active) VALUES (?, ?, ?)`)
	seen := make(map[string]struct{}, len(snap.Items))
	pos := 0
	for _, e := range snap.Items {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if _, err := tx.ExecContext(ctx, insertItem, pos, name, e.Default); err != nil {
			return fmt.Errorf("sqlstore: insert item %q: %w", name, err)
		}
		pos++
	}

	insertUser := tx.Rebind(`INSERT INTO authorized_users (user_id) VALUES (?)`)
	users := make(map[int64]struct{}, len(snap.Users))
	for _, id := range snap.Users {
		if _, dup := users[id]; dup {
			continue
		}
		users[id] = struct{}{}
		if _, err := tx.ExecContext(ctx, insertUser, id); err != nil {
			return fmt.Errorf("sqlstore: insert user %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: commit: %w", err)
	}
	logger.LogEvent(ctx, logger.SEED, slog.LevelInfo, "db.seed",
		slog.String("status", "ok"),
		slog.Int("items_total", pos),
		slog.Int("users_total", len(users)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// Seeder adapts Seed to the bootstrap seeding step.
type Seeder struct {
	Source shoplist.Source
}

// Seed reads Source and replaces the tables with the result.
func (s Seeder) Seed(ctx context.Context, db *sqlx.DB) error {
	snap, err := s.Source.Read(ctx)
	if err != nil {
		return fmt.Errorf("sqlstore: seed read: %w", err)
	}
	return Seed(ctx, db, snap)
}
