package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	coredatabase "github.com/m3rciful/buylist/core/database"
	"github.com/m3rciful/buylist/internal/shoplist"
)

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dir := t.TempDir()
	cfg := coredatabase.Config{
		Driver:        coredatabase.DriverSQLite,
		Path:          filepath.Join(dir, "list.db"),
		MigrationsDir: filepath.Join("..", "..", "..", "migrations"),
	}
	ctx := context.Background()
	if err := coredatabase.RunMigrations(ctx, cfg); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db, err := coredatabase.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSeedAndRead(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	snap := shoplist.Snapshot{
		Items: []shoplist.Entry{{Name: "milk", Default: true}, {Name: " "}, {Name: "bread"}, {Name: "milk"}, {Name: "eggs", Default: true}},
		Users: []int64{42, 7, 42},
	}
	if err := Seed(ctx, db, snap); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store, err := New(db)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []shoplist.Entry{{Name: "milk", Default: true}, {Name: "bread"}, {Name: "eggs", Default: true}}
	if len(got.Items) != len(want) {
		t.Fatalf("items = %+v", got.Items)
	}
	for i := range want {
		if got.Items[i] != want[i] {
			t.Fatalf("item %d = %+v, want %+v", i, got.Items[i], want[i])
		}
	}
	if len(got.Users) != 2 || got.Users[0] != 7 || got.Users[1] != 42 {
		t.Fatalf("users = %v", got.Users)
	}
}

func TestSeedReplacesContents(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	if err := Seed(ctx, db, shoplist.Snapshot{Items: []shoplist.Entry{{Name: "milk"}}, Users: []int64{1}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := Seed(ctx, db, shoplist.Snapshot{Items: []shoplist.Entry{{Name: "tea"}, {Name: "coffee"}}}); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	store, _ := New(db)
	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got.Items) != 2 || got.Items[0].Name != "tea" || got.Items[1].Name != "coffee" || len(got.Users) != 0 {
		t.Fatalf("snapshot = %+v", got)
	}
}

func TestSeederReadFailure(t *testing.T) {
	db := openDB(t)
	boom := errors.New("boom")
	s := Seeder{Source: shoplist.SourceFunc(func(context.Context) (shoplist.Snapshot, error) {
		return shoplist.Snapshot{}, boom
	})}
	if err := s.Seed(context.Background(), db); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestReadWithoutSchemaFails(t *testing.T) {
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	store, _ := New(db)
	if _, err := store.Read(context.Background()); err == nil {
		t.Fatal("expected error without tables")
	}
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil db")
	}
}
