package savedtrip

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := "test-" + uuid.NewString()
	empty, err := store.Load(ctx, key)
	if err != nil || len(empty) != 0 {
		t.Fatalf("Load(missing) = %v, %v", empty, err)
	}

	svc := NewService(store, 0, nil)
	saved, err := svc.Add(ctx, key, "", sampleParams())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, err := svc.Get(ctx, key, saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Params != saved.Params || !got.SavedAt.Equal(saved.SavedAt) {
		t.Errorf("stored trip differs: %+v vs %+v", got, saved)
	}
	if err := svc.Delete(ctx, key, saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, err := svc.List(ctx, key)
	if err != nil || len(list) != 0 {
		t.Errorf("List after delete = %v, %v", list, err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := strings.TrimSpace(os.Getenv("TRIPCOST_TEST_REDIS_ADDR"))
	if addr == "" {
		t.Skip("TRIPCOST_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	exerciseStore(t, NewRedisStore(client, "tripcost:test:", time.Minute))
}

func TestPGStore(t *testing.T) {
	dsn := strings.TrimSpace(os.Getenv("TRIPCOST_TEST_DB_DSN"))
	if dsn == "" {
		t.Skip("TRIPCOST_TEST_DB_DSN not set")
	}
	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS saved_trip_lists (
			client_key TEXT PRIMARY KEY,
			trips JSONB NOT NULL DEFAULT '[]'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		t.Fatalf("ensure saved_trip_lists table: %v", err)
	}
	exerciseStore(t, NewPGStore(db))
}
