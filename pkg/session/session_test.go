package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	sess := New(time.Hour)
	sess.From, sess.To = "place-knncl", "place-sstat"
	sess.Rows = []string{"place-knncl"}
	if err := s.Set(ctx, sess); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := s.Get(ctx, sess.ID)
	if err != nil || got == nil {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if got.From != "place-knncl" || got.To != "place-sstat" || len(got.Rows) != 1 {
		t.Errorf("Get() = %+v", got)
	}

	if err := s.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got, _ := s.Get(ctx, sess.ID); got != nil {
		t.Error("session survived Delete")
	}

	expired := New(time.Hour)
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	_ = s.Set(ctx, expired)
	if got, _ := s.Get(ctx, expired.ID); got != nil {
		t.Error("expired session returned")
	}

	if got, err := s.Get(ctx, "../../etc/passwd"); got != nil || err != nil {
		t.Errorf("invalid id: %v, %v", got, err)
	}
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	exercise(t, s)
}

func TestFileStoreCleanup(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir())

	live := New(time.Hour)
	old := New(time.Hour)
	old.ExpiresAt = time.Now().Add(-time.Hour)
	_ = s.Set(ctx, live)
	_ = s.Set(ctx, old)

	n, err := s.Cleanup(ctx)
	if err != nil || n != 1 {
		t.Errorf("Cleanup() = %d, %v; want 1", n, err)
	}
	if got, _ := s.Get(ctx, live.ID); got == nil {
		t.Error("live session removed")
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("YOURCOMMUTE_TEST_REDIS")
	if addr == "" {
		t.Skip("YOURCOMMUTE_TEST_REDIS not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	exercise(t, NewRedisStore(client, nil))
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{New(time.Hour).ID, true},
		{CLISessionID, true},
		{"", false},
		{"../x", false},
	}
	for _, tt := range tests {
		if got := ValidID(tt.id); got != tt.want {
			t.Errorf("ValidID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestTouch(t *testing.T) {
	s := New(time.Minute)
	before := s.ExpiresAt
	time.Sleep(time.Millisecond)
	s.Touch(time.Hour)
	if !s.ExpiresAt.After(before) {
		t.Error("Touch should extend expiry")
	}
}
