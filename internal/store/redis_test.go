package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewRedisStore(mr.Addr(), "", 0, quietLogger)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("expected v, got %q (%v)", got, err)
	}
	if ttl := mr.TTL("k"); ttl != 0 {
		t.Errorf("expected no expiry, got %v", ttl)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if mr.Exists("k") {
		t.Error("expected key to be deleted")
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
}

func TestRedisHistoryStore(t *testing.T) {
	mr := miniredis.RunT(t)

	kv, err := NewRedisStore(mr.Addr(), "", 0, quietLogger)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer kv.Close()

	ctx := context.Background()
	s := NewHistoryStore(kv, quietLogger)

	if err := s.Save(ctx, sampleEntries(2)); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !mr.Exists(HistoryKey) {
		t.Fatalf("expected %q to exist in redis", HistoryKey)
	}

	got, err := s.Load(ctx)
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d (%v)", len(got), err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if mr.Exists(HistoryKey) {
		t.Error("expected history key to be removed")
	}
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedisStore(addr, "", 0, quietLogger); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestRedisStoreLogsBackendErrors(t *testing.T) {
	mr := miniredis.RunT(t)

	var logs bytes.Buffer
	s, err := NewRedisStore(mr.Addr(), "", 0, slog.New(slog.NewTextHandler(&logs, nil)))
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer s.Close()
	mr.Close()

	_, err = s.Get(context.Background(), HistoryKey)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a backend error, got %v", err)
	}
	if !strings.Contains(logs.String(), "redis get failed") {
		t.Errorf("expected the failure to be logged, got %q", logs.String())
	}
}
