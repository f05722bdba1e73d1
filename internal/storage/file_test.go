package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	logx "standupbot/pkg/logx"
)

func openTestStore(t *testing.T) Store {
	t.Helper()
	st, err := Open(Config{Driver: "file", Path: filepath.Join(t.TempDir(), "store")}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpenDisabled(t *testing.T) {
	t.Parallel()
	st, err := Open(Config{}, logx.Nop())
	if err != nil || st != nil {
		t.Fatalf("Open(disabled) = (%v, %v), want (nil, nil)", st, err)
	}
	st, err = Open(Config{Driver: "none"}, logx.Nop())
	if err != nil || st != nil {
		t.Fatalf("Open(none) = (%v, %v), want (nil, nil)", st, err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	t.Parallel()
	if _, err := Open(Config{Driver: "bolt"}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	recs := []DeliveryRecord{
		{At: now.Add(-2 * time.Minute), ChatID: 10, Mentions: 3, OK: true},
		{At: now.Add(-time.Minute), ChatID: 20, Mentions: 1, OK: false, Error: "chat not found"},
		{At: now, ChatID: 10, Mentions: 3, OK: true},
	}
	for _, r := range recs {
		if err := st.AppendDelivery(ctx, r); err != nil {
			t.Fatalf("AppendDelivery: %v", err)
		}
	}

	got, err := st.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[1].ChatID != 20 || got[1].OK || got[1].Error != "chat not found" {
		t.Fatalf("unexpected middle record: %+v", got[1])
	}
	if !got[0].At.Before(got[2].At) {
		t.Fatal("records not oldest-first")
	}
}

func TestFileStoreRecentLimit(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := st.AppendDelivery(ctx, DeliveryRecord{At: time.Now(), ChatID: int64(i), OK: true}); err != nil {
			t.Fatalf("AppendDelivery: %v", err)
		}
	}

	got, err := st.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ChatID != 3 || got[1].ChatID != 4 {
		t.Fatalf("wrong tail records: %+v", got)
	}

	if got, err := st.Recent(ctx, 0); err != nil || got != nil {
		t.Fatalf("Recent(0) = (%v, %v), want (nil, nil)", got, err)
	}
}
