package app

import (
	"testing"
	"time"

	"standupbot/internal/config"
)

func TestParseGroupLog(t *testing.T) {
	t.Parallel()

	if id, ok := parseGroupLog("-1001234567890"); !ok || id != -1001234567890 {
		t.Fatalf("got %d, %v", id, ok)
	}
	if _, ok := parseGroupLog(""); ok {
		t.Fatal("empty should not parse")
	}
	if _, ok := parseGroupLog("not-a-chat"); ok {
		t.Fatal("garbage should not parse")
	}
}

func TestMapBroadcastConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Standup.Header = "#daily"
	cfg.Standup.SendTimeout = "5s"
	cfg.Standup.RatePerSec = 3

	got, err := mapBroadcastConfig(cfg)
	if err != nil {
		t.Fatalf("mapBroadcastConfig: %v", err)
	}
	if got.Header != "#daily" || got.SendTimeout != 5*time.Second || got.RatePerSec != 3 {
		t.Fatalf("got %+v", got)
	}

	cfg.Standup.SendTimeout = "soon"
	if _, err := mapBroadcastConfig(cfg); err == nil {
		t.Fatal("want error for bad duration")
	}

	cfg.Standup.SendTimeout = ""
	cfg.Standup.RatePerSec = -1
	if _, err := mapBroadcastConfig(cfg); err == nil {
		t.Fatal("want error for negative rate")
	}
}

func TestMapStorageConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	sc, err := mapStorageConfig(cfg)
	if err != nil {
		t.Fatalf("mapStorageConfig: %v", err)
	}
	if sc.Driver != "" {
		t.Fatalf("nil storage section should map to disabled, got %+v", sc)
	}

	cfg.Storage = &config.StorageConfig{Driver: "sqlite", Path: "/tmp/x.db", BusyTimeout: "2s"}
	sc, err = mapStorageConfig(cfg)
	if err != nil {
		t.Fatalf("mapStorageConfig: %v", err)
	}
	if sc.Driver != "sqlite" || sc.BusyTimeout != 2*time.Second {
		t.Fatalf("got %+v", sc)
	}
}

func TestMapTriggerConfigPassthrough(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Standup.Time = "09:30"
	cfg.Standup.Timezone = "UTC"
	cfg.Standup.Days = []string{"mon", "wed"}
	cfg.Standup.Holidays = []string{"2026-01-01"}

	got := mapTriggerConfig(cfg)
	if got.Time != "09:30" || got.Timezone != "UTC" || len(got.Days) != 2 || len(got.Holidays) != 1 {
		t.Fatalf("got %+v", got)
	}
}
