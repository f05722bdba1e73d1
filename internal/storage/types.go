package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "file": dependency-free file backend (jsonl)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// DeliveryRecord is one reminder send attempt. Keep it compact and
// schema-stable.
type DeliveryRecord struct {
	At       time.Time `json:"at"`
	ChatID   int64     `json:"chat_id"`
	Mentions int       `json:"mentions"`
	OK       bool      `json:"ok"`
	Error    string    `json:"err,omitempty"`
}
