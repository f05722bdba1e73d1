package config

type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Logging  LoggingConfig  `json:"logging"`
	Standup  StandupConfig  `json:"standup"`
	Storage  *StorageConfig `json:"storage,omitempty"`
}

type TelegramConfig struct {
	Token        string  `json:"token"`
	OwnerUserIDs []int64 `json:"owner_user_ids"`
	GroupLog     string  `json:"group_log"`
	// PollTimeout is a Go duration string (e.g. "10s", "2m").
	PollTimeout string `json:"poll_timeout"`
}

type LoggingConfig struct {
	Level    string          `json:"level"`
	Console  bool            `json:"console"`
	File     LoggingFile     `json:"file"`
	Telegram LoggingTelegram `json:"telegram"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type LoggingTelegram struct {
	Enabled    bool   `json:"enabled"`
	ThreadID   int    `json:"thread_id"`
	MinLevel   string `json:"min_level"`
	RatePerSec int    `json:"rate_per_sec"`
}

// StandupConfig controls the daily reminder trigger and message.
//
// Defaults (when fields are omitted/zero):
//   - header: "#standup"
//   - time: "18:00"
//   - timezone: "Europe/Moscow"
//   - days: mon..fri
//   - send_timeout: "10s"
//   - rate_per_sec: 10
type StandupConfig struct {
	Header string `json:"header,omitempty"`

	// Time is the local wall-clock trigger time, "HH:MM".
	Time string `json:"time,omitempty"`

	// Timezone is an IANA zone name, e.g. "Europe/Moscow".
	Timezone string `json:"timezone,omitempty"`

	// Days are weekday names ("mon".."sun", full names accepted).
	Days []string `json:"days,omitempty"`

	// SendTimeout bounds one chat's delivery attempt (Go duration string).
	SendTimeout string `json:"send_timeout,omitempty"`

	// RatePerSec limits outgoing reminder sends (Telegram flood control).
	RatePerSec int `json:"rate_per_sec,omitempty"`

	// Holidays are "YYYY-MM-DD" dates on which no reminder is sent.
	Holidays []string `json:"holidays,omitempty"`
}

// StorageConfig controls the optional delivery-history store.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./standupbot_store" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}
