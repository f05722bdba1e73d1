package standup

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"standupbot/internal/storage"
	"standupbot/internal/transport"
	"standupbot/pkg/logx"
)

// BroadcastConfig tunes the outgoing side of a standup run.
type BroadcastConfig struct {
	// Header is the first line of every standup message.
	Header string
	// SendTimeout bounds one SendText call.
	SendTimeout time.Duration
	// RatePerSec caps outgoing sends across all chats.
	RatePerSec float64
}

// Broadcaster sends composed standup messages through the chat adapter.
// One instance is shared by the scheduler and the command handlers.
type Broadcaster struct {
	adapter transport.Adapter
	store   storage.Store
	log     logx.Logger

	mu      sync.RWMutex
	header  string
	timeout time.Duration
	limiter *rate.Limiter
}

func NewBroadcaster(adapter transport.Adapter, store storage.Store, cfg BroadcastConfig, log logx.Logger) *Broadcaster {
	b := &Broadcaster{adapter: adapter, store: store, log: log}
	b.Apply(cfg)
	return b
}

// Apply installs a new config. Safe to call while broadcasts run.
func (b *Broadcaster) Apply(cfg BroadcastConfig) {
	if cfg.Header == "" {
		cfg.Header = "#standup"
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 10
	}
	b.mu.Lock()
	b.header = cfg.Header
	b.timeout = cfg.SendTimeout
	b.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1)
	b.mu.Unlock()
}

// ComposeMessage renders the standup text: header line, then the
// @-prefixed handles space-joined on the second line. Handles are
// expected pre-sorted by the registry.
func ComposeMessage(header string, handles []string) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteByte('\n')
	for i, h := range handles {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('@')
		sb.WriteString(h)
	}
	return sb.String()
}

// Broadcast composes and sends the standup message to one chat and records
// the delivery outcome. Returns the send error so the caller can count
// failures; a storage write failure is only logged.
func (b *Broadcaster) Broadcast(ctx context.Context, chatID int64, handles []string) error {
	b.mu.RLock()
	header, timeout, limiter := b.header, b.timeout, b.limiter
	b.mu.RUnlock()

	if err := limiter.Wait(ctx); err != nil {
		return err
	}

	text := ComposeMessage(header, handles)
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	_, err := b.adapter.SendText(sendCtx, transport.ChatTarget{ChatID: chatID}, text, nil)
	cancel()

	if b.store != nil {
		rec := storage.DeliveryRecord{
			At:       time.Now().UTC(),
			ChatID:   chatID,
			Mentions: len(handles),
			OK:       err == nil,
		}
		if err != nil {
			rec.Error = err.Error()
		}
		if serr := b.store.AppendDelivery(ctx, rec); serr != nil {
			b.log.Warn("delivery record write failed", logx.Int64("chat_id", chatID), logx.Err(serr))
		}
	}
	return err
}
