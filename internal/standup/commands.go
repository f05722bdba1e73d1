package standup

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"standupbot/internal/storage"
	kit "standupbot/internal/transport"
	"standupbot/internal/transport/telegram/router"
)

// Commands builds the chat command set. Replies for idempotent no-op
// outcomes say so instead of pretending the state changed; enable/disable
// no-ops stay silent.
func Commands(reg *Registry, sched *Scheduler, store storage.Store) []router.Command {
	return []router.Command{
		{
			Name:        "start",
			Aliases:     []string{"join"},
			Description: "join the daily standup mention list",
			Usage:       "/start",
			Handle: func(ctx context.Context, req *router.Request) error {
				handle := strings.TrimSpace(req.FromUsername)
				if handle == "" {
					_, err := req.Adapter.SendText(ctx, req.Chat,
						"you need a public username to join, set one in Telegram settings first", nil)
					return err
				}
				var reply string
				switch reg.AddParticipant(req.Chat.ChatID, handle) {
				case OutcomeAdded:
					reply = "@" + handle + " added to the standup list"
				case OutcomeAlreadyPresent:
					reply = "@" + handle + " is already on the list"
				}
				_, err := req.Adapter.SendText(ctx, req.Chat, reply, nil)
				return err
			},
		},
		{
			Name:        "stop",
			Aliases:     []string{"leave"},
			Description: "leave the daily standup mention list",
			Usage:       "/stop",
			Handle: func(ctx context.Context, req *router.Request) error {
				handle := strings.TrimSpace(req.FromUsername)
				if handle == "" {
					_, err := req.Adapter.SendText(ctx, req.Chat,
						"you need a public username to use this, set one in Telegram settings first", nil)
					return err
				}
				var reply string
				switch reg.RemoveParticipant(req.Chat.ChatID, handle) {
				case OutcomeRemoved:
					reply = "@" + handle + " removed from the standup list"
				case OutcomeNotPresent:
					reply = "@" + handle + " is not on the list"
				}
				_, err := req.Adapter.SendText(ctx, req.Chat, reply, nil)
				return err
			},
		},
		{
			Name:        "enable",
			Description: "turn standup reminders on for this chat",
			Usage:       "/enable",
			Handle: func(ctx context.Context, req *router.Request) error {
				if reg.SetEnabled(req.Chat.ChatID, true) != OutcomeChanged {
					return nil
				}
				_, err := req.Adapter.SendText(ctx, req.Chat, "standup reminders enabled", nil)
				return err
			},
		},
		{
			Name:        "disable",
			Description: "turn standup reminders off for this chat",
			Usage:       "/disable",
			Handle: func(ctx context.Context, req *router.Request) error {
				if reg.SetEnabled(req.Chat.ChatID, false) != OutcomeChanged {
					return nil
				}
				_, err := req.Adapter.SendText(ctx, req.Chat, "standup reminders disabled", nil)
				return err
			},
		},
		{
			Name:        "info",
			Description: "show this chat's standup state",
			Usage:       "/info",
			Handle: func(ctx context.Context, req *router.Request) error {
				_, err := req.Adapter.SendText(ctx, req.Chat, infoText(reg, sched, req.Chat.ChatID), nil)
				return err
			},
		},
		{
			Name:        "status",
			Description: "bot-wide standup status",
			Usage:       "/status",
			Access:      router.AccessOwnerOnly,
			Timeout:     10 * time.Second,
			Handle: func(ctx context.Context, req *router.Request) error {
				text, err := statusHTML(ctx, reg, sched, store)
				if err != nil {
					return err
				}
				_, err = req.Adapter.SendText(ctx, req.Chat, text,
					&kit.SendOptions{ParseMode: kit.ParseModeHTML, DisablePreview: true})
				return err
			},
		},
	}
}

func infoText(reg *Registry, sched *Scheduler, chatID int64) string {
	var sb strings.Builder
	if reg.IsEnabled(chatID) {
		sb.WriteString("reminders: on\n")
	} else {
		sb.WriteString("reminders: off\n")
	}
	handles := reg.Participants(chatID)
	if len(handles) == 0 {
		sb.WriteString("participants: none")
	} else {
		sb.WriteString("participants: ")
		for i, h := range handles {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('@')
			sb.WriteString(h)
		}
	}
	if reg.IsEnabled(chatID) && len(handles) > 0 {
		next := sched.NextFire(time.Now())
		sb.WriteString("\nnext reminder: ")
		sb.WriteString(next.Format("Mon 2006-01-02 15:04 MST"))
	}
	return sb.String()
}

func statusHTML(ctx context.Context, reg *Registry, sched *Scheduler, store storage.Store) (string, error) {
	chats := reg.AllConversations()
	var active int
	for _, id := range chats {
		if reg.IsEnabled(id) && reg.ParticipantCount(id) > 0 {
			active++
		}
	}

	lines := []string{
		"📋 <b>Standup status</b>",
		fmt.Sprintf("chats: %d (%d active)", len(chats), active),
		"next fire: <code>" + html.EscapeString(sched.NextFire(time.Now()).Format(time.RFC3339)) + "</code>",
	}

	if store != nil {
		recs, err := store.Recent(ctx, 5)
		if err != nil {
			return "", fmt.Errorf("read delivery history: %w", err)
		}
		if len(recs) > 0 {
			lines = append(lines, "", "<b>Recent deliveries</b>")
			for _, r := range recs {
				mark := "✅"
				if !r.OK {
					mark = "❌"
				}
				line := fmt.Sprintf("%s <code>%s</code> chat %d, %d mentions",
					mark, r.At.Format("01-02 15:04"), r.ChatID, r.Mentions)
				if r.Error != "" {
					line += " — " + html.EscapeString(r.Error)
				}
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
