package router

import (
	"html"
	"sort"
	"strings"

	kit "standupbot/internal/transport"
)

// helpText renders Telegram-friendly help in HTML parse mode.
func (m *CommandManager) helpText(args []string) string {
	m.mu.RLock()
	cmds := m.cmds
	alias := m.alias
	m.mu.RUnlock()

	if len(args) == 0 {
		return helpTopHTML(cmds)
	}

	name := strings.TrimPrefix(strings.TrimSpace(args[0]), "/")
	c := cmds[name]
	if c == nil {
		c = alias[name]
	}
	if c == nil {
		return strings.Join([]string{
			"❓ <b>Unknown command</b>",
			"Type <code>/help</code> for the command list.",
		}, "\n")
	}
	return helpCommandHTML(c)
}

func helpTopHTML(cmds map[string]*Command) string {
	names := make([]string, 0, len(cmds))
	for n := range cmds {
		names = append(names, n)
	}
	// Owner-only commands at the bottom, alphabetical within groups.
	sort.Slice(names, func(i, j int) bool {
		li, lj := cmds[names[i]].Access == AccessOwnerOnly, cmds[names[j]].Access == AccessOwnerOnly
		if li != lj {
			return !li
		}
		return names[i] < names[j]
	})

	lines := []string{
		"📚 <b>Commands</b>",
		"Type <code>/help &lt;cmd&gt;</code> for details.",
		"",
	}
	for _, n := range names {
		c := cmds[n]
		prefix := "• "
		if c.Access == AccessOwnerOnly {
			prefix = "• 🔒 "
		}
		suffix := ""
		if c.Description != "" {
			suffix = " — " + html.EscapeString(c.Description)
		}
		lines = append(lines, prefix+"<code>/"+html.EscapeString(n)+"</code>"+suffix)
	}
	return strings.Join(lines, "\n")
}

func helpCommandHTML(c *Command) string {
	lines := []string{"📚 <b>Help</b> <code>/" + html.EscapeString(c.Name) + "</code>"}
	if d := strings.TrimSpace(c.Description); d != "" {
		lines = append(lines, html.EscapeString(d))
	}
	if c.Access == AccessOwnerOnly {
		lines = append(lines, "🔒 <i>Owner only</i>")
	}
	if u := strings.TrimSpace(c.Usage); u != "" {
		lines = append(lines, "", "<b>Usage</b>", "<code>"+html.EscapeString(u)+"</code>")
	}
	if len(c.Aliases) > 0 {
		lines = append(lines, "", "<b>Aliases</b>")
		sorted := append([]string(nil), c.Aliases...)
		sort.Strings(sorted)
		for _, a := range sorted {
			lines = append(lines, "• <code>/"+html.EscapeString(a)+"</code>")
		}
	}
	return strings.Join(lines, "\n")
}

// buildMenuCommands renders the registry as Telegram menu entries.
// Telegram restricts command names to [a-z0-9_]{1,32}.
func buildMenuCommands(cmds map[string]*Command) []kit.BotCommand {
	out := make([]kit.BotCommand, 0, len(cmds))
	for name, c := range cmds {
		menu := sanitizeTelegramCommand(name)
		if menu == "" {
			continue
		}
		desc := c.Description
		if desc == "" {
			desc = "/" + name
		}
		out = append(out, kit.BotCommand{Command: menu, Description: desc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Command < out[j].Command })
	return out
}

func sanitizeTelegramCommand(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		case r == '-' || r == ' ':
			sb.WriteByte('_')
		}
	}
	out := sb.String()
	if len(out) > 32 {
		out = out[:32]
	}
	return out
}
