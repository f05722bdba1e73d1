// Package standup implements the group-standup reminder core: the
// per-chat subscription registry, the weekday trigger scheduler with
// holiday suppression, and the mention broadcaster.
package standup
