// Package activity projects a report's timeline. Nothing is persisted: the
// model only remembers the latest transition, so the feed is recomputed from
// the report itself and never grows past two entries.
package activity

import (
	"strings"
	"time"

	"opengov/api/internal/report"
)

type Entry struct {
	Kind  string    `json:"kind"`
	Title string    `json:"title"`
	Actor string    `json:"actor"`
	Time  time.Time `json:"time"`
}

const KindCreated = "created"

// ForReport returns the creation entry and, when the report has left
// pending, one entry for the current status stamped with updatedAt.
func ForReport(r report.Report) []Entry {
	entries := []Entry{{
		Kind:  KindCreated,
		Title: "Report Created",
		Actor: r.CitizenName,
		Time:  r.CreatedAt,
	}}

	if r.Status == report.StatusPending {
		return entries
	}

	actor := r.AssignedToName
	if actor == "" {
		actor = "Authority"
	}
	return append(entries, Entry{
		Kind:  string(r.Status),
		Title: "Marked as " + strings.ReplaceAll(string(r.Status), "_", " "),
		Actor: actor,
		Time:  r.UpdatedAt,
	})
}
