package storage

import (
	"strconv"
	"strings"

	"github.com/alon-amarilio/SPL25-Assignment3/events"
)

// Summarize renders the accumulated events for (channel, user) as a
// human-readable game report. ok is false when the log holds no events for
// that pair, in which case nothing is rendered.
//
// The three statistic categories are each folded across all events into one
// mapping: later events overwrite earlier values for the same key, and keys
// are listed in the order they first appeared. The per-event report section
// lists every event in its original log order.
func (g *GameLog) Summarize(channel, user string) (string, bool) {
	history := g.Events(channel, user)
	if len(history) == 0 {
		return "", false
	}

	teamA, teamB := events.SplitChannel(channel)

	var general, statsA, statsB events.Updates
	for _, event := range history {
		foldUpdates(&general, event.GameUpdates)
		foldUpdates(&statsA, event.TeamAUpdates)
		foldUpdates(&statsB, event.TeamBUpdates)
	}

	var b strings.Builder

	b.WriteString(teamA + " vs " + teamB + "\n")
	b.WriteString("Game stats:\n")

	b.WriteString("General stats:\n")
	writeUpdates(&b, general)

	b.WriteString(teamA + " stats:\n")
	writeUpdates(&b, statsA)

	b.WriteString(teamB + " stats:\n")
	writeUpdates(&b, statsB)

	b.WriteString("Game event reports:\n")
	for _, event := range history {
		b.WriteString(strconv.Itoa(event.Time) + " - " + event.Name + ":\n\n")
		b.WriteString(event.Description + "\n\n")
	}

	return b.String(), true
}

func foldUpdates(into *events.Updates, from events.Updates) {
	for _, u := range from {
		into.Set(u.Key, u.Value)
	}
}

func writeUpdates(b *strings.Builder, updates events.Updates) {
	for _, u := range updates {
		b.WriteString(u.Key + ":" + u.Value + "\n")
	}
}
