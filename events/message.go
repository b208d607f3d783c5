package events

import (
	"strconv"
	"strings"
)

// EncodeBody renders the SEND frame body for one event, published by user.
//
// The body is line oriented: labeled scalar fields, then the three update
// blocks each introduced by its section label, then the free-text
// description. The receiving side only needs the labeled scalars, but the
// update blocks let other subscribers rebuild complete summaries.
func EncodeBody(user string, event Event) string {
	var b strings.Builder

	b.WriteString("user:" + user + "\n")
	b.WriteString("team a:" + event.TeamA + "\n")
	b.WriteString("team b:" + event.TeamB + "\n")
	b.WriteString("event name:" + event.Name + "\n")
	b.WriteString("time:" + strconv.Itoa(event.Time) + "\n")

	b.WriteString("general game updates:\n")
	for _, u := range event.GameUpdates {
		b.WriteString(u.Key + ":" + u.Value + "\n")
	}

	b.WriteString("team a updates:\n")
	for _, u := range event.TeamAUpdates {
		b.WriteString(u.Key + ":" + u.Value + "\n")
	}

	b.WriteString("team b updates:\n")
	for _, u := range event.TeamBUpdates {
		b.WriteString(u.Key + ":" + u.Value + "\n")
	}

	b.WriteString("description:\n")
	b.WriteString(event.Description)

	return b.String()
}

// DecodeBody extracts an event from an inbound MESSAGE body.
//
// Only the fields a summary needs are recovered: the publishing user, the
// event name, time and description. Team names are inferred from the
// channel name rather than the body, and the per-statistic blocks are left
// empty. Returns the publishing user alongside the event; user is "" when
// the body carried no user label.
func DecodeBody(channel, body string) (Event, string) {
	teamA, teamB := SplitChannel(channel)

	event := Event{
		TeamA: teamA,
		TeamB: teamB,
	}

	var user string

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "user:"):
			user = strings.TrimPrefix(line, "user:")

		case strings.HasPrefix(line, "event name:"):
			event.Name = strings.TrimPrefix(line, "event name:")

		case strings.HasPrefix(line, "time:"):
			// A malformed time leaves the zero value in place.
			event.Time, _ = strconv.Atoi(strings.TrimPrefix(line, "time:"))

		case line == "description:":
			event.Description = strings.Join(lines[i+1:], "\n")
			return event, user

		case strings.HasPrefix(line, "description:"):
			event.Description = strings.TrimPrefix(line, "description:")
			return event, user
		}
	}

	return event, user
}

// SplitChannel derives the two team display names from a channel name of
// the form "<teamA>_<teamB>". A channel with no underscore yields the whole
// name as team A and an empty team B.
func SplitChannel(channel string) (teamA, teamB string) {
	teamA, teamB, _ = strings.Cut(channel, "_")
	return teamA, teamB
}
