package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/multierr"

	"github.com/alon-amarilio/SPL25-Assignment3/events"
)

var ErrBadSnapshot = errors.New("snapshot is not valid JSON")

// Snapshot JSON shape, per channel and user:
//
//	{ "<channel>": { "<user>": [ { "event name": ..., "time": ...,
//	  "general game updates": [{"key":...,"value":...}], ... } ] } }
//
// Update blocks are arrays of key/value pairs rather than objects so their
// order survives the round trip.
type eventSnapshot struct {
	Name        string           `json:"event name"`
	Time        int              `json:"time"`
	General     []updateSnapshot `json:"general game updates"`
	TeamA       []updateSnapshot `json:"team a updates"`
	TeamB       []updateSnapshot `json:"team b updates"`
	Description string           `json:"description"`
}

type updateSnapshot struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Backup serialises the whole log as JSON.
func (g *GameLog) Backup() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := []byte("{}")

	var err error

	for channel, users := range g.log {
		for user, history := range users {
			entries := make([]eventSnapshot, 0, len(history))
			for _, event := range history {
				entries = append(entries, encodeSnapshot(event))
			}

			path := escapePath(channel) + "." + escapePath(user)

			out, err = sjson.SetBytes(out, path, entries)
			if err != nil {
				return nil, fmt.Errorf("failed to snapshot %s/%s: %w", channel, user, err)
			}
		}
	}

	return out, nil
}

// Restore replaces the log contents with a snapshot previously produced by
// Backup. Malformed entries are collected and reported together; nothing is
// replaced unless the whole snapshot decodes.
func (g *GameLog) Restore(data []byte) error {
	if !gjson.ValidBytes(data) {
		return ErrBadSnapshot
	}

	restored := make(map[string]map[string][]events.Event)

	var errs error

	gjson.ParseBytes(data).ForEach(func(channelKey, users gjson.Result) bool {
		channel := channelKey.String()

		if !users.IsObject() {
			errs = multierr.Append(errs, fmt.Errorf("channel %q: expected an object", channel))
			return true
		}

		restored[channel] = make(map[string][]events.Event)

		users.ForEach(func(userKey, history gjson.Result) bool {
			user := userKey.String()

			if !history.IsArray() {
				errs = multierr.Append(errs, fmt.Errorf("channel %q user %q: expected an array", channel, user))
				return true
			}

			history.ForEach(func(_, raw gjson.Result) bool {
				restored[channel][user] = append(restored[channel][user], decodeSnapshot(channel, raw))
				return true
			})

			return true
		})

		return true
	})

	if errs != nil {
		return errs
	}

	g.mu.Lock()
	g.log = restored
	g.mu.Unlock()

	return nil
}

func encodeSnapshot(event events.Event) eventSnapshot {
	return eventSnapshot{
		Name:        event.Name,
		Time:        event.Time,
		General:     encodeUpdates(event.GameUpdates),
		TeamA:       encodeUpdates(event.TeamAUpdates),
		TeamB:       encodeUpdates(event.TeamBUpdates),
		Description: event.Description,
	}
}

func encodeUpdates(updates events.Updates) []updateSnapshot {
	out := make([]updateSnapshot, 0, len(updates))
	for _, u := range updates {
		out = append(out, updateSnapshot{Key: u.Key, Value: u.Value})
	}

	return out
}

func decodeSnapshot(channel string, raw gjson.Result) events.Event {
	teamA, teamB := events.SplitChannel(channel)

	event := events.Event{
		TeamA:       teamA,
		TeamB:       teamB,
		Name:        raw.Get("event name").String(),
		Time:        int(raw.Get("time").Int()),
		Description: raw.Get("description").String(),
	}

	event.GameUpdates = decodeUpdates(raw.Get("general game updates"))
	event.TeamAUpdates = decodeUpdates(raw.Get("team a updates"))
	event.TeamBUpdates = decodeUpdates(raw.Get("team b updates"))

	return event
}

func decodeUpdates(raw gjson.Result) events.Updates {
	var updates events.Updates

	raw.ForEach(func(_, pair gjson.Result) bool {
		updates.Set(pair.Get("key").String(), pair.Get("value").String())
		return true
	})

	return updates
}

// escapePath escapes sjson/gjson path metacharacters in channel and user
// names so they act as literal object keys.
func escapePath(key string) string {
	return strings.NewReplacer(
		".", `\.`,
		"*", `\*`,
		"?", `\?`,
	).Replace(key)
}
