package events

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrNotAReport   = errors.New("file is not a valid game report")
	ErrMissingTeams = errors.New("game report is missing team names")
)

// GameReport is the parsed contents of one events file: the two team names
// and the events in file order.
type GameReport struct {
	TeamA  string
	TeamB  string
	Events []Event
}

// Channel returns the pub/sub destination for this game.
func (r *GameReport) Channel() string {
	return r.TeamA + "_" + r.TeamB
}

// ParseEventsFile reads a JSON game report from path.
//
// Expected shape:
//
//	{
//	  "team a": "...",
//	  "team b": "...",
//	  "events": [
//	    {
//	      "event name": "...",
//	      "time": 30,
//	      "general game updates": { ... },
//	      "team a updates": { ... },
//	      "team b updates": { ... },
//	      "description": "..."
//	    }
//	  ]
//	}
//
// Event order and the key order inside each updates block follow the
// document, which is what the summary generator later relies on.
func ParseEventsFile(path string) (*GameReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%q: %w", path, ErrNotAReport)
	}

	parsed := gjson.ParseBytes(data)

	report := &GameReport{
		TeamA: parsed.Get("team a").String(),
		TeamB: parsed.Get("team b").String(),
	}

	if report.TeamA == "" || report.TeamB == "" {
		return nil, fmt.Errorf("%q: %w", path, ErrMissingTeams)
	}

	parsed.Get("events").ForEach(func(_, raw gjson.Result) bool {
		event := Event{
			TeamA:       report.TeamA,
			TeamB:       report.TeamB,
			Name:        raw.Get("event name").String(),
			Time:        int(raw.Get("time").Int()),
			Description: raw.Get("description").String(),
		}

		event.GameUpdates = parseUpdates(raw.Get("general game updates"))
		event.TeamAUpdates = parseUpdates(raw.Get("team a updates"))
		event.TeamBUpdates = parseUpdates(raw.Get("team b updates"))

		report.Events = append(report.Events, event)
		return true
	})

	return report, nil
}

func parseUpdates(raw gjson.Result) Updates {
	var updates Updates

	raw.ForEach(func(key, value gjson.Result) bool {
		updates.Set(key.String(), valueString(value))
		return true
	})

	return updates
}

// valueString renders a JSON scalar the way it appears in frame bodies and
// summaries: bare strings without quotes, everything else as raw JSON.
func valueString(value gjson.Result) string {
	if value.Type == gjson.String {
		return value.String()
	}

	return strings.TrimSpace(value.Raw)
}
