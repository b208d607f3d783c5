// Package storage keeps the per-channel, per-user history of reported game
// events for the lifetime of one session, and renders summaries from it.
package storage

import (
	"sync"

	"github.com/alon-amarilio/SPL25-Assignment3/events"
)

// GameLog records every event seen on every channel, keyed by channel name
// and then by the publishing user. Entries are append-only and ordered by
// arrival; nothing is pruned while the session lives.
type GameLog struct {
	mu sync.Mutex

	// channel -> user -> events in arrival order
	log map[string]map[string][]events.Event
}

func NewGameLog() *GameLog {
	return &GameLog{
		log: make(map[string]map[string][]events.Event),
	}
}

// Append records one event published by user on channel.
func (g *GameLog) Append(channel, user string, event events.Event) {
	g.mu.Lock()
	defer g.mu.Unlock()

	users, ok := g.log[channel]
	if !ok {
		users = make(map[string][]events.Event)
		g.log[channel] = users
	}

	users[user] = append(users[user], event)
}

// Events returns a copy of the event history for (channel, user), in the
// order the events were appended.
func (g *GameLog) Events(channel, user string) []events.Event {
	g.mu.Lock()
	defer g.mu.Unlock()

	history := g.log[channel][user]
	if len(history) == 0 {
		return nil
	}

	out := make([]events.Event, len(history))
	copy(out, history)

	return out
}

// Users returns the users that have published on channel.
func (g *GameLog) Users(channel string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	users := make([]string, 0, len(g.log[channel]))
	for user := range g.log[channel] {
		users = append(users, user)
	}

	return users
}
