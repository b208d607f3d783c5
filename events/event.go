// Package events holds the game event model, the report-file parser and the
// MESSAGE body codec shared by the client and the summary generator.
package events

// Update is a single statistic entry, e.g. "goals" -> "2".
type Update struct {
	Key   string
	Value string
}

// Updates is an insertion-ordered statistic mapping. Order matters: the
// summary generator emits statistics in the order they first appeared.
type Updates []Update

// Get returns the value for key, if present.
func (u Updates) Get(key string) (string, bool) {
	for _, entry := range u {
		if entry.Key == key {
			return entry.Value, true
		}
	}

	return "", false
}

// Set inserts or overwrites key. An existing key keeps its original
// position, so repeated writes are last-write-wins on the value only.
func (u *Updates) Set(key, value string) {
	for i, entry := range *u {
		if entry.Key == key {
			(*u)[i].Value = value
			return
		}
	}

	*u = append(*u, Update{Key: key, Value: value})
}

// Event is one reported game occurrence. Events are immutable once built:
// they are appended to the game log and read back for summaries, never
// edited in place.
type Event struct {
	TeamA string
	TeamB string

	Name string
	Time int

	GameUpdates  Updates
	TeamAUpdates Updates
	TeamBUpdates Updates

	Description string
}
