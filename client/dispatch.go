package client

import (
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/alon-amarilio/SPL25-Assignment3/events"
	"github.com/alon-amarilio/SPL25-Assignment3/pkg/metrics"
	"github.com/alon-amarilio/SPL25-Assignment3/protocol"
)

// HandleCommand dispatches one line of operator input: validation, state
// mutation, frame construction and transmission, one case per command.
// Runs on the operator goroutine.
func (s *Session) HandleCommand(line string) {
	if s.terminated() {
		// The session is over; nothing may be sent any more.
		return
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	command := fields[0]

	if command == "login" {
		s.reportf("The client is already logged in, log out before trying again")
		return
	}

	if !s.isConnected() {
		s.reportf("Please login first")
		return
	}

	switch command {
	case "join":
		s.join(fields[1:])

	case "exit":
		s.exit(fields[1:])

	case "report":
		s.report(fields[1:])

	case "summary":
		s.summary(fields[1:])

	case "logout":
		s.logout()

	default:
		// Unrecognised commands are dropped without a notice.
	}
}

func (s *Session) join(args []string) {
	if len(args) < 1 {
		s.reportf("Usage: join {channel}")
		return
	}

	channel := args[0]

	s.mu.Lock()
	subID := s.nextSubID
	s.nextSubID++
	s.subs[channel] = subID

	receiptID := s.nextReceiptID
	s.nextReceiptID++
	s.receipts[receiptID] = pendingReceipt{confirm: "Joined channel " + channel}
	s.mu.Unlock()

	s.send(protocol.Frame{
		Command: protocol.SUBSCRIBE,
		Headers: []protocol.Header{
			protocol.H("destination", channel),
			protocol.H("id", itoa(subID)),
			protocol.H("receipt", itoa(receiptID)),
		},
	})
}

func (s *Session) exit(args []string) {
	if len(args) < 1 {
		s.reportf("Usage: exit {channel}")
		return
	}

	channel := args[0]

	s.mu.Lock()
	subID, ok := s.subs[channel]
	if !ok {
		s.mu.Unlock()
		s.reportf("Not subscribed to channel %s", channel)
		return
	}

	delete(s.subs, channel)

	receiptID := s.nextReceiptID
	s.nextReceiptID++
	s.receipts[receiptID] = pendingReceipt{confirm: "Exited channel " + channel}
	s.mu.Unlock()

	s.send(protocol.Frame{
		Command: protocol.UNSUBSCRIBE,
		Headers: []protocol.Header{
			protocol.H("id", itoa(subID)),
			protocol.H("receipt", itoa(receiptID)),
		},
	})
}

func (s *Session) report(args []string) {
	if len(args) < 1 {
		s.reportf("Usage: report {file}")
		return
	}

	path := args[0]

	gameReport, err := events.ParseEventsFile(path)
	if err != nil {
		s.log.Warn("Failed to parse events file", zap.String("path", path), zap.Error(err))
		s.reportf("Could not load events file %s", path)
		return
	}

	channel := gameReport.Channel()

	for _, event := range gameReport.Events {
		s.send(protocol.Frame{
			Command: protocol.SEND,
			Headers: []protocol.Header{
				protocol.H("destination", channel),
			},
			Body: events.EncodeBody(s.username, event),
		})

		// Record our own events as we send them, so a summary of what we
		// published doesn't depend on the server echoing them back.
		s.gamelog.Append(channel, s.username, event)
		metrics.EventsReported.Inc()
	}
}

func (s *Session) summary(args []string) {
	if len(args) < 3 {
		s.reportf("Usage: summary {channel} {user} {file}")
		return
	}

	channel, user, path := args[0], args[1], args[2]

	text, ok := s.gamelog.Summarize(channel, user)
	if !ok {
		s.reportf("No events recorded for %s in channel %s", user, channel)
		return
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		s.log.Warn("Failed to write summary", zap.String("path", path), zap.Error(err))
		s.reportf("Could not write summary to %s", path)
		return
	}

	s.reportf("Summary written to %s", path)
}

func (s *Session) logout() {
	receiptID := s.allocReceipt(pendingReceipt{terminate: true})

	s.send(protocol.Frame{
		Command: protocol.DISCONNECT,
		Headers: []protocol.Header{
			protocol.H("receipt", itoa(receiptID)),
		},
	})
}
