package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alon-amarilio/SPL25-Assignment3/events"
	"github.com/alon-amarilio/SPL25-Assignment3/pkg/metrics"
	"github.com/alon-amarilio/SPL25-Assignment3/protocol"
)

// HandleFrame applies one inbound frame to the session state. The return
// value is false when the receive loop must stop: either the server sent
// ERROR, or a receipt resolved the pending logout. Runs on the receive
// goroutine.
func (s *Session) HandleFrame(raw []byte) bool {
	frame := protocol.Parse(raw)

	metrics.FramesReceived.WithLabelValues(string(frame.Command)).Inc()

	switch frame.Command {
	case protocol.CONNECTED:
		s.mu.Lock()
		s.connected = true
		s.mu.Unlock()

		s.reportf("Login successful")

	case protocol.ERROR:
		s.reportf("%s", errorNotice(frame, raw))

		s.mu.Lock()
		s.connected = false
		s.mu.Unlock()

		s.terminate()
		return false

	case protocol.MESSAGE:
		s.handleMessage(frame, raw)

	case protocol.RECEIPT:
		return s.handleReceipt(frame)

	default:
		// Unknown or empty commands are dropped.
	}

	return true
}

func (s *Session) handleMessage(frame protocol.Frame, raw []byte) {
	destination, _ := frame.Header("destination")

	// Some servers prefix the destination with a path, e.g. "/topic/a_b".
	channel := destination
	if i := strings.LastIndexByte(destination, '/'); i >= 0 {
		channel = destination[i+1:]
	}

	event, user := events.DecodeBody(channel, frame.Body)

	// Our own events were logged when we sent them; re-appending the echo
	// would double-count them in summaries.
	if user != "" && user != s.username {
		s.gamelog.Append(channel, user, event)
	}

	// The raw frame is always shown, whether or not the body parsed.
	fmt.Fprintln(s.out, string(raw))
}

func (s *Session) handleReceipt(frame protocol.Frame) bool {
	value, ok := frame.Header("receipt-id")
	if !ok {
		return true
	}

	id, err := strconv.Atoi(value)
	if err != nil {
		// Malformed receipt ids are dropped without a notice.
		return true
	}

	s.mu.Lock()
	pending, ok := s.receipts[id]
	if ok {
		delete(s.receipts, id)
	}
	s.mu.Unlock()

	if !ok {
		// Stale, duplicate or unknown receipt.
		return true
	}

	if pending.terminate {
		s.mu.Lock()
		s.connected = false
		s.mu.Unlock()

		s.terminate()
		return false
	}

	s.reportf("%s", pending.confirm)
	return true
}

// errorNotice picks the most useful text from an ERROR frame: the message
// header when present, otherwise the body, otherwise the whole frame.
func errorNotice(frame protocol.Frame, raw []byte) string {
	if message, ok := frame.Header("message"); ok && message != "" {
		return message
	}

	if frame.Body != "" {
		return frame.Body
	}

	return string(raw)
}
