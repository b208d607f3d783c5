// Package client implements the session protocol engine: it turns operator
// commands into outgoing frames, applies incoming frames to the session
// state, and correlates receipts so confirmations and termination are driven
// by the server rather than assumed locally.
package client

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alon-amarilio/SPL25-Assignment3/pkg/metrics"
	"github.com/alon-amarilio/SPL25-Assignment3/protocol"
	"github.com/alon-amarilio/SPL25-Assignment3/storage"
)

// FrameConn is the transport the session talks through. transport.Conn
// implements it; tests substitute an in-memory conn.
type FrameConn interface {
	SendFrame(frame []byte) error
	ReceiveFrame() ([]byte, bool)
	Close() error
}

// pendingReceipt is the intent recorded when a frame carrying a receipt
// header is sent. Either a confirmation to print when the receipt arrives,
// or the terminate marker that ends the session.
type pendingReceipt struct {
	confirm   string
	terminate bool
}

// Session is the state of one login session. Both the operator goroutine
// (HandleCommand) and the receive goroutine (HandleFrame) mutate it; every
// read-modify-write of the fields below mu is serialized by it. No I/O
// happens while mu is held.
//
// A Session is single-use: once terminated it is discarded, and the next
// login builds a fresh one.
type Session struct {
	conn FrameConn

	username string
	realm    string

	out     io.Writer
	log     *zap.Logger
	gamelog *storage.GameLog

	mu            sync.Mutex
	connected     bool
	nextSubID     int
	nextReceiptID int
	subs          map[string]int
	receipts      map[int]pendingReceipt

	doneMu sync.Mutex
	done   chan struct{}
}

func NewSession(conn FrameConn, username, realm string, out io.Writer, log *zap.Logger) *Session {
	return &Session{
		conn:     conn,
		username: username,
		realm:    realm,
		out:      out,
		log:      log.With(zap.String("session", uuid.NewString())),
		gamelog:  storage.NewGameLog(),
		subs:     make(map[string]int),
		receipts: make(map[int]pendingReceipt),
		done:     make(chan struct{}),
	}
}

// Connect sends the opening CONNECT frame. The connected flag is only set
// once the server answers with CONNECTED.
func (s *Session) Connect(passcode string) {
	s.send(protocol.Frame{
		Command: protocol.CONNECT,
		Headers: []protocol.Header{
			protocol.H("accept-version", "1.2"),
			protocol.H("host", s.realm),
			protocol.H("login", s.username),
			protocol.H("passcode", passcode),
		},
	})
}

// GameLog exposes the per-channel event history accumulated this session.
func (s *Session) GameLog() *storage.GameLog {
	return s.gamelog
}

// Done is closed once the session has terminated, whichever side caused it.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// terminate flips the session into its terminal state. Safe to call from
// either goroutine, any number of times.
func (s *Session) terminate() {
	s.doneMu.Lock()
	defer s.doneMu.Unlock()

	select {
	case <-s.done:
		// Already terminated.
	default:
		close(s.done)
	}
}

// terminated is the lock-free fast path the loops use to decide whether to
// keep running.
func (s *Session) terminated() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Session) isConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.connected
}

// allocReceipt assigns the next receipt id and records the intent under the
// lock, before the caller transmits the frame. A RECEIPT can therefore never
// arrive ahead of its pending entry.
func (s *Session) allocReceipt(intent pendingReceipt) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextReceiptID
	s.nextReceiptID++
	s.receipts[id] = intent

	return id
}

func (s *Session) send(frame protocol.Frame) {
	metrics.FramesSent.WithLabelValues(string(frame.Command)).Inc()

	if err := s.conn.SendFrame(frame.Marshal()); err != nil {
		s.log.Warn("Failed to send frame",
			zap.String("command", string(frame.Command)),
			zap.Error(err))
	}
}

// reportf prints a user-visible notice on the operator's output.
func (s *Session) reportf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
