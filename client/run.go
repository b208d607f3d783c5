package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/alon-amarilio/SPL25-Assignment3/pkg/metrics"
	"github.com/alon-amarilio/SPL25-Assignment3/transport"
)

// Options configures the operator loop.
type Options struct {
	// Realm is the value of the CONNECT frame's host header.
	Realm string

	Log *zap.Logger

	// Dial opens the frame transport. Defaults to transport.Dial; tests
	// replace it with an in-memory conn.
	Dial func(ctx context.Context, host string, port int) (FrameConn, error)
}

// Run drives the operator loop: lines are read from in, notices are written
// to out. Only login is accepted while offline; a successful login starts a
// session with its own receive goroutine, and the loop feeds it commands
// until the session terminates. State never leaks across sessions, each
// login builds everything fresh.
//
// Run returns when in is exhausted or ctx is cancelled.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) error {
	if opts.Dial == nil {
		opts.Dial = func(ctx context.Context, host string, port int) (FrameConn, error) {
			return transport.Dial(ctx, host, port, opts.Log.Named("transport"))
		}
	}

	scanner := bufio.NewScanner(in)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if fields[0] != "login" {
			fmt.Fprintln(out, "Please login first")
			continue
		}

		runSession(ctx, fields, scanner, out, opts)
	}
}

func runSession(ctx context.Context, loginFields []string, scanner *bufio.Scanner, out io.Writer, opts Options) {
	if len(loginFields) < 4 {
		fmt.Fprintln(out, "Usage: login {host:port} {username} {password}")
		return
	}

	host, portText, found := strings.Cut(loginFields[1], ":")

	port, err := strconv.Atoi(portText)
	if !found || err != nil {
		fmt.Fprintln(out, "Usage: login {host:port} {username} {password}")
		return
	}

	conn, err := opts.Dial(ctx, host, port)
	if err != nil {
		opts.Log.Warn("Failed to connect", zap.String("host", host), zap.Int("port", port), zap.Error(err))
		fmt.Fprintln(out, "Could not connect to server")
		return
	}

	metrics.SessionsStarted.Inc()

	session := NewSession(conn, loginFields[2], opts.Realm, out, opts.Log.Named("session"))
	session.Connect(loginFields[3])

	var receiveWaiter sync.WaitGroup

	receiveWaiter.Add(1)
	go func() {
		defer receiveWaiter.Done()
		session.receiveLoop()
	}()

	for !session.terminated() {
		if ctx.Err() != nil {
			break
		}

		if !scanner.Scan() {
			// Operator input is gone; end the session from our side.
			break
		}

		session.HandleCommand(scanner.Text())
	}

	// Tearing down the transport unblocks the receive loop's pending read.
	session.terminate()
	conn.Close()
	receiveWaiter.Wait()

	fmt.Fprintln(out, "Client disconnected. Ready to login again.")
}

// receiveLoop consumes frames until the transport drops or a frame decides
// the session is over.
func (s *Session) receiveLoop() {
	for {
		raw, ok := s.conn.ReceiveFrame()
		if !ok {
			// Transport loss ends the session like a protocol error would.
			s.terminate()
			return
		}

		if !s.HandleFrame(raw) {
			return
		}

		if s.terminated() {
			return
		}
	}
}
