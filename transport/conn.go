package transport

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Terminator delimits frames on the wire. It is appended to every outgoing
// frame and consumed from every incoming one; the frame bytes handed to and
// from callers never contain it.
const Terminator byte = '\x00'

// Conn is one client connection to the game-update server.
//
// Reads are single-consumer: exactly one goroutine calls ReceiveFrame.
// Writes may come from any goroutine and are serialized internally.
type Conn struct {
	conn *net.TCPConn
	r    *bufio.Reader

	writeMu sync.Mutex

	log *zap.Logger
}

// Dial opens a TCP connection to host:port.
func Dial(ctx context.Context, host string, port int, log *zap.Logger) (*Conn, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	tcpConn := conn.(*net.TCPConn)

	return &Conn{
		conn: tcpConn,
		r:    bufio.NewReader(tcpConn),
		log:  log,
	}, nil
}

// SendFrame writes one frame followed by the terminator.
func (c *Conn) SendFrame(frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	data := make([]byte, 0, len(frame)+1)
	data = append(data, frame...)
	data = append(data, Terminator)

	_, err := c.conn.Write(data)
	return err
}

// ReceiveFrame blocks until one terminator-delimited frame has been read.
// ok is false once the peer has disconnected or Close was called; the
// pending read is unblocked by closing the underlying socket.
func (c *Conn) ReceiveFrame() ([]byte, bool) {
	data, err := c.r.ReadBytes(Terminator)
	if err != nil {
		c.log.Debug("Connection read ended", zap.Error(err))
		return nil, false
	}

	// Strip the terminator
	return data[:len(data)-1], true
}

func (c *Conn) Close() error {
	return c.conn.Close()
}
