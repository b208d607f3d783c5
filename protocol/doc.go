package protocol

// This package implements parsing and serialising of the STOMP 1.2 frames
// that the client exchanges with the game-update server.
//
// A frame looks like
//
//   ```
//     COMMAND\n
//     header1:value1\n
//     header2:value2\n
//     \n
//     [body]
//   ```
//
// and is delimited on the wire by a single NUL byte. The transport owns the
// delimiter: Marshal produces the frame text only, and Parse receives one
// already-delimited frame.
//
// - `Command` - the first line of every frame (e.g. 'SUBSCRIBE')
// - `Header`  - a single `key:value` pair. Header order is preserved as
//               written/received, but lookups are always by key name.
// - `Body`    - everything after the first blank line, verbatim.
//
// === Client frames
//
// - `CONNECT`     - open a session (accept-version, host, login, passcode)
// - `SUBSCRIBE`   - join a game channel (destination, id, receipt)
// - `UNSUBSCRIBE` - leave a game channel (id, receipt)
// - `SEND`        - publish one game event to a channel (destination)
// - `DISCONNECT`  - close the session (receipt)
//
// === Server frames
//
// - `CONNECTED` - the session is open
// - `MESSAGE`   - an event published to a channel we subscribe to
// - `RECEIPT`   - acknowledges a client frame that carried a receipt header
// - `ERROR`     - the server is about to close the connection
//
// === General syntax
//
// - lines are `\n` delimited; a trailing `\r` on any line is stripped, as
//   some servers emit CRLF line endings
// - header values are written as-is. There is no escaping, so a value
//   containing `\n` or `:` produces a malformed frame. Free text (usernames,
//   descriptions) inherits this limitation.
//
// Parse never fails hard: input that isn't a frame yields a Frame with an
// empty Command, which callers treat as a no-op.
