package protocol

type Command string

// Client commands.
const (
	CONNECT     Command = "CONNECT"
	SUBSCRIBE   Command = "SUBSCRIBE"
	UNSUBSCRIBE Command = "UNSUBSCRIBE"
	SEND        Command = "SEND"
	DISCONNECT  Command = "DISCONNECT"
)

// Server commands.
const (
	CONNECTED Command = "CONNECTED"
	MESSAGE   Command = "MESSAGE"
	RECEIPT   Command = "RECEIPT"
	ERROR     Command = "ERROR"
)
