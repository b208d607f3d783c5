package protocol

// Header is a single `key:value` frame header.
type Header struct {
	Key   string
	Value string
}

// Frame is one decoded protocol message.
//
// Headers keep the order they were written or received in, which only
// affects the wire bytes. Correlation is always done by key name via
// Header(), never by position.
type Frame struct {
	Command Command
	Headers []Header
	Body    string
}

// Header returns the value of the first header with the given key.
func (f Frame) Header(key string) (string, bool) {
	for _, h := range f.Headers {
		if h.Key == key {
			return h.Value, true
		}
	}

	return "", false
}

// H is a convenience constructor for header lists.
func H(key, value string) Header {
	return Header{Key: key, Value: value}
}
