package protocol

import (
	"bytes"
)

// Marshal renders the frame as wire bytes, without the transport delimiter.
//
// Header order is preserved exactly as given. Header values are written
// unescaped; a value containing '\n' or ':' produces a malformed frame.
func (f Frame) Marshal() []byte {
	var buf bytes.Buffer

	buf.WriteString(string(f.Command))
	buf.WriteByte('\n')

	for _, h := range f.Headers {
		buf.WriteString(h.Key)
		buf.WriteByte(':')
		buf.WriteString(h.Value)
		buf.WriteByte('\n')
	}

	buf.WriteByte('\n')
	buf.WriteString(f.Body)

	return buf.Bytes()
}
