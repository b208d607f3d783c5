package protocol

import (
	"strings"
)

// Parse decodes a single delimited frame.
//
// Parse is deliberately forgiving: input that cannot be interpreted as a
// frame (empty, missing blank line, stray bytes) yields a Frame with an
// empty Command and whatever headers/body could be recovered. Callers
// dispatch on Command and ignore frames they don't recognise, so a bad
// frame degrades to a no-op rather than an error.
func Parse(raw []byte) Frame {
	lines := strings.Split(string(raw), "\n")
	for i, line := range lines {
		lines[i] = trimTrailingCR(line)
	}

	frame := Frame{Command: Command(lines[0])}

	bodyStart := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == "" {
			bodyStart = i + 1
			break
		}

		key, value, found := strings.Cut(lines[i], ":")
		if !found {
			// A header line with no separator. Keep the key so the raw
			// frame can still be echoed faithfully.
			frame.Headers = append(frame.Headers, Header{Key: key})
			continue
		}

		frame.Headers = append(frame.Headers, Header{Key: key, Value: value})
	}

	if bodyStart >= 0 && bodyStart <= len(lines) {
		// Everything after the blank line is body, rejoined verbatim so a
		// body containing its own blank lines round-trips byte for byte.
		frame.Body = strings.Join(lines[bodyStart:], "\n")
	}

	return frame
}

func trimTrailingCR(line string) string {
	if len(line) > 0 && line[len(line)-1] == '\r' {
		// Remove the optional trailing \r
		return line[:len(line)-1]
	}

	return line
}
