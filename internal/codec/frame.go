package codec

import (
	"fmt"
	"strconv"
)

const (
	// LengthPrefixSize is the width of the decimal length field of a frame.
	LengthPrefixSize = 8
	// MaxFramePayload is the largest payload the length field can describe.
	MaxFramePayload = 99_999_999
)

// Frames is the result of splitting a buffer into frame payloads.
type Frames struct {
	// Payloads in file order. They alias the parsed buffer.
	Payloads [][]byte

	// Trailing counts bytes at the end of the buffer that did not form a complete frame.
	Trailing int
}

// WriteFrame prefixes payload with its length as 8 zero-padded decimal digits.
func WriteFrame(payload []byte) ([]byte, error) {
	if len(payload) > MaxFramePayload {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFrameTooLarge, len(payload), MaxFramePayload)
	}

	frame := make([]byte, 0, LengthPrefixSize+len(payload))
	frame = fmt.Appendf(frame, "%0*d", LengthPrefixSize, len(payload))

	return append(frame, payload...), nil
}

// ReadFrames splits buf into consecutive frames.
//
// Parsing stops when fewer than LengthPrefixSize bytes remain or a declared length
// runs past the end of buf. Such a partial frame is not an error; its size is
// reported in Frames.Trailing. A length field that is not all digits is ErrFormat.
func ReadFrames(buf []byte) (Frames, error) {
	var (
		frames Frames
		offset int
	)

	for offset+LengthPrefixSize <= len(buf) {
		length, err := parseLength(buf[offset : offset+LengthPrefixSize])
		if err != nil {
			return frames, fmt.Errorf("frame at offset %d: %w", offset, err)
		}

		start := offset + LengthPrefixSize
		if start+length > len(buf) {
			break
		}

		frames.Payloads = append(frames.Payloads, buf[start:start+length:start+length])
		offset = start + length
	}

	frames.Trailing = len(buf) - offset

	return frames, nil
}

// parseLength decodes a fixed-width decimal length field.
func parseLength(field []byte) (int, error) {
	for _, c := range field {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: invalid length field %q", ErrFormat, field)
		}
	}

	length, err := strconv.Atoi(string(field))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid length field %q: %w", ErrFormat, field, err)
	}

	return length, nil
}
