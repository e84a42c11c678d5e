package codec

import "errors"

var (
	// ErrFormat is returned for malformed frames, invalid base64 and data that is not a zlib stream.
	ErrFormat = errors.New("format error")
	// ErrFrameTooLarge is returned when a payload does not fit the 8-digit length field.
	ErrFrameTooLarge = errors.New("frame payload too large")
)
