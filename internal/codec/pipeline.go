package codec

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
)

// discardLogger is used when a Pipeline has no Logger.
//
//nolint:gochecknoglobals
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Wrapper seals a transformed chunk, e.g. with a public key.
type Wrapper interface {
	Wrap(data []byte) ([]byte, error)
}

// Unwrapper reverses a Wrapper.
type Unwrapper interface {
	Unwrap(data []byte) ([]byte, error)
}

// Pipeline holds the read-only configuration shared by all chunk transforms.
// It is safe for concurrent use as long as Wrapper and Unwrapper are.
type Pipeline struct {
	// Salt is prepended to every chunk before any other stage. Empty disables salting.
	Salt string

	// Compress enables zlib compression on encode.
	Compress bool

	// Wrapper, when set, wraps every chunk on encode.
	Wrapper Wrapper

	// Unwrapper, when set, unwraps every chunk on decode.
	Unwrapper Unwrapper

	// Lenient passes the stage input through when wrapping or unwrapping fails,
	// instead of failing the chunk.
	Lenient bool

	// Logger receives per-chunk diagnostics. Nil discards them.
	Logger *slog.Logger
}

// EncodeChunk runs the forward transform and returns one complete frame.
func (p *Pipeline) EncodeChunk(index int, chunk []byte) ([]byte, error) {
	data := Salt(chunk, p.Salt)

	if p.Compress {
		compressed, err := Compress(data)
		if err != nil {
			return nil, err
		}

		data = compressed
	}

	if p.Wrapper != nil {
		wrapped, err := p.Wrapper.Wrap(data)

		switch {
		case err == nil:
			data = wrapped
		case p.Lenient:
			p.logger().Warn("wrapping failed, chunk left unwrapped", "chunk", index, "error", err)
		default:
			return nil, fmt.Errorf("wrapping: %w", err)
		}
	}

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(encoded, data)

	return WriteFrame(encoded)
}

// DecodeChunk runs the reverse transform on a frame payload.
// Bytes outside the base64 alphabet (other than CR and LF) fail the frame with ErrFormat.
func (p *Pipeline) DecodeChunk(index int, payload []byte) ([]byte, error) {
	data := make([]byte, base64.StdEncoding.DecodedLen(len(payload)))

	n, err := base64.StdEncoding.Decode(data, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding base64: %w", ErrFormat, err)
	}

	data = data[:n]

	if p.Unwrapper != nil {
		unwrapped, err := p.Unwrapper.Unwrap(data)

		switch {
		case err == nil:
			data = unwrapped
		case p.Lenient:
			p.logger().Warn("unwrapping failed, chunk kept as is", "chunk", index, "error", err)
		default:
			return nil, fmt.Errorf("unwrapping: %w", err)
		}
	}

	// No flag records whether compression was applied, so decompression is attempted
	// on every chunk.
	if inflated, err := Decompress(data); err == nil {
		data = inflated
	} else {
		p.logger().Debug("chunk is not compressed, using raw bytes", "chunk", index, "error", err)
	}

	unsalted, result := Unsalt(data, p.Salt)

	switch result {
	case SaltFallback:
		p.logger().Warn("salt tag mismatch, stripped up to first delimiter", "chunk", index)
	case SaltMissing:
		p.logger().Warn("salt delimiter not found, chunk kept as is", "chunk", index)
	case SaltNone, SaltExact:
	}

	return unsalted, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return discardLogger
	}

	return p.Logger
}
