package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Compress returns the zlib stream of data at the default compression level.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	writer := zlib.NewWriter(&buf)

	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("compressing: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing compressor: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream.
// Data that is not a complete zlib stream yields ErrFormat.
func Decompress(data []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	defer reader.Close()

	var buf bytes.Buffer

	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("%w: decompressing: %w", ErrFormat, err)
	}

	return buf.Bytes(), nil
}
