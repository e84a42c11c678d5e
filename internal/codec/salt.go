package codec

import "bytes"

// Delimiter separates the salt tag from the chunk plaintext.
const Delimiter = "SALT_DELIMITER"

// SaltResult describes how Unsalt recovered the plaintext.
type SaltResult int

const (
	// SaltNone means no tag was configured and the data was returned as is.
	SaltNone SaltResult = iota
	// SaltExact means the data carried the expected tag and delimiter.
	SaltExact
	// SaltFallback means the tag did not match and everything up to the first delimiter was stripped.
	SaltFallback
	// SaltMissing means the tag did not match and no delimiter was found, so the data is unchanged.
	SaltMissing
)

// String returns a short name for logs.
func (r SaltResult) String() string {
	switch r {
	case SaltNone:
		return "none"
	case SaltExact:
		return "exact"
	case SaltFallback:
		return "fallback"
	case SaltMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Salt prepends tag and the delimiter to data.
// An empty tag leaves data untouched.
func Salt(data []byte, tag string) []byte {
	if tag == "" {
		return data
	}

	out := make([]byte, 0, len(tag)+len(Delimiter)+len(data))
	out = append(out, tag...)
	out = append(out, Delimiter...)

	return append(out, data...)
}

// Unsalt removes the prefix written by Salt.
//
// The expected prefix has a known length, so when it matches the plaintext is never
// scanned and may itself contain the delimiter. Only a mismatching tag triggers the
// delimiter search.
func Unsalt(data []byte, tag string) ([]byte, SaltResult) {
	if tag == "" {
		return data, SaltNone
	}

	prefixLen := len(tag) + len(Delimiter)

	if len(data) >= prefixLen &&
		string(data[:len(tag)]) == tag &&
		string(data[len(tag):prefixLen]) == Delimiter {
		return data[prefixLen:], SaltExact
	}

	idx := bytes.Index(data, []byte(Delimiter))
	if idx == -1 {
		return data, SaltMissing
	}

	return data[idx+len(Delimiter):], SaltFallback
}
