package envelope

import "errors"

var (
	// ErrDecryption is returned when an envelope cannot be opened with the given private key.
	ErrDecryption = errors.New("decryption error")
	// ErrKeyLoad is returned for unreadable or invalid PEM key files.
	ErrKeyLoad = errors.New("key load error")
	// ErrDependencyMissing is returned when no cryptographic randomness is available.
	ErrDependencyMissing = errors.New("cryptographic support unavailable")
)
