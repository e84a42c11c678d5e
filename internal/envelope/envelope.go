package envelope

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // OAEP with SHA-1 is part of the on-wire format
	"fmt"
	"io"

	"github.com/idelchi/gob64/internal/codec"
)

// SessionSize is the length of the random session value embedded in each envelope.
const SessionSize = 32

// Options selects the key files a Crypto capability is built from.
// Either path may be empty.
type Options struct {
	// PublicKey is the path of a PEM public key used for wrapping.
	PublicKey string

	// PrivateKey is the path of a PEM private key used for unwrapping.
	PrivateKey string

	// Random overrides the source of randomness. Defaults to crypto/rand.
	Random io.Reader
}

// Crypto is the key-based capability of a run.
// It is built once at startup and handed to the stages that need it.
type Crypto struct {
	sealer *Sealer
	opener *Opener
}

// New checks that cryptographic randomness is available and loads the configured keys.
func New(opts Options) (*Crypto, error) {
	random := opts.Random
	if random == nil {
		random = rand.Reader
	}

	probe := make([]byte, 1)
	if _, err := io.ReadFull(random, probe); err != nil {
		return nil, fmt.Errorf("%w: reading random source: %w", ErrDependencyMissing, err)
	}

	var c Crypto

	if opts.PublicKey != "" {
		pub, err := LoadPublicKey(opts.PublicKey)
		if err != nil {
			return nil, err
		}

		c.sealer = NewSealer(pub, random)
	}

	if opts.PrivateKey != "" {
		priv, err := LoadPrivateKey(opts.PrivateKey)
		if err != nil {
			return nil, err
		}

		c.opener = NewOpener(priv)
	}

	return &c, nil
}

// Sealer returns the wrapping side, or nil if no public key was configured.
func (c *Crypto) Sealer() *Sealer {
	return c.sealer
}

// Opener returns the unwrapping side, or nil if no private key was configured.
func (c *Crypto) Opener() *Opener {
	return c.opener
}

// Sealer wraps data for the holder of a private key.
type Sealer struct {
	key    *rsa.PublicKey
	random io.Reader
}

// NewSealer returns a Sealer for key. A nil random uses crypto/rand.
func NewSealer(key *rsa.PublicKey, random io.Reader) *Sealer {
	if random == nil {
		random = rand.Reader
	}

	return &Sealer{key: key, random: random}
}

// Wrap returns E || S || C for data.
func (s *Sealer) Wrap(data []byte) ([]byte, error) {
	session := make([]byte, SessionSize)
	if _, err := io.ReadFull(s.random, session); err != nil {
		return nil, fmt.Errorf("generating session value: %w", err)
	}

	compressed, err := codec.Compress(data)
	if err != nil {
		return nil, err
	}

	encrypted, err := rsa.EncryptOAEP(sha1.New(), s.random, s.key, session, nil) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("encrypting session value: %w", err)
	}

	out := make([]byte, 0, len(encrypted)+len(session)+len(compressed))
	out = append(out, encrypted...)
	out = append(out, session...)

	return append(out, compressed...), nil
}

// Opener unwraps envelopes produced for its key.
type Opener struct {
	key *rsa.PrivateKey
}

// NewOpener returns an Opener for key.
func NewOpener(key *rsa.PrivateKey) *Opener {
	return &Opener{key: key}
}

// Unwrap recovers the data sealed in an envelope.
func (o *Opener) Unwrap(data []byte) ([]byte, error) {
	size := o.key.Size()
	if len(data) < size {
		return nil, fmt.Errorf("%w: envelope of %d bytes is shorter than the %d-byte key block", ErrDecryption, len(data), size)
	}

	session, err := rsa.DecryptOAEP(sha1.New(), nil, o.key, data[:size], nil) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryption, err)
	}

	rest := data[size:]
	if len(rest) < len(session) {
		return nil, fmt.Errorf("%w: envelope truncated after key block", ErrDecryption)
	}

	plain, err := codec.Decompress(rest[len(session):])
	if err != nil {
		return nil, fmt.Errorf("envelope payload: %w", err)
	}

	return plain, nil
}
