package envelope

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

const (
	pemPrivatePKCS1 = "RSA PRIVATE KEY"
	pemPrivatePKCS8 = "PRIVATE KEY"
	pemPublicPKIX   = "PUBLIC KEY"
	pemPublicPKCS1  = "RSA PUBLIC KEY"
)

// ParsePublicKey decodes a PEM encoded RSA public key in PKIX or PKCS#1 form.
func ParsePublicKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrKeyLoad)
	}

	switch block.Type {
	case pemPublicPKIX:
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing public key: %w", ErrKeyLoad, err)
		}

		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: public key is %T, not RSA", ErrKeyLoad, key)
		}

		return rsaKey, nil
	case pemPublicPKCS1:
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing public key: %w", ErrKeyLoad, err)
		}

		return key, nil
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q for a public key", ErrKeyLoad, block.Type)
	}
}

// ParsePrivateKey decodes a PEM encoded RSA private key in PKCS#1 or PKCS#8 form.
func ParsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrKeyLoad)
	}

	switch block.Type {
	case pemPrivatePKCS1:
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing private key: %w", ErrKeyLoad, err)
		}

		return key, nil
	case pemPrivatePKCS8:
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing private key: %w", ErrKeyLoad, err)
		}

		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: private key is %T, not RSA", ErrKeyLoad, key)
		}

		return rsaKey, nil
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q for a private key", ErrKeyLoad, block.Type)
	}
}

// LoadPublicKey reads and parses a PEM public key file.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %w", ErrKeyLoad, path, err)
	}

	key, err := ParsePublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}

	return key, nil
}

// LoadPrivateKey reads and parses a PEM private key file.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %w", ErrKeyLoad, path, err)
	}

	key, err := ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}

	return key, nil
}

// EncodePrivateKey renders key as a PKCS#1 PEM block.
func EncodePrivateKey(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  pemPrivatePKCS1,
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

// EncodePublicKey renders key as a PKIX PEM block.
func EncodePublicKey(key *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("marshalling public key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: pemPublicPKIX, Bytes: der}), nil
}

// GenerateKeyPair creates a new RSA key of the given size in bits.
func GenerateKeyPair(bits int) (*rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("generating %d-bit key: %w", bits, err)
	}

	return key, nil
}

// WriteKeyPair stores key as a public and a private PEM file.
// The private key is only readable by its owner.
func WriteKeyPair(key *rsa.PrivateKey, publicPath, privatePath string) error {
	const (
		ownerReadWrite = 0o600
		worldReadable  = 0o644
	)

	public, err := EncodePublicKey(&key.PublicKey)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Clean(privatePath), EncodePrivateKey(key), ownerReadWrite); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}

	//nolint:gosec // public keys are meant to be shared
	if err := os.WriteFile(filepath.Clean(publicPath), public, worldReadable); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}

	return nil
}
