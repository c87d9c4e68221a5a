package digest

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Size is the length in bytes of a default representation.
const Size = 8

// ErrUnknownAlgorithm is returned for an unsupported algorithm name.
var ErrUnknownAlgorithm = errors.New("unknown digest algorithm")

// ErrInvalidLength is returned when bytes of the wrong length are parsed as a Digest.
var ErrInvalidLength = errors.New("invalid digest length")

// Algorithm names a 512-bit hash function.
type Algorithm string

const (
	// SHA512 is the default algorithm.
	SHA512 Algorithm = "sha512"
	// BLAKE2b512 uses golang.org/x/crypto/blake2b.
	BLAKE2b512 Algorithm = "blake2b-512"
	// SHA3512 uses golang.org/x/crypto/sha3.
	SHA3512 Algorithm = "sha3-512"
)

// Digest is a truncated name hash.
type Digest [Size]byte

// ParseAlgorithm maps a configuration string to an Algorithm. The empty
// string selects SHA512.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case "", SHA512:
		return SHA512, nil
	case BLAKE2b512:
		return BLAKE2b512, nil
	case SHA3512:
		return SHA3512, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// Sum hashes the UTF-8 bytes of name with alg and keeps the first Size bytes.
func Sum(alg Algorithm, name string) Digest {
	var full [64]byte
	switch alg {
	case BLAKE2b512:
		full = blake2b.Sum512([]byte(name))
	case SHA3512:
		full = sha3.Sum512([]byte(name))
	default:
		full = sha512.Sum512([]byte(name))
	}

	var d Digest
	copy(d[:], full[:Size])
	return d
}

// FromBytes converts an exactly Size-byte slice to a Digest.
func FromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != Size {
		return d, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(b), Size)
	}
	copy(d[:], b)
	return d, nil
}

// Bytes returns a fresh copy of the digest bytes.
func (d Digest) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, d[:])
	return out
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
