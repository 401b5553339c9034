package objtree

import (
	"crypto/sha1"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Algorithm names a 160-bit digest function used to derive identifiers.
type Algorithm string

const (
	// SHA1 is the reference scheme; identifiers match git's for blobs.
	SHA1 Algorithm = "sha1"
	// SHAKE256 is SHAKE256 with its output truncated to Size bytes.
	SHAKE256 Algorithm = "shake256-160"
)

// DefaultAlgorithm is used by Blob.ID and Tree.ID.
const DefaultAlgorithm = SHA1

// SupportedAlgorithms lists every accepted Algorithm name.
func SupportedAlgorithms() []string {
	return []string{string(SHA1), string(SHAKE256)}
}

// ParseAlgorithm resolves a name case-insensitively.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case SHA1, "sha-1", "":
		return SHA1, nil
	case SHAKE256, "shake256":
		return SHAKE256, nil
	}
	return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnknownAlgorithm, name, strings.Join(SupportedAlgorithms(), ", "))
}

// Sum digests data. An unknown algorithm is a programming error and panics.
func (a Algorithm) Sum(data []byte) ID {
	switch a {
	case SHA1, "":
		return ID(sha1.Sum(data))
	case SHAKE256:
		var id ID
		sha3.ShakeSum256(id[:], data)
		return id
	}
	panic(fmt.Sprintf("objtree: unknown digest algorithm %q", string(a)))
}

// Object is anything with a canonical encoding.
type Object interface {
	Type() ObjectType
	Encode() []byte
}

// HashObject derives the identifier of obj under alg.
func HashObject(alg Algorithm, obj Object) ID {
	return alg.Sum(obj.Encode())
}
