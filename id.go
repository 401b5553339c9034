package objtree

import (
	"encoding/hex"
	"fmt"
	"unicode/utf8"
)

const (
	// Size is the width of an identifier in bytes.
	Size = 20
	// HexSize is the width of an identifier in hex characters.
	HexSize = 2 * Size
)

// ID is the content address of an object: the digest of its canonical encoding.
type ID [Size]byte

// ZeroID is the identifier with every byte zero. No object hashes to it in practice.
var ZeroID ID

// FromDigest wraps raw digest output. It panics if digest is not exactly Size bytes.
func FromDigest(digest []byte) ID {
	if len(digest) != Size {
		panic(fmt.Sprintf("objtree: digest is %d bytes, want %d", len(digest), Size))
	}
	var id ID
	copy(id[:], digest)
	return id
}

// ParseID decodes a 40 character hex string. Upper-case digits are accepted.
func ParseID(s string) (ID, error) {
	if len(s) != HexSize {
		return ZeroID, &InvalidIDLengthError{Len: len(s)}
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			r, _ := utf8.DecodeRuneInString(s[i:])
			return ZeroID, &InvalidIDCharacterError{Pos: i, Char: r}
		}
	}

	var id ID
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return ZeroID, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return id, nil
}

// MustParseID is like ParseID but panics on error. Intended for constants and tests.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// String returns the lowercase hex encoding.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns a copy of the raw identifier bytes.
func (id ID) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, id[:])
	return b
}

// IsZero reports whether id is ZeroID.
func (id ID) IsZero() bool {
	return id == ZeroID
}

// MarshalText encodes id as lowercase hex.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses hex text with ParseID.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
