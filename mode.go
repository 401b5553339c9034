package objtree

import (
	"fmt"
	"io/fs"
	"strconv"
)

// Mode is the kind of a tree entry, stored as its numeric code.
type Mode uint32

const (
	ModeDir               Mode = 0o040000
	ModeFile              Mode = 0o100644
	ModeGroupWritableFile Mode = 0o100664
	ModeExecutable        Mode = 0o100755
	ModeSymlink           Mode = 0o120000
	// ModeGitlink reserves the code for a reference into another object store.
	ModeGitlink Mode = 0o160000
)

// ObjectType is the envelope tag of an encoded object.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// String returns the zero-padded 6-digit octal code used in tree encodings.
func (m Mode) String() string {
	return fmt.Sprintf("%06o", uint32(m))
}

func (m Mode) IsDir() bool { return m == ModeDir }

// Valid reports whether m is one of the six known codes.
func (m Mode) Valid() bool {
	switch m {
	case ModeDir, ModeFile, ModeGroupWritableFile, ModeExecutable, ModeSymlink, ModeGitlink:
		return true
	}
	return false
}

// ObjectType returns the kind of object an entry with this mode refers to.
func (m Mode) ObjectType() ObjectType {
	switch m {
	case ModeDir:
		return TypeTree
	case ModeGitlink:
		return TypeCommit
	}
	return TypeBlob
}

// ParseMode parses an octal mode code. Unpadded codes such as "40000" are accepted.
func ParseMode(s string) (Mode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	m := Mode(v)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidMode, m)
	}
	return m, nil
}

// ModeOf classifies lstat metadata. Only type bits and permission bits are consulted.
func ModeOf(fm fs.FileMode) Mode {
	return modeOf(fm, hasPOSIXPerms)
}

func modeOf(fm fs.FileMode, posix bool) Mode {
	switch {
	case fm.IsDir():
		return ModeDir
	case fm&fs.ModeSymlink != 0:
		return ModeSymlink
	case !posix:
		return ModeFile
	case fm&0o100 != 0:
		return ModeExecutable
	case fm&0o020 != 0:
		return ModeGroupWritableFile
	}
	return ModeFile
}
