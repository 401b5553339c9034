package objtree

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	ErrNotFound         = errors.New("objtree: not found")
	ErrNotADirectory    = errors.New("objtree: not a directory")
	ErrDuplicateEntry   = errors.New("objtree: duplicate entry name")
	ErrEmptyName        = errors.New("objtree: empty entry name")
	ErrInvalidName      = errors.New("objtree: invalid entry name")
	ErrInvalidMode      = errors.New("objtree: invalid entry mode")
	ErrInvalidID        = errors.New("objtree: invalid identifier")
	ErrMalformedObject  = errors.New("objtree: malformed object")
	ErrCorruptObject    = errors.New("objtree: corrupt object")
	ErrUnknownAlgorithm = errors.New("objtree: unknown digest algorithm")
)

// IOError reports a filesystem failure while reading an entry.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("objtree: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ioError flattens *fs.PathError so the path is reported once.
func ioError(op, path string, err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return &IOError{Op: pe.Op, Path: pe.Path, Err: pe.Err}
	}
	return &IOError{Op: op, Path: path, Err: err}
}

// InvalidIDLengthError is returned by ParseID when the input is not 2*Size characters.
type InvalidIDLengthError struct {
	Len int
}

func (e *InvalidIDLengthError) Error() string {
	return fmt.Sprintf("objtree: identifier hex length is %d, want %d", e.Len, HexSize)
}

func (e *InvalidIDLengthError) Is(target error) bool { return target == ErrInvalidID }

// InvalidIDCharacterError is returned by ParseID for the first non-hex character.
type InvalidIDCharacterError struct {
	Pos  int
	Char rune
}

func (e *InvalidIDCharacterError) Error() string {
	return fmt.Sprintf("objtree: invalid hex character %q at position %d", e.Char, e.Pos)
}

func (e *InvalidIDCharacterError) Is(target error) bool { return target == ErrInvalidID }
