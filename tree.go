package objtree

import (
	"bytes"
	"fmt"
	"iter"
	"slices"
	"strings"
)

// TreeEntry is one (name, mode, child identifier) triple of a Tree.
type TreeEntry struct {
	Name string
	Mode Mode
	ID   ID
}

// Tree is the canonical representation of a directory. Children are referenced
// by identifier only, so one subtree may be shared by many parents.
type Tree struct {
	entries []TreeEntry // sorted by raw name bytes
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Insert adds an entry. Names must be unique, non-empty and free of '/' and NUL.
// Existing entries can never be replaced.
func (t *Tree) Insert(name string, mode Mode, id ID) error {
	if name == "" {
		return ErrEmptyName
	}
	if strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %s for %q", ErrInvalidMode, mode, name)
	}

	i, found := t.search(name)
	if found {
		return fmt.Errorf("%w: %q", ErrDuplicateEntry, name)
	}
	t.entries = slices.Insert(t.entries, i, TreeEntry{Name: name, Mode: mode, ID: id})
	return nil
}

func (t *Tree) search(name string) (int, bool) {
	return slices.BinarySearchFunc(t.entries, name, func(e TreeEntry, name string) int {
		return strings.Compare(e.Name, name)
	})
}

// Entry looks up an entry by exact name.
func (t *Tree) Entry(name string) (TreeEntry, bool) {
	i, found := t.search(name)
	if !found {
		return TreeEntry{}, false
	}
	return t.entries[i], true
}

// Entries iterates in canonical order.
func (t *Tree) Entries() iter.Seq[TreeEntry] {
	return func(yield func(TreeEntry) bool) {
		for _, e := range t.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Len returns the number of entries.
func (t *Tree) Len() int { return len(t.entries) }

func (t *Tree) Type() ObjectType { return TypeTree }

// Encode returns "tree {size}\0" followed by "{mode} {name}\0{raw id}" per entry.
func (t *Tree) Encode() []byte {
	var body bytes.Buffer
	for _, e := range t.entries {
		body.WriteString(e.Mode.String())
		body.WriteByte(' ')
		body.WriteString(e.Name)
		body.WriteByte(0)
		body.Write(e.ID[:])
	}
	return encodeEnvelope(TypeTree, body.Bytes())
}

// ID returns the identifier under DefaultAlgorithm.
func (t *Tree) ID() ID {
	return DefaultAlgorithm.Sum(t.Encode())
}
