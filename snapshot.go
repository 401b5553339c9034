package objtree

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
)

// Snapshot is a read-only view of a stored root tree.
// All content is content-addressed and cannot be modified.
type Snapshot struct {
	root  ID
	store *Store

	cache map[ID]*Tree
	mu    sync.RWMutex
}

// NewSnapshot creates a snapshot of the tree root held in store.
func NewSnapshot(store *Store, root ID) *Snapshot {
	return &Snapshot{
		root:  root,
		store: store,
		cache: make(map[ID]*Tree),
	}
}

// Root returns the identifier of the root tree.
func (s *Snapshot) Root() ID {
	return s.root
}

// Lookup returns the entry at a slash-separated path. The empty path and "."
// name the root itself, reported as a ModeDir entry with an empty name.
func (s *Snapshot) Lookup(ctx context.Context, p string) (TreeEntry, error) {
	parts := splitPath(p)
	current := TreeEntry{Mode: ModeDir, ID: s.root}

	for i, part := range parts {
		if !current.Mode.IsDir() {
			return TreeEntry{}, fmt.Errorf("%w: %s", ErrNotADirectory, strings.Join(parts[:i], "/"))
		}

		tree, err := s.loadTree(ctx, current.ID)
		if err != nil {
			return TreeEntry{}, err
		}

		child, ok := tree.Entry(part)
		if !ok {
			return TreeEntry{}, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(parts[:i+1], "/"))
		}
		current = child
	}

	return current, nil
}

// ReadDir returns the tree at path.
func (s *Snapshot) ReadDir(ctx context.Context, p string) (*Tree, error) {
	entry, err := s.Lookup(ctx, p)
	if err != nil {
		return nil, err
	}
	if !entry.Mode.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, p)
	}
	return s.loadTree(ctx, entry.ID)
}

// ReadFile returns the content of the blob at path. For symbolic links this
// is the link target.
func (s *Snapshot) ReadFile(ctx context.Context, p string) ([]byte, error) {
	entry, err := s.Lookup(ctx, p)
	if err != nil {
		return nil, err
	}
	if entry.Mode.ObjectType() != TypeBlob {
		return nil, fmt.Errorf("%s: is a %s", p, entry.Mode.ObjectType())
	}

	blob, err := s.store.Blob(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	return blob.Contents(), nil
}

// loadTree loads a tree from store by id (with caching).
func (s *Snapshot) loadTree(ctx context.Context, id ID) (*Tree, error) {
	s.mu.RLock()
	if t, ok := s.cache[id]; ok {
		s.mu.RUnlock()
		return t, nil
	}
	s.mu.RUnlock()

	t, err := s.store.Tree(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tree %s: %w", id, err)
	}

	s.mu.Lock()
	s.cache[id] = t
	s.mu.Unlock()

	return t, nil
}

func splitPath(p string) []string {
	p = path.Clean("/" + p)
	if p == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}
