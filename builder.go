package objtree

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

// Builder turns a live filesystem subtree into one Tree, bottom-up.
// A Builder holds no per-build state and may be reused.
type Builder struct {
	alg         Algorithm
	store       ObjectWriter
	log         logrus.FieldLogger
	concurrency int
	exclude     []string
}

// BuildStats counts what a build produced.
type BuildStats struct {
	Blobs   int64
	Trees   int64
	Skipped int64
	Bytes   int64 // blob content bytes
}

// BuildResult is the root tree of a build and its identifier.
type BuildResult struct {
	Tree  *Tree
	ID    ID
	Stats BuildStats
}

// walk is the state shared by every directory of one build.
type walk struct {
	blobs, trees, skipped, bytes atomic.Int64

	// tokens bounds the helper goroutines of the whole build. The goroutine
	// calling Build always works too, so at most cap(tokens)+1 entries are
	// built at once.
	tokens chan struct{}
}

func newWalk(concurrency int) *walk {
	w := &walk{}
	if concurrency > 1 {
		w.tokens = make(chan struct{}, concurrency-1)
	}
	return w
}

// tryAcquire takes a helper slot without blocking.
func (w *walk) tryAcquire() bool {
	select {
	case w.tokens <- struct{}{}:
		return true
	default:
		return false
	}
}

func (w *walk) release() { <-w.tokens }

func (w *walk) snapshot() BuildStats {
	return BuildStats{
		Blobs:   w.blobs.Load(),
		Trees:   w.trees.Load(),
		Skipped: w.skipped.Load(),
		Bytes:   w.bytes.Load(),
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuildOption) *Builder {
	options := defaultBuildOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Builder{
		alg:         options.Algorithm,
		store:       options.Store,
		log:         options.Logger,
		concurrency: options.Concurrency,
		exclude:     options.Exclude,
	}
}

// BuildTree is shorthand for NewBuilder(opts...).Build(ctx, root).
func BuildTree(ctx context.Context, root string, opts ...BuildOption) (*BuildResult, error) {
	return NewBuilder(opts...).Build(ctx, root)
}

// Build walks root and returns its tree. The first failure aborts the whole
// build; no partial tree is ever returned.
func (b *Builder) Build(ctx context.Context, root string) (*BuildResult, error) {
	if _, err := ParseAlgorithm(string(b.alg)); err != nil {
		return nil, err
	}
	for _, pattern := range b.exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, ioError("stat", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, root)
	}

	w := newWalk(b.concurrency)
	tree, id, err := b.buildDir(ctx, root, w)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{Tree: tree, ID: id, Stats: w.snapshot()}
	b.log.WithFields(logrus.Fields{
		"path":  root,
		"id":    id,
		"blobs": result.Stats.Blobs,
		"trees": result.Stats.Trees,
	}).Debug("build complete")
	return result, nil
}

func (b *Builder) buildDir(ctx context.Context, dir string, w *walk) (*Tree, ID, error) {
	if err := ctx.Err(); err != nil {
		return nil, ZeroID, err
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, ZeroID, ioError("readdir", dir, err)
	}

	var entries []TreeEntry
	if w.tokens != nil && len(dirents) > 1 {
		entries, err = b.buildEntriesParallel(ctx, dir, dirents, w)
	} else {
		entries, err = b.buildEntries(ctx, dir, dirents, w)
	}
	if err != nil {
		return nil, ZeroID, err
	}

	tree := NewTree()
	for _, e := range entries {
		if e.Name == "" {
			continue // skipped
		}
		if err := tree.Insert(e.Name, e.Mode, e.ID); err != nil {
			return nil, ZeroID, fmt.Errorf("build tree %q: %w", dir, err)
		}
	}

	id, err := b.emit(ctx, tree)
	if err != nil {
		return nil, ZeroID, fmt.Errorf("build tree %q: %w", dir, err)
	}
	w.trees.Add(1)

	b.log.WithFields(logrus.Fields{
		"path":    dir,
		"id":      id,
		"entries": tree.Len(),
	}).Debug("built tree")
	return tree, id, nil
}

func (b *Builder) buildEntries(ctx context.Context, dir string, dirents []os.DirEntry, w *walk) ([]TreeEntry, error) {
	entries := make([]TreeEntry, 0, len(dirents))
	for _, d := range dirents {
		e, err := b.buildEntry(ctx, dir, d, w)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// buildEntriesParallel hands siblings to helper goroutines while build slots
// are free and builds the rest inline. Slots are shared by the whole walk,
// so nesting never multiplies the number of live goroutines or open files.
func (b *Builder) buildEntriesParallel(ctx context.Context, dir string, dirents []os.DirEntry, w *walk) ([]TreeEntry, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	entries := make([]TreeEntry, len(dirents))
	var wg conc.WaitGroup
	for i, d := range dirents {
		if ctx.Err() != nil {
			break
		}
		if w.tryAcquire() {
			wg.Go(func() {
				defer w.release()
				e, err := b.buildEntry(ctx, dir, d, w)
				if err != nil {
					cancel(err)
					return
				}
				entries[i] = e
			})
			continue
		}
		e, err := b.buildEntry(ctx, dir, d, w)
		if err != nil {
			cancel(err)
			break
		}
		entries[i] = e
	}
	wg.Wait()

	if err := context.Cause(ctx); err != nil {
		return nil, err
	}
	return entries, nil
}

// buildEntry returns a zero TreeEntry for entries that are excluded or skipped.
func (b *Builder) buildEntry(ctx context.Context, dir string, d os.DirEntry, w *walk) (TreeEntry, error) {
	if err := ctx.Err(); err != nil {
		return TreeEntry{}, err
	}

	name := d.Name()
	path := filepath.Join(dir, name)
	if b.excluded(name) {
		b.log.WithField("path", path).Debug("excluded")
		return TreeEntry{}, nil
	}

	info, err := d.Info()
	if err != nil {
		return TreeEntry{}, ioError("lstat", path, err)
	}
	mode := ModeOf(info.Mode())

	switch {
	case info.IsDir():
		_, id, err := b.buildDir(ctx, path, w)
		if err != nil {
			return TreeEntry{}, err
		}
		return TreeEntry{Name: name, Mode: mode, ID: id}, nil

	case info.Mode()&fs.ModeSymlink != 0:
		target, err := os.Readlink(path)
		if err != nil {
			return TreeEntry{}, ioError("readlink", path, err)
		}
		id, err := b.emitBlob(ctx, NewSymlinkBlob(target), w)
		if err != nil {
			return TreeEntry{}, fmt.Errorf("write blob %q: %w", path, err)
		}
		return TreeEntry{Name: name, Mode: mode, ID: id}, nil

	case info.Mode().IsRegular():
		blob, err := ReadBlob(path)
		if err != nil {
			return TreeEntry{}, err
		}
		id, err := b.emitBlob(ctx, blob, w)
		if err != nil {
			return TreeEntry{}, fmt.Errorf("write blob %q: %w", path, err)
		}
		return TreeEntry{Name: name, Mode: mode, ID: id}, nil
	}

	w.skipped.Add(1)
	b.log.WithFields(logrus.Fields{
		"path": path,
		"type": info.Mode().Type().String(),
	}).Debug("skipping unsupported entry")
	return TreeEntry{}, nil
}

func (b *Builder) excluded(name string) bool {
	for _, pattern := range b.exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (b *Builder) emitBlob(ctx context.Context, blob *Blob, w *walk) (ID, error) {
	id, err := b.emit(ctx, blob)
	if err != nil {
		return ZeroID, err
	}
	w.blobs.Add(1)
	w.bytes.Add(blob.Size())
	return id, nil
}

// emit encodes obj once, derives its identifier and forwards it to the store.
func (b *Builder) emit(ctx context.Context, obj Object) (ID, error) {
	encoded := obj.Encode()
	id := b.alg.Sum(encoded)
	if b.store != nil {
		if err := b.store.WriteObject(ctx, id, encoded); err != nil {
			return ZeroID, err
		}
	}
	return id, nil
}
