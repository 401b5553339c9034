// Package objtree is a content-addressable object model for filesystem snapshots.
//
// Files and directories are given a canonical, deterministic binary encoding
// and identified by the digest of that encoding. Identical content always
// yields identical identifiers, and a directory's identifier is a pure
// function of its entries' names, modes and identifiers.
//
// Encodings:
//
//	blob {len}\0{content}
//	tree {len}\0({6-digit octal mode} {name}\0{20 raw id bytes})*
//
// Tree entries are ordered by the raw bytes of their names.
//
// Basic usage:
//
//	blob := objtree.NewBlob([]byte("this is a test"))
//	fmt.Println(blob.ID()) // a8a940627d132695a9769df883f85992f0ff4a43
//
//	// Hash a directory
//	res, _ := objtree.BuildTree(ctx, "src/")
//	fmt.Println(res.ID, res.Stats.Blobs)
//
//	// Build and persist every object
//	st, _ := objtree.OpenStore("~/.local/share/objtree")
//	defer st.Close()
//	res, _ = objtree.BuildTree(ctx, "src/", objtree.WithStore(st))
//
//	// Read it back
//	snap := objtree.NewSnapshot(st, res.ID)
//	data, _ := snap.ReadFile(ctx, "lib/foo.go")
package objtree
