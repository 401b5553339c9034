package cmd

import (
	"fmt"

	"github.com/aweris/objtree"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var writeTreeCmd = &cobra.Command{
	Use:   "write-tree [-w] [--exclude pattern]... <dir>",
	Short: "Compute the tree identifier of a directory",
	Long: `Hash a directory bottom-up and print its root tree identifier.
With -w every blob and tree is written to the object store.`,
	Args: cobra.ExactArgs(1),
	RunE: runWriteTree,
}

func init() {
	writeTreeCmd.Flags().BoolP("write", "w", false, "write every object to the object store")
	writeTreeCmd.Flags().StringArray("exclude", nil, "skip entries whose name matches the pattern")
	rootCmd.AddCommand(writeTreeCmd)
}

func runWriteTree(cmd *cobra.Command, args []string) (err error) {
	write, _ := cmd.Flags().GetBool("write")
	exclude, _ := cmd.Flags().GetStringArray("exclude")

	opts := []objtree.BuildOption{
		objtree.WithAlgorithm(objtree.Algorithm(cfg.Algorithm)),
		objtree.WithConcurrency(cfg.Concurrency),
		objtree.WithExclude(cfg.Exclude...),
		objtree.WithExclude(exclude...),
		objtree.WithLogger(log),
	}

	if write {
		var st *objtree.Store
		if st, err = cfg.openStore(log); err != nil {
			return err
		}
		defer func() {
			if cerr := st.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		opts = append(opts, objtree.WithStore(st))
	}

	res, err := objtree.BuildTree(cmd.Context(), args[0], opts...)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"blobs":   res.Stats.Blobs,
		"trees":   res.Stats.Trees,
		"skipped": res.Stats.Skipped,
	}).Infof("hashed %s", humanize.Bytes(uint64(res.Stats.Bytes)))

	fmt.Fprintln(cmd.OutOrStdout(), res.ID)
	return nil
}
