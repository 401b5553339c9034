package cmd

import (
	"github.com/aweris/objtree"
	"github.com/spf13/cobra"
)

var lsTreeCmd = &cobra.Command{
	Use:   "ls-tree <id> [path]",
	Short: "List a stored tree",
	Long:  "List the entries of a stored tree, optionally descending to a slash-separated path first.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runLsTree,
}

func init() {
	rootCmd.AddCommand(lsTreeCmd)
}

func runLsTree(cmd *cobra.Command, args []string) (err error) {
	root, err := objtree.ParseID(args[0])
	if err != nil {
		return err
	}
	path := ""
	if len(args) > 1 {
		path = args[1]
	}

	st, err := cfg.openStore(log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	tree, err := objtree.NewSnapshot(st, root).ReadDir(cmd.Context(), path)
	if err != nil {
		return err
	}
	printTree(cmd.OutOrStdout(), tree)
	return nil
}
