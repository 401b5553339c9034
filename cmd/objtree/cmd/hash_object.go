package cmd

import (
	"fmt"

	"github.com/aweris/objtree"
	"github.com/spf13/cobra"
)

var hashObjectCmd = &cobra.Command{
	Use:   "hash-object [-w] <file>...",
	Short: "Compute blob identifiers",
	Long:  "Print the blob identifier of each file, optionally writing the blobs to the object store.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHashObject,
}

func init() {
	hashObjectCmd.Flags().BoolP("write", "w", false, "write the blobs to the object store")
	rootCmd.AddCommand(hashObjectCmd)
}

func runHashObject(cmd *cobra.Command, args []string) (err error) {
	write, _ := cmd.Flags().GetBool("write")
	alg := objtree.Algorithm(cfg.Algorithm)

	var st *objtree.Store
	if write {
		if st, err = cfg.openStore(log); err != nil {
			return err
		}
		defer func() {
			if cerr := st.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}

	for _, path := range args {
		blob, err := objtree.ReadBlob(path)
		if err != nil {
			return err
		}

		id := objtree.HashObject(alg, blob)
		if st != nil {
			if id, err = st.Write(cmd.Context(), blob); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}
