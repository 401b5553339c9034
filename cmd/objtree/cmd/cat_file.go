package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/aweris/objtree"
	"github.com/spf13/cobra"
)

var catFileCmd = &cobra.Command{
	Use:   "cat-file (-t | -s | -p) <id>",
	Short: "Show a stored object",
	Long:  "Print the type, size or content of an object in the object store.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatFile,
}

func init() {
	catFileCmd.Flags().BoolP("type", "t", false, "print the object type")
	catFileCmd.Flags().BoolP("size", "s", false, "print the object body size")
	catFileCmd.Flags().BoolP("pretty", "p", false, "print the object content")
	catFileCmd.MarkFlagsMutuallyExclusive("type", "size", "pretty")
	catFileCmd.MarkFlagsOneRequired("type", "size", "pretty")
	rootCmd.AddCommand(catFileCmd)
}

func runCatFile(cmd *cobra.Command, args []string) (err error) {
	id, err := objtree.ParseID(args[0])
	if err != nil {
		return err
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

	data, err := st.ReadObject(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	flags := cmd.Flags()
	switch {
	case flags.Changed("type"):
		t, _, err := objtree.ObjectTypeOf(data)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, t)
	case flags.Changed("size"):
		_, size, err := objtree.ObjectTypeOf(data)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, size)
	default:
		obj, err := objtree.DecodeObject(data)
		if err != nil {
			return err
		}
		return printObject(out, obj)
	}
	return nil
}

func printObject(out io.Writer, obj objtree.Object) error {
	switch o := obj.(type) {
	case *objtree.Blob:
		_, err := out.Write(o.Contents())
		return err
	case *objtree.Tree:
		printTree(out, o)
		return nil
	}
	return errors.New("unsupported object type")
}

// printTree lists entries the way git ls-tree does.
func printTree(out io.Writer, t *objtree.Tree) {
	for e := range t.Entries() {
		fmt.Fprintf(out, "%s %s %s\t%s\n", e.Mode, e.Mode.ObjectType(), e.ID, e.Name)
	}
}
