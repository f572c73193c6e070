package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yuri-SVB/Great-Wall/greatwall"
	"github.com/Yuri-SVB/Great-Wall/treepath"
)

func newPathIndexCmd() *cobra.Command {
	var arity, depth int
	cmd := &cobra.Command{
		Use:   `path-index --arity N --depth D "2 -> 3"`,
		Short: "Print the pre-order index of a node path",
		Long: `Prints the position of a node in a pre-order walk of the complete tree,
counting the root as 0. Branch numbers are 1-based, as shown during a
derivation. Diagnostic only; a path is as sensitive as the secret it leads to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if arity < greatwall.MinArity || arity > greatwall.MaxArity {
				return usageError{fmt.Errorf("--arity must be in [%d, %d]", greatwall.MinArity, greatwall.MaxArity)}
			}
			if depth < greatwall.MinDepth || depth > greatwall.MaxDepth {
				return usageError{fmt.Errorf("--depth must be in [%d, %d]", greatwall.MinDepth, greatwall.MaxDepth)}
			}
			p, err := treepath.Parse(args[0])
			if err != nil {
				return usageError{err}
			}
			idx, err := p.Ordinal(arity, depth+1)
			if err != nil {
				return usageError{err}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), idx.String())
			return err
		},
	}
	cmd.Flags().IntVar(&arity, "arity", 0, "options per level")
	cmd.Flags().IntVar(&depth, "depth", 0, "tree depth")
	return cmd
}
