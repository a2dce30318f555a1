// Package app wires the popsectctl CLI's subcommands.
package app

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cristaloleg/popsect"
	"github.com/cristaloleg/popsect/bitset"
)

// NewRootCmd builds the popsectctl root command.
func NewRootCmd() *cobra.Command {
	var (
		cutoff      int
		sparse      bool
		debugChecks bool
		verbose     bool
	)

	root := &cobra.Command{
		Use:   "popsectctl <bundle-file>",
		Short: "Sum pairwise bitmap-intersection cardinalities over a bundle of bit vectors",
		Long: `popsectctl loads a bundle of equal-length bit vectors (one vector per
line, whitespace-separated hex 64-bit words) and prints
Σ_{i<j} popcount(Vi & Vj) using the popsect engine's auto-dispatched kernel.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}

			// A debug-checked Intersect/IntersectSparse call panics on
			// precondition violations (spec.md §7 treats these as contract
			// errors, not returned errors); recover and reclassify so the
			// CLI reports a normal exit-1 error instead of a stack trace.
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						panic(r)
					}
					switch {
					case popsect.IsDimensionMismatch(err):
						runErr = errors.Wrap(err, "bundle rejected")
					case popsect.IsMisalignedBundle(err):
						runErr = errors.Wrap(err, "bundle rejected")
					case popsect.IsNonAscendingPositions(err):
						runErr = errors.Wrap(err, "sparse table rejected")
					default:
						panic(r)
					}
				}
			}()

			b, err := loadBundle(args[0])
			if err != nil {
				return errors.Wrap(err, "loading bundle")
			}

			var opts []popsect.Option
			if debugChecks {
				opts = append(opts, popsect.WithDebugChecks(true))
			}

			var total uint64
			if sparse {
				table := bitset.BuildSparseTable(b)
				total = popsect.IntersectSparse(b, table, cutoff, opts...)
			} else {
				total = popsect.Intersect(b, opts...)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", total)
			return nil
		},
	}

	root.Flags().BoolVar(&sparse, "sparse", false, "use the sparse/dense hybrid entry point")
	root.Flags().IntVar(&cutoff, "cutoff", 50, "sparse-path popcount cutoff (only with --sparse)")
	root.Flags().BoolVar(&debugChecks, "debug-checks", false, "enable precondition assertions")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "log dispatch details")

	return root
}
