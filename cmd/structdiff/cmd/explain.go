package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qri-io/structdiff"
)

func newExplainCmd(opts *rootOpts) *cobra.Command {
	var (
		showStats bool
		jsonPatch bool
		maxDepth  int
	)

	cmd := &cobra.Command{
		Use:   "explain LEFT RIGHT",
		Short: "list the edits that turn LEFT into RIGHT",
		Args:  cobra.ExactArgs(2),
		Example: `  structdiff explain before.json after.json
  structdiff explain --ordered -o yaml a.yaml b.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := loadFile(args[0], opts.ordered)
			if err != nil {
				return err
			}
			right, err := loadFile(args[1], opts.ordered)
			if err != nil {
				return err
			}

			stats := &structdiff.Stats{}
			edits := structdiff.Explain(left, right,
				structdiff.OptionMaxDepth(maxDepth),
				structdiff.OptionSetStats(stats),
				structdiff.OptionLogger(logrus.StandardLogger()),
			)
			logrus.Debugf("%d edits between %s and %s", len(edits), args[0], args[1])

			out := cmd.OutOrStdout()
			switch {
			case jsonPatch:
				patch, err := structdiff.JSONPatchFor(left, edits)
				if err != nil {
					return errors.Wrap(err, "building json patch")
				}
				if err := encode(out, patch, "json", false); err != nil {
					return err
				}
			case opts.output == "pretty":
				if err := structdiff.FormatPretty(out, edits, false); err != nil {
					return err
				}
			default:
				if err := encode(out, edits, opts.output, opts.ordered); err != nil {
					return err
				}
			}

			if showStats {
				fmt.Fprint(out, structdiff.FormatPrettyStats(stats))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showStats, "stats", false, "print a summary of the diff")
	cmd.Flags().BoolVar(&jsonPatch, "json-patch", false, "print edits as an RFC 6902 JSON Patch")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "stop descending into containers below this depth, 0 is unlimited")
	return cmd
}
