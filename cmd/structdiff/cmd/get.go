package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/qri-io/structdiff"
)

func newGetCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "get FILE PATH",
		Short:   "print the value at PATH in FILE",
		Args:    cobra.ExactArgs(2),
		Example: `  structdiff get config.json '["servers", 0, "host"]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadFile(args[0], opts.ordered)
			if err != nil {
				return err
			}
			p, err := structdiff.ParsePath(args[1])
			if err != nil {
				return err
			}
			v, err := structdiff.Resolve(doc, p)
			if err != nil {
				return errors.Wrapf(err, "resolving %s in %s", p, args[0])
			}
			return encode(cmd.OutOrStdout(), v, opts.output, opts.ordered)
		},
	}
}
