package cmd

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qri-io/structdiff"
)

func newSetCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "set FILE PATH VALUE",
		Short: "print FILE with the value at PATH replaced by VALUE",
		Long: `set replaces an existing location, it never adds keys or elements.
FILE itself is left untouched, the updated document is written to stdout`,
		Args:    cobra.ExactArgs(3),
		Example: `  structdiff set config.json '["servers", 0, "port"]' 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadFile(args[0], opts.ordered)
			if err != nil {
				return err
			}
			p, err := structdiff.ParsePath(args[1])
			if err != nil {
				return err
			}
			nv, err := parseValue(args[2], opts.ordered)
			if err != nil {
				return err
			}

			updated, err := structdiff.Update(doc, p, nv)
			if err != nil {
				return errors.Wrapf(err, "updating %s in %s", p, args[0])
			}
			logrus.Debugf("set %s to %v", p, nv)
			return encode(cmd.OutOrStdout(), updated, opts.output, opts.ordered)
		},
	}
}
