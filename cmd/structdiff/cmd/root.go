package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOpts struct {
	debug   bool
	ordered bool
	output  string
}

// NewRootCmd creates the structdiff command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOpts{}
	root := &cobra.Command{
		Use:   "structdiff",
		Short: "explain the differences between structured documents",
		Long: `structdiff compares JSON & YAML documents shape by shape, reporting
a flat list of edits addressed by paths. Paths are JSON lists of steps:
strings are keys, numbers are indices, {"slot": n} is a tuple slot`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&opts.debug, "debug", "d", false, "turn on debug logging")
	flags.BoolVar(&opts.ordered, "ordered", false, "keep YAML mappings ordered, comparing them as keyed sequences")
	flags.StringVarP(&opts.output, "output", "o", "json", "output format: json, yaml or pretty")

	root.AddCommand(
		newExplainCmd(opts),
		newGetCmd(opts),
		newSetCmd(opts),
	)
	return root
}

// Execute runs the root command, logging any error before exiting
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		logrus.Errorf("%v", err)
		os.Exit(1)
	}
}
