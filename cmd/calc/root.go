package main

import (
	"github.com/spf13/cobra"

	"stock-calculator/internal/store"
)

// app holds state shared by all subcommands
type app struct {
	cfgFile string
	verbose bool
	cfg     *store.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "calc",
		Short: "Brokerage-aware sell price calculator",
		Long: `Computes the sell prices that realise a desired net profit or an
acceptable net loss on a stock position, after brokerage on both the buy
and the sell side.

Commands:
    quote    compute a quote from the command line
    serve    run the HTTP quote service
    plans    list the fee plans in the config file
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initializeSystem(a.cfgFile, a.verbose)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "config.yaml", "config file (optional)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging and fee breakdown")

	root.AddCommand(newQuoteCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newPlansCmd(a))

	return root
}
