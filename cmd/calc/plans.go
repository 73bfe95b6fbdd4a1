package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"stock-calculator/internal/report"
)

func newPlansCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List the fee plans in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			out := cmd.OutOrStdout()

			names := cfg.PlanNames()
			if len(names) == 0 {
				fmt.Fprintln(out, "No fee plans configured.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PLAN\tFLAT\tPCT\tDEFAULT")
			for _, name := range names {
				p := cfg.Plans[name]
				def := ""
				if name == cfg.DefaultPlan {
					def = "*"
				}
				fmt.Fprintf(tw, "%s\t%s%s\t%s%%\t%s\n", name, cfg.Output.Currency, report.Money(p.Flat),
					strconv.FormatFloat(p.Pct, 'f', -1, 64), def)
			}
			return tw.Flush()
		},
	}
}
