package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"stock-calculator/internal/input"
	"stock-calculator/internal/logger"
	"stock-calculator/internal/pricing"
	"stock-calculator/internal/report"
)

type quoteFlags struct {
	price, shares, profit, loss string
	flat, pct                   string
	plan                        string
	format                      string
	remote                      string
	noColor                     bool
}

func newQuoteCmd(a *app) *cobra.Command {
	f := &quoteFlags{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute profit and loss exit prices",
		Long: `Computes the sell price for the desired profit and for the acceptable
loss. Brokerage comes from --flat/--pct or from a fee plan in the config.

Examples:
  calc quote --price 100 --shares 10 --profit 20 --loss 10 --flat 20 --pct 0.5
  calc quote --price 2,450 --shares 40 --profit 8% --loss 3% --plan discount
  calc quote --price 100 --shares 10 --profit 20 --loss 10 --plan discount --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, a, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.price, "price", "", "current price per share")
	fl.StringVar(&f.shares, "shares", "", "number of shares")
	fl.StringVar(&f.profit, "profit", "", "desired profit percentage")
	fl.StringVar(&f.loss, "loss", "", "acceptable loss percentage")
	fl.StringVar(&f.flat, "flat", "", "flat brokerage fee per trade")
	fl.StringVar(&f.pct, "pct", "", "brokerage percentage of trade value")
	fl.StringVar(&f.plan, "plan", "", "fee plan from the config (default: default_plan)")
	fl.StringVar(&f.format, "format", "", "output format: text or json (default from config)")
	fl.StringVar(&f.remote, "remote", "", "quote service URL (default from config)")
	fl.BoolVar(&f.noColor, "no-color", false, "disable coloured output")

	return cmd
}

func runQuote(cmd *cobra.Command, a *app, f *quoteFlags) error {
	ctx := cmd.Context()
	cfg := a.cfg
	colored := cfg.UseColor() && !f.noColor

	fields := input.Fields{
		CurrentPrice:      f.price,
		NumShares:         f.shares,
		DesiredProfitPct:  f.profit,
		DesiredLossPct:    f.loss,
		BrokerageConstant: f.flat,
		BrokeragePct:      f.pct,
	}

	planName := f.plan
	if planName == "" {
		planName = cfg.DefaultPlan
	}
	if planName != "" {
		plan, err := cfg.Plan(planName)
		if err != nil {
			return err
		}
		// explicit flags win over the plan
		if !cmd.Flags().Changed("flat") {
			fields.BrokerageConstant = strconv.FormatFloat(plan.Flat, 'f', -1, 64)
		}
		if !cmd.Flags().Changed("pct") {
			fields.BrokeragePct = strconv.FormatFloat(plan.Pct, 'f', -1, 64)
		}
	}

	format := f.format
	if format == "" {
		format = cfg.Output.Format
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid --format '%s': must be 'text' or 'json'", format)
	}

	in, err := input.Parse(fields)
	if err != nil {
		return inputError(cmd, err, colored)
	}

	remote := f.remote
	if remote == "" {
		remote = cfg.Remote.URL
	}
	solver := initializeSolver(ctx, cfg, remote)

	op := logger.StartOperation(ctx, "calc.quote", "remote", remote != "", "plan", planName)
	res, err := solver.Solve(op.GetContext(), in)
	if err != nil {
		if ve, ok := pricing.AsValidationError(err); ok {
			op.End("rejected", string(ve.Reason))
			return inputError(cmd, err, colored)
		}
		op.EndWithError(err)
		return err
	}
	op.End("profit_regime", string(res.Breakdown.Profit.Regime), "loss_regime", string(res.Breakdown.Loss.Regime))

	if format == "json" {
		return report.JSON(cmd.OutOrStdout(), res)
	}
	return report.Text(cmd.OutOrStdout(), res, report.Options{
		Color:    colored,
		Verbose:  a.verbose,
		Currency: cfg.Output.Currency,
	})
}

// inputError reports a rejected input and maps it to exit code 2.
func inputError(cmd *cobra.Command, err error, colored bool) error {
	report.Error(cmd.ErrOrStderr(), err, colored)
	return &exitError{code: 2, err: err}
}
