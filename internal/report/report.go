package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"stock-calculator/internal/pricing"
	"stock-calculator/internal/types"
)

// Options controls text rendering.
type Options struct {
	Color    bool   // ANSI colours: green for profit lines, red for loss lines
	Verbose  bool   // Append the fee breakdown
	Currency string // Symbol placed before money values, "$" when empty
}

type palette struct {
	plain, profit, loss, muted *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		plain:  color.New(color.FgWhite),
		profit: color.New(color.FgGreen),
		loss:   color.New(color.FgRed),
		muted:  color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.plain, p.profit, p.loss, p.muted} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Money renders v rounded half away from zero to two decimals.
// Values that round to zero never render as "-0.00".
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Text writes the five labelled figures of a quote.
func Text(w io.Writer, res *types.PricingResult, opts Options) error {
	cur := opts.Currency
	if cur == "" {
		cur = "$"
	}
	p := newPalette(opts.Color)
	money := func(v float64) string { return cur + Money(v) }

	lines := []struct {
		c     *color.Color
		label string
		value float64
	}{
		{p.plain, "Total Investment", res.TotalInvested},
		{p.profit, "Price per share to sell for profit", res.SellPriceForProfit},
		{p.profit, "Total Profit", res.TotalProfit},
		{p.loss, "Price per share to sell for loss", res.SellPriceForLoss},
		{p.loss, "Total Loss", res.TotalLoss},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, p.plain.Sprint(l.label+":"), l.c.Sprint(money(l.value))); err != nil {
			return err
		}
	}

	if !opts.Verbose {
		return nil
	}

	b := res.Breakdown
	threshold := "none"
	if b.Threshold != nil {
		threshold = money(*b.Threshold)
	}
	if _, err := fmt.Fprintf(w, "\n%s\n  Fee threshold: %s\n  Buy fee: %s (%s)\n",
		p.muted.Sprint("Breakdown"), threshold, money(b.BuyFee), b.BuyRegime); err != nil {
		return err
	}
	for _, side := range []struct {
		name string
		c    *color.Color
		q    types.SideQuote
	}{
		{"Profit exit", p.profit, b.Profit},
		{"Loss exit", p.loss, b.Loss},
	} {
		if _, err := fmt.Fprintf(w, "  %s: %s, percent candidate %s, flat candidate %s, sell fee %s, net per share %s\n",
			side.c.Sprint(side.name), side.q.Regime,
			money(side.q.PercentCandidate), money(side.q.FlatCandidate),
			money(side.q.SellFee), money(side.q.PerShare)); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes the full-precision result.
func JSON(w io.Writer, res *types.PricingResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// Error writes the user-facing message for a failed calculation.
func Error(w io.Writer, err error, colored bool) {
	msg := err.Error()
	if ve, ok := pricing.AsValidationError(err); ok && ve.Message != "" {
		msg = ve.Message
	}
	p := newPalette(colored)
	fmt.Fprintln(w, p.loss.Sprint("Input Error:"), msg)
}
