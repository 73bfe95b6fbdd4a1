package types

// Regime names the brokerage fee model applied to one side of a trade.
type Regime string

const (
	RegimeFlat    Regime = "FLAT"
	RegimePercent Regime = "PERCENT"
)

// PricingInputs are the six figures a quote is computed from.
// Percentages are in percentage points (0.5 means 0.5%).
type PricingInputs struct {
	CurrentPrice      float64 `json:"current_price"`
	NumShares         float64 `json:"num_shares"`
	DesiredProfitPct  float64 `json:"desired_profit_pct"`
	DesiredLossPct    float64 `json:"desired_loss_pct"`
	BrokerageConstant float64 `json:"brokerage_constant"`
	BrokeragePct      float64 `json:"brokerage_pct"`
}

// PricingResult holds the five quoted figures at full precision.
type PricingResult struct {
	TotalInvested      float64        `json:"total_invested"`
	SellPriceForProfit float64        `json:"sell_price_for_profit"`
	TotalProfit        float64        `json:"total_profit"`
	SellPriceForLoss   float64        `json:"sell_price_for_loss"`
	TotalLoss          float64        `json:"total_loss"`
	Breakdown          QuoteBreakdown `json:"breakdown"`
}

// QuoteBreakdown records the intermediate figures behind a PricingResult.
type QuoteBreakdown struct {
	// Threshold is the price at which flat and percentage fees are equal.
	// Nil when the percentage rate is zero and the curves never cross.
	Threshold *float64  `json:"threshold,omitempty"`
	BuyFee    float64   `json:"buy_fee"`
	BuyRegime Regime    `json:"buy_regime"`
	Profit    SideQuote `json:"profit"`
	Loss      SideQuote `json:"loss"`
}

// SideQuote is the regime selection for one exit target.
type SideQuote struct {
	PercentCandidate float64 `json:"percent_candidate"`
	FlatCandidate    float64 `json:"flat_candidate"`
	Regime           Regime  `json:"regime"`
	SellFee          float64 `json:"sell_fee"`
	PerShare         float64 `json:"per_share"`
}
