package carteira

// RecordID identifies a persisted record. Every record type uses the same
// opaque identifier; the API layer validates it before it reaches the core.
type RecordID int64

var AssetClasses = []string{"stock", "reit", "fixed_income"}

var AssetClassLabels = map[string]string{
	"stock":        "Ações",
	"reit":         "Fundos Imobiliários",
	"fixed_income": "Renda Fixa",
}

var EarningsTypes = []string{"dividend", "jcp", "bonus", "split"}

var DerivativeOperationTypes = []string{"buy", "sell"}

var DerivativeTypes = []string{"call", "put"}

var DerivativeStatuses = []string{"open", "closed"}

// PurchaseRecord represents a buy transaction for a ticker.
type PurchaseRecord struct {
	ID         RecordID `json:"id"`
	AssetClass string   `json:"asset_class"`
	Ticker     string   `json:"ticker"`
	Date       string   `json:"date"`
	Quantity   int64    `json:"quantity"`
	UnitPrice  Amount   `json:"unit_price"`
	Fees       Amount   `json:"fees"`
	TotalCost  Amount   `json:"total_cost"`
	Notes      *string  `json:"notes"`
	CreatedAt  *string  `json:"created_at"`
}

// SaleRecord represents a sell transaction for a ticker.
type SaleRecord struct {
	ID            RecordID `json:"id"`
	AssetClass    string   `json:"asset_class"`
	Ticker        string   `json:"ticker"`
	Date          string   `json:"date"`
	Quantity      int64    `json:"quantity"`
	UnitPrice     Amount   `json:"unit_price"`
	Fees          Amount   `json:"fees"`
	TotalProceeds Amount   `json:"total_proceeds"`
	Notes         *string  `json:"notes"`
	CreatedAt     *string  `json:"created_at"`
}

// EarningsRecord represents income credited for a ticker: dividends,
// JCP, bonus shares, or splits. Pending marks income announced but not
// yet received.
type EarningsRecord struct {
	ID           RecordID `json:"id"`
	Ticker       string   `json:"ticker"`
	EarningsType string   `json:"earnings_type"`
	Date         string   `json:"date"`
	UnitValue    Amount   `json:"unit_value"`
	Quantity     int64    `json:"quantity"`
	Pending      bool     `json:"pending"`
	Notes        *string  `json:"notes"`
	CreatedAt    *string  `json:"created_at"`
}

// DerivativeRecord represents an options operation on an underlying ticker.
type DerivativeRecord struct {
	ID             RecordID `json:"id"`
	Ticker         string   `json:"ticker"`
	OptionCode     *string  `json:"option_code"`
	OperationType  string   `json:"operation_type"`
	DerivativeType string   `json:"derivative_type"`
	Strike         Amount   `json:"strike"`
	Expiry         string   `json:"expiry"`
	Date           string   `json:"date"`
	Quantity       int64    `json:"quantity"`
	Premium        Amount   `json:"premium"`
	Status         string   `json:"status"`
	TotalValue     Amount   `json:"total_value"`
	Notes          *string  `json:"notes"`
	CreatedAt      *string  `json:"created_at"`
}

// ReferencePrice is the latest manually entered market price for a ticker.
type ReferencePrice struct {
	ID         RecordID `json:"id"`
	AssetClass string   `json:"asset_class"`
	Ticker     string   `json:"ticker"`
	Date       string   `json:"date"`
	Price      Amount   `json:"price"`
	CreatedAt  *string  `json:"created_at"`
}

// AssetPosition is the consolidated open position for a ticker, recomputed
// on every call and never persisted.
type AssetPosition struct {
	Ticker                    string  `json:"ticker"`
	AssetClass                string  `json:"asset_class"`
	GrossBoughtQty            int64   `json:"gross_bought_qty"`
	GrossBoughtValue          Amount  `json:"gross_bought_value"`
	GrossSoldQty              int64   `json:"gross_sold_qty"`
	GrossSoldValue            Amount  `json:"gross_sold_value"`
	CumulativeIncome          Amount  `json:"cumulative_income"`
	CumulativeDerivativeValue Amount  `json:"cumulative_derivative_value"`
	NetQty                    int64   `json:"net_qty"`
	NetCostBasisValue         Amount  `json:"net_cost_basis_value"`
	AverageCost               Amount  `json:"average_cost"`
	ReferencePrice            Amount  `json:"reference_price"`
	UnrealizedVariancePct     float64 `json:"unrealized_variance_pct"`
	DerivativeTotal           Amount  `json:"derivative_total"`
}

// ClosedPosition is a fully closed round trip for a ticker, using
// whole-position matching.
type ClosedPosition struct {
	Ticker              string  `json:"ticker"`
	AssetClass          string  `json:"asset_class"`
	MatchedQty          int64   `json:"matched_qty"`
	TotalCost           Amount  `json:"total_cost"`
	TotalProceeds       Amount  `json:"total_proceeds"`
	RealizedGainLoss    Amount  `json:"realized_gain_loss"`
	RealizedGainLossPct float64 `json:"realized_gain_loss_pct"`
}

// PortfolioSummary backs the dashboard summary cards.
type PortfolioSummary struct {
	TotalInvested     Amount `json:"total_invested"`
	AssetCount        int    `json:"asset_count"`
	TotalIncome       Amount `json:"total_income"`
	PendingIncome     Amount `json:"pending_income"`
	DerivativeRevenue Amount `json:"derivative_revenue"`
}

// AllocationSlice is one slice of the allocation charts.
type AllocationSlice struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Value   Amount  `json:"value"`
	Percent float64 `json:"percent"`
}

// AISettings holds persisted portfolio insight preferences. The API key is
// read from the environment and never stored.
type AISettings struct {
	Model       string `json:"model"`
	RiskProfile string `json:"risk_profile"`
	Language    string `json:"language"`
}
