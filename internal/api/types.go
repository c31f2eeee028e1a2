package api

import "carteira/pkg/carteira"

type tradePayload struct {
	AssetClass string          `json:"asset_class"`
	Ticker     string          `json:"ticker"`
	Date       string          `json:"date"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  carteira.Amount `json:"unit_price"`
	Fees       carteira.Amount `json:"fees"`
	Notes      *string         `json:"notes"`
}

func (p tradePayload) toRequest() carteira.TradeRequest {
	return carteira.TradeRequest{
		AssetClass: p.AssetClass,
		Ticker:     p.Ticker,
		Date:       p.Date,
		Quantity:   p.Quantity,
		UnitPrice:  p.UnitPrice,
		Fees:       p.Fees,
		Notes:      p.Notes,
	}
}

type earningsPayload struct {
	Ticker       string          `json:"ticker"`
	EarningsType string          `json:"earnings_type"`
	Date         string          `json:"date"`
	UnitValue    carteira.Amount `json:"unit_value"`
	Quantity     int64           `json:"quantity"`
	Pending      bool            `json:"pending"`
	Notes        *string         `json:"notes"`
}

func (p earningsPayload) toRequest() carteira.EarningsRequest {
	return carteira.EarningsRequest{
		Ticker:       p.Ticker,
		EarningsType: p.EarningsType,
		Date:         p.Date,
		UnitValue:    p.UnitValue,
		Quantity:     p.Quantity,
		Pending:      p.Pending,
		Notes:        p.Notes,
	}
}

type derivativePayload struct {
	Ticker         string          `json:"ticker"`
	OptionCode     *string         `json:"option_code"`
	OperationType  string          `json:"operation_type"`
	DerivativeType string          `json:"derivative_type"`
	Strike         carteira.Amount `json:"strike"`
	Expiry         string          `json:"expiry"`
	Date           string          `json:"date"`
	Quantity       int64           `json:"quantity"`
	Premium        carteira.Amount `json:"premium"`
	Status         string          `json:"status"`
	Notes          *string         `json:"notes"`
}

func (p derivativePayload) toRequest() carteira.DerivativeRequest {
	return carteira.DerivativeRequest{
		Ticker:         p.Ticker,
		OptionCode:     p.OptionCode,
		OperationType:  p.OperationType,
		DerivativeType: p.DerivativeType,
		Strike:         p.Strike,
		Expiry:         p.Expiry,
		Date:           p.Date,
		Quantity:       p.Quantity,
		Premium:        p.Premium,
		Status:         p.Status,
		Notes:          p.Notes,
	}
}

type referencePricePayload struct {
	AssetClass string          `json:"asset_class"`
	Ticker     string          `json:"ticker"`
	Date       string          `json:"date"`
	Price      carteira.Amount `json:"price"`
}

type aiSettingsPayload struct {
	Model       string `json:"model"`
	RiskProfile string `json:"risk_profile"`
	Language    string `json:"language"`
}
