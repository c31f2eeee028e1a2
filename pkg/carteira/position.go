package carteira

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// ComputeAssetPositions consolidates raw transaction records into per-ticker
// open positions. It is a pure function: it never mutates its inputs, does
// no I/O, and is safe for concurrent invocation. Aggregation is
// order-independent; the output order is unspecified and callers sort for
// display.
//
// Inputs are assumed to be boundary-validated; malformed records are not
// rejected here, they simply skew the arithmetic.
func ComputeAssetPositions(
	purchases []PurchaseRecord,
	sales []SaleRecord,
	earnings []EarningsRecord,
	derivatives []DerivativeRecord,
	referencePrices map[string]Amount,
) []AssetPosition {
	buckets := map[string]*AssetPosition{}

	bucket := func(ticker, assetClass string) *AssetPosition {
		b, ok := buckets[ticker]
		if !ok {
			b = &AssetPosition{Ticker: ticker, AssetClass: assetClass}
			buckets[ticker] = b
		}
		return b
	}

	for _, p := range purchases {
		b := bucket(p.Ticker, p.AssetClass)
		b.GrossBoughtQty += p.Quantity
		b.GrossBoughtValue = b.GrossBoughtValue.Add(p.TotalCost)
	}
	for _, s := range sales {
		b := bucket(s.Ticker, s.AssetClass)
		b.GrossSoldQty += s.Quantity
		b.GrossSoldValue = b.GrossSoldValue.Add(s.TotalProceeds)
	}

	// Earnings and derivative premiums only attach to tickers with buy/sell
	// history; they cannot create a position on their own.
	for _, e := range earnings {
		if b, ok := buckets[e.Ticker]; ok {
			b.CumulativeIncome = b.CumulativeIncome.Add(e.UnitValue.MulInt(e.Quantity))
		}
	}
	derivativeTotals := map[string]Amount{}
	for _, d := range derivatives {
		derivativeTotals[d.Ticker] = derivativeTotals[d.Ticker].Add(d.TotalValue)
		if b, ok := buckets[d.Ticker]; ok {
			b.CumulativeDerivativeValue = b.CumulativeDerivativeValue.Add(d.TotalValue)
		}
	}

	positions := make([]AssetPosition, 0, len(buckets))
	for _, b := range buckets {
		b.NetQty = b.GrossBoughtQty - b.GrossSoldQty
		if b.NetQty <= 0 {
			continue
		}
		b.NetCostBasisValue = b.GrossBoughtValue.
			Sub(b.GrossSoldValue).
			Sub(b.CumulativeIncome).
			Sub(b.CumulativeDerivativeValue)
		// A negative cost basis is accepted as-is: it signals an instrument
		// whose income and premiums now exceed what was paid for it.
		b.AverageCost = b.NetCostBasisValue.DivInt(b.NetQty)
		b.ReferencePrice = referencePrices[b.Ticker]
		if b.AverageCost.IsPositive() {
			variance := b.ReferencePrice.Decimal.
				Sub(b.AverageCost.Decimal).
				Div(b.AverageCost.Decimal).
				Mul(decimal.NewFromInt(100))
			b.UnrealizedVariancePct, _ = variance.Float64()
		}
		b.DerivativeTotal = derivativeTotals[b.Ticker]
		positions = append(positions, *b)
	}
	return positions
}

// ComputeClosedPositions reports fully closed round trips, using
// whole-position matching: a ticker qualifies once its cumulative sold
// quantity reaches its cumulative bought quantity, and the gain is the
// difference between all proceeds and all costs for that ticker. Results
// are sorted by realized gain descending, ties broken by ticker ascending.
//
// Like ComputeAssetPositions, this is pure and order-independent.
func ComputeClosedPositions(purchases []PurchaseRecord, sales []SaleRecord) []ClosedPosition {
	type tally struct {
		assetClass string
		boughtQty  int64
		soldQty    int64
		cost       Amount
		proceeds   Amount
	}
	byTicker := map[string]*tally{}

	for _, p := range purchases {
		t, ok := byTicker[p.Ticker]
		if !ok {
			t = &tally{assetClass: p.AssetClass}
			byTicker[p.Ticker] = t
		}
		t.boughtQty += p.Quantity
		t.cost = t.cost.Add(p.TotalCost)
	}
	for _, s := range sales {
		if t, ok := byTicker[s.Ticker]; ok {
			t.soldQty += s.Quantity
			t.proceeds = t.proceeds.Add(s.TotalProceeds)
		}
	}

	var closed []ClosedPosition
	for ticker, t := range byTicker {
		if t.boughtQty <= 0 || t.soldQty < t.boughtQty {
			continue
		}
		gain := t.proceeds.Sub(t.cost)
		var pct float64
		if t.cost.IsPositive() {
			pct, _ = gain.Decimal.Div(t.cost.Decimal).Mul(decimal.NewFromInt(100)).Float64()
		}
		closed = append(closed, ClosedPosition{
			Ticker:              ticker,
			AssetClass:          t.assetClass,
			MatchedQty:          t.boughtQty,
			TotalCost:           t.cost,
			TotalProceeds:       t.proceeds,
			RealizedGainLoss:    gain,
			RealizedGainLossPct: pct,
		})
	}

	sort.Slice(closed, func(i, j int) bool {
		cmp := closed[i].RealizedGainLoss.Cmp(closed[j].RealizedGainLoss.Decimal)
		if cmp != 0 {
			return cmp > 0
		}
		return closed[i].Ticker < closed[j].Ticker
	})
	return closed
}

// GetAssetPositions loads a fresh snapshot of all records and computes the
// open positions, sorted by ticker for stable API output.
func (c *Core) GetAssetPositions(ctx context.Context) ([]AssetPosition, error) {
	purchases, sales, earnings, derivatives, prices, err := c.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	positions := ComputeAssetPositions(purchases, sales, earnings, derivatives, prices)
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Ticker < positions[j].Ticker
	})
	return positions, nil
}

// GetClosedPositions loads a fresh snapshot of purchases and sales and
// computes the fully closed round trips.
func (c *Core) GetClosedPositions(ctx context.Context) ([]ClosedPosition, error) {
	purchases, err := c.GetPurchases(ctx, RecordFilter{Limit: snapshotLimit})
	if err != nil {
		return nil, err
	}
	sales, err := c.GetSales(ctx, RecordFilter{Limit: snapshotLimit})
	if err != nil {
		return nil, err
	}
	return ComputeClosedPositions(purchases, sales), nil
}

// snapshotLimit bounds snapshot reads; realistic portfolios hold at most a
// few hundred records per table.
const snapshotLimit = 100000

func (c *Core) loadSnapshot(ctx context.Context) (
	[]PurchaseRecord, []SaleRecord, []EarningsRecord, []DerivativeRecord, map[string]Amount, error,
) {
	purchases, err := c.GetPurchases(ctx, RecordFilter{Limit: snapshotLimit})
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	sales, err := c.GetSales(ctx, RecordFilter{Limit: snapshotLimit})
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	earnings, err := c.GetEarnings(ctx, RecordFilter{Limit: snapshotLimit})
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	derivatives, err := c.GetDerivatives(ctx, RecordFilter{Limit: snapshotLimit})
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	prices, err := c.GetReferencePriceMap(ctx)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	return purchases, sales, earnings, derivatives, prices, nil
}
