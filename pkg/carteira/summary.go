package carteira

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// GetPortfolioSummary computes the dashboard summary cards: invested value
// over open positions, total and pending income, and derivative revenue.
func (c *Core) GetPortfolioSummary(ctx context.Context) (*PortfolioSummary, error) {
	purchases, sales, earnings, derivatives, prices, err := c.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	positions := ComputeAssetPositions(purchases, sales, earnings, derivatives, prices)

	summary := &PortfolioSummary{AssetCount: len(positions)}
	for _, p := range positions {
		summary.TotalInvested = summary.TotalInvested.Add(p.NetCostBasisValue)
	}
	for _, e := range earnings {
		value := e.UnitValue.MulInt(e.Quantity)
		summary.TotalIncome = summary.TotalIncome.Add(value)
		if e.Pending {
			summary.PendingIncome = summary.PendingIncome.Add(value)
		}
	}
	for _, d := range derivatives {
		summary.DerivativeRevenue = summary.DerivativeRevenue.Add(d.TotalValue)
	}
	return summary, nil
}

// GetAllocation returns chart slices over open positions, grouped by ticker
// or by asset class, sorted by value descending. Percent shares are
// computed against the summed net cost basis.
func (c *Core) GetAllocation(ctx context.Context, by string) ([]AllocationSlice, error) {
	if by != "ticker" && by != "asset_class" {
		return nil, NewError(ErrCodeValidation, "allocation grouping must be ticker or asset_class")
	}
	positions, err := c.GetAssetPositions(ctx)
	if err != nil {
		return nil, err
	}

	grouped := map[string]Amount{}
	var total Amount
	for _, p := range positions {
		key := p.Ticker
		if by == "asset_class" {
			key = p.AssetClass
		}
		grouped[key] = grouped[key].Add(p.NetCostBasisValue)
		total = total.Add(p.NetCostBasisValue)
	}

	slices := make([]AllocationSlice, 0, len(grouped))
	for name, value := range grouped {
		slice := AllocationSlice{Name: name, Label: name, Value: value}
		if by == "asset_class" {
			if label, ok := AssetClassLabels[name]; ok {
				slice.Label = label
			}
		}
		if total.IsPositive() {
			pct, _ := value.Decimal.Div(total.Decimal).Mul(decimal.NewFromInt(100)).Float64()
			slice.Percent = pct
		}
		slices = append(slices, slice)
	}
	sort.Slice(slices, func(i, j int) bool {
		cmp := slices[i].Value.Cmp(slices[j].Value.Decimal)
		if cmp != 0 {
			return cmp > 0
		}
		return slices[i].Name < slices[j].Name
	})
	return slices, nil
}
