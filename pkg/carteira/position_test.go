package carteira

import (
	"testing"
)

// purchase builds an in-memory purchase record with total cost derived the
// same way AddPurchase derives it.
func purchase(ticker, assetClass string, qty int64, unitPrice, fees float64) PurchaseRecord {
	return PurchaseRecord{
		AssetClass: assetClass,
		Ticker:     ticker,
		Quantity:   qty,
		UnitPrice:  NewAmount(unitPrice),
		Fees:       NewAmount(fees),
		TotalCost:  NewAmount(unitPrice).MulInt(qty).Add(NewAmount(fees)),
	}
}

func sale(ticker, assetClass string, qty int64, unitPrice, fees float64) SaleRecord {
	return SaleRecord{
		AssetClass:    assetClass,
		Ticker:        ticker,
		Quantity:      qty,
		UnitPrice:     NewAmount(unitPrice),
		Fees:          NewAmount(fees),
		TotalProceeds: NewAmount(unitPrice).MulInt(qty).Sub(NewAmount(fees)),
	}
}

func earning(ticker string, unitValue float64, qty int64) EarningsRecord {
	return EarningsRecord{
		Ticker:       ticker,
		EarningsType: "dividend",
		UnitValue:    NewAmount(unitValue),
		Quantity:     qty,
	}
}

func derivative(ticker string, qty int64, premium float64) DerivativeRecord {
	return DerivativeRecord{
		Ticker:        ticker,
		OperationType: "sell",
		Quantity:      qty,
		Premium:       NewAmount(premium),
		TotalValue:    NewAmount(premium).MulInt(qty),
	}
}

func findPosition(t *testing.T, positions []AssetPosition, ticker string) AssetPosition {
	t.Helper()
	for _, p := range positions {
		if p.Ticker == ticker {
			return p
		}
	}
	t.Fatalf("position for %s not found in %d positions", ticker, len(positions))
	return AssetPosition{}
}

func TestComputeAssetPositionsIncomeReducesCostBasis(t *testing.T) {
	purchases := []PurchaseRecord{purchase("GARE11", "reit", 400, 9.04, 0)}
	earnings := []EarningsRecord{earning("GARE11", 0.08, 400)}

	positions := ComputeAssetPositions(purchases, nil, earnings, nil, nil)
	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(positions))
	}

	p := positions[0]
	if p.NetQty != 400 {
		t.Errorf("expected netQty 400, got %d", p.NetQty)
	}
	assertAmountEquals(t, p.GrossBoughtValue, 3616, "gross bought value")
	assertAmountEquals(t, p.CumulativeIncome, 32, "cumulative income")
	assertAmountEquals(t, p.NetCostBasisValue, 3584, "net cost basis")
	assertAmountEquals(t, p.AverageCost, 8.96, "average cost")
}

func TestComputeAssetPositionsAverageCostRounding(t *testing.T) {
	purchases := []PurchaseRecord{
		purchase("BBAS3", "stock", 200, 19.75, 0),
		purchase("BBAS3", "stock", 700, 24.86, 0),
		purchase("BBAS3", "stock", 300, 20.25, 0),
	}

	positions := ComputeAssetPositions(purchases, nil, nil, nil, nil)
	p := findPosition(t, positions, "BBAS3")

	if p.GrossBoughtQty != 1200 {
		t.Errorf("expected grossBoughtQty 1200, got %d", p.GrossBoughtQty)
	}
	assertAmountEquals(t, p.NetCostBasisValue, 27427, "net cost basis")
	// 27427/1200 = 22.855833..., rounded half away from zero to 22.86.
	assertAmountEquals(t, p.AverageCost, 22.86, "average cost")
}

func TestComputeAssetPositionsExcludesFlatAndShortTickers(t *testing.T) {
	purchases := []PurchaseRecord{
		purchase("FLAT3", "stock", 100, 10, 0),
		purchase("KEEP3", "stock", 50, 10, 0),
	}
	sales := []SaleRecord{
		sale("FLAT3", "stock", 100, 12, 0),
		sale("SHORT3", "stock", 30, 15, 0),
	}

	positions := ComputeAssetPositions(purchases, sales, nil, nil, nil)
	if len(positions) != 1 {
		t.Fatalf("expected only KEEP3 to remain, got %d positions", len(positions))
	}
	if positions[0].Ticker != "KEEP3" {
		t.Errorf("expected KEEP3, got %s", positions[0].Ticker)
	}
}

func TestComputeAssetPositionsIgnoresUnknownTickerIncome(t *testing.T) {
	purchases := []PurchaseRecord{purchase("PETR4", "stock", 100, 30, 0)}
	earnings := []EarningsRecord{
		earning("PETR4", 1.50, 100),
		earning("GHOST3", 99, 1000),
	}
	derivatives := []DerivativeRecord{
		derivative("PETR4", 100, 0.50),
		derivative("GHOST3", 100, 5),
	}

	positions := ComputeAssetPositions(purchases, nil, earnings, derivatives, nil)
	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(positions))
	}

	p := positions[0]
	assertAmountEquals(t, p.CumulativeIncome, 150, "cumulative income")
	assertAmountEquals(t, p.CumulativeDerivativeValue, 50, "cumulative derivative value")
	assertAmountEquals(t, p.DerivativeTotal, 50, "derivative total")
	// 3000 - 150 - 50
	assertAmountEquals(t, p.NetCostBasisValue, 2800, "net cost basis")
}

func TestComputeAssetPositionsNegativeCostBasis(t *testing.T) {
	purchases := []PurchaseRecord{purchase("VALE3", "stock", 10, 5, 0)}
	earnings := []EarningsRecord{earning("VALE3", 10, 10)}

	positions := ComputeAssetPositions(purchases, nil, earnings, nil, nil)
	p := findPosition(t, positions, "VALE3")

	// Income exceeds cost: 50 - 100 = -50, average -5. Kept as-is.
	assertAmountEquals(t, p.NetCostBasisValue, -50, "net cost basis")
	assertAmountEquals(t, p.AverageCost, -5, "average cost")
	if p.UnrealizedVariancePct != 0 {
		t.Errorf("variance must stay 0 for non-positive average cost, got %f", p.UnrealizedVariancePct)
	}
}

func TestComputeAssetPositionsUnrealizedVariance(t *testing.T) {
	purchases := []PurchaseRecord{purchase("ITUB4", "stock", 100, 25, 0)}
	prices := map[string]Amount{"ITUB4": NewAmount(30)}

	positions := ComputeAssetPositions(purchases, nil, nil, nil, prices)
	p := findPosition(t, positions, "ITUB4")

	assertAmountEquals(t, p.ReferencePrice, 30, "reference price")
	// (30-25)/25 * 100 = 20
	assertFloatEquals(t, p.UnrealizedVariancePct, 20, "unrealized variance pct")
}

func TestComputeAssetPositionsMissingReferencePrice(t *testing.T) {
	purchases := []PurchaseRecord{purchase("SAPR4", "stock", 100, 4, 0)}

	positions := ComputeAssetPositions(purchases, nil, nil, nil, map[string]Amount{})
	p := findPosition(t, positions, "SAPR4")

	assertAmountEquals(t, p.ReferencePrice, 0, "reference price defaults to zero")
	// variance = (0-4)/4*100 = -100: a zero reference price reads as a total loss,
	// matching the dashboard behavior of flagging unpriced tickers.
	assertFloatEquals(t, p.UnrealizedVariancePct, -100, "unrealized variance pct")
}

func TestComputeAssetPositionsOrderIndependent(t *testing.T) {
	purchases := []PurchaseRecord{
		purchase("BBAS3", "stock", 200, 19.75, 0),
		purchase("GARE11", "reit", 400, 9.04, 0),
		purchase("BBAS3", "stock", 700, 24.86, 0),
		purchase("BBAS3", "stock", 300, 20.25, 0),
	}
	earnings := []EarningsRecord{earning("GARE11", 0.08, 400)}

	forward := ComputeAssetPositions(purchases, nil, earnings, nil, nil)

	reversed := make([]PurchaseRecord, len(purchases))
	for i, p := range purchases {
		reversed[len(purchases)-1-i] = p
	}
	backward := ComputeAssetPositions(reversed, nil, earnings, nil, nil)

	if len(forward) != len(backward) {
		t.Fatalf("position count differs: %d vs %d", len(forward), len(backward))
	}
	for _, f := range forward {
		b := findPosition(t, backward, f.Ticker)
		if !f.AverageCost.Equal(b.AverageCost.Decimal) {
			t.Errorf("%s: average cost differs across input orders: %s vs %s",
				f.Ticker, f.AverageCost, b.AverageCost)
		}
		if !f.NetCostBasisValue.Equal(b.NetCostBasisValue.Decimal) {
			t.Errorf("%s: cost basis differs across input orders", f.Ticker)
		}
	}
}

func TestComputeClosedPositionsWholeRoundTrip(t *testing.T) {
	purchases := []PurchaseRecord{purchase("T1", "fixed_income", 3, 13590, 0)}
	sales := []SaleRecord{sale("T1", "fixed_income", 3, 16518.04, 0)}

	closed := ComputeClosedPositions(purchases, sales)
	if len(closed) != 1 {
		t.Fatalf("expected 1 closed position, got %d", len(closed))
	}

	c := closed[0]
	if c.Ticker != "T1" || c.MatchedQty != 3 {
		t.Errorf("unexpected closed position: %+v", c)
	}
	assertAmountEquals(t, c.TotalCost, 40770, "total cost")
	assertAmountEquals(t, c.TotalProceeds, 49554.12, "total proceeds")
	assertAmountEquals(t, c.RealizedGainLoss, 8784.12, "realized gain")
	// 8784.12 / 40770 * 100
	assertFloatEquals(t, c.RealizedGainLossPct, 21.5455, "realized gain pct")
}

func TestComputeClosedPositionsThreshold(t *testing.T) {
	purchases := []PurchaseRecord{
		purchase("FULL3", "stock", 100, 10, 0),
		purchase("PART3", "stock", 100, 10, 0),
		purchase("OVER3", "stock", 100, 10, 0),
	}
	sales := []SaleRecord{
		sale("FULL3", "stock", 100, 11, 0),
		sale("PART3", "stock", 99, 11, 0),
		sale("OVER3", "stock", 120, 11, 0),
	}

	closed := ComputeClosedPositions(purchases, sales)
	if len(closed) != 2 {
		t.Fatalf("expected 2 closed positions, got %d", len(closed))
	}
	for _, c := range closed {
		if c.Ticker == "PART3" {
			t.Errorf("PART3 sold less than bought and must not qualify as closed")
		}
	}
}

func TestComputeClosedPositionsIgnoresSaleOnlyTicker(t *testing.T) {
	sales := []SaleRecord{sale("ORPHAN3", "stock", 100, 11, 0)}

	closed := ComputeClosedPositions(nil, sales)
	if len(closed) != 0 {
		t.Fatalf("expected no closed positions without purchases, got %d", len(closed))
	}
}

func TestComputeClosedPositionsSortOrder(t *testing.T) {
	purchases := []PurchaseRecord{
		purchase("AAA3", "stock", 10, 10, 0),
		purchase("BBB3", "stock", 10, 10, 0),
		purchase("CCC3", "stock", 10, 10, 0),
	}
	sales := []SaleRecord{
		sale("AAA3", "stock", 10, 12, 0), // gain 20
		sale("BBB3", "stock", 10, 15, 0), // gain 50
		sale("CCC3", "stock", 10, 12, 0), // gain 20, ties with AAA3
	}

	closed := ComputeClosedPositions(purchases, sales)
	if len(closed) != 3 {
		t.Fatalf("expected 3 closed positions, got %d", len(closed))
	}
	got := []string{closed[0].Ticker, closed[1].Ticker, closed[2].Ticker}
	want := []string{"BBB3", "AAA3", "CCC3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sort order mismatch: got %v, want %v", got, want)
		}
	}
}

func TestComputeClosedPositionsZeroCost(t *testing.T) {
	// Bonus shares can leave a zero-cost position; pct must stay 0 instead
	// of dividing by zero.
	purchases := []PurchaseRecord{{
		AssetClass: "stock",
		Ticker:     "FREE3",
		Quantity:   10,
		TotalCost:  NewAmount(0),
	}}
	sales := []SaleRecord{sale("FREE3", "stock", 10, 5, 0)}

	closed := ComputeClosedPositions(purchases, sales)
	if len(closed) != 1 {
		t.Fatalf("expected 1 closed position, got %d", len(closed))
	}
	assertAmountEquals(t, closed[0].RealizedGainLoss, 50, "realized gain")
	assertFloatEquals(t, closed[0].RealizedGainLossPct, 0, "pct with zero cost")
}

func TestGetAssetPositionsFromDatabase(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := testContext()

	testPurchase(t, core, "GARE11", "reit", 400, 9.04, 0)
	testPurchase(t, core, "BBAS3", "stock", 200, 19.75, 0)
	testEarnings(t, core, "GARE11", "dividend", 0.08, 400, false)
	testDerivative(t, core, "BBAS3", "sell", "call", 100, 0.35)

	_, err := core.SetReferencePrice(ctx, ReferencePriceRequest{
		AssetClass: "reit",
		Ticker:     "GARE11",
		Date:       "2025-04-01",
		Price:      NewAmount(9.50),
	})
	assertNoError(t, err, "set reference price")

	positions, err := core.GetAssetPositions(ctx)
	assertNoError(t, err, "get asset positions")
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}

	// Sorted by ticker ascending.
	if positions[0].Ticker != "BBAS3" || positions[1].Ticker != "GARE11" {
		t.Fatalf("unexpected order: %s, %s", positions[0].Ticker, positions[1].Ticker)
	}

	gare := positions[1]
	assertAmountEquals(t, gare.AverageCost, 8.96, "GARE11 average cost")
	assertAmountEquals(t, gare.ReferencePrice, 9.50, "GARE11 reference price")
	// (9.50-8.96)/8.96*100 = 6.0267...
	assertFloatEquals(t, gare.UnrealizedVariancePct, 6.0268, "GARE11 variance pct")

	bbas := positions[0]
	// 3950 - 35 (sold call premium 100*0.35)
	assertAmountEquals(t, bbas.NetCostBasisValue, 3915, "BBAS3 net cost basis")
	assertAmountEquals(t, bbas.DerivativeTotal, 35, "BBAS3 derivative total")
}

func TestGetClosedPositionsFromDatabase(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	testPurchase(t, core, "T1", "fixed_income", 3, 13590, 0)
	testSale(t, core, "T1", "fixed_income", 3, 16518.04, 0)
	testPurchase(t, core, "OPEN3", "stock", 100, 10, 0)

	closed, err := core.GetClosedPositions(testContext())
	assertNoError(t, err, "get closed positions")
	if len(closed) != 1 {
		t.Fatalf("expected 1 closed position, got %d", len(closed))
	}
	assertAmountEquals(t, closed[0].RealizedGainLoss, 8784.12, "realized gain")
}
