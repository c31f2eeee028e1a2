package carteira

import (
	"testing"
)

func TestAddAndGetSale(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := testContext()

	id, err := core.AddSale(ctx, TradeRequest{
		AssetClass: "fixed_income",
		Ticker:     "t1",
		Date:       "2025-02-01",
		Quantity:   3,
		UnitPrice:  NewAmount(16518.04),
		Fees:       NewAmount(12.50),
	})
	assertNoError(t, err, "add sale")

	rec, err := core.GetSale(ctx, id)
	assertNoError(t, err, "get sale")
	if rec == nil {
		t.Fatal("expected sale record, got nil")
	}
	if rec.Ticker != "T1" {
		t.Errorf("ticker must be normalized to upper case, got %q", rec.Ticker)
	}
	// Proceeds subtract fees: 3*16518.04 - 12.50
	assertAmountEquals(t, rec.TotalProceeds, 49541.62, "total proceeds")
}

func TestAddSaleValidation(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := core.AddSale(testContext(), TradeRequest{
		AssetClass: "stock",
		Ticker:     "BBAS3",
		Quantity:   10,
		UnitPrice:  NewAmount(-5),
	})
	assertErrorCode(t, err, ErrCodeValidation, "negative unit price")
}

func TestUpdateAndDeleteSale(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := testContext()

	id := testSale(t, core, "BBAS3", "stock", 100, 22, 0)

	ok, err := core.UpdateSale(ctx, id, TradeRequest{
		AssetClass: "stock",
		Ticker:     "BBAS3",
		Date:       "2025-02-20",
		Quantity:   100,
		UnitPrice:  NewAmount(23.50),
		Fees:       NewAmount(1.50),
	})
	assertNoError(t, err, "update sale")
	if !ok {
		t.Fatal("expected update to report a matched row")
	}

	rec, err := core.GetSale(ctx, id)
	assertNoError(t, err, "get updated sale")
	// 100*23.50 - 1.50
	assertAmountEquals(t, rec.TotalProceeds, 2348.50, "recomputed proceeds")

	ok, err = core.DeleteSale(ctx, id)
	assertNoError(t, err, "delete sale")
	if !ok {
		t.Fatal("expected delete to report a matched row")
	}
	rec, err = core.GetSale(ctx, id)
	assertNoError(t, err, "get deleted sale")
	if rec != nil {
		t.Fatal("expected record to be gone after delete")
	}
}

func TestGetSalesFilterByTicker(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	testSale(t, core, "BBAS3", "stock", 100, 22, 0)
	testSale(t, core, "GARE11", "reit", 50, 9.30, 0)

	sales, err := core.GetSales(testContext(), RecordFilter{Ticker: "GARE11"})
	assertNoError(t, err, "list sales by ticker")
	if len(sales) != 1 || sales[0].Ticker != "GARE11" {
		t.Errorf("unexpected filter result: %+v", sales)
	}
}
