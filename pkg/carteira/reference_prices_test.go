package carteira

import (
	"testing"
)

func TestSetReferencePriceUpsert(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := testContext()

	id1, err := core.SetReferencePrice(ctx, ReferencePriceRequest{
		AssetClass: "stock",
		Ticker:     "bbas3",
		Date:       "2025-04-01",
		Price:      NewAmount(21.50),
	})
	assertNoError(t, err, "first set")

	// Same ticker overwrites the existing row instead of inserting.
	id2, err := core.SetReferencePrice(ctx, ReferencePriceRequest{
		AssetClass: "stock",
		Ticker:     "BBAS3",
		Date:       "2025-04-15",
		Price:      NewAmount(22.10),
	})
	assertNoError(t, err, "second set")
	if id1 != id2 {
		t.Errorf("upsert must keep the row id, got %d then %d", id1, id2)
	}

	prices, err := core.GetReferencePrices(ctx, RecordFilter{})
	assertNoError(t, err, "list prices")
	if len(prices) != 1 {
		t.Fatalf("expected a single row per ticker, got %d", len(prices))
	}
	if prices[0].Date != "2025-04-15" {
		t.Errorf("expected updated date, got %s", prices[0].Date)
	}
	assertAmountEquals(t, prices[0].Price, 22.10, "updated price")
}

func TestSetReferencePriceValidation(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := core.SetReferencePrice(testContext(), ReferencePriceRequest{
		AssetClass: "stock",
		Ticker:     "BBAS3",
		Price:      NewAmount(0),
	})
	assertErrorCode(t, err, ErrCodeValidation, "zero price")
}

func TestGetReferencePriceMap(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := testContext()

	_, err := core.SetReferencePrice(ctx, ReferencePriceRequest{
		AssetClass: "stock", Ticker: "BBAS3", Date: "2025-04-01", Price: NewAmount(21.50),
	})
	assertNoError(t, err, "set BBAS3")
	_, err = core.SetReferencePrice(ctx, ReferencePriceRequest{
		AssetClass: "reit", Ticker: "GARE11", Date: "2025-04-01", Price: NewAmount(9.50),
	})
	assertNoError(t, err, "set GARE11")

	prices, err := core.GetReferencePriceMap(ctx)
	assertNoError(t, err, "load price map")
	if len(prices) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(prices))
	}
	assertAmountEquals(t, prices["BBAS3"], 21.50, "BBAS3 price")
	assertAmountEquals(t, prices["GARE11"], 9.50, "GARE11 price")
}

func TestDeleteReferencePrice(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := testContext()

	id, err := core.SetReferencePrice(ctx, ReferencePriceRequest{
		AssetClass: "stock", Ticker: "BBAS3", Date: "2025-04-01", Price: NewAmount(21.50),
	})
	assertNoError(t, err, "set price")

	ok, err := core.DeleteReferencePrice(ctx, id)
	assertNoError(t, err, "delete price")
	if !ok {
		t.Fatal("expected delete to report a matched row")
	}

	prices, err := core.GetReferencePriceMap(ctx)
	assertNoError(t, err, "load price map after delete")
	if len(prices) != 0 {
		t.Errorf("expected empty map, got %d entries", len(prices))
	}
}
