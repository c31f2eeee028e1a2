package carteira

import (
	"testing"
)

func TestAddAndGetEarnings(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := testContext()

	id, err := core.AddEarnings(ctx, EarningsRequest{
		Ticker:       "gare11",
		EarningsType: "Dividend",
		Date:         "2025-03-10",
		UnitValue:    NewAmount(0.08),
		Quantity:     400,
		Pending:      true,
		Notes:        stringPtr("monthly distribution"),
	})
	assertNoError(t, err, "add earnings")

	list, err := core.GetEarnings(ctx, RecordFilter{Ticker: "GARE11"})
	assertNoError(t, err, "list earnings")
	if len(list) != 1 {
		t.Fatalf("expected 1 earnings record, got %d", len(list))
	}

	rec := list[0]
	if rec.ID != id {
		t.Errorf("expected id %d, got %d", id, rec.ID)
	}
	if rec.Ticker != "GARE11" || rec.EarningsType != "dividend" {
		t.Errorf("ticker and type must be normalized: %+v", rec)
	}
	if !rec.Pending {
		t.Error("expected pending flag to persist")
	}
	assertAmountEquals(t, rec.UnitValue, 0.08, "unit value")
}

func TestAddEarningsValidation(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := testContext()

	_, err := core.AddEarnings(ctx, EarningsRequest{
		Ticker:       "GARE11",
		EarningsType: "interest",
		UnitValue:    NewAmount(0.08),
		Quantity:     400,
	})
	assertErrorCode(t, err, ErrCodeValidation, "unknown earnings type")

	_, err = core.AddEarnings(ctx, EarningsRequest{
		EarningsType: "dividend",
		UnitValue:    NewAmount(0.08),
		Quantity:     400,
	})
	assertErrorCode(t, err, ErrCodeValidation, "missing ticker")
}

func TestUpdateEarningsPendingFlag(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := testContext()

	id := testEarnings(t, core, "GARE11", "dividend", 0.08, 400, true)

	ok, err := core.UpdateEarnings(ctx, id, EarningsRequest{
		Ticker:       "GARE11",
		EarningsType: "dividend",
		Date:         "2025-03-10",
		UnitValue:    NewAmount(0.08),
		Quantity:     400,
		Pending:      false,
	})
	assertNoError(t, err, "update earnings")
	if !ok {
		t.Fatal("expected update to report a matched row")
	}

	list, err := core.GetEarnings(ctx, RecordFilter{Ticker: "GARE11"})
	assertNoError(t, err, "list earnings")
	if len(list) != 1 || list[0].Pending {
		t.Errorf("expected pending cleared, got %+v", list)
	}
}

func TestDeleteEarnings(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := testContext()

	id := testEarnings(t, core, "GARE11", "jcp", 0.12, 400, false)

	ok, err := core.DeleteEarnings(ctx, id)
	assertNoError(t, err, "delete earnings")
	if !ok {
		t.Fatal("expected delete to report a matched row")
	}

	list, err := core.GetEarnings(ctx, RecordFilter{})
	assertNoError(t, err, "list after delete")
	if len(list) != 0 {
		t.Errorf("expected no earnings left, got %d", len(list))
	}
}
