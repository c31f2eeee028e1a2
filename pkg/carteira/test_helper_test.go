package carteira

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// setupTestDB creates a temporary database for testing and returns a Core
// instance. The caller should defer cleanup() to remove the temp files.
func setupTestDB(t *testing.T) (*Core, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "carteira-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	core, err := Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open test db: %v", err)
	}

	cleanup := func() {
		core.Close()
		os.RemoveAll(tmpDir)
	}

	return core, cleanup
}

// testContext returns the context used by test calls into the core.
func testContext() context.Context {
	return context.Background()
}

// testPurchase inserts a purchase record for testing.
func testPurchase(t *testing.T, core *Core, ticker, assetClass string, qty int64, unitPrice, fees float64) RecordID {
	t.Helper()
	id, err := core.AddPurchase(context.Background(), TradeRequest{
		AssetClass: assetClass,
		Ticker:     ticker,
		Date:       "2025-01-15",
		Quantity:   qty,
		UnitPrice:  NewAmount(unitPrice),
		Fees:       NewAmount(fees),
	})
	if err != nil {
		t.Fatalf("failed to create test purchase: %v", err)
	}
	return id
}

// testSale inserts a sale record for testing.
func testSale(t *testing.T, core *Core, ticker, assetClass string, qty int64, unitPrice, fees float64) RecordID {
	t.Helper()
	id, err := core.AddSale(context.Background(), TradeRequest{
		AssetClass: assetClass,
		Ticker:     ticker,
		Date:       "2025-02-15",
		Quantity:   qty,
		UnitPrice:  NewAmount(unitPrice),
		Fees:       NewAmount(fees),
	})
	if err != nil {
		t.Fatalf("failed to create test sale: %v", err)
	}
	return id
}

// testEarnings inserts an earnings record for testing.
func testEarnings(t *testing.T, core *Core, ticker, earningsType string, unitValue float64, qty int64, pending bool) RecordID {
	t.Helper()
	id, err := core.AddEarnings(context.Background(), EarningsRequest{
		Ticker:       ticker,
		EarningsType: earningsType,
		Date:         "2025-03-10",
		UnitValue:    NewAmount(unitValue),
		Quantity:     qty,
		Pending:      pending,
	})
	if err != nil {
		t.Fatalf("failed to create test earnings: %v", err)
	}
	return id
}

// testDerivative inserts a derivative record for testing.
func testDerivative(t *testing.T, core *Core, ticker, operationType, derivativeType string, qty int64, premium float64) RecordID {
	t.Helper()
	id, err := core.AddDerivative(context.Background(), DerivativeRequest{
		Ticker:         ticker,
		OperationType:  operationType,
		DerivativeType: derivativeType,
		Strike:         NewAmount(30),
		Expiry:         "2025-06-20",
		Date:           "2025-03-05",
		Quantity:       qty,
		Premium:        NewAmount(premium),
		Status:         "open",
	})
	if err != nil {
		t.Fatalf("failed to create test derivative: %v", err)
	}
	return id
}

// floatEquals checks if two floats are approximately equal.
func floatEquals(a, b, epsilon float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

// assertFloatEquals fails the test if the floats are not approximately equal.
func assertFloatEquals(t *testing.T, got, want float64, msg string) {
	t.Helper()
	if !floatEquals(got, want, 0.001) {
		t.Errorf("%s: got %.4f, want %.4f", msg, got, want)
	}
}

// assertAmountEquals fails the test if the Amount does not match the float value.
func assertAmountEquals(t *testing.T, got Amount, want float64, msg string) {
	t.Helper()
	f, _ := got.Float64()
	if !floatEquals(f, want, 0.001) {
		t.Errorf("%s: got %.4f, want %.4f", msg, f, want)
	}
}

// assertNoError fails the test if err is not nil.
func assertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

// assertError fails the test if err is nil.
func assertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", msg)
	}
}

// assertErrorCode fails the test if err does not carry the given code.
func assertErrorCode(t *testing.T, err error, code ErrorCode, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error with code %s but got nil", msg, code)
	}
	if !IsErrorCode(err, code) {
		t.Errorf("%s: expected error code %s, got: %v", msg, code, err)
	}
}
