package carteira

import (
	"context"
	"database/sql"
	"fmt"
)

// ReferencePriceRequest defines inputs to set a ticker's reference price.
type ReferencePriceRequest struct {
	AssetClass string
	Ticker     string
	Date       string
	Price      Amount
}

func validateReferencePrice(req *ReferencePriceRequest) error {
	req.Ticker = normalizeTicker(req.Ticker)
	if req.Ticker == "" {
		return NewError(ErrCodeValidation, "ticker required")
	}
	req.AssetClass = normalizeAssetClass(req.AssetClass)
	if !isValidAssetClass(req.AssetClass) {
		return NewError(ErrCodeValidation, fmt.Sprintf("invalid asset_class: %s", req.AssetClass))
	}
	if req.Date == "" {
		req.Date = todayISO()
	}
	if !isValidDate(req.Date) {
		return NewError(ErrCodeValidation, fmt.Sprintf("invalid date: %s", req.Date))
	}
	if !req.Price.IsPositive() {
		return NewError(ErrCodeValidation, "price must be positive")
	}
	return nil
}

// SetReferencePrice inserts or updates the reference price for a ticker.
// A ticker holds at most one reference price row.
func (c *Core) SetReferencePrice(ctx context.Context, req ReferencePriceRequest) (RecordID, error) {
	if err := validateReferencePrice(&req); err != nil {
		return 0, err
	}

	var id RecordID
	err := c.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO reference_prices (asset_class, ticker, date, price)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(ticker) DO UPDATE SET
				asset_class = excluded.asset_class,
				date = excluded.date,
				price = excluded.price
		`, req.AssetClass, req.Ticker, req.Date, req.Price); err != nil {
			return WrapError(ErrCodeDatabase, "set reference price", err)
		}
		var raw int64
		if err := tx.QueryRowContext(ctx, "SELECT id FROM reference_prices WHERE ticker = ?", req.Ticker).Scan(&raw); err != nil {
			return WrapError(ErrCodeDatabase, "reference price id", err)
		}
		id = RecordID(raw)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetReferencePrices returns all reference prices matching the filter,
// ordered by ticker.
func (c *Core) GetReferencePrices(ctx context.Context, filter RecordFilter) ([]ReferencePrice, error) {
	query := "SELECT id, asset_class, ticker, date, price, created_at FROM reference_prices WHERE 1=1"
	params := []any{}
	if ticker := normalizeTicker(filter.Ticker); ticker != "" {
		query += " AND ticker = ?"
		params = append(params, ticker)
	}
	if class := normalizeAssetClass(filter.AssetClass); class != "" {
		query += " AND asset_class = ?"
		params = append(params, class)
	}
	query += " ORDER BY ticker ASC"

	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "list reference prices", err)
	}
	defer rows.Close()

	var prices []ReferencePrice
	for rows.Next() {
		var p ReferencePrice
		var createdAt sql.NullString
		if err := rows.Scan(&p.ID, &p.AssetClass, &p.Ticker, &p.Date, &p.Price, &createdAt); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan reference price", err)
		}
		p.CreatedAt = scanNullString(createdAt)
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// GetReferencePriceMap returns the ticker-to-price lookup used by the
// position aggregation engine. Tickers without a row are simply absent.
func (c *Core) GetReferencePriceMap(ctx context.Context) (map[string]Amount, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT ticker, price FROM reference_prices")
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "load reference prices", err)
	}
	defer rows.Close()

	prices := map[string]Amount{}
	for rows.Next() {
		var ticker string
		var price Amount
		if err := rows.Scan(&ticker, &price); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan reference price", err)
		}
		prices[ticker] = price
	}
	return prices, rows.Err()
}

// DeleteReferencePrice removes a reference price row. Returns false when not found.
func (c *Core) DeleteReferencePrice(ctx context.Context, id RecordID) (bool, error) {
	result, err := c.db.ExecContext(ctx, "DELETE FROM reference_prices WHERE id = ?", int64(id))
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete reference price", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete reference price", err)
	}
	return affected > 0, nil
}
