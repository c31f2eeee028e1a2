package carteira

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// RecordFilter controls list queries for all record types.
type RecordFilter struct {
	Ticker     string
	AssetClass string
	StartDate  string
	EndDate    string
	Limit      int
	Offset     int
}

// TradeRequest defines inputs to add or update a purchase or sale.
type TradeRequest struct {
	AssetClass string
	Ticker     string
	Date       string
	Quantity   int64
	UnitPrice  Amount
	Fees       Amount
	Notes      *string
}

func validateTrade(req *TradeRequest) error {
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
	if req.Quantity <= 0 {
		return NewError(ErrCodeValidation, "quantity must be positive")
	}
	if !req.UnitPrice.IsPositive() {
		return NewError(ErrCodeValidation, "unit_price must be positive")
	}
	if req.Fees.IsNegative() {
		return NewError(ErrCodeValidation, "fees must not be negative")
	}
	return nil
}

// AddPurchase inserts a new purchase record and returns its ID.
// The total cost is derived as quantity*unit_price + fees.
func (c *Core) AddPurchase(ctx context.Context, req TradeRequest) (RecordID, error) {
	if err := validateTrade(&req); err != nil {
		return 0, err
	}
	totalCost := req.UnitPrice.MulInt(req.Quantity).Add(req.Fees)

	var id RecordID
	err := c.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO purchases (asset_class, ticker, date, quantity, unit_price, fees, total_cost, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, req.AssetClass, req.Ticker, req.Date, req.Quantity, req.UnitPrice, req.Fees, totalCost, nullString(req.Notes))
		if err != nil {
			return WrapError(ErrCodeDatabase, "insert purchase", err)
		}
		raw, err := result.LastInsertId()
		if err != nil {
			return WrapError(ErrCodeDatabase, "purchase id", err)
		}
		id = RecordID(raw)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetPurchase fetches a single purchase by ID. Returns nil when not found.
func (c *Core) GetPurchase(ctx context.Context, id RecordID) (*PurchaseRecord, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, asset_class, ticker, date, quantity, unit_price, fees, total_cost, notes, created_at
		FROM purchases WHERE id = ?
	`, int64(id))
	record, err := scanPurchase(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "get purchase", err)
	}
	return record, nil
}

// GetPurchases returns purchase records matching the filter, most recent first.
func (c *Core) GetPurchases(ctx context.Context, filter RecordFilter) ([]PurchaseRecord, error) {
	query, params := buildRecordQuery(
		"SELECT id, asset_class, ticker, date, quantity, unit_price, fees, total_cost, notes, created_at FROM purchases",
		true, filter,
	)
	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "list purchases", err)
	}
	defer rows.Close()

	var records []PurchaseRecord
	for rows.Next() {
		record, err := scanPurchase(rows.Scan)
		if err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan purchase", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// UpdatePurchase replaces a purchase record's fields. Returns false when the
// record does not exist.
func (c *Core) UpdatePurchase(ctx context.Context, id RecordID, req TradeRequest) (bool, error) {
	if err := validateTrade(&req); err != nil {
		return false, err
	}
	totalCost := req.UnitPrice.MulInt(req.Quantity).Add(req.Fees)

	var updated bool
	err := c.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE purchases
			SET asset_class = ?, ticker = ?, date = ?, quantity = ?, unit_price = ?, fees = ?, total_cost = ?, notes = ?
			WHERE id = ?
		`, req.AssetClass, req.Ticker, req.Date, req.Quantity, req.UnitPrice, req.Fees, totalCost, nullString(req.Notes), int64(id))
		if err != nil {
			return WrapError(ErrCodeDatabase, "update purchase", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return WrapError(ErrCodeDatabase, "update purchase", err)
		}
		updated = affected > 0
		return nil
	})
	return updated, err
}

// DeletePurchase removes a purchase record. Returns false when not found.
func (c *Core) DeletePurchase(ctx context.Context, id RecordID) (bool, error) {
	result, err := c.db.ExecContext(ctx, "DELETE FROM purchases WHERE id = ?", int64(id))
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete purchase", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete purchase", err)
	}
	return affected > 0, nil
}

func scanPurchase(scan func(...any) error) (*PurchaseRecord, error) {
	var record PurchaseRecord
	var notes, createdAt sql.NullString
	if err := scan(
		&record.ID, &record.AssetClass, &record.Ticker, &record.Date, &record.Quantity,
		&record.UnitPrice, &record.Fees, &record.TotalCost, &notes, &createdAt,
	); err != nil {
		return nil, err
	}
	record.Notes = scanNullString(notes)
	record.CreatedAt = scanNullString(createdAt)
	return &record, nil
}

// buildRecordQuery appends shared filter clauses. withAssetClass is false for
// tables without an asset_class column.
func buildRecordQuery(base string, withAssetClass bool, filter RecordFilter) (string, []any) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := strings.Builder{}
	query.WriteString(base)
	query.WriteString(" WHERE 1=1")
	params := []any{}

	if ticker := normalizeTicker(filter.Ticker); ticker != "" {
		query.WriteString(" AND ticker = ?")
		params = append(params, ticker)
	}
	if withAssetClass {
		if class := normalizeAssetClass(filter.AssetClass); class != "" {
			query.WriteString(" AND asset_class = ?")
			params = append(params, class)
		}
	}
	if filter.StartDate != "" {
		query.WriteString(" AND date >= ?")
		params = append(params, filter.StartDate)
	}
	if filter.EndDate != "" {
		query.WriteString(" AND date <= ?")
		params = append(params, filter.EndDate)
	}
	query.WriteString(" ORDER BY date DESC, id DESC LIMIT ? OFFSET ?")
	params = append(params, limit, offset)
	return query.String(), params
}
