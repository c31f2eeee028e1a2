package carteira

import (
	"context"
	"database/sql"
)

// AddSale inserts a new sale record and returns its ID.
// The total proceeds are derived as quantity*unit_price - fees.
func (c *Core) AddSale(ctx context.Context, req TradeRequest) (RecordID, error) {
	if err := validateTrade(&req); err != nil {
		return 0, err
	}
	totalProceeds := req.UnitPrice.MulInt(req.Quantity).Sub(req.Fees)

	var id RecordID
	err := c.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO sales (asset_class, ticker, date, quantity, unit_price, fees, total_proceeds, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, req.AssetClass, req.Ticker, req.Date, req.Quantity, req.UnitPrice, req.Fees, totalProceeds, nullString(req.Notes))
		if err != nil {
			return WrapError(ErrCodeDatabase, "insert sale", err)
		}
		raw, err := result.LastInsertId()
		if err != nil {
			return WrapError(ErrCodeDatabase, "sale id", err)
		}
		id = RecordID(raw)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetSale fetches a single sale by ID. Returns nil when not found.
func (c *Core) GetSale(ctx context.Context, id RecordID) (*SaleRecord, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, asset_class, ticker, date, quantity, unit_price, fees, total_proceeds, notes, created_at
		FROM sales WHERE id = ?
	`, int64(id))
	record, err := scanSale(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "get sale", err)
	}
	return record, nil
}

// GetSales returns sale records matching the filter, most recent first.
func (c *Core) GetSales(ctx context.Context, filter RecordFilter) ([]SaleRecord, error) {
	query, params := buildRecordQuery(
		"SELECT id, asset_class, ticker, date, quantity, unit_price, fees, total_proceeds, notes, created_at FROM sales",
		true, filter,
	)
	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "list sales", err)
	}
	defer rows.Close()

	var records []SaleRecord
	for rows.Next() {
		record, err := scanSale(rows.Scan)
		if err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan sale", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// UpdateSale replaces a sale record's fields. Returns false when not found.
func (c *Core) UpdateSale(ctx context.Context, id RecordID, req TradeRequest) (bool, error) {
	if err := validateTrade(&req); err != nil {
		return false, err
	}
	totalProceeds := req.UnitPrice.MulInt(req.Quantity).Sub(req.Fees)

	var updated bool
	err := c.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE sales
			SET asset_class = ?, ticker = ?, date = ?, quantity = ?, unit_price = ?, fees = ?, total_proceeds = ?, notes = ?
			WHERE id = ?
		`, req.AssetClass, req.Ticker, req.Date, req.Quantity, req.UnitPrice, req.Fees, totalProceeds, nullString(req.Notes), int64(id))
		if err != nil {
			return WrapError(ErrCodeDatabase, "update sale", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return WrapError(ErrCodeDatabase, "update sale", err)
		}
		updated = affected > 0
		return nil
	})
	return updated, err
}

// DeleteSale removes a sale record. Returns false when not found.
func (c *Core) DeleteSale(ctx context.Context, id RecordID) (bool, error) {
	result, err := c.db.ExecContext(ctx, "DELETE FROM sales WHERE id = ?", int64(id))
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete sale", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete sale", err)
	}
	return affected > 0, nil
}

func scanSale(scan func(...any) error) (*SaleRecord, error) {
	var record SaleRecord
	var notes, createdAt sql.NullString
	if err := scan(
		&record.ID, &record.AssetClass, &record.Ticker, &record.Date, &record.Quantity,
		&record.UnitPrice, &record.Fees, &record.TotalProceeds, &notes, &createdAt,
	); err != nil {
		return nil, err
	}
	record.Notes = scanNullString(notes)
	record.CreatedAt = scanNullString(createdAt)
	return &record, nil
}
