package carteira

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// EarningsRequest defines inputs to add or update an earnings record.
type EarningsRequest struct {
	Ticker       string
	EarningsType string
	Date         string
	UnitValue    Amount
	Quantity     int64
	Pending      bool
	Notes        *string
}

func validateEarnings(req *EarningsRequest) error {
	req.Ticker = normalizeTicker(req.Ticker)
	if req.Ticker == "" {
		return NewError(ErrCodeValidation, "ticker required")
	}
	req.EarningsType = strings.ToLower(strings.TrimSpace(req.EarningsType))
	if !isValidEarningsType(req.EarningsType) {
		return NewError(ErrCodeValidation, fmt.Sprintf("invalid earnings_type: %s", req.EarningsType))
	}
	if req.Date == "" {
		req.Date = todayISO()
	}
	if !isValidDate(req.Date) {
		return NewError(ErrCodeValidation, fmt.Sprintf("invalid date: %s", req.Date))
	}
	if req.UnitValue.IsNegative() {
		return NewError(ErrCodeValidation, "unit_value must not be negative")
	}
	if req.Quantity < 0 {
		return NewError(ErrCodeValidation, "quantity must not be negative")
	}
	return nil
}

// AddEarnings inserts a new earnings record and returns its ID.
func (c *Core) AddEarnings(ctx context.Context, req EarningsRequest) (RecordID, error) {
	if err := validateEarnings(&req); err != nil {
		return 0, err
	}

	var id RecordID
	err := c.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO earnings (ticker, earnings_type, date, unit_value, quantity, pending, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, req.Ticker, req.EarningsType, req.Date, req.UnitValue, req.Quantity, boolToInt(req.Pending), nullString(req.Notes))
		if err != nil {
			return WrapError(ErrCodeDatabase, "insert earnings", err)
		}
		raw, err := result.LastInsertId()
		if err != nil {
			return WrapError(ErrCodeDatabase, "earnings id", err)
		}
		id = RecordID(raw)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetEarnings returns earnings records matching the filter, most recent first.
func (c *Core) GetEarnings(ctx context.Context, filter RecordFilter) ([]EarningsRecord, error) {
	query, params := buildRecordQuery(
		"SELECT id, ticker, earnings_type, date, unit_value, quantity, pending, notes, created_at FROM earnings",
		false, filter,
	)
	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "list earnings", err)
	}
	defer rows.Close()

	var records []EarningsRecord
	for rows.Next() {
		record, err := scanEarnings(rows.Scan)
		if err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan earnings", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// UpdateEarnings replaces an earnings record's fields. Returns false when not found.
func (c *Core) UpdateEarnings(ctx context.Context, id RecordID, req EarningsRequest) (bool, error) {
	if err := validateEarnings(&req); err != nil {
		return false, err
	}

	var updated bool
	err := c.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE earnings
			SET ticker = ?, earnings_type = ?, date = ?, unit_value = ?, quantity = ?, pending = ?, notes = ?
			WHERE id = ?
		`, req.Ticker, req.EarningsType, req.Date, req.UnitValue, req.Quantity, boolToInt(req.Pending), nullString(req.Notes), int64(id))
		if err != nil {
			return WrapError(ErrCodeDatabase, "update earnings", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return WrapError(ErrCodeDatabase, "update earnings", err)
		}
		updated = affected > 0
		return nil
	})
	return updated, err
}

// DeleteEarnings removes an earnings record. Returns false when not found.
func (c *Core) DeleteEarnings(ctx context.Context, id RecordID) (bool, error) {
	result, err := c.db.ExecContext(ctx, "DELETE FROM earnings WHERE id = ?", int64(id))
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete earnings", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete earnings", err)
	}
	return affected > 0, nil
}

func scanEarnings(scan func(...any) error) (*EarningsRecord, error) {
	var record EarningsRecord
	var pending int
	var notes, createdAt sql.NullString
	if err := scan(
		&record.ID, &record.Ticker, &record.EarningsType, &record.Date,
		&record.UnitValue, &record.Quantity, &pending, &notes, &createdAt,
	); err != nil {
		return nil, err
	}
	record.Pending = pending != 0
	record.Notes = scanNullString(notes)
	record.CreatedAt = scanNullString(createdAt)
	return &record, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
