package carteira

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// DerivativeRequest defines inputs to add or update a derivative record.
type DerivativeRequest struct {
	Ticker         string
	OptionCode     *string
	OperationType  string
	DerivativeType string
	Strike         Amount
	Expiry         string
	Date           string
	Quantity       int64
	Premium        Amount
	Status         string
	Notes          *string
}

func validateDerivative(req *DerivativeRequest) error {
	req.Ticker = normalizeTicker(req.Ticker)
	if req.Ticker == "" {
		return NewError(ErrCodeValidation, "ticker required")
	}
	req.OperationType = strings.ToLower(strings.TrimSpace(req.OperationType))
	if !isValidDerivativeOperation(req.OperationType) {
		return NewError(ErrCodeValidation, fmt.Sprintf("invalid operation_type: %s", req.OperationType))
	}
	req.DerivativeType = strings.ToLower(strings.TrimSpace(req.DerivativeType))
	if !isValidDerivativeType(req.DerivativeType) {
		return NewError(ErrCodeValidation, fmt.Sprintf("invalid derivative_type: %s", req.DerivativeType))
	}
	if req.Status == "" {
		req.Status = "open"
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if !isValidDerivativeStatus(req.Status) {
		return NewError(ErrCodeValidation, fmt.Sprintf("invalid status: %s", req.Status))
	}
	if req.Date == "" {
		req.Date = todayISO()
	}
	if !isValidDate(req.Date) {
		return NewError(ErrCodeValidation, fmt.Sprintf("invalid date: %s", req.Date))
	}
	if !isValidDate(req.Expiry) {
		return NewError(ErrCodeValidation, fmt.Sprintf("invalid expiry: %s", req.Expiry))
	}
	if req.Quantity <= 0 {
		return NewError(ErrCodeValidation, "quantity must be positive")
	}
	if !req.Strike.IsPositive() {
		return NewError(ErrCodeValidation, "strike must be positive")
	}
	if !req.Premium.IsPositive() {
		return NewError(ErrCodeValidation, "premium must be positive")
	}
	return nil
}

// AddDerivative inserts a new derivative record and returns its ID.
// The total value is derived as quantity*premium.
func (c *Core) AddDerivative(ctx context.Context, req DerivativeRequest) (RecordID, error) {
	if err := validateDerivative(&req); err != nil {
		return 0, err
	}
	totalValue := req.Premium.MulInt(req.Quantity)

	var id RecordID
	err := c.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO derivatives (ticker, option_code, operation_type, derivative_type, strike, expiry, date, quantity, premium, status, total_value, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, req.Ticker, nullString(req.OptionCode), req.OperationType, req.DerivativeType, req.Strike,
			req.Expiry, req.Date, req.Quantity, req.Premium, req.Status, totalValue, nullString(req.Notes))
		if err != nil {
			return WrapError(ErrCodeDatabase, "insert derivative", err)
		}
		raw, err := result.LastInsertId()
		if err != nil {
			return WrapError(ErrCodeDatabase, "derivative id", err)
		}
		id = RecordID(raw)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetDerivatives returns derivative records matching the filter, most recent first.
func (c *Core) GetDerivatives(ctx context.Context, filter RecordFilter) ([]DerivativeRecord, error) {
	query, params := buildRecordQuery(
		"SELECT id, ticker, option_code, operation_type, derivative_type, strike, expiry, date, quantity, premium, status, total_value, notes, created_at FROM derivatives",
		false, filter,
	)
	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "list derivatives", err)
	}
	defer rows.Close()

	var records []DerivativeRecord
	for rows.Next() {
		record, err := scanDerivative(rows.Scan)
		if err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan derivative", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// UpdateDerivative replaces a derivative record's fields. Returns false when not found.
func (c *Core) UpdateDerivative(ctx context.Context, id RecordID, req DerivativeRequest) (bool, error) {
	if err := validateDerivative(&req); err != nil {
		return false, err
	}
	totalValue := req.Premium.MulInt(req.Quantity)

	var updated bool
	err := c.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE derivatives
			SET ticker = ?, option_code = ?, operation_type = ?, derivative_type = ?, strike = ?, expiry = ?, date = ?, quantity = ?, premium = ?, status = ?, total_value = ?, notes = ?
			WHERE id = ?
		`, req.Ticker, nullString(req.OptionCode), req.OperationType, req.DerivativeType, req.Strike,
			req.Expiry, req.Date, req.Quantity, req.Premium, req.Status, totalValue, nullString(req.Notes), int64(id))
		if err != nil {
			return WrapError(ErrCodeDatabase, "update derivative", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return WrapError(ErrCodeDatabase, "update derivative", err)
		}
		updated = affected > 0
		return nil
	})
	return updated, err
}

// DeleteDerivative removes a derivative record. Returns false when not found.
func (c *Core) DeleteDerivative(ctx context.Context, id RecordID) (bool, error) {
	result, err := c.db.ExecContext(ctx, "DELETE FROM derivatives WHERE id = ?", int64(id))
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete derivative", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete derivative", err)
	}
	return affected > 0, nil
}

func scanDerivative(scan func(...any) error) (*DerivativeRecord, error) {
	var record DerivativeRecord
	var optionCode, notes, createdAt sql.NullString
	if err := scan(
		&record.ID, &record.Ticker, &optionCode, &record.OperationType, &record.DerivativeType,
		&record.Strike, &record.Expiry, &record.Date, &record.Quantity, &record.Premium,
		&record.Status, &record.TotalValue, &notes, &createdAt,
	); err != nil {
		return nil, err
	}
	record.OptionCode = scanNullString(optionCode)
	record.Notes = scanNullString(notes)
	record.CreatedAt = scanNullString(createdAt)
	return &record, nil
}
