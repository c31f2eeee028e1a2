package carteira

import (
	"database/sql"
	"fmt"
)

func initDatabase(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS purchases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			asset_class TEXT NOT NULL CHECK(asset_class IN ('stock', 'reit', 'fixed_income')),
			ticker TEXT NOT NULL,
			date TEXT NOT NULL,
			quantity INTEGER NOT NULL CHECK(quantity > 0),
			unit_price REAL NOT NULL CHECK(unit_price > 0),
			fees REAL NOT NULL DEFAULT 0 CHECK(fees >= 0),
			total_cost REAL NOT NULL,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS sales (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			asset_class TEXT NOT NULL CHECK(asset_class IN ('stock', 'reit', 'fixed_income')),
			ticker TEXT NOT NULL,
			date TEXT NOT NULL,
			quantity INTEGER NOT NULL CHECK(quantity > 0),
			unit_price REAL NOT NULL CHECK(unit_price > 0),
			fees REAL NOT NULL DEFAULT 0 CHECK(fees >= 0),
			total_proceeds REAL NOT NULL,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS earnings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker TEXT NOT NULL,
			earnings_type TEXT NOT NULL CHECK(earnings_type IN ('dividend', 'jcp', 'bonus', 'split')),
			date TEXT NOT NULL,
			unit_value REAL NOT NULL CHECK(unit_value >= 0),
			quantity INTEGER NOT NULL DEFAULT 0 CHECK(quantity >= 0),
			pending INTEGER NOT NULL DEFAULT 0,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS derivatives (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker TEXT NOT NULL,
			option_code TEXT,
			operation_type TEXT NOT NULL CHECK(operation_type IN ('buy', 'sell')),
			derivative_type TEXT NOT NULL CHECK(derivative_type IN ('call', 'put')),
			strike REAL NOT NULL CHECK(strike > 0),
			expiry TEXT NOT NULL,
			date TEXT NOT NULL,
			quantity INTEGER NOT NULL CHECK(quantity > 0),
			premium REAL NOT NULL CHECK(premium > 0),
			status TEXT NOT NULL DEFAULT 'open' CHECK(status IN ('open', 'closed')),
			total_value REAL NOT NULL,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS reference_prices (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			asset_class TEXT NOT NULL CHECK(asset_class IN ('stock', 'reit', 'fixed_income')),
			ticker TEXT NOT NULL UNIQUE,
			date TEXT NOT NULL,
			price REAL NOT NULL CHECK(price > 0),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS ai_settings (
			id INTEGER PRIMARY KEY CHECK(id = 1),
			model TEXT NOT NULL DEFAULT '',
			risk_profile TEXT NOT NULL DEFAULT 'balanced',
			language TEXT NOT NULL DEFAULT 'pt-BR'
		)
	`); err != nil {
		return err
	}

	for _, stmt := range []string{
		"CREATE INDEX IF NOT EXISTS idx_purchases_ticker ON purchases(ticker)",
		"CREATE INDEX IF NOT EXISTS idx_purchases_date ON purchases(date)",
		"CREATE INDEX IF NOT EXISTS idx_sales_ticker ON sales(ticker)",
		"CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(date)",
		"CREATE INDEX IF NOT EXISTS idx_earnings_ticker ON earnings(ticker)",
		"CREATE INDEX IF NOT EXISTS idx_earnings_date ON earnings(date)",
		"CREATE INDEX IF NOT EXISTS idx_derivatives_ticker ON derivatives(ticker)",
		"CREATE INDEX IF NOT EXISTS idx_derivatives_expiry ON derivatives(expiry)",
	} {
		if err := exec(tx, stmt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func exec(tx *sql.Tx, stmt string) error {
	if _, err := tx.Exec(stmt); err != nil {
		return fmt.Errorf("exec schema statement: %w", err)
	}
	return nil
}
