package carteira

import (
	"database/sql"
	"strings"
	"time"
)

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func normalizeAssetClass(class string) string {
	return strings.ToLower(strings.TrimSpace(class))
}

func isValidAssetClass(class string) bool {
	for _, c := range AssetClasses {
		if c == class {
			return true
		}
	}
	return false
}

func isValidEarningsType(earningsType string) bool {
	for _, t := range EarningsTypes {
		if t == earningsType {
			return true
		}
	}
	return false
}

func isValidDerivativeOperation(op string) bool {
	for _, t := range DerivativeOperationTypes {
		if t == op {
			return true
		}
	}
	return false
}

func isValidDerivativeType(derivativeType string) bool {
	for _, t := range DerivativeTypes {
		if t == derivativeType {
			return true
		}
	}
	return false
}

func isValidDerivativeStatus(status string) bool {
	for _, s := range DerivativeStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func isValidDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func todayISO() string {
	return time.Now().Format("2006-01-02")
}

func stringPtr(s string) *string {
	return &s
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return trimmed
}

func scanNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
