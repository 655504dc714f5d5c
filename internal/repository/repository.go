package repository

import (
	"database/sql"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate locks the selected rows until the surrounding transaction ends.
// SQLite has no row locks; its driver drops the clause.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// scanSuma reads a "COALESCE(SUM(x), 0), COUNT(*)" row. Sums are rounded to
// cents because SQLite aggregates decimal columns as REAL.
func scanSuma(row *sql.Row) (decimal.Decimal, int64, error) {
	var (
		total decimal.Decimal
		n     int64
	)
	if err := row.Scan(&total, &n); err != nil {
		return decimal.Zero, 0, err
	}
	return total.Round(2), n, nil
}
