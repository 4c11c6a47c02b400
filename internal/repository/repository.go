package repository

import (
	"errors"

	"apexmine/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate adds a FOR UPDATE row lock. SQLite (used by tests) has no
// row locks and serializes writers itself, so the clause is skipped.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// notFound maps gorm's record-not-found onto the domain error so callers
// can test with errors.Is without importing gorm.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
