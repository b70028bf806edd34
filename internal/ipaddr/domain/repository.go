package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// InsertIgnore stores addresses not seen before as unresolved
	// records. Already-present addresses keep their state (first-seen
	// wins). Returns the number of rows actually inserted.
	InsertIgnore(ctx context.Context, db *gorm.DB, addrs []string) (int64, error)

	// FindUnresolved returns the addresses still missing a city,
	// ordered by address. The result is a snapshot: rows added
	// afterwards belong to the next enrichment pass.
	FindUnresolved(ctx context.Context, db *gorm.DB) ([]string, error)

	// BulkUpdateLocations applies accepted enrichment results in a
	// single transaction, keyed by address.
	BulkUpdateLocations(ctx context.Context, db *gorm.DB, updates []LocationUpdate) (int64, error)

	FindByAddress(ctx context.Context, db *gorm.DB, addr string) (*IPRecord, error)
}
