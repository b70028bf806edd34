package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// InsertIgnore creates orders that do not exist yet. Conflicting
	// order numbers are left untouched. Returns the number of rows
	// actually inserted.
	InsertIgnore(ctx context.Context, db *gorm.DB, orders []*Order) (int64, error)

	// AssignIPs overwrites ip_address on matching orders. Unknown
	// order numbers are ignored. Returns the number of rows updated.
	AssignIPs(ctx context.Context, db *gorm.DB, assignments []IPAssignment) (int64, error)

	// PropagateLocations copies city/state/zip from ip_data onto every
	// order whose ip_address has a matching record, resolved or not.
	PropagateLocations(ctx context.Context, db *gorm.DB) (int64, error)

	FindAll(ctx context.Context, db *gorm.DB) ([]*Order, error)
}
