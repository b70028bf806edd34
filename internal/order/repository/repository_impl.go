package repository

import (
	"context"

	"github.com/smallbiznis/geotally/internal/order/domain"
	pkgdb "github.com/smallbiznis/geotally/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertChunk = 500

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertIgnore(ctx context.Context, db *gorm.DB, orders []*domain.Order) (int64, error) {
	if len(orders) == 0 {
		return 0, nil
	}
	stmt := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(orders, insertChunk)
	if pkgdb.IsDuplicateKeyErr(stmt.Error) {
		return stmt.RowsAffected, nil
	}
	return stmt.RowsAffected, stmt.Error
}

func (r *repo) AssignIPs(ctx context.Context, db *gorm.DB, assignments []domain.IPAssignment) (int64, error) {
	if len(assignments) == 0 {
		return 0, nil
	}
	var updated int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range assignments {
			stmt := tx.Exec(
				`UPDATE orders SET ip_address = ? WHERE order_number = ?`,
				a.IPAddress,
				a.OrderNumber,
			)
			if stmt.Error != nil {
				return stmt.Error
			}
			updated += stmt.RowsAffected
		}
		return nil
	})
	return updated, err
}

func (r *repo) PropagateLocations(ctx context.Context, db *gorm.DB) (int64, error) {
	stmt := db.WithContext(ctx).Exec(
		`UPDATE orders SET city = (
			SELECT ip_data.city FROM ip_data WHERE ip_data.ip_address = orders.ip_address
		), state = (
			SELECT ip_data.state FROM ip_data WHERE ip_data.ip_address = orders.ip_address
		), zip = (
			SELECT ip_data.zip_code FROM ip_data WHERE ip_data.ip_address = orders.ip_address
		) WHERE ip_address IS NOT NULL
		  AND ip_address IN (SELECT ip_address FROM ip_data)`,
	)
	return stmt.RowsAffected, stmt.Error
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := db.WithContext(ctx).Model(&domain.Order{}).Find(&orders).Error
	return orders, err
}
