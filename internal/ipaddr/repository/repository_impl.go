package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/geotally/internal/ipaddr/domain"
	pkgdb "github.com/smallbiznis/geotally/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertChunk = 500

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertIgnore(ctx context.Context, db *gorm.DB, addrs []string) (int64, error) {
	if len(addrs) == 0 {
		return 0, nil
	}
	records := make([]*domain.IPRecord, 0, len(addrs))
	seen := make(map[string]struct{}, len(addrs))
	for _, addr := range addrs {
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		records = append(records, &domain.IPRecord{IPAddress: addr})
	}
	stmt := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(records, insertChunk)
	if pkgdb.IsDuplicateKeyErr(stmt.Error) {
		return stmt.RowsAffected, nil
	}
	return stmt.RowsAffected, stmt.Error
}

func (r *repo) FindUnresolved(ctx context.Context, db *gorm.DB) ([]string, error) {
	var addrs []string
	err := db.WithContext(ctx).
		Model(&domain.IPRecord{}).
		Where("city IS NULL OR city = ''").
		Order("ip_address").
		Pluck("ip_address", &addrs).Error
	return addrs, err
}

func (r *repo) BulkUpdateLocations(ctx context.Context, db *gorm.DB, updates []domain.LocationUpdate) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	var updated int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			stmt := tx.Exec(
				`UPDATE ip_data SET city = ?, state = ?, zip_code = ? WHERE ip_address = ?`,
				u.City,
				u.State,
				u.ZipCode,
				u.IPAddress,
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

func (r *repo) FindByAddress(ctx context.Context, db *gorm.DB, addr string) (*domain.IPRecord, error) {
	var record domain.IPRecord
	err := db.WithContext(ctx).
		Where("ip_address = ?", addr).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
