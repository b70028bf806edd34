package db

import (
	"fmt"

	"github.com/smallbiznis/geotally/internal/config"
	ipaddrdomain "github.com/smallbiznis/geotally/internal/ipaddr/domain"
	orderdomain "github.com/smallbiznis/geotally/internal/order/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module provides the gorm handle with the schema already migrated.
var Module = fx.Provide(Open)

// Open connects to the configured store and migrates the orders and
// ip_data tables. The partial index backs the unresolved-IP selection.
func Open(cfg config.Config) (*gorm.DB, error) {
	dialect, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialect, &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate creates the schema if it does not exist yet.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&orderdomain.Order{}, &ipaddrdomain.IPRecord{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	if gdb.Dialector.Name() == "sqlite" {
		if err := gdb.Exec(
			"CREATE INDEX IF NOT EXISTS idx_ip_unresolved ON ip_data(ip_address) WHERE city IS NULL OR city = ''",
		).Error; err != nil {
			return fmt.Errorf("create unresolved index: %w", err)
		}
	}
	return nil
}
