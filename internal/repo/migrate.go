package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

const oneDefaultAddressIndex = "ux_user_addresses_one_default"

func Migrate(ctx context.Context, db *gorm.DB, log *slog.Logger) error {
	log.Info("migrate_start")

	if err := db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.UserAddress{},
		&models.Order{},
		&models.OrderDetail{},
		&models.Content{},
		&models.GuestMessage{},
	); err != nil {
		log.Error("migrate_failed", "stage", "automigrate", "error", err)
		return fmt.Errorf("automigrate: %w", err)
	}

	// at most one default address per user
	ddl := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s) WHERE %s",
		pq.QuoteIdentifier(oneDefaultAddressIndex),
		pq.QuoteIdentifier("user_addresses"),
		pq.QuoteIdentifier("user_id"),
		pq.QuoteIdentifier("is_default"),
	)
	if err := db.WithContext(ctx).Exec(ddl).Error; err != nil {
		log.Error("migrate_failed", "stage", "default_address_index", "error", err)
		return fmt.Errorf("create %s: %w", oneDefaultAddressIndex, err)
	}

	log.Info("migrate_done")
	return nil
}
