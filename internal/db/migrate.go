package db

import (
	"fmt"

	"gorm.io/gorm"

	"studentblog/internal/model"
)

// models lists every persisted type in dependency order.
func models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Student{},
		&model.Blog{},
		&model.BlogLike{},
		&model.BlogComment{},
	}
}

// Migrate creates or updates the schema for all models.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// DropAll removes every table, children first.
func DropAll(gormDB *gorm.DB) error {
	tables := models()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := gormDB.Migrator().DropTable(tables[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
