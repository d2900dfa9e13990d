package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/jorsalda/gestion-permisos-colegios/config"
	"github.com/jorsalda/gestion-permisos-colegios/models"
)

// Connect opens the Postgres connection and migrates the schema. The handle
// is returned to the caller; nothing package-global holds it.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate is separate from Connect so tests can run it against their own
// store.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.School{},
		&models.Account{},
		&models.Teacher{},
		&models.Leave{},
	)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
