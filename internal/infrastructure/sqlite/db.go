// Package sqlite almacén embebido sobre gorm + SQLite (DB_DRIVER=sqlite).
// Una sola conexión abierta: SQLite serializa las escrituras y así también las transacciones.
package sqlite

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open abre la base SQLite en path y aplica el esquema.
// path acepta un archivo o un DSN "file:...". Las claves foráneas quedan activas.
func Open(path string) (*gorm.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ruta de SQLite vacía")
	}
	db, err := gorm.Open(sqlite.Open(withForeignKeys(path)), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("obtener sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate crea o actualiza las tablas.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("conexión nula")
	}
	if err := db.AutoMigrate(
		&ingredientModel{},
		&productModel{},
		&productIngredientModel{},
		&costChangeModel{},
		&projectModel{},
		&requirementModel{},
	); err != nil {
		return fmt.Errorf("automigrate sqlite: %w", err)
	}
	return nil
}

func withForeignKeys(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path + sep + "_foreign_keys=1"
}

// OpenInMemory base en memoria identificada por name; vive mientras la conexión siga abierta.
func OpenInMemory(name string) (*gorm.DB, error) {
	return Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
}
