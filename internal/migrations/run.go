// Package migrations применяет SQL-миграции схемы маркетплейса.
package migrations

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxv5 "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrDirty возвращается, если предыдущая миграция оборвалась на середине
// и схему нужно чинить вручную.
var ErrDirty = errors.New("schema is dirty")

// Run доводит схему до последней версии из каталога dir и возвращает
// номер примененной версии. Повторный запуск ничего не меняет.
//
// Миграции не закрываются: драйвер держит переданный *sql.DB, и его закрытие
// остается за вызывающим.
func Run(db *sql.DB, dir string) (uint, error) {
	const op = "migrations.Run"

	m, err := newMigrator(db, dir)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if _, dirty, err := m.Version(); err == nil && dirty {
		return 0, fmt.Errorf("%s: %w", op, ErrDirty)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	version, _, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return version, nil
}

func newMigrator(db *sql.DB, dir string) (*migrate.Migrate, error) {
	driver, err := pgxv5.WithInstance(db, &pgxv5.Config{})
	if err != nil {
		return nil, err
	}
	return migrate.NewWithDatabaseInstance("file://"+dir, "pgx_v5", driver)
}
