package iostore

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/gitpulse/schema"
)

// migrationsTable tracks the applied schema version in every backend.
const migrationsTable = "gitpulse_schema_migrations"

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// migrationResult describes the outcome of a migration.
type migrationResult struct {
	from    uint
	to      uint
	changed bool
}

// MigrateHistory runs database migrations for the history store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations.
// - If targetVersion > 0, it migrates to the specified version.
func MigrateHistory(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	res, err := migrateTo(backend, connStr, targetVersion)
	if err != nil {
		return err
	}

	switch {
	case !res.changed && targetVersion < 0:
		fmt.Println("No migration needed. Database is already at the latest version.")
	case !res.changed:
		fmt.Printf("No migration needed. Database is already at version %d\n", res.to)
	case targetVersion == 0:
		fmt.Printf("Successfully rolled back from version %d to version 0\n", res.from)
	default:
		fmt.Printf("Successfully migrated from version %d to version %d\n", res.from, res.to)
	}
	return nil
}

// migrateTo applies migrations without printing anything.
func migrateTo(backend schema.DatabaseBackend, connStr string, targetVersion int) (migrationResult, error) {
	var res migrationResult
	if backend == schema.NoneBackend {
		return res, errors.New("migrations are not supported for the none backend")
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return res, err
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return res, fmt.Errorf("failed to ping database: %w", err)
	}

	var driver database.Driver
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: migrationsTable})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{MigrationsTable: migrationsTable})
	case schema.PostgreSQLBackend:
		driver, err = migratepgx.WithInstance(db, &migratepgx.Config{MigrationsTable: migrationsTable})
	}
	if err != nil {
		return res, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	backendFS, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		return res, fmt.Errorf("failed to access migrations for %s: %w", backend, err)
	}
	sourceDriver, err := iofs.New(backendFS, ".")
	if err != nil {
		return res, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "gitpulse", driver)
	if err != nil {
		return res, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return res, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return res, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", current)
	}
	res.from = current

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		res.to = current
		return res, nil
	}
	if err != nil && targetVersion < 0 {
		return res, fmt.Errorf("failed to migrate to latest version: %w", err)
	}
	if err != nil {
		return res, fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
	}

	res.changed = true
	res.to, _, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		res.to = 0
	} else if err != nil {
		return res, fmt.Errorf("failed to read migrated version: %w", err)
	}
	return res, nil
}
