package postgres

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/billbook/billbook/internal/logger"
	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

// Migration is a single versioned schema change
type Migration struct {
	Version uint
	Name    string
	SQL     string
}

// Migrator applies the embedded NNN_name.up.sql files with golang-migrate.
// Applied versions are tracked in schema_migrations.
type Migrator struct {
	m      *migrate.Migrate
	logger *logger.Logger
}

// NewMigrator runs migrations over the already opened pool. Closing the
// migrator closes the pool too.
func NewMigrator(db *DB) (*Migrator, error) {
	src, err := iofs.New(migrationFiles, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	driver, err := pgmigrate.WithInstance(db.DB.DB, &pgmigrate.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	m.Log = &migrateLogger{logger: db.logger}

	return &Migrator{m: m, logger: db.logger}, nil
}

// Version returns the applied schema version, 0 before the first migration
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Pending returns the embedded migrations newer than the applied version
func (m *Migrator) Pending() ([]Migration, error) {
	current, dirty, err := m.Version()
	if err != nil {
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return nil, fmt.Errorf("schema version %d is dirty and must be forced before migrating", current)
	}

	all, err := LoadMigrations(migrationFiles)
	if err != nil {
		return nil, err
	}
	return PendingAfter(all, current), nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("database schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Infow("database migrations completed", "version", version)
	return nil
}

// Down reverts the last steps migrations
func (m *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	if err := m.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to revert migrations: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Infow("database migrations reverted", "steps", steps, "version", version)
	return nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

// PendingAfter keeps the migrations whose version is above current
func PendingAfter(all []Migration, current uint) []Migration {
	var pending []Migration
	for _, mig := range all {
		if mig.Version > current {
			pending = append(pending, mig)
		}
	}
	return pending
}

// LoadMigrations reads the up migrations under migrations/ in fsys, in version
// order. Files that do not follow NNN_name.up.sql / NNN_name.down.sql are skipped.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	src, err := iofs.New(fsys, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	defer src.Close()

	var migrations []Migration
	version, err := src.First()
	for err == nil {
		mig, readErr := readUp(src, version)
		switch {
		case readErr == nil:
			migrations = append(migrations, mig)
		case !errors.Is(readErr, fs.ErrNotExist):
			return nil, readErr
		}
		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return migrations, nil
}

func readUp(src source.Driver, version uint) (Migration, error) {
	r, name, err := src.ReadUp(version)
	if err != nil {
		return Migration{}, err
	}
	defer r.Close()

	content, err := io.ReadAll(r)
	if err != nil {
		return Migration{}, fmt.Errorf("failed to read migration %d: %w", version, err)
	}
	return Migration{Version: version, Name: name, SQL: string(content)}, nil
}

// migrateLogger routes golang-migrate output through zap
type migrateLogger struct {
	logger *logger.Logger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}
