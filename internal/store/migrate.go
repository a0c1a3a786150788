package store

import (
	"context"
	"embed"
	errs "errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // registers postgres://
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrator handles DB schema migrations using golang-migrate.
type Migrator struct {
	dsn string
}

func NewMigrator(dsn string) (*Migrator, error) {
	if dsn == "" {
		return nil, errors.New("missing DSN")
	}
	return &Migrator{dsn: dsn}, nil
}

func (m *Migrator) Up(ctx context.Context) error {
	mig, closer, err := m.migrateInstance()
	if err != nil {
		return err
	}
	defer closer()
	return translate(mig.Up())
}

func (m *Migrator) Down(ctx context.Context) error {
	mig, closer, err := m.migrateInstance()
	if err != nil {
		return err
	}
	defer closer()
	return translate(mig.Steps(-1))
}

// Version reports the applied schema version; 0 when nothing is applied.
func (m *Migrator) Version(ctx context.Context) (uint, bool, error) {
	mig, closer, err := m.migrateInstance()
	if err != nil {
		return 0, false, err
	}
	defer closer()
	v, dirty, err := mig.Version()
	if errs.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func translate(err error) error {
	if errs.Is(err, migrate.ErrNoChange) {
		return ErrNoChange
	}
	return err
}

func (m *Migrator) migrateInstance() (*migrate.Migrate, func(), error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, func() {}, errors.Wrap(err, "load migrations")
	}
	mig, err := migrate.NewWithSourceInstance("iofs", src, m.dsn)
	if err != nil {
		return nil, func() {}, errors.Wrap(err, "init migrate")
	}
	return mig, func() { _, _ = mig.Close() }, nil
}
