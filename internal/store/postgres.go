package store

import (
	"context"
	"database/sql"
	errs "errors"
	"time"

	"github.com/DaanHessen/agency-terminal/internal/engine"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type snapshotRow struct {
	Slot    string    `gorm:"column:slot;primaryKey"`
	Payload []byte    `gorm:"column:payload"`
	Version int       `gorm:"column:version"`
	SavedAt time.Time `gorm:"column:saved_at"`
}

func (snapshotRow) TableName() string { return "snapshots" }

// PostgresStore keeps the snapshot in the snapshots table of a local
// developer database. The schema is owned by the embedded migrations.
type PostgresStore struct {
	gorm *gorm.DB
	sql  *sql.DB
	now  func() time.Time
}

// OpenPostgres connects, migrates to the latest schema and pings.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("missing DSN")
	}
	m, err := NewMigrator(dsn)
	if err != nil {
		return nil, err
	}
	if err := m.Up(ctx); err != nil && !errs.Is(err, ErrNoChange) {
		return nil, errors.Wrap(err, "migrate")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sdb.SetConnMaxLifetime(30 * time.Minute)
	sdb.SetMaxOpenConns(4)
	sdb.SetMaxIdleConns(2)
	if err := sdb.PingContext(ctx); err != nil {
		_ = sdb.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return &PostgresStore{gorm: gdb, sql: sdb, now: time.Now}, nil
}

// WithTx executes fn within a database transaction.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.gorm.WithContext(ctx).Transaction(fn)
}

func (s *PostgresStore) Save(ctx context.Context, st engine.GameState) error {
	now := s.now()
	b, err := encode(st, now)
	if err != nil {
		return err
	}
	row := snapshotRow{Slot: Key, Payload: b, Version: snapshotVersion, SavedAt: now.UTC()}
	return s.WithTx(ctx, func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "version", "saved_at"}),
		}).Create(&row).Error
		return errors.Wrap(err, "upsert snapshot")
	})
}

func (s *PostgresStore) Load(ctx context.Context) (engine.GameState, error) {
	var row snapshotRow
	err := s.gorm.WithContext(ctx).Where("slot = ?", Key).First(&row).Error
	if err != nil {
		if errs.Is(err, gorm.ErrRecordNotFound) {
			return engine.GameState{}, ErrNoSnapshot
		}
		return engine.GameState{}, errors.Wrap(err, "select snapshot")
	}
	return decode(row.Payload, s.now())
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	err := s.gorm.WithContext(ctx).Where("slot = ?", Key).Delete(&snapshotRow{}).Error
	return errors.Wrap(err, "delete snapshot")
}

func (s *PostgresStore) Close() error { return s.sql.Close() }
