package store

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"stockengine/internal/model"
)

// PostgresStore is the durable AnalysisStore backed by Postgres via gorm
// and the pgx driver.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore opens the database, runs AutoMigrate for the analyses
// table, and returns a ready-to-use store.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&analysisRecord{}); err != nil {
		return nil, fmt.Errorf("automigrate analyses: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Upsert writes or replaces the analysis row for its symbol via gorm's
// Save, keyed on the symbol primary key: it updates the existing row and
// inserts one when no row for the symbol exists yet.
func (s *PostgresStore) Upsert(ctx context.Context, a model.Analysis) error {
	rec := toRecord(a)
	return s.db.WithContext(ctx).
		Save(&rec).Error
}

// Get returns the stored analysis for symbol, if present.
func (s *PostgresStore) Get(ctx context.Context, symbol model.Symbol) (model.Analysis, bool, error) {
	var rec analysisRecord
	err := s.db.WithContext(ctx).First(&rec, "symbol = ?", string(symbol)).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return model.Analysis{}, false, nil
		}
		return model.Analysis{}, false, err
	}
	return fromRecord(rec), true, nil
}

// All returns a consistent snapshot of every stored analysis, ordered by
// symbol for deterministic iteration.
func (s *PostgresStore) All(ctx context.Context) ([]model.Analysis, error) {
	var recs []analysisRecord
	if err := s.db.WithContext(ctx).Order("symbol asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]model.Analysis, len(recs))
	for i, r := range recs {
		out[i] = fromRecord(r)
	}
	return out, nil
}

// Count reports the number of distinct symbols stored.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&analysisRecord{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
