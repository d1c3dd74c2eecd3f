package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guregu/null/v6"
	_ "modernc.org/sqlite"

	"stockengine/internal/model"
)

// SQLiteStore is a cgo-free AnalysisStore backed by modernc.org/sqlite,
// used for local development in place of Postgres. Modeled on
// the recorder package's WAL-mode SQLite setup.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS analyses (
		symbol          TEXT PRIMARY KEY,
		price           REAL NOT NULL,
		price_change_pct REAL,
		rsi             REAL,
		sma20           REAL,
		sma50           REAL,
		macd_line       REAL,
		macd_signal     REAL,
		macd_histogram  REAL,
		volume          INTEGER,
		market_cap      REAL,
		sector          TEXT,
		is_oversold     INTEGER NOT NULL,
		is_overbought   INTEGER NOT NULL,
		analyzed_at     INTEGER NOT NULL
	)`)
	return err
}

func (s *SQLiteStore) Upsert(ctx context.Context, a model.Analysis) error {
	var macdLine, macdSignal, macdHist sql.NullFloat64
	if a.MACD != nil {
		macdLine = sql.NullFloat64{Float64: a.MACD.MACDLine, Valid: true}
		macdSignal = sql.NullFloat64{Float64: a.MACD.Signal, Valid: true}
		macdHist = sql.NullFloat64{Float64: a.MACD.Histogram, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO analyses
		(symbol, price, price_change_pct, rsi, sma20, sma50, macd_line, macd_signal, macd_histogram,
		 volume, market_cap, sector, is_oversold, is_overbought, analyzed_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET
			price=excluded.price, price_change_pct=excluded.price_change_pct,
			rsi=excluded.rsi, sma20=excluded.sma20,
			sma50=excluded.sma50, macd_line=excluded.macd_line,
			macd_signal=excluded.macd_signal, macd_histogram=excluded.macd_histogram,
			volume=excluded.volume, market_cap=excluded.market_cap,
			sector=excluded.sector, is_oversold=excluded.is_oversold,
			is_overbought=excluded.is_overbought, analyzed_at=excluded.analyzed_at`,
		string(a.Symbol), a.Price, nullFloatArg(a.PriceChangePct), nullFloatArg(a.RSI), nullFloatArg(a.SMA20), nullFloatArg(a.SMA50),
		macdLine, macdSignal, macdHist,
		nullIntArg(a.Volume), nullFloatArg(a.MarketCap), nullStringArg(a.Sector),
		a.IsOversold, a.IsOverbought, a.AnalyzedAt.Unix(),
	)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, symbol model.Symbol) (model.Analysis, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT symbol, price, price_change_pct, rsi, sma20, sma50,
		macd_line, macd_signal, macd_histogram, volume, market_cap, sector,
		is_oversold, is_overbought, analyzed_at FROM analyses WHERE symbol = ?`, string(symbol))
	a, err := scanAnalysis(row)
	if err == sql.ErrNoRows {
		return model.Analysis{}, false, nil
	}
	if err != nil {
		return model.Analysis{}, false, err
	}
	return a, true, nil
}

func (s *SQLiteStore) All(ctx context.Context) ([]model.Analysis, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT symbol, price, price_change_pct, rsi, sma20, sma50,
		macd_line, macd_signal, macd_histogram, volume, market_cap, sector,
		is_oversold, is_overbought, analyzed_at FROM analyses ORDER BY symbol ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalysis(sc scanner) (model.Analysis, error) {
	var (
		symbol                          string
		price                           float64
		priceChangePct                  sql.NullFloat64
		rsi, sma20, sma50               sql.NullFloat64
		macdLine, macdSignal, macdHist  sql.NullFloat64
		volume                          sql.NullInt64
		marketCap                       sql.NullFloat64
		sector                          sql.NullString
		isOversold, isOverbought        bool
		analyzedAtUnix                  int64
	)
	if err := sc.Scan(&symbol, &price, &priceChangePct, &rsi, &sma20, &sma50, &macdLine, &macdSignal,
		&macdHist, &volume, &marketCap, &sector, &isOversold, &isOverbought, &analyzedAtUnix); err != nil {
		return model.Analysis{}, err
	}

	a := model.Analysis{
		Symbol:         model.Symbol(symbol),
		Price:          price,
		PriceChangePct: null.NewFloat(priceChangePct.Float64, priceChangePct.Valid),
		RSI:            null.NewFloat(rsi.Float64, rsi.Valid),
		SMA20:        null.NewFloat(sma20.Float64, sma20.Valid),
		SMA50:        null.NewFloat(sma50.Float64, sma50.Valid),
		Volume:       null.NewInt(volume.Int64, volume.Valid),
		MarketCap:    null.NewFloat(marketCap.Float64, marketCap.Valid),
		Sector:       null.NewString(sector.String, sector.Valid),
		IsOversold:   isOversold,
		IsOverbought: isOverbought,
		AnalyzedAt:   unixToTime(analyzedAtUnix),
	}
	if macdLine.Valid {
		a.MACD = &model.MACDValue{
			MACDLine:  macdLine.Float64,
			Signal:    macdSignal.Float64,
			Histogram: macdHist.Float64,
		}
	}
	return a, nil
}

func nullFloatArg(v null.Float) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v.Float64, Valid: v.Valid}
}

func nullIntArg(v null.Int) sql.NullInt64 {
	return sql.NullInt64{Int64: v.Int64, Valid: v.Valid}
}

func nullStringArg(v null.String) sql.NullString {
	return sql.NullString{String: v.String, Valid: v.Valid}
}

func unixToTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
