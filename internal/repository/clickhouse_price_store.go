package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"CoinScreen/internal/domain/models"
	domrepo "CoinScreen/internal/domain/repository"
	pkgch "CoinScreen/pkg/clickhouse"
	applogger "CoinScreen/pkg/logger"
	"CoinScreen/pkg/util"
)

const (
	ticksTable  = "coinscreen.ticks_raw"
	closesTable = "coinscreen.daily_closes"
)

var priceStoreSchema = []string{
	`CREATE DATABASE IF NOT EXISTS coinscreen`,
	`CREATE TABLE IF NOT EXISTS ` + ticksTable + ` (
        ts       DateTime,
        coin_id  String,
        price    Float64,
        volume   Float64,
        source   String
    ) ENGINE = MergeTree()
    PARTITION BY toYYYYMMDD(ts)
    ORDER BY (coin_id, ts)
    TTL ts + INTERVAL 30 DAY`,
	`CREATE TABLE IF NOT EXISTS ` + closesTable + ` (
        date     Date,
        coin_id  String,
        price    Float64
    ) ENGINE = ReplacingMergeTree()
    ORDER BY (coin_id, date)`,
}

// CHPriceStore persists live ticks and backfilled daily closes in
// ClickHouse and serves the per-coin daily series the screener reads.
type CHPriceStore struct {
	db *sql.DB
	l  *applogger.Logger
}

var _ domrepo.TickStore = (*CHPriceStore)(nil)
var _ domrepo.PriceSeriesProvider = (*CHPriceStore)(nil)

func NewCHPriceStore(ch *pkgch.Client) *CHPriceStore {
	return &CHPriceStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHPriceStore) SetLogger(l *applogger.Logger) { s.l = l }

// Init ensures the database and tables exist (idempotent).
func (s *CHPriceStore) Init(ctx context.Context) error {
	for _, stmt := range priceStoreSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init price store schema: %w", err)
		}
	}
	return nil
}

// StoreTicks batch-inserts live ticks. Chunk size tuned to 2000 rows
// per batch to bound statement size.
func (s *CHPriceStore) StoreTicks(ctx context.Context, ticks []*models.Tick) error {
	if len(ticks) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(ticks); start += chunkSize {
		end := start + chunkSize
		if end > len(ticks) {
			end = len(ticks)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*5)
		for _, t := range ticks[start:end] {
			if t == nil || t.CoinID == "" || t.Timestamp == 0 {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?)")
			args = append(args,
				time.Unix(t.Timestamp, 0),
				t.CoinID,
				t.Price,
				t.Volume,
				"binance",
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, coin_id, price, volume, source) VALUES %s", ticksTable, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse store_ticks insert error",
					applogger.Int("rows", len(values)),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("store ticks: %w", err)
		}
	}
	return nil
}

// StoreDailyCloses upserts one coin's backfilled daily closes. The
// ReplacingMergeTree key (coin_id, date) deduplicates re-syncs.
func (s *CHPriceStore) StoreDailyCloses(ctx context.Context, coinID string, points []models.PricePoint) error {
	if len(points) == 0 {
		return nil
	}
	values := make([]string, 0, len(points))
	args := make([]interface{}, 0, len(points)*3)
	for _, p := range points {
		values = append(values, "(?, ?, ?)")
		args = append(args, util.Day(p.Date), coinID, p.Price)
	}
	q := fmt.Sprintf("INSERT INTO %s (date, coin_id, price) VALUES %s", closesTable, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_closes insert error",
				applogger.String("coin", coinID),
				applogger.Int("rows", len(points)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store daily closes: %w", err)
	}
	return nil
}

// GetPriceSeries returns one coin's daily closes in ascending date
// order. limitDays <= 0 returns the full series; otherwise only the
// most recent limitDays points.
func (s *CHPriceStore) GetPriceSeries(ctx context.Context, coinID string, limitDays int) ([]models.PricePoint, error) {
	start := time.Now()
	const qtpl = `
        SELECT date, price
        FROM %s FINAL
        WHERE coin_id = ?
        ORDER BY date DESC
        %s
    `
	limit := ""
	if limitDays > 0 {
		limit = fmt.Sprintf("LIMIT %d", limitDays)
	}
	q := fmt.Sprintf(qtpl, closesTable, limit)
	rows, err := s.db.QueryContext(ctx, q, coinID)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse price_series query error",
				applogger.String("coin", coinID),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get price series: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.PricePoint, 0, 512)
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Date, &p.Price); err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		tmp = append(tmp, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Debug("clickhouse price_series ok",
			applogger.String("coin", coinID),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}

// GetPriceSeriesBatch loads the daily series of many coins in one
// query, keyed by coin ID. Coins without data are absent from the map.
func (s *CHPriceStore) GetPriceSeriesBatch(ctx context.Context, coinIDs []string, limitDays int) (map[string][]models.PricePoint, error) {
	if len(coinIDs) == 0 {
		return map[string][]models.PricePoint{}, nil
	}
	start := time.Now()

	placeholders := make([]string, len(coinIDs))
	args := make([]interface{}, len(coinIDs))
	for i, id := range coinIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	where := ""
	if limitDays > 0 {
		where = fmt.Sprintf("AND date >= today() - %d", limitDays)
	}
	q := fmt.Sprintf(`
        SELECT coin_id, date, price
        FROM %s FINAL
        WHERE coin_id IN (%s) %s
        ORDER BY coin_id, date ASC
    `, closesTable, strings.Join(placeholders, ","), where)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse price_series_batch query error",
				applogger.Int("coins", len(coinIDs)),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get price series batch: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.PricePoint, len(coinIDs))
	total := 0
	for rows.Next() {
		var id string
		var p models.PricePoint
		if err := rows.Scan(&id, &p.Date, &p.Price); err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		out[id] = append(out[id], p)
		total++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse price_series_batch ok",
			applogger.Int("coins", len(out)),
			applogger.Int("rows", total),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// Health performs a connectivity check.
func (s *CHPriceStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close is a no-op; the connection pool is owned by pkg/clickhouse.
func (s *CHPriceStore) Close() error {
	return nil
}
