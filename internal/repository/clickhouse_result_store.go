package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"CoinScreen/internal/domain/models"
	domrepo "CoinScreen/internal/domain/repository"
	pkgch "CoinScreen/pkg/clickhouse"
	applogger "CoinScreen/pkg/logger"
	"CoinScreen/pkg/util"
)

const runsTable = "coinscreen.screening_runs"

var resultStoreSchema = []string{
	`CREATE DATABASE IF NOT EXISTS coinscreen`,
	`CREATE TABLE IF NOT EXISTS ` + runsTable + ` (
        computed_at  DateTime,
        anchor_date  Date,
        direction    String,
        order_by     String,
        total_coins  UInt32,
        ranked       UInt32,
        skipped      UInt32,
        payload      String
    ) ENGINE = MergeTree()
    PARTITION BY toYYYYMM(computed_at)
    ORDER BY (direction, computed_at)`,
}

// CHResultStore archives completed screening runs in ClickHouse. The
// full result is kept as a JSON payload next to queryable run metadata.
type CHResultStore struct {
	db *sql.DB
	l  *applogger.Logger
}

var _ domrepo.ResultStore = (*CHResultStore)(nil)

func NewCHResultStore(ch *pkgch.Client) *CHResultStore {
	return &CHResultStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHResultStore) SetLogger(l *applogger.Logger) { s.l = l }

// Init ensures the database and table exist (idempotent).
func (s *CHResultStore) Init(ctx context.Context) error {
	for _, stmt := range resultStoreSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init result store schema: %w", err)
		}
	}
	return nil
}

// SaveRun archives one completed run.
func (s *CHResultStore) SaveRun(ctx context.Context, res *models.ScreeningResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	q := fmt.Sprintf("INSERT INTO %s (computed_at, anchor_date, direction, order_by, total_coins, ranked, skipped, payload) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", runsTable)
	_, err = s.db.ExecContext(ctx, q,
		res.ComputedAt,
		util.Day(res.AnchorDate),
		string(res.Direction),
		string(res.OrderBy),
		uint32(res.TotalCoins),
		uint32(len(res.Leaderboard)),
		uint32(len(res.Skipped)),
		string(payload),
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse save_run insert error",
				applogger.String("direction", string(res.Direction)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// LatestRun returns the most recent archived run for a direction. A
// non-zero anchor narrows the lookup to runs anchored on that day.
func (s *CHResultStore) LatestRun(ctx context.Context, direction models.Direction, anchor time.Time) (*models.ScreeningResult, error) {
	q := fmt.Sprintf("SELECT payload FROM %s WHERE direction = ?", runsTable)
	args := []interface{}{string(direction)}
	if !anchor.IsZero() {
		q += " AND anchor_date = ?"
		args = append(args, util.Day(anchor))
	}
	q += " ORDER BY computed_at DESC LIMIT 1"

	var payload string
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("latest run: %w", err)
	}

	var res models.ScreeningResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}
	return &res, nil
}

// Health performs a connectivity check.
func (s *CHResultStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close is a no-op; the connection pool is owned by pkg/clickhouse.
func (s *CHResultStore) Close() error {
	return nil
}
