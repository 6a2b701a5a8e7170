package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"GoldCast/internal/domain/models"
	domrepo "GoldCast/internal/domain/repository"
	pkgch "GoldCast/pkg/clickhouse"
	applogger "GoldCast/pkg/logger"
)

// CHTables names the three tables.
type CHTables struct {
	Prices      string
	Predictions string
	Snapshots   string
}

func (t CHTables) withDefaults() CHTables {
	if t.Prices == "" {
		t.Prices = "price_history"
	}
	if t.Predictions == "" {
		t.Predictions = "predictions"
	}
	if t.Snapshots == "" {
		t.Snapshots = "performance_snapshots"
	}
	return t
}

// Schema returns the idempotent DDL for the three tables.
func (t CHTables) Schema() []string {
	t = t.withDefaults()
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			ts DateTime64(3, 'UTC'),
			symbol LowCardinality(String),
			price Float64,
			bid Float64,
			ask Float64,
			volume Float64,
			spread Float64
		) ENGINE = MergeTree ORDER BY (symbol, ts)`, t.Prices),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id String,
			ts DateTime64(3, 'UTC'),
			symbol LowCardinality(String),
			current_price Float64,
			predicted_price Float64,
			signal LowCardinality(String),
			confidence Float64,
			method LowCardinality(String),
			w_technical Float64,
			w_momentum Float64,
			w_volatility Float64,
			w_pattern Float64,
			volatility Float64,
			trend_strength Float64,
			price_position Float64,
			volume_trend Float64,
			regime LowCardinality(String),
			target_time DateTime64(3, 'UTC'),
			status LowCardinality(String),
			actual_price Nullable(Float64),
			accuracy Nullable(Float64),
			verified_at Nullable(DateTime64(3, 'UTC')),
			expired_at Nullable(DateTime64(3, 'UTC')),
			version UInt64
		) ENGINE = ReplacingMergeTree(version) ORDER BY (symbol, id)`, t.Predictions),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			ts DateTime64(3, 'UTC'),
			symbol LowCardinality(String),
			total_predictions Int64,
			correct_predictions Int64,
			average_accuracy Float64,
			recent_accuracy Float64,
			confidence_trend Float64,
			confidence_base Float64,
			w_technical Float64,
			w_momentum Float64,
			w_volatility Float64,
			w_pattern Float64
		) ENGINE = MergeTree ORDER BY (symbol, ts)`, t.Snapshots),
	}
}

const predictionColumns = `id, ts, symbol, current_price, predicted_price, signal, confidence, method,
	w_technical, w_momentum, w_volatility, w_pattern,
	volatility, trend_strength, price_position, volume_trend, regime,
	target_time, status, actual_price, accuracy, verified_at, expired_at`

// ClickHouseStore implements domrepo.Store. Predictions live in a ReplacingMergeTree:
// the single verification update is a newer version of the same row, reads use FINAL.
type ClickHouseStore struct {
	ch     *pkgch.Client
	db     *sql.DB
	tables CHTables
	l      *applogger.Logger
	now    func() time.Time
}

var _ domrepo.Store = (*ClickHouseStore)(nil)

func NewClickHouseStore(ch *pkgch.Client, tables CHTables, l *applogger.Logger) *ClickHouseStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &ClickHouseStore{ch: ch, db: ch.DB(), tables: tables.withDefaults(), l: l, now: time.Now}
}

func (s *ClickHouseStore) SavePrice(ctx context.Context, symbol string, p models.PricePoint) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, symbol, price, bid, ask, volume, spread) VALUES (?, ?, ?, ?, ?, ?, ?)", s.tables.Prices)
	if _, err := s.db.ExecContext(ctx, q, p.Timestamp.UTC(), symbol, p.Price, p.Bid, p.Ask, p.Volume, p.Spread); err != nil {
		return fmt.Errorf("insert price: %w", err)
	}
	return nil
}

func (s *ClickHouseStore) SavePrediction(ctx context.Context, p *models.Prediction) error {
	return s.writePrediction(ctx, p)
}

func (s *ClickHouseStore) UpdatePrediction(ctx context.Context, p *models.Prediction) error {
	q := fmt.Sprintf("SELECT status FROM %s FINAL WHERE id = ? LIMIT 1", s.tables.Predictions)
	var status string
	if err := s.db.QueryRowContext(ctx, q, p.ID).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("load prediction status: %w", err)
	}
	if models.PredictionStatus(status) != models.StatusPending {
		return models.ErrAlreadyVerified
	}
	return s.writePrediction(ctx, p)
}

func (s *ClickHouseStore) writePrediction(ctx context.Context, p *models.Prediction) error {
	q := fmt.Sprintf("INSERT INTO %s (%s, version) VALUES (%s)",
		s.tables.Predictions, predictionColumns, placeholders(24))
	_, err := s.db.ExecContext(ctx, q,
		p.ID, p.Timestamp.UTC(), p.Symbol, p.CurrentPrice, p.PredictedPrice,
		string(p.Signal), p.Confidence, p.Method,
		p.Weights.Technical, p.Weights.Momentum, p.Weights.Volatility, p.Weights.Pattern,
		p.Conditions.Volatility, p.Conditions.TrendStrength, p.Conditions.PricePosition,
		p.Conditions.VolumeTrend, string(p.Conditions.Regime),
		p.TargetTime.UTC(), string(p.Status),
		nullFloat(p.ActualPrice), nullFloat(p.Accuracy), nullTime(p.VerifiedAt), nullTime(p.ExpiredAt),
		uint64(s.now().UnixNano()),
	)
	if err != nil {
		s.l.Error("clickhouse write prediction error",
			applogger.String("table", s.tables.Predictions),
			applogger.String("id", p.ID),
			applogger.Error(err),
		)
		return fmt.Errorf("write prediction: %w", err)
	}
	return nil
}

func (s *ClickHouseStore) PendingPredictions(ctx context.Context, symbol string, dueBefore time.Time) ([]*models.Prediction, error) {
	q := fmt.Sprintf("SELECT %s FROM %s FINAL WHERE symbol = ? AND status = ? AND ts <= ? ORDER BY ts ASC",
		predictionColumns, s.tables.Predictions)
	return s.queryPredictions(ctx, q, symbol, string(models.StatusPending), dueBefore.UTC())
}

func (s *ClickHouseStore) VerifiedSince(ctx context.Context, symbol string, since time.Time) ([]*models.Prediction, error) {
	q := fmt.Sprintf("SELECT %s FROM %s FINAL WHERE symbol = ? AND status = ? AND accuracy IS NOT NULL AND ts >= ? ORDER BY ts DESC",
		predictionColumns, s.tables.Predictions)
	return s.queryPredictions(ctx, q, symbol, string(models.StatusVerified), since.UTC())
}

func (s *ClickHouseStore) RecentAccuracies(ctx context.Context, symbol string, limit int) ([]float64, error) {
	q := fmt.Sprintf("SELECT accuracy FROM %s FINAL WHERE symbol = ? AND status = ? AND accuracy IS NOT NULL ORDER BY ts DESC LIMIT ?",
		s.tables.Predictions)
	rows, err := s.db.QueryContext(ctx, q, symbol, string(models.StatusVerified), limit)
	if err != nil {
		return nil, fmt.Errorf("recent accuracies: %w", err)
	}
	defer rows.Close()
	out := make([]float64, 0, limit)
	for rows.Next() {
		var acc float64
		if err := rows.Scan(&acc); err != nil {
			return nil, fmt.Errorf("scan accuracy: %w", err)
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

func (s *ClickHouseStore) ListPredictions(ctx context.Context, symbol string, f models.PredictionFilter) ([]*models.Prediction, error) {
	where := []string{"symbol = ?"}
	args := []interface{}{symbol}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if !f.From.IsZero() {
		where = append(where, "ts >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		where = append(where, "ts <= ?")
		args = append(args, f.To.UTC())
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	q := fmt.Sprintf("SELECT %s FROM %s FINAL WHERE %s ORDER BY ts DESC LIMIT ?",
		predictionColumns, s.tables.Predictions, strings.Join(where, " AND "))
	return s.queryPredictions(ctx, q, args...)
}

func (s *ClickHouseStore) CountPredictions(ctx context.Context, symbol string) (int64, error) {
	q := fmt.Sprintf("SELECT count() FROM %s FINAL WHERE symbol = ?", s.tables.Predictions)
	var n uint64
	if err := s.db.QueryRowContext(ctx, q, symbol).Scan(&n); err != nil {
		return 0, fmt.Errorf("count predictions: %w", err)
	}
	return int64(n), nil
}

func (s *ClickHouseStore) queryPredictions(ctx context.Context, q string, args ...interface{}) ([]*models.Prediction, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.l.Error("clickhouse predictions query error",
			applogger.String("table", s.tables.Predictions),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Prediction, 0, 64)
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	s.l.Debug("clickhouse predictions query",
		applogger.Int("rows", len(out)),
		applogger.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

func scanPrediction(rows *sql.Rows) (*models.Prediction, error) {
	var (
		p                    models.Prediction
		signal, regime, st   string
		actual, accuracy     sql.NullFloat64
		verifiedAt, expireAt sql.NullTime
	)
	err := rows.Scan(
		&p.ID, &p.Timestamp, &p.Symbol, &p.CurrentPrice, &p.PredictedPrice,
		&signal, &p.Confidence, &p.Method,
		&p.Weights.Technical, &p.Weights.Momentum, &p.Weights.Volatility, &p.Weights.Pattern,
		&p.Conditions.Volatility, &p.Conditions.TrendStrength, &p.Conditions.PricePosition,
		&p.Conditions.VolumeTrend, &regime,
		&p.TargetTime, &st,
		&actual, &accuracy, &verifiedAt, &expireAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan prediction: %w", err)
	}
	p.Signal = models.Signal(signal)
	p.Conditions.Regime = models.Regime(regime)
	p.Status = models.PredictionStatus(st)
	if actual.Valid {
		p.ActualPrice = &actual.Float64
	}
	if accuracy.Valid {
		p.Accuracy = &accuracy.Float64
	}
	if verifiedAt.Valid {
		p.VerifiedAt = &verifiedAt.Time
	}
	if expireAt.Valid {
		p.ExpiredAt = &expireAt.Time
	}
	return &p, nil
}

func (s *ClickHouseStore) SaveSnapshot(ctx context.Context, symbol string, snap models.Snapshot) error {
	q := fmt.Sprintf(`INSERT INTO %s (ts, symbol, total_predictions, correct_predictions, average_accuracy,
		recent_accuracy, confidence_trend, confidence_base, w_technical, w_momentum, w_volatility, w_pattern)
		VALUES (%s)`, s.tables.Snapshots, placeholders(12))
	m, w := snap.Metrics, snap.Weights
	_, err := s.db.ExecContext(ctx, q,
		snap.Timestamp.UTC(), symbol, m.TotalPredictions, m.CorrectPredictions, m.AverageAccuracy,
		m.RecentAccuracy, m.ConfidenceTrend, snap.ConfidenceBase,
		w.Technical, w.Momentum, w.Volatility, w.Pattern,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (s *ClickHouseStore) LatestSnapshot(ctx context.Context, symbol string) (*models.Snapshot, error) {
	q := fmt.Sprintf(`SELECT ts, total_predictions, correct_predictions, average_accuracy, recent_accuracy,
		confidence_trend, confidence_base, w_technical, w_momentum, w_volatility, w_pattern
		FROM %s WHERE symbol = ? ORDER BY ts DESC LIMIT 1`, s.tables.Snapshots)
	var snap models.Snapshot
	m, w := &snap.Metrics, &snap.Weights
	err := s.db.QueryRowContext(ctx, q, symbol).Scan(
		&snap.Timestamp, &m.TotalPredictions, &m.CorrectPredictions, &m.AverageAccuracy, &m.RecentAccuracy,
		&m.ConfidenceTrend, &snap.ConfidenceBase, &w.Technical, &w.Momentum, &w.Volatility, &w.Pattern,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return &snap, nil
}

func (s *ClickHouseStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool; the store owns its client.
func (s *ClickHouseStore) Close() error {
	if s.ch == nil {
		return nil
	}
	return s.ch.Close()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
