package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lakuzo/marketwatch/internal/domain"
)

// MarketStore implements domain.MarketStore using PostgreSQL.
type MarketStore struct {
	pool *pgxpool.Pool
}

// NewMarketStore creates a new MarketStore backed by the given connection pool.
func NewMarketStore(pool *pgxpool.Pool) *MarketStore {
	return &MarketStore{pool: pool}
}

const marketCols = `id, platform, title, external_id, condition_id, group_id,
	source_url, active, status, winning_outcome,
	current_yes_price, best_ask_yes, best_ask_no,
	volume_usd, end_date, image_url, price_history,
	created_at, updated_at`

// Upsert inserts or updates a single market row keyed by id.
func (s *MarketStore) Upsert(ctx context.Context, m domain.Market) error {
	const query = `
		INSERT INTO markets (
			id, platform, title, external_id, condition_id, group_id,
			source_url, active, status, winning_outcome,
			current_yes_price, best_ask_yes, best_ask_no,
			volume_usd, end_date, image_url, price_history,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13,
			$14, $15, $16, $17,
			COALESCE($18, NOW()), NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			title             = EXCLUDED.title,
			external_id       = EXCLUDED.external_id,
			condition_id      = EXCLUDED.condition_id,
			group_id          = EXCLUDED.group_id,
			source_url        = EXCLUDED.source_url,
			active            = EXCLUDED.active,
			status            = EXCLUDED.status,
			winning_outcome   = EXCLUDED.winning_outcome,
			current_yes_price = EXCLUDED.current_yes_price,
			best_ask_yes      = EXCLUDED.best_ask_yes,
			best_ask_no       = EXCLUDED.best_ask_no,
			volume_usd        = EXCLUDED.volume_usd,
			end_date          = EXCLUDED.end_date,
			image_url         = EXCLUDED.image_url,
			price_history     = EXCLUDED.price_history,
			updated_at        = NOW()`

	var createdAt any
	if !m.CreatedAt.IsZero() {
		createdAt = m.CreatedAt
	}
	_, err := s.pool.Exec(ctx, query,
		m.ID, string(m.Platform), m.Title, m.ExternalID, m.ConditionID, m.GroupID,
		m.SourceURL, m.Active, string(m.Status), m.WinningOutcome,
		m.CurrentYesPrice, m.BestAskYes, m.BestAskNo,
		m.VolumeUSD, m.EndDate, m.ImageURL, m.PriceHistory,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert market %s: %w", m.ID, err)
	}
	return nil
}

func scanMarket(row pgx.Row) (domain.Market, error) {
	var m domain.Market
	var platform, status string
	err := row.Scan(
		&m.ID, &platform, &m.Title, &m.ExternalID, &m.ConditionID, &m.GroupID,
		&m.SourceURL, &m.Active, &status, &m.WinningOutcome,
		&m.CurrentYesPrice, &m.BestAskYes, &m.BestAskNo,
		&m.VolumeUSD, &m.EndDate, &m.ImageURL, &m.PriceHistory,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return domain.Market{}, err
	}
	m.Platform = domain.Platform(platform)
	m.Status = domain.MarketStatus(status)
	return m, nil
}

// GetByID retrieves a market by its primary key.
func (s *MarketStore) GetByID(ctx context.Context, id string) (domain.Market, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+marketCols+` FROM markets WHERE id = $1`, id)
	m, err := scanMarket(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Market{}, domain.ErrNotFound
		}
		return domain.Market{}, fmt.Errorf("postgres: get market %s: %w", id, err)
	}
	return m, nil
}

// GetStatusView loads just the three columns the reconciler needs.
func (s *MarketStore) GetStatusView(ctx context.Context, id string) (domain.StatusView, error) {
	var v domain.StatusView
	var status string
	err := s.pool.QueryRow(ctx,
		`SELECT active, status, winning_outcome FROM markets WHERE id = $1`, id,
	).Scan(&v.Active, &status, &v.WinningOutcome)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.StatusView{}, domain.ErrNotFound
		}
		return domain.StatusView{}, fmt.Errorf("postgres: get market status %s: %w", id, err)
	}
	v.Status = domain.MarketStatus(status)
	return v, nil
}

// ListByIDs returns the markets for the given ids, in store order. Missing
// ids are silently skipped.
func (s *MarketStore) ListByIDs(ctx context.Context, ids []string) ([]domain.Market, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+marketCols+` FROM markets WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres: list markets by ids: %w", err)
	}
	defer rows.Close()
	return collectMarkets(rows)
}

func collectMarkets(rows pgx.Rows) ([]domain.Market, error) {
	var markets []domain.Market
	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan market: %w", err)
		}
		markets = append(markets, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate markets: %w", err)
	}
	return markets, nil
}

func marketFilterClauses(f domain.MarketFilter) (string, []any) {
	query := ""
	var args []any
	add := func(clause string, arg any) {
		args = append(args, arg)
		query += fmt.Sprintf(" AND "+clause, len(args))
	}

	if f.Search != "" {
		add("title ILIKE $%d", "%"+f.Search+"%")
	}
	if f.Platform != "" {
		add("platform = $%d", string(f.Platform))
	}
	if f.Active != nil {
		add("active = $%d", *f.Active)
	}
	if f.EndAfter != nil {
		add("end_date >= $%d", *f.EndAfter)
	}
	if f.EndBefore != nil {
		add("end_date <= $%d", *f.EndBefore)
	}
	return query, args
}

// List returns markets matching the filter.
func (s *MarketStore) List(ctx context.Context, f domain.MarketFilter) ([]domain.Market, error) {
	where, args := marketFilterClauses(f)
	query := `SELECT ` + marketCols + ` FROM markets WHERE TRUE` + where

	switch f.Sort {
	case domain.SortEndDateAsc:
		query += " ORDER BY end_date ASC NULLS LAST"
	case domain.SortNewestFirst:
		query += " ORDER BY created_at DESC"
	default:
		query += " ORDER BY volume_usd DESC NULLS LAST"
	}

	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list markets: %w", err)
	}
	defer rows.Close()
	return collectMarkets(rows)
}

// Count returns the number of markets matching the filter, ignoring
// pagination.
func (s *MarketStore) Count(ctx context.Context, f domain.MarketFilter) (int64, error) {
	where, args := marketFilterClauses(f)
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM markets WHERE TRUE`+where, args...,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("postgres: count markets: %w", err)
	}
	return n, nil
}

// ListRepairTargets loads the routing fields plus the reconciler view for a
// batch of market ids. The venue lookup key falls back from external_id to
// condition_id in SQL.
func (s *MarketStore) ListRepairTargets(ctx context.Context, ids []string) ([]domain.RepairTarget, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, platform,
		       COALESCE(NULLIF(external_id, ''), condition_id),
		       active, status, winning_outcome
		FROM markets WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres: list repair targets: %w", err)
	}
	defer rows.Close()

	var targets []domain.RepairTarget
	for rows.Next() {
		var t domain.RepairTarget
		var platform, status string
		if err := rows.Scan(&t.ID, &platform, &t.ExternalID,
			&t.View.Active, &status, &t.View.WinningOutcome); err != nil {
			return nil, fmt.Errorf("postgres: scan repair target: %w", err)
		}
		t.Platform = domain.Platform(platform)
		t.View.Status = domain.MarketStatus(status)
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate repair targets: %w", err)
	}
	return targets, nil
}

// MarkResolved flips a market to its terminal state in a single idempotent
// update. An empty winner leaves winning_outcome untouched.
func (s *MarketStore) MarkResolved(ctx context.Context, id, winner string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE markets SET
			active          = FALSE,
			status          = 'resolved',
			winning_outcome = CASE WHEN $2 <> '' THEN $2 ELSE winning_outcome END,
			updated_at      = NOW()
		WHERE id = $1`, id, winner)
	if err != nil {
		return fmt.Errorf("postgres: mark market %s resolved: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
