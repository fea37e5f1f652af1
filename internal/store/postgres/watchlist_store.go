package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lakuzo/marketwatch/internal/domain"
)

// WatchlistStore implements domain.WatchlistStore using PostgreSQL. Items
// live in a watchlist_items join table and are aggregated on read.
type WatchlistStore struct {
	pool *pgxpool.Pool
}

// NewWatchlistStore creates a new WatchlistStore backed by the given pool.
func NewWatchlistStore(pool *pgxpool.Pool) *WatchlistStore {
	return &WatchlistStore{pool: pool}
}

// Create inserts an empty watchlist. A duplicate (wallet, name) pair maps
// to domain.ErrAlreadyExists.
func (s *WatchlistStore) Create(ctx context.Context, w domain.Watchlist) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO watchlists (id, user_wallet, name, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		w.ID, w.UserWallet, w.Name, w.Description,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("postgres: create watchlist: %w", err)
	}
	return nil
}

const watchlistQuery = `
	SELECT w.id, w.user_wallet, w.name, COALESCE(w.description, ''),
	       COALESCE(array_agg(i.market_id ORDER BY i.added_at) FILTER (WHERE i.market_id IS NOT NULL), '{}'),
	       w.created_at
	FROM watchlists w
	LEFT JOIN watchlist_items i ON i.watchlist_id = w.id`

func scanWatchlist(row pgx.Row) (domain.Watchlist, error) {
	var w domain.Watchlist
	err := row.Scan(&w.ID, &w.UserWallet, &w.Name, &w.Description, &w.MarketIDs, &w.CreatedAt)
	if err != nil {
		return domain.Watchlist{}, err
	}
	return w, nil
}

// GetByID retrieves one watchlist with its market ids.
func (s *WatchlistStore) GetByID(ctx context.Context, id string) (domain.Watchlist, error) {
	row := s.pool.QueryRow(ctx, watchlistQuery+`
		WHERE w.id = $1
		GROUP BY w.id`, id)
	w, err := scanWatchlist(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Watchlist{}, domain.ErrNotFound
		}
		return domain.Watchlist{}, fmt.Errorf("postgres: get watchlist %s: %w", id, err)
	}
	return w, nil
}

// FindByName retrieves a wallet's watchlist by exact name.
func (s *WatchlistStore) FindByName(ctx context.Context, wallet, name string) (domain.Watchlist, error) {
	row := s.pool.QueryRow(ctx, watchlistQuery+`
		WHERE w.user_wallet = $1 AND w.name = $2
		GROUP BY w.id`, wallet, name)
	w, err := scanWatchlist(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Watchlist{}, domain.ErrNotFound
		}
		return domain.Watchlist{}, fmt.Errorf("postgres: find watchlist %q: %w", name, err)
	}
	return w, nil
}

// ListByWallet returns every watchlist owned by the wallet, oldest first.
func (s *WatchlistStore) ListByWallet(ctx context.Context, wallet string) ([]domain.Watchlist, error) {
	rows, err := s.pool.Query(ctx, watchlistQuery+`
		WHERE w.user_wallet = $1
		GROUP BY w.id
		ORDER BY w.created_at ASC`, wallet)
	if err != nil {
		return nil, fmt.Errorf("postgres: list watchlists: %w", err)
	}
	defer rows.Close()

	var lists []domain.Watchlist
	for rows.Next() {
		w, err := scanWatchlist(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan watchlist: %w", err)
		}
		lists = append(lists, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate watchlists: %w", err)
	}
	return lists, nil
}

// Delete removes a watchlist. Items go with it via ON DELETE CASCADE.
func (s *WatchlistStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM watchlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete watchlist %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddItem stars a market onto a watchlist. Re-adding is a no-op.
func (s *WatchlistStore) AddItem(ctx context.Context, watchlistID, marketID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO watchlist_items (watchlist_id, market_id, added_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (watchlist_id, market_id) DO NOTHING`,
		watchlistID, marketID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrNotFound
		}
		return fmt.Errorf("postgres: add watchlist item: %w", err)
	}
	return nil
}

// RemoveItem unstars a market from a watchlist.
func (s *WatchlistStore) RemoveItem(ctx context.Context, watchlistID, marketID string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM watchlist_items WHERE watchlist_id = $1 AND market_id = $2`,
		watchlistID, marketID,
	)
	if err != nil {
		return fmt.Errorf("postgres: remove watchlist item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
