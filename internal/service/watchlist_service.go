package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lakuzo/marketwatch/internal/domain"
)

// watchlistMarketStore resolves the markets referenced by a watchlist.
type watchlistMarketStore interface {
	ListByIDs(ctx context.Context, ids []string) ([]domain.Market, error)
	GetStatusView(ctx context.Context, id string) (domain.StatusView, error)
}

// WatchlistService manages curated market bundles.
type WatchlistService struct {
	lists   domain.WatchlistStore
	markets watchlistMarketStore
	logger  *slog.Logger
}

// NewWatchlistService creates a WatchlistService.
func NewWatchlistService(lists domain.WatchlistStore, markets watchlistMarketStore, logger *slog.Logger) *WatchlistService {
	return &WatchlistService{lists: lists, markets: markets, logger: logger}
}

// Create makes a new named watchlist for a wallet. A taken name gets a
// numeric suffix so the create never bounces back to the caller.
func (s *WatchlistService) Create(ctx context.Context, wallet, name, description string) (domain.Watchlist, error) {
	if name == "" {
		name = domain.DefaultWatchlistName
	}

	w := domain.Watchlist{
		ID:          uuid.NewString(),
		UserWallet:  wallet,
		Name:        name,
		Description: description,
	}
	for i := 2; ; i++ {
		err := s.lists.Create(ctx, w)
		if err == nil {
			return w, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return domain.Watchlist{}, fmt.Errorf("watchlist_service: create: %w", err)
		}
		if i > 20 {
			return domain.Watchlist{}, fmt.Errorf("watchlist_service: create: %w", domain.ErrAlreadyExists)
		}
		w.Name = fmt.Sprintf("%s (%d)", name, i)
	}
}

// ListByWallet returns a wallet's watchlists.
func (s *WatchlistService) ListByWallet(ctx context.Context, wallet string) ([]domain.Watchlist, error) {
	lists, err := s.lists.ListByWallet(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("watchlist_service: list: %w", err)
	}
	return lists, nil
}

// Get returns one watchlist together with its resolved markets.
func (s *WatchlistService) Get(ctx context.Context, id string) (domain.Watchlist, []domain.Market, error) {
	w, err := s.lists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Watchlist{}, nil, domain.ErrNotFound
		}
		return domain.Watchlist{}, nil, fmt.Errorf("watchlist_service: get %q: %w", id, err)
	}

	markets, err := s.markets.ListByIDs(ctx, w.MarketIDs)
	if err != nil {
		return domain.Watchlist{}, nil, fmt.Errorf("watchlist_service: resolve markets: %w", err)
	}
	return w, markets, nil
}

// Delete removes a watchlist and its items.
func (s *WatchlistService) Delete(ctx context.Context, id string) error {
	if err := s.lists.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("watchlist_service: delete %q: %w", id, err)
	}
	return nil
}

// Star adds a market to the wallet's default watchlist, creating the list
// on first use. It returns the watchlist the market landed in.
func (s *WatchlistService) Star(ctx context.Context, wallet, marketID string) (domain.Watchlist, error) {
	if _, err := s.markets.GetStatusView(ctx, marketID); err != nil {
		return domain.Watchlist{}, fmt.Errorf("watchlist_service: load market %q: %w", marketID, err)
	}

	w, err := s.lists.FindByName(ctx, wallet, domain.DefaultWatchlistName)
	if errors.Is(err, domain.ErrNotFound) {
		w, err = s.Create(ctx, wallet, domain.DefaultWatchlistName, "")
	}
	if err != nil {
		return domain.Watchlist{}, fmt.Errorf("watchlist_service: default list: %w", err)
	}

	if err := s.lists.AddItem(ctx, w.ID, marketID); err != nil {
		return domain.Watchlist{}, fmt.Errorf("watchlist_service: add item: %w", err)
	}
	return w, nil
}

// AddItem stars a market onto a specific watchlist.
func (s *WatchlistService) AddItem(ctx context.Context, watchlistID, marketID string) error {
	if _, err := s.markets.GetStatusView(ctx, marketID); err != nil {
		return fmt.Errorf("watchlist_service: load market %q: %w", marketID, err)
	}
	if err := s.lists.AddItem(ctx, watchlistID, marketID); err != nil {
		return fmt.Errorf("watchlist_service: add item: %w", err)
	}
	return nil
}

// RemoveItem unstars a market from a watchlist.
func (s *WatchlistService) RemoveItem(ctx context.Context, watchlistID, marketID string) error {
	if err := s.lists.RemoveItem(ctx, watchlistID, marketID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("watchlist_service: remove item: %w", err)
	}
	return nil
}
