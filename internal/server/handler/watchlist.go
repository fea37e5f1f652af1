package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lakuzo/marketwatch/internal/domain"
)

// WatchlistService defines what the watchlist handler needs from the
// service layer.
type WatchlistService interface {
	Create(ctx context.Context, wallet, name, description string) (domain.Watchlist, error)
	ListByWallet(ctx context.Context, wallet string) ([]domain.Watchlist, error)
	Get(ctx context.Context, id string) (domain.Watchlist, []domain.Market, error)
	Delete(ctx context.Context, id string) error
	Star(ctx context.Context, wallet, marketID string) (domain.Watchlist, error)
	AddItem(ctx context.Context, watchlistID, marketID string) error
	RemoveItem(ctx context.Context, watchlistID, marketID string) error
}

// WatchlistHandler serves watchlist CRUD endpoints.
type WatchlistHandler struct {
	lists  WatchlistService
	logger *slog.Logger
}

// NewWatchlistHandler creates a WatchlistHandler.
func NewWatchlistHandler(lists WatchlistService, logger *slog.Logger) *WatchlistHandler {
	return &WatchlistHandler{lists: lists, logger: logger}
}

// createWatchlistRequest is the watchlist creation body.
type createWatchlistRequest struct {
	Wallet      string `json:"wallet"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create makes a new watchlist for a wallet.
// POST /api/watchlists
func (h *WatchlistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Wallet == "" {
		writeError(w, http.StatusBadRequest, "wallet is required")
		return
	}

	list, err := h.lists.Create(r.Context(), req.Wallet, req.Name, req.Description)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: create watchlist failed",
			slog.String("wallet", req.Wallet),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to create watchlist")
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// List returns a wallet's watchlists.
// GET /api/watchlists?wallet=...
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	wallet := r.URL.Query().Get("wallet")
	if wallet == "" {
		writeError(w, http.StatusBadRequest, "wallet is required")
		return
	}

	lists, err := h.lists.ListByWallet(r.Context(), wallet)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list watchlists failed",
			slog.String("wallet", wallet),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list watchlists")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(lists),
		"watchlists": lists,
	})
}

// Get returns one watchlist with its resolved markets.
// GET /api/watchlists/{id}
func (h *WatchlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	list, markets, err := h.lists.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "watchlist not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get watchlist failed",
			slog.String("watchlist_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get watchlist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"watchlist": list,
		"markets":   markets,
	})
}

// Delete removes a watchlist.
// DELETE /api/watchlists/{id}
func (h *WatchlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	if err := h.lists.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "watchlist not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: delete watchlist failed",
			slog.String("watchlist_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to delete watchlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// starRequest is the body for starring a market.
type starRequest struct {
	Wallet   string `json:"wallet"`
	MarketID string `json:"market_id"`
}

// Star adds a market to the wallet's default watchlist, creating it on
// first use.
// POST /api/markets/{id}/star
func (h *WatchlistHandler) Star(w http.ResponseWriter, r *http.Request) {
	marketID := pathParam(r, "id")

	var req starRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Wallet == "" {
		writeError(w, http.StatusBadRequest, "wallet is required")
		return
	}

	list, err := h.lists.Star(r.Context(), req.Wallet, marketID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "market not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: star market failed",
			slog.String("market_id", marketID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to star market")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// addItemRequest is the body for adding a market to a specific list.
type addItemRequest struct {
	MarketID string `json:"market_id"`
}

// AddItem stars a market onto a specific watchlist.
// POST /api/watchlists/{id}/items
func (h *WatchlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MarketID == "" {
		writeError(w, http.StatusBadRequest, "market_id is required")
		return
	}

	if err := h.lists.AddItem(r.Context(), id, req.MarketID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "watchlist or market not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: add watchlist item failed",
			slog.String("watchlist_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to add market to watchlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveItem unstars a market from a watchlist.
// DELETE /api/watchlists/{id}/items/{market_id}
func (h *WatchlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	marketID := pathParam(r, "market_id")

	if err := h.lists.RemoveItem(r.Context(), id, marketID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "watchlist item not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: remove watchlist item failed",
			slog.String("watchlist_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to remove market from watchlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
