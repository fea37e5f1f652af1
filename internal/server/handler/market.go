package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lakuzo/marketwatch/internal/book"
	"github.com/lakuzo/marketwatch/internal/domain"
	"github.com/lakuzo/marketwatch/internal/service"
)

// MarketService defines what the market handler needs from the service
// layer. It is declared locally so the handler package does not depend on
// the concrete service implementation.
type MarketService interface {
	ListMarkets(ctx context.Context, f domain.MarketFilter) ([]domain.Market, int64, error)
	GetMarket(ctx context.Context, id string) (service.MarketDetail, error)
	Arbitrage(ctx context.Context) ([]book.ScreenHit, error)
}

// MarketHandler serves market read endpoints.
type MarketHandler struct {
	markets MarketService
	logger  *slog.Logger
}

// NewMarketHandler creates a MarketHandler.
func NewMarketHandler(markets MarketService, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{markets: markets, logger: logger}
}

// listMarketsResponse wraps the list endpoint output with metadata.
type listMarketsResponse struct {
	Markets []domain.Market `json:"markets"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

func parseMarketFilter(r *http.Request) domain.MarketFilter {
	q := r.URL.Query()

	f := domain.MarketFilter{
		Search:   q.Get("search"),
		Platform: domain.ParsePlatform(q.Get("platform")),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}
	if f.Limit > 500 {
		f.Limit = 500
	}

	switch q.Get("status") {
	case "active":
		active := true
		f.Active = &active
	case "resolved":
		active := false
		f.Active = &active
	}

	switch q.Get("sort") {
	case "end_date":
		f.Sort = domain.SortEndDateAsc
	case "newest":
		f.Sort = domain.SortNewestFirst
	default:
		f.Sort = domain.SortVolumeDesc
	}
	return f
}

// ListMarkets returns a filtered, paginated market list.
// GET /api/markets?search=&platform=&status=&sort=&limit=50&offset=0
func (h *MarketHandler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	f := parseMarketFilter(r)

	markets, total, err := h.markets.ListMarkets(r.Context(), f)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list markets failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list markets")
		return
	}

	writeJSON(w, http.StatusOK, listMarketsResponse{
		Markets: markets,
		Total:   total,
		Limit:   f.Limit,
		Offset:  f.Offset,
	})
}

// GetMarket returns one market with its derived order book and venue URL.
// GET /api/markets/{id}
func (h *MarketHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	detail, err := h.markets.GetMarket(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "market not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get market failed",
			slog.String("market_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get market")
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// Arbitrage returns single-market buy-both opportunities across active
// markets.
// GET /api/arbitrage
func (h *MarketHandler) Arbitrage(w http.ResponseWriter, r *http.Request) {
	hits, err := h.markets.Arbitrage(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: arbitrage scan failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to scan for arbitrage")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(hits),
		"hits":  hits,
	})
}
