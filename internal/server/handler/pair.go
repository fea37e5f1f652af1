package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lakuzo/marketwatch/internal/domain"
	"github.com/lakuzo/marketwatch/internal/pairs"
)

// PairService defines what the pair handler needs from the service layer.
type PairService interface {
	ListYields(ctx context.Context, f pairs.Filter) ([]pairs.Yield, error)
}

// PairHandler serves the cross-venue yield screener.
type PairHandler struct {
	pairs  PairService
	logger *slog.Logger
}

// NewPairHandler creates a PairHandler.
func NewPairHandler(pairs PairService, logger *slog.Logger) *PairHandler {
	return &PairHandler{pairs: pairs, logger: logger}
}

// ListPairs returns matched cross-venue pairs with their hedged yields.
// GET /api/pairs?sort=yield|ending_soon|confidence|newest&search=...&type=all|direct|inverse
func (h *PairHandler) ListPairs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	key := pairs.SortKey(q.Get("sort"))
	switch key {
	case pairs.SortYield, pairs.SortEndingSoon, pairs.SortConfidence, pairs.SortNewest:
	case "":
		key = pairs.SortYield
	default:
		writeError(w, http.StatusBadRequest, "unknown sort "+string(key))
		return
	}

	var matchType domain.MatchType
	switch strings.ToLower(q.Get("type")) {
	case "", "all":
	case "direct":
		matchType = domain.MatchDirect
	case "inverse":
		matchType = domain.MatchInverse
	default:
		writeError(w, http.StatusBadRequest, "unknown match type "+q.Get("type"))
		return
	}

	ys, err := h.pairs.ListYields(r.Context(), pairs.Filter{
		Search: strings.TrimSpace(q.Get("search")),
		Type:   matchType,
		Sort:   key,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list pairs failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list pairs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(ys),
		"pairs": ys,
	})
}
