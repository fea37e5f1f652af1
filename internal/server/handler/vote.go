package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lakuzo/marketwatch/internal/domain"
)

// VoteService defines what the vote handler needs from the service layer.
type VoteService interface {
	CastVote(ctx context.Context, marketID, wallet string, choice domain.VoteChoice, txHash string) (domain.Vote, error)
	GetSentiment(ctx context.Context, marketID string) (domain.Sentiment, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// VoteHandler serves sentiment voting endpoints.
type VoteHandler struct {
	votes  VoteService
	logger *slog.Logger
}

// NewVoteHandler creates a VoteHandler.
func NewVoteHandler(votes VoteService, logger *slog.Logger) *VoteHandler {
	return &VoteHandler{votes: votes, logger: logger}
}

// castVoteRequest is the vote submission body.
type castVoteRequest struct {
	MarketID      string `json:"market_id"`
	WalletAddress string `json:"wallet_address"`
	Choice        string `json:"choice"`
	TxHash        string `json:"tx_hash"`
}

// CastVote records one wallet's sentiment call.
// POST /api/votes
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MarketID == "" || req.WalletAddress == "" || req.Choice == "" {
		writeError(w, http.StatusBadRequest, "market_id, wallet_address and choice are required")
		return
	}

	v, err := h.votes.CastVote(r.Context(), req.MarketID, req.WalletAddress,
		domain.VoteChoice(req.Choice), req.TxHash)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "market not found")
		case errors.Is(err, domain.ErrMarketResolved):
			writeError(w, http.StatusConflict, "market already resolved")
		case errors.Is(err, domain.ErrAlreadyExists):
			writeError(w, http.StatusConflict, "wallet already voted on this market")
		default:
			h.logger.ErrorContext(r.Context(), "handler: cast vote failed",
				slog.String("market_id", req.MarketID),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusBadRequest, "failed to cast vote")
		}
		return
	}

	writeJSON(w, http.StatusCreated, v)
}

// GetSentiment aggregates the votes on one market.
// GET /api/markets/{id}/sentiment
func (h *VoteHandler) GetSentiment(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	sent, err := h.votes.GetSentiment(r.Context(), id)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: get sentiment failed",
			slog.String("market_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get sentiment")
		return
	}
	writeJSON(w, http.StatusOK, sent)
}

// Leaderboard returns the top wallets by reputation.
// GET /api/leaderboard?limit=50
func (h *VoteHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.votes.Leaderboard(r.Context(), queryInt(r, "limit", 50))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: leaderboard failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(entries),
		"entries": entries,
	})
}
