package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lakuzo/marketwatch/internal/domain"
	"github.com/lakuzo/marketwatch/internal/service"
)

// RepairService defines what the repair handler needs from the service
// layer.
type RepairService interface {
	CheckStatus(ctx context.Context, marketID string, platform domain.Platform, externalID string) (service.RepairOutcome, error)
	VerifyBatch(ctx context.Context, marketIDs []string) (service.VerifySummary, error)
}

// RepairHandler serves the lazy repair endpoints.
type RepairHandler struct {
	repairs RepairService
	logger  *slog.Logger
}

// NewRepairHandler creates a RepairHandler.
func NewRepairHandler(repairs RepairService, logger *slog.Logger) *RepairHandler {
	return &RepairHandler{repairs: repairs, logger: logger}
}

// repairStatusResponse is the wire shape of one reconciliation outcome.
// Status is the two-word vocabulary callers branch on: "active" while the
// record is live, "resolved" once it is not. Error is populated only when
// the repair decision could not be persisted; the check itself still
// succeeded, so the status code stays 200.
type repairStatusResponse struct {
	MarketID  string   `json:"market_id"`
	Status    string   `json:"status"`
	Winner    string   `json:"winner,omitempty"`
	Updated   bool     `json:"updated"`
	LivePrice *float64 `json:"livePrice,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func toRepairResponse(o service.RepairOutcome) repairStatusResponse {
	status := "resolved"
	if o.View.Active {
		status = "active"
	}
	return repairStatusResponse{
		MarketID:  o.MarketID,
		Status:    status,
		Winner:    o.View.WinningOutcome,
		Updated:   o.Updated,
		LivePrice: o.LivePrice,
		Error:     o.WriteErr,
	}
}

// CheckStatus reconciles one market against its venue on demand.
// GET /api/repair-status?id=...&platform=...&external_id=...
func (h *RepairHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := q.Get("id")
	externalID := q.Get("external_id")
	if id == "" || q.Get("platform") == "" || externalID == "" {
		writeError(w, http.StatusBadRequest, "id, platform and external_id are required")
		return
	}

	platform := domain.ParsePlatform(q.Get("platform"))
	if platform == "" {
		writeError(w, http.StatusBadRequest, "unknown platform "+q.Get("platform"))
		return
	}

	out, err := h.repairs.CheckStatus(r.Context(), id, platform, externalID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "market not found")
		case errors.Is(err, domain.ErrUnknownPlatform):
			writeError(w, http.StatusBadRequest, "unknown platform")
		default:
			h.logger.ErrorContext(r.Context(), "handler: check status failed",
				slog.String("market_id", id),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "failed to check market status")
		}
		return
	}

	writeJSON(w, http.StatusOK, toRepairResponse(out))
}

// verifyRequest is the batch verification request body.
type verifyRequest struct {
	IDs []string `json:"ids"`
}

// verifyResponse summarizes a batch verification run.
type verifyResponse struct {
	Checked  int                    `json:"checked"`
	Repaired int                    `json:"repaired"`
	Results  []repairStatusResponse `json:"results"`
}

// VerifyMarkets reconciles a batch of markets in one call.
// POST /api/markets/verify
func (h *RepairHandler) VerifyMarkets(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids are required")
		return
	}

	sum, err := h.repairs.VerifyBatch(r.Context(), req.IDs)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: verify markets failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to verify markets")
		return
	}

	resp := verifyResponse{
		Checked:  sum.Checked,
		Repaired: sum.Repaired,
		Results:  make([]repairStatusResponse, 0, len(sum.Outcomes)),
	}
	for _, o := range sum.Outcomes {
		resp.Results = append(resp.Results, toRepairResponse(o))
	}
	writeJSON(w, http.StatusOK, resp)
}
