package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/lakuzo/marketwatch/internal/domain"
	"github.com/lakuzo/marketwatch/internal/reconcile"
)

// VenueClient is one venue's status lookup, keyed by that venue's external
// market id.
type VenueClient interface {
	MarketStatus(ctx context.Context, externalID string) (domain.VenueStatus, error)
}

// repairMarketStore is the slice of the market store the repair pipeline
// touches.
type repairMarketStore interface {
	GetStatusView(ctx context.Context, id string) (domain.StatusView, error)
	ListRepairTargets(ctx context.Context, ids []string) ([]domain.RepairTarget, error)
	MarkResolved(ctx context.Context, id, winner string) error
}

// priceCache receives ephemeral live prices for still open markets.
type priceCache interface {
	SetLive(ctx context.Context, marketID string, price float64) error
}

// marketInvalidator drops a market from the read cache after a repair.
type marketInvalidator interface {
	Invalidate(ctx context.Context, id string) error
}

// RepairOutcome is the result of reconciling one market. View always holds
// the freshest known stored state, post-repair when one happened.
type RepairOutcome struct {
	MarketID  string
	View      domain.StatusView
	Updated   bool
	LivePrice *float64
	// WriteErr is set when the venue demanded a repair but the store
	// update failed. The caller reports it without treating the whole
	// check as failed.
	WriteErr string
}

// VerifySummary aggregates a batch verification run.
type VerifySummary struct {
	Checked  int
	Repaired int
	Outcomes []RepairOutcome
}

// RepairService drives the lazy repair pipeline: fetch venue truth, run the
// reconciler, and apply at most one idempotent store write.
type RepairService struct {
	markets    repairMarketStore
	venues     map[domain.Platform]VenueClient
	prices     priceCache
	cache      marketInvalidator
	logger     *slog.Logger
	batchLimit int
}

// NewRepairService creates a RepairService. prices and cache may be nil
// when Redis is disabled; the pipeline then skips those side effects.
func NewRepairService(
	markets repairMarketStore,
	venues map[domain.Platform]VenueClient,
	prices priceCache,
	cache marketInvalidator,
	batchLimit int,
	logger *slog.Logger,
) *RepairService {
	if batchLimit <= 0 {
		batchLimit = 8
	}
	return &RepairService{
		markets:    markets,
		venues:     venues,
		prices:     prices,
		cache:      cache,
		logger:     logger,
		batchLimit: batchLimit,
	}
}

// CheckStatus reconciles one market against its venue and applies the
// repair if one is needed.
//
// Venue failures fail open: the stored view is returned unchanged, because
// a flaky upstream must never block reads or corrupt records. A failed
// store write after a repair decision is the one error surfaced to the
// caller, via RepairOutcome.WriteErr.
func (s *RepairService) CheckStatus(ctx context.Context, marketID string, platform domain.Platform, externalID string) (RepairOutcome, error) {
	view, err := s.markets.GetStatusView(ctx, marketID)
	if err != nil {
		return RepairOutcome{}, fmt.Errorf("repair_service: load market %q: %w", marketID, err)
	}

	venue, ok := s.venues[platform]
	if !ok {
		return RepairOutcome{}, fmt.Errorf("repair_service: %w: %q", domain.ErrUnknownPlatform, platform)
	}

	return s.reconcileOne(ctx, marketID, view, venue, externalID), nil
}

func (s *RepairService) reconcileOne(ctx context.Context, marketID string, view domain.StatusView, venue VenueClient, externalID string) RepairOutcome {
	out := RepairOutcome{MarketID: marketID, View: view}
	// Inactive records are terminal for the repair pipeline; skip the venue
	// round trip entirely.
	if !view.Active {
		return out
	}

	vs, err := venue.MarketStatus(ctx, externalID)
	if err != nil {
		s.logger.WarnContext(ctx, "repair_service: venue lookup failed",
			slog.String("market_id", marketID),
			slog.String("external_id", externalID),
			slog.String("error", err.Error()),
		)
		return out
	}

	switch res := reconcile.Reconcile(view, vs); res.Kind {
	case reconcile.Repair:
		if err := s.markets.MarkResolved(ctx, marketID, res.Winner); err != nil {
			s.logger.ErrorContext(ctx, "repair_service: mark resolved failed",
				slog.String("market_id", marketID),
				slog.String("error", err.Error()),
			)
			out.WriteErr = err.Error()
			return out
		}
		out.Updated = true
		out.View.Active = false
		out.View.Status = domain.MarketStatusResolved
		if res.Winner != "" {
			out.View.WinningOutcome = res.Winner
		}
		s.invalidate(ctx, marketID)
		s.logger.InfoContext(ctx, "repair_service: market repaired",
			slog.String("market_id", marketID),
			slog.String("winner", res.Winner),
		)

	case reconcile.PriceUpdate:
		out.LivePrice = &res.LivePrice
		if s.prices != nil {
			if err := s.prices.SetLive(ctx, marketID, res.LivePrice); err != nil {
				// Display-only state; the next check refreshes it.
				s.logger.WarnContext(ctx, "repair_service: live price cache failed",
					slog.String("market_id", marketID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
	return out
}

func (s *RepairService) invalidate(ctx context.Context, marketID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, marketID); err != nil {
		s.logger.WarnContext(ctx, "repair_service: cache invalidate failed",
			slog.String("market_id", marketID),
			slog.String("error", err.Error()),
		)
	}
}

// VerifyBatch reconciles a set of markets concurrently. Per-market venue
// failures fail open as in CheckStatus; only store reads abort the run.
func (s *RepairService) VerifyBatch(ctx context.Context, marketIDs []string) (VerifySummary, error) {
	targets, err := s.markets.ListRepairTargets(ctx, marketIDs)
	if err != nil {
		return VerifySummary{}, fmt.Errorf("repair_service: load targets: %w", err)
	}

	outcomes := make([]RepairOutcome, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)
	for i, t := range targets {
		g.Go(func() error {
			venue, ok := s.venues[t.Platform]
			if !ok {
				s.logger.WarnContext(gctx, "repair_service: unknown platform in batch",
					slog.String("market_id", t.ID),
					slog.String("platform", string(t.Platform)),
				)
				outcomes[i] = RepairOutcome{MarketID: t.ID, View: t.View}
				return nil
			}
			outcomes[i] = s.reconcileOne(gctx, t.ID, t.View, venue, t.ExternalID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return VerifySummary{}, err
	}

	summary := VerifySummary{Checked: len(outcomes), Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Updated {
			summary.Repaired++
		}
	}
	return summary, nil
}
