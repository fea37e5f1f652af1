package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lakuzo/marketwatch/internal/domain"
	"github.com/lakuzo/marketwatch/internal/pairs"
)

type fakePairService struct {
	got pairs.Filter
	ys  []pairs.Yield
	err error
}

func (f *fakePairService) ListYields(_ context.Context, fl pairs.Filter) ([]pairs.Yield, error) {
	f.got = fl
	return f.ys, f.err
}

func newPairRig(svc PairService) http.Handler {
	h := NewPairHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/pairs", h.ListPairs)
	return mux
}

func TestListPairsFilterParams(t *testing.T) {
	svc := &fakePairService{}
	rig := newPairRig(svc)

	rec := httptest.NewRecorder()
	rig.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/pairs?sort=confidence&search=fed&type=inverse", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pairs.Filter{
		Search: "fed",
		Type:   domain.MatchInverse,
		Sort:   pairs.SortConfidence,
	}, svc.got)
}

func TestListPairsDefaults(t *testing.T) {
	svc := &fakePairService{}
	rig := newPairRig(svc)

	rec := httptest.NewRecorder()
	rig.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pairs?type=all", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pairs.Filter{Sort: pairs.SortYield}, svc.got)
}

func TestListPairsRejectsBadParams(t *testing.T) {
	rig := newPairRig(&fakePairService{})

	for _, target := range []string{
		"/api/pairs?sort=spicy",
		"/api/pairs?type=triangular",
	} {
		rec := httptest.NewRecorder()
		rig.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}
