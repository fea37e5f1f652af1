package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lakuzo/marketwatch/internal/domain"
)

func fptr(f float64) *float64 { return &f }

func TestReconcile(t *testing.T) {
	live := domain.StatusView{Active: true, Status: domain.MarketStatusClosed}
	terminal := domain.StatusView{Active: false, Status: domain.MarketStatusResolved, WinningOutcome: "Yes"}

	tests := []struct {
		name string
		view domain.StatusView
		vs   domain.VenueStatus
		want Result
	}{
		{
			name: "terminal record ignores venue resolution",
			view: terminal,
			vs:   domain.VenueStatus{Resolved: true, Winner: "No"},
			want: Result{Kind: NoChange},
		},
		{
			name: "terminal record ignores live price",
			view: terminal,
			vs:   domain.VenueStatus{LivePrice: fptr(0.42)},
			want: Result{Kind: NoChange},
		},
		{
			name: "resolved with decided winner",
			view: live,
			vs:   domain.VenueStatus{Resolved: true, Winner: "Yes"},
			want: Result{Kind: Repair, Winner: "Yes"},
		},
		{
			name: "resolved pending drops the winner",
			view: live,
			vs:   domain.VenueStatus{Resolved: true, Winner: domain.WinnerPending},
			want: Result{Kind: Repair},
		},
		{
			name: "resolved with empty winner drops the winner",
			view: live,
			vs:   domain.VenueStatus{Resolved: true},
			want: Result{Kind: Repair},
		},
		{
			name: "live price on an open market",
			view: live,
			vs:   domain.VenueStatus{LivePrice: fptr(0.615)},
			want: Result{Kind: PriceUpdate, LivePrice: 0.615},
		},
		{
			name: "no signal at all",
			view: live,
			vs:   domain.VenueStatus{},
			want: Result{Kind: NoChange},
		},
		{
			name: "inactive without resolved status still short-circuits",
			view: domain.StatusView{Active: false, Status: ""},
			vs:   domain.VenueStatus{Resolved: true, Winner: "No"},
			want: Result{Kind: NoChange},
		},
		{
			name: "inactive closed record short-circuits",
			view: domain.StatusView{Active: false, Status: domain.MarketStatusClosed},
			vs:   domain.VenueStatus{Resolved: true, Winner: "No"},
			want: Result{Kind: NoChange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reconcile(tt.view, tt.vs))
		})
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	// Whatever repair a first pass produced, a second pass over the now
	// terminal record must be a no-op.
	vs := domain.VenueStatus{Resolved: true, Winner: "Yes"}
	first := Reconcile(domain.StatusView{Active: true, Status: domain.MarketStatusClosed}, vs)
	assert.Equal(t, Repair, first.Kind)

	after := domain.StatusView{
		Active:         false,
		Status:         domain.MarketStatusResolved,
		WinningOutcome: first.Winner,
	}
	assert.Equal(t, Result{Kind: NoChange}, Reconcile(after, vs))
}
