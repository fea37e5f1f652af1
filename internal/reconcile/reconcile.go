// Package reconcile decides what, if anything, to do about a stored market
// record given a fresh venue observation. It is pure: no I/O, no clock.
package reconcile

import "github.com/lakuzo/marketwatch/internal/domain"

// Kind classifies the outcome of a reconciliation.
type Kind int

const (
	// NoChange means the stored record already reflects reality.
	NoChange Kind = iota
	// Repair means the record must be flipped to its terminal state.
	Repair
	// PriceUpdate means the market is still live and only its display
	// price moved. Nothing is persisted for this kind.
	PriceUpdate
)

func (k Kind) String() string {
	switch k {
	case Repair:
		return "repair"
	case PriceUpdate:
		return "price_update"
	default:
		return "no_change"
	}
}

// Result is the reconciler's verdict for one market.
type Result struct {
	Kind Kind
	// Winner is set only for Repair, and only when the venue reported a
	// decided outcome. An empty Winner on a Repair means the stored
	// winning_outcome must be left as is.
	Winner string
	// LivePrice is set only for PriceUpdate.
	LivePrice float64
}

// Reconcile compares the stored view of a market against what its venue
// reports now. Rules apply in order and the first match wins:
//
//  1. An inactive record is terminal and never touched, whatever the venue
//     says. Liveness alone gates the guard; a repair that died before
//     writing status must not reopen the record.
//  2. A venue-resolved market yields a Repair. The winner is carried over
//     only when it is a decided outcome; "Pending" and empty winners are
//     dropped so the repair cannot erase a previously stored result.
//  3. An unresolved market with a live price yields a PriceUpdate.
//  4. Otherwise nothing changed.
func Reconcile(m domain.StatusView, vs domain.VenueStatus) Result {
	if !m.Active {
		return Result{Kind: NoChange}
	}
	if vs.Resolved {
		r := Result{Kind: Repair}
		if vs.HasWinner() {
			r.Winner = vs.Winner
		}
		return r
	}
	if vs.LivePrice != nil {
		return Result{Kind: PriceUpdate, LivePrice: *vs.LivePrice}
	}
	return Result{Kind: NoChange}
}
