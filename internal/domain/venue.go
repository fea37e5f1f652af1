package domain

// VenueStatus is the normalized answer from a single venue status check.
// It is ephemeral: adapters produce it, the reconciler consumes it, and it
// is never persisted.
type VenueStatus struct {
	// Resolved is true when the venue reports the market closed, settled,
	// or finalized.
	Resolved bool

	// Winner is the normalized winning label. Only meaningful when
	// Resolved is true; empty when the venue did not disclose a clear
	// winner (the reconciler treats that the same as WinnerPending).
	Winner string

	// LivePrice is the current tradable YES price in [0,1], present only
	// when the market is still open and the venue exposed one.
	LivePrice *float64
}

// HasWinner reports whether the venue disclosed a definitive winner, as
// opposed to an administrative closure where the outcome is still pending.
func (s VenueStatus) HasWinner() bool {
	return s.Resolved && s.Winner != "" && s.Winner != WinnerPending
}
