package header

import "time"

// Outcome names what a Set or Release call did to the slot.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeCleared
	// OutcomeNoop: release or clear of an already empty slot
	OutcomeNoop
	OutcomeNotOwner
	OutcomeDebounced
	OutcomeManualHeld
	OutcomeAuthRoute
	OutcomeProvisional
	OutcomeStale
	OutcomeUnchanged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeCleared:
		return "cleared"
	case OutcomeNoop:
		return "noop"
	case OutcomeNotOwner:
		return "not-owner"
	case OutcomeDebounced:
		return "debounced"
	case OutcomeManualHeld:
		return "manual-held"
	case OutcomeAuthRoute:
		return "auth-route"
	case OutcomeProvisional:
		return "provisional"
	case OutcomeStale:
		return "stale"
	case OutcomeUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Result is returned by every store write.
type Result struct {
	Slot    *Descriptor
	Outcome Outcome
}

// Changed reports whether the slot contents changed
func (r Result) Changed() bool {
	return r.Outcome == OutcomeAccepted || r.Outcome == OutcomeCleared
}

// Input is everything a guard may look at. Incoming is never nil and is
// already stamped.
type Input struct {
	Prev      *Descriptor
	Incoming  *Descriptor
	LastClear *ClearRecord
	Now       time.Time
	Window    time.Duration
	// AuthRoute is true while the active top-level route is a sign-in screen.
	AuthRoute bool
}

// Guard rejects a write when Reject returns true. Guards are pure.
type Guard struct {
	Outcome Outcome
	Reject  func(in Input) bool
}

// Chain is the ordered guard list applied to every non-nil write. Later
// guards rely on earlier ones having filtered flapping and ownership cases,
// so the order is part of the store's contract.
var Chain = []Guard{
	{Outcome: OutcomeDebounced, Reject: Debounced},
	{Outcome: OutcomeManualHeld, Reject: ManualHeld},
	{Outcome: OutcomeAuthRoute, Reject: AuthSuppressed},
	{Outcome: OutcomeProvisional, Reject: ProvisionalDowngrade},
	{Outcome: OutcomeStale, Reject: Stale},
	{Outcome: OutcomeUnchanged, Reject: Unchanged},
}

// Evaluate runs the chain and returns the first rejecting guard's outcome,
// or OutcomeAccepted.
func Evaluate(chain []Guard, in Input) Outcome {
	for _, g := range chain {
		if g.Reject(in) {
			return g.Outcome
		}
	}
	return OutcomeAccepted
}

// Debounced rejects a write that re-sets what was just cleared.
//
// When both the clear and the write carry owners, mount generations decide:
// a newer mount of the cleared screen passes at once, while the same (or an
// older, superseded) mount is held for the window. Without owners on both
// sides the visible fingerprint is compared instead.
func Debounced(in Input) bool {
	c := in.LastClear
	if c == nil || in.Now.Sub(c.At) >= in.Window {
		return false
	}
	if !c.Owner.IsZero() && !in.Incoming.Owner.IsZero() {
		if c.Owner.Screen() != in.Incoming.Owner.Screen() {
			return false
		}
		return !in.Incoming.Owner.supersedes(c.Owner)
	}
	return c.Fingerprint != "" && c.Fingerprint == fingerprint(in.Incoming)
}

// ManualHeld keeps an explicitly claimed header from being overwritten by
// passive inference.
func ManualHeld(in Input) bool {
	return in.Prev != nil && in.Prev.Manual && !in.Incoming.Manual
}

// AuthSuppressed keeps background screens from leaking a header onto the
// sign-in flow.
func AuthSuppressed(in Input) bool {
	return in.AuthRoute && !in.Incoming.Manual && !in.Incoming.Hidden
}

// ProvisionalDowngrade never replaces a real descriptor with a placeholder.
func ProvisionalDowngrade(in Input) bool {
	return in.Incoming.Provisional && in.Prev != nil && !in.Prev.Provisional
}

// Stale rejects a write from another owner that was stamped before the
// current descriptor.
func Stale(in Input) bool {
	if in.Prev == nil || in.Prev.Stamp == 0 {
		return false
	}
	return in.Incoming.Owner != in.Prev.Owner && in.Incoming.Stamp < in.Prev.Stamp
}

// Unchanged short-circuits writes that would render the same header.
func Unchanged(in Input) bool {
	return in.Prev != nil && sameContent(in.Prev, in.Incoming)
}
