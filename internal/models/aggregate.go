package models

import "encoding/json"

// Aggregate is the unit of storage: the full per-account journal persisted as
// one JSON value. The ledger core maintains three invariants: Balance equals
// the sum of all ledger deltas, every settled non-cashed-out wager carries the
// profit derived from its stake and odds, and the ledger only grows.
type Aggregate struct {
	Account *Account       `json:"account,omitempty"`
	Wagers  []*Wager       `json:"wagers"`
	Balance float64        `json:"balance"`
	Goals   []*Goal        `json:"goals"`
	Ledger  []*LedgerEntry `json:"ledger"`
	Dialog  *DialogState   `json:"dialog,omitempty"`
}

func NewAggregate() *Aggregate {
	return &Aggregate{
		Wagers: []*Wager{},
		Goals:  []*Goal{},
		Ledger: []*LedgerEntry{},
	}
}

// Normalize repairs nil slices after decoding so callers can append safely.
func (a *Aggregate) Normalize() {
	if a.Wagers == nil {
		a.Wagers = []*Wager{}
	}
	if a.Goals == nil {
		a.Goals = []*Goal{}
	}
	if a.Ledger == nil {
		a.Ledger = []*LedgerEntry{}
	}
}

// Authenticated reports whether this journal belongs to a registered account.
func (a *Aggregate) Authenticated() bool {
	return a.Account != nil
}

func (a *Aggregate) FindWager(id string) *Wager {
	for _, w := range a.Wagers {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (a *Aggregate) RemoveWager(id string) bool {
	for i, w := range a.Wagers {
		if w.ID == id {
			a.Wagers = append(a.Wagers[:i], a.Wagers[i+1:]...)
			return true
		}
	}
	return false
}

func (a *Aggregate) FindGoal(id string) *Goal {
	for _, g := range a.Goals {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func (a *Aggregate) RemoveGoal(id string) bool {
	for i, g := range a.Goals {
		if g.ID == id {
			a.Goals = append(a.Goals[:i], a.Goals[i+1:]...)
			return true
		}
	}
	return false
}

// LedgerSum is the sum of all entry deltas; always equal to Balance.
func (a *Aggregate) LedgerSum() float64 {
	var sum float64
	for _, e := range a.Ledger {
		sum += e.Delta
	}
	return sum
}

// Clone returns a deep copy via a JSON round-trip. The aggregate is a plain
// data blob, so this is both correct and cheap at journal sizes.
func (a *Aggregate) Clone() *Aggregate {
	data, err := json.Marshal(a)
	if err != nil {
		return NewAggregate()
	}
	out := NewAggregate()
	if err := json.Unmarshal(data, out); err != nil {
		return NewAggregate()
	}
	out.Normalize()
	return out
}
