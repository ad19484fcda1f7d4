package models

import (
	"fmt"
	"time"
)

type WagerKind string

const (
	WagerKindSingle WagerKind = "single"
	WagerKindParlay WagerKind = "parlay"
	WagerKindSystem WagerKind = "system"
)

type WagerStatus string

const (
	WagerStatusPending   WagerStatus = "pending"
	WagerStatusWon       WagerStatus = "won"
	WagerStatusLost      WagerStatus = "lost"
	WagerStatusVoid      WagerStatus = "void"
	WagerStatusCashedOut WagerStatus = "cashed_out"
)

// Leg is one selection inside a wager.
type Leg struct {
	Home   string `json:"home"`
	Away   string `json:"away"`
	Market string `json:"market"`
}

// SettledProfit carries the financial result of a settled wager. Manual marks
// a user-supplied amount (cashed-out wagers); otherwise the amount is derived
// from stake and odds and recomputed authoritatively on every status change.
type SettledProfit struct {
	Amount float64 `json:"amount"`
	Manual bool    `json:"manual,omitempty"`
}

type Wager struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Sport     string         `json:"sport"`
	Bookmaker string         `json:"bookmaker,omitempty"`
	Kind      WagerKind      `json:"kind"`
	Legs      []Leg          `json:"legs"`
	Stake     float64        `json:"stake"`
	Odds      float64        `json:"odds"`
	Status    WagerStatus    `json:"status"`
	Profit    *SettledProfit `json:"profit,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
}

// Settled reports whether the wager has left the pending state.
func (w *Wager) Settled() bool {
	return w.Status != WagerStatusPending
}

// DisplayLabel is the short human-readable name of the wager used in lists
// and chat cards.
func (w *Wager) DisplayLabel() string {
	if len(w.Legs) == 0 {
		return string(w.Kind)
	}
	label := fmt.Sprintf("%s — %s", w.Legs[0].Home, w.Legs[0].Away)
	if len(w.Legs) > 1 {
		label = fmt.Sprintf("%s (+%d)", label, len(w.Legs)-1)
	}
	return label
}

func (w *Wager) HasTag(tag string) bool {
	for _, t := range w.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (w *Wager) Validate() error {
	switch w.Kind {
	case WagerKindSingle, WagerKindParlay, WagerKindSystem:
	default:
		return NewValidationError("invalid wager kind: %s", w.Kind)
	}
	switch w.Status {
	case WagerStatusPending, WagerStatusWon, WagerStatusLost, WagerStatusVoid, WagerStatusCashedOut:
	default:
		return NewValidationError("invalid wager status: %s", w.Status)
	}
	if len(w.Legs) == 0 {
		return NewValidationError("wager must have at least one leg")
	}
	for i, leg := range w.Legs {
		if leg.Home == "" || leg.Away == "" {
			return NewValidationError("leg %d: home and away are required", i+1)
		}
		if leg.Home == leg.Away {
			return NewValidationError("leg %d: home and away must differ", i+1)
		}
	}
	if w.Stake <= 0 {
		return NewValidationError("stake must be positive")
	}
	if w.Odds <= 1 {
		return NewValidationError("odds must be greater than 1")
	}
	return nil
}
