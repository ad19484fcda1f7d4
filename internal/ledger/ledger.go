// Package ledger implements the settlement arithmetic that keeps an
// aggregate's running balance equal to the sum of its audit trail. All
// functions here are pure over the aggregate they are handed: no I/O, no
// clocks beyond entry timestamps, and no failures on invariant-respecting
// input. Input validation (stake, odds, legs) belongs to the callers.
package ledger

import (
	"fmt"
	"time"

	"github.com/dastin52/bet-diary-app-sub000/internal/models"
)

// SettlementProfit is the financial effect of a wager in its current status.
// Pending and void wagers settle to zero; a cashed-out wager's profit is the
// user-supplied amount.
func SettlementProfit(w *models.Wager) float64 {
	switch w.Status {
	case models.WagerStatusWon:
		return w.Stake * (w.Odds - 1)
	case models.WagerStatusLost:
		return -w.Stake
	case models.WagerStatusCashedOut:
		if w.Profit != nil {
			return w.Profit.Amount
		}
		return 0
	default: // pending, void
		return 0
	}
}

// ApplyStatusChange moves a wager to newStatus, recomputes its profit, and,
// when the financial delta is non-zero, appends exactly one ledger entry and
// moves the balance by that delta. A zero delta still updates the wager but
// appends nothing, which makes re-applying the same status a financial no-op.
//
// manualProfit is required for cashed_out and ignored otherwise. A transition
// back to pending appends a correction entry reversing the previous profit.
func ApplyStatusChange(agg *models.Aggregate, wagerID string, newStatus models.WagerStatus, manualProfit *float64) (*models.LedgerEntry, error) {
	w := agg.FindWager(wagerID)
	if w == nil {
		return nil, models.NewNotFoundError("wager", wagerID)
	}

	switch newStatus {
	case models.WagerStatusPending, models.WagerStatusWon, models.WagerStatusLost,
		models.WagerStatusVoid, models.WagerStatusCashedOut:
	default:
		return nil, models.NewValidationError("invalid wager status: %s", newStatus)
	}
	if newStatus == models.WagerStatusCashedOut && manualProfit == nil {
		return nil, models.NewValidationError("cashed_out requires an explicit profit amount")
	}

	oldProfit := SettlementProfit(w)

	w.Status = newStatus
	switch newStatus {
	case models.WagerStatusPending:
		w.Profit = nil
	case models.WagerStatusCashedOut:
		w.Profit = &models.SettledProfit{Amount: *manualProfit, Manual: true}
	default:
		w.Profit = &models.SettledProfit{Amount: SettlementProfit(w)}
	}

	newProfit := SettlementProfit(w)
	delta := newProfit - oldProfit
	if delta == 0 {
		return nil, nil
	}

	entry := appendEntry(agg, entryKindFor(newStatus), delta,
		fmt.Sprintf("%s: %s", newStatus, w.DisplayLabel()), w.ID)
	return entry, nil
}

// DeleteWager removes a wager from the aggregate. A settled wager is first
// reverted to pending, which appends the compensating correction entry; a
// pending wager is removed with no ledger effect.
func DeleteWager(agg *models.Aggregate, wagerID string) error {
	w := agg.FindWager(wagerID)
	if w == nil {
		return models.NewNotFoundError("wager", wagerID)
	}
	if w.Status != models.WagerStatusPending {
		if _, err := ApplyStatusChange(agg, wagerID, models.WagerStatusPending, nil); err != nil {
			return err
		}
	}
	agg.RemoveWager(wagerID)
	return nil
}

// SetBalance records a manual deposit or withdrawal bringing the balance to
// newBalance. Setting the current balance appends nothing.
func SetBalance(agg *models.Aggregate, newBalance float64) *models.LedgerEntry {
	delta := newBalance - agg.Balance
	if delta == 0 {
		return nil
	}
	kind := models.EntryKindDeposit
	desc := "manual deposit"
	if delta < 0 {
		kind = models.EntryKindWithdrawal
		desc = "manual withdrawal"
	}
	return appendEntry(agg, kind, delta, desc, "")
}

func appendEntry(agg *models.Aggregate, kind models.EntryKind, delta float64, desc, wagerID string) *models.LedgerEntry {
	entry := &models.LedgerEntry{
		ID:            models.GenerateEntryID(),
		Timestamp:     time.Now().UTC(),
		Kind:          kind,
		Delta:         delta,
		BalanceBefore: agg.Balance,
		BalanceAfter:  agg.Balance + delta,
		Description:   desc,
		WagerID:       wagerID,
	}
	agg.Balance += delta
	agg.Ledger = append(agg.Ledger, entry)
	return entry
}

func entryKindFor(status models.WagerStatus) models.EntryKind {
	switch status {
	case models.WagerStatusWon:
		return models.EntryKindSettleWin
	case models.WagerStatusLost:
		return models.EntryKindSettleLoss
	case models.WagerStatusVoid:
		return models.EntryKindSettleVoid
	case models.WagerStatusCashedOut:
		return models.EntryKindSettleCashout
	default: // pending reversal
		return models.EntryKindCorrection
	}
}
