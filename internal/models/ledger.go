package models

import "time"

type EntryKind string

const (
	EntryKindDeposit       EntryKind = "deposit"
	EntryKindWithdrawal    EntryKind = "withdrawal"
	EntryKindSettleWin     EntryKind = "settle_win"
	EntryKindSettleLoss    EntryKind = "settle_loss"
	EntryKindSettleVoid    EntryKind = "settle_void"
	EntryKindSettleCashout EntryKind = "settle_cashout"
	EntryKindCorrection    EntryKind = "correction"
)

// LedgerEntry is one immutable audit-trail record of a balance change.
// Entries are append-only: edits and deletions of wagers append compensating
// entries instead of touching history.
type LedgerEntry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Kind          EntryKind `json:"kind"`
	Delta         float64   `json:"delta"`
	BalanceBefore float64   `json:"balance_before"`
	BalanceAfter  float64   `json:"balance_after"`
	Description   string    `json:"description,omitempty"`
	WagerID       string    `json:"wager_id,omitempty"`
}
