package services

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/dastin52/bet-diary-app-sub000/internal/models"
	"github.com/dastin52/bet-diary-app-sub000/internal/store"
)

// SyncService reconciles a channel-local session aggregate with the canonical
// per-account aggregate on every authentication-completing event. The merge
// rule never discards settled wagers or ledger history: the canonical record
// is authoritative for everything financial, the session contributes only
// possibly-newer channel-link fields on the account.
type SyncService struct {
	store *store.AggregateStore
}

func NewSyncService(st *store.AggregateStore) *SyncService {
	return &SyncService{store: st}
}

// LinkSession runs the merge rule for an authenticated account and rewrites
// the session key with a dialog-free copy of canonical. The returned aggregate
// is what the session now holds.
func (s *SyncService) LinkSession(ctx context.Context, sessionKey, email string, session *models.Aggregate) (*models.Aggregate, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	canonicalKey := store.AccountKey(email)

	canonical, err := s.store.Load(ctx, canonicalKey)
	if err != nil {
		return nil, err
	}

	if !canonical.Authenticated() {
		if session == nil || !session.Authenticated() {
			return nil, models.NewNotFoundError("account", email)
		}
		// First write wins: the session aggregate becomes canonical.
		canonical = session.Clone()
		canonical.Dialog = nil
	} else if session != nil && session.Account != nil {
		// Canonical is authoritative for wagers/balance/ledger/goals; the
		// session may carry fresher channel-link fields.
		if session.Account.TelegramChatID != 0 {
			canonical.Account.TelegramChatID = session.Account.TelegramChatID
		}
		if session.Account.TelegramHandle != "" {
			canonical.Account.TelegramHandle = session.Account.TelegramHandle
		}
	}

	if err := s.store.Save(ctx, canonicalKey, canonical); err != nil {
		return nil, err
	}

	mirror := canonical.Clone()
	mirror.Dialog = nil
	if err := s.store.Save(ctx, sessionKey, mirror); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"email": email, "session": sessionKey}).Info("session linked to account")
	return mirror, nil
}

// PropagateCanonical mirrors a mutated session aggregate to the canonical key.
// Called after every successful mutation on an authenticated session so both
// keys converge on the same record.
func (s *SyncService) PropagateCanonical(ctx context.Context, sessionKey string, agg *models.Aggregate) error {
	if !agg.Authenticated() {
		return nil
	}
	canonicalKey := store.AccountKey(agg.Account.Email)
	if canonicalKey == sessionKey {
		return nil
	}
	mirror := agg.Clone()
	mirror.Dialog = nil
	return s.store.Save(ctx, canonicalKey, mirror)
}

// IssueLinkCode stores a single-use code under an ephemeral TTL key.
func (s *SyncService) IssueLinkCode(ctx context.Context, email string) (string, error) {
	code, err := models.GenerateLinkCode()
	if err != nil {
		return "", models.NewCollaboratorError("generate link code", err)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.store.KV().Put(ctx, store.LinkCodeKey(code), []byte(email), store.TTLLinkCode); err != nil {
		return "", models.NewCollaboratorError("store link code", err)
	}
	return code, nil
}

// RedeemLinkCode consumes a one-time code and links the session to the coded
// account. The code is deleted before the merge; a second redemption fails
// with NotFoundError, never a silent success.
func (s *SyncService) RedeemLinkCode(ctx context.Context, sessionKey, code string, session *models.Aggregate) (*models.Aggregate, error) {
	key := store.LinkCodeKey(code)
	data, err := s.store.KV().Get(ctx, key)
	if err == store.ErrKeyNotFound {
		return nil, models.NewNotFoundError("link code", code)
	}
	if err != nil {
		return nil, models.NewCollaboratorError("read link code", err)
	}
	if err := s.store.KV().Delete(ctx, key); err != nil {
		return nil, models.NewCollaboratorError("consume link code", err)
	}
	return s.LinkSession(ctx, sessionKey, string(data), session)
}
