package services

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/dastin52/bet-diary-app-sub000/internal/models"
	"github.com/dastin52/bet-diary-app-sub000/internal/store"
)

// RegisterInput carries everything needed to create an account from either
// channel. ChatID/Handle are only set when registration comes from Telegram.
// Referral is an optional referral code of an existing account.
type RegisterInput struct {
	Email    string
	Nickname string
	Password string
	Referral string
	Origin   models.Channel
	ChatID   int64
	Handle   string
}

// referralReward is credited to the referrer for each registration that
// arrives with their code.
const referralReward = 100

// AuthService owns account creation, credential checks and the uniqueness
// indexes (canonical email key, nickname pointer key).
type AuthService struct {
	store *store.AggregateStore
}

func NewAuthService(st *store.AggregateStore) *AuthService {
	return &AuthService{store: st}
}

// EmailTaken reports whether a canonical aggregate already exists for email.
func (s *AuthService) EmailTaken(ctx context.Context, email string) (bool, error) {
	agg, err := s.store.Load(ctx, store.AccountKey(email))
	if err != nil {
		return false, err
	}
	return agg.Authenticated(), nil
}

// NicknameTaken checks the nickname pointer index.
func (s *AuthService) NicknameTaken(ctx context.Context, nickname string) (bool, error) {
	_, err := s.store.KV().Get(ctx, store.NicknameKey(nickname))
	if err == store.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, models.NewCollaboratorError("check nickname", err)
	}
	return true, nil
}

func (s *AuthService) ValidateRegistration(ctx context.Context, in RegisterInput) error {
	if !models.ValidEmail(in.Email) {
		return models.NewValidationError("invalid email address")
	}
	if len(strings.TrimSpace(in.Nickname)) < 3 {
		return models.NewValidationError("nickname must be at least 3 characters")
	}
	if len(in.Password) < 6 {
		return models.NewValidationError("password must be at least 6 characters")
	}
	taken, err := s.EmailTaken(ctx, in.Email)
	if err != nil {
		return err
	}
	if taken {
		return models.NewConflictError("account %s already exists", in.Email)
	}
	taken, err = s.NicknameTaken(ctx, in.Nickname)
	if err != nil {
		return err
	}
	if taken {
		return models.NewConflictError("nickname %s is already taken", in.Nickname)
	}
	return nil
}

// Register creates the canonical aggregate and the nickname index entry.
// session, when non-nil, is the pre-registration journal the account keeps:
// wagers and ledger recorded before signing up become the canonical record
// (first write wins). ValidateRegistration is re-run here so a direct call
// cannot bypass the uniqueness checks.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, session *models.Aggregate) (*models.Aggregate, error) {
	if err := s.ValidateRegistration(ctx, in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewCollaboratorError("hash password", err)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	agg := models.NewAggregate()
	if session != nil {
		agg = session.Clone()
		agg.Dialog = nil
	}
	agg.Account = &models.Account{
		Email:          email,
		Nickname:       strings.TrimSpace(in.Nickname),
		PasswordHash:   string(hash),
		RegisteredAt:   time.Now().UTC(),
		ReferralCode:   models.GenerateReferralCode(),
		Status:         models.AccountStatusActive,
		OriginChannel:  in.Origin,
		TelegramChatID: in.ChatID,
		TelegramHandle: in.Handle,
	}

	if err := s.store.Save(ctx, store.AccountKey(email), agg); err != nil {
		return nil, err
	}
	if err := s.store.KV().Put(ctx, store.NicknameKey(in.Nickname), []byte(email), 0); err != nil {
		return nil, models.NewCollaboratorError("index nickname", err)
	}
	if err := s.store.KV().Put(ctx, store.ReferralKey(agg.Account.ReferralCode), []byte(email), 0); err != nil {
		return nil, models.NewCollaboratorError("index referral code", err)
	}

	if in.Referral != "" {
		s.creditReferrer(ctx, in.Referral, email)
	}

	log.WithFields(log.Fields{"email": email, "origin": in.Origin}).Info("account registered")
	return agg, nil
}

// creditReferrer awards reward points to the owner of a referral code. An
// unknown or self-referencing code is logged and skipped; the registration
// itself already succeeded.
func (s *AuthService) creditReferrer(ctx context.Context, code, newEmail string) {
	data, err := s.store.KV().Get(ctx, store.ReferralKey(code))
	if err != nil {
		log.WithField("code", code).Warn("unknown referral code, no reward credited")
		return
	}
	referrerEmail := string(data)
	if referrerEmail == newEmail {
		return
	}
	referrer, err := s.store.Load(ctx, store.AccountKey(referrerEmail))
	if err != nil || !referrer.Authenticated() {
		log.WithField("email", referrerEmail).Warn("referral points to a missing account")
		return
	}
	referrer.Account.RewardPoints += referralReward
	if err := s.store.Save(ctx, store.AccountKey(referrerEmail), referrer); err != nil {
		log.WithError(err).WithField("email", referrerEmail).Warn("failed to credit referral reward")
		return
	}
	log.WithFields(log.Fields{"referrer": referrerEmail, "referred": newEmail}).Info("referral reward credited")
}

// Login verifies credentials against the canonical aggregate and returns it.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Aggregate, error) {
	agg, err := s.store.Load(ctx, store.AccountKey(email))
	if err != nil {
		return nil, err
	}
	if !agg.Authenticated() {
		return nil, models.NewNotFoundError("account", email)
	}
	if agg.Account.Status == models.AccountStatusBlocked {
		return nil, models.NewValidationError("account is blocked")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(agg.Account.PasswordHash), []byte(password)); err != nil {
		return nil, models.NewValidationError("invalid credentials")
	}
	return agg, nil
}
