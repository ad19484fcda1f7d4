package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastin52/bet-diary-app-sub000/internal/models"
	"github.com/dastin52/bet-diary-app-sub000/internal/store"
)

func newTestServices() (*store.AggregateStore, *AuthService, *SyncService, *JournalService) {
	st := store.NewAggregateStore(store.NewMemoryKV())
	auth := NewAuthService(st)
	sync := NewSyncService(st)
	journal := NewJournalService(st, sync)
	return st, auth, sync, journal
}

func register(t *testing.T, auth *AuthService, email, nick string, session *models.Aggregate) *models.Aggregate {
	t.Helper()
	agg, err := auth.Register(context.Background(), RegisterInput{
		Email:    email,
		Nickname: nick,
		Password: "secret1",
		Origin:   models.ChannelWeb,
	}, session)
	require.NoError(t, err)
	return agg
}

func TestSessionBecomesCanonicalOnRegistration(t *testing.T) {
	ctx := context.Background()
	st, auth, _, _ := newTestServices()

	// an anonymous telegram session with history
	sessionKey := store.SessionKey("tg", "42")
	session, err := st.Load(ctx, sessionKey)
	require.NoError(t, err)
	session.Wagers = append(session.Wagers, &models.Wager{
		ID: "w1", Sport: "football", Kind: models.WagerKindSingle,
		Legs:  []models.Leg{{Home: "A", Away: "B", Market: "1X2"}},
		Stake: 10, Odds: 2, Status: models.WagerStatusPending,
	})

	agg := register(t, auth, "ann@example.com", "ann", session)
	require.True(t, agg.Authenticated())

	canonical, err := st.Load(ctx, store.AccountKey("ann@example.com"))
	require.NoError(t, err)
	assert.NotNil(t, canonical.FindWager("w1"), "pre-registration history carries into the account")
}

func TestLinkSessionCanonicalIsAuthoritative(t *testing.T) {
	ctx := context.Background()
	st, auth, sync, _ := newTestServices()

	canonical := register(t, auth, "ann@example.com", "ann", nil)
	canonical.Balance = 500
	require.NoError(t, st.Save(ctx, store.AccountKey("ann@example.com"), canonical))

	// a stale session copy with divergent finances but a fresh chat link
	sessionKey := store.SessionKey("tg", "42")
	session := canonical.Clone()
	session.Balance = 9999
	session.Account.TelegramChatID = 42
	session.Account.TelegramHandle = "ann_tg"
	session.Dialog = models.NewLoginDialog()

	merged, err := sync.LinkSession(ctx, sessionKey, "ann@example.com", session)
	require.NoError(t, err)

	assert.Equal(t, 500.0, merged.Balance, "canonical finances win")
	assert.Equal(t, int64(42), merged.Account.TelegramChatID, "session contributes link fields")
	assert.Equal(t, "ann_tg", merged.Account.TelegramHandle)
	assert.Nil(t, merged.Dialog, "session copy is rewritten with no open dialog")

	stored, err := st.Load(ctx, sessionKey)
	require.NoError(t, err)
	assert.Equal(t, 500.0, stored.Balance)

	canon, err := st.Load(ctx, store.AccountKey("ann@example.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), canon.Account.TelegramChatID)
}

func TestLinkCodeSingleUse(t *testing.T) {
	ctx := context.Background()
	st, auth, sync, _ := newTestServices()

	register(t, auth, "ann@example.com", "ann", nil)

	code, err := sync.IssueLinkCode(ctx, "ann@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	sessionKey := store.SessionKey("tg", "42")
	session, err := st.Load(ctx, sessionKey)
	require.NoError(t, err)

	merged, err := sync.RedeemLinkCode(ctx, sessionKey, code, session)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", merged.Account.Email)

	// second redemption: the code is gone, reported as not found
	_, err = sync.RedeemLinkCode(ctx, sessionKey, code, session)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestRedeemUnknownCode(t *testing.T) {
	ctx := context.Background()
	st, _, sync, _ := newTestServices()

	session, err := st.Load(ctx, store.SessionKey("tg", "42"))
	require.NoError(t, err)

	_, err = sync.RedeemLinkCode(ctx, store.SessionKey("tg", "42"), "ZZZZZZ", session)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestRegisterDuplicateEmailAndNickname(t *testing.T) {
	ctx := context.Background()
	_, auth, _, _ := newTestServices()

	register(t, auth, "ann@example.com", "ann", nil)

	_, err := auth.Register(ctx, RegisterInput{
		Email: "ann@example.com", Nickname: "other", Password: "secret1",
		Origin: models.ChannelWeb,
	}, nil)
	require.Error(t, err)
	assert.True(t, models.IsConflict(err))

	_, err = auth.Register(ctx, RegisterInput{
		Email: "bob@example.com", Nickname: "ann", Password: "secret1",
		Origin: models.ChannelWeb,
	}, nil)
	require.Error(t, err)
	assert.True(t, models.IsConflict(err))
}

func TestReferralAwardsRewardPoints(t *testing.T) {
	ctx := context.Background()
	st, auth, _, _ := newTestServices()

	referrer := register(t, auth, "ann@example.com", "ann", nil)
	require.NotEmpty(t, referrer.Account.ReferralCode)

	_, err := auth.Register(ctx, RegisterInput{
		Email:    "bob@example.com",
		Nickname: "bob",
		Password: "secret1",
		Referral: referrer.Account.ReferralCode,
		Origin:   models.ChannelWeb,
	}, nil)
	require.NoError(t, err)

	credited, err := st.Load(ctx, store.AccountKey("ann@example.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(100), credited.Account.RewardPoints)

	// an unknown code never blocks registration and credits nobody
	_, err = auth.Register(ctx, RegisterInput{
		Email:    "carol@example.com",
		Nickname: "carol",
		Password: "secret1",
		Referral: "NOSUCHCODE",
		Origin:   models.ChannelWeb,
	}, nil)
	require.NoError(t, err)

	credited, err = st.Load(ctx, store.AccountKey("ann@example.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(100), credited.Account.RewardPoints, "unchanged")
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	_, auth, _, _ := newTestServices()

	register(t, auth, "ann@example.com", "ann", nil)

	_, err := auth.Login(ctx, "ann@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	_, err = auth.Login(ctx, "ghost@example.com", "whatever")
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))

	agg, err := auth.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ann", agg.Account.Nickname)
}
