package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastin52/bet-diary-app-sub000/internal/models"
	"github.com/dastin52/bet-diary-app-sub000/internal/store"
)

func validWagerInput() WagerInput {
	return WagerInput{
		Sport: "football",
		Kind:  models.WagerKindSingle,
		Legs:  []models.Leg{{Home: "Arsenal", Away: "Chelsea", Market: "1X2"}},
		Stake: 100,
		Odds:  2.5,
	}
}

func TestCreateAndSettleWager(t *testing.T) {
	ctx := context.Background()
	st, _, _, journal := newTestServices()
	key := store.SessionKey("tg", "42")

	w, err := journal.CreateWager(ctx, key, validWagerInput())
	require.NoError(t, err)
	assert.Equal(t, models.WagerStatusPending, w.Status)

	settled, err := journal.SetWagerStatus(ctx, key, w.ID, models.WagerStatusWon, nil)
	require.NoError(t, err)
	assert.Equal(t, 150.0, settled.Profit.Amount)

	agg, err := st.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 150.0, agg.Balance)
	require.Len(t, agg.Ledger, 1)
	assert.Equal(t, models.EntryKindSettleWin, agg.Ledger[0].Kind)
}

func TestCreateWagerValidation(t *testing.T) {
	ctx := context.Background()
	_, _, _, journal := newTestServices()
	key := store.SessionKey("tg", "42")

	in := validWagerInput()
	in.Stake = 0
	_, err := journal.CreateWager(ctx, key, in)
	assert.True(t, models.IsValidation(err))

	in = validWagerInput()
	in.Odds = 1
	_, err = journal.CreateWager(ctx, key, in)
	assert.True(t, models.IsValidation(err))

	in = validWagerInput()
	in.Legs = []models.Leg{{Home: "Arsenal", Away: "Arsenal", Market: "1X2"}}
	_, err = journal.CreateWager(ctx, key, in)
	assert.True(t, models.IsValidation(err))

	in = validWagerInput()
	in.Sport = ""
	_, err = journal.CreateWager(ctx, key, in)
	assert.True(t, models.IsValidation(err))
}

func TestCreateWagerWithInitialStatus(t *testing.T) {
	ctx := context.Background()
	st, _, _, journal := newTestServices()
	key := store.SessionKey("web", "abc")

	in := validWagerInput()
	in.Status = models.WagerStatusLost
	w, err := journal.CreateWager(ctx, key, in)
	require.NoError(t, err)

	agg, err := st.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, -100.0, agg.Balance)
	assert.Equal(t, models.WagerStatusLost, agg.FindWager(w.ID).Status)
}

func TestDeleteWagerThroughService(t *testing.T) {
	ctx := context.Background()
	st, _, _, journal := newTestServices()
	key := store.SessionKey("tg", "42")

	w, err := journal.CreateWager(ctx, key, validWagerInput())
	require.NoError(t, err)
	_, err = journal.SetWagerStatus(ctx, key, w.ID, models.WagerStatusWon, nil)
	require.NoError(t, err)

	require.NoError(t, journal.DeleteWager(ctx, key, w.ID))

	agg, err := st.Load(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, agg.FindWager(w.ID))
	assert.Equal(t, 0.0, agg.Balance)
	assert.Len(t, agg.Ledger, 2, "settlement plus reversal")

	err = journal.DeleteWager(ctx, key, w.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestMutationMirrorsCanonicalForAuthenticatedSession(t *testing.T) {
	ctx := context.Background()
	st, auth, sync, journal := newTestServices()

	register(t, auth, "ann@example.com", "ann", nil)
	sessionKey := store.SessionKey("tg", "42")
	session, err := st.Load(ctx, sessionKey)
	require.NoError(t, err)
	_, err = sync.LinkSession(ctx, sessionKey, "ann@example.com", session)
	require.NoError(t, err)

	// mutate through the session key; the canonical record must follow
	_, err = journal.SetBalance(ctx, sessionKey, 1000)
	require.NoError(t, err)

	canonical, err := st.Load(ctx, store.AccountKey("ann@example.com"))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, canonical.Balance)
	require.Len(t, canonical.Ledger, 1)
	assert.Equal(t, models.EntryKindDeposit, canonical.Ledger[0].Kind)
}

func TestGoalLifecycleThroughService(t *testing.T) {
	ctx := context.Background()
	_, _, _, journal := newTestServices()
	key := store.SessionKey("web", "abc")

	g, err := journal.CreateGoal(ctx, key, GoalInput{
		Title:       "bank a grand",
		Metric:      models.GoalMetricProfit,
		TargetValue: 250,
		Scope:       models.GoalScope{Kind: models.GoalScopeAll},
		Deadline:    time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, models.GoalStatusInProgress, g.Status)

	// settle enough profit and the next projection shows the goal achieved
	w, err := journal.CreateWager(ctx, key, validWagerInput())
	require.NoError(t, err)
	_, err = journal.SetWagerStatus(ctx, key, w.ID, models.WagerStatusWon, nil) // +150
	require.NoError(t, err)
	w2, err := journal.CreateWager(ctx, key, validWagerInput())
	require.NoError(t, err)
	_, err = journal.SetWagerStatus(ctx, key, w2.ID, models.WagerStatusWon, nil) // +300 total
	require.NoError(t, err)

	agg, err := journal.Projection(ctx, key)
	require.NoError(t, err)
	require.Len(t, agg.Goals, 1)
	assert.Equal(t, 300.0, agg.Goals[0].CurrentValue)
	assert.Equal(t, models.GoalStatusAchieved, agg.Goals[0].Status)

	require.NoError(t, journal.DeleteGoal(ctx, key, g.ID))
	err = journal.DeleteGoal(ctx, key, g.ID)
	assert.True(t, models.IsNotFound(err))
}
