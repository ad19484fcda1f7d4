package models

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validWager() *Wager {
	return &Wager{
		ID:     GenerateWagerID(),
		Sport:  "football",
		Kind:   WagerKindSingle,
		Legs:   []Leg{{Home: "Arsenal", Away: "Chelsea", Market: "1X2"}},
		Stake:  100,
		Odds:   2.5,
		Status: WagerStatusPending,
	}
}

func TestWagerValidate(t *testing.T) {
	assert.NoError(t, validWager().Validate())

	w := validWager()
	w.Legs = nil
	assert.Error(t, w.Validate())

	w = validWager()
	w.Legs[0].Away = w.Legs[0].Home
	assert.Error(t, w.Validate())

	w = validWager()
	w.Stake = 0
	assert.Error(t, w.Validate())

	w = validWager()
	w.Odds = 1
	assert.Error(t, w.Validate())

	w = validWager()
	w.Status = "halftime"
	assert.Error(t, w.Validate())
}

func TestWagerDisplayLabel(t *testing.T) {
	w := validWager()
	assert.Equal(t, "Arsenal — Chelsea", w.DisplayLabel())

	w.Legs = append(w.Legs, Leg{Home: "Lyon", Away: "Lille"}, Leg{Home: "Ajax", Away: "PSV"})
	assert.Equal(t, "Arsenal — Chelsea (+2)", w.DisplayLabel())
}

func TestGoalValidate(t *testing.T) {
	g := &Goal{Title: "Monthly profit", Metric: GoalMetricProfit, TargetValue: 500, Scope: GoalScope{Kind: GoalScopeAll}}
	assert.NoError(t, g.Validate())

	g.Scope = GoalScope{Kind: GoalScopeSport}
	assert.Error(t, g.Validate(), "scoped goal without a value")

	g.Scope = GoalScope{Kind: GoalScopeSport, Value: "tennis"}
	assert.NoError(t, g.Validate())

	g.TargetValue = 0
	assert.Error(t, g.Validate())
}

// The open dialog must survive a storage round trip with its flow payload
// intact, since every bot message reloads the aggregate from scratch.
func TestDialogStateRoundTrip(t *testing.T) {
	agg := NewAggregate()
	agg.Dialog = NewAddWagerDialog()
	agg.Dialog.AddWager.Step = AddWagerStepStake
	agg.Dialog.AddWager.Draft = WagerDraft{
		Sport: "hockey",
		Legs:  []Leg{{Home: "CSKA", Away: "SKA", Market: "total over 4.5"}},
	}

	data, err := json.Marshal(agg)
	require.NoError(t, err)

	decoded := NewAggregate()
	require.NoError(t, json.Unmarshal(data, decoded))

	require.NotNil(t, decoded.Dialog)
	assert.Equal(t, FlowAddWager, decoded.Dialog.Flow)
	require.NotNil(t, decoded.Dialog.AddWager)
	assert.Equal(t, AddWagerStepStake, decoded.Dialog.AddWager.Step)
	assert.Equal(t, "hockey", decoded.Dialog.AddWager.Draft.Sport)
	assert.Nil(t, decoded.Dialog.Register)
	assert.Nil(t, decoded.Dialog.Login)
	assert.Nil(t, decoded.Dialog.Chat)
}

func TestAggregateClone(t *testing.T) {
	agg := NewAggregate()
	agg.Balance = 250
	agg.Wagers = append(agg.Wagers, validWager())

	clone := agg.Clone()
	clone.Wagers[0].Stake = 999
	clone.Balance = 0

	assert.Equal(t, float64(100), agg.Wagers[0].Stake)
	assert.Equal(t, float64(250), agg.Balance)
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("stake must be positive")))
	assert.True(t, IsNotFound(NewNotFoundError("wager", "w1")))
	assert.True(t, IsConflict(NewConflictError("email taken")))

	wrapped := fmt.Errorf("handling update: %w", NewNotFoundError("goal", "g1"))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))

	collab := NewCollaboratorError("save journal", fmt.Errorf("connection refused"))
	assert.False(t, IsValidation(collab))
	assert.False(t, IsNotFound(collab))
	assert.Contains(t, collab.Error(), "save journal")
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("user@example.com"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail(""))
}

func TestGenerateLinkCode(t *testing.T) {
	code, err := GenerateLinkCode()
	require.NoError(t, err)
	assert.Len(t, code, 6)

	other, err := GenerateLinkCode()
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}
