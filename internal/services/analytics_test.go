package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dastin52/bet-diary-app-sub000/internal/models"
)

func TestSummarize(t *testing.T) {
	agg := models.NewAggregate()
	add := func(sport string, stake, odds float64, status models.WagerStatus, manual *float64) {
		w := &models.Wager{
			ID: models.GenerateWagerID(), Sport: sport, Kind: models.WagerKindSingle,
			Legs:  []models.Leg{{Home: "A", Away: "B", Market: "1X2"}},
			Stake: stake, Odds: odds, Status: status,
		}
		if manual != nil {
			w.Profit = &models.SettledProfit{Amount: *manual, Manual: true}
		}
		agg.Wagers = append(agg.Wagers, w)
	}

	cashout := 25.0
	add("football", 100, 2.5, models.WagerStatusWon, nil)  // +150
	add("football", 50, 2, models.WagerStatusLost, nil)    // -50
	add("tennis", 80, 3, models.WagerStatusVoid, nil)      // 0
	add("tennis", 40, 2, models.WagerStatusCashedOut, &cashout) // +25
	add("tennis", 60, 2, models.WagerStatusPending, nil)   // excluded

	s := Summarize(agg)

	assert.Equal(t, 5, s.TotalWagers)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 1, s.Won)
	assert.Equal(t, 1, s.Lost)
	assert.Equal(t, 1, s.Void)
	assert.Equal(t, 1, s.CashedOut)

	assert.Equal(t, 270.0, s.TotalStaked, "pending stake not counted")
	assert.Equal(t, 125.0, s.NetProfit)
	assert.InDelta(t, 46.29, s.ROI, 0.01)
	assert.Equal(t, 50.0, s.WinRate, "void and cashout excluded from win rate")

	assert.Equal(t, 100.0, s.ProfitBySport["football"])
	assert.Equal(t, 25.0, s.ProfitBySport["tennis"])
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(models.NewAggregate())
	assert.Zero(t, s.TotalWagers)
	assert.Zero(t, s.ROI)
	assert.Zero(t, s.WinRate)
}
