// Package goals recomputes goal progress from the settled wager set. Like the
// ledger core it is pure: CurrentValue and Status are derived values and are
// overwritten wholesale on every recompute, never edited in place.
package goals

import (
	"time"

	"github.com/dastin52/bet-diary-app-sub000/internal/ledger"
	"github.com/dastin52/bet-diary-app-sub000/internal/models"
)

// Recompute refreshes CurrentValue and Status for every goal in the aggregate.
// Called after each wager mutation and before projection reads.
func Recompute(agg *models.Aggregate, now time.Time) {
	for _, g := range agg.Goals {
		g.CurrentValue = metricValue(g, agg.Wagers)
		g.Status = status(g, now)
	}
}

func status(g *models.Goal, now time.Time) models.GoalStatus {
	if g.CurrentValue >= g.TargetValue {
		return models.GoalStatusAchieved
	}
	if !g.Deadline.IsZero() && now.After(g.Deadline) {
		return models.GoalStatusFailed
	}
	return models.GoalStatusInProgress
}

func metricValue(g *models.Goal, wagers []*models.Wager) float64 {
	var (
		count  int
		staked float64
		profit float64
		won    int
		lost   int
	)
	for _, w := range wagers {
		if !w.Settled() || !inScope(g.Scope, w) {
			continue
		}
		count++
		staked += w.Stake
		profit += ledger.SettlementProfit(w)
		switch w.Status {
		case models.WagerStatusWon:
			won++
		case models.WagerStatusLost:
			lost++
		}
	}

	switch g.Metric {
	case models.GoalMetricProfit:
		return profit
	case models.GoalMetricROI:
		if staked == 0 {
			return 0
		}
		return profit / staked * 100
	case models.GoalMetricWinRate:
		if won+lost == 0 {
			return 0
		}
		return float64(won) / float64(won+lost) * 100
	case models.GoalMetricBetCount:
		return float64(count)
	}
	return 0
}

func inScope(scope models.GoalScope, w *models.Wager) bool {
	switch scope.Kind {
	case models.GoalScopeSport:
		return w.Sport == scope.Value
	case models.GoalScopeWagerKind:
		return string(w.Kind) == scope.Value
	case models.GoalScopeTag:
		return w.HasTag(scope.Value)
	default:
		return true
	}
}
