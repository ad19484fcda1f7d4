package models

import "time"

type GoalMetric string

const (
	GoalMetricProfit   GoalMetric = "profit"
	GoalMetricROI      GoalMetric = "roi"
	GoalMetricWinRate  GoalMetric = "win_rate"
	GoalMetricBetCount GoalMetric = "bet_count"
)

type GoalStatus string

const (
	GoalStatusInProgress GoalStatus = "in_progress"
	GoalStatusAchieved   GoalStatus = "achieved"
	GoalStatusFailed     GoalStatus = "failed"
)

type GoalScopeKind string

const (
	GoalScopeAll       GoalScopeKind = "all"
	GoalScopeSport     GoalScopeKind = "sport"
	GoalScopeWagerKind GoalScopeKind = "wager_kind"
	GoalScopeTag       GoalScopeKind = "tag"
)

// GoalScope restricts which settled wagers feed a goal's metric.
type GoalScope struct {
	Kind  GoalScopeKind `json:"kind"`
	Value string        `json:"value,omitempty"`
}

// Goal tracks progress toward a target metric. CurrentValue and Status are
// derived: they are recomputed from the settled wager set after every wager
// mutation and are never written independently.
type Goal struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Metric       GoalMetric `json:"metric"`
	TargetValue  float64    `json:"target_value"`
	CurrentValue float64    `json:"current_value"`
	Status       GoalStatus `json:"status"`
	Scope        GoalScope  `json:"scope"`
	CreatedAt    time.Time  `json:"created_at"`
	Deadline     time.Time  `json:"deadline,omitempty"`
}

func (g *Goal) Validate() error {
	if g.Title == "" {
		return NewValidationError("goal title is required")
	}
	switch g.Metric {
	case GoalMetricProfit, GoalMetricROI, GoalMetricWinRate, GoalMetricBetCount:
	default:
		return NewValidationError("invalid goal metric: %s", g.Metric)
	}
	if g.TargetValue <= 0 {
		return NewValidationError("goal target must be positive")
	}
	switch g.Scope.Kind {
	case GoalScopeAll:
	case GoalScopeSport, GoalScopeWagerKind, GoalScopeTag:
		if g.Scope.Value == "" {
			return NewValidationError("goal scope %s requires a value", g.Scope.Kind)
		}
	default:
		return NewValidationError("invalid goal scope: %s", g.Scope.Kind)
	}
	return nil
}
