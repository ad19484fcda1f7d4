package services

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dastin52/bet-diary-app-sub000/internal/goals"
	"github.com/dastin52/bet-diary-app-sub000/internal/ledger"
	"github.com/dastin52/bet-diary-app-sub000/internal/models"
	"github.com/dastin52/bet-diary-app-sub000/internal/store"
)

// WagerInput is the inbound shape of a new wager from either channel.
type WagerInput struct {
	Sport        string             `json:"sport"`
	Bookmaker    string             `json:"bookmaker"`
	Kind         models.WagerKind   `json:"kind"`
	Legs         []models.Leg       `json:"legs"`
	Stake        float64            `json:"stake"`
	Odds         float64            `json:"odds"`
	Tags         []string           `json:"tags"`
	Status       models.WagerStatus `json:"status"`
	ManualProfit *float64           `json:"manual_profit,omitempty"`
}

type GoalInput struct {
	Title       string            `json:"title"`
	Metric      models.GoalMetric `json:"metric"`
	TargetValue float64           `json:"target_value"`
	Scope       models.GoalScope  `json:"scope"`
	Deadline    time.Time         `json:"deadline,omitempty"`
}

// JournalService is the inbound mutation boundary shared by the web handlers
// and the dialog engine's commits. Every operation is one load → transform →
// save cycle on the given key, followed by a canonical mirror write when the
// journal belongs to a registered account.
type JournalService struct {
	store *store.AggregateStore
	sync  *SyncService
}

func NewJournalService(st *store.AggregateStore, sync *SyncService) *JournalService {
	return &JournalService{store: st, sync: sync}
}

func (s *JournalService) CreateWager(ctx context.Context, key string, in WagerInput) (*models.Wager, error) {
	w := &models.Wager{
		ID:        models.GenerateWagerID(),
		CreatedAt: time.Now().UTC(),
		Sport:     strings.TrimSpace(in.Sport),
		Bookmaker: strings.TrimSpace(in.Bookmaker),
		Kind:      in.Kind,
		Legs:      in.Legs,
		Stake:     in.Stake,
		Odds:      in.Odds,
		Tags:      in.Tags,
		Status:    models.WagerStatusPending,
	}
	if w.Sport == "" {
		return nil, models.NewValidationError("sport is required")
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	agg, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	agg.Wagers = append(agg.Wagers, w)
	if in.Status != "" && in.Status != models.WagerStatusPending {
		if _, err := ledger.ApplyStatusChange(agg, w.ID, in.Status, in.ManualProfit); err != nil {
			return nil, err
		}
	}
	goals.Recompute(agg, time.Now())

	if err := s.persist(ctx, key, agg); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"wager": w.ID, "key": key}).Info("wager created")
	return w, nil
}

func (s *JournalService) SetWagerStatus(ctx context.Context, key, wagerID string, status models.WagerStatus, manualProfit *float64) (*models.Wager, error) {
	agg, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	if _, err := ledger.ApplyStatusChange(agg, wagerID, status, manualProfit); err != nil {
		return nil, err
	}
	goals.Recompute(agg, time.Now())

	if err := s.persist(ctx, key, agg); err != nil {
		return nil, err
	}
	return agg.FindWager(wagerID), nil
}

func (s *JournalService) DeleteWager(ctx context.Context, key, wagerID string) error {
	agg, err := s.store.Load(ctx, key)
	if err != nil {
		return err
	}

	if err := ledger.DeleteWager(agg, wagerID); err != nil {
		return err
	}
	goals.Recompute(agg, time.Now())

	return s.persist(ctx, key, agg)
}

func (s *JournalService) SetBalance(ctx context.Context, key string, newBalance float64) (*models.LedgerEntry, error) {
	agg, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	entry := ledger.SetBalance(agg, newBalance)

	if err := s.persist(ctx, key, agg); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *JournalService) CreateGoal(ctx context.Context, key string, in GoalInput) (*models.Goal, error) {
	g := &models.Goal{
		ID:          models.GenerateGoalID(),
		Title:       strings.TrimSpace(in.Title),
		Metric:      in.Metric,
		TargetValue: in.TargetValue,
		Status:      models.GoalStatusInProgress,
		Scope:       in.Scope,
		CreatedAt:   time.Now().UTC(),
		Deadline:    in.Deadline,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	agg, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	agg.Goals = append(agg.Goals, g)
	goals.Recompute(agg, time.Now())

	if err := s.persist(ctx, key, agg); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *JournalService) DeleteGoal(ctx context.Context, key, goalID string) error {
	agg, err := s.store.Load(ctx, key)
	if err != nil {
		return err
	}

	if !agg.RemoveGoal(goalID) {
		return models.NewNotFoundError("goal", goalID)
	}

	return s.persist(ctx, key, agg)
}

// Projection returns the read-only view of the journal with goal progress
// freshly recomputed. Nothing derived is written back.
func (s *JournalService) Projection(ctx context.Context, key string) (*models.Aggregate, error) {
	agg, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	goals.Recompute(agg, time.Now())
	return agg, nil
}

func (s *JournalService) persist(ctx context.Context, key string, agg *models.Aggregate) error {
	if err := s.store.Save(ctx, key, agg); err != nil {
		return err
	}
	return s.sync.PropagateCanonical(ctx, key, agg)
}
