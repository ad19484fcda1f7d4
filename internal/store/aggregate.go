package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dastin52/bet-diary-app-sub000/internal/models"
)

// AggregateStore reads and writes whole per-account aggregates as single JSON
// values. Load never fails on missing or malformed data: both come back as a
// structurally-defaulted empty aggregate, so a corrupt blob degrades to a
// fresh journal instead of a dead key.
type AggregateStore struct {
	kv KV
}

func NewAggregateStore(kv KV) *AggregateStore {
	return &AggregateStore{kv: kv}
}

func (s *AggregateStore) Load(ctx context.Context, key string) (*models.Aggregate, error) {
	data, err := s.kv.Get(ctx, key)
	if err == ErrKeyNotFound {
		return models.NewAggregate(), nil
	}
	if err != nil {
		return nil, models.NewCollaboratorError("load aggregate", err)
	}

	agg := models.NewAggregate()
	if err := json.Unmarshal(data, agg); err != nil {
		log.WithError(err).WithField("key", key).Warn("malformed aggregate payload, starting fresh")
		return models.NewAggregate(), nil
	}
	agg.Normalize()
	return agg, nil
}

func (s *AggregateStore) Save(ctx context.Context, key string, agg *models.Aggregate) error {
	data, err := json.Marshal(agg)
	if err != nil {
		return models.NewCollaboratorError("marshal aggregate", err)
	}
	if err := s.kv.Put(ctx, key, data, ttlFor(key)); err != nil {
		return models.NewCollaboratorError("save aggregate", err)
	}
	return nil
}

func (s *AggregateStore) Delete(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil {
		return models.NewCollaboratorError("delete aggregate", err)
	}
	return nil
}

// KV exposes the raw store for non-aggregate keys (link codes, nickname index).
func (s *AggregateStore) KV() KV {
	return s.kv
}

// Canonical aggregates never expire; session copies do.
func ttlFor(key string) time.Duration {
	if strings.HasPrefix(key, "journal:session:") {
		return TTLSessionAggregate
	}
	return 0
}
