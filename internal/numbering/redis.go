package numbering

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"docflow/internal/domain"
	"docflow/internal/port"
)

// CounterKey is the Redis key holding the last issued sequence of a scope.
func CounterKey(tenantID uuid.UUID, docType domain.DocumentType, year int) string {
	return fmt.Sprintf("docflow:seq:%s:%s:%04d", tenantID, Prefix(docType), year)
}

type redisGenerator struct {
	rdb     redis.Cmdable
	docRepo port.DocumentRepository
}

// NewRedisGenerator creates a NumberGenerator backed by an atomic Redis counter.
// The counter is seeded from the last stored number the first time a scope is seen,
// so switching from the sequential strategy continues the existing series.
func NewRedisGenerator(rdb redis.Cmdable, docRepo port.DocumentRepository) port.NumberGenerator {
	return &redisGenerator{rdb: rdb, docRepo: docRepo}
}

func (g *redisGenerator) Next(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType, year int) (string, error) {
	key := CounterKey(tenantID, docType, year)

	exists, err := g.rdb.Exists(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("checking number counter %s: %w", key, err)
	}
	if exists == 0 {
		last, err := g.docRepo.LastNumber(ctx, tenantID, docType, ScopePrefix(docType, year))
		if err != nil {
			return "", fmt.Errorf("looking up last document number: %w", err)
		}
		seed := 0
		if last != "" {
			if seed, err = ParseSequence(last); err != nil {
				return "", err
			}
		}
		// Losing the SETNX race is fine: another caller seeded the same value.
		if err := g.rdb.SetNX(ctx, key, seed, 0).Err(); err != nil {
			return "", fmt.Errorf("seeding number counter %s: %w", key, err)
		}
	}

	seq, err := g.rdb.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("incrementing number counter %s: %w", key, err)
	}
	return Format(docType, year, int(seq)), nil
}
