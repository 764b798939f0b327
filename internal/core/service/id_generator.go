package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
	"github.com/allergymenu/restaurant-api/internal/core/ports"
	"github.com/allergymenu/restaurant-api/internal/pkg/metrics"
)

const (
	defaultIDLength      = 5
	defaultIDMaxAttempts = 5
)

// IDGenerator produces fixed-length decimal ids that are free in one collection.
type IDGenerator struct {
	checker     ports.IDChecker
	collection  string
	length      int
	maxAttempts int
	// randN returns a uniform integer in [0, n).
	randN func(n int64) int64
}

// NewIDGenerator returns a generator for the collection behind checker.
// A length outside 1..18 (the int64 range) or a non-positive maxAttempts
// falls back to 5.
func NewIDGenerator(checker ports.IDChecker, collection string, length, maxAttempts int) *IDGenerator {
	if length <= 0 || length > 18 {
		length = defaultIDLength
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultIDMaxAttempts
	}
	return &IDGenerator{
		checker:     checker,
		collection:  collection,
		length:      length,
		maxAttempts: maxAttempts,
		randN:       rand.Int64N,
	}
}

// Generate draws candidates in [10^(length-1), 10^length-1] until one is not
// present in the collection.
func (g *IDGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		id := g.candidate()
		exists, err := g.checker.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		if !exists {
			return id, nil
		}
		metrics.IDCollisionsTotal.WithLabelValues(g.collection).Inc()
	}
	return "", g.exhausted()
}

// Insert generates an id and hands it to insert. A domain.ErrDuplicateID from
// insert (another writer took the id between check and write) counts as a
// collision against the same attempt budget.
func (g *IDGenerator) Insert(ctx context.Context, insert func(id string) error) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		id := g.candidate()
		exists, err := g.checker.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		if exists {
			metrics.IDCollisionsTotal.WithLabelValues(g.collection).Inc()
			continue
		}
		err = insert(id)
		if errors.Is(err, domain.ErrDuplicateID) {
			metrics.IDCollisionsTotal.WithLabelValues(g.collection).Inc()
			continue
		}
		if err != nil {
			return "", err
		}
		return id, nil
	}
	return "", g.exhausted()
}

func (g *IDGenerator) candidate() string {
	lo := pow10(g.length - 1)
	hi := pow10(g.length) - 1
	return strconv.FormatInt(lo+g.randN(hi-lo+1), 10)
}

func (g *IDGenerator) exhausted() error {
	return fmt.Errorf("%w after %d attempts", domain.ErrIDExhausted, g.maxAttempts)
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
