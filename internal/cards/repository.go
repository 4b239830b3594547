package cards

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/connection-card/internal/visitor"
)

// Card is a submitted connection card kept for follow-up by church staff.
type Card struct {
	ID             string         `json:"id"`
	Visitor        visitor.Record `json:"visitor"`
	WelcomeMessage string         `json:"welcomeMessage"`
	Prayer         string         `json:"prayer"`
	Generated      bool           `json:"generated"`
	Source         string         `json:"source"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// ListFilter narrows an archive listing.
type ListFilter struct {
	Limit              int
	Offset             int
	MembershipInterest *visitor.MembershipInterest
}

// Repository defines the interface for card storage
type Repository interface {
	Create(ctx context.Context, card *Card) error
	List(ctx context.Context, filter ListFilter) ([]*Card, error)
}

// InMemoryRepository keeps cards in process memory.
type InMemoryRepository struct {
	mu    sync.RWMutex
	cards []*Card
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Create assigns an id and timestamp when missing and stores a copy.
func (r *InMemoryRepository) Create(ctx context.Context, card *Card) error {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}
	stored := *card

	r.mu.Lock()
	r.cards = append(r.cards, &stored)
	r.mu.Unlock()
	return nil
}

// List returns cards newest first.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Card, error) {
	r.mu.RLock()
	matched := make([]*Card, 0, len(r.cards))
	for _, c := range r.cards {
		if filter.MembershipInterest != nil && c.Visitor.MembershipInterest != *filter.MembershipInterest {
			continue
		}
		cp := *c
		matched = append(matched, &cp)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset >= len(matched) {
		return []*Card{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}
