package storage

import (
	"context"
	"sync"

	"github.com/UshurbakiyevDavlat/Marketing-App/internal/models"
)

// InMemoryCampaignRepo is a map-backed CampaignRepo used when PostgreSQL
// is unavailable and in tests.
type InMemoryCampaignRepo struct {
	mu        sync.RWMutex
	campaigns map[string]*models.Campaign

	// userIndex keeps per-user campaign IDs in insertion order.
	userIndex map[string][]string
}

// NewInMemoryCampaignRepo creates an empty in-memory campaign repo.
func NewInMemoryCampaignRepo() *InMemoryCampaignRepo {
	return &InMemoryCampaignRepo{
		campaigns: make(map[string]*models.Campaign),
		userIndex: make(map[string][]string),
	}
}

func (r *InMemoryCampaignRepo) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.campaigns[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *InMemoryCampaignRepo) ListAll(ctx context.Context) ([]*models.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*models.Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		cp := *c
		res = append(res, &cp)
	}
	return res, nil
}

func (r *InMemoryCampaignRepo) ListByUser(ctx context.Context, userID string) ([]*models.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.userIndex[userID]
	res := make([]*models.Campaign, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.campaigns[id]; ok {
			cp := *c
			res = append(res, &cp)
		}
	}
	return res, nil
}

// Upsert stores a copy of the campaign to avoid external mutation of the
// stored value.
func (r *InMemoryCampaignRepo) Upsert(ctx context.Context, c *models.Campaign) error {
	if c == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.campaigns[c.ID]; !exists {
		r.userIndex[c.UserID] = append(r.userIndex[c.UserID], c.ID)
	}
	cp := *c
	r.campaigns[c.ID] = &cp
	return nil
}

func (r *InMemoryCampaignRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.campaigns[id]
	if !ok {
		return nil
	}
	delete(r.campaigns, id)

	ids := r.userIndex[c.UserID]
	for i, cid := range ids {
		if cid == id {
			r.userIndex[c.UserID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// InMemoryEventLog stores email events in memory with a per-campaign
// index. Events are kept in insertion order, which matches the ascending
// occurrence order ingestion produces and keeps first-seen tie-breaks
// deterministic.
type InMemoryEventLog struct {
	mu               sync.RWMutex
	events           map[string]*models.EmailEvent
	eventsByCampaign map[string][]string
}

// NewInMemoryEventLog creates an empty in-memory event log.
func NewInMemoryEventLog() *InMemoryEventLog {
	return &InMemoryEventLog{
		events:           make(map[string]*models.EmailEvent),
		eventsByCampaign: make(map[string][]string),
	}
}

func (s *InMemoryEventLog) Save(ctx context.Context, ev *models.EmailEvent) error {
	if ev == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.events[ev.ID]; !exists {
		s.eventsByCampaign[ev.CampaignID] = append(s.eventsByCampaign[ev.CampaignID], ev.ID)
	}
	cp := *ev
	s.events[ev.ID] = &cp
	return nil
}

func (s *InMemoryEventLog) ListByCampaign(ctx context.Context, campaignID string) ([]*models.EmailEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.eventsByCampaign[campaignID]
	res := make([]*models.EmailEvent, 0, len(ids))
	for _, id := range ids {
		if ev, ok := s.events[id]; ok {
			cp := *ev
			res = append(res, &cp)
		}
	}
	return res, nil
}
