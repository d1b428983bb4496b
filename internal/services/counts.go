package services

import (
	"context"
	"log/slog"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/cache"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

type countService struct {
	rsvpRepo domain.RSVPRepository
	cache    *cache.CountCache
	logger   *slog.Logger
}

// NewCountService returns a CountService that reads through the TTL cache.
// Counts degrade to zero rather than failing the caller: event listings must
// render even when the count queries are down.
func NewCountService(rsvpRepo domain.RSVPRepository, c *cache.CountCache, logger *slog.Logger) domain.CountService {
	return &countService{rsvpRepo: rsvpRepo, cache: c, logger: logger}
}

func (s *countService) GetBatchCounts(ctx context.Context, eventIDs []string) map[string]int {
	counts := make(map[string]int, len(eventIDs))
	var misses []string
	for _, id := range eventIDs {
		if n, ok := s.cache.Get(id); ok {
			counts[id] = n
		} else {
			misses = append(misses, id)
		}
	}
	if len(misses) == 0 {
		return counts
	}

	fetched, err := s.rsvpRepo.CountAttendeesBatch(ctx, misses)
	if err != nil {
		s.logger.WarnContext(ctx, "batch count fetch failed, falling back to per-event", "err", err)
		for _, id := range misses {
			counts[id] = s.GetCount(ctx, id)
		}
		return counts
	}
	for _, id := range misses {
		// Events with no RSVPs are absent from the batch result; that is a
		// real zero, cache it so the next render skips the query.
		n := fetched[id]
		counts[id] = n
		s.cache.Set(id, n)
	}
	return counts
}

func (s *countService) GetCount(ctx context.Context, eventID string) int {
	if n, ok := s.cache.Get(eventID); ok {
		return n
	}
	n, err := s.rsvpRepo.CountAttendees(ctx, eventID)
	if err != nil {
		s.logger.WarnContext(ctx, "count fetch failed, defaulting to zero", "event_id", eventID, "err", err)
		return 0
	}
	s.cache.Set(eventID, n)
	return n
}

func (s *countService) Invalidate(eventID string) {
	s.cache.Invalidate(eventID)
}
