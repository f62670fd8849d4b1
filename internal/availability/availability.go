package availability

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/palermo-rentals/storefront/internal/api"
)

// SlotFetcher is the slice of the booking API this service needs.
type SlotFetcher interface {
	AvailableSlots(ctx context.Context, productID, date string) ([]api.TimeSlot, error)
}

// Service queries available slots for a product on a date. Results are not
// cached; concurrent duplicate queries are collapsed into one remote call.
type Service struct {
	fetcher SlotFetcher
	sfg     singleflight.Group

	mu        sync.RWMutex
	lastDate  string
	lastSlots []api.TimeSlot
}

func NewService(fetcher SlotFetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Fetch returns the bookable slots for the product on the date. A failed
// fetch propagates unchanged; there is no retry.
func (s *Service) Fetch(ctx context.Context, productID, date string) ([]api.TimeSlot, error) {
	v, err, _ := s.sfg.Do(productID+"|"+date, func() (interface{}, error) {
		slots, err := s.fetcher.AvailableSlots(ctx, productID, date)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.lastDate = date
		s.lastSlots = slots
		s.mu.Unlock()

		return slots, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]api.TimeSlot), nil
}

// Last reports the most recently queried date and its slots, for redisplay
// after navigation.
func (s *Service) Last() (string, []api.TimeSlot) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slots := make([]api.TimeSlot, len(s.lastSlots))
	copy(slots, s.lastSlots)
	return s.lastDate, slots
}
