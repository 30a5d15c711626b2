package usecase

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/travelapi/internal/core/domain"
	"github.com/atvirokodosprendimai/travelapi/internal/core/ports"
	"github.com/atvirokodosprendimai/travelapi/internal/core/schema"
)

// TravelService validates payloads before anything reaches the store, so a
// rejected payload never causes a partial write.
type TravelService struct {
	destinations *Collection[domain.Destination]
	itineraries  *Collection[domain.Itinerary]
	subscribers  *Collection[domain.Subscriber]
	messages     *Collection[domain.Message]
}

func NewTravelService(gw ports.DocumentGateway, catalog *schema.Catalog) *TravelService {
	return &TravelService{
		destinations: NewCollection(gw, schema.Destination, catalog, domain.DestinationFromDocument),
		itineraries:  NewCollection(gw, schema.Itinerary, catalog, domain.ItineraryFromDocument),
		subscribers:  NewCollection(gw, schema.Subscriber, catalog, domain.SubscriberFromDocument),
		messages:     NewCollection(gw, schema.Message, catalog, domain.MessageFromDocument),
	}
}

func (s *TravelService) ListDestinations(ctx context.Context, limit int) ([]domain.Destination, error) {
	return s.destinations.Find(ctx, nil, clampLimit(limit, DefaultDestinationLimit))
}

// ListItineraries returns itineraries, restricted to one owner when ownerEmail is set.
func (s *TravelService) ListItineraries(ctx context.Context, ownerEmail string, limit int) ([]domain.Itinerary, error) {
	var filter domain.Filter
	if ownerEmail != "" {
		filter = domain.Filter{"owner_email": ownerEmail}
	}
	return s.itineraries.Find(ctx, filter, clampLimit(limit, DefaultItineraryLimit))
}

func (s *TravelService) Subscribe(ctx context.Context, in schema.Input) (string, error) {
	rec, err := schema.Validate(schema.Subscriber, in)
	if err != nil {
		return "", err
	}
	return s.subscribers.Create(ctx, schema.ToSubscriber(rec))
}

func (s *TravelService) Contact(ctx context.Context, in schema.Input) (string, error) {
	rec, err := schema.Validate(schema.Message, in)
	if err != nil {
		return "", err
	}
	return s.messages.Create(ctx, schema.ToMessage(rec))
}

func (s *TravelService) CreateItinerary(ctx context.Context, in schema.Input) (string, error) {
	rec, err := schema.Validate(schema.Itinerary, in)
	if err != nil {
		return "", err
	}
	return s.itineraries.Create(ctx, schema.ToItinerary(rec))
}

// SeedDestinations validates every input and only then writes them, in order.
func (s *TravelService) SeedDestinations(ctx context.Context, inputs []schema.Input) (int, error) {
	destinations := make([]domain.Destination, 0, len(inputs))
	for i, in := range inputs {
		rec, err := schema.Validate(schema.Destination, in)
		if err != nil {
			return 0, fmt.Errorf("destination %d: %w", i, err)
		}
		destinations = append(destinations, schema.ToDestination(rec))
	}

	created := 0
	for _, d := range destinations {
		if _, err := s.destinations.Create(ctx, d); err != nil {
			return created, fmt.Errorf("seed %s: %w", d.Name, err)
		}
		created++
	}
	return created, nil
}
