package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atvirokodosprendimai/travelapi/internal/core/domain"
	"github.com/atvirokodosprendimai/travelapi/internal/core/schema"
)

// memGateway is an in-memory DocumentGateway. Documents go through a JSON
// round trip so tests see what a real store would return.
type memGateway struct {
	docs     map[string][]domain.Document
	createFn func(ctx context.Context, collection string, doc domain.Document) (string, error)
	listFn   func(ctx context.Context, limit int) ([]string, error)
	creates  int
}

func newMemGateway() *memGateway {
	return &memGateway{docs: make(map[string][]domain.Document)}
}

func (g *memGateway) CreateDocument(ctx context.Context, collection string, doc domain.Document) (string, error) {
	g.creates++
	if g.createFn != nil {
		return g.createFn(ctx, collection, doc)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	var stored domain.Document
	if err := json.Unmarshal(data, &stored); err != nil {
		return "", err
	}
	g.docs[collection] = append(g.docs[collection], stored)
	return collection + "-" + strconv.Itoa(len(g.docs[collection])), nil
}

func (g *memGateway) GetDocuments(_ context.Context, collection string, filter domain.Filter, limit int) ([]domain.Document, error) {
	out := make([]domain.Document, 0)
	for _, doc := range g.docs[collection] {
		if len(out) >= limit {
			break
		}
		match := true
		for field, want := range filter {
			if doc.String(field) != want {
				match = false
			}
		}
		if match {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (g *memGateway) ListCollections(ctx context.Context, limit int) ([]string, error) {
	if g.listFn != nil {
		return g.listFn(ctx, limit)
	}
	names := make([]string, 0, len(g.docs))
	for name := range g.docs {
		names = append(names, name)
	}
	return names, nil
}

func newTestService(t *testing.T, gw *memGateway) *TravelService {
	t.Helper()
	catalog, err := schema.NewCatalog()
	require.NoError(t, err)
	return NewTravelService(gw, catalog)
}

func input(t *testing.T, raw string) schema.Input {
	t.Helper()
	var in schema.Input
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	return in
}

func TestCreateItineraryRoundTripKeepsItemOrder(t *testing.T) {
	gw := newMemGateway()
	svc := newTestService(t, gw)
	ctx := context.Background()

	_, err := svc.CreateItinerary(ctx, input(t, `{
		"name": "Barcelona",
		"owner_email": "ana@example.com",
		"items": [
			{"type": "flight", "title": "LIS-BCN", "date": "2025-08-01", "time": "08:30"},
			{"type": "hotel", "title": "Hotel Arts", "notes": "late check-in"}
		]
	}`))
	require.NoError(t, err)
	_, err = svc.CreateItinerary(ctx, input(t, `{"name":"Other","owner_email":"bob@example.com"}`))
	require.NoError(t, err)

	got, err := svc.ListItineraries(ctx, "ana@example.com", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)

	items := got[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, domain.ItemFlight, items[0].Type)
	assert.Equal(t, "LIS-BCN", items[0].Title)
	require.NotNil(t, items[0].Date)
	assert.Equal(t, "2025-08-01", items[0].Date.String())
	require.NotNil(t, items[0].Time)
	assert.Equal(t, "08:30", *items[0].Time)
	assert.Equal(t, domain.ItemHotel, items[1].Type)
	require.NotNil(t, items[1].Notes)
	assert.Equal(t, "late check-in", *items[1].Notes)
	assert.Nil(t, items[1].Date)
}

func TestCreateItineraryWithoutItemsStoresEmptySequence(t *testing.T) {
	gw := newMemGateway()
	svc := newTestService(t, gw)

	_, err := svc.CreateItinerary(context.Background(), input(t, `{"name":"Trip","owner_email":"ana@example.com"}`))
	require.NoError(t, err)

	stored := gw.docs["itinerary"]
	require.Len(t, stored, 1)
	items, ok := stored[0]["items"].([]any)
	require.True(t, ok)
	assert.Empty(t, items)
}

func TestValidationFailureNeverReachesStore(t *testing.T) {
	gw := newMemGateway()
	svc := newTestService(t, gw)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, input(t, `{"email":"not-an-email"}`))
	var ve *schema.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, schema.InvalidFormat, ve.Kind)

	_, err = svc.Contact(ctx, input(t, `{"name":"Ana","email":"a@b.co"}`))
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, schema.MissingField, ve.Kind)
	assert.Equal(t, "message", ve.Field)

	_, err = svc.CreateItinerary(ctx, input(t, `{"name":"T","owner_email":"a@b.co","items":[{"type":"bus","title":"x"}]}`))
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "items[0].type", ve.Field)

	assert.Zero(t, gw.creates)
}

func TestSubscribeAndContactWriteToEntityCollections(t *testing.T) {
	gw := newMemGateway()
	svc := newTestService(t, gw)
	ctx := context.Background()

	id, err := svc.Subscribe(ctx, input(t, `{"email":"a@b.co"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	_, err = svc.Subscribe(ctx, input(t, `{"email":"a@b.co"}`))
	require.NoError(t, err)

	_, err = svc.Contact(ctx, input(t, `{"name":"Ana","email":"a@b.co","message":"Hello"}`))
	require.NoError(t, err)

	assert.Len(t, gw.docs["subscriber"], 2)
	require.Len(t, gw.docs["message"], 1)
	assert.Equal(t, "Hello", gw.docs["message"][0].String("message"))
}

func TestStoreWriteErrorPropagates(t *testing.T) {
	gw := newMemGateway()
	gw.createFn = func(context.Context, string, domain.Document) (string, error) {
		return "", domain.NewStoreWriteError(errors.New("disk I/O error"))
	}
	svc := newTestService(t, gw)

	_, err := svc.Subscribe(context.Background(), input(t, `{"email":"a@b.co"}`))
	var we *domain.StoreWriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, "disk I/O error", we.Detail)
}

func TestListDestinationsToleratesPartialDocuments(t *testing.T) {
	gw := newMemGateway()
	gw.docs["destination"] = []domain.Document{
		{"name": "Lisbon", "country": "Portugal", "image": "https://img.example/lisbon.jpg"},
		{"name": "Kyoto"},
		{"country": 12, "tagline": "Old capital"},
	}
	svc := newTestService(t, gw)

	got, err := svc.ListDestinations(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Lisbon", got[0].Name)
	assert.Nil(t, got[0].Tagline)
	require.NotNil(t, got[0].Image)
	assert.Equal(t, "", got[1].Country)
	assert.Equal(t, "", got[2].Name)
	assert.Equal(t, "", got[2].Country)
	require.NotNil(t, got[2].Tagline)
}

func TestListDestinationsAppliesDefaultAndMaxLimit(t *testing.T) {
	gw := newMemGateway()
	for i := 0; i < 15; i++ {
		gw.docs["destination"] = append(gw.docs["destination"], domain.Document{"name": strconv.Itoa(i), "country": "X"})
	}
	svc := newTestService(t, gw)

	got, err := svc.ListDestinations(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultDestinationLimit)

	got, err = svc.ListDestinations(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	assert.Equal(t, MaxLimit, clampLimit(5000, DefaultDestinationLimit))
}

func TestSeedDestinationsValidatesBeforeWriting(t *testing.T) {
	gw := newMemGateway()
	svc := newTestService(t, gw)

	_, err := svc.SeedDestinations(context.Background(), []schema.Input{
		{"name": "Lisbon", "country": "Portugal"},
		{"name": "Nowhere"},
	})
	var ve *schema.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "country", ve.Field)
	assert.Zero(t, gw.creates)

	n, err := svc.SeedDestinations(context.Background(), []schema.Input{
		{"name": "Lisbon", "country": "Portugal", "tagline": "City of seven hills"},
		{"name": "Kyoto", "country": "Japan"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, gw.docs["destination"], 2)
}
