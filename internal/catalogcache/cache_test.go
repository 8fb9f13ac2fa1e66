package catalogcache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pressline/counter-api/internal/catalogcache"
	"github.com/pressline/counter-api/internal/gateway"
	"github.com/shopspring/decimal"
)

type mockLister struct {
	calls    int
	services []gateway.Service
	err      error
}

func (m *mockLister) ListServices(context.Context, string) ([]gateway.Service, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.services, nil
}

type mapCache struct {
	data   map[string]string
	getErr error
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string]string)}
}

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.data[key], nil
}

func (c *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func sampleServices() []gateway.Service {
	return []gateway.Service{
		{ID: uuid.New(), Name: "Wash & Fold", BasePrice: decimal.RequireFromString("5.00"), PricingModel: "PER_KG"},
		{ID: uuid.New(), Name: "Dry Clean Suit", BasePrice: decimal.RequireFromString("15.00"), PricingModel: "PER_ITEM"},
	}
}

func TestListServicesPopulatesAndServesFromCache(t *testing.T) {
	source := &mockLister{services: sampleServices()}
	cache := newMapCache()
	catalog := catalogcache.New(source, cache, time.Minute)

	first, err := catalog.ListServices(context.Background(), "tok")
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("source calls = %d, want 1", source.calls)
	}

	second, err := catalog.ListServices(context.Background(), "tok")
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if source.calls != 1 {
		t.Errorf("source calls = %d, want 1 (second read must hit the cache)", source.calls)
	}
	if len(second) != len(first) || second[0].Name != first[0].Name {
		t.Errorf("cached catalog differs from source")
	}
	if !second[0].BasePrice.Equal(first[0].BasePrice) {
		t.Errorf("cached price = %s, want %s", second[0].BasePrice, first[0].BasePrice)
	}
}

func TestListServicesFallsThroughOnCacheError(t *testing.T) {
	source := &mockLister{services: sampleServices()}
	cache := newMapCache()
	cache.getErr = errors.New("redis down")
	catalog := catalogcache.New(source, cache, time.Minute)

	services, err := catalog.ListServices(context.Background(), "tok")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(services) != 2 {
		t.Errorf("services = %d, want 2", len(services))
	}
	if source.calls != 1 {
		t.Errorf("source calls = %d, want 1", source.calls)
	}
}

func TestListServicesNilCacheGoesStraightToSource(t *testing.T) {
	source := &mockLister{services: sampleServices()}
	catalog := catalogcache.New(source, nil, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := catalog.ListServices(context.Background(), "tok"); err != nil {
			t.Fatalf("list %d: %v", i, err)
		}
	}
	if source.calls != 3 {
		t.Errorf("source calls = %d, want 3 without cache", source.calls)
	}
}

func TestListServicesSourceErrorPropagates(t *testing.T) {
	wantErr := errors.New("backend unavailable")
	source := &mockLister{err: wantErr}
	catalog := catalogcache.New(source, newMapCache(), time.Minute)

	if _, err := catalog.ListServices(context.Background(), "tok"); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want source error", err)
	}
}
