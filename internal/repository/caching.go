package repository

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"auditflow/backend/pkg/models"
)

// CachingClientStore keeps recently read clients in memory. Clients are
// never updated once created, so entries only leave on expiry or capacity.
type CachingClientStore struct {
	ClientStore
	cache *ttlcache.Cache[string, models.Client]
}

// NewCachingClientStore wraps store with a TTL cache of up to capacity clients.
func NewCachingClientStore(store ClientStore, ttl time.Duration, capacity uint64) *CachingClientStore {
	c := ttlcache.New(
		ttlcache.WithTTL[string, models.Client](ttl),
		ttlcache.WithCapacity[string, models.Client](capacity),
	)
	return &CachingClientStore{ClientStore: store, cache: c}
}

// GetClient serves from the cache and falls back to the wrapped store.
func (s *CachingClientStore) GetClient(ctx context.Context, id string) (*models.Client, error) {
	if item := s.cache.Get(id); item != nil {
		c := item.Value()
		return &c, nil
	}

	c, err := s.ClientStore.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(id, *c, ttlcache.DefaultTTL)
	return c, nil
}

// CreateClient stores the client and primes the cache with it.
func (s *CachingClientStore) CreateClient(ctx context.Context, client *models.Client) error {
	if err := s.ClientStore.CreateClient(ctx, client); err != nil {
		return err
	}
	s.cache.Set(client.ID, *client, ttlcache.DefaultTTL)
	return nil
}

// StartEviction runs expired-entry cleanup until ctx is done.
func (s *CachingClientStore) StartEviction(ctx context.Context) {
	go s.cache.Start()

	<-ctx.Done()

	s.cache.Stop()
}

// Len returns the number of cached clients.
func (s *CachingClientStore) Len() int {
	return s.cache.Len()
}
