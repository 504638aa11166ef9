package mocks

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	sharedCache "github.com/davicafu/agrofarm/internal/shared/infra/platform/cache"
)

// DummyCache es una caché en memoria sin TTL que además cuenta los borrados.
type DummyCache struct {
	mu            sync.RWMutex
	store         map[string][]byte
	deletes       map[string]int
	prefixDeletes map[string]int
}

var _ sharedCache.Cache = (*DummyCache)(nil)

func NewDummyCache() *DummyCache {
	return &DummyCache{store: map[string][]byte{}, deletes: map[string]int{}, prefixDeletes: map[string]int{}}
}

func (c *DummyCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *DummyCache) Set(_ context.Context, key string, val any, _ int) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = data
	return nil
}

func (c *DummyCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.deletes[key]++
	return nil
}

func (c *DummyCache) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.store {
		if strings.HasPrefix(k, prefix) {
			delete(c.store, k)
		}
	}
	c.prefixDeletes[prefix]++
	return nil
}

func (c *DummyCache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.store[key]
	return ok
}

func (c *DummyCache) Deletes(key string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deletes[key]
}

func (c *DummyCache) PrefixDeletes(prefix string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prefixDeletes[prefix]
}
