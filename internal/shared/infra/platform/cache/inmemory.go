package cache

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryCache es la alternativa local a Redis. Guarda bytes JSON para
// comportarse igual que la caché remota.
type InMemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

var _ Cache = (*InMemoryCache)(nil)

// NewInMemoryCache arranca una goroutine que purga entradas caducadas cada sweepEvery.
func NewInMemoryCache(defaultTTL, sweepEvery time.Duration) *InMemoryCache {
	c := &InMemoryCache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        func() time.Time { return time.Now().UTC() },
		stop:       make(chan struct{}),
	}
	if sweepEvery > 0 {
		go c.sweep(sweepEvery)
	}
	return c
}

func (c *InMemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	if rv := reflect.ValueOf(dest); rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false, ErrNotPointer
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		return false, nil
	}
	if err := json.Unmarshal(e.value, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *InMemoryCache) Set(_ context.Context, key string, val any, ttlSecs int) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	ttl := c.defaultTTL
	if ttlSecs > 0 {
		ttl = time.Duration(ttlSecs) * time.Second
	}

	c.mu.Lock()
	c.entries[key] = entry{value: data, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
	return nil
}

// Len cuenta también las entradas caducadas aún no purgadas.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stop detiene la purga. Es idempotente.
func (c *InMemoryCache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *InMemoryCache) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := c.now()
			c.mu.Lock()
			for k, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}
