package cache

import (
	"sync"
	"time"

	"estatehub/internal/structs"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/fx"
)

var (
	Module = fx.Provide(New)

	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

const defaultTTL = 10 * time.Minute

type (
	// ICache is an in-process object cache. Values are stored serialized so
	// callers never share memory with the cache.
	ICache interface {
		SaveObj(key string, value any) error
		GetObj(key string, value any) error
		Delete(key string)
	}

	entry struct {
		data    []byte
		expires time.Time
	}

	cache struct {
		ttl   time.Duration
		items map[string]entry
		now   func() time.Time
		m     sync.RWMutex
	}
)

func New() ICache {
	return NewWithTTL(defaultTTL)
}

func NewWithTTL(ttl time.Duration) ICache {
	return &cache{
		ttl:   ttl,
		items: map[string]entry{},
		now:   time.Now,
	}
}

func (c *cache) SaveObj(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.m.Lock()
	defer c.m.Unlock()

	c.items[key] = entry{data: data, expires: c.now().Add(c.ttl)}
	return nil
}

// GetObj returns structs.ErrNotFound for missing or expired keys.
func (c *cache) GetObj(key string, value any) error {
	c.m.RLock()
	e, ok := c.items[key]
	c.m.RUnlock()

	if !ok {
		return structs.ErrNotFound
	}
	if c.now().After(e.expires) {
		c.Delete(key)
		return structs.ErrNotFound
	}
	return json.Unmarshal(e.data, value)
}

func (c *cache) Delete(key string) {
	c.m.Lock()
	defer c.m.Unlock()

	delete(c.items, key)
}
