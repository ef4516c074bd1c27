package cache

import (
	"sync"
	"time"
)

// entry es un valor cacheado con su vencimiento.
type entry struct {
	value      interface{}
	expiration int64
}

// Cache es un caché en memoria con expiración por entrada. El dashboard lo
// usa para no recalcular las métricas en cada refresh del navegador; un
// TTL corto mantiene los datos razonablemente frescos.
type Cache struct {
	entries map[string]entry
	mu      sync.RWMutex
}

func New() *Cache {
	c := &Cache{
		entries: make(map[string]entry),
	}

	// Limpieza periódica de entradas vencidas
	go func() {
		for {
			time.Sleep(time.Minute)
			c.DeleteExpired()
		}
	}()

	return c
}

// Set guarda un valor con la duración indicada.
func (c *Cache) Set(key string, value interface{}, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:      value,
		expiration: time.Now().Add(duration).UnixNano(),
	}
}

// Get regresa el valor y si se encontró vigente.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, found := c.entries[key]
	if !found || time.Now().UnixNano() > e.expiration {
		return nil, false
	}
	return e.value, true
}

// Remember regresa el valor cacheado o calcula, guarda y regresa uno nuevo.
func (c *Cache) Remember(key string, duration time.Duration, compute func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	value, err := compute()
	if err != nil {
		return nil, err
	}
	c.Set(key, value, duration)
	return value, nil
}

// Delete elimina una entrada.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// DeleteExpired elimina todas las entradas vencidas.
func (c *Cache) DeleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for k, e := range c.entries {
		if now > e.expiration {
			delete(c.entries, k)
		}
	}
}

// Clear vacía el caché completo.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}
