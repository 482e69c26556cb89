package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/puckline/matchup/models"
)

// Entries older than expiry are dropped by the janitor regardless of the
// max age a caller asks for.
const (
	expiry          = time.Hour
	cleanupInterval = 5 * time.Minute
)

// entry holds a cached response with its creation timestamp.
type entry struct {
	response  *models.ReconcileResponse
	createdAt time.Time
}

// Cache is an in-memory cache for reconcile responses.
// It is safe for concurrent use.
type Cache struct {
	store      *gocache.Cache
	maxEntries int
}

// New creates a new Cache with the given maximum number of entries.
// A janitor runs every 5 minutes to evict entries older than 1 hour.
func New(maxEntries int) *Cache {
	return &Cache{
		store:      gocache.New(expiry, cleanupInterval),
		maxEntries: maxEntries,
	}
}

// Key generates a cache key from the reconcile inputs. Inputs that differ
// only in order produce different keys, since order is part of the output.
func Key(defense []models.DefenseRecord, props []models.PropRecord) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	// Encoding plain structs of strings and floats cannot fail.
	_ = enc.Encode(defense)
	h.Write([]byte("|"))
	_ = enc.Encode(props)
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached response if it exists and is younger than maxAge.
// maxAge is in milliseconds. If maxAge <= 0, no cache lookup is performed.
// Returns the response and whether it was a cache hit.
func (c *Cache) Get(key string, maxAgeMs int) (*models.ReconcileResponse, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}

	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	e := v.(*entry)

	maxAge := time.Duration(maxAgeMs) * time.Millisecond
	if time.Since(e.createdAt) > maxAge {
		return nil, false
	}

	return e.response, true
}

// Set stores a response in the cache. If the cache is at capacity,
// an arbitrary entry is evicted to make room.
func (c *Cache) Set(key string, resp *models.ReconcileResponse) {
	if c.maxEntries > 0 && c.store.ItemCount() >= c.maxEntries {
		// Map iteration order is random.
		for k := range c.store.Items() {
			c.store.Delete(k)
			break
		}
	}

	c.store.SetDefault(key, &entry{
		response:  resp,
		createdAt: time.Now(),
	})
}

// Len returns the number of entries, including expired ones not yet
// cleaned up.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}
