package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	gocache "github.com/patrickmn/go-cache"

	"quizGo/config"
)

// Cache memoizes serialized dashboard query results between refreshes.
type Cache struct {
	c *gocache.Cache
}

// New creates a cache with the configured expiration.
func New() *Cache {
	return &Cache{c: gocache.New(config.CacheExpiration, config.CacheCleanupInterval)}
}

// Key digests the query parameters, including search and filter, into a cache
// key.
func Key(page, limit int, search, filter string) string {
	rawKey := fmt.Sprintf("page:%d-limit:%d-search:%s-filter:%s", page, limit, search, filter)
	hash := md5.Sum([]byte(rawKey))
	return hex.EncodeToString(hash[:])
}

// FetchOrExecute returns the cached payload for key, or executes queryFunc and
// caches its result. The bool reports a cache hit.
func (c *Cache) FetchOrExecute(key string, queryFunc func() ([]byte, error)) ([]byte, bool, error) {
	if cached, found := c.c.Get(key); found {
		return cached.([]byte), true, nil
	}

	result, err := queryFunc()
	if err != nil {
		return nil, false, err
	}

	c.c.Set(key, result, config.CacheExpiration)
	return result, false, nil
}

// Flush drops every cached entry. Called whenever the underlying collections
// are re-read.
func (c *Cache) Flush() {
	c.c.Flush()
}
