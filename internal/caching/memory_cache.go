package caching

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultExpiration is used when a caller passes a zero ttl
const DefaultExpiration = 30 * time.Minute

// DefaultCleanupInterval is how often expired items are removed from the cache
const DefaultCleanupInterval = 10 * time.Minute

type memoryCacheService struct {
	cache *cache.Cache
}

// NewMemoryCacheService keeps pages and sessions in process. Single instance deployments only.
func NewMemoryCacheService() CacheService {
	return &memoryCacheService{cache: cache.New(DefaultExpiration, DefaultCleanupInterval)}
}

func (m *memoryCacheService) PageVersion(_ context.Context, path string) (int64, error) {
	v, ok := m.cache.Get(pageVersionKey(path))
	if !ok {
		return 0, nil
	}
	return v.(int64), nil
}

func (m *memoryCacheService) GetPage(_ context.Context, path string, version int64, variant string) ([]byte, error) {
	v, ok := m.cache.Get(PageKey(path, version, variant))
	if !ok {
		return nil, nil
	}
	return v.([]byte), nil
}

func (m *memoryCacheService) SetPage(_ context.Context, path string, version int64, variant string, body []byte, ttl time.Duration) error {
	m.cache.Set(PageKey(path, version, variant), body, ttl)
	return nil
}

func (m *memoryCacheService) RevalidatePath(_ context.Context, path string) error {
	versionKey := pageVersionKey(path)
	// Add is a no-op once the counter exists
	_ = m.cache.Add(versionKey, int64(0), cache.NoExpiration)
	if err := m.cache.Increment(versionKey, 1); err != nil {
		return err
	}

	prefix := pagePrefix(path)
	for k := range m.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			m.cache.Delete(k)
		}
	}
	return nil
}

func (m *memoryCacheService) SetSession(_ context.Context, sessionID, userID string, ttl time.Duration) error {
	m.cache.Set(sessionKey(sessionID), userID, ttl)
	return nil
}

func (m *memoryCacheService) GetSession(_ context.Context, sessionID string) (string, error) {
	v, ok := m.cache.Get(sessionKey(sessionID))
	if !ok {
		return "", nil
	}
	return v.(string), nil
}

func (m *memoryCacheService) DeleteSession(_ context.Context, sessionID string) error {
	m.cache.Delete(sessionKey(sessionID))
	return nil
}

func (m *memoryCacheService) Ping(_ context.Context) error {
	return nil
}
