package caching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoicedash/internal/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "invoicedash"

type CacheService interface {
	// PageVersion is the current version of path. Read it before loading the data a page is
	// rendered from and pass it to GetPage and SetPage, so a rendering that raced a
	// revalidation is stored under a version nobody reads again.
	PageVersion(ctx context.Context, path string) (int64, error)

	// Rendered page caching. variant distinguishes renderings of one path (query string).
	GetPage(ctx context.Context, path string, version int64, variant string) ([]byte, error)
	SetPage(ctx context.Context, path string, version int64, variant string, body []byte, ttl time.Duration) error

	// RevalidatePath bumps the version of path and drops every cached rendering of it
	RevalidatePath(ctx context.Context, path string) error

	// Session management
	SetSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error

	Ping(ctx context.Context) error
}

// PageKey is the cache key of one rendering of path at version
func PageKey(path string, version int64, variant string) string {
	if variant == "" {
		return fmt.Sprintf("%s%d", pagePrefix(path), version)
	}
	return fmt.Sprintf("%s%d|%s", pagePrefix(path), version, variant)
}

// pagePrefix is shared by every rendering of path, whatever its version or variant
func pagePrefix(path string) string {
	return fmt.Sprintf("%s:page:%s#", keyPrefix, path)
}

func pageVersionKey(path string) string {
	return fmt.Sprintf("%s:pagever:%s", keyPrefix, path)
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, sessionID)
}

type redisCacheService struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisCacheService connects to redis at addr, which may be host:port or a redis:// URL
func NewRedisCacheService(addr, password string, db int, log *logger.Logger) (CacheService, error) {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if parsed.Password == "" {
			parsed.Password = password
		}
		opts = parsed
	}

	client := redis.NewClient(opts)

	// Test initial connectivity
	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warnw("redis ping failed on initialization", "addr", opts.Addr, "error", pingErr)
	} else {
		log.Debugw("redis connection established", "addr", opts.Addr)
	}

	return &redisCacheService{client: client, log: log}, nil
}

func (r *redisCacheService) PageVersion(ctx context.Context, path string) (int64, error) {
	version, err := r.client.Get(ctx, pageVersionKey(path)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil // never revalidated
		}
		return 0, err
	}
	return version, nil
}

func (r *redisCacheService) GetPage(ctx context.Context, path string, version int64, variant string) ([]byte, error) {
	data, err := r.client.Get(ctx, PageKey(path, version, variant)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}
	return data, nil
}

func (r *redisCacheService) SetPage(ctx context.Context, path string, version int64, variant string, body []byte, ttl time.Duration) error {
	return r.client.Set(ctx, PageKey(path, version, variant), body, ttl).Err()
}

func (r *redisCacheService) RevalidatePath(ctx context.Context, path string) error {
	version, err := r.client.Incr(ctx, pageVersionKey(path)).Result()
	if err != nil {
		return err
	}

	var keys []string
	iter := r.client.Scan(ctx, 0, escapeGlob(pagePrefix(path))+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	r.log.Debugw("revalidated path", "path", path, "version", version, "keys", len(keys))
	return nil
}

func (r *redisCacheService) SetSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, sessionKey(sessionID), userID, ttl).Err()
}

func (r *redisCacheService) GetSession(ctx context.Context, sessionID string) (string, error) {
	val, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil // not found
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) DeleteSession(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKey(sessionID)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// escapeGlob escapes redis glob metacharacters so a path matches literally
func escapeGlob(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
