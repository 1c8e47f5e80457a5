// Package cache stores canonical extraction records in Redis keyed by a
// hash of the uploaded document, so re-uploads of the same file skip parsing.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/muhammadolammi/resumematch/internal/resume"
)

const (
	DefaultTTL    = 24 * time.Hour
	DefaultPrefix = "resumematch:extraction:"
)

// Client is the subset of *redis.Client the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Redis is a read-through cache of canonical records. Every failure is
// treated as a miss: the cache never blocks extraction.
type Redis struct {
	Client Client
	TTL    time.Duration
	Prefix string
	Log    *slog.Logger
}

// NewRedis connects to addr. An empty addr returns nil, which disables caching.
func NewRedis(addr, password string, ttl time.Duration, log *slog.Logger) *Redis {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	return &Redis{Client: client, TTL: ttl, Prefix: DefaultPrefix, Log: log}
}

// Key derives the cache key for a document. The MIME type and filename take
// part because they influence format detection and degraded record names.
func Key(doc *resume.RawDocument) string {
	h := sha256.New()
	h.Write(doc.Bytes)
	h.Write([]byte{0})
	h.Write([]byte(doc.DeclaredMimeType))
	h.Write([]byte{0})
	h.Write([]byte(doc.FileName))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached record for key. A nil receiver always misses.
func (r *Redis) Get(ctx context.Context, key string) (resume.CanonicalResumeExtraction, bool) {
	var out resume.CanonicalResumeExtraction
	if r == nil || r.Client == nil {
		return out, false
	}
	data, err := r.Client.Get(ctx, r.prefix()+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger().Warn("cache get failed", "key", key, "error", err)
		}
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		r.logger().Warn("cache entry unreadable", "key", key, "error", err)
		return resume.CanonicalResumeExtraction{}, false
	}
	return out, true
}

// Set stores rec under key. Degraded records are stored too, except
// transient ones such as decode timeouts.
func (r *Redis) Set(ctx context.Context, key string, rec resume.CanonicalResumeExtraction) {
	if r == nil || r.Client == nil {
		return
	}
	if rec.Transient {
		r.logger().Debug("transient record not cached", "key", key, "error", rec.ParseError)
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		r.logger().Warn("cache encode failed", "key", key, "error", err)
		return
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := r.Client.Set(ctx, r.prefix()+key, data, ttl).Err(); err != nil {
		r.logger().Warn("cache set failed", "key", key, "error", err)
	}
}

func (r *Redis) prefix() string {
	if r.Prefix == "" {
		return DefaultPrefix
	}
	return r.Prefix
}

func (r *Redis) logger() *slog.Logger {
	if r.Log == nil {
		return slog.Default()
	}
	return r.Log
}
