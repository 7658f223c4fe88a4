package deduplication

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"shortsmaker/config"
)

// BloomConfig configures the RedisBloom connection and filter key.
type BloomConfig struct {
	Addr       string
	Password   string
	DB         int
	Key        string
	TTL        time.Duration
	Capacity   int
	ErrorRate  float64
	NonScaling bool
}

// DefaultBloomConfig reads REDIS_ADDR, REDIS_PASS, BLOOM_KEY and
// BLOOM_TTL_SECONDS.
func DefaultBloomConfig() BloomConfig {
	cfg := BloomConfig{
		Addr:      config.GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		Password:  os.Getenv("REDIS_PASS"),
		Key:       config.GetEnvOrDefault("BLOOM_KEY", "shorts:topics:bloom"),
		TTL:       TTL,
		Capacity:  100000,
		ErrorRate: 0.001,
	}
	if t := os.Getenv("BLOOM_TTL_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			cfg.TTL = time.Duration(secs) * time.Second
		}
	}
	return cfg
}

// RedisBloom is a narrow wrapper over the RedisBloom BF commands.
type RedisBloom struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisBloom connects, verifies the server and reserves the filter when
// the key does not exist yet. A failed BF.RESERVE is not fatal: BF.ADD can
// auto-create the filter.
func NewRedisBloom(cfg BloomConfig) (*RedisBloom, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}

	exists, err := client.Exists(ctx, cfg.Key).Result()
	if err == nil && exists == 0 {
		args := []interface{}{"BF.RESERVE", cfg.Key, fmt.Sprintf("%f", cfg.ErrorRate), cfg.Capacity}
		if cfg.NonScaling {
			args = append(args, "NONSCALING")
		}
		if err := client.Do(ctx, args...).Err(); err != nil {
			log.Printf("Warning: BF.RESERVE failed for %s: %v", cfg.Key, err)
		}
	}

	return &RedisBloom{client: client, key: cfg.Key, ttl: cfg.TTL}, nil
}

// Close closes the underlying Redis client.
func (r *RedisBloom) Close() error {
	return r.client.Close()
}

// Exists runs BF.EXISTS for the hash.
func (r *RedisBloom) Exists(hash string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := r.client.Do(ctx, "BF.EXISTS", r.key, hash).Result()
	if err != nil {
		return false, err
	}
	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case string:
		return v == "1", nil
	default:
		return false, fmt.Errorf("unexpected BF.EXISTS response type %T: %v", res, res)
	}
}

// Add runs BF.ADD and refreshes the key TTL so the filter expires relative
// to the latest insertion.
func (r *RedisBloom) Add(hash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.client.Do(ctx, "BF.ADD", r.key, hash).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, r.key, r.ttl).Err()
}

// NormalizeAndHash folds a URL and title into a stable fingerprint:
// fragments and tracking params are stripped, whitespace collapsed and
// everything lowercased before hashing.
func NormalizeAndHash(rawURL, title string) string {
	combined := normalizeURL(rawURL) + "|" + normalizeTitle(title)
	sum := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(sum[:])
}

func normalizeTitle(t string) string {
	return strings.Join(strings.Fields(strings.ToLower(t)), " ")
}

func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || lk == "fbclid" || lk == "gclid" {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	return strings.TrimRight(u.String(), "/")
}
