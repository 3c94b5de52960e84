package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys
const (
	rosterKeyFmt        = "roster:office:%d"
	distributionsKeyFmt = "distributions:office:%d" // office 0 = unfiltered list

	rosterTTL        = 2 * time.Minute
	distributionsTTL = 1 * time.Minute
)

var client *redis.Client

// Init initializes the Redis connection. The cache is optional: when Redis
// is unreachable every helper degrades to a miss.
func Init() error {
	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis" // fallback to service name
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client (nil when the cache is down)
func GetClient() *redis.Client {
	return client
}

// hashCredentials creates a hash of email+password for cache key
func hashCredentials(email, password string) string {
	h := sha256.New()
	h.Write([]byte(email + ":" + password))
	return "auth:" + hex.EncodeToString(h.Sum(nil))[:32]
}

// GetCachedAuth checks if credentials are cached and valid
func GetCachedAuth(ctx context.Context, email, password string) (int64, bool) {
	if client == nil {
		return 0, false
	}
	key := hashCredentials(email, password)
	employeeID, err := client.Get(ctx, key).Int64()
	if err != nil {
		return 0, false
	}
	return employeeID, true
}

// CacheAuth caches valid credentials for 15 minutes
func CacheAuth(ctx context.Context, email, password string, employeeID int64) {
	if client == nil {
		return
	}
	key := hashCredentials(email, password)
	client.Set(ctx, key, employeeID, 15*time.Minute)
}

// GetCachedRoster returns the cached roster JSON for an office if available
func GetCachedRoster(ctx context.Context, officeID int) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, fmt.Sprintf(rosterKeyFmt, officeID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheRoster caches an office roster. Rosters change rarely but eligibility
// is always recomputed from a fresh read inside the claim path, so a short
// TTL here only affects listing endpoints.
func CacheRoster(ctx context.Context, officeID int, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(rosterKeyFmt, officeID), data, rosterTTL)
}

// InvalidateRoster drops the cached roster for an office (on employee writes)
func InvalidateRoster(ctx context.Context, officeID int) {
	if client == nil {
		return
	}
	client.Del(ctx, fmt.Sprintf(rosterKeyFmt, officeID))
}

// GetCachedDistributions returns the cached distribution list for an office
func GetCachedDistributions(ctx context.Context, officeID int) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, fmt.Sprintf(distributionsKeyFmt, officeID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheDistributions caches a distribution listing for an office
func CacheDistributions(ctx context.Context, officeID int, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(distributionsKeyFmt, officeID), data, distributionsTTL)
}

// InvalidateDistributions drops cached distribution listings for an office
// and the unfiltered listing. Called after create/delete/claim/unclaim since
// the count fields are part of the listing payload.
func InvalidateDistributions(ctx context.Context, officeID int) {
	if client == nil {
		return
	}
	client.Del(ctx,
		fmt.Sprintf(distributionsKeyFmt, officeID),
		fmt.Sprintf(distributionsKeyFmt, 0),
	)
}
