package rdx

import (
	"os"
	"time"

	"threadmart/globals"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

const (
	ProductListKey  = "cache:products"
	BrandsKey       = "facets:brands"
	SubCategoryKey  = "facets:subcategories"
	CatalogChannel  = "catalog-events"
	productCacheTTL = 60 * time.Second
)

// Init creates the Redis client. The connection is dialed lazily, so this is
// safe to call even when Redis is optional in development.
func Init() {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
}

// --- Cache helpers ---

func CacheGet(key string) (string, error) {
	return Conn.Get(globals.Ctx, key).Result()
}

func CacheSet(key, value string) error {
	return Conn.Set(globals.Ctx, key, value, productCacheTTL).Err()
}

func CacheDel(keys ...string) error {
	return Conn.Del(globals.Ctx, keys...).Err()
}

// --- Facet sets ---

func FacetAdd(key string, members ...interface{}) error {
	return Conn.SAdd(globals.Ctx, key, members...).Err()
}

func FacetMembers(key string) ([]string, error) {
	return Conn.SMembers(globals.Ctx, key).Result()
}

func FacetReset(key string) error {
	return Conn.Del(globals.Ctx, key).Err()
}

// --- Pub/sub ---

func Publish(channel string, payload []byte) error {
	return Conn.Publish(globals.Ctx, channel, payload).Err()
}

func Subscribe(channel string) *redis.PubSub {
	return Conn.Subscribe(globals.Ctx, channel)
}
