package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/haroldnikoue/storefront-backend/pkg/logger"
	"github.com/haroldnikoue/storefront-backend/pkg/redis"
)

// viewCache is the surface the cart service needs from redis. Keys embed the
// cart's updated_at, so mutations invalidate implicitly: a bumped timestamp
// produces a fresh key and the stale entry expires on its own.
type viewCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartViewKey(cartID string, updatedAt time.Time) string
}

// cachedView reads a cached cart view. All failures degrade to a miss.
func cachedView(ctx context.Context, cache viewCache, logg *logger.Logger, key string) *CartView {
	if cache == nil {
		return nil
	}
	raw, err := cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) && logg != nil {
			logg.Warn(ctx, "cart view cache read failed")
		}
		return nil
	}
	var view CartView
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		if logg != nil {
			logg.Warn(ctx, "cart view cache entry corrupt")
		}
		return nil
	}
	return &view
}

// storeView writes a cart view to the cache, best-effort.
func storeView(ctx context.Context, cache viewCache, logg *logger.Logger, key string, view *CartView, ttl time.Duration) {
	if cache == nil || view == nil {
		return
	}
	payload, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := cache.Set(ctx, key, string(payload), ttl); err != nil && logg != nil {
		logg.Warn(ctx, "cart view cache write failed")
	}
}
