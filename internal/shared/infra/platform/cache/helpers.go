package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const asyncTimeout = 200 * time.Millisecond

// AsyncCacheSet actualiza la caché en background sin bloquear la petición.
// Usa un contexto propio: la escritura debe completarse aunque la petición se cancele.
func AsyncCacheSet(_ context.Context, cache Cache, key string, value any, ttlSecs int, log *zap.Logger) {
	if cache == nil {
		return
	}

	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()

		if err := cache.Set(cacheCtx, key, value, ttlSecs); err != nil {
			log.Warn("Cache update failed", zap.String("key", key), zap.Error(err))
		}
	}()
}

// AsyncCacheDeletePrefix invalida en background todas las claves de cada prefijo.
func AsyncCacheDeletePrefix(_ context.Context, cache Cache, prefixes []string, log *zap.Logger) {
	if cache == nil || len(prefixes) == 0 {
		return
	}

	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()

		for _, prefix := range prefixes {
			if err := cache.DeleteByPrefix(cacheCtx, prefix); err != nil {
				log.Warn("Cache prefix deletion failed", zap.String("prefix", prefix), zap.Error(err))
			}
		}
	}()
}

// AsyncCacheDelete invalida una clave en background.
func AsyncCacheDelete(_ context.Context, cache Cache, key string, log *zap.Logger) {
	if cache == nil {
		return
	}

	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()

		if err := cache.Delete(cacheCtx, key); err != nil {
			log.Warn("Cache deletion failed", zap.String("key", key), zap.Error(err))
		}
	}()
}
