package cache

import (
	"context"
	"errors"
)

// ErrNotPointer se devuelve cuando el destino de Get no es un puntero.
var ErrNotPointer = errors.New("cache: dest must be a pointer")

// Cache es una caché clave-valor con serialización JSON.
type Cache interface {
	// Get rellena dest si hay hit. (false, nil) indica miss.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set guarda val con un TTL en segundos. ttlSecs <= 0 usa el TTL por defecto.
	Set(ctx context.Context, key string, val any, ttlSecs int) error

	Delete(ctx context.Context, key string) error

	// DeleteByPrefix invalida de una vez todas las claves de un grupo (páginas de un listado).
	DeleteByPrefix(ctx context.Context, prefix string) error
}
