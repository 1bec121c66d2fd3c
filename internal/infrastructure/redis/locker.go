package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-inventory/internal/application/inventory"
	"github.com/jhoicas/pos-inventory/internal/domain"
)

var _ inventory.Locker = (*Locker)(nil)

// Locker bloqueo distribuido con redislock. Obtain no reintenta: si otra instancia tiene la clave,
// devuelve domain.ErrLockNotObtained.
type Locker struct {
	client *redislock.Client
}

// NewLocker construye el locker sobre el cliente compartido.
func NewLocker(client *goredis.Client) *Locker {
	return &Locker{client: redislock.New(client)}
}

func (l *Locker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrLockNotObtained)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener bloqueo %s: %w", key, err)
	}
	return func(ctx context.Context) error {
		// ErrLockNotHeld: el TTL venció antes de terminar la reparación.
		if err := lock.Release(ctx); err != nil {
			return fmt.Errorf("liberar bloqueo %s: %w", key, err)
		}
		return nil
	}, nil
}
