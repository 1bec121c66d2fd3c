package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/pos-inventory/internal/domain"
)

// LocalLocker bloqueo en proceso, usado cuando no hay Redis configurado.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewLocalLocker construye el locker en memoria.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]bool)}
}

// Obtain no espera: si la clave está tomada devuelve domain.ErrLockNotObtained.
func (l *LocalLocker) Obtain(_ context.Context, key string, _ time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, domain.ErrLockNotObtained
	}
	l.held[key] = true
	return func(context.Context) error {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
		return nil
	}, nil
}
