// Package memory implementa los repositorios de inventario en memoria, para desarrollo local y tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	appinventory "github.com/jhoicas/pos-inventory/internal/application/inventory"
	"github.com/jhoicas/pos-inventory/internal/domain/entity"
)

var _ appinventory.TxRunner = (*Store)(nil)

// state contenido completo de la base en memoria. Una transacción trabaja sobre un clon.
type state struct {
	products       map[string]entity.Product
	productsByCode map[string]string
	inventories    map[string]entity.Inventory
	movements      []entity.StockMovement
	adjustments    []entity.InventoryAdjustment
	journalSeq     map[string]int

	nextInventoryID  int64
	nextMovementID   int64
	nextAdjustmentID int64
}

func newState() *state {
	return &state{
		products:       make(map[string]entity.Product),
		productsByCode: make(map[string]string),
		inventories:    make(map[string]entity.Inventory),
		journalSeq:     make(map[string]int),
	}
}

func (s *state) clone() *state {
	return &state{
		products:         maps.Clone(s.products),
		productsByCode:   maps.Clone(s.productsByCode),
		inventories:      maps.Clone(s.inventories),
		movements:        slices.Clone(s.movements),
		adjustments:      slices.Clone(s.adjustments),
		journalSeq:       maps.Clone(s.journalSeq),
		nextInventoryID:  s.nextInventoryID,
		nextMovementID:   s.nextMovementID,
		nextAdjustmentID: s.nextAdjustmentID,
	}
}

// Store base en memoria. Las transacciones son serializables: Run toma el mutex durante toda la tx,
// trabaja sobre un clon del estado y lo publica solo si fn no devuelve error.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState(), now: time.Now}
}

// WithClock reemplaza el reloj usado para timestamps de creación de productos.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Repos repositorios fuera de transacción (cada llamada toma el mutex).
func (s *Store) Repos() appinventory.Repos {
	return s.reposFor(&db{store: s})
}

func (s *Store) reposFor(d *db) appinventory.Repos {
	return appinventory.Repos{
		Movements:   &StockMovementRepository{db: d},
		Inventories: &InventoryRepository{db: d},
		Adjustments: &InventoryAdjustmentRepository{db: d},
		Products:    &ProductRepository{db: d},
	}
}

// Run ejecuta fn dentro de una transacción en memoria.
func (s *Store) Run(ctx context.Context, fn func(repos appinventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.st.clone()
	if err := fn(s.reposFor(&db{store: s, tx: tx})); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// Reset vacía el store.
func (s *Store) Reset() {
	s.mu.Lock()
	s.st = newState()
	s.mu.Unlock()
}

// db acceso al estado: el clon de la transacción o el estado publicado bajo el mutex.
type db struct {
	store *Store
	tx    *state
}

func (d *db) with(fn func(st *state) error) error {
	if d.tx != nil {
		return fn(d.tx)
	}
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	return fn(d.store.st)
}
