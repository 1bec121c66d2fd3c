package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-inventory/internal/domain/entity"
	"github.com/jhoicas/pos-inventory/internal/domain/inventory"
)

// openingNotes texto del movimiento de apertura que traslada el stock heredado al ledger.
const openingNotes = "Saldo awal dari stok produk"

// Snapshot mantiene la tabla inventories como caché del ledger.
type Snapshot struct {
	log    zerolog.Logger
	ledger *Ledger
	now    func() time.Time
}

// NewSnapshot construye el servicio de snapshot. ledger registra la apertura de productos con stock heredado.
func NewSnapshot(log zerolog.Logger, ledger *Ledger, now func() time.Time) *Snapshot {
	if now == nil {
		now = time.Now
	}
	return &Snapshot{log: log, ledger: ledger, now: now}
}

// GetOrCreate devuelve el snapshot bloqueado (FOR UPDATE) o lo crea. Idempotente.
//
// Al crearlo la cantidad sale del ledger. Si el producto no tiene movimientos pero sí stock
// heredado, primero se agrega una corrección de apertura sin usuario por ese stock, de modo que
// ledger, snapshot y stock del producto coincidan al confirmar.
func (s *Snapshot) GetOrCreate(ctx context.Context, repos Repos, product *entity.Product) (*entity.Inventory, error) {
	inv, err := repos.Inventories.GetForUpdate(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if inv != nil {
		return inv, nil
	}
	now := s.now()
	seed := &entity.Inventory{
		ProductID: product.ID,
		Barcode:   product.Barcode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repos.Inventories.Insert(ctx, seed); err != nil {
		return nil, err
	}
	// Un alta concurrente del mismo snapshot espera aquí hasta que la primera confirme.
	inv, err = repos.Inventories.GetForUpdate(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("snapshot de %s no disponible tras crearlo", product.ID)
	}

	movements, err := repos.Movements.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	quantity := inventory.CurrentStock(movements)
	if len(movements) == 0 && product.Stock > 0 {
		opening, err := s.ledger.Append(ctx, repos, AppendInput{
			ProductID: product.ID,
			Type:      entity.MovementTypeCorrection,
			Quantity:  product.Stock,
			Notes:     openingNotes,
		})
		if err != nil {
			return nil, err
		}
		quantity = opening.QuantityAfter
		s.log.Info().
			Str("product_id", product.ID).
			Int64("quantity", quantity).
			Msg("stock heredado trasladado al ledger")
	}
	if inv.Quantity != quantity {
		if err := repos.Inventories.UpdateQuantity(ctx, product.ID, quantity); err != nil {
			return nil, err
		}
		inv.Quantity = quantity
		inv.UpdatedAt = now
	}
	return inv, nil
}

// ApplyDelta suma delta con piso en 0. El piso no es un camino normal: la validación previa ya
// rechazó la operación, así que si se activa se registra como advertencia.
func (s *Snapshot) ApplyDelta(ctx context.Context, repos Repos, inv *entity.Inventory, delta int64) error {
	next := inv.Quantity + delta
	if next < 0 {
		s.log.Warn().
			Str("product_id", inv.ProductID).
			Int64("quantity", inv.Quantity).
			Int64("delta", delta).
			Msg("snapshot quedaría negativo; se fija en 0 (validación omitida)")
		next = 0
	}
	if err := repos.Inventories.UpdateQuantity(ctx, inv.ProductID, next); err != nil {
		return err
	}
	inv.Quantity = next
	inv.UpdatedAt = s.now()
	return nil
}

// SyncFromLedger sobrescribe el snapshot con la suma del ledger. changed indica si había deriva.
// La suma se lee con el snapshot ya bloqueado: una venta concurrente queda antes o después, nunca en medio.
func (s *Snapshot) SyncFromLedger(ctx context.Context, repos Repos, product *entity.Product) (inv *entity.Inventory, changed bool, err error) {
	inv, err = s.GetOrCreate(ctx, repos, product)
	if err != nil {
		return nil, false, err
	}
	sum, err := repos.Movements.SumQuantity(ctx, product.ID)
	if err != nil {
		return nil, false, err
	}
	if inv.Quantity == sum {
		return inv, false, nil
	}
	if err := repos.Inventories.UpdateQuantity(ctx, product.ID, sum); err != nil {
		return nil, false, err
	}
	inv.Quantity = sum
	inv.UpdatedAt = s.now()
	return inv, true, nil
}
