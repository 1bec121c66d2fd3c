package inventory

import (
	"context"
	"fmt"
)

// withSyncLock evita que dos instancias ejecuten una reparación a la vez.
func (s *ReconciliationService) withSyncLock(ctx context.Context, fn func() error) error {
	release, err := s.locker.Obtain(ctx, syncLockKey, s.opts.SyncLockTTL)
	if err != nil {
		return fmt.Errorf("reparación de inventario en curso: %w", err)
	}
	defer func() {
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
			s.log.Warn().Err(rerr).Msg("liberar bloqueo de reparación")
		}
	}()
	return fn()
}

// SyncInventoryWithProducts crea el snapshot de cada producto que no lo tenga. El stock heredado entra
// al ledger como corrección de apertura (ver Snapshot.GetOrCreate). Devuelve la cantidad de snapshots creados.
func (s *ReconciliationService) SyncInventoryWithProducts(ctx context.Context) (int, error) {
	var created int
	err := s.withSyncLock(ctx, func() error {
		return s.inTx(ctx, "sync inventory with products", func(repos Repos) error {
			created = 0
			products, err := repos.Products.List(ctx)
			if err != nil {
				return err
			}
			for _, p := range products {
				existing, err := repos.Inventories.GetByProduct(ctx, p.ID)
				if err != nil {
					return err
				}
				if existing != nil {
					continue
				}
				if _, err := s.snapshot.GetOrCreate(ctx, repos, p); err != nil {
					return err
				}
				created++
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	s.log.Info().Int("created", created).Msg("snapshots creados desde productos")
	return created, nil
}

// SyncInventoryFromMovements recalcula el snapshot de cada producto desde el ledger y
// alinea el stock reflejado del producto. Devuelve la cantidad de productos procesados.
func (s *ReconciliationService) SyncInventoryFromMovements(ctx context.Context) (int, error) {
	var processed, drifted int
	err := s.withSyncLock(ctx, func() error {
		return s.inTx(ctx, "sync inventory from movements", func(repos Repos) error {
			processed, drifted = 0, 0
			products, err := repos.Products.List(ctx)
			if err != nil {
				return err
			}
			for _, p := range products {
				inv, changed, err := s.snapshot.SyncFromLedger(ctx, repos, p)
				if err != nil {
					return err
				}
				if changed {
					drifted++
					s.log.Warn().Str("product_id", p.ID).Int64("quantity", inv.Quantity).Msg("snapshot con deriva corregido")
				}
				if p.Stock != inv.Quantity {
					if err := repos.Products.UpdateStock(ctx, p.ID, inv.Quantity); err != nil {
						return err
					}
				}
				processed++
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	s.log.Info().Int("processed", processed).Int("drifted", drifted).Msg("snapshots recalculados desde el ledger")
	return processed, nil
}
