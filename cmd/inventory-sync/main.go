// inventory-sync ejecuta las reparaciones del snapshot de inventario fuera del servidor HTTP.
//
// Uso: go run ./cmd/inventory-sync [products|movements|all]
// Por defecto ejecuta ambas: primero crea los snapshots faltantes y luego los reconstruye desde el ledger.
// Toma el mismo bloqueo que los endpoints /sync; si otra instancia está reparando termina con código 2.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/pos-inventory/internal/bootstrap"
	"github.com/jhoicas/pos-inventory/internal/domain"
	"github.com/jhoicas/pos-inventory/pkg/config"
	"github.com/jhoicas/pos-inventory/pkg/logger"
)

func main() {
	mode := "all"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}
	switch mode {
	case "products", "movements", "all":
	default:
		fmt.Fprintf(os.Stderr, "modo desconocido %q (products|movements|all)\n", mode)
		os.Exit(1)
	}

	os.Exit(run(mode))
}

// run devuelve el código de salida; 2 si otra instancia tiene el bloqueo de reparación.
func run(mode string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		return 1
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "inventory-sync"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("inicializar inventario")
		return 1
	}
	defer rt.Close()

	if mode == "products" || mode == "all" {
		n, err := rt.Service.SyncInventoryWithProducts(ctx)
		if err != nil {
			return fail(log, err, "sync con productos")
		}
		log.Info().Int("created", n).Msg("snapshots creados desde productos")
	}
	if mode == "movements" || mode == "all" {
		n, err := rt.Service.SyncInventoryFromMovements(ctx)
		if err != nil {
			return fail(log, err, "sync desde movimientos")
		}
		log.Info().Int("processed", n).Msg("snapshots reconstruidos desde el ledger")
	}
	return 0
}

func fail(log *logger.Logger, err error, msg string) int {
	log.Error().Err(err).Msg(msg)
	if errors.Is(err, domain.ErrLockNotObtained) {
		return 2
	}
	return 1
}
