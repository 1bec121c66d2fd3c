package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventory/internal/domain"
	"github.com/jhoicas/pos-inventory/internal/domain/entity"
	"github.com/jhoicas/pos-inventory/internal/domain/inventory"
)

// Options parámetros del servicio de conciliación.
type Options struct {
	LowStockThreshold int64
	MaxRetries        int
	SummaryTTL        time.Duration
	SyncLockTTL       time.Duration
	Location          *time.Location
	Now               func() time.Time
}

func (o Options) withDefaults() Options {
	if o.LowStockThreshold <= 0 {
		o.LowStockThreshold = 10
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.SummaryTTL <= 0 {
		o.SummaryTTL = 30 * time.Second
	}
	if o.SyncLockTTL <= 0 {
		o.SyncLockTTL = 5 * time.Minute
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// AdjustmentInput ajuste manual por magnitud (el signo lo decide Type).
type AdjustmentInput struct {
	ProductID string
	Quantity  int64
	Type      entity.MovementType
	Reason    string
	Notes     string
	UserID    *string
}

// CorrectionInput corrección de stock a un valor absoluto (stock opname).
type CorrectionInput struct {
	ProductID   string
	NewQuantity int64
	Reason      string
	UserID      *string
}

// AdjustmentResult asiento del diario y su movimiento del ledger, creados en la misma transacción.
type AdjustmentResult struct {
	Adjustment *entity.InventoryAdjustment
	Movement   *entity.StockMovement
}

// StockValidation resultado acumulado de ValidateStockForTransaction.
type StockValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// InventorySummary agregado de inventario para el tablero.
type InventorySummary struct {
	TotalProducts     int             `json:"total_products"`
	TotalStockValue   decimal.Decimal `json:"total_stock_value"`
	TotalSellValue    decimal.Decimal `json:"total_sell_value"`
	LowStockCount     int             `json:"low_stock_count"`
	OutOfStockCount   int             `json:"out_of_stock_count"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

// StockCard estado de stock de un producto: ledger, snapshot y costo promedio.
type StockCard struct {
	Product          *entity.Product
	LedgerQuantity   int64
	SnapshotQuantity *int64
	AverageBuyPrice  decimal.Decimal
	InSync           bool
}

const syncLockKey = "inventory:sync"

// ReconciliationService único componente que escribe ledger, snapshot, diario y stock reflejado del producto.
// Cada operación de escritura corre en una transacción; los productos afectados se bloquean
// (SELECT FOR UPDATE sobre su snapshot) antes de leer el stock.
type ReconciliationService struct {
	tx       TxRunner
	reader   Repos
	ledger   *Ledger
	snapshot *Snapshot
	journal  *Journal
	cache    SummaryCache
	locker   Locker
	log      zerolog.Logger
	opts     Options
}

// NewReconciliationService construye el servicio. reader son repositorios sobre el pool (lecturas sin bloqueo).
func NewReconciliationService(
	txRunner TxRunner,
	reader Repos,
	cache SummaryCache,
	locker Locker,
	log zerolog.Logger,
	opts Options,
) *ReconciliationService {
	opts = opts.withDefaults()
	if cache == nil {
		cache = NoopSummaryCache{}
	}
	if locker == nil {
		locker = NewLocalLocker()
	}
	log = log.With().Str("component", "reconciliation").Logger()
	ledger := NewLedger(opts.Now)
	return &ReconciliationService{
		tx:       txRunner,
		reader:   reader,
		ledger:   ledger,
		snapshot: NewSnapshot(log, ledger, opts.Now),
		journal:  NewJournal(opts.Location),
		cache:    cache,
		locker:   locker,
		log:      log,
		opts:     opts,
	}
}

// Ledger expone las consultas del ledger a otros casos de uso.
func (s *ReconciliationService) Ledger() *Ledger { return s.ledger }

// inTx ejecuta fn en una transacción y la reintenta ante domain.ErrConflict
// (número de diario repetido, serialización o deadlock).
func (s *ReconciliationService) inTx(ctx context.Context, op string, fn func(repos Repos) error) error {
	var err error
	for attempt := 1; attempt <= s.opts.MaxRetries; attempt++ {
		err = s.tx.Run(ctx, fn)
		if err == nil {
			if cerr := s.cache.Invalidate(ctx); cerr != nil {
				s.log.Warn().Err(cerr).Str("op", op).Msg("invalidar caché de resumen")
			}
			return nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
		s.log.Debug().Err(err).Str("op", op).Int("attempt", attempt).Msg("conflicto de concurrencia, reintentando")
	}
	return fmt.Errorf("%s tras %d intentos: %w", op, s.opts.MaxRetries, err)
}

type lockedProduct struct {
	product  *entity.Product
	snapshot *entity.Inventory
}

// lockProducts carga y bloquea los productos en orden ascendente de ID para evitar deadlocks.
func (s *ReconciliationService) lockProducts(ctx context.Context, repos Repos, ids []string) (map[string]*lockedProduct, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Strings(unique)

	out := make(map[string]*lockedProduct, len(unique))
	for _, id := range unique {
		product, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
		inv, err := s.snapshot.GetOrCreate(ctx, repos, product)
		if err != nil {
			return nil, err
		}
		out[id] = &lockedProduct{product: product, snapshot: inv}
	}
	return out, nil
}

// apply escribe el movimiento, ajusta el snapshot y refleja el stock en el producto.
func (s *ReconciliationService) apply(ctx context.Context, repos Repos, lp *lockedProduct, in AppendInput) (*entity.StockMovement, error) {
	mov, err := s.ledger.Append(ctx, repos, in)
	if err != nil {
		return nil, err
	}
	if err := s.snapshot.ApplyDelta(ctx, repos, lp.snapshot, in.Quantity); err != nil {
		return nil, err
	}
	if err := repos.Products.UpdateStock(ctx, lp.product.ID, mov.QuantityAfter); err != nil {
		return nil, err
	}
	lp.product.Stock = mov.QuantityAfter
	return mov, nil
}

func strPtr(s string) *string { return &s }

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func validatePurchase(p *entity.Purchase) error {
	if p == nil || p.ID == "" {
		return domain.InvalidInput("compra sin ID")
	}
	if len(p.Items) == 0 {
		return domain.InvalidInput("compra %s sin líneas", p.ID)
	}
	for _, item := range p.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return domain.InvalidInput("línea de compra inválida en %s", p.ID)
		}
		if item.PurchasePrice.IsNegative() || item.TotalPrice.IsNegative() {
			return domain.InvalidInput("precio de compra negativo en %s", p.ID)
		}
	}
	return nil
}

func purchaseLineTotal(item entity.PurchaseItem) decimal.Decimal {
	if item.TotalPrice.IsZero() {
		return item.PurchasePrice.Mul(decimal.NewFromInt(item.Quantity))
	}
	return item.TotalPrice
}

// ProcessPurchase registra la entrada de cada línea de la compra. No es idempotente: el llamador
// la invoca una sola vez por transición de estado (p. ej. pending → received). No crea asiento de diario.
func (s *ReconciliationService) ProcessPurchase(ctx context.Context, purchase *entity.Purchase) error {
	if err := validatePurchase(purchase); err != nil {
		return err
	}
	ids := make([]string, 0, len(purchase.Items))
	for _, item := range purchase.Items {
		ids = append(ids, item.ProductID)
	}
	return s.inTx(ctx, "process purchase", func(repos Repos) error {
		locked, err := s.lockProducts(ctx, repos, ids)
		if err != nil {
			return err
		}
		for _, item := range purchase.Items {
			_, err := s.apply(ctx, repos, locked[item.ProductID], AppendInput{
				ProductID:     item.ProductID,
				Type:          entity.MovementTypePurchase,
				Quantity:      item.Quantity,
				UnitPrice:     decPtr(item.PurchasePrice),
				TotalPrice:    decPtr(purchaseLineTotal(item)),
				ReferenceType: strPtr(entity.ReferencePurchase),
				ReferenceID:   strPtr(purchase.ID),
				Notes:         "Pembelian " + purchase.InvoiceNumber,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ReversePurchase anula una compra con movimientos purchase de signo contrario (el original no se toca).
// Se rechaza si parte de la mercadería ya salió y el stock no alcanza para revertir.
func (s *ReconciliationService) ReversePurchase(ctx context.Context, purchase *entity.Purchase) error {
	if err := validatePurchase(purchase); err != nil {
		return err
	}
	ids := make([]string, 0, len(purchase.Items))
	for _, item := range purchase.Items {
		ids = append(ids, item.ProductID)
	}
	return s.inTx(ctx, "reverse purchase", func(repos Repos) error {
		locked, err := s.lockProducts(ctx, repos, ids)
		if err != nil {
			return err
		}
		for _, item := range purchase.Items {
			lp := locked[item.ProductID]
			current, err := s.ledger.CurrentStock(ctx, repos, item.ProductID)
			if err != nil {
				return err
			}
			if current < item.Quantity {
				return inventory.Insufficient(item.ProductID, lp.product.Title, current, item.Quantity)
			}
			_, err = s.apply(ctx, repos, lp, AppendInput{
				ProductID:     item.ProductID,
				Type:          entity.MovementTypePurchase,
				Quantity:      -item.Quantity,
				UnitPrice:     decPtr(item.PurchasePrice),
				TotalPrice:    decPtr(purchaseLineTotal(item).Neg()),
				ReferenceType: strPtr(entity.ReferencePurchase),
				ReferenceID:   strPtr(purchase.ID),
				Notes:         "Pembatalan pembelian " + purchase.InvoiceNumber,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ProcessTransaction registra la salida por venta de cada línea. El stock se vuelve a validar
// con el producto bloqueado, así dos ventas concurrentes no pueden sobregirarlo.
func (s *ReconciliationService) ProcessTransaction(ctx context.Context, trx *entity.Transaction) error {
	if trx == nil || trx.ID == "" || len(trx.Details) == 0 {
		return domain.InvalidInput("transacción sin ID o sin líneas")
	}
	ids := make([]string, 0, len(trx.Details))
	for _, d := range trx.Details {
		if d.ProductID == "" || d.Quantity <= 0 || d.Price.IsNegative() {
			return domain.InvalidInput("línea de venta inválida en %s", trx.ID)
		}
		ids = append(ids, d.ProductID)
	}
	return s.inTx(ctx, "process transaction", func(repos Repos) error {
		locked, err := s.lockProducts(ctx, repos, ids)
		if err != nil {
			return err
		}
		for _, d := range trx.Details {
			lp := locked[d.ProductID]
			current, err := s.ledger.CurrentStock(ctx, repos, d.ProductID)
			if err != nil {
				return err
			}
			if err := checkAvailable(lp.product, current, d.Quantity); err != nil {
				return err
			}
			_, err = s.apply(ctx, repos, lp, AppendInput{
				ProductID:     d.ProductID,
				Type:          entity.MovementTypeSale,
				Quantity:      -d.Quantity,
				UnitPrice:     decPtr(d.Price),
				ReferenceType: strPtr(entity.ReferenceTransaction),
				ReferenceID:   strPtr(trx.ID),
				Notes:         "Penjualan " + trx.Invoice,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func checkAvailable(product *entity.Product, current, requested int64) error {
	if current <= 0 {
		return inventory.OutOfStock(product.ID, product.Title, requested)
	}
	if current < requested {
		return inventory.Insufficient(product.ID, product.Title, current, requested)
	}
	return nil
}

// CreateAdjustment ajuste manual: diario + ledger + snapshot + stock del producto en una transacción.
func (s *ReconciliationService) CreateAdjustment(ctx context.Context, in AdjustmentInput) (*AdjustmentResult, error) {
	cmd, err := inventory.NewAdjustmentCommand(in.ProductID, in.Type, in.Quantity, in.Reason, in.Notes, in.UserID)
	if err != nil {
		return nil, err
	}
	return s.executeAdjustment(ctx, "create adjustment", in.ProductID, func(int64) (inventory.AdjustmentCommand, error) {
		return cmd, nil
	})
}

// StockCorrection fija el stock en NewQuantity; el delta (cualquier signo, incluso 0) queda en el diario como correction.
func (s *ReconciliationService) StockCorrection(ctx context.Context, in CorrectionInput) (*AdjustmentResult, error) {
	if _, err := inventory.NewCorrectionCommand(in.ProductID, 0, in.NewQuantity, in.Reason, in.UserID); err != nil {
		return nil, err
	}
	return s.executeAdjustment(ctx, "stock correction", in.ProductID, func(current int64) (inventory.AdjustmentCommand, error) {
		return inventory.NewCorrectionCommand(in.ProductID, current, in.NewQuantity, in.Reason, in.UserID)
	})
}

// executeAdjustment ejecuta un AdjustmentCommand; build recibe el stock leído con el producto bloqueado.
func (s *ReconciliationService) executeAdjustment(
	ctx context.Context,
	op string,
	productID string,
	build func(current int64) (inventory.AdjustmentCommand, error),
) (*AdjustmentResult, error) {
	var result *AdjustmentResult
	err := s.inTx(ctx, op, func(repos Repos) error {
		locked, err := s.lockProducts(ctx, repos, []string{productID})
		if err != nil {
			return err
		}
		lp := locked[productID]
		before, err := s.ledger.CurrentStock(ctx, repos, productID)
		if err != nil {
			return err
		}
		cmd, err := build(before)
		if err != nil {
			return err
		}
		if err := cmd.Check(lp.product, before); err != nil {
			return err
		}
		now := s.opts.Now()
		number, err := s.journal.GenerateNumber(ctx, repos, now)
		if err != nil {
			return err
		}
		adj := cmd.Journal(number, before, now)
		if err := repos.Adjustments.Create(ctx, adj); err != nil {
			return err
		}
		planned := cmd.Movement(adj)
		mov, err := s.apply(ctx, repos, lp, AppendInput{
			ProductID:     planned.ProductID,
			Type:          planned.Type,
			Quantity:      planned.Quantity,
			UnitPrice:     decPtr(planned.UnitPrice),
			TotalPrice:    decPtr(planned.TotalPrice),
			ReferenceType: planned.ReferenceType,
			ReferenceID:   planned.ReferenceID,
			UserID:        planned.UserID,
			Notes:         planned.Notes,
		})
		if err != nil {
			return err
		}
		if !inventory.Matches(adj, mov) {
			return fmt.Errorf("asiento %s no coincide con el movimiento %d", number, mov.ID)
		}
		result = &AdjustmentResult{Adjustment: adj, Movement: mov}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("journal_number", *result.Adjustment.JournalNumber).
		Str("product_id", productID).
		Str("type", string(result.Adjustment.Type)).
		Int64("change", result.Adjustment.QuantityChange).
		Msg("ajuste de stock registrado")
	return result, nil
}

// ValidateStockForTransaction revisa todas las líneas sin escribir nada y acumula un mensaje por
// cada línea con problema. Cantidad 0 siempre es válida. Un producto inexistente corta la
// validación con domain.ErrNotFound.
func (s *ReconciliationService) ValidateStockForTransaction(ctx context.Context, items []entity.StockRequest) (*StockValidation, error) {
	out := &StockValidation{Valid: true, Errors: []string{}}
	for _, item := range items {
		if item.Quantity == 0 {
			continue
		}
		if item.Quantity < 0 {
			out.Errors = append(out.Errors, fmt.Sprintf("Jumlah tidak valid untuk produk %s", item.ProductID))
			continue
		}
		product, err := s.reader.Products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("producto %s: %w", item.ProductID, domain.ErrNotFound)
		}
		current, err := s.availableStock(ctx, product)
		if err != nil {
			return nil, err
		}
		if current < item.Quantity {
			var stockErr *domain.StockError
			errors.As(checkAvailable(product, current, item.Quantity), &stockErr)
			out.Errors = append(out.Errors, stockErr.Message)
		}
	}
	out.Valid = len(out.Errors) == 0
	return out, nil
}

// ValidateStockOrFail variante estricta del punto de venta: corta en la primera línea con problema.
// Stock en cero devuelve un error "habis" (domain.ErrOutOfStock), distinto de stock insuficiente.
func (s *ReconciliationService) ValidateStockOrFail(ctx context.Context, cart []entity.StockRequest) error {
	for _, item := range cart {
		if item.Quantity <= 0 {
			return domain.InvalidInput("cantidad inválida para %s", item.ProductID)
		}
		product, err := s.reader.Products.GetByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", item.ProductID, domain.ErrNotFound)
		}
		current, err := s.availableStock(ctx, product)
		if err != nil {
			return err
		}
		if err := checkAvailable(product, current, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// availableStock stock vendible leído sin bloqueos. Es la suma del ledger salvo para un producto
// que todavía no tiene snapshot ni movimientos: ahí cuenta su stock heredado, que la primera
// escritura traslada al ledger como corrección de apertura.
func (s *ReconciliationService) availableStock(ctx context.Context, product *entity.Product) (int64, error) {
	current, err := s.ledger.CurrentStock(ctx, s.reader, product.ID)
	if err != nil || current != 0 || product.Stock <= 0 {
		return current, err
	}
	inv, err := s.reader.Inventories.GetByProduct(ctx, product.ID)
	if err != nil {
		return 0, err
	}
	if inv != nil {
		return current, nil
	}
	return product.Stock, nil
}
