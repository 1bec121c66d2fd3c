package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventory/internal/application/dto"
	"github.com/jhoicas/pos-inventory/internal/application/inventory"
	"github.com/jhoicas/pos-inventory/internal/domain"
	"github.com/jhoicas/pos-inventory/internal/domain/entity"
	"github.com/jhoicas/pos-inventory/internal/domain/repository"
)

var validate = validator.New()

func init() {
	// decimal.Decimal como numérico para que min=0 / gt=0 funcionen.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// InventoryHandler maneja las peticiones HTTP del núcleo de inventario (protegido).
type InventoryHandler struct {
	svc *inventory.ReconciliationService
	loc *time.Location
	log zerolog.Logger
}

// NewInventoryHandler construye el handler. loc interpreta los filtros de fecha sin hora.
func NewInventoryHandler(svc *inventory.ReconciliationService, loc *time.Location, log zerolog.Logger) *InventoryHandler {
	if loc == nil {
		loc = time.Local
	}
	return &InventoryHandler{svc: svc, loc: loc, log: log}
}

// bindAndValidate parsea el body JSON y aplica los tags validate. Si devuelve false la respuesta ya se escribió.
func bindAndValidate(c *fiber.Ctx, req interface{}) bool {
	if err := c.BodyParser(req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *fiber.Ctx, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s:%s", fe.Namespace(), fe.Tag()))
		}
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: strings.Join(fields, ", "), Details: fields})
		return false
	}
	_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	return false
}

// writeError traduce errores de dominio a respuestas HTTP.
func (h *InventoryHandler) writeError(c *fiber.Ctx, err error) error {
	var stockErr *domain.StockError
	switch {
	case errors.As(err, &stockErr):
		code := "INSUFFICIENT_STOCK"
		if stockErr.Kind == domain.StockErrorOutOfStock {
			code = "OUT_OF_STOCK"
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: code, Message: stockErr.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrLockNotObtained):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SYNC_IN_PROGRESS", Message: "ya hay una reparación de inventario en curso"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "CONFLICT_RETRY", Message: "conflicto de concurrencia, reintente"})
	}
	h.log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// parseDate acepta RFC3339 o YYYY-MM-DD. Con endOfDay una fecha sin hora cubre el día completo.
func (h *InventoryHandler) parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, h.loc)
	if err != nil {
		return nil, domain.InvalidInput("fecha inválida: %s", s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

// ProcessPurchase godoc
// @Summary      Registrar recepción de compra
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseRequest  true  "compra recibida"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/purchases [post]
func (h *InventoryHandler) ProcessPurchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	if err := h.svc.ProcessPurchase(c.UserContext(), in.ToEntity()); err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "compra registrada", "purchase_id": in.PurchaseID})
}

// ReversePurchase godoc
// @Summary      Revertir compra recibida
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseRequest  true  "compra a revertir"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/purchases/reverse [post]
func (h *InventoryHandler) ReversePurchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	if err := h.svc.ReversePurchase(c.UserContext(), in.ToEntity()); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "compra revertida", "purchase_id": in.PurchaseID})
}

// ProcessTransaction godoc
// @Summary      Descontar stock de una venta
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransactionRequest  true  "venta confirmada"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [post]
func (h *InventoryHandler) ProcessTransaction(c *fiber.Ctx) error {
	var in dto.TransactionRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	if err := h.svc.ProcessTransaction(c.UserContext(), in.ToEntity()); err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "venta registrada", "transaction_id": in.TransactionID})
}

// CreateAdjustment godoc
// @Summary      Ajuste manual de stock
// @Description  quantity es la magnitud; adjustment_in y return suman, adjustment_out y damage restan.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "ajuste"
// @Success      201   {object}  dto.AdjustmentResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) CreateAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	res, err := h.svc.CreateAdjustment(c.UserContext(), inventory.AdjustmentInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Type:      entity.MovementType(in.Type),
		Reason:    in.Reason,
		Notes:     in.Notes,
		UserID:    userRef(c),
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(adjustmentResult(res))
}

// StockCorrection godoc
// @Summary      Corregir stock a un valor contado
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CorrectionRequest  true  "corrección"
// @Success      201   {object}  dto.AdjustmentResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/corrections [post]
func (h *InventoryHandler) StockCorrection(c *fiber.Ctx) error {
	var in dto.CorrectionRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	res, err := h.svc.StockCorrection(c.UserContext(), inventory.CorrectionInput{
		ProductID:   in.ProductID,
		NewQuantity: *in.NewQuantity,
		Reason:      in.Reason,
		UserID:      userRef(c),
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(adjustmentResult(res))
}

func adjustmentResult(res *inventory.AdjustmentResult) dto.AdjustmentResultDTO {
	return dto.AdjustmentResultDTO{
		Adjustment: dto.NewAdjustmentDTO(res.Adjustment),
		Movement:   dto.NewMovementDTO(res.Movement),
	}
}

// ValidateStock godoc
// @Summary      Validar carrito contra el stock
// @Description  Revisa todas las líneas y acumula los mensajes; no escribe nada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockCheckRequest  true  "carrito"
// @Success      200   {object}  dto.StockValidationDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/validate [post]
func (h *InventoryHandler) ValidateStock(c *fiber.Ctx) error {
	var in dto.StockCheckRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	res, err := h.svc.ValidateStockForTransaction(c.UserContext(), in.ToEntity())
	if err != nil {
		return h.writeError(c, err)
	}
	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}
	return c.JSON(dto.StockValidationDTO{Valid: res.Valid, Errors: errs})
}

// ValidateStockStrict godoc
// @Summary      Validar carrito (falla en la primera línea sin stock)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockCheckRequest  true  "carrito"
// @Success      200   {object}  map[string]bool
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/validate/strict [post]
func (h *InventoryHandler) ValidateStockStrict(c *fiber.Ctx) error {
	var in dto.StockCheckRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	if err := h.svc.ValidateStockOrFail(c.UserContext(), in.ToEntity()); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"valid": true})
}

// ListMovements godoc
// @Summary      Listar movimientos del ledger
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "UUID del producto"
// @Param        types           query  string  false  "tipos separados por coma"
// @Param        direction       query  string  false  "incoming | outgoing"
// @Param        from            query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        to              query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        reference_type  query  string  false  "purchase | transaction | adjustment"
// @Param        reference_id    query  string  false  "id del documento origen"
// @Param        limit           query  int     false  "por defecto 50, máx 100"
// @Param        offset          query  int     false  "desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	q.DefaultPage()
	if !validateStruct(c, &q) {
		return nil
	}
	filter := repository.MovementFilter{
		ProductID:     q.ProductID,
		ReferenceType: q.ReferenceType,
		ReferenceID:   q.ReferenceID,
		Limit:         q.Limit,
		Offset:        q.Offset,
	}
	switch q.Direction {
	case "incoming":
		filter.Direction = entity.DirectionIncoming
	case "outgoing":
		filter.Direction = entity.DirectionOutgoing
	}
	for _, raw := range strings.Split(q.Types, ",") {
		if raw = strings.TrimSpace(raw); raw != "" {
			filter.Types = append(filter.Types, entity.MovementType(raw))
		}
	}
	var err error
	if filter.From, err = h.parseDate(q.From, false); err != nil {
		return h.writeError(c, err)
	}
	if filter.To, err = h.parseDate(q.To, true); err != nil {
		return h.writeError(c, err)
	}

	list, err := h.svc.ListMovements(c.UserContext(), filter)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": dto.NewMovementDTOs(list),
		"page":  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Count: len(list)},
	})
}

// ListMovementTypes godoc
// @Summary      Tipos de movimiento con etiqueta y dirección
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MovementTypeDTO
// @Router       /api/inventory/movement-types [get]
func (h *InventoryHandler) ListMovementTypes(c *fiber.Ctx) error {
	out := make([]dto.MovementTypeDTO, 0, len(entity.AllMovementTypes))
	for _, t := range entity.AllMovementTypes {
		out = append(out, dto.MovementTypeDTO{
			Value:      string(t),
			Label:      t.Label(),
			Direction:  t.Direction().String(),
			Adjustable: t.IsAdjustment(),
		})
	}
	return c.JSON(out)
}

// ListAdjustments godoc
// @Summary      Listar diario de ajustes
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "UUID del producto"
// @Param        type            query  string  false  "tipo de ajuste"
// @Param        from            query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        to              query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        include_legacy  query  bool    false  "incluir filas sin número de diario"
// @Param        limit           query  int     false  "por defecto 50, máx 100"
// @Param        offset          query  int     false  "desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [get]
func (h *InventoryHandler) ListAdjustments(c *fiber.Ctx) error {
	var q dto.AdjustmentListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	q.DefaultPage()
	if !validateStruct(c, &q) {
		return nil
	}
	filter := repository.AdjustmentFilter{
		ProductID:       q.ProductID,
		Type:            entity.MovementType(q.Type),
		WithJournalOnly: !q.IncludeLegacy,
		Limit:           q.Limit,
		Offset:          q.Offset,
	}
	var err error
	if filter.From, err = h.parseDate(q.From, false); err != nil {
		return h.writeError(c, err)
	}
	if filter.To, err = h.parseDate(q.To, true); err != nil {
		return h.writeError(c, err)
	}

	list, err := h.svc.ListAdjustments(c.UserContext(), filter)
	if err != nil {
		return h.writeError(c, err)
	}
	items := make([]dto.AdjustmentDTO, 0, len(list))
	for _, a := range list {
		items = append(items, dto.NewAdjustmentDTO(a))
	}
	return c.JSON(fiber.Map{
		"items": items,
		"page":  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Count: len(items)},
	})
}

// GenerateJournalNumber godoc
// @Summary      Reservar número de diario
// @Description  Consume el siguiente número del día (ADJYYYYMMDDNNNN).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  map[string]string
// @Router       /api/inventory/adjustments/journal-number [post]
func (h *InventoryHandler) GenerateJournalNumber(c *fiber.Ctx) error {
	n, err := h.svc.GenerateJournalNumber(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"journal_number": n})
}

// Summary godoc
// @Summary      Resumen de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  inventory.InventorySummary
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	s, err := h.svc.InventorySummary(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(s)
}

// ProductStock godoc
// @Summary      Tarjeta de stock de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "UUID del producto"
// @Success      200  {object}  dto.StockCardDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/stock [get]
func (h *InventoryHandler) ProductStock(c *fiber.Ctx) error {
	card, err := h.svc.ProductStock(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.StockCardDTO{
		ProductID:        card.Product.ID,
		Barcode:          card.Product.Barcode,
		Title:            card.Product.Title,
		Stock:            card.LedgerQuantity,
		SnapshotQuantity: card.SnapshotQuantity,
		ProductStock:     card.Product.Stock,
		AverageBuyPrice:  card.AverageBuyPrice,
		SellPrice:        card.Product.SellPrice,
		InSync:           card.InSync,
	})
}

// ProductHistory godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "UUID del producto"
// @Success      200  {array}   dto.MovementDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/history [get]
func (h *InventoryHandler) ProductHistory(c *fiber.Ctx) error {
	list, err := h.svc.StockHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.NewMovementDTOs(list))
}

// SyncWithProducts godoc
// @Summary      Crear snapshots faltantes desde el stock de productos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncResultDTO
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/sync/products [post]
func (h *InventoryHandler) SyncWithProducts(c *fiber.Ctx) error {
	n, err := h.svc.SyncInventoryWithProducts(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.SyncResultDTO{Operation: "sync_with_products", Rows: n})
}

// SyncFromMovements godoc
// @Summary      Reconstruir snapshots desde el ledger
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncResultDTO
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/sync/movements [post]
func (h *InventoryHandler) SyncFromMovements(c *fiber.Ctx) error {
	n, err := h.svc.SyncInventoryFromMovements(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.SyncResultDTO{Operation: "sync_from_movements", Rows: n})
}
