package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// StockHandler maneja el libro de movimientos y el diagnóstico de coherencia (protegido).
type StockHandler struct {
	uc *stock.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual de stock
// @Description  entry/exit/inventory con cantidad positiva; adjustment con signo.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Movimiento"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.RecordMovement(c.Context(), stock.MovementInput{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Type:       in.Type,
		Quantity:   in.Quantity,
		UserID:     GetUserID(c),
		Note:       in.Note,
	})
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo o cantidad inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		if err == domain.ErrInsufficientStock {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMovements godoc
// @Summary      Listar movimientos del libro
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Filtrar por producto"
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        type         query  string  false  "entry | exit | inventory | adjustment"
// @Param        from        query  string  false  "Fecha inicial (RFC3339)"
// @Param        to          query  string  false  "Fecha final (RFC3339)"
// @Param        limit       query  int     false  "Límite"   default(20)
// @Param        offset      query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	f := repository.MovementFilter{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		Type:       c.Query("type"),
		Limit:      pageLimit(c),
		Offset:     pageOffset(c),
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
		}
		f.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
		}
		f.To = &t
	}

	movements, total, err := h.uc.ListMovements(c.Context(), f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(movements)),
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	}
	for _, m := range movements {
		out.Items = append(out.Items, usecase.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Diagnosticar coherencia contador vs libro de un producto
// @Description  Compara current_stock contra la suma del libro. Solo reporta, nunca corrige.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/reconcile/{id} [get]
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	res, err := h.uc.Reconcile(c.Context(), id)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ReconcileResponse{
		ProductID:    res.ProductID,
		CurrentStock: res.CurrentStock,
		LedgerSum:    res.LedgerSum,
		Mismatch:     res.Mismatch,
	})
}

// Transfer godoc
// @Summary      Transferir stock entre ubicaciones
// @Description  Salida en el origen y entrada en el destino en una sola transacción. El contador global no cambia.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "Transferencia"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.Transfer(c.Context(), stock.TransferInput{
		ProductID:      in.ProductID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		UserID:         GetUserID(c),
		Note:           in.Note,
	})
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "transferencia inválida"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o ubicación no encontrados"})
		}
		if err == domain.ErrInsufficientStock {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente en la ubicación de origen"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ProductLevels godoc
// @Summary      Desglose de stock por ubicación de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductLevelsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/levels/{id} [get]
func (h *StockHandler) ProductLevels(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	levels, total, err := h.uc.LevelsByProduct(c.Context(), id)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.ProductLevelsResponse{
		ProductID:    id,
		LocatedTotal: total,
		Levels:       make([]dto.StockLevelResponse, 0, len(levels)),
	}
	for _, l := range levels {
		out.Levels = append(out.Levels, dto.StockLevelResponse{
			ProductID:  l.ProductID,
			LocationID: l.LocationID,
			Quantity:   l.Quantity,
		})
	}
	return c.JSON(out)
}

// LocationStock godoc
// @Summary      Listar el stock presente en una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la ubicación"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.LocatedStockResponse
// @Router       /api/stock/locations/{id} [get]
func (h *StockHandler) LocationStock(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	list, err := h.uc.LevelsByLocation(c.Context(), id, pageLimit(c), pageOffset(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LocatedStockResponse, 0, len(list))
	for _, ls := range list {
		out = append(out, dto.LocatedStockResponse{
			ProductID: ls.ProductID,
			Reference: ls.Reference,
			Name:      ls.Name,
			Unit:      ls.Unit,
			Quantity:  ls.Quantity,
		})
	}
	return c.JSON(out)
}

// ListImbalances godoc
// @Summary      Listar productos con incoherencia contador vs libro
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ImbalanceResponse
// @Router       /api/stock/imbalances [get]
func (h *StockHandler) ListImbalances(c *fiber.Ctx) error {
	imbalances, err := h.uc.ListImbalances(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ImbalanceResponse, 0, len(imbalances))
	for _, im := range imbalances {
		out = append(out, dto.ImbalanceResponse{
			ProductID:    im.ProductID,
			Reference:    im.Reference,
			Name:         im.Name,
			CurrentStock: im.CurrentStock,
			LedgerSum:    im.LedgerSum,
		})
	}
	return c.JSON(out)
}
