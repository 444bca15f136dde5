package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"santiye/internal/core/apperror"
	appctx "santiye/internal/core/context"
	"santiye/internal/core/id"
	"santiye/internal/core/types"
	"santiye/internal/domain/ledger"
	"santiye/internal/infrastructure/http/v1/dto"
)

// StockHandler handles stock ledger requests.
type StockHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *ledger.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// Replenish handles POST /stock/replenish.
func (h *StockHandler) Replenish(c *gin.Context) {
	var req dto.ReplenishRequest
	if !h.BindJSON(c, &req) {
		return
	}

	pozID, err := id.Parse(req.PozID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid poz id"))
		return
	}

	updated, err := h.service.Replenish(c.Request.Context(), pozID,
		types.NewQuantityFromFloat64(req.Amount), h.ActorID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCentralStock(updated))
}

// Transfer handles POST /stock/transfer: central stock to a user.
func (h *StockHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	pozID, err := id.Parse(req.PozID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid poz id"))
		return
	}
	userID, err := id.Parse(req.UserID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid user id"))
		return
	}

	updated, err := h.service.TransferToUser(c.Request.Context(), pozID, userID,
		types.NewQuantityFromFloat64(req.Amount), h.ActorID(c), req.DocumentURL)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromUserStock(updated))
}

// Refund handles POST /stock/refund: user stock back to central.
func (h *StockHandler) Refund(c *gin.Context) {
	var req dto.RefundRequest
	if !h.BindJSON(c, &req) {
		return
	}

	pozID, err := id.Parse(req.PozID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid poz id"))
		return
	}
	userID, err := id.Parse(req.UserID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid user id"))
		return
	}

	updated, err := h.service.RefundFromUser(c.Request.Context(), userID, pozID,
		types.NewQuantityFromFloat64(req.Amount), h.ActorID(c), req.DocumentURL)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCentralStock(updated))
}

// ListCentral handles GET /stock/central.
func (h *StockHandler) ListCentral(c *gin.Context) {
	records, err := h.service.GetCentralStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.CentralStockResponse, len(records))
	for i, record := range records {
		items[i] = dto.FromCentralStock(record)
	}
	h.OK(c, dto.CentralStockListResponse{Items: items})
}

// ListUserStock handles GET /stock/users/:id.
func (h *StockHandler) ListUserStock(c *gin.Context) {
	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	records, err := h.service.GetUserStock(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.UserStockResponse, len(records))
	for i, record := range records {
		items[i] = dto.FromUserStock(record)
	}
	h.OK(c, dto.UserStockListResponse{Items: items})
}

// ListMyStock handles GET /stock/mine.
func (h *StockHandler) ListMyStock(c *gin.Context) {
	records, err := h.service.GetUserStock(c.Request.Context(), appctx.GetUserID(c.Request.Context()))
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.UserStockResponse, len(records))
	for i, record := range records {
		items[i] = dto.FromUserStock(record)
	}
	h.OK(c, dto.UserStockListResponse{Items: items})
}

// ListLog handles GET /stock/log.
func (h *StockHandler) ListLog(c *gin.Context) {
	filter := ledger.LogFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if t := c.Query("type"); t != "" {
		tt := ledger.TransactionType(t)
		filter.TransactionType = &tt
	}
	if pozID := c.Query("pozId"); pozID != "" {
		if parsed, err := id.Parse(pozID); err == nil {
			filter.PozID = &parsed
		}
	}
	if userID := c.Query("userId"); userID != "" {
		if parsed, err := id.Parse(userID); err == nil {
			filter.UserID = &parsed
		}
	}
	if from := c.Query("from"); from != "" {
		if parsed, err := time.Parse(time.RFC3339, from); err == nil {
			filter.FromDate = &parsed
		}
	}
	if to := c.Query("to"); to != "" {
		if parsed, err := time.Parse(time.RFC3339, to); err == nil {
			filter.ToDate = &parsed
		}
	}

	entries, err := h.service.GetMovementLog(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MovementLogResponse, len(entries))
	for i, entry := range entries {
		items[i] = dto.FromMovementLogEntry(entry)
	}
	h.OK(c, dto.MovementLogListResponse{Items: items})
}
