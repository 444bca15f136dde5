package handlers

import (
	"github.com/gin-gonic/gin"

	"santiye/internal/core/apperror"
	appctx "santiye/internal/core/context"
	"santiye/internal/core/id"
	"santiye/internal/core/types"
	"santiye/internal/domain/catalogs/contractorprice"
	"santiye/internal/infrastructure/http/v1/dto"
)

// ContractorPriceHandler handles contractor price override requests.
type ContractorPriceHandler struct {
	*BaseHandler
	service *contractorprice.Service
}

// NewContractorPriceHandler creates a new contractor price handler.
func NewContractorPriceHandler(base *BaseHandler, service *contractorprice.Service) *ContractorPriceHandler {
	return &ContractorPriceHandler{BaseHandler: base, service: service}
}

// SetPrice handles POST /contractors/:id/prices.
func (h *ContractorPriceHandler) SetPrice(c *gin.Context) {
	contractorID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.SetContractorPriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	pozID, err := id.Parse(req.PozID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid poz id"))
		return
	}

	price, err := h.service.SetPrice(c.Request.Context(), contractorID, pozID, types.NewMoney(req.Price))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromContractorPrice(price))
}

// BulkSetPrices handles POST /contractors/:id/prices/bulk.
func (h *ContractorPriceHandler) BulkSetPrices(c *gin.Context) {
	contractorID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.BulkSetContractorPricesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inputs := make([]contractorprice.PriceInput, len(req.Prices))
	for i, p := range req.Prices {
		pozID, err := id.Parse(p.PozID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid poz id").WithDetail("row", i+1))
			return
		}
		inputs[i] = contractorprice.PriceInput{PozID: pozID, Price: types.NewMoney(p.Price)}
	}

	count, err := h.service.BulkSetPrices(c.Request.Context(), contractorID, inputs)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"count": count})
}

// ListPrices handles GET /contractors/:id/prices.
// Contractors may only read their own price list.
func (h *ContractorPriceHandler) ListPrices(c *gin.Context) {
	contractorID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if appctx.IsContractor(ctx) && appctx.GetUserID(ctx) != contractorID {
		h.Error(c, apperror.NewForbidden("contractors can only read their own prices"))
		return
	}

	prices, err := h.service.GetPricesFor(ctx, contractorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ContractorPriceResponse, len(prices))
	for i := range prices {
		items[i] = dto.FromContractorPrice(&prices[i])
	}
	h.OK(c, dto.ContractorPriceListResponse{Items: items})
}
