package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"santiye/internal/core/apperror"
	"santiye/internal/core/types"
	"santiye/internal/domain/catalogs/poz"
	"santiye/internal/infrastructure/http/v1/dto"
)

// PozHandler handles poz catalog requests.
type PozHandler struct {
	*BaseHandler
	service *poz.Service
}

// NewPozHandler creates a new poz catalog handler.
func NewPozHandler(base *BaseHandler, service *poz.Service) *PozHandler {
	return &PozHandler{BaseHandler: base, service: service}
}

// List handles GET /poz. Contractors see their override prices.
func (h *PozHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]dto.ListedPozResponse, len(items))
	for i, item := range items {
		resp[i] = dto.FromListedPoz(item)
	}
	h.OK(c, dto.PozListResponse{Items: resp})
}

// Get handles GET /poz/:id.
func (h *PozHandler) Get(c *gin.Context) {
	pozID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), pozID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromPoz(item))
}

// Upsert handles POST /poz: create-or-update keyed by code.
func (h *PozHandler) Upsert(c *gin.Context) {
	var req dto.UpsertPozRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.Upsert(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromPoz(item))
}

// BulkUpsert handles POST /poz/bulk: JSON batch import.
func (h *PozHandler) BulkUpsert(c *gin.Context) {
	var req dto.BulkUpsertPozRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inputs := make([]poz.UpsertInput, len(req.Items))
	for i, item := range req.Items {
		inputs[i] = item.ToInput()
	}

	count, err := h.service.BulkUpsert(c.Request.Context(), inputs)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.BulkUpsertPozResponse{Count: count})
}

// Import handles POST /poz/import: .xlsx catalog import.
// Expected columns: code, name, unit, price type, price.
func (h *PozHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("file is required").WithDetail("error", err.Error()))
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
		h.Error(c, apperror.NewValidation("only .xlsx files are accepted"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	defer file.Close()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		h.Error(c, apperror.NewValidation("cannot read excel file").WithDetail("error", err.Error()))
		return
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		h.Error(c, apperror.NewValidation("excel file has no sheets"))
		return
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		h.Error(c, apperror.NewValidation("cannot read sheet").WithDetail("error", err.Error()))
		return
	}

	inputs, err := parsePozRows(rows)
	if err != nil {
		h.Error(c, err)
		return
	}

	count, err := h.service.BulkUpsert(c.Request.Context(), inputs)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.BulkUpsertPozResponse{Count: count})
}

// parsePozRows converts sheet rows to upsert inputs. The first row is skipped
// when it looks like a header.
func parsePozRows(rows [][]string) ([]poz.UpsertInput, error) {
	if len(rows) == 0 {
		return nil, apperror.NewValidation("excel file is empty")
	}

	start := 0
	if len(rows[0]) > 0 {
		first := strings.ToUpper(strings.TrimSpace(rows[0][0]))
		if strings.Contains(first, "POZ") || strings.Contains(first, "KOD") || strings.Contains(first, "CODE") {
			start = 1
		}
	}

	var inputs []poz.UpsertInput
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		input := poz.UpsertInput{Code: strings.TrimSpace(row[0])}
		if len(row) > 1 {
			input.Name = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			input.Unit = strings.TrimSpace(row[2])
		}
		if len(row) > 3 {
			input.PriceType = strings.TrimSpace(row[3])
		}
		if len(row) > 4 {
			price, err := parsePriceCell(row[4])
			if err != nil {
				return nil, apperror.NewValidation("invalid price").
					WithDetail("row", i+1).
					WithDetail("value", row[4])
			}
			input.Price = price
		} else {
			input.Price = types.ZeroMoney()
		}

		inputs = append(inputs, input)
	}

	if len(inputs) == 0 {
		return nil, apperror.NewValidation("no catalog rows found")
	}
	return inputs, nil
}

// parsePriceCell accepts both "1234.56" and the Turkish "1234,56" form.
func parsePriceCell(s string) (types.Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.ZeroMoney(), nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return types.ZeroMoney(), err
	}
	return types.NewMoneyFromString(s)
}

// Update handles PUT /poz/:id. The code stays unchanged.
func (h *PozHandler) Update(c *gin.Context) {
	pozID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpsertPozRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.Update(c.Request.Context(), pozID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromPoz(item))
}

// Delete handles DELETE /poz/:id.
func (h *PozHandler) Delete(c *gin.Context) {
	pozID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), pozID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
