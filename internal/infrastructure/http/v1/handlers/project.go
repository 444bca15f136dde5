package handlers

import (
	"github.com/gin-gonic/gin"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
	"santiye/internal/core/types"
	"santiye/internal/domain/projects"
	"santiye/internal/infrastructure/http/v1/dto"
)

// ProjectHandler handles project and assignment requests.
type ProjectHandler struct {
	*BaseHandler
	service *projects.Service
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(base *BaseHandler, service *projects.Service) *ProjectHandler {
	return &ProjectHandler{BaseHandler: base, service: service}
}

// Create handles POST /projects.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if !h.BindJSON(c, &req) {
		return
	}

	project := projects.NewProject(req.Code, req.Name, h.ActorID(c))
	project.CustomerName = req.CustomerName
	project.Address = req.Address

	if req.ContractorID != "" {
		contractorID, err := id.Parse(req.ContractorID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid contractor id"))
			return
		}
		project.ContractorID = &contractorID
	}

	if err := h.service.Create(c.Request.Context(), project); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromProject(project))
}

// Get handles GET /projects/:id.
func (h *ProjectHandler) Get(c *gin.Context) {
	projectID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	project, err := h.service.GetByID(c.Request.Context(), projectID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProject(project))
}

// List handles GET /projects.
func (h *ProjectHandler) List(c *gin.Context) {
	filter := projects.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if status := c.Query("status"); status != "" {
		s := projects.Status(status)
		filter.Status = &s
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ProjectResponse, len(list))
	for i := range list {
		items[i] = dto.FromProject(&list[i])
	}
	h.OK(c, dto.ProjectListResponse{Items: items})
}

// Update handles PUT /projects/:id.
func (h *ProjectHandler) Update(c *gin.Context) {
	projectID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !h.BindJSON(c, &req) {
		return
	}

	project, err := h.service.Update(c.Request.Context(), projectID, func(p *projects.Project) error {
		if req.Code != nil {
			p.Code = *req.Code
		}
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.CustomerName != nil {
			p.CustomerName = *req.CustomerName
		}
		if req.Address != nil {
			p.Address = *req.Address
		}
		if req.ContractorID != nil {
			if *req.ContractorID == "" {
				p.ContractorID = nil
			} else {
				contractorID, err := id.Parse(*req.ContractorID)
				if err != nil {
					return apperror.NewValidation("invalid contractor id")
				}
				p.ContractorID = &contractorID
			}
		}
		return nil
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProject(project))
}

// SetStatus handles PUT /projects/:id/status.
func (h *ProjectHandler) SetStatus(c *gin.Context) {
	projectID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.SetProjectStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	project, err := h.service.SetStatus(c.Request.Context(), projectID, projects.Status(req.Status))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProject(project))
}

// Delete handles DELETE /projects/:id.
func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), projectID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ListAssignments handles GET /projects/:id/poz.
func (h *ProjectHandler) ListAssignments(c *gin.Context) {
	projectID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	assignments, err := h.service.ListAssignments(c.Request.Context(), projectID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.AssignmentResponse, len(assignments))
	for i := range assignments {
		items[i] = dto.FromAssignment(&assignments[i])
	}
	h.OK(c, dto.AssignmentListResponse{Items: items})
}

// AddPoz handles POST /projects/:id/poz.
func (h *ProjectHandler) AddPoz(c *gin.Context) {
	projectID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AddPozRequest
	if !h.BindJSON(c, &req) {
		return
	}

	pozID, err := id.Parse(req.PozID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid poz id"))
		return
	}

	assignment, err := h.service.AddPoz(c.Request.Context(), projectID, pozID,
		types.NewQuantityFromFloat64(req.Quantity), h.ActorID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromAssignment(assignment))
}

// RemovePoz handles DELETE /projects/:id/poz/:assignmentId.
func (h *ProjectHandler) RemovePoz(c *gin.Context) {
	assignmentID, ok := h.ParseID(c, "assignmentId")
	if !ok {
		return
	}

	if err := h.service.RemovePoz(c.Request.Context(), assignmentID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
