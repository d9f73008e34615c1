package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scholartrack/registrar-backend/internal/model"
	"github.com/scholartrack/registrar-backend/internal/response"
	"github.com/scholartrack/registrar-backend/internal/service"
	"github.com/scholartrack/registrar-backend/internal/validator"
)

// SectionHandler handles class-section management.
type SectionHandler struct {
	sectionService service.SectionService
}

// NewSectionHandler creates a new SectionHandler.
func NewSectionHandler(sectionService service.SectionService) *SectionHandler {
	return &SectionHandler{sectionService: sectionService}
}

// ListSections godoc
// GET /api/sections
func (h *SectionHandler) ListSections(c *gin.Context) {
	h.list(c, false)
}

// ListTrashed godoc
// GET /api/sections-trash
func (h *SectionHandler) ListTrashed(c *gin.Context) {
	h.list(c, true)
}

func (h *SectionHandler) list(c *gin.Context, trashed bool) {
	q := parseListQuery(c, trashed)

	sections, total, err := h.sectionService.List(c.Request.Context(), q.Search, q.Page, q.Limit, q.Trashed)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Paged(c, http.StatusOK, sections,
		effectivePage(q.Page, q.Limit), pageCount(total, q.Limit), total)
}

// GetSection godoc
// GET /api/sections/:id
func (h *SectionHandler) GetSection(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	section, err := h.sectionService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"section": section})
}

// CreateSection godoc
// POST /api/sections
func (h *SectionHandler) CreateSection(c *gin.Context) {
	var req model.SectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	section, err := h.sectionService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrCodeTaken) {
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation,
				map[string]string{"code": "The code has already been taken."})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"section": section})
}

// UpdateSection godoc
// PUT /api/sections/:id
func (h *SectionHandler) UpdateSection(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	section, err := h.sectionService.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrCodeTaken):
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation,
				map[string]string{"code": "The code has already been taken."})
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"section": section})
}

// DeleteSection godoc
// DELETE /api/sections/:id
func (h *SectionHandler) DeleteSection(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.sectionService.SoftDelete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Section moved to trash."})
}

// RestoreSection godoc
// POST /api/sections-restore/:id
func (h *SectionHandler) RestoreSection(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.sectionService.Restore(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Section restored."})
}

// ForceDeleteSection godoc
// DELETE /api/sections-force-delete/:id
func (h *SectionHandler) ForceDeleteSection(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.sectionService.ForceDelete(c.Request.Context(), id); err != nil {
		var inUse *service.InUseError
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.As(err, &inUse):
			response.FailWithExtra(c, http.StatusUnprocessableEntity, response.ErrDependencyExists,
				map[string]int{"students": inUse.Count})
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// SectionOptions godoc
// GET /api/sections-all
func (h *SectionHandler) SectionOptions(c *gin.Context) {
	options, err := h.sectionService.Options(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sections": options})
}
