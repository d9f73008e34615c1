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

// CollegeHandler handles college management, including the nested course
// set and the ownership cascades.
type CollegeHandler struct {
	collegeService service.CollegeService
}

// NewCollegeHandler creates a new CollegeHandler.
func NewCollegeHandler(collegeService service.CollegeService) *CollegeHandler {
	return &CollegeHandler{collegeService: collegeService}
}

// ListColleges godoc
// GET /api/colleges
func (h *CollegeHandler) ListColleges(c *gin.Context) {
	h.list(c, false)
}

// ListTrashed godoc
// GET /api/colleges-trash
func (h *CollegeHandler) ListTrashed(c *gin.Context) {
	h.list(c, true)
}

func (h *CollegeHandler) list(c *gin.Context, trashed bool) {
	q := parseListQuery(c, trashed)

	colleges, total, err := h.collegeService.List(c.Request.Context(), q.Search, q.Page, q.Limit, q.Trashed)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Paged(c, http.StatusOK, colleges,
		effectivePage(q.Page, q.Limit), pageCount(total, q.Limit), total)
}

// GetCollege godoc
// GET /api/colleges/:id
func (h *CollegeHandler) GetCollege(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	college, err := h.collegeService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"college": college})
}

// CreateCollege godoc
// POST /api/colleges
// Creates a college with an optional nested course set.
func (h *CollegeHandler) CreateCollege(c *gin.Context) {
	var req model.CollegeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	college, err := h.collegeService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrNameTaken) {
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation,
				map[string]string{"name": "The name has already been taken."})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"college": college})
}

// UpdateCollege godoc
// PUT /api/colleges/:id
// Updates the college and reconciles the nested course set.
func (h *CollegeHandler) UpdateCollege(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CollegeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	college, err := h.collegeService.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNameTaken):
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation,
				map[string]string{"name": "The name has already been taken."})
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"college": college})
}

// DeleteCollege godoc
// DELETE /api/colleges/:id
// Trashes the college and all its courses.
func (h *CollegeHandler) DeleteCollege(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.collegeService.SoftDelete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "College and its courses moved to trash."})
}

// RestoreCollege godoc
// POST /api/colleges-restore/:id
// Restores the college and all its trashed courses.
func (h *CollegeHandler) RestoreCollege(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.collegeService.Restore(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "College and its courses restored."})
}

// ForceDeleteCollege godoc
// DELETE /api/colleges-force-delete/:id
// Permanently removes the college and its courses, unless students still
// reference the college.
func (h *CollegeHandler) ForceDeleteCollege(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.collegeService.ForceDelete(c.Request.Context(), id); err != nil {
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

// CollegeOptions godoc
// GET /api/colleges-all
// Active colleges with their active courses, for dropdowns.
func (h *CollegeHandler) CollegeOptions(c *gin.Context) {
	colleges, err := h.collegeService.Options(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"colleges": colleges})
}
