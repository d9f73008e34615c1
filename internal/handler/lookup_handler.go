package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scholartrack/registrar-backend/internal/model"
	"github.com/scholartrack/registrar-backend/internal/response"
	"github.com/scholartrack/registrar-backend/internal/service"
	"github.com/scholartrack/registrar-backend/internal/validator"
)

// LookupHandler handles one of the simple reference entities. The same
// handler is instantiated for campuses, scholarships and year levels; only
// the label and the backing service differ.
type LookupHandler struct {
	lookupService service.LookupService
	// label names the entity in messages and payload keys, e.g. "campus".
	label string
	// plural is the payload key for option listings, e.g. "campuses".
	plural string
}

// NewLookupHandler creates a LookupHandler for one reference entity.
func NewLookupHandler(lookupService service.LookupService, label, plural string) *LookupHandler {
	return &LookupHandler{lookupService: lookupService, label: label, plural: plural}
}

// List godoc
// GET /api/{plural}
func (h *LookupHandler) List(c *gin.Context) {
	h.listWith(c, false)
}

// ListTrashed godoc
// GET /api/{plural}-trash
func (h *LookupHandler) ListTrashed(c *gin.Context) {
	h.listWith(c, true)
}

func (h *LookupHandler) listWith(c *gin.Context, trashed bool) {
	q := parseListQuery(c, trashed)

	items, total, err := h.lookupService.List(c.Request.Context(), q.Search, q.Page, q.Limit, q.Trashed)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Paged(c, http.StatusOK, items,
		effectivePage(q.Page, q.Limit), pageCount(total, q.Limit), total)
}

// Get godoc
// GET /api/{plural}/:id
func (h *LookupHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	item, err := h.lookupService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{h.label: item})
}

// Create godoc
// POST /api/{plural}
func (h *LookupHandler) Create(c *gin.Context) {
	var req model.LookupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	item, err := h.lookupService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrNameTaken) {
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation,
				map[string]string{"name": "The name has already been taken."})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{h.label: item})
}

// Update godoc
// PUT /api/{plural}/:id
func (h *LookupHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.LookupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	item, err := h.lookupService.Update(c.Request.Context(), id, req)
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

	response.Success(c, http.StatusOK, gin.H{h.label: item})
}

// Delete godoc
// DELETE /api/{plural}/:id
func (h *LookupHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.lookupService.SoftDelete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": fmt.Sprintf("The %s was moved to trash.", h.label)})
}

// Restore godoc
// POST /api/{plural}-restore/:id
func (h *LookupHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.lookupService.Restore(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": fmt.Sprintf("The %s was restored.", h.label)})
}

// ForceDelete godoc
// DELETE /api/{plural}-force-delete/:id
func (h *LookupHandler) ForceDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.lookupService.ForceDelete(c.Request.Context(), id); err != nil {
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

// Options godoc
// GET /api/{plural}-all
func (h *LookupHandler) Options(c *gin.Context) {
	options, err := h.lookupService.Options(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{h.plural: options})
}
