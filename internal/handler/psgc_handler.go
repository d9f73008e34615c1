package handler

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/scholartrack/registrar-backend/internal/response"
	"github.com/scholartrack/registrar-backend/internal/service"
)

// PSGC codes are numeric, up to ten digits.
var psgcCodePattern = regexp.MustCompile(`^\d{1,10}$`)

// PSGCHandler proxies the Philippine geographic reference lists used by the
// address dropdowns.
type PSGCHandler struct {
	psgcService service.PSGCService
}

// NewPSGCHandler creates a new PSGCHandler.
func NewPSGCHandler(psgcService service.PSGCService) *PSGCHandler {
	return &PSGCHandler{psgcService: psgcService}
}

// Provinces godoc
// GET /api/psgc/provinces
func (h *PSGCHandler) Provinces(c *gin.Context) {
	places, err := h.psgcService.Provinces(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"provinces": places})
}

// Cities godoc
// GET /api/psgc/provinces/:code/cities
func (h *PSGCHandler) Cities(c *gin.Context) {
	code := c.Param("code")
	if !psgcCodePattern.MatchString(code) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	places, err := h.psgcService.Cities(c.Request.Context(), code)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cities": places})
}

// Barangays godoc
// GET /api/psgc/cities/:code/barangays
func (h *PSGCHandler) Barangays(c *gin.Context) {
	code := c.Param("code")
	if !psgcCodePattern.MatchString(code) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	places, err := h.psgcService.Barangays(c.Request.Context(), code)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"barangays": places})
}

func (h *PSGCHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrUpstream):
		response.Fail(c, http.StatusBadGateway, response.ErrUpstreamFailure)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
