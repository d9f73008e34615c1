package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/scholartrack/registrar-backend/internal/model"
	"github.com/scholartrack/registrar-backend/internal/response"
	"github.com/scholartrack/registrar-backend/internal/service"
	"github.com/scholartrack/registrar-backend/internal/validator"
)

// CourseHandler handles course management.
type CourseHandler struct {
	courseService service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// ListCourses godoc
// GET /api/courses
// Lists live courses, optionally filtered by ?college_id=.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	h.list(c, false)
}

// ListTrashed godoc
// GET /api/courses-trash
func (h *CourseHandler) ListTrashed(c *gin.Context) {
	h.list(c, true)
}

func (h *CourseHandler) list(c *gin.Context, trashed bool) {
	q := parseListQuery(c, trashed)
	collegeID, _ := strconv.Atoi(c.Query("college_id"))

	courses, total, err := h.courseService.List(c.Request.Context(), q.Search, collegeID, q.Page, q.Limit, q.Trashed)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Paged(c, http.StatusOK, courses,
		effectivePage(q.Page, q.Limit), pageCount(total, q.Limit), total)
}

// GetCourse godoc
// GET /api/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	course, err := h.courseService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// CreateCourse godoc
// POST /api/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req model.CourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), req)
	if err != nil {
		h.writeMutationError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// UpdateCourse godoc
// PUT /api/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeMutationError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": course})
}

func (h *CourseHandler) writeMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrCollegeMissing):
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation,
			map[string]string{"college_id": "The selected college does not exist."})
	case errors.Is(err, service.ErrNameTaken):
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation,
			map[string]string{"name": "The name has already been taken in this college."})
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// DeleteCourse godoc
// DELETE /api/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.courseService.SoftDelete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Course moved to trash."})
}

// RestoreCourse godoc
// POST /api/courses-restore/:id
func (h *CourseHandler) RestoreCourse(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.courseService.Restore(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Course restored."})
}

// ForceDeleteCourse godoc
// DELETE /api/courses-force-delete/:id
func (h *CourseHandler) ForceDeleteCourse(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.courseService.ForceDelete(c.Request.Context(), id); err != nil {
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

// CourseOptions godoc
// GET /api/courses-all
func (h *CourseHandler) CourseOptions(c *gin.Context) {
	courses, err := h.courseService.Options(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// CoursesByCollege godoc
// GET /api/courses/by-college/:id
// Active courses of one college, for dependent dropdowns.
func (h *CourseHandler) CoursesByCollege(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	courses, err := h.courseService.OptionsByCollege(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}
