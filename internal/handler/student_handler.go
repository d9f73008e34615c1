package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/scholartrack/registrar-backend/internal/middleware"
	"github.com/scholartrack/registrar-backend/internal/model"
	"github.com/scholartrack/registrar-backend/internal/response"
	"github.com/scholartrack/registrar-backend/internal/service"
	"github.com/scholartrack/registrar-backend/internal/spreadsheet"
	"github.com/scholartrack/registrar-backend/internal/validator"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Upload extensions the import endpoint accepts.
var importExtensions = map[string]bool{
	".xls":  true,
	".xlsx": true,
	".xlsm": true,
}

// StudentHandler handles student records: CRUD, trash, bulk delete, the
// dashboard snapshot and the spreadsheet pipeline.
type StudentHandler struct {
	studentService   service.StudentService
	dashboardService service.DashboardService
	maxUploadBytes   int64
	log              zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService service.StudentService, dashboardService service.DashboardService, maxUploadBytes int64, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		studentService:   studentService,
		dashboardService: dashboardService,
		maxUploadBytes:   maxUploadBytes,
		log:              log.With().Str("component", "student_handler").Logger(),
	}
}

func studentFilterFromQuery(c *gin.Context, trashed bool) model.StudentFilter {
	q := parseListQuery(c, trashed)
	return model.StudentFilter{
		Course:          c.QueryArray("course"),
		College:         c.QueryArray("college"),
		Campus:          c.QueryArray("campus"),
		YearLevel:       c.QueryArray("year_level"),
		StudentStatus:   c.QueryArray("student_status"),
		ScholarshipType: c.QueryArray("scholarship_type"),
		Search:          q.Search,
		Page:            q.Page,
		Limit:           q.Limit,
		Trashed:         q.Trashed,
	}
}

// ListStudents godoc
// GET /api/students
// Lists live students with filtering and pagination.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	h.list(c, false)
}

// ListTrashed godoc
// GET /api/students-trash
// Lists soft-deleted students.
func (h *StudentHandler) ListTrashed(c *gin.Context) {
	h.list(c, true)
}

func (h *StudentHandler) list(c *gin.Context, trashed bool) {
	f := studentFilterFromQuery(c, trashed)

	students, total, err := h.studentService.List(c.Request.Context(), f)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Paged(c, http.StatusOK, students,
		effectivePage(f.Page, f.Limit), pageCount(total, f.Limit), total)
}

// GetStudent godoc
// GET /api/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	student, err := h.studentService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// CreateStudent godoc
// POST /api/students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req model.StudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateStudentID) {
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation,
				map[string]string{"student_id": "The student id has already been taken."})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// UpdateStudent godoc
// PUT /api/students/:id
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.StudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrDuplicateStudentID):
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation,
				map[string]string{"student_id": "The student id has already been taken."})
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// DeleteStudent godoc
// DELETE /api/students/:id
// Moves the student to trash.
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	h.mutateByID(c, h.studentService.SoftDelete, "Student moved to trash.")
}

// RestoreStudent godoc
// POST /api/students-restore/:id
func (h *StudentHandler) RestoreStudent(c *gin.Context) {
	h.mutateByID(c, h.studentService.Restore, "Student restored.")
}

// ForceDeleteStudent godoc
// DELETE /api/students-force-delete/:id
// Permanently removes a student.
func (h *StudentHandler) ForceDeleteStudent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.studentService.ForceDelete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *StudentHandler) mutateByID(c *gin.Context, op func(ctx context.Context, id int) error, message string) {
	id, ok := parseID(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := op(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": message})
}

// BulkDeleteStudents godoc
// POST /api/students/bulk-delete
// Soft-deletes a set of students atomically.
func (h *StudentHandler) BulkDeleteStudents(c *gin.Context) {
	var req model.BulkDeleteRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	count, err := h.studentService.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation,
				map[string]string{"ids": "One or more students were not found."})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d students moved to trash.", count),
		"count":   count,
	})
}

// Dashboard godoc
// GET /api/students/dashboard
// Serves the cached aggregate snapshot. Responses inside the cache TTL are
// byte-identical.
func (h *StudentHandler) Dashboard(c *gin.Context) {
	payload, err := h.dashboardService.Snapshot(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// ImportStudents godoc
// POST /api/students/import
// Accepts a spreadsheet upload and imports it all-or-nothing.
func (h *StudentHandler) ImportStudents(c *gin.Context) {
	user := middleware.GetUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !importExtensions[ext] {
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrUnsupportedFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer file.Close()

	count, err := h.studentService.Import(c.Request.Context(), file)
	if err != nil {
		var rowsErr *service.ImportRowsError
		var headerErr *spreadsheet.HeaderError
		switch {
		case errors.As(err, &rowsErr):
			response.FailWithRows(c, http.StatusUnprocessableEntity, response.ErrImportFailed, rowsErr.Rows)
		case errors.As(err, &headerErr):
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrImportFailed,
				map[string]string{"file": headerErr.Error()})
		case errors.Is(err, service.ErrImportEmpty), errors.Is(err, spreadsheet.ErrEmptyWorkbook):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrEmptyImport)
		case errors.Is(err, service.ErrDuplicateStudentID):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		case errors.Is(err, spreadsheet.ErrBadWorkbook):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrUnsupportedFile)
		default:
			h.log.Error().Err(err).Msg("Student import failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	if user != nil {
		h.log.Info().Int("count", count).Str("by", user.Email).Msg("Students imported")
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d students imported.", count),
		"count":   count,
	})
}

// ExportStudents godoc
// GET /api/students/export
// Streams an .xlsx of every student matching the filters.
func (h *StudentHandler) ExportStudents(c *gin.Context) {
	f := studentFilterFromQuery(c, false)

	book, err := h.studentService.Export(c.Request.Context(), f)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.sendWorkbook(c, book, fmt.Sprintf("students_%s.xlsx", time.Now().Format("2006-01-02")))
}

// ImportTemplate godoc
// GET /api/students/template
// Streams the import-format guidance workbook.
func (h *StudentHandler) ImportTemplate(c *gin.Context) {
	book, err := h.studentService.Template()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.sendWorkbook(c, book, "student_import_template.xlsx")
}

func (h *StudentHandler) sendWorkbook(c *gin.Context, book *excelize.File, filename string) {
	defer book.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := book.Write(c.Writer); err != nil {
		h.log.Error().Err(err).Msg("Workbook streaming failed")
	}
}
