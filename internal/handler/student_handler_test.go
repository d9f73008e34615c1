package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/scholartrack/registrar-backend/internal/model"
	"github.com/scholartrack/registrar-backend/internal/service"
	"github.com/scholartrack/registrar-backend/internal/spreadsheet"
	"github.com/xuri/excelize/v2"
)

// stubStudentService answers Import with a fixed result and ignores the rest.
type stubStudentService struct {
	importCount int
	importErr   error
}

func (s *stubStudentService) List(ctx context.Context, f model.StudentFilter) ([]model.Student, int, error) {
	return nil, 0, nil
}
func (s *stubStudentService) Get(ctx context.Context, id int) (*model.Student, error) {
	return nil, service.ErrNotFound
}
func (s *stubStudentService) Create(ctx context.Context, req model.StudentRequest) (*model.Student, error) {
	return nil, nil
}
func (s *stubStudentService) Update(ctx context.Context, id int, req model.StudentRequest) (*model.Student, error) {
	return nil, nil
}
func (s *stubStudentService) SoftDelete(ctx context.Context, id int) error  { return nil }
func (s *stubStudentService) Restore(ctx context.Context, id int) error     { return nil }
func (s *stubStudentService) ForceDelete(ctx context.Context, id int) error { return nil }
func (s *stubStudentService) BulkDelete(ctx context.Context, ids []int) (int, error) {
	return 0, nil
}
func (s *stubStudentService) Import(ctx context.Context, r io.Reader) (int, error) {
	return s.importCount, s.importErr
}
func (s *stubStudentService) Export(ctx context.Context, f model.StudentFilter) (*excelize.File, error) {
	return excelize.NewFile(), nil
}
func (s *stubStudentService) Template() (*excelize.File, error) {
	return excelize.NewFile(), nil
}

// countingDashboard records every snapshot read.
type countingDashboard struct {
	calls int
}

func (d *countingDashboard) Snapshot(ctx context.Context) (json.RawMessage, error) {
	d.calls++
	return json.RawMessage(`{"total_students":0}`), nil
}

func importRequest(t *testing.T, h *StudentHandler, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/students/import", h.ImportStudents)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	fw.Write(content)
	mw.Close()

	req := httptest.NewRequest("POST", "/students/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code
}

func newImportHandler(svc service.StudentService, dash *countingDashboard) *StudentHandler {
	return NewStudentHandler(svc, dash, 1024*1024, zerolog.Nop())
}

func TestImportLeavesDashboardCacheAlone(t *testing.T) {
	dash := &countingDashboard{}
	h := newImportHandler(&stubStudentService{importCount: 3}, dash)

	w := importRequest(t, h, "students.xlsx", []byte("workbook"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	// Snapshot staleness is bounded by the TTL alone; a successful import
	// must not touch the cached dashboard.
	if dash.calls != 0 {
		t.Errorf("dashboard touched %d times during import", dash.calls)
	}
}

func TestImportInternalErrorIs500(t *testing.T) {
	h := newImportHandler(&stubStudentService{importErr: errors.New("connection refused")}, &countingDashboard{})

	w := importRequest(t, h, "students.xlsx", []byte("workbook"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if code := errorCode(t, w); code != "INTERNAL_ERROR" {
		t.Errorf("code = %q", code)
	}
}

func TestImportBadWorkbookIs422(t *testing.T) {
	err := fmt.Errorf("%w: zip: not a valid zip file", spreadsheet.ErrBadWorkbook)
	h := newImportHandler(&stubStudentService{importErr: err}, &countingDashboard{})

	w := importRequest(t, h, "students.xlsx", []byte("not a workbook"))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if code := errorCode(t, w); code != "UNSUPPORTED_FILE_TYPE" {
		t.Errorf("code = %q", code)
	}
}

func TestImportRowErrorsIs422(t *testing.T) {
	err := &service.ImportRowsError{Rows: map[string][]string{
		"Row 2": {"The GENDER field must be one of: Male, Female."},
	}}
	h := newImportHandler(&stubStudentService{importErr: err}, &countingDashboard{})

	w := importRequest(t, h, "students.xlsx", []byte("workbook"))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Error struct {
			Code string              `json:"code"`
			Rows map[string][]string `json:"rows"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Code != "IMPORT_FAILED" {
		t.Errorf("code = %q", body.Error.Code)
	}
	if len(body.Error.Rows["Row 2"]) != 1 {
		t.Errorf("rows = %v", body.Error.Rows)
	}
}

func TestImportRejectsUnknownExtension(t *testing.T) {
	h := newImportHandler(&stubStudentService{}, &countingDashboard{})

	w := importRequest(t, h, "students.csv", []byte("a,b,c"))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if code := errorCode(t, w); code != "UNSUPPORTED_FILE_TYPE" {
		t.Errorf("code = %q", code)
	}
}
