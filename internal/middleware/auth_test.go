package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/scholartrack/registrar-backend/internal/model"
	"github.com/scholartrack/registrar-backend/internal/service"
)

// stubAuthenticator returns a fixed result for every token.
type stubAuthenticator struct {
	user *model.User
	err  error
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, token string) (*model.User, error) {
	return s.user, s.err
}

func authRequest(t *testing.T, auth Authenticator, header string) (*httptest.ResponseRecorder, *model.User) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	var seen *model.User

	r := gin.New()
	r.GET("/protected", RequireAuth(auth), func(c *gin.Context) {
		seen = GetUser(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, seen
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) (code string, fields map[string]string) {
	t.Helper()

	var body struct {
		Error struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code, body.Error.Fields
}

func TestRequireAuthMissingToken(t *testing.T) {
	w, _ := authRequest(t, &stubAuthenticator{}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}

	w, _ = authRequest(t, &stubAuthenticator{}, "Basic abc")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("non-bearer scheme: status = %d", w.Code)
	}
}

func TestRequireAuthUnknownToken(t *testing.T) {
	w, _ := authRequest(t, &stubAuthenticator{err: service.ErrTokenUnknown}, "Bearer deadbeef")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	code, _ := decodeError(t, w)
	if code != "TOKEN_INVALID" {
		t.Errorf("code = %q", code)
	}
}

func TestRequireAuthInactivity(t *testing.T) {
	w, seen := authRequest(t, &stubAuthenticator{err: service.ErrInactivity}, "Bearer deadbeef")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if seen != nil {
		t.Error("handler must not run for an expired token")
	}

	code, fields := decodeError(t, w)
	if code != "INACTIVITY_LOGOUT" {
		t.Errorf("code = %q", code)
	}
	if fields["logout_reason"] != "inactivity" {
		t.Errorf("fields = %v; clients rely on logout_reason to explain the sign-out", fields)
	}
}

func TestRequireAuthSuccess(t *testing.T) {
	user := &model.User{ID: 7, Email: "registrar@example.com"}
	w, seen := authRequest(t, &stubAuthenticator{user: user}, "Bearer deadbeef")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if seen == nil || seen.ID != 7 {
		t.Errorf("context user = %+v", seen)
	}
}
