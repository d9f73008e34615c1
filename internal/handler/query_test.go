package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func listContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestParseListQuery(t *testing.T) {
	q := parseListQuery(listContext(t, "search=reyes&page=3&limit=25"), false)
	if q.Search != "reyes" || q.Page != 3 || q.Limit != 25 || q.Trashed {
		t.Errorf("unexpected query: %+v", q)
	}

	// Defaults.
	q = parseListQuery(listContext(t, ""), true)
	if q.Page != 1 || q.Limit != 10 || !q.Trashed {
		t.Errorf("unexpected defaults: %+v", q)
	}

	// Garbage and out-of-range values fall back to defaults.
	q = parseListQuery(listContext(t, "page=zero&limit=-5"), false)
	if q.Page != 1 || q.Limit != 10 {
		t.Errorf("bad values should fall back: %+v", q)
	}

	// The -1 sentinel passes through.
	q = parseListQuery(listContext(t, "limit=-1"), false)
	if q.Limit != -1 {
		t.Errorf("limit = %d", q.Limit)
	}
}

func TestPageCount(t *testing.T) {
	cases := []struct {
		total, limit, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 10, 10},
		{0, -1, 1},
		{5000, -1, 1},
	}
	for _, tc := range cases {
		if got := pageCount(tc.total, tc.limit); got != tc.want {
			t.Errorf("pageCount(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}

func TestEffectivePage(t *testing.T) {
	if got := effectivePage(4, 10); got != 4 {
		t.Errorf("effectivePage(4, 10) = %d", got)
	}
	if got := effectivePage(4, -1); got != 1 {
		t.Errorf("effectivePage(4, -1) = %d", got)
	}
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "17"}}
	if id, ok := parseID(c); !ok || id != 17 {
		t.Errorf("parseID = %d, %v", id, ok)
	}

	for _, bad := range []string{"0", "-3", "abc", ""} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: bad}}
		if _, ok := parseID(c); ok {
			t.Errorf("parseID(%q) should fail", bad)
		}
	}
}
