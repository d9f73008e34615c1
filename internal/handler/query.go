package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// listQuery is the common paging/search query shape shared by the
// collection endpoints.
type listQuery struct {
	Search  string
	Page    int
	Limit   int
	Trashed bool
}

// parseListQuery reads page/limit/search from the query string. A limit of
// -1 disables pagination and returns the full set.
func parseListQuery(c *gin.Context, trashed bool) listQuery {
	q := listQuery{
		Search:  c.Query("search"),
		Page:    1,
		Limit:   10,
		Trashed: trashed,
	}
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && v > 0 {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && (v > 0 || v == -1) {
		q.Limit = v
	}
	return q
}

// pageCount computes the page total for a listing; the -1 limit sentinel
// collapses to a single page.
func pageCount(total, limit int) int {
	if limit == -1 {
		return 1
	}
	if limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return pages
}

// effectivePage returns the page number to report; the -1 limit sentinel
// always reports page 1.
func effectivePage(page, limit int) int {
	if limit == -1 {
		return 1
	}
	return page
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
