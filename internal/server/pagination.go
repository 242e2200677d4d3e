package server

import (
	"strconv"
	"strings"

	"pixel-gallery/internal/web"

	"github.com/gin-gonic/gin"
)

// pageRequest is the gallery page a caller asked for, before it is checked
// against the number of published works.
type pageRequest struct {
	Page    int
	PerPage int
}

// paginationRequested reports whether the caller asked for a page at all.
func paginationRequested(c *gin.Context) bool {
	_, hasPage := c.GetQuery("page")
	_, hasPerPage := c.GetQuery("per_page")
	return hasPage || hasPerPage
}

// parsePageRequest reads page and per_page. Missing or non-positive values
// fall back to the first page of defaultPerPage works.
func parsePageRequest(c *gin.Context, defaultPerPage, maxPerPage int) pageRequest {
	req := pageRequest{
		Page:    positiveQuery(c, "page", 1),
		PerPage: positiveQuery(c, "per_page", defaultPerPage),
	}
	if maxPerPage > 0 && req.PerPage > maxPerPage {
		req.PerPage = maxPerPage
	}
	return req
}

func positiveQuery(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

// window clamps the request to the pages that exist for total works. The
// returned page is the one whose rows are served.
func (r pageRequest) window(basePath string, total int64) web.PaginationData {
	perPage := max(r.PerPage, 1)
	totalPages := max(int((total+int64(perPage)-1)/int64(perPage)), 1)
	page := min(max(r.Page, 1), totalPages)
	return web.PaginationData{
		BasePath:   basePath,
		Page:       page,
		PerPage:    perPage,
		Total:      int(total),
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   pageOrZero(page > 1, page-1),
		NextPage:   pageOrZero(page < totalPages, page+1),
	}
}

func pageOrZero(ok bool, page int) int {
	if !ok {
		return 0
	}
	return page
}
