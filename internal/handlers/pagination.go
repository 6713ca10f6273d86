package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"jobboard/api/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func pageFromQuery(c *gin.Context) models.Page {
	page := models.Page{Current: 1, PageSize: defaultPageSize}
	if v, err := strconv.Atoi(c.Query("current")); err == nil && v > 0 {
		page.Current = v
	}
	if v, err := strconv.Atoi(c.Query("pageSize")); err == nil && v > 0 {
		page.PageSize = min(v, maxPageSize)
	}
	return page
}

type paginated[T any] struct {
	Meta   models.PageMeta `json:"meta"`
	Result []T             `json:"result"`
}

func newPaginated[T any](items []T, meta models.PageMeta) paginated[T] {
	if items == nil {
		items = []T{}
	}
	return paginated[T]{Meta: meta, Result: items}
}
