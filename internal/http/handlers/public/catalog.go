package public

import (
	"strings"

	handlershared "github.com/bookcart/internal/http/handlers/shared"
	"github.com/bookcart/internal/http/response"
	"github.com/bookcart/internal/repository"

	"github.com/gin-gonic/gin"
)

// Dashboard 图书目录
func (h *Handler) Dashboard(c *gin.Context) {
	h.listBooks(c, "")
}

// Search 按书名关键字搜索，关键字为空时等同目录
func (h *Handler) Search(c *gin.Context) {
	h.listBooks(c, strings.TrimSpace(c.Query("query")))
}

func (h *Handler) listBooks(c *gin.Context, query string) {
	page, pageSize := handlershared.ReadPagination(c)
	result, err := h.CatalogService.ListBooks(c.Request.Context(), repository.BookListFilter{
		Page:     page,
		PageSize: pageSize,
		Query:    query,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, gin.H{
		"query": query,
		"books": result.Books,
	}, page, pageSize, result.Total)
}
