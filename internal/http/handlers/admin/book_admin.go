package admin

import (
	handlershared "github.com/bookcart/internal/http/handlers/shared"
	"github.com/bookcart/internal/http/response"
	"github.com/bookcart/internal/repository"
	"github.com/bookcart/internal/service"

	"github.com/gin-gonic/gin"
)

// ListBooks 管理端图书列表
func (h *Handler) ListBooks(c *gin.Context) {
	page, pageSize := handlershared.ReadPagination(c)
	result, err := h.CatalogService.ListBooks(c.Request.Context(), repository.BookListFilter{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, result.Books, page, pageSize, result.Total)
}

// CreateBook 新增图书
func (h *Handler) CreateBook(c *gin.Context) {
	var input service.BookInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	book, err := h.CatalogService.CreateBook(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	handlershared.RequestLog(c).Infow("admin_book_created", "book_id", book.ID, "operator_id", operatorID(c))
	response.Success(c, book)
}

// GetBook 编辑页：读取图书
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id", "error.book_id_invalid")
	if !ok {
		return
	}
	book, err := h.CatalogService.GetBook(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, book)
}

// UpdateBook 修改图书
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id", "error.book_id_invalid")
	if !ok {
		return
	}
	var input service.BookInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	book, err := h.CatalogService.UpdateBook(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	handlershared.RequestLog(c).Infow("admin_book_updated", "book_id", book.ID, "operator_id", operatorID(c))
	response.Success(c, book)
}

// DeleteBook 删除图书
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id", "error.book_id_invalid")
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteBook(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	handlershared.RequestLog(c).Infow("admin_book_deleted", "book_id", id, "operator_id", operatorID(c))
	response.Success(c, gin.H{"deleted": true})
}

func operatorID(c *gin.Context) uint {
	if sess := handlershared.SessionFrom(c); sess != nil {
		return sess.UserID
	}
	return 0
}
