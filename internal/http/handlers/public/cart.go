package public

import (
	handlershared "github.com/bookcart/internal/http/handlers/shared"
	"github.com/bookcart/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartRequest 加入购物车请求，数量缺省为 1
type AddCartRequest struct {
	BookID   uint `json:"book_id" form:"book_id"`
	Quantity *int `json:"quantity" form:"quantity"`
}

// UpdateCartRequest 修改数量请求
type UpdateCartRequest struct {
	Quantity *int `json:"quantity" form:"quantity"`
}

func quantityOrDefault(quantity *int) int {
	if quantity == nil {
		return 1
	}
	return *quantity
}

// GetCart 查看购物车
func (h *Handler) GetCart(c *gin.Context) {
	sess, ok := handlershared.RequireSession(c)
	if !ok {
		return
	}
	view, err := h.CartService.ViewCart(c.Request.Context(), sess)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// AddToCartByForm 通过表单字段 book_id 加入购物车
func (h *Handler) AddToCartByForm(c *gin.Context) {
	var req AddCartRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.quantity_invalid", err)
		return
	}
	if req.BookID == 0 {
		respondError(c, response.CodeBadRequest, "error.book_id_invalid", nil)
		return
	}
	h.addToCart(c, req.BookID, quantityOrDefault(req.Quantity))
}

// AddToCart 通过路径参数加入购物车
func (h *Handler) AddToCart(c *gin.Context) {
	bookID, ok := handlershared.ParseUintParam(c, "id", "error.book_id_invalid")
	if !ok {
		return
	}
	var req UpdateCartRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.quantity_invalid", err)
		return
	}
	h.addToCart(c, bookID, quantityOrDefault(req.Quantity))
}

func (h *Handler) addToCart(c *gin.Context, bookID uint, quantity int) {
	sess, ok := handlershared.RequireSession(c)
	if !ok {
		return
	}
	entry, err := h.CartService.AddToCart(c.Request.Context(), sess, bookID, quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"entry_id": entry.ID,
		"book_id":  entry.BookID,
		"quantity": entry.Quantity,
	})
}

// UpdateCart 修改购物车条目数量
func (h *Handler) UpdateCart(c *gin.Context) {
	entryID, ok := handlershared.ParseUintParam(c, "id", "error.cart_entry_id_invalid")
	if !ok {
		return
	}
	var req UpdateCartRequest
	if err := c.ShouldBind(&req); err != nil || req.Quantity == nil {
		respondError(c, response.CodeBadRequest, "error.quantity_invalid", err)
		return
	}
	sess, ok := handlershared.RequireSession(c)
	if !ok {
		return
	}
	if err := h.CartService.UpdateQuantity(c.Request.Context(), sess, entryID, *req.Quantity); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// RemoveItem 移除购物车条目，重复移除视为成功
func (h *Handler) RemoveItem(c *gin.Context) {
	entryID, ok := handlershared.ParseUintParam(c, "id", "error.cart_entry_id_invalid")
	if !ok {
		return
	}
	sess, ok := handlershared.RequireSession(c)
	if !ok {
		return
	}
	if err := h.CartService.RemoveEntry(c.Request.Context(), sess, entryID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"removed": true})
}
