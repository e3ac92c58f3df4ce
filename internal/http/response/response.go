package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const requestIDKey = "request_id"

// Envelope 书城接口统一响应，HTTP 状态码固定 200，业务结果看 status_code
type Envelope struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"` // 仅目录与订单列表
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// NewPagination 由页码与总数计算总页数
func NewPagination(page, pageSize int, total int64) *Pagination {
	var totalPage int64
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return &Pagination{Page: page, PageSize: pageSize, Total: total, TotalPage: totalPage}
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{StatusCode: CodeOK, Msg: "success", Data: data})
}

// SuccessWithPage 列表成功响应
func SuccessWithPage(c *gin.Context, data interface{}, page, pageSize int, total int64) {
	c.JSON(http.StatusOK, Envelope{
		StatusCode: CodeOK,
		Msg:        "success",
		Data:       data,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// Error 错误响应，data 中带上 request_id 便于按日志排查
func Error(c *gin.Context, statusCode int, msg string) {
	c.JSON(http.StatusOK, Envelope{StatusCode: statusCode, Msg: msg, Data: errorData(c)})
}

// Abort 写出错误响应并终止后续中间件与处理器
func Abort(c *gin.Context, statusCode int, msg string) {
	Error(c, statusCode, msg)
	c.Abort()
}

func errorData(c *gin.Context) interface{} {
	if c == nil {
		return nil
	}
	if id := c.GetString(requestIDKey); id != "" {
		return gin.H{requestIDKey: id}
	}
	return nil
}
