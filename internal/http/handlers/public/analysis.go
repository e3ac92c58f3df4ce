package public

import (
	"github.com/bookcart/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Analysis 图书价格分析图表数据
func (h *Handler) Analysis(c *gin.Context) {
	chart, err := h.ReportService.PriceChart(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, chart)
}
