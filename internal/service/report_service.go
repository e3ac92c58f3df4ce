package service

import (
	"context"

	"github.com/bookcart/internal/models"
	"github.com/bookcart/internal/repository"
)

// PricePoint 价格分析数据点
type PricePoint struct {
	Name  string       `json:"name"`
	Price models.Money `json:"price"`
}

// PriceChartTrace 柱状图数据序列
type PriceChartTrace struct {
	Type   string            `json:"type"`
	X      []string          `json:"x"`
	Y      []float64         `json:"y"`
	Marker map[string]string `json:"marker"`
}

// PriceChartLayout 图表布局
type PriceChartLayout struct {
	Title      string `json:"title"`
	XAxisTitle string `json:"xaxis_title"`
	YAxisTitle string `json:"yaxis_title"`
	Template   string `json:"template"`
}

// PriceChart 可直接交给前端绘图库渲染的图表描述
type PriceChart struct {
	Data   []PriceChartTrace `json:"data"`
	Layout PriceChartLayout  `json:"layout"`
}

// ReportService 价格分析服务
type ReportService struct {
	bookRepo repository.BookRepository
}

// NewReportService 创建分析服务
func NewReportService(bookRepo repository.BookRepository) *ReportService {
	return &ReportService{bookRepo: bookRepo}
}

// PriceReport 返回全部图书的书名与价格，顺序与目录一致
func (s *ReportService) PriceReport(ctx context.Context) ([]PricePoint, error) {
	books, err := s.bookRepo.ListAll(ctx)
	if err != nil {
		return nil, wrapStorage("price report", err)
	}
	points := make([]PricePoint, 0, len(books))
	for _, book := range books {
		points = append(points, PricePoint{Name: book.Name, Price: book.Price})
	}
	return points, nil
}

// PriceChart 生成价格柱状图
func (s *ReportService) PriceChart(ctx context.Context) (*PriceChart, error) {
	points, err := s.PriceReport(ctx)
	if err != nil {
		return nil, err
	}
	trace := PriceChartTrace{
		Type:   "bar",
		X:      make([]string, 0, len(points)),
		Y:      make([]float64, 0, len(points)),
		Marker: map[string]string{"color": "orange"},
	}
	for _, point := range points {
		trace.X = append(trace.X, point.Name)
		trace.Y = append(trace.Y, point.Price.InexactFloat64())
	}
	return &PriceChart{
		Data: []PriceChartTrace{trace},
		Layout: PriceChartLayout{
			Title:      "Book Prices",
			XAxisTitle: "Book Name",
			YAxisTitle: "Price ($)",
			Template:   "plotly_dark",
		},
	}, nil
}
