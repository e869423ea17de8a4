package service

import (
	"context"
	"time"

	"vendorvault/internal/model"
	"vendorvault/internal/repository"
	"vendorvault/pkg/errs"
)

// PlatformDashboard 平台总览看板
type PlatformDashboard struct {
	UserTotal       int64   `json:"userTotal"`
	StoreTotal      int64   `json:"storeTotal"`
	StoreApplying   int64   `json:"storeApplying"`
	GoodsTotal      int64   `json:"goodsTotal"`
	GoodsWaitAudit  int64   `json:"goodsWaitAudit"`
	OrderTotal      int64   `json:"orderTotal"`
	TodayOrderNum   int64   `json:"todayOrderNum"`
	TotalSales      float64 `json:"totalSales"`
	TodaySales      float64 `json:"todaySales"`
}

// StatisticsService 平台统计服务
type StatisticsService struct {
	statsRepo repository.StatisticsRepository
}

// NewStatisticsService 创建平台统计服务
func NewStatisticsService(statsRepo repository.StatisticsRepository) *StatisticsService {
	return &StatisticsService{statsRepo: statsRepo}
}

// Dashboard 平台总览
func (s *StatisticsService) Dashboard(ctx context.Context) (*PlatformDashboard, error) {
	users, err := s.statsRepo.CountUsers(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "统计用户失败")
	}
	stores, err := s.statsRepo.CountStores(ctx, "")
	if err != nil {
		return nil, errs.Wrap(err, "统计店铺失败")
	}
	applying, err := s.statsRepo.CountStores(ctx, model.StoreApplying)
	if err != nil {
		return nil, errs.Wrap(err, "统计店铺失败")
	}
	goods, err := s.statsRepo.CountGoods(ctx, "")
	if err != nil {
		return nil, errs.Wrap(err, "统计商品失败")
	}
	waitAudit, err := s.statsRepo.CountGoods(ctx, model.AuthToBeAudited)
	if err != nil {
		return nil, errs.Wrap(err, "统计商品失败")
	}
	orders, err := s.statsRepo.CountOrders(ctx, time.Time{})
	if err != nil {
		return nil, errs.Wrap(err, "统计订单失败")
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayOrders, err := s.statsRepo.CountOrders(ctx, todayStart)
	if err != nil {
		return nil, errs.Wrap(err, "统计订单失败")
	}
	totalSales, err := s.statsRepo.SumOrderAmount(ctx, model.OrderPaid, time.Time{})
	if err != nil {
		return nil, errs.Wrap(err, "统计销售额失败")
	}
	todaySales, err := s.statsRepo.SumOrderAmount(ctx, model.OrderPaid, todayStart)
	if err != nil {
		return nil, errs.Wrap(err, "统计销售额失败")
	}

	return &PlatformDashboard{
		UserTotal:      users,
		StoreTotal:     stores,
		StoreApplying:  applying,
		GoodsTotal:     goods,
		GoodsWaitAudit: waitAudit,
		OrderTotal:     orders,
		TodayOrderNum:  todayOrders,
		TotalSales:     totalSales,
		TodaySales:     todaySales,
	}, nil
}

// TopGoods 平台商品销量榜
func (s *StatisticsService) TopGoods(ctx context.Context, limit int) ([]repository.TopGoodsRow, error) {
	rows, err := s.statsRepo.TopGoodsBySale(ctx, nil, limit)
	if err != nil {
		return nil, errs.Wrap(err, "统计销量失败")
	}
	return rows, nil
}

// TopStores 平台店铺销售榜
func (s *StatisticsService) TopStores(ctx context.Context, limit int) ([]repository.TopStoreRow, error) {
	rows, err := s.statsRepo.TopStoresBySale(ctx, limit)
	if err != nil {
		return nil, errs.Wrap(err, "统计销量失败")
	}
	return rows, nil
}
