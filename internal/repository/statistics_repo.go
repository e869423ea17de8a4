package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"vendorvault/internal/model"
)

// ==================== 接口定义 ====================

// TopGoodsRow 商品销量榜单行
type TopGoodsRow struct {
	GoodsID   int64   `json:"goodsId"`
	GoodsName string  `json:"goodsName"`
	SaleNum   int64   `json:"saleNum"`
	SaleTotal float64 `json:"saleTotal"`
}

// TopStoreRow 店铺销售榜单行
type TopStoreRow struct {
	StoreID   int64   `json:"storeId"`
	StoreName string  `json:"storeName"`
	SaleTotal float64 `json:"saleTotal"`
}

// StatisticsRepository 统计查询仓储接口，聚合类只读查询集中在此
type StatisticsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountStores(ctx context.Context, disable model.StoreDisable) (int64, error)
	CountGoods(ctx context.Context, authFlag model.AuthFlag) (int64, error)
	CountOrders(ctx context.Context, since time.Time) (int64, error)
	SumOrderAmount(ctx context.Context, status model.OrderStatus, since time.Time) (float64, error)
	TopGoodsBySale(ctx context.Context, storeID *int64, limit int) ([]TopGoodsRow, error)
	TopStoresBySale(ctx context.Context, limit int) ([]TopStoreRow, error)
}

// ==================== 仓储实现 ====================

type statisticsRepo struct {
	db *gorm.DB
}

// NewStatisticsRepository 创建统计仓储
func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepo{db: db}
}

func (r *statisticsRepo) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

func (r *statisticsRepo) CountStores(ctx context.Context, disable model.StoreDisable) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Store{})
	if disable != "" {
		query = query.Where("store_disable = ?", disable)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *statisticsRepo) CountGoods(ctx context.Context, authFlag model.AuthFlag) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Goods{})
	if authFlag != "" {
		query = query.Where("auth_flag = ?", authFlag)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *statisticsRepo) CountOrders(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Order{})
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *statisticsRepo) SumOrderAmount(ctx context.Context, status model.OrderStatus, since time.Time) (float64, error) {
	var total float64
	query := r.db.WithContext(ctx).Model(&model.Order{})
	if status != "" {
		query = query.Where("order_status = ?", status)
	}
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	err := query.Select("COALESCE(SUM(flow_price), 0)").Scan(&total).Error
	return total, err
}

// TopGoodsBySale 按已支付订单项汇总商品销量，storeID 为空时统计全平台
func (r *statisticsRepo) TopGoodsBySale(ctx context.Context, storeID *int64, limit int) ([]TopGoodsRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []TopGoodsRow
	query := r.db.WithContext(ctx).
		Model(&model.OrderItem{}).
		Select("order_items.goods_id AS goods_id, goods.goods_name AS goods_name, "+
			"SUM(order_items.num) AS sale_num, SUM(order_items.sub_total) AS sale_total").
		Joins("JOIN sub_orders ON sub_orders.id = order_items.sub_order_id").
		Joins("JOIN goods ON goods.id = order_items.goods_id").
		Where("sub_orders.status = ?", model.OrderPaid)
	if storeID != nil {
		query = query.Where("sub_orders.store_id = ?", *storeID)
	}
	err := query.
		Group("order_items.goods_id, goods.goods_name").
		Order("sale_num DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *statisticsRepo) TopStoresBySale(ctx context.Context, limit int) ([]TopStoreRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []TopStoreRow
	err := r.db.WithContext(ctx).
		Model(&model.SubOrder{}).
		Select("sub_orders.store_id AS store_id, stores.store_name AS store_name, "+
			"SUM(sub_orders.sub_total) AS sale_total").
		Joins("JOIN stores ON stores.id = sub_orders.store_id").
		Where("sub_orders.status = ?", model.OrderPaid).
		Group("sub_orders.store_id, stores.store_name").
		Order("sale_total DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
