package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"vendorvault/internal/model"
)

// ==================== 接口定义 ====================

// OrderRepository 订单仓储接口，含子订单与支付流水
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetBySn(ctx context.Context, sn string) (*model.Order, error)
	UpdateFieldsBySn(ctx context.Context, sn string, fields map[string]interface{}) error
	DeleteBySn(ctx context.Context, sn string) error
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	CountByUser(ctx context.Context, userID int64, status model.OrderStatus) (int64, error)

	GetSubOrder(ctx context.Context, id int64) (*model.SubOrder, error)
	ListSubOrders(ctx context.Context, filter SubOrderFilter) ([]model.SubOrder, int64, error)
	UpdateSubOrderFields(ctx context.Context, id int64, fields map[string]interface{}) error
	CountSubOrders(ctx context.Context, storeID int64, status model.OrderStatus) (int64, error)
	SumSubOrderAmount(ctx context.Context, storeID int64, status model.OrderStatus, since time.Time) (float64, error)

	CreatePaymentLog(ctx context.Context, log *model.PaymentLog) error
	UpdatePaymentLogBySn(ctx context.Context, orderSn string, fields map[string]interface{}) error
	ListPaymentLogs(ctx context.Context, filter PaymentLogFilter) ([]model.PaymentLog, int64, error)

	WithTx(tx *gorm.DB) OrderRepository
}

// OrderFilter 订单列表过滤条件
type OrderFilter struct {
	Sn          string
	UserID      *int64
	OrderStatus model.OrderStatus
	Page        int
	PageSize    int
}

// SubOrderFilter 子订单列表过滤条件
type SubOrderFilter struct {
	StoreID  *int64
	Status   model.OrderStatus
	OrderSn  string
	Page     int
	PageSize int
}

// PaymentLogFilter 支付流水过滤条件
type PaymentLogFilter struct {
	UserID    *int64
	StoreID   *int64
	PayStatus string
	Page      int
	PageSize  int
}

// ==================== 仓储实现 ====================

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepo) GetBySn(ctx context.Context, sn string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("SubOrders").
		Preload("SubOrders.Items").
		Preload("SubOrders.Store").
		Where("sn = ?", sn).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) UpdateFieldsBySn(ctx context.Context, sn string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("sn = ?", sn).
		Updates(fields).Error
}

func (r *orderRepo) DeleteBySn(ctx context.Context, sn string) error {
	return r.db.WithContext(ctx).
		Where("sn = ?", sn).
		Delete(&model.Order{}).Error
}

func (r *orderRepo) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.Sn != "" {
		query = query.Where("sn = ?", filter.Sn)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.OrderStatus != "" {
		query = query.Where("order_status = ?", filter.OrderStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.
		Preload("SubOrders").
		Preload("SubOrders.Items").
		Order("id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepo) CountByUser(ctx context.Context, userID int64, status model.OrderStatus) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("order_status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *orderRepo) GetSubOrder(ctx context.Context, id int64) (*model.SubOrder, error) {
	var sub model.SubOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *orderRepo) ListSubOrders(ctx context.Context, filter SubOrderFilter) ([]model.SubOrder, int64, error) {
	var subs []model.SubOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&model.SubOrder{})
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderSn != "" {
		query = query.Where("order_sn = ?", filter.OrderSn)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.
		Preload("Items").
		Order("id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&subs).Error

	return subs, total, err
}

func (r *orderRepo) UpdateSubOrderFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.SubOrder{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *orderRepo) CountSubOrders(ctx context.Context, storeID int64, status model.OrderStatus) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&model.SubOrder{}).
		Where("store_id = ?", storeID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

// SumSubOrderAmount 统计店铺指定状态子订单自 since 以来的金额合计
func (r *orderRepo) SumSubOrderAmount(ctx context.Context, storeID int64, status model.OrderStatus, since time.Time) (float64, error) {
	var total float64
	query := r.db.WithContext(ctx).
		Model(&model.SubOrder{}).
		Where("store_id = ?", storeID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	err := query.Select("COALESCE(SUM(sub_total), 0)").Scan(&total).Error
	return total, err
}

func (r *orderRepo) CreatePaymentLog(ctx context.Context, log *model.PaymentLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *orderRepo) UpdatePaymentLogBySn(ctx context.Context, orderSn string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.PaymentLog{}).
		Where("order_sn = ?", orderSn).
		Updates(fields).Error
}

func (r *orderRepo) ListPaymentLogs(ctx context.Context, filter PaymentLogFilter) ([]model.PaymentLog, int64, error) {
	var logs []model.PaymentLog
	var total int64

	query := r.db.WithContext(ctx).Model(&model.PaymentLog{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.PayStatus != "" {
		query = query.Where("pay_status = ?", filter.PayStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.
		Order("id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&logs).Error

	return logs, total, err
}

func (r *orderRepo) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepo{db: tx}
}
