package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"vendorvault/internal/model"
)

// ==================== 接口定义 ====================

// StoreRepository 店铺仓储接口
type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	GetByID(ctx context.Context, id int64) (*model.Store, error)
	GetByName(ctx context.Context, name string) (*model.Store, error)
	Update(ctx context.Context, store *model.Store) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	List(ctx context.Context, filter StoreFilter) ([]model.Store, int64, error)
	ListOverdue(ctx context.Context, deadline time.Time) ([]model.Store, error)

	WithTx(tx *gorm.DB) StoreRepository
}

// StoreFilter 店铺列表过滤条件
type StoreFilter struct {
	StoreName    string
	StoreDisable model.StoreDisable
	Page         int
	PageSize     int
}

// ==================== 仓储实现 ====================

type storeRepo struct {
	db *gorm.DB
}

// NewStoreRepository 创建店铺仓储
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepo{db: db}
}

func (r *storeRepo) Create(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepo) GetByID(ctx context.Context, id int64) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).First(&store, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) GetByName(ctx context.Context, name string) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).Where("store_name = ?", name).First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) Update(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

func (r *storeRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Store{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *storeRepo) List(ctx context.Context, filter StoreFilter) ([]model.Store, int64, error) {
	var stores []model.Store
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Store{})
	if filter.StoreName != "" {
		query = query.Where("store_name LIKE ?", "%"+filter.StoreName+"%")
	}
	if filter.StoreDisable != "" {
		query = query.Where("store_disable = ?", filter.StoreDisable)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.
		Order("id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&stores).Error

	return stores, total, err
}

// ListOverdue 查询结算日早于 deadline 且仍在营业的店铺
func (r *storeRepo) ListOverdue(ctx context.Context, deadline time.Time) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).
		Where("store_disable = ?", model.StoreOpen).
		Where("payment_due_date < ?", deadline).
		Find(&stores).Error
	return stores, err
}

func (r *storeRepo) WithTx(tx *gorm.DB) StoreRepository {
	return &storeRepo{db: tx}
}
