package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vendorvault/internal/model"
)

// GoodsUnitRepository 计量单位仓储接口
type GoodsUnitRepository interface {
	ListAll(ctx context.Context) ([]model.GoodsUnit, error)
	GetByID(ctx context.Context, id int64) (*model.GoodsUnit, error)
	Create(ctx context.Context, unit *model.GoodsUnit) error
	Update(ctx context.Context, unit *model.GoodsUnit) error
	Delete(ctx context.Context, id int64) error
}

type goodsUnitRepo struct {
	db *gorm.DB
}

// NewGoodsUnitRepository 创建计量单位仓储
func NewGoodsUnitRepository(db *gorm.DB) GoodsUnitRepository {
	return &goodsUnitRepo{db: db}
}

func (r *goodsUnitRepo) ListAll(ctx context.Context) ([]model.GoodsUnit, error) {
	var units []model.GoodsUnit
	err := r.db.WithContext(ctx).Order("id ASC").Find(&units).Error
	return units, err
}

func (r *goodsUnitRepo) GetByID(ctx context.Context, id int64) (*model.GoodsUnit, error) {
	var unit model.GoodsUnit
	err := r.db.WithContext(ctx).First(&unit, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *goodsUnitRepo) Create(ctx context.Context, unit *model.GoodsUnit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *goodsUnitRepo) Update(ctx context.Context, unit *model.GoodsUnit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *goodsUnitRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.GoodsUnit{}, id).Error
}
