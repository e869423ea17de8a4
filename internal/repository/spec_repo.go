package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vendorvault/internal/model"
)

// ==================== 接口定义 ====================

// SpecRepository 规格仓储接口，含规格值与分类-规格绑定维护
type SpecRepository interface {
	List(ctx context.Context, filter SpecFilter) ([]model.Specification, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Specification, error)
	// FindByName 规格名查找：先匹配指定店铺的自有规格，再匹配平台规格
	FindByName(ctx context.Context, name string, storeID *int64) (*model.Specification, error)
	Create(ctx context.Context, spec *model.Specification) error
	Update(ctx context.Context, spec *model.Specification) error
	DeleteByIDs(ctx context.Context, ids []int64) error

	ListValues(ctx context.Context, specID int64) ([]model.SpecValue, error)
	ListValuesByIDs(ctx context.Context, ids []int64) ([]model.SpecValue, error)
	FindValue(ctx context.Context, specID int64, value string) (*model.SpecValue, error)
	CreateValue(ctx context.Context, value *model.SpecValue) error
	ReplaceValues(ctx context.Context, specID int64, values []string) error

	ListByCategory(ctx context.Context, categoryID int64) ([]model.Specification, error)
	ReplaceCategoryBinding(ctx context.Context, categoryID int64, specIDs []int64) error

	WithTx(tx *gorm.DB) SpecRepository
}

// SpecFilter 规格列表过滤条件
type SpecFilter struct {
	SpecName string
	StoreID  *int64
	Page     int
	PageSize int
}

// ==================== 仓储实现 ====================

type specRepo struct {
	db *gorm.DB
}

// NewSpecRepository 创建规格仓储
func NewSpecRepository(db *gorm.DB) SpecRepository {
	return &specRepo{db: db}
}

func (r *specRepo) List(ctx context.Context, filter SpecFilter) ([]model.Specification, int64, error) {
	var specs []model.Specification
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Specification{})
	if filter.SpecName != "" {
		query = query.Where("spec_name LIKE ?", "%"+filter.SpecName+"%")
	}
	if filter.StoreID != nil {
		// 店铺视角可见自有规格和平台规格
		query = query.Where("store_id = ? OR store_id IS NULL", *filter.StoreID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.
		Order("id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&specs).Error

	return specs, total, err
}

func (r *specRepo) GetByID(ctx context.Context, id int64) (*model.Specification, error) {
	var spec model.Specification
	err := r.db.WithContext(ctx).First(&spec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func (r *specRepo) FindByName(ctx context.Context, name string, storeID *int64) (*model.Specification, error) {
	var spec model.Specification
	if storeID != nil {
		err := r.db.WithContext(ctx).
			Where("LOWER(spec_name) = LOWER(?) AND store_id = ?", name, *storeID).
			First(&spec).Error
		if err == nil {
			return &spec, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	err := r.db.WithContext(ctx).
		Where("LOWER(spec_name) = LOWER(?) AND store_id IS NULL", name).
		First(&spec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func (r *specRepo) Create(ctx context.Context, spec *model.Specification) error {
	return r.db.WithContext(ctx).Create(spec).Error
}

func (r *specRepo) Update(ctx context.Context, spec *model.Specification) error {
	return r.db.WithContext(ctx).Save(spec).Error
}

func (r *specRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("spec_id IN ?", ids).Delete(&model.SpecValue{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Specification{}, ids).Error
	})
}

func (r *specRepo) ListValues(ctx context.Context, specID int64) ([]model.SpecValue, error) {
	var values []model.SpecValue
	err := r.db.WithContext(ctx).
		Where("spec_id = ?", specID).
		Order("id ASC").
		Find(&values).Error
	return values, err
}

func (r *specRepo) ListValuesByIDs(ctx context.Context, ids []int64) ([]model.SpecValue, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var values []model.SpecValue
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&values).Error
	return values, err
}

func (r *specRepo) FindValue(ctx context.Context, specID int64, value string) (*model.SpecValue, error) {
	var specValue model.SpecValue
	err := r.db.WithContext(ctx).
		Where("spec_id = ? AND spec_value = ?", specID, value).
		First(&specValue).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &specValue, nil
}

func (r *specRepo) CreateValue(ctx context.Context, value *model.SpecValue) error {
	return r.db.WithContext(ctx).Create(value).Error
}

// ReplaceValues 全量替换规格下的可选值
func (r *specRepo) ReplaceValues(ctx context.Context, specID int64, values []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("spec_id = ?", specID).Delete(&model.SpecValue{}).Error; err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}
		rows := make([]model.SpecValue, 0, len(values))
		for _, v := range values {
			rows = append(rows, model.SpecValue{SpecID: specID, SpecValue: v})
		}
		return tx.Create(&rows).Error
	})
}

func (r *specRepo) ListByCategory(ctx context.Context, categoryID int64) ([]model.Specification, error) {
	var specs []model.Specification
	err := r.db.WithContext(ctx).
		Joins("JOIN category_specs cs ON cs.spec_id = specifications.id").
		Where("cs.category_id = ?", categoryID).
		Order("specifications.id ASC").
		Find(&specs).Error
	return specs, err
}

func (r *specRepo) ReplaceCategoryBinding(ctx context.Context, categoryID int64, specIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", categoryID).
			Delete(&model.CategorySpec{}).Error; err != nil {
			return err
		}
		if len(specIDs) == 0 {
			return nil
		}
		bindings := make([]model.CategorySpec, 0, len(specIDs))
		for _, specID := range specIDs {
			bindings = append(bindings, model.CategorySpec{
				CategoryID: categoryID,
				SpecID:     specID,
			})
		}
		return tx.Create(&bindings).Error
	})
}

func (r *specRepo) WithTx(tx *gorm.DB) SpecRepository {
	return &specRepo{db: tx}
}
