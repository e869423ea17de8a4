package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vendorvault/internal/model"
)

// ==================== 接口定义 ====================

// BrandRepository 品牌仓储接口，含分类-品牌绑定维护
type BrandRepository interface {
	List(ctx context.Context, filter BrandFilter) ([]model.Brand, int64, error)
	ListAll(ctx context.Context) ([]model.Brand, error)
	GetByID(ctx context.Context, id int64) (*model.Brand, error)
	Create(ctx context.Context, brand *model.Brand) error
	Update(ctx context.Context, brand *model.Brand) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	ListByCategory(ctx context.Context, categoryID int64) ([]model.Brand, error)
	ReplaceCategoryBinding(ctx context.Context, categoryID int64, brandIDs []int64) error
	CountCategoryBinding(ctx context.Context, brandID int64) (int64, error)

	WithTx(tx *gorm.DB) BrandRepository
}

// BrandFilter 品牌列表过滤条件
type BrandFilter struct {
	Name     string
	Page     int
	PageSize int
}

// ==================== 仓储实现 ====================

type brandRepo struct {
	db *gorm.DB
}

// NewBrandRepository 创建品牌仓储
func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepo{db: db}
}

func (r *brandRepo) List(ctx context.Context, filter BrandFilter) ([]model.Brand, int64, error) {
	var brands []model.Brand
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Brand{})
	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.
		Order("id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&brands).Error

	return brands, total, err
}

func (r *brandRepo) ListAll(ctx context.Context) ([]model.Brand, error) {
	var brands []model.Brand
	err := r.db.WithContext(ctx).Order("id ASC").Find(&brands).Error
	return brands, err
}

func (r *brandRepo) GetByID(ctx context.Context, id int64) (*model.Brand, error) {
	var brand model.Brand
	err := r.db.WithContext(ctx).First(&brand, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepo) Create(ctx context.Context, brand *model.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *brandRepo) Update(ctx context.Context, brand *model.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

func (r *brandRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Brand{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *brandRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Brand{}, id).Error
}

// ListByCategory 查询分类绑定的品牌
func (r *brandRepo) ListByCategory(ctx context.Context, categoryID int64) ([]model.Brand, error) {
	var brands []model.Brand
	err := r.db.WithContext(ctx).
		Joins("JOIN category_brands cb ON cb.brand_id = brands.id").
		Where("cb.category_id = ?", categoryID).
		Order("brands.id ASC").
		Find(&brands).Error
	return brands, err
}

// ReplaceCategoryBinding 全量替换分类的品牌绑定
func (r *brandRepo) ReplaceCategoryBinding(ctx context.Context, categoryID int64, brandIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", categoryID).
			Delete(&model.CategoryBrand{}).Error; err != nil {
			return err
		}
		if len(brandIDs) == 0 {
			return nil
		}
		bindings := make([]model.CategoryBrand, 0, len(brandIDs))
		for _, brandID := range brandIDs {
			bindings = append(bindings, model.CategoryBrand{
				CategoryID: categoryID,
				BrandID:    brandID,
			})
		}
		return tx.Create(&bindings).Error
	})
}

func (r *brandRepo) CountCategoryBinding(ctx context.Context, brandID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CategoryBrand{}).
		Where("brand_id = ?", brandID).
		Count(&count).Error
	return count, err
}

func (r *brandRepo) WithTx(tx *gorm.DB) BrandRepository {
	return &brandRepo{db: tx}
}
