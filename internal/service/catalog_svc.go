package service

import (
	"context"

	"vendorvault/internal/model"
	"vendorvault/internal/repository"
	"vendorvault/pkg/errs"
)

// ==================== 视图结构 ====================

// CategoryNode 分类树节点
type CategoryNode struct {
	model.Category
	Children []*CategoryNode `json:"children"`
}

// ==================== 服务实现 ====================

// CatalogService 类目服务：分类树、品牌、规格、计量单位及分类绑定
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	brandRepo    repository.BrandRepository
	specRepo     repository.SpecRepository
	unitRepo     repository.GoodsUnitRepository
	goodsRepo    repository.GoodsRepository
}

// NewCatalogService 创建类目服务
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	brandRepo repository.BrandRepository,
	specRepo repository.SpecRepository,
	unitRepo repository.GoodsUnitRepository,
	goodsRepo repository.GoodsRepository,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		specRepo:     specRepo,
		unitRepo:     unitRepo,
		goodsRepo:    goodsRepo,
	}
}

// ==================== 分类树 ====================

// CategoryTree 一次查询全量分类并在内存组树。
// 先按父 ID 建立子节点索引，再挂树，整体只扫两遍；
// 父节点缺失的节点不会出现在结果里。
func (s *CatalogService) CategoryTree(ctx context.Context) ([]*CategoryNode, error) {
	categories, err := s.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "查询分类失败")
	}
	return buildCategoryTree(categories), nil
}

func buildCategoryTree(categories []model.Category) []*CategoryNode {
	nodes := make(map[int64]*CategoryNode, len(categories))
	for i := range categories {
		nodes[categories[i].ID] = &CategoryNode{
			Category: categories[i],
			Children: []*CategoryNode{},
		}
	}

	roots := make([]*CategoryNode, 0)
	for i := range categories {
		node := nodes[categories[i].ID]
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*node.ParentID]
		if !ok {
			// 父节点缺失，挂不上树，直接丢弃
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}

// ==================== 分类维护 ====================

// CreateCategory 新增分类：父分类必须存在，层级不超过三级
func (s *CatalogService) CreateCategory(ctx context.Context, category *model.Category) error {
	level := 1
	if category.ParentID != nil {
		parent, err := s.categoryRepo.GetByID(ctx, *category.ParentID)
		if err != nil {
			return errs.Wrap(err, "查询父分类失败")
		}
		if parent == nil {
			return errs.ErrCategoryParentNotExist
		}
		level = parent.Level + 1
		if level > 3 {
			return errs.ErrCategoryBeyondThree
		}
	}
	category.Level = level
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return errs.Wrap(err, "创建分类失败")
	}
	return nil
}

// UpdateCategory 更新分类，父分类变更时重新校验层级
func (s *CatalogService) UpdateCategory(ctx context.Context, category *model.Category) error {
	existing, err := s.categoryRepo.GetByID(ctx, category.ID)
	if err != nil {
		return errs.Wrap(err, "查询分类失败")
	}
	if existing == nil {
		return errs.ErrCategoryNotExist
	}

	level := 1
	if category.ParentID != nil {
		parent, err := s.categoryRepo.GetByID(ctx, *category.ParentID)
		if err != nil {
			return errs.Wrap(err, "查询父分类失败")
		}
		if parent == nil {
			return errs.ErrCategoryParentNotExist
		}
		level = parent.Level + 1
		if level > 3 {
			return errs.ErrCategoryBeyondThree
		}
	}
	category.Level = level
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return errs.Wrap(err, "更新分类失败")
	}
	return nil
}

// DeleteCategory 删除分类：有子分类或挂有商品的分类不允许删
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	existing, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return errs.Wrap(err, "查询分类失败")
	}
	if existing == nil {
		return errs.ErrCategoryNotExist
	}

	children, err := s.categoryRepo.CountChildren(ctx, id)
	if err != nil {
		return errs.Wrap(err, "查询子分类失败")
	}
	if children > 0 {
		return errs.ErrCategoryHasChildren
	}

	goodsCount, err := s.goodsRepo.CountByCategory(ctx, id)
	if err != nil {
		return errs.Wrap(err, "查询分类商品失败")
	}
	if goodsCount > 0 {
		return errs.ErrCategoryHasGoods
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return errs.Wrap(err, "删除分类失败")
	}
	return nil
}

// ==================== 品牌 ====================

// ListBrands 分页查询品牌
func (s *CatalogService) ListBrands(ctx context.Context, filter repository.BrandFilter) ([]model.Brand, int64, error) {
	brands, total, err := s.brandRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, errs.Wrap(err, "查询品牌失败")
	}
	return brands, total, nil
}

// ListAllBrands 查询全部品牌
func (s *CatalogService) ListAllBrands(ctx context.Context) ([]model.Brand, error) {
	brands, err := s.brandRepo.ListAll(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "查询品牌失败")
	}
	return brands, nil
}

// CreateBrand 新增品牌
func (s *CatalogService) CreateBrand(ctx context.Context, brand *model.Brand) error {
	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return errs.Wrap(err, "创建品牌失败")
	}
	return nil
}

// UpdateBrand 更新品牌
func (s *CatalogService) UpdateBrand(ctx context.Context, brand *model.Brand) error {
	if err := s.brandRepo.Update(ctx, brand); err != nil {
		return errs.Wrap(err, "更新品牌失败")
	}
	return nil
}

// DeleteBrand 删除品牌，仍被分类绑定的品牌不允许删
func (s *CatalogService) DeleteBrand(ctx context.Context, id int64) error {
	bound, err := s.brandRepo.CountCategoryBinding(ctx, id)
	if err != nil {
		return errs.Wrap(err, "查询品牌绑定失败")
	}
	if bound > 0 {
		return errs.ErrBrandHasCategory
	}
	if err := s.brandRepo.Delete(ctx, id); err != nil {
		return errs.Wrap(err, "删除品牌失败")
	}
	return nil
}

// ListCategoryBrands 查询分类绑定的品牌
func (s *CatalogService) ListCategoryBrands(ctx context.Context, categoryID int64) ([]model.Brand, error) {
	brands, err := s.brandRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, errs.Wrap(err, "查询分类品牌失败")
	}
	return brands, nil
}

// BindCategoryBrands 全量替换分类的品牌绑定
func (s *CatalogService) BindCategoryBrands(ctx context.Context, categoryID int64, brandIDs []int64) error {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return errs.Wrap(err, "查询分类失败")
	}
	if category == nil {
		return errs.ErrCategoryNotExist
	}
	if err := s.brandRepo.ReplaceCategoryBinding(ctx, categoryID, brandIDs); err != nil {
		return errs.Wrap(err, "绑定品牌失败")
	}
	return nil
}

// ==================== 规格 ====================

// ListSpecs 分页查询规格
func (s *CatalogService) ListSpecs(ctx context.Context, filter repository.SpecFilter) ([]model.Specification, int64, error) {
	specs, total, err := s.specRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, errs.Wrap(err, "查询规格失败")
	}
	return specs, total, nil
}

// SaveSpec 新增或更新规格及其可选值
func (s *CatalogService) SaveSpec(ctx context.Context, spec *model.Specification, values []string) error {
	if spec.ID == 0 {
		if err := s.specRepo.Create(ctx, spec); err != nil {
			return errs.Wrap(err, "创建规格失败")
		}
	} else {
		if err := s.specRepo.Update(ctx, spec); err != nil {
			return errs.Wrap(err, "更新规格失败")
		}
	}
	if err := s.specRepo.ReplaceValues(ctx, spec.ID, values); err != nil {
		return errs.Wrap(err, "保存规格值失败")
	}
	return nil
}

// DeleteSpecs 批量删除规格及其可选值
func (s *CatalogService) DeleteSpecs(ctx context.Context, ids []int64) error {
	if err := s.specRepo.DeleteByIDs(ctx, ids); err != nil {
		return errs.Wrap(err, "删除规格失败")
	}
	return nil
}

// ListSpecValues 查询规格的可选值
func (s *CatalogService) ListSpecValues(ctx context.Context, specID int64) ([]model.SpecValue, error) {
	values, err := s.specRepo.ListValues(ctx, specID)
	if err != nil {
		return nil, errs.Wrap(err, "查询规格值失败")
	}
	return values, nil
}

// ListCategorySpecs 查询分类绑定的规格
func (s *CatalogService) ListCategorySpecs(ctx context.Context, categoryID int64) ([]model.Specification, error) {
	specs, err := s.specRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, errs.Wrap(err, "查询分类规格失败")
	}
	return specs, nil
}

// BindCategorySpecs 全量替换分类的规格绑定
func (s *CatalogService) BindCategorySpecs(ctx context.Context, categoryID int64, specIDs []int64) error {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return errs.Wrap(err, "查询分类失败")
	}
	if category == nil {
		return errs.ErrCategoryNotExist
	}
	if err := s.specRepo.ReplaceCategoryBinding(ctx, categoryID, specIDs); err != nil {
		return errs.Wrap(err, "绑定规格失败")
	}
	return nil
}

// ==================== 计量单位 ====================

// ListUnits 查询全部计量单位
func (s *CatalogService) ListUnits(ctx context.Context) ([]model.GoodsUnit, error) {
	units, err := s.unitRepo.ListAll(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "查询计量单位失败")
	}
	return units, nil
}

// SaveUnit 新增或更新计量单位
func (s *CatalogService) SaveUnit(ctx context.Context, unit *model.GoodsUnit) error {
	var err error
	if unit.ID == 0 {
		err = s.unitRepo.Create(ctx, unit)
	} else {
		err = s.unitRepo.Update(ctx, unit)
	}
	if err != nil {
		return errs.Wrap(err, "保存计量单位失败")
	}
	return nil
}

// DeleteUnit 删除计量单位
func (s *CatalogService) DeleteUnit(ctx context.Context, id int64) error {
	if err := s.unitRepo.Delete(ctx, id); err != nil {
		return errs.Wrap(err, "删除计量单位失败")
	}
	return nil
}
