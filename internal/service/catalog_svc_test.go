package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"vendorvault/internal/model"
	"vendorvault/internal/repository"
	"vendorvault/pkg/errs"
)

func newCatalogService(db *gorm.DB) *CatalogService {
	return NewCatalogService(
		repository.NewCategoryRepository(db),
		repository.NewBrandRepository(db),
		repository.NewSpecRepository(db),
		repository.NewGoodsUnitRepository(db),
		repository.NewGoodsRepository(db),
	)
}

// ==================== 分类树 ====================

func TestCatalogService_CategoryTree(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	ctx := context.Background()

	root1 := &model.Category{Name: "服饰", Level: 1, SortOrder: 1}
	root2 := &model.Category{Name: "家居", Level: 1, SortOrder: 2}
	db.Create(root1)
	db.Create(root2)

	child1 := &model.Category{Name: "男装", ParentID: &root1.ID, Level: 2}
	child2 := &model.Category{Name: "女装", ParentID: &root1.ID, Level: 2}
	db.Create(child1)
	db.Create(child2)

	grandchild := &model.Category{Name: "T恤", ParentID: &child1.ID, Level: 3}
	db.Create(grandchild)

	// 父节点不存在的孤儿节点
	missing := int64(9999)
	orphan := &model.Category{Name: "孤儿分类", ParentID: &missing, Level: 2}
	db.Create(orphan)

	tree, err := svc.CategoryTree(ctx)
	if err != nil {
		t.Fatalf("构建分类树失败: %v", err)
	}

	if len(tree) != 2 {
		t.Fatalf("根节点数量错误: 期望 2，实际 %d", len(tree))
	}
	if tree[0].Name != "服饰" || tree[1].Name != "家居" {
		t.Errorf("根节点顺序错误: %s, %s", tree[0].Name, tree[1].Name)
	}
	if len(tree[0].Children) != 2 {
		t.Fatalf("服饰子分类数量错误: 期望 2，实际 %d", len(tree[0].Children))
	}
	if len(tree[0].Children[0].Children) != 1 {
		t.Errorf("三级分类未挂载: %+v", tree[0].Children[0].Children)
	}
	if len(tree[1].Children) != 0 {
		t.Errorf("家居不应有子分类: %d", len(tree[1].Children))
	}

	// 孤儿节点不应出现在树的任何位置
	var walk func(nodes []*CategoryNode) bool
	walk = func(nodes []*CategoryNode) bool {
		for _, n := range nodes {
			if n.Name == "孤儿分类" {
				return true
			}
			if walk(n.Children) {
				return true
			}
		}
		return false
	}
	if walk(tree) {
		t.Error("孤儿节点不应出现在分类树中")
	}
}

func TestCatalogService_CreateCategory_ParentNotExist(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)

	missing := int64(123)
	err := svc.CreateCategory(context.Background(), &model.Category{
		Name:     "无家可归",
		ParentID: &missing,
	})
	if !errors.Is(err, errs.ErrCategoryParentNotExist) {
		t.Errorf("期望 CATEGORY_PARENT_NOT_EXIST，实际 %v", err)
	}
}

func TestCatalogService_CreateCategory_BeyondThreeLevels(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	ctx := context.Background()

	root := &model.Category{Name: "一级"}
	if err := svc.CreateCategory(ctx, root); err != nil {
		t.Fatalf("创建一级分类失败: %v", err)
	}
	second := &model.Category{Name: "二级", ParentID: &root.ID}
	if err := svc.CreateCategory(ctx, second); err != nil {
		t.Fatalf("创建二级分类失败: %v", err)
	}
	third := &model.Category{Name: "三级", ParentID: &second.ID}
	if err := svc.CreateCategory(ctx, third); err != nil {
		t.Fatalf("创建三级分类失败: %v", err)
	}
	if third.Level != 3 {
		t.Errorf("三级分类层级错误: %d", third.Level)
	}

	fourth := &model.Category{Name: "四级", ParentID: &third.ID}
	err := svc.CreateCategory(ctx, fourth)
	if !errors.Is(err, errs.ErrCategoryBeyondThree) {
		t.Errorf("期望 CATEGORY_BEYOND_THREE，实际 %v", err)
	}
}

func TestCatalogService_DeleteCategory_Guards(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	ctx := context.Background()

	parent := &model.Category{Name: "父分类", Level: 1}
	db.Create(parent)
	child := &model.Category{Name: "子分类", ParentID: &parent.ID, Level: 2}
	db.Create(child)

	// 有子分类不能删
	if err := svc.DeleteCategory(ctx, parent.ID); !errors.Is(err, errs.ErrCategoryHasChildren) {
		t.Errorf("期望 CATEGORY_HAS_CHILDREN，实际 %v", err)
	}

	// 挂有商品不能删
	store := seedStore(t, db, "测试店铺")
	db.Create(&model.Goods{GoodsName: "挂在子分类的商品", StoreID: store.ID, CategoryID: &child.ID})
	if err := svc.DeleteCategory(ctx, child.ID); !errors.Is(err, errs.ErrCategoryHasGoods) {
		t.Errorf("期望 CATEGORY_HAS_GOODS，实际 %v", err)
	}

	// 空分类正常删除（逻辑删除）
	leaf := &model.Category{Name: "空分类", Level: 1}
	db.Create(leaf)
	if err := svc.DeleteCategory(ctx, leaf.ID); err != nil {
		t.Fatalf("删除空分类失败: %v", err)
	}
	tree, err := svc.CategoryTree(ctx)
	if err != nil {
		t.Fatalf("构建分类树失败: %v", err)
	}
	for _, n := range tree {
		if n.Name == "空分类" {
			t.Error("已删除分类不应出现在树中")
		}
	}
}

// ==================== 品牌 ====================

func TestCatalogService_DeleteBrand_BoundToCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	ctx := context.Background()

	category := &model.Category{Name: "数码", Level: 1}
	db.Create(category)
	brand := &model.Brand{Name: "TestBrand"}
	db.Create(brand)

	if err := svc.BindCategoryBrands(ctx, category.ID, []int64{brand.ID}); err != nil {
		t.Fatalf("绑定品牌失败: %v", err)
	}
	if err := svc.DeleteBrand(ctx, brand.ID); !errors.Is(err, errs.ErrBrandHasCategory) {
		t.Errorf("期望 BRAND_HAS_CATEGORY，实际 %v", err)
	}

	// 解绑后可删
	if err := svc.BindCategoryBrands(ctx, category.ID, nil); err != nil {
		t.Fatalf("解绑品牌失败: %v", err)
	}
	if err := svc.DeleteBrand(ctx, brand.ID); err != nil {
		t.Errorf("解绑后删除品牌失败: %v", err)
	}
}

func TestCatalogService_BindCategoryBrands_ReplaceAll(t *testing.T) {
	db := setupTestDB(t)
	svc := newCatalogService(db)
	ctx := context.Background()

	category := &model.Category{Name: "美妆", Level: 1}
	db.Create(category)
	b1 := &model.Brand{Name: "BrandA"}
	b2 := &model.Brand{Name: "BrandB"}
	b3 := &model.Brand{Name: "BrandC"}
	db.Create(b1)
	db.Create(b2)
	db.Create(b3)

	if err := svc.BindCategoryBrands(ctx, category.ID, []int64{b1.ID, b2.ID}); err != nil {
		t.Fatalf("绑定品牌失败: %v", err)
	}
	if err := svc.BindCategoryBrands(ctx, category.ID, []int64{b3.ID}); err != nil {
		t.Fatalf("替换绑定失败: %v", err)
	}

	brands, err := svc.ListCategoryBrands(ctx, category.ID)
	if err != nil {
		t.Fatalf("查询分类品牌失败: %v", err)
	}
	if len(brands) != 1 || brands[0].Name != "BrandC" {
		t.Errorf("绑定应被全量替换: %+v", brands)
	}
}
