package repository

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vendorvault/internal/model"
)

func setupSpecTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Specification{}, &model.SpecValue{}, &model.CategorySpec{}); err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}
	return db
}

// ==================== 规格名查找 ====================

func TestSpecRepo_FindByName_StoreBeforeGlobal(t *testing.T) {
	db := setupSpecTestDB(t)
	repo := NewSpecRepository(db)
	ctx := context.Background()

	storeID := int64(7)
	global := &model.Specification{SpecName: "颜色"}
	own := &model.Specification{SpecName: "颜色", StoreID: &storeID}
	if err := repo.Create(ctx, global); err != nil {
		t.Fatalf("创建平台规格失败: %v", err)
	}
	if err := repo.Create(ctx, own); err != nil {
		t.Fatalf("创建店铺规格失败: %v", err)
	}

	// 店铺自有规格优先
	found, err := repo.FindByName(ctx, "颜色", &storeID)
	if err != nil {
		t.Fatalf("查找规格失败: %v", err)
	}
	if found == nil || found.ID != own.ID {
		t.Errorf("应优先命中店铺规格: %+v", found)
	}

	// 店铺没有自有规格时回落到平台规格
	otherStore := int64(8)
	found, err = repo.FindByName(ctx, "颜色", &otherStore)
	if err != nil {
		t.Fatalf("查找规格失败: %v", err)
	}
	if found == nil || found.ID != global.ID {
		t.Errorf("应回落到平台规格: %+v", found)
	}
}

func TestSpecRepo_FindByName_CaseInsensitive(t *testing.T) {
	db := setupSpecTestDB(t)
	repo := NewSpecRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, &model.Specification{SpecName: "Color"}); err != nil {
		t.Fatalf("创建规格失败: %v", err)
	}

	found, err := repo.FindByName(ctx, "COLOR", nil)
	if err != nil {
		t.Fatalf("查找规格失败: %v", err)
	}
	if found == nil {
		t.Fatal("大小写不同应命中同一规格")
	}

	missing, err := repo.FindByName(ctx, "Size", nil)
	if err != nil {
		t.Fatalf("查找规格失败: %v", err)
	}
	if missing != nil {
		t.Errorf("不存在的规格应返回 nil: %+v", missing)
	}
}

// ==================== 规格值 ====================

func TestSpecRepo_DeleteByIDs_CascadesValues(t *testing.T) {
	db := setupSpecTestDB(t)
	repo := NewSpecRepository(db)
	ctx := context.Background()

	spec := &model.Specification{SpecName: "尺码"}
	if err := repo.Create(ctx, spec); err != nil {
		t.Fatalf("创建规格失败: %v", err)
	}
	for _, v := range []string{"S", "M", "L"} {
		if err := repo.CreateValue(ctx, &model.SpecValue{SpecID: spec.ID, SpecValue: v}); err != nil {
			t.Fatalf("创建规格值失败: %v", err)
		}
	}

	if err := repo.DeleteByIDs(ctx, []int64{spec.ID}); err != nil {
		t.Fatalf("删除规格失败: %v", err)
	}

	var specCount, valueCount int64
	db.Model(&model.Specification{}).Count(&specCount)
	db.Model(&model.SpecValue{}).Count(&valueCount)
	if specCount != 0 || valueCount != 0 {
		t.Errorf("删除规格应级联清理规格值: specs=%d values=%d", specCount, valueCount)
	}
}

func TestSpecRepo_ListValuesByIDs_Empty(t *testing.T) {
	db := setupSpecTestDB(t)
	repo := NewSpecRepository(db)

	values, err := repo.ListValuesByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("查询规格值失败: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("空 id 列表应返回空: %+v", values)
	}
}
