package service

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vendorvault/internal/model"
)

// ==================== 测试辅助 ====================

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{}, &model.UserAddress{}, &model.Collection{},
		&model.Store{},
		&model.Category{}, &model.Brand{}, &model.CategoryBrand{},
		&model.Specification{}, &model.SpecValue{}, &model.CategorySpec{},
		&model.GoodsUnit{},
		&model.Goods{}, &model.GoodsSku{}, &model.GoodsGallery{},
		&model.Order{}, &model.SubOrder{}, &model.OrderItem{}, &model.PaymentLog{},
		&model.Evaluation{},
	)
	if err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}
	return db
}

func seedStore(t *testing.T, db *gorm.DB, name string) *model.Store {
	t.Helper()
	store := &model.Store{
		StoreName:    name,
		StoreDisable: model.StoreOpen,
		StockWarning: 100,
	}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("创建测试店铺失败: %v", err)
	}
	return store
}

func seedUser(t *testing.T, db *gorm.DB, username string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Password: "$2a$10$abcdefghijklmnopqrstuvwxyz012345678901234567890123456",
		Role:     role,
		Status:   model.UserStatusOpen,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return user
}

func seedGoodsWithSku(t *testing.T, db *gorm.DB, storeID int64, name string, price float64, quantity int) (*model.Goods, *model.GoodsSku) {
	t.Helper()
	goods := &model.Goods{
		GoodsName:    name,
		StoreID:      storeID,
		Price:        price,
		Quantity:     quantity,
		MarketEnable: model.MarketUpper,
		AuthFlag:     model.AuthPass,
	}
	if err := db.Create(goods).Error; err != nil {
		t.Fatalf("创建测试商品失败: %v", err)
	}
	sku := &model.GoodsSku{
		GoodsID:   goods.ID,
		StoreID:   storeID,
		GoodsName: name,
		Price:     price,
		Quantity:  quantity,
		AuthFlag:  model.AuthPass,
	}
	if err := db.Create(sku).Error; err != nil {
		t.Fatalf("创建测试 SKU 失败: %v", err)
	}
	return goods, sku
}
