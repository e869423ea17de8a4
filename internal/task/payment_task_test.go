package task

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vendorvault/internal/model"
	"vendorvault/internal/repository"
)

func setupTaskTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Store{}); err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}
	return db
}

// ==================== 逾期巡检 ====================

func TestPaymentDueTask_Run(t *testing.T) {
	db := setupTaskTestDB(t)

	overdue := &model.Store{
		StoreName:      "逾期店铺",
		StoreDisable:   model.StoreOpen,
		PaymentDueDate: time.Now().AddDate(0, 0, -3),
	}
	current := &model.Store{
		StoreName:      "正常店铺",
		StoreDisable:   model.StoreOpen,
		PaymentDueDate: time.Now().AddDate(0, 1, 0),
	}
	// 已经逾期停业的店不应重复处理
	alreadyFlagged := &model.Store{
		StoreName:      "已停业店铺",
		StoreDisable:   model.StoreOverdue,
		PaymentDueDate: time.Now().AddDate(0, 0, -30),
	}
	db.Create(overdue)
	db.Create(current)
	db.Create(alreadyFlagged)

	task := NewPaymentDueTask(repository.NewStoreRepository(db))
	task.run()

	var s1, s2 model.Store
	db.First(&s1, overdue.ID)
	db.First(&s2, current.ID)
	if s1.StoreDisable != model.StoreOverdue {
		t.Errorf("逾期店铺应被置为逾期: %s", s1.StoreDisable)
	}
	if s2.StoreDisable != model.StoreOpen {
		t.Errorf("未到期店铺不应被处理: %s", s2.StoreDisable)
	}
}

func TestPaymentDueTask_StartStop(t *testing.T) {
	db := setupTaskTestDB(t)
	task := NewPaymentDueTask(repository.NewStoreRepository(db))

	if err := task.Start(); err != nil {
		t.Fatalf("启动定时任务失败: %v", err)
	}
	task.Stop()
}
