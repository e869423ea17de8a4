package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"vendorvault/internal/model"
	"vendorvault/internal/repository"
	"vendorvault/pkg/errs"
)

func newStoreService(db *gorm.DB) *StoreService {
	return NewStoreService(
		db,
		repository.NewStoreRepository(db),
		repository.NewUserRepository(db),
		repository.NewGoodsRepository(db),
		repository.NewOrderRepository(db),
		repository.NewCollectionRepository(db),
		repository.NewEvaluationRepository(db),
		repository.NewStatisticsRepository(db),
	)
}

// ==================== 入驻申请 ====================

func TestStoreService_Apply(t *testing.T) {
	db := setupTestDB(t)
	svc := newStoreService(db)
	ctx := context.Background()

	user := seedUser(t, db, "applicant", model.RoleBuyer)

	store, err := svc.Apply(ctx, user.ID, ApplyStoreRequest{
		StoreName: "新开的店",
		Mobile:    "13300000000",
	})
	if err != nil {
		t.Fatalf("入驻申请失败: %v", err)
	}
	if store.StoreDisable != model.StoreApplying {
		t.Errorf("新店铺应处于审核中: %s", store.StoreDisable)
	}
	if store.PaymentDueDate.Before(time.Now()) {
		t.Error("缴费到期日应在未来")
	}

	// 申请人已绑定店铺
	var u model.User
	db.First(&u, user.ID)
	if u.StoreID == nil || *u.StoreID != store.ID {
		t.Errorf("用户未绑定店铺: %+v", u.StoreID)
	}
	// 角色在审核通过前保持买家
	if u.Role != model.RoleBuyer {
		t.Errorf("审核前角色不应变化: %s", u.Role)
	}

	// 一人只能开一家店
	if _, err := svc.Apply(ctx, user.ID, ApplyStoreRequest{StoreName: "第二家店"}); !errors.Is(err, errs.ErrStoreAlreadyExists) {
		t.Errorf("重复申请应报错，实际 %v", err)
	}
}

func TestStoreService_Audit(t *testing.T) {
	db := setupTestDB(t)
	svc := newStoreService(db)
	ctx := context.Background()

	user := seedUser(t, db, "auditowner", model.RoleBuyer)
	store, err := svc.Apply(ctx, user.ID, ApplyStoreRequest{StoreName: "待审核店"})
	if err != nil {
		t.Fatalf("入驻申请失败: %v", err)
	}

	if err := svc.Audit(ctx, store.ID, true); err != nil {
		t.Fatalf("审核通过失败: %v", err)
	}

	var saved model.Store
	db.First(&saved, store.ID)
	if saved.StoreDisable != model.StoreOpen {
		t.Errorf("审核通过后店铺应营业: %s", saved.StoreDisable)
	}
	var owner model.User
	db.First(&owner, user.ID)
	if owner.Role != model.RoleSeller {
		t.Errorf("审核通过后店主应升级卖家: %s", owner.Role)
	}
}

func TestStoreService_Audit_Refuse(t *testing.T) {
	db := setupTestDB(t)
	svc := newStoreService(db)
	ctx := context.Background()

	user := seedUser(t, db, "refusedowner", model.RoleBuyer)
	store, err := svc.Apply(ctx, user.ID, ApplyStoreRequest{StoreName: "被拒的店"})
	if err != nil {
		t.Fatalf("入驻申请失败: %v", err)
	}

	if err := svc.Audit(ctx, store.ID, false); err != nil {
		t.Fatalf("审核拒绝失败: %v", err)
	}

	var saved model.Store
	db.First(&saved, store.ID)
	if saved.StoreDisable != model.StoreRefused {
		t.Errorf("拒绝后状态错误: %s", saved.StoreDisable)
	}
	var owner model.User
	db.First(&owner, user.ID)
	if owner.Role != model.RoleBuyer {
		t.Errorf("拒绝后角色不应升级: %s", owner.Role)
	}
}

// ==================== 平台费续缴 ====================

func TestStoreService_RenewPaymentDue(t *testing.T) {
	db := setupTestDB(t)
	svc := newStoreService(db)
	ctx := context.Background()

	store := seedStore(t, db, "续费店铺")
	past := time.Now().AddDate(0, 0, -10)
	db.Model(&model.Store{}).Where("id = ?", store.ID).Updates(map[string]interface{}{
		"payment_due_date": past,
		"store_disable":    model.StoreOverdue,
	})

	if err := svc.RenewPaymentDue(ctx, store.ID, 2); err != nil {
		t.Fatalf("续缴失败: %v", err)
	}

	var saved model.Store
	db.First(&saved, store.ID)
	// 已逾期的店以当前时间为基准顺延
	expectedMin := time.Now().AddDate(0, 2, 0).Add(-time.Hour)
	if saved.PaymentDueDate.Before(expectedMin) {
		t.Errorf("到期日未正确顺延: %v", saved.PaymentDueDate)
	}
	if saved.StoreDisable != model.StoreOpen {
		t.Errorf("续缴后应恢复营业: %s", saved.StoreDisable)
	}

	// 落一条平台费流水
	var logCount int64
	db.Model(&model.PaymentLog{}).Where("store_id = ? AND type = ?", store.ID, model.PaymentTypePayment).Count(&logCount)
	if logCount != 1 {
		t.Errorf("平台费流水数量错误: %d", logCount)
	}
}

// ==================== 店铺看板 ====================

func TestStoreService_Dashboard(t *testing.T) {
	db := setupTestDB(t)
	svc := newStoreService(db)
	ctx := context.Background()

	store := seedStore(t, db, "看板店铺")
	user := seedUser(t, db, "dashbuyer", model.RoleBuyer)

	seedGoodsWithSku(t, db, store.ID, "在售商品", 10, 500)
	lowStock := &model.Goods{
		GoodsName:    "库存预警商品",
		StoreID:      store.ID,
		Quantity:     3,
		MarketEnable: model.MarketDown,
		AuthFlag:     model.AuthPass,
	}
	db.Create(lowStock)

	orderSvc := newOrderService(db)
	_, sku := seedGoodsWithSku(t, db, store.ID, "看板下单商品", 15, 100)
	order, err := orderSvc.CreateOrder(ctx, user.ID, CreateOrderRequest{
		Items:           []OrderItemInput{{GoodsID: sku.GoodsID, SkuID: sku.ID, Num: 2}},
		ConsigneeName:   "看板买家",
		ConsigneeMobile: "13200000000",
		ConsigneeDetail: "某地",
	})
	if err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}
	if err := orderSvc.PaySuccess(ctx, order.Sn); err != nil {
		t.Fatalf("支付回调失败: %v", err)
	}

	db.Create(&model.Collection{UserID: user.ID, TargetID: store.ID, Type: model.CollectionStore})

	waitAuth := &model.Goods{
		GoodsName:    "待审核商品",
		StoreID:      store.ID,
		Quantity:     1,
		MarketEnable: model.MarketDown,
		AuthFlag:     model.AuthToBeAudited,
	}
	db.Create(waitAuth)

	db.Create(&model.Evaluation{
		UserID:  user.ID,
		GoodsID: sku.GoodsID,
		SkuID:   sku.ID,
		OrderSn: order.Sn,
		StoreID: store.ID,
		Grade:   model.GradeGood,
		Content: "还没回复的评价",
	})

	dash, err := svc.Dashboard(ctx, store.ID)
	if err != nil {
		t.Fatalf("查询看板失败: %v", err)
	}
	if dash.GoodsTotal != 4 {
		t.Errorf("商品总数错误: %d", dash.GoodsTotal)
	}
	if dash.GoodsOnSale != 2 {
		t.Errorf("在售商品数错误: %d", dash.GoodsOnSale)
	}
	if dash.LowStockNum < 1 {
		t.Errorf("库存预警数错误: %d", dash.LowStockNum)
	}
	if dash.WaitAuthNum != 1 {
		t.Errorf("待审核商品数错误: %d", dash.WaitAuthNum)
	}
	if dash.UnrepliedNum != 1 {
		t.Errorf("待回复评价数错误: %d", dash.UnrepliedNum)
	}
	if dash.OrderTotal != 1 || dash.OrderUnpaid != 0 {
		t.Errorf("订单统计错误: total=%d unpaid=%d", dash.OrderTotal, dash.OrderUnpaid)
	}
	if dash.TodaySales != 30 {
		t.Errorf("今日销售额错误: 期望 30，实际 %v", dash.TodaySales)
	}
	if dash.CollectionNum != 1 {
		t.Errorf("收藏数错误: %d", dash.CollectionNum)
	}
}
