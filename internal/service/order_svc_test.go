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

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(db, repository.NewOrderRepository(db), repository.NewGoodsRepository(db))
}

// ==================== 下单拆单 ====================

func TestOrderService_CreateOrder_SplitByStore(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, "orderbuyer", model.RoleBuyer)
	store1 := seedStore(t, db, "店铺甲")
	store2 := seedStore(t, db, "店铺乙")
	_, sku1 := seedGoodsWithSku(t, db, store1.ID, "商品一", 10, 100)
	_, sku2 := seedGoodsWithSku(t, db, store1.ID, "商品二", 5, 100)
	_, sku3 := seedGoodsWithSku(t, db, store2.ID, "商品三", 20, 100)

	order, err := svc.CreateOrder(ctx, user.ID, CreateOrderRequest{
		Items: []OrderItemInput{
			{GoodsID: sku1.GoodsID, SkuID: sku1.ID, Num: 2},
			{GoodsID: sku3.GoodsID, SkuID: sku3.ID, Num: 1},
			{GoodsID: sku2.GoodsID, SkuID: sku2.ID, Num: 1},
		},
		ConsigneeName:   "张三",
		ConsigneeMobile: "13800000000",
		ConsigneeDetail: "某省某市某街道",
	})
	if err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}

	if order.GoodsNum != 4 {
		t.Errorf("商品数量错误: 期望 4，实际 %d", order.GoodsNum)
	}
	if order.FlowPrice != 45 || order.GoodsPrice != 45 {
		t.Errorf("订单金额错误: 期望 45，实际 flow=%v goods=%v", order.FlowPrice, order.GoodsPrice)
	}

	full, err := svc.GetOrder(ctx, order.Sn)
	if err != nil {
		t.Fatalf("查询订单失败: %v", err)
	}
	if len(full.SubOrders) != 2 {
		t.Fatalf("子订单数量错误: 期望 2，实际 %d", len(full.SubOrders))
	}
	// 子订单顺序跟随行项目首次出现的店铺顺序
	if full.SubOrders[0].StoreID != store1.ID || full.SubOrders[1].StoreID != store2.ID {
		t.Errorf("子订单店铺顺序错误: %d, %d", full.SubOrders[0].StoreID, full.SubOrders[1].StoreID)
	}
	if full.SubOrders[0].SubTotal != 25 {
		t.Errorf("店铺甲小计错误: 期望 25，实际 %v", full.SubOrders[0].SubTotal)
	}
	if full.SubOrders[1].SubTotal != 20 {
		t.Errorf("店铺乙小计错误: 期望 20，实际 %v", full.SubOrders[1].SubTotal)
	}
	if len(full.SubOrders[0].Items) != 2 || len(full.SubOrders[1].Items) != 1 {
		t.Errorf("行项目分组错误: %d, %d", len(full.SubOrders[0].Items), len(full.SubOrders[1].Items))
	}

	// 库存已扣减
	var s1 model.GoodsSku
	db.First(&s1, sku1.ID)
	if s1.Quantity != 98 {
		t.Errorf("SKU 库存未扣减: 期望 98，实际 %d", s1.Quantity)
	}

	// 支付流水已落库
	var logCount int64
	db.Model(&model.PaymentLog{}).Where("order_sn = ?", order.Sn).Count(&logCount)
	if logCount != 1 {
		t.Errorf("支付流水数量错误: 期望 1，实际 %d", logCount)
	}
}

func TestOrderService_CreateOrder_InvalidSkuWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, "failbuyer", model.RoleBuyer)
	store := seedStore(t, db, "校验店铺")
	_, sku := seedGoodsWithSku(t, db, store.ID, "正常商品", 10, 100)

	_, err := svc.CreateOrder(ctx, user.ID, CreateOrderRequest{
		Items: []OrderItemInput{
			{GoodsID: sku.GoodsID, SkuID: sku.ID, Num: 1},
			{GoodsID: 99999, SkuID: 99999, Num: 1},
		},
		ConsigneeName:   "李四",
		ConsigneeMobile: "13900000000",
		ConsigneeDetail: "某地",
	})
	if err == nil {
		t.Fatal("含不存在商品的订单应失败")
	}

	var orderCount, itemCount int64
	db.Model(&model.Order{}).Count(&orderCount)
	db.Model(&model.OrderItem{}).Count(&itemCount)
	if orderCount != 0 || itemCount != 0 {
		t.Errorf("整单失败不应落任何数据: orders=%d items=%d", orderCount, itemCount)
	}
	var s model.GoodsSku
	db.First(&s, sku.ID)
	if s.Quantity != 100 {
		t.Errorf("失败订单不应扣库存: %d", s.Quantity)
	}
}

func TestOrderService_CreateOrder_StockInsufficient(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, "stockbuyer", model.RoleBuyer)
	store := seedStore(t, db, "库存店铺")
	_, sku := seedGoodsWithSku(t, db, store.ID, "库存紧张", 10, 2)

	_, err := svc.CreateOrder(ctx, user.ID, CreateOrderRequest{
		Items:           []OrderItemInput{{GoodsID: sku.GoodsID, SkuID: sku.ID, Num: 3}},
		ConsigneeName:   "王五",
		ConsigneeMobile: "13700000000",
		ConsigneeDetail: "某地",
	})
	if !errors.Is(err, errs.ErrGoodsStockNotEnough) {
		t.Errorf("期望库存不足错误，实际 %v", err)
	}
}

// ==================== 支付回调 ====================

func TestOrderService_PaySuccess_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, "paybuyer", model.RoleBuyer)
	store := seedStore(t, db, "支付店铺")
	goods, sku := seedGoodsWithSku(t, db, store.ID, "待支付商品", 10, 100)

	order, err := svc.CreateOrder(ctx, user.ID, CreateOrderRequest{
		Items:           []OrderItemInput{{GoodsID: sku.GoodsID, SkuID: sku.ID, Num: 2}},
		ConsigneeName:   "赵六",
		ConsigneeMobile: "13600000000",
		ConsigneeDetail: "某地",
	})
	if err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}

	if err := svc.PaySuccess(ctx, order.Sn); err != nil {
		t.Fatalf("支付回调失败: %v", err)
	}
	// 重复回调直接成功，不重复累计销量
	if err := svc.PaySuccess(ctx, order.Sn); err != nil {
		t.Fatalf("重复支付回调应幂等: %v", err)
	}

	var saved model.Order
	db.Where("sn = ?", order.Sn).First(&saved)
	if saved.OrderStatus != model.OrderPaid {
		t.Errorf("订单状态错误: %s", saved.OrderStatus)
	}
	var g model.Goods
	db.First(&g, goods.ID)
	if g.BuyCount != 2 {
		t.Errorf("销量错误: 期望 2，实际 %d", g.BuyCount)
	}
}

func TestOrderService_PaySuccess_CancelledOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, "cancelpay", model.RoleBuyer)
	store := seedStore(t, db, "取消后支付店铺")
	_, sku := seedGoodsWithSku(t, db, store.ID, "取消商品", 10, 100)

	order, err := svc.CreateOrder(ctx, user.ID, CreateOrderRequest{
		Items:           []OrderItemInput{{GoodsID: sku.GoodsID, SkuID: sku.ID, Num: 1}},
		ConsigneeName:   "钱七",
		ConsigneeMobile: "13500000000",
		ConsigneeDetail: "某地",
	})
	if err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}
	if err := svc.CancelOrder(ctx, user.ID, order.Sn, "不想要了"); err != nil {
		t.Fatalf("取消订单失败: %v", err)
	}
	if err := svc.PaySuccess(ctx, order.Sn); !errors.Is(err, errs.ErrOrderAlreadyCanceled) {
		t.Errorf("已取消订单支付应报错，实际 %v", err)
	}
}

// ==================== 取消订单 ====================

func TestOrderService_CancelOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, "cancelbuyer", model.RoleBuyer)
	store := seedStore(t, db, "取消店铺")
	goods, sku := seedGoodsWithSku(t, db, store.ID, "可取消商品", 10, 50)

	order, err := svc.CreateOrder(ctx, user.ID, CreateOrderRequest{
		Items:           []OrderItemInput{{GoodsID: sku.GoodsID, SkuID: sku.ID, Num: 5}},
		ConsigneeName:   "孙八",
		ConsigneeMobile: "13400000000",
		ConsigneeDetail: "某地",
	})
	if err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}

	var afterOrder model.GoodsSku
	db.First(&afterOrder, sku.ID)
	if afterOrder.Quantity != 45 {
		t.Fatalf("下单后库存错误: %d", afterOrder.Quantity)
	}

	if err := svc.CancelOrder(ctx, user.ID, order.Sn, "买错了"); err != nil {
		t.Fatalf("取消订单失败: %v", err)
	}

	// 库存回补
	var restored model.GoodsSku
	db.First(&restored, sku.ID)
	if restored.Quantity != 50 {
		t.Errorf("取消后库存未回补: 期望 50，实际 %d", restored.Quantity)
	}
	var g model.Goods
	db.First(&g, goods.ID)
	if g.Quantity != 50 {
		t.Errorf("商品总库存未回补: 期望 50，实际 %d", g.Quantity)
	}

	// 重复取消
	if err := svc.CancelOrder(ctx, user.ID, order.Sn, "再取消一次"); !errors.Is(err, errs.ErrOrderAlreadyCanceled) {
		t.Errorf("重复取消应报错，实际 %v", err)
	}

	// 他人不能取消
	other := seedUser(t, db, "othercancel", model.RoleBuyer)
	if err := svc.CancelOrder(ctx, other.ID, order.Sn, "蹭取消"); !errors.Is(err, errs.ErrOrderNotExist) {
		t.Errorf("越权取消应报订单不存在，实际 %v", err)
	}
}

func TestOrderService_DeleteOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, "delbuyer", model.RoleBuyer)
	store := seedStore(t, db, "删除店铺")
	_, sku := seedGoodsWithSku(t, db, store.ID, "待删除商品", 10, 50)

	order, err := svc.CreateOrder(ctx, user.ID, CreateOrderRequest{
		Items:           []OrderItemInput{{GoodsID: sku.GoodsID, SkuID: sku.ID, Num: 1}},
		ConsigneeName:   "周九",
		ConsigneeMobile: "13300000001",
		ConsigneeDetail: "某地",
	})
	if err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}

	// 未取消不能删
	if err := svc.DeleteOrder(ctx, user.ID, order.Sn); err == nil {
		t.Error("未取消订单不应允许删除")
	}

	if err := svc.CancelOrder(ctx, user.ID, order.Sn, "不要了"); err != nil {
		t.Fatalf("取消订单失败: %v", err)
	}
	if err := svc.DeleteOrder(ctx, user.ID, order.Sn); err != nil {
		t.Fatalf("删除订单失败: %v", err)
	}
	if _, err := svc.GetOrder(ctx, order.Sn); !errors.Is(err, errs.ErrOrderNotExist) {
		t.Errorf("删除后不应再能查到: %v", err)
	}
}
