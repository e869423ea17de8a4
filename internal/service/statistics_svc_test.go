package service

import (
	"context"
	"testing"

	"vendorvault/internal/model"
	"vendorvault/internal/repository"
)

// ==================== 平台总览 ====================

func TestStatisticsService_Dashboard(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStatisticsService(repository.NewStatisticsRepository(db))
	orderSvc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, "statsbuyer", model.RoleBuyer)
	store := seedStore(t, db, "统计店铺")
	db.Create(&model.Store{StoreName: "申请中店铺", StoreDisable: model.StoreApplying})
	seedGoodsWithSku(t, db, store.ID, "已过审商品", 10, 100)
	db.Create(&model.Goods{GoodsName: "待审核商品", StoreID: store.ID, AuthFlag: model.AuthToBeAudited})

	_, sku := seedGoodsWithSku(t, db, store.ID, "统计下单商品", 10, 100)
	order, err := orderSvc.CreateOrder(ctx, user.ID, CreateOrderRequest{
		Items:           []OrderItemInput{{GoodsID: sku.GoodsID, SkuID: sku.ID, Num: 3}},
		ConsigneeName:   "统计买家",
		ConsigneeMobile: "13100000001",
		ConsigneeDetail: "某地",
	})
	if err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}
	if err := orderSvc.PaySuccess(ctx, order.Sn); err != nil {
		t.Fatalf("支付回调失败: %v", err)
	}

	dash, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("查询平台总览失败: %v", err)
	}
	if dash.UserTotal != 1 {
		t.Errorf("用户总数错误: %d", dash.UserTotal)
	}
	if dash.StoreTotal != 2 || dash.StoreApplying != 1 {
		t.Errorf("店铺统计错误: total=%d applying=%d", dash.StoreTotal, dash.StoreApplying)
	}
	if dash.GoodsTotal != 3 || dash.GoodsWaitAudit != 1 {
		t.Errorf("商品统计错误: total=%d waitAudit=%d", dash.GoodsTotal, dash.GoodsWaitAudit)
	}
	if dash.OrderTotal != 1 || dash.TodayOrderNum != 1 {
		t.Errorf("订单统计错误: total=%d today=%d", dash.OrderTotal, dash.TodayOrderNum)
	}
	if dash.TotalSales != 30 || dash.TodaySales != 30 {
		t.Errorf("销售额统计错误: total=%v today=%v", dash.TotalSales, dash.TodaySales)
	}
}

// ==================== 销量榜 ====================

func TestStatisticsService_TopGoods(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStatisticsService(repository.NewStatisticsRepository(db))
	orderSvc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, "topbuyer", model.RoleBuyer)
	store := seedStore(t, db, "榜单店铺")
	_, skuA := seedGoodsWithSku(t, db, store.ID, "爆款商品", 10, 100)
	_, skuB := seedGoodsWithSku(t, db, store.ID, "小众商品", 20, 100)

	// 爆款卖 5 件，小众卖 1 件；另有一单未支付不计入
	paid, err := orderSvc.CreateOrder(ctx, user.ID, CreateOrderRequest{
		Items: []OrderItemInput{
			{GoodsID: skuA.GoodsID, SkuID: skuA.ID, Num: 5},
			{GoodsID: skuB.GoodsID, SkuID: skuB.ID, Num: 1},
		},
		ConsigneeName:   "榜单买家",
		ConsigneeMobile: "13100000002",
		ConsigneeDetail: "某地",
	})
	if err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}
	if err := orderSvc.PaySuccess(ctx, paid.Sn); err != nil {
		t.Fatalf("支付回调失败: %v", err)
	}
	if _, err := orderSvc.CreateOrder(ctx, user.ID, CreateOrderRequest{
		Items:           []OrderItemInput{{GoodsID: skuB.GoodsID, SkuID: skuB.ID, Num: 9}},
		ConsigneeName:   "榜单买家",
		ConsigneeMobile: "13100000002",
		ConsigneeDetail: "某地",
	}); err != nil {
		t.Fatalf("创建未支付订单失败: %v", err)
	}

	rows, err := svc.TopGoods(ctx, 10)
	if err != nil {
		t.Fatalf("查询销量榜失败: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("榜单行数错误: %d", len(rows))
	}
	if rows[0].GoodsName != "爆款商品" || rows[0].SaleNum != 5 {
		t.Errorf("榜首错误: %+v", rows[0])
	}
	if rows[1].SaleNum != 1 || rows[1].SaleTotal != 20 {
		t.Errorf("第二名错误: %+v", rows[1])
	}
}

func TestStatisticsService_TopStores(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStatisticsService(repository.NewStatisticsRepository(db))
	orderSvc := newOrderService(db)
	ctx := context.Background()

	user := seedUser(t, db, "storetopbuyer", model.RoleBuyer)
	big := seedStore(t, db, "大卖家")
	small := seedStore(t, db, "小卖家")
	_, skuBig := seedGoodsWithSku(t, db, big.ID, "大卖家商品", 100, 100)
	_, skuSmall := seedGoodsWithSku(t, db, small.ID, "小卖家商品", 10, 100)

	order, err := orderSvc.CreateOrder(ctx, user.ID, CreateOrderRequest{
		Items: []OrderItemInput{
			{GoodsID: skuBig.GoodsID, SkuID: skuBig.ID, Num: 2},
			{GoodsID: skuSmall.GoodsID, SkuID: skuSmall.ID, Num: 1},
		},
		ConsigneeName:   "买家",
		ConsigneeMobile: "13100000003",
		ConsigneeDetail: "某地",
	})
	if err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}
	if err := orderSvc.PaySuccess(ctx, order.Sn); err != nil {
		t.Fatalf("支付回调失败: %v", err)
	}

	rows, err := svc.TopStores(ctx, 10)
	if err != nil {
		t.Fatalf("查询店铺榜失败: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("榜单行数错误: %d", len(rows))
	}
	if rows[0].StoreName != "大卖家" || rows[0].SaleTotal != 200 {
		t.Errorf("榜首错误: %+v", rows[0])
	}
}
