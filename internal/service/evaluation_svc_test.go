package service

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"vendorvault/internal/model"
	"vendorvault/internal/repository"
)

func newEvaluationService(db *gorm.DB) *EvaluationService {
	return NewEvaluationService(
		db,
		repository.NewEvaluationRepository(db),
		repository.NewGoodsRepository(db),
		repository.NewOrderRepository(db),
	)
}

// 造一条已支付订单，作为评价入口
func seedPaidOrder(t *testing.T, db *gorm.DB, userID int64, sn string) *model.Order {
	t.Helper()
	order := &model.Order{
		Sn:          sn,
		UserID:      userID,
		OrderStatus: model.OrderPaid,
		PayStatus:   model.OrderPaid,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("创建测试订单失败: %v", err)
	}
	return order
}

func floatPtr(v float64) *float64 { return &v }

// ==================== 发表评价 ====================

func TestEvaluationService_AddEvaluation_Upsert(t *testing.T) {
	db := setupTestDB(t)
	svc := newEvaluationService(db)
	ctx := context.Background()

	store := seedStore(t, db, "评价测试店")
	user := seedUser(t, db, "buyer1", model.RoleBuyer)
	goods, sku := seedGoodsWithSku(t, db, store.ID, "被评价的商品", 10, 5)
	seedPaidOrder(t, db, user.ID, "ORD-EVAL-1")

	req := AddEvaluationRequest{
		GoodsID:      goods.ID,
		SkuID:        sku.ID,
		OrderSn:      "ORD-EVAL-1",
		Grade:        model.GradeGood,
		ServiceScore: floatPtr(5),
		Content:      "第一次评价",
	}
	if _, err := svc.AddEvaluation(ctx, user.ID, req); err != nil {
		t.Fatalf("发表评价失败: %v", err)
	}

	// 同键重复提交应覆盖而不是新增
	req.Grade = model.GradeBad
	req.ServiceScore = floatPtr(1)
	req.Content = "改主意了"
	if _, err := svc.AddEvaluation(ctx, user.ID, req); err != nil {
		t.Fatalf("重复评价失败: %v", err)
	}

	var count int64
	db.Model(&model.Evaluation{}).Count(&count)
	if count != 1 {
		t.Errorf("同键评价应只有一条，实际 %d", count)
	}
	var eval model.Evaluation
	db.First(&eval)
	if eval.Grade != model.GradeBad || eval.Content != "改主意了" {
		t.Errorf("评价未被覆盖: %+v", eval)
	}

	var g model.Goods
	db.First(&g, goods.ID)
	if g.CommentNum != 1 {
		t.Errorf("评论数错误: 期望 1，实际 %d", g.CommentNum)
	}
	if g.Grade != 1 {
		t.Errorf("评分错误: 期望 1，实际 %v", g.Grade)
	}
}

func TestEvaluationService_AddEvaluation_AggregateSkipsNilScore(t *testing.T) {
	db := setupTestDB(t)
	svc := newEvaluationService(db)
	ctx := context.Background()

	store := seedStore(t, db, "聚合测试店")
	goods, sku := seedGoodsWithSku(t, db, store.ID, "聚合商品", 20, 9)

	scores := []*float64{floatPtr(4), floatPtr(2), nil}
	for i, score := range scores {
		user := seedUser(t, db, "rater"+string(rune('a'+i)), model.RoleBuyer)
		sn := "ORD-AGG-" + string(rune('1'+i))
		seedPaidOrder(t, db, user.ID, sn)
		_, err := svc.AddEvaluation(ctx, user.ID, AddEvaluationRequest{
			GoodsID:      goods.ID,
			SkuID:        sku.ID,
			OrderSn:      sn,
			Grade:        model.GradeModerate,
			ServiceScore: score,
		})
		if err != nil {
			t.Fatalf("发表第 %d 条评价失败: %v", i+1, err)
		}
	}

	var g model.Goods
	db.First(&g, goods.ID)
	// 评论数统计全部三条，均分只算 4 和 2
	if g.CommentNum != 3 {
		t.Errorf("评论数错误: 期望 3，实际 %d", g.CommentNum)
	}
	if g.Grade != 3 {
		t.Errorf("均分错误: 期望 3，实际 %v", g.Grade)
	}
}

func TestEvaluationService_AddEvaluation_OrderNotOwned(t *testing.T) {
	db := setupTestDB(t)
	svc := newEvaluationService(db)
	ctx := context.Background()

	store := seedStore(t, db, "越权测试店")
	owner := seedUser(t, db, "owner", model.RoleBuyer)
	other := seedUser(t, db, "other", model.RoleBuyer)
	goods, sku := seedGoodsWithSku(t, db, store.ID, "别人的商品", 10, 5)
	seedPaidOrder(t, db, owner.ID, "ORD-OWN-1")

	_, err := svc.AddEvaluation(ctx, other.ID, AddEvaluationRequest{
		GoodsID: goods.ID,
		SkuID:   sku.ID,
		OrderSn: "ORD-OWN-1",
		Grade:   model.GradeGood,
	})
	if err == nil {
		t.Fatal("评价他人订单应报错")
	}
}

// ==================== 商家回复 ====================

func TestEvaluationService_Reply(t *testing.T) {
	db := setupTestDB(t)
	svc := newEvaluationService(db)
	ctx := context.Background()

	store := seedStore(t, db, "回复测试店")
	otherStore := seedStore(t, db, "无关店铺")
	user := seedUser(t, db, "replybuyer", model.RoleBuyer)
	goods, sku := seedGoodsWithSku(t, db, store.ID, "待回复商品", 10, 5)
	seedPaidOrder(t, db, user.ID, "ORD-REPLY-1")

	eval, err := svc.AddEvaluation(ctx, user.ID, AddEvaluationRequest{
		GoodsID: goods.ID,
		SkuID:   sku.ID,
		OrderSn: "ORD-REPLY-1",
		Grade:   model.GradeGood,
		Content: "很好",
	})
	if err != nil {
		t.Fatalf("发表评价失败: %v", err)
	}

	// 其它店铺不能回复
	if err := svc.Reply(ctx, otherStore.ID, eval.ID, "蹭回复", ""); err == nil {
		t.Error("非本店评价不应允许回复")
	}

	if err := svc.Reply(ctx, store.ID, eval.ID, "感谢惠顾", ""); err != nil {
		t.Fatalf("商家回复失败: %v", err)
	}
	var saved model.Evaluation
	db.First(&saved, eval.ID)
	if saved.Reply != "感谢惠顾" {
		t.Errorf("回复内容未保存: %q", saved.Reply)
	}
}

// ==================== 评价汇总 ====================

func TestEvaluationService_Summary(t *testing.T) {
	db := setupTestDB(t)
	svc := newEvaluationService(db)
	ctx := context.Background()

	store := seedStore(t, db, "汇总测试店")
	goods, sku := seedGoodsWithSku(t, db, store.ID, "汇总商品", 10, 9)

	grades := []model.EvaluationGrade{model.GradeGood, model.GradeGood, model.GradeBad}
	for i, grade := range grades {
		user := seedUser(t, db, "sumuser"+string(rune('a'+i)), model.RoleBuyer)
		sn := "ORD-SUM-" + string(rune('1'+i))
		seedPaidOrder(t, db, user.ID, sn)
		if _, err := svc.AddEvaluation(ctx, user.ID, AddEvaluationRequest{
			GoodsID: goods.ID,
			SkuID:   sku.ID,
			OrderSn: sn,
			Grade:   grade,
		}); err != nil {
			t.Fatalf("发表评价失败: %v", err)
		}
	}

	summary, err := svc.Summary(ctx, goods.ID)
	if err != nil {
		t.Fatalf("查询评价汇总失败: %v", err)
	}
	if summary.Total != 3 || summary.GoodCount != 2 || summary.BadCount != 1 {
		t.Errorf("汇总数量错误: %+v", summary)
	}
}
