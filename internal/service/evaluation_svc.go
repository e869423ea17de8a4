package service

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"vendorvault/internal/model"
	"vendorvault/internal/repository"
	"vendorvault/pkg/errs"
)

// ==================== 请求与视图结构 ====================

// AddEvaluationRequest 发表评价请求
type AddEvaluationRequest struct {
	GoodsID      int64                 `json:"goodsId" binding:"required"`
	SkuID        int64                 `json:"skuId" binding:"required"`
	OrderSn      string                `json:"orderNo" binding:"required"`
	Grade        model.EvaluationGrade `json:"grade" binding:"required"`
	ServiceScore *float64              `json:"serviceScore"`
	Content      string                `json:"content"`
	Images       datatypes.JSON        `json:"images"`
}

// EvaluationSummary 商品评价汇总
type EvaluationSummary struct {
	Total       int64   `json:"total"`
	GoodCount   int64   `json:"goodCount"`
	ModerateNum int64   `json:"moderateCount"`
	BadCount    int64   `json:"badCount"`
	Grade       float64 `json:"grade"`
}

// ==================== 服务实现 ====================

// EvaluationService 评价服务：发表评价并维护商品评分聚合
type EvaluationService struct {
	db             *gorm.DB
	evaluationRepo repository.EvaluationRepository
	goodsRepo      repository.GoodsRepository
	orderRepo      repository.OrderRepository
}

// NewEvaluationService 创建评价服务
func NewEvaluationService(
	db *gorm.DB,
	evaluationRepo repository.EvaluationRepository,
	goodsRepo repository.GoodsRepository,
	orderRepo repository.OrderRepository,
) *EvaluationService {
	return &EvaluationService{
		db:             db,
		evaluationRepo: evaluationRepo,
		goodsRepo:      goodsRepo,
		orderRepo:      orderRepo,
	}
}

// AddEvaluation 发表评价。同一用户对同一 (商品, SKU, 订单, 店铺) 的
// 评价只保留一份，重复提交覆盖旧内容。写入和商品评分聚合在同一事务
// 内完成，期间对商品行加锁，避免并发评价互相覆盖聚合结果。
// 评分均值只统计服务评分非空的评价，评论数统计全部评价。
func (s *EvaluationService) AddEvaluation(ctx context.Context, userID int64, req AddEvaluationRequest) (*model.Evaluation, error) {
	order, err := s.orderRepo.GetBySn(ctx, req.OrderSn)
	if err != nil {
		return nil, errs.Wrap(err, "查询订单失败")
	}
	if order == nil || order.UserID != userID {
		return nil, errs.ErrOrderNotExist
	}

	var result *model.Evaluation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		evalRepo := s.evaluationRepo.WithTx(tx)
		goodsRepo := s.goodsRepo.WithTx(tx)

		goods, err := goodsRepo.GetByIDForUpdate(ctx, req.GoodsID)
		if err != nil {
			return errs.Wrap(err, "锁定商品失败")
		}
		if goods == nil {
			return errs.ErrGoodsNotExist
		}

		existing, err := evalRepo.FindByKey(ctx, userID, req.GoodsID, req.SkuID, req.OrderSn, goods.StoreID)
		if err != nil {
			return errs.Wrap(err, "查询评价失败")
		}

		if existing != nil {
			existing.Grade = req.Grade
			existing.ServiceScore = req.ServiceScore
			existing.Content = req.Content
			existing.Images = req.Images
			if err := evalRepo.Update(ctx, existing); err != nil {
				return errs.Wrap(err, "更新评价失败")
			}
			result = existing
		} else {
			eval := &model.Evaluation{
				UserID:       userID,
				GoodsID:      req.GoodsID,
				SkuID:        req.SkuID,
				OrderSn:      req.OrderSn,
				StoreID:      goods.StoreID,
				Grade:        req.Grade,
				ServiceScore: req.ServiceScore,
				Content:      req.Content,
				Images:       req.Images,
				Status:       model.EvaluationOpen,
			}
			if err := evalRepo.Create(ctx, eval); err != nil {
				return errs.Wrap(err, "创建评价失败")
			}
			result = eval
		}

		return s.recomputeGoodsAggregate(ctx, evalRepo, goodsRepo, req.GoodsID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// recomputeGoodsAggregate 重算商品的评分均值与评论数
func (s *EvaluationService) recomputeGoodsAggregate(
	ctx context.Context,
	evalRepo repository.EvaluationRepository,
	goodsRepo repository.GoodsRepository,
	goodsID int64,
) error {
	count, avg, err := evalRepo.AggregateByGoods(ctx, goodsID)
	if err != nil {
		return errs.Wrap(err, "统计评价失败")
	}
	if err := goodsRepo.UpdateFields(ctx, goodsID, map[string]interface{}{
		"grade":       avg,
		"comment_num": count,
	}); err != nil {
		return errs.Wrap(err, "更新商品评分失败")
	}
	return nil
}

// Reply 店铺回复评价
func (s *EvaluationService) Reply(ctx context.Context, storeID, evaluationID int64, reply, replyImage string) error {
	eval, err := s.evaluationRepo.GetByID(ctx, evaluationID)
	if err != nil {
		return errs.Wrap(err, "查询评价失败")
	}
	if eval == nil || eval.StoreID != storeID {
		return errs.ErrEvaluationNotExist
	}
	if err := s.evaluationRepo.UpdateFields(ctx, evaluationID, map[string]interface{}{
		"reply":       reply,
		"reply_image": replyImage,
	}); err != nil {
		return errs.Wrap(err, "回复评价失败")
	}
	return nil
}

// SetStatus 平台显示/屏蔽评价
func (s *EvaluationService) SetStatus(ctx context.Context, evaluationID int64, status model.EvaluationStatus) error {
	eval, err := s.evaluationRepo.GetByID(ctx, evaluationID)
	if err != nil {
		return errs.Wrap(err, "查询评价失败")
	}
	if eval == nil {
		return errs.ErrEvaluationNotExist
	}
	if err := s.evaluationRepo.UpdateFields(ctx, evaluationID, map[string]interface{}{
		"status": status,
	}); err != nil {
		return errs.Wrap(err, "更新评价状态失败")
	}
	return nil
}

// GetEvaluation 查询单条评价
func (s *EvaluationService) GetEvaluation(ctx context.Context, id int64) (*model.Evaluation, error) {
	eval, err := s.evaluationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Wrap(err, "查询评价失败")
	}
	if eval == nil {
		return nil, errs.ErrEvaluationNotExist
	}
	return eval, nil
}

// List 分页查询评价
func (s *EvaluationService) List(ctx context.Context, filter repository.EvaluationFilter) ([]model.Evaluation, int64, error) {
	evals, total, err := s.evaluationRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, errs.Wrap(err, "查询评价失败")
	}
	return evals, total, nil
}

// Summary 商品维度评价统计
func (s *EvaluationService) Summary(ctx context.Context, goodsID int64) (*EvaluationSummary, error) {
	total, avg, err := s.evaluationRepo.AggregateByGoods(ctx, goodsID)
	if err != nil {
		return nil, errs.Wrap(err, "统计评价失败")
	}
	good, err := s.evaluationRepo.CountByGrade(ctx, goodsID, model.GradeGood)
	if err != nil {
		return nil, errs.Wrap(err, "统计评价失败")
	}
	moderate, err := s.evaluationRepo.CountByGrade(ctx, goodsID, model.GradeModerate)
	if err != nil {
		return nil, errs.Wrap(err, "统计评价失败")
	}
	bad, err := s.evaluationRepo.CountByGrade(ctx, goodsID, model.GradeBad)
	if err != nil {
		return nil, errs.Wrap(err, "统计评价失败")
	}
	return &EvaluationSummary{
		Total:       total,
		GoodCount:   good,
		ModerateNum: moderate,
		BadCount:    bad,
		Grade:       avg,
	}, nil
}
