package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vendorvault/internal/model"
)

// ==================== 接口定义 ====================

// EvaluationRepository 评价仓储接口
type EvaluationRepository interface {
	Create(ctx context.Context, eval *model.Evaluation) error
	Update(ctx context.Context, eval *model.Evaluation) error
	GetByID(ctx context.Context, id int64) (*model.Evaluation, error)
	// FindByKey 按唯一业务键定位评价，用于覆盖写
	FindByKey(ctx context.Context, userID, goodsID, skuID int64, orderSn string, storeID int64) (*model.Evaluation, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	List(ctx context.Context, filter EvaluationFilter) ([]model.Evaluation, int64, error)
	// AggregateByGoods 返回商品全部评价条数与非空服务评分均值
	AggregateByGoods(ctx context.Context, goodsID int64) (count int64, avgServiceScore float64, err error)
	CountByGrade(ctx context.Context, goodsID int64, grade model.EvaluationGrade) (int64, error)
	CountUnreplied(ctx context.Context, storeID int64) (int64, error)

	WithTx(tx *gorm.DB) EvaluationRepository
}

// EvaluationFilter 评价列表过滤条件
type EvaluationFilter struct {
	GoodsID  *int64
	UserID   *int64
	StoreID  *int64
	Grade    model.EvaluationGrade
	Status   model.EvaluationStatus
	Page     int
	PageSize int
}

// ==================== 仓储实现 ====================

type evaluationRepo struct {
	db *gorm.DB
}

// NewEvaluationRepository 创建评价仓储
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepo{db: db}
}

func (r *evaluationRepo) Create(ctx context.Context, eval *model.Evaluation) error {
	return r.db.WithContext(ctx).Create(eval).Error
}

func (r *evaluationRepo) Update(ctx context.Context, eval *model.Evaluation) error {
	return r.db.WithContext(ctx).Save(eval).Error
}

func (r *evaluationRepo) GetByID(ctx context.Context, id int64) (*model.Evaluation, error) {
	var eval model.Evaluation
	err := r.db.WithContext(ctx).First(&eval, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

func (r *evaluationRepo) FindByKey(ctx context.Context, userID, goodsID, skuID int64, orderSn string, storeID int64) (*model.Evaluation, error) {
	var eval model.Evaluation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND goods_id = ? AND sku_id = ? AND order_sn = ? AND store_id = ?",
			userID, goodsID, skuID, orderSn, storeID).
		First(&eval).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

func (r *evaluationRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *evaluationRepo) List(ctx context.Context, filter EvaluationFilter) ([]model.Evaluation, int64, error) {
	var evals []model.Evaluation
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Evaluation{})
	if filter.GoodsID != nil {
		query = query.Where("goods_id = ?", *filter.GoodsID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.Grade != "" {
		query = query.Where("grade = ?", filter.Grade)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.
		Order("id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&evals).Error

	return evals, total, err
}

// AggregateByGoods 评论数统计全部评价，均分只统计服务评分非空的评价
func (r *evaluationRepo) AggregateByGoods(ctx context.Context, goodsID int64) (int64, float64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("goods_id = ?", goodsID).
		Count(&count).Error
	if err != nil {
		return 0, 0, err
	}

	var avg *float64
	err = r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("goods_id = ? AND service_score IS NOT NULL", goodsID).
		Select("AVG(service_score)").
		Scan(&avg).Error
	if err != nil {
		return 0, 0, err
	}
	if avg == nil {
		return count, 0, nil
	}
	return count, *avg, nil
}

func (r *evaluationRepo) CountByGrade(ctx context.Context, goodsID int64, grade model.EvaluationGrade) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("goods_id = ? AND grade = ?", goodsID, grade).
		Count(&count).Error
	return count, err
}

func (r *evaluationRepo) CountUnreplied(ctx context.Context, storeID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("store_id = ? AND reply = ''", storeID).
		Count(&count).Error
	return count, err
}

func (r *evaluationRepo) WithTx(tx *gorm.DB) EvaluationRepository {
	return &evaluationRepo{db: tx}
}
