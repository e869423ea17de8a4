package model

import "gorm.io/datatypes"

// EvaluationGrade 评价等级
type EvaluationGrade string

const (
	GradeGood     EvaluationGrade = "GOOD"
	GradeModerate EvaluationGrade = "MODERATE"
	GradeBad      EvaluationGrade = "BAD"
)

// EvaluationStatus 评价展示状态
type EvaluationStatus string

const (
	EvaluationOpen  EvaluationStatus = "OPEN"
	EvaluationClose EvaluationStatus = "CLOSE"
)

// Evaluation 商品评价
// (user_id, goods_id, sku_id, order_sn, store_id) 唯一，重复提交走更新
type Evaluation struct {
	BaseModel
	UserID  int64  `gorm:"uniqueIndex:idx_evaluation_key;not null" json:"memberId"`
	GoodsID int64  `gorm:"uniqueIndex:idx_evaluation_key;not null" json:"goodsId"`
	SkuID   int64  `gorm:"uniqueIndex:idx_evaluation_key;not null" json:"skuId"`
	OrderSn string `gorm:"size:64;uniqueIndex:idx_evaluation_key;not null" json:"orderNo"`
	StoreID int64  `gorm:"uniqueIndex:idx_evaluation_key;not null" json:"storeId"`

	Grade EvaluationGrade `gorm:"size:16" json:"grade"`
	// 服务评分可为空；均分只统计非空评分，评论数统计全部
	ServiceScore *float64       `json:"serviceScore"`
	Content      string         `gorm:"type:text" json:"content"`
	Images       datatypes.JSON `json:"images"`

	Status EvaluationStatus `gorm:"size:8;default:OPEN;index" json:"status"`

	Reply      string `gorm:"type:text" json:"reply"`
	ReplyImage string `gorm:"size:1024" json:"replyImage"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
