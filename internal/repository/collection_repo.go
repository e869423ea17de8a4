package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vendorvault/internal/model"
)

// CollectionRepository 收藏仓储接口
type CollectionRepository interface {
	Find(ctx context.Context, userID int64, typ model.CollectionType, targetID int64) (*model.Collection, error)
	Create(ctx context.Context, collection *model.Collection) error
	Delete(ctx context.Context, userID int64, typ model.CollectionType, targetID int64) error
	ListByUser(ctx context.Context, userID int64, typ model.CollectionType, page, pageSize int) ([]model.Collection, int64, error)
	CountByTarget(ctx context.Context, typ model.CollectionType, targetID int64) (int64, error)
}

type collectionRepo struct {
	db *gorm.DB
}

// NewCollectionRepository 创建收藏仓储
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepo{db: db}
}

func (r *collectionRepo) Find(ctx context.Context, userID int64, typ model.CollectionType, targetID int64) (*model.Collection, error) {
	var collection model.Collection
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND target_id = ?", userID, typ, targetID).
		First(&collection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepo) Create(ctx context.Context, collection *model.Collection) error {
	return r.db.WithContext(ctx).Create(collection).Error
}

func (r *collectionRepo) Delete(ctx context.Context, userID int64, typ model.CollectionType, targetID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND target_id = ?", userID, typ, targetID).
		Delete(&model.Collection{}).Error
}

func (r *collectionRepo) ListByUser(ctx context.Context, userID int64, typ model.CollectionType, page, pageSize int) ([]model.Collection, int64, error) {
	var collections []model.Collection
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Collection{}).
		Where("user_id = ? AND type = ?", userID, typ)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize = normalizePage(page, pageSize)
	err := query.
		Order("id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&collections).Error

	return collections, total, err
}

func (r *collectionRepo) CountByTarget(ctx context.Context, typ model.CollectionType, targetID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Collection{}).
		Where("type = ? AND target_id = ?", typ, targetID).
		Count(&count).Error
	return count, err
}
