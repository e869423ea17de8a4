package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vendorvault/internal/model"
)

// UserAddressRepository 收货地址仓储接口
type UserAddressRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]model.UserAddress, error)
	GetByID(ctx context.Context, id int64) (*model.UserAddress, error)
	Create(ctx context.Context, address *model.UserAddress) error
	Update(ctx context.Context, address *model.UserAddress) error
	Delete(ctx context.Context, id int64) error
	// SetDefault 将指定地址设为默认，同时清除该用户其他默认标记
	SetDefault(ctx context.Context, userID, addressID int64) error
}

type userAddressRepo struct {
	db *gorm.DB
}

// NewUserAddressRepository 创建收货地址仓储
func NewUserAddressRepository(db *gorm.DB) UserAddressRepository {
	return &userAddressRepo{db: db}
}

func (r *userAddressRepo) ListByUser(ctx context.Context, userID int64) ([]model.UserAddress, error) {
	var addresses []model.UserAddress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, id DESC").
		Find(&addresses).Error
	return addresses, err
}

func (r *userAddressRepo) GetByID(ctx context.Context, id int64) (*model.UserAddress, error) {
	var address model.UserAddress
	err := r.db.WithContext(ctx).First(&address, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *userAddressRepo) Create(ctx context.Context, address *model.UserAddress) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *userAddressRepo) Update(ctx context.Context, address *model.UserAddress) error {
	return r.db.WithContext(ctx).Save(address).Error
}

func (r *userAddressRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.UserAddress{}, id).Error
}

func (r *userAddressRepo) SetDefault(ctx context.Context, userID, addressID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.UserAddress{}).
			Where("user_id = ?", userID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.UserAddress{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true).Error
	})
}
