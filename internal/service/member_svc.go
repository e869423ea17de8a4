package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"vendorvault/internal/model"
	"vendorvault/internal/repository"
	"vendorvault/pkg/errs"
)

// ==================== 服务实现 ====================

// MemberService 会员服务：个人资料、收货地址、收藏
type MemberService struct {
	userRepo       repository.UserRepository
	addressRepo    repository.UserAddressRepository
	collectionRepo repository.CollectionRepository
	goodsRepo      repository.GoodsRepository
	storeRepo      repository.StoreRepository
}

// NewMemberService 创建会员服务
func NewMemberService(
	userRepo repository.UserRepository,
	addressRepo repository.UserAddressRepository,
	collectionRepo repository.CollectionRepository,
	goodsRepo repository.GoodsRepository,
	storeRepo repository.StoreRepository,
) *MemberService {
	return &MemberService{
		userRepo:       userRepo,
		addressRepo:    addressRepo,
		collectionRepo: collectionRepo,
		goodsRepo:      goodsRepo,
		storeRepo:      storeRepo,
	}
}

// GetProfile 查询个人资料
func (s *MemberService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "查询用户失败")
	}
	if user == nil {
		return nil, errs.ErrUserNotExist
	}
	return user, nil
}

// UpdateProfileRequest 资料更新请求
type UpdateProfileRequest struct {
	Nickname string `json:"nickname"`
	Face     string `json:"face"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
}

// UpdateProfile 更新个人资料
func (s *MemberService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) error {
	fields := map[string]interface{}{}
	if req.Nickname != "" {
		fields["nickname"] = req.Nickname
	}
	if req.Face != "" {
		fields["face"] = req.Face
	}
	if req.Mobile != "" {
		fields["mobile"] = req.Mobile
	}
	if req.Email != "" {
		fields["email"] = req.Email
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		return errs.Wrap(err, "更新资料失败")
	}
	return nil
}

// ChangePassword 修改登录密码
func (s *MemberService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return errs.Wrap(err, "查询用户失败")
	}
	if user == nil {
		return errs.ErrUserNotExist
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return errs.ErrPasswordError
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errs.Wrap(err, "密码加密失败")
	}
	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"password": string(hashed)}); err != nil {
		return errs.Wrap(err, "更新密码失败")
	}
	return nil
}

// ==================== 平台会员管理 ====================

// ListUsers 平台分页查询会员
func (s *MemberService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, errs.Wrap(err, "查询会员失败")
	}
	return users, total, nil
}

// SetUserStatus 平台启用/禁用会员账号
func (s *MemberService) SetUserStatus(ctx context.Context, userID int64, status model.UserStatus) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return errs.Wrap(err, "查询用户失败")
	}
	if user == nil {
		return errs.ErrUserNotExist
	}
	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"status": status}); err != nil {
		return errs.Wrap(err, "更新用户状态失败")
	}
	return nil
}

// ==================== 收货地址 ====================

// ListAddresses 查询收货地址列表
func (s *MemberService) ListAddresses(ctx context.Context, userID int64) ([]model.UserAddress, error) {
	addresses, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "查询地址失败")
	}
	return addresses, nil
}

// AddAddress 新增收货地址，首个地址自动设为默认
func (s *MemberService) AddAddress(ctx context.Context, userID int64, address *model.UserAddress) error {
	address.UserID = userID
	existing, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return errs.Wrap(err, "查询地址失败")
	}
	if len(existing) == 0 {
		address.IsDefault = true
	}
	if err := s.addressRepo.Create(ctx, address); err != nil {
		return errs.Wrap(err, "新增地址失败")
	}
	if address.IsDefault && len(existing) > 0 {
		if err := s.addressRepo.SetDefault(ctx, userID, address.ID); err != nil {
			return errs.Wrap(err, "设置默认地址失败")
		}
	}
	return nil
}

// UpdateAddress 更新收货地址，只能操作本人的地址
func (s *MemberService) UpdateAddress(ctx context.Context, userID int64, address *model.UserAddress) error {
	existing, err := s.addressRepo.GetByID(ctx, address.ID)
	if err != nil {
		return errs.Wrap(err, "查询地址失败")
	}
	if existing == nil || existing.UserID != userID {
		return errs.ErrInvalidParams
	}
	address.UserID = userID
	if err := s.addressRepo.Update(ctx, address); err != nil {
		return errs.Wrap(err, "更新地址失败")
	}
	if address.IsDefault {
		if err := s.addressRepo.SetDefault(ctx, userID, address.ID); err != nil {
			return errs.Wrap(err, "设置默认地址失败")
		}
	}
	return nil
}

// DeleteAddress 删除收货地址
func (s *MemberService) DeleteAddress(ctx context.Context, userID, addressID int64) error {
	existing, err := s.addressRepo.GetByID(ctx, addressID)
	if err != nil {
		return errs.Wrap(err, "查询地址失败")
	}
	if existing == nil || existing.UserID != userID {
		return errs.ErrInvalidParams
	}
	if err := s.addressRepo.Delete(ctx, addressID); err != nil {
		return errs.Wrap(err, "删除地址失败")
	}
	return nil
}

// ==================== 收藏 ====================

// AddCollection 收藏商品或店铺，重复收藏幂等
func (s *MemberService) AddCollection(ctx context.Context, userID int64, typ model.CollectionType, targetID int64) error {
	switch typ {
	case model.CollectionGoods:
		goods, err := s.goodsRepo.GetByID(ctx, targetID)
		if err != nil {
			return errs.Wrap(err, "查询商品失败")
		}
		if goods == nil {
			return errs.ErrGoodsNotExist
		}
	case model.CollectionStore:
		store, err := s.storeRepo.GetByID(ctx, targetID)
		if err != nil {
			return errs.Wrap(err, "查询店铺失败")
		}
		if store == nil {
			return errs.ErrStoreNotExist
		}
	default:
		return errs.ErrInvalidParams
	}

	existing, err := s.collectionRepo.Find(ctx, userID, typ, targetID)
	if err != nil {
		return errs.Wrap(err, "查询收藏失败")
	}
	if existing != nil {
		return nil
	}
	collection := &model.Collection{UserID: userID, Type: typ, TargetID: targetID}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return errs.Wrap(err, "新增收藏失败")
	}
	return nil
}

// RemoveCollection 取消收藏
func (s *MemberService) RemoveCollection(ctx context.Context, userID int64, typ model.CollectionType, targetID int64) error {
	if err := s.collectionRepo.Delete(ctx, userID, typ, targetID); err != nil {
		return errs.Wrap(err, "取消收藏失败")
	}
	return nil
}

// IsCollected 查询是否已收藏
func (s *MemberService) IsCollected(ctx context.Context, userID int64, typ model.CollectionType, targetID int64) (bool, error) {
	existing, err := s.collectionRepo.Find(ctx, userID, typ, targetID)
	if err != nil {
		return false, errs.Wrap(err, "查询收藏失败")
	}
	return existing != nil, nil
}

// ListCollections 分页查询收藏列表
func (s *MemberService) ListCollections(ctx context.Context, userID int64, typ model.CollectionType, page, pageSize int) ([]model.Collection, int64, error) {
	collections, total, err := s.collectionRepo.ListByUser(ctx, userID, typ, page, pageSize)
	if err != nil {
		return nil, 0, errs.Wrap(err, "查询收藏失败")
	}
	return collections, total, nil
}
