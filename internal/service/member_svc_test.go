package service

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"vendorvault/internal/model"
	"vendorvault/internal/repository"
)

func newMemberService(db *gorm.DB) *MemberService {
	return NewMemberService(
		repository.NewUserRepository(db),
		repository.NewUserAddressRepository(db),
		repository.NewCollectionRepository(db),
		repository.NewGoodsRepository(db),
		repository.NewStoreRepository(db),
	)
}

// ==================== 收货地址 ====================

func TestMemberService_AddAddress_FirstIsDefault(t *testing.T) {
	db := setupTestDB(t)
	svc := newMemberService(db)
	ctx := context.Background()

	user := seedUser(t, db, "addruser", model.RoleBuyer)

	first := &model.UserAddress{Name: "老家", Mobile: "13000000001", Detail: "老家地址"}
	if err := svc.AddAddress(ctx, user.ID, first); err != nil {
		t.Fatalf("新增地址失败: %v", err)
	}
	if !first.IsDefault {
		t.Error("首个地址应自动设为默认")
	}

	second := &model.UserAddress{Name: "公司", Mobile: "13000000002", Detail: "公司地址"}
	if err := svc.AddAddress(ctx, user.ID, second); err != nil {
		t.Fatalf("新增第二个地址失败: %v", err)
	}

	addresses, err := svc.ListAddresses(ctx, user.ID)
	if err != nil {
		t.Fatalf("查询地址失败: %v", err)
	}
	if len(addresses) != 2 {
		t.Fatalf("地址数量错误: %d", len(addresses))
	}
	defaultCount := 0
	for _, a := range addresses {
		if a.IsDefault {
			defaultCount++
		}
	}
	if defaultCount != 1 {
		t.Errorf("默认地址应只有一个: %d", defaultCount)
	}
}

func TestMemberService_UpdateAddress_SwitchDefault(t *testing.T) {
	db := setupTestDB(t)
	svc := newMemberService(db)
	ctx := context.Background()

	user := seedUser(t, db, "switchuser", model.RoleBuyer)
	first := &model.UserAddress{Name: "地址一", Detail: "一"}
	second := &model.UserAddress{Name: "地址二", Detail: "二"}
	if err := svc.AddAddress(ctx, user.ID, first); err != nil {
		t.Fatalf("新增地址失败: %v", err)
	}
	if err := svc.AddAddress(ctx, user.ID, second); err != nil {
		t.Fatalf("新增地址失败: %v", err)
	}

	second.IsDefault = true
	if err := svc.UpdateAddress(ctx, user.ID, second); err != nil {
		t.Fatalf("更新地址失败: %v", err)
	}

	var a1, a2 model.UserAddress
	db.First(&a1, first.ID)
	db.First(&a2, second.ID)
	if a1.IsDefault || !a2.IsDefault {
		t.Errorf("默认地址切换失败: 一=%v 二=%v", a1.IsDefault, a2.IsDefault)
	}
}

func TestMemberService_DeleteAddress_OwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newMemberService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "addrowner", model.RoleBuyer)
	other := seedUser(t, db, "addrother", model.RoleBuyer)
	addr := &model.UserAddress{Name: "私有地址", Detail: "某地"}
	if err := svc.AddAddress(ctx, owner.ID, addr); err != nil {
		t.Fatalf("新增地址失败: %v", err)
	}

	if err := svc.DeleteAddress(ctx, other.ID, addr.ID); err == nil {
		t.Error("他人删除地址应失败")
	}
	if err := svc.DeleteAddress(ctx, owner.ID, addr.ID); err != nil {
		t.Errorf("本人删除地址失败: %v", err)
	}
}

// ==================== 收藏 ====================

func TestMemberService_Collection(t *testing.T) {
	db := setupTestDB(t)
	svc := newMemberService(db)
	ctx := context.Background()

	user := seedUser(t, db, "collector", model.RoleBuyer)
	store := seedStore(t, db, "被收藏店铺")
	goods, _ := seedGoodsWithSku(t, db, store.ID, "被收藏商品", 10, 5)

	if err := svc.AddCollection(ctx, user.ID, model.CollectionGoods, goods.ID); err != nil {
		t.Fatalf("收藏商品失败: %v", err)
	}
	// 重复收藏幂等
	if err := svc.AddCollection(ctx, user.ID, model.CollectionGoods, goods.ID); err != nil {
		t.Fatalf("重复收藏应幂等: %v", err)
	}
	var count int64
	db.Model(&model.Collection{}).Count(&count)
	if count != 1 {
		t.Errorf("收藏记录应只有一条: %d", count)
	}

	// 收藏不存在的商品
	if err := svc.AddCollection(ctx, user.ID, model.CollectionGoods, 99999); err == nil {
		t.Error("收藏不存在的商品应失败")
	}

	collected, err := svc.IsCollected(ctx, user.ID, model.CollectionGoods, goods.ID)
	if err != nil {
		t.Fatalf("查询收藏状态失败: %v", err)
	}
	if !collected {
		t.Error("应为已收藏")
	}

	if err := svc.RemoveCollection(ctx, user.ID, model.CollectionGoods, goods.ID); err != nil {
		t.Fatalf("取消收藏失败: %v", err)
	}
	collected, err = svc.IsCollected(ctx, user.ID, model.CollectionGoods, goods.ID)
	if err != nil {
		t.Fatalf("查询收藏状态失败: %v", err)
	}
	if collected {
		t.Error("取消后不应为已收藏")
	}
}

// ==================== 修改密码 ====================

func TestMemberService_ChangePassword(t *testing.T) {
	db := setupTestDB(t)
	authSvc := newAuthService(db)
	svc := newMemberService(db)
	ctx := context.Background()

	user, err := authSvc.Register(ctx, RegisterRequest{
		Username: "pwduser",
		Password: "oldpass123",
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	// 旧密码错误
	if err := svc.ChangePassword(ctx, user.ID, "wrongold", "newpass123"); err == nil {
		t.Error("旧密码错误应失败")
	}

	if err := svc.ChangePassword(ctx, user.ID, "oldpass123", "newpass123"); err != nil {
		t.Fatalf("修改密码失败: %v", err)
	}
	if _, err := authSvc.Login(ctx, "pwduser", "newpass123", ""); err != nil {
		t.Errorf("新密码登录失败: %v", err)
	}
	if _, err := authSvc.Login(ctx, "pwduser", "oldpass123", ""); err == nil {
		t.Error("旧密码不应再能登录")
	}
}
