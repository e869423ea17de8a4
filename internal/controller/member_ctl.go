package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"vendorvault/internal/middleware"
	"vendorvault/internal/model"
	"vendorvault/internal/repository"
	"vendorvault/internal/service"
	"vendorvault/pkg/errs"
	"vendorvault/pkg/response"
)

// MemberController 会员接口：资料、地址、收藏
type MemberController struct {
	memberSvc *service.MemberService
}

// NewMemberController 创建会员接口
func NewMemberController(memberSvc *service.MemberService) *MemberController {
	return &MemberController{memberSvc: memberSvc}
}

// Profile 个人资料
func (c *MemberController) Profile(ctx *gin.Context) {
	user, err := c.memberSvc.GetProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, user)
}

// UpdateProfile 更新资料
func (c *MemberController) UpdateProfile(ctx *gin.Context) {
	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.memberSvc.UpdateProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx), req); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ChangePassword 修改密码
func (c *MemberController) ChangePassword(ctx *gin.Context) {
	var req changePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.memberSvc.ChangePassword(ctx.Request.Context(),
		middleware.CurrentUserID(ctx), req.OldPassword, req.NewPassword); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// ==================== 收货地址 ====================

// ListAddresses 收货地址列表
func (c *MemberController) ListAddresses(ctx *gin.Context) {
	addresses, err := c.memberSvc.ListAddresses(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, addresses)
}

// AddAddress 新增地址
func (c *MemberController) AddAddress(ctx *gin.Context) {
	var address model.UserAddress
	if err := ctx.ShouldBindJSON(&address); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.memberSvc.AddAddress(ctx.Request.Context(), middleware.CurrentUserID(ctx), &address); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, address)
}

// UpdateAddress 更新地址
func (c *MemberController) UpdateAddress(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	var address model.UserAddress
	if err := ctx.ShouldBindJSON(&address); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	address.ID = id
	if err := c.memberSvc.UpdateAddress(ctx.Request.Context(), middleware.CurrentUserID(ctx), &address); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, address)
}

// DeleteAddress 删除地址
func (c *MemberController) DeleteAddress(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.memberSvc.DeleteAddress(ctx.Request.Context(), middleware.CurrentUserID(ctx), id); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// ==================== 收藏 ====================

func collectionTypeFromParam(param string) (model.CollectionType, bool) {
	switch param {
	case "GOODS":
		return model.CollectionGoods, true
	case "STORE":
		return model.CollectionStore, true
	}
	return "", false
}

// AddCollection 收藏商品/店铺
func (c *MemberController) AddCollection(ctx *gin.Context) {
	typ, ok := collectionTypeFromParam(ctx.Param("type"))
	if !ok {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	targetID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.memberSvc.AddCollection(ctx.Request.Context(), middleware.CurrentUserID(ctx), typ, targetID); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// RemoveCollection 取消收藏
func (c *MemberController) RemoveCollection(ctx *gin.Context) {
	typ, ok := collectionTypeFromParam(ctx.Param("type"))
	if !ok {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	targetID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.memberSvc.RemoveCollection(ctx.Request.Context(), middleware.CurrentUserID(ctx), typ, targetID); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// IsCollected 是否已收藏
func (c *MemberController) IsCollected(ctx *gin.Context) {
	typ, ok := collectionTypeFromParam(ctx.Param("type"))
	if !ok {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	targetID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	collected, err := c.memberSvc.IsCollected(ctx.Request.Context(), middleware.CurrentUserID(ctx), typ, targetID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, collected)
}

// ListCollections 收藏分页
func (c *MemberController) ListCollections(ctx *gin.Context) {
	typ, ok := collectionTypeFromParam(ctx.Param("type"))
	if !ok {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	page, pageSize := parsePage(ctx)
	collections, total, err := c.memberSvc.ListCollections(ctx.Request.Context(),
		middleware.CurrentUserID(ctx), typ, page, pageSize)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, response.NewPage(collections, total, page, pageSize))
}

// ==================== 平台会员管理 ====================

// ManagerList 平台分页查询会员
func (c *MemberController) ManagerList(ctx *gin.Context) {
	page, pageSize := parsePage(ctx)
	filter := repository.UserFilter{
		Username: ctx.Query("username"),
		Mobile:   ctx.Query("mobile"),
		Status:   model.UserStatus(ctx.Query("status")),
		Page:     page,
		PageSize: pageSize,
	}
	users, total, err := c.memberSvc.ListUsers(ctx.Request.Context(), filter)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, response.NewPage(users, total, page, pageSize))
}

// ManagerDetail 平台查看会员资料
func (c *MemberController) ManagerDetail(ctx *gin.Context) {
	userID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	user, err := c.memberSvc.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, user)
}

type updateUserStatusRequest struct {
	Status model.UserStatus `json:"status" binding:"required,oneof=OPEN CLOSE"`
}

// UpdateStatus 平台启用/禁用会员
func (c *MemberController) UpdateStatus(ctx *gin.Context) {
	userID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	var req updateUserStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.memberSvc.SetUserStatus(ctx.Request.Context(), userID, req.Status); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// ManagerUpdate 平台修改会员资料
func (c *MemberController) ManagerUpdate(ctx *gin.Context) {
	userID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.memberSvc.UpdateProfile(ctx.Request.Context(), userID, req); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// ManagerAddresses 平台查看会员收货地址
func (c *MemberController) ManagerAddresses(ctx *gin.Context) {
	userID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	addresses, err := c.memberSvc.ListAddresses(ctx.Request.Context(), userID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, addresses)
}

// parsePage 解析通用分页参数
func parsePage(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("pageNumber", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "10"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return page, pageSize
}
