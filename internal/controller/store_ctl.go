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

// StoreController 店铺接口
type StoreController struct {
	storeSvc *service.StoreService
	statsSvc *service.StatisticsService
}

// NewStoreController 创建店铺接口
func NewStoreController(storeSvc *service.StoreService, statsSvc *service.StatisticsService) *StoreController {
	return &StoreController{storeSvc: storeSvc, statsSvc: statsSvc}
}

// ==================== 买家/卖家侧 ====================

// Apply 申请开店
func (c *StoreController) Apply(ctx *gin.Context) {
	var req service.ApplyStoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	store, err := c.storeSvc.Apply(ctx.Request.Context(), middleware.CurrentUserID(ctx), req)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, store)
}

// Detail 店铺详情
func (c *StoreController) Detail(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	store, err := c.storeSvc.GetStore(ctx.Request.Context(), id)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, store)
}

// Mine 卖家自己的店铺
func (c *StoreController) Mine(ctx *gin.Context) {
	storeID := middleware.CurrentStoreID(ctx)
	if storeID == nil {
		response.Error(ctx, errs.ErrStoreNotExist)
		return
	}
	store, err := c.storeSvc.GetStore(ctx.Request.Context(), *storeID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, store)
}

// UpdateSettings 店铺设置
func (c *StoreController) UpdateSettings(ctx *gin.Context) {
	storeID := middleware.CurrentStoreID(ctx)
	if storeID == nil {
		response.Error(ctx, errs.ErrForbidden)
		return
	}
	var req service.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.storeSvc.UpdateSettings(ctx.Request.Context(), *storeID, req); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

type renewRequest struct {
	Months int `json:"months"`
}

// RenewPayment 缴纳平台费
func (c *StoreController) RenewPayment(ctx *gin.Context) {
	storeID := middleware.CurrentStoreID(ctx)
	if storeID == nil {
		response.Error(ctx, errs.ErrForbidden)
		return
	}
	var req renewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.storeSvc.RenewPaymentDue(ctx.Request.Context(), *storeID, req.Months); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// Dashboard 店铺看板
func (c *StoreController) Dashboard(ctx *gin.Context) {
	storeID := middleware.CurrentStoreID(ctx)
	if storeID == nil {
		response.Error(ctx, errs.ErrForbidden)
		return
	}
	dashboard, err := c.storeSvc.Dashboard(ctx.Request.Context(), *storeID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, dashboard)
}

// TopGoods 店铺销量榜
func (c *StoreController) TopGoods(ctx *gin.Context) {
	storeID := middleware.CurrentStoreID(ctx)
	if storeID == nil {
		response.Error(ctx, errs.ErrForbidden)
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	rows, err := c.storeSvc.TopGoods(ctx.Request.Context(), *storeID, limit)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, rows)
}

// ==================== 平台侧 ====================

// ManagerList 平台店铺分页
func (c *StoreController) ManagerList(ctx *gin.Context) {
	page, pageSize := parsePage(ctx)
	filter := repository.StoreFilter{
		StoreName: ctx.Query("storeName"),
		Page:      page,
		PageSize:  pageSize,
	}
	if v := ctx.Query("storeDisable"); v != "" {
		filter.StoreDisable = model.StoreDisable(v)
	}
	stores, total, err := c.storeSvc.ListStores(ctx.Request.Context(), filter)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, response.NewPage(stores, total, page, pageSize))
}

type auditStoreRequest struct {
	Pass bool `json:"pass"`
}

// Audit 审核入驻申请
func (c *StoreController) Audit(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	var req auditStoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.storeSvc.Audit(ctx.Request.Context(), id, req.Pass); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

type disableStoreRequest struct {
	StoreDisable model.StoreDisable `json:"storeDisable" binding:"required"`
}

// SetDisable 平台启用/停用店铺
func (c *StoreController) SetDisable(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	var req disableStoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.storeSvc.SetDisable(ctx.Request.Context(), id, req.StoreDisable); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// PlatformDashboard 平台总览看板
func (c *StoreController) PlatformDashboard(ctx *gin.Context) {
	dashboard, err := c.statsSvc.Dashboard(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, dashboard)
}

// PlatformTopGoods 平台商品销量榜
func (c *StoreController) PlatformTopGoods(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	rows, err := c.statsSvc.TopGoods(ctx.Request.Context(), limit)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, rows)
}

// PlatformTopStores 平台店铺销售榜
func (c *StoreController) PlatformTopStores(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	rows, err := c.statsSvc.TopStores(ctx.Request.Context(), limit)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, rows)
}
