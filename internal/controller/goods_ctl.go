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

// GoodsController 商品接口
type GoodsController struct {
	goodsSvc *service.GoodsService
	evalSvc  *service.EvaluationService
}

// NewGoodsController 创建商品接口
func NewGoodsController(goodsSvc *service.GoodsService, evalSvc *service.EvaluationService) *GoodsController {
	return &GoodsController{goodsSvc: goodsSvc, evalSvc: evalSvc}
}

func buildGoodsFilter(ctx *gin.Context, page, pageSize int) repository.GoodsFilter {
	filter := repository.GoodsFilter{
		GoodsName: ctx.Query("goodsName"),
		SortBy:    ctx.Query("sort"),
		Page:      page,
		PageSize:  pageSize,
	}
	if v := ctx.Query("categoryId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.CategoryID = &id
		}
	}
	if v := ctx.Query("storeId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.StoreID = &id
		}
	}
	if v := ctx.Query("marketEnable"); v != "" {
		filter.MarketEnable = model.MarketEnable(v)
	}
	if v := ctx.Query("authFlag"); v != "" {
		filter.AuthFlag = model.AuthFlag(v)
	}
	if v := ctx.Query("recommend"); v != "" {
		recommend := v == "true"
		filter.Recommend = &recommend
	}
	return filter
}

// ==================== 买家侧 ====================

// Search 买家检索商品，只返回上架且审核通过的商品
func (c *GoodsController) Search(ctx *gin.Context) {
	page, pageSize := parsePage(ctx)
	goods, total, err := c.goodsSvc.ListOnSaleGoods(ctx.Request.Context(), buildGoodsFilter(ctx, page, pageSize))
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, response.NewPage(goods, total, page, pageSize))
}

// Detail 商品详情
func (c *GoodsController) Detail(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	detail, err := c.goodsSvc.GetGoodsDetail(ctx.Request.Context(), id)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, detail)
}

// Evaluations 商品评价分页
func (c *GoodsController) Evaluations(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	page, pageSize := parsePage(ctx)
	filter := repository.EvaluationFilter{
		GoodsID:  &id,
		Status:   model.EvaluationOpen,
		Page:     page,
		PageSize: pageSize,
	}
	if v := ctx.Query("grade"); v != "" {
		filter.Grade = model.EvaluationGrade(v)
	}
	evals, total, err := c.evalSvc.List(ctx.Request.Context(), filter)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, response.NewPage(evals, total, page, pageSize))
}

// EvaluationSummary 商品评价统计
func (c *GoodsController) EvaluationSummary(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	summary, err := c.evalSvc.Summary(ctx.Request.Context(), id)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, summary)
}

// ==================== 店铺侧 ====================

// StoreList 店铺自有商品分页
func (c *GoodsController) StoreList(ctx *gin.Context) {
	storeID := middleware.CurrentStoreID(ctx)
	if storeID == nil {
		response.Error(ctx, errs.ErrForbidden)
		return
	}
	page, pageSize := parsePage(ctx)
	filter := buildGoodsFilter(ctx, page, pageSize)
	filter.StoreID = storeID
	goods, total, err := c.goodsSvc.ListGoods(ctx.Request.Context(), filter)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, response.NewPage(goods, total, page, pageSize))
}

// Save 发布/编辑商品
func (c *GoodsController) Save(ctx *gin.Context) {
	storeID := middleware.CurrentStoreID(ctx)
	if storeID == nil {
		response.Error(ctx, errs.ErrForbidden)
		return
	}
	var req service.SaveGoodsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	goods, err := c.goodsSvc.SaveGoods(ctx.Request.Context(), *storeID, req)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, goods)
}

type batchGoodsRequest struct {
	GoodsIDs []int64 `json:"goodsIds" binding:"required,min=1"`
	Reason   string  `json:"reason"`
}

// Up 批量上架
func (c *GoodsController) Up(ctx *gin.Context) {
	storeID := middleware.CurrentStoreID(ctx)
	if storeID == nil {
		response.Error(ctx, errs.ErrForbidden)
		return
	}
	var req batchGoodsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.goodsSvc.UpGoods(ctx.Request.Context(), storeID, req.GoodsIDs); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// Under 批量下架
func (c *GoodsController) Under(ctx *gin.Context) {
	storeID := middleware.CurrentStoreID(ctx)
	if storeID == nil {
		response.Error(ctx, errs.ErrForbidden)
		return
	}
	var req batchGoodsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.goodsSvc.UnderGoods(ctx.Request.Context(), storeID, req.GoodsIDs, req.Reason); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// Delete 批量删除自己店铺的商品
func (c *GoodsController) Delete(ctx *gin.Context) {
	storeID := middleware.CurrentStoreID(ctx)
	if storeID == nil {
		response.Error(ctx, errs.ErrForbidden)
		return
	}
	var req batchGoodsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.goodsSvc.DeleteGoods(ctx.Request.Context(), *storeID, req.GoodsIDs); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

type updateStockRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// UpdateStock 调整 SKU 库存
func (c *GoodsController) UpdateStock(ctx *gin.Context) {
	storeID := middleware.CurrentStoreID(ctx)
	if storeID == nil {
		response.Error(ctx, errs.ErrForbidden)
		return
	}
	skuID, err := strconv.ParseInt(ctx.Param("skuId"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	var req updateStockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.goodsSvc.UpdateSkuStock(ctx.Request.Context(), *storeID, skuID, req.Quantity); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// ==================== 平台侧 ====================

// ManagerList 平台商品分页（含待审核）
func (c *GoodsController) ManagerList(ctx *gin.Context) {
	page, pageSize := parsePage(ctx)
	goods, total, err := c.goodsSvc.ListGoods(ctx.Request.Context(), buildGoodsFilter(ctx, page, pageSize))
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, response.NewPage(goods, total, page, pageSize))
}

type auditGoodsRequest struct {
	Pass    bool   `json:"pass"`
	Message string `json:"message"`
}

// Audit 审核商品
func (c *GoodsController) Audit(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	var req auditGoodsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.goodsSvc.AuditGoods(ctx.Request.Context(), id, req.Pass, req.Message); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// ManagerUnder 平台强制下架
func (c *GoodsController) ManagerUnder(ctx *gin.Context) {
	var req batchGoodsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.goodsSvc.UnderGoods(ctx.Request.Context(), nil, req.GoodsIDs, req.Reason); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// ManagerUp 平台重新上架
func (c *GoodsController) ManagerUp(ctx *gin.Context) {
	var req batchGoodsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.goodsSvc.UpGoods(ctx.Request.Context(), nil, req.GoodsIDs); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}
