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

// EvaluationController 评价接口
type EvaluationController struct {
	evalSvc *service.EvaluationService
}

// NewEvaluationController 创建评价接口
func NewEvaluationController(evalSvc *service.EvaluationService) *EvaluationController {
	return &EvaluationController{evalSvc: evalSvc}
}

// Add 买家发表评价
func (c *EvaluationController) Add(ctx *gin.Context) {
	var req service.AddEvaluationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	eval, err := c.evalSvc.AddEvaluation(ctx.Request.Context(), middleware.CurrentUserID(ctx), req)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, eval)
}

// Detail 查询单条评价
func (c *EvaluationController) Detail(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	eval, err := c.evalSvc.GetEvaluation(ctx.Request.Context(), id)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, eval)
}

// Mine 买家自己的评价分页
func (c *EvaluationController) Mine(ctx *gin.Context) {
	page, pageSize := parsePage(ctx)
	userID := middleware.CurrentUserID(ctx)
	filter := repository.EvaluationFilter{
		UserID:   &userID,
		Page:     page,
		PageSize: pageSize,
	}
	evals, total, err := c.evalSvc.List(ctx.Request.Context(), filter)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, response.NewPage(evals, total, page, pageSize))
}

// StoreList 店铺收到的评价分页
func (c *EvaluationController) StoreList(ctx *gin.Context) {
	storeID := middleware.CurrentStoreID(ctx)
	if storeID == nil {
		response.Error(ctx, errs.ErrForbidden)
		return
	}
	page, pageSize := parsePage(ctx)
	filter := repository.EvaluationFilter{
		StoreID:  storeID,
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

type replyRequest struct {
	Reply      string `json:"reply" binding:"required"`
	ReplyImage string `json:"replyImage"`
}

// Reply 店铺回复评价
func (c *EvaluationController) Reply(ctx *gin.Context) {
	storeID := middleware.CurrentStoreID(ctx)
	if storeID == nil {
		response.Error(ctx, errs.ErrForbidden)
		return
	}
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	var req replyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.evalSvc.Reply(ctx.Request.Context(), *storeID, id, req.Reply, req.ReplyImage); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// ==================== 平台侧 ====================

// ManagerList 平台评价分页
func (c *EvaluationController) ManagerList(ctx *gin.Context) {
	page, pageSize := parsePage(ctx)
	filter := repository.EvaluationFilter{
		Page:     page,
		PageSize: pageSize,
	}
	if v := ctx.Query("status"); v != "" {
		filter.Status = model.EvaluationStatus(v)
	}
	evals, total, err := c.evalSvc.List(ctx.Request.Context(), filter)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, response.NewPage(evals, total, page, pageSize))
}

type setStatusRequest struct {
	Status model.EvaluationStatus `json:"status" binding:"required"`
}

// SetStatus 平台显示/屏蔽评价
func (c *EvaluationController) SetStatus(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	var req setStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.evalSvc.SetStatus(ctx.Request.Context(), id, req.Status); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}
