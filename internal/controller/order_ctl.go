package controller

import (
	"github.com/gin-gonic/gin"

	"vendorvault/internal/middleware"
	"vendorvault/internal/model"
	"vendorvault/internal/repository"
	"vendorvault/internal/service"
	"vendorvault/pkg/errs"
	"vendorvault/pkg/response"
)

// OrderController 订单接口
type OrderController struct {
	orderSvc   *service.OrderService
	paymentSvc *service.PaymentService
}

// NewOrderController 创建订单接口
func NewOrderController(orderSvc *service.OrderService, paymentSvc *service.PaymentService) *OrderController {
	return &OrderController{orderSvc: orderSvc, paymentSvc: paymentSvc}
}

// ==================== 买家侧 ====================

// Create 下单
func (c *OrderController) Create(ctx *gin.Context) {
	var req service.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	order, err := c.orderSvc.CreateOrder(ctx.Request.Context(), middleware.CurrentUserID(ctx), req)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, order)
}

// Detail 订单详情
func (c *OrderController) Detail(ctx *gin.Context) {
	order, err := c.orderSvc.GetOrder(ctx.Request.Context(), ctx.Param("sn"))
	if err != nil {
		response.Error(ctx, err)
		return
	}
	if order.UserID != middleware.CurrentUserID(ctx) &&
		middleware.CurrentRole(ctx) != model.RoleManager {
		response.Error(ctx, errs.ErrOrderNotExist)
		return
	}
	response.Success(ctx, order)
}

// List 买家订单分页
func (c *OrderController) List(ctx *gin.Context) {
	page, pageSize := parsePage(ctx)
	userID := middleware.CurrentUserID(ctx)
	filter := repository.OrderFilter{
		UserID:   &userID,
		Page:     page,
		PageSize: pageSize,
	}
	if v := ctx.Query("orderStatus"); v != "" {
		filter.OrderStatus = model.OrderStatus(v)
	}
	orders, total, err := c.orderSvc.ListOrders(ctx.Request.Context(), filter)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, response.NewPage(orders, total, page, pageSize))
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// Cancel 取消订单
func (c *OrderController) Cancel(ctx *gin.Context) {
	var req cancelOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.orderSvc.CancelOrder(ctx.Request.Context(),
		middleware.CurrentUserID(ctx), ctx.Param("sn"), req.Reason); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// Delete 删除订单，仅已取消的订单可删
func (c *OrderController) Delete(ctx *gin.Context) {
	if err := c.orderSvc.DeleteOrder(ctx.Request.Context(),
		middleware.CurrentUserID(ctx), ctx.Param("sn")); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// ==================== 支付 ====================

// CreateStripeSession 创建 Stripe Checkout 会话
func (c *OrderController) CreateStripeSession(ctx *gin.Context) {
	sn := ctx.Query("orderSn")
	if sn == "" {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	session, err := c.paymentSvc.CreateCheckoutSession(ctx.Request.Context(), middleware.CurrentUserID(ctx), sn)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, session)
}

// StripeSuccess 支付成功回跳
func (c *OrderController) StripeSuccess(ctx *gin.Context) {
	sn := ctx.Query("orderSn")
	if sn == "" {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.paymentSvc.HandlePaySuccess(ctx.Request.Context(), sn); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// ==================== 店铺侧 ====================

// StoreSubOrders 店铺子订单分页
func (c *OrderController) StoreSubOrders(ctx *gin.Context) {
	storeID := middleware.CurrentStoreID(ctx)
	if storeID == nil {
		response.Error(ctx, errs.ErrForbidden)
		return
	}
	page, pageSize := parsePage(ctx)
	filter := repository.SubOrderFilter{
		StoreID:  storeID,
		OrderSn:  ctx.Query("orderSn"),
		Page:     page,
		PageSize: pageSize,
	}
	if v := ctx.Query("status"); v != "" {
		filter.Status = model.OrderStatus(v)
	}
	subs, total, err := c.orderSvc.ListStoreSubOrders(ctx.Request.Context(), filter)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, response.NewPage(subs, total, page, pageSize))
}

// ==================== 平台侧 ====================

// ManagerList 平台订单分页
func (c *OrderController) ManagerList(ctx *gin.Context) {
	page, pageSize := parsePage(ctx)
	filter := repository.OrderFilter{
		Sn:       ctx.Query("sn"),
		Page:     page,
		PageSize: pageSize,
	}
	if v := ctx.Query("orderStatus"); v != "" {
		filter.OrderStatus = model.OrderStatus(v)
	}
	orders, total, err := c.orderSvc.ListOrders(ctx.Request.Context(), filter)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, response.NewPage(orders, total, page, pageSize))
}

// ManagerPay 平台手动标记订单已支付（线下收款等场景）
func (c *OrderController) ManagerPay(ctx *gin.Context) {
	if err := c.orderSvc.PaySuccess(ctx.Request.Context(), ctx.Param("sn")); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// ManagerCancel 平台取消订单
func (c *OrderController) ManagerCancel(ctx *gin.Context) {
	var req cancelOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.orderSvc.CancelOrderByManager(ctx.Request.Context(), ctx.Param("sn"), req.Reason); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// PaymentLogs 支付流水分页
func (c *OrderController) PaymentLogs(ctx *gin.Context) {
	page, pageSize := parsePage(ctx)
	filter := repository.PaymentLogFilter{
		PayStatus: ctx.Query("payStatus"),
		Page:      page,
		PageSize:  pageSize,
	}
	logs, total, err := c.orderSvc.ListPaymentLogs(ctx.Request.Context(), filter)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, response.NewPage(logs, total, page, pageSize))
}
