package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vendorvault/internal/model"
	"vendorvault/internal/repository"
	"vendorvault/pkg/errs"
)

// ==================== 请求结构 ====================

// OrderItemInput 下单行项目
type OrderItemInput struct {
	GoodsID int64 `json:"goodsId" binding:"required"`
	SkuID   int64 `json:"skuId" binding:"required"`
	Num     int   `json:"num" binding:"required,min=1"`
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	Items           []OrderItemInput `json:"items" binding:"required,min=1"`
	ConsigneeName   string           `json:"consigneeName" binding:"required"`
	ConsigneeMobile string           `json:"consigneeMobile" binding:"required"`
	ConsigneeDetail string           `json:"consigneeDetail" binding:"required"`
}

// ==================== 服务实现 ====================

// OrderService 订单服务：下单拆单、支付回调、取消与查询
type OrderService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	goodsRepo repository.GoodsRepository
}

// NewOrderService 创建订单服务
func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, goodsRepo repository.GoodsRepository) *OrderService {
	return &OrderService{db: db, orderRepo: orderRepo, goodsRepo: goodsRepo}
}

// generateOrderSn 订单号：ORD + 时间戳 + uuid 片段
func generateOrderSn() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("ORD%d%s", time.Now().UnixMilli(), suffix)
}

// CreateOrder 创建订单。行项目按店铺分组拆成子订单，分组保持行项目
// 首次出现的店铺顺序；所有商品和 SKU 先整体校验，任何一个不存在就
// 整单失败，不落任何数据。订单、子订单、行项目和支付流水在同一事务
// 内写入，同时扣减 SKU 库存。
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, req CreateOrderRequest) (*model.Order, error) {
	type resolvedItem struct {
		input OrderItemInput
		goods *model.Goods
		sku   *model.GoodsSku
	}

	// 先全量校验，再开事务写入
	resolved := make([]resolvedItem, 0, len(req.Items))
	for _, item := range req.Items {
		goods, err := s.goodsRepo.GetByID(ctx, item.GoodsID)
		if err != nil {
			return nil, errs.Wrap(err, "查询商品失败")
		}
		if goods == nil {
			return nil, errs.ErrGoodsNotExist
		}
		sku, err := s.goodsRepo.GetSku(ctx, item.SkuID)
		if err != nil {
			return nil, errs.Wrap(err, "查询规格失败")
		}
		if sku == nil || sku.GoodsID != goods.ID {
			return nil, errs.ErrSkuNotExist
		}
		if sku.Quantity < item.Num {
			return nil, errs.ErrGoodsStockNotEnough
		}
		resolved = append(resolved, resolvedItem{input: item, goods: goods, sku: sku})
	}

	sn := generateOrderSn()
	order := &model.Order{
		Sn:              sn,
		UserID:          userID,
		OrderStatus:     model.OrderUnpaid,
		PayStatus:       model.OrderUnpaid,
		ConsigneeName:   req.ConsigneeName,
		ConsigneeMobile: req.ConsigneeMobile,
		ConsigneeDetail: req.ConsigneeDetail,
	}

	// 按店铺分组，保持首次出现顺序
	storeOrder := make([]int64, 0)
	grouped := make(map[int64][]resolvedItem)
	for _, item := range resolved {
		storeID := item.goods.StoreID
		if _, ok := grouped[storeID]; !ok {
			storeOrder = append(storeOrder, storeID)
		}
		grouped[storeID] = append(grouped[storeID], item)
		order.GoodsNum += item.input.Num
		order.GoodsPrice += item.sku.Price * float64(item.input.Num)
	}
	order.FlowPrice = order.GoodsPrice

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		goodsRepo := s.goodsRepo.WithTx(tx)

		if err := orderRepo.Create(ctx, order); err != nil {
			return errs.Wrap(err, "创建订单失败")
		}

		for _, storeID := range storeOrder {
			items := grouped[storeID]
			sub := &model.SubOrder{
				OrderSn: sn,
				StoreID: storeID,
				Status:  model.OrderUnpaid,
			}
			for _, item := range items {
				sub.SubTotal += item.sku.Price * float64(item.input.Num)
			}
			if err := tx.Create(sub).Error; err != nil {
				return errs.Wrap(err, "创建子订单失败")
			}
			for _, item := range items {
				orderItem := &model.OrderItem{
					SubOrderID: sub.ID,
					GoodsID:    item.goods.ID,
					SkuID:      item.sku.ID,
					Num:        item.input.Num,
					UnitPrice:  item.sku.Price,
					SubTotal:   item.sku.Price * float64(item.input.Num),
				}
				if err := tx.Create(orderItem).Error; err != nil {
					return errs.Wrap(err, "创建订单项失败")
				}
				if err := goodsRepo.UpdateSkuQuantity(ctx, item.sku.ID, -item.input.Num); err != nil {
					return errs.Wrap(err, "扣减库存失败")
				}
				if err := tx.Model(&model.Goods{}).
					Where("id = ?", item.goods.ID).
					Update("quantity", gorm.Expr("quantity - ?", item.input.Num)).Error; err != nil {
					return errs.Wrap(err, "扣减商品库存失败")
				}
			}
		}

		log := &model.PaymentLog{
			OrderSn:   &sn,
			UserID:    &userID,
			PayStatus: model.OrderUnpaid,
			Type:      model.PaymentTypeOrder,
		}
		if err := orderRepo.CreatePaymentLog(ctx, log); err != nil {
			return errs.Wrap(err, "创建支付流水失败")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, sn)
}

// GetOrder 按订单号查询订单（含子订单与行项目）
func (s *OrderService) GetOrder(ctx context.Context, sn string) (*model.Order, error) {
	order, err := s.orderRepo.GetBySn(ctx, sn)
	if err != nil {
		return nil, errs.Wrap(err, "查询订单失败")
	}
	if order == nil {
		return nil, errs.ErrOrderNotExist
	}
	return order, nil
}

// ListOrders 分页查询订单
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int64, error) {
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, errs.Wrap(err, "查询订单失败")
	}
	return orders, total, nil
}

// ListStoreSubOrders 店铺侧查询子订单
func (s *OrderService) ListStoreSubOrders(ctx context.Context, filter repository.SubOrderFilter) ([]model.SubOrder, int64, error) {
	subs, total, err := s.orderRepo.ListSubOrders(ctx, filter)
	if err != nil {
		return nil, 0, errs.Wrap(err, "查询子订单失败")
	}
	return subs, total, nil
}

// PaySuccess 支付成功回调：订单、子订单、支付流水统一置为已支付，
// 并累加商品销量。重复回调幂等。
func (s *OrderService) PaySuccess(ctx context.Context, sn string) error {
	order, err := s.orderRepo.GetBySn(ctx, sn)
	if err != nil {
		return errs.Wrap(err, "查询订单失败")
	}
	if order == nil {
		return errs.ErrOrderNotExist
	}
	if order.OrderStatus == model.OrderPaid {
		return nil
	}
	if order.OrderStatus == model.OrderCancelled {
		return errs.ErrOrderAlreadyCanceled
	}

	now := time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)

		if err := orderRepo.UpdateFieldsBySn(ctx, sn, map[string]interface{}{
			"order_status": model.OrderPaid,
			"pay_status":   model.OrderPaid,
		}); err != nil {
			return errs.Wrap(err, "更新订单状态失败")
		}
		if err := tx.Model(&model.SubOrder{}).
			Where("order_sn = ?", sn).
			Update("status", model.OrderPaid).Error; err != nil {
			return errs.Wrap(err, "更新子订单状态失败")
		}
		if err := orderRepo.UpdatePaymentLogBySn(ctx, sn, map[string]interface{}{
			"pay_status":   model.OrderPaid,
			"payment_time": now,
		}); err != nil {
			return errs.Wrap(err, "更新支付流水失败")
		}

		for _, sub := range order.SubOrders {
			for _, item := range sub.Items {
				if err := tx.Model(&model.Goods{}).
					Where("id = ?", item.GoodsID).
					Update("buy_count", gorm.Expr("buy_count + ?", item.Num)).Error; err != nil {
					return errs.Wrap(err, "累加销量失败")
				}
			}
		}
		return nil
	})
}

// CancelOrder 取消订单：只有未支付订单可取消，取消时回补库存
func (s *OrderService) CancelOrder(ctx context.Context, userID int64, sn, reason string) error {
	order, err := s.orderRepo.GetBySn(ctx, sn)
	if err != nil {
		return errs.Wrap(err, "查询订单失败")
	}
	if order == nil || order.UserID != userID {
		return errs.ErrOrderNotExist
	}
	if order.OrderStatus == model.OrderCancelled {
		return errs.ErrOrderAlreadyCanceled
	}
	if order.OrderStatus != model.OrderUnpaid {
		return errs.New(http.StatusBadRequest, errs.CodeInvalidParams, "已支付订单不能取消")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		goodsRepo := s.goodsRepo.WithTx(tx)

		if err := orderRepo.UpdateFieldsBySn(ctx, sn, map[string]interface{}{
			"order_status":  model.OrderCancelled,
			"cancel_reason": reason,
		}); err != nil {
			return errs.Wrap(err, "取消订单失败")
		}
		if err := tx.Model(&model.SubOrder{}).
			Where("order_sn = ?", sn).
			Update("status", model.OrderCancelled).Error; err != nil {
			return errs.Wrap(err, "更新子订单状态失败")
		}

		for _, sub := range order.SubOrders {
			for _, item := range sub.Items {
				if err := goodsRepo.UpdateSkuQuantity(ctx, item.SkuID, item.Num); err != nil {
					return errs.Wrap(err, "回补库存失败")
				}
				if err := tx.Model(&model.Goods{}).
					Where("id = ?", item.GoodsID).
					Update("quantity", gorm.Expr("quantity + ?", item.Num)).Error; err != nil {
					return errs.Wrap(err, "回补商品库存失败")
				}
			}
		}
		return nil
	})
}

// CancelOrderByManager 平台侧取消订单，不做归属校验
func (s *OrderService) CancelOrderByManager(ctx context.Context, sn, reason string) error {
	order, err := s.orderRepo.GetBySn(ctx, sn)
	if err != nil {
		return errs.Wrap(err, "查询订单失败")
	}
	if order == nil {
		return errs.ErrOrderNotExist
	}
	return s.CancelOrder(ctx, order.UserID, sn, reason)
}

// DeleteOrder 买家删除订单，仅已取消的订单可删（逻辑删除）
func (s *OrderService) DeleteOrder(ctx context.Context, userID int64, sn string) error {
	order, err := s.orderRepo.GetBySn(ctx, sn)
	if err != nil {
		return errs.Wrap(err, "查询订单失败")
	}
	if order == nil || order.UserID != userID {
		return errs.ErrOrderNotExist
	}
	if order.OrderStatus != model.OrderCancelled {
		return errs.New(http.StatusBadRequest, errs.CodeInvalidParams, "只能删除已取消的订单")
	}
	if err := s.orderRepo.DeleteBySn(ctx, sn); err != nil {
		return errs.Wrap(err, "删除订单失败")
	}
	return nil
}

// ListPaymentLogs 分页查询支付流水
func (s *OrderService) ListPaymentLogs(ctx context.Context, filter repository.PaymentLogFilter) ([]model.PaymentLog, int64, error) {
	logs, total, err := s.orderRepo.ListPaymentLogs(ctx, filter)
	if err != nil {
		return nil, 0, errs.Wrap(err, "查询支付流水失败")
	}
	return logs, total, nil
}
