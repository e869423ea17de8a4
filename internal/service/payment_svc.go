package service

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"vendorvault/pkg/config"
	"vendorvault/pkg/errs"
	"vendorvault/pkg/logger"
)

const stripeAPIBase = "https://api.stripe.com/v1"

// CheckoutSession Stripe Checkout 会话
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentService 支付服务，对接 Stripe Checkout
type PaymentService struct {
	client   *resty.Client
	cfg      config.StripeConfig
	orderSvc *OrderService
}

// NewPaymentService 创建支付服务
func NewPaymentService(cfg config.StripeConfig, orderSvc *OrderService) *PaymentService {
	client := resty.New().
		SetBaseURL(stripeAPIBase).
		SetAuthToken(cfg.SecretKey).
		SetHeader("Content-Type", "application/x-www-form-urlencoded")
	return &PaymentService{client: client, cfg: cfg, orderSvc: orderSvc}
}

// CreateCheckoutSession 为订单创建 Stripe Checkout 会话，返回跳转链接
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, userID int64, orderSn string) (*CheckoutSession, error) {
	order, err := s.orderSvc.GetOrder(ctx, orderSn)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, errs.ErrOrderNotExist
	}

	// Stripe 金额单位是最小货币单位（分）
	amount := int64(math.Round(order.FlowPrice * 100))
	form := map[string]string{
		"mode":                                       "payment",
		"success_url":                                fmt.Sprintf("%s?orderSn=%s", s.cfg.SuccessURL, orderSn),
		"cancel_url":                                 s.cfg.CancelURL,
		"client_reference_id":                        orderSn,
		"line_items[0][price_data][currency]":        "usd",
		"line_items[0][price_data][unit_amount]":     strconv.FormatInt(amount, 10),
		"line_items[0][price_data][product_data][name]": "Order " + orderSn,
		"line_items[0][quantity]":                    "1",
	}

	var session CheckoutSession
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&session).
		Post("/checkout/sessions")
	if err != nil {
		return nil, errs.Wrap(err, "创建支付会话失败")
	}
	if resp.StatusCode() != http.StatusOK {
		logger.Errorf("stripe checkout 返回异常: status=%d body=%s", resp.StatusCode(), resp.String())
		return nil, errs.Wrap(fmt.Errorf("stripe status %d", resp.StatusCode()), "创建支付会话失败")
	}
	return &session, nil
}

// HandlePaySuccess 支付成功回跳，标记订单已支付
func (s *PaymentService) HandlePaySuccess(ctx context.Context, orderSn string) error {
	return s.orderSvc.PaySuccess(ctx, orderSn)
}
