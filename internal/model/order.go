package model

import "time"

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderUnpaid    OrderStatus = "UNPAID"
	OrderPaid      OrderStatus = "PAID"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Order 主订单，跨店铺下单时按店铺拆分为多个 SubOrder
type Order struct {
	BaseModel
	AuditMixin
	Sn     string `gorm:"size:64;uniqueIndex;not null" json:"sn"`
	UserID int64  `gorm:"index;not null" json:"memberId"`
	User   *User  `gorm:"foreignKey:UserID" json:"-"`

	OrderStatus OrderStatus `gorm:"size:16;default:UNPAID;index" json:"orderStatus"`
	PayStatus   OrderStatus `gorm:"size:16;default:UNPAID" json:"payStatus"`

	GoodsNum   int     `gorm:"default:0" json:"goodsNum"`
	GoodsPrice float64 `gorm:"default:0" json:"goodsPrice"`
	FlowPrice  float64 `gorm:"default:0" json:"flowPrice"`

	ConsigneeName   string `gorm:"size:64" json:"consigneeName"`
	ConsigneeMobile string `gorm:"size:20" json:"consigneeMobile"`
	ConsigneeDetail string `gorm:"size:512" json:"consigneeDetail"`

	CancelReason string `gorm:"size:512" json:"cancelReason"`

	SubOrders []SubOrder `gorm:"foreignKey:OrderSn;references:Sn" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

// SubOrder 店铺子订单
type SubOrder struct {
	BaseModel
	OrderSn  string      `gorm:"size:64;index;not null" json:"orderSn"`
	StoreID  int64       `gorm:"index;not null" json:"storeId"`
	Store    *Store      `gorm:"foreignKey:StoreID" json:"-"`
	SubTotal float64     `gorm:"default:0" json:"subTotal"`
	Status   OrderStatus `gorm:"size:16;default:UNPAID;index" json:"status"`

	Items []OrderItem `gorm:"foreignKey:SubOrderID" json:"-"`
}

func (SubOrder) TableName() string {
	return "sub_orders"
}

// OrderItem 订单行项目
type OrderItem struct {
	BaseModel
	SubOrderID int64   `gorm:"index;not null" json:"subOrderId"`
	GoodsID    int64   `gorm:"index;not null" json:"goodsId"`
	SkuID      int64   `gorm:"index;not null" json:"skuId"`
	Num        int     `gorm:"default:0" json:"num"`
	UnitPrice  float64 `gorm:"default:0" json:"unitPrice"`
	SubTotal   float64 `gorm:"default:0" json:"subTotal"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// PaymentLogType 支付流水类型
type PaymentLogType string

const (
	PaymentTypeOrder   PaymentLogType = "ORDER"   // 买家订单支付
	PaymentTypePayment PaymentLogType = "PAYMENT" // 店铺平台费
)

// PaymentLog 支付流水
type PaymentLog struct {
	BaseModel
	AuditMixin
	OrderSn     *string        `gorm:"size:64;index" json:"orderSn"`
	UserID      *int64         `gorm:"index" json:"memberId"`
	StoreID     *int64         `gorm:"index" json:"storeId"`
	PayStatus   OrderStatus    `gorm:"size:16" json:"payStatus"`
	PaymentTime time.Time      `json:"paymentTime"`
	Type        PaymentLogType `gorm:"size:16" json:"type"`
}

func (PaymentLog) TableName() string {
	return "payment_logs"
}
