package model

import "time"

// StoreDisable 店铺状态
type StoreDisable string

const (
	StoreApplying StoreDisable = "APPLYING" // 入驻审核中
	StoreOpen     StoreDisable = "OPEN"
	StoreClosed   StoreDisable = "CLOSE"
	StoreRefused  StoreDisable = "REFUSED"
	StoreOverdue  StoreDisable = "OVERDUE" // 平台费逾期未缴
)

// Store 店铺
type Store struct {
	BaseModel
	StoreName          string       `gorm:"size:128;index" json:"storeName"`
	StoreLogo          string       `gorm:"size:512" json:"storeLogo"`
	StoreDesc          string       `gorm:"type:text" json:"storeDesc"`
	StoreAddressDetail string       `gorm:"size:512" json:"storeAddressDetail"`
	Email              string       `gorm:"size:128" json:"email"`
	Mobile             string       `gorm:"size:20" json:"mobile"`
	StoreDisable       StoreDisable `gorm:"size:16;default:APPLYING;index" json:"storeDisable"`
	SelfOperated       bool         `gorm:"default:false" json:"selfOperated"`

	// 库存预警线，低于该值的商品计入店铺看板提醒
	StockWarning int `gorm:"default:100" json:"stockWarning"`

	// 平台费到期日，逾期店铺的商品不参与检索
	PaymentDueDate time.Time `gorm:"index" json:"paymentDueDate"`
}

func (Store) TableName() string {
	return "stores"
}
