package model

// MarketEnable 上下架状态
type MarketEnable string

const (
	MarketUpper MarketEnable = "UPPER" // 上架
	MarketDown  MarketEnable = "DOWN"  // 下架
)

// AuthFlag 审核状态
type AuthFlag string

const (
	AuthToBeAudited AuthFlag = "TOBEAUDITED"
	AuthPass        AuthFlag = "PASS"
	AuthRefused     AuthFlag = "REFUSED"
)

// Goods 商品 SPU
// Quantity 为全部 SKU 库存之和；Grade/CommentNum 由评价聚合得出
type Goods struct {
	BaseModel
	AuditMixin
	GoodsName    string `gorm:"size:255;index;not null" json:"goodsName"`
	StoreID      int64  `gorm:"index;not null" json:"storeId"`
	Store        *Store `gorm:"foreignKey:StoreID" json:"-"`
	CategoryID   *int64 `gorm:"index" json:"categoryId"`
	BrandID      *int64 `gorm:"index" json:"brandId"`
	UnitID       *int64 `json:"unitId"`
	SellingPoint string `gorm:"size:512" json:"sellingPoint"`
	Intro        string `gorm:"type:text" json:"intro"`

	Price    float64 `gorm:"default:0" json:"price"`
	Quantity int     `gorm:"default:0" json:"quantity"`
	Weight   float64 `gorm:"default:0" json:"weight"`

	MarketEnable MarketEnable `gorm:"size:8;default:DOWN;index" json:"marketEnable"`
	UnderMessage string       `gorm:"size:512" json:"underMessage"`
	AuthFlag     AuthFlag     `gorm:"size:16;default:TOBEAUDITED;index" json:"authFlag"`
	AuthMessage  string       `gorm:"size:512" json:"authMessage"`

	// 评价聚合字段
	Grade      float64 `gorm:"default:0" json:"grade"`
	CommentNum int     `gorm:"default:0" json:"commentNum"`

	BuyCount     int  `gorm:"default:0" json:"buyCount"`
	Recommend    bool `gorm:"default:false" json:"recommend"`
	SelfOperated bool `gorm:"default:false" json:"selfOperated"`

	Skus    []GoodsSku     `gorm:"foreignKey:GoodsID" json:"-"`
	Gallery []GoodsGallery `gorm:"foreignKey:GoodsID" json:"-"`
}

func (Goods) TableName() string {
	return "goods"
}

// GoodsSku 商品 SKU
// SpecValueIDs 为逗号拼接的规格值 id 列表，顺序即规格顺序
type GoodsSku struct {
	BaseModel
	GoodsID      int64    `gorm:"index;not null" json:"goodsId"`
	StoreID      int64    `gorm:"index" json:"storeId"`
	GoodsName    string   `gorm:"size:255" json:"goodsName"`
	Sn           string   `gorm:"size:64;index" json:"sn"`
	Price        float64  `gorm:"default:0" json:"price"`
	Quantity     int      `gorm:"default:0" json:"quantity"`
	Weight       float64  `gorm:"default:0" json:"weight"`
	SpecValueIDs string   `gorm:"size:512" json:"specValueIds"`
	AuthFlag     AuthFlag `gorm:"size:16;default:TOBEAUDITED" json:"authFlag"`
}

func (GoodsSku) TableName() string {
	return "goods_skus"
}

// GoodsGallery 商品图片
type GoodsGallery struct {
	BaseModel
	GoodsID  int64  `gorm:"index;not null" json:"goodsId"`
	Original string `gorm:"size:512" json:"original"`
	Small    string `gorm:"size:512" json:"small"`
	Sort     int    `gorm:"default:0" json:"sort"`
}

func (GoodsGallery) TableName() string {
	return "goods_galleries"
}
