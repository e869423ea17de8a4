package model

// ==================== 分类 ====================

// Category 商品分类，parent_id 自引用构成树
// 根分类 parent_id 为空；层级最深 3 级（level < 4），写入时校验
type Category struct {
	BaseModel
	Name           string  `gorm:"size:128;not null" json:"name"`
	ParentID       *int64  `gorm:"index" json:"parentId"`
	Level          int     `gorm:"default:0" json:"level"`
	SortOrder      int     `gorm:"default:0;index" json:"sortOrder"`
	CommissionRate float64 `gorm:"default:0" json:"commissionRate"`
	Image          string  `gorm:"size:512" json:"image"`
	DeleteFlag     bool    `gorm:"default:false" json:"deleteFlag"` // true = 停用
}

func (Category) TableName() string {
	return "categories"
}

// ==================== 品牌 ====================

// Brand 品牌
type Brand struct {
	BaseModel
	Name       string `gorm:"size:128;index" json:"name"`
	Logo       string `gorm:"size:512" json:"logo"`
	DeleteFlag bool   `gorm:"default:false" json:"deleteFlag"`
}

func (Brand) TableName() string {
	return "brands"
}

// CategoryBrand 分类-品牌绑定
type CategoryBrand struct {
	BaseModel
	CategoryID int64 `gorm:"uniqueIndex:idx_category_brand;not null" json:"categoryId"`
	BrandID    int64 `gorm:"uniqueIndex:idx_category_brand;not null" json:"brandId"`
}

func (CategoryBrand) TableName() string {
	return "category_brands"
}

// ==================== 规格 ====================

// Specification 规格名（如 Color），store_id 为空表示平台通用
type Specification struct {
	BaseModel
	SpecName string `gorm:"size:128;index;not null" json:"specName"`
	StoreID  *int64 `gorm:"index" json:"storeId"`
}

func (Specification) TableName() string {
	return "specifications"
}

// SpecValue 规格值（如 Red）
type SpecValue struct {
	BaseModel
	SpecID    int64  `gorm:"index;not null" json:"specId"`
	SpecValue string `gorm:"size:128;not null" json:"specValue"`
}

func (SpecValue) TableName() string {
	return "spec_values"
}

// CategorySpec 分类-规格绑定
type CategorySpec struct {
	BaseModel
	CategoryID int64 `gorm:"uniqueIndex:idx_category_spec;not null" json:"categoryId"`
	SpecID     int64 `gorm:"uniqueIndex:idx_category_spec;not null" json:"specId"`
}

func (CategorySpec) TableName() string {
	return "category_specs"
}

// ==================== 计量单位 ====================

// GoodsUnit 商品计量单位
type GoodsUnit struct {
	BaseModel
	Name string `gorm:"size:64;not null" json:"name"`
}

func (GoodsUnit) TableName() string {
	return "goods_units"
}
