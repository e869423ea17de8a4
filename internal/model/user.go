package model

// ==================== 用户 ====================

// UserRole 用户角色
type UserRole string

const (
	RoleBuyer   UserRole = "BUYER"
	RoleSeller  UserRole = "SELLER"
	RoleManager UserRole = "MANAGER"
)

// UserStatus 用户状态
type UserStatus string

const (
	UserStatusOpen  UserStatus = "OPEN"
	UserStatusClose UserStatus = "CLOSE"
)

// User 平台用户（买家、卖家、管理员共用一张表，按 Role 区分）
type User struct {
	BaseModel
	Username string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Password string     `gorm:"size:128;not null" json:"-"` // bcrypt 哈希
	Mobile   string     `gorm:"size:20;index" json:"mobile"`
	Email    string     `gorm:"size:128" json:"email"`
	Face     string     `gorm:"size:512" json:"face"` // 头像
	Nickname string     `gorm:"size:64" json:"nickname"`
	Role     UserRole   `gorm:"size:16;default:BUYER;index" json:"role"`
	Status   UserStatus `gorm:"size:8;default:OPEN" json:"status"`
	StoreID  *int64     `gorm:"index" json:"storeId"` // 卖家关联的店铺
	Store    *Store     `gorm:"foreignKey:StoreID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserAddress 收货地址
type UserAddress struct {
	BaseModel
	UserID    int64  `gorm:"index;not null" json:"userId"`
	Name      string `gorm:"size:64" json:"name"`
	Mobile    string `gorm:"size:20" json:"mobile"`
	Detail    string `gorm:"size:512" json:"detail"`
	IsDefault bool   `gorm:"default:false" json:"isDefault"`
}

func (UserAddress) TableName() string {
	return "user_addresses"
}

// ==================== 收藏 ====================

// CollectionType 收藏类型
type CollectionType string

const (
	CollectionGoods CollectionType = "GOODS"
	CollectionStore CollectionType = "STORE"
)

// Collection 用户收藏（商品/店铺），同一目标只收藏一次
type Collection struct {
	BaseModel
	UserID   int64          `gorm:"uniqueIndex:idx_collection_key;not null" json:"userId"`
	Type     CollectionType `gorm:"size:8;uniqueIndex:idx_collection_key;not null" json:"type"`
	TargetID int64          `gorm:"uniqueIndex:idx_collection_key;not null" json:"targetId"`
}

func (Collection) TableName() string {
	return "collections"
}
