package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vendorvault/internal/model"
)

// ==================== 接口定义 ====================

// GoodsRepository 商品仓储接口，含 SKU 与相册维护
type GoodsRepository interface {
	Create(ctx context.Context, goods *model.Goods) error
	GetByID(ctx context.Context, id int64) (*model.Goods, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Goods, error)
	Update(ctx context.Context, goods *model.Goods) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	BatchUpdateFields(ctx context.Context, ids []int64, fields map[string]interface{}) error
	DeleteByIDs(ctx context.Context, ids []int64) error
	List(ctx context.Context, filter GoodsFilter) ([]model.Goods, int64, error)
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
	CountByStore(ctx context.Context, storeID int64, marketEnable model.MarketEnable) (int64, error)
	CountLowStock(ctx context.Context, storeID int64, threshold int) (int64, error)
	CountWaitAuth(ctx context.Context, storeID int64) (int64, error)

	GetSku(ctx context.Context, skuID int64) (*model.GoodsSku, error)
	ListSkus(ctx context.Context, goodsID int64) ([]model.GoodsSku, error)
	CreateSkus(ctx context.Context, skus []model.GoodsSku) error
	UpdateSku(ctx context.Context, sku *model.GoodsSku) error
	UpdateSkuFieldsByGoodsID(ctx context.Context, goodsID int64, fields map[string]interface{}) error
	DeleteSkusByGoodsID(ctx context.Context, goodsID int64) error
	UpdateSkuQuantity(ctx context.Context, skuID int64, delta int) error

	ListGalleries(ctx context.Context, goodsID int64) ([]model.GoodsGallery, error)
	ReplaceGalleries(ctx context.Context, goodsID int64, galleries []model.GoodsGallery) error

	WithTx(tx *gorm.DB) GoodsRepository
}

// GoodsFilter 商品列表过滤条件
type GoodsFilter struct {
	GoodsName    string
	StoreID      *int64
	CategoryID   *int64
	MarketEnable model.MarketEnable
	AuthFlag     model.AuthFlag
	Recommend    *bool
	// OnlyOpenStore 为真时只返回营业中店铺的商品，逾期/关店的不参与检索
	OnlyOpenStore bool
	SortBy       string // buy_count / grade / price_asc / price_desc，默认按创建倒序
	Page         int
	PageSize     int
}

// ==================== 仓储实现 ====================

type goodsRepo struct {
	db *gorm.DB
}

// NewGoodsRepository 创建商品仓储
func NewGoodsRepository(db *gorm.DB) GoodsRepository {
	return &goodsRepo{db: db}
}

func (r *goodsRepo) Create(ctx context.Context, goods *model.Goods) error {
	return r.db.WithContext(ctx).Create(goods).Error
}

func (r *goodsRepo) GetByID(ctx context.Context, id int64) (*model.Goods, error) {
	var goods model.Goods
	err := r.db.WithContext(ctx).
		Preload("Skus").
		Preload("Gallery").
		First(&goods, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &goods, nil
}

// GetByIDForUpdate 行锁读取，必须在事务内调用。
// SQLite 不支持 FOR UPDATE，事务本身已是串行写，跳过加锁。
func (r *goodsRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.Goods, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var goods model.Goods
	err := query.First(&goods, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &goods, nil
}

func (r *goodsRepo) Update(ctx context.Context, goods *model.Goods) error {
	return r.db.WithContext(ctx).Save(goods).Error
}

func (r *goodsRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Goods{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *goodsRepo) BatchUpdateFields(ctx context.Context, ids []int64, fields map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Goods{}).
		Where("id IN ?", ids).
		Updates(fields).Error
}

func (r *goodsRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goods_id IN ?", ids).
			Delete(&model.GoodsSku{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).
			Delete(&model.Goods{}).Error
	})
}

func (r *goodsRepo) List(ctx context.Context, filter GoodsFilter) ([]model.Goods, int64, error) {
	var goods []model.Goods
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Goods{})
	if filter.GoodsName != "" {
		query = query.Where("goods_name LIKE ?", "%"+filter.GoodsName+"%")
	}
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.MarketEnable != "" {
		query = query.Where("market_enable = ?", filter.MarketEnable)
	}
	if filter.AuthFlag != "" {
		query = query.Where("auth_flag = ?", filter.AuthFlag)
	}
	if filter.Recommend != nil {
		query = query.Where("recommend = ?", *filter.Recommend)
	}
	if filter.OnlyOpenStore {
		query = query.
			Joins("JOIN stores ON stores.id = goods.store_id").
			Where("stores.store_disable = ?", model.StoreOpen)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.SortBy {
	case "buy_count":
		query = query.Order("buy_count DESC")
	case "grade":
		query = query.Order("grade DESC")
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	default:
		query = query.Order("goods.id DESC")
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&goods).Error

	return goods, total, err
}

func (r *goodsRepo) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Goods{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *goodsRepo) CountByStore(ctx context.Context, storeID int64, marketEnable model.MarketEnable) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&model.Goods{}).
		Where("store_id = ?", storeID)
	if marketEnable != "" {
		query = query.Where("market_enable = ?", marketEnable)
	}
	err := query.Count(&count).Error
	return count, err
}

// CountLowStock 统计库存低于预警线的在售商品数
func (r *goodsRepo) CountLowStock(ctx context.Context, storeID int64, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Goods{}).
		Where("store_id = ? AND market_enable = ? AND quantity < ?",
			storeID, model.MarketUpper, threshold).
		Count(&count).Error
	return count, err
}

func (r *goodsRepo) CountWaitAuth(ctx context.Context, storeID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Goods{}).
		Where("store_id = ? AND auth_flag = ?", storeID, model.AuthToBeAudited).
		Count(&count).Error
	return count, err
}

func (r *goodsRepo) GetSku(ctx context.Context, skuID int64) (*model.GoodsSku, error) {
	var sku model.GoodsSku
	err := r.db.WithContext(ctx).First(&sku, skuID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sku, nil
}

func (r *goodsRepo) ListSkus(ctx context.Context, goodsID int64) ([]model.GoodsSku, error) {
	var skus []model.GoodsSku
	err := r.db.WithContext(ctx).
		Where("goods_id = ?", goodsID).
		Order("id ASC").
		Find(&skus).Error
	return skus, err
}

func (r *goodsRepo) CreateSkus(ctx context.Context, skus []model.GoodsSku) error {
	if len(skus) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&skus).Error
}

func (r *goodsRepo) UpdateSku(ctx context.Context, sku *model.GoodsSku) error {
	return r.db.WithContext(ctx).Save(sku).Error
}

func (r *goodsRepo) UpdateSkuFieldsByGoodsID(ctx context.Context, goodsID int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.GoodsSku{}).
		Where("goods_id = ?", goodsID).
		Updates(fields).Error
}

func (r *goodsRepo) DeleteSkusByGoodsID(ctx context.Context, goodsID int64) error {
	return r.db.WithContext(ctx).
		Where("goods_id = ?", goodsID).
		Delete(&model.GoodsSku{}).Error
}

// UpdateSkuQuantity 增量调整 SKU 库存
func (r *goodsRepo) UpdateSkuQuantity(ctx context.Context, skuID int64, delta int) error {
	return r.db.WithContext(ctx).
		Model(&model.GoodsSku{}).
		Where("id = ?", skuID).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *goodsRepo) ListGalleries(ctx context.Context, goodsID int64) ([]model.GoodsGallery, error) {
	var galleries []model.GoodsGallery
	err := r.db.WithContext(ctx).
		Where("goods_id = ?", goodsID).
		Order("sort ASC, id ASC").
		Find(&galleries).Error
	return galleries, err
}

func (r *goodsRepo) ReplaceGalleries(ctx context.Context, goodsID int64, galleries []model.GoodsGallery) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goods_id = ?", goodsID).
			Delete(&model.GoodsGallery{}).Error; err != nil {
			return err
		}
		if len(galleries) == 0 {
			return nil
		}
		for i := range galleries {
			galleries[i].GoodsID = goodsID
		}
		return tx.Create(&galleries).Error
	})
}

func (r *goodsRepo) WithTx(tx *gorm.DB) GoodsRepository {
	return &goodsRepo{db: tx}
}
