package service

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"vendorvault/internal/model"
	"vendorvault/internal/repository"
	"vendorvault/pkg/errs"
)

// ==================== 视图与请求结构 ====================

// SkuSpecPair SKU 的一条规格项
type SkuSpecPair struct {
	SpecName  string `json:"specName"`
	SpecValue string `json:"specValue"`
}

// SkuView 带已解析规格的 SKU
type SkuView struct {
	model.GoodsSku
	Specs []SkuSpecPair `json:"specs"`
}

// SpecListEntry 商品维度的规格汇总：规格名 + 去重后的可选值
type SpecListEntry struct {
	SpecName   string   `json:"specName"`
	SpecValues []string `json:"specValues"`
}

// GoodsDetail 商品详情
type GoodsDetail struct {
	*model.Goods
	Skus     []SkuView            `json:"skus"`
	Gallery  []model.GoodsGallery `json:"gallery"`
	SpecList []SpecListEntry      `json:"specList"`
}

// SkuInput 保存商品时的 SKU 输入
type SkuInput struct {
	Sn       string        `json:"sn"`
	Price    float64       `json:"price"`
	Quantity int           `json:"quantity"`
	Weight   float64       `json:"weight"`
	Specs    []SkuSpecPair `json:"specs"`
}

// SaveGoodsRequest 保存商品请求
type SaveGoodsRequest struct {
	ID           int64      `json:"id"`
	GoodsName    string     `json:"goodsName" binding:"required"`
	CategoryID   *int64     `json:"categoryId"`
	BrandID      *int64     `json:"brandId"`
	UnitID       *int64     `json:"unitId"`
	SellingPoint string     `json:"sellingPoint"`
	Intro        string     `json:"intro"`
	Price        float64    `json:"price"`
	Weight       float64    `json:"weight"`
	Recommend    bool       `json:"recommend"`
	Skus         []SkuInput `json:"skus" binding:"required,min=1"`
	Gallery      []string   `json:"gallery"`
}

// ==================== 服务实现 ====================

// GoodsService 商品服务：发布、规格解析、上下架、审核与浏览
type GoodsService struct {
	db        *gorm.DB
	goodsRepo repository.GoodsRepository
	specRepo  repository.SpecRepository
	storeRepo repository.StoreRepository
}

// NewGoodsService 创建商品服务
func NewGoodsService(db *gorm.DB, goodsRepo repository.GoodsRepository, specRepo repository.SpecRepository, storeRepo repository.StoreRepository) *GoodsService {
	return &GoodsService{db: db, goodsRepo: goodsRepo, specRepo: specRepo, storeRepo: storeRepo}
}

// ==================== 保存商品 ====================

// SaveGoods 保存商品与全量 SKU，整个过程在一个事务内完成：
// 规格名先做归一化（去首尾空白、大小写不敏感），优先匹配店铺自有规格，
// 再匹配平台规格，都没有则以店铺维度新建；商品总库存取各 SKU 库存之和。
func (s *GoodsService) SaveGoods(ctx context.Context, storeID int64, req SaveGoodsRequest) (*model.Goods, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, errs.Wrap(err, "查询店铺失败")
	}
	if store == nil {
		return nil, errs.ErrStoreNotExist
	}

	var saved *model.Goods
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		goodsRepo := s.goodsRepo.WithTx(tx)
		specRepo := s.specRepo.WithTx(tx)

		goods := &model.Goods{
			GoodsName:    req.GoodsName,
			StoreID:      storeID,
			CategoryID:   req.CategoryID,
			BrandID:      req.BrandID,
			UnitID:       req.UnitID,
			SellingPoint: req.SellingPoint,
			Intro:        req.Intro,
			Price:        req.Price,
			Weight:       req.Weight,
			Recommend:    req.Recommend,
			SelfOperated: store.SelfOperated,
			MarketEnable: model.MarketDown,
			AuthFlag:     model.AuthToBeAudited,
		}

		if req.ID > 0 {
			existing, err := goodsRepo.GetByID(ctx, req.ID)
			if err != nil {
				return errs.Wrap(err, "查询商品失败")
			}
			if existing == nil || existing.StoreID != storeID {
				return errs.ErrGoodsNotExist
			}
			goods.ID = req.ID
			goods.Grade = existing.Grade
			goods.CommentNum = existing.CommentNum
			goods.BuyCount = existing.BuyCount
			// 重新编辑后回到待审核
			if err := goodsRepo.DeleteSkusByGoodsID(ctx, req.ID); err != nil {
				return errs.Wrap(err, "清理旧规格失败")
			}
			if err := goodsRepo.Update(ctx, goods); err != nil {
				return errs.Wrap(err, "更新商品失败")
			}
		} else {
			if err := goodsRepo.Create(ctx, goods); err != nil {
				return errs.Wrap(err, "创建商品失败")
			}
		}

		totalQuantity := 0
		skus := make([]model.GoodsSku, 0, len(req.Skus))
		for _, input := range req.Skus {
			valueIDs, err := s.resolveSpecValueIDs(ctx, specRepo, storeID, input.Specs)
			if err != nil {
				return err
			}
			totalQuantity += input.Quantity
			skus = append(skus, model.GoodsSku{
				GoodsID:      goods.ID,
				StoreID:      storeID,
				GoodsName:    goods.GoodsName,
				Sn:           input.Sn,
				Price:        input.Price,
				Quantity:     input.Quantity,
				Weight:       input.Weight,
				SpecValueIDs: joinIDs(valueIDs),
				AuthFlag:     model.AuthToBeAudited,
			})
		}
		if err := goodsRepo.CreateSkus(ctx, skus); err != nil {
			return errs.Wrap(err, "保存规格失败")
		}

		if err := goodsRepo.UpdateFields(ctx, goods.ID, map[string]interface{}{
			"quantity": totalQuantity,
		}); err != nil {
			return errs.Wrap(err, "更新库存失败")
		}
		goods.Quantity = totalQuantity

		if len(req.Gallery) > 0 {
			galleries := make([]model.GoodsGallery, 0, len(req.Gallery))
			for i, url := range req.Gallery {
				galleries = append(galleries, model.GoodsGallery{
					Original: url,
					Small:    url,
					Sort:     i,
				})
			}
			if err := goodsRepo.ReplaceGalleries(ctx, goods.ID, galleries); err != nil {
				return errs.Wrap(err, "保存商品图片失败")
			}
		}

		saved = goods
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// resolveSpecValueIDs 把规格项转成规格值 id 列表，缺失的规格和值按需创建
func (s *GoodsService) resolveSpecValueIDs(ctx context.Context, specRepo repository.SpecRepository, storeID int64, pairs []SkuSpecPair) ([]int64, error) {
	ids := make([]int64, 0, len(pairs))
	for _, pair := range pairs {
		name := strings.TrimSpace(pair.SpecName)
		value := strings.TrimSpace(pair.SpecValue)
		if name == "" || value == "" {
			continue
		}

		spec, err := specRepo.FindByName(ctx, name, &storeID)
		if err != nil {
			return nil, errs.Wrap(err, "查询规格失败")
		}
		if spec == nil {
			spec = &model.Specification{SpecName: name, StoreID: &storeID}
			if err := specRepo.Create(ctx, spec); err != nil {
				return nil, errs.Wrap(err, "创建规格失败")
			}
		}

		specValue, err := specRepo.FindValue(ctx, spec.ID, value)
		if err != nil {
			return nil, errs.Wrap(err, "查询规格值失败")
		}
		if specValue == nil {
			specValue = &model.SpecValue{SpecID: spec.ID, SpecValue: value}
			if err := specRepo.CreateValue(ctx, specValue); err != nil {
				return nil, errs.Wrap(err, "创建规格值失败")
			}
		}
		ids = append(ids, specValue.ID)
	}
	return ids, nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func splitIDs(joined string) []int64 {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// ==================== 规格解析 ====================

// ResolveSkuSpecs 把 SKU 的规格值 id 列表还原成有序的规格项。
// 同名规格按 id 列表顺序取第一个值，后续值忽略；空列表返回空结果。
func (s *GoodsService) ResolveSkuSpecs(ctx context.Context, sku *model.GoodsSku) ([]SkuSpecPair, error) {
	ids := splitIDs(sku.SpecValueIDs)
	if len(ids) == 0 {
		return []SkuSpecPair{}, nil
	}

	values, err := s.specRepo.ListValuesByIDs(ctx, ids)
	if err != nil {
		return nil, errs.Wrap(err, "查询规格值失败")
	}
	valueByID := make(map[int64]model.SpecValue, len(values))
	specIDs := make(map[int64]struct{})
	for _, v := range values {
		valueByID[v.ID] = v
		specIDs[v.SpecID] = struct{}{}
	}

	specNameByID := make(map[int64]string, len(specIDs))
	for specID := range specIDs {
		spec, err := s.specRepo.GetByID(ctx, specID)
		if err != nil {
			return nil, errs.Wrap(err, "查询规格失败")
		}
		if spec != nil {
			specNameByID[specID] = spec.SpecName
		}
	}

	pairs := make([]SkuSpecPair, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		value, ok := valueByID[id]
		if !ok {
			continue
		}
		name, ok := specNameByID[value.SpecID]
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		pairs = append(pairs, SkuSpecPair{SpecName: name, SpecValue: value.SpecValue})
	}
	return pairs, nil
}

// ==================== 商品详情与浏览 ====================

// GetGoodsDetail 商品详情：SKU 附带已解析规格，并汇总规格名下的去重可选值
func (s *GoodsService) GetGoodsDetail(ctx context.Context, goodsID int64) (*GoodsDetail, error) {
	goods, err := s.goodsRepo.GetByID(ctx, goodsID)
	if err != nil {
		return nil, errs.Wrap(err, "查询商品失败")
	}
	if goods == nil {
		return nil, errs.ErrGoodsNotExist
	}

	skuViews := make([]SkuView, 0, len(goods.Skus))
	specList := make([]SpecListEntry, 0)
	specIndex := make(map[string]int)
	valueSeen := make(map[string]map[string]struct{})

	for i := range goods.Skus {
		specs, err := s.ResolveSkuSpecs(ctx, &goods.Skus[i])
		if err != nil {
			return nil, err
		}
		skuViews = append(skuViews, SkuView{GoodsSku: goods.Skus[i], Specs: specs})

		for _, pair := range specs {
			idx, ok := specIndex[pair.SpecName]
			if !ok {
				specIndex[pair.SpecName] = len(specList)
				specList = append(specList, SpecListEntry{SpecName: pair.SpecName})
				valueSeen[pair.SpecName] = make(map[string]struct{})
				idx = len(specList) - 1
			}
			if _, dup := valueSeen[pair.SpecName][pair.SpecValue]; dup {
				continue
			}
			valueSeen[pair.SpecName][pair.SpecValue] = struct{}{}
			specList[idx].SpecValues = append(specList[idx].SpecValues, pair.SpecValue)
		}
	}

	return &GoodsDetail{
		Goods:    goods,
		Skus:     skuViews,
		Gallery:  goods.Gallery,
		SpecList: specList,
	}, nil
}

// ListGoods 分页查询商品
func (s *GoodsService) ListGoods(ctx context.Context, filter repository.GoodsFilter) ([]model.Goods, int64, error) {
	goods, total, err := s.goodsRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, errs.Wrap(err, "查询商品失败")
	}
	return goods, total, nil
}

// ListOnSaleGoods 买家侧商品列表，只返回营业中店铺已上架且审核通过的商品
func (s *GoodsService) ListOnSaleGoods(ctx context.Context, filter repository.GoodsFilter) ([]model.Goods, int64, error) {
	filter.MarketEnable = model.MarketUpper
	filter.AuthFlag = model.AuthPass
	filter.OnlyOpenStore = true
	return s.ListGoods(ctx, filter)
}

// ==================== 上下架与审核 ====================

// UpGoods 批量上架，只有审核通过的商品可以上架
func (s *GoodsService) UpGoods(ctx context.Context, storeID *int64, goodsIDs []int64) error {
	for _, id := range goodsIDs {
		goods, err := s.goodsRepo.GetByID(ctx, id)
		if err != nil {
			return errs.Wrap(err, "查询商品失败")
		}
		if goods == nil {
			return errs.ErrGoodsNotExist
		}
		// storeID 为空表示平台操作，可以上架任意商品
		if storeID != nil && goods.StoreID != *storeID {
			return errs.ErrGoodsNotExist
		}
		if goods.AuthFlag != model.AuthPass {
			return errs.New(http.StatusBadRequest, errs.CodeInvalidParams, "商品未通过审核，不能上架")
		}
	}
	if err := s.goodsRepo.BatchUpdateFields(ctx, goodsIDs, map[string]interface{}{
		"market_enable": model.MarketUpper,
		"under_message": "",
	}); err != nil {
		return errs.Wrap(err, "上架失败")
	}
	return nil
}

// UnderGoods 批量下架并记录下架原因
func (s *GoodsService) UnderGoods(ctx context.Context, storeID *int64, goodsIDs []int64, reason string) error {
	for _, id := range goodsIDs {
		goods, err := s.goodsRepo.GetByID(ctx, id)
		if err != nil {
			return errs.Wrap(err, "查询商品失败")
		}
		if goods == nil {
			return errs.ErrGoodsNotExist
		}
		// storeID 为空表示平台操作，可以下架任意商品
		if storeID != nil && goods.StoreID != *storeID {
			return errs.ErrGoodsNotExist
		}
	}
	if err := s.goodsRepo.BatchUpdateFields(ctx, goodsIDs, map[string]interface{}{
		"market_enable": model.MarketDown,
		"under_message": reason,
	}); err != nil {
		return errs.Wrap(err, "下架失败")
	}
	return nil
}

// DeleteGoods 店铺批量删除自己的商品，连同 SKU 一起逻辑删除
func (s *GoodsService) DeleteGoods(ctx context.Context, storeID int64, goodsIDs []int64) error {
	for _, id := range goodsIDs {
		goods, err := s.goodsRepo.GetByID(ctx, id)
		if err != nil {
			return errs.Wrap(err, "查询商品失败")
		}
		if goods == nil || goods.StoreID != storeID {
			return errs.ErrGoodsNotExist
		}
	}
	if err := s.goodsRepo.DeleteByIDs(ctx, goodsIDs); err != nil {
		return errs.Wrap(err, "删除商品失败")
	}
	return nil
}

// AuditGoods 平台审核商品，驳回时记录原因
func (s *GoodsService) AuditGoods(ctx context.Context, goodsID int64, pass bool, message string) error {
	goods, err := s.goodsRepo.GetByID(ctx, goodsID)
	if err != nil {
		return errs.Wrap(err, "查询商品失败")
	}
	if goods == nil {
		return errs.ErrGoodsNotExist
	}

	flag := model.AuthPass
	if !pass {
		flag = model.AuthRefused
	}
	fields := map[string]interface{}{
		"auth_flag":    flag,
		"auth_message": message,
	}
	if !pass {
		// 驳回同时强制下架
		fields["market_enable"] = model.MarketDown
	}
	// 审核结果同步到全部 SKU
	err = s.db.Transaction(func(tx *gorm.DB) error {
		goodsRepo := s.goodsRepo.WithTx(tx)
		if err := goodsRepo.UpdateFields(ctx, goodsID, fields); err != nil {
			return err
		}
		return goodsRepo.UpdateSkuFieldsByGoodsID(ctx, goodsID, map[string]interface{}{
			"auth_flag": flag,
		})
	})
	if err != nil {
		return errs.Wrap(err, "审核商品失败")
	}
	return nil
}

// UpdateSkuStock 店铺调整 SKU 库存，同步维护商品总库存
func (s *GoodsService) UpdateSkuStock(ctx context.Context, storeID, skuID int64, quantity int) error {
	sku, err := s.goodsRepo.GetSku(ctx, skuID)
	if err != nil {
		return errs.Wrap(err, "查询规格失败")
	}
	if sku == nil || sku.StoreID != storeID {
		return errs.ErrSkuNotExist
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		goodsRepo := s.goodsRepo.WithTx(tx)
		sku.Quantity = quantity
		if err := goodsRepo.UpdateSku(ctx, sku); err != nil {
			return errs.Wrap(err, "更新库存失败")
		}
		skus, err := goodsRepo.ListSkus(ctx, sku.GoodsID)
		if err != nil {
			return errs.Wrap(err, "查询规格失败")
		}
		total := 0
		for _, item := range skus {
			total += item.Quantity
		}
		if err := goodsRepo.UpdateFields(ctx, sku.GoodsID, map[string]interface{}{
			"quantity": total,
		}); err != nil {
			return errs.Wrap(err, "更新商品库存失败")
		}
		return nil
	})
}
