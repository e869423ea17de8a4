package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"vendorvault/internal/model"
	"vendorvault/internal/repository"
	"vendorvault/pkg/errs"
)

// ==================== 请求与视图结构 ====================

// ApplyStoreRequest 店铺入驻申请
type ApplyStoreRequest struct {
	StoreName          string `json:"storeName" binding:"required"`
	StoreLogo          string `json:"storeLogo"`
	StoreDesc          string `json:"storeDesc"`
	StoreAddressDetail string `json:"storeAddressDetail"`
	Email              string `json:"email"`
	Mobile             string `json:"mobile"`
}

// StoreDashboard 店铺看板
type StoreDashboard struct {
	GoodsTotal    int64   `json:"goodsTotal"`
	GoodsOnSale   int64   `json:"goodsOnSale"`
	LowStockNum   int64   `json:"lowStockNum"`
	WaitAuthNum   int64   `json:"waitAuthNum"`
	OrderTotal    int64   `json:"orderTotal"`
	OrderUnpaid   int64   `json:"orderUnpaid"`
	UnrepliedNum  int64   `json:"unrepliedNum"`
	TodaySales    float64 `json:"todaySales"`
	MonthSales    float64 `json:"monthSales"`
	CollectionNum int64   `json:"collectionNum"`
}

// ==================== 服务实现 ====================

// StoreService 店铺服务：入驻、审核、设置与看板
type StoreService struct {
	db             *gorm.DB
	storeRepo      repository.StoreRepository
	userRepo       repository.UserRepository
	goodsRepo      repository.GoodsRepository
	orderRepo      repository.OrderRepository
	collectionRepo repository.CollectionRepository
	evaluationRepo repository.EvaluationRepository
	statsRepo      repository.StatisticsRepository
}

// NewStoreService 创建店铺服务
func NewStoreService(
	db *gorm.DB,
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
	goodsRepo repository.GoodsRepository,
	orderRepo repository.OrderRepository,
	collectionRepo repository.CollectionRepository,
	evaluationRepo repository.EvaluationRepository,
	statsRepo repository.StatisticsRepository,
) *StoreService {
	return &StoreService{
		db:             db,
		storeRepo:      storeRepo,
		userRepo:       userRepo,
		goodsRepo:      goodsRepo,
		orderRepo:      orderRepo,
		collectionRepo: collectionRepo,
		evaluationRepo: evaluationRepo,
		statsRepo:      statsRepo,
	}
}

// Apply 买家申请开店，同一用户只能有一家店铺
func (s *StoreService) Apply(ctx context.Context, userID int64, req ApplyStoreRequest) (*model.Store, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "查询用户失败")
	}
	if user == nil {
		return nil, errs.ErrUserNotExist
	}
	if user.StoreID != nil {
		return nil, errs.ErrStoreAlreadyExists
	}

	store := &model.Store{
		StoreName:          req.StoreName,
		StoreLogo:          req.StoreLogo,
		StoreDesc:          req.StoreDesc,
		StoreAddressDetail: req.StoreAddressDetail,
		Email:              req.Email,
		Mobile:             req.Mobile,
		StoreDisable:       model.StoreApplying,
		StockWarning:       100,
		PaymentDueDate:     time.Now().AddDate(0, 1, 0),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		storeRepo := s.storeRepo.WithTx(tx)
		userRepo := s.userRepo.WithTx(tx)

		if err := storeRepo.Create(ctx, store); err != nil {
			return errs.Wrap(err, "创建店铺失败")
		}
		// 申请人先绑定店铺，审核通过后再升级为卖家角色
		if err := userRepo.UpdateFields(ctx, userID, map[string]interface{}{
			"store_id": store.ID,
		}); err != nil {
			return errs.Wrap(err, "绑定店铺失败")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Audit 平台审核入驻申请，通过后申请人升级为卖家
func (s *StoreService) Audit(ctx context.Context, storeID int64, pass bool) error {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return errs.Wrap(err, "查询店铺失败")
	}
	if store == nil {
		return errs.ErrStoreNotExist
	}

	disable := model.StoreOpen
	if !pass {
		disable = model.StoreRefused
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		storeRepo := s.storeRepo.WithTx(tx)
		userRepo := s.userRepo.WithTx(tx)

		if err := storeRepo.UpdateFields(ctx, storeID, map[string]interface{}{
			"store_disable": disable,
		}); err != nil {
			return errs.Wrap(err, "更新店铺状态失败")
		}
		if !pass {
			return nil
		}

		owner, err := userRepo.GetByStoreID(ctx, storeID)
		if err != nil {
			return errs.Wrap(err, "查询店主失败")
		}
		if owner == nil {
			return errs.ErrUserNotExist
		}
		if err := userRepo.UpdateFields(ctx, owner.ID, map[string]interface{}{
			"role": model.RoleSeller,
		}); err != nil {
			return errs.Wrap(err, "升级卖家角色失败")
		}
		return nil
	})
}

// SetDisable 平台启用/停用店铺
func (s *StoreService) SetDisable(ctx context.Context, storeID int64, disable model.StoreDisable) error {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return errs.Wrap(err, "查询店铺失败")
	}
	if store == nil {
		return errs.ErrStoreNotExist
	}
	if err := s.storeRepo.UpdateFields(ctx, storeID, map[string]interface{}{
		"store_disable": disable,
	}); err != nil {
		return errs.Wrap(err, "更新店铺状态失败")
	}
	return nil
}

// GetStore 查询店铺
func (s *StoreService) GetStore(ctx context.Context, storeID int64) (*model.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, errs.Wrap(err, "查询店铺失败")
	}
	if store == nil {
		return nil, errs.ErrStoreNotExist
	}
	return store, nil
}

// ListStores 分页查询店铺
func (s *StoreService) ListStores(ctx context.Context, filter repository.StoreFilter) ([]model.Store, int64, error) {
	stores, total, err := s.storeRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, errs.Wrap(err, "查询店铺失败")
	}
	return stores, total, nil
}

// UpdateSettingsRequest 店铺设置更新请求
type UpdateSettingsRequest struct {
	StoreLogo          string `json:"storeLogo"`
	StoreDesc          string `json:"storeDesc"`
	StoreAddressDetail string `json:"storeAddressDetail"`
	Email              string `json:"email"`
	Mobile             string `json:"mobile"`
	StockWarning       *int   `json:"stockWarning"`
}

// UpdateSettings 店铺更新自有设置
func (s *StoreService) UpdateSettings(ctx context.Context, storeID int64, req UpdateSettingsRequest) error {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return errs.Wrap(err, "查询店铺失败")
	}
	if store == nil {
		return errs.ErrStoreNotExist
	}

	fields := map[string]interface{}{}
	if req.StoreLogo != "" {
		fields["store_logo"] = req.StoreLogo
	}
	if req.StoreDesc != "" {
		fields["store_desc"] = req.StoreDesc
	}
	if req.StoreAddressDetail != "" {
		fields["store_address_detail"] = req.StoreAddressDetail
	}
	if req.Email != "" {
		fields["email"] = req.Email
	}
	if req.Mobile != "" {
		fields["mobile"] = req.Mobile
	}
	if req.StockWarning != nil {
		fields["stock_warning"] = *req.StockWarning
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.storeRepo.UpdateFields(ctx, storeID, fields); err != nil {
		return errs.Wrap(err, "更新店铺设置失败")
	}
	return nil
}

// RenewPaymentDue 店铺缴纳平台费，顺延到期日并记录流水；
// 逾期被停用的店铺缴费后恢复营业
func (s *StoreService) RenewPaymentDue(ctx context.Context, storeID int64, months int) error {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return errs.Wrap(err, "查询店铺失败")
	}
	if store == nil {
		return errs.ErrStoreNotExist
	}
	if months <= 0 {
		months = 1
	}

	base := store.PaymentDueDate
	if base.Before(time.Now()) {
		base = time.Now()
	}
	newDue := base.AddDate(0, months, 0)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		storeRepo := s.storeRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		fields := map[string]interface{}{
			"payment_due_date": newDue,
		}
		if store.StoreDisable == model.StoreOverdue {
			fields["store_disable"] = model.StoreOpen
		}
		if err := storeRepo.UpdateFields(ctx, storeID, fields); err != nil {
			return errs.Wrap(err, "更新缴费日期失败")
		}

		log := &model.PaymentLog{
			StoreID:     &storeID,
			PayStatus:   model.OrderPaid,
			PaymentTime: time.Now(),
			Type:        model.PaymentTypePayment,
		}
		if err := orderRepo.CreatePaymentLog(ctx, log); err != nil {
			return errs.Wrap(err, "记录缴费流水失败")
		}
		return nil
	})
}

// Dashboard 店铺经营看板
func (s *StoreService) Dashboard(ctx context.Context, storeID int64) (*StoreDashboard, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, errs.Wrap(err, "查询店铺失败")
	}
	if store == nil {
		return nil, errs.ErrStoreNotExist
	}

	goodsTotal, err := s.goodsRepo.CountByStore(ctx, storeID, "")
	if err != nil {
		return nil, errs.Wrap(err, "统计商品失败")
	}
	onSale, err := s.goodsRepo.CountByStore(ctx, storeID, model.MarketUpper)
	if err != nil {
		return nil, errs.Wrap(err, "统计商品失败")
	}
	lowStock, err := s.goodsRepo.CountLowStock(ctx, storeID, store.StockWarning)
	if err != nil {
		return nil, errs.Wrap(err, "统计库存预警失败")
	}
	waitAuth, err := s.goodsRepo.CountWaitAuth(ctx, storeID)
	if err != nil {
		return nil, errs.Wrap(err, "统计待审核商品失败")
	}
	unreplied, err := s.evaluationRepo.CountUnreplied(ctx, storeID)
	if err != nil {
		return nil, errs.Wrap(err, "统计待回复评价失败")
	}
	orderTotal, err := s.orderRepo.CountSubOrders(ctx, storeID, "")
	if err != nil {
		return nil, errs.Wrap(err, "统计订单失败")
	}
	unpaid, err := s.orderRepo.CountSubOrders(ctx, storeID, model.OrderUnpaid)
	if err != nil {
		return nil, errs.Wrap(err, "统计订单失败")
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	todaySales, err := s.orderRepo.SumSubOrderAmount(ctx, storeID, model.OrderPaid, todayStart)
	if err != nil {
		return nil, errs.Wrap(err, "统计销售额失败")
	}
	monthSales, err := s.orderRepo.SumSubOrderAmount(ctx, storeID, model.OrderPaid, monthStart)
	if err != nil {
		return nil, errs.Wrap(err, "统计销售额失败")
	}
	collections, err := s.collectionRepo.CountByTarget(ctx, model.CollectionStore, storeID)
	if err != nil {
		return nil, errs.Wrap(err, "统计收藏失败")
	}

	return &StoreDashboard{
		GoodsTotal:    goodsTotal,
		GoodsOnSale:   onSale,
		LowStockNum:   lowStock,
		WaitAuthNum:   waitAuth,
		OrderTotal:    orderTotal,
		OrderUnpaid:   unpaid,
		UnrepliedNum:  unreplied,
		TodaySales:    todaySales,
		MonthSales:    monthSales,
		CollectionNum: collections,
	}, nil
}

// TopGoods 店铺商品销量榜
func (s *StoreService) TopGoods(ctx context.Context, storeID int64, limit int) ([]repository.TopGoodsRow, error) {
	rows, err := s.statsRepo.TopGoodsBySale(ctx, &storeID, limit)
	if err != nil {
		return nil, errs.Wrap(err, "统计销量失败")
	}
	return rows, nil
}
