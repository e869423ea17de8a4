package router

import (
	"github.com/gin-gonic/gin"

	"vendorvault/internal/controller"
	"vendorvault/internal/middleware"
	"vendorvault/internal/model"
)

// Controllers 路由依赖的全部控制器
type Controllers struct {
	Auth       *controller.AuthController
	Member     *controller.MemberController
	Catalog    *controller.CatalogController
	Goods      *controller.GoodsController
	Order      *controller.OrderController
	Evaluation *controller.EvaluationController
	Store      *controller.StoreController
	Upload     *controller.UploadController
}

// Setup 注册全部路由
func Setup(engine *gin.Engine, jwt *middleware.JWTManager, c Controllers) {
	auth := middleware.JWTAuth(jwt)
	manager := middleware.RequireRole(model.RoleManager)
	seller := middleware.RequireRole(model.RoleSeller)

	// ==================== 开放接口 ====================

	engine.POST("/buyer/passport/register", c.Auth.Register)
	engine.POST("/buyer/passport/login", c.Auth.Login)
	engine.POST("/buyer/passport/refresh", c.Auth.Refresh)
	engine.POST("/store/passport/login", c.Auth.Login)
	engine.POST("/manager/passport/login", c.Auth.ManagerLogin)
	engine.POST("/api/send-reset-email", c.Auth.ForgotPassword)
	engine.POST("/api/reset-password", c.Auth.ResetPassword)

	// 买家浏览无需登录
	engine.GET("/buyer/goods/es", c.Goods.Search)
	engine.GET("/buyer/goods/get/:id", c.Goods.Detail)
	engine.GET("/buyer/evaluation/:id/goodsEvaluation", c.Goods.Evaluations)
	engine.GET("/buyer/evaluation/:id/evaluationNumber", c.Goods.EvaluationSummary)
	engine.GET("/buyer/category/tree", c.Catalog.CategoryTree)
	engine.GET("/buyer/store/get/:id", c.Store.Detail)

	// 支付回跳由 Stripe 重定向触发
	engine.GET("/api/stripe-success", c.Order.StripeSuccess)

	// ==================== 买家 ====================

	buyer := engine.Group("/buyer", auth)
	{
		buyer.POST("/passport/logout", c.Auth.Logout)
		buyer.GET("/member/profile", c.Member.Profile)
		buyer.PUT("/member/profile", c.Member.UpdateProfile)
		buyer.PUT("/member/modifyPass", c.Member.ChangePassword)

		buyer.GET("/member/address", c.Member.ListAddresses)
		buyer.POST("/member/address", c.Member.AddAddress)
		buyer.PUT("/member/address/:id", c.Member.UpdateAddress)
		buyer.DELETE("/member/address/:id", c.Member.DeleteAddress)

		buyer.POST("/member/collection/:type/:id", c.Member.AddCollection)
		buyer.DELETE("/member/collection/:type/:id", c.Member.RemoveCollection)
		buyer.GET("/member/collection/:type/:id/isCollection", c.Member.IsCollected)
		buyer.GET("/member/collection/:type", c.Member.ListCollections)

		buyer.POST("/store/apply", c.Store.Apply)

		buyer.POST("/order", c.Order.Create)
		buyer.GET("/order", c.Order.List)
		buyer.GET("/order/:sn", c.Order.Detail)
		buyer.POST("/order/:sn/cancel", c.Order.Cancel)
		buyer.DELETE("/order/:sn", c.Order.Delete)
		buyer.POST("/api/create-stripe-session", c.Order.CreateStripeSession)

		buyer.POST("/member/evaluation", c.Evaluation.Add)
		buyer.GET("/member/evaluation", c.Evaluation.Mine)
	}

	// ==================== 店铺 ====================

	store := engine.Group("/store", auth, seller)
	{
		store.POST("/passport/logout", c.Auth.Logout)
		store.GET("/info", c.Store.Mine)
		store.PUT("/settings", c.Store.UpdateSettings)
		store.POST("/update-payment-due-date", c.Store.RenewPayment)
		store.GET("/statistics/index", c.Store.Dashboard)
		store.GET("/statistics/topGoods", c.Store.TopGoods)

		store.GET("/goods/list", c.Goods.StoreList)
		store.POST("/goods/save", c.Goods.Save)
		store.PUT("/goods/up", c.Goods.Up)
		store.PUT("/goods/under", c.Goods.Under)
		store.PUT("/goods/delete", c.Goods.Delete)
		store.PUT("/goods/stock/:skuId", c.Goods.UpdateStock)

		store.GET("/order/list", c.Order.StoreSubOrders)

		store.GET("/evaluation", c.Evaluation.StoreList)
		store.GET("/evaluation/get/:id", c.Evaluation.Detail)
		store.PUT("/evaluation/reply/:id", c.Evaluation.Reply)

		store.GET("/spec", c.Catalog.ListSpecs)
		store.POST("/spec", c.Catalog.SaveSpec)
	}

	// ==================== 平台 ====================

	mgr := engine.Group("/manager/passport", auth, manager)
	{
		mgr.POST("/logout", c.Auth.Logout)
		mgr.GET("/statistics/index", c.Store.PlatformDashboard)
		mgr.GET("/statistics/goodsStatistics", c.Store.PlatformTopGoods)
		mgr.GET("/statistics/storeStatistics", c.Store.PlatformTopStores)

		mgr.GET("/category/allChildren", c.Catalog.CategoryTree)
		mgr.POST("/category", c.Catalog.CreateCategory)
		mgr.PUT("/category/:id", c.Catalog.UpdateCategory)
		mgr.DELETE("/category/:id", c.Catalog.DeleteCategory)
		mgr.GET("/categoryBrand/:id", c.Catalog.CategoryBrands)
		mgr.POST("/categoryBrand/:id", c.Catalog.BindCategoryBrands)
		mgr.GET("/categorySpec/:id", c.Catalog.CategorySpecs)
		mgr.POST("/categorySpec/:id", c.Catalog.BindCategorySpecs)

		mgr.GET("/brand/all", c.Catalog.ListAllBrands)
		mgr.GET("/brand/getByPage", c.Catalog.ListBrands)
		mgr.POST("/brand", c.Catalog.SaveBrand)
		mgr.DELETE("/brand/:id", c.Catalog.DeleteBrand)

		mgr.GET("/spec", c.Catalog.ListSpecs)
		mgr.POST("/spec", c.Catalog.SaveSpec)
		mgr.DELETE("/spec", c.Catalog.DeleteSpecs)
		mgr.GET("/spec/:id/values", c.Catalog.SpecValues)

		mgr.GET("/goodsUnit", c.Catalog.ListUnits)
		mgr.POST("/goodsUnit", c.Catalog.SaveUnit)
		mgr.DELETE("/goodsUnit/:id", c.Catalog.DeleteUnit)

		mgr.GET("/goods/list", c.Goods.ManagerList)
		mgr.GET("/goods/get/:id", c.Goods.Detail)
		mgr.PUT("/goods/auth/:id", c.Goods.Audit)
		mgr.PUT("/goods/up", c.Goods.ManagerUp)
		mgr.PUT("/goods/under", c.Goods.ManagerUnder)

		mgr.POST("/member", c.Auth.Register)
		mgr.GET("/member/getByPage", c.Member.ManagerList)
		mgr.GET("/member/get/:id", c.Member.ManagerDetail)
		mgr.PUT("/member/update/:id", c.Member.ManagerUpdate)
		mgr.PUT("/member/updateMemberStatus/:id", c.Member.UpdateStatus)
		mgr.GET("/member/address/:id", c.Member.ManagerAddresses)

		mgr.GET("/store/list", c.Store.ManagerList)
		mgr.PUT("/store/audit/:id", c.Store.Audit)
		mgr.PUT("/store/disable/:id", c.Store.SetDisable)
		mgr.GET("/store/get/detail/:id", c.Store.Detail)

		mgr.GET("/order/list", c.Order.ManagerList)
		mgr.GET("/order/get/:sn", c.Order.Detail)
		mgr.POST("/order/pay/:sn", c.Order.ManagerPay)
		mgr.POST("/order/cancel/:sn", c.Order.ManagerCancel)
		mgr.GET("/paymentLog", c.Order.PaymentLogs)

		mgr.GET("/evaluation/getByPage", c.Evaluation.ManagerList)
		mgr.GET("/evaluation/get/:id", c.Evaluation.Detail)
		mgr.PUT("/evaluation/updateStatus/:id", c.Evaluation.SetStatus)
	}

	// ==================== 上传 ====================

	engine.POST("/upload", auth, c.Upload.Upload)
}
