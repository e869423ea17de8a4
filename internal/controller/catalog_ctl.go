package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"vendorvault/internal/middleware"
	"vendorvault/internal/model"
	"vendorvault/internal/repository"
	"vendorvault/internal/service"
	"vendorvault/pkg/errs"
	"vendorvault/pkg/response"
)

// CatalogController 类目接口：分类、品牌、规格、计量单位
type CatalogController struct {
	catalogSvc *service.CatalogService
}

// NewCatalogController 创建类目接口
func NewCatalogController(catalogSvc *service.CatalogService) *CatalogController {
	return &CatalogController{catalogSvc: catalogSvc}
}

// ==================== 分类 ====================

// CategoryTree 分类树
func (c *CatalogController) CategoryTree(ctx *gin.Context) {
	tree, err := c.catalogSvc.CategoryTree(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, tree)
}

// CreateCategory 新增分类
func (c *CatalogController) CreateCategory(ctx *gin.Context) {
	var category model.Category
	if err := ctx.ShouldBindJSON(&category); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.catalogSvc.CreateCategory(ctx.Request.Context(), &category); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, category)
}

// UpdateCategory 更新分类
func (c *CatalogController) UpdateCategory(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	var category model.Category
	if err := ctx.ShouldBindJSON(&category); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	category.ID = id
	if err := c.catalogSvc.UpdateCategory(ctx.Request.Context(), &category); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, category)
}

// DeleteCategory 删除分类
func (c *CatalogController) DeleteCategory(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.catalogSvc.DeleteCategory(ctx.Request.Context(), id); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// ==================== 品牌 ====================

// ListBrands 品牌分页
func (c *CatalogController) ListBrands(ctx *gin.Context) {
	page, pageSize := parsePage(ctx)
	filter := repository.BrandFilter{
		Name:     ctx.Query("name"),
		Page:     page,
		PageSize: pageSize,
	}
	brands, total, err := c.catalogSvc.ListBrands(ctx.Request.Context(), filter)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, response.NewPage(brands, total, page, pageSize))
}

// ListAllBrands 全部品牌
func (c *CatalogController) ListAllBrands(ctx *gin.Context) {
	brands, err := c.catalogSvc.ListAllBrands(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, brands)
}

// SaveBrand 新增/更新品牌
func (c *CatalogController) SaveBrand(ctx *gin.Context) {
	var brand model.Brand
	if err := ctx.ShouldBindJSON(&brand); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	var err error
	if brand.ID == 0 {
		err = c.catalogSvc.CreateBrand(ctx.Request.Context(), &brand)
	} else {
		err = c.catalogSvc.UpdateBrand(ctx.Request.Context(), &brand)
	}
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, brand)
}

// DeleteBrand 删除品牌
func (c *CatalogController) DeleteBrand(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.catalogSvc.DeleteBrand(ctx.Request.Context(), id); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// CategoryBrands 分类绑定的品牌
func (c *CatalogController) CategoryBrands(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	brands, err := c.catalogSvc.ListCategoryBrands(ctx.Request.Context(), id)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, brands)
}

type bindIDsRequest struct {
	IDs []int64 `json:"ids"`
}

// BindCategoryBrands 替换分类的品牌绑定
func (c *CatalogController) BindCategoryBrands(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	var req bindIDsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.catalogSvc.BindCategoryBrands(ctx.Request.Context(), id, req.IDs); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// ==================== 规格 ====================

// ListSpecs 规格分页，卖家只能看到自有和平台规格
func (c *CatalogController) ListSpecs(ctx *gin.Context) {
	page, pageSize := parsePage(ctx)
	specFilter := repository.SpecFilter{
		SpecName: ctx.Query("specName"),
		Page:     page,
		PageSize: pageSize,
	}
	if middleware.CurrentRole(ctx) == model.RoleSeller {
		specFilter.StoreID = middleware.CurrentStoreID(ctx)
	}
	specs, total, err := c.catalogSvc.ListSpecs(ctx.Request.Context(), specFilter)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, response.NewPage(specs, total, page, pageSize))
}

type saveSpecRequest struct {
	ID       int64    `json:"id"`
	SpecName string   `json:"specName" binding:"required"`
	Values   []string `json:"specValue"`
}

// SaveSpec 新增/更新规格及可选值
func (c *CatalogController) SaveSpec(ctx *gin.Context) {
	var req saveSpecRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	spec := &model.Specification{SpecName: req.SpecName}
	spec.ID = req.ID
	if middleware.CurrentRole(ctx) == model.RoleSeller {
		spec.StoreID = middleware.CurrentStoreID(ctx)
	}
	if err := c.catalogSvc.SaveSpec(ctx.Request.Context(), spec, req.Values); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, spec)
}

type deleteIDsRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

// DeleteSpecs 批量删除规格
func (c *CatalogController) DeleteSpecs(ctx *gin.Context) {
	var req deleteIDsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.catalogSvc.DeleteSpecs(ctx.Request.Context(), req.IDs); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// SpecValues 规格的可选值
func (c *CatalogController) SpecValues(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	values, err := c.catalogSvc.ListSpecValues(ctx.Request.Context(), id)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, values)
}

// CategorySpecs 分类绑定的规格
func (c *CatalogController) CategorySpecs(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	specs, err := c.catalogSvc.ListCategorySpecs(ctx.Request.Context(), id)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, specs)
}

// BindCategorySpecs 替换分类的规格绑定
func (c *CatalogController) BindCategorySpecs(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	var req bindIDsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.catalogSvc.BindCategorySpecs(ctx.Request.Context(), id, req.IDs); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

// ==================== 计量单位 ====================

// ListUnits 计量单位列表
func (c *CatalogController) ListUnits(ctx *gin.Context) {
	units, err := c.catalogSvc.ListUnits(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, units)
}

// SaveUnit 新增/更新计量单位
func (c *CatalogController) SaveUnit(ctx *gin.Context) {
	var unit model.GoodsUnit
	if err := ctx.ShouldBindJSON(&unit); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.catalogSvc.SaveUnit(ctx.Request.Context(), &unit); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, unit)
}

// DeleteUnit 删除计量单位
func (c *CatalogController) DeleteUnit(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.catalogSvc.DeleteUnit(ctx.Request.Context(), id); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}
