package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 业务错误
// Code 是对外的业务错误码字符串（前端据此判断），Message 是提示信息，
// Err 是内部原因，只进日志，永远不返回给客户端。
type AppError struct {
	Status  int    `json:"-"`       // HTTP 状态码
	Code    string `json:"code"`    // 业务错误码
	Message string `json:"message"` // 提示信息
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 支持 errors.Is / errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建业务错误
func New(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// BadRequest 400 类业务错误，message 直接用错误码
func BadRequest(code string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: code, Message: code}
}

// Wrap 包装底层错误（数据库、网络等），对外统一为 INTERNAL_ERROR
func Wrap(err error, message string) *AppError {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: message,
		Err:     err,
	}
}

// ==================== 错误码定义 ====================

const (
	CodeInternal      = "INTERNAL_ERROR"
	CodeInvalidParams = "INVALID_PARAMS"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"

	CodeCategoryNotExist       = "CATEGORY_NOT_EXIST"
	CodeCategoryParentNotExist = "CATEGORY_PARENT_NOT_EXIST"
	CodeCategoryBeyondThree    = "CATEGORY_BEYOND_THREE"
	CodeCategoryHasChildren    = "CATEGORY_HAS_CHILDREN"
	CodeCategoryHasGoods       = "CATEGORY_HAS_GOODS"
	CodeBrandHasCategory       = "BRAND_HAS_CATEGORY"

	CodeGoodsNotExist       = "GOODS_NOT_EXIST"
	CodeSkuNotExist         = "SKU_NOT_EXIST"
	CodeGoodsStockNotEnough = "GOODS_STOCK_NOT_ENOUGH"

	CodeOrderNotExist        = "ORDER_NOT_EXIST"
	CodeOrderAlreadyCanceled = "ORDER_ALREADY_CANCELLED"

	CodeStoreNotExist      = "STORE_NOT_EXIST"
	CodeStoreAlreadyExists = "STORE_ALREADY_APPLIED"

	CodeUserExist     = "USER_EXIST"
	CodeUserNotExist  = "USER_NOT_EXIST"
	CodePasswordError = "PASSWORD_ERROR"

	CodeEvaluationNotExist = "EVALUATION_NOT_EXIST"
)

// ==================== 预定义错误 ====================

var (
	ErrInternal      = New(http.StatusInternalServerError, CodeInternal, "系统内部错误")
	ErrInvalidParams = New(http.StatusBadRequest, CodeInvalidParams, "参数错误")
	ErrUnauthorized  = New(http.StatusUnauthorized, CodeUnauthorized, "请先登录")
	ErrForbidden     = New(http.StatusForbidden, CodeForbidden, "无权限访问")

	ErrCategoryNotExist       = BadRequest(CodeCategoryNotExist)
	ErrCategoryParentNotExist = BadRequest(CodeCategoryParentNotExist)
	ErrCategoryBeyondThree    = BadRequest(CodeCategoryBeyondThree)
	ErrCategoryHasChildren    = BadRequest(CodeCategoryHasChildren)
	ErrCategoryHasGoods       = BadRequest(CodeCategoryHasGoods)
	ErrBrandHasCategory       = BadRequest(CodeBrandHasCategory)

	ErrGoodsNotExist       = New(http.StatusNotFound, CodeGoodsNotExist, "商品不存在")
	ErrSkuNotExist         = New(http.StatusNotFound, CodeSkuNotExist, "商品规格不存在")
	ErrGoodsStockNotEnough = New(http.StatusBadRequest, CodeGoodsStockNotEnough, "商品库存不足")

	ErrOrderNotExist        = New(http.StatusNotFound, CodeOrderNotExist, "订单不存在")
	ErrOrderAlreadyCanceled = BadRequest(CodeOrderAlreadyCanceled)

	ErrStoreNotExist      = New(http.StatusNotFound, CodeStoreNotExist, "店铺不存在")
	ErrStoreAlreadyExists = BadRequest(CodeStoreAlreadyExists)

	ErrUserExist     = BadRequest(CodeUserExist)
	ErrUserNotExist  = New(http.StatusNotFound, CodeUserNotExist, "用户不存在")
	ErrPasswordError = BadRequest(CodePasswordError)

	ErrEvaluationNotExist = New(http.StatusNotFound, CodeEvaluationNotExist, "评价不存在")
)

// AsAppError 提取 AppError，非 AppError 一律包装为内部错误
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}
