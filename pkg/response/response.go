package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vendorvault/pkg/errs"
	"vendorvault/pkg/logger"
)

// Response 统一响应结构
// 字段与前端约定保持一致：success/message/code/result
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    interface{} `json:"code"` // 成功为 200，失败为业务错误码字符串
	Result  interface{} `json:"result,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, result interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "success",
		Code:    200,
		Result:  result,
	})
}

// Error 错误响应，内部错误只进日志，不回显给客户端
func Error(c *gin.Context, err error) {
	appErr := errs.AsAppError(err)
	if appErr.Err != nil {
		logger.Errorf("%s %s 处理失败: %v", c.Request.Method, c.Request.URL.Path, appErr.Err)
	}

	c.JSON(appErr.Status, Response{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
	})
}

// ==================== 分页 ====================

// Page 分页结果
type Page struct {
	Records interface{} `json:"records"`
	Total   int64       `json:"total"`
	Size    int         `json:"size"`
	Current int         `json:"current"`
	Pages   int64       `json:"pages"`
}

// NewPage 创建分页结果
func NewPage(records interface{}, total int64, current, size int) *Page {
	if size <= 0 {
		size = 10
	}
	pages := total / int64(size)
	if total%int64(size) != 0 {
		pages++
	}
	return &Page{
		Records: records,
		Total:   total,
		Size:    size,
		Current: current,
		Pages:   pages,
	}
}
