package controller

import (
	"github.com/gin-gonic/gin"

	"vendorvault/internal/service"
	"vendorvault/pkg/errs"
	"vendorvault/pkg/response"
)

// UploadController 文件上传接口
type UploadController struct {
	storageSvc *service.StorageService
}

// NewUploadController 创建文件上传接口
func NewUploadController(storageSvc *service.StorageService) *UploadController {
	return &UploadController{storageSvc: storageSvc}
}

// Upload 上传文件到对象存储，返回可访问 URL
func (c *UploadController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(ctx, errs.Wrap(err, "读取上传文件失败"))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := c.storageSvc.Upload(ctx.Request.Context(), file, fileHeader.Filename, contentType)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, gin.H{"url": url})
}
