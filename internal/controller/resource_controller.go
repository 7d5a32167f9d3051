package controller

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"gitee.com/czyczk/learnledger/internal/service"
	"github.com/gin-gonic/gin"
)

// DefaultMaxUploadSize 为上传资源的默认大小上限（10 MiB）
const DefaultMaxUploadSize = 10 << 20

// A ResourceController contains a group name and the services it relies on. It also implements the interface `Controller`.
type ResourceController struct {
	GroupName     string
	ResourceSvc   service.ResourceServiceInterface
	AccessSvc     service.AccessServiceInterface
	MaxUploadSize int64
}

// GetGroupName returns the group name.
func (rc *ResourceController) GetGroupName() string {
	return rc.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the API endpoints and handlers which are defined and managed by ResourceController.
func (rc *ResourceController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"", "POST"}:             []gin.HandlerFunc{rc.handlePublishResource},
		urlMethodPair{"", "GET"}:              []gin.HandlerFunc{rc.handleListResources},
		urlMethodPair{":id", "GET"}:           []gin.HandlerFunc{rc.handleGetResource},
		urlMethodPair{":id/access", "GET"}:    []gin.HandlerFunc{rc.handleCheckAccess},
		urlMethodPair{":id/download", "GET"}:  []gin.HandlerFunc{rc.handleDownloadResource},
		urlMethodPair{":id/purchase", "POST"}: []gin.HandlerFunc{rc.handlePurchaseResource},
	}
}

func (rc *ResourceController) maxUploadSize() int64 {
	if rc.MaxUploadSize <= 0 {
		return DefaultMaxUploadSize
	}

	return rc.MaxUploadSize
}

func (rc *ResourceController) handlePublishResource(c *gin.Context) {
	// Validity check
	pel := &ParameterErrorList{}

	ownerID := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("ownerId"), "所有者 ID 不能为空。")
	price := pel.AppendIfNotUint64(c.PostForm("price"), "价格应为非负整数。")
	title := strings.TrimSpace(c.PostForm("title"))
	subject := strings.TrimSpace(c.PostForm("subject"))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		*pel = append(*pel, "未上传文件。")
	} else {
		if strings.ToLower(filepath.Ext(fileHeader.Filename)) != ".pdf" {
			*pel = append(*pel, "仅支持 PDF 文件。")
		}
		if fileHeader.Size > rc.maxUploadSize() {
			*pel = append(*pel, fmt.Sprintf("文件大小不能超过 %d 字节。", rc.maxUploadSize()))
		}
	}

	// Early return if there's parameter error
	if len(*pel) != 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &ParameterErrorList{"无法读取上传的文件。"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, rc.maxUploadSize()+1))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &ParameterErrorList{"无法读取上传的文件。"})
		return
	}

	resource, err := rc.ResourceSvc.Publish(c.Request.Context(), &service.PublishRequest{
		Content: content,
		Title:   title,
		Subject: subject,
		Price:   price,
		OwnerID: ownerID,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, &PublicationInfo{
		ResourceID: resource.ID,
		FileID:     resource.FileID,
		TokenID:    resource.TokenID,
	})
}

func (rc *ResourceController) handleListResources(c *gin.Context) {
	resources, err := rc.ResourceSvc.ListResources(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resources)
}

func (rc *ResourceController) handleGetResource(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "资源 ID 不能为空。")
	if len(*pel) != 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	resource, err := rc.ResourceSvc.GetResource(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource)
}

// requesterOf 从查询参数或请求头获取请求者 ID
func requesterOf(c *gin.Context) string {
	if requesterID := strings.TrimSpace(c.Query("requesterId")); requesterID != "" {
		return requesterID
	}

	return strings.TrimSpace(c.GetHeader("X-Requester-ID"))
}

func (rc *ResourceController) handleCheckAccess(c *gin.Context) {
	requesterID := requesterOf(c)
	if requesterID == "" {
		abortWithMissingRequester(c)
		return
	}

	authorized, err := rc.AccessSvc.Authorize(c.Request.Context(), c.Param("id"), requesterID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, &AccessInfo{Authorized: authorized})
}

func (rc *ResourceController) handleDownloadResource(c *gin.Context) {
	requesterID := requesterOf(c)
	if requesterID == "" {
		abortWithMissingRequester(c)
		return
	}

	resource, content, err := rc.ResourceSvc.Download(c.Request.Context(), c.Param("id"), requesterID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resource.Title+".pdf"))
	c.Data(http.StatusOK, "application/pdf", content)
}

func (rc *ResourceController) handlePurchaseResource(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "资源 ID 不能为空。")
	senderID := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("senderId"), "付款方 ID 不能为空。")
	senderKey := pel.AppendIfNotPrivateKey(c.PostForm("senderKey"), "付款方私钥不合法。")
	if len(*pel) != 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	record, err := rc.ResourceSvc.Purchase(c.Request.Context(), &service.PurchaseRequest{
		ResourceID: id,
		BuyerID:    senderID,
		BuyerKey:   senderKey,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, &PurchaseInfo{ResourceID: record.ResourceID, TransactionID: record.TransactionID})
}
