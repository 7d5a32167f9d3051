package controller

import (
	"net/http"
	"strings"

	"gitee.com/czyczk/learnledger/internal/service"
	"github.com/gin-gonic/gin"
)

// A PaymentController contains a group name and the services it relies on. It also implements the interface `Controller`.
type PaymentController struct {
	GroupName   string
	PaymentSvc  service.PaymentServiceInterface
	ResourceSvc service.ResourceServiceInterface
}

// GetGroupName returns the group name.
func (pc *PaymentController) GetGroupName() string {
	return pc.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the API endpoints and handlers which are defined and managed by PaymentController.
func (pc *PaymentController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"", "POST"}: []gin.HandlerFunc{pc.handleTransfer},
	}
}

// handleTransfer 执行转账。指定了资源 ID 时按购买处理，转账成功后保存购买记录。
func (pc *PaymentController) handleTransfer(c *gin.Context) {
	pel := &ParameterErrorList{}
	senderID := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("senderId"), "付款方 ID 不能为空。")
	senderKey := pel.AppendIfNotPrivateKey(c.PostForm("senderKey"), "付款方私钥不合法。")
	recipientID := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("recipientId"), "收款方 ID 不能为空。")
	amount := pel.AppendIfNotUint64(c.PostForm("amount"), "金额应为正整数。")
	resourceID := strings.TrimSpace(c.PostForm("resourceId"))
	if len(*pel) != 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	if resourceID != "" {
		record, err := pc.ResourceSvc.Purchase(c.Request.Context(), &service.PurchaseRequest{
			ResourceID:  resourceID,
			BuyerID:     senderID,
			BuyerKey:    senderKey,
			RecipientID: recipientID,
			Amount:      amount,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, &TransactionInfo{TransactionID: record.TransactionID})
		return
	}

	receipt, err := pc.PaymentSvc.Transfer(c.Request.Context(), senderID, senderKey, recipientID, amount)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, &TransactionInfo{TransactionID: receipt.TransactionID})
}
