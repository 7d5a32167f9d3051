package controller

import (
	"net/http"
	"strings"

	"gitee.com/czyczk/learnledger/internal/service"
	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var kindToStatus = map[errorcode.Kind]int{
	errorcode.KindInvalidInput:       http.StatusBadRequest,
	errorcode.KindInsufficientFunds:  http.StatusBadRequest,
	errorcode.KindUnauthorized:       http.StatusForbidden,
	errorcode.KindNotFound:           http.StatusNotFound,
	errorcode.KindRemoteRejected:     http.StatusBadGateway,
	errorcode.KindNetworkError:       http.StatusBadGateway,
	errorcode.KindTimeout:            http.StatusGatewayTimeout,
	errorcode.KindPartialPublication: http.StatusInternalServerError,
	errorcode.KindInternal:           http.StatusInternalServerError,
}

// 以下类别的错误链中含有账本地址、函数名等内部信息，只向客户端返回固定的说明。
var kindToFixedDetail = map[errorcode.Kind]string{
	errorcode.KindRemoteRejected:     "账本拒绝了该交易。",
	errorcode.KindNetworkError:       "无法连接账本网络，操作结果未知。",
	errorcode.KindTimeout:            "等待账本响应超时，操作结果未知。",
	errorcode.KindPartialPublication: "资源发布中途失败，已完成的步骤见 completedSteps。",
	errorcode.KindInternal:           "服务器内部错误。",
}

// newErrorInfo 从错误链中提取返回给客户端的信息。完整的错误链只写入服务端日志。
func newErrorInfo(err error) (int, *ErrorInfo) {
	kind := errorcode.KindOf(err)
	status, ok := kindToStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	detail, ok := kindToFixedDetail[kind]
	if !ok {
		detail = stripErrorCode(err.Error())
	}
	info := &ErrorInfo{Kind: string(kind), Detail: detail, TransactionID: transactionIDOf(err)}

	var partialErr *service.PartialPublicationError
	if errors.As(err, &partialErr) {
		info.CompletedSteps = partialErr.CompletedSteps
	}

	return status, info
}

// stripErrorCode 去掉错误信息末尾的 `: ~CODE~` 部分。
func stripErrorCode(msg string) string {
	if i := strings.LastIndex(msg, ": ~"); i >= 0 && strings.HasSuffix(msg, "~") {
		return msg[:i]
	}

	return msg
}

func transactionIDOf(err error) string {
	var receiptErr *service.ReceiptError
	var appendErr *service.ChunkAppendFailedError
	var transferErr *service.TransferFailedError
	var settlementErr *service.SettlementError
	var unrecordedErr *service.UnrecordedPurchaseError

	switch {
	case errors.As(err, &unrecordedErr):
		return unrecordedErr.TransactionID
	case errors.As(err, &transferErr):
		return transferErr.TransactionID
	case errors.As(err, &settlementErr):
		return settlementErr.TransactionID
	case errors.As(err, &appendErr):
		return appendErr.TransactionID
	case errors.As(err, &receiptErr):
		return receiptErr.TransactionID
	default:
		return ""
	}
}

// abortWithError 按错误类别写入状态码与错误信息。
func abortWithError(c *gin.Context, err error) {
	status, info := newErrorInfo(err)
	if status >= http.StatusInternalServerError {
		log.WithField("requestId", c.GetString(requestIDKey)).Errorf("请求失败: %v", err)
	} else {
		log.WithField("requestId", c.GetString(requestIDKey)).Debugf("请求失败: %v", err)
	}

	c.AbortWithStatusJSON(status, info)
}

// abortWithMissingRequester 在请求未指明请求者时返回 401。
func abortWithMissingRequester(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, &ErrorInfo{
		Kind:   string(errorcode.KindUnauthorized),
		Detail: "未指明请求者。",
	})
}
