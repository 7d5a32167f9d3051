package controller

import "gitee.com/czyczk/learnledger/internal/models/common"

// PublicationInfo 包含资源成功发布时应该返回给客户端的信息
type PublicationInfo struct {
	ResourceID string `json:"resourceId"`
	FileID     string `json:"fileId"`
	TokenID    string `json:"tokenId"`
}

// AccessInfo 为访问权限的判断结果
type AccessInfo struct {
	Authorized bool `json:"authorized"`
}

// PurchaseInfo 包含资源成功购买时应该返回给客户端的信息
type PurchaseInfo struct {
	ResourceID    string `json:"resourceId"`
	TransactionID string `json:"transactionId"`
}

// TransactionInfo 包含交易成功时应该返回给客户端的信息
type TransactionInfo struct {
	TransactionID string `json:"transactionId"`
}

// ErrorInfo 为请求失败时返回给客户端的信息
type ErrorInfo struct {
	Kind           string                   `json:"kind"`
	Detail         string                   `json:"detail"`
	TransactionID  string                   `json:"transactionId,omitempty"`
	CompletedSteps []common.PublicationStep `json:"completedSteps,omitempty"`
}
