package service

import (
	"fmt"

	"gitee.com/czyczk/learnledger/internal/models/common"
	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
)

// ServiceError 为带有名称与类别的服务层错误。名称相同的 ServiceError 被 errors.Is 视为同一错误。
type ServiceError struct {
	Name   string
	kind   errorcode.Kind
	Detail string
	Err    error
}

func newServiceError(name string, kind errorcode.Kind, detail string) *ServiceError {
	return &ServiceError{Name: name, kind: kind, Detail: detail}
}

// WithDetail 返回一个带有更具体描述与原因的同名错误
func (e *ServiceError) WithDetail(detail string, cause error) *ServiceError {
	return &ServiceError{Name: e.Name, kind: e.kind, Detail: detail, Err: cause}
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Detail, e.Err)
	}

	return e.Detail
}

func (e *ServiceError) Kind() errorcode.Kind { return e.kind }
func (e *ServiceError) Unwrap() error        { return e.Err }

func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	return ok && t.Name == e.Name
}

var (
	ErrInvalidContent    = newServiceError("InvalidContent", errorcode.KindInvalidInput, "内容不能为空")
	ErrInvalidAmount     = newServiceError("InvalidAmount", errorcode.KindInvalidInput, "金额必须大于 0")
	ErrInvalidArgument   = newServiceError("InvalidArgument", errorcode.KindInvalidInput, "参数不合法")
	ErrAlreadyPurchased  = newServiceError("AlreadyPurchased", errorcode.KindInvalidInput, "已购买该资源")
	ErrContentNotFound   = newServiceError("ContentNotFound", errorcode.KindNotFound, "账本上不存在该文件")
	ErrResourceNotFound  = newServiceError("ResourceNotFound", errorcode.KindNotFound, "资源不存在")
	ErrUnauthorized      = newServiceError("Unauthorized", errorcode.KindUnauthorized, "无权访问该资源")
	ErrIntegrityMismatch = newServiceError("IntegrityMismatch", errorcode.KindInternal, "获取的资源与记录不一致")
)

// InsufficientFundsError 表示预检时账户余额不足
type InsufficientFundsError struct {
	AccountID string
	Balance   uint64
	Required  uint64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("账户 '%v' 余额不足: 余额 %d，至少需要 %d", e.AccountID, e.Balance, e.Required)
}

func (e *InsufficientFundsError) Kind() errorcode.Kind { return errorcode.KindInsufficientFunds }

// ReceiptError 表示交易被受理但回执状态非成功
type ReceiptError struct {
	TxType        ledger.TransactionType
	TransactionID string
	Status        ledger.ReceiptStatus
}

func (e *ReceiptError) Error() string {
	return fmt.Sprintf("%v 交易 '%v' 失败: %v", e.TxType, e.TransactionID, e.Status)
}

func (e *ReceiptError) Kind() errorcode.Kind { return errorcode.KindRemoteRejected }

// ChunkAppendFailedError 表示某一块内容未能追加到文件。已追加的部分留在账本上。
type ChunkAppendFailedError struct {
	FileID        string
	Offset        int
	TransactionID string
	Status        ledger.ReceiptStatus // 未获得回执时为空
	Err           error                // 未获得回执的原因
}

func (e *ChunkAppendFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("文件 '%v' 起始于 %d 的块追加失败: %v", e.FileID, e.Offset, e.Err)
	}

	return fmt.Sprintf("文件 '%v' 起始于 %d 的块追加失败: %v (交易 '%v')", e.FileID, e.Offset, e.Status, e.TransactionID)
}

func (e *ChunkAppendFailedError) Kind() errorcode.Kind {
	if e.Err != nil {
		return errorcode.KindOf(e.Err)
	}

	return errorcode.KindRemoteRejected
}

func (e *ChunkAppendFailedError) Unwrap() error { return e.Err }

// TransferFailedError 表示转账被账本拒绝或回执状态非成功
type TransferFailedError struct {
	TransactionID string
	Status        ledger.ReceiptStatus
	Reason        string
}

func (e *TransferFailedError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("转账 '%v' 被拒绝: %v", e.TransactionID, e.Reason)
	}

	return fmt.Sprintf("转账 '%v' 失败: %v", e.TransactionID, e.Status)
}

func (e *TransferFailedError) Kind() errorcode.Kind { return errorcode.KindRemoteRejected }

// SettlementError 表示转账过程中出现传输或序列化错误，转账结果未知
type SettlementError struct {
	TransactionID string // 交易已构造时给出，可用于对账
	Err           error
}

func (e *SettlementError) Error() string {
	if e.TransactionID != "" {
		return fmt.Sprintf("转账 '%v' 结果未知: %v", e.TransactionID, e.Err)
	}

	return fmt.Sprintf("转账失败: %v", e.Err)
}

func (e *SettlementError) Kind() errorcode.Kind {
	if errorcode.KindOf(e.Err) == errorcode.KindTimeout {
		return errorcode.KindTimeout
	}

	return errorcode.KindNetworkError
}

func (e *SettlementError) Unwrap() error { return e.Err }

// PartialPublicationError 表示发布在完成了部分账本操作后中止。已创建的文件或代币未被回收。
type PartialPublicationError struct {
	CompletedSteps []common.PublicationStep
	FailedStep     common.PublicationStep
	FileID         string
	TokenID        string
	Err            error
}

func (e *PartialPublicationError) Error() string {
	return fmt.Sprintf("发布在进入 %v 时失败，已完成 %v: %v", e.FailedStep, e.CompletedSteps, e.Err)
}

func (e *PartialPublicationError) Kind() errorcode.Kind { return errorcode.KindPartialPublication }
func (e *PartialPublicationError) Unwrap() error        { return e.Err }

// UnrecordedPurchaseError 表示转账已成功但购买记录未能保存，需凭交易 ID 补录
type UnrecordedPurchaseError struct {
	ResourceID    string
	BuyerID       string
	TransactionID string
	Err           error
}

func (e *UnrecordedPurchaseError) Error() string {
	return fmt.Sprintf("转账 '%v' 已成功，但无法保存资源 '%v' 的购买记录: %v", e.TransactionID, e.ResourceID, e.Err)
}

func (e *UnrecordedPurchaseError) Kind() errorcode.Kind { return errorcode.KindInternal }
func (e *UnrecordedPurchaseError) Unwrap() error        { return e.Err }
