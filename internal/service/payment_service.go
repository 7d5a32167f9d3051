package service

import (
	"context"
	"math"
	"strings"

	"gitee.com/czyczk/learnledger/internal/models/common"
	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/ledgertx"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/pkg/errors"
	"github.com/tjfoc/gmsm/sm2"
)

// PaymentMemo 为结算转账的备注
const PaymentMemo = "Payment for Resource Purchase"

// PaymentService 执行两方转账。
type PaymentService struct {
	ServiceInfo *Info
}

// Transfer 从付款方向收款方转账，两条记账腿在同一交易中原子地执行。
//
// 参数：
//   付款方账户 ID
//   付款方私钥
//   收款方账户 ID
//   金额
//
// 返回：
//   转账回执
func (s *PaymentService) Transfer(ctx context.Context, senderID string, senderKey *sm2.PrivateKey, recipientID string, amount uint64) (*common.TransferReceipt, error) {
	if amount == 0 || amount > math.MaxInt64 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(senderID) == "" || strings.TrimSpace(recipientID) == "" {
		return nil, ErrInvalidArgument.WithDetail("付款方与收款方不能为空", nil)
	}
	if senderID == recipientID {
		return nil, ErrInvalidArgument.WithDetail("付款方与收款方不能相同", nil)
	}
	if senderKey == nil {
		return nil, ErrInvalidArgument.WithDetail("付款方私钥不能为空", nil)
	}

	fee := s.ServiceInfo.Params.Fees.CryptoTransfer
	required := amount + fee
	if required < amount {
		return nil, ErrInvalidAmount
	}

	balance, err := s.ServiceInfo.LedgerBCAO.QueryBalance(ctx, senderID)
	if err != nil {
		if errors.Is(err, errorcode.ErrorNotFound) {
			return nil, ErrInvalidArgument.WithDetail("付款方账户 '"+senderID+"' 不存在", err)
		}
		return nil, &SettlementError{Err: err}
	}
	if balance < required {
		return nil, &InsufficientFundsError{AccountID: senderID, Balance: balance, Required: required}
	}

	tx := ledgertx.NewTransaction(ledger.CryptoTransfer, senderID, fee)
	tx.Memo = PaymentMemo
	tx.Transfer = &ledger.TransferBody{Transfers: []ledger.AccountAmount{
		{AccountID: senderID, Amount: -int64(amount)},
		{AccountID: recipientID, Amount: int64(amount)},
	}}

	receipt, err := signAndSubmit(ctx, s.ServiceInfo, tx, senderKey)
	if err != nil {
		if errorcode.KindOf(err) == errorcode.KindRemoteRejected {
			return nil, &TransferFailedError{TransactionID: tx.TransactionID, Reason: err.Error()}
		}
		return nil, &SettlementError{TransactionID: tx.TransactionID, Err: err}
	}

	if !receipt.Status.IsSuccess() {
		return nil, &TransferFailedError{TransactionID: receipt.TransactionID, Status: receipt.Status}
	}

	return &common.TransferReceipt{
		TransactionID: receipt.TransactionID,
		Status:        string(receipt.Status),
		Timestamp:     receipt.ConsensusTimestamp,
	}, nil
}
